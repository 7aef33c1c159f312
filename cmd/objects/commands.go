package objects

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snnfw/neurostore/lib/model"
	"github.com/snnfw/neurostore/lib/serializer"
)

// parseID parses a command line argument as an object ID
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	return id, nil
}

var (
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads an object and prints it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			obj, loaded, err := objStore.Get(id)
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Printf("object %d not found\n", id)
				return nil
			}

			data, err := json.MarshalIndent(obj, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [json]",
		Short: "Stores an object given as JSON (the \"type\" field selects the object type)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(args[0])

			var probe struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(payload, &probe); err != nil {
				return fmt.Errorf("invalid JSON: %w", err)
			}

			registry := serializer.NewRegistry()
			serializer.RegisterDefaults(registry)

			factory, ok := registry.Lookup(probe.Type)
			if !ok {
				return fmt.Errorf("unknown object type %q", probe.Type)
			}

			obj, err := factory(payload)
			if err != nil {
				return err
			}

			if err := objStore.Put(obj); err != nil {
				return err
			}
			fmt.Printf("stored %s %d\n", obj.ObjectType(), obj.ObjectID())
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [id]",
		Short: "Checks whether an object exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			_, loaded, err := objStore.Get(id)
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", loaded)
			return nil
		},
	}
	createNeuronCmd = &cobra.Command{
		Use:   "create-neuron [id] [windowSize] [threshold] [maxPatterns]",
		Short: "Creates a neuron with the given parameters",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			windowSize, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("windowSize must be a number: %w", err)
			}
			threshold, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("threshold must be a number: %w", err)
			}
			maxPatterns, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("maxPatterns must be a number: %w", err)
			}

			if err := objStore.Put(model.NewNeuron(id, windowSize, threshold, maxPatterns)); err != nil {
				return err
			}
			fmt.Printf("created neuron %d\n", id)
			return nil
		},
	}
	setPositionCmd = &cobra.Command{
		Use:   "set-position [id] [x] [y] [z]",
		Short: "Sets the 3D position of a neuron",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			z, errZ := strconv.ParseFloat(args[3], 64)
			if errX != nil || errY != nil || errZ != nil {
				return fmt.Errorf("position values must be numbers")
			}

			neuron, loaded, err := objStore.GetNeuron(id)
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Printf("neuron %d not found\n", id)
				return nil
			}

			neuron.SetPosition(x, y, z)
			if err := objStore.Put(neuron); err != nil {
				return err
			}
			fmt.Printf("set position of neuron %d to (%g, %g, %g)\n", id, x, y, z)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [id]",
		Short: "Deletes an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := objStore.Remove(id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("object %d not found\n", id)
				return nil
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	flushCmd = &cobra.Command{
		Use:   "flush",
		Short: "Writes all dirty cached objects to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flushed, err := objStore.FlushAll()
			if err != nil {
				return err
			}
			fmt.Printf("flushed %d object(s)\n", flushed)
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints cache statistics and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := objStore.GetStats()
			fmt.Printf("cache: %d/%d objects\n", objStore.Size(), objStore.Capacity())
			fmt.Printf("hits: %d, misses: %d, hit rate: %.2f%%\n",
				stats.Hits, stats.Misses, stats.HitRate()*100)

			fmt.Println()
			objStore.WriteMetrics(os.Stdout)
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints metadata about the underlying database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := objStore.GetDBInfo()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
)
