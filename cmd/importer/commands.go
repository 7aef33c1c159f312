package importer

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snnfw/neurostore/lib/importer"
)

// configFromFlags builds the import configuration from the bound flags
func configFromFlags() importer.Config {
	cfg := importer.DefaultConfig()
	cfg.CreateMissingNeurons = viper.GetBool("create-missing")
	cfg.PositionScale = viper.GetFloat64("scale")
	cfg.OffsetX = viper.GetFloat64("offset-x")
	cfg.OffsetY = viper.GetFloat64("offset-y")
	cfg.OffsetZ = viper.GetFloat64("offset-z")
	return cfg
}

// printResult prints the statistics of one import run
func printResult(result importer.Result) {
	fmt.Printf("positions set: %d\n", result.PositionsSet)
	fmt.Printf("neurons created: %d\n", result.NeuronsCreated)
	fmt.Printf("lines skipped: %d\n", result.Skipped)
}

var csvCmd = &cobra.Command{
	Use:   "csv [file]",
	Short: "Import neuron positions from a CSV file (neuron_id,x,y,z)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		imp := importer.NewImporter(objStore)

		result, err := imp.ImportCSVFile(args[0], configFromFlags())
		if err != nil {
			return err
		}

		printResult(result)
		return nil
	},
}

var swcCmd = &cobra.Command{
	Use:   "swc [file]",
	Short: "Import neuron positions from an SWC morphology file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		imp := importer.NewImporter(objStore)

		result, err := imp.ImportSWCFile(args[0], configFromFlags())
		if err != nil {
			return err
		}

		printResult(result)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file] [neuronID...]",
	Short: "Export neuron positions to a CSV file",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ids := make([]uint64, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid neuron ID %q: %v", arg, err)
			}
			ids = append(ids, id)
		}

		file, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("could not create %q: %v", args[0], err)
		}
		defer file.Close()

		imp := importer.NewImporter(objStore)
		if err := imp.ExportCSV(file, ids); err != nil {
			return err
		}

		fmt.Printf("exported %d neuron(s) to %s\n", len(ids), args[0])
		return nil
	},
}
