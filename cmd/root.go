package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snnfw/neurostore/cmd/importer"
	"github.com/snnfw/neurostore/cmd/objects"
	"github.com/snnfw/neurostore/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "neurostore",
		Short: "object store for spiking neural networks",
		Long: fmt.Sprintf(`neurostore (v%s)

A write-back cached object store for spiking neural network models,
keeping neurons, axons, dendrites, synapses and clusters in an embedded
database behind a bounded LRU cache.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of neurostore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("neurostore v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(objects.ObjectCommands)
	RootCmd.AddCommand(importer.ImportCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
