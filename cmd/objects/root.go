package objects

import (
	"github.com/spf13/cobra"

	"github.com/snnfw/neurostore/cmd/util"
	"github.com/snnfw/neurostore/lib/store"
)

var (
	objStore store.IObjectStore

	// ObjectCommands represents the objects command group
	ObjectCommands = &cobra.Command{
		Use:                "objects",
		Short:              "Perform object store operations",
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common datastore flags to the objects command
	util.SetupStoreFlags(ObjectCommands)

	// Add subcommands
	ObjectCommands.AddCommand(getCmd)
	ObjectCommands.AddCommand(putCmd)
	ObjectCommands.AddCommand(hasCmd)
	ObjectCommands.AddCommand(createNeuronCmd)
	ObjectCommands.AddCommand(setPositionCmd)
	ObjectCommands.AddCommand(delCmd)
	ObjectCommands.AddCommand(flushCmd)
	ObjectCommands.AddCommand(statsCmd)
	ObjectCommands.AddCommand(infoCmd)
	ObjectCommands.AddCommand(perfTestCmd)
}

// setupStore opens the object store from the configuration
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	objStore, err = util.OpenStore()
	return err
}

// teardownStore flushes dirty objects and closes the store
func teardownStore(_ *cobra.Command, _ []string) error {
	if objStore == nil {
		return nil
	}
	return objStore.Close()
}
