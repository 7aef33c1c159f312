package importer

import (
	"github.com/spf13/cobra"

	"github.com/snnfw/neurostore/cmd/util"
	"github.com/snnfw/neurostore/lib/store"
)

var (
	objStore store.IObjectStore

	// ImportCommands represents the import command group
	ImportCommands = &cobra.Command{
		Use:                "import",
		Short:              "Import and export neuron positions",
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common datastore flags to the import command
	util.SetupStoreFlags(ImportCommands)

	// Add flags shared by the csv and swc subcommands
	key := "create-missing"
	ImportCommands.PersistentFlags().Bool(key, false, util.WrapString("Create neurons that are not in the store yet"))
	key = "scale"
	ImportCommands.PersistentFlags().Float64(key, 1.0, util.WrapString("Scale factor applied to imported positions"))
	key = "offset-x"
	ImportCommands.PersistentFlags().Float64(key, 0, util.WrapString("Offset added to the x coordinate after scaling"))
	key = "offset-y"
	ImportCommands.PersistentFlags().Float64(key, 0, util.WrapString("Offset added to the y coordinate after scaling"))
	key = "offset-z"
	ImportCommands.PersistentFlags().Float64(key, 0, util.WrapString("Offset added to the z coordinate after scaling"))

	// Add subcommands
	ImportCommands.AddCommand(csvCmd)
	ImportCommands.AddCommand(swcCmd)
	ImportCommands.AddCommand(exportCmd)
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
