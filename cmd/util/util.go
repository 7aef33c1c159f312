package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/db"
	badgerengine "github.com/snnfw/neurostore/lib/db/engines/badger"
	"github.com/snnfw/neurostore/lib/db/engines/memory"
	"github.com/snnfw/neurostore/lib/serializer"
	"github.com/snnfw/neurostore/lib/store"
	"github.com/snnfw/neurostore/lib/store/ostore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the common datastore flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "path"
	cmd.PersistentFlags().String(key, "./neurostore-data", WrapString("Directory for the database files (ignored for the memory engine)"))

	key = "cache-size"
	cmd.PersistentFlags().Int(key, 10000, WrapString("Maximum number of objects kept in the cache"))

	key = "engine"
	cmd.PersistentFlags().String(key, "badger", WrapString("Database engine to use (badger, memory)"))

	key = "sync-writes"
	cmd.PersistentFlags().Bool(key, false, WrapString("Fsync every database write (slower, safer; badger only)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("neurostore")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetLogLevel reads the configured log level
func GetLogLevel() (common.LogLevel, error) {
	return common.ParseLogLevel(viper.GetString("log-level"))
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.ISerializer, error) {
	return serializer.GetSerializer(viper.GetString("serializer"))
}

// GetEngine creates a database engine based on configuration
func GetEngine(level common.LogLevel) (db.KVDB, error) {
	switch viper.GetString("engine") {
	case "badger":
		opts := badgerengine.DefaultOptions(viper.GetString("path"))
		opts.SyncWrites = viper.GetBool("sync-writes")
		opts.Logger = common.CreateLoggerWithWriter("db.badger", os.Stderr, level)
		return badgerengine.NewBadgerDB(opts)
	case "memory":
		return memory.NewMemoryDB(nil), nil
	default:
		return nil, fmt.Errorf("invalid engine %s", viper.GetString("engine"))
	}
}

// OpenStore creates the object store from the current configuration
func OpenStore() (store.IObjectStore, error) {
	level, err := GetLogLevel()
	if err != nil {
		return nil, err
	}

	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}

	engine, err := GetEngine(level)
	if err != nil {
		return nil, err
	}

	opts := ostore.StoreOptions{
		Capacity:   viper.GetInt("cache-size"),
		Serializer: s,
		Logger:     common.CreateLoggerWithWriter("store", os.Stderr, level),
	}

	return ostore.NewObjectStore(func() db.KVDB { return engine }, opts)
}
