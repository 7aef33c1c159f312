package db

import "io"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplBadger Implementation = "badger"
	ImplMemory Implementation = "memory"
)

// Feature represents database features as bit flags
type Feature uint64

const (
	FeatureSet            Feature = 1 << iota // Support for Set operations
	FeatureGet                                // Support for Get operations
	FeatureDelete                             // Support for Delete operations
	FeatureHas                                // Support for Has operations
	FeatureSync                               // Support for Sync operations
	FeatureSave                               // Support for Save operations
	FeatureLoad                               // Support for Load operations
	FeatureGarbageCollect                     // Support for GarbageCollect operations
	FeatureDurable                            // Data survives Close/reopen without Save/Load
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureHas:
		return "Has"
	case FeatureSync:
		return "Sync"
	case FeatureSave:
		return "Save"
	case FeatureLoad:
		return "Load"
	case FeatureGarbageCollect:
		return "GarbageCollect"
	case FeatureDurable:
		return "Durable"
	default:
		return "Unknown"
	}
}

type DatabaseInfo struct {
	SizeBytes         int            `json:"size_bytes"`
	EntryCount        int64          `json:"entry_count"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines an interface for embedded key-value engine implementations.
// Keys are opaque byte slices; the caller is responsible for a stable key
// encoding. All operations return an error so that engines backed by disk
// can report I/O faults; purely in-memory engines return nil throughout.
// Implementations can vary in their feature support, which can be queried
// with SupportsFeature.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates an entry with the given key and value.
	// If the key already exists, the old value is overwritten.
	Set(key, value []byte) error

	// Delete removes an entry with the specified key.
	// Deleting a key that does not exist is not an error.
	Delete(key []byte) error

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	// A missing key is not an error; err is reserved for engine faults.
	// The returned value is a copy and safe to retain and modify.
	Get(key []byte) (value []byte, loaded bool, err error)

	// Has checks whether a key exists in the database without loading the value.
	Has(key []byte) (loaded bool, err error)

	// --------------------------------------------------------------------------
	// Durability and Maintenance Operations
	// --------------------------------------------------------------------------

	// Sync forces buffered writes onto stable storage.
	Sync() error

	// GarbageCollect runs engine-specific maintenance (log compaction,
	// value-log GC and the like). Safe to call at any time.
	GarbageCollect() error

	// Save persists the current state of the database to the provided io.Writer.
	// Engines with their own durable on-disk format may not support this.
	Save(w io.Writer) (err error)

	// Load restores the database state from data provided by an io.Reader.
	Load(r io.Reader) (err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the database implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close releases all resources held by the engine. Durable engines must
	// sync outstanding writes before returning.
	Close() (err error)
}
