package badger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/db"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// DBOptions configures the badger engine during initialization
type DBOptions struct {
	Path          string         // Directory for the database files
	MinimumFreeGB uint64         // Refuse to open if less space is available
	SyncWrites    bool           // Fsync every write (slower, safer)
	Logger        *common.Logger // Logger handed to badger (optional)
}

// DefaultOptions returns the default badger engine options for the given path
func DefaultOptions(path string) *DBOptions {
	return &DBOptions{
		Path:          path,
		MinimumFreeGB: 1,
		SyncWrites:    false,
		Logger:        common.CreateLogger("db.badger"),
	}
}

// --------------------------------------------------------------------------
// Core badger engine structure
// --------------------------------------------------------------------------

// badgerImpl implements a persistent engine backed by badger.
// All operations run in badger transactions, so the engine is safe for
// concurrent use without additional locking.
type badgerImpl struct {
	db     *badgerdb.DB
	logger *common.Logger
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewBadgerDB opens (or creates) a badger database at opts.Path.
//
// The available disk space is checked before opening: running badger on a
// nearly full disk corrupts value logs, so opening fails early instead.
//
// Thread-safety: This function is not thread-safe and should only be called
// once per path.
func NewBadgerDB(opts *DBOptions) (db.KVDB, error) {
	if opts == nil {
		return nil, errors.New("badger: options must not be nil")
	}
	if opts.Path == "" {
		return nil, errors.New("badger: path must not be empty")
	}
	if opts.Logger == nil {
		opts.Logger = common.CreateLogger("db.badger")
	}

	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return nil, fmt.Errorf("badger: could not create directory %q: %w", opts.Path, err)
	}

	if err := checkFreeSpace(opts.Path, opts.MinimumFreeGB); err != nil {
		return nil, err
	}

	badgerOpts := badgerdb.DefaultOptions(opts.Path)
	badgerOpts.SyncWrites = opts.SyncWrites
	badgerOpts.Logger = opts.Logger

	database, err := badgerdb.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("badger: could not open database at %q: %w", opts.Path, err)
	}

	return &badgerImpl{
		db:     database,
		logger: opts.Logger,
	}, nil
}

// checkFreeSpace verifies that the filesystem holding path has at least
// minimumFreeGB gigabytes available
func checkFreeSpace(path string, minimumFreeGB uint64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return fmt.Errorf("badger: could not stat filesystem at %q: %w", path, err)
	}

	availableGB := stat.Bavail * uint64(stat.Bsize) / (1 << 30)
	if availableGB < minimumFreeGB {
		return fmt.Errorf("badger: insufficient disk space at %q: %d GB available, %d GB required",
			path, availableGB, minimumFreeGB)
	}

	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (b *badgerImpl) Set(key, value []byte) error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes an entry with the specified key.
// Deleting a missing key is a no-op.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (b *badgerImpl) Delete(key []byte) error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key. A missing key is reported via the
// loaded flag, not as an error.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (b *badgerImpl) Get(key []byte) ([]byte, bool, error) {
	var value []byte

	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger: get failed: %w", err)
	}

	return value, true, nil
}

// Has checks if a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (b *badgerImpl) Has(key []byte) (bool, error) {
	err := b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger: has failed: %w", err)
	}

	return true, nil
}

// --------------------------------------------------------------------------
// Durability and Maintenance Operations
// --------------------------------------------------------------------------

// Sync flushes all pending writes to disk
func (b *badgerImpl) Sync() error {
	if err := b.db.Sync(); err != nil {
		return fmt.Errorf("badger: sync failed: %w", err)
	}
	return nil
}

// GarbageCollect syncs the database and then rewrites value log files
// whose live data has dropped below half. badger reports ErrNoRewrite
// when there is nothing to collect, which is not an error here.
func (b *badgerImpl) GarbageCollect() error {
	if err := b.db.Sync(); err != nil {
		return fmt.Errorf("badger: sync before gc failed: %w", err)
	}

	if err := b.db.Flatten(1); err != nil {
		return fmt.Errorf("badger: flatten failed: %w", err)
	}

	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badgerdb.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger: value log gc failed: %w", err)
		}
	}
}

// Save is not supported: badger persists to its own directory
func (b *badgerImpl) Save(_ io.Writer) error {
	return errors.New("badger: save is not supported, data is persisted on disk")
}

// Load is not supported: badger persists to its own directory
func (b *badgerImpl) Load(_ io.Reader) error {
	return errors.New("badger: load is not supported, data is persisted on disk")
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine state
func (b *badgerImpl) GetInfo() db.DatabaseInfo {
	lsmSize, vlogSize := b.db.Size()

	// Counting keys requires a full key-only scan
	var entryCount int64
	err := b.db.View(func(txn *badgerdb.Txn) error {
		iterOpts := badgerdb.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entryCount++
		}
		return nil
	})
	if err != nil {
		b.logger.Warningf("could not count entries: %v", err)
		entryCount = -1
	}

	meta := &struct {
		LSMSizeBytes      int64 `json:"lsm_size_bytes"`
		ValueLogSizeBytes int64 `json:"value_log_size_bytes"`
	}{
		LSMSizeBytes:      lsmSize,
		ValueLogSizeBytes: vlogSize,
	}

	supportedFeatures := []db.Feature{
		db.FeatureSet, db.FeatureGet,
		db.FeatureDelete, db.FeatureHas,
		db.FeatureSync, db.FeatureGarbageCollect,
		db.FeatureDurable,
	}

	return db.DatabaseInfo{
		SizeBytes:         int(lsmSize + vlogSize),
		EntryCount:        entryCount,
		DbType:            db.ImplBadger,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (b *badgerImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureSync |
		db.FeatureGarbageCollect |
		db.FeatureDurable
	return supportedFeatures&feature == feature
}

// Close flushes and closes the underlying database
func (b *badgerImpl) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close failed: %w", err)
	}
	return nil
}
