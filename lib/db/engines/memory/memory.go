package memory

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/snnfw/neurostore/lib/db"
	"github.com/snnfw/neurostore/lib/db/util"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for the snapshot file format
const (
	magicNum      = "NSMEMDB\x00" // File format identifier
	memoryVersion = 1             // Snapshot format version
)

// --------------------------------------------------------------------------
// Core memory engine structure
// --------------------------------------------------------------------------

// memoryImpl implements an in-memory engine with sharded data.
// Shards reduce contention: each key is routed to one shard by a seeded
// FNV-1a hash, and each shard is a concurrent map.
type memoryImpl struct {
	numShards int
	seed      uint64
	shards    []*xsync.MapOf[string, []byte]
	loadMu    sync.Mutex // serializes Load against itself
}

// DBOptions configures the memory engine during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = auto)
}

// DefaultOptions returns the default memory engine options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMemoryDB creates a new in-memory engine with the specified options (optional)
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewMemoryDB(opts *DBOptions) db.KVDB {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards < 1 {
		opts.NumShards = 1
	}

	shards := make([]*xsync.MapOf[string, []byte], opts.NumShards)
	for i := 0; i < opts.NumShards; i++ {
		shards[i] = xsync.NewMapOf[string, []byte]()
	}

	return &memoryImpl{
		numShards: opts.NumShards,
		seed:      util.GenerateSeed(),
		shards:    shards,
	}
}

// shardFor routes a key to its shard
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) shardFor(key []byte) *xsync.MapOf[string, []byte] {
	return m.shards[util.HashBytes(key, m.seed)%uint64(m.numShards)]
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// The value is copied so later caller-side mutation cannot corrupt the store.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) Set(key, value []byte) error {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.shardFor(key).Store(string(key), valueCopy)
	return nil
}

// Delete removes an entry with the specified key.
// Deleting a missing key is a no-op.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) Delete(key []byte) error {
	m.shardFor(key).Delete(string(key))
	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The returned value is a copy of the stored data and therefore safe to use and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) Get(key []byte) ([]byte, bool, error) {
	value, ok := m.shardFor(key).Load(string(key))
	if !ok {
		return nil, false, nil
	}

	data := make([]byte, len(value))
	copy(data, value)
	return data, true, nil
}

// Has checks if a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (m *memoryImpl) Has(key []byte) (bool, error) {
	_, ok := m.shardFor(key).Load(string(key))
	return ok, nil
}

// --------------------------------------------------------------------------
// Durability and Maintenance Operations
// --------------------------------------------------------------------------

// Sync is a no-op for the in-memory engine
func (m *memoryImpl) Sync() error { return nil }

// GarbageCollect is a no-op for the in-memory engine
func (m *memoryImpl) GarbageCollect() error { return nil }

// Save persists the engine state to the writer.
// Concurrent reading and writing is allowed during a Save operation; the
// snapshot observes each entry at most once but is not a point-in-time view.
//
// Thread-safety: This function allows concurrent operations with all other
// functions except Load.
func (m *memoryImpl) Save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	type entryToSave struct {
		key   string
		value []byte
	}

	var entries []entryToSave

	// Collect snapshots of all shards
	for _, shard := range m.shards {
		shard.Range(func(key string, value []byte) bool {
			valueCopy := make([]byte, len(value))
			copy(valueCopy, value)
			entries = append(entries, entryToSave{key, valueCopy})
			return true
		})
	}

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	// Write format version
	if err := binary.Write(bw, binary.LittleEndian, uint8(memoryVersion)); err != nil {
		return err
	}

	// Write total entry count
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	// Write entries
	for _, item := range entries {
		// Write key length and key bytes
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(item.key))); err != nil {
			return err
		}
		if _, err := bw.WriteString(item.key); err != nil {
			return err
		}

		// Write value length and value bytes
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(item.value))); err != nil {
			return err
		}
		if _, err := bw.Write(item.value); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load restores the engine state from the reader. Existing entries are
// discarded.
//
// Thread-safety: This function must not run concurrently with writers.
func (m *memoryImpl) Load(r io.Reader) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != memoryVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, memoryVersion)
	}

	// Recreate empty shards
	shards := make([]*xsync.MapOf[string, []byte], m.numShards)
	for i := 0; i < m.numShards; i++ {
		shards[i] = xsync.NewMapOf[string, []byte]()
	}
	m.shards = shards

	// Read entry count
	var entryCount uint64
	if err := binary.Read(br, binary.LittleEndian, &entryCount); err != nil {
		return err
	}

	// Read entries
	for i := uint64(0); i < entryCount; i++ {
		var keyLen uint32
		if err := binary.Read(br, binary.LittleEndian, &keyLen); err != nil {
			return err
		}
		key := make([]byte, keyLen)
		if _, err := io.ReadFull(br, key); err != nil {
			return err
		}

		var valueLen uint32
		if err := binary.Read(br, binary.LittleEndian, &valueLen); err != nil {
			return err
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(br, value); err != nil {
			return err
		}

		m.shardFor(key).Store(string(key), value)
	}

	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine state
func (m *memoryImpl) GetInfo() db.DatabaseInfo {

	// create a size histogram for the info
	histogram := util.NewSizeHistogram()
	samplesPerShard := 100
	wg := sync.WaitGroup{}
	wg.Add(len(m.shards))

	var entryCount atomic.Int64
	shardSizes := make([]float64, len(m.shards))

	// concurrently collect samples from all shards
	for shardIndex, shard := range m.shards {
		go func(i int, s *xsync.MapOf[string, []byte]) {
			defer wg.Done()
			count := 0
			s.Range(func(key string, value []byte) bool {
				histogram.AddSample(len(value))

				// only sample a few entries per shard
				count++
				return count < samplesPerShard
			})

			size := s.Size()
			shardSizes[i] = float64(size)
			entryCount.Add(int64(size))
		}(shardIndex, shard)
	}

	wg.Wait()

	// weighted size estimate (60% median, 40% average) plus key overhead
	entryOverhead := 16
	medianSize := histogram.MedianEstimate() + entryOverhead
	avgSize := histogram.AverageSize() + entryOverhead
	sizeBytes := (medianSize*60 + avgSize*40) / 100 * int(entryCount.Load())

	meta := &struct {
		ShardCount        int                    `json:"shard_count"`
		ShardDistribution util.DistributionStats `json:"shard_distribution"`
		Info              string                 `json:"info"`
	}{
		ShardCount:        len(m.shards),
		ShardDistribution: util.NewDistributionStats(shardSizes),
		Info:              "All values (including SizeBytes) are estimates and may vary depending on the database state.",
	}

	supportedFeatures := []db.Feature{
		db.FeatureSet, db.FeatureGet,
		db.FeatureDelete, db.FeatureHas,
		db.FeatureSync,
		db.FeatureSave, db.FeatureLoad,
	}

	return db.DatabaseInfo{
		SizeBytes:         sizeBytes,
		EntryCount:        entryCount.Load(),
		DbType:            db.ImplMemory,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (m *memoryImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureSync |
		db.FeatureSave |
		db.FeatureLoad
	return supportedFeatures&feature == feature
}

// Close releases the shard maps
func (m *memoryImpl) Close() error {
	return nil
}
