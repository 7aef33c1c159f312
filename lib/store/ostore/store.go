package ostore

import (
	"fmt"
	"io"
	"sync"

	"github.com/VictoriaMetrics/metrics"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/db"
	badgerengine "github.com/snnfw/neurostore/lib/db/engines/badger"
	"github.com/snnfw/neurostore/lib/model"
	"github.com/snnfw/neurostore/lib/serializer"
	"github.com/snnfw/neurostore/lib/store"
	"github.com/snnfw/neurostore/lib/store/internal"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// StoreOptions configures the object store during creation
type StoreOptions struct {
	Capacity   int                    // Maximum number of cached objects (must be >= 1)
	Serializer serializer.ISerializer // Envelope format (default: binary)
	Logger     *common.Logger         // Logger (default: "store" logger)
}

// DefaultStoreOptions returns the default store options
func DefaultStoreOptions(capacity int) StoreOptions {
	return StoreOptions{
		Capacity:   capacity,
		Serializer: serializer.NewBinarySerializer(),
		Logger:     common.CreateLogger("store"),
	}
}

// --------------------------------------------------------------------------
// Core store structure
// --------------------------------------------------------------------------

// storeImpl implements store.IObjectStore with a write-back LRU cache
// in front of a db.KVDB engine.
//
// A single mutex serializes all operations. The cache works on object
// counts, not bytes, since the dominant cost in the target workload is
// deserialization, not memory.
type storeImpl struct {
	mu         sync.Mutex
	cache      *internal.LRU
	db         db.KVDB
	serializer serializer.ISerializer
	registry   *serializer.Registry
	logger     *common.Logger

	metrics *metrics.Set
	hits    *metrics.Counter
	misses  *metrics.Counter
}

// NewObjectStore creates an object store on top of an existing engine.
// Factories for the built-in object types are pre-registered.
func NewObjectStore(factory store.DBFactory, opts StoreOptions) (store.IObjectStore, error) {
	if opts.Capacity < 1 {
		return nil, store.NewError(store.RetCInvalidOperation,
			fmt.Sprintf("cache capacity must be at least 1, got %d", opts.Capacity))
	}
	if opts.Serializer == nil {
		opts.Serializer = serializer.NewBinarySerializer()
	}
	if opts.Logger == nil {
		opts.Logger = common.CreateLogger("store")
	}

	registry := serializer.NewRegistry()
	serializer.RegisterDefaults(registry)

	set := metrics.NewSet()

	s := &storeImpl{
		cache:      internal.NewLRU(opts.Capacity),
		db:         factory(),
		serializer: opts.Serializer,
		registry:   registry,
		logger:     opts.Logger,
		metrics:    set,
		hits:       set.NewCounter(`neurostore_cache_hits_total`),
		misses:     set.NewCounter(`neurostore_cache_misses_total`),
	}

	s.metrics.NewGauge(`neurostore_cache_size`, func() float64 {
		return float64(s.Size())
	})
	s.metrics.NewGauge(`neurostore_cache_capacity`, func() float64 {
		return float64(opts.Capacity)
	})

	return s, nil
}

// NewDatastore creates an object store backed by a badger database at
// the given path. This is the canonical production setup.
func NewDatastore(path string, capacity int) (store.IObjectStore, error) {
	opts := DefaultStoreOptions(capacity)

	engine, err := badgerengine.NewBadgerDB(badgerengine.DefaultOptions(path))
	if err != nil {
		return nil, store.NewError(store.RetCInternalError,
			fmt.Sprintf("could not open database: %v", err))
	}

	return NewObjectStore(func() db.KVDB { return engine }, opts)
}

// --------------------------------------------------------------------------
// Write-back helpers
// --------------------------------------------------------------------------

// writeBack serializes an object and writes it to the database.
// The caller must hold the mutex.
func (s *storeImpl) writeBack(obj model.Object) error {
	data, err := serializer.EncodeObject(s.serializer, obj)
	if err != nil {
		return store.NewError(store.RetCInternalError,
			fmt.Sprintf("could not serialize %s %d: %v", obj.ObjectType(), obj.ObjectID(), err))
	}

	if err := s.db.Set(serializer.EncodeKey(obj.ObjectID()), data); err != nil {
		return store.NewError(store.RetCWriteFailed,
			fmt.Sprintf("could not write %s %d: %v", obj.ObjectType(), obj.ObjectID(), err))
	}

	return nil
}

// evictOne writes back the least recently used entry (if dirty) and
// drops it from the cache. On write failure the victim stays cached and
// dirty, so the data is not lost. The caller must hold the mutex.
func (s *storeImpl) evictOne() error {
	id, obj, dirty, ok := s.cache.Victim()
	if !ok {
		return store.NewError(store.RetCInternalError, "eviction requested on empty cache")
	}

	if dirty {
		if err := s.writeBack(obj); err != nil {
			s.logger.Errorf("eviction of %s %d failed, keeping it cached: %v",
				obj.ObjectType(), id, err)
			return err
		}
	}

	s.cache.Remove(id)
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(obj model.Object) error {
	if obj == nil {
		return store.NewError(store.RetCInvalidOperation, "cannot store a nil object")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Updating a cached object never needs an eviction
	if s.cache.Replace(obj.ObjectID(), obj, true) {
		return nil
	}

	if s.cache.Full() {
		if err := s.evictOne(); err != nil {
			return err
		}
	}

	s.cache.Add(obj.ObjectID(), obj, true)
	return nil
}

func (s *storeImpl) Get(id uint64) (model.Object, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(id)
}

// get implements Get. The caller must hold the mutex.
func (s *storeImpl) get(id uint64) (model.Object, bool, error) {
	if obj, ok := s.cache.Get(id); ok {
		s.hits.Inc()
		return obj, true, nil
	}

	s.misses.Inc()

	data, found, err := s.db.Get(serializer.EncodeKey(id))
	if err != nil {
		return nil, false, store.NewError(store.RetCInternalError,
			fmt.Sprintf("could not read object %d: %v", id, err))
	}
	if !found {
		return nil, false, nil
	}

	obj, err := serializer.DecodeObject(s.serializer, s.registry, data)
	if err != nil {
		// A stored entry we cannot decode is indistinguishable from a
		// missing one for the caller
		s.logger.Warningf("could not decode object %d, treating as not found: %v", id, err)
		return nil, false, nil
	}

	// Cache the loaded object as clean
	if s.cache.Full() {
		if err := s.evictOne(); err != nil {
			// The victim stays cached, so the loaded object cannot be
			// inserted. Hand it to the caller uncached.
			s.logger.Warningf("returning object %d uncached: %v", id, err)
			return obj, true, nil
		}
	}
	s.cache.Add(id, obj, false)

	return obj, true, nil
}

func (s *storeImpl) GetNeuron(id uint64) (*model.Neuron, bool, error) {
	obj, loaded, err := s.Get(id)
	if err != nil || !loaded {
		return nil, false, err
	}
	neuron, ok := obj.(*model.Neuron)
	if !ok {
		return nil, false, nil
	}
	return neuron, true, nil
}

func (s *storeImpl) GetAxon(id uint64) (*model.Axon, bool, error) {
	obj, loaded, err := s.Get(id)
	if err != nil || !loaded {
		return nil, false, err
	}
	axon, ok := obj.(*model.Axon)
	if !ok {
		return nil, false, nil
	}
	return axon, true, nil
}

func (s *storeImpl) GetDendrite(id uint64) (*model.Dendrite, bool, error) {
	obj, loaded, err := s.Get(id)
	if err != nil || !loaded {
		return nil, false, err
	}
	dendrite, ok := obj.(*model.Dendrite)
	if !ok {
		return nil, false, nil
	}
	return dendrite, true, nil
}

func (s *storeImpl) GetSynapse(id uint64) (*model.Synapse, bool, error) {
	obj, loaded, err := s.Get(id)
	if err != nil || !loaded {
		return nil, false, err
	}
	synapse, ok := obj.(*model.Synapse)
	if !ok {
		return nil, false, nil
	}
	return synapse, true, nil
}

func (s *storeImpl) GetCluster(id uint64) (*model.Cluster, bool, error) {
	obj, loaded, err := s.Get(id)
	if err != nil || !loaded {
		return nil, false, err
	}
	cluster, ok := obj.(*model.Cluster)
	if !ok {
		return nil, false, nil
	}
	return cluster, true, nil
}

func (s *storeImpl) MarkDirty(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.SetDirty(id, true) {
		// The object was evicted between the caller's Get and this call.
		// Any mutation made through the stale handle is lost.
		s.logger.Warningf("MarkDirty on uncached object %d is a no-op", id)
	}
}

func (s *storeImpl) Remove(id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// No write-back: the object is going away
	_, _, cached := s.cache.Remove(id)

	key := serializer.EncodeKey(id)
	stored, err := s.db.Has(key)
	if err != nil {
		return cached, store.NewError(store.RetCInternalError,
			fmt.Sprintf("could not check object %d: %v", id, err))
	}
	if stored {
		if err := s.db.Delete(key); err != nil {
			return cached, store.NewError(store.RetCInternalError,
				fmt.Sprintf("could not delete object %d: %v", id, err))
		}
	}

	return cached || stored, nil
}

func (s *storeImpl) Flush(id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty, ok := s.cache.IsDirty(id)
	if !ok || !dirty {
		return false, nil
	}

	obj, _ := s.cache.Peek(id)
	if err := s.writeBack(obj); err != nil {
		return false, err
	}

	s.cache.SetDirty(id, false)
	return true, nil
}

func (s *storeImpl) FlushAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flushAll()
}

// flushAll writes back every dirty entry and returns the number of
// objects written. Entries that fail stay dirty, entries that succeed
// are marked clean, so a retry only rewrites the failures. The caller
// must hold the mutex.
func (s *storeImpl) flushAll() (int, error) {
	var flushed []uint64
	var firstErr error

	s.cache.Range(func(id uint64, obj model.Object, dirty bool) bool {
		if !dirty {
			return true
		}
		if err := s.writeBack(obj); err != nil {
			s.logger.Errorf("flush of %s %d failed: %v", obj.ObjectType(), id, err)
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		flushed = append(flushed, id)
		return true
	})

	for _, id := range flushed {
		s.cache.SetDirty(id, false)
	}

	return len(flushed), firstErr
}

func (s *storeImpl) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func (s *storeImpl) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Capacity()
}

func (s *storeImpl) GetStats() store.Stats {
	return store.Stats{
		Hits:   s.hits.Get(),
		Misses: s.misses.Get(),
	}
}

func (s *storeImpl) ClearStats() {
	s.hits.Set(0)
	s.misses.Set(0)
}

func (s *storeImpl) RegisterFactory(typeTag string, factory serializer.FactoryFunc) {
	s.registry.Register(typeTag, factory)
}

func (s *storeImpl) WriteMetrics(w io.Writer) {
	s.metrics.WritePrometheus(w)
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

func (s *storeImpl) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.flushAll(); err != nil {
		// Closing anyway would discard the dirty objects that failed to
		// flush, so the database stays open for a retry
		return err
	}

	if err := s.db.Close(); err != nil {
		return store.NewError(store.RetCInternalError,
			fmt.Sprintf("could not close database: %v", err))
	}
	return nil
}
