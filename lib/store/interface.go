package store

import (
	"fmt"
	"io"

	"github.com/snnfw/neurostore/lib/db"
	"github.com/snnfw/neurostore/lib/model"
	"github.com/snnfw/neurostore/lib/serializer"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// Stats holds the cache hit/miss counters of a store. Both counters are
// monotonic until ClearStats resets them.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// HitRate returns the fraction of lookups served from the cache,
// or 0 if there were no lookups yet
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// IObjectStore is the interface for the write-back cached object store.
//
// The store keeps a bounded number of objects in memory. Objects enter the
// cache via Put (marked dirty) or via Get (loaded from the database, clean).
// When the cache is full, the least recently used object is evicted; dirty
// objects are written back to the database first, clean objects are simply
// dropped.
//
// A missing object is never an error: lookups report absence via the
// loaded flag and reserve the error return for storage failures.
type IObjectStore interface {
	// Put inserts or updates an object in the cache and marks it dirty.
	// The object reaches the database on eviction or flush, not before.
	Put(obj model.Object) (err error)
	// Get returns the object with the given ID, loading and caching it
	// from the database on a cache miss.
	Get(id uint64) (obj model.Object, loaded bool, err error)
	// GetNeuron is a typed Get. An object of a different type under the
	// given ID is reported as not found.
	GetNeuron(id uint64) (neuron *model.Neuron, loaded bool, err error)
	// GetAxon is a typed Get (see GetNeuron).
	GetAxon(id uint64) (axon *model.Axon, loaded bool, err error)
	// GetDendrite is a typed Get (see GetNeuron).
	GetDendrite(id uint64) (dendrite *model.Dendrite, loaded bool, err error)
	// GetSynapse is a typed Get (see GetNeuron).
	GetSynapse(id uint64) (synapse *model.Synapse, loaded bool, err error)
	// GetCluster is a typed Get (see GetNeuron).
	GetCluster(id uint64) (cluster *model.Cluster, loaded bool, err error)
	// MarkDirty flags a cached object for write-back. Mutations through a
	// shared handle are invisible to the store, so callers must mark the
	// object themselves. Marking an uncached ID is a logged no-op.
	MarkDirty(id uint64)
	// Remove drops an object from the cache (without write-back) and
	// deletes it from the database. Reports whether the object existed
	// in either place.
	Remove(id uint64) (removed bool, err error)
	// Flush writes a single dirty object to the database and marks it
	// clean. Reports whether a write occurred; flushing a clean or
	// uncached object is a no-op.
	Flush(id uint64) (flushed bool, err error)
	// FlushAll flushes every dirty object in the cache and returns the
	// number of objects written.
	FlushAll() (flushed int, err error)
	// Size returns the number of objects currently cached.
	Size() int
	// Capacity returns the maximum number of objects the cache holds.
	Capacity() int
	// GetStats returns the current hit/miss counters.
	GetStats() Stats
	// ClearStats resets the hit/miss counters to zero.
	ClearStats()
	// RegisterFactory binds a deserialization factory to a type tag.
	// Registering a tag again replaces the previous factory.
	RegisterFactory(typeTag string, factory serializer.FactoryFunc)
	// WriteMetrics writes the store's metrics in Prometheus text format.
	WriteMetrics(w io.Writer)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
	// Close flushes all dirty objects and closes the underlying database.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	case RetCWriteFailed:
		errorCode = "WriteFailed"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("ObjectStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new ObjectStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCWriteFailed                         // 4: Write-back to the database failed.
)
