// Package store defines the interface of the write-back cached object
// store that manages all persisted neural objects. It serves as an
// abstraction layer over the lower-level db.KVDB implementations, adding
// an LRU object cache, lazy write-back and unified error handling.
//
// The package focuses on:
//   - A unified interface (IObjectStore) for object-level operations
//     across different storage backends
//   - Pluggable storage backend architecture through the DBFactory pattern
//   - Cache observability through hit/miss statistics and metrics
//
// Key Components:
//
//   - IObjectStore Interface: The core abstraction for storing, loading
//     and flushing neural objects. Lookups distinguish "not found" from
//     real storage failures: a missing object is reported via the loaded
//     flag, never as an error. Typed getters (GetNeuron, GetSynapse, ...)
//     additionally treat a type mismatch as not found.
//
//   - Error System: A structured error reporting mechanism using typed
//     error codes and descriptive messages. RetCWriteFailed in particular
//     marks write-back failures, after which the affected object is
//     guaranteed to still be cached and dirty.
//
//   - DBFactory: A function type that abstracts the creation of underlying
//     db.KVDB instances, providing dependency injection and flexible
//     configuration of storage backends.
//
//   - Stats: Monotonic cache hit/miss counters with an optional reset,
//     intended for tuning the cache capacity against real workloads.
//
// Implementations:
//
//	The ostore subpackage provides the standard implementation: a
//	fixed-capacity LRU cache of deserialized objects in front of any
//	db.KVDB engine. Dirty objects are written back on eviction, explicit
//	flush, or close. Available in the
//	"github.com/snnfw/neurostore/lib/store/ostore" package.
package store
