/*
Package ostore implements the write-back cached object store.

The store keeps a fixed number of deserialized objects in an LRU cache
in front of a db.KVDB engine. Reads hit the cache first and fall back
to the database, caching what they load. Writes only touch the cache:
objects are marked dirty and reach the database when they are evicted,
flushed explicitly, or the store is closed.

Capacity is measured in objects, not bytes. The expensive operation in
the target workload is deserializing large neurons, so the cache bounds
how many of those conversions are kept, and the per-object memory cost
is accepted as roughly uniform.

Durability model:

  - A dirty object is never silently dropped. If the write-back during
    an eviction fails, the victim stays cached and dirty and the
    triggering operation returns the error.
  - Close refuses to close the database while dirty objects cannot be
    flushed, so a retry remains possible.
  - Mutating a cached object through a shared handle is invisible to
    the store. Callers must MarkDirty the object, and if it was evicted
    in the meantime the mutation is lost (a warning is logged).

All operations are serialized by a single mutex. Hit/miss counters are
exported via VictoriaMetrics and can be scraped through WriteMetrics.
*/
package ostore
