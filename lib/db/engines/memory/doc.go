/*
Package memory provides a sharded in-memory key-value engine.

Keys are routed to shards by a seeded FNV-1a hash, each shard being a
concurrent map. The engine keeps all data in process memory, making it
useful for tests and for workloads where the object store itself is the
durable layer.

Key features:

  - Lock-free concurrent reads and writes within each shard
  - Defensive copying of keys and values on every operation
  - Save/Load snapshot persistence in a versioned binary format
  - Shard distribution statistics via GetInfo

Data does not survive process restarts unless saved explicitly, so the
engine does not advertise the Durable feature.
*/
package memory
