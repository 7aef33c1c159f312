// Package db provides a standardized interface for embedded key-value engine
// implementations. It defines a KVDB interface that allows consistent
// interaction with various storage backends while abstracting implementation
// details.
//
// The package focuses on:
//   - A unified interface for byte-keyed point operations (Set, Get, Has, Delete)
//   - Feature discovery through capability flags
//   - Standardized durability operations (Sync, Save, Load)
//   - Comprehensive metadata reporting
//
// Key Components:
//
//   - KVDB Interface: The core interface that all engine implementations must
//     satisfy. It provides methods for point operations, durability control
//     (Sync, Save, Load), maintenance (GarbageCollect), metadata retrieval
//     (GetInfo) and lifecycle management (Close).
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations can advertise through the SupportsFeature method. This
//     allows clients to discover supported operations at runtime. The
//     FeatureDurable flag marks engines whose data survives a Close/reopen
//     cycle without an explicit Save/Load round trip.
//
//   - Implementation Identifiers: The Implementation type provides string
//     constants for the available backends ("badger", "memory").
//
//   - Database Information: The DatabaseInfo structure provides standardized
//     reporting on database state, including size statistics, implementation
//     type, and implementation-specific metadata. Note: for most
//     implementations the size statistics are estimates since a precise
//     calculation can be expensive.
//
// This interface-driven approach allows applications to:
//   - Swap engine implementations without code changes
//   - Gracefully handle operations not supported by specific implementations
//   - Maintain consistent behavior across different storage backends
//
// Note on Error Handling:
//   - A missing key is never an error: Get and Has report absence through
//     their boolean return value. The error return is reserved for engine
//     faults (disk I/O, corruption), which in-memory engines never produce.
//
// Note on Durability:
//   - Engines advertising FeatureDurable (badger) own their on-disk format;
//     Close must leave the directory in a state from which a reopen recovers
//     all acknowledged writes.
//   - Engines without FeatureDurable (memory) may instead support Save/Load
//     snapshots to a caller-provided stream.
package db
