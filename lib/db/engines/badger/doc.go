/*
Package badger provides a persistent key-value engine backed by
github.com/dgraph-io/badger.

The engine maps the KVDB interface directly onto badger transactions.
Data written here survives process restarts without an explicit Save,
so the engine advertises the Durable feature. Save and Load are not
supported since badger manages its own on-disk representation.

Key features:

  - LSM-tree storage with separate value log, suited for values in the
    kilobyte range
  - Optional synchronous writes for crash safety at the cost of latency
  - GarbageCollect compacts the LSM tree and rewrites sparse value logs
  - A free disk space check before opening, since badger misbehaves on
    full disks

The logger passed in the options is handed to badger itself, so engine
internals log through the same channel as the rest of the application.
*/
package badger
