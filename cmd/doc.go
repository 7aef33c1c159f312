// Package cmd implements the command-line interface for the neurostore
// object store. It provides a hierarchical command structure with operations
// for inspecting and manipulating stored neural objects.
//
// The package is organized into several subpackages:
//
//   - objects: Commands for object store operations (get, create, delete, stats, perf)
//   - importer: Commands for importing and exporting neuron positions (csv, swc)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See neurostore -help for a list of all commands.
package cmd
