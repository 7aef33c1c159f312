// Package util provides utility components for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - statistics: Statistical estimators for analyzing database characteristics and a SizeHistogram for tracking value-size distribution
//   - functions: Hash functions and other utility functions
//
// This package is particularly useful for:
//   - Database developers implementing the KVDB interface
//   - Monitoring systems that need to track database size and distribution metrics
//
// Each component is designed to work with any implementation of the db.KVDB interface,
// allowing for consistent validation and measurement across different storage backends.
package util
