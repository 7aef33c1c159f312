package testing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/snnfw/neurostore/lib/db"
)

// RunKVDBBenchmarks runs a benchmark suite for a KVDB implementation.
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Mixed", func(b *testing.B) {
			benchmarkMixed(b, factory())
		})

		b.Run("ParallelSet", func(b *testing.B) {
			benchmarkParallelSet(b, factory())
		})

		b.Run("ParallelGet", func(b *testing.B) {
			benchmarkParallelGet(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, database db.KVDB) {
	defer database.Close()

	requireFeature(b, database, db.FeatureSet)

	value := make([]byte, 256)
	rand.Read(value)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench-set-key-%d", i))
		if err := database.Set(key, value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}

func benchmarkGet(b *testing.B, database db.KVDB) {
	defer database.Close()

	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureGet)

	const numKeys = 10000
	value := make([]byte, 256)
	rand.Read(value)

	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("bench-get-key-%d", i))
		if err := database.Set(key, value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench-get-key-%d", i%numKeys))
		if _, _, err := database.Get(key); err != nil {
			b.Fatalf("Get failed: %v", err)
		}
	}
}

func benchmarkMixed(b *testing.B, database db.KVDB) {
	defer database.Close()

	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureGet)
	requireFeature(b, database, db.FeatureDelete)

	const numKeys = 10000
	value := make([]byte, 256)
	rand.Read(value)

	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("bench-mixed-key-%d", i))
		if err := database.Set(key, value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}

	// 80% reads, 15% writes, 5% deletes
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("bench-mixed-key-%d", i%numKeys))
		switch {
		case i%20 < 16:
			if _, _, err := database.Get(key); err != nil {
				b.Fatalf("Get failed: %v", err)
			}
		case i%20 < 19:
			if err := database.Set(key, value); err != nil {
				b.Fatalf("Set failed: %v", err)
			}
		default:
			if err := database.Delete(key); err != nil {
				b.Fatalf("Delete failed: %v", err)
			}
		}
	}
}

func benchmarkParallelSet(b *testing.B, database db.KVDB) {
	defer database.Close()

	requireFeature(b, database, db.FeatureSet)

	value := make([]byte, 256)
	rand.Read(value)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := rand.Int()
		for pb.Next() {
			key := []byte(fmt.Sprintf("bench-pset-key-%d", i))
			if err := database.Set(key, value); err != nil {
				b.Fatalf("Set failed: %v", err)
			}
			i++
		}
	})
}

func benchmarkParallelGet(b *testing.B, database db.KVDB) {
	defer database.Close()

	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureGet)

	const numKeys = 10000
	value := make([]byte, 256)
	rand.Read(value)

	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("bench-pget-key-%d", i))
		if err := database.Set(key, value); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := rand.Int()
		for pb.Next() {
			key := []byte(fmt.Sprintf("bench-pget-key-%d", i%numKeys))
			if _, _, err := database.Get(key); err != nil {
				b.Fatalf("Get failed: %v", err)
			}
			i++
		}
	})
}
