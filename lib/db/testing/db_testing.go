package testing

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/snnfw/neurostore/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Sync", func(t *testing.T) {
			testSync(t, factory())
		})

		t.Run("GarbageCollect", func(t *testing.T) {
			testGarbageCollect(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("BinaryKeys", func(t *testing.T) {
			testBinaryKeys(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	testKey := []byte("test-key")
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	if err := database.Set(testKey, testValue1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, exists, err := database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	if err := database.Set(testKey, testValue2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, exists, err = database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists, err = database.Get([]byte("nonexistent-key"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrievedValue, _, _ := database.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _, _ := database.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}

	updatedValue := []byte("updated-value")
	if err := database.Set(testKey, updatedValue); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, exists, err = database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after update", testKey)
	}

	if !bytes.Equal(result, updatedValue) {
		t.Errorf("Expected updated value %s, got %s", updatedValue, result)
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	testKey := []byte("delete-test-key")
	testValue := []byte("delete-test-value")

	if err := database.Set(testKey, testValue); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	_, exists, err := database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist before deletion", testKey)
	}

	if err := database.Delete(testKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, exists, err = database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exists {
		t.Errorf("Expected key %s to be deleted", testKey)
	}

	// Deleting a missing key is a no-op
	if err := database.Delete([]byte("nonexistent-key")); err != nil {
		t.Errorf("Delete of nonexistent key should not error, got %v", err)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureHas)

	testKey := []byte("has-test-key")
	testValue := []byte("has-test-value")

	exists, err := database.Has(testKey)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if exists {
		t.Errorf("Expected key %s to not exist initially", testKey)
	}

	if err := database.Set(testKey, testValue); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	exists, err = database.Has(testKey)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if database.SupportsFeature(db.FeatureDelete) {
		if err := database.Delete(testKey); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		exists, err = database.Has(testKey)
		if err != nil {
			t.Fatalf("Has failed: %v", err)
		}
		if exists {
			t.Errorf("Expected key %s to not exist after Delete", testKey)
		}
	}
}

func testSync(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureSync)

	if err := database.Set([]byte("sync-test-key"), []byte("sync-test-value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := database.Sync(); err != nil {
		t.Errorf("Sync failed: %v", err)
	}

	// Data must still be readable after a sync
	_, exists, err := database.Get([]byte("sync-test-key"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key to exist after Sync")
	}
}

func testGarbageCollect(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGarbageCollect)

	// Create some churn so the collector has something to look at
	for i := 0; i < 100; i++ {
		key := []byte(fmt.Sprintf("gc-key-%d", i))
		if err := database.Set(key, bytes.Repeat([]byte("v"), 128)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	for i := 0; i < 50; i++ {
		if err := database.Delete([]byte(fmt.Sprintf("gc-key-%d", i))); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}

	if err := database.GarbageCollect(); err != nil {
		t.Errorf("GarbageCollect failed: %v", err)
	}

	// Surviving keys must remain intact
	for i := 50; i < 100; i++ {
		_, exists, err := database.Get([]byte(fmt.Sprintf("gc-key-%d", i)))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !exists {
			t.Errorf("Expected key gc-key-%d to survive garbage collection", i)
		}
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	source := factory()
	defer source.Close()

	requireFeature(t, source, db.FeatureSet)
	requireFeature(t, source, db.FeatureSave)
	requireFeature(t, source, db.FeatureLoad)

	entries := map[string][]byte{
		"save-key-1": []byte("save-value-1"),
		"save-key-2": []byte("save-value-2"),
		"save-key-3": bytes.Repeat([]byte("x"), 4096),
	}

	for key, value := range entries {
		if err := source.Set([]byte(key), value); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	target := factory()
	defer target.Close()

	// Pre-existing entries must be discarded by Load
	if err := target.Set([]byte("stale-key"), []byte("stale-value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := target.Load(&buf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for key, value := range entries {
		result, exists, err := target.Get([]byte(key))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !exists {
			t.Errorf("Expected key %s to exist after Load", key)
			continue
		}
		if !bytes.Equal(result, value) {
			t.Errorf("Expected value %s for key %s, got %s", value, key, result)
		}
	}

	_, exists, err := target.Get([]byte("stale-key"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exists {
		t.Errorf("Expected stale entries to be discarded by Load")
	}

	// Loading garbage must fail without corrupting the API contract
	if err := target.Load(bytes.NewReader([]byte("not a snapshot"))); err == nil {
		t.Errorf("Expected Load of invalid data to fail")
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	// Empty value
	emptyValueKey := []byte("empty-value-key")
	if err := database.Set(emptyValueKey, []byte{}); err != nil {
		t.Fatalf("Set with empty value failed: %v", err)
	}

	result, exists, err := database.Get(emptyValueKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key with empty value to exist")
	}
	if len(result) != 0 {
		t.Errorf("Expected empty value, got %d bytes", len(result))
	}

	// Nil value behaves like an empty value
	nilValueKey := []byte("nil-value-key")
	if err := database.Set(nilValueKey, nil); err != nil {
		t.Fatalf("Set with nil value failed: %v", err)
	}

	result, exists, err = database.Get(nilValueKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key with nil value to exist")
	}
	if len(result) != 0 {
		t.Errorf("Expected empty value, got %d bytes", len(result))
	}

	// Large value
	largeValue := bytes.Repeat([]byte("a"), 1024*1024)
	largeValueKey := []byte("large-value-key")
	if err := database.Set(largeValueKey, largeValue); err != nil {
		t.Fatalf("Set with large value failed: %v", err)
	}

	result, exists, err = database.Get(largeValueKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key with large value to exist")
	}
	if !bytes.Equal(result, largeValue) {
		t.Errorf("Large value mismatch after round trip")
	}
}

func testBinaryKeys(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	// Keys with arbitrary bytes, including NUL and high bits
	keys := [][]byte{
		{0x00},
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x00, 0x5A, 0xA5, 0x00, 0x12, 0x34, 0x56, 0x78},
	}

	for i, key := range keys {
		value := []byte(fmt.Sprintf("binary-value-%d", i))
		if err := database.Set(key, value); err != nil {
			t.Fatalf("Set with binary key failed: %v", err)
		}

		result, exists, err := database.Get(key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !exists {
			t.Errorf("Expected binary key %x to exist", key)
			continue
		}
		if !bytes.Equal(result, value) {
			t.Errorf("Expected value %s for binary key %x, got %s", value, key, result)
		}
	}

	// Distinct binary keys must not collide
	for i, key := range keys {
		result, _, _ := database.Get(key)
		expected := []byte(fmt.Sprintf("binary-value-%d", i))
		if !bytes.Equal(result, expected) {
			t.Errorf("Binary key %x returned value for a different key", key)
		}
	}
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	const (
		numWorkers         = 8
		numKeysPerWorker   = 100
		numReadsPerWorker  = 200
		numWritesPerWorker = 100
	)

	var wg sync.WaitGroup
	var errorCount atomic.Int64

	// Phase 1: concurrent writes
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < numKeysPerWorker; i++ {
				key := []byte(fmt.Sprintf("worker-%d-key-%d", workerID, i))
				value := []byte(fmt.Sprintf("worker-%d-value-%d", workerID, i))
				if err := database.Set(key, value); err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	if errorCount.Load() > 0 {
		t.Fatalf("Concurrent writes produced %d errors", errorCount.Load())
	}

	// Phase 2: concurrent reads and overwrites
	wg.Add(numWorkers * 2)
	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < numReadsPerWorker; i++ {
				key := []byte(fmt.Sprintf("worker-%d-key-%d", workerID, i%numKeysPerWorker))
				if _, _, err := database.Get(key); err != nil {
					errorCount.Add(1)
				}
			}
		}(w)

		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < numWritesPerWorker; i++ {
				key := []byte(fmt.Sprintf("worker-%d-key-%d", workerID, i))
				value := []byte(fmt.Sprintf("worker-%d-updated-%d", workerID, i))
				if err := database.Set(key, value); err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	if errorCount.Load() > 0 {
		t.Fatalf("Concurrent reads/writes produced %d errors", errorCount.Load())
	}

	// Phase 3: verify final state
	for w := 0; w < numWorkers; w++ {
		for i := 0; i < numKeysPerWorker; i++ {
			key := []byte(fmt.Sprintf("worker-%d-key-%d", w, i))
			result, exists, err := database.Get(key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !exists {
				t.Errorf("Expected key %s to exist after concurrent phase", key)
				continue
			}
			expected := []byte(fmt.Sprintf("worker-%d-updated-%d", w, i))
			if !bytes.Equal(result, expected) {
				t.Errorf("Expected value %s for key %s, got %s", expected, key, result)
			}
		}
	}

	// Phase 4: concurrent deletes
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for i := 0; i < numKeysPerWorker; i++ {
				key := []byte(fmt.Sprintf("worker-%d-key-%d", workerID, i))
				if err := database.Delete(key); err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	if errorCount.Load() > 0 {
		t.Fatalf("Concurrent deletes produced %d errors", errorCount.Load())
	}

	for w := 0; w < numWorkers; w++ {
		for i := 0; i < numKeysPerWorker; i++ {
			key := []byte(fmt.Sprintf("worker-%d-key-%d", w, i))
			_, exists, err := database.Get(key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if exists {
				t.Errorf("Expected key %s to be deleted", key)
			}
		}
	}
}
