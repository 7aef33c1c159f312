package memory

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/snnfw/neurostore/lib/db"
	dbtesting "github.com/snnfw/neurostore/lib/db/testing"
)

func TestMemoryDB(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MemoryDB", func() db.KVDB {
		return NewMemoryDB(nil)
	})
}

func TestMemoryDBSingleShard(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MemoryDB-1-Shard", func() db.KVDB {
		return NewMemoryDB(&DBOptions{NumShards: 1})
	})
}

func BenchmarkMemoryDB(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "MemoryDB", func() db.KVDB {
		return NewMemoryDB(nil)
	})
}

func TestSnapshotHeader(t *testing.T) {
	database := NewMemoryDB(nil)
	defer database.Close()

	if err := database.Set([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data := buf.Bytes()
	if len(data) < len(magicNum)+1 {
		t.Fatalf("Snapshot too short: %d bytes", len(data))
	}

	if string(data[:len(magicNum)]) != magicNum {
		t.Errorf("Expected snapshot to start with magic number")
	}

	if data[len(magicNum)] != memoryVersion {
		t.Errorf("Expected format version %d, got %d", memoryVersion, data[len(magicNum)])
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	database := NewMemoryDB(nil)
	defer database.Close()

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Corrupt the version byte
	data := buf.Bytes()
	data[len(magicNum)] = memoryVersion + 1

	if err := database.Load(bytes.NewReader(data)); err == nil {
		t.Errorf("Expected Load to reject unknown snapshot version")
	}
}

func TestGetInfo(t *testing.T) {
	database := NewMemoryDB(&DBOptions{NumShards: 4})
	defer database.Close()

	const numEntries = 500
	for i := 0; i < numEntries; i++ {
		key := []byte(fmt.Sprintf("info-key-%d", i))
		if err := database.Set(key, bytes.Repeat([]byte("v"), 64)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	info := database.GetInfo()

	if info.DbType != db.ImplMemory {
		t.Errorf("Expected DbType %s, got %s", db.ImplMemory, info.DbType)
	}

	if info.EntryCount != numEntries {
		t.Errorf("Expected EntryCount %d, got %d", numEntries, info.EntryCount)
	}

	if info.SizeBytes <= 0 {
		t.Errorf("Expected positive size estimate, got %d", info.SizeBytes)
	}

	if !database.SupportsFeature(db.FeatureSave) || !database.SupportsFeature(db.FeatureLoad) {
		t.Errorf("Expected memory engine to support Save and Load")
	}

	if database.SupportsFeature(db.FeatureDurable) {
		t.Errorf("Memory engine must not advertise durability")
	}
}
