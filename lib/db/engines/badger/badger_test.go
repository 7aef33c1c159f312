package badger

import (
	"bytes"
	"io"
	"testing"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/db"
	dbtesting "github.com/snnfw/neurostore/lib/db/testing"
)

// testOptions returns quiet engine options rooted in a fresh temp dir
func testOptions(t testing.TB) *DBOptions {
	opts := DefaultOptions(t.TempDir())
	opts.Logger = common.CreateLoggerWithWriter("db.badger", io.Discard, common.ERROR)
	return opts
}

func TestBadgerDB(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BadgerDB", func() db.KVDB {
		database, err := NewBadgerDB(testOptions(t))
		if err != nil {
			t.Fatalf("NewBadgerDB failed: %v", err)
		}
		return database
	})
}

func BenchmarkBadgerDB(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "BadgerDB", func() db.KVDB {
		database, err := NewBadgerDB(testOptions(b))
		if err != nil {
			b.Fatalf("NewBadgerDB failed: %v", err)
		}
		return database
	})
}

func TestDurability(t *testing.T) {
	opts := testOptions(t)

	key := []byte("durable-key")
	value := []byte("durable-value")

	database, err := NewBadgerDB(opts)
	if err != nil {
		t.Fatalf("NewBadgerDB failed: %v", err)
	}

	if !database.SupportsFeature(db.FeatureDurable) {
		t.Fatalf("Expected badger engine to advertise durability")
	}

	if err := database.Set(key, value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen the same directory and expect the data to still be there
	reopened, err := NewBadgerDB(opts)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	result, exists, err := reopened.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Fatalf("Expected key to survive a close/reopen cycle")
	}
	if !bytes.Equal(result, value) {
		t.Errorf("Expected value %s after reopen, got %s", value, result)
	}
}

func TestOpenValidation(t *testing.T) {
	if _, err := NewBadgerDB(nil); err == nil {
		t.Errorf("Expected open with nil options to fail")
	}

	if _, err := NewBadgerDB(&DBOptions{Path: ""}); err == nil {
		t.Errorf("Expected open with empty path to fail")
	}
}

func TestInsufficientDiskSpace(t *testing.T) {
	opts := testOptions(t)
	opts.MinimumFreeGB = 1 << 30 // an exabyte, no filesystem has this

	if _, err := NewBadgerDB(opts); err == nil {
		t.Errorf("Expected open to fail when the free space requirement cannot be met")
	}
}

func TestSaveLoadUnsupported(t *testing.T) {
	database, err := NewBadgerDB(testOptions(t))
	if err != nil {
		t.Fatalf("NewBadgerDB failed: %v", err)
	}
	defer database.Close()

	if database.SupportsFeature(db.FeatureSave) || database.SupportsFeature(db.FeatureLoad) {
		t.Errorf("Badger engine must not advertise Save/Load")
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err == nil {
		t.Errorf("Expected Save to return an error")
	}
	if err := database.Load(&buf); err == nil {
		t.Errorf("Expected Load to return an error")
	}
}
