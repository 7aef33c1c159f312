package importer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/db"
	"github.com/snnfw/neurostore/lib/db/engines/memory"
	"github.com/snnfw/neurostore/lib/model"
	"github.com/snnfw/neurostore/lib/serializer"
	"github.com/snnfw/neurostore/lib/store"
	"github.com/snnfw/neurostore/lib/store/ostore"
)

func newTestStore(t *testing.T) store.IObjectStore {
	t.Helper()

	s, err := ostore.NewObjectStore(
		func() db.KVDB { return memory.NewMemoryDB(nil) },
		ostore.StoreOptions{
			Capacity:   64,
			Serializer: serializer.NewBinarySerializer(),
			Logger:     common.CreateLoggerWithWriter("store", io.Discard, common.ERROR),
		})
	if err != nil {
		t.Fatalf("NewObjectStore failed: %v", err)
	}
	return s
}

func quietImporter(s store.IObjectStore) *Importer {
	imp := NewImporter(s)
	imp.logger = common.CreateLoggerWithWriter("importer", io.Discard, common.ERROR)
	return imp
}

func putNeurons(t *testing.T, s store.IObjectStore, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		if err := s.Put(model.NewNeuron(id, 50.0, 0.95, 20)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
}

func TestImportCSV(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 1, 2)

	input := strings.Join([]string{
		"neuron_id,x,y,z",
		"1,100.5,200.3,50.2",
		"# a comment",
		"2,105.1,198.7,51.8",
		"3,1.0,2.0,3.0", // not in the store
	}, "\n")

	result, err := imp.ImportCSV(strings.NewReader(input), DefaultConfig())
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if result.PositionsSet != 2 {
		t.Errorf("Expected 2 positions set, got %d", result.PositionsSet)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped line, got %d", result.Skipped)
	}
	if result.NeuronsCreated != 0 {
		t.Errorf("Expected no created neurons, got %d", result.NeuronsCreated)
	}

	neuron, loaded, err := s.GetNeuron(1)
	if err != nil || !loaded {
		t.Fatalf("Expected neuron 1 in the store")
	}
	if !neuron.HasPosition() || neuron.Position.X != 100.5 {
		t.Errorf("Expected imported position, got %+v", neuron.Position)
	}
}

func TestImportCSVWithoutHeader(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 7)

	result, err := imp.ImportCSV(strings.NewReader("7,1.0,2.0,3.0\n"), DefaultConfig())
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.PositionsSet != 1 {
		t.Errorf("Expected the first data line to be imported, got %+v", result)
	}
}

func TestImportCSVCreatesMissingNeurons(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	cfg := DefaultConfig()
	cfg.CreateMissingNeurons = true

	result, err := imp.ImportCSV(strings.NewReader("42,1.0,2.0,3.0\n"), cfg)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.NeuronsCreated != 1 || result.PositionsSet != 1 {
		t.Errorf("Expected one created neuron with position, got %+v", result)
	}

	neuron, loaded, err := s.GetNeuron(42)
	if err != nil || !loaded {
		t.Fatalf("Expected created neuron in the store")
	}
	if neuron.WindowSize != cfg.DefaultWindowSize || neuron.Threshold != cfg.DefaultThreshold {
		t.Errorf("Expected default parameters on created neuron, got %+v", neuron)
	}
}

func TestImportCSVScaleAndOffset(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 1)

	cfg := DefaultConfig()
	cfg.PositionScale = 2.0
	cfg.OffsetX = 10.0
	cfg.OffsetZ = -1.0

	if _, err := imp.ImportCSV(strings.NewReader("1,1.0,2.0,3.0\n"), cfg); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	neuron, _, _ := s.GetNeuron(1)
	if neuron.Position.X != 12.0 || neuron.Position.Y != 4.0 || neuron.Position.Z != 5.0 {
		t.Errorf("Expected transformed position (12,4,5), got %+v", neuron.Position)
	}
}

func TestImportSWC(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 1, 2)

	input := strings.Join([]string{
		"# SWC morphology",
		"1 1 100.0 200.0 50.0 4.0 -1",
		"2 3 105.0 198.0 51.0 1.5 1",
		"bogus line",
	}, "\n")

	result, err := imp.ImportSWC(strings.NewReader(input), DefaultConfig())
	if err != nil {
		t.Fatalf("ImportSWC failed: %v", err)
	}

	if result.PositionsSet != 2 {
		t.Errorf("Expected 2 positions set, got %d", result.PositionsSet)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped line, got %d", result.Skipped)
	}

	neuron, _, _ := s.GetNeuron(2)
	if !neuron.HasPosition() || neuron.Position.Y != 198.0 {
		t.Errorf("Expected imported SWC position, got %+v", neuron.Position)
	}
}

func TestImportedPositionsSurviveFlush(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 1)

	if _, err := imp.ImportCSV(strings.NewReader("1,9.0,8.0,7.0\n"), DefaultConfig()); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if _, err := s.FlushAll(); err != nil {
		t.Fatalf("FlushAll failed: %v", err)
	}

	// Push the neuron out of the cache and reload it from the database
	for id := uint64(100); id < 200; id++ {
		putNeurons(t, s, id)
	}

	neuron, loaded, err := s.GetNeuron(1)
	if err != nil || !loaded {
		t.Fatalf("Expected neuron 1 to be reloadable")
	}
	if !neuron.HasPosition() || neuron.Position.X != 9.0 {
		t.Errorf("Expected flushed position to survive, got %+v", neuron.Position)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestStore(t)
	imp := quietImporter(s)

	putNeurons(t, s, 1, 2, 3)
	if _, err := imp.ImportCSV(strings.NewReader("1,1.5,2.5,3.5\n2,4.0,5.0,6.0\n"), DefaultConfig()); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	var buf bytes.Buffer
	// Neuron 3 has no position and 99 does not exist; both are skipped
	if err := imp.ExportCSV(&buf, []uint64{1, 2, 3, 99}); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 data lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "neuron_id,x,y,z" {
		t.Errorf("Expected header line, got %q", lines[0])
	}
	if lines[1] != "1,1.5,2.5,3.5" {
		t.Errorf("Expected exported position, got %q", lines[1])
	}
}
