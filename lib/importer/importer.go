package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/snnfw/neurostore/lib/common"
	"github.com/snnfw/neurostore/lib/model"
	"github.com/snnfw/neurostore/lib/store"
)

// --------------------------------------------------------------------------
// Configuration and result types
// --------------------------------------------------------------------------

// Config controls how positions are imported
type Config struct {
	CreateMissingNeurons bool    // Create neurons that are not in the store yet
	PositionScale        float64 // Scale factor for positions (e.g. um to mm)
	OffsetX              float64 // Offset added after scaling
	OffsetY              float64
	OffsetZ              float64

	// Parameters for neurons created by CreateMissingNeurons
	DefaultWindowSize  float64
	DefaultThreshold   float64
	DefaultMaxPatterns int
}

// DefaultConfig returns the default import configuration
func DefaultConfig() Config {
	return Config{
		CreateMissingNeurons: false,
		PositionScale:        1.0,
		DefaultWindowSize:    50.0,
		DefaultThreshold:     0.95,
		DefaultMaxPatterns:   20,
	}
}

// Result holds the statistics of one import run
type Result struct {
	PositionsSet   int // Positions applied to existing neurons
	NeuronsCreated int // Neurons created because of CreateMissingNeurons
	Skipped        int // Lines skipped (missing neuron, parse error)
}

// --------------------------------------------------------------------------
// Importer
// --------------------------------------------------------------------------

// Importer reads neuron positions from external file formats and applies
// them to neurons in the object store.
type Importer struct {
	store  store.IObjectStore
	logger *common.Logger
}

// NewImporter creates an importer writing into the given store
func NewImporter(s store.IObjectStore) *Importer {
	return &Importer{
		store:  s,
		logger: common.CreateLogger("importer"),
	}
}

// transformPosition applies scale and offset to a raw position
func (imp *Importer) transformPosition(x, y, z float64, cfg Config) (float64, float64, float64) {
	scale := cfg.PositionScale
	if scale == 0 {
		scale = 1.0
	}
	return x*scale + cfg.OffsetX, y*scale + cfg.OffsetY, z*scale + cfg.OffsetZ
}

// setNeuronPosition loads a neuron, assigns the position and writes it
// back. Returns (created, ok, err): created reports whether a missing
// neuron was created, ok whether a position was applied.
func (imp *Importer) setNeuronPosition(id uint64, x, y, z float64, cfg Config) (bool, bool, error) {
	neuron, loaded, err := imp.store.GetNeuron(id)
	if err != nil {
		return false, false, err
	}

	created := false
	if !loaded {
		if !cfg.CreateMissingNeurons {
			return false, false, nil
		}
		neuron = model.NewNeuron(id, cfg.DefaultWindowSize, cfg.DefaultThreshold, cfg.DefaultMaxPatterns)
		created = true
	}

	neuron.SetPosition(x, y, z)
	if err := imp.store.Put(neuron); err != nil {
		return false, false, err
	}

	return created, true, nil
}

// --------------------------------------------------------------------------
// CSV import
// --------------------------------------------------------------------------

// ImportCSV imports neuron positions from CSV data.
//
// Expected format: neuron_id,x,y,z (one neuron per line). An optional
// header line and #-comment lines are skipped. Lines referencing unknown
// neurons are skipped unless cfg.CreateMissingNeurons is set.
func (imp *Importer) ImportCSV(r io.Reader, cfg Config) (Result, error) {
	var result Result

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	lineNumber := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("could not read CSV: %w", err)
		}
		lineNumber++

		if len(record) < 4 {
			imp.logger.Warningf("line %d: expected at least 4 columns (id,x,y,z), got %d", lineNumber, len(record))
			result.Skipped++
			continue
		}

		id, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			// A non-numeric first field on the first line is a header
			if lineNumber == 1 {
				continue
			}
			imp.logger.Warningf("line %d: invalid neuron ID %q", lineNumber, record[0])
			result.Skipped++
			continue
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		z, errZ := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if errX != nil || errY != nil || errZ != nil {
			imp.logger.Warningf("line %d: invalid position values", lineNumber)
			result.Skipped++
			continue
		}

		x, y, z = imp.transformPosition(x, y, z, cfg)

		created, ok, err := imp.setNeuronPosition(id, x, y, z, cfg)
		if err != nil {
			return result, err
		}
		if !ok {
			imp.logger.Warningf("line %d: neuron %d not found in store", lineNumber, id)
			result.Skipped++
			continue
		}
		if created {
			result.NeuronsCreated++
		}
		result.PositionsSet++
	}

	return result, nil
}

// ImportCSVFile imports neuron positions from a CSV file (see ImportCSV)
func (imp *Importer) ImportCSVFile(path string, cfg Config) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer file.Close()

	return imp.ImportCSV(file, cfg)
}

// --------------------------------------------------------------------------
// SWC import
// --------------------------------------------------------------------------

// ImportSWC imports neuron positions from SWC morphology data.
//
// SWC lines are space-separated: n T x y z R P, where n is the point
// number (used as the neuron ID), T the point type, x/y/z the position,
// R the radius and P the parent point. Comment lines start with #.
func (imp *Importer) ImportSWC(r io.Reader, cfg Config) (Result, error) {
	var result Result

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 7 {
			imp.logger.Warningf("line %d: invalid SWC format", lineNumber)
			result.Skipped++
			continue
		}

		id, errN := strconv.ParseUint(fields[0], 10, 64)
		x, errX := strconv.ParseFloat(fields[2], 64)
		y, errY := strconv.ParseFloat(fields[3], 64)
		z, errZ := strconv.ParseFloat(fields[4], 64)
		if errN != nil || errX != nil || errY != nil || errZ != nil {
			imp.logger.Warningf("line %d: invalid SWC format", lineNumber)
			result.Skipped++
			continue
		}

		x, y, z = imp.transformPosition(x, y, z, cfg)

		created, ok, err := imp.setNeuronPosition(id, x, y, z, cfg)
		if err != nil {
			return result, err
		}
		if !ok {
			imp.logger.Warningf("line %d: neuron %d not found in store", lineNumber, id)
			result.Skipped++
			continue
		}
		if created {
			result.NeuronsCreated++
		}
		result.PositionsSet++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("could not read SWC data: %w", err)
	}

	return result, nil
}

// ImportSWCFile imports neuron positions from an SWC file (see ImportSWC)
func (imp *Importer) ImportSWCFile(path string, cfg Config) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer file.Close()

	return imp.ImportSWC(file, cfg)
}

// --------------------------------------------------------------------------
// CSV export
// --------------------------------------------------------------------------

// ExportCSV writes the positions of the given neurons as id,x,y,z lines.
// Neurons without a position or not in the store are skipped.
func (imp *Importer) ExportCSV(w io.Writer, ids []uint64) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"neuron_id", "x", "y", "z"}); err != nil {
		return err
	}

	for _, id := range ids {
		neuron, loaded, err := imp.store.GetNeuron(id)
		if err != nil {
			return err
		}
		if !loaded || !neuron.HasPosition() {
			continue
		}

		record := []string{
			strconv.FormatUint(id, 10),
			strconv.FormatFloat(neuron.Position.X, 'g', -1, 64),
			strconv.FormatFloat(neuron.Position.Y, 'g', -1, 64),
			strconv.FormatFloat(neuron.Position.Z, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
