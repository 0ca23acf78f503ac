// Package storage persists simulation batches to a per-destination
// directory: meta.json carries grid scalars and row counts, CSV datasets
// hold the boundary series and, optionally, full per-node trajectories.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"tlinesim/internal/fdtd"
	"tlinesim/internal/sim"
)

const (
	metaFile         = "meta.json"
	startFile        = "start.csv"
	endFile          = "end.csv"
	fullVoltagesFile = "full_voltages.csv"
	fullCurrentsFile = "full_currents.csv"
)

// Metadata is recorded at fresh-create time and updated as rows are
// appended; it is what makes append-without-overwrite possible across
// separate runs against the same destination.
type Metadata struct {
	TimeStep     float64   `json:"time_step"`
	LengthStep   float64   `json:"length_step"`
	TotalPoints  int       `json:"total_points"`
	BoundaryRows int       `json:"boundary_rows"`
	FullRows     int       `json:"full_rows"`
	HasFull      bool      `json:"has_full"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store is a file-backed sim.Sink rooted at a destination directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the destination directory.
func (s *Store) Dir() string { return s.dir }

// Begin implements sim.Sink. With overwrite (or when no destination
// exists) it recreates the directory, records the grid scalars, and
// returns zero offsets. Otherwise it loads the existing metadata,
// validates the geometry, and returns the stored row counts so the run
// appends after prior data.
func (s *Store) Begin(nsteps, totalPoints int, mode sim.SaveMode, overwrite bool, p fdtd.Parameters) (sim.Offsets, error) {
	_, statErr := os.Stat(filepath.Join(s.dir, metaFile))
	if statErr == nil && !overwrite {
		meta, err := s.Meta()
		if err != nil {
			return sim.Offsets{}, err
		}
		if meta.TotalPoints != totalPoints {
			return sim.Offsets{}, fmt.Errorf("destination %s holds a %d-point line, run has %d points",
				s.dir, meta.TotalPoints, totalPoints)
		}
		if mode == sim.SaveFull && !meta.HasFull {
			meta.HasFull = true
			if err := s.writeMeta(meta); err != nil {
				return sim.Offsets{}, err
			}
		}
		return sim.Offsets{Boundary: meta.BoundaryRows, Full: meta.FullRows}, nil
	}

	if err := os.RemoveAll(s.dir); err != nil {
		return sim.Offsets{}, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return sim.Offsets{}, err
	}

	meta := Metadata{
		TimeStep:    p.DeltaT,
		LengthStep:  p.DeltaZ,
		TotalPoints: totalPoints,
		HasFull:     mode == sim.SaveFull,
		CreatedAt:   time.Now(),
	}
	if err := s.writeMeta(meta); err != nil {
		return sim.Offsets{}, err
	}
	return sim.Offsets{}, nil
}

// AppendBoundary implements sim.Sink. offset must equal the number of
// boundary rows already stored; a mismatch means a batch would be
// double-counted or skipped and is rejected.
func (s *Store) AppendBoundary(offset int, startV, startI, endV, endI []float64) error {
	meta, err := s.Meta()
	if err != nil {
		return err
	}
	if offset != meta.BoundaryRows {
		return fmt.Errorf("boundary offset %d does not match stored row count %d", offset, meta.BoundaryRows)
	}

	if err := appendRows(filepath.Join(s.dir, startFile), startV, startI); err != nil {
		return err
	}
	if err := appendRows(filepath.Join(s.dir, endFile), endV, endI); err != nil {
		return err
	}

	meta.BoundaryRows += len(startV)
	return s.writeMeta(meta)
}

// AppendFull implements sim.Sink.
func (s *Store) AppendFull(offset int, voltages, currents mat.Matrix) error {
	meta, err := s.Meta()
	if err != nil {
		return err
	}
	if offset != meta.FullRows {
		return fmt.Errorf("full offset %d does not match stored row count %d", offset, meta.FullRows)
	}

	if err := appendMatrix(filepath.Join(s.dir, fullVoltagesFile), voltages); err != nil {
		return err
	}
	if err := appendMatrix(filepath.Join(s.dir, fullCurrentsFile), currents); err != nil {
		return err
	}

	rows, _ := voltages.Dims()
	meta.FullRows += rows
	meta.HasFull = true
	return s.writeMeta(meta)
}

// Meta loads the destination metadata.
func (s *Store) Meta() (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metaFile))
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// BoundarySeries loads one boundary dataset ("start" or "end") as voltage
// and current columns.
func (s *Store) BoundarySeries(which string) (volts, currs []float64, err error) {
	var name string
	switch which {
	case "start":
		name = startFile
	case "end":
		name = endFile
	default:
		return nil, nil, fmt.Errorf("unknown boundary series %q", which)
	}

	records, err := readAll(filepath.Join(s.dir, name))
	if err != nil {
		return nil, nil, err
	}
	volts = make([]float64, 0, len(records))
	currs = make([]float64, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		c, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, err
		}
		volts = append(volts, v)
		currs = append(currs, c)
	}
	return volts, currs, nil
}

// FullVoltages loads the full voltage trajectory; rows are time steps.
func (s *Store) FullVoltages() (*mat.Dense, error) {
	return s.readDense(fullVoltagesFile)
}

// FullCurrents loads the full current trajectory.
func (s *Store) FullCurrents() (*mat.Dense, error) {
	return s.readDense(fullCurrentsFile)
}

func (s *Store) readDense(name string) (*mat.Dense, error) {
	records, err := readAll(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no rows", name)
	}
	rows, cols := len(records), len(records[0])
	m := mat.NewDense(rows, cols, nil)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// List scans a data directory for destinations and returns their names
// with metadata, skipping entries that are not stores.
func List(dataDir string) (names []string, metas []Metadata, err error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := New(filepath.Join(dataDir, entry.Name())).Meta()
		if err != nil {
			continue
		}
		names = append(names, entry.Name())
		metas = append(metas, meta)
	}
	return names, metas, nil
}

func (s *Store) writeMeta(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, metaFile), data, 0644)
}

func appendRows(path string, volts, currs []float64) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for i := range volts {
		rec := []string{
			strconv.FormatFloat(volts[i], 'g', -1, 64),
			strconv.FormatFloat(currs[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func appendMatrix(path string, m mat.Matrix) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, cols := m.Dims()
	w := csv.NewWriter(f)
	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
