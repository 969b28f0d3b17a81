package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/emfield/internal/grid"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per saved evaluation under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Quantity  string             `json:"quantity"`
	Derive    string             `json:"derive"`
	Time      float64            `json:"time"`
	Shape     [3]int             `json:"shape"`
	Points    int                `json:"points"`
	Singular  int                `json:"singular"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Row is one grid point of a stored field.
type Row struct {
	X, Y, Z    float64
	FX, FY, FZ float64
	Singular   bool
}

var fieldHeader = []string{"x", "y", "z", "fx", "fy", "fz", "singular"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save writes metadata.json and field.csv for f into a new run directory
// and returns the run id.
func (s *Store) Save(scene string, f *grid.Sampled, params, metrics map[string]float64) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Timestamp: now,
		Quantity:  f.Quantity.String(),
		Derive:    f.Derive.String(),
		Time:      f.T,
		Shape:     f.Grid.Shape(),
		Points:    f.Grid.Len(),
		Singular:  f.SingularCount(),
		Params:    params,
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "field.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(fieldHeader); err != nil {
		return "", err
	}
	for idx := 0; idx < f.Grid.Len(); idx++ {
		p := f.Grid.Point(idx)
		row := []string{
			formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z),
			formatFloat(f.X[idx]), formatFloat(f.Y[idx]), formatFloat(f.Z[idx]),
			strconv.FormatBool(f.Singular[idx]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadField reads field.csv of a run back into rows.
func (s *Store) LoadField(runID string) ([]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(fieldHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: run %s line %d: %w", runID, i+2, err)
			}
			vals[j] = v
		}
		singular, err := strconv.ParseBool(record[6])
		if err != nil {
			return nil, fmt.Errorf("storage: run %s line %d: %w", runID, i+2, err)
		}
		rows = append(rows, Row{
			X: vals[0], Y: vals[1], Z: vals[2],
			FX: vals[3], FY: vals[4], FZ: vals[5],
			Singular: singular,
		})
	}
	return rows, nil
}
