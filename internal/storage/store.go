// Package storage persists completed runs to disk: a metadata JSON
// document and a CSV of the recorded series, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/calebmah/odekit/internal/runner"
)

// RunMeta is the sidecar metadata written alongside each series file.
type RunMeta struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Stepper   string    `json:"stepper"`
	End       float64   `json:"end"`
	Framerate float64   `json:"framerate"`
	Frames    int       `json:"frames"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages a directory of saved runs.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(filepath.Join(s.baseDir, "runs"), 0755)
}

func (s *Store) runDir(id string) string {
	return filepath.Join(s.baseDir, "runs", id)
}

// Save writes the recording under a fresh timestamped run ID and returns
// that ID. Multi-element variables expand to one column per element,
// named name_0, name_1 and so on.
func (s *Store) Save(model, stepper string, end, framerate float64, rec *runner.Recording) (string, error) {
	id := fmt.Sprintf("%s_%s", model, time.Now().Format("20060102_150405"))
	dir := s.runDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	columns := columnNames(rec)
	meta := RunMeta{
		ID:        id,
		Model:     model,
		Stepper:   stepper,
		End:       end,
		Framerate: framerate,
		Frames:    rec.Frames(),
		Columns:   columns,
		CreatedAt: time.Now(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), data, 0644); err != nil {
		return "", err
	}
	if err := s.writeSeries(filepath.Join(dir, "series.csv"), columns, rec); err != nil {
		return "", err
	}
	return id, nil
}

func columnNames(rec *runner.Recording) []string {
	columns := []string{"time"}
	for _, name := range rec.Names() {
		rows, _ := rec.Series(name)
		width := 1
		if len(rows) > 0 && len(rows[0]) > 1 {
			width = len(rows[0])
		}
		if width == 1 {
			columns = append(columns, name)
			continue
		}
		for i := 0; i < width; i++ {
			columns = append(columns, fmt.Sprintf("%s_%d", name, i))
		}
	}
	return columns
}

func (s *Store) writeSeries(path string, columns []string, rec *runner.Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	row := make([]string, 0, len(columns))
	for i := 0; i < rec.Frames(); i++ {
		row = row[:0]
		row = append(row, strconv.FormatFloat(rec.Time[i], 'g', -1, 64))
		for _, name := range rec.Names() {
			rows, _ := rec.Series(name)
			for _, v := range rows[i] {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every saved run, newest first.
func (s *Store) List() ([]RunMeta, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "runs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var metas []RunMeta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.runDir(e.Name()), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

// Load reads a saved run back as a time axis plus one series per column.
func (s *Store) Load(id string) (*RunMeta, []float64, map[string][]float64, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(id), "metadata.json"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("storage: run %q: %w", id, err)
	}
	var meta RunMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.runDir(id), "series.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return &meta, nil, nil, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header))
	var times []float64
	for _, rec := range records[1:] {
		for col, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("storage: run %q: bad value %q: %w", id, cell, err)
			}
			if header[col] == "time" {
				times = append(times, v)
				continue
			}
			series[header[col]] = append(series[header[col]], v)
		}
	}
	return &meta, times, series, nil
}
