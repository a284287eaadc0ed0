package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fireworks/internal/sim"
)

// Store keeps recorded runs, one directory per run holding metadata.json and
// samples.csv.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Columns   int                `json:"columns"`
	Rows      int                `json:"rows"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

var sampleHeader = []string{"time", "particles", "payload", "smoke", "directives", "launches"}

// Save writes meta and the samples of result. Missing ID and Timestamp are
// filled in; the ID of the stored run is returned.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("storage: nil result")
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = s.now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	meta.Steps = result.Steps
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamples(csvFile, result.Samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteSamples encodes samples as CSV with a header row.
func WriteSamples(f io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.Itoa(sm.Particles),
			strconv.Itoa(sm.Payload),
			strconv.FormatFloat(sm.Smoke, 'f', 6, 64),
			strconv.Itoa(sm.Directives),
			strconv.Itoa(sm.Launches),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every stored run, newest first. Directories
// without readable metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads back the samples of a run. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sm, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(record []string) (sim.Sample, bool) {
	var sm sim.Sample
	if len(record) != len(sampleHeader) {
		return sm, false
	}
	var err error
	if sm.Time, err = strconv.ParseFloat(record[0], 64); err != nil {
		return sm, false
	}
	if sm.Particles, err = strconv.Atoi(record[1]); err != nil {
		return sm, false
	}
	if sm.Payload, err = strconv.Atoi(record[2]); err != nil {
		return sm, false
	}
	if sm.Smoke, err = strconv.ParseFloat(record[3], 64); err != nil {
		return sm, false
	}
	if sm.Directives, err = strconv.Atoi(record[4]); err != nil {
		return sm, false
	}
	if sm.Launches, err = strconv.Atoi(record[5]); err != nil {
		return sm, false
	}
	return sm, true
}
