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

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Scene      string        `json:"scene"`
	Seed       uint32        `json:"seed"`
	Dt         float64       `json:"dt"`
	Ticks      int           `json:"ticks"`
	Integrator string        `json:"integrator"`
	Kernel     dynamo.Config `json:"kernel"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Info      RunInfo            `json:"info"`
	Stats     sim.Stats          `json:"stats"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Info:      info,
		Stats:     result.Stats,
		Metrics:   result.Metrics,
	}
	if n := len(result.Counts); n > 0 {
		meta.Particles = result.Counts[n-1]
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSeriesCSV(csvFile, result); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteSeriesCSV writes one row per sample: time, particle count, then
// every metric series in name order.
func WriteSeriesCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"time", "count"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		count := 0
		if i < len(result.Counts) {
			count = result.Counts[i]
		}
		row = append(row, strconv.Itoa(count))

		for _, name := range names {
			val := 0.0
			if series := result.Series[name]; i < len(series) {
				val = series[i]
			}
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Series is a stored run's sampled time series keyed by column name.
type Series struct {
	Times   []float64
	Columns map[string][]float64
}

func (s *Series) Names() []string {
	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
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

	series := &Series{Columns: make(map[string][]float64)}
	if len(records) < 1 {
		return series, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)

		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series.Columns[header[j]] = append(series.Columns[header[j]], val)
		}
	}

	return series, nil
}

// Result rebuilds the run result of a stored run from its metadata and
// sampled series.
func (s *Series) Result(meta *RunMetadata) *sim.Result {
	res := &sim.Result{
		Times:      s.Times,
		Series:     make(map[string][]float64),
		Metrics:    meta.Metrics,
		Stats:      meta.Stats,
		TicksTaken: meta.Stats.Ticks,
	}
	for name, col := range s.Columns {
		if name != "count" {
			res.Series[name] = col
			continue
		}
		res.Counts = make([]int, len(col))
		for i, v := range col {
			res.Counts[i] = int(v)
		}
	}
	return res
}
