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

	"github.com/san-kum/fdtd1d/internal/experiment"
	"github.com/san-kum/fdtd1d/internal/fdtd"
)

const (
	metadataFile = "metadata.json"
	fieldsFile   = "fields.csv"
	probeFile    = "probe.csv"
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

type RunMetadata struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Timestamp      time.Time          `json:"timestamp"`
	Cells          int                `json:"cells"`
	Dx             float64            `json:"dx"`
	Dt             float64            `json:"dt"`
	Courant        float64            `json:"courant"`
	FieldNorm      float64            `json:"field_normalisation"`
	Impedance      float64            `json:"impedance"`
	SourcePosition int                `json:"source_position"`
	SourceField    string             `json:"source_field"`
	SourceType     string             `json:"source_type"`
	SourceWave     string             `json:"source_wave"`
	Boundary       string             `json:"boundary"`
	Steps          int                `json:"steps"`
	ProbeIndex     int                `json:"probe_index"`
	Metrics        map[string]float64 `json:"metrics"`
}

// ProbeSeries is the per-step probe and source record of a run.
type ProbeSeries struct {
	Steps  []int
	Times  []float64
	Probe  []float64
	Source []float64
}

func newMetadata(id, name string, cfg experiment.Config, result *experiment.Result) RunMetadata {
	sim := cfg.Sim
	return RunMetadata{
		ID:             id,
		Name:           name,
		Timestamp:      time.Now(),
		Cells:          sim.N,
		Dx:             sim.Dx,
		Dt:             result.Dt,
		Courant:        sim.Courant,
		FieldNorm:      result.FieldNorm,
		Impedance:      sim.Impedance,
		SourcePosition: sim.SourcePosition,
		SourceField:    sim.SourceField.String(),
		SourceType:     sim.SourceType.String(),
		SourceWave:     sim.SourceWave.String(),
		Boundary:       sim.Boundary.String(),
		Steps:          result.StepsTaken,
		ProbeIndex:     cfg.ProbeIndex,
		Metrics:        result.Metrics,
	}
}

// Save writes metadata.json, fields.csv and probe.csv into a new run directory.
func (s *Store) Save(name string, cfg experiment.Config, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", name, time.Now().Format("20060102-150405.000000000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := newMetadata(runID, name, cfg, result)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFields(filepath.Join(runDir, fieldsFile), result.Snapshots); err != nil {
		return "", err
	}
	if err := writeProbe(filepath.Join(runDir, probeFile), result); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFields(path string, snapshots []fdtd.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFieldsCSV(f, snapshots)
}

func writeProbe(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	series := &ProbeSeries{
		Steps:  result.ProbeSteps,
		Times:  make([]float64, len(result.ProbeSteps)),
		Probe:  result.Probe,
		Source: result.Source,
	}
	for i, step := range result.ProbeSteps {
		series.Times[i] = float64(step) * result.Dt
	}
	return WriteProbeCSV(f, series)
}

// WriteFieldsCSV writes one row per field per snapshot: step,time,field,v0,v1,...
func WriteFieldsCSV(out io.Writer, snapshots []fdtd.Snapshot) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "time", "field", "values..."}); err != nil {
		return err
	}

	for _, snap := range snapshots {
		for _, series := range []struct {
			name   string
			values []float64
		}{{"ez", snap.Ez}, {"hy", snap.Hy}} {
			row := make([]string, 0, len(series.values)+3)
			row = append(row, strconv.Itoa(snap.Step), formatFloat(snap.Time), series.name)
			for _, v := range series.values {
				row = append(row, formatFloat(v))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteProbeCSV writes step,time,probe,source rows.
func WriteProbeCSV(out io.Writer, series *ProbeSeries) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "time", "probe", "source"}); err != nil {
		return err
	}
	for i, step := range series.Steps {
		row := []string{
			strconv.Itoa(step),
			formatFloat(series.Times[i]),
			formatFloat(series.Probe[i]),
			formatFloat(series.Source[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseFloats(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, s := range record {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// LoadFields returns the stored snapshots in step order. Source values are
// not part of fields.csv and are left at zero.
func (s *Store) LoadFields(runID string) ([]fdtd.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, fieldsFile))
	if err != nil {
		return nil, err
	}

	snapshots := make([]fdtd.Snapshot, 0, len(records)/2)
	index := make(map[int]int)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: short record", fieldsFile, i+1)
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fieldsFile, i+1, err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fieldsFile, i+1, err)
		}
		values, err := parseFloats(record[3:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fieldsFile, i+1, err)
		}

		idx, ok := index[step]
		if !ok {
			idx = len(snapshots)
			index[step] = idx
			snapshots = append(snapshots, fdtd.Snapshot{Step: step, Time: t})
		}

		switch record[2] {
		case "ez":
			snapshots[idx].Ez = values
		case "hy":
			snapshots[idx].Hy = values
		default:
			return nil, fmt.Errorf("%s line %d: unknown field %q", fieldsFile, i+1, record[2])
		}
	}

	return snapshots, nil
}

func (s *Store) LoadProbe(runID string) (*ProbeSeries, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, probeFile))
	if err != nil {
		return nil, err
	}

	series := &ProbeSeries{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 4 {
			return nil, fmt.Errorf("%s line %d: expected 4 columns, got %d", probeFile, i+1, len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", probeFile, i+1, err)
		}
		values, err := parseFloats(record[1:])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", probeFile, i+1, err)
		}
		series.Steps = append(series.Steps, step)
		series.Times = append(series.Times, values[0])
		series.Probe = append(series.Probe, values[1])
		series.Source = append(series.Source, values[2])
	}

	return series, nil
}
