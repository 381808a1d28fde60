package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

type ExportData struct {
	Run       RunMetadata     `json:"run"`
	Snapshots []SnapshotData  `json:"snapshots"`
	Probe     *ProbeSeriesDTO `json:"probe,omitempty"`
}

type SnapshotData struct {
	Step int       `json:"step"`
	Time float64   `json:"time"`
	Ez   []float64 `json:"ez"`
	Hy   []float64 `json:"hy"`
}

type ProbeSeriesDTO struct {
	Steps  []int     `json:"steps"`
	Times  []float64 `json:"times"`
	Probe  []float64 `json:"probe"`
	Source []float64 `json:"source"`
}

// ExportJSON writes a run with its snapshots and probe series to w.
func ExportJSON(w io.Writer, meta RunMetadata, snapshots []fdtd.Snapshot, probe *ProbeSeries) error {
	data := ExportData{
		Run:       meta,
		Snapshots: make([]SnapshotData, len(snapshots)),
	}

	for i, s := range snapshots {
		data.Snapshots[i] = SnapshotData{Step: s.Step, Time: s.Time, Ez: s.Ez, Hy: s.Hy}
	}
	if probe != nil {
		data.Probe = &ProbeSeriesDTO{
			Steps:  probe.Steps,
			Times:  probe.Times,
			Probe:  probe.Probe,
			Source: probe.Source,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRun loads a stored run and writes it as JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snapshots, err := s.LoadFields(runID)
	if err != nil {
		return err
	}
	probe, err := s.LoadProbe(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, snapshots, probe)
}
