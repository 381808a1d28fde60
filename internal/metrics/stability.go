package metrics

import (
	"math"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

// Stability is the fraction of snapshots whose fields stay finite and below
// the threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap fdtd.Snapshot) {
	s.samples++
	if !snap.IsValid() {
		s.violations++
		return
	}
	if peak, _ := snap.MaxAbsEz(); peak > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxField reports the largest |Ez| seen.
type MaxField struct {
	name string
	max  float64
}

func NewMaxField() *MaxField {
	return &MaxField{name: "max_field"}
}

func (m *MaxField) Name() string { return m.name }

func (m *MaxField) Observe(snap fdtd.Snapshot) {
	peak, _ := snap.MaxAbsEz()
	m.max = math.Max(m.max, peak)
}

func (m *MaxField) Value() float64 { return m.max }

func (m *MaxField) Reset() { m.max = 0 }
