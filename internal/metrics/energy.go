package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

// FieldEnergy is sum(Ez^2) + sum(Hy^2) in the simulator's normalised units.
func FieldEnergy(s fdtd.Snapshot) float64 {
	return floats.Dot(s.Ez, s.Ez) + floats.Dot(s.Hy, s.Hy)
}

// Energy reports the field energy of the latest snapshot.
type Energy struct {
	name    string
	current float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s fdtd.Snapshot) {
	e.current = FieldEnergy(s)
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// PeakEnergy reports the largest field energy seen.
type PeakEnergy struct {
	name string
	peak float64
}

func NewPeakEnergy() *PeakEnergy {
	return &PeakEnergy{name: "peak_energy"}
}

func (p *PeakEnergy) Name() string { return p.name }

func (p *PeakEnergy) Observe(s fdtd.Snapshot) {
	if e := FieldEnergy(s); e > p.peak {
		p.peak = e
	}
}

func (p *PeakEnergy) Value() float64 { return p.peak }

func (p *PeakEnergy) Reset() { p.peak = 0 }

// ResidualEnergy is the ratio of the latest energy to the peak energy.
// Close to 0 once a pulse has left through absorbing walls, close to 1
// when the walls reflect.
type ResidualEnergy struct {
	name    string
	peak    float64
	current float64
}

func NewResidualEnergy() *ResidualEnergy {
	return &ResidualEnergy{name: "residual_energy"}
}

func (r *ResidualEnergy) Name() string { return r.name }

func (r *ResidualEnergy) Observe(s fdtd.Snapshot) {
	r.current = FieldEnergy(s)
	if r.current > r.peak {
		r.peak = r.current
	}
}

func (r *ResidualEnergy) Value() float64 {
	if r.peak == 0 {
		return 0
	}
	return r.current / r.peak
}

func (r *ResidualEnergy) Reset() {
	r.peak = 0
	r.current = 0
}
