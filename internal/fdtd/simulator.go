package fdtd

import (
	"fmt"
	"math"
)

// Physical constants (CODATA 2018).
const (
	SpeedOfLight = 299792458.0
	Mu0          = 1.25663706212e-6
	Epsilon0     = 8.8541878128e-12

	// VacuumImpedance is 1/(epsilon0*c), about 376.73 ohm.
	VacuumImpedance = 1 / (Epsilon0 * SpeedOfLight)

	MinPoints = 3
)

// Config fixes the geometry, source and boundary of a Simulator. The zero
// value of every kind field is the default (electric, soft, gaussian, mur).
type Config struct {
	Dx             float64
	N              int
	SourcePosition int
	Courant        float64
	SourceField    Field
	SourceType     SourceType
	SourceWave     Wave
	Boundary       Boundary
	Impedance      float64
	Gaussian       GaussianParams
	Sine           SineParams
}

// DefaultConfig returns a soft gaussian electric source with Mur boundaries.
func DefaultConfig(dx float64, n, sourcePosition int) Config {
	return Config{
		Dx:             dx,
		N:              n,
		SourcePosition: sourcePosition,
		Courant:        MurCourant,
		SourceField:    FieldElectric,
		SourceType:     SourceSoft,
		SourceWave:     WaveGaussian,
		Boundary:       BoundaryMur,
		Impedance:      VacuumImpedance,
	}
}

// Validate reports the first construction error for cfg.
func (c Config) Validate() error {
	if c.N < MinPoints {
		return fmt.Errorf("%w: need at least %d points, got %d", ErrInvalidGrid, MinPoints, c.N)
	}
	if !(c.Dx > 0) || math.IsInf(c.Dx, 0) {
		return fmt.Errorf("%w: dx must be positive, got %g", ErrInvalidGrid, c.Dx)
	}
	if !(c.Courant > 0) || math.IsInf(c.Courant, 0) {
		return fmt.Errorf("%w: courant factor must be positive, got %g", ErrInvalidGrid, c.Courant)
	}
	if !(c.Impedance > 0) {
		return fmt.Errorf("%w: impedance must be positive, got %g", ErrInvalidGrid, c.Impedance)
	}
	if !c.SourceField.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidSourceField, c.SourceField)
	}
	if !c.SourceType.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidSourceType, c.SourceType)
	}
	if !c.SourceWave.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidWaveKind, c.SourceWave)
	}
	if !c.Boundary.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidBoundaryKind, c.Boundary)
	}
	if c.Boundary == BoundaryMur && c.Courant != MurCourant {
		return &BoundaryError{Boundary: c.Boundary, Courant: c.Courant}
	}
	if c.SourcePosition < 1 || c.SourcePosition > maxSourcePosition(c.SourceField, c.N) {
		return &SourcePositionError{Position: c.SourcePosition, DomainSize: c.N, Field: c.SourceField}
	}
	return nil
}

// Simulator owns the staggered field arrays and advances them in place.
type Simulator struct {
	cfg         Config
	dt          float64
	cc          float64
	wave        Waveform
	timeStep    int
	ez          []float64
	hy          []float64
	sourceValue float64
	mur         murState
}

// New validates cfg and returns a simulator with zeroed fields.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dt := cfg.Courant * cfg.Dx / SpeedOfLight
	s := &Simulator{
		cfg:  cfg,
		dt:   dt,
		cc:   (dt / cfg.Dx) / math.Sqrt(Mu0*Epsilon0),
		wave: newWaveform(cfg.SourceWave, cfg.Gaussian, cfg.Sine, dt),
		ez:   make([]float64, cfg.N),
		hy:   make([]float64, cfg.N-1),
	}
	s.cfg.Gaussian = s.wave.Gaussian
	s.cfg.Sine = s.wave.Sine
	return s, nil
}

// Iterate advances the simulation by one time step:
// E interior update, source injection, H update, boundary correction.
func (s *Simulator) Iterate() {
	s.updateElectric()
	s.inject(s.UpdateSource())
	s.updateMagnetic()
	s.applyBoundaries()
	s.timeStep++
}

// updateElectric skips Ez[0] and Ez[N-1]; those belong to the boundary.
func (s *Simulator) updateElectric() {
	ez, hy, cc := s.ez, s.hy, s.cc
	for n := 1; n < len(ez)-1; n++ {
		ez[n] += cc * (hy[n-1] - hy[n])
	}
}

func (s *Simulator) updateMagnetic() {
	ez, hy, cc := s.ez, s.hy, s.cc
	for n := range hy {
		hy[n] += cc * (ez[n] - ez[n+1])
	}
}

func (s *Simulator) Config() Config              { return s.cfg }
func (s *Simulator) Waveform() Waveform          { return s.wave }
func (s *Simulator) N() int                      { return len(s.ez) }
func (s *Simulator) Dx() float64                 { return s.cfg.Dx }
func (s *Simulator) Dt() float64                 { return s.dt }
func (s *Simulator) Courant() float64            { return s.cfg.Courant }
func (s *Simulator) Impedance() float64          { return s.cfg.Impedance }
func (s *Simulator) FieldNormalisation() float64 { return s.cc }
func (s *Simulator) TimeStep() int               { return s.timeStep }

// Time is the simulated time of the current step, TimeStep*Dt.
func (s *Simulator) Time() float64 { return float64(s.timeStep) * s.dt }

// SourceValue is the value injected by the most recent iteration.
func (s *Simulator) SourceValue() float64 { return s.sourceValue }

// Ez returns a copy of the electric field.
func (s *Simulator) Ez() []float64 { return clone(s.ez) }

// Hy returns a copy of the magnetic field.
func (s *Simulator) Hy() []float64 { return clone(s.hy) }

func (s *Simulator) EzAt(i int) float64 { return s.ez[i] }
func (s *Simulator) HyAt(i int) float64 { return s.hy[i] }

// Snapshot captures the current state for observers and exporters.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Step:   s.timeStep,
		Time:   s.Time(),
		Ez:     clone(s.ez),
		Hy:     clone(s.hy),
		Source: s.sourceValue,
	}
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
