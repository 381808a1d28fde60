package fdtd

import "math"

const (
	DefaultGaussianDelay = 30.0
	DefaultGaussianWidth = 10.0

	// DefaultSinePhasePerStep is omega*dt when no angular frequency is given.
	DefaultSinePhasePerStep = 0.3
	DefaultSineMagnitude    = 1.0
)

// GaussianParams describes exp(-((n-Delay)/Width)^2). Delay and Width are in
// time steps; the dt factors cancel. Zero fields take the defaults unless
// Explicit is set, which keeps a zero Delay (a pulse peaking at step 0). A
// zero Width always takes the default.
type GaussianParams struct {
	Delay    float64
	Width    float64
	Explicit bool
}

// SineParams describes Magnitude*sin(Omega*dt*n). Omega is in rad/s. Without
// Explicit a zero Omega selects 0.3/dt and a zero Magnitude selects 1; with
// Explicit both are used as given.
type SineParams struct {
	Omega     float64
	Magnitude float64
	Explicit  bool
}

// Waveform is the resolved excitation, with every default filled in.
type Waveform struct {
	Kind     Wave
	Gaussian GaussianParams
	Sine     SineParams
	dt       float64
}

func newWaveform(kind Wave, g GaussianParams, sp SineParams, dt float64) Waveform {
	if g.Delay == 0 && !g.Explicit {
		g.Delay = DefaultGaussianDelay
	}
	if g.Width == 0 {
		g.Width = DefaultGaussianWidth
	}
	if !sp.Explicit {
		if sp.Omega == 0 {
			sp.Omega = DefaultSinePhasePerStep / dt
		}
		if sp.Magnitude == 0 {
			sp.Magnitude = DefaultSineMagnitude
		}
	}
	return Waveform{Kind: kind, Gaussian: g, Sine: sp, dt: dt}
}

// Value returns the excitation at the given time step.
func (w Waveform) Value(step int) float64 {
	n := float64(step)
	switch w.Kind {
	case WaveGaussian:
		arg := (n - w.Gaussian.Delay) / w.Gaussian.Width
		return math.Exp(-arg * arg)
	case WaveSine:
		return w.Sine.Magnitude * math.Sin(w.Sine.Omega*w.dt*n)
	default:
		// unreachable: New rejects unknown kinds
		return 0
	}
}

// PeriodSteps is the sinusoid period in time steps, 0 for a pulse or a
// constant sine.
func (w Waveform) PeriodSteps() float64 {
	switch w.Kind {
	case WaveSine:
		if w.Sine.Omega == 0 {
			return 0
		}
		return 2 * math.Pi / math.Abs(w.Sine.Omega*w.dt)
	default:
		return 0
	}
}

// Samples returns the first n values of the waveform without any field update.
func (w Waveform) Samples(n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = w.Value(i)
	}
	return out
}

// UpdateSource samples the waveform at the current time step. It does not
// touch the fields or advance the counter.
func (s *Simulator) UpdateSource() float64 {
	return s.wave.Value(s.timeStep)
}

// inject writes v into the driven array at the source position.
func (s *Simulator) inject(v float64) {
	var field []float64
	switch s.cfg.SourceField {
	case FieldElectric:
		field = s.ez
	case FieldMagnetic:
		field = s.hy
	}

	switch s.cfg.SourceType {
	case SourceHard:
		field[s.cfg.SourcePosition] = v
	case SourceSoft:
		field[s.cfg.SourcePosition] += v
	}
	s.sourceValue = v
}

// maxSourcePosition is the last strictly interior index of the driven array.
func maxSourcePosition(f Field, n int) int {
	switch f {
	case FieldMagnetic:
		return n - 3
	default:
		return n - 2
	}
}
