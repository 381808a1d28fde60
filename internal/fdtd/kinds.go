package fdtd

import (
	"fmt"
	"strings"
)

// Field selects the array a source drives.
type Field int

const (
	FieldElectric Field = iota
	FieldMagnetic
)

func (f Field) String() string {
	switch f {
	case FieldElectric:
		return "electric"
	case FieldMagnetic:
		return "magnetic"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

func (f Field) valid() bool {
	switch f {
	case FieldElectric, FieldMagnetic:
		return true
	default:
		return false
	}
}

// SourceType selects overwrite (hard) or superposition (soft) injection.
type SourceType int

const (
	SourceSoft SourceType = iota
	SourceHard
)

func (t SourceType) String() string {
	switch t {
	case SourceSoft:
		return "soft"
	case SourceHard:
		return "hard"
	default:
		return fmt.Sprintf("source(%d)", int(t))
	}
}

func (t SourceType) valid() bool {
	switch t {
	case SourceSoft, SourceHard:
		return true
	default:
		return false
	}
}

// Wave selects the excitation waveform.
type Wave int

const (
	WaveGaussian Wave = iota
	WaveSine
)

func (w Wave) String() string {
	switch w {
	case WaveGaussian:
		return "gaussian"
	case WaveSine:
		return "sine"
	default:
		return fmt.Sprintf("wave(%d)", int(w))
	}
}

func (w Wave) valid() bool {
	switch w {
	case WaveGaussian, WaveSine:
		return true
	default:
		return false
	}
}

// Boundary selects the edge treatment.
type Boundary int

const (
	// BoundaryMur is the first-order Mur absorbing boundary.
	BoundaryMur Boundary = iota
	// BoundaryBare leaves the edge samples untouched, which reflects.
	BoundaryBare
)

func (b Boundary) String() string {
	switch b {
	case BoundaryMur:
		return "mur"
	case BoundaryBare:
		return "bare"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

func (b Boundary) valid() bool {
	switch b {
	case BoundaryMur, BoundaryBare:
		return true
	default:
		return false
	}
}

// ParseField accepts "electric"/"e" and "magnetic"/"h".
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "electric", "e", "ez":
		return FieldElectric, nil
	case "magnetic", "h", "hy":
		return FieldMagnetic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSourceField, s)
	}
}

func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "soft":
		return SourceSoft, nil
	case "hard":
		return SourceHard, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSourceType, s)
	}
}

func ParseWave(s string) (Wave, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gaussian", "gauss", "pulse":
		return WaveGaussian, nil
	case "sine", "sin", "cw", "sinusoid":
		return WaveSine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWaveKind, s)
	}
}

// ParseBoundary accepts "mur"/"absorbing" and "bare"/"reflecting".
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mur", "absorbing", "abc":
		return BoundaryMur, nil
	case "bare", "reflecting", "none":
		return BoundaryBare, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBoundaryKind, s)
	}
}
