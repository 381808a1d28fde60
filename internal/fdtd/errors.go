package fdtd

import (
	"errors"
	"fmt"
)

// Construction errors. Once New succeeds no operation on the simulator fails.
var (
	// ErrInvalidSourcePosition indicates a source outside the strictly interior range.
	ErrInvalidSourcePosition = errors.New("fdtd: invalid source position")

	// ErrInvalidWaveKind indicates an unknown source waveform.
	ErrInvalidWaveKind = errors.New("fdtd: unknown source wave kind")

	// ErrInvalidBoundaryConfiguration indicates an absorbing boundary paired
	// with a Courant factor other than 0.5.
	ErrInvalidBoundaryConfiguration = errors.New("fdtd: invalid boundary configuration")

	// ErrInvalidGrid indicates bad geometry: too few points, non-positive
	// spacing, Courant factor or impedance.
	ErrInvalidGrid = errors.New("fdtd: invalid grid")

	ErrInvalidSourceField  = errors.New("fdtd: unknown source field")
	ErrInvalidSourceType   = errors.New("fdtd: unknown source type")
	ErrInvalidBoundaryKind = errors.New("fdtd: unknown boundary kind")

	// ErrUnstable indicates the fields diverged (NaN or Inf detected).
	ErrUnstable = errors.New("fdtd: simulation unstable (field diverged)")
)

// SourcePositionError carries the rejected position and the domain size.
type SourcePositionError struct {
	Position   int
	DomainSize int
	Field      Field
}

// MaxPosition is the largest index accepted for the error's field.
func (e *SourcePositionError) MaxPosition() int {
	return maxSourcePosition(e.Field, e.DomainSize)
}

func (e *SourcePositionError) Error() string {
	return fmt.Sprintf("fdtd: source position %d is outside the valid %s positions [1:%d] for N=%d",
		e.Position, e.Field, e.MaxPosition(), e.DomainSize)
}

func (e *SourcePositionError) Unwrap() error {
	return ErrInvalidSourcePosition
}

// BoundaryError reports the Courant factor that was paired with a Mur boundary.
type BoundaryError struct {
	Boundary Boundary
	Courant  float64
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("fdtd: %s boundary requires courant factor %g, got %g",
		e.Boundary, MurCourant, e.Courant)
}

func (e *BoundaryError) Unwrap() error {
	return ErrInvalidBoundaryConfiguration
}

// StepError wraps an error with the step it was detected at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g s): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
