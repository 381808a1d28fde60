package fdtd

import (
	"errors"
	"testing"
)

func TestParseKinds(t *testing.T) {
	fields := []struct {
		in   string
		want Field
	}{
		{"electric", FieldElectric},
		{" E ", FieldElectric},
		{"Magnetic", FieldMagnetic},
		{"hy", FieldMagnetic},
	}
	for _, tt := range fields {
		got, err := ParseField(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseField(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	waves := []struct {
		in   string
		want Wave
	}{
		{"gaussian", WaveGaussian},
		{"pulse", WaveGaussian},
		{"SINE", WaveSine},
		{"cw", WaveSine},
	}
	for _, tt := range waves {
		got, err := ParseWave(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseWave(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if b, err := ParseBoundary("absorbing"); err != nil || b != BoundaryMur {
		t.Errorf("ParseBoundary(absorbing) = %v, %v", b, err)
	}
	if b, err := ParseBoundary("reflecting"); err != nil || b != BoundaryBare {
		t.Errorf("ParseBoundary(reflecting) = %v, %v", b, err)
	}
	if st, err := ParseSourceType("hard"); err != nil || st != SourceHard {
		t.Errorf("ParseSourceType(hard) = %v, %v", st, err)
	}
}

func TestParseKindsRejectUnknown(t *testing.T) {
	if _, err := ParseField("x"); !errors.Is(err, ErrInvalidSourceField) {
		t.Errorf("ParseField: got %v", err)
	}
	if _, err := ParseSourceType("gaussian"); !errors.Is(err, ErrInvalidSourceType) {
		t.Errorf("ParseSourceType: got %v", err)
	}
	if _, err := ParseWave("hard"); !errors.Is(err, ErrInvalidWaveKind) {
		t.Errorf("ParseWave: got %v", err)
	}
	if _, err := ParseBoundary("pml"); !errors.Is(err, ErrInvalidBoundaryKind) {
		t.Errorf("ParseBoundary: got %v", err)
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FieldElectric.String(), "electric"},
		{FieldMagnetic.String(), "magnetic"},
		{SourceHard.String(), "hard"},
		{SourceSoft.String(), "soft"},
		{WaveGaussian.String(), "gaussian"},
		{WaveSine.String(), "sine"},
		{BoundaryMur.String(), "mur"},
		{BoundaryBare.String(), "bare"},
		{Wave(9).String(), "wave(9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	err := &SourcePositionError{Position: 0, DomainSize: 50, Field: FieldElectric}
	want := "fdtd: source position 0 is outside the valid electric positions [1:48] for N=50"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	berr := &BoundaryError{Boundary: BoundaryMur, Courant: 0.7}
	want = "fdtd: mur boundary requires courant factor 0.5, got 0.7"
	if berr.Error() != want {
		t.Errorf("Error() = %q, want %q", berr.Error(), want)
	}

	serr := &StepError{Step: 12, Time: 0, Wrapped: ErrUnstable}
	if !errors.Is(serr, ErrUnstable) {
		t.Error("StepError does not unwrap")
	}
}
