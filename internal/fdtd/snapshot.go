package fdtd

import "math"

// Snapshot is a copy of the simulator state after an iteration.
type Snapshot struct {
	Step   int
	Time   float64
	Ez     []float64
	Hy     []float64
	Source float64
}

// IsValid reports whether every field sample is finite.
func (s Snapshot) IsValid() bool {
	for _, v := range s.Ez {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range s.Hy {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxAbsEz returns the largest |Ez| and its index.
func (s Snapshot) MaxAbsEz() (float64, int) {
	best, idx := 0.0, 0
	for i, v := range s.Ez {
		if a := math.Abs(v); a > best {
			best, idx = a, i
		}
	}
	return best, idx
}
