package fdtd

// MurCourant is the only Courant factor accepted with BoundaryMur.
const MurCourant = 0.5

// murState holds the neighbour value from the previous iteration, per edge.
type murState struct {
	left, right float64
}

func (s *Simulator) applyBoundaries() {
	switch s.cfg.Boundary {
	case BoundaryMur:
		n := len(s.ez)
		s.ez[0] = s.mur.left
		s.mur.left = s.ez[1]
		s.ez[n-1] = s.mur.right
		s.mur.right = s.ez[n-2]
	case BoundaryBare:
		// edges are never written, so they stay at zero
	}
}

// BoundaryRegisters returns the stored left and right neighbour values.
// Both are zero for a bare boundary.
func (s *Simulator) BoundaryRegisters() (left, right float64) {
	return s.mur.left, s.mur.right
}
