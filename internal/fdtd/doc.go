// Package fdtd implements a one-dimensional finite-difference time-domain
// solver for Maxwell's equations.
//
// The package is built around a single stateful type:
//
//   - [Simulator]: staggered Ez/Hy field store advanced by [Simulator.Iterate]
//   - [Config]: geometry, source and boundary selection, validated by [New]
//   - [Snapshot]: read-only copy of the fields handed to observers
//
// # Grid
//
// Ez has N samples and Hy has N-1. Hy[i] lies half a cell to the right of
// Ez[i]:
//
//	Ez[0]   Ez[1]   Ez[2]   ...   Ez[N-1]
//	    Hy[0]   Hy[1]   ...   Hy[N-2]
//
// # Stepping
//
// Each iteration updates the interior electric samples, injects the source,
// updates every magnetic sample and finally corrects the two edge electric
// samples according to the boundary kind. The order is fixed.
//
//	cfg := fdtd.DefaultConfig(0.01, 200, 100)
//	s, err := fdtd.New(cfg)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 400; i++ {
//	    s.Iterate()
//	}
//
// # Thread Safety
//
// Simulator instances are NOT safe for concurrent use. Readers such as
// plotting code must run on the goroutine that calls Iterate or work on
// a [Snapshot].
package fdtd
