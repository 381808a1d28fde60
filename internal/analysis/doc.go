// Package analysis provides signal tools for field probes and source
// waveforms.
//
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantFrequency]: strongest non-DC component in Hz
//   - [PadPow2]: zero padding to the next power of two
//
// # Example
//
//	result, _ := exp.Run(ctx)
//	f := analysis.DominantFrequency(result.Probe, result.Dt)
package analysis
