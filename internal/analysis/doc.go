// Package analysis provides statistics for completed random walk runs.
//
//   - [Summarize]: final mean squared displacement against theory, with its
//     standard error
//   - [DiffusionExponent]: log-log slope of MSD versus step count
//   - [PowerSpectrum] and [MeanSpectrum]: spectra of position series
//   - [Distribution]: histogram of final positions against a normal fit
//
// A normal diffusive walk has exponent 1:
//
//	alpha, _, err := analysis.DiffusionExponent(sim.History())
//	if err == nil && math.Abs(alpha-1) < 0.1 {
//	    // diffusive
//	}
package analysis
