// Package analysis derives scalar results from sampled fields and
// emitters.
//
//   - [BoxFlux]: outward flux of a vector field through the faces of its
//     volume grid (Gauss's law check for charges)
//   - [Summarize]: magnitude statistics over unmasked cells
//   - [ProbeSpectrum]: time series of a field at one point over several
//     periods and its power spectrum
//
// # Gauss's Law
//
// For an electric field sampled on a box that encloses charges,
//
//	flux, _ := analysis.BoxFlux(s)
//	q := flux * consts.Epsilon0
//
// recovers the enclosed charge up to the trapezoidal error of the face
// quadrature.
package analysis
