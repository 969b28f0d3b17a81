// Package field provides the core primitives for classical field evaluation.
//
// The package defines the types every other package builds on:
//
//   - [Emitter]: a field source evaluated pointwise (potential, A, E, B)
//   - [Quantity]: tag selecting which physical quantity to evaluate
//   - [CVec3]: complex 3-vector used for phasor fields
//   - [Constants]: vacuum constants for a unit system
//
// Real vectors are gonum [r3.Vec] values. Fields of time-harmonic emitters
// are phasors; the physical field is the real part.
//
// # Example
//
//	q := emitters.NewPointCharge(field.SI(), 1e-9, r3.Vec{})
//	v, err := field.EvaluateReal(q, field.Electric, r3.Vec{X: 1}, 0)
//
// # Singularities
//
// Evaluating at an emitter's own location returns an error wrapping
// [ErrSingularField]. Grid evaluation masks such cells instead of aborting.
package field
