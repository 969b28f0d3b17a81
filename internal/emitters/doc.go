// Package emitters provides the closed set of field sources.
//
// Each emitter implements [field.Emitter] with closed-form expressions:
//
//   - [PointCharge]: Coulomb field, plus B and A when the charge moves
//   - [CurrentElement]: discretized Biot-Savart sum over a wire loop
//   - [LineConductor]: infinite straight wire along z
//   - [Dipole]: exact near and far field of a Hertzian dipole
//   - [Antenna]: far field of a centre-fed linear antenna
//
// Dipole and Antenna implement [field.Radiator]. Their fields are phasors
// evaluated at the retarded time t - r/c.
//
// # Example
//
//	a, _ := emitters.NewAntenna(field.SI(), emitters.AntennaSpec{
//	    Frequency: 1e9, Power: 1, Length: 0.5,
//	})
//	e, _ := field.EvaluateReal(a, field.Electric, r3.Vec{X: 3}, 0)
package emitters
