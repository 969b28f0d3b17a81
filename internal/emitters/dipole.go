package emitters

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// DipoleSpec configures a Hertzian dipole oriented along z.
type DipoleSpec struct {
	Frequency float64 // Hz
	Power     float64 // W, time-averaged radiated power
	Position  r3.Vec
	PhaseDeg  float64 // phase offset dphi in degrees
}

// Dipole is an infinitesimal oscillating dipole whose moment amplitude is
// chosen so that it radiates Power.
type Dipole struct {
	spec   DipoleSpec
	consts field.Constants
	omega  float64
	k      float64
	dphi   float64
	p      r3.Vec // moment amplitude
}

func NewDipole(c field.Constants, spec DipoleSpec) (*Dipole, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !(spec.Frequency > 0) || math.IsInf(spec.Frequency, 0) {
		return nil, &field.EmitterConfigError{Param: "f", Value: spec.Frequency, Reason: "frequency must be positive"}
	}
	if !(spec.Power > 0) || math.IsInf(spec.Power, 0) {
		return nil, &field.EmitterConfigError{Param: "P", Value: spec.Power, Reason: "power must be positive"}
	}
	if !finiteVec(spec.Position) || !finite(spec.PhaseDeg) {
		return nil, &field.EmitterConfigError{Param: "position", Reason: "position and phase must be finite"}
	}
	omega := 2 * math.Pi * spec.Frequency
	pNorm := math.Sqrt(12 * math.Pi * c.C * spec.Power / (c.Mu0 * math.Pow(omega, 4)))
	return &Dipole{
		spec:   spec,
		consts: c,
		omega:  omega,
		k:      omega / c.C,
		dphi:   spec.PhaseDeg * math.Pi / 180,
		p:      r3.Vec{Z: pNorm},
	}, nil
}

func (d *Dipole) Name() string               { return "dipole" }
func (d *Dipole) Position() r3.Vec           { return d.spec.Position }
func (d *Dipole) Constants() field.Constants { return d.consts }
func (d *Dipole) Frequency() float64         { return d.spec.Frequency }
func (d *Dipole) Period() float64            { return 1 / d.spec.Frequency }
func (d *Dipole) Wavelength() float64        { return d.consts.C / d.spec.Frequency }

// Moment returns the dipole moment amplitude.
func (d *Dipole) Moment() r3.Vec { return d.p }

func (d *Dipole) GetParams() map[string]float64 {
	return map[string]float64{
		"f":     d.spec.Frequency,
		"P":     d.spec.Power,
		"dphi":  d.spec.PhaseDeg,
		"p":     d.p.Z,
		"omega": d.omega,
	}
}

// geometry returns the unit direction n, the distance r and the retarded
// phasor exp(-i(omega t_r + dphi)) with t_r = t - r/c.
func (d *Dipole) geometry(p r3.Vec, t float64) (n r3.Vec, r float64, phase complex128, err error) {
	sep, r, err := separation(d.Name(), p, d.spec.Position)
	if err != nil {
		return n, r, 0, err
	}
	tr := t - r/d.consts.C
	return r3.Scale(1/r, sep), r, cmplx.Exp(complex(0, -(d.omega*tr + d.dphi))), nil
}

// Electric is the full near plus far field:
// (omega^3/(4 pi eps0 c^3)) [ (n x p) x n / rho + (3n(n.p) - p)(1/rho^3 - i/rho^2) ] phase
// with rho = k r.
func (d *Dipole) Electric(pt r3.Vec, t float64) (field.CVec3, error) {
	n, r, phase, err := d.geometry(pt, t)
	if err != nil {
		return field.CVec3{}, err
	}
	c := d.consts
	rho := d.k * r
	pre := math.Pow(d.omega, 3) / (4 * math.Pi * c.Epsilon0 * math.Pow(c.C, 3))

	far := field.Complex(r3.Scale(1/rho, r3.Cross(r3.Cross(n, d.p), n)))
	nearDir := r3.Sub(r3.Scale(3*r3.Dot(n, d.p), n), d.p)
	near := field.Complex(nearDir).Scale(complex(1/(rho*rho*rho), -1/(rho*rho)))
	return far.Add(near).Scale(complex(pre, 0) * phase), nil
}

// Magnetic is mu0 H with H = (omega^3/(4 pi c^2)) (n x p)(1/rho + i/rho^2) phase.
func (d *Dipole) Magnetic(pt r3.Vec, t float64) (field.CVec3, error) {
	n, r, phase, err := d.geometry(pt, t)
	if err != nil {
		return field.CVec3{}, err
	}
	c := d.consts
	rho := d.k * r
	pre := c.Mu0 * math.Pow(d.omega, 3) / (4 * math.Pi * c.C * c.C)
	return field.Complex(r3.Cross(n, d.p)).Scale(complex(pre, 0) * complex(1/rho, 1/(rho*rho)) * phase), nil
}

// ScalarPotential is ke (n.p)(1/r^2 - i k/r) phase.
func (d *Dipole) ScalarPotential(pt r3.Vec, t float64) (complex128, error) {
	n, r, phase, err := d.geometry(pt, t)
	if err != nil {
		return 0, err
	}
	return complex(d.consts.Ke()*r3.Dot(n, d.p), 0) * complex(1/(r*r), -d.k/r) * phase, nil
}

// VectorPotential is -i km omega p phase / r.
func (d *Dipole) VectorPotential(pt r3.Vec, t float64) (field.CVec3, error) {
	_, r, phase, err := d.geometry(pt, t)
	if err != nil {
		return field.CVec3{}, err
	}
	s := complex(0, -d.consts.Km()*d.omega/r) * phase
	return field.Complex(d.p).Scale(s), nil
}
