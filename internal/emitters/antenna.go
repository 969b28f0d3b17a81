package emitters

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalization selects how the feed current amplitude is derived from the
// radiated power.
type Normalization int

const (
	// NormLegacy uses the tabulated half-wave integral for fractional
	// length factors and the full-wave integral for integer ones.
	NormLegacy Normalization = iota
	// NormExact integrates the radiation pattern for the actual length.
	NormExact
)

const (
	halfWaveIntegral = 1.21883
	fullWaveIntegral = 3.31813
)

func (n Normalization) String() string {
	if n == NormExact {
		return "exact"
	}
	return "legacy"
}

func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(s) {
	case "", "legacy":
		return NormLegacy, nil
	case "exact":
		return NormExact, nil
	}
	return 0, fmt.Errorf("emitters: unknown normalization %q", s)
}

// AntennaSpec configures a centre-fed linear antenna along z. Length is
// the length factor: the physical length is Length wavelengths.
type AntennaSpec struct {
	Frequency     float64
	Power         float64
	Length        float64
	PhaseDeg      float64
	Position      r3.Vec
	Normalization Normalization
}

// Antenna is a linear antenna in the far-field approximation. A length
// factor of zero degenerates to a Hertzian dipole.
type Antenna struct {
	spec   AntennaSpec
	consts field.Constants
	omega  float64
	k      float64
	h      float64 // half length
	dphi   float64
	i0     float64
	dipole *Dipole
}

func NewAntenna(c field.Constants, spec AntennaSpec) (*Antenna, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !(spec.Length >= 0) || math.IsInf(spec.Length, 0) {
		return nil, &field.EmitterConfigError{Param: "length", Value: spec.Length, Reason: "length factor must be non-negative"}
	}
	d, err := NewDipole(c, DipoleSpec{
		Frequency: spec.Frequency,
		Power:     spec.Power,
		Position:  spec.Position,
		PhaseDeg:  spec.PhaseDeg,
	})
	if err != nil {
		return nil, err
	}
	a := &Antenna{
		spec:   spec,
		consts: c,
		omega:  d.omega,
		k:      d.k,
		dphi:   d.dphi,
	}
	if spec.Length == 0 {
		a.dipole = d
		return a, nil
	}
	wavelength := c.C / spec.Frequency
	a.h = spec.Length * wavelength / 2

	integral := RadiationIntegral(spec.Length)
	if spec.Normalization == NormLegacy {
		integral = halfWaveIntegral
		if spec.Length == math.Trunc(spec.Length) {
			integral = fullWaveIntegral
		}
	}
	a.i0 = math.Sqrt(4 * math.Pi * spec.Power / (c.Z0() * integral))
	return a, nil
}

// RadiationIntegral evaluates the integral over [0, pi] of
// [cos(pi l cos t) - cos(pi l)]^2 / sin t, which fixes the feed current of an
// antenna of length factor l.
func RadiationIntegral(l float64) float64 {
	kh := math.Pi * l
	f := func(theta float64) float64 {
		s := math.Sin(theta)
		if s < field.SingularityTolerance {
			return 0
		}
		v := math.Cos(kh*math.Cos(theta)) - math.Cos(kh)
		return v * v / s
	}
	return quad.Fixed(f, 0, math.Pi, 200, nil, 0)
}

func (a *Antenna) Name() string               { return "antenna" }
func (a *Antenna) Position() r3.Vec           { return a.spec.Position }
func (a *Antenna) Constants() field.Constants { return a.consts }
func (a *Antenna) Frequency() float64         { return a.spec.Frequency }
func (a *Antenna) Period() float64            { return 1 / a.spec.Frequency }
func (a *Antenna) Wavelength() float64        { return a.consts.C / a.spec.Frequency }

// LengthFactor returns the antenna length in wavelengths.
func (a *Antenna) LengthFactor() float64 { return a.spec.Length }

// FullWave reports whether the length factor is a positive integer.
func (a *Antenna) FullWave() bool {
	return a.spec.Length > 0 && a.spec.Length == math.Trunc(a.spec.Length)
}

// FeedCurrent returns I0; zero in the dipole limit.
func (a *Antenna) FeedCurrent() float64 { return a.i0 }

func (a *Antenna) GetParams() map[string]float64 {
	return map[string]float64{
		"f":      a.spec.Frequency,
		"P":      a.spec.Power,
		"length": a.spec.Length,
		"dphi":   a.spec.PhaseDeg,
		"I0":     a.i0,
	}
}

type farField struct {
	r, theta, phi float64
	pattern       float64 // f(theta)
	sin           float64
	phase         complex128
}

func (a *Antenna) far(p r3.Vec, t float64) (farField, error) {
	d := r3.Sub(p, a.spec.Position)
	r, theta, phi := field.CartesianToSpherical(d)
	if r < field.SingularityTolerance {
		return farField{}, field.Singular(a.Name(), p, "field point at feed")
	}
	s := math.Sin(theta)
	if s < field.SingularityTolerance {
		return farField{}, field.Singular(a.Name(), p, "field point on antenna axis")
	}
	tr := t - r/a.consts.C
	return farField{
		r:       r,
		theta:   theta,
		phi:     phi,
		pattern: (math.Cos(a.k*a.h*math.Cos(theta)) - math.Cos(a.k*a.h)) / s,
		sin:     s,
		phase:   cmplx.Exp(complex(0, -(a.omega*tr + a.dphi))),
	}, nil
}

// Electric is E_theta = i Z0 I0 f(theta) phase / (2 pi r).
func (a *Antenna) Electric(p r3.Vec, t float64) (field.CVec3, error) {
	if a.dipole != nil {
		return a.dipole.Electric(p, t)
	}
	ff, err := a.far(p, t)
	if err != nil {
		return field.CVec3{}, err
	}
	eTheta := complex(0, a.consts.Z0()*a.i0*ff.pattern/(2*math.Pi*ff.r)) * ff.phase
	return field.SphericalToCartesianVector(0, eTheta, 0, ff.theta, ff.phi), nil
}

// Magnetic is mu0 H_phi with H_phi = i I0 f(theta) phase / (2 pi r).
func (a *Antenna) Magnetic(p r3.Vec, t float64) (field.CVec3, error) {
	if a.dipole != nil {
		return a.dipole.Magnetic(p, t)
	}
	ff, err := a.far(p, t)
	if err != nil {
		return field.CVec3{}, err
	}
	hPhi := complex(0, a.i0*ff.pattern/(2*math.Pi*ff.r)) * ff.phase
	return field.SphericalToCartesianVector(0, 0, complex(a.consts.Mu0, 0)*hPhi, ff.theta, ff.phi), nil
}

// VectorPotential is A_z = mu0 I0 phase f(theta) / (2 pi k r sin(theta)).
func (a *Antenna) VectorPotential(p r3.Vec, t float64) (field.CVec3, error) {
	if a.dipole != nil {
		return a.dipole.VectorPotential(p, t)
	}
	ff, err := a.far(p, t)
	if err != nil {
		return field.CVec3{}, err
	}
	az := complex(a.consts.Mu0*a.i0*ff.pattern/(2*math.Pi*a.k*ff.r*ff.sin), 0) * ff.phase
	return field.CVec3{0, 0, az}, nil
}

// ScalarPotential is only modelled in the dipole limit.
func (a *Antenna) ScalarPotential(p r3.Vec, t float64) (complex128, error) {
	if a.dipole != nil {
		return a.dipole.ScalarPotential(p, t)
	}
	return 0, fmt.Errorf("%w: antenna of length factor %g has no scalar potential", field.ErrUnsupportedQuantity, a.spec.Length)
}
