package field

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"
)

// CVec3 is a complex 3-vector. Static fields have zero imaginary parts.
type CVec3 [3]complex128

// Complex lifts a real vector.
func Complex(v r3.Vec) CVec3 {
	return CVec3{complex(v.X, 0), complex(v.Y, 0), complex(v.Z, 0)}
}

func (a CVec3) Add(b CVec3) CVec3 {
	return CVec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a CVec3) Sub(b CVec3) CVec3 {
	return CVec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a CVec3) Scale(s complex128) CVec3 {
	return CVec3{a[0] * s, a[1] * s, a[2] * s}
}

// Cross is the bilinear cross product (no conjugation).
func (a CVec3) Cross(b CVec3) CVec3 {
	return CVec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Dot is the bilinear dot product (no conjugation).
func (a CVec3) Dot(b CVec3) complex128 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a CVec3) Real() r3.Vec {
	return r3.Vec{X: real(a[0]), Y: real(a[1]), Z: real(a[2])}
}

func (a CVec3) Imag() r3.Vec {
	return r3.Vec{X: imag(a[0]), Y: imag(a[1]), Z: imag(a[2])}
}

// IsFinite reports whether no component is NaN or Inf.
func (a CVec3) IsFinite() bool {
	for _, c := range a {
		if cmplx.IsNaN(c) || cmplx.IsInf(c) {
			return false
		}
	}
	return true
}

// Finite reports whether no component of v is NaN or Inf.
func Finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// CartesianToSpherical returns (r, theta, phi) with theta measured from +z
// and phi from +x in the xy-plane.
func CartesianToSpherical(v r3.Vec) (r, theta, phi float64) {
	r = r3.Norm(v)
	if r == 0 {
		return 0, 0, 0
	}
	theta = math.Acos(math.Max(-1, math.Min(1, v.Z/r)))
	phi = math.Atan2(v.Y, v.X)
	return r, theta, phi
}

func SphericalToCartesian(r, theta, phi float64) r3.Vec {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return r3.Vec{X: r * st * cp, Y: r * st * sp, Z: r * ct}
}

// SphericalBasis returns the unit vectors r^, theta^, phi^ at (theta, phi).
func SphericalBasis(theta, phi float64) (rHat, thetaHat, phiHat r3.Vec) {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	rHat = r3.Vec{X: st * cp, Y: st * sp, Z: ct}
	thetaHat = r3.Vec{X: ct * cp, Y: ct * sp, Z: -st}
	phiHat = r3.Vec{X: -sp, Y: cp, Z: 0}
	return rHat, thetaHat, phiHat
}

// SphericalToCartesianVector rotates spherical components (vr, vtheta, vphi)
// at (theta, phi) into the Cartesian frame.
func SphericalToCartesianVector(vr, vtheta, vphi complex128, theta, phi float64) CVec3 {
	rHat, thetaHat, phiHat := SphericalBasis(theta, phi)
	return Complex(rHat).Scale(vr).
		Add(Complex(thetaHat).Scale(vtheta)).
		Add(Complex(phiHat).Scale(vphi))
}
