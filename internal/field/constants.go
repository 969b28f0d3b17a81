package field

import (
	"fmt"
	"math"
	"strings"
)

// Constants holds the vacuum constants all coupling factors derive from.
// Values are copied into emitters at construction; there is no global state.
type Constants struct {
	Epsilon0 float64 `yaml:"epsilon0" json:"epsilon0"`
	Mu0      float64 `yaml:"mu0" json:"mu0"`
	C        float64 `yaml:"c" json:"c"`
}

// SI returns CODATA 2018 vacuum constants.
func SI() Constants {
	return Constants{
		Epsilon0: 8.8541878128e-12,
		Mu0:      1.25663706212e-6,
		C:        299792458.0,
	}
}

// Natural returns eps0 = mu0 = 1 with c in m/s, so Ke = Km = 1/4pi and
// Z0 = 1.
func Natural() Constants {
	return Constants{Epsilon0: 1, Mu0: 1, C: 299792458.0}
}

// ConstantsByName resolves "si" or "natural".
func ConstantsByName(name string) (Constants, error) {
	switch strings.ToLower(name) {
	case "", "si":
		return SI(), nil
	case "natural", "unitless":
		return Natural(), nil
	default:
		return Constants{}, fmt.Errorf("field: unknown unit system %q", name)
	}
}

// Ke is the Coulomb constant 1/(4 pi eps0).
func (c Constants) Ke() float64 { return 1 / (4 * math.Pi * c.Epsilon0) }

// Km is the magnetic constant mu0/(4 pi).
func (c Constants) Km() float64 { return c.Mu0 / (4 * math.Pi) }

// Z0 is the free-space wave impedance sqrt(mu0/eps0).
func (c Constants) Z0() float64 { return math.Sqrt(c.Mu0 / c.Epsilon0) }

// Validate reports the first constant that is not positive.
func (c Constants) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"epsilon0", c.Epsilon0}, {"mu0", c.Mu0}, {"c", c.C}} {
		if !(p.v > 0) {
			return &EmitterConfigError{Param: p.name, Value: p.v, Reason: "must be positive"}
		}
	}
	return nil
}
