package field

import (
	"fmt"
	"strings"
)

// Quantity selects the physical quantity an emitter is asked for.
type Quantity int

const (
	Potential Quantity = iota
	VectorPotential
	Electric
	MagneticB
	MagneticH
	Poynting
)

var quantityNames = map[Quantity]string{
	Potential:       "phi",
	VectorPotential: "A",
	Electric:        "E",
	MagneticB:       "B",
	MagneticH:       "H",
	Poynting:        "S",
}

func (q Quantity) String() string {
	if s, ok := quantityNames[q]; ok {
		return s
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

// Scalar reports whether the quantity carries its value in the x slot only.
func (q Quantity) Scalar() bool { return q == Potential }

// ParseQuantity accepts the short symbol or a long name, case-insensitive.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(s) {
	case "phi", "potential", "scalar_potential":
		return Potential, nil
	case "a", "vector_potential":
		return VectorPotential, nil
	case "e", "electric":
		return Electric, nil
	case "b", "magnetic", "flux_density":
		return MagneticB, nil
	case "h", "magnetic_h":
		return MagneticH, nil
	case "s", "poynting":
		return Poynting, nil
	}
	return 0, fmt.Errorf("field: unknown quantity %q", s)
}

// MarshalText lets quantities appear as symbols in yaml and json.
func (q Quantity) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

func (q *Quantity) UnmarshalText(b []byte) error {
	v, err := ParseQuantity(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
