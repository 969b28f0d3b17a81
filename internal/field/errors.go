package field

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Domain errors for field evaluation.
var (
	// ErrSingularField indicates evaluation at or too close to a point where
	// the closed-form field diverges.
	ErrSingularField = errors.New("field: singular field point")

	// ErrInvalidEmitter indicates an emitter constructed with violated invariants.
	ErrInvalidEmitter = errors.New("field: invalid emitter configuration")

	// ErrInvalidGrid indicates a bounding box or resolution that cannot be meshed.
	ErrInvalidGrid = errors.New("field: invalid grid configuration")

	// ErrUnsupportedQuantity indicates the emitter has no model for the quantity.
	ErrUnsupportedQuantity = errors.New("field: quantity not supported by emitter")

	// ErrNoEmitters indicates a superposition over an empty emitter set.
	ErrNoEmitters = errors.New("field: no emitters to superpose")
)

// SingularityTolerance is the distance below which a field point is
// considered coincident with a source.
const SingularityTolerance = 1e-12

// SingularFieldError carries the point at which a field diverged.
type SingularFieldError struct {
	Emitter string
	Point   r3.Vec
	Reason  string
}

func (e *SingularFieldError) Error() string {
	return fmt.Sprintf("%s: %s at (%g, %g, %g)", ErrSingularField, e.Reason, e.Point.X, e.Point.Y, e.Point.Z)
}

func (e *SingularFieldError) Unwrap() error { return ErrSingularField }

// Singular builds a SingularFieldError for emitter name at p.
func Singular(name string, p r3.Vec, reason string) error {
	return &SingularFieldError{Emitter: name, Point: p, Reason: reason}
}

// EmitterConfigError reports a rejected constructor parameter.
type EmitterConfigError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *EmitterConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %s", ErrInvalidEmitter, e.Param, e.Value, e.Reason)
}

func (e *EmitterConfigError) Unwrap() error { return ErrInvalidEmitter }

// GridConfigError reports a rejected grid axis.
type GridConfigError struct {
	Axis   string
	Reason string
}

func (e *GridConfigError) Error() string {
	return fmt.Sprintf("%s: axis %s: %s", ErrInvalidGrid, e.Axis, e.Reason)
}

func (e *GridConfigError) Unwrap() error { return ErrInvalidGrid }

// IsSingular reports whether err stems from a field singularity.
func IsSingular(err error) bool { return errors.Is(err, ErrSingularField) }
