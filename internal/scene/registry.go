package scene

import (
	"fmt"
	"sort"

	"github.com/san-kum/emfield/internal/config"
	"github.com/san-kum/emfield/internal/emitters"
	"github.com/san-kum/emfield/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// Builder constructs the emitters described by one config entry. Compound
// entries such as a ring of moving charges yield several emitters.
type Builder func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error)

type Registry struct {
	builders map[string]Builder
}

func vec(v [3]float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func one(e field.Emitter, err error) ([]field.Emitter, error) {
	if err != nil {
		return nil, err
	}
	return []field.Emitter{e}, nil
}

func elements(ec config.EmitterConfig) int {
	if ec.Elements > 0 {
		return ec.Elements
	}
	return config.DefaultElements
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders["charge"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		return one(emitters.NewMovingCharge(c, ec.Q, vec(ec.Position), vec(ec.Velocity)))
	}
	r.builders["current"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		r0 := make([]r3.Vec, len(ec.Points))
		for i, p := range ec.Points {
			r0[i] = vec(p)
		}
		dl := make([]r3.Vec, len(ec.Directions))
		for i, d := range ec.Directions {
			dl[i] = vec(d)
		}
		return one(emitters.NewCurrentElement(c, ec.I, r0, dl))
	}
	r.builders["loop"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		normal, err := field.ParseAxis(ec.Normal)
		if err != nil {
			return nil, err
		}
		return one(emitters.NewCurrentLoop(c, ec.I, vec(ec.Position), ec.Radius, elements(ec), normal))
	}
	r.builders["ellipse"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		normal, err := field.ParseAxis(ec.Normal)
		if err != nil {
			return nil, err
		}
		if !(ec.Radius > 0) || !(ec.RadiusB > 0) {
			return nil, &field.EmitterConfigError{Param: "radius", Value: ec.Radius, Reason: "both semi-axes must be positive"}
		}
		r0, dl := emitters.EllipticalLoop(vec(ec.Position), ec.Radius, ec.RadiusB, elements(ec), normal)
		return one(emitters.NewCurrentElement(c, ec.I, r0, dl))
	}
	r.builders["moving_loop"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		normal, err := field.ParseAxis(ec.Normal)
		if err != nil {
			return nil, err
		}
		return emitters.MovingChargeLoop(c, ec.Q, vec(ec.Position), ec.Radius, elements(ec), normal, ec.Speed)
	}
	r.builders["line"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		return one(emitters.NewLineConductor(c, ec.I, vec(ec.Position)))
	}
	r.builders["dipole"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		return one(emitters.NewDipole(c, emitters.DipoleSpec{
			Frequency: ec.Frequency,
			Power:     ec.Power,
			Position:  vec(ec.Position),
			PhaseDeg:  ec.Phase,
		}))
	}
	r.builders["antenna"] = func(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
		norm, err := emitters.ParseNormalization(ec.Normalization)
		if err != nil {
			return nil, err
		}
		return one(emitters.NewAntenna(c, emitters.AntennaSpec{
			Frequency:     ec.Frequency,
			Power:         ec.Power,
			Length:        ec.Length,
			PhaseDeg:      ec.Phase,
			Position:      vec(ec.Position),
			Normalization: norm,
		}))
	}

	return r
}

// Register adds or replaces the builder for kind.
func (r *Registry) Register(kind string, b Builder) {
	r.builders[kind] = b
}

func (r *Registry) Build(c field.Constants, ec config.EmitterConfig) ([]field.Emitter, error) {
	b, ok := r.builders[ec.Type]
	if !ok {
		return nil, fmt.Errorf("unknown emitter type: %s", ec.Type)
	}
	ems, err := b(c, ec)
	if err != nil {
		return nil, fmt.Errorf("emitter %s: %w", ec.Type, err)
	}
	return ems, nil
}

func (r *Registry) ListEmitters() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
