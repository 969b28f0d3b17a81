package config

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/emfield/internal/grid"
	"gopkg.in/yaml.v3"
)

const (
	DefaultResolution = 20
	DefaultExtent     = 5.0
	DefaultFrames     = 40
	DefaultElements   = 36
)

// Config describes one scene: the emitters, the grid they are sampled on
// and the quantity to evaluate.
type Config struct {
	Name       string          `yaml:"name"`
	Units      string          `yaml:"units"`
	Bounds     grid.Bounds     `yaml:"bounds"`
	Resolution []int           `yaml:"resolution"`
	Plane      string          `yaml:"plane"`
	PlaneAt    float64         `yaml:"plane_at"`
	Quantity   string          `yaml:"quantity"`
	Derive     string          `yaml:"derive"`
	Time       float64         `yaml:"time"`
	Frames     int             `yaml:"frames"`
	Backend    string          `yaml:"backend"`
	Limit      LimitConfig     `yaml:"limit"`
	Emitters   []EmitterConfig `yaml:"emitters"`
}

type LimitConfig struct {
	Enabled bool `yaml:"enabled"`
	// Scale overrides the emitter display scale when positive.
	Scale float64 `yaml:"scale"`
}

// EmitterConfig is a tagged union over the emitter kinds; Type selects
// which fields apply.
type EmitterConfig struct {
	Type     string     `yaml:"type"`
	Position [3]float64 `yaml:"position"`

	Q        float64    `yaml:"q,omitempty"`
	Velocity [3]float64 `yaml:"velocity,omitempty"`

	I          float64      `yaml:"i,omitempty"`
	Points     [][3]float64 `yaml:"points,omitempty"`
	Directions [][3]float64 `yaml:"directions,omitempty"`
	Radius     float64      `yaml:"radius,omitempty"`
	RadiusB    float64      `yaml:"radius_b,omitempty"`
	Elements   int          `yaml:"elements,omitempty"`
	Normal     string       `yaml:"normal,omitempty"`
	Speed      float64      `yaml:"speed,omitempty"`

	Frequency     float64 `yaml:"frequency,omitempty"`
	Power         float64 `yaml:"power,omitempty"`
	Length        float64 `yaml:"length,omitempty"`
	Phase         float64 `yaml:"phase,omitempty"`
	Normalization string  `yaml:"normalization,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "scene",
		Units:      "si",
		Bounds:     grid.Cube(DefaultExtent),
		Resolution: []int{DefaultResolution},
		Plane:      "xy",
		Quantity:   "E",
		Frames:     DefaultFrames,
		Limit:      LimitConfig{Enabled: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode writes cfg as yaml to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// GridResolution expands Resolution to one value per axis.
func (c *Config) GridResolution() ([3]int, error) {
	switch len(c.Resolution) {
	case 0:
		return [3]int{DefaultResolution, DefaultResolution, DefaultResolution}, nil
	case 1:
		n := c.Resolution[0]
		return [3]int{n, n, n}, nil
	case 3:
		return [3]int{c.Resolution[0], c.Resolution[1], c.Resolution[2]}, nil
	}
	return [3]int{}, fmt.Errorf("config: resolution needs 1 or 3 values, got %d", len(c.Resolution))
}

// Clone returns a deep copy so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Resolution = append([]int(nil), c.Resolution...)
	out.Emitters = make([]EmitterConfig, len(c.Emitters))
	for i, e := range c.Emitters {
		e.Points = append([][3]float64(nil), e.Points...)
		e.Directions = append([][3]float64(nil), e.Directions...)
		out.Emitters[i] = e
	}
	return &out
}
