package config

import (
	"sort"

	"github.com/san-kum/emfield/internal/grid"
)

var Presets = map[string]map[string]*Config{
	"quadrupole": {
		"potential": {
			Name: "quadrupole", Units: "si", Bounds: grid.Cube(5), Resolution: []int{20},
			Plane: "xy", Quantity: "phi",
			Emitters: quadrupole(),
		},
		"field": {
			Name: "quadrupole", Units: "si", Bounds: grid.Cube(5), Resolution: []int{20},
			Plane: "xy", Quantity: "E", Limit: LimitConfig{Enabled: true},
			Emitters: quadrupole(),
		},
		"gradient": {
			Name: "quadrupole", Units: "si", Bounds: grid.Cube(5), Resolution: []int{30},
			Plane: "xy", Quantity: "phi", Derive: "-grad", Limit: LimitConfig{Enabled: true},
			Emitters: quadrupole(),
		},
	},
	"loop": {
		"b": {
			Name: "loop", Units: "si", Bounds: grid.Cube(3), Resolution: []int{25},
			Plane: "xy", Quantity: "B", Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "loop", I: 1, Radius: 1, Elements: 50, Normal: "x"}},
		},
		"a": {
			Name: "loop", Units: "si", Bounds: grid.Cube(3), Resolution: []int{25},
			Plane: "yz", Quantity: "A", Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "loop", I: 1, Radius: 1, Elements: 50, Normal: "x"}},
		},
		"ellipse": {
			Name: "ellipse", Units: "si", Bounds: grid.Cube(3), Resolution: []int{25},
			Plane: "xz", Quantity: "B", Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "ellipse", I: 1, Radius: 2, RadiusB: 1, Elements: 72, Normal: "z"}},
		},
	},
	"moving_loop": {
		"b": {
			Name: "moving_loop", Units: "natural", Bounds: grid.Cube(2), Resolution: []int{21},
			Plane: "xz", Quantity: "B", Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "moving_loop", Q: 1, Radius: 1, Elements: 36, Normal: "z", Speed: 1}},
		},
	},
	"conductor": {
		"pair": {
			Name: "conductor", Units: "si", Bounds: grid.Cube(3), Resolution: []int{25},
			Plane: "xy", Quantity: "B", Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{
				{Type: "line", I: 1, Position: [3]float64{-1, 0, 0}},
				{Type: "line", I: -1, Position: [3]float64{1, 0, 0}},
			},
		},
	},
	"dipole": {
		"near": {
			Name: "dipole", Units: "si", Bounds: grid.Cube(0.6), Resolution: []int{30},
			Plane: "xz", PlaneAt: 0.01, Quantity: "E", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "dipole", Frequency: 500e6, Power: 1}},
		},
		"far": {
			Name: "dipole", Units: "si", Bounds: grid.Cube(6), Resolution: []int{40},
			Plane: "xz", PlaneAt: 0.05, Quantity: "S", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "dipole", Frequency: 500e6, Power: 1}},
		},
	},
	// lambda = c/f is about 0.3 m at 1 GHz; the antenna views span +-2 lambda.
	"antenna": {
		"half": {
			Name: "antenna", Units: "si", Bounds: grid.Cube(0.6), Resolution: []int{50},
			Plane: "xy", Quantity: "A", Derive: "curl", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "antenna", Frequency: 1e9, Power: 1, Length: 0.5}},
		},
		"full": {
			Name: "antenna", Units: "si", Bounds: grid.Cube(0.6), Resolution: []int{50},
			Plane: "xz", Quantity: "A", Derive: "curlcurl", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "antenna", Frequency: 1e9, Power: 1, Length: 1}},
		},
		"short": {
			Name: "antenna", Units: "si", Bounds: grid.Cube(0.6), Resolution: []int{50},
			Plane: "xz", Quantity: "E", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{{Type: "antenna", Frequency: 1e9, Power: 1}},
		},
		"array": {
			Name: "antenna_array", Units: "si", Bounds: grid.Cube(0.9), Resolution: []int{50},
			Plane: "xy", Quantity: "E", Frames: DefaultFrames, Limit: LimitConfig{Enabled: true},
			Emitters: []EmitterConfig{
				{Type: "antenna", Frequency: 1e9, Power: 1, Length: 0.5, Position: [3]float64{-0.075, 0, 0}},
				{Type: "antenna", Frequency: 1e9, Power: 1, Length: 0.5, Position: [3]float64{0.075, 0, 0}, Phase: 90},
			},
		},
	},
}

func quadrupole() []EmitterConfig {
	return []EmitterConfig{
		{Type: "charge", Q: -1, Position: [3]float64{-1, 1, 0}},
		{Type: "charge", Q: 1, Position: [3]float64{1, 1, 0}},
		{Type: "charge", Q: 1, Position: [3]float64{-1, -1, 0}},
		{Type: "charge", Q: -1, Position: [3]float64{1, -1, 0}},
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListScenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
