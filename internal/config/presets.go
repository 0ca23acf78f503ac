package config

// Presets mirror the reference line setups: a matched lossless RLGC line,
// a lightly lossy variant, and a kinetic-inductance line driven near its
// critical current.
var Presets = map[string]*Config{
	"lossless": {
		Line: "linear", Npoints: 10_000, Length: 2.0,
		Capacitance: 400e-12, Inductance: 1e-6,
		Courant: 2.0, Frequency: 4e8, Amplitude: 1.0, Duration: 1e-7,
		Save: SaveConfig{Mode: "end", Overwrite: true},
	},
	"lossy": {
		Line: "linear", Npoints: 10_000, Length: 2.0,
		Capacitance: 400e-12, Inductance: 1e-6,
		Resistance: 5.0, Conductance: 1e-4,
		Courant: 2.0, Frequency: 4e8, Amplitude: 1.0, Duration: 1e-7,
		Save: SaveConfig{Mode: "end", Overwrite: true},
	},
	"ki": {
		Line: "ki", Npoints: 10_000, Length: 2.0,
		Capacitance: 400e-12, Inductance: 1e-6,
		KineticFraction: 0.5, CriticalCurrent: 2e-1,
		Courant: 2.0, Frequency: 4e8, Amplitude: 1.0, Duration: 1e-7,
		Save: SaveConfig{Mode: "end", Overwrite: true},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
