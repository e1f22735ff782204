// Package config loads the quiver configuration file, environment overrides
// and XDG paths.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Every value is optional.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Stats    StatsConfig    `toml:"stats"`
	Profile  ProfileConfig  `toml:"profile"`
}

// PracticeConfig maps recording settings.
type PracticeConfig struct {
	Ends         *int     `toml:"ends"`
	Shots        *int     `toml:"shots"`
	Rings        *int     `toml:"rings"`
	TargetRadius *float64 `toml:"target-radius"`
	RecordMisses *bool    `toml:"record-misses"`
	AutoAdvance  *bool    `toml:"auto-advance"`
}

// StatsConfig maps statistics view settings.
type StatsConfig struct {
	CurveWindow *int `toml:"curve-window"`
	Last        *int `toml:"last"`
}

// ProfileConfig selects whose rounds are recorded and shown.
type ProfileConfig struct {
	User *string `toml:"user"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults are the values written, commented out, into a new config file.
type Defaults struct {
	Ends         int
	Shots        int
	Rings        int
	TargetRadius float64
	CurveWindow  int
	User         string
}

// Template returns the commented config file created by `quiver config`.
func Template(d Defaults) string {
	return fmt.Sprintf(`# quiver configuration
# Uncomment a value to enable it. CLI flags and QUIVER_* variables override it.

[practice]
# ends = %d                # Ends per round
# shots = %d               # Arrows per end
# rings = %d              # Scoring rings on the face
# target-radius = %.1f    # Face radius in cm
# record-misses = true    # Record clicks off the face as misses
# auto-advance = true     # Jump to the next open end when one fills

[stats]
# curve-window = %d       # Moving average window for curves
# last = 0                # Limit stats to the last N rounds (0 = all)

[profile]
# user = %q
`,
		d.Ends,
		d.Shots,
		d.Rings,
		d.TargetRadius,
		d.CurveWindow,
		d.User,
	)
}
