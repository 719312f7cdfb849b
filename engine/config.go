package engine

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"

	"github.com/auralith/sonic-ux/core"
	"github.com/auralith/sonic-ux/parameter"
)

// Config carries engine construction options.
type Config struct {
	// Seed drives all random musical decisions; equal seeds replay the
	// same choices
	Seed uint64
	// Preset selects the initial musical character
	Preset core.Preset
	// Polyphony is the simultaneous voice ceiling
	Polyphony int
	// Diagnostics includes the diagnostics block on output frames
	Diagnostics bool
	// ChordPool overrides the preset's navigation chord pool when
	// non-empty
	ChordPool []string
	// Logger receives structured reports; nil uses slog.Default
	Logger *slog.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Seed:      42,
		Preset:    core.PresetAmbient,
		Polyphony: parameter.DefaultPolyphony,
	}
}

// LoadConfig loads configuration from environment variables, starting
// from defaults. Unparseable values are ignored.
//
//	SONIC_UX_SEED         uint
//	SONIC_UX_PRESET       ambient|minimal|dramatic|playful
//	SONIC_UX_POLYPHONY    int >= 1
//	SONIC_UX_DIAGNOSTICS  bool
//	SONIC_UX_CHORD_POOL   JSON array of degree labels, e.g. ["I","IV","vi"]
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if seed := os.Getenv("SONIC_UX_SEED"); seed != "" {
		if val, err := strconv.ParseUint(seed, 10, 64); err == nil {
			cfg.Seed = val
		}
	}

	if preset := os.Getenv("SONIC_UX_PRESET"); preset != "" {
		if val, ok := core.PresetFromName(preset); ok {
			cfg.Preset = val
		}
	}

	if poly := os.Getenv("SONIC_UX_POLYPHONY"); poly != "" {
		if val, err := strconv.Atoi(poly); err == nil && val >= parameter.MinPolyphony {
			cfg.Polyphony = val
		}
	}

	if diag := os.Getenv("SONIC_UX_DIAGNOSTICS"); diag != "" {
		if val, err := strconv.ParseBool(diag); err == nil {
			cfg.Diagnostics = val
		}
	}

	if pool := os.Getenv("SONIC_UX_CHORD_POOL"); pool != "" {
		var labels []string
		if err := json.Unmarshal([]byte(pool), &labels); err == nil && len(labels) > 0 {
			cfg.ChordPool = labels
		}
	}

	return cfg
}
