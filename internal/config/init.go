package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults for the review interaction core. The two distance thresholds are
// kept as separate knobs on purpose; they do not derive from one another.
const (
	DefaultUndoWindowMS  = 5000
	DefaultDebounceMS    = 250
	DefaultOverscan      = 3
	DefaultEstimatedRows = 3

	DefaultDistanceThresholdTouch   = 80
	DefaultDistanceThresholdPointer = 50
	DefaultFeedbackThreshold        = 25
	DefaultMaxAngleDegrees          = 30
	DefaultVelocityThreshold        = 0.3
)

// Init loads the configuration for the given working directory, creating
// the data directory and a default config file on first run.
func Init(workingDir string, debug bool) (*Config, error) {
	cfg := defaultConfig(workingDir)
	cfg.Options.Debug = cfg.Options.Debug || debug

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	cfg.configPath = filepath.Join(dataDir, configFileName)

	data, err := os.ReadFile(cfg.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cfg.configPath, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func defaultConfig(workingDir string) *Config {
	cfg := &Config{
		Options: &Options{
			DataDirectory: defaultDataDirectory,
		},
		TUI: &TUIOptions{},
		Review: &ReviewOptions{},

		workingDir: workingDir,
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero-valued knobs after unmarshalling a partial file.
func (c *Config) applyDefaults() {
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = defaultDataDirectory
	}
	if c.TUI == nil {
		c.TUI = &TUIOptions{}
	}
	if c.Review == nil {
		c.Review = &ReviewOptions{}
	}
	r := c.Review
	if r.UndoWindowMS <= 0 {
		r.UndoWindowMS = DefaultUndoWindowMS
	}
	if r.DebounceMS <= 0 {
		r.DebounceMS = DefaultDebounceMS
	}
	if r.Overscan <= 0 {
		r.Overscan = DefaultOverscan
	}
	if r.EstimatedRows <= 0 {
		r.EstimatedRows = DefaultEstimatedRows
	}
	g := &r.Gesture
	if g.DistanceThresholdTouch <= 0 {
		g.DistanceThresholdTouch = DefaultDistanceThresholdTouch
	}
	if g.DistanceThresholdPointer <= 0 {
		g.DistanceThresholdPointer = DefaultDistanceThresholdPointer
	}
	if g.FeedbackThreshold <= 0 {
		g.FeedbackThreshold = DefaultFeedbackThreshold
	}
	if g.MaxAngleDegrees <= 0 {
		g.MaxAngleDegrees = DefaultMaxAngleDegrees
	}
	if g.VelocityThreshold <= 0 {
		g.VelocityThreshold = DefaultVelocityThreshold
	}
}

func resolveDataDir(workingDir, dataDir string) string {
	if filepath.IsAbs(dataDir) {
		return dataDir
	}
	return filepath.Join(workingDir, dataDir)
}
