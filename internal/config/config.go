// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/tidwall/sjson"
)

const (
	appName              = "sift"
	defaultDataDirectory = ".sift"
	configFileName       = "sift.json"
)

// TUIOptions holds presentation-level knobs.
type TUIOptions struct {
	CompactMode bool `json:"compact_mode,omitempty"`
	// DisableNotifications turns off the native desktop notification sent
	// when the queue is cleared.
	DisableNotifications bool `json:"disable_notifications,omitempty"`
}

// GestureOptions tunes how pointer drags are classified. Distance and
// feedback thresholds are in terminal cells, velocity in cells per
// millisecond, angle in degrees. The touch and pointer distance thresholds
// are independent tunables.
type GestureOptions struct {
	DistanceThresholdTouch   float64 `json:"distance_threshold_touch,omitempty"`
	DistanceThresholdPointer float64 `json:"distance_threshold_pointer,omitempty"`
	FeedbackThreshold        float64 `json:"feedback_threshold,omitempty"`
	MaxAngleDegrees          float64 `json:"max_angle_degrees,omitempty"`
	VelocityThreshold        float64 `json:"velocity_threshold,omitempty"`
	TouchMode                bool    `json:"touch_mode,omitempty"`
}

// ReviewOptions tunes the review queue interaction core.
type ReviewOptions struct {
	UndoWindowMS  int            `json:"undo_window_ms,omitempty"`
	DebounceMS    int            `json:"debounce_ms,omitempty"`
	Overscan      int            `json:"overscan,omitempty"`
	EstimatedRows int            `json:"estimated_rows,omitempty"`
	Gap           int            `json:"gap,omitempty"`
	PaddingStart  int            `json:"padding_start,omitempty"`
	PaddingEnd    int            `json:"padding_end,omitempty"`
	Gesture       GestureOptions `json:"gesture,omitempty"`
}

// Options holds general application options.
type Options struct {
	Debug         bool   `json:"debug,omitempty"`
	DataDirectory string `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for sift.
type Config struct {
	Options *Options       `json:"options,omitempty"`
	TUI     *TUIOptions    `json:"tui,omitempty"`
	Review  *ReviewOptions `json:"review,omitempty"`

	// Internal
	workingDir string `json:"-"`
	configPath string `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// DataDir returns the absolute path of the data directory.
func (c *Config) DataDir() string {
	return resolveDataDir(c.workingDir, c.Options.DataDirectory)
}

func (c *Config) SetCompactMode(enabled bool) error {
	if c.TUI == nil {
		c.TUI = &TUIOptions{}
	}
	c.TUI.CompactMode = enabled
	return c.SetConfigField("tui.compact_mode", enabled)
}

// SetConfigField updates a single field in the config file without
// clobbering keys this binary doesn't know about.
func (c *Config) SetConfigField(key string, value any) error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.WriteFile(c.configPath, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
