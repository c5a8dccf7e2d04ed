package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("first run applies defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg, err := Init(dir, false)
		require.NoError(t, err)

		assert.Equal(t, DefaultUndoWindowMS, cfg.Review.UndoWindowMS)
		assert.Equal(t, DefaultDebounceMS, cfg.Review.DebounceMS)
		assert.Equal(t, DefaultOverscan, cfg.Review.Overscan)
		assert.EqualValues(t, DefaultDistanceThresholdTouch, cfg.Review.Gesture.DistanceThresholdTouch)
		assert.EqualValues(t, DefaultDistanceThresholdPointer, cfg.Review.Gesture.DistanceThresholdPointer)
		assert.EqualValues(t, DefaultVelocityThreshold, cfg.Review.Gesture.VelocityThreshold)
		assert.Equal(t, filepath.Join(dir, defaultDataDirectory), cfg.DataDir())
		assert.DirExists(t, cfg.DataDir())
	})

	t.Run("partial file keeps defaults for missing knobs", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		dataDir := filepath.Join(dir, defaultDataDirectory)
		require.NoError(t, os.MkdirAll(dataDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dataDir, configFileName),
			[]byte(`{"review": {"undo_window_ms": 8000}}`),
			0o644,
		))

		cfg, err := Init(dir, false)
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.Review.UndoWindowMS)
		assert.Equal(t, DefaultDebounceMS, cfg.Review.DebounceMS)
		assert.EqualValues(t, DefaultFeedbackThreshold, cfg.Review.Gesture.FeedbackThreshold)
	})

	t.Run("debug flag wins over config", func(t *testing.T) {
		t.Parallel()
		cfg, err := Init(t.TempDir(), true)
		require.NoError(t, err)
		assert.True(t, cfg.Options.Debug)
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		dataDir := filepath.Join(dir, defaultDataDirectory)
		require.NoError(t, os.MkdirAll(dataDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(dataDir, configFileName),
			[]byte(`{not json`),
			0o644,
		))

		_, err := Init(dir, false)
		require.Error(t, err)
	})
}

func TestSetConfigField(t *testing.T) {
	t.Parallel()

	t.Run("preserves unknown keys", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfg, err := Init(dir, false)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(
			cfg.configPath,
			[]byte(`{"future_option": true}`),
			0o644,
		))

		require.NoError(t, cfg.SetConfigField("review.undo_window_ms", 7000))

		data, err := os.ReadFile(cfg.configPath)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, true, raw["future_option"])
		review := raw["review"].(map[string]any)
		assert.EqualValues(t, 7000, review["undo_window_ms"])
	})

	t.Run("creates the file when missing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		cfg, err := Init(dir, false)
		require.NoError(t, err)

		require.NoError(t, cfg.SetCompactMode(true))
		data, err := os.ReadFile(cfg.configPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "compact_mode")
	})
}
