package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagas/dom-lite/dom"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dom-lite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, dom.DefaultFeatures(), cfg.DocumentFeatures())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, level)
}

func TestFile(t *testing.T) {
	path := writeFile(t, `
log_level: debug
features:
  class_list: false
  capture: true
  matches_selector: false
viewport:
  width: 320
`)
	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, dom.Features{Capture: true}, cfg.DocumentFeatures())
	assert.Equal(t, Viewport{Width: 320, Height: 768}, cfg.Viewport)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "log_level: debug\nfeatures:\n  capture: true\n")
	cfg, err := Load(path, env(map[string]string{
		"DOMLITE_LOG_LEVEL":       "error",
		"DOMLITE_CAPTURE":         "false",
		"DOMLITE_VIEWPORT_HEIGHT": "600.5",
	}))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.Features.Capture)
	assert.True(t, cfg.Features.ClassList)
	assert.Equal(t, 600.5, cfg.Viewport.Height)
	assert.Equal(t, 1024.0, cfg.Viewport.Width)
}

func TestErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = Load(writeFile(t, "features: [\n"), env(nil))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load("", env(map[string]string{"DOMLITE_CAPTURE": "maybe"}))
	assert.ErrorContains(t, err, "failed to read environment")

	_, err = Load("", env(map[string]string{"DOMLITE_LOG_LEVEL": "loud"}))
	assert.ErrorContains(t, err, "invalid log_level")
}
