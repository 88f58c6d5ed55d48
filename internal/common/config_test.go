package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "http://localhost:6006", config.Storybook.URL)
	assert.Equal(t, 10000, config.Storybook.TimeoutMS)
	assert.Equal(t, "iframe", config.Storybook.IframeSelector)
	assert.True(t, config.Browser.Headless)
	assert.Equal(t, 1920, config.Browser.ViewportWidth)
	assert.Equal(t, 1080, config.Browser.ViewportHeight)
	assert.Equal(t, "components", config.Paths.ComponentsDir)
	assert.Equal(t, 0.2, config.Visual.Threshold)

	require.NoError(t, config.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commonui.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storybook]
url = "http://storybook.internal:6006"
timeout_ms = 5000

[browser]
headless = false

[visual]
threshold = 0.05
`), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://storybook.internal:6006", config.Storybook.URL)
	assert.Equal(t, 5000, config.Storybook.TimeoutMS)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, 0.05, config.Visual.Threshold)

	// Untouched sections keep their defaults
	assert.Equal(t, "iframe", config.Storybook.IframeSelector)
	assert.Equal(t, "components", config.Paths.ComponentsDir)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STORYBOOK_URL", "http://ci-storybook:6006")
	t.Setenv("HEADLESS", "false")
	t.Setenv("VIEWPORT_WIDTH", "1280")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "http://ci-storybook:6006", config.Storybook.URL)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, 1280, config.Browser.ViewportWidth)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commonui.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storybook]
url = "not a url"
`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
