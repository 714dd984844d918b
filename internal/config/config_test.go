package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
engine:
  default_load_cost: 2.5
  editor_mode: true
fog:
  enabled: false
  feature_radius: 3
map:
  width: 30
  height: 20
  nations: 3
storage:
  path: saves/test.db
logging:
  level: debug
  format: json
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	// Reset global state
	cfg = nil
	v = nil

	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 2.5, c.Engine.DefaultLoadCost)
	assert.True(t, c.Engine.EditorMode)
	assert.False(t, c.Fog.Enabled)
	assert.Equal(t, 3, c.Fog.FeatureRadius)
	assert.Equal(t, 30, c.Map.Width)
	assert.Equal(t, 20, c.Map.Height)
	assert.Equal(t, 3, c.Map.Nations)
	assert.Equal(t, "saves/test.db", c.Storage.Path)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, configFile, ConfigFilePath())

	// Untouched keys keep their defaults
	assert.True(t, c.Engine.CaptureTerritory)
	assert.Equal(t, 1, c.Fog.UnitRadius)
	assert.Equal(t, 5, c.Demo.Turns)
}

func TestInitWithDefaults(t *testing.T) {
	cfg = nil
	v = nil

	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, 1.0, c.Engine.DefaultLoadCost)
	assert.True(t, c.Fog.Enabled)
	assert.Equal(t, []string{"city", "a_city", "village", "a_village", "fort"}, c.Fog.VisionFeatures)
	assert.Equal(t, 4, c.Map.Nations)
	assert.Equal(t, []string{"infantry", "infantry", "tank"}, c.Map.StartingUnits)
	assert.Equal(t, "data/diplostrat.db", c.Storage.Path)
	assert.Empty(t, c.Catalog.Path)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("map:\n  nations: 12\n"), 0644))

	cfg = nil
	v = nil

	err := Init(configFile)
	assert.Error(t, err)
}

func TestEnvironmentVariables(t *testing.T) {
	cfg = nil
	v = nil

	t.Setenv("DIPLO_MAP_WIDTH", "40")
	t.Setenv("DIPLO_STORAGE_SAVE_NAME", "campaign")
	t.Setenv("DIPLO_FOG_ENABLED", "false")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 40, c.Map.Width)
	assert.Equal(t, "campaign", c.Storage.SaveName)
	assert.False(t, c.Fog.Enabled)
}

func TestSet(t *testing.T) {
	cfg = nil
	v = nil

	err := Init("")
	require.NoError(t, err)

	Set("demo.turns", 12)
	Set("engine.viewer", "blue")

	c := Get()
	assert.Equal(t, 12, c.Demo.Turns)
	assert.Equal(t, "blue", c.Engine.Viewer)
}

func TestGetHelpers(t *testing.T) {
	cfg = nil
	v = nil

	err := Init("")
	require.NoError(t, err)

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
map:
  width: 20
demo:
  turns: 3
`
	err := os.WriteFile(baseConfig, []byte(baseContent), 0644)
	require.NoError(t, err)

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
map:
  width: 50
logging:
  level: "error"
`
	err = os.WriteFile(envConfig, []byte(envContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	cfg = nil
	v = nil

	err = Init(baseConfig)
	require.NoError(t, err)

	err = LoadEnvironmentConfig("prod")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 50, c.Map.Width)         // Overridden
	assert.Equal(t, 3, c.Demo.Turns)         // Kept from base
	assert.Equal(t, "error", c.Logging.Level) // New value

	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	cfg = nil
	v = nil
	require.NoError(t, Init(""))
	base := *Get()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative load cost", func(c *Config) { c.Engine.DefaultLoadCost = -1 }},
		{"negative undo limit", func(c *Config) { c.Engine.MaxUndo = -1 }},
		{"negative fog radius", func(c *Config) { c.Fog.UnitRadius = -1 }},
		{"tiny map", func(c *Config) { c.Map.Width = 2 }},
		{"no nations", func(c *Config) { c.Map.Nations = 0 }},
		{"all water", func(c *Config) { c.Map.WaterRatio = 1 }},
		{"zero feature ratio", func(c *Config) { c.Map.FeatureRatio = 0 }},
		{"zero capital spacing", func(c *Config) { c.Map.MinCapitalSpacing = 0 }},
		{"zero vein length", func(c *Config) { c.Map.MountainVeins.MinLength = 0 }},
		{"storage without path", func(c *Config) { c.Storage.Path = "" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative demo turns", func(c *Config) { c.Demo.Turns = -1 }},
	}

	assert.NoError(t, Validate(&base))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, Validate(&c))
		})
	}
}
