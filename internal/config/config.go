package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Fog     FogConfig     `mapstructure:"fog"`
	Map     MapConfig     `mapstructure:"map"`
	Storage StorageConfig `mapstructure:"storage"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Demo    DemoConfig    `mapstructure:"demo"`
}

// EngineConfig holds rules settings of an engine session
type EngineConfig struct {
	DefaultLoadCost  float64 `mapstructure:"default_load_cost"`
	EditorMode       bool    `mapstructure:"editor_mode"`
	CaptureTerritory bool    `mapstructure:"capture_territory"`
	MaxUndo          int     `mapstructure:"max_undo"`
	Viewer           string  `mapstructure:"viewer"`
}

// FogConfig holds fog of war settings
type FogConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	OwnedRadius    int      `mapstructure:"owned_radius"`
	UnitRadius     int      `mapstructure:"unit_radius"`
	FeatureRadius  int      `mapstructure:"feature_radius"`
	VisionFeatures []string `mapstructure:"vision_features"`
}

// MapConfig holds map generation settings
type MapConfig struct {
	Width             int                `mapstructure:"width"`
	Height            int                `mapstructure:"height"`
	Seed              int64              `mapstructure:"seed"`
	Nations           int                `mapstructure:"nations"`
	Border            bool               `mapstructure:"border"`
	WaterRatio        float64            `mapstructure:"water_ratio"`
	FeatureRatio      int                `mapstructure:"feature_ratio"`
	MinCapitalSpacing int                `mapstructure:"min_capital_spacing"`
	MountainVeins     MountainVeinConfig `mapstructure:"mountain_veins"`
	StartingUnits     []string           `mapstructure:"starting_units"`
}

// MountainVeinConfig holds mountain vein generation settings. A zero count
// lets the generator scale veins with the board.
type MountainVeinConfig struct {
	Count     int `mapstructure:"count"`
	MinLength int `mapstructure:"min_length"`
}

// StorageConfig holds the sqlite save store settings
type StorageConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Path     string `mapstructure:"path"`
	SaveName string `mapstructure:"save_name"`
}

// CatalogConfig points at a YAML catalog laid over the built-in one
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DemoConfig holds demo mode configuration
type DemoConfig struct {
	Turns  int  `mapstructure:"turns"`
	Resume bool `mapstructure:"resume"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.default_load_cost", 1.0)
	v.SetDefault("engine.editor_mode", false)
	v.SetDefault("engine.capture_territory", true)
	v.SetDefault("engine.max_undo", 0)
	v.SetDefault("engine.viewer", "")

	// Fog of war defaults
	v.SetDefault("fog.enabled", true)
	v.SetDefault("fog.owned_radius", 1)
	v.SetDefault("fog.unit_radius", 1)
	v.SetDefault("fog.feature_radius", 2)
	v.SetDefault("fog.vision_features", []string{"city", "a_city", "village", "a_village", "fort"})

	// Map defaults
	v.SetDefault("map.width", 24)
	v.SetDefault("map.height", 16)
	v.SetDefault("map.seed", 0)
	v.SetDefault("map.nations", 4)
	v.SetDefault("map.border", true)
	v.SetDefault("map.water_ratio", 0.2)
	v.SetDefault("map.feature_ratio", 25)
	v.SetDefault("map.min_capital_spacing", 5)
	v.SetDefault("map.mountain_veins.count", 0)
	v.SetDefault("map.mountain_veins.min_length", 3)
	v.SetDefault("map.starting_units", []string{"infantry", "infantry", "tank"})

	// Storage defaults
	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", "data/diplostrat.db")
	v.SetDefault("storage.save_name", "demo")

	v.SetDefault("catalog.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Demo defaults
	v.SetDefault("demo.turns", 5)
	v.SetDefault("demo.resume", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/diplostrat")
	}

	v.SetEnvPrefix("DIPLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the search
		// paths only ConfigFileNotFoundError is tolerated.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// LoadEnvironmentConfig merges config.<env>.yaml from the working directory
// over the loaded configuration.
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Reloads that fail
// validation keep the previous configuration.
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil || Validate(next) != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Engine.DefaultLoadCost < 0 {
		return fmt.Errorf("engine.default_load_cost must be non-negative")
	}
	if c.Engine.MaxUndo < 0 {
		return fmt.Errorf("engine.max_undo must be non-negative")
	}

	if c.Fog.OwnedRadius < 0 || c.Fog.UnitRadius < 0 || c.Fog.FeatureRadius < 0 {
		return fmt.Errorf("fog radii must be non-negative")
	}

	if c.Map.Width < 5 || c.Map.Height < 5 {
		return fmt.Errorf("map dimensions must be at least 5x5")
	}
	if c.Map.Nations < 1 || c.Map.Nations > 8 {
		return fmt.Errorf("map.nations must be between 1 and 8")
	}
	if c.Map.WaterRatio < 0 || c.Map.WaterRatio >= 1 {
		return fmt.Errorf("map.water_ratio must be in [0, 1)")
	}
	if c.Map.FeatureRatio <= 0 {
		return fmt.Errorf("map.feature_ratio must be positive")
	}
	if c.Map.MinCapitalSpacing < 1 {
		return fmt.Errorf("map.min_capital_spacing must be at least 1")
	}
	if c.Map.MountainVeins.Count < 0 || c.Map.MountainVeins.MinLength < 1 {
		return fmt.Errorf("map.mountain_veins needs a non-negative count and a positive min_length")
	}

	if c.Storage.Enabled && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage is enabled")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	if c.Demo.Turns < 0 {
		return fmt.Errorf("demo.turns must be non-negative")
	}

	return nil
}
