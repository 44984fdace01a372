package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Data   Data   `mapstructure:"data"`
	Window Window `mapstructure:"window"`
	Map    Map    `mapstructure:"map"`
	Log    Log    `mapstructure:"log"`
}

// Data locates the shapefile shown at startup
type Data struct {
	// Path is the .shp file; its .shx/.dbf/.prj siblings are expected next to it
	Path string `mapstructure:"path"`

	// DownloadURL is printed when Path does not exist
	DownloadURL string `mapstructure:"download_url"`
}

// Window contains the top-level window parameters
type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// Map contains map content parameters
type Map struct {
	Title string `mapstructure:"title"`
}

// Log controls diagnostics verbosity
type Log struct {
	Level string `mapstructure:"level"`
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
	mu       sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: Data{
			Path:        "data/ne_110m_admin_0_countries/ne_110m_admin_0_countries.shp",
			DownloadURL: "https://www.naturalearthdata.com/downloads/110m-cultural-vectors/",
		},
		Window: Window{
			Width:  1000,
			Height: 700,
			Title:  "Simple GIS Map Viewer – Shapefile Demo",
		},
		Map: Map{
			Title: "World Countries – Shapefile Demo",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Get returns the global configuration instance. A configuration that fails
// to load or validate falls back to the defaults; Err reports why.
func Get() *Config {
	once.Do(func() {
		cfg, err := loadOrDefault()
		mu.Lock()
		instance, loadErr = cfg, err
		mu.Unlock()
	})

	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Err returns the error that made Get fall back to the defaults, if any
func Err() error {
	Get()

	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

func loadOrDefault(paths ...string) (*Config, error) {
	cfg, err := Load(paths...)
	if err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Load reads configuration from an optional shapeviewer.{yaml,json} file and
// SHAPEVIEWER_* environment variables on top of the defaults.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("data.path", def.Data.Path)
	v.SetDefault("data.download_url", def.Data.DownloadURL)
	v.SetDefault("window.width", def.Window.Width)
	v.SetDefault("window.height", def.Window.Height)
	v.SetDefault("window.title", def.Window.Title)
	v.SetDefault("map.title", def.Map.Title)
	v.SetDefault("log.level", def.Log.Level)

	v.SetConfigName("shapeviewer")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// SHAPEVIEWER_DATA_PATH → data.path
	v.SetEnvPrefix("SHAPEVIEWER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration can drive the viewer
func (c *Config) Validate() error {
	var errs []string

	if c.Data.Path == "" {
		errs = append(errs, "data.path is required")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Sprintf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
