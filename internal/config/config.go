// Package config defines the application configuration: defaults, loading
// from viper (file + environment), and validation. Components receive the
// section structs they need rather than the whole Config.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Measure MeasureConfig `mapstructure:"measure" yaml:"measure"`
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal colors used per log level in console format.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// ViewportConfig is the emulated browser window size.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// BrowserConfig holds settings for the headless browser instances that host
// the documents being measured.
type BrowserConfig struct {
	Headless          bool           `mapstructure:"headless" yaml:"headless"`
	ExecPath          string         `mapstructure:"exec_path" yaml:"exec_path"`
	DisableCache      bool           `mapstructure:"disable_cache" yaml:"disable_cache"`
	IgnoreTLSErrors   bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Concurrency       int            `mapstructure:"concurrency" yaml:"concurrency"`
	Debug             bool           `mapstructure:"debug" yaml:"debug"`
	UserAgent         string         `mapstructure:"user_agent" yaml:"user_agent"`
	Args              []string       `mapstructure:"args" yaml:"args"`
	Viewport          ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	NavigationTimeout time.Duration  `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	OperationTimeout  time.Duration  `mapstructure:"operation_timeout" yaml:"operation_timeout"`
	PostLoadWait      time.Duration  `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// MeasureConfig tunes the measurement pipeline.
type MeasureConfig struct {
	// FontTimeout bounds how long measurement waits for late-loading fonts.
	// Expiry is not an error; measurement proceeds best-effort.
	FontTimeout time.Duration `mapstructure:"font_timeout" yaml:"font_timeout"`
	// ForceCorrection runs the aggressive rendered-geometry pass on every
	// element instead of only when the trigger predicate fires.
	ForceCorrection bool `mapstructure:"force_correction" yaml:"force_correction"`
	// FitPadding is the default padding, in user units, around fitted
	// viewports.
	FitPadding float64 `mapstructure:"fit_padding" yaml:"fit_padding"`
}

// OverlayConfig tunes overlay marker rendering.
type OverlayConfig struct {
	Theme       string        `mapstructure:"theme" yaml:"theme"`
	BorderColor string        `mapstructure:"border_color" yaml:"border_color"`
	BorderWidth float64       `mapstructure:"border_width" yaml:"border_width"`
	PaddingPx   float64       `mapstructure:"padding_px" yaml:"padding_px"`
	Hold        time.Duration `mapstructure:"hold" yaml:"hold"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; failing to unmarshal them is a programming error.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "svgscope")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_cache", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.concurrency", 4)
	v.SetDefault("browser.debug", false)
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 800)
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.operation_timeout", "10s")
	v.SetDefault("browser.post_load_wait", "250ms")

	// -- Measure --
	v.SetDefault("measure.font_timeout", "3s")
	v.SetDefault("measure.force_correction", false)
	v.SetDefault("measure.fit_padding", 0)

	// -- Overlay --
	v.SetDefault("overlay.theme", "auto")
	v.SetDefault("overlay.border_color", "")
	v.SetDefault("overlay.border_width", 2)
	v.SetDefault("overlay.padding_px", schemas.DefaultPaddingPx)
	v.SetDefault("overlay.hold", "0s")
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Browser.Concurrency <= 0 {
		return fmt.Errorf("browser.concurrency must be a positive integer")
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport must have positive dimensions")
	}
	if err := c.Measure.Validate(); err != nil {
		return fmt.Errorf("measure configuration invalid: %w", err)
	}
	if err := c.Overlay.Validate(); err != nil {
		return fmt.Errorf("overlay configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the measurement settings.
func (m *MeasureConfig) Validate() error {
	if m.FontTimeout < 0 {
		return fmt.Errorf("font_timeout must not be negative")
	}
	return nil
}

// Validate checks the overlay settings.
func (o *OverlayConfig) Validate() error {
	if !schemas.Theme(o.Theme).Valid() {
		return fmt.Errorf("theme must be one of auto, light, dark; got %q", o.Theme)
	}
	if o.BorderWidth <= 0 {
		return fmt.Errorf("border_width must be positive")
	}
	if o.PaddingPx < 0 {
		return fmt.Errorf("padding_px must not be negative")
	}
	return nil
}
