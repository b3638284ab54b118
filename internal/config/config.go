package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is read from the working directory when CONFIG_FILE is unset.
const DefaultConfigFile = "floodrank.toml"

// Config holds all tool settings. Values come from defaults, then the TOML
// file, then environment variables; command-line flags are applied by main.
type Config struct {
	SourcePath string `toml:"source_path" env:"FLOOD_SOURCE_PATH" validate:"required"`
	SheetName  string `toml:"sheet_name" env:"FLOOD_SHEET_NAME" validate:"required"`

	// DisplayLimit is the number of ranking rows shown and offered for charting.
	DisplayLimit int `toml:"display_limit" env:"DISPLAY_LIMIT" validate:"min=1,max=100"`

	ChartDir      string  `toml:"chart_dir" env:"CHART_DIR" validate:"required"`
	ChartWidthIn  float64 `toml:"chart_width_in" env:"CHART_WIDTH_IN" validate:"gt=0,lte=40"`
	ChartHeightIn float64 `toml:"chart_height_in" env:"CHART_HEIGHT_IN" validate:"gt=0,lte=40"`
	ChartOpen     bool    `toml:"chart_open" env:"CHART_OPEN"`

	SeriesCacheSize int `toml:"series_cache_size" env:"SERIES_CACHE_SIZE" validate:"min=1"`

	LogLevel        string `toml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string `toml:"log_format" env:"LOG_FORMAT" validate:"oneof=json text"`
	MetricsTextfile string `toml:"metrics_textfile" env:"METRICS_TEXTFILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		SourcePath:      "Alagamentos em São Paulo 2007 a 2016.xlsx",
		SheetName:       "Plan1",
		DisplayLimit:    15,
		ChartDir:        "charts",
		ChartWidthIn:    10,
		ChartHeightIn:   5,
		ChartOpen:       true,
		SeriesCacheSize: 64,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from the TOML file named by CONFIG_FILE (missing
// file is fine) and environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(sharedcfg.EnvOrDefault("CONFIG_FILE", DefaultConfigFile)); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs *multierror.Error

	c.SourcePath = sharedcfg.EnvOrDefault("FLOOD_SOURCE_PATH", c.SourcePath)
	c.SheetName = sharedcfg.EnvOrDefault("FLOOD_SHEET_NAME", c.SheetName)
	c.ChartDir = sharedcfg.EnvOrDefault("CHART_DIR", c.ChartDir)
	c.LogLevel = sharedcfg.EnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = sharedcfg.EnvOrDefault("LOG_FORMAT", c.LogFormat)
	c.MetricsTextfile = sharedcfg.EnvOrDefault("METRICS_TEXTFILE", c.MetricsTextfile)

	var err error
	if c.DisplayLimit, err = envInt("DISPLAY_LIMIT", c.DisplayLimit); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.SeriesCacheSize, err = envInt("SERIES_CACHE_SIZE", c.SeriesCacheSize); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.ChartWidthIn, err = envFloat("CHART_WIDTH_IN", c.ChartWidthIn); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.ChartHeightIn, err = envFloat("CHART_HEIGHT_IN", c.ChartHeightIn); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.ChartOpen, err = envBool("CHART_OPEN", c.ChartOpen); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// Validate checks every field constraint and reports all violations at once,
// naming fields by their environment variable.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	var errs *multierror.Error
	for _, fe := range verrs {
		constraint := fe.Tag()
		if fe.Param() != "" {
			constraint += "=" + fe.Param()
		}
		errs = multierror.Append(errs, fmt.Errorf("invalid %s: %v violates %s", fe.Field(), fe.Value(), constraint))
	}
	return errs.ErrorOrNil()
}

func envInt(key string, fallback int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %q is not an integer", key, s)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %q is not a number", key, s)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatBool(fallback))
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %q is not a boolean", key, s)
	}
	return b, nil
}
