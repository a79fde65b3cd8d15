package lib

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFile is read from the working directory when no path is given.
const ConfigFile = "libgen.yaml"

// Config holds the settings shared by every command.
type Config struct {
	// Format is the output format: "kicad" or "eagle".
	Format string `yaml:"format"`
	// KiCadVersion is a KiCad application version such as "7.0"; empty
	// means the newest file version.
	KiCadVersion string `yaml:"kicad_version"`
	Library      string `yaml:"library"`
	// FootprintLib defaults to Library.
	FootprintLib string `yaml:"footprint_lib"`
	SymbolStyle  string `yaml:"symbol_style"`
	Output       string `yaml:"output"`
	Workers      int    `yaml:"workers"`
	// Rules is an optional YAML file of extra package families.
	Rules string `yaml:"rules"`
	// Store is the directory of the part database and its search index.
	Store   string    `yaml:"store"`
	Company string    `yaml:"company"`
	Log     LogConfig `yaml:"log"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Format:      "kicad",
		Library:     "libgen",
		SymbolStyle: "european",
		Output:      ".",
		Store:       DefaultDataDir(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

/*
	LoadConfig reads path over the defaults, then applies LIBGEN_*
	environment overrides. A missing file is only an error when path was
	given explicitly.
*/
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	config.Format = getEnv("LIBGEN_FORMAT", config.Format)
	config.KiCadVersion = getEnv("LIBGEN_KICAD_VERSION", config.KiCadVersion)
	config.Library = getEnv("LIBGEN_LIBRARY", config.Library)
	config.FootprintLib = getEnv("LIBGEN_FOOTPRINT_LIB", config.FootprintLib)
	config.SymbolStyle = getEnv("LIBGEN_SYMBOL_STYLE", config.SymbolStyle)
	config.Output = getEnv("LIBGEN_OUTPUT", config.Output)
	config.Workers = getEnvAsInt("LIBGEN_WORKERS", config.Workers)
	config.Rules = getEnv("LIBGEN_RULES", config.Rules)
	config.Store = getEnv("LIBGEN_STORE", config.Store)
	config.Company = getEnv("LIBGEN_COMPANY", config.Company)
	config.Log.Level = getEnv("LIBGEN_LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnv("LIBGEN_LOG_FORMAT", config.Log.Format)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration and fills in defaults for zero values.
func (c *Config) Validate() error {
	switch c.Format {
	case "":
		c.Format = "kicad"
	case "kicad", "eagle":
	default:
		return fmt.Errorf("%w: format %q", ErrUnsupported, c.Format)
	}

	switch c.SymbolStyle {
	case "":
		c.SymbolStyle = "european"
	case "european", "american":
	default:
		return invalidValue(KindSymbolStyle, c.SymbolStyle, "not european or american")
	}

	if c.KiCadVersion != "" {
		if _, err := KiCadVersionFor(c.KiCadVersion); err != nil {
			return err
		}
	}
	if err := checkName(c.Library); err != nil {
		return fmt.Errorf("library name: %w", err)
	}
	if c.FootprintLib == "" {
		c.FootprintLib = c.Library
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	return nil
}

// FileVersion is the KiCad symbol file version to write.
func (c *Config) FileVersion() int {
	if c.KiCadVersion == "" {
		return 0
	}
	v, err := KiCadVersionFor(c.KiCadVersion)
	if err != nil {
		return 0
	}
	return v
}

/*
	NewGenerator builds the registry, rules, emitter and logger the
	configuration describes.
*/
func (c *Config) NewGenerator() (*Generator, error) {
	var extra []string
	if c.Rules != "" {
		extra = append(extra, c.Rules)
	}
	rules, err := LoadRules(extra...)
	if err != nil {
		return nil, err
	}

	emitter, err := NewEmitter(c.Format, c.FileVersion())
	if err != nil {
		return nil, err
	}
	if k, ok := emitter.(*KiCad); ok {
		k.FootprintLib = c.FootprintLib
	}

	logger, err := NewLogger(c.Log)
	if err != nil {
		return nil, err
	}

	g := NewGenerator(DefaultRegistry(), rules, emitter)
	g.Logger = logger
	g.Workers = c.Workers
	return g, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

/*
	ApplyDefaults sets the configured symbol style on resistors that do not
	choose one. Only the american style changes the drawing, so european
	leaves the catalog untouched.
*/
func (c *Config) ApplyDefaults(cat *Catalog) error {
	if c.SymbolStyle != "american" {
		return nil
	}
	for _, comp := range cat.Components() {
		if comp.Role() != RoleResistor || comp.Has(KindSymbolStyle) {
			continue
		}
		if err := comp.Set(KindSymbolStyle, Text(c.SymbolStyle)); err != nil {
			return err
		}
	}
	return nil
}
