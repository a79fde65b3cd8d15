package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "kicad", config.Format)
		assert.Equal(t, "libgen", config.Library)
		assert.Equal(t, "libgen", config.FootprintLib)
		assert.Equal(t, "european", config.SymbolStyle)
		assert.Equal(t, 0, config.FileVersion())
	})

	t.Run("file", func(t *testing.T) {
		path := writeConfig(t, `
format: eagle
library: Passives
kicad_version: "7.0"
workers: 4
company: Acme
log:
  level: debug
  format: json
`)
		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "eagle", config.Format)
		assert.Equal(t, "Passives", config.Library)
		assert.Equal(t, "Passives", config.FootprintLib)
		assert.Equal(t, KiCad7, config.FileVersion())
		assert.Equal(t, 4, config.Workers)
		assert.Equal(t, "Acme", config.Company)
		assert.Equal(t, "debug", config.Log.Level)
	})

	t.Run("environment", func(t *testing.T) {
		path := writeConfig(t, "library: Passives\nworkers: 4\n")
		t.Setenv("LIBGEN_LIBRARY", "Actives")
		t.Setenv("LIBGEN_FOOTPRINT_LIB", "Footprints")
		t.Setenv("LIBGEN_WORKERS", "not a number")
		t.Setenv("LIBGEN_KICAD_VERSION", "6.0")

		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Actives", config.Library)
		assert.Equal(t, "Footprints", config.FootprintLib)
		assert.Equal(t, 4, config.Workers)
		assert.Equal(t, KiCad6, config.FileVersion())
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "format: [kicad\n"))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	bad := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"format", func(c *Config) { c.Format = "altium" }, ErrUnsupported},
		{"style", func(c *Config) { c.SymbolStyle = "gothic" }, ErrInvalidValue},
		{"kicad version", func(c *Config) { c.KiCadVersion = "5.1" }, ErrUnsupported},
		{"library", func(c *Config) { c.Library = "my lib" }, ErrInvalidName},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.ErrorIs(t, config.Validate(), tt.target)
		})
	}

	config := &Config{Library: "lib", Workers: -3}
	require.NoError(t, config.Validate())
	assert.Equal(t, "kicad", config.Format)
	assert.Equal(t, "european", config.SymbolStyle)
	assert.Equal(t, "lib", config.FootprintLib)
	assert.Equal(t, 0, config.Workers)
}

func TestConfigNewGenerator(t *testing.T) {
	rulesPath := filepath.Join(t.TempDir(), "families.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(overrideFamilies), 0644))

	config := DefaultConfig()
	config.KiCadVersion = "7.0.1"
	config.FootprintLib = "Board"
	config.Rules = rulesPath
	config.Workers = 3
	require.NoError(t, config.Validate())

	g, err := config.NewGenerator()
	require.NoError(t, err)
	k, ok := g.Emitter.(*KiCad)
	require.True(t, ok)
	assert.Equal(t, KiCad7, k.Version())
	assert.Equal(t, "Board", k.FootprintLib)
	assert.Equal(t, 3, g.Workers)
	assert.True(t, g.Registry.Sealed())

	f, err := g.Rules.Match(RoleResistor, "0603")
	require.NoError(t, err)
	assert.Equal(t, "chip-0603-wide", f.Name)

	config.Rules = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = config.NewGenerator()
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cat := catalogOf(t, "lib",
		part(t, "R1", "role", "resistor"),
		part(t, "R2", "role", "resistor", "symbol_style", "european"),
		part(t, "C1", "role", "capacitor"),
	)

	config := DefaultConfig()
	require.NoError(t, config.ApplyDefaults(cat))
	r1, _ := cat.Get("R1")
	assert.False(t, r1.Has(KindSymbolStyle))

	config.SymbolStyle = "american"
	require.NoError(t, config.ApplyDefaults(cat))
	assert.Equal(t, "american", r1.text(KindSymbolStyle))
	r2, _ := cat.Get("R2")
	assert.Equal(t, "european", r2.text(KindSymbolStyle))
	c1, _ := cat.Get("C1")
	assert.False(t, c1.Has(KindSymbolStyle))
}

func TestNewLogger(t *testing.T) {
	for _, lc := range []LogConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "nonsense"},
	} {
		logger, err := NewLogger(lc)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
