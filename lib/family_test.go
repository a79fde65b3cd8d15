package lib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overrideFamilies = `
families:
  - name: chip-0603-wide
    version: "1.1"
    roles: [resistor]
    package: SMD-0603
    aliases: ["0603"]
    pins: {min: 2, max: 2}
    symbol: {style: two-terminal, spacing: 7.62}
    footprint:
      pattern: chip
      name: "{prefix}_0603_Wide"
      body_length: 1.6
      body_width: 0.8
      pad_width: 1.0
      pad_height: 1.0
      span: 1.7
`

func TestRulesMatch(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	for _, pkg := range []string{"SMD-0603", "0603", "1608Metric"} {
		f, err := rules.Match(RoleResistor, pkg)
		require.NoError(t, err, pkg)
		assert.Equal(t, "chip-0603", f.Name)
		assert.Equal(t, "R_0603_1608Metric", f.FootprintName(RoleResistor, 2))
		assert.Equal(t, "C_0603_1608Metric", f.FootprintName(RoleCapacitor, 2))
	}

	_, err = rules.Match(RoleIC, "0603")
	assert.ErrorIs(t, err, ErrNoRule)
	_, err = rules.Match(RoleResistor, "0604")
	assert.ErrorIs(t, err, ErrNoRule)

	f, err := rules.Match(RoleIC, "SOIC")
	require.NoError(t, err)
	assert.Equal(t, "SOIC-8_3.9x4.9mm_P1.27mm", f.FootprintName(RoleIC, 8))
	assert.Equal(t, "${KICAD6_3DMODEL_DIR}/Package_SO.3dshapes/SOIC-8_3.9x4.9mm_P1.27mm.wrl", f.modelPath(RoleIC, 8))

	f, err = rules.Match(RoleConnector, "PinHeader-2Row")
	require.NoError(t, err)
	assert.Equal(t, "PinHeader_2x5_P2.54mm_Vertical", f.FootprintName(RoleConnector, 10))
}

func TestRulesVersions(t *testing.T) {
	t.Run("higher version wins", func(t *testing.T) {
		rules, err := DefaultRules()
		require.NoError(t, err)
		assert.ErrorIs(t, rules.Load(strings.NewReader(overrideFamilies)), ErrRegistrySealed)

		r := NewRules()
		require.NoError(t, r.Load(strings.NewReader(overrideFamilies)))
		require.NoError(t, r.Load(strings.NewReader(string(defaultFamilies))))
		f, err := r.Match(RoleResistor, "0603")
		require.NoError(t, err)
		assert.Equal(t, "chip-0603-wide", f.Name, "1.1 beats a later 1.0")

		f, err = r.Match(RoleCapacitor, "0603")
		require.NoError(t, err)
		assert.Equal(t, "chip-0603", f.Name, "override only covers resistors")
	})

	t.Run("last loaded wins a tie", func(t *testing.T) {
		tie := strings.Replace(overrideFamilies, `"1.1"`, `"1.0"`, 1)
		r := NewRules()
		require.NoError(t, r.Load(strings.NewReader(string(defaultFamilies))))
		require.NoError(t, r.Load(strings.NewReader(tie)))
		f, err := r.Match(RoleResistor, "SMD-0603")
		require.NoError(t, err)
		assert.Equal(t, "chip-0603-wide", f.Name)
	})

	t.Run("rule files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "families.yaml")
		require.NoError(t, os.WriteFile(path, []byte(overrideFamilies), 0644))

		rules, err := LoadRules(path)
		require.NoError(t, err)
		f, err := rules.Match(RoleResistor, "0603")
		require.NoError(t, err)
		assert.Equal(t, "R_0603_Wide", f.FootprintName(RoleResistor, 2))

		_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestFamilyValidate(t *testing.T) {
	bad := []string{
		strings.Replace(overrideFamilies, "roles: [resistor]", "roles: [transistor]", 1),
		strings.Replace(overrideFamilies, "pattern: chip", "pattern: bga", 1),
		strings.Replace(overrideFamilies, "style: two-terminal", "style: round", 1),
		strings.Replace(overrideFamilies, "{min: 2, max: 2}", "{min: 3, max: 2}", 1),
		strings.Replace(overrideFamilies, "pad_width: 1.0", "pad_width: 0", 1),
	}
	for i, doc := range bad {
		assert.Error(t, NewRules().Load(strings.NewReader(doc)), "case %d", i)
	}
}

const oddFamilies = `
families:
  - name: sot
    roles: [ic]
    package: SOT
    pins: {min: 3, max: 5}
    symbol: {style: box, quad_threshold: 1024}
    footprint: {pattern: dual, pitch: 0.95, span: 2.6, pad_width: 1.0, pad_height: 0.6}
  - name: qq
    roles: [ic]
    package: QQ
    pins: {min: 10, max: 10}
    symbol: {style: box, quad_threshold: 0}
    footprint: {pattern: quad, pitch: 0.5, pad_width: 0.8, pad_height: 0.25}
`

func TestFamilyPinMultiples(t *testing.T) {
	f := func(pattern string, pins PinRange) *Family {
		return &Family{
			Name:      pattern + "-test",
			Roles:     []string{RoleIC},
			Package:   "TEST",
			Pins:      pins,
			Symbol:    SymbolRule{Style: StyleBox},
			Footprint: FootprintRule{Pattern: pattern, Pitch: 0.5, PadWidth: 1, PadHeight: 0.3},
		}
	}

	good := []*Family{
		f(PatternDual, PinRange{Min: 4, Max: 32, Step: 2}),
		f(PatternDual, PinRange{Min: 6, Max: 6}),
		f(PatternQuad, PinRange{Min: 8, Max: 128, Step: 4}),
		f(PatternQuad, PinRange{Min: 16, Max: 64, Step: 8}),
		f(PatternHeader, PinRange{Min: 1, Max: 40}),
	}
	for _, fam := range good {
		assert.NoError(t, NewRules().Add(fam), "%s %+v", fam.Name, fam.Pins)
	}

	bad := []*Family{
		f(PatternDual, PinRange{Min: 3, Max: 5}),
		f(PatternDual, PinRange{Min: 4, Max: 32}),
		f(PatternDual, PinRange{Min: 5, Max: 5}),
		f(PatternQuad, PinRange{Min: 10, Max: 10}),
		f(PatternQuad, PinRange{Min: 8, Max: 64, Step: 2}),
		f(PatternChip, PinRange{Min: 2, Max: 3}),
	}
	for _, fam := range bad {
		assert.Error(t, NewRules().Add(fam), "%s %+v", fam.Name, fam.Pins)
	}

	assert.Error(t, NewRules().Load(strings.NewReader(oddFamilies)))
}

func TestFootprintPadCount(t *testing.T) {
	// families added without validation, as an older rules table might hold
	rules := NewRules()
	rules.families = []*Family{
		{
			Name: "sot", Version: "1.0", Roles: []string{RoleIC}, Package: "SOT",
			Pins:      PinRange{Min: 3, Max: 5},
			Symbol:    SymbolRule{Style: StyleBox, QuadThreshold: 1024},
			Footprint: FootprintRule{Pattern: PatternDual, Pitch: 0.95, Span: 2.6, PadWidth: 1, PadHeight: 0.6},
		},
		{
			Name: "qq", Version: "1.0", Roles: []string{RoleIC}, Package: "QQ",
			Pins:      PinRange{Min: 10, Max: 10},
			Symbol:    SymbolRule{Style: StyleBox},
			Footprint: FootprintRule{Pattern: PatternQuad, Pitch: 0.5, PadWidth: 0.8, PadHeight: 0.25, ExposedPad: 0.5},
		},
	}

	for _, c := range []*Component{
		part(t, "U1", "role", "ic", "package", "SOT", "pin_count", "5"),
		part(t, "U2", "role", "ic", "package", "QQ", "pin_count", "10"),
	} {
		_, err := ComputeFootprintGeometry(rules, c)
		assert.ErrorIs(t, err, ErrInvalidValue, c.Name())
	}

	g, err := ComputeFootprintGeometry(rules, part(t, "U3", "role", "ic", "package", "SOT", "pin_count", "4"))
	require.NoError(t, err)
	assert.Len(t, g.Pads, 4)
}

func TestPinRange(t *testing.T) {
	r := PinRange{Min: 8, Max: 64, Step: 4}
	assert.True(t, r.Accepts(8))
	assert.True(t, r.Accepts(64))
	assert.False(t, r.Accepts(10))
	assert.False(t, r.Accepts(4))
	assert.True(t, PinRange{Min: 1, Max: 40}.Accepts(7))
}

func TestRulesPackages(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	pkgs := rules.Packages(RoleIC)
	assert.Equal(t, []string{"SOIC", "TSSOP", "DIP", "QFN", "QFP"}, pkgs)
	assert.Contains(t, rules.Packages(RoleInductor), "SMD-0805")
	assert.Empty(t, rules.Packages("transistor"))
}
