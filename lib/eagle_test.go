package lib

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEagleEmitLibrary(t *testing.T) {
	g := testGenerator(t, NewEagle())
	cat := catalogOf(t, "mixed",
		part(t, "R1", "role", "resistor", "package", "0603", "pin_count", "2", "resistance", "1k"),
		part(t, "R2", "role", "resistor", "package", "0603", "pin_count", "2", "resistance", "2k2"),
		part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8", "pin_names", "VCC,GND,GND,IN,OUT,NC,NC,EN"),
	)

	out, err := g.EmitLibrary(context.Background(), cat)
	require.NoError(t, err)
	require.Empty(t, out.Failures)
	assert.True(t, strings.HasPrefix(out.Text, xml.Header+"<!DOCTYPE eagle SYSTEM \"eagle.dtd\">"))

	var lib EagleLibrary
	require.NoError(t, xml.Unmarshal([]byte(out.Text), &lib))

	assert.Equal(t, "mixed", lib.Description)
	require.Len(t, lib.Symbols, 3)
	require.Len(t, lib.DevicesSets, 3)
	assert.Len(t, lib.Packages, 2, "resistors share one package")
	assert.Equal(t, "R_0603_1608Metric", lib.Packages[0].Name)
	assert.Len(t, lib.Packages[0].SMDs, 2)

	r1 := lib.DevicesSets[0]
	assert.Equal(t, "R1", r1.Name)
	assert.Equal(t, "R", r1.Prefix)
	require.Len(t, r1.Gates, 1)
	assert.Equal(t, "G$1", r1.Gates[0].Name)
	require.Len(t, r1.Devices, 1)
	assert.Equal(t, "R_0603_1608Metric", r1.Devices[0].Package)
	require.Len(t, r1.Devices[0].Connects, 2)
	assert.Equal(t, "1", r1.Devices[0].Connects[0].Pin)
	assert.Equal(t, "1", r1.Devices[0].Connects[0].Pad)

	attrs := map[string]string{}
	for _, a := range r1.Devices[0].Technologies[0].Attributes {
		attrs[a.Name] = a.Value
	}
	assert.Equal(t, "1k", attrs["VALUE"])
	assert.Equal(t, "1000", attrs["RESISTANCE"])
	assert.Equal(t, "2", attrs["PIN_COUNT"])

	u1 := lib.Symbols[2]
	var names []string
	for _, p := range u1.Pins {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"VCC", "GND@1", "GND@2", "IN", "OUT", "NC@1", "NC@2", "EN"}, names)
	assert.Equal(t, "R0", u1.Pins[0].Rot)
	assert.Equal(t, "short", u1.Pins[0].Length)
	assert.Equal(t, "both", u1.Pins[0].Visible)

	connects := lib.DevicesSets[2].Devices[0].Connects
	require.Len(t, connects, 8)
	assert.Equal(t, "GND@2", connects[2].Pin)
	assert.Equal(t, "3", connects[2].Pad)
}

func TestEaglePackageFlipsY(t *testing.T) {
	c := part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8")
	fp, err := ComputeFootprintGeometry(defaultRules(t), c)
	require.NoError(t, err)

	pkg := eaglePackage(fp)
	require.Len(t, pkg.SMDs, 8)
	assert.Equal(t, formatNumber(fp.Pads[0].At.X), pkg.SMDs[0].X)
	assert.Equal(t, formatNumber(-fp.Pads[0].At.Y), pkg.SMDs[0].Y)
	assert.Equal(t, "50", pkg.SMDs[0].Roundness)
	assert.Equal(t, eagleTop, pkg.SMDs[0].Layer)

	header := part(t, "J1", "role", "connector", "package", "PinHeader-1Row", "pin_count", "3")
	fp, err = ComputeFootprintGeometry(defaultRules(t), header)
	require.NoError(t, err)
	pkg = eaglePackage(fp)
	require.Len(t, pkg.Pads, 3)
	assert.Equal(t, "square", pkg.Pads[0].Shape)
	assert.Equal(t, "round", pkg.Pads[1].Shape)
	assert.Equal(t, "1", pkg.Pads[1].Drill)
}

func TestArcSweep(t *testing.T) {
	assert.Equal(t, -180.0, arcSweep(Pt(0, 1), Pt(1, 0), Pt(0, -1)))
	assert.Equal(t, 180.0, arcSweep(Pt(0, 1), Pt(-1, 0), Pt(0, -1)))
	assert.Equal(t, 0.0, arcSweep(Pt(0, 0), Pt(1, 1), Pt(2, 2)))
}

func TestEaglePinNames(t *testing.T) {
	pins := []Pin{{Number: "1", Name: "~"}, {Number: "2", Name: ""}, {Number: "3", Name: "A"}}
	assert.Equal(t, []string{"1", "2", "A"}, eaglePinNames(pins))
}
