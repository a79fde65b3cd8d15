package lib

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDatabase(t *testing.T) {
	g := testGenerator(t, mustKiCad(t, KiCad8))
	reg := g.Registry

	resistors, err := ResistorSeries(reg, "E12", "0603", []float64{1000}, "Vishay")
	require.NoError(t, err)
	cat := catalogOf(t, "db", resistors[:3]...)
	require.NoError(t, cat.Add(part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8", "mpn", "NE555DR")))
	require.NoError(t, cat.Add(part(t, "U2", "role", "ic", "package", "SOIC", "pin_count", "8")))

	var buf bytes.Buffer
	failures, err := g.WriteDatabase(context.Background(), &buf, cat, DatabaseOptions{Library: "Passives", Company: "Acme"})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "U2", failures[0].Symbol)
	assert.True(t, IsMissingAttribute(failures[0]))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, databaseHeader, records[0])

	row := records[1]
	assert.Equal(t, []string{
		"R0603_1.00K", "Resistor 1k, 0603, 10%, 100mW", "1.00K", "0603", "100mW", "Digikey", "541-1.00KHCT-ND",
		"Passives.SchLib", "Res1", "Passives.PcbLib", "R_0603_1608Metric", "Acme", "=Description",
	}, row)

	ic := records[4]
	assert.Equal(t, "U1", ic[0])
	assert.Equal(t, "NE555DR", ic[2])
	assert.Equal(t, "IC", ic[8])
	assert.Equal(t, "SOIC-8_3.9x4.9mm_P1.27mm", ic[10])
	assert.Equal(t, "", ic[4])
}

func TestReadDatabase(t *testing.T) {
	g := testGenerator(t, mustKiCad(t, KiCad8))
	resistors, err := ResistorSeries(g.Registry, "E24", "0805", []float64{10}, "Vishay")
	require.NoError(t, err)
	cat := catalogOf(t, "db", resistors...)
	require.NoError(t, cat.Add(part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8", "mpn", "NE555DR")))

	var buf bytes.Buffer
	failures, err := g.WriteDatabase(context.Background(), &buf, cat, DatabaseOptions{})
	require.NoError(t, err)
	require.Empty(t, failures)

	back, err := ReadDatabase(g.Registry, &buf)
	require.NoError(t, err)
	require.Equal(t, cat.Len(), back.Len())
	assert.Equal(t, "database", back.Name())

	r, ok := back.Get("R0805_47.0")
	require.True(t, ok)
	assert.Equal(t, RoleResistor, r.Role())
	assert.Equal(t, "0805", r.Package())
	assert.Equal(t, 2, r.PinCount())
	assert.Equal(t, "47", r.text(KindResistance))
	w, ok := r.number(KindPower)
	require.True(t, ok)
	assert.InDelta(t, 0.125, w, 1e-12)
	assert.Equal(t, "541-47.0CCT-ND", r.text(KindSupplierPN))
	assert.True(t, r.RequiredAttributesPresent(ForSymbol))

	// the read back row reproduces the written one
	orig, _ := cat.Get("R0805_47.0")
	want, err := g.DatabaseRow(orig, DatabaseOptions{})
	require.NoError(t, err)
	got, err := g.DatabaseRow(r, DatabaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, want.record(), got.record())

	u, ok := back.Get("U1")
	require.True(t, ok)
	assert.Equal(t, "NE555DR", u.text(KindMPN))
	assert.Equal(t, "SOIC", u.Package())
}

func TestReadDatabaseErrors(t *testing.T) {
	reg := DefaultRegistry()
	header := strings.Join(databaseHeader, ",") + "\n"

	bad := []string{
		"",
		"Name,Description\n",
		header + "R1,,1k,0603\n",
		header + "R1,,1k,0603,,,,lib.SchLib,Transistor,lib.PcbLib,R_0603,,=Description\n",
		header + "R1,,lots,0603,,,,lib.SchLib,Res1,lib.PcbLib,R_0603,,=Description\n",
		header + "R1,,1k,0603,,,,lib.SchLib,Res1,lib.PcbLib,R_0603,,=Description\n" +
			"R1,,2k,0603,,,,lib.SchLib,Res1,lib.PcbLib,R_0603,,=Description\n",
	}
	for i, text := range bad {
		_, err := ReadDatabase(reg, strings.NewReader(text))
		assert.True(t, IsMalformedInput(err), "case %d: %v", i, err)
	}

	var perr *ParseError
	_, err := ReadDatabase(reg, strings.NewReader(header+"R1,,lots,0603,,,,lib.SchLib,Res1,lib.PcbLib,R_0603,,=Description\n"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}
