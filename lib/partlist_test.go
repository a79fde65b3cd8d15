package lib

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partsYAML = `
library: Board
components:
  - name: R1
    attributes:
      role: resistor
      package: "0603"
      Pin Count: "2"
      resistance: 4k7
  - name: U1
    attributes:
      role: ic
      package: SOIC
      pin_count: "8"
      mpn: NE555DR
series:
  - e_series: E6
    package: "0402"
    manufacturer: Yageo
    decades: [100]
`

func TestLoadPartsYAML(t *testing.T) {
	reg := DefaultRegistry()

	cat, err := LoadPartsYAML(reg, strings.NewReader(partsYAML))
	require.NoError(t, err)
	assert.Equal(t, "Board", cat.Name())
	assert.Equal(t, 2+6, cat.Len())

	r1, ok := cat.Get("R1")
	require.True(t, ok)
	assert.Equal(t, 2, r1.PinCount())
	assert.Equal(t, "4700", r1.text(KindResistance))

	series, ok := cat.Get("R0402_100")
	require.True(t, ok)
	assert.Equal(t, "RC0402FR-07100L", series.text(KindMPN))
	assert.Equal(t, "Mouser", series.text(KindSupplier))

	t.Run("default name", func(t *testing.T) {
		cat, err := LoadPartsYAML(reg, strings.NewReader("components: []\n"))
		require.NoError(t, err)
		assert.Equal(t, "libgen", cat.Name())
		assert.Zero(t, cat.Len())
	})

	t.Run("errors", func(t *testing.T) {
		_, err := LoadPartsYAML(reg, strings.NewReader("parts: []\n"))
		assert.True(t, IsMalformedInput(err))

		_, err = LoadPartsYAML(reg, strings.NewReader("components:\n  - name: R1\n    attributes: {colour: red}\n"))
		assert.ErrorIs(t, err, ErrUnknownKind)

		_, err = LoadPartsYAML(reg, strings.NewReader("components:\n  - name: R1\n  - name: R1\n"))
		assert.ErrorIs(t, err, ErrDuplicateName)

		_, err = LoadPartsYAML(reg, strings.NewReader("series:\n  - e_series: E5\n    package: \"0603\"\n"))
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestPartListRoundTrip(t *testing.T) {
	reg := DefaultRegistry()
	resistors, err := ResistorSeries(reg, "E6", "0603", []float64{1000}, "KOA")
	require.NoError(t, err)
	cat := catalogOf(t, "passives", resistors...)
	require.NoError(t, cat.Add(part(t, "J1", "role", "connector", "package", "PinHeader-1Row", "pin_count", "4")))

	path := filepath.Join(t.TempDir(), "passives.xlsx")
	require.NoError(t, ExportPartList(cat, path))

	back, err := ImportPartList(reg, path)
	require.NoError(t, err)
	assert.Equal(t, "passives", back.Name())
	require.Equal(t, cat.Len(), back.Len())

	for i, c := range back.Components() {
		want := cat.Components()[i]
		assert.Equal(t, want.Name(), c.Name())
		assert.Equal(t, want.Hash(), c.Hash(), c.Name())
	}
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	g := testGenerator(t, mustKiCad(t, KiCad8))

	yamlPath := filepath.Join(dir, "board.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(partsYAML), 0644))
	cat, err := LoadCatalog(ctx, g, yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 8, cat.Len())

	out, err := g.EmitLibrary(ctx, cat)
	require.NoError(t, err)
	symPath := filepath.Join(dir, "board.kicad_sym")
	require.NoError(t, os.WriteFile(symPath, []byte(out.Text), 0644))
	parsed, err := LoadCatalog(ctx, g, symPath)
	require.NoError(t, err)
	assert.Equal(t, "board", parsed.Name())
	assert.Equal(t, 8, parsed.Len())

	var buf bytes.Buffer
	_, err = g.WriteDatabase(ctx, &buf, cat, DatabaseOptions{})
	require.NoError(t, err)
	csvPath := filepath.Join(dir, "board.csv")
	require.NoError(t, os.WriteFile(csvPath, buf.Bytes(), 0644))
	db, err := LoadCatalog(ctx, g, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 8, db.Len())

	_, err = LoadCatalog(ctx, g, filepath.Join(dir, "board.txt"))
	assert.ErrorIs(t, err, ErrUnsupported)

	eg := testGenerator(t, NewEagle())
	_, err = LoadCatalog(ctx, eg, symPath)
	assert.ErrorIs(t, err, ErrUnsupported)
}
