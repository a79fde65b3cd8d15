//go:build !windows

package lib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKicad installs a kicad-cli script that prints version and fails
// exports of files named broken*.
func fakeKicad(t *testing.T, version string) string {
	t.Helper()
	dir := t.TempDir()
	script := `#!/bin/sh
case "$1" in
  version) echo "` + version + `" ;;
  sym|fp)
    for last; do :; done
    case "$(basename "$last")" in
      broken*) echo "cannot load $last" >&2; exit 1 ;;
    esac ;;
  *) exit 2 ;;
esac
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, kicadCLI), []byte(script), 0755))
	return dir
}

func TestKiCadInterface(t *testing.T) {
	ctx := context.Background()
	bin := fakeKicad(t, "7.0.10")
	t.Setenv("LIBGEN_KICAD_BIN", bin)

	ki, err := NewKicadInterface()
	require.NoError(t, err)
	assert.Equal(t, bin, ki.GetBinPath())

	app, err := ki.AppVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7.0.10", app)

	v, err := ki.FileVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, KiCad7, v)

	assert.NoError(t, ki.CheckSymbols(ctx, "good.kicad_sym"))
	err = ki.CheckFootprints(ctx, "broken.pretty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load broken.pretty")

	t.Setenv("LIBGEN_KICAD_BIN", t.TempDir())
	_, err = NewKicadInterface()
	assert.Error(t, err)
}
