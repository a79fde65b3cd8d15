package lib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	vlib "github.com/mcuadros/go-version"
)

// KiCadInterface runs the kicad-cli of one KiCad installation.
type KiCadInterface struct {
	binPath string
}

/*
	NewKicadInterface finds the newest KiCad installation. Versioned
	installs (Program Files\KiCad\<version>) are compared by version; the
	first existing fixed location is used otherwise.
*/
func NewKicadInterface() (*KiCadInterface, error) {
	if bin := os.Getenv("LIBGEN_KICAD_BIN"); bin != "" {
		return newKicadInterface(bin)
	}

	rootDir := filepath.Join(GetProgramFiles(), "KiCad")
	if versions, err := os.ReadDir(rootDir); err == nil && len(versions) > 0 && GetProgramFiles() != "" {
		latestVersion := "0.0.1"
		for _, e := range versions {
			version := e.Name()
			if vlib.CompareSimple(latestVersion, version) == -1 {
				latestVersion = version
			}
		}

		return newKicadInterface(filepath.Join(rootDir, latestVersion, "bin"))
	}

	for _, dir := range kicadBinDirs() {
		if ki, err := newKicadInterface(dir); err == nil {
			return ki, nil
		}
	}
	return nil, errors.New("no KiCad installation with kicad-cli found")
}

func newKicadInterface(binPath string) (*KiCadInterface, error) {
	if _, err := os.Stat(filepath.Join(binPath, kicadCLI)); err != nil {
		return nil, fmt.Errorf("KiCad binPath %s does not have kicad-cli", binPath)
	}

	return &KiCadInterface{binPath}, nil
}

func (ki *KiCadInterface) GetBinPath() string {
	return ki.binPath
}

func (ki *KiCadInterface) command(ctx context.Context, args []string, cwd string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, filepath.Join(ki.binPath, kicadCLI), args...)
	cmd.Dir = cwd
	return cmd
}

// ExecuteCommand runs kicad-cli with its output on ours.
func (ki *KiCadInterface) ExecuteCommand(ctx context.Context, args []string, cwd string) error {
	cmd := ki.command(ctx, args, cwd)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func (ki *KiCadInterface) output(ctx context.Context, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := ki.command(ctx, args, "")
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("kicad-cli %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// AppVersion returns the version of the KiCad application, e.g. "8.0.4".
func (ki *KiCadInterface) AppVersion(ctx context.Context) (string, error) {
	return ki.output(ctx, "version")
}

/*
	FileVersion returns the symbol file version the installed KiCad writes,
	so generated libraries open without an upgrade prompt.
*/
func (ki *KiCadInterface) FileVersion(ctx context.Context) (int, error) {
	app, err := ki.AppVersion(ctx)
	if err != nil {
		return 0, err
	}
	return KiCadVersionFor(app)
}

/*
	CheckSymbols loads a symbol library by exporting it to SVG, which fails
	on anything KiCad cannot read.
*/
func (ki *KiCadInterface) CheckSymbols(ctx context.Context, library string) error {
	tmp, err := os.MkdirTemp("", "libgen-check")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	_, err = ki.output(ctx, "sym", "export", "svg", "--output", tmp, library)
	return err
}

// CheckFootprints does the same for a .pretty footprint directory.
func (ki *KiCadInterface) CheckFootprints(ctx context.Context, pretty string) error {
	tmp, err := os.MkdirTemp("", "libgen-check")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	_, err = ki.output(ctx, "fp", "export", "svg", "--output", tmp, pretty)
	return err
}
