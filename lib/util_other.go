//go:build !windows

package lib

import (
	"os"
	"path/filepath"
)

const kicadCLI = "kicad-cli"

// GetProgramFiles has no equivalent outside Windows; KiCad is found in
// kicadBinDirs instead.
func GetProgramFiles() string {
	return ""
}

func kicadBinDirs() []string {
	return []string{
		"/usr/bin",
		"/usr/local/bin",
		"/Applications/KiCad/KiCad.app/Contents/MacOS",
		"/snap/bin",
	}
}

// DefaultDataDir is where the part store lives when no root is configured.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".libgen"
	}
	return filepath.Join(dir, "libgen")
}
