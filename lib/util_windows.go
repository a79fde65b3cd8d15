//go:build windows

package lib

import (
	"path/filepath"
	"syscall"

	"github.com/lxn/win"
)

const kicadCLI = "kicad-cli.exe"

func GetProgramFiles() string {
	buf := make([]uint16, win.MAX_PATH)
	win.SHGetSpecialFolderPath(win.HWND(0), &buf[0], win.CSIDL_PROGRAM_FILES, false)

	return syscall.UTF16ToString(buf)
}

func GetLocalAppData() string {
	buf := make([]uint16, win.MAX_PATH)
	win.SHGetSpecialFolderPath(win.HWND(0), &buf[0], win.CSIDL_LOCAL_APPDATA, false)

	return syscall.UTF16ToString(buf)
}

// unversioned installs
func kicadBinDirs() []string {
	return []string{filepath.Join(GetProgramFiles(), "KiCad", "bin")}
}

// DefaultDataDir is where the part store lives when no root is configured.
func DefaultDataDir() string {
	return filepath.Join(GetLocalAppData(), "libgen")
}
