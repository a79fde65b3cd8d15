package lib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archiver"
)

/*
	WriteOutput writes a generated library under dir: the library file
	itself and, for KiCad, one .kicad_mod per footprint in a .pretty
	directory named after the footprint library. It returns the paths
	written.
*/
func WriteOutput(dir, name string, e Emitter, out *Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	lib := filepath.Join(dir, name+e.Extension())
	if err := os.WriteFile(lib, []byte(out.Library.Text), 0644); err != nil {
		return nil, err
	}
	written = append(written, lib)

	k, ok := e.(*KiCad)
	if !ok || out.Footprints == nil || len(out.Footprints.Files) == 0 {
		return written, nil
	}

	pretty := filepath.Join(dir, k.FootprintLib+".pretty")
	if err := os.MkdirAll(pretty, 0755); err != nil {
		return written, err
	}
	for _, fp := range out.Footprints.Files {
		path := filepath.Join(pretty, fp.Name+".kicad_mod")
		if err := os.WriteFile(path, []byte(fp.Text), 0644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

/*
	Bundle zips a generated library into dst. Footprint files are kept in
	their .pretty directory so the archive can be unpacked straight into a
	KiCad library folder.
*/
func Bundle(dst, name string, e Emitter, out *Output) error {
	if filepath.Ext(dst) != ".zip" {
		return fmt.Errorf("%w: bundle %s must be a .zip", ErrUnsupported, filepath.Base(dst))
	}

	tmp, err := os.MkdirTemp("", "libgen-bundle")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if _, err := WriteOutput(tmp, name, e, out); err != nil {
		return err
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return err
	}
	sources := make([]string, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, filepath.Join(tmp, entry.Name()))
	}

	z := archiver.NewZip()
	z.OverwriteExisting = true
	z.MkdirAll = true
	return z.Archive(sources, dst)
}
