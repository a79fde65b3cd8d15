package lib

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// PartListSheet is the sheet read and written by the xlsx part list.
const PartListSheet = "components"

/*
	A part list spreadsheet has one component per row. The first column is
	the symbol name and the header names the attribute of every other
	column, either by kind ("pin_count") or by field name ("Pin Count").
	Empty cells leave the attribute unset.
*/
func ImportPartList(reg *Registry, src string) (*Catalog, error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := PartListSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetList()[0]
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	name := strings.TrimSuffix(filepath.Base(src), ".xlsx")
	cat := NewCatalog(name)

	var kinds []Kind
	for line := 1; rows.Next(); line++ {
		row, err := rows.Columns()
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		if kinds == nil {
			if kinds, err = headerKinds(reg, row); err != nil {
				return nil, &ParseError{Line: line, Msg: err.Error()}
			}
			continue
		}

		c, err := NewComponent(reg, strings.TrimSpace(row[0]))
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		for i, cell := range row[1:] {
			if i >= len(kinds) || strings.TrimSpace(cell) == "" {
				continue
			}
			if err := c.SetString(kinds[i], cell); err != nil {
				return nil, &ParseError{Line: line, Column: i + 2, Msg: err.Error()}
			}
		}
		if err := cat.Add(c); err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
	}
	return cat, rows.Error()
}

func headerKinds(reg *Registry, header []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(header)-1)
	for _, h := range header[1:] {
		h = strings.TrimSpace(h)
		if _, ok := reg.Shape(Kind(h)); ok {
			kinds = append(kinds, Kind(h))
			continue
		}
		kind, ok := reg.KindForField(h)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", h)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

/*
	ExportPartList writes cat as a part list that ImportPartList reads
	back. Columns are the union of the kinds in use, in registry order.
*/
func ExportPartList(cat *Catalog, dst string) error {
	components := cat.Components()

	used := map[Kind]bool{}
	var reg *Registry
	for _, c := range components {
		reg = c.Registry()
		for _, a := range c.Attributes() {
			used[a.Kind] = true
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(PartListSheet); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	header := []interface{}{"Name"}
	var kinds []Kind
	if reg != nil {
		for _, k := range reg.Kinds() {
			if used[k] {
				kinds = append(kinds, k)
				header = append(header, reg.Field(k))
			}
		}
	}
	if err := f.SetSheetRow(PartListSheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range components {
		row := []interface{}{c.Name()}
		for _, k := range kinds {
			v, ok := c.Get(k)
			if !ok {
				row = append(row, "")
				continue
			}
			if n, isNum := v.Float(); isNum {
				row = append(row, n)
			} else {
				row = append(row, v.String())
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(PartListSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(dst)
}

/*
	PartsFile is the YAML batch input:

		library: Passives
		components:
		  - name: R1
		    attributes:
		      role: resistor
		      package: "0603"
		      resistance: 10k
		series:
		  - e_series: E96
		    package: "0603"
		    manufacturer: Vishay
		    decades: [1000]
*/
type PartsFile struct {
	Library    string        `yaml:"library"`
	Components []PartsEntry  `yaml:"components"`
	Series     []SeriesEntry `yaml:"series"`
}

type PartsEntry struct {
	Name       string            `yaml:"name"`
	Attributes map[string]string `yaml:"attributes"`
}

type SeriesEntry struct {
	ESeries      string    `yaml:"e_series"`
	Package      string    `yaml:"package"`
	Manufacturer string    `yaml:"manufacturer"`
	Decades      []float64 `yaml:"decades"`
}

// LoadPartsYAML reads a parts file into a catalog.
func LoadPartsYAML(reg *Registry, r io.Reader) (*Catalog, error) {
	var pf PartsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && err != io.EOF {
		return nil, &ParseError{Msg: err.Error()}
	}

	name := pf.Library
	if name == "" {
		name = "libgen"
	}
	cat := NewCatalog(name)

	for _, e := range pf.Components {
		c, err := NewComponent(reg, e.Name)
		if err != nil {
			return nil, err
		}
		for key, raw := range e.Attributes {
			kind := Kind(key)
			if _, ok := reg.Shape(kind); !ok {
				if k, ok := reg.KindForField(key); ok {
					kind = k
				}
			}
			if err := c.SetString(kind, raw); err != nil {
				return nil, &EntityError{Symbol: e.Name, Err: err}
			}
		}
		if err := cat.Add(c); err != nil {
			return nil, err
		}
	}

	for _, s := range pf.Series {
		components, err := ResistorSeries(reg, s.ESeries, s.Package, s.Decades, s.Manufacturer)
		if err != nil {
			return nil, err
		}
		for _, c := range components {
			if err := cat.Add(c); err != nil {
				return nil, err
			}
		}
	}
	return cat, nil
}

// LoadPartsFile reads a parts file from disk.
func LoadPartsFile(reg *Registry, path string) (*Catalog, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	return LoadPartsYAML(reg, fp)
}

/*
	LoadCatalog reads any supported input by extension: a parts YAML, an
	xlsx part list, a database CSV or a KiCad symbol library.
*/
func LoadCatalog(ctx context.Context, g *Generator, path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadPartsFile(g.Registry, path)
	case ".xlsx":
		return ImportPartList(g.Registry, path)
	case ".csv":
		fp, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		return ReadDatabase(g.Registry, fp)
	case ".kicad_sym":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return g.ParseLibrary(ctx, strings.TrimSuffix(filepath.Base(path), ".kicad_sym"), string(data))
	}
	return nil, fmt.Errorf("%w: cannot read %s", ErrUnsupported, filepath.Base(path))
}
