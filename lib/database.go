package lib

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

/*
	An Altium database library is a table with one row per orderable part.
	Each row points at a schematic symbol and a footprint in shared
	SchLib/PcbLib files.
*/
var databaseHeader = []string{
	"Item", "Description", "Value", "Case", "Power", "Supplier", "Supplier PN",
	"Library Path", "Library Ref", "Footprint Path", "Footprint Ref", "Company", "Comment",
}

// symbol names in the shared SchLib
var databaseSymbols = map[string]string{
	RoleResistor:  "Res1",
	RoleCapacitor: "Cap",
	RoleInductor:  "Inductor",
	RoleConnector: "Header",
	RoleIC:        "IC",
}

type DatabaseOptions struct {
	// Library is the base name of the SchLib and PcbLib files.
	Library string
	Company string
}

type DatabaseRow struct {
	Item         string
	Description  string
	Value        string
	Case         string
	Power        string
	Supplier     string
	SupplierPN   string
	LibraryPath  string
	LibraryRef   string
	FootprintRef string
	FootprintLib string
	Company      string
}

func (r *DatabaseRow) record() []string {
	return []string{
		r.Item, r.Description, r.Value, r.Case, r.Power, r.Supplier, r.SupplierPN,
		r.LibraryPath, r.LibraryRef, r.FootprintLib, r.FootprintRef, r.Company, "=Description",
	}
}

/*
	DatabaseRow builds the row of one component. Rows need the role's value
	kind as well as the layout attributes; the footprint reference is the
	name the footprint would be generated under.
*/
func (g *Generator) DatabaseRow(c *Component, opts DatabaseOptions) (*DatabaseRow, error) {
	if err := c.requireFor(ForDatabase); err != nil {
		return nil, err
	}
	fp, err := g.FootprintGeometry(c)
	if err != nil {
		return nil, err
	}

	lib := opts.Library
	if lib == "" {
		lib = "libgen"
	}
	row := &DatabaseRow{
		Item:         c.Name(),
		Description:  Description(c),
		Value:        DisplayValue(c),
		Case:         c.Package(),
		Supplier:     c.text(KindSupplier),
		SupplierPN:   c.text(KindSupplierPN),
		LibraryPath:  lib + ".SchLib",
		LibraryRef:   databaseSymbols[c.Role()],
		FootprintLib: lib + ".PcbLib",
		FootprintRef: fp.Name,
		Company:      opts.Company,
	}
	if c.Role() == RoleResistor {
		row.Value = FormatResistance(c.numberOr(KindResistance, 0))
	}
	if w, ok := c.number(KindPower); ok {
		row.Power = FormatEngineering(w) + "W"
	}
	return row, nil
}

func (c *Component) numberOr(kind Kind, def float64) float64 {
	if v, ok := c.number(kind); ok {
		return v
	}
	return def
}

/*
	WriteDatabase writes the database rows of cat as CSV. Components that
	cannot form a row are skipped and returned.
*/
func (g *Generator) WriteDatabase(ctx context.Context, w io.Writer, cat *Catalog, opts DatabaseOptions) ([]*EntityError, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(databaseHeader); err != nil {
		return nil, err
	}

	var failures []*EntityError
	for _, c := range cat.Components() {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		row, err := g.DatabaseRow(c, opts)
		if err != nil {
			g.fail(&failures, c, err)
			continue
		}
		if err := writer.Write(row.record()); err != nil {
			return failures, err
		}
	}

	writer.Flush()
	return failures, writer.Error()
}

// WriteDatabaseFile writes the database to dst.
func (g *Generator) WriteDatabaseFile(ctx context.Context, dst string, cat *Catalog, opts DatabaseOptions) ([]*EntityError, error) {
	fp, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	return g.WriteDatabase(ctx, fp, cat, opts)
}

/*
	ReadDatabase reads rows written by WriteDatabase back into components.
	The footprint reference is not read; it follows from the package.
*/
func ReadDatabase(reg *Registry, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(databaseHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("database header: %s", err)}
	}
	if !strings.EqualFold(header[0], databaseHeader[0]) {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("unexpected column %q", header[0])}
	}

	roles := map[string]string{}
	for role, ref := range databaseSymbols {
		roles[ref] = role
	}

	cat := NewCatalog("database")
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}

		c, err := databaseComponent(reg, rec, roles)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		if err := cat.Add(c); err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
	}
	return cat, nil
}

func databaseComponent(reg *Registry, rec []string, roles map[string]string) (*Component, error) {
	c, err := NewComponent(reg, rec[0])
	if err != nil {
		return nil, err
	}

	role, ok := roles[rec[8]]
	if !ok {
		return nil, fmt.Errorf("unknown library ref %q", rec[8])
	}
	fields := []struct {
		kind Kind
		raw  string
	}{
		{KindRole, role},
		{KindPackage, rec[3]},
		{KindPower, strings.TrimSuffix(rec[4], "W")},
		{KindSupplier, rec[5]},
		{KindSupplierPN, rec[6]},
	}
	// the Value column holds the part number of parts without a value kind
	valueKind := roleSpecs[role].valueKind
	if valueKind == "" && role == RoleIC {
		valueKind = KindMPN
	}
	if valueKind != "" {
		fields = append(fields, struct {
			kind Kind
			raw  string
		}{valueKind, rec[2]})
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		if err := c.SetString(f.kind, f.raw); err != nil {
			return nil, err
		}
	}
	// passives in the table are all two-terminal parts
	if roleSpecs[role].valueKind != "" {
		if err := c.Set(KindPinCount, Int(2)); err != nil {
			return nil, err
		}
	}
	if rec[1] != "" && rec[1] != DefaultDescription(c) {
		if err := c.SetString(KindDescription, rec[1]); err != nil {
			return nil, err
		}
	}
	return c, nil
}
