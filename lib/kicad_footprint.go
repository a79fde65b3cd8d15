package lib

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// element ids are derived from names so that output is stable across runs
var uuidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/xoviat/libgen"))

func elementID(footprint string, n int) string {
	return uuid.NewSHA1(uuidSpace, []byte(footprint+"/"+itoa(n))).String()
}

/*
	EmitFootprint renders a complete .kicad_mod file. Footprints are written
	one per file, so this is a whole document rather than a block.
*/
func (k *KiCad) EmitFootprint(c *Component, g *FootprintGeometry) (string, error) {
	if g == nil {
		return "", fmt.Errorf("%s: no footprint geometry", c.Name())
	}

	f := k.features
	w := &footprintWriter{features: f, name: g.Name}
	b := &w.b

	fmt.Fprintf(b, "(footprint %s (version %d) %s\n", quote(g.Name), f.footprintVersion, k.generator())
	b.WriteString("  (layer \"F.Cu\")\n")
	fmt.Fprintf(b, "  (descr %s)\n", quote(g.Description))
	fmt.Fprintf(b, "  (tags %s)\n", quote(g.Tags))

	w.text("reference", "Reference", "REF**", g.Reference, "F.SilkS")
	w.text("value", "Value", g.Name, g.Value, "F.Fab")

	if g.SMD {
		b.WriteString("  (attr smd)\n")
	} else {
		b.WriteString("  (attr through_hole)\n")
	}

	for _, s := range g.Silk {
		w.line(s)
	}
	for _, s := range g.Crtyd {
		w.line(s)
	}
	for _, s := range g.Fab {
		w.line(s)
	}
	fmt.Fprintf(b, "  (fp_text user \"${REFERENCE}\" (at %s) (layer \"F.Fab\")\n", xy(g.Body.Center()))
	fmt.Fprintf(b, "    (effects (font (size %s %s) (thickness %s)))\n",
		formatNumber(fabTextSize(g.Body)), formatNumber(fabTextSize(g.Body)), formatNumber(fabTextSize(g.Body)*0.15))
	w.id()
	b.WriteString("  )\n")

	for _, p := range g.Pads {
		w.pad(p)
	}

	if g.Model != "" {
		fmt.Fprintf(b, "  (model %s\n", quote(g.Model))
		b.WriteString("    (offset (xyz 0 0 0))\n")
		b.WriteString("    (scale (xyz 1 1 1))\n")
		b.WriteString("    (rotate (xyz 0 0 0))\n")
		b.WriteString("  )\n")
	}
	b.WriteString(")\n")
	return b.String(), nil
}

// the fab reference scales down on small bodies
func fabTextSize(body Rect) float64 {
	s := roundTo(min(body.Width(), body.Height())*0.5, 0.01)
	return max(min(s, 1), 0.2)
}

type footprintWriter struct {
	b        strings.Builder
	features kicadFeatures
	name     string
	n        int
}

// id closes an element with its tstamp or uuid.
func (w *footprintWriter) id() {
	w.n++
	if w.features.fpUUID {
		fmt.Fprintf(&w.b, "    (uuid %s)\n", quote(elementID(w.name, w.n)))
	} else {
		fmt.Fprintf(&w.b, "    (tstamp %s)\n", elementID(w.name, w.n))
	}
}

func (w *footprintWriter) text(kind, property, value string, l Label, layer string) {
	if w.features.fpProperties {
		fmt.Fprintf(&w.b, "  (property %s %s (at %s 0) (layer %s)\n", quote(property), quote(value), xy(l.At), quote(layer))
		w.id()
		w.b.WriteString("    (effects (font (size 1 1) (thickness 0.15)))\n")
		w.b.WriteString("  )\n")
		return
	}
	fmt.Fprintf(&w.b, "  (fp_text %s %s (at %s) (layer %s)\n", kind, quote(value), xy(l.At), quote(layer))
	w.b.WriteString("    (effects (font (size 1 1) (thickness 0.15)))\n")
	w.id()
	w.b.WriteString("  )\n")
}

func (w *footprintWriter) line(s Segment) {
	fmt.Fprintf(&w.b, "  (fp_line (start %s) (end %s)\n", xy(s.Start), xy(s.End))
	if w.features.fpStroke {
		fmt.Fprintf(&w.b, "    (stroke (width %s) (type solid)) (layer %s)\n", formatNumber(s.Width), quote(s.Layer))
	} else {
		fmt.Fprintf(&w.b, "    (layer %s) (width %s)\n", quote(s.Layer), formatNumber(s.Width))
	}
	w.id()
	w.b.WriteString("  )\n")
}

func (w *footprintWriter) pad(p Pad) {
	layers := make([]string, len(p.Layers))
	for i, l := range p.Layers {
		layers[i] = quote(l)
	}

	fmt.Fprintf(&w.b, "  (pad %s %s %s (at %s) (size %s %s)",
		quote(p.Number), p.Type, p.Shape, xy(p.At), formatNumber(p.Size.X), formatNumber(p.Size.Y))
	if p.Drill > 0 {
		fmt.Fprintf(&w.b, " (drill %s)", formatNumber(p.Drill))
	}
	fmt.Fprintf(&w.b, " (layers %s)", strings.Join(layers, " "))
	if p.RRatio > 0 {
		fmt.Fprintf(&w.b, " (roundrect_rratio %s)", formatNumber(p.RRatio))
	}
	w.b.WriteString("\n")
	w.id()
	w.b.WriteString("  )\n")
}
