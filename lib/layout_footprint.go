package lib

import "strconv"

var (
	smdLayers = []string{"F.Cu", "F.Paste", "F.Mask"}
	thtLayers = []string{"*.Cu", "*.Mask"}
)

func padFor(fp FootprintRule, num int, at Point, w, h float64) Pad {
	p := Pad{
		Number: strconv.Itoa(num),
		At:     at,
		Size:   Pt(w, h),
		Shape:  fp.PadShape,
	}
	if p.Shape == "" {
		p.Shape = "roundrect"
	}

	if fp.Drill > 0 {
		p.Type = "thru_hole"
		p.Drill = fp.Drill
		p.Layers = thtLayers
		if num == 1 {
			p.Shape = "rect"
		}
	} else {
		p.Type = "smd"
		p.Layers = smdLayers
	}
	if p.Shape == "roundrect" {
		p.RRatio = roundRectRatio
	}
	return p
}

// chipFootprint is a two pad passive along X.
func chipFootprint(f *Family) *FootprintGeometry {
	fp := f.Footprint
	c := fp.Span / 2
	return &FootprintGeometry{
		SMD: fp.Drill == 0,
		Pads: []Pad{
			padFor(fp, 1, Pt(-c, 0), fp.PadWidth, fp.PadHeight),
			padFor(fp, 2, Pt(c, 0), fp.PadWidth, fp.PadHeight),
		},
		Body: RectAround(Pt(0, 0), fp.BodyLength, fp.BodyWidth),
	}
}

/*
	dualFootprint places two rows of pads. Pad 1 is the top of the left row
	and numbering runs counter-clockwise.
*/
func dualFootprint(f *Family, n int) *FootprintGeometry {
	fp := f.Footprint
	k := n / 2
	c := fp.Span / 2
	first := -float64(k-1) / 2 * fp.Pitch

	pads := make([]Pad, 0, n)
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, i+1, Pt(-c, first+float64(i)*fp.Pitch), fp.PadWidth, fp.PadHeight))
	}
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, k+i+1, Pt(c, -first-float64(i)*fp.Pitch), fp.PadWidth, fp.PadHeight))
	}

	return &FootprintGeometry{
		SMD:  fp.Drill == 0,
		Pads: pads,
		Body: RectAround(Pt(0, 0), fp.BodyWidth, f.bodyLength(n)),
	}
}

/*
	quadFootprint places pads on four sides of a square body, counter-clockwise
	from the top of the left side. An exposed pad, when the rule has one,
	takes the number after the last pin.
*/
func quadFootprint(f *Family, n int) *FootprintGeometry {
	fp := f.Footprint
	k := n / 4
	side := f.bodyLength(n)
	c := side/2 + fp.PadOffset
	first := -float64(k-1) / 2 * fp.Pitch

	pads := make([]Pad, 0, n+1)
	num := 1
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, num, Pt(-c, first+float64(i)*fp.Pitch), fp.PadWidth, fp.PadHeight))
		num++
	}
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, num, Pt(first+float64(i)*fp.Pitch, c), fp.PadHeight, fp.PadWidth))
		num++
	}
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, num, Pt(c, -first-float64(i)*fp.Pitch), fp.PadWidth, fp.PadHeight))
		num++
	}
	for i := 0; i < k; i++ {
		pads = append(pads, padFor(fp, num, Pt(-first-float64(i)*fp.Pitch, -c), fp.PadHeight, fp.PadWidth))
		num++
	}

	if fp.ExposedPad > 0 {
		ep := roundTo(side*fp.ExposedPad, courtyardStep)
		pads = append(pads, padFor(fp, num, Pt(0, 0), ep, ep))
	}

	return &FootprintGeometry{
		SMD:  true,
		Pads: pads,
		Body: RectAround(Pt(0, 0), side, side),
	}
}

// headerFootprint is a through hole pin header, pin 1 at the origin.
func headerFootprint(f *Family, n int) *FootprintGeometry {
	fp := f.Footprint
	cols := fp.Rows
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols

	pads := make([]Pad, n)
	for i := range pads {
		at := Pt(float64(i%cols)*fp.Pitch, float64(i/cols)*fp.Pitch)
		pads[i] = padFor(fp, i+1, at, fp.PadWidth, fp.PadHeight)
	}

	h := fp.Pitch / 2
	return &FootprintGeometry{
		SMD:  false,
		Pads: pads,
		Body: Rect{
			Min: Pt(-h, -h),
			Max: Pt(float64(cols-1)*fp.Pitch+h, float64(rows-1)*fp.Pitch+h),
		},
	}
}

/*
	finishFootprint derives the layers every pattern shares: courtyard around
	pads and body, silkscreen just outside the body kept clear of the pads,
	and the fab outline.
*/
func finishFootprint(g *FootprintGeometry) {
	bounds := g.Body
	keepouts := make([]Rect, len(g.Pads))
	for i, p := range g.Pads {
		bounds = bounds.Union(p.Bounds())
		keepouts[i] = p.Bounds().Grow(silkClearance)
	}

	g.Courtyard = bounds.Grow(courtyardMargin).RoundOut(courtyardStep)
	g.Crtyd = g.Courtyard.Outline(courtyardWidth, "F.CrtYd")
	g.Fab = g.Body.Outline(fabWidth, "F.Fab")

	g.Silk = nil
	for _, s := range g.Body.Grow(silkOffset).Outline(silkWidth, "F.SilkS") {
		g.Silk = append(g.Silk, clipSegment(s, keepouts)...)
	}

	g.Reference = Label{At: Pt(g.Courtyard.Center().X, roundTo(g.Courtyard.Min.Y-labelGap, courtyardStep))}
	g.Value = Label{At: Pt(g.Courtyard.Center().X, roundTo(g.Courtyard.Max.Y+labelGap, courtyardStep))}
}
