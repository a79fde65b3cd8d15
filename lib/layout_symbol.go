package lib

import "math"

/*
	twoTerminalSymbol draws a vertical passive: pin 1 on top, pin 2 at the
	bottom, the body between the pin ends.
*/
func twoTerminalSymbol(f *Family, c *Component, pins []Pin) *SymbolGeometry {
	spacing := f.Symbol.Spacing
	if spacing <= 0 {
		spacing = 3 * grid
	}
	half := spacing / 2
	end := half - twoTerminalPin

	pins[0].At, pins[0].Angle, pins[0].Length = Pt(0, half), 270, twoTerminalPin
	pins[1].At, pins[1].Angle, pins[1].Length = Pt(0, -half), 90, twoTerminalPin

	g := &SymbolGeometry{
		Pins:       pins,
		Body:       Rect{Min: Pt(-twoTerminalWidth, -end), Max: Pt(twoTerminalWidth, end)},
		Reference:  Label{At: Pt(2*twoTerminalWidth, 0), Angle: 90},
		Value:      Label{At: Pt(0, 0), Angle: 90},
		NameOffset: 0,
	}

	switch roleSpecs[c.Role()].body {
	case "capacitor":
		g.Graphics = capacitorBody(end)
		g.Body = Rect{Min: Pt(-2*twoTerminalWidth, -0.762), Max: Pt(2*twoTerminalWidth, 0.762)}
		g.Value = Label{At: Pt(-2*twoTerminalWidth-0.508, 0), Angle: 90}
	case "inductor":
		g.Graphics = inductorBody(end)
		g.Body = Rect{Min: Pt(0, -end), Max: Pt(0.635, end)}
		g.Value = Label{At: Pt(-halfGrid, 0), Angle: 90}
	default:
		if c.text(KindSymbolStyle) == "american" {
			g.Graphics = zigzagBody(end)
		} else {
			g.Graphics = []Graphic{{
				Kind:   GraphicRect,
				Points: []Point{g.Body.Min, g.Body.Max},
				Width:  symbolLineWidth,
				Fill:   "none",
			}}
		}
	}
	return g
}

func zigzagBody(end float64) []Graphic {
	const peaks = 6
	w := twoTerminalWidth
	a := end - end/peaks
	pts := []Point{Pt(0, end), Pt(0, a)}
	for i := 0; i < peaks; i++ {
		x := w
		if i%2 == 1 {
			x = -w
		}
		pts = append(pts, Pt(x, a-2*a*(float64(i)+0.5)/peaks))
	}
	pts = append(pts, Pt(0, -a), Pt(0, -end))
	return []Graphic{{Kind: GraphicPolyline, Points: pts, Width: symbolLineWidth, Fill: "none"}}
}

func capacitorBody(end float64) []Graphic {
	plate := 0.762
	w := 2 * twoTerminalWidth
	return []Graphic{
		{Kind: GraphicPolyline, Points: []Point{Pt(-w, plate), Pt(w, plate)}, Width: 0.508, Fill: "none"},
		{Kind: GraphicPolyline, Points: []Point{Pt(-w, -plate), Pt(w, -plate)}, Width: 0.508, Fill: "none"},
		{Kind: GraphicPolyline, Points: []Point{Pt(0, end), Pt(0, plate)}, Width: 0, Fill: "none"},
		{Kind: GraphicPolyline, Points: []Point{Pt(0, -end), Pt(0, -plate)}, Width: 0, Fill: "none"},
	}
}

func inductorBody(end float64) []Graphic {
	const turns = 4
	step := 2 * end / turns
	var arcs []Graphic
	for i := 0; i < turns; i++ {
		top := end - step*float64(i)
		arcs = append(arcs, Graphic{
			Kind:   GraphicArc,
			Points: []Point{Pt(0, top), Pt(step/2, top-step/2), Pt(0, top-step)},
			Width:  symbolLineWidth,
			Fill:   "none",
		})
	}
	return arcs
}

// side counts for a box symbol
type sides struct {
	left, bottom, right, top int
}

/*
	distribute spreads n pins over the sides. With two sides an odd pin
	goes on the bottom; with four the remainder goes to bottom, then right,
	then left, then top.
*/
func distribute(n int, quad bool) sides {
	if !quad {
		return sides{left: n / 2, bottom: n % 2, right: n / 2}
	}
	base, rem := n/4, n%4
	s := sides{left: base, bottom: base, right: base, top: base}
	for i, p := range []*int{&s.bottom, &s.right, &s.left, &s.top} {
		if i < rem {
			*p++
		}
	}
	return s
}

// approximate width of symbol pin text at 1.27mm
const charWidth = 0.85

func nameRoom(pins []Pin) float64 {
	longest := 0
	for _, p := range pins {
		if p.Name != "~" && len(p.Name) > longest {
			longest = len(p.Name)
		}
	}
	return float64(longest) * charWidth
}

func ceilGrid(v float64) float64 {
	return math.Ceil(v/grid-1e-9) * grid
}

/*
	boxSymbol places pins on a rectangle. Pins are numbered counter-clockwise
	starting at the top of the left side.
*/
func boxSymbol(f *Family, pins []Pin) *SymbolGeometry {
	n := len(pins)
	s := distribute(n, n > f.Symbol.QuadThreshold)

	left := pins[:s.left]
	bottom := pins[s.left : s.left+s.bottom]
	right := pins[s.left+s.bottom : s.left+s.bottom+s.right]
	top := pins[s.left+s.bottom+s.right:]

	rows := max(s.left, s.right, 1)
	cols := max(s.bottom, s.top)

	y0 := grid * math.Floor(float64(rows-1)/2)
	x0 := -grid * math.Floor(float64(max(cols, 1)-1)/2)

	// room for pin names facing each other inside the body
	across := ceilGrid((nameRoom(left)+nameRoom(right))/2 + grid)
	down := ceilGrid((nameRoom(top)+nameRoom(bottom))/2 + grid)

	maxY := math.Max(y0+grid, down)
	minY := math.Min(y0-float64(rows-1)*grid-grid, -down)
	minX := math.Min(x0-grid, -across)
	maxX := math.Max(x0+float64(max(cols, 1)-1)*grid+grid, across)
	if maxX-minX < 3*grid {
		minX, maxX = math.Min(minX, -2*grid), math.Max(maxX, 2*grid)
	}

	for i := range left {
		left[i].At = Pt(minX-pinLength, y0-float64(i)*grid)
		left[i].Angle, left[i].Length = 0, pinLength
	}
	for i := range bottom {
		bottom[i].At = Pt(x0+float64(i)*grid, minY-pinLength)
		bottom[i].Angle, bottom[i].Length = 90, pinLength
	}
	for i := range right {
		right[i].At = Pt(maxX+pinLength, y0-float64(len(right)-1-i)*grid)
		right[i].Angle, right[i].Length = 180, pinLength
	}
	for i := range top {
		top[i].At = Pt(x0+float64(len(top)-1-i)*grid, maxY+pinLength)
		top[i].Angle, top[i].Length = 270, pinLength
	}

	body := Rect{Min: Pt(minX, minY), Max: Pt(maxX, maxY)}
	refY := maxY + halfGrid
	if len(top) > 0 {
		refY += pinLength
	}
	valY := minY - halfGrid
	if len(bottom) > 0 {
		valY -= pinLength
	}

	return &SymbolGeometry{
		Pins: pins,
		Body: body,
		Graphics: []Graphic{{
			Kind:   GraphicRect,
			Points: []Point{body.Min, body.Max},
			Width:  symbolLineWidth,
			Fill:   "background",
		}},
		Reference:  Label{At: Pt(minX, refY), Justify: "left"},
		Value:      Label{At: Pt(minX, valY), Justify: "left"},
		ShowNames:  true,
		ShowNums:   true,
		NameOffset: 1.016,
	}
}

/*
	connectorSymbol draws a pin header: one column on the left, or odd pins
	left and even pins right.
*/
func connectorSymbol(f *Family, pins []Pin) *SymbolGeometry {
	n := len(pins)
	columns := f.Symbol.Columns
	if columns < 1 {
		columns = 1
	}
	rows := (n + columns - 1) / columns

	y0 := grid * math.Floor(float64(rows-1)/2)
	halfW := halfGrid
	if columns == 2 {
		halfW = grid
	}

	for i := range pins {
		row := i / columns
		y := y0 - float64(row)*grid
		if columns == 2 && i%2 == 1 {
			pins[i].At, pins[i].Angle = Pt(halfW+connPinLength, y), 180
		} else {
			pins[i].At, pins[i].Angle = Pt(-halfW-connPinLength, y), 0
		}
		pins[i].Length = connPinLength
	}

	body := Rect{
		Min: Pt(-halfW, y0-float64(rows-1)*grid-halfGrid),
		Max: Pt(halfW, y0+halfGrid),
	}

	return &SymbolGeometry{
		Pins: pins,
		Body: body,
		Graphics: []Graphic{{
			Kind:   GraphicRect,
			Points: []Point{body.Min, body.Max},
			Width:  symbolLineWidth,
			Fill:   "background",
		}},
		Reference:  Label{At: Pt(0, body.Max.Y+halfGrid)},
		Value:      Label{At: Pt(0, body.Min.Y-halfGrid)},
		ShowNames:  false,
		ShowNums:   true,
		NameOffset: 1.016,
	}
}
