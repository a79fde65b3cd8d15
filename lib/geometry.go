package lib

import "math"

// Point is a position in mm.
type Point struct {
	X float64
	Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis aligned box with Min <= Max on both axes.
type Rect struct {
	Min Point
	Max Point
}

// RectAround returns a box of the given size centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{
		Min: Point{X: c.X - w/2, Y: c.Y - h/2},
		Max: Point{X: c.X + w/2, Y: c.Y + h/2},
	}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func (r Rect) Empty() bool {
	return r.Width() <= 0 && r.Height() <= 0
}

// Union returns the smallest box holding both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Grow expands the box by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// RoundOut snaps the corners outward to a multiple of step.
func (r Rect) RoundOut(step float64) Rect {
	return Rect{
		Min: Point{X: floorTo(r.Min.X, step), Y: floorTo(r.Min.Y, step)},
		Max: Point{X: ceilTo(r.Max.X, step), Y: ceilTo(r.Max.Y, step)},
	}
}

// Contains reports whether p lies strictly inside the box.
func (r Rect) Contains(p Point) bool {
	return p.X > r.Min.X && p.X < r.Max.X && p.Y > r.Min.Y && p.Y < r.Max.Y
}

// Segment is a straight line on a footprint layer.
type Segment struct {
	Start Point
	End   Point
	Width float64
	Layer string
}

// Outline returns the four edges of r, clockwise from the top-left.
func (r Rect) Outline(width float64, layer string) []Segment {
	tl, tr := r.Min, Point{X: r.Max.X, Y: r.Min.Y}
	br, bl := r.Max, Point{X: r.Min.X, Y: r.Max.Y}
	return []Segment{
		{Start: tl, End: tr, Width: width, Layer: layer},
		{Start: tr, End: br, Width: width, Layer: layer},
		{Start: br, End: bl, Width: width, Layer: layer},
		{Start: bl, End: tl, Width: width, Layer: layer},
	}
}

/*
	clipSegment removes the parts of an axis aligned segment that run
	through any of the keepouts and returns what is left.
*/
func clipSegment(s Segment, keepouts []Rect) []Segment {
	pieces := []Segment{s}
	for _, k := range keepouts {
		var next []Segment
		for _, p := range pieces {
			next = append(next, subtract(p, k)...)
		}
		pieces = next
	}
	return pieces
}

const minSegment = 0.05

func subtract(s Segment, k Rect) []Segment {
	horizontal := s.Start.Y == s.End.Y
	vertical := s.Start.X == s.End.X

	var lo, hi, at, kLo, kHi, kMin, kMax float64
	switch {
	case horizontal:
		lo, hi, at = math.Min(s.Start.X, s.End.X), math.Max(s.Start.X, s.End.X), s.Start.Y
		kLo, kHi, kMin, kMax = k.Min.X, k.Max.X, k.Min.Y, k.Max.Y
	case vertical:
		lo, hi, at = math.Min(s.Start.Y, s.End.Y), math.Max(s.Start.Y, s.End.Y), s.Start.X
		kLo, kHi, kMin, kMax = k.Min.Y, k.Max.Y, k.Min.X, k.Max.X
	default:
		return []Segment{s}
	}

	if at <= kMin || at >= kMax || hi <= kLo || lo >= kHi {
		return []Segment{s}
	}

	mk := func(a, b float64) Segment {
		out := s
		if horizontal {
			out.Start, out.End = Point{X: a, Y: at}, Point{X: b, Y: at}
		} else {
			out.Start, out.End = Point{X: at, Y: a}, Point{X: at, Y: b}
		}
		return out
	}

	var out []Segment
	if kLo-lo >= minSegment {
		out = append(out, mk(lo, kLo))
	}
	if hi-kHi >= minSegment {
		out = append(out, mk(kHi, hi))
	}
	return out
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}

// the small bias keeps values already on the grid from moving a step
func floorTo(v, step float64) float64 {
	return math.Floor(v/step+1e-9) * step
}

func ceilTo(v, step float64) float64 {
	return math.Ceil(v/step-1e-9) * step
}
