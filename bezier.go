package tact

import (
	"math"
	"sort"
)

// Resolution is the number of solution entries per PolyBezier segment.
const Resolution = 64

// Point is a (time, value) coordinate.
type Point struct {
	T, Y float64
}

// PointGroup is a curve point with its left and right control points.
type PointGroup struct {
	Left, Center, Right Point
}

// PolyBezier is a piecewise cubic Bezier curve through a sequence of point
// groups.  The segment between groups a and b has control points
// a.Center, a.Right, b.Left, b.Center.
//
// The curve is solved into a table of (t, y) entries once, at construction;
// sampling binary-searches the table and interpolates linearly.
type PolyBezier struct {
	groups   []PointGroup
	solution []Point
}

func NewPolyBezier(groups ...PointGroup) Signal {
	g := normalizeGroups(groups)
	return New(PolyBezier{groups: g, solution: solve(g)})
}

// Solve returns the solution table for groups.  Groups are stably sorted by
// center time, exact repeats of the previous group are dropped, and control
// point times are clamped between the centers of their segment, so the
// table's times never decrease.
func Solve(groups []PointGroup) []Point {
	return solve(normalizeGroups(groups))
}

// Groups returns a copy of the curve's normalized point groups.
func (p PolyBezier) Groups() []PointGroup { return append([]PointGroup(nil), p.groups...) }

// Solution returns a copy of the solved table.
func (p PolyBezier) Solution() []Point { return append([]Point(nil), p.solution...) }

func (p PolyBezier) Sample(t float64) float64 {
	s := p.solution
	if len(s) == 0 || t < s[0].T || t > s[len(s)-1].T {
		return 0
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].T >= t })
	if s[i].T == t || i == 0 {
		return s[i].Y
	}
	a, b := s[i-1], s[i]
	return a.Y + (b.Y-a.Y)*(t-a.T)/(b.T-a.T)
}

func (p PolyBezier) Length() float64 {
	if len(p.groups) == 0 {
		return 0
	}
	return p.groups[len(p.groups)-1].Center.T
}

func (PolyBezier) Kind() Kind { return KindPolyBezier }

func normalizeGroups(groups []PointGroup) []PointGroup {
	g := make([]PointGroup, 0, len(groups))
	for _, pg := range groups {
		if math.IsNaN(pg.Center.T) || math.IsNaN(pg.Center.Y) {
			continue
		}
		g = append(g, pg)
	}
	sort.SliceStable(g, func(i, j int) bool { return g[i].Center.T < g[j].Center.T })
	out := g[:0]
	for i, pg := range g {
		if i > 0 && pg == out[len(out)-1] {
			continue
		}
		out = append(out, pg)
	}
	return out
}

func solve(g []PointGroup) []Point {
	switch len(g) {
	case 0:
		return nil
	case 1:
		return []Point{g[0].Center}
	}
	s := make([]Point, 0, (len(g)-1)*Resolution+1)
	s = append(s, g[0].Center)
	for i := 0; i+1 < len(g); i++ {
		p0, p3 := g[i].Center, g[i+1].Center
		p1, p2 := g[i].Right, g[i+1].Left
		p1.T = clampT(p1.T, p0.T, p3.T)
		p2.T = clampT(p2.T, p0.T, p3.T)
		for k := 1; k <= Resolution; k++ {
			pt := cubic(p0, p1, p2, p3, float64(k)/Resolution)
			if k == Resolution {
				pt = p3
			}
			if last := s[len(s)-1].T; pt.T < last {
				pt.T = last
			}
			s = append(s, pt)
		}
	}
	return s
}

func clampT(t, lo, hi float64) float64 {
	if math.IsNaN(t) {
		return lo
	}
	return math.Max(lo, math.Min(hi, t))
}

func cubic(p0, p1, p2, p3 Point, u float64) Point {
	v := 1 - u
	a, b, c, d := v*v*v, 3*v*v*u, 3*v*u*u, u*u*u
	return Point{
		T: a*p0.T + b*p1.T + c*p2.T + d*p3.T,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}
