package tact

import (
	"math"
	"reflect"
	"testing"
)

func hump() []PointGroup {
	return []PointGroup{
		{Left: Point{0, 0}, Center: Point{0, 0}, Right: Point{0.2, 0}},
		{Left: Point{0.3, 1}, Center: Point{0.5, 1}, Right: Point{0.7, 1}},
		{Left: Point{0.8, 0}, Center: Point{1, 0}, Right: Point{1, 0}},
	}
}

func TestPolyBezierEndpoints(t *testing.T) {
	pb := NewPolyBezier(hump()...)
	if pb.Length() != 1 {
		t.Fatalf("length = %g, want 1", pb.Length())
	}
	for _, x := range []float64{0, 1} {
		if y := pb.Sample(x); math.Abs(y) > 1e-9 {
			t.Errorf("Sample(%g) = %g, want 0", x, y)
		}
	}
	if y := pb.Sample(0.5); math.Abs(y-1) > 1e-9 {
		t.Errorf("Sample(0.5) = %g, want 1", y)
	}
	if y := pb.Sample(0.25); y <= 0 || y >= 1 {
		t.Errorf("Sample(0.25) = %g, want in (0, 1)", y)
	}
	if pb.Sample(1.5) != 0 || pb.Sample(-1) != 0 {
		t.Error("expected zero outside the curve")
	}
}

func TestPolyBezierIdempotent(t *testing.T) {
	g := hump()
	a, b := Solve(g), Solve(g)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Solve is not idempotent")
	}
	g = append(g, g[len(g)-1])
	if c := Solve(g); !reflect.DeepEqual(a, c) {
		t.Error("appending a repeated group changed the solution")
	}
	pb := NewPolyBezier(hump()...).Source().(PolyBezier)
	if !reflect.DeepEqual(pb.Solution(), a) {
		t.Error("constructed solution differs from Solve")
	}
}

func TestPolyBezierMonotonic(t *testing.T) {
	// out of order groups and wild control points
	g := []PointGroup{
		{Center: Point{1, 1}, Left: Point{2, 0}, Right: Point{-4, 3}},
		{Center: Point{0, 0}, Left: Point{-1, 0}, Right: Point{5, 2}},
		{Center: Point{0.5, -1}, Left: Point{0.9, 0}, Right: Point{0.1, 0}},
	}
	s := Solve(g)
	for i := 1; i < len(s); i++ {
		if s[i].T < s[i-1].T {
			t.Fatalf("solution time decreases at %d: %v -> %v", i, s[i-1], s[i])
		}
	}
	pb := NewPolyBezier(g...)
	if pb.Length() != 1 {
		t.Errorf("length = %g, want 1", pb.Length())
	}
	if groups := pb.Source().(PolyBezier).Groups(); groups[0].Center.T != 0 {
		t.Errorf("groups not sorted: %v", groups)
	}
}

func TestPolyBezierDegenerate(t *testing.T) {
	if pb := NewPolyBezier(); pb.Length() != 0 || pb.Sample(0) != 0 {
		t.Error("empty curve should be zero")
	}
	pb := NewPolyBezier(PointGroup{Center: Point{0.25, 0.7}})
	if pb.Length() != 0.25 || pb.Sample(0.25) != 0.7 || pb.Sample(0.1) != 0 {
		t.Errorf("single point curve = %v", pb)
	}
	// duplicate center times make a step
	step := NewPolyBezier(
		PointGroup{Center: Point{0, 0}, Right: Point{0, 0}},
		PointGroup{Left: Point{0.5, 0}, Center: Point{0.5, 0}, Right: Point{0.5, 0}},
		PointGroup{Left: Point{0.5, 1}, Center: Point{0.5, 1}, Right: Point{0.5, 1}},
		PointGroup{Left: Point{1, 1}, Center: Point{1, 1}},
	)
	if step.Sample(0.25) != 0 || step.Sample(0.75) != 1 {
		t.Errorf("step = %g, %g", step.Sample(0.25), step.Sample(0.75))
	}
}

func BenchmarkPolyBezierSample(b *testing.B) {
	pb := NewPolyBezier(hump()...)
	for i := 0; i < b.N; i++ {
		pb.Sample(float64(i%1000) / 1000)
	}
}
