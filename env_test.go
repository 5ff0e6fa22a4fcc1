package tact

import (
	"math"
	"testing"
)

func TestEnvelope(t *testing.T) {
	e := NewEnvelope(2, 0.5)
	if e.Length() != 2 {
		t.Fatalf("length = %g", e.Length())
	}
	for x, want := range map[float64]float64{-1: 0, 0: 0.5, 1: 0.5, 2: 0.5, 2.001: 0} {
		if got := e.Sample(x); got != want {
			t.Errorf("Sample(%g) = %g, want %g", x, got, want)
		}
	}
}

func TestASR(t *testing.T) {
	e := NewASR(1, 2, 1, 0.8)
	if e.Length() != 4 {
		t.Fatalf("length = %g", e.Length())
	}
	for x, want := range map[float64]float64{0: 0, 0.5: 0.4, 1: 0.8, 2: 0.8, 3: 0.8, 3.5: 0.4, 4: 0, 5: 0} {
		if got := e.Sample(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("Sample(%g) = %g, want %g", x, got, want)
		}
	}
}

func TestADSR(t *testing.T) {
	e := NewADSR(1, 1, 1, 1, 1, 0.5)
	if e.Length() != 4 {
		t.Fatalf("length = %g", e.Length())
	}
	for x, want := range map[float64]float64{0.5: 0.5, 1: 1, 1.5: 0.75, 2: 0.5, 2.5: 0.5, 3.5: 0.25, 4.5: 0} {
		if got := e.Sample(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("Sample(%g) = %g, want %g", x, got, want)
		}
	}
}

func TestNegativeDurations(t *testing.T) {
	if l := NewASR(-1, 1, 1, 1).Length(); l != 2 {
		t.Errorf("length = %g, want 2", l)
	}
	if l := NewEnvelope(-3, 1).Length(); l != 0 {
		t.Errorf("length = %g, want 0", l)
	}
}

func TestKeyedEnvelope(t *testing.T) {
	e := NewKeyedEnvelope(
		Key{Time: 2, Amplitude: 0, Curve: Linear},
		Key{Time: 1, Amplitude: 1, Curve: Linear},
	)
	if e.Length() != 2 {
		t.Fatalf("length = %g", e.Length())
	}
	keys := e.Source().(KeyedEnvelope).Keys()
	if len(keys) != 3 || keys[0] != (Key{}) {
		t.Fatalf("keys = %v", keys)
	}
	for x, want := range map[float64]float64{0: 0, 0.5: 0.5, 1: 1, 1.5: 0.5, 2: 0, 3: 0} {
		if got := e.Sample(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("Sample(%g) = %g, want %g", x, got, want)
		}
	}
	keys[1].Amplitude = 7
	if e.Sample(1) != 1 {
		t.Error("Keys() must return a copy")
	}
}

func TestCurves(t *testing.T) {
	for _, tt := range []struct {
		c    Curve
		u    float64
		want float64
	}{
		{Linear, 0.25, 0.25},
		{Instant, 0.25, 1},
		{Smoothstep, 0.5, 0.5},
		{QuadIn, 0.5, 0.25},
		{QuadOut, 0.5, 0.75},
	} {
		if got := tt.c.Interp(0, 1, tt.u); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s.Interp(0, 1, %g) = %g, want %g", tt.c, tt.u, got, tt.want)
		}
		if c, ok := ParseCurve(tt.c.String()); !ok || c != tt.c {
			t.Errorf("ParseCurve(%s) = %v, %v", tt.c, c, ok)
		}
	}
}

func TestSignalEnvelope(t *testing.T) {
	e := NewSignalEnvelope(NewScalar(2), 1, 0.5)
	if e.Sample(0.5) != 1 || e.Sample(1.5) != 0 || e.Length() != 1 {
		t.Errorf("unexpected signal envelope %v", e)
	}
}

func BenchmarkADSR(b *testing.B) {
	e := NewADSR(.1, .1, 1, 2, 1, .5)
	for i := 0; i < b.N; i++ {
		e.Sample(float64(i%300000) / 96000)
	}
}
