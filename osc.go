package tact

import "math"

// Shape selects an oscillator waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSquare
	ShapeSaw
	ShapeTriangle
)

var shapeKinds = [...]Kind{
	ShapeSine:     KindSine,
	ShapeSquare:   KindSquare,
	ShapeSaw:      KindSaw,
	ShapeTriangle: KindTriangle,
}

func (s Shape) valid() bool { return s >= 0 && int(s) < len(shapeKinds) }

// Kind returns the signal kind of s.  Shapes outside the known set behave
// as, and report themselves as, sine.
func (s Shape) Kind() Kind {
	if !s.valid() {
		return KindSine
	}
	return shapeKinds[s]
}

func (s Shape) String() string { return s.Kind().String() }

// Shapes lists the oscillator waveforms.
func Shapes() []Shape { return []Shape{ShapeSine, ShapeSquare, ShapeSaw, ShapeTriangle} }

// ShapeOf returns the oscillator shape for k.
func ShapeOf(k Kind) (Shape, bool) {
	for s, sk := range shapeKinds {
		if sk == k {
			return Shape(s), true
		}
	}
	return 0, false
}

// Oscillator is a periodic waveform driven by the phase signal X (radians).
// For a fixed frequency f, X is Time scaled by 2*pi*f.
type Oscillator struct {
	Shape Shape
	X     Signal
}

// NewOscillator returns an oscillator of the given shape driven by x.  An
// unknown shape yields a sine.
func NewOscillator(shape Shape, x Signal) Signal {
	if !shape.valid() {
		shape = ShapeSine
	}
	return New(Oscillator{shape, x})
}

// Phase returns the phase signal for a fixed frequency in Hz.
func Phase(freq float64) Signal { return NewTime().Scale(2 * math.Pi * freq) }

func NewSine(freq float64) Signal     { return NewOscillator(ShapeSine, Phase(freq)) }
func NewSquare(freq float64) Signal   { return NewOscillator(ShapeSquare, Phase(freq)) }
func NewSaw(freq float64) Signal      { return NewOscillator(ShapeSaw, Phase(freq)) }
func NewTriangle(freq float64) Signal { return NewOscillator(ShapeTriangle, Phase(freq)) }

func (o Oscillator) Sample(t float64) float64 {
	x := o.X.Sample(t)
	switch o.Shape {
	case ShapeSquare:
		if math.Sin(x) >= 0 {
			return 1
		}
		return -1
	case ShapeSaw:
		return -2 / math.Pi * math.Atan(1/math.Tan(x/2))
	case ShapeTriangle:
		return 2 / math.Pi * math.Asin(math.Sin(x))
	}
	return math.Sin(x)
}

func (o Oscillator) Length() float64 { return o.X.Length() }
func (o Oscillator) Kind() Kind      { return o.Shape.Kind() }

// Frequency returns the oscillator's frequency in Hz when X is a scaled Time
// signal, and false otherwise.
func (o Oscillator) Frequency() (float64, bool) { return phaseFrequency(o.X) }

func phaseFrequency(x Signal) (float64, bool) {
	if x.Kind() != KindTime || x.Bias != 0 {
		return 0, false
	}
	return x.Gain / (2 * math.Pi), true
}

// Chirp is a sine whose frequency sweeps linearly at Rate Hz per second.
type Chirp struct {
	X    Signal
	Rate float64
}

func NewChirp(freq, rate float64) Signal { return NewChirpInput(Phase(freq), rate) }

func NewChirpInput(x Signal, rate float64) Signal { return New(Chirp{x, rate}) }

func (c Chirp) Sample(t float64) float64 {
	return math.Sin(c.X.Sample(t) + math.Pi*c.Rate*t*t)
}

func (c Chirp) Length() float64 { return c.X.Length() }
func (Chirp) Kind() Kind        { return KindChirp }

// Frequency returns the start frequency in Hz, as for Oscillator.
func (c Chirp) Frequency() (float64, bool) { return phaseFrequency(c.X) }

// Pwm is a pulse-width modulated square wave: 1 for the first DutyCycle
// fraction of each period and -1 for the rest.
type Pwm struct {
	Frequency, DutyCycle float64
}

func NewPwm(freq, duty float64) Signal {
	return New(Pwm{freq, math.Max(0, math.Min(1, duty))})
}

func (p Pwm) Sample(t float64) float64 {
	_, phase := math.Modf(t * p.Frequency)
	if phase < 0 {
		phase++
	}
	if phase < p.DutyCycle {
		return 1
	}
	return -1
}

func (Pwm) Length() float64 { return Inf }
func (Pwm) Kind() Kind      { return KindPwm }
