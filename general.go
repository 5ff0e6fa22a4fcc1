package tact

// Time returns the time passed to it.
type Time struct{}

func NewTime() Signal { return New(Time{}) }

func (Time) Sample(t float64) float64 { return t }
func (Time) Length() float64          { return Inf }
func (Time) Kind() Kind               { return KindTime }

// Scalar emits a constant value.
type Scalar struct {
	Value float64
}

func NewScalar(value float64) Signal { return New(Scalar{value}) }

func (s Scalar) Sample(float64) float64 { return s.Value }
func (Scalar) Length() float64          { return Inf }
func (Scalar) Kind() Kind               { return KindScalar }

// Ramp increases or decreases linearly from Initial at Rate per second.
type Ramp struct {
	Initial, Rate float64
}

func NewRamp(initial, rate float64) Signal { return New(Ramp{initial, rate}) }

// NewRampSpan returns a Ramp going from initial to final over span seconds.
func NewRampSpan(initial, final, span float64) Signal {
	if span <= 0 {
		return NewScalar(final)
	}
	return NewRamp(initial, (final-initial)/span)
}

func (r Ramp) Sample(t float64) float64 { return r.Initial + r.Rate*t }
func (Ramp) Length() float64            { return Inf }
func (Ramp) Kind() Kind                 { return KindRamp }
