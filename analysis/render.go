// Package analysis renders signals to sample buffers and measures them.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/sandeepzgk/tact"
)

var (
	// ErrUnbounded indicates an infinite signal rendered without a duration.
	ErrUnbounded = errors.New("unbounded signal needs a duration")

	// ErrRate indicates a sample rate that is not positive.
	ErrRate = errors.New("sample rate must be positive")
)

// MaxSamples bounds the size of a single render.
const MaxSamples = 1 << 28

// Render samples s at rate Hz from t=0 for duration seconds.  A duration of
// zero or less renders the whole of a bounded signal, including its end
// point.
func Render(s tact.Signal, rate, duration float64) ([]float64, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrRate, rate)
	}
	var n int
	if duration > 0 {
		n = int(math.Ceil(duration * rate))
	} else {
		if !s.Bounded() {
			return nil, ErrUnbounded
		}
		n = int(math.Floor(s.Length()*rate)) + 1
	}
	if n > MaxSamples || n < 0 {
		return nil, fmt.Errorf("render of %d samples exceeds %d", n, MaxSamples)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Sample(float64(i) / rate)
	}
	return out, nil
}

// Stats summarizes a buffer of samples.
type Stats struct {
	Min, Max float64
	Mean     float64
	RMS      float64
}

// Measure returns the statistics of x.
func Measure(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum, sq float64
	for _, v := range x {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
		sum += v
		sq += v * v
	}
	st.Mean = sum / float64(len(x))
	st.RMS = math.Sqrt(sq / float64(len(x)))
	return st
}
