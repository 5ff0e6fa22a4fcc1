package analysis

import "math"

// AmpMeter reports the RMS amplitude over a sliding window of samples.
type AmpMeter struct {
	buf []float64
	i   int
	sum float64
}

// NewAmpMeter returns a meter averaging over windowSize seconds at rate Hz.
func NewAmpMeter(windowSize, rate float64) *AmpMeter {
	return &AmpMeter{buf: make([]float64, max(1, int(rate*windowSize)))}
}

// Add feeds one sample to the meter.
func (a *AmpMeter) Add(x float64) {
	a.sum -= a.buf[a.i]
	a.buf[a.i] = x * x
	a.sum += a.buf[a.i]
	a.i = (a.i + 1) % len(a.buf)
}

// Amplitude feeds x to the meter and returns the RMS amplitude of the window.
func (a *AmpMeter) Amplitude(x []float64) float64 {
	for _, x := range x {
		a.Add(x)
	}
	return a.Level()
}

// Level returns the RMS amplitude of the current window.
func (a *AmpMeter) Level() float64 {
	return math.Sqrt(max(0, a.sum) / float64(len(a.buf)))
}

// Envelope returns the running RMS amplitude of x, one value per sample.
func Envelope(x []float64, windowSize, rate float64) []float64 {
	m := NewAmpMeter(windowSize, rate)
	out := make([]float64, len(x))
	for i, v := range x {
		m.Add(v)
		out[i] = m.Level()
	}
	return out
}
