package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepzgk/tact"
)

func TestRender(t *testing.T) {
	x, err := Render(tact.NewEnvelope(1, 0.5), 10, 0)
	require.NoError(t, err)
	require.Len(t, x, 11)
	for _, v := range x {
		assert.Equal(t, 0.5, v)
	}

	x, err = Render(tact.NewTime(), 4, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25}, x)

	_, err = Render(tact.NewSine(10), 100, 0)
	assert.ErrorIs(t, err, ErrUnbounded)
	_, err = Render(tact.NewTime(), 0, 1)
	assert.ErrorIs(t, err, ErrRate)
	_, err = Render(tact.NewTime(), 1e9, 1e9)
	assert.Error(t, err)
}

func TestMeasure(t *testing.T) {
	x, err := Render(tact.NewSine(1), 1000, 1)
	require.NoError(t, err)
	st := Measure(x)
	assert.InDelta(t, -1, st.Min, 1e-3)
	assert.InDelta(t, 1, st.Max, 1e-3)
	assert.InDelta(t, 0, st.Mean, 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, st.RMS, 1e-3)
	assert.Equal(t, Stats{}, Measure(nil))
}

func TestAmpMeter(t *testing.T) {
	m := NewAmpMeter(0.01, 1000)
	assert.Equal(t, 0.0, m.Level())
	assert.InDelta(t, 0.5, m.Amplitude([]float64{0.5, -0.5, 0.5, -0.5, 0.5, -0.5, 0.5, -0.5, 0.5, -0.5}), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5*0.5*9/10), m.Amplitude([]float64{0}), 1e-12)

	env := Envelope([]float64{1, 1, 1, 1}, 0.002, 1000)
	assert.InDelta(t, math.Sqrt(0.5), env[0], 1e-12)
	assert.InDelta(t, 1, env[3], 1e-12)
}

func TestSpectrumPeak(t *testing.T) {
	const rate, size = 8192, 8192
	x, err := Render(tact.NewSine(100), rate, 1)
	require.NoError(t, err)
	s, err := NewSpectrum(x, rate, size)
	require.NoError(t, err)
	require.Len(t, s.Mag, size/2+1)

	peaks := s.Peaks(3)
	require.NotEmpty(t, peaks)
	assert.Equal(t, 100.0, peaks[0].Frequency)
	assert.InDelta(t, 1, peaks[0].Magnitude, 1e-6)
	assert.Equal(t, 100, s.Bin(100.2))
	assert.InDelta(t, 1, s.Mag[s.Bin(100)], 1e-6)
	assert.Less(t, s.Mag[s.Bin(1000)], 1e-6)
}

func TestSpectrumTwoTones(t *testing.T) {
	const rate, size = 4096, 4096
	sig := tact.Add(tact.NewSine(200), tact.NewSine(600).Scale(0.5))
	x, err := Render(sig, rate, 1)
	require.NoError(t, err)
	s, err := NewSpectrum(x, rate, size)
	require.NoError(t, err)
	peaks := s.Peaks(2)
	require.Len(t, peaks, 2)
	assert.Equal(t, 200.0, peaks[0].Frequency)
	assert.Equal(t, 600.0, peaks[1].Frequency)
	assert.InDelta(t, 0.5, peaks[1].Magnitude, 1e-6)
}

func TestSpectrumErrors(t *testing.T) {
	_, err := NewSpectrum(nil, 1000, 100)
	assert.ErrorIs(t, err, ErrSize)
	_, err = NewSpectrum(nil, 0, 64)
	assert.ErrorIs(t, err, ErrRate)

	s, err := NewSpectrum(nil, 1000, 64)
	require.NoError(t, err)
	assert.Empty(t, s.Peaks(5))
}

func BenchmarkSpectrum(b *testing.B) {
	x, _ := Render(tact.NewSine(440), 48000, 0.1)
	for i := 0; i < b.N; i++ {
		NewSpectrum(x, 48000, 4096)
	}
}
