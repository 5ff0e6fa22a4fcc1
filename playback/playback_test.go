package playback

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepzgk/tact"
)

const rate = 1000

func buffers(channels, frames int) [][]float32 {
	out := make([][]float32, channels)
	for i := range out {
		out[i] = make([]float32, frames)
	}
	return out
}

func TestMixerPlayFinishes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMixer(2, rate, reg)
	id, err := m.Play(1, tact.NewEnvelope(0.05, 0.1))
	require.NoError(t, err)
	assert.True(t, m.Playing(1))
	assert.False(t, m.Playing(0))
	done := m.Done(id)

	out := buffers(2, 32)
	m.Process(out)
	assert.True(t, m.Playing(1))
	m.Process(out)
	assert.False(t, m.Playing(1))
	select {
	case <-done:
	default:
		t.Fatal("done not closed after signal ended")
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.started.WithLabelValues("1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.metrics.active))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.metrics.callbacks))
}

func TestMixerOutput(t *testing.T) {
	m := NewMixer(1, rate, nil)
	_, err := m.Play(0, tact.NewScalar(0.1))
	require.NoError(t, err)
	out := buffers(1, 64)
	for range 5 {
		m.Process(out)
	}
	// Past the limiter delay a quiet constant passes unchanged.
	for _, x := range out[0] {
		assert.InDelta(t, 0.1, x, 1e-6)
	}

	require.NoError(t, m.SetVolume(0, 0.5))
	m.SetMasterVolume(0.5)
	for range 5 {
		m.Process(out)
	}
	assert.InDelta(t, 0.025, out[0][63], 1e-6)
	assert.Equal(t, 0.5, m.Volume(0))
	assert.Equal(t, 0.5, m.MasterVolume())
}

func TestMixerReplaceAndStop(t *testing.T) {
	m := NewMixer(1, rate, prometheus.NewRegistry())
	a, _ := m.Play(0, tact.NewSine(10))
	b, _ := m.Play(0, tact.NewSine(20))
	assert.NotEqual(t, a, b)
	<-m.Done(a)
	assert.True(t, m.Playing(0))

	require.NoError(t, m.Stop(0))
	<-m.Done(b)
	assert.False(t, m.Playing(0))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.metrics.active))

	m.Play(0, tact.NewSine(10))
	m.StopAll()
	assert.False(t, m.Playing(0))
}

func TestMixerErrors(t *testing.T) {
	m := NewMixer(2, rate, nil)
	_, err := m.Play(2, tact.NewTime())
	assert.ErrorIs(t, err, ErrChannel)
	_, err = m.Play(-1, tact.NewTime())
	assert.ErrorIs(t, err, ErrChannel)
	assert.ErrorIs(t, m.Stop(5), ErrChannel)
	assert.ErrorIs(t, m.SetVolume(5, 1), ErrChannel)

	m.Close()
	_, err = m.Play(0, tact.NewTime())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMixerExtraOutputs(t *testing.T) {
	m := NewMixer(1, rate, nil)
	out := buffers(3, 8)
	for i := range out[2] {
		out[2][i] = 1
	}
	m.Process(out)
	for _, x := range out[2] {
		assert.Equal(t, float32(0), x)
	}
}

func TestVolumeClamp(t *testing.T) {
	m := NewMixer(1, rate, nil)
	require.NoError(t, m.SetVolume(0, 3))
	assert.Equal(t, 1.0, m.Volume(0))
	m.SetMasterVolume(-1)
	assert.Equal(t, 0.0, m.MasterVolume())
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(LimitLevel, LimitAttack, LimitDecay, 48000)
	sine := tact.NewSine(100).Scale(4)
	var sq float64
	for i := range 48000 {
		y := l.Limit(sine.Sample(float64(i) / 48000))
		require.LessOrEqual(t, y, 1.0)
		require.GreaterOrEqual(t, y, -1.0)
		if i >= 24000 {
			sq += y * y
		}
	}
	// The output RMS settles near the limit rather than the input's 2.8.
	assert.InDelta(t, LimitLevel, math.Sqrt(sq/24000), 0.1)

	l = NewLimiter(LimitLevel, LimitAttack, LimitDecay, 48000)
	var y float64
	for range 1000 {
		y = l.Limit(0.2)
	}
	assert.InDelta(t, 0.2, y, 1e-9)
}

func TestDoneUnknown(t *testing.T) {
	m := NewMixer(1, rate, nil)
	select {
	case <-m.Done([16]byte{1}):
	case <-time.After(time.Second):
		t.Fatal("unknown id should be done")
	}
}

func TestMixerPlayAfter(t *testing.T) {
	m := NewMixer(1, rate, prometheus.NewRegistry())
	id, err := m.PlayAfter(0, tact.NewScalar(0.5), 0.010)
	require.NoError(t, err)
	assert.False(t, m.Playing(0))

	out := buffers(1, 8)
	m.Process(out)
	assert.False(t, m.Playing(0))
	m.Process(out)
	assert.True(t, m.Playing(0))
	// The signal starts at frame 10 and the limiter delays it by 5 frames,
	// so frames 16-23 carry it in full.
	m.Process(out)
	for _, x := range out[0] {
		assert.Equal(t, float32(0.5), x)
	}

	require.NoError(t, m.Stop(0))
	<-m.Done(id)
}

func TestMixerPlayAfterCancel(t *testing.T) {
	m := NewMixer(2, rate, nil)
	a, _ := m.PlayAfter(0, tact.NewScalar(1), 1)
	b, _ := m.PlayAfter(1, tact.NewScalar(1), 1)
	done := m.Done(a)
	require.NoError(t, m.Stop(0))
	<-done
	select {
	case <-m.Done(b):
		t.Fatal("other channel canceled")
	default:
	}
	m.StopAll()
	<-m.Done(b)

	out := buffers(2, 1000)
	m.Process(out)
	m.Process(out)
	assert.False(t, m.Playing(0))
	assert.False(t, m.Playing(1))

	_, err := m.PlayAfter(3, tact.NewTime(), 1)
	assert.ErrorIs(t, err, ErrChannel)
}

func BenchmarkLimiter(b *testing.B) {
	l := NewLimiter(LimitLevel, LimitAttack, LimitDecay, 48000)
	x := tact.NewSine(100).Scale(4)
	for i := 0; i < b.N; i++ {
		l.Limit(x.Sample(float64(i) / 48000))
	}
}

func BenchmarkProcess(b *testing.B) {
	m := NewMixer(2, 48000, nil)
	m.Play(0, tact.Mul(tact.NewSine(175), tact.NewSine(5)))
	m.Play(1, tact.NewChirp(100, 50))
	out := buffers(2, 256)
	for i := 0; i < b.N; i++ {
		m.Process(out)
	}
}
