package playback

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sandeepzgk/tact"
)

var (
	// ErrChannel indicates a channel index outside the device's channels.
	ErrChannel = errors.New("no such channel")

	// ErrClosed indicates use of a closed player.
	ErrClosed = errors.New("player closed")
)

// Limiter settings applied to every channel.
const (
	LimitLevel  = 0.8
	LimitAttack = 0.005
	LimitDecay  = 0.05
)

type voice struct {
	id  uuid.UUID
	ch  int
	sig tact.Signal
	// frame is the index of the next output frame.  It is negative while a
	// scheduled start lies later in the current buffer.
	frame int64
	done  chan struct{}
}

func newVoice(ch int, sig tact.Signal) *voice {
	return &voice{id: uuid.New(), ch: ch, sig: sig, done: make(chan struct{})}
}

// Mixer renders at most one signal per output channel into audio buffers.
// The editor goroutine starts and stops signals while the audio callback
// calls Process; the voice table is shared under a mutex and signals are
// sampled outside it.
type Mixer struct {
	rate float64

	mu      sync.Mutex
	voices  []*voice
	pending map[uuid.UUID]*voice
	sched   eventDelay
	offset  int
	volume  []float64
	master  float64
	closed  bool
	limit   []*Limiter
	metrics *metrics
}

// NewMixer returns a mixer for channels outputs at rate Hz.  Metrics are
// registered with reg, which may be nil.
func NewMixer(channels int, rate float64, reg prometheus.Registerer) *Mixer {
	m := &Mixer{
		rate:    rate,
		voices:  make([]*voice, channels),
		pending: map[uuid.UUID]*voice{},
		volume:  make([]float64, channels),
		master:  1,
		limit:   make([]*Limiter, channels),
		metrics: newMetrics(reg),
	}
	for i := range m.volume {
		m.volume[i] = 1
		m.limit[i] = NewLimiter(LimitLevel, LimitAttack, LimitDecay, rate)
	}
	return m
}

// Channels returns the number of output channels.
func (m *Mixer) Channels() int { return len(m.voices) }

// SampleRate returns the output rate in Hz.
func (m *Mixer) SampleRate() float64 { return m.rate }

func (m *Mixer) check(ch int) error {
	if m.closed {
		return ErrClosed
	}
	if ch < 0 || ch >= len(m.voices) {
		return fmt.Errorf("%w: %d of %d", ErrChannel, ch, len(m.voices))
	}
	return nil
}

// Play starts sig on channel ch from its beginning, replacing whatever was
// playing there.  The returned id identifies this playback for Done.
func (m *Mixer) Play(ch int, sig tact.Signal) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ch); err != nil {
		return uuid.Nil, err
	}
	v := newVoice(ch, sig)
	m.start(v)
	return v.id, nil
}

// PlayAfter starts sig on channel ch once delay seconds of output have been
// rendered.  Stopping the channel before then cancels the start.
func (m *Mixer) PlayAfter(ch int, sig tact.Signal, delay float64) (uuid.UUID, error) {
	frames := int(math.Round(delay * m.rate))
	if frames <= 0 {
		return m.Play(ch, sig)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ch); err != nil {
		return uuid.Nil, err
	}
	v := newVoice(ch, sig)
	m.pending[v.id] = v
	m.sched.Delay(frames, func() {
		if m.pending[v.id] != v {
			return
		}
		delete(m.pending, v.id)
		v.frame = -int64(m.offset)
		m.start(v)
	})
	return v.id, nil
}

// start must be called with m.mu held.
func (m *Mixer) start(v *voice) {
	m.retire(v.ch)
	m.voices[v.ch] = v
	m.metrics.started.WithLabelValues(strconv.Itoa(v.ch)).Inc()
	m.metrics.active.Inc()
}

// Stop silences channel ch and cancels starts scheduled on it.
func (m *Mixer) Stop(ch int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ch); err != nil {
		return err
	}
	m.retire(ch)
	m.cancel(func(v *voice) bool { return v.ch == ch })
	return nil
}

// StopAll silences every channel and cancels every scheduled start.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAll()
}

// Close stops every channel and rejects further use.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAll()
	m.closed = true
}

func (m *Mixer) stopAll() {
	for ch := range m.voices {
		m.retire(ch)
	}
	m.cancel(func(*voice) bool { return true })
}

// retire must be called with m.mu held.
func (m *Mixer) retire(ch int) {
	if v := m.voices[ch]; v != nil {
		close(v.done)
		m.voices[ch] = nil
		m.metrics.active.Dec()
	}
}

// cancel must be called with m.mu held.
func (m *Mixer) cancel(match func(*voice) bool) {
	for id, v := range m.pending {
		if match(v) {
			close(v.done)
			delete(m.pending, id)
		}
	}
}

// Playing reports whether a signal is playing on channel ch.
func (m *Mixer) Playing(ch int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ch >= 0 && ch < len(m.voices) && m.voices[ch] != nil
}

// Done returns a channel closed when playback id ends, either because the
// signal finished or because it was stopped or replaced.  An unknown id
// yields a closed channel.
func (m *Mixer) Done(id uuid.UUID) <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.pending[id]; ok {
		return v.done
	}
	for _, v := range m.voices {
		if v != nil && v.id == id {
			return v.done
		}
	}
	c := make(chan struct{})
	close(c)
	return c
}

// SetVolume sets the gain of channel ch, clamped to [0, 1].
func (m *Mixer) SetVolume(ch int, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ch); err != nil {
		return err
	}
	m.volume[ch] = clamp01(v)
	return nil
}

// Volume returns the gain of channel ch.
func (m *Mixer) Volume(ch int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch < 0 || ch >= len(m.volume) {
		return 0
	}
	return m.volume[ch]
}

// SetMasterVolume sets the gain applied to all channels, clamped to [0, 1].
func (m *Mixer) SetMasterVolume(v float64) {
	m.mu.Lock()
	m.master = clamp01(v)
	m.mu.Unlock()
}

// MasterVolume returns the gain applied to all channels.
func (m *Mixer) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Process renders one buffer.  out holds one equal-length slice per
// channel; channels beyond the mixer's are silenced.
func (m *Mixer) Process(out [][]float32) {
	frames := 0
	if len(out) > 0 {
		frames = len(out[0])
	}

	m.mu.Lock()
	for i := 0; i < frames && m.sched.Len() > 0; i++ {
		// An event fired by the i'th step starts at frame i+1.
		m.offset = i + 1
		m.sched.Step()
	}
	voices := append([]*voice(nil), m.voices...)
	gains := make([]float64, len(m.volume))
	for i, v := range m.volume {
		gains[i] = v * m.master
	}
	m.mu.Unlock()
	m.metrics.callbacks.Inc()

	for ch, buf := range out {
		if ch >= len(voices) {
			clear(buf)
			continue
		}
		v, lim := voices[ch], m.limit[ch]
		if v == nil {
			for i := range buf {
				buf[i] = float32(lim.Limit(0))
			}
			continue
		}
		length := v.sig.Length()
		for i := range buf {
			x := 0.0
			if n := v.frame + int64(i); n >= 0 {
				if t := float64(n) / m.rate; t <= length {
					x = v.sig.Sample(t) * gains[ch]
				}
			}
			y := lim.Limit(x)
			if math.Abs(y) >= 1 {
				m.metrics.clipped.Inc()
			}
			buf[i] = float32(y)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for ch, v := range voices {
		// The editor may have replaced or stopped the voice meanwhile.
		if v == nil || m.voices[ch] != v {
			continue
		}
		v.frame += int64(frames)
		if float64(v.frame)/m.rate > v.sig.Length() {
			m.retire(ch)
		}
	}
}
