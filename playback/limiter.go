package playback

import (
	"math"

	"github.com/sandeepzgk/tact/analysis"
)

// A soft limiter.  When the RMS amplitude of the input (averaged over the
// attack time) exceeds the supplied limit, the gain falls until the output
// RMS approaches the limit; this means that much of the signal will actually
// exceed the limit.  Quieter input passes unchanged.  Output is finally
// clipped to [-1, 1].
type Limiter struct {
	limit    float64
	down, up float64
	amp      float64
	rms      *analysis.AmpMeter
	delay    *constDelay
}

// NewLimiter returns a limiter for a stream at rate Hz.  attack and decay
// are in seconds.
func NewLimiter(limit, attack, decay, rate float64) *Limiter {
	return &Limiter{
		limit: limit,
		down:  -1 / (attack * rate),
		up:    1 / (decay * rate),
		rms:   analysis.NewAmpMeter(attack, rate),
		delay: newConstDelay(attack, rate),
	}
}

// Limit processes one sample.
func (c *Limiter) Limit(x float64) float64 {
	gain := math.Exp2(c.amp)
	c.rms.Add(x)
	target := 1.0
	if y := c.rms.Level() / c.limit; y > 1 {
		target = 1 / y
	}
	if target < gain {
		c.amp += c.down
	} else {
		c.amp = math.Min(0, c.amp+c.up)
	}
	return math.Max(-1, math.Min(1, gain*c.delay.Delay(x)))
}

type constDelay struct {
	buf []float64
	i   int
}

func newConstDelay(delay, rate float64) *constDelay {
	return &constDelay{buf: make([]float64, max(1, int(delay*rate)))}
}

func (d *constDelay) Delay(x float64) float64 {
	y := d.buf[d.i]
	d.buf[d.i] = x
	d.i = (d.i + 1) % len(d.buf)
	return y
}
