package analysis

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/ktye/fft"
)

// ErrSize indicates a transform size that is not a power of two.
var ErrSize = errors.New("spectrum size must be a power of two")

// Spectrum is the single-sided magnitude spectrum of a buffer.
type Spectrum struct {
	// Rate is the sample rate of the analyzed buffer.
	Rate float64
	// Size is the transform size.
	Size int
	// Mag holds the amplitude of bins 0 through Size/2.  A full-scale sine
	// centered on a bin has magnitude close to 1 there.
	Mag []float64
}

// Peak is a local maximum of a spectrum.
type Peak struct {
	Frequency float64
	Magnitude float64
}

// NewSpectrum analyzes the first size samples of x, zero padded if x is
// shorter, under a Hann window.  size must be a power of two.
func NewSpectrum(x []float64, rate float64, size int) (Spectrum, error) {
	if !(rate > 0) {
		return Spectrum{}, fmt.Errorf("%w: %v", ErrRate, rate)
	}
	if size < 2 || size&(size-1) != 0 {
		return Spectrum{}, fmt.Errorf("%w: %d", ErrSize, size)
	}
	f, err := fft.New(size)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum size %d: %w", size, err)
	}
	buf := make([]complex128, size)
	var gain float64
	for i := range buf {
		w := (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
		gain += w
		if i < len(x) {
			buf[i] = complex(x[i]*w, 0)
		}
	}
	buf = f.Transform(buf)
	mag := make([]float64, size/2+1)
	for i := range mag {
		m := cmplx.Abs(buf[i]) / gain
		if i != 0 && i != size/2 {
			m *= 2
		}
		mag[i] = m
	}
	return Spectrum{Rate: rate, Size: size, Mag: mag}, nil
}

// Frequency returns the center frequency of bin i.
func (s Spectrum) Frequency(i int) float64 {
	return float64(i) * s.Rate / float64(s.Size)
}

// Bin returns the bin nearest freq.
func (s Spectrum) Bin(freq float64) int {
	i := int(math.Round(freq * float64(s.Size) / s.Rate))
	return max(0, min(i, len(s.Mag)-1))
}

// Peaks returns up to n local maxima, loudest first.
func (s Spectrum) Peaks(n int) []Peak {
	var peaks []Peak
	for i, m := range s.Mag {
		if m <= 0 {
			continue
		}
		if i > 0 && s.Mag[i-1] >= m || i+1 < len(s.Mag) && s.Mag[i+1] > m {
			continue
		}
		peaks = append(peaks, Peak{Frequency: s.Frequency(i), Magnitude: m})
	}
	slices.SortStableFunc(peaks, func(a, b Peak) int { return cmp.Compare(b.Magnitude, a.Magnitude) })
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}
