package tact

import (
	"math"
	"math/rand"
	"time"
)

// Noise is white noise, uniform in [-1, 1].
//
// Each sample is a hash of (Seed, t), so the same Noise sampled at the same
// time always yields the same value and may be shared between goroutines.
type Noise struct {
	Seed uint64
}

func NewNoise() Signal {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewNoiseSeed(r.Uint64())
}

func NewNoiseSeed(seed uint64) Signal { return New(Noise{seed}) }

func (n Noise) Sample(t float64) float64 {
	x := splitmix64(math.Float64bits(t) ^ n.Seed)
	return 2*float64(x>>11)/(1<<53) - 1
}

func (Noise) Length() float64 { return Inf }
func (Noise) Kind() Kind      { return KindNoise }

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ x>>30) * 0xbf58476d1ce4e5b9
	x = (x ^ x>>27) * 0x94d049bb133111eb
	return x ^ x>>31
}
