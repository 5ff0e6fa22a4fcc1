package tact

import "math"

// Envelope holds Amplitude for Duration seconds.
type Envelope struct {
	Duration, Amplitude float64
}

func NewEnvelope(duration, amplitude float64) Signal {
	return New(Envelope{math.Max(0, duration), amplitude})
}

func (e Envelope) Sample(t float64) float64 {
	if t < 0 || t > e.Duration {
		return 0
	}
	return e.Amplitude
}

func (e Envelope) Length() float64 { return e.Duration }
func (Envelope) Kind() Kind        { return KindEnvelope }

// ASR rises linearly to Amplitude over Attack, holds it for Sustain, and
// falls back to zero over Release.
type ASR struct {
	Attack, Sustain, Release float64
	Amplitude                float64
}

func NewASR(attack, sustain, release, amplitude float64) Signal {
	return New(ASR{math.Max(0, attack), math.Max(0, sustain), math.Max(0, release), amplitude})
}

func (e ASR) Sample(t float64) float64 {
	return stages(t, []stage{
		{e.Attack, e.Amplitude},
		{e.Sustain, e.Amplitude},
		{e.Release, 0},
	})
}

func (e ASR) Length() float64 { return e.Attack + e.Sustain + e.Release }
func (ASR) Kind() Kind        { return KindASR }

// ADSR rises to Peak over Attack, decays to Level over Decay, holds Level
// for Sustain, and falls to zero over Release.
type ADSR struct {
	Attack, Decay, Sustain, Release float64
	Peak, Level                     float64
}

func NewADSR(attack, decay, sustain, release, peak, level float64) Signal {
	return New(ADSR{
		math.Max(0, attack), math.Max(0, decay), math.Max(0, sustain), math.Max(0, release),
		peak, level,
	})
}

func (e ADSR) Sample(t float64) float64 {
	return stages(t, []stage{
		{e.Attack, e.Peak},
		{e.Decay, e.Level},
		{e.Sustain, e.Level},
		{e.Release, 0},
	})
}

func (e ADSR) Length() float64 { return e.Attack + e.Decay + e.Sustain + e.Release }
func (ADSR) Kind() Kind        { return KindADSR }

type stage struct {
	duration, target float64
}

// stages interpolates linearly from zero through each stage's target.
func stages(t float64, s []stage) float64 {
	if t < 0 {
		return 0
	}
	from, t0 := 0.0, 0.0
	for _, st := range s {
		t1 := t0 + st.duration
		if t <= t1 {
			if st.duration == 0 {
				return st.target
			}
			return from + (st.target-from)*(t-t0)/st.duration
		}
		from, t0 = st.target, t1
	}
	return 0
}

// SignalEnvelope gates Signal, scaled by Amplitude, to the first Duration
// seconds.
type SignalEnvelope struct {
	Signal              Signal
	Duration, Amplitude float64
}

func NewSignalEnvelope(sig Signal, duration, amplitude float64) Signal {
	return New(SignalEnvelope{sig, math.Max(0, duration), amplitude})
}

func (e SignalEnvelope) Sample(t float64) float64 {
	if t < 0 || t > e.Duration {
		return 0
	}
	return e.Amplitude * e.Signal.Sample(t)
}

func (e SignalEnvelope) Length() float64 { return e.Duration }
func (SignalEnvelope) Kind() Kind        { return KindSignalEnvelope }
