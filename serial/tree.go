package serial

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sandeepzgk/tact"
)

// maxDepth bounds signal nesting accepted on decode.
const maxDepth = 256

type signalDoc struct {
	Kind     string             `json:"kind" yaml:"kind"`
	Gain     float64            `json:"gain" yaml:"gain"`
	Bias     float64            `json:"bias,omitempty" yaml:"bias,omitempty"`
	Params   map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
	Expr     string             `json:"expr,omitempty" yaml:"expr,omitempty"`
	Seed     uint64             `json:"seed,omitempty" yaml:"seed,omitempty"`
	Keys     []keyDoc           `json:"keys,omitempty" yaml:"keys,omitempty"`
	Groups   []groupDoc         `json:"groups,omitempty" yaml:"groups,omitempty"`
	Children []signalDoc        `json:"children,omitempty" yaml:"children,omitempty"`
}

// rawSignalDoc has signalDoc's fields without its decoding methods.
type rawSignalDoc signalDoc

// UnmarshalJSON decodes d with a gain of 1 unless the document sets one.
func (d *signalDoc) UnmarshalJSON(b []byte) error {
	raw := rawSignalDoc{Gain: 1}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = signalDoc(raw)
	return nil
}

// UnmarshalYAML decodes d with a gain of 1 unless the document sets one.
func (d *signalDoc) UnmarshalYAML(n *yaml.Node) error {
	raw := rawSignalDoc{Gain: 1}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*d = signalDoc(raw)
	return nil
}

type keyDoc struct {
	Time      float64 `json:"t" yaml:"t"`
	Amplitude float64 `json:"amp" yaml:"amp"`
	Curve     string  `json:"curve,omitempty" yaml:"curve,omitempty"`
}

type pointDoc struct {
	T float64 `json:"t" yaml:"t"`
	Y float64 `json:"y" yaml:"y"`
}

type groupDoc struct {
	Left   pointDoc `json:"cpl" yaml:"cpl"`
	Center pointDoc `json:"p" yaml:"p"`
	Right  pointDoc `json:"cpr" yaml:"cpr"`
}

func toDoc(s tact.Signal) (signalDoc, error) {
	d := signalDoc{Kind: s.Kind().String(), Gain: s.Gain, Bias: s.Bias}
	child := func(c tact.Signal) error {
		cd, err := toDoc(c)
		if err != nil {
			return err
		}
		d.Children = append(d.Children, cd)
		return nil
	}

	switch src := s.Source().(type) {
	case nil, tact.Time:
	case tact.Scalar:
		d.Params = map[string]float64{"value": src.Value}
	case tact.Ramp:
		d.Params = map[string]float64{"initial": src.Initial, "rate": src.Rate}
	case tact.Noise:
		d.Seed = src.Seed
	case tact.Expression:
		d.Expr = src.Text()
	case tact.Oscillator:
		if err := child(src.X); err != nil {
			return d, err
		}
	case tact.Chirp:
		d.Params = map[string]float64{"rate": src.Rate}
		if err := child(src.X); err != nil {
			return d, err
		}
	case tact.Pwm:
		d.Params = map[string]float64{"frequency": src.Frequency, "duty": src.DutyCycle}
	case tact.Envelope:
		d.Params = map[string]float64{"duration": src.Duration, "amplitude": src.Amplitude}
	case tact.ASR:
		d.Params = map[string]float64{
			"attack": src.Attack, "sustain": src.Sustain, "release": src.Release,
			"amplitude": src.Amplitude,
		}
	case tact.ADSR:
		d.Params = map[string]float64{
			"attack": src.Attack, "decay": src.Decay, "sustain": src.Sustain, "release": src.Release,
			"peak": src.Peak, "level": src.Level,
		}
	case tact.KeyedEnvelope:
		for _, k := range src.Keys() {
			d.Keys = append(d.Keys, keyDoc{k.Time, k.Amplitude, k.Curve.String()})
		}
	case tact.SignalEnvelope:
		d.Params = map[string]float64{"duration": src.Duration, "amplitude": src.Amplitude}
		if err := child(src.Signal); err != nil {
			return d, err
		}
	case tact.PolyBezier:
		// Only the point groups are stored; the curve is re-solved on load.
		for _, g := range src.Groups() {
			d.Groups = append(d.Groups, groupDoc{
				pointDoc{g.Left.T, g.Left.Y}, pointDoc{g.Center.T, g.Center.Y}, pointDoc{g.Right.T, g.Right.Y},
			})
		}
	case tact.Children:
		for _, c := range src.Children() {
			if err := child(c); err != nil {
				return d, err
			}
		}
	default:
		return d, fmt.Errorf("%w: %T", ErrUnknownKind, src)
	}
	return d, nil
}

func fromDoc(d signalDoc, depth int) (tact.Signal, error) {
	if depth > maxDepth {
		return tact.Signal{}, fmt.Errorf("%w: nesting deeper than %d", ErrCorrupt, maxDepth)
	}
	kind, ok := tact.ParseKind(d.Kind)
	if !ok {
		return tact.Signal{}, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	p := func(name string) float64 { return d.Params[name] }
	children := make([]tact.Signal, len(d.Children))
	for i, cd := range d.Children {
		c, err := fromDoc(cd, depth+1)
		if err != nil {
			return tact.Signal{}, err
		}
		children[i] = c
	}
	only := func() (tact.Signal, error) {
		if len(children) != 1 {
			return tact.Signal{}, fmt.Errorf("%w: %s needs 1 input, has %d", ErrCorrupt, kind, len(children))
		}
		return children[0], nil
	}

	var s tact.Signal
	switch kind {
	case tact.KindZero:
		return tact.Signal{Bias: d.Bias}, nil
	case tact.KindTime:
		s = tact.NewTime()
	case tact.KindScalar:
		s = tact.NewScalar(p("value"))
	case tact.KindRamp:
		s = tact.NewRamp(p("initial"), p("rate"))
	case tact.KindNoise:
		s = tact.NewNoiseSeed(d.Seed)
	case tact.KindExpression:
		var err error
		if s, err = tact.NewExpression(d.Expr); err != nil {
			return tact.Signal{}, fmt.Errorf("%w: expression: %v", ErrCorrupt, err)
		}
	case tact.KindSine, tact.KindSquare, tact.KindSaw, tact.KindTriangle:
		x, err := only()
		if err != nil {
			return s, err
		}
		shape, _ := tact.ShapeOf(kind)
		s = tact.NewOscillator(shape, x)
	case tact.KindChirp:
		x, err := only()
		if err != nil {
			return s, err
		}
		s = tact.NewChirpInput(x, p("rate"))
	case tact.KindPwm:
		s = tact.NewPwm(p("frequency"), p("duty"))
	case tact.KindEnvelope:
		s = tact.NewEnvelope(p("duration"), p("amplitude"))
	case tact.KindASR:
		s = tact.NewASR(p("attack"), p("sustain"), p("release"), p("amplitude"))
	case tact.KindADSR:
		s = tact.NewADSR(p("attack"), p("decay"), p("sustain"), p("release"), p("peak"), p("level"))
	case tact.KindKeyedEnvelope:
		keys := make([]tact.Key, len(d.Keys))
		for i, k := range d.Keys {
			c, ok := tact.ParseCurve(k.Curve)
			if !ok && k.Curve != "" {
				return tact.Signal{}, fmt.Errorf("%w: curve %q", ErrCorrupt, k.Curve)
			}
			keys[i] = tact.Key{Time: k.Time, Amplitude: k.Amplitude, Curve: c}
		}
		s = tact.NewKeyedEnvelope(keys...)
	case tact.KindSignalEnvelope:
		x, err := only()
		if err != nil {
			return s, err
		}
		s = tact.NewSignalEnvelope(x, p("duration"), p("amplitude"))
	case tact.KindPolyBezier:
		groups := make([]tact.PointGroup, len(d.Groups))
		for i, g := range d.Groups {
			groups[i] = tact.PointGroup{
				Left:   tact.Point{T: g.Left.T, Y: g.Left.Y},
				Center: tact.Point{T: g.Center.T, Y: g.Center.Y},
				Right:  tact.Point{T: g.Right.T, Y: g.Right.Y},
			}
		}
		s = tact.NewPolyBezier(groups...)
	case tact.KindSum:
		s = tact.NewSum(children...)
	case tact.KindProduct:
		s = tact.NewProduct(children...)
	default:
		return tact.Signal{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	s.Gain, s.Bias = d.Gain, d.Bias
	return s, nil
}
