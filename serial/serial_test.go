package serial

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepzgk/tact"
)

func mustExpr(t *testing.T, text string) tact.Signal {
	t.Helper()
	s, err := tact.NewExpression(text)
	require.NoError(t, err)
	return s
}

func allKinds(t *testing.T) map[string]tact.Signal {
	return map[string]tact.Signal{
		"zero":       {},
		"time":       tact.NewTime().Scale(0.5),
		"scalar":     tact.NewScalar(0.25).Offset(0.1),
		"ramp":       tact.NewRamp(1, -0.5),
		"noise":      tact.NewNoiseSeed(math.MaxUint64 - 7),
		"expression": mustExpr(t, "sin(2*pi*10*t) * exp(-t)"),
		"sine":       tact.NewSine(175),
		"square":     tact.NewSquare(100),
		"saw":        tact.NewSaw(80),
		"triangle":   tact.NewTriangle(60),
		"pwm":        tact.NewPwm(20, 0.3),
		"chirp":      tact.NewChirp(100, 25),
		"envelope":   tact.NewEnvelope(0.3, 0.9),
		"asr":        tact.NewASR(0.1, 0.2, 0.3, 0.8),
		"adsr":       tact.NewADSR(0.1, 0.1, 0.2, 0.3, 1, 0.6),
		"keyed": tact.NewKeyedEnvelope(
			tact.Key{Time: 0.1, Amplitude: 1, Curve: tact.Smoothstep},
			tact.Key{Time: 0.4, Amplitude: 0, Curve: tact.QuadOut},
		),
		"signal envelope": tact.NewSignalEnvelope(tact.NewSine(50), 0.5, 0.7),
		"polybezier": tact.NewPolyBezier(
			tact.PointGroup{Center: tact.Point{T: 0, Y: 0}, Right: tact.Point{T: 0.1, Y: 0.5}},
			tact.PointGroup{Left: tact.Point{T: 0.2, Y: 1}, Center: tact.Point{T: 0.3, Y: 1}, Right: tact.Point{T: 0.4, Y: 1}},
			tact.PointGroup{Left: tact.Point{T: 0.5, Y: 0}, Center: tact.Point{T: 0.6, Y: 0}},
		),
		"sum":     tact.NewSum(tact.NewEnvelope(1, 0.5), tact.NewSine(100)),
		"product": tact.NewProduct(tact.NewSine(200), tact.NewASR(0.1, 0.1, 0.1, 1)),
		"nested": tact.Add(
			tact.Mul(tact.NewSquare(30), tact.NewEnvelope(0.2, 1)),
			tact.NewOscillator(tact.ShapeSine, tact.NewSignalEnvelope(tact.Phase(100), 0.4, 1)),
		).Scale(0.5),
	}
}

func assertSameSignal(t *testing.T, want, got tact.Signal, msg string) {
	t.Helper()
	require.Equal(t, want.Kind(), got.Kind(), msg)
	assert.Equal(t, want.Length(), got.Length(), msg)
	for i := 0; i <= 500; i++ {
		x := float64(i) / 500
		assert.InDelta(t, want.Sample(x), got.Sample(x), 1e-9, "%s at t=%g", msg, x)
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	for _, f := range Formats() {
		for name, sig := range allKinds(t) {
			b, err := Marshal(Cue{Name: name, Signal: sig}, f)
			require.NoError(t, err, "%s/%s", f, name)
			cue, err := Unmarshal(b, f)
			require.NoError(t, err, "%s/%s", f, name)
			assert.Equal(t, name, cue.Name)
			assertSameSignal(t, sig, cue.Signal, f.String()+"/"+name)
		}
	}
}

func TestCueRoundTrip(t *testing.T) {
	sig := tact.NewSum(tact.NewEnvelope(0.5, 1), tact.NewSine(100))
	for _, f := range Formats() {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, Cue{Name: "buzz", Signal: sig}, f))
		cue, err := Decode(&buf, f)
		require.NoError(t, err)
		sum, ok := cue.Signal.Source().(tact.Sum)
		require.True(t, ok)
		kids := sum.Children()
		require.Len(t, kids, 2)
		assert.Equal(t, tact.KindEnvelope, kids[0].Kind())
		assert.Equal(t, tact.KindSine, kids[1].Kind())
		for i := 0; i < 2000; i++ {
			x := float64(i) / 1000
			assert.InDelta(t, sig.Sample(x), cue.Signal.Sample(x), 1e-12)
		}
	}
}

func TestHumanReadable(t *testing.T) {
	cue := Cue{Name: "tap", Signal: tact.NewEnvelope(0.1, 1)}
	b, err := Marshal(cue, JSON)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind": "Envelope"`)
	b, err = Marshal(cue, YAML)
	require.NoError(t, err)
	assert.Contains(t, string(b), "kind: Envelope")
	assert.Contains(t, string(b), "format: tact")
}

func TestMissingGain(t *testing.T) {
	doc := `format: tact
version: 1
name: hand
signal:
  kind: Sum
  children:
    - kind: Scalar
      params: {value: 0.5}
    - kind: Scalar
      gain: 0
      params: {value: 3}
`
	c, err := Unmarshal([]byte(doc), YAML)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Signal.Gain)
	assert.Equal(t, 0.5, c.Signal.Sample(0))

	js := `{"format":"tact","version":1,"name":"hand","signal":{"kind":"Scalar","params":{"value":0.25}}}`
	c, err = Unmarshal([]byte(js), JSON)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Signal.Gain)
	assert.Equal(t, 0.25, c.Signal.Sample(0))

	// An explicit zero gain survives every format.
	muted := tact.NewScalar(2)
	muted.Gain = 0
	for _, f := range Formats() {
		b, err := Marshal(Cue{Name: "muted", Signal: muted}, f)
		require.NoError(t, err, f)
		c, err := Unmarshal(b, f)
		require.NoError(t, err, f)
		assert.Equal(t, 0.0, c.Signal.Gain, f)
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := Marshal(Cue{Name: "x", Signal: tact.NewSine(10)}, Binary)
	require.NoError(t, err)

	badVersion := append([]byte(nil), good...)
	binary.BigEndian.PutUint16(badVersion[4:], Version+1)

	tests := []struct {
		name string
		data []byte
		f    Format
		want error
	}{
		{"empty binary", nil, Binary, ErrCorrupt},
		{"bad magic", []byte("NOPE\x00\x01"), Binary, ErrCorrupt},
		{"binary version", badVersion, Binary, ErrVersion},
		{"truncated", good[:len(good)-3], Binary, ErrCorrupt},
		{"json garbage", []byte("{"), JSON, ErrCorrupt},
		{"json version", []byte(`{"format":"tact","version":9,"name":"x","signal":{"kind":"Time","gain":1}}`), JSON, ErrVersion},
		{"json tag", []byte(`{"format":"other","version":1}`), JSON, ErrCorrupt},
		{"json kind", []byte(`{"format":"tact","version":1,"signal":{"kind":"Laser","gain":1}}`), JSON, ErrUnknownKind},
		{"json expr", []byte(`{"format":"tact","version":1,"signal":{"kind":"Expression","expr":"t*","gain":1}}`), JSON, ErrCorrupt},
		{"json osc input", []byte(`{"format":"tact","version":1,"signal":{"kind":"Sine","gain":1}}`), JSON, ErrCorrupt},
		{"yaml empty", []byte(""), YAML, ErrCorrupt},
		{"yaml curve", []byte("format: tact\nversion: 1\nsignal:\n  kind: Keyed Envelope\n  keys:\n    - {t: 1, amp: 1, curve: Wobble}\n"), YAML, ErrCorrupt},
		{"bad format", good, Format(7), ErrFormat},
	}
	for _, tt := range tests {
		_, err := Unmarshal(tt.data, tt.f)
		assert.True(t, errors.Is(err, tt.want), "%s: got %v", tt.name, err)
	}
}

func TestDepthLimit(t *testing.T) {
	s := tact.NewTime()
	for i := 0; i < maxDepth+2; i++ {
		s = tact.NewSum(s, tact.NewScalar(1))
	}
	b, err := Marshal(Cue{Signal: s}, JSON)
	require.NoError(t, err)
	_, err = Unmarshal(b, JSON)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFormats(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(f.String()))
		require.NoError(t, err)
		assert.Equal(t, f, got)
		got, ok := FormatFromExt(f.Ext())
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrFormat)

	var g Format
	require.NoError(t, g.UnmarshalText([]byte("json")))
	assert.Equal(t, JSON, g)
	_, err = Format(42).MarshalText()
	assert.ErrorIs(t, err, ErrFormat)
}
