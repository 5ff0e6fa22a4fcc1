// Package playback plays signals through the default audio output device.
//
// A Player owns a portaudio stream with one output per haptic channel and a
// Mixer that renders at most one signal per channel.  Playing a signal on a
// busy channel replaces what was there.
package playback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sandeepzgk/tact"
)

// Config configures a Player.
type Config struct {
	SampleRate float64
	BufferSize int
	// Channels is the number of outputs requested.  It is reduced to what
	// the device supports.
	Channels int
	Logger   *slog.Logger
}

// DefaultConfig returns a stereo stream at 48 kHz.
func DefaultConfig() Config {
	return Config{SampleRate: 48000, BufferSize: 256, Channels: 2}
}

// Player plays signals on the default output device.
type Player struct {
	*Mixer
	stream *portaudio.Stream
	reg    *prometheus.Registry
	log    *slog.Logger
}

// Open starts an output stream on the default device.
func Open(cfg Config) (*Player, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("default output device: %w", err)
	}
	channels := cfg.Channels
	if channels > dev.MaxOutputChannels {
		log.Warn("device has fewer channels than requested", "device", dev.Name, "requested", channels, "available", dev.MaxOutputChannels)
		channels = dev.MaxOutputChannels
	}
	if channels < 1 {
		portaudio.Terminate()
		return nil, fmt.Errorf("device %q has no outputs", dev.Name)
	}

	reg := prometheus.NewRegistry()
	p := &Player{
		Mixer: NewMixer(channels, cfg.SampleRate, reg),
		reg:   reg,
		log:   log,
	}
	params := portaudio.HighLatencyParameters(nil, dev)
	params.Output.Channels = channels
	params.SampleRate = cfg.SampleRate
	params.FramesPerBuffer = cfg.BufferSize
	p.stream, err = portaudio.OpenStream(params, p.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if err := p.stream.Start(); err != nil {
		p.stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	log.Info("playback started", "device", dev.Name, "channels", channels, "sample_rate", cfg.SampleRate, "buffer_size", cfg.BufferSize)
	return p, nil
}

// Registry returns the registry holding the player's metrics.
func (p *Player) Registry() *prometheus.Registry { return p.reg }

// Play starts sig on channel ch.  See Mixer.Play.
func (p *Player) Play(ch int, sig tact.Signal) (uuid.UUID, error) {
	id, err := p.Mixer.Play(ch, sig)
	if err != nil {
		return uuid.Nil, err
	}
	p.log.Debug("play", "channel", ch, "id", id, "kind", sig.Kind(), "length", sig.Length())
	return id, nil
}

// Wait blocks until playback id ends or ctx is done.
func (p *Player) Wait(ctx context.Context, id uuid.UUID) error {
	select {
	case <-p.Done(id):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	p.Mixer.Close()
	var first error
	if err := p.stream.Stop(); err != nil {
		p.log.Error("stop stream", "err", err)
		first = err
	}
	if err := p.stream.Close(); err != nil && first == nil {
		first = err
	}
	if err := portaudio.Terminate(); err != nil && first == nil {
		first = err
	}
	return first
}

// Device describes an audio output device.
type Device struct {
	Name              string
	HostAPI           string
	Channels          int
	DefaultSampleRate float64
	Default           bool
}

// Devices lists the devices with at least one output.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}
	defer portaudio.Terminate()
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	def, _ := portaudio.DefaultOutputDevice()
	var devs []Device
	for _, d := range infos {
		if d.MaxOutputChannels == 0 {
			continue
		}
		dev := Device{
			Name:              d.Name,
			Channels:          d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Default:           def != nil && d.Name == def.Name && d.HostApi == def.HostApi,
		}
		if d.HostApi != nil {
			dev.HostAPI = d.HostApi.Name
		}
		devs = append(devs, dev)
	}
	return devs, nil
}
