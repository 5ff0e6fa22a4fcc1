package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sandeepzgk/tact"
	"github.com/sandeepzgk/tact/analysis"
	"github.com/sandeepzgk/tact/config"
	"github.com/sandeepzgk/tact/library"
	"github.com/sandeepzgk/tact/playback"
	"github.com/sandeepzgk/tact/serial"
)

// app is the state shared by subcommands once the configuration is loaded.
type app struct {
	out        io.Writer
	configPath string
	cfg        config.Config
	log        *slog.Logger
	store      library.Store
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "tact",
		Short:         "Compose, inspect and play haptic cues",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "configuration file")
	root.AddCommand(
		a.listCmd(),
		a.infoCmd(),
		a.renderCmd(),
		a.spectrumCmd(),
		a.convertCmd(),
		a.importCmd(),
		a.exprCmd(),
		a.rmCmd(),
		a.playCmd(),
		a.devicesCmd(),
	)
	return root
}

func (a *app) open() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = slog.New(logHandler(os.Stderr, cfg.Level()))
	slog.SetDefault(a.log)
	return nil
}

// logHandler writes text to a terminal and JSON lines otherwise.
func logHandler(f *os.File, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.NewTextHandler(f, opts)
	}
	return slog.NewJSONHandler(f, opts)
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// library opens the configured store on first use.
func (a *app) library() (library.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := a.cfg.OpenLibrary(a.log)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) loadCue(name string) (serial.Cue, error) {
	s, err := a.library()
	if err != nil {
		return serial.Cue{}, err
	}
	return s.LoadCue(name)
}

func (a *app) listCmd() *cobra.Command {
	var signals bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cues in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.library()
			if err != nil {
				return err
			}
			list := s.List
			if signals {
				list = s.ListSignals
			}
			names, err := list()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(a.out, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&signals, "signals", false, "list reusable signals instead of cues")
	return cmd
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show the signal tree of a cue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n", c.Name)
			describe(a.out, c.Signal, 1)
			if c.Signal.Bounded() {
				x, err := analysis.Render(c.Signal, a.cfg.SampleRate, 0)
				if err != nil {
					return err
				}
				st := analysis.Measure(x)
				fmt.Fprintf(a.out, "length %gs  min %.3f  max %.3f  rms %.3f\n", c.Signal.Length(), st.Min, st.Max, st.RMS)
			} else {
				fmt.Fprintln(a.out, "length infinite")
			}
			return nil
		},
	}
}

// describe prints sig and its inputs as an indented tree.
func describe(w io.Writer, sig tact.Signal, depth int) {
	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), sig, params(sig.Source()))
	for _, c := range inputs(sig.Source()) {
		describe(w, c, depth+1)
	}
}

func inputs(src tact.Source) []tact.Signal {
	switch s := src.(type) {
	case tact.Children:
		return s.Children()
	case tact.Oscillator:
		return []tact.Signal{s.X}
	case tact.Chirp:
		return []tact.Signal{s.X}
	case tact.SignalEnvelope:
		return []tact.Signal{s.Signal}
	}
	return nil
}

func params(src tact.Source) string {
	switch s := src.(type) {
	case tact.Scalar:
		return fmt.Sprintf(" value=%g", s.Value)
	case tact.Ramp:
		return fmt.Sprintf(" initial=%g rate=%g", s.Initial, s.Rate)
	case tact.Expression:
		return fmt.Sprintf(" %q", s.Text())
	case tact.Oscillator:
		if f, ok := s.Frequency(); ok {
			return fmt.Sprintf(" %gHz", f)
		}
	case tact.Chirp:
		return fmt.Sprintf(" rate=%gHz/s", s.Rate)
	case tact.Pwm:
		return fmt.Sprintf(" %gHz duty=%g", s.Frequency, s.DutyCycle)
	case tact.Envelope:
		return fmt.Sprintf(" amplitude=%g", s.Amplitude)
	case tact.ASR:
		return fmt.Sprintf(" a=%g s=%g r=%g amplitude=%g", s.Attack, s.Sustain, s.Release, s.Amplitude)
	case tact.ADSR:
		return fmt.Sprintf(" a=%g d=%g s=%g r=%g peak=%g level=%g", s.Attack, s.Decay, s.Sustain, s.Release, s.Peak, s.Level)
	case tact.KeyedEnvelope:
		return fmt.Sprintf(" keys=%d", len(s.Keys()))
	case tact.PolyBezier:
		return fmt.Sprintf(" points=%d", len(s.Groups()))
	}
	return ""
}

func (a *app) renderCmd() *cobra.Command {
	var (
		rate, duration float64
		out            string
	)
	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Write the samples of a cue as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCue(args[0])
			if err != nil {
				return err
			}
			if rate <= 0 {
				rate = a.cfg.SampleRate
			}
			x, err := analysis.Render(c.Signal, rate, duration)
			if err != nil {
				return err
			}
			w := a.out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			cw := csv.NewWriter(w)
			cw.Write([]string{"t", "value"})
			for i, v := range x {
				cw.Write([]string{
					strconv.FormatFloat(float64(i)/rate, 'g', -1, 64),
					strconv.FormatFloat(v, 'g', -1, 64),
				})
			}
			cw.Flush()
			return cw.Error()
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "sample rate in Hz (default from config)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "seconds to render (default the cue's length)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) spectrumCmd() *cobra.Command {
	var size, peaks int
	cmd := &cobra.Command{
		Use:   "spectrum NAME",
		Short: "Print the strongest frequencies of a cue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCue(args[0])
			if err != nil {
				return err
			}
			rate := a.cfg.SampleRate
			x, err := analysis.Render(c.Signal, rate, float64(size)/rate)
			if err != nil {
				return err
			}
			s, err := analysis.NewSpectrum(x, rate, size)
			if err != nil {
				return err
			}
			for _, p := range s.Peaks(peaks) {
				fmt.Fprintf(a.out, "%10.1f Hz  %.4f\n", p.Frequency, p.Magnitude)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 4096, "transform size, a power of two")
	cmd.Flags().IntVar(&peaks, "peaks", 5, "number of peaks to print")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var to, out string
	cmd := &cobra.Command{
		Use:   "convert NAME",
		Short: "Re-save a cue in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := serial.ParseFormat(to)
			if err != nil {
				return err
			}
			c, err := a.loadCue(args[0])
			if err != nil {
				return err
			}
			if out != "" {
				b, err := serial.Marshal(c, f)
				if err != nil {
					return err
				}
				return os.WriteFile(out, b, 0o644)
			}
			d, ok := a.store.(*library.Dir)
			if !ok {
				return errors.New("convert in place needs a dir library; use --out")
			}
			d.Format = f
			return d.SaveCue(c)
		},
	}
	cmd.Flags().StringVar(&to, "to", "json", "target format: binary, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of the library")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var (
		name   string
		signal bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add a cue file to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ext := filepath.Ext(path)
			f, ok := serial.FormatFromExt(ext)
			if !ok {
				return fmt.Errorf("unknown cue file extension %q", ext)
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			c, err := serial.Decode(file, f)
			if err != nil {
				return err
			}
			if name != "" {
				c.Name = name
			}
			if c.Name == "" {
				c.Name = strings.TrimSuffix(filepath.Base(path), ext)
			}
			s, err := a.library()
			if err != nil {
				return err
			}
			if signal {
				return s.SaveSignal(c.Name, c.Signal)
			}
			return s.SaveCue(c)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "library name (default the name in the file)")
	cmd.Flags().BoolVar(&signal, "signal", false, "import as a reusable signal")
	return cmd
}

func (a *app) exprCmd() *cobra.Command {
	var envelope float64
	cmd := &cobra.Command{
		Use:   "expr NAME FORMULA",
		Short: "Save a cue computed from a formula of t",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := tact.NewExpression(args[1])
			if err != nil {
				return err
			}
			if envelope > 0 {
				sig = tact.Mul(sig, tact.NewEnvelope(envelope, 1))
			}
			s, err := a.library()
			if err != nil {
				return err
			}
			return s.SaveCue(serial.Cue{Name: args[0], Signal: sig})
		},
	}
	cmd.Flags().Float64Var(&envelope, "duration", 0, "gate the formula with an envelope of this many seconds")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a cue and signal from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.library()
			if err != nil {
				return err
			}
			return s.Delete(args[0])
		},
	}
}

func (a *app) playCmd() *cobra.Command {
	var channel int
	cmd := &cobra.Command{
		Use:   "play NAME",
		Short: "Play a cue until it ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCue(args[0])
			if err != nil {
				return err
			}
			p, err := playback.Open(playback.Config{
				SampleRate: a.cfg.SampleRate,
				BufferSize: a.cfg.BufferSize,
				Channels:   a.cfg.Channels,
				Logger:     a.log,
			})
			if err != nil {
				return err
			}
			defer p.Close()
			id, err := p.Play(channel, c.Signal)
			if err != nil {
				return err
			}
			if !c.Signal.Bounded() {
				fmt.Fprintln(a.out, "playing an endless cue; interrupt to stop")
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if err := p.Wait(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&channel, "channel", "c", 0, "output channel")
	return cmd
}

func (a *app) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio output devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devs, err := playback.Devices()
			if err != nil {
				return err
			}
			for _, d := range devs {
				mark := " "
				if d.Default {
					mark = "*"
				}
				fmt.Fprintf(a.out, "%s %-40s %-12s %2d ch  %g Hz\n", mark, d.Name, d.HostAPI, d.Channels, d.DefaultSampleRate)
			}
			return nil
		},
	}
}
