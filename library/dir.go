package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandeepzgk/tact"
	"github.com/sandeepzgk/tact/serial"
)

const signalsDir = "signals"

// Dir is a Store keeping one file per entry.  Cues live directly in Path,
// signals in its signals subdirectory.  New entries are written in Format;
// existing entries are read in whatever format their extension names.
type Dir struct {
	Path   string
	Format serial.Format
	Logger *slog.Logger
}

// OpenDir returns a Dir rooted at path, creating it if needed.
func OpenDir(path string, f serial.Format) (*Dir, error) {
	if err := os.MkdirAll(filepath.Join(path, signalsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create library %s: %w", path, err)
	}
	return &Dir{Path: path, Format: f}, nil
}

func (d *Dir) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Dir) dir(signal bool) string {
	if signal {
		return filepath.Join(d.Path, signalsDir)
	}
	return d.Path
}

// SaveCue writes c under c.Name.
func (d *Dir) SaveCue(c serial.Cue) error {
	return d.save(false, c)
}

// SaveSignal writes s under name.
func (d *Dir) SaveSignal(name string, s tact.Signal) error {
	return d.save(true, serial.Cue{Name: name, Signal: s})
}

func (d *Dir) save(signal bool, c serial.Cue) error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	b, err := serial.Marshal(c, d.Format)
	if err != nil {
		return err
	}
	dir := d.dir(signal)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	path := filepath.Join(dir, c.Name+d.Format.Ext())
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %q: %w", c.Name, err)
	}
	// Drop copies of the same entry in other formats so loads are unambiguous.
	for _, f := range serial.Formats() {
		if f != d.Format {
			os.Remove(filepath.Join(dir, c.Name+f.Ext()))
		}
	}
	d.logger().Debug("library save", "name", c.Name, "signal", signal, "path", path)
	return nil
}

// LoadCue reads the cue stored under name.
func (d *Dir) LoadCue(name string) (serial.Cue, error) {
	return d.load(false, name)
}

// LoadSignal reads the signal stored under name.
func (d *Dir) LoadSignal(name string) (tact.Signal, error) {
	c, err := d.load(true, name)
	if err != nil {
		return tact.Signal{}, err
	}
	return c.Signal, nil
}

func (d *Dir) load(signal bool, name string) (serial.Cue, error) {
	if err := ValidateName(name); err != nil {
		return serial.Cue{}, err
	}
	path, f, err := d.find(signal, name)
	if err != nil {
		return serial.Cue{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return serial.Cue{}, fmt.Errorf("load %q: %w", name, err)
	}
	defer file.Close()
	c, err := serial.Decode(file, f)
	if err != nil {
		return serial.Cue{}, fmt.Errorf("load %q: %w", name, err)
	}
	c.Name = name
	d.logger().Debug("library load", "name", name, "signal", signal, "path", path)
	return c, nil
}

// find locates name in any format, preferring d.Format.
func (d *Dir) find(signal bool, name string) (string, serial.Format, error) {
	order := append([]serial.Format{d.Format}, serial.Formats()...)
	for _, f := range order {
		path := filepath.Join(d.dir(signal), name+f.Ext())
		if fileExists(path) {
			return path, f, nil
		}
	}
	if path := filepath.Join(d.dir(signal), name+".yml"); fileExists(path) {
		return path, serial.YAML, nil
	}
	return "", 0, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns the cue names in the library.
func (d *Dir) List() ([]string, error) {
	return d.names(false)
}

// ListSignals returns the signal names in the library.
func (d *Dir) ListSignals() ([]string, error) {
	return d.names(true)
}

func (d *Dir) names(signal bool) ([]string, error) {
	entries, err := os.ReadDir(d.dir(signal))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := entryName(e.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// entryName returns the library name of a file, if it is a library entry.
func entryName(file string) (string, bool) {
	if strings.HasPrefix(file, ".") {
		return "", false
	}
	ext := filepath.Ext(file)
	if _, ok := serial.FormatFromExt(ext); !ok {
		return "", false
	}
	return strings.TrimSuffix(file, ext), true
}

// Delete removes every file stored under name.
func (d *Dir) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	found := false
	for _, signal := range []bool{false, true} {
		for _, f := range serial.Formats() {
			err := os.Remove(filepath.Join(d.dir(signal), name+f.Ext()))
			switch {
			case err == nil:
				found = true
			case !errors.Is(err, fs.ErrNotExist):
				return fmt.Errorf("delete %q: %w", name, err)
			}
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close is a no-op.
func (d *Dir) Close() error { return nil }
