package serial

import (
	"fmt"
	"strings"
)

// Format selects a cue encoding.
type Format int

const (
	// Binary is a compact gob encoding behind a magic header.
	Binary Format = iota
	// JSON is human readable.
	JSON
	// YAML is human readable and hand editable.
	YAML
)

var formats = [...]struct{ name, ext string }{
	Binary: {"binary", ".tact"},
	JSON:   {"json", ".json"},
	YAML:   {"yaml", ".yaml"},
}

// Formats lists all formats.
func Formats() []Format { return []Format{Binary, JSON, YAML} }

func (f Format) valid() bool { return f >= 0 && int(f) < len(formats) }

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].name
}

// Ext returns the file extension used for f, including the dot.
func (f Format) Ext() string {
	if !f.valid() {
		return ""
	}
	return formats[f].ext
}

// ParseFormat parses a format name such as "json".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, f := range formats {
		if s == f.name || s == strings.TrimPrefix(f.ext, ".") {
			return Format(i), nil
		}
	}
	if s == "yml" {
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

// FormatFromExt returns the format whose extension is ext.
func FormatFromExt(ext string) (Format, bool) {
	for i, f := range formats {
		if strings.EqualFold(ext, f.ext) {
			return Format(i), true
		}
	}
	if strings.EqualFold(ext, ".yml") {
		return YAML, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrFormat, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	v, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
