package serial

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sandeepzgk/tact"
)

// Encode writes c to w in format f.
func Encode(w io.Writer, c Cue, f Format) error {
	doc, err := newDocument(c)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	switch f {
	case Binary:
		var hdr [len(magic) + 2]byte
		copy(hdr[:], magic)
		binary.BigEndian.PutUint16(hdr[len(magic):], Version)
		if _, err := bw.Write(hdr[:]); err != nil {
			return err
		}
		err = gob.NewEncoder(bw).Encode(doc)
	case JSON:
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(bw)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("%w: %d", ErrFormat, int(f))
	}
	if err != nil {
		return fmt.Errorf("encode %s cue %q: %w", f, c.Name, err)
	}
	return bw.Flush()
}

// Marshal renders c to bytes in format f.
func Marshal(c Cue, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a cue in format f from r.
func Decode(r io.Reader, f Format) (Cue, error) {
	var doc document
	switch f {
	case Binary:
		var hdr [len(magic) + 2]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return Cue{}, fmt.Errorf("%w: short header: %v", ErrCorrupt, err)
		}
		if string(hdr[:len(magic)]) != magic {
			return Cue{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
		}
		if v := binary.BigEndian.Uint16(hdr[len(magic):]); v != Version {
			return Cue{}, fmt.Errorf("%w: %d", ErrVersion, v)
		}
		if err := gob.NewDecoder(r).Decode(&doc); err != nil {
			return Cue{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		doc.Format = tag
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Cue{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return Cue{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	default:
		return Cue{}, fmt.Errorf("%w: %d", ErrFormat, int(f))
	}
	if doc.Format != tag {
		return Cue{}, fmt.Errorf("%w: format tag %q", ErrCorrupt, doc.Format)
	}
	if doc.Version != Version {
		return Cue{}, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	return doc.cue()
}

// Unmarshal parses a cue in format f.
func Unmarshal(b []byte, f Format) (Cue, error) {
	return Decode(bytes.NewReader(b), f)
}

// EncodeSignal writes a standalone library signal.  Signals share the cue
// document layout, with the library name in the name field.
func EncodeSignal(w io.Writer, name string, s tact.Signal, f Format) error {
	return Encode(w, Cue{Name: name, Signal: s}, f)
}

// DecodeSignal reads a signal written by EncodeSignal.
func DecodeSignal(r io.Reader, f Format) (tact.Signal, error) {
	c, err := Decode(r, f)
	if err != nil {
		return tact.Signal{}, err
	}
	return c.Signal, nil
}
