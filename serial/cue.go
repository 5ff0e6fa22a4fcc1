// Package serial persists cues: named signal trees.
//
// Three encodings are supported.  Binary is compact; JSON and YAML are
// readable and diffable.  All three carry a format tag and a version, and
// decoding either returns a complete Cue or an error, never a partial tree.
//
//	b, err := serial.Marshal(serial.Cue{Name: "buzz", Signal: sig}, serial.JSON)
//	if err != nil {
//		// handle error
//	}
//	cue, err := serial.Unmarshal(b, serial.JSON)
package serial

import "github.com/sandeepzgk/tact"

const (
	// Version is the current encoding version.
	Version = 1

	tag   = "tact"
	magic = "TACT"
)

// Cue is a named signal tree.
type Cue struct {
	Name   string
	Signal tact.Signal
}

type document struct {
	Format  string    `json:"format" yaml:"format"`
	Version int       `json:"version" yaml:"version"`
	Name    string    `json:"name" yaml:"name"`
	Signal  signalDoc `json:"signal" yaml:"signal"`
}

func newDocument(c Cue) (document, error) {
	sd, err := toDoc(c.Signal)
	if err != nil {
		return document{}, err
	}
	return document{Format: tag, Version: Version, Name: c.Name, Signal: sd}, nil
}

func (d document) cue() (Cue, error) {
	s, err := fromDoc(d.Signal, 0)
	if err != nil {
		return Cue{}, err
	}
	return Cue{Name: d.Name, Signal: s}, nil
}
