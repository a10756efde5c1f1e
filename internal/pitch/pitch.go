// Package pitch converts note names and semitone offsets into equal-temperament
// frequencies, anchored at A4 = 440 Hz.
package pitch

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ReferenceOctave is the octave in which root keys are voiced.
const ReferenceOctave = 4

// a4Hz is the concert pitch anchor; midiA4 is its MIDI note number.
const (
	a4Hz   = 440.0
	midiA4 = 69
)

var (
	ErrUnknownKey    = errors.New("unknown key name")
	ErrInvalidOffset = errors.New("negative semitone offset")
)

// keyOrder lists the twelve chromatic key names in ascending order from C.
var keyOrder = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var keyIndex = func() map[string]int {
	m := make(map[string]int, len(keyOrder))
	for i, k := range keyOrder {
		m[k] = i
	}
	return m
}()

// Keys returns the canonical ordered list of root key names.
func Keys() []string {
	return slices.Clone(keyOrder)
}

// RootFrequency returns the frequency in Hz of the named key in the reference
// octave. Key names are a letter with an optional sharp ("C", "F#");
// lowercase input is accepted.
func RootFrequency(key string) (float64, error) {
	idx, ok := keyIndex[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	midi := (ReferenceOctave+1)*12 + idx
	return a4Hz * math.Pow(2, float64(midi-midiA4)/12), nil
}

// IntervalFrequency returns the frequency semitones above rootHz:
// rootHz * 2^(semitones/12).
func IntervalFrequency(rootHz float64, semitones int) (float64, error) {
	if semitones < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOffset, semitones)
	}
	return rootHz * math.Pow(2, float64(semitones)/12), nil
}
