// Package catalog is the static registry of practice intervals. The table is
// defined at build time and never mutated; interval ids double as storage keys.
package catalog

// Interval is a named musical distance between a root pitch and a second pitch.
type Interval struct {
	// ID is the stable identifier used as a storage key.
	ID string

	// Name is the short machine-ish name ("perfect_fifth" → "Perfect Fifth").
	Name string

	// Semitones is the distance above the root. Pairwise distinct across the
	// catalog.
	Semitones int

	// UnlockPhase is the first phase at which the interval becomes active.
	UnlockPhase int

	// DisplayName is the label shown on answer choices.
	DisplayName string
}
