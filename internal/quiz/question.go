// Package quiz produces practice questions and full session question lists,
// in uniform and accuracy-weighted modes.
package quiz

// Question is one practice item: a root pitch plus an interval above it,
// resolved to physical frequencies. Immutable once created.
type Question struct {
	RootKey    string
	IntervalID string
	RootHz     float64
	IntervalHz float64
}
