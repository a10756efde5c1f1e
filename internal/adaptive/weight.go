// Package adaptive biases question selection toward intervals the learner is
// struggling with. Accuracy maps to one of three fixed weights, and weighted
// selection is done by repeating each id weight times in a pool and drawing
// uniformly from it.
package adaptive

// Sampling weights by accuracy bracket. Boundaries are inclusive on the lower
// edge of each bracket: exactly 0.5 is developing, exactly 0.8 is mastered.
const (
	WeightMastered   = 1 // accuracy >= 0.8
	WeightDeveloping = 3 // 0.5 <= accuracy < 0.8
	WeightStruggling = 5 // accuracy < 0.5
	WeightNoData     = 3 // no recorded attempts
)

// WeightFor maps a recorded accuracy ratio to its sampling weight.
func WeightFor(accuracy float64) int {
	switch {
	case accuracy >= 0.8:
		return WeightMastered
	case accuracy >= 0.5:
		return WeightDeveloping
	default:
		return WeightStruggling
	}
}
