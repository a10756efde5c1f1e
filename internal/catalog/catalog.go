package catalog

import (
	"slices"
	"sort"
)

// registry holds the interval table with precomputed indices.
type registry struct {
	intervals []Interval // ascending by semitone offset
	byID      map[string]*Interval
	maxPhase  int
}

// reg is the package-level registry singleton, set by init() in seed.go.
var reg *registry

// buildRegistry validates the table and constructs the indices.
func buildRegistry(intervals []Interval) (*registry, error) {
	if err := validateIntervals(intervals); err != nil {
		return nil, err
	}

	sorted := slices.Clone(intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Semitones < sorted[j].Semitones
	})

	r := &registry{
		intervals: sorted,
		byID:      make(map[string]*Interval, len(sorted)),
	}
	for i := range r.intervals {
		r.byID[r.intervals[i].ID] = &r.intervals[i]
		if r.intervals[i].UnlockPhase > r.maxPhase {
			r.maxPhase = r.intervals[i].UnlockPhase
		}
	}
	return r, nil
}

// ByID returns the interval with the given id.
func ByID(id string) (Interval, bool) {
	iv, ok := reg.byID[id]
	if !ok {
		return Interval{}, false
	}
	return *iv, true
}

// All returns every interval, ascending by semitone offset.
func All() []Interval {
	return slices.Clone(reg.intervals)
}

// ForPhase returns the intervals active at the given phase, ascending by
// semitone offset. A phase at or below zero yields no intervals; each higher
// phase yields a superset of the previous one.
func ForPhase(phase int) []Interval {
	var out []Interval
	for _, iv := range reg.intervals {
		if iv.UnlockPhase <= phase {
			out = append(out, iv)
		}
	}
	return out
}

// MaxPhase returns the highest unlock phase present in the table.
func MaxPhase() int {
	return reg.maxPhase
}
