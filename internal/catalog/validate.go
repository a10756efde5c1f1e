package catalog

import "fmt"

// validateIntervals checks the structural invariants of an interval table:
// non-empty, unique ids, pairwise distinct semitone offsets, sensible phases.
func validateIntervals(intervals []Interval) error {
	if len(intervals) == 0 {
		return fmt.Errorf("empty interval table")
	}

	seenID := make(map[string]bool, len(intervals))
	seenOffset := make(map[int]string, len(intervals))
	for _, iv := range intervals {
		if iv.ID == "" {
			return fmt.Errorf("interval with empty id")
		}
		if seenID[iv.ID] {
			return fmt.Errorf("duplicate interval id %q", iv.ID)
		}
		seenID[iv.ID] = true

		if iv.Semitones < 0 {
			return fmt.Errorf("interval %q has negative semitone offset %d", iv.ID, iv.Semitones)
		}
		if other, ok := seenOffset[iv.Semitones]; ok {
			return fmt.Errorf("intervals %q and %q share semitone offset %d", other, iv.ID, iv.Semitones)
		}
		seenOffset[iv.Semitones] = iv.ID

		if iv.UnlockPhase < 1 {
			return fmt.Errorf("interval %q has unlock phase %d, want >= 1", iv.ID, iv.UnlockPhase)
		}
		if iv.DisplayName == "" {
			return fmt.Errorf("interval %q has no display name", iv.ID)
		}
	}
	return nil
}
