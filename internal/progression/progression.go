// Package progression decides when the learner unlocks the next content phase
// and which intervals are active for a phase.
package progression

import (
	"sort"

	"github.com/pentatonicway/ear-trainer/internal/catalog"
)

// Unlock rule: the three most recent sessions must each reach 80% accuracy.
// Phases stop at 10. These values mirror the shipped behavior and are not
// configurable.
const (
	PhaseCap          = 10
	sessionsRequired  = 3
	accuracyThreshold = 0.80
)

// SessionScore is the score/total pair of one completed session.
type SessionScore struct {
	Score int
	Total int
}

// accuracy returns score/total, treating an empty session as 0%.
func (s SessionScore) accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// CheckUnlock inspects the most recent sessions (newest first) and reports
// whether the next phase unlocks. Exactly the first three entries are
// considered; older sessions are ignored. Returns (0, false) when the phase
// cap is reached or fewer than three sessions exist.
func CheckUnlock(recent []SessionScore, currentPhase int) (int, bool) {
	if currentPhase >= PhaseCap {
		return 0, false
	}
	if len(recent) < sessionsRequired {
		return 0, false
	}
	for _, s := range recent[:sessionsRequired] {
		if s.accuracy() < accuracyThreshold {
			return 0, false
		}
	}
	return currentPhase + 1, true
}

// ActiveIntervals resolves the practice set for a phase. A non-empty custom id
// list is filtered to ids valid for the phase; if anything survives, that
// selection wins. Otherwise the full catalog set for the phase applies.
func ActiveIntervals(phase int, customIDs []string) []catalog.Interval {
	if len(customIDs) > 0 {
		var selected []catalog.Interval
		for _, id := range customIDs {
			iv, ok := catalog.ByID(id)
			if ok && iv.UnlockPhase <= phase {
				selected = append(selected, iv)
			}
		}
		if len(selected) > 0 {
			sort.Slice(selected, func(i, j int) bool {
				return selected[i].Semitones < selected[j].Semitones
			})
			return selected
		}
	}
	return catalog.ForPhase(phase)
}

// ActiveIntervalIDs is ActiveIntervals reduced to ids, in the same order.
func ActiveIntervalIDs(phase int, customIDs []string) []string {
	intervals := ActiveIntervals(phase, customIDs)
	ids := make([]string, len(intervals))
	for i, iv := range intervals {
		ids[i] = iv.ID
	}
	return ids
}
