package catalog

// seedIntervals defines the full interval table. Ordering here follows the
// unlock curriculum: stable anchors first (root, fifth, octave), then
// progressively harder distinctions. Changing this table is a data migration.
var seedIntervals = []Interval{
	{ID: "root", Name: "root", Semitones: 0, UnlockPhase: 1, DisplayName: "Root"},
	{ID: "perfect_fifth", Name: "perfect_fifth", Semitones: 7, UnlockPhase: 1, DisplayName: "Perfect 5th"},
	{ID: "octave", Name: "octave", Semitones: 12, UnlockPhase: 1, DisplayName: "Octave"},
	{ID: "perfect_fourth", Name: "perfect_fourth", Semitones: 5, UnlockPhase: 2, DisplayName: "Perfect 4th"},
	{ID: "major_third", Name: "major_third", Semitones: 4, UnlockPhase: 3, DisplayName: "Major 3rd"},
	{ID: "minor_third", Name: "minor_third", Semitones: 3, UnlockPhase: 4, DisplayName: "Minor 3rd"},
	{ID: "major_sixth", Name: "major_sixth", Semitones: 9, UnlockPhase: 5, DisplayName: "Major 6th"},
	{ID: "minor_sixth", Name: "minor_sixth", Semitones: 8, UnlockPhase: 6, DisplayName: "Minor 6th"},
	{ID: "major_second", Name: "major_second", Semitones: 2, UnlockPhase: 7, DisplayName: "Major 2nd"},
	{ID: "minor_second", Name: "minor_second", Semitones: 1, UnlockPhase: 8, DisplayName: "Minor 2nd"},
	{ID: "major_seventh", Name: "major_seventh", Semitones: 11, UnlockPhase: 9, DisplayName: "Major 7th"},
	{ID: "minor_seventh", Name: "minor_seventh", Semitones: 10, UnlockPhase: 10, DisplayName: "Minor 7th"},
	{ID: "tritone", Name: "tritone", Semitones: 6, UnlockPhase: 10, DisplayName: "Tritone"},
}

func init() {
	r, err := buildRegistry(seedIntervals)
	if err != nil {
		panic("catalog: invalid interval seed: " + err.Error())
	}
	reg = r
}
