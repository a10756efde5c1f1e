package session

import (
	"github.com/pentatonicway/ear-trainer/internal/audio"
	"github.com/pentatonicway/ear-trainer/internal/screens/summary"
)

// runStartedMsg is sent when the run has been configured and started.
type runStartedMsg struct {
	Err error
}

// cueMsg carries a playback cue drained from the audio notifier.
type cueMsg audio.Cue

// runSavedMsg is sent when the finished run has been persisted and the
// summary payload assembled.
type runSavedMsg struct {
	Data summary.Data
	Err  error
}
