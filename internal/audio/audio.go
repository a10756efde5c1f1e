// Package audio is the playback boundary. The quiz engine emits playback
// cues through a Trigger; rendering the tones is the frontend's job.
package audio

// Cue is one playback request: the root tone and the interval tone above it.
type Cue struct {
	RootHz     float64
	IntervalHz float64
}

// Notifier forwards cues onto a channel so a UI event loop can pick them up.
// Sends never block: when the buffer is full the cue is dropped, since a
// stale playback request is worthless by the time the consumer catches up.
type Notifier struct {
	cues chan Cue
}

// NewNotifier returns a Notifier with the given channel buffer size.
func NewNotifier(buffer int) *Notifier {
	if buffer < 1 {
		buffer = 1
	}
	return &Notifier{cues: make(chan Cue, buffer)}
}

// Play queues a cue for the consumer.
func (n *Notifier) Play(rootHz, intervalHz float64) {
	select {
	case n.cues <- Cue{RootHz: rootHz, IntervalHz: intervalHz}:
	default:
	}
}

// Cues returns the channel the consumer drains.
func (n *Notifier) Cues() <-chan Cue {
	return n.cues
}

// Nop discards all cues. Used in headless contexts and tests.
type Nop struct{}

func (Nop) Play(rootHz, intervalHz float64) {}
