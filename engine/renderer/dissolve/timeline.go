package dissolve

import "time"

// DefaultDuration is the length of a dissolve when none is configured.
const DefaultDuration = 1200 * time.Millisecond

// Clock returns the current time. Tests substitute a manual clock.
type Clock func() time.Time

// Step is the outcome of one Timeline.Advance.
type Step struct {
	// Progress is the elapsed fraction of the timeline, in [0,1].
	Progress float64
	// FirstFrame is true only for the first Advance after Reset.
	FirstFrame bool
	// Completed is true only for the first Advance that reaches Progress 1.
	Completed bool
}

// Timeline maps wall-clock time onto dissolve progress. It starts on the first Advance after
// Reset, so time spent before the first frame is not counted.
type Timeline struct {
	duration time.Duration
	start    time.Time
	started  bool
	finished bool
}

// NewTimeline creates a stopped timeline. A non-positive duration completes on the first Advance.
func NewTimeline(duration time.Duration) *Timeline {
	return &Timeline{duration: duration}
}

// Duration returns the configured length.
func (t *Timeline) Duration() time.Duration { return t.duration }

// Started reports whether Advance has run since the last Reset.
func (t *Timeline) Started() bool { return t.started }

// Finished reports whether the timeline has reached the end since the last Reset.
func (t *Timeline) Finished() bool { return t.finished }

// Reset stops the timeline. The next Advance starts it again.
func (t *Timeline) Reset() {
	t.started = false
	t.finished = false
	t.start = time.Time{}
}

// Advance moves the timeline to now.
//
// Parameters:
//   - now: the current time
//
// Returns:
//   - Step: the progress plus the edges crossed by this call
func (t *Timeline) Advance(now time.Time) Step {
	var step Step
	if !t.started {
		t.started = true
		t.start = now
		step.FirstFrame = true
	}

	step.Progress = 1
	if t.duration > 0 {
		step.Progress = min(max(float64(now.Sub(t.start))/float64(t.duration), 0), 1)
	}

	if step.Progress >= 1 && !t.finished {
		t.finished = true
		step.Completed = true
	}
	return step
}
