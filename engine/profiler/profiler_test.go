package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	var buf bytes.Buffer
	p := NewProfiler(
		WithClock(func() time.Time { return now }),
		WithInterval(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)

	for range 29 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, buf.String())

	// The 30th frame lands exactly on the interval.
	now = now.Add(time.Second - 29*(time.Second/60))
	assert.True(t, p.Tick())

	stats := p.Last()
	assert.Equal(t, 30, stats.Frames)
	assert.InDelta(t, 30.0, stats.FPS, 0.01)
	assert.Greater(t, stats.SysMB, 0.0)
	assert.Contains(t, buf.String(), "msg=\"frame stats\"")
	assert.Contains(t, buf.String(), "fps=")
	assert.Contains(t, buf.String(), "frames=30")

	// The counter restarts after a report.
	now = now.Add(time.Millisecond)
	assert.False(t, p.Tick())
}

func TestDefaultsAreSilent(t *testing.T) {
	p := NewProfiler(WithInterval(-1))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
}
