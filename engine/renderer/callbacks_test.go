package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	first, complete int
}

func (c *counter) transition() Transition {
	return Transition{
		OnFirstFrameRendered: func() { c.first++ },
		OnComplete:           func() { c.complete++ },
	}
}

func TestCallbacksFireAtMostOnce(t *testing.T) {
	var cb Callbacks
	var c counter
	tok := cb.Arm(c.transition())

	assert.True(t, cb.FirstFrame(tok))
	assert.False(t, cb.FirstFrame(tok))
	assert.True(t, cb.Complete(tok))
	assert.False(t, cb.Complete(tok))
	assert.False(t, cb.FirstFrame(tok))

	assert.Equal(t, 1, c.first)
	assert.Equal(t, 1, c.complete)
	assert.False(t, cb.Pending(tok))
}

func TestCallbacksSupersededTokenIsInert(t *testing.T) {
	var cb Callbacks
	var old, next counter

	oldTok := cb.Arm(old.transition())
	nextTok := cb.Arm(next.transition())

	assert.False(t, cb.FirstFrame(oldTok))
	assert.False(t, cb.Complete(oldTok))
	assert.True(t, cb.FirstFrame(nextTok))
	assert.True(t, cb.Complete(nextTok))

	assert.Equal(t, counter{}, old)
	assert.Equal(t, counter{first: 1, complete: 1}, next)
}

func TestCallbacksDisarmSilencesEverything(t *testing.T) {
	var cb Callbacks
	var c counter
	tok := cb.Arm(c.transition())

	cb.Disarm()

	assert.False(t, cb.Pending(tok))
	assert.False(t, cb.FirstFrame(tok))
	assert.False(t, cb.Complete(tok))
	assert.Equal(t, counter{}, c)
}

func TestCallbacksDisarmBeforeArm(t *testing.T) {
	var cb Callbacks
	assert.NotPanics(t, cb.Disarm)
}

func TestCallbacksCompleteDropsPendingFirstFrame(t *testing.T) {
	var cb Callbacks
	var c counter
	tok := cb.Arm(c.transition())

	cb.Complete(tok)

	assert.False(t, cb.FirstFrame(tok))
	assert.Equal(t, counter{complete: 1}, c)
}

func TestCallbacksNilFunctionsTolerated(t *testing.T) {
	var cb Callbacks
	tok := cb.Arm(Transition{})

	assert.False(t, cb.Pending(tok))
	assert.False(t, cb.FirstFrame(tok))
	assert.False(t, cb.Complete(tok))
}

func TestCallbacksRearmFromInsideCallback(t *testing.T) {
	var cb Callbacks
	var next counter
	var nextTok Token

	tok := cb.Arm(Transition{
		OnComplete: func() { nextTok = cb.Arm(next.transition()) },
	})

	assert.True(t, cb.Complete(tok))
	assert.True(t, cb.Pending(nextTok))
	assert.True(t, cb.Complete(nextTok))
	assert.Equal(t, 1, next.complete)
}
