package renderer

import "sync"

// Token identifies one armed transition. A Token from a superseded or cancelled transition
// no longer fires anything.
type Token uint64

// Callbacks enforces the at-most-once delivery of a transition's callbacks.
// The zero value is ready to use.
type Callbacks struct {
	mu sync.Mutex

	current    Token
	onFirst    func()
	onComplete func()
}

// Arm installs the callbacks of t, replacing (and silencing) any previously armed transition.
//
// Parameters:
//   - t: the transition whose callbacks to arm
//
// Returns:
//   - Token: the identifier to pass to FirstFrame and Complete
func (c *Callbacks) Arm(t Transition) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	c.onFirst = t.OnFirstFrameRendered
	c.onComplete = t.OnComplete
	return c.current
}

// FirstFrame fires OnFirstFrameRendered for tok if it is still current and has not fired yet.
// The callback runs without the lock held, so it may re-arm.
//
// Parameters:
//   - tok: the token returned by Arm
//
// Returns:
//   - bool: true if this call fired the callback
func (c *Callbacks) FirstFrame(tok Token) bool {
	c.mu.Lock()
	if tok != c.current || c.onFirst == nil {
		c.mu.Unlock()
		return false
	}
	fn := c.onFirst
	c.onFirst = nil
	c.mu.Unlock()

	fn()
	return true
}

// Complete fires OnComplete for tok if it is still current and has not fired yet.
// A pending first-frame callback for the same token is dropped.
//
// Parameters:
//   - tok: the token returned by Arm
//
// Returns:
//   - bool: true if this call fired the callback
func (c *Callbacks) Complete(tok Token) bool {
	c.mu.Lock()
	if tok != c.current || c.onComplete == nil {
		c.mu.Unlock()
		return false
	}
	fn := c.onComplete
	c.onComplete = nil
	c.onFirst = nil
	c.mu.Unlock()

	fn()
	return true
}

// Disarm silences the current transition. Nothing armed before this call fires afterwards.
func (c *Callbacks) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	c.onFirst = nil
	c.onComplete = nil
}

// Pending reports whether tok still has an undelivered callback.
func (c *Callbacks) Pending(tok Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tok == c.current && (c.onFirst != nil || c.onComplete != nil)
}
