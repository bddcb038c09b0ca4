// Package anim drives per-frame callbacks through an explicit scheduler so
// animation ordering and cancellation can be tested without a display.
package anim

import (
	"sort"
	"sync"
)

// FrameFunc is called with the scheduler's timestamp in seconds.
type FrameFunc func(t float64)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler runs each scheduled callback once, on the next frame. Schedule
// must not call fn before returning.
type Scheduler interface {
	Schedule(fn FrameFunc) Handle
	// Cancel removes a pending callback. Cancelling a fired or unknown
	// handle is a no-op.
	Cancel(h Handle)
}

// ManualScheduler fires pending callbacks when Advance is called. It backs
// tests and the viewer, which advances it once per display refresh.
type ManualScheduler struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]FrameFunc
	now     float64
}

// NewManualScheduler returns an empty scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[Handle]FrameFunc)}
}

// Schedule queues fn for the next Advance.
func (s *ManualScheduler) Schedule(fn FrameFunc) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// Cancel drops a pending callback.
func (s *ManualScheduler) Cancel(h Handle) {
	s.mu.Lock()
	delete(s.pending, h)
	s.mu.Unlock()
}

// Pending reports how many callbacks wait for the next Advance.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Now returns the timestamp of the last Advance.
func (s *ManualScheduler) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock to t and fires the callbacks pending at the time
// of the call, in scheduling order. Callbacks scheduled while firing wait for
// the next Advance, and a callback cancelled by an earlier one in the same
// batch does not run. It returns the number of callbacks fired.
func (s *ManualScheduler) Advance(t float64) int {
	s.mu.Lock()
	s.now = t
	handles := make([]Handle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	s.mu.Unlock()
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	fired := 0
	for _, h := range handles {
		s.mu.Lock()
		fn, ok := s.pending[h]
		delete(s.pending, h)
		s.mu.Unlock()
		if !ok {
			continue
		}
		fn(t)
		fired++
	}
	return fired
}

// FixedStepScheduler advances a ManualScheduler at a fixed frame rate for
// offline rendering. Frame n fires at n/FPS seconds.
type FixedStepScheduler struct {
	*ManualScheduler
	fps   float64
	frame int
}

// NewFixedStepScheduler returns a scheduler stepping at fps frames per
// second. Non-positive rates fall back to 30.
func NewFixedStepScheduler(fps float64) *FixedStepScheduler {
	if fps <= 0 {
		fps = 30
	}
	return &FixedStepScheduler{ManualScheduler: NewManualScheduler(), fps: fps}
}

// FPS returns the step rate.
func (s *FixedStepScheduler) FPS() float64 { return s.fps }

// Step fires the pending callbacks for the next frame and reports whether
// any ran.
func (s *FixedStepScheduler) Step() bool {
	t := float64(s.frame) / s.fps
	s.frame++
	return s.Advance(t) > 0
}

// Run steps until frames callbacks have fired or nothing is pending.
// It returns the number of steps that fired a callback.
func (s *FixedStepScheduler) Run(frames int) int {
	n := 0
	for n < frames && s.Pending() > 0 {
		if s.Step() {
			n++
		}
	}
	return n
}
