package anim

import (
	"log/slog"
	"sync"
)

// Renderer draws the frame for timestamp t.
type Renderer func(t float64) error

// Loop reschedules a Renderer every frame while it is running and visible.
// Stopping cancels the pending callback immediately; hiding the loop pauses
// scheduling without touching whatever the Renderer has prepared.
type Loop struct {
	mu     sync.Mutex
	sched  Scheduler
	render Renderer
	logger *slog.Logger

	running   bool
	visible   bool
	handle    Handle // pending callback, 0 when none
	frames    int
	lastTime  float64
	lastError error
}

// NewLoop creates a stopped, visible loop.
func NewLoop(s Scheduler, render Renderer, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{sched: s, render: render, logger: logger, visible: true}
}

// Start begins scheduling frames. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.lastError = nil
	l.scheduleLocked()
}

// Stop cancels the pending frame. No frame runs after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.running = false
	l.cancelLocked()
}

// SetVisible pauses scheduling while the host is hidden and resumes it when
// the host is shown again and the loop is running.
func (l *Loop) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.visible == visible {
		return
	}
	l.visible = visible
	if !visible {
		l.cancelLocked()
		return
	}
	l.scheduleLocked()
}

func (l *Loop) scheduleLocked() {
	if !l.running || !l.visible || l.handle != 0 {
		return
	}
	var h Handle
	h = l.sched.Schedule(func(t float64) { l.tick(h, t) })
	l.handle = h
}

func (l *Loop) cancelLocked() {
	if l.handle != 0 {
		l.sched.Cancel(l.handle)
		l.handle = 0
	}
}

func (l *Loop) tick(h Handle, t float64) {
	l.mu.Lock()
	if l.handle != h || !l.running || !l.visible {
		l.mu.Unlock()
		return
	}
	l.handle = 0
	l.lastTime = t
	render := l.render
	l.mu.Unlock()

	err := render(t)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames++
	if err != nil {
		l.lastError = err
		l.running = false
		l.logger.Error("animation stopped", "err", err, "frames", l.frames)
		return
	}
	l.scheduleLocked()
}

// Running reports whether the loop has been started and not stopped.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Visible reports the last visibility set.
func (l *Loop) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Frames returns the number of frames rendered.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// LastTime returns the timestamp of the most recent frame, for redrawing a
// still after the loop stops.
func (l *Loop) LastTime() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastTime
}

// Err returns the error that stopped the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastError
}
