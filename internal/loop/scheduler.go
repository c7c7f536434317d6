// Package loop drives a game from a frame host: it schedules simulation
// steps, repeats fire while the trigger is held, persists results and runs
// terminal sessions.
package loop

import "time"

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameFunc is called once with the frame's timestamp.
type FrameFunc func(now time.Time)

// Host provides frame callbacks and serialises posted work with them.
// All callbacks and posted functions run on a single goroutine.
type Host interface {
	// RequestFrame schedules fn for the next frame.
	RequestFrame(fn FrameFunc) FrameID
	// CancelFrame drops a pending request. Unknown IDs are ignored.
	CancelFrame(id FrameID)
	// Post runs fn on the host goroutine. Returns false if the host has stopped.
	Post(fn func()) bool
}

// Scheduler re-arms a frame request after every frame and steps with the
// real time elapsed since the previous frame. The first frame only
// records the baseline.
type Scheduler struct {
	host Host
	step func(delta time.Duration)

	running bool
	pending FrameID
	last    time.Time
	hasLast bool
}

// NewScheduler creates a stopped scheduler calling step on every frame after the first.
func NewScheduler(host Host, step func(delta time.Duration)) *Scheduler {
	return &Scheduler{host: host, step: step}
}

// Start requests the first frame. Starting a running scheduler does nothing.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.hasLast = false
	s.pending = s.host.RequestFrame(s.onFrame)
}

// Stop cancels the pending frame. No step runs after Stop returns.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.host.CancelFrame(s.pending)
}

// Running reports whether frames are being requested.
func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) onFrame(now time.Time) {
	if !s.running {
		return
	}
	if s.hasLast {
		s.step(now.Sub(s.last))
	}
	s.last = now
	s.hasLast = true
	// step may have stopped us.
	if s.running {
		s.pending = s.host.RequestFrame(s.onFrame)
	}
}
