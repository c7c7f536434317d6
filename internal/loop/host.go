package loop

import (
	"context"
	"sync"
	"time"
)

// TickerHost is a Host driven by a fixed-rate ticker. Frame requests made
// during a frame run on the next tick.
type TickerHost struct {
	interval time.Duration

	mu     sync.Mutex
	nextID FrameID
	frames map[FrameID]FrameFunc
	order  []FrameID

	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewTickerHost creates a host ticking fps times per second.
func NewTickerHost(fps int) *TickerHost {
	if fps <= 0 {
		fps = 60
	}
	return &TickerHost{
		interval: time.Second / time.Duration(fps),
		frames:   make(map[FrameID]FrameFunc),
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Interval returns the time between frames.
func (h *TickerHost) Interval() time.Duration {
	return h.interval
}

// RequestFrame schedules fn for the next tick.
func (h *TickerHost) RequestFrame(fn FrameFunc) FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.frames[h.nextID] = fn
	h.order = append(h.order, h.nextID)
	return h.nextID
}

// CancelFrame drops a pending request.
func (h *TickerHost) CancelFrame(id FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.frames, id)
}

// Post queues fn to run on the host goroutine. Blocks while the queue is
// full; returns false once the host has stopped.
func (h *TickerHost) Post(fn func()) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.tasks <- fn:
		return true
	case <-h.done:
		return false
	}
}

// Done is closed once Run has returned.
func (h *TickerHost) Done() <-chan struct{} {
	return h.done
}

// Run serves frames and posted work until ctx is cancelled.
func (h *TickerHost) Run(ctx context.Context) error {
	defer h.stopOnce.Do(func() { close(h.done) })

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-h.tasks:
			fn()
		case now := <-ticker.C:
			h.runFrames(now)
		}
	}
}

// runFrames runs every request pending at the start of the tick.
func (h *TickerHost) runFrames(now time.Time) {
	h.mu.Lock()
	order := h.order
	h.order = nil
	due := make([]FrameFunc, 0, len(order))
	for _, id := range order {
		if fn, ok := h.frames[id]; ok {
			due = append(due, fn)
			delete(h.frames, id)
		}
	}
	h.mu.Unlock()

	for _, fn := range due {
		fn(now)
	}
}
