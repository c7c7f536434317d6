package loop

import (
	"context"
	"time"
)

// Repeater calls a function at a fixed interval through a Host while
// active. Start and Stop must be called on the host goroutine; once Stop
// returns, the function is never called again until the next Start.
type Repeater struct {
	host     Host
	interval time.Duration
	ticker   func(d time.Duration) (<-chan time.Time, func())

	active bool
	gen    uint64
	cancel context.CancelFunc
}

// NewRepeater creates an inactive repeater.
func NewRepeater(host Host, interval time.Duration) *Repeater {
	return &Repeater{
		host:     host,
		interval: interval,
		ticker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Active reports whether the repeater is running.
func (r *Repeater) Active() bool {
	return r.active
}

// Start calls fn every interval until Stop. Restarting replaces fn and
// restarts the interval.
func (r *Repeater) Start(fn func()) {
	r.Stop()
	r.active = true
	r.gen++
	gen := r.gen

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	ticks, stopTicker := r.ticker(r.interval)

	go func() {
		defer stopTicker()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				ok := r.host.Post(func() {
					// A tick already in flight when Stop ran is dropped here.
					if r.active && r.gen == gen {
						fn()
					}
				})
				if !ok {
					return
				}
			}
		}
	}()
}

// Stop cancels the repeater.
func (r *Repeater) Stop() {
	if !r.active {
		return
	}
	r.active = false
	r.cancel()
	r.cancel = nil
}
