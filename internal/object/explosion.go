package object

import "time"

// Explosion is a purely visual, self-expiring effect.
type Explosion struct {
	X        float64       `msgpack:"x"` // Center
	Y        float64       `msgpack:"y"`
	Size     float64       `msgpack:"s"`
	Start    time.Duration `msgpack:"start"`
	Duration time.Duration `msgpack:"dur"`
}

// NewExplosion creates an explosion centered on (x, y) starting at now.
func NewExplosion(x, y, size float64, now, duration time.Duration) *Explosion {
	return &Explosion{
		X:        x,
		Y:        y,
		Size:     size,
		Start:    now,
		Duration: duration,
	}
}

// Update removes the explosion once its duration has elapsed.
func (e *Explosion) Update(ctx UpdateContext) bool {
	return ctx.Now-e.Start >= e.Duration
}

// Progress returns how far the explosion is through its lifetime, in [0, 1].
func (e *Explosion) Progress(now time.Duration) float64 {
	if e.Duration <= 0 {
		return 1
	}
	p := float64(now-e.Start) / float64(e.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
