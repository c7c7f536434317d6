package object

import (
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/physics"
)

// Bullet is a shot fired upward by the player.
type Bullet struct {
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
	Speed  float64 `msgpack:"-"` // Upward units per step
	Drift  float64 `msgpack:"-"` // Lateral units per step (angled shots)
	Color  string  `msgpack:"c"`

	spent bool
}

// NewBullet creates a bullet centered horizontally on x with its bottom edge at y.
func NewBullet(x, y, drift float64) *Bullet {
	return &Bullet{
		X:      x - config.BulletWidth/2,
		Y:      y - config.BulletHeight,
		Width:  config.BulletWidth,
		Height: config.BulletHeight,
		Speed:  config.BulletSpeed,
		Drift:  drift,
		Color:  config.BulletColor,
	}
}

// Update moves the bullet and removes it once it is fully off the field on any edge.
func (b *Bullet) Update(ctx UpdateContext) bool {
	if b.spent {
		return true
	}
	b.Y -= b.Speed
	b.X += b.Drift
	return !physics.Overlaps(b.Rect(), ctx.Field.Bounds())
}

// Rect returns the bullet's collision rectangle.
func (b *Bullet) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Spend marks the bullet as consumed by a hit.
func (b *Bullet) Spend() {
	b.spent = true
}

// IsSpent returns true if the bullet has already hit something.
func (b *Bullet) IsSpent() bool {
	return b.spent
}
