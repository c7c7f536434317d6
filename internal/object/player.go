package object

import (
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/physics"
)

// Player is the ship at the bottom of the field.
type Player struct {
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
	Speed  float64 `msgpack:"-"` // Units per step

	MovingLeft  bool `msgpack:"ml"`
	MovingRight bool `msgpack:"mr"`

	ShotCooldown time.Duration `msgpack:"-"`
	LastShot     time.Duration `msgpack:"-"`

	Lives             int           `msgpack:"lives"`
	Invulnerable      bool          `msgpack:"inv"`
	InvulnerableSince time.Duration `msgpack:"invSince"`
}

// NewPlayer creates a player at the bottom center of the field.
func NewPlayer(field Field, lives int) *Player {
	return &Player{
		X:            field.CenterX() - config.PlayerWidth/2,
		Y:            config.PlayerStartY,
		Width:        config.PlayerWidth,
		Height:       config.PlayerHeight,
		Speed:        config.PlayerSpeed,
		ShotCooldown: config.ShotCooldown,
		LastShot:     -config.ShotCooldown, // First shot is never rate-limited
		Lives:        lives,
	}
}

// Update moves the player along its movement intent and clamps it to the field.
// Movement is per step rather than scaled by delta.
func (p *Player) Update(ctx UpdateContext) bool {
	dir := 0.0
	if p.MovingLeft {
		dir--
	}
	if p.MovingRight {
		dir++
	}
	p.X = physics.Clamp(p.X+p.Speed*dir, 0, ctx.Field.Width-p.Width)
	return false
}

// Rect returns the player's collision rectangle.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// CanShoot reports whether the shot cooldown has elapsed at now.
func (p *Player) CanShoot(now time.Duration) bool {
	return now-p.LastShot >= p.ShotCooldown
}

// Muzzle returns the point bullets leave the ship from: top center.
func (p *Player) Muzzle() (float64, float64) {
	return p.X + p.Width/2, p.Y
}

// InvulnerableFor returns how much invulnerability remains at now.
func (p *Player) InvulnerableFor(now time.Duration) time.Duration {
	if !p.Invulnerable {
		return 0
	}
	left := config.InvulnerableDuration - (now - p.InvulnerableSince)
	if left < 0 {
		return 0
	}
	return left
}
