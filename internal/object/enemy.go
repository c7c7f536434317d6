package object

import (
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/physics"
)

// EnemyType is the size category of an enemy.
type EnemyType int

const (
	EnemySmall EnemyType = iota
	EnemyMedium
	EnemyLarge
)

// EnemyTypeCount is the number of enemy types.
const EnemyTypeCount = 3

// EnemyTypes lists every enemy type in spawn order.
var EnemyTypes = [EnemyTypeCount]EnemyType{EnemySmall, EnemyMedium, EnemyLarge}

func (t EnemyType) String() string {
	switch t {
	case EnemySmall:
		return "small"
	case EnemyMedium:
		return "medium"
	case EnemyLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Size returns the side length of the enemy's square.
func (t EnemyType) Size() float64 {
	switch t {
	case EnemyMedium:
		return config.MediumEnemySize
	case EnemyLarge:
		return config.LargeEnemySize
	default:
		return config.SmallEnemySize
	}
}

// Score returns the points awarded for destroying an enemy of this type.
func (t EnemyType) Score() int {
	switch t {
	case EnemySmall:
		return config.ScoreSmallEnemy
	case EnemyMedium:
		return config.ScoreMediumEnemy
	case EnemyLarge:
		return config.ScoreLargeEnemy
	default:
		return 0
	}
}

// Color returns the enemy's color tag.
func (t EnemyType) Color() string {
	switch t {
	case EnemyMedium:
		return config.MediumEnemyColor
	case EnemyLarge:
		return config.LargeEnemyColor
	default:
		return config.SmallEnemyColor
	}
}

// Enemy descends from the top of the field.
type Enemy struct {
	X         float64   `msgpack:"x"`
	Y         float64   `msgpack:"y"`
	Width     float64   `msgpack:"w"`
	Height    float64   `msgpack:"h"`
	Speed     float64   `msgpack:"-"` // Units per 60 Hz frame
	Health    int       `msgpack:"hp"`
	MaxHealth int       `msgpack:"maxHp"`
	Type      EnemyType `msgpack:"t"`
	Color     string    `msgpack:"c"`

	removed bool
}

// NewEnemy creates an enemy of the given type just above the top edge at x.
func NewEnemy(t EnemyType, x, speed float64, health int) *Enemy {
	size := t.Size()
	return &Enemy{
		X:         x,
		Y:         -size,
		Width:     size,
		Height:    size,
		Speed:     speed,
		Health:    health,
		MaxHealth: health,
		Type:      t,
		Color:     t.Color(),
	}
}

// Update moves the enemy down. It stays in play past the bottom edge so the
// collision pass can charge the escape.
func (e *Enemy) Update(ctx UpdateContext) bool {
	if e.IsRemoved() {
		return true
	}
	e.Y += e.Speed * ctx.Delta.Seconds() * config.FrameRateScale
	return false
}

// Escaped reports whether the enemy has fully left through the bottom edge.
func (e *Enemy) Escaped(field Field) bool {
	return e.Y > field.Height
}

// Rect returns the enemy's collision rectangle.
func (e *Enemy) Rect() physics.Rect {
	return physics.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// HitRect returns the rectangle bullets are tested against.
// Small enemies get a horizontal margin to make them easier to hit.
func (e *Enemy) HitRect() physics.Rect {
	if e.Type == EnemySmall {
		return e.Rect().Expand(config.SmallEnemyHitMargin, 0)
	}
	return e.Rect()
}

// Hit applies one point of damage. Returns true if the enemy was destroyed.
func (e *Enemy) Hit() bool {
	if e.Health > 0 {
		e.Health--
	}
	if e.Health == 0 {
		e.removed = true
		return true
	}
	return false
}

// Remove marks the enemy for removal regardless of health.
func (e *Enemy) Remove() {
	e.removed = true
}

// IsRemoved returns true if the enemy is destroyed or marked for removal.
func (e *Enemy) IsRemoved() bool {
	return e.removed || e.Health <= 0
}
