package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/object"
)

// Spawner tracks when each enemy type last appeared.
type Spawner struct {
	last [object.EnemyTypeCount]time.Duration
}

// Reset restarts every type's spawn timer at now.
func (s *Spawner) Reset(now time.Duration) {
	for i := range s.last {
		s.last[i] = now
	}
}

// Due reports whether t may spawn at now under d, and records the spawn if so.
func (s *Spawner) Due(t object.EnemyType, now time.Duration, d Difficulty) bool {
	if !Unlocked(t, d.Level) {
		return false
	}
	if now-s.last[t] <= d.SpawnInterval[t] {
		return false
	}
	s.last[t] = now
	return true
}

// spawn adds at most one enemy of each type whose interval has elapsed.
func (g *Game) spawn() {
	d := g.progress.Difficulty()
	for _, t := range object.EnemyTypes {
		if !g.spawner.Due(t, g.now, d) {
			continue
		}
		x := g.rng.Float64() * (g.field.Width - t.Size())
		g.enemies = append(g.enemies, object.NewEnemy(t, x, d.Speed[t], d.Health[t]))
	}
}
