package game

import (
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/object"
	"github.com/tomz197/skyraid/internal/physics"
)

// collide resolves bullet hits, then contact with the player.
func (g *Game) collide() {
	g.collideBullets()
	if g.cinematic.active {
		return
	}
	g.collidePlayer()
}

// collideBullets lets every bullet hit at most one enemy.
func (g *Game) collideBullets() {
	for _, b := range g.bullets {
		for _, e := range g.enemies {
			if e.IsRemoved() {
				continue
			}
			if !physics.Overlaps(b.Rect(), e.HitRect()) {
				continue
			}
			b.Spend()
			if e.Hit() {
				g.destroyEnemy(e)
				if g.cinematic.active {
					// The ending cleared the field.
					return
				}
			}
			break
		}
	}
	g.bullets = object.Compact(g.bullets, func(b *object.Bullet) bool { return !b.IsSpent() })
	g.enemies = object.Compact(g.enemies, func(e *object.Enemy) bool { return !e.IsRemoved() })
}

// destroyEnemy awards a kill and evaluates level-up.
func (g *Game) destroyEnemy(e *object.Enemy) {
	g.awardKill(e)
	g.checkLevelUp()
}

// awardKill scores e, counts the kill and leaves an explosion behind.
func (g *Game) awardKill(e *object.Enemy) {
	e.Remove()
	cx, cy := e.Rect().Center()
	g.addExplosion(cx, cy, e.Width*config.ExplosionScale, config.ExplosionDuration)
	g.run.Score += e.Type.Score()
	g.registerKill()
	g.emit(Event{Kind: EventEnemyKilled, Enemy: e.Type, Score: e.Type.Score()})
}

// collidePlayer costs a life for every enemy touching the player or
// escaping past the bottom edge, unless the player is invulnerable.
func (g *Game) collidePlayer() {
	g.expireInvulnerability()
	p := g.player
	for _, e := range g.enemies {
		if p.Invulnerable || g.run.Over {
			break
		}
		if e.IsRemoved() {
			continue
		}
		r := e.Rect()
		if physics.Overlaps(p.Rect(), r) || r.Bottom() > g.field.Height {
			e.Remove()
			g.loseLife()
		}
	}
	// Escapes the invulnerable player was spared still leave the field.
	g.enemies = object.Compact(g.enemies, func(e *object.Enemy) bool {
		return !e.IsRemoved() && !e.Escaped(g.field)
	})
}
