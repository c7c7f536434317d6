package game

import (
	"github.com/tomz197/skyraid/internal/game/config"
)

// LifeState is the player's position in the life state machine.
type LifeState int

const (
	AliveVulnerable LifeState = iota
	AliveInvulnerable
	GameOver
)

func (s LifeState) String() string {
	switch s {
	case AliveVulnerable:
		return "vulnerable"
	case AliveInvulnerable:
		return "invulnerable"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// LifeState returns the player's current life state.
func (g *Game) LifeState() LifeState {
	switch {
	case g.run.Over:
		return GameOver
	case g.player.Invulnerable:
		return AliveInvulnerable
	default:
		return AliveVulnerable
	}
}

// loseLife takes one life. Losing the last one ends the run.
func (g *Game) loseLife() {
	p := g.player
	if p.Lives <= 1 {
		p.Lives = 0
		g.emit(Event{Kind: EventLifeLost})
		g.endRun()
		return
	}
	p.Lives--
	g.makeInvulnerable()
	g.emit(Event{Kind: EventLifeLost})
}

func (g *Game) makeInvulnerable() {
	g.player.Invulnerable = true
	g.player.InvulnerableSince = g.now
}

// expireInvulnerability returns the player to vulnerable once the window has passed.
func (g *Game) expireInvulnerability() {
	p := g.player
	if p.Invulnerable && g.now-p.InvulnerableSince >= config.InvulnerableDuration {
		p.Invulnerable = false
	}
}

// endRun enters GameOver and converts half the score into saved points.
func (g *Game) endRun() {
	if g.run.Over {
		return
	}
	g.run.Over = true
	g.player.MovingLeft = false
	g.player.MovingRight = false
	points := int(float64(g.run.Score) * config.GameOverPointsRatio)
	g.economy.Deposit(points)
	g.emit(Event{Kind: EventGameOver, Score: g.run.Score, Points: points, Level: g.progress.Level})
}
