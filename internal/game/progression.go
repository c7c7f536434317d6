package game

import "github.com/tomz197/skyraid/internal/game/config"

// Progression tracks level and kill counters.
type Progression struct {
	Level    int
	Kills    int
	Required int
	Infinite bool
}

// NewProgression returns the counters for the start of a run.
func NewProgression() Progression {
	return Progression{
		Level:    1,
		Required: KillsRequired(1, false),
	}
}

// Difficulty returns the difficulty table for the current level.
func (p Progression) Difficulty() Difficulty {
	return DifficultyFor(p.Level, p.Infinite)
}

// registerKill counts a destroyed enemy towards the level.
func (g *Game) registerKill() {
	g.progress.Kills++
}

// checkLevelUp advances the level once the kill threshold is met.
// Clearing the final level outside infinite mode starts the ending instead.
func (g *Game) checkLevelUp() {
	if g.progress.Kills < g.progress.Required {
		return
	}
	if g.progress.Level >= config.FinalLevel && !g.progress.Infinite {
		g.startCinematic()
		return
	}
	g.progress.Level++
	g.progress.Kills = 0
	g.progress.Required = KillsRequired(g.progress.Level, g.progress.Infinite)
	g.emit(Event{Kind: EventLevelUp, Level: g.progress.Level})
}
