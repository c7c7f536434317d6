// Package game implements the simulation core: world state, spawning,
// movement, collision, progression, the upgrade economy, the life state
// machine and the ending cinematic.
//
// A Game is not safe for concurrent use. Hosts serialise Step and Apply
// on a single goroutine.
package game

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/object"
)

// Options configures a new Game.
type Options struct {
	Seed        uint64 // Seed for enemy placement; zero picks a random seed
	SavedPoints int    // Currency carried over from earlier sessions
}

// RunState is the per-run bookkeeping reset by every new run.
type RunState struct {
	Score  int
	Over   bool
	Paused bool
}

// Game is the authoritative world state of one player's session.
type Game struct {
	field object.Field
	rng   *rand.Rand
	now   time.Duration // Simulation clock, advanced only by Step

	player     *object.Player
	bullets    []*object.Bullet
	enemies    []*object.Enemy
	explosions []*object.Explosion

	spawner   Spawner
	progress  Progression
	economy   Economy
	run       RunState
	cinematic Cinematic

	shopOpen    bool
	rankingOpen bool

	events []Event
}

// New creates a game with a fresh run in progress.
func New(opts Options) *Game {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	g := &Game{
		field:   object.Field{Width: config.FieldWidth, Height: config.FieldHeight},
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		economy: NewEconomy(opts.SavedPoints),
	}
	g.Reset()
	return g
}

// Reset discards the current run and starts a new one at level 1.
// Upgrades and saved points survive.
func (g *Game) Reset() bool {
	g.run = RunState{}
	g.progress = NewProgression()
	g.cinematic = Cinematic{}
	g.player = object.NewPlayer(g.field, g.economy.MaxLives)
	g.player.LastShot = g.now - g.player.ShotCooldown
	g.bullets = nil
	g.enemies = nil
	g.explosions = nil
	g.spawner.Reset(g.now)
	g.shopOpen = false
	g.rankingOpen = false
	return true
}

// Running reports whether Step currently advances the simulation.
func (g *Game) Running() bool {
	return !g.run.Over && !g.run.Paused && !g.shopOpen && !g.rankingOpen && !g.cinematic.offerPending
}

// Step advances the simulation by delta. It is a no-op while the run is
// over, paused, an overlay is open or the infinite-mode offer is pending.
// Returns true if the world changed.
func (g *Game) Step(delta time.Duration) bool {
	if !g.Running() {
		return false
	}
	delta = max(delta, 0)
	g.now += delta
	ctx := object.UpdateContext{Delta: delta, Now: g.now, Field: g.field}

	if g.cinematic.active {
		g.explosions = object.UpdateAll(g.explosions, ctx)
		g.updateCinematic()
		return true
	}

	g.spawn()
	g.move(ctx)
	g.collide()
	return true
}

// move advances every entity and drops the ones that expired. Enemies that
// left the field are dropped by collidePlayer.
func (g *Game) move(ctx object.UpdateContext) {
	g.player.Update(ctx)
	g.bullets = object.UpdateAll(g.bullets, ctx)
	g.enemies = object.UpdateAll(g.enemies, ctx)
	g.explosions = object.UpdateAll(g.explosions, ctx)
}

// Now returns the simulation clock.
func (g *Game) Now() time.Duration {
	return g.now
}

// Score returns the current run's score.
func (g *Game) Score() int {
	return g.run.Score
}

// Over reports whether the run has ended.
func (g *Game) Over() bool {
	return g.run.Over
}

// Economy returns a copy of the upgrade economy.
func (g *Game) Economy() Economy {
	return g.economy
}

// Progression returns a copy of the progression counters.
func (g *Game) Progression() Progression {
	return g.progress
}

// Field returns the play field dimensions.
func (g *Game) Field() object.Field {
	return g.field
}

func (g *Game) addExplosion(x, y, size float64, duration time.Duration) {
	g.explosions = append(g.explosions, object.NewExplosion(x, y, size, g.now, duration))
}
