package game

import (
	"math"
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/object"
)

// Shop is the price list as shown to the player.
type Shop struct {
	Economy
	BombPrice      int  `msgpack:"bombPrice"`
	MultiShotMaxed bool `msgpack:"multiShotMaxed"`
	MaxLivesMaxed  bool `msgpack:"maxLivesMaxed"`
}

// Snapshot is a read-only copy of the world for renderers. It shares no
// memory with the Game.
type Snapshot struct {
	Field      object.Field       `msgpack:"field"`
	Now        time.Duration      `msgpack:"now"`
	Player     object.Player      `msgpack:"player"`
	Visible    bool               `msgpack:"visible"` // Player blinks while invulnerable
	Bullets    []object.Bullet    `msgpack:"bullets"`
	Enemies    []object.Enemy     `msgpack:"enemies"`
	Explosions []object.Explosion `msgpack:"explosions"`

	Score         int       `msgpack:"score"`
	Lives         int       `msgpack:"lives"`
	Level         int       `msgpack:"level"`
	Kills         int       `msgpack:"kills"`
	KillsRequired int       `msgpack:"killsRequired"`
	Infinite      bool      `msgpack:"infinite"`
	Life          LifeState `msgpack:"life"`

	Over         bool `msgpack:"over"`
	Paused       bool `msgpack:"paused"`
	ShopOpen     bool `msgpack:"shop"`
	RankingOpen  bool `msgpack:"ranking"`
	OfferPending bool `msgpack:"offer"`

	Shop      Shop           `msgpack:"economy"`
	Cinematic CinematicFrame `msgpack:"cinematic"`
}

// Snapshot copies the current world state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Field:         g.field,
		Now:           g.now,
		Player:        *g.player,
		Visible:       g.playerVisible(),
		Bullets:       make([]object.Bullet, len(g.bullets)),
		Enemies:       make([]object.Enemy, len(g.enemies)),
		Explosions:    make([]object.Explosion, len(g.explosions)),
		Score:         g.run.Score,
		Lives:         g.player.Lives,
		Level:         g.progress.Level,
		Kills:         g.progress.Kills,
		KillsRequired: g.progress.Required,
		Infinite:      g.progress.Infinite,
		Life:          g.LifeState(),
		Over:          g.run.Over,
		Paused:        g.run.Paused,
		ShopOpen:      g.shopOpen,
		RankingOpen:   g.rankingOpen,
		OfferPending:  g.cinematic.offerPending,
		Shop: Shop{
			Economy:        g.economy,
			BombPrice:      config.BombPrice,
			MultiShotMaxed: g.economy.MultiShot >= config.MaxMultiShot,
			MaxLivesMaxed:  g.economy.MaxLives >= config.MaxLivesCap,
		},
		Cinematic: g.cinematic.Frame(g.now),
	}
	for i, b := range g.bullets {
		s.Bullets[i] = *b
	}
	for i, e := range g.enemies {
		s.Enemies[i] = *e
	}
	for i, e := range g.explosions {
		s.Explosions[i] = *e
	}
	return s
}

// playerVisible blinks the ship while it is invulnerable during play.
func (g *Game) playerVisible() bool {
	p := g.player
	if !p.Invulnerable || g.cinematic.active {
		return true
	}
	elapsed := (g.now - p.InvulnerableSince).Seconds()
	return int(math.Floor(elapsed*config.PlayerBlinkFrequency*2))%2 == 0
}
