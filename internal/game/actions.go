package game

import (
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/object"
)

// ActionKind identifies a logical input action.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionShoot
	ActionUseBomb
	ActionToggleShop
	ActionToggleRanking
	ActionTogglePause
	ActionReset
	ActionBuy
	ActionStartCinematic
	ActionAcceptInfinite
	ActionDeclineInfinite
)

var actionNames = [...]string{
	ActionMove:            "move",
	ActionShoot:           "shoot",
	ActionUseBomb:         "bomb",
	ActionToggleShop:      "shop",
	ActionToggleRanking:   "ranking",
	ActionTogglePause:     "pause",
	ActionReset:           "reset",
	ActionBuy:             "buy",
	ActionStartCinematic:  "cinematic",
	ActionAcceptInfinite:  "accept",
	ActionDeclineInfinite: "decline",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[k]
}

// ParseActionKind maps an action name back to its kind.
func ParseActionKind(s string) (ActionKind, bool) {
	for i, name := range actionNames {
		if name == s {
			return ActionKind(i), true
		}
	}
	return 0, false
}

// Direction is a horizontal movement direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// Action is a logical input. Direction and Pressed apply to ActionMove,
// Upgrade to ActionBuy.
type Action struct {
	Kind      ActionKind
	Direction Direction
	Pressed   bool
	Upgrade   Upgrade
}

// Apply dispatches a to the matching operation and reports whether it took effect.
func (g *Game) Apply(a Action) bool {
	switch a.Kind {
	case ActionMove:
		return g.Move(a.Direction, a.Pressed)
	case ActionShoot:
		return g.Shoot()
	case ActionUseBomb:
		return g.UseBomb()
	case ActionToggleShop:
		return g.ToggleShop()
	case ActionToggleRanking:
		return g.ToggleRanking()
	case ActionTogglePause:
		return g.TogglePause()
	case ActionReset:
		return g.Reset()
	case ActionBuy:
		return g.Buy(a.Upgrade)
	case ActionStartCinematic:
		return g.StartCinematic()
	case ActionAcceptInfinite:
		return g.AcceptInfinite()
	case ActionDeclineInfinite:
		return g.DeclineInfinite()
	default:
		return false
	}
}

// Move sets or clears the player's movement intent in one direction.
// Ignored while the run is over or the ending is playing.
func (g *Game) Move(dir Direction, pressed bool) bool {
	if g.run.Over || g.cinematic.active {
		return false
	}
	switch dir {
	case Left:
		g.player.MovingLeft = pressed
	case Right:
		g.player.MovingRight = pressed
	default:
		return false
	}
	return true
}

// Shoot fires the current bullet pattern if the cooldown has elapsed.
func (g *Game) Shoot() bool {
	if !g.Running() || g.cinematic.active {
		return false
	}
	p := g.player
	if !p.CanShoot(g.now) {
		return false
	}
	p.LastShot = g.now

	x, y := p.Muzzle()
	switch g.economy.MultiShot {
	case 1:
		g.bullets = append(g.bullets, object.NewBullet(x, y, 0))
	case 2:
		g.bullets = append(g.bullets,
			object.NewBullet(x-config.BulletPairSpace, y, 0),
			object.NewBullet(x+config.BulletPairSpace, y, 0),
		)
	default:
		g.bullets = append(g.bullets,
			object.NewBullet(x, y, 0),
			object.NewBullet(x, y, -config.BulletDrift),
			object.NewBullet(x, y, config.BulletDrift),
		)
	}
	return true
}

// UseBomb destroys every enemy on the field and awards their scores.
// Requires an owned bomb and a running simulation.
func (g *Game) UseBomb() bool {
	if !g.economy.Bomb || !g.Running() || g.cinematic.active {
		return false
	}
	g.economy.Bomb = false
	g.addExplosion(g.field.Width/2, g.field.Height/2, config.BombExplosionSize, config.BombExplosionDuration)
	killed := 0
	for _, e := range g.enemies {
		if e.IsRemoved() {
			continue
		}
		g.awardKill(e)
		killed++
	}
	g.enemies = nil
	g.emit(Event{Kind: EventBombUsed, Kills: killed})
	g.checkLevelUp()
	return true
}

// Buy purchases u from the shop. A max-lives purchase also grants the
// extra life to a run in progress.
func (g *Game) Buy(u Upgrade) bool {
	price, _ := g.economy.Price(u)
	if !g.economy.Buy(u) {
		return false
	}
	if u == UpgradeMaxLives && !g.run.Over {
		g.player.Lives = min(g.player.Lives+1, g.economy.MaxLives)
	}
	g.emit(Event{Kind: EventPurchase, Upgrade: u, Points: price})
	return true
}

// SetSavedPoints replaces the saved currency, for hosts that keep the
// authoritative balance elsewhere.
func (g *Game) SetSavedPoints(points int) {
	g.economy.SavedPoints = max(points, 0)
}

// ToggleShop opens or closes the shop overlay, closing the ranking.
func (g *Game) ToggleShop() bool {
	g.shopOpen = !g.shopOpen
	if g.shopOpen {
		g.rankingOpen = false
	}
	return true
}

// ToggleRanking opens or closes the ranking overlay, closing the shop.
func (g *Game) ToggleRanking() bool {
	g.rankingOpen = !g.rankingOpen
	if g.rankingOpen {
		g.shopOpen = false
	}
	return true
}

// TogglePause pauses or resumes a run in progress.
func (g *Game) TogglePause() bool {
	if g.run.Over {
		return false
	}
	g.run.Paused = !g.run.Paused
	return true
}

// ShopOpen reports whether the shop overlay is open.
func (g *Game) ShopOpen() bool { return g.shopOpen }

// RankingOpen reports whether the ranking overlay is open.
func (g *Game) RankingOpen() bool { return g.rankingOpen }
