package game

import "github.com/tomz197/skyraid/internal/object"

// EventKind identifies what happened during a step or action.
type EventKind int

const (
	EventEnemyKilled EventKind = iota
	EventLifeLost
	EventLevelUp
	EventGameOver
	EventCinematicStarted
	EventInfiniteOffer
	EventInfiniteAccepted
	EventBombUsed
	EventPurchase
)

func (k EventKind) String() string {
	switch k {
	case EventEnemyKilled:
		return "enemy-killed"
	case EventLifeLost:
		return "life-lost"
	case EventLevelUp:
		return "level-up"
	case EventGameOver:
		return "game-over"
	case EventCinematicStarted:
		return "cinematic-started"
	case EventInfiniteOffer:
		return "infinite-offer"
	case EventInfiniteAccepted:
		return "infinite-accepted"
	case EventBombUsed:
		return "bomb-used"
	case EventPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// Event is a notification for the host. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Enemy   object.EnemyType // EnemyKilled
	Score   int              // EnemyKilled: points awarded; GameOver: final score
	Points  int              // GameOver: points converted; Purchase: price paid
	Level   int
	Upgrade Upgrade // Purchase
	Kills   int     // BombUsed: enemies destroyed
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// Events returns and clears the queued events.
func (g *Game) Events() []Event {
	if len(g.events) == 0 {
		return nil
	}
	out := g.events
	g.events = nil
	return out
}
