package game

import (
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/physics"
)

// Phase is a step of the ending cinematic.
type Phase int

const (
	PhasePlanetRise     Phase = iota // Planet shrinks into view, ship glides to center
	PhasePlanetApproach              // Planet keeps growing
	PhaseLanding                     // Ground rises, ship descends onto it
	PhaseReunion                     // Two figures meet, a symbol fades in
	PhaseFarewell                    // Closing message over a gradient
)

func (p Phase) String() string {
	switch p {
	case PhasePlanetRise:
		return "planet-rise"
	case PhasePlanetApproach:
		return "planet-approach"
	case PhaseLanding:
		return "landing"
	case PhaseReunion:
		return "reunion"
	case PhaseFarewell:
		return "farewell"
	default:
		return "unknown"
	}
}

// Cinematic is the ending sequence state. Phases only move forward.
type Cinematic struct {
	active       bool
	phase        Phase
	start        time.Duration
	phaseStart   time.Duration
	offerPending bool

	glideFromX float64 // Player position when the current movement began
	glideFromY float64
}

// Active reports whether the sequence is playing.
func (c Cinematic) Active() bool { return c.active }

// OfferPending reports whether the infinite-mode offer awaits an answer.
func (c Cinematic) OfferPending() bool { return c.offerPending }

// Phase returns the current phase.
func (c Cinematic) Phase() Phase { return c.phase }

// Progress returns the phase-local progress at now, in [0, 1].
func (c Cinematic) Progress(now time.Duration) float64 {
	return physics.Clamp(float64(now-c.phaseStart)/float64(config.CinematicPhaseDuration), 0, 1)
}

// Elapsed returns the time since the sequence started.
func (c Cinematic) Elapsed(now time.Duration) time.Duration {
	return now - c.start
}

// Cinematic returns a copy of the ending sequence state.
func (g *Game) Cinematic() Cinematic {
	return g.cinematic
}

// StartCinematic starts the ending manually. Rejected when the run is
// over, the sequence is already playing or its offer is still open.
func (g *Game) StartCinematic() bool {
	if g.run.Over || g.cinematic.active || g.cinematic.offerPending {
		return false
	}
	g.startCinematic()
	return true
}

// startCinematic suspends normal play. The field is cleared and the kill
// counters stay frozen until the offer is answered.
func (g *Game) startCinematic() {
	g.bullets = nil
	g.enemies = nil
	g.player.MovingLeft = false
	g.player.MovingRight = false
	g.makeInvulnerable()
	g.cinematic = Cinematic{
		active:     true,
		phase:      PhasePlanetRise,
		start:      g.now,
		phaseStart: g.now,
		glideFromX: g.player.X,
		glideFromY: g.player.Y,
	}
	g.emit(Event{Kind: EventCinematicStarted, Level: g.progress.Level})
}

// updateCinematic advances phases by elapsed time and moves the player
// along the scripted path. Raises the offer once the last phase ends.
func (g *Game) updateCinematic() {
	c := &g.cinematic
	for c.active && g.now-c.phaseStart >= config.CinematicPhaseDuration {
		g.finishPhase()
	}
	if !c.active {
		return
	}

	t := c.Progress(g.now)
	p := g.player
	switch c.phase {
	case PhasePlanetRise:
		p.X = physics.Lerp(c.glideFromX, g.field.CenterX()-p.Width/2, t)
		p.Y = physics.Lerp(c.glideFromY, config.CruiseY, t)
	case PhaseLanding:
		p.Y = physics.Lerp(c.glideFromY, config.GroundRestY-p.Height, t)
	}
}

// finishPhase snaps the player to the end of the phase's path and enters the next one.
func (g *Game) finishPhase() {
	c := &g.cinematic
	p := g.player
	switch c.phase {
	case PhasePlanetRise:
		p.X = g.field.CenterX() - p.Width/2
		p.Y = config.CruiseY
	case PhaseLanding:
		p.Y = config.GroundRestY - p.Height
	}
	c.glideFromX, c.glideFromY = p.X, p.Y

	if c.phase == PhaseFarewell {
		c.active = false
		c.offerPending = true
		g.emit(Event{Kind: EventInfiniteOffer, Level: g.progress.Level})
		return
	}
	c.phase++
	c.phaseStart += config.CinematicPhaseDuration
}

// AcceptInfinite resumes play in infinite mode at the first infinite level.
func (g *Game) AcceptInfinite() bool {
	if !g.cinematic.offerPending {
		return false
	}
	// The phase stays at the farewell until a new run.
	g.cinematic.active = false
	g.cinematic.offerPending = false
	g.progress = Progression{
		Level:    config.InfiniteStartLevel,
		Required: KillsRequired(config.InfiniteStartLevel, true),
		Infinite: true,
	}
	g.bullets = nil
	g.enemies = nil
	g.player.X = g.field.CenterX() - g.player.Width/2
	g.player.Y = config.PlayerStartY
	g.makeInvulnerable()
	g.spawner.Reset(g.now)
	g.emit(Event{Kind: EventInfiniteAccepted, Level: g.progress.Level})
	return true
}

// DeclineInfinite ends the run the same way losing the last life does.
func (g *Game) DeclineInfinite() bool {
	if !g.cinematic.offerPending {
		return false
	}
	g.cinematic.offerPending = false
	g.endRun()
	return true
}

// CinematicFrame is everything a renderer needs to draw the ending.
// Alphas and scales are in [0, 1]; positions are in field units.
type CinematicFrame struct {
	Active        bool          `msgpack:"active"`
	Phase         Phase         `msgpack:"phase"`
	Progress      float64       `msgpack:"progress"`
	Elapsed       time.Duration `msgpack:"elapsed"`
	BackdropSize  float64       `msgpack:"backdropSize"`
	BackdropAlpha float64       `msgpack:"backdropAlpha"`
	GroundY       float64       `msgpack:"groundY"`
	LeftX         float64       `msgpack:"leftX"`
	RightX        float64       `msgpack:"rightX"`
	SymbolAlpha   float64       `msgpack:"symbolAlpha"`
	MessageAlpha  float64       `msgpack:"messageAlpha"`
	GradientAlpha float64       `msgpack:"gradientAlpha"`
}

// Frame computes the render parameters of the sequence at now.
func (c Cinematic) Frame(now time.Duration) CinematicFrame {
	if !c.active {
		return CinematicFrame{}
	}
	t := c.Progress(now)
	f := CinematicFrame{
		Active:   true,
		Phase:    c.phase,
		Progress: t,
		Elapsed:  c.Elapsed(now),
		GroundY:  config.FieldHeight,
		LeftX:    0,
		RightX:   config.FieldWidth,
	}
	half := config.BackdropMaxSize / 2
	center := float64(config.FieldWidth) / 2
	meetLeft := center - config.SilhouetteGap/2
	meetRight := center + config.SilhouetteGap/2

	switch c.phase {
	case PhasePlanetRise:
		f.BackdropSize = physics.Lerp(0, half, t)
		f.BackdropAlpha = t
	case PhasePlanetApproach:
		f.BackdropSize = physics.Lerp(half, config.BackdropMaxSize, t)
		f.BackdropAlpha = 1
	case PhaseLanding:
		f.BackdropSize = config.BackdropMaxSize
		f.BackdropAlpha = 1 - t
		f.GroundY = physics.Lerp(config.FieldHeight, config.GroundRestY, t)
	case PhaseReunion:
		f.GroundY = config.GroundRestY
		f.LeftX = physics.Lerp(0, meetLeft, t)
		f.RightX = physics.Lerp(config.FieldWidth, meetRight, t)
		f.SymbolAlpha = t
	case PhaseFarewell:
		f.GroundY = config.GroundRestY
		f.LeftX, f.RightX = meetLeft, meetRight
		f.SymbolAlpha = 1
		f.MessageAlpha = t
		f.GradientAlpha = t
	}
	return f
}
