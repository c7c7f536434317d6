package game

import (
	"testing"
	"time"

	"github.com/tomz197/skyraid/internal/game/config"
)

// reachEnding puts the run one kill away from clearing the final level.
func reachEnding(g *Game) {
	g.progress.Level = config.FinalLevel
	g.progress.Required = KillsRequired(config.FinalLevel, false)
	g.progress.Kills = g.progress.Required - 1
}

func TestClearingFinalLevelStartsCinematic(t *testing.T) {
	g := newTestGame(t, Options{})
	reachEnding(g)
	placeEnemy(g, 0, 300, 100, 1)
	shootDown(g)

	if !g.Cinematic().Active() {
		t.Fatal("cinematic not started")
	}
	p := g.Progression()
	if p.Level != config.FinalLevel || p.Kills != p.Required {
		t.Errorf("level/kills = %d/%d, want frozen at %d/%d", p.Level, p.Kills, config.FinalLevel, p.Required)
	}
	if len(g.enemies) != 0 || len(g.bullets) != 0 {
		t.Error("field not cleared")
	}
	if !g.player.Invulnerable {
		t.Error("player not invulnerable")
	}
	events := g.Events()
	if countEvents(events, EventLevelUp) != 0 || countEvents(events, EventCinematicStarted) != 1 {
		t.Errorf("events = %+v", events)
	}

	var offers int
	for range int(config.CinematicDuration / frame) {
		g.Step(frame)
		offers += countEvents(g.Events(), EventInfiniteOffer)
	}
	if offers != 1 {
		t.Fatalf("offers = %d, want 1", offers)
	}
	if g.Cinematic().Active() || !g.Cinematic().OfferPending() {
		t.Fatal("offer not pending after the sequence")
	}

	for range 100 {
		g.Step(frame)
		offers += countEvents(g.Events(), EventInfiniteOffer)
	}
	if offers != 1 {
		t.Errorf("offer raised again, total %d", offers)
	}
}

func TestCinematicPhasesAdvance(t *testing.T) {
	g := newTestGame(t, Options{})
	g.StartCinematic()

	want := []Phase{PhasePlanetRise, PhasePlanetApproach, PhaseLanding, PhaseReunion, PhaseFarewell}
	for i, phase := range want {
		if got := g.Cinematic().Phase(); got != phase {
			t.Fatalf("after %d phases: phase = %v, want %v", i, got, phase)
		}
		g.Step(config.CinematicPhaseDuration / 2)
		if got := g.Cinematic().Progress(g.Now()); got != 0.5 {
			t.Errorf("%v: progress = %v, want 0.5", phase, got)
		}
		g.Step(config.CinematicPhaseDuration / 2)
	}
	if !g.Cinematic().OfferPending() {
		t.Error("offer not raised after the last phase")
	}
}

func TestCinematicMovesPlayer(t *testing.T) {
	g := newTestGame(t, Options{})
	g.player.X = 0
	g.StartCinematic()

	g.Step(config.CinematicPhaseDuration)
	if want := float64(config.FieldWidth-config.PlayerWidth) / 2; g.player.X != want {
		t.Errorf("x after glide = %v, want %v", g.player.X, want)
	}
	if g.player.Y != config.CruiseY {
		t.Errorf("y after glide = %v, want %v", g.player.Y, config.CruiseY)
	}

	g.Step(2 * config.CinematicPhaseDuration)
	if want := config.GroundRestY - config.PlayerHeight; g.player.Y != want {
		t.Errorf("y after landing = %v, want %v", g.player.Y, want)
	}
}

func TestCinematicFrame(t *testing.T) {
	g := newTestGame(t, Options{})
	if g.Snapshot().Cinematic.Active {
		t.Fatal("frame active before the sequence")
	}
	g.StartCinematic()
	g.Step(3*config.CinematicPhaseDuration + config.CinematicPhaseDuration/2)

	f := g.Snapshot().Cinematic
	if f.Phase != PhaseReunion || f.Progress != 0.5 {
		t.Fatalf("phase/progress = %v/%v", f.Phase, f.Progress)
	}
	if f.SymbolAlpha != 0.5 || f.GroundY != config.GroundRestY {
		t.Errorf("symbol/ground = %v/%v", f.SymbolAlpha, f.GroundY)
	}
	if f.LeftX >= f.RightX {
		t.Errorf("silhouettes crossed: %v >= %v", f.LeftX, f.RightX)
	}
	if f.Elapsed != 7*time.Second {
		t.Errorf("elapsed = %v, want 7s", f.Elapsed)
	}
}

func TestStartCinematicRejected(t *testing.T) {
	g := newTestGame(t, Options{})
	if !g.StartCinematic() {
		t.Fatal("first start rejected")
	}
	if g.StartCinematic() {
		t.Error("double start accepted")
	}

	g.Step(config.CinematicDuration)
	if g.StartCinematic() {
		t.Error("start accepted while offer pending")
	}

	over := newTestGame(t, Options{})
	over.endRun()
	if over.StartCinematic() {
		t.Error("start accepted after game over")
	}
}

func TestAcceptInfinite(t *testing.T) {
	g := newTestGame(t, Options{})
	if g.AcceptInfinite() {
		t.Fatal("accepted without an offer")
	}
	g.StartCinematic()
	g.Step(config.CinematicDuration)

	if !g.AcceptInfinite() {
		t.Fatal("accept rejected")
	}
	p := g.Progression()
	if p.Level != config.InfiniteStartLevel || !p.Infinite || p.Kills != 0 {
		t.Errorf("progression = %+v", p)
	}
	if p.Required != KillsRequired(16, false)+config.InfiniteKillStep {
		t.Errorf("required = %d", p.Required)
	}
	if g.LifeState() != AliveInvulnerable {
		t.Errorf("life = %v, want invulnerable", g.LifeState())
	}
	if g.player.Y != config.PlayerStartY {
		t.Errorf("player y = %v, want %v", g.player.Y, config.PlayerStartY)
	}
	if !g.Running() || !g.Step(frame) {
		t.Error("simulation did not resume")
	}
	if c := g.Cinematic(); c.Active() || c.OfferPending() || c.Phase() != PhaseFarewell {
		t.Errorf("after accept: active=%v offer=%v phase=%v", c.Active(), c.OfferPending(), c.Phase())
	}
}

func TestInfiniteModeNeverEndsAgain(t *testing.T) {
	g := newTestGame(t, Options{})
	g.StartCinematic()
	g.Step(config.CinematicDuration)
	g.AcceptInfinite()

	g.progress.Kills = g.progress.Required - 1
	shootDown(g)

	if g.Cinematic().Active() {
		t.Fatal("cinematic started in infinite mode")
	}
	if g.Progression().Level != 17 {
		t.Errorf("level = %d, want 17", g.Progression().Level)
	}
}

func TestDeclineInfiniteEndsRun(t *testing.T) {
	g := newTestGame(t, Options{})
	g.run.Score = 1001
	g.StartCinematic()
	g.Step(config.CinematicDuration)

	if !g.DeclineInfinite() {
		t.Fatal("decline rejected")
	}
	if !g.Over() {
		t.Error("run not over")
	}
	if g.Economy().SavedPoints != 500 {
		t.Errorf("saved points = %d, want 500", g.Economy().SavedPoints)
	}
	if g.DeclineInfinite() {
		t.Error("second decline accepted")
	}
}
