package loop

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/ledger"
)

// DriverOptions configures a Driver.
type DriverOptions struct {
	Player string
	Seed   uint64
	Ledger *ledger.Ledger
	Wallet *ledger.Wallet
	Logger *log.Logger

	// BeforeStep runs on every frame before the simulation step (input).
	BeforeStep func()
	// AfterStep runs on every frame after the step and its events (rendering).
	AfterStep func()
}

// Driver owns one player's game and wires it to a frame host, continuous
// fire, the high-score ledger and the wallet. All methods must be called on
// the host goroutine.
type Driver struct {
	game   *game.Game
	sched  *Scheduler
	fire   *Repeater
	ledger *ledger.Ledger
	wallet *ledger.Wallet
	logger *log.Logger
	player string

	beforeStep func()
	afterStep  func()

	ranking  []ledger.Entry
	lastRank int // Rank of the last finished run, -1 if it missed the table
	record   int
}

// NewDriver creates a driver with a fresh game seeded with the player's saved points.
func NewDriver(host Host, opts DriverOptions) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Driver{
		ledger:     opts.Ledger,
		wallet:     opts.Wallet,
		logger:     logger,
		player:     opts.Player,
		beforeStep: opts.BeforeStep,
		afterStep:  opts.AfterStep,
		lastRank:   -1,
	}
	saved := 0
	if d.wallet != nil {
		saved = d.wallet.Load(d.player)
	}
	d.game = game.New(game.Options{Seed: opts.Seed, SavedPoints: saved})
	d.sched = NewScheduler(host, d.frame)
	d.fire = NewRepeater(host, config.FireRepeatInterval)
	d.refreshRanking()
	return d
}

// Game returns the driven game. Read it only on the host goroutine.
func (d *Driver) Game() *game.Game {
	return d.game
}

// Player returns the name results are recorded under.
func (d *Driver) Player() string {
	return d.player
}

// Ranking returns the high-score table as of the last refresh.
func (d *Driver) Ranking() []ledger.Entry {
	return d.ranking
}

// Record returns the best score in the table.
func (d *Driver) Record() int {
	return max(d.record, d.game.Score())
}

// LastRank returns the table position of the last finished run, or -1.
func (d *Driver) LastRank() int {
	return d.lastRank
}

// Firing reports whether continuous fire is active.
func (d *Driver) Firing() bool {
	return d.fire.Active()
}

// Start begins requesting frames.
func (d *Driver) Start() {
	d.sched.Start()
}

// Stop halts frames and continuous fire.
func (d *Driver) Stop() {
	d.sched.Stop()
	d.fire.Stop()
}

func (d *Driver) frame(delta time.Duration) {
	if d.beforeStep != nil {
		d.beforeStep()
	}
	d.game.Step(delta)
	d.handleEvents()
	if d.afterStep != nil {
		d.afterStep()
	}
}

// Dispatch applies a logical action and handles the resulting events.
func (d *Driver) Dispatch(a game.Action) bool {
	var ok bool
	if a.Kind == game.ActionBuy {
		ok = d.buy(a.Upgrade)
	} else {
		ok = d.game.Apply(a)
	}
	if ok {
		switch a.Kind {
		case game.ActionToggleShop:
			if d.game.ShopOpen() {
				d.syncWallet()
			}
		case game.ActionToggleRanking:
			if d.game.RankingOpen() {
				d.refreshRanking()
			}
		case game.ActionReset:
			d.fire.Stop()
			d.lastRank = -1
		}
	}
	d.handleEvents()
	return ok
}

// SetFiring starts or stops continuous fire. Starting fires immediately,
// then repeats at a fixed interval.
func (d *Driver) SetFiring(on bool) {
	if !on {
		d.fire.Stop()
		return
	}
	if d.fire.Active() {
		return
	}
	d.Dispatch(game.Action{Kind: game.ActionShoot})
	d.fire.Start(func() {
		d.Dispatch(game.Action{Kind: game.ActionShoot})
	})
}

func (d *Driver) handleEvents() {
	for _, ev := range d.game.Events() {
		switch ev.Kind {
		case game.EventGameOver:
			d.fire.Stop()
			d.finishRun(ev)
		case game.EventPurchase:
			d.logger.Debug("upgrade bought", "player", d.player, "upgrade", ev.Upgrade, "price", ev.Points)
		case game.EventCinematicStarted, game.EventInfiniteOffer:
			d.fire.Stop()
			d.logger.Info(ev.Kind.String(), "player", d.player, "level", ev.Level)
		case game.EventInfiniteAccepted:
			d.logger.Info("infinite mode", "player", d.player)
		case game.EventLevelUp:
			d.logger.Debug("level up", "player", d.player, "level", ev.Level)
		}
	}
}

func (d *Driver) finishRun(ev game.Event) {
	d.logger.Info("game over", "player", d.player, "score", ev.Score, "level", ev.Level, "points", ev.Points)
	if d.ledger != nil {
		d.ranking, d.lastRank = d.ledger.Submit(d.player, ev.Score)
		if len(d.ranking) > 0 {
			d.record = d.ranking[0].Score
		}
	}
	if d.wallet != nil {
		d.game.SetSavedPoints(d.wallet.Deposit(d.player, ev.Points))
	}
}

func (d *Driver) refreshRanking() {
	if d.ledger == nil {
		return
	}
	d.ranking = d.ledger.Load()
	d.record = 0
	if len(d.ranking) > 0 {
		d.record = d.ranking[0].Score
	}
}

// buy takes the price from the shared wallet before the game applies the
// upgrade, so sessions of the same player never spend the same points.
func (d *Driver) buy(u game.Upgrade) bool {
	if d.wallet == nil {
		return d.game.Buy(u)
	}
	price, available := d.game.Economy().Price(u)
	if !available {
		return false
	}
	balance, ok := d.wallet.Spend(d.player, price)
	if !ok {
		d.game.SetSavedPoints(balance)
		return false
	}
	d.game.SetSavedPoints(balance + price)
	return d.game.Buy(u)
}

// syncWallet shows the shared balance, which other sessions may have changed.
func (d *Driver) syncWallet() {
	if d.wallet != nil {
		d.game.SetSavedPoints(d.wallet.Load(d.player))
	}
}
