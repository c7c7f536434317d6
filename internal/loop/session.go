package loop

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/input"
	"github.com/tomz197/skyraid/internal/ledger"
)

// SessionOptions configures a terminal session.
type SessionOptions struct {
	Player   string
	Seed     uint64
	FPS      int
	Ledger   *ledger.Ledger
	Wallet   *ledger.Wallet
	Logger   *log.Logger
	TermSize draw.TermSizeFunc
}

// RunTerminal plays one game on a terminal, reading raw key bytes from r
// and drawing to w. It returns when the player quits, r is exhausted or
// ctx is done.
func RunTerminal(ctx context.Context, r io.Reader, w io.Writer, opts SessionOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := NewTickerHost(opts.FPS)
	keys := input.StartStream(r)
	scr := newScreen(w, opts.TermSize)

	var d *Driver
	d = NewDriver(host, DriverOptions{
		Player: opts.Player,
		Seed:   opts.Seed,
		Ledger: opts.Ledger,
		Wallet: opts.Wallet,
		Logger: opts.Logger,
		BeforeStep: func() {
			if applyKeys(d, keys.Poll(time.Now())) {
				cancel()
			}
		},
		AfterStep: func() {
			if err := scr.render(d); err != nil {
				d.logger.Debug("render failed", "err", err)
				cancel()
			}
		},
	})

	draw.HideCursor(w)
	draw.ClearScreen(w)
	defer func() {
		draw.ClearScreen(w)
		draw.ShowCursor(w)
	}()

	d.Start()
	err := host.Run(ctx)
	d.Stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// applyKeys turns one poll of key state into game actions and reports
// whether the session should end.
func applyKeys(d *Driver, st input.State) bool {
	for _, k := range st.Released {
		switch k {
		case input.KeyLeft:
			d.Dispatch(game.Action{Kind: game.ActionMove, Direction: game.Left})
		case input.KeyRight:
			d.Dispatch(game.Action{Kind: game.ActionMove, Direction: game.Right})
		case input.KeyFire:
			d.SetFiring(false)
		}
	}
	g := d.Game()
	for _, k := range st.Pressed {
		switch k {
		case input.KeyLeft:
			d.Dispatch(game.Action{Kind: game.ActionMove, Direction: game.Left, Pressed: true})
		case input.KeyRight:
			d.Dispatch(game.Action{Kind: game.ActionMove, Direction: game.Right, Pressed: true})
		case input.KeyFire:
			d.SetFiring(true)
		case input.KeyBomb:
			d.Dispatch(game.Action{Kind: game.ActionUseBomb})
		case input.KeyShop:
			d.Dispatch(game.Action{Kind: game.ActionToggleShop})
		case input.KeyRanking:
			d.Dispatch(game.Action{Kind: game.ActionToggleRanking})
		case input.KeyPause:
			d.Dispatch(game.Action{Kind: game.ActionTogglePause})
		case input.KeyEnter:
			if g.Over() && !g.ShopOpen() && !g.RankingOpen() {
				d.Dispatch(game.Action{Kind: game.ActionReset})
			}
		case input.KeyBuy1, input.KeyBuy2, input.KeyBuy3:
			if g.ShopOpen() {
				u := game.Upgrades[k-input.KeyBuy1]
				d.Dispatch(game.Action{Kind: game.ActionBuy, Upgrade: u})
			}
		case input.KeyYes:
			d.Dispatch(game.Action{Kind: game.ActionAcceptInfinite})
		case input.KeyNo:
			d.Dispatch(game.Action{Kind: game.ActionDeclineInfinite})
		case input.KeyCinematic:
			d.Dispatch(game.Action{Kind: game.ActionStartCinematic})
		case input.KeyQuit:
			return true
		}
	}
	return st.Closed
}
