package ledger

import (
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// PointsKeyPrefix prefixes the store key of each player's saved points.
const PointsKeyPrefix = "skyraid:points:"

// Wallet persists players' saved points between sessions. Safe for concurrent use.
type Wallet struct {
	store  Store
	logger *log.Logger
	mu     sync.Mutex
}

// NewWallet creates a wallet over store. A nil logger discards output.
func NewWallet(store Store, logger *log.Logger) *Wallet {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Wallet{store: store, logger: logger}
}

// Load returns the player's saved points, or 0 if none are stored or they
// cannot be read.
func (w *Wallet) Load(player string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.load(player)
}

// Save stores the player's saved points. Failures are logged.
func (w *Wallet) Save(player string, points int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.save(player, points)
}

// Deposit adds points to the player's balance and returns the new balance.
// Several sessions of one player may deposit concurrently.
func (w *Wallet) Deposit(player string, points int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	balance := w.load(player)
	if points <= 0 {
		return balance
	}
	if err := w.save(player, balance+points); err != nil {
		return balance
	}
	return balance + points
}

// Spend deducts price if the balance covers it. It returns the balance
// after the attempt and whether the points were taken.
func (w *Wallet) Spend(player string, price int) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	balance := w.load(player)
	if price < 0 || balance < price {
		return balance, false
	}
	if err := w.save(player, balance-price); err != nil {
		return balance, false
	}
	return balance - price, true
}

func (w *Wallet) load(player string) int {
	raw, ok, err := w.store.Get(PointsKeyPrefix + player)
	if err != nil {
		w.logger.Error("failed to read saved points", "player", player, "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	points, err := strconv.Atoi(raw)
	if err != nil || points < 0 {
		w.logger.Warn("ignoring malformed saved points", "player", player, "value", raw)
		return 0
	}
	return points
}

func (w *Wallet) save(player string, points int) error {
	err := w.store.Set(PointsKeyPrefix+player, strconv.Itoa(max(points, 0)))
	if err != nil {
		w.logger.Error("failed to save points", "player", player, "err", err)
	}
	return err
}
