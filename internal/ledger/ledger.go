// Package ledger keeps the high-score table and players' saved points in a
// key-value store. Persistence failures are logged and never reach gameplay.
package ledger

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/game/config"
)

// HighScoresKey is the store key holding the JSON-encoded table.
const HighScoresKey = "skyraid:highscores"

// Store is the narrow key-value interface the ledger persists through.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Entry is a single row of the high-score table.
type Entry struct {
	Name  string    `json:"name" msgpack:"name"`
	Score int       `json:"score" msgpack:"score"`
	Date  time.Time `json:"date" msgpack:"date"`
}

// Ledger is the top-N high-score table. Safe for concurrent use.
type Ledger struct {
	store  Store
	logger *log.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New creates a ledger over store. A nil logger discards output.
func New(store Store, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns the persisted table, best first. Missing or malformed data
// yields an empty table.
func (l *Ledger) Load() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		l.logger.Error("failed to read high scores", "err", err)
		return nil
	}
	return entries
}

// Submit records a result dated now and persists the updated table.
// Returns the table and the new entry's rank (0-based), or -1 if it did not
// make the cut. A failed write leaves the stored table as it was.
func (l *Ledger) Submit(name string, score int) ([]Entry, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		// Writing now would overwrite a table we could not read.
		l.logger.Error("failed to read high scores", "err", err)
		return []Entry{{Name: name, Score: score, Date: l.now()}}, 0
	}

	entry := Entry{Name: name, Score: score, Date: l.now()}
	entries = append(entries, entry)
	normalize(&entries)

	rank := slices.IndexFunc(entries, func(e Entry) bool { return e == entry })

	data, err := json.Marshal(entries)
	if err != nil {
		l.logger.Error("failed to encode high scores", "err", err)
		return entries, rank
	}
	if err := l.store.Set(HighScoresKey, string(data)); err != nil {
		l.logger.Error("failed to save high scores", "err", err)
	}
	return entries, rank
}

// Record returns the best score in the table, or 0 if it is empty.
func (l *Ledger) Record() int {
	entries := l.Load()
	if len(entries) == 0 {
		return 0
	}
	return entries[0].Score
}

// load reads and normalizes the table. Only store errors are returned.
func (l *Ledger) load() ([]Entry, error) {
	raw, ok, err := l.store.Get(HighScoresKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.Warn("ignoring malformed high scores", "err", err)
		return nil, nil
	}
	normalize(&entries)
	return entries, nil
}

// normalize sorts by score, best first, keeping earlier entries ahead on
// ties, and truncates to the table size.
func normalize(entries *[]Entry) {
	slices.SortStableFunc(*entries, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(*entries) > config.MaxHighScores {
		*entries = (*entries)[:config.MaxHighScores]
	}
}
