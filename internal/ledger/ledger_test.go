package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"

	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/ledger/mocks"
	"github.com/tomz197/skyraid/internal/store"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestLedger(s Store) *Ledger {
	l := New(s, nil)
	l.now = func() time.Time { return fixedNow }
	return l
}

func isSorted(entries []Entry) bool {
	return slices.IsSortedFunc(entries, func(a, b Entry) int { return b.Score - a.Score })
}

func TestLoadMissingIsEmpty(t *testing.T) {
	l := newTestLedger(store.NewMemory())
	if got := l.Load(); len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
	if l.Record() != 0 {
		t.Errorf("Record() = %d, want 0", l.Record())
	}
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"", "{", `{"name":"x"}`, `[{"score":"high"}]`} {
		s := store.NewMemory()
		s.Set(HighScoresKey, raw)
		l := newTestLedger(s)
		if got := l.Load(); len(got) != 0 {
			t.Errorf("Load(%q) = %v, want empty", raw, got)
		}
	}
}

func TestLoadNormalizesStoredTable(t *testing.T) {
	var stored []Entry
	for i := range 14 {
		stored = append(stored, Entry{Name: fmt.Sprint("p", i), Score: i * 10})
	}
	raw, _ := json.Marshal(stored)
	s := store.NewMemory()
	s.Set(HighScoresKey, string(raw))

	got := newTestLedger(s).Load()

	if len(got) != config.MaxHighScores {
		t.Fatalf("len = %d, want %d", len(got), config.MaxHighScores)
	}
	if got[0].Score != 130 || !isSorted(got) {
		t.Errorf("table not sorted best first: %v", got)
	}
}

func TestSubmit(t *testing.T) {
	s := store.NewMemory()
	l := newTestLedger(s)

	l.Submit("ann", 100)
	l.Submit("bob", 300)
	entries, rank := l.Submit("cid", 200)

	if rank != 1 {
		t.Errorf("rank = %d, want 1", rank)
	}
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	if !slices.Equal(names, []string{"bob", "cid", "ann"}) {
		t.Errorf("order = %v", names)
	}
	if !entries[1].Date.Equal(fixedNow) {
		t.Errorf("date = %v, want %v", entries[1].Date, fixedNow)
	}
	if l.Record() != 300 {
		t.Errorf("Record() = %d, want 300", l.Record())
	}

	// Persisted as a JSON array.
	raw, ok, _ := s.Get(HighScoresKey)
	var decoded []Entry
	if !ok || json.Unmarshal([]byte(raw), &decoded) != nil || len(decoded) != 3 {
		t.Errorf("stored table = %q", raw)
	}
}

func TestSubmitTiesKeepEarlierEntryAhead(t *testing.T) {
	l := newTestLedger(store.NewMemory())
	l.Submit("first", 50)
	entries, rank := l.Submit("second", 50)

	if entries[0].Name != "first" || rank != 1 {
		t.Errorf("entries = %v, rank = %d", entries, rank)
	}
}

func TestSubmitBelowCut(t *testing.T) {
	l := newTestLedger(store.NewMemory())
	for i := range config.MaxHighScores {
		l.Submit("pro", 1000+i)
	}
	entries, rank := l.Submit("rookie", 1)

	if rank != -1 {
		t.Errorf("rank = %d, want -1", rank)
	}
	if len(entries) != config.MaxHighScores {
		t.Errorf("len = %d, want %d", len(entries), config.MaxHighScores)
	}
}

func TestSubmitKeepsTableSortedAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := newTestLedger(store.NewMemory())
		scores := rapid.SliceOfN(rapid.IntRange(0, 10000), 1, 40).Draw(t, "scores")
		for i, score := range scores {
			before := l.Load()
			entries, rank := l.Submit(fmt.Sprint("p", i), score)

			if len(entries) > config.MaxHighScores || !isSorted(entries) {
				t.Fatalf("bad table after submit: %v", entries)
			}
			makesCut := len(before) < config.MaxHighScores || score > before[len(before)-1].Score
			if makesCut != (rank >= 0) {
				t.Fatalf("score %d: rank %d, makes cut %v", score, rank, makesCut)
			}
			if rank >= 0 && entries[rank].Score != score {
				t.Fatalf("rank %d holds %v", rank, entries[rank])
			}
			if !slices.Equal(l.Load(), entries) {
				t.Fatal("persisted table differs from returned table")
			}
		}
	})
}

func TestSubmitStoreErrors(t *testing.T) {
	t.Run("read failure does not overwrite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mocks.NewMockStore(ctrl)
		s.EXPECT().Get(HighScoresKey).Return("", false, errors.New("disk gone"))
		// No Set expected.

		entries, rank := newTestLedger(s).Submit("ann", 10)
		if len(entries) != 1 || rank != 0 {
			t.Errorf("entries = %v, rank = %d", entries, rank)
		}
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mocks.NewMockStore(ctrl)
		s.EXPECT().Get(HighScoresKey).Return(`[{"name":"bob","score":5}]`, true, nil)
		s.EXPECT().Set(HighScoresKey, gomock.Any()).Return(errors.New("read-only"))

		entries, rank := newTestLedger(s).Submit("ann", 10)
		if len(entries) != 2 || rank != 0 {
			t.Errorf("entries = %v, rank = %d", entries, rank)
		}
	})

	t.Run("load failure is empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mocks.NewMockStore(ctrl)
		s.EXPECT().Get(HighScoresKey).Return("", false, errors.New("timeout"))

		if got := newTestLedger(s).Load(); got != nil {
			t.Errorf("Load() = %v, want nil", got)
		}
	})
}

func TestWallet(t *testing.T) {
	s := store.NewMemory()
	w := NewWallet(s, nil)

	if w.Load("ann") != 0 {
		t.Error("unknown player has points")
	}
	w.Save("ann", 750)
	if got := w.Load("ann"); got != 750 {
		t.Errorf("Load() = %d, want 750", got)
	}
	if v, _, _ := s.Get(PointsKeyPrefix + "ann"); v != "750" {
		t.Errorf("stored %q", v)
	}

	s.Set(PointsKeyPrefix+"bob", "lots")
	if w.Load("bob") != 0 {
		t.Error("malformed points not ignored")
	}
}

func TestWalletStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	s.EXPECT().Get(PointsKeyPrefix+"ann").Return("", false, errors.New("boom"))
	s.EXPECT().Set(PointsKeyPrefix+"ann", "10").Return(errors.New("boom"))

	w := NewWallet(s, nil)
	if w.Load("ann") != 0 {
		t.Error("failed read returned points")
	}
	w.Save("ann", 10)
}

func TestWalletDepositAndSpend(t *testing.T) {
	w := NewWallet(store.NewMemory(), nil)

	if got := w.Deposit("ann", 500); got != 500 {
		t.Fatalf("Deposit() = %d, want 500", got)
	}
	if got := w.Deposit("ann", -20); got != 500 {
		t.Errorf("negative deposit changed balance to %d", got)
	}
	if got, ok := w.Spend("ann", 300); !ok || got != 200 {
		t.Errorf("Spend(300) = %d, %v, want 200, true", got, ok)
	}
	if got, ok := w.Spend("ann", 300); ok || got != 200 {
		t.Errorf("overdraft Spend(300) = %d, %v, want 200, false", got, ok)
	}
	if got := w.Load("ann"); got != 200 {
		t.Errorf("Load() = %d, want 200", got)
	}
}

func TestWalletConcurrentSpendNeverOverdraws(t *testing.T) {
	w := NewWallet(store.NewMemory(), nil)
	w.Save("ann", 500)

	var spent atomic.Int32
	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			if _, ok := w.Spend("ann", 100); ok {
				spent.Add(1)
			}
			return nil
		})
		g.Go(func() error {
			w.Deposit("bob", 10)
			return nil
		})
	}
	g.Wait()

	if spent.Load() != 5 {
		t.Errorf("%d spends succeeded, want 5", spent.Load())
	}
	if got := w.Load("ann"); got != 0 {
		t.Errorf("ann = %d, want 0", got)
	}
	if got := w.Load("bob"); got != 200 {
		t.Errorf("bob = %d, want 200", got)
	}
}

func TestWalletSpendFailsWhenSaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	s.EXPECT().Get(PointsKeyPrefix+"ann").Return("400", true, nil)
	s.EXPECT().Set(PointsKeyPrefix+"ann", "100").Return(errors.New("boom"))

	w := NewWallet(s, nil)
	if got, ok := w.Spend("ann", 300); ok || got != 400 {
		t.Errorf("Spend() = %d, %v, want 400, false", got, ok)
	}
}
