// Package input turns a raw terminal byte stream into logical key state.
//
// Terminals only report key presses (and auto-repeats), never releases, so
// a key counts as held for HoldDuration after its last byte arrived.
package input

import (
	"io"
	"time"
)

// HoldDuration is how long a key is considered held after its last press.
// It has to bridge the gap between terminal auto-repeats.
const HoldDuration = 120 * time.Millisecond

// Key is a logical key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyFire
	KeyBomb
	KeyShop
	KeyRanking
	KeyPause
	KeyEnter
	KeyBuy1
	KeyBuy2
	KeyBuy3
	KeyYes
	KeyNo
	KeyCinematic
	KeyQuit
	keyCount
)

var keyNames = [keyCount]string{
	"none", "left", "right", "fire", "bomb", "shop", "ranking", "pause",
	"enter", "buy1", "buy2", "buy3", "yes", "no", "cinematic", "quit",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// State is the key state after a poll.
type State struct {
	Held     [keyCount]bool
	Pressed  []Key // Went from released to held during this poll, in arrival order
	Released []Key // Went from held to released during this poll
	Closed   bool  // The underlying reader is exhausted
}

// IsHeld reports whether k is currently held.
func (s State) IsHeld(k Key) bool {
	return k > KeyNone && k < keyCount && s.Held[k]
}

// Tracker keeps per-key timestamps and derives held, pressed and released keys.
type Tracker struct {
	lastSeen [keyCount]time.Time
	held     [keyCount]bool
}

// Feed parses buf as having arrived at now and returns the new state.
// Call it every frame, with an empty buf if nothing arrived, so that
// releases are detected.
func (t *Tracker) Feed(buf []byte, now time.Time) State {
	var st State
	for i := 0; i < len(buf); i++ {
		k := KeyNone
		// CSI arrow sequences: ESC [ C / ESC [ D
		if buf[i] == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				k = KeyRight
			case 'D':
				k = KeyLeft
			}
			i += 2
		} else {
			k = keyForByte(buf[i])
		}
		if k == KeyNone {
			continue
		}
		if !t.held[k] && !contains(st.Pressed, k) {
			st.Pressed = append(st.Pressed, k)
		}
		t.lastSeen[k] = now
	}

	for k := KeyNone + 1; k < keyCount; k++ {
		held := !t.lastSeen[k].IsZero() && now.Sub(t.lastSeen[k]) < HoldDuration
		if t.held[k] && !held {
			st.Released = append(st.Released, k)
		}
		t.held[k] = held
		st.Held[k] = held
	}
	return st
}

// Reset forgets all key state.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

func contains(keys []Key, k Key) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

func keyForByte(b byte) Key {
	switch b {
	case 'a', 'A':
		return KeyLeft
	case 'd', 'D':
		return KeyRight
	case ' ':
		return KeyFire
	case 'b', 'B':
		return KeyBomb
	case 's', 'S':
		return KeyShop
	case 'r', 'R':
		return KeyRanking
	case 'p', 'P':
		return KeyPause
	case '\r', '\n':
		return KeyEnter
	case '1':
		return KeyBuy1
	case '2':
		return KeyBuy2
	case '3':
		return KeyBuy3
	case 'y', 'Y':
		return KeyYes
	case 'n', 'N':
		return KeyNo
	case 'c', 'C':
		return KeyCinematic
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		return KeyQuit
	default:
		return KeyNone
	}
}

// Stream delivers input bytes from a reader and tracks key state.
type Stream struct {
	ch      chan byte
	closed  bool
	tracker Tracker
	buf     []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		var b [64]byte
		for {
			n, err := r.Read(b[:])
			for _, c := range b[:n] {
				s.ch <- c
			}
			if err != nil {
				return
			}
		}
	}()
	return s
}

// Poll drains all available bytes without blocking and returns the key state.
func (s *Stream) Poll(now time.Time) State {
	s.buf = s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}
	st := s.tracker.Feed(s.buf, now)
	st.Closed = s.closed
	return st
}

// Reset forgets all key state, e.g. when switching screens.
func (s *Stream) Reset() {
	s.tracker.Reset()
}
