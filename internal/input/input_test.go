package input

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestFeedMapsKeys(t *testing.T) {
	tests := []struct {
		in   string
		want []Key
	}{
		{"a", []Key{KeyLeft}},
		{"\x1b[D", []Key{KeyLeft}},
		{"\x1b[C", []Key{KeyRight}},
		{" b", []Key{KeyFire, KeyBomb}},
		{"\r", []Key{KeyEnter}},
		{"123", []Key{KeyBuy1, KeyBuy2, KeyBuy3}},
		{"Q", []Key{KeyQuit}},
		{"\x03", []Key{KeyQuit}},
		{"zz", nil},
		{"\x1b[A", nil}, // Up arrow is unused
	}
	for _, tt := range tests {
		var tr Tracker
		st := tr.Feed([]byte(tt.in), time.Unix(0, 0))
		if !slices.Equal(st.Pressed, tt.want) {
			t.Errorf("Feed(%q) pressed = %v, want %v", tt.in, st.Pressed, tt.want)
		}
	}
}

func TestHoldAndRelease(t *testing.T) {
	var tr Tracker
	t0 := time.Unix(100, 0)

	st := tr.Feed([]byte("d"), t0)
	if !st.IsHeld(KeyRight) || len(st.Pressed) != 1 {
		t.Fatalf("first press: %+v", st)
	}

	// Auto-repeat within the hold window is not a new press.
	st = tr.Feed([]byte("d"), t0.Add(50*time.Millisecond))
	if len(st.Pressed) != 0 || !st.IsHeld(KeyRight) {
		t.Fatalf("repeat: %+v", st)
	}

	st = tr.Feed(nil, t0.Add(50*time.Millisecond+HoldDuration-time.Millisecond))
	if !st.IsHeld(KeyRight) || len(st.Released) != 0 {
		t.Fatalf("still held: %+v", st)
	}

	st = tr.Feed(nil, t0.Add(50*time.Millisecond+HoldDuration))
	if st.IsHeld(KeyRight) || !slices.Equal(st.Released, []Key{KeyRight}) {
		t.Fatalf("release: %+v", st)
	}

	st = tr.Feed(nil, t0.Add(time.Second))
	if len(st.Released) != 0 {
		t.Errorf("released twice: %+v", st)
	}
}

func TestStreamPollsWithoutBlocking(t *testing.T) {
	s := StartStream(strings.NewReader("d "))

	var st State
	deadline := time.Now().Add(time.Second)
	for !st.Closed && time.Now().Before(deadline) {
		next := s.Poll(time.Now())
		if len(next.Pressed) > 0 {
			st.Pressed = append(st.Pressed, next.Pressed...)
		}
		st.Closed = next.Closed
	}
	if !st.Closed {
		t.Fatal("stream did not report the closed reader")
	}
	if !slices.Equal(st.Pressed, []Key{KeyRight, KeyFire}) {
		t.Errorf("pressed = %v", st.Pressed)
	}
}
