package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/ledger"
	"github.com/tomz197/skyraid/internal/store"
)

func TestGameAction(t *testing.T) {
	tests := []struct {
		name    string
		msg     ClientMessage
		want    game.Action
		wantErr error
	}{
		{
			name: "move left",
			msg:  ClientMessage{Action: "move", Direction: "left", Pressed: true},
			want: game.Action{Kind: game.ActionMove, Direction: game.Left, Pressed: true},
		},
		{
			name: "release right",
			msg:  ClientMessage{Action: "move", Direction: "right"},
			want: game.Action{Kind: game.ActionMove, Direction: game.Right},
		},
		{
			name: "buy bomb",
			msg:  ClientMessage{Action: "buy", Upgrade: "bomb"},
			want: game.Action{Kind: game.ActionBuy, Upgrade: game.UpgradeBomb},
		},
		{
			name: "pause",
			msg:  ClientMessage{Action: "pause"},
			want: game.Action{Kind: game.ActionTogglePause},
		},
		{
			name:    "unknown action",
			msg:     ClientMessage{Action: "warp"},
			wantErr: ErrUnknownAction,
		},
		{
			name:    "move without direction",
			msg:     ClientMessage{Action: "move"},
			wantErr: ErrUnknownDirection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.GameAction()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("action = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := (ClientMessage{Action: "buy", Upgrade: "laser"}).GameAction(); err == nil {
		t.Error("unknown upgrade accepted")
	}
}

func TestDecodeClientMessage(t *testing.T) {
	data, err := msgpack.Marshal(ClientMessage{Action: "buy", Upgrade: "multishot"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := DecodeClientMessage(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Action != "buy" || m.Upgrade != "multishot" {
		t.Errorf("decoded %+v", m)
	}
	if _, err := DecodeClientMessage([]byte{0xc1}); err == nil {
		t.Error("garbage decoded without error")
	}
}

func TestPlayerName(t *testing.T) {
	id := uuid.MustParse("12345678-0000-0000-0000-000000000000")
	tests := []struct {
		in, want string
	}{
		{"  ann  ", "ann"},
		{"", "pilot-1234"},
		{"\x1b[31m", "[31m"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
	}
	for _, tt := range tests {
		if got := playerName(tt.in, id); got != tt.want {
			t.Errorf("playerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	s := store.NewMemory()
	srv := NewServer(Options{
		Ledger: ledger.New(s, nil),
		Wallet: ledger.NewWallet(s, nil),
		FPS:    120,
		Page:   []byte("<html>skyraid</html>"),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func TestServeIndex(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d", resp.StatusCode)
	}
}

// readUntil reads server messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var m ServerMessage
		if err := msgpack.Unmarshal(data, &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if match(m) {
			return m
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, m ClientMessage) {
	t.Helper()
	data, err := msgpack.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWebSocketSession(t *testing.T) {
	ts, srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?name=bob"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	welcome := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgTypeWelcome })
	if welcome.Player != "bob" || welcome.Session == "" {
		t.Errorf("welcome = %+v", welcome)
	}

	snap := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgTypeSnapshot })
	if snap.Snapshot == nil || snap.Snapshot.Lives != 3 || snap.Snapshot.Level != 1 {
		t.Fatalf("first snapshot = %+v", snap.Snapshot)
	}
	if srv.Sessions() != 1 {
		t.Errorf("sessions = %d, want 1", srv.Sessions())
	}

	send(t, conn, ClientMessage{Action: "pause"})
	readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == MsgTypeSnapshot && m.Snapshot.Paused
	})

	send(t, conn, ClientMessage{Action: "ranking"})
	ranking := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == MsgTypeRanking })
	if len(ranking.Ranking) != 0 || ranking.LastRank != -1 {
		t.Errorf("ranking = %+v", ranking)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	deadline := time.Now().Add(5 * time.Second)
	for srv.Sessions() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if srv.Sessions() != 0 {
		t.Error("session still open after close")
	}
}
