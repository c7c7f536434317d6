// Package web hosts games for browsers. Each websocket connection gets its
// own game driven on its own frame host; snapshots stream out as msgpack.
package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomz197/skyraid/internal/ledger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxMessage = 512
	sendBuffer = 16
	maxNameLen = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Options configures a Server.
type Options struct {
	Ledger *ledger.Ledger
	Wallet *ledger.Wallet
	Logger *log.Logger
	FPS    int
	Page   []byte // Served at "/"
}

// Server serves the landing page and the game websocket.
type Server struct {
	opts     Options
	logger   *log.Logger
	sessions atomic.Int64
}

// NewServer creates a server. A nil logger discards output.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{opts: opts, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Sessions returns the number of connected players.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.opts.Page)
}

// handleWebSocket runs one game for the lifetime of the connection. The
// session ends when the browser disconnects or the request context is done.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	id := uuid.New()
	name := playerName(r.URL.Query().Get("name"), id)
	logger := s.logger.With("session", id.String()[:8], "player", name)

	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	logger.Info("session started", "remote", r.RemoteAddr, "sessions", s.Sessions())

	sess := newSession(conn, id, name, s.opts, logger)
	if err := sess.run(r.Context()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session ended with error", "err", err)
		return
	}
	logger.Info("session ended")
}

// playerName cleans a requested display name, falling back to one derived
// from the session ID.
func playerName(requested string, id uuid.UUID) string {
	name := strings.Map(func(r rune) rune {
		if r < ' ' || r == utf8.RuneError {
			return -1
		}
		return r
	}, strings.TrimSpace(requested))
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	if name == "" {
		name = "pilot-" + id.String()[:4]
	}
	return name
}
