package web

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/loop"
)

var errDisconnected = errors.New("client disconnected")

// session is one browser's game. The driver is only touched on the host
// goroutine; the read and write pumps talk to it through Post and send.
type session struct {
	id     uuid.UUID
	conn   *websocket.Conn
	host   *loop.TickerHost
	driver *loop.Driver
	send   chan []byte
	logger *log.Logger

	wasOver bool
}

func newSession(conn *websocket.Conn, id uuid.UUID, name string, opts Options, logger *log.Logger) *session {
	s := &session{
		id:     id,
		conn:   conn,
		host:   loop.NewTickerHost(opts.FPS),
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
	s.driver = loop.NewDriver(s.host, loop.DriverOptions{
		Player:    name,
		Seed:      binary.BigEndian.Uint64(id[:8]),
		Ledger:    opts.Ledger,
		Wallet:    opts.Wallet,
		Logger:    logger,
		AfterStep: s.afterStep,
	})
	return s
}

// run pumps the connection until either side goes away. The driver is
// stopped after the host has returned.
func (s *session) run(ctx context.Context) error {
	defer s.conn.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.host.Run(ctx)
	})
	g.Go(func() error {
		return s.readLoop()
	})
	g.Go(func() error {
		return s.writeLoop(ctx)
	})

	s.host.Post(func() {
		s.queue(ServerMessage{Type: MsgTypeWelcome, Session: s.id.String(), Player: s.driver.Player()})
		s.sendRanking()
		s.driver.Start()
	})

	err := g.Wait()
	s.driver.Stop()
	if errors.Is(err, errDisconnected) {
		return nil
	}
	return err
}

// readLoop decodes inputs and hands them to the host goroutine. It only
// returns when the connection fails or closes.
func (s *session) readLoop() error {
	s.conn.SetReadLimit(maxMessage)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return errDisconnected
		}
		msg, err := DecodeClientMessage(data)
		if err != nil {
			s.logger.Debug("dropping input", "err", err)
			continue
		}
		if !s.host.Post(func() { s.apply(msg) }) {
			return errDisconnected
		}
	}
}

// writeLoop sends queued frames and keepalive pings. Closing the
// connection on the way out unblocks readLoop.
func (s *session) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

// apply runs one input on the host goroutine.
func (s *session) apply(msg ClientMessage) {
	a, err := msg.GameAction()
	if err != nil {
		s.logger.Debug("dropping input", "err", err)
		return
	}
	if a.Kind == game.ActionShoot {
		s.driver.SetFiring(msg.Pressed)
		return
	}
	if s.driver.Dispatch(a) && a.Kind == game.ActionToggleRanking && s.driver.Game().RankingOpen() {
		s.sendRanking()
	}
}

func (s *session) afterStep() {
	snap := s.driver.Game().Snapshot()
	s.queue(ServerMessage{Type: MsgTypeSnapshot, Snapshot: &snap, Record: s.driver.Record(), LastRank: s.driver.LastRank()})
	if snap.Over && !s.wasOver {
		s.sendRanking()
	}
	s.wasOver = snap.Over
}

func (s *session) sendRanking() {
	s.queue(ServerMessage{
		Type:     MsgTypeRanking,
		Record:   s.driver.Record(),
		Ranking:  s.driver.Ranking(),
		LastRank: s.driver.LastRank(),
	})
}

// queue drops the message when the browser is not keeping up; the next
// snapshot supersedes it anyway.
func (s *session) queue(m ServerMessage) {
	data, err := encode(m)
	if err != nil {
		s.logger.Error("encode failed", "err", err)
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Debug("send buffer full, message dropped", "type", m.Type)
	}
}
