package web

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/ledger"
)

// Message types sent to the browser.
const (
	MsgTypeSnapshot = "snapshot"
	MsgTypeRanking  = "ranking"
	MsgTypeWelcome  = "welcome"
)

var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownDirection = errors.New("unknown direction")
)

// ClientMessage is one logical input from the browser. Direction and
// Pressed apply to "move", Upgrade to "buy". For "shoot", Pressed starts
// or stops continuous fire.
type ClientMessage struct {
	Action    string `msgpack:"action"`
	Direction string `msgpack:"direction"`
	Pressed   bool   `msgpack:"pressed"`
	Upgrade   string `msgpack:"upgrade"`
}

// ServerMessage is sent to the browser every frame (snapshot) and when
// the ranking is opened or a run ends (ranking).
type ServerMessage struct {
	Type     string         `msgpack:"type"`
	Session  string         `msgpack:"session,omitempty"`
	Player   string         `msgpack:"player,omitempty"`
	Snapshot *game.Snapshot `msgpack:"snapshot,omitempty"`
	Record   int            `msgpack:"record"`
	Ranking  []ledger.Entry `msgpack:"ranking,omitempty"`
	LastRank int            `msgpack:"lastRank"`
}

// DecodeClientMessage parses a msgpack frame from the browser.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	return m, nil
}

// GameAction maps the message onto a game action.
func (m ClientMessage) GameAction() (game.Action, error) {
	kind, ok := game.ParseActionKind(m.Action)
	if !ok {
		return game.Action{}, fmt.Errorf("%w %q", ErrUnknownAction, m.Action)
	}
	a := game.Action{Kind: kind, Pressed: m.Pressed}
	switch kind {
	case game.ActionMove:
		switch m.Direction {
		case "left":
			a.Direction = game.Left
		case "right":
			a.Direction = game.Right
		default:
			return game.Action{}, fmt.Errorf("%w %q", ErrUnknownDirection, m.Direction)
		}
	case game.ActionBuy:
		u, err := game.ParseUpgrade(m.Upgrade)
		if err != nil {
			return game.Action{}, err
		}
		a.Upgrade = u
	}
	return a, nil
}

func encode(m ServerMessage) ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Type, err)
	}
	return data, nil
}
