// Package protocol defines the JSON frames exchanged with the table server
// over the websocket. Every frame is {"type": ..., "data": ...}.
package protocol

import (
	"encoding/json"
	"strconv"
)

// Frame types.
const (
	TypeAuth  = "AUTH"
	TypeTable = "TABLE"
	TypeGame  = "GAME"
	TypeChat  = "CHAT"
	TypeError = "ERROR"
)

// TABLE command actions.
const (
	ActionSubscribe = "SUBSCRIBE"
	ActionTakeSeat  = "TAKE_SEAT"
	ActionRecharge  = "RECHARGE"
	ActionLeaveSeat = "LEAVE_SEAT"
	ActionReconnect = "RECONNECT"
)

// Inbound GAME actions. Any other action carries a phase update.
const (
	GamePlayerAction          = "PLAYER_ACTION"
	GamePlayerActionWithState = "PLAYER_ACTION_WITH_STATE"
	GameTurnUpdate            = "TURN_UPDATE"
	GameCombinedSplitPot      = "COMBINED_SPLIT_POT"
	GameHoleCards             = "HOLE_CARDS"
)

// Player action types.
const (
	Fold        = "FOLD"
	Check       = "CHECK"
	Call        = "CALL"
	Bet         = "BET"
	Raise       = "RAISE"
	AllIn       = "ALL_IN"
	RevealCards = "REVEAL_CARDS"
)

// Frame is the envelope of every message on the wire.
type Frame struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewFrame encodes data as the payload of a frame of the given type.
func NewFrame(typ string, data interface{}) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: typ, Data: raw}, nil
}

// mustFrame is used by the command builders, whose payloads always encode.
func mustFrame(typ string, data interface{}) Frame {
	f, err := NewFrame(typ, data)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFrame decodes a raw websocket message.
func ParseFrame(b []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(b, &f)
	return f, err
}

// SeatIndex parses a seat map key.
func SeatIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
