package protocol

import (
	"encoding/json"

	"github.com/vctt94/pokertablesync/pkg/poker"
)

// User is a player identity as reported by the server.
type User struct {
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Role       string `json:"role,omitempty"`
}

// AuthResult is the payload of an inbound AUTH frame.
type AuthResult struct {
	Balance *int64 `json:"balance"`
	User    *User  `json:"user"`
}

// SeatInfo is one occupied seat of a table snapshot.
type SeatInfo struct {
	User         *User        `json:"user"`
	SeatID       *int         `json:"seatId"`
	Stack        int64        `json:"stack"`
	HoleCards    []poker.Card `json:"holeCards,omitempty"`
	IsAllIn      bool         `json:"isAllIn"`
	IsFolded     bool         `json:"isFolded"`
	Winnings     int64        `json:"winnings"`
	NetResult    int64        `json:"netResult"`
	Disconnected bool         `json:"disconnected"`
	TimeoutActed bool         `json:"timeoutActed"`
	IsSittingOut bool         `json:"isSittingOut"`
}

// TableInfo is the static part of a table snapshot. The same shape is
// returned by the table lookup REST endpoint.
type TableInfo struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name,omitempty"`
	MinBuyIn    int64                `json:"minBuyIn"`
	MaxBuyIn    int64                `json:"maxBuyIn"`
	SmallBlind  int64                `json:"smallBlind"`
	BigBlind    int64                `json:"bigBlind"`
	MaxPlayers  int                  `json:"maxPlayers"`
	GameVariant string               `json:"gameVariant,omitempty"`
	Seats       map[string]*SeatInfo `json:"seats"`
}

// Session is the per-hand part of a table snapshot. Absent fields are nil.
type Session struct {
	State                  string                  `json:"state,omitempty"`
	CurrentPot             *int64                  `json:"currentPot"`
	CurrentBets            map[string]int64        `json:"currentBets"`
	CommunityCards         []poker.Card            `json:"communityCards"`
	HoleCards              map[string][]poker.Card `json:"holeCards"`
	DealerSeatIndex        *int                    `json:"dealerSeatIndex"`
	SmallBlindSeatIndex    *int                    `json:"smallBlindSeatIndex"`
	BigBlindSeatIndex      *int                    `json:"bigBlindSeatIndex"`
	CurrentPlayerSeat      *int                    `json:"currentPlayerSeat"`
	TurnPlayer             *User                   `json:"turnPlayer"`
	TurnStartTime          *string                 `json:"turnStartTime"`
	DestinedCommunityCards []poker.Card            `json:"destinedCommunityCards"`
}

// TableUpdate is the payload of an inbound TABLE frame.
type TableUpdate struct {
	Table   *TableInfo `json:"table"`
	Session *Session   `json:"session"`
}

// GameHeader is decoded first from every GAME frame to select the route.
type GameHeader struct {
	Action string `json:"action"`
}

// PlayerAction is a single seat's action.
type PlayerAction struct {
	ActionType   string           `json:"actionType"`
	SeatID       int              `json:"seatId"`
	Amount       int64            `json:"amount"`
	UpdatedStack *int64           `json:"updatedStack"`
	Cards        []poker.Card     `json:"cards"`
	CurrentPot   *int64           `json:"currentPot"`
	CurrentBets  map[string]int64 `json:"currentBets"`
	ActionID     string           `json:"actionId"`
	IsAllIn      *bool            `json:"isAllIn"`
}

// PlayerActionWithState bundles an action with the session it produced.
type PlayerActionWithState struct {
	PlayerAction PlayerAction `json:"playerAction"`
	TableUpdate  struct {
		Session *Session `json:"session"`
	} `json:"tableUpdate"`
}

// TurnUpdate announces the seat to act.
type TurnUpdate struct {
	CurrentPlayerSeat *int    `json:"currentPlayerSeat"`
	IsAuto            *bool   `json:"isAuto"`
	TurnStartTime     *string `json:"turnStartTime"`
}

// SidePot is one pot of a hand, as computed by the server.
type SidePot struct {
	Amount                int64        `json:"amount"`
	EligiblePlayers       []SeatInfo   `json:"eligiblePlayers"`
	Winners               []SeatInfo   `json:"winners"`
	WinningsPerPlayer     int64        `json:"winningsPerPlayer"`
	MainPot               bool         `json:"mainPot"`
	WinningCommunityCards []poker.Card `json:"winningCommunityCards,omitempty"`
}

// ShowdownHand is the per-seat showdown result.
type ShowdownHand struct {
	IsWinner  *bool        `json:"isWinner"`
	NetResult *int64       `json:"netResult"`
	Winnings  *int64       `json:"winnings"`
	HoleCards []poker.Card `json:"holeCards"`
}

// CombinedSplitPot is the showdown result for every pot of a hand.
type CombinedSplitPot struct {
	Hands          map[string]*ShowdownHand `json:"hands"`
	SidePots       []SidePot                `json:"sidePots"`
	Stacks         map[string]int64         `json:"stacks"`
	CommunityCards []poker.Card             `json:"communityCards"`
}

// PhaseUpdate is the payload of any GAME frame without a dedicated action.
type PhaseUpdate struct {
	State          string           `json:"state"`
	CurrentPot     *int64           `json:"currentPot"`
	CurrentBets    map[string]int64 `json:"currentBets"`
	CommunityCards []poker.Card     `json:"communityCards"`
	Pots           []SidePot        `json:"pots"`
}

// HoleCards maps seat keys to cards revealed out of band. The frame's
// "action" member shares the object with the seat keys.
type HoleCards map[string][]poker.Card

// UnmarshalJSON implements json.Unmarshaler, skipping non-seat members.
func (h *HoleCards) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(HoleCards, len(raw))
	for k, v := range raw {
		if _, ok := SeatIndex(k); !ok {
			continue
		}
		var cards []poker.Card
		if err := json.Unmarshal(v, &cards); err != nil {
			return err
		}
		out[k] = cards
	}
	*h = out
	return nil
}

// ChatMessage is an inbound CHAT payload.
type ChatMessage struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	Action   string `json:"action,omitempty"`
}

// ServerError is an inbound ERROR payload.
type ServerError struct {
	Error string `json:"error"`
}
