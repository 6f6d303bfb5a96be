package table

import "github.com/vctt94/pokertablesync/pkg/poker"

// EventKind identifies an Event variant.
type EventKind int

const (
	KindAuthConfirmed EventKind = iota + 1
	KindTableSnapshot
	KindPhaseUpdate
	KindPlayerAction
	KindTurnUpdate
	KindCombinedSplitPot
	KindHoleCardsReveal
	KindReset
)

var kindNames = map[EventKind]string{
	KindAuthConfirmed:    "AuthConfirmed",
	KindTableSnapshot:    "TableSnapshot",
	KindPhaseUpdate:      "PhaseUpdate",
	KindPlayerAction:     "PlayerAction",
	KindTurnUpdate:       "TurnUpdate",
	KindCombinedSplitPot: "CombinedSplitPot",
	KindHoleCardsReveal:  "HoleCardsReveal",
	KindReset:            "Reset",
}

func (k EventKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Event is anything the reducer can apply. Each variant carries exactly one
// payload.
type Event interface {
	Kind() EventKind
}

// AuthConfirmed marks the session as authenticated.
type AuthConfirmed struct {
	Balance int64
	User    *User
}

func (AuthConfirmed) Kind() EventKind { return KindAuthConfirmed }

// SessionSnapshot is the per-hand part of a table snapshot. Nil fields
// were absent and keep their previous value.
type SessionSnapshot struct {
	Phase                  Phase
	Pot                    *int64
	Bets                   map[int]int64
	CommunityCards         []poker.Card
	HoleCards              map[int][]poker.Card
	DealerSeat             *int
	SmallBlindSeat         *int
	BigBlindSeat           *int
	ActingSeat             *int
	TurnPlayer             *User
	TurnStartTime          *string
	DestinedCommunityCards []poker.Card
}

// TableSnapshot is an authoritative view of the whole table. Seats holds
// the occupied seats only, keyed by index.
type TableSnapshot struct {
	Table   Info
	Seats   map[int]Seat
	Session *SessionSnapshot
}

func (TableSnapshot) Kind() EventKind { return KindTableSnapshot }

// PhaseUpdate is an incremental change of phase, board and pot.
type PhaseUpdate struct {
	Phase          Phase
	Pot            *int64
	Bets           map[int]int64
	CommunityCards []poker.Card
	Pots           []SidePot
}

func (PhaseUpdate) Kind() EventKind { return KindPhaseUpdate }

// PlayerAction is an action taken by one seat, either reported by the
// server or predicted locally (Optimistic).
type PlayerAction struct {
	ActionType   string
	SeatID       int
	Amount       int64
	UpdatedStack *int64
	Cards        []poker.Card
	Pot          *int64
	Bets         map[int]int64
	ActionID     string
	Optimistic   bool
	// Deducted is set when the seat stack already reflects Amount.
	Deducted bool
	// AllIn, when set, overrides the all-in derivation.
	AllIn *bool
}

func (PlayerAction) Kind() EventKind { return KindPlayerAction }

// TurnUpdate announces the seat to act.
type TurnUpdate struct {
	ActingSeat    *int
	IsAuto        *bool
	TurnStartTime *string
}

func (TurnUpdate) Kind() EventKind { return KindTurnUpdate }

// CombinedSplitPot carries the showdown result of a hand.
type CombinedSplitPot struct {
	Showdown Showdown
}

func (CombinedSplitPot) Kind() EventKind { return KindCombinedSplitPot }

// HoleCardsReveal pushes hole cards for some seats out of band.
type HoleCardsReveal struct {
	Cards map[int][]poker.Card
}

func (HoleCardsReveal) Kind() EventKind { return KindHoleCardsReveal }

// Reset clears everything tied to the current hand.
type Reset struct{}

func (Reset) Kind() EventKind { return KindReset }
