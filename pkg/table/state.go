// Package table holds the client's view of one poker table and the reducer
// that advances it.
//
// A GameState is never modified once returned: Reduce either returns the
// same pointer (nothing changed) or a new state sharing every untouched
// slice and map with the previous one.
package table

import (
	"github.com/vctt94/pokertablesync/pkg/poker"
)

// Phase is the stage of the current hand.
type Phase string

const (
	PhaseWaiting  Phase = "WAITING_FOR_PLAYERS"
	PhasePreFlop  Phase = "PRE_FLOP"
	PhaseFlop     Phase = "FLOP"
	PhaseTurn     Phase = "TURN"
	PhaseRiver    Phase = "RIVER"
	PhaseShowdown Phase = "SHOWDOWN"
	PhaseFinished Phase = "FINISHED"
)

var phaseOrder = map[Phase]int{
	PhaseWaiting:  0,
	PhasePreFlop:  1,
	PhaseFlop:     2,
	PhaseTurn:     3,
	PhaseRiver:    4,
	PhaseShowdown: 5,
	PhaseFinished: 6,
}

// Betting reports whether players act during this phase.
func (p Phase) Betting() bool {
	switch p {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

// Final reports whether the hand is being settled.
func (p Phase) Final() bool {
	return p == PhaseShowdown || p == PhaseFinished
}

// NoSeat marks the absence of a seat index.
const NoSeat = -1

// DefaultMaxPlayers is used when a table does not report its capacity.
const DefaultMaxPlayers = 8

// User is a player identity.
type User struct {
	ID       int64
	Username string
	Avatar   string
	Role     string
}

// Seat is one slot of the table. Empty seats have a nil User.
type Seat struct {
	Index          int
	User           *User
	Stack          int64
	Folded         bool
	AllIn          bool
	Disconnected   bool
	TimeoutActed   bool
	SittingOut     bool
	Winner         bool
	HoleCards      []poker.Card
	LastActionText string
	Winnings       int64
	NetResult      int64
}

// Occupied reports whether a player sits in the seat.
func (s Seat) Occupied() bool {
	return s.User != nil
}

// SidePot is one pot of a hand. Eligible and Winners hold seat indexes.
type SidePot struct {
	Amount            int64
	Eligible          []int
	Winners           []int
	WinningsPerPlayer int64
	Main              bool
	WinningCards      []poker.Card
}

// ShowdownHand is a single seat's showdown result. Nil fields were not
// reported.
type ShowdownHand struct {
	Winner    *bool
	NetResult *int64
	Winnings  *int64
	HoleCards []poker.Card
}

// Showdown is the server computed result of a hand.
type Showdown struct {
	Hands          map[int]ShowdownHand
	SidePots       []SidePot
	Stacks         map[int]int64
	CommunityCards []poker.Card
}

// Info is the static configuration of a table.
type Info struct {
	ID         int64
	Name       string
	SmallBlind int64
	BigBlind   int64
	MinBuyIn   int64
	MaxBuyIn   int64
	MaxPlayers int
	Variant    poker.Variant
}

// GameState is the canonical local view of a table.
type GameState struct {
	Table Info
	Phase Phase
	// Seats always has Table.MaxPlayers entries.
	Seats                  []Seat
	CommunityCards         []poker.Card
	DestinedCommunityCards []poker.Card
	Pot                    int64
	Bets                   map[int]int64
	Pots                   []SidePot

	// ActingSeat is only meaningful during betting phases, see Acting.
	ActingSeat     int
	TurnPlayer     *User
	IsAuto         bool
	TurnStartTime  string
	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int

	Authenticated bool
	Balance       int64
	CurrentUser   *User

	Showdown *Showdown

	// applied is the set of action ids already reduced.
	applied map[string]struct{}
}

// NewGameState returns the state of a table nothing is known about yet.
func NewGameState() *GameState {
	return &GameState{
		Table:      Info{MaxPlayers: DefaultMaxPlayers, Variant: poker.VariantTexas},
		Phase:      PhaseWaiting,
		Seats:      emptySeats(DefaultMaxPlayers),
		Bets:       map[int]int64{},
		ActingSeat: NoSeat,
		applied:    map[string]struct{}{},
	}
}

func emptySeats(n int) []Seat {
	seats := make([]Seat, n)
	for i := range seats {
		seats[i].Index = i
	}
	return seats
}

// Seat returns the seat at index i.
func (s *GameState) Seat(i int) (Seat, bool) {
	if i < 0 || i >= len(s.Seats) {
		return Seat{}, false
	}
	return s.Seats[i], true
}

// Acting returns the seat expected to act. There is none outside the
// betting phases.
func (s *GameState) Acting() (int, bool) {
	if !s.Phase.Betting() || s.ActingSeat < 0 || s.ActingSeat >= len(s.Seats) {
		return NoSeat, false
	}
	return s.ActingSeat, true
}

// OwnSeat returns the seat occupied by the authenticated user.
func (s *GameState) OwnSeat() (int, bool) {
	if s.CurrentUser == nil {
		return NoSeat, false
	}
	for i := range s.Seats {
		if u := s.Seats[i].User; u != nil && u.ID == s.CurrentUser.ID {
			return i, true
		}
	}
	return NoSeat, false
}

// Applied reports whether the action with the given id was already reduced.
func (s *GameState) Applied(actionID string) bool {
	_, ok := s.applied[actionID]
	return ok
}

// BestHand evaluates the hand of the given seat against the board using the
// table's variant.
func (s *GameState) BestHand(seat int) (poker.HandResult, error) {
	st, ok := s.Seat(seat)
	if !ok {
		return poker.HandResult{}, poker.ErrTooFewCards
	}
	return poker.EvaluateVariant(s.Table.Variant, st.HoleCards, s.CommunityCards)
}
