package table

import (
	"maps"
	"reflect"
	"slices"

	"github.com/vctt94/pokertablesync/pkg/poker"
	"github.com/vctt94/pokertablesync/pkg/protocol"
)

// Reduce applies ev to s and returns the resulting state. s is never
// modified; when ev changes nothing s itself is returned. Unknown events
// and references to seats outside the table are ignored.
func Reduce(s *GameState, ev Event) *GameState {
	next, _ := reduce(s, ev)
	return next
}

// ReduceAll applies events in order.
func ReduceAll(s *GameState, events ...Event) *GameState {
	for _, ev := range events {
		s = Reduce(s, ev)
	}
	return s
}

// reduce also reports whether the event variant is known.
func reduce(s *GameState, ev Event) (*GameState, bool) {
	switch e := ev.(type) {
	case AuthConfirmed:
		return reduceAuth(s, e), true
	case TableSnapshot:
		return reduceSnapshot(s, e), true
	case PhaseUpdate:
		return reducePhase(s, e), true
	case PlayerAction:
		return reduceAction(s, e), true
	case TurnUpdate:
		return reduceTurn(s, e), true
	case CombinedSplitPot:
		return reduceShowdown(s, e), true
	case HoleCardsReveal:
		return reduceHoleCards(s, e), true
	case Reset:
		return reduceReset(s), true
	}
	return s, false
}

func (s *GameState) clone() *GameState {
	c := *s
	return &c
}

func (s *GameState) withApplied(actionID string) map[string]struct{} {
	applied := make(map[string]struct{}, len(s.applied)+1)
	for id := range s.applied {
		applied[id] = struct{}{}
	}
	applied[actionID] = struct{}{}
	return applied
}

func seatEqual(a, b *Seat) bool {
	return a.Index == b.Index &&
		a.User == b.User &&
		a.Stack == b.Stack &&
		a.Folded == b.Folded &&
		a.AllIn == b.AllIn &&
		a.Disconnected == b.Disconnected &&
		a.TimeoutActed == b.TimeoutActed &&
		a.SittingOut == b.SittingOut &&
		a.Winner == b.Winner &&
		a.LastActionText == b.LastActionText &&
		a.Winnings == b.Winnings &&
		a.NetResult == b.NetResult &&
		slices.Equal(a.HoleCards, b.HoleCards)
}

// preservePot keeps a positive pot when a settling phase reports an empty
// one, which happens when the pot clear overtakes the phase change.
func preservePot(phase Phase, incoming, prior int64) int64 {
	if phase.Final() && incoming == 0 && prior > 0 {
		return prior
	}
	return incoming
}

// startsNewHand reports whether moving from prev to next begins a new hand.
func startsNewHand(prev, next Phase) bool {
	if next == PhaseWaiting || (next == PhasePreFlop && prev != PhasePreFlop) {
		return true
	}
	po, pok := phaseOrder[prev]
	no, nok := phaseOrder[next]
	return pok && nok && no < po
}

// staleUpdate reports whether an incremental update would move the hand
// backwards.
func staleUpdate(prev, next Phase) bool {
	if next == PhasePreFlop || next == PhaseWaiting {
		return false
	}
	po, pok := phaseOrder[prev]
	no, nok := phaseOrder[next]
	return pok && nok && no < po
}

func clearActionText(seats []Seat) []Seat {
	var out []Seat
	for i := range seats {
		if seats[i].LastActionText == "" {
			continue
		}
		if out == nil {
			out = slices.Clone(seats)
		}
		out[i].LastActionText = ""
	}
	if out == nil {
		return seats
	}
	return out
}

func reduceAuth(s *GameState, e AuthConfirmed) *GameState {
	n := s.clone()
	n.Authenticated = true
	n.Balance = e.Balance
	n.CurrentUser = e.User
	return n
}

func reduceSnapshot(s *GameState, e TableSnapshot) *GameState {
	n := s.clone()

	info := e.Table
	if info.MaxPlayers <= 0 {
		info.MaxPlayers = DefaultMaxPlayers
	}
	if info.Variant == "" {
		info.Variant = poker.VariantTexas
	}
	n.Table = info

	sess := e.Session
	holeCards := map[int][]poker.Card{}
	if sess == nil {
		for i := range s.Seats {
			if s.Seats[i].Occupied() {
				holeCards[i] = s.Seats[i].HoleCards
			}
		}
	} else if sess.HoleCards != nil {
		holeCards = sess.HoleCards
	}

	seats := emptySeats(info.MaxPlayers)
	for i := range seats {
		if in, ok := e.Seats[i]; ok {
			in.Index = i
			in.LastActionText = ""
			seats[i] = in
		}
		if hc, ok := holeCards[i]; ok {
			seats[i].HoleCards = hc
		}
		if i < len(s.Seats) && s.Seats[i].LastActionText != "" && seats[i].Occupied() {
			seats[i].LastActionText = s.Seats[i].LastActionText
		}
	}
	n.Seats = seats

	if sess == nil {
		return n
	}

	if sess.Phase != "" {
		n.Phase = sess.Phase
	}
	newHand := startsNewHand(s.Phase, n.Phase)
	if sess.CommunityCards != nil && (newHand || len(sess.CommunityCards) >= len(s.CommunityCards)) {
		n.CommunityCards = sess.CommunityCards
	}
	if sess.Pot != nil {
		n.Pot = preservePot(n.Phase, *sess.Pot, s.Pot)
	}
	if sess.Bets != nil {
		n.Bets = maps.Clone(sess.Bets)
	}
	if sess.DealerSeat != nil {
		n.DealerSeat = *sess.DealerSeat
	}
	if sess.SmallBlindSeat != nil {
		n.SmallBlindSeat = *sess.SmallBlindSeat
	}
	if sess.BigBlindSeat != nil {
		n.BigBlindSeat = *sess.BigBlindSeat
	}
	if sess.ActingSeat != nil {
		n.ActingSeat = *sess.ActingSeat
	}
	if sess.TurnPlayer != nil {
		n.TurnPlayer = sess.TurnPlayer
	}
	if sess.TurnStartTime != nil {
		n.TurnStartTime = *sess.TurnStartTime
	}
	if sess.DestinedCommunityCards != nil {
		n.DestinedCommunityCards = sess.DestinedCommunityCards
	}
	return n
}

func reducePhase(s *GameState, e PhaseUpdate) *GameState {
	if e.Phase == PhaseWaiting {
		return reduceReset(s)
	}

	phase := s.Phase
	if e.Phase != "" {
		if staleUpdate(s.Phase, e.Phase) {
			return s
		}
		phase = e.Phase
	}
	newHand := startsNewHand(s.Phase, phase)

	n := s.clone()
	n.Phase = phase

	cardsGrew := false
	switch {
	case newHand:
		n.CommunityCards = e.CommunityCards
		n.Showdown = nil
	case e.CommunityCards != nil && len(e.CommunityCards) >= len(s.CommunityCards):
		cardsGrew = len(e.CommunityCards) > len(s.CommunityCards)
		n.CommunityCards = e.CommunityCards
	}

	if e.Pot != nil {
		n.Pot = preservePot(phase, *e.Pot, s.Pot)
	}
	if e.Bets != nil {
		n.Bets = maps.Clone(e.Bets)
	}
	if e.Pots != nil {
		n.Pots = e.Pots
	}
	if newHand || cardsGrew {
		n.Seats = clearActionText(s.Seats)
	}
	return n
}

// allInAfter decides whether a seat is all-in after an action. An explicit
// flag wins over the action type, which wins over the stack check.
func allInAfter(e *PlayerAction, stackAfter int64) bool {
	if e.AllIn != nil {
		return *e.AllIn
	}
	if e.ActionType == protocol.AllIn {
		return true
	}
	return e.Amount > 0 && stackAfter <= 0
}

func reduceAction(s *GameState, e PlayerAction) *GameState {
	if e.ActionID != "" && s.Applied(e.ActionID) {
		return s
	}
	prev, ok := s.Seat(e.SeatID)
	if !ok {
		return s
	}

	seat := prev
	switch {
	case e.UpdatedStack != nil:
		seat.Stack = *e.UpdatedStack
	case !e.Deducted:
		seat.Stack -= e.Amount
	}
	seat.Folded = prev.Folded || e.ActionType == protocol.Fold
	seat.AllIn = prev.AllIn || allInAfter(&e, seat.Stack)
	if len(e.Cards) > 0 {
		seat.HoleCards = e.Cards
	}
	seat.LastActionText = ActionLabel(e.ActionType, e.Amount)

	seatChanged := !seatEqual(&seat, &prev)
	if !seatChanged && e.Pot == nil && e.Bets == nil && e.ActionID == "" {
		return s
	}

	n := s.clone()
	if seatChanged {
		n.Seats = slices.Clone(s.Seats)
		n.Seats[e.SeatID] = seat
	}
	if e.Pot != nil {
		n.Pot = preservePot(s.Phase, *e.Pot, s.Pot)
	}
	if e.Bets != nil {
		n.Bets = maps.Clone(e.Bets)
	}
	if e.ActionID != "" {
		n.applied = s.withApplied(e.ActionID)
	}
	return n
}

func reduceTurn(s *GameState, e TurnUpdate) *GameState {
	acting := s.ActingSeat
	if e.ActingSeat != nil {
		if *e.ActingSeat < 0 || *e.ActingSeat >= len(s.Seats) {
			return s
		}
		acting = *e.ActingSeat
	}

	n := s.clone()
	n.ActingSeat = acting
	n.TurnPlayer = nil
	if acting >= 0 && acting < len(s.Seats) {
		n.TurnPlayer = s.Seats[acting].User
	}
	n.IsAuto = e.IsAuto != nil && *e.IsAuto
	if e.TurnStartTime != nil {
		n.TurnStartTime = *e.TurnStartTime
	}
	return n
}

func reduceShowdown(s *GameState, e CombinedSplitPot) *GameState {
	sd := e.Showdown
	seats := s.Seats
	changed := false
	for i := range s.Seats {
		hand, ok := sd.Hands[i]
		if !ok {
			continue
		}
		seat := s.Seats[i]
		if st, ok := sd.Stacks[i]; ok {
			seat.Stack = st
		}
		if hand.Winner != nil {
			seat.Winner = *hand.Winner
		}
		if hand.NetResult != nil {
			seat.NetResult = *hand.NetResult
		}
		if hand.Winnings != nil {
			seat.Winnings = *hand.Winnings
		}
		if hand.HoleCards != nil {
			seat.HoleCards = hand.HoleCards
		}
		if seatEqual(&seat, &s.Seats[i]) {
			continue
		}
		if !changed {
			seats = slices.Clone(s.Seats)
			changed = true
		}
		seats[i] = seat
	}

	if !changed && s.Showdown != nil && reflect.DeepEqual(*s.Showdown, sd) {
		return s
	}

	n := s.clone()
	n.Seats = seats
	n.Showdown = &sd
	return n
}

func reduceHoleCards(s *GameState, e HoleCardsReveal) *GameState {
	var seats []Seat
	for i := range s.Seats {
		cards, ok := e.Cards[i]
		if !ok || slices.Equal(cards, s.Seats[i].HoleCards) {
			continue
		}
		if seats == nil {
			seats = slices.Clone(s.Seats)
		}
		seats[i].HoleCards = cards
	}
	if seats == nil {
		return s
	}
	n := s.clone()
	n.Seats = seats
	return n
}

func reduceReset(s *GameState) *GameState {
	n := s.clone()
	seats := make([]Seat, len(s.Seats))
	for i, st := range s.Seats {
		st.HoleCards = nil
		st.AllIn = false
		st.Folded = false
		st.Winner = false
		st.Winnings = 0
		st.NetResult = 0
		st.LastActionText = ""
		seats[i] = st
	}
	n.Seats = seats
	n.Phase = PhaseWaiting
	n.CommunityCards = nil
	n.DestinedCommunityCards = nil
	n.Pot = 0
	n.Bets = map[int]int64{}
	n.Pots = nil
	n.Showdown = nil
	n.TurnPlayer = nil
	n.ActingSeat = NoSeat
	return n
}
