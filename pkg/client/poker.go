package client

import (
	"github.com/google/uuid"
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// TakeSeat asks to sit at seatIndex with a buy in of amount. Bots sit with
// the given name.
func (s *Session) TakeSeat(seatIndex int, amount int64, isBot bool, botName string) {
	s.mgr.Send(protocol.TakeSeat(s.tableID, seatIndex, amount, isBot, botName))
}

// Recharge adds chips to the player's stack.
func (s *Session) Recharge(amount int64) {
	s.mgr.Send(protocol.Recharge(s.tableID, amount))
}

// LeaveSeat stands up from seatIndex.
func (s *Session) LeaveSeat(seatIndex int) {
	s.mgr.Send(protocol.LeaveSeat(s.tableID, seatIndex))
}

// Rejoin asks the server to restore a seat after a disconnect.
func (s *Session) Rejoin() {
	s.mgr.Send(protocol.Reconnect(s.tableID))
}

// SendChat relays a chat line to the table.
func (s *Session) SendChat(message string) {
	s.mgr.Send(protocol.Chat(s.tableID, message))
}

// SendAction sends a game action and applies it locally right away. The
// returned id lets the confirmation from the server be recognized, so the
// prediction is not applied twice.
func (s *Session) SendAction(action string, amount *int64) string {
	id := uuid.NewString()

	st := s.State()
	seat, ok := st.OwnSeat()
	if !ok {
		seat, ok = st.Acting()
	}
	if ok {
		ev := table.PlayerAction{
			ActionType: action,
			SeatID:     seat,
			ActionID:   id,
			Optimistic: true,
		}
		if amount != nil {
			ev.Amount = *amount
		}
		s.apply(true, ev)
	} else {
		s.log.Debugf("No seat to predict %s on", action)
	}

	s.mgr.Send(protocol.GameAction(s.tableID, action, amount, id))
	return id
}

// Fold folds the hand.
func (s *Session) Fold() string { return s.SendAction(protocol.Fold, nil) }

// Check checks.
func (s *Session) Check() string { return s.SendAction(protocol.Check, nil) }

// Call calls amount.
func (s *Session) Call(amount int64) string { return s.SendAction(protocol.Call, &amount) }

// Bet opens the betting with amount.
func (s *Session) Bet(amount int64) string { return s.SendAction(protocol.Bet, &amount) }

// Raise raises to amount.
func (s *Session) Raise(amount int64) string { return s.SendAction(protocol.Raise, &amount) }

// AllIn pushes the whole stack.
func (s *Session) AllIn(stack int64) string { return s.SendAction(protocol.AllIn, &stack) }
