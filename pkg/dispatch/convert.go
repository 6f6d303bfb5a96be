package dispatch

import (
	"github.com/vctt94/pokertablesync/pkg/poker"
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// User converts a wire identity.
func User(u *protocol.User) *table.User {
	if u == nil {
		return nil
	}
	return &table.User{
		ID:       u.UserID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}

// Snapshot converts a TABLE payload, or a table fetched over REST with a
// nil session, into a reducer event.
func Snapshot(t *protocol.TableInfo, sess *protocol.Session) table.TableSnapshot {
	ev := table.TableSnapshot{
		Table: table.Info{
			ID:         t.ID,
			Name:       t.Name,
			SmallBlind: t.SmallBlind,
			BigBlind:   t.BigBlind,
			MinBuyIn:   t.MinBuyIn,
			MaxBuyIn:   t.MaxBuyIn,
			MaxPlayers: t.MaxPlayers,
			Variant:    poker.Variant(t.GameVariant),
		},
		Seats: make(map[int]table.Seat, len(t.Seats)),
	}
	for k, s := range t.Seats {
		i, ok := protocol.SeatIndex(k)
		if !ok || s == nil {
			continue
		}
		ev.Seats[i] = table.Seat{
			Index:        i,
			User:         User(s.User),
			Stack:        s.Stack,
			Folded:       s.IsFolded,
			AllIn:        s.IsAllIn,
			Disconnected: s.Disconnected,
			TimeoutActed: s.TimeoutActed,
			SittingOut:   s.IsSittingOut,
			HoleCards:    s.HoleCards,
			Winnings:     s.Winnings,
			NetResult:    s.NetResult,
		}
	}
	if sess != nil {
		ev.Session = &table.SessionSnapshot{
			Phase:                  table.Phase(sess.State),
			Pot:                    sess.CurrentPot,
			Bets:                   seatMap(sess.CurrentBets),
			CommunityCards:         sess.CommunityCards,
			HoleCards:              seatMap(sess.HoleCards),
			DealerSeat:             sess.DealerSeatIndex,
			SmallBlindSeat:         sess.SmallBlindSeatIndex,
			BigBlindSeat:           sess.BigBlindSeatIndex,
			ActingSeat:             sess.CurrentPlayerSeat,
			TurnPlayer:             User(sess.TurnPlayer),
			TurnStartTime:          sess.TurnStartTime,
			DestinedCommunityCards: visible(sess.DestinedCommunityCards),
		}
	}
	return ev
}

// Preload converts a table fetched before the subscription is confirmed.
// The board, bets and pot start empty.
func Preload(t *protocol.TableInfo) table.TableSnapshot {
	var pot int64
	return Snapshot(t, &protocol.Session{
		CurrentPot:     &pot,
		CurrentBets:    map[string]int64{},
		CommunityCards: []poker.Card{},
	})
}

func playerAction(p *protocol.PlayerAction) table.PlayerAction {
	return table.PlayerAction{
		ActionType:   p.ActionType,
		SeatID:       p.SeatID,
		Amount:       p.Amount,
		UpdatedStack: p.UpdatedStack,
		Cards:        p.Cards,
		Pot:          p.CurrentPot,
		Bets:         seatMap(p.CurrentBets),
		ActionID:     p.ActionID,
		AllIn:        p.IsAllIn,
	}
}

// seatMap rekeys a wire map by seat index. Non numeric keys are dropped
// and a nil map stays nil.
func seatMap[V any](m map[string]V) map[int]V {
	if m == nil {
		return nil
	}
	out := make(map[int]V, len(m))
	for k, v := range m {
		if i, ok := protocol.SeatIndex(k); ok {
			out[i] = v
		}
	}
	return out
}

func seatIndexes(seats []protocol.SeatInfo) []int {
	var out []int
	for _, s := range seats {
		if s.SeatID != nil {
			out = append(out, *s.SeatID)
		}
	}
	return out
}

func sidePots(pots []protocol.SidePot) []table.SidePot {
	if pots == nil {
		return nil
	}
	out := make([]table.SidePot, len(pots))
	for i, p := range pots {
		out[i] = table.SidePot{
			Amount:            p.Amount,
			Eligible:          seatIndexes(p.EligiblePlayers),
			Winners:           seatIndexes(p.Winners),
			WinningsPerPlayer: p.WinningsPerPlayer,
			Main:              p.MainPot,
			WinningCards:      p.WinningCommunityCards,
		}
	}
	return out
}

// visible drops the secret flag from cards the server reveals ahead of
// time.
func visible(cards []poker.Card) []poker.Card {
	if cards == nil {
		return nil
	}
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		out[i] = poker.NewCard(c.Suit, c.Rank)
	}
	return out
}
