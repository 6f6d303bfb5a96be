// Package dispatch classifies inbound frames and turns them into reducer
// events or side channel messages.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/vctt94/pokertablesync/pkg/poker"
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// UnknownUser is shown for chat messages without a sender.
const UnknownUser = "Unknown"

// ChatMessage is a chat line relayed by the table.
type ChatMessage struct {
	Username string
	Message  string
}

// Result is what a single frame produced.
type Result struct {
	// Events must be reduced in order.
	Events []table.Event
	Chat   *ChatMessage
	// Subscribe is set when the table subscription should be (re)sent.
	Subscribe bool
	// ServerError is the text of a server reported error.
	ServerError string
}

type route func(data json.RawMessage) (Result, error)

var errMissingTable = errors.New("snapshot without table")

// Dispatcher routes frames using static tables keyed by frame type and,
// for GAME frames, by action.
type Dispatcher struct {
	log        slog.Logger
	routes     map[string]route
	gameRoutes map[string]route
}

// New returns a dispatcher logging to log. A nil log disables logging.
func New(log slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Disabled
	}
	d := &Dispatcher{log: log}
	d.routes = map[string]route{
		protocol.TypeAuth:  routeAuth,
		protocol.TypeTable: routeTable,
		protocol.TypeGame:  d.routeGame,
		protocol.TypeChat:  routeChat,
		protocol.TypeError: routeError,
	}
	d.gameRoutes = map[string]route{
		protocol.GamePlayerAction:          routePlayerAction,
		protocol.GamePlayerActionWithState: routePlayerActionWithState,
		protocol.GameTurnUpdate:            routeTurnUpdate,
		protocol.GameCombinedSplitPot:      routeCombinedSplitPot,
		protocol.GameHoleCards:             routeHoleCards,
	}
	return d
}

// Dispatch routes one frame. Unknown frame types yield an empty result and
// frames that fail to decode are logged and dropped.
func (d *Dispatcher) Dispatch(f protocol.Frame) Result {
	r, ok := d.routes[f.Type]
	if !ok {
		d.log.Debugf("Ignoring frame of unknown type %q", f.Type)
		return Result{}
	}
	res, err := r(f.Data)
	if err != nil {
		d.log.Warnf("Dropping malformed %s frame: %v", f.Type, err)
		d.log.Debugf("Dropped payload: %s", spew.Sdump(string(f.Data)))
		return Result{}
	}
	d.log.Tracef("Routed %s frame into %d events", f.Type, len(res.Events))
	return res
}

// DispatchRaw decodes and routes a raw websocket message.
func (d *Dispatcher) DispatchRaw(b []byte) Result {
	f, err := protocol.ParseFrame(b)
	if err != nil {
		d.log.Warnf("Dropping undecodable frame: %v", err)
		d.log.Debugf("Dropped message: %s", spew.Sdump(string(b)))
		return Result{}
	}
	return d.Dispatch(f)
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(data, v)
}

func events(evs ...table.Event) Result {
	return Result{Events: evs}
}

func routeAuth(data json.RawMessage) (Result, error) {
	var p protocol.AuthResult
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	ev := table.AuthConfirmed{User: User(p.User)}
	if p.Balance != nil {
		ev.Balance = *p.Balance
	}
	return Result{Events: []table.Event{ev}, Subscribe: true}, nil
}

func routeTable(data json.RawMessage) (Result, error) {
	var p protocol.TableUpdate
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	if p.Table == nil {
		return Result{}, errMissingTable
	}
	return events(Snapshot(p.Table, p.Session)), nil
}

func (d *Dispatcher) routeGame(data json.RawMessage) (Result, error) {
	var hdr protocol.GameHeader
	if err := decode(data, &hdr); err != nil {
		return Result{}, err
	}
	if r, ok := d.gameRoutes[hdr.Action]; ok {
		return r(data)
	}
	return routePhaseUpdate(data)
}

func routePlayerAction(data json.RawMessage) (Result, error) {
	var p protocol.PlayerAction
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	return events(playerAction(&p)), nil
}

func routePlayerActionWithState(data json.RawMessage) (Result, error) {
	var p protocol.PlayerActionWithState
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	ev := playerAction(&p.PlayerAction)
	if sess := p.TableUpdate.Session; sess != nil {
		ev.Pot = sess.CurrentPot
		ev.Bets = seatMap(sess.CurrentBets)
	}
	return events(ev), nil
}

func routeTurnUpdate(data json.RawMessage) (Result, error) {
	var p protocol.TurnUpdate
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	return events(table.TurnUpdate{
		ActingSeat:    p.CurrentPlayerSeat,
		IsAuto:        p.IsAuto,
		TurnStartTime: p.TurnStartTime,
	}), nil
}

func routeCombinedSplitPot(data json.RawMessage) (Result, error) {
	var p protocol.CombinedSplitPot
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	sd := table.Showdown{
		Hands:          make(map[int]table.ShowdownHand, len(p.Hands)),
		SidePots:       sidePots(p.SidePots),
		Stacks:         seatMap(p.Stacks),
		CommunityCards: p.CommunityCards,
	}
	for k, h := range p.Hands {
		i, ok := protocol.SeatIndex(k)
		if !ok || h == nil {
			continue
		}
		sd.Hands[i] = table.ShowdownHand{
			Winner:    h.IsWinner,
			NetResult: h.NetResult,
			Winnings:  h.Winnings,
			HoleCards: h.HoleCards,
		}
	}
	return events(table.CombinedSplitPot{Showdown: sd}), nil
}

func routeHoleCards(data json.RawMessage) (Result, error) {
	var p protocol.HoleCards
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	return events(table.HoleCardsReveal{Cards: seatMap(map[string][]poker.Card(p))}), nil
}

func routePhaseUpdate(data json.RawMessage) (Result, error) {
	var p protocol.PhaseUpdate
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	return events(table.PhaseUpdate{
		Phase:          table.Phase(p.State),
		Pot:            p.CurrentPot,
		Bets:           seatMap(p.CurrentBets),
		CommunityCards: p.CommunityCards,
		Pots:           sidePots(p.Pots),
	}), nil
}

func routeChat(data json.RawMessage) (Result, error) {
	var p protocol.ChatMessage
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	msg := &ChatMessage{Username: p.Username, Message: p.Content}
	if msg.Username == "" {
		msg.Username = UnknownUser
	}
	return Result{Chat: msg, Subscribe: p.Action == protocol.ActionSubscribe}, nil
}

func routeError(data json.RawMessage) (Result, error) {
	var p protocol.ServerError
	if err := decode(data, &p); err != nil {
		return Result{}, err
	}
	if p.Error == "" {
		return Result{}, fmt.Errorf("error frame without message")
	}
	return Result{ServerError: p.Error}, nil
}
