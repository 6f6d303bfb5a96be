package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vctt94/pokertablesync/pkg/client"
	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/dispatch"
	"github.com/vctt94/pokertablesync/pkg/poker"
	"github.com/vctt94/pokertablesync/pkg/table"
)

type sentAction struct {
	action string
	amount *int64
}

type fakeTable struct {
	view    client.View
	actions []sentAction
	chats   []string
}

func (f *fakeTable) View() client.View { return f.view }

func (f *fakeTable) SendAction(action string, amount *int64) string {
	f.actions = append(f.actions, sentAction{action, amount})
	return "id"
}

func (f *fakeTable) SendChat(message string) { f.chats = append(f.chats, message) }

func seatedState() *table.GameState {
	st := table.NewGameState()
	st.Table.Name = "High Rollers"
	st.Phase = table.PhaseFlop
	alice := &table.User{ID: 1, Username: "alice"}
	st.CurrentUser = alice
	st.Seats[0].User = alice
	st.Seats[0].Stack = 900
	st.Seats[0].HoleCards = poker.MustParseCards("As Ah")
	st.Seats[1].User = &table.User{ID: 2, Username: "bob"}
	st.Seats[1].Stack = 700
	st.Bets = map[int]int64{0: 50, 1: 150}
	st.CommunityCards = poker.MustParseCards("Ad 7c 2h")
	st.Pot = 400
	st.ActingSeat = 0
	return st
}

func newTestUI(st *table.GameState) (*PokerUI, *fakeTable) {
	ft := &fakeTable{view: client.View{TableID: 7, State: st, Status: conn.StatusOpen}}
	return NewPokerUI(ft, nil), ft
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func amount(v int64) *int64 { return &v }

func TestActionKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want []sentAction
	}{
		{"fold", []tea.KeyMsg{runes("f")}, []sentAction{{"FOLD", nil}}},
		{"check", []tea.KeyMsg{runes("k")}, []sentAction{{"CHECK", nil}}},
		{"call the difference", []tea.KeyMsg{runes("c")}, []sentAction{{"CALL", amount(100)}}},
		{"all in with own stack", []tea.KeyMsg{runes("a")}, []sentAction{{"ALL_IN", amount(900)}}},
		{"raise after amount", []tea.KeyMsg{runes("r"), runes("3"), runes("0"), runes("0"),
			{Type: tea.KeyEnter}}, []sentAction{{"RAISE", amount(300)}}},
		{"raise cancelled", []tea.KeyMsg{runes("r"), runes("5"), {Type: tea.KeyEsc}}, nil},
		{"unknown key", []tea.KeyMsg{runes("z")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, ft := newTestUI(seatedState())
			for _, k := range tt.keys {
				ui.Update(k)
			}
			assert.Equal(t, tt.want, ft.actions)
			assert.Equal(t, stateTable, ui.state)
		})
	}
}

func TestBetWhenNothingToCall(t *testing.T) {
	st := seatedState()
	st.Bets = map[int]int64{}
	ui, ft := newTestUI(st)

	ui.Update(runes("r"))
	ui.Update(runes("20x"))
	ui.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	ui.Update(runes("5"))
	ui.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ft.actions, 1)
	assert.Equal(t, "BET", ft.actions[0].action)
	assert.Equal(t, int64(25), *ft.actions[0].amount)
}

func TestInvalidAmountKeepsEditing(t *testing.T) {
	ui, ft := newTestUI(seatedState())

	ui.Update(runes("r"))
	ui.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, ft.actions)
	assert.Equal(t, stateBetInput, ui.state)
	assert.Contains(t, ui.err, "invalid amount")
}

func TestSpectatorCannotAct(t *testing.T) {
	st := seatedState()
	st.CurrentUser = nil
	ui, ft := newTestUI(st)

	ui.Update(runes("f"))

	assert.Empty(t, ft.actions)
	assert.Equal(t, "You are not seated at this table", ui.message)
}

func TestChatInput(t *testing.T) {
	ui, ft := newTestUI(seatedState())

	ui.Update(runes("t"))
	ui.Update(runes("gl"))
	ui.Update(tea.KeyMsg{Type: tea.KeySpace})
	ui.Update(runes("hf"))
	ui.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"gl hf"}, ft.chats)
	assert.Equal(t, stateTable, ui.state)
	assert.Empty(t, ft.actions)
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		ui, _ := newTestUI(seatedState())
		_, cmd := ui.Update(k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestUpdateRefreshesView(t *testing.T) {
	ui, ft := newTestUI(table.NewGameState())
	ft.view.State = seatedState()
	ft.view.Chats = []dispatch.ChatMessage{{Username: "bob", Message: "nice hand"}}

	ui.Update(chatMsg(ft.view.Chats))
	assert.Same(t, ft.view.State, ui.view.State)

	ui.Update(serverErrMsg("table is full"))
	out := ui.View()
	assert.Contains(t, out, "table is full")
	assert.Contains(t, out, "nice hand")
}

func TestRender(t *testing.T) {
	st := seatedState()
	st.Seats[1].Folded = true
	ui, _ := newTestUI(st)
	ui.Update(tea.WindowSizeMsg{Width: 40, Height: 30})

	out := ui.View()
	for _, want := range []string{"High Rollers", "FLOP", "alice", "bob", "folded",
		"Pot 400", "Three of As", "Ad", "7c"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderShowdown(t *testing.T) {
	st := seatedState()
	st.Phase = table.PhaseShowdown
	st.Seats[0].Winner = true
	st.Seats[0].Winnings = 1500
	st.Showdown = &table.Showdown{}
	ui, _ := newTestUI(st)

	assert.Contains(t, ui.View(), "alice wins 1.5k with As Ah")
}

type recorder struct{ msgs []tea.Msg }

func (r *recorder) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestNotifyStop(t *testing.T) {
	nmgr := client.NewNotificationManager()
	rec := &recorder{}
	stop := Notify(rec, nmgr)
	assert.True(t, nmgr.AnyRegistered(client.OnStateUpdatedNtfn(nil)))
	assert.True(t, nmgr.AnyRegistered(client.OnServerErrorNtfn(nil)))
	stop()
	assert.False(t, nmgr.AnyRegistered(client.OnStateUpdatedNtfn(nil)))
	assert.False(t, nmgr.AnyRegistered(client.OnChatMessagesNtfn(nil)))
}
