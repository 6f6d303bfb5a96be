package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vctt94/pokertablesync/pkg/client"
	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/dispatch"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// Messages the session pushes into the program.
type (
	stateMsg     *table.GameState
	chatMsg      []dispatch.ChatMessage
	statusMsg    conn.Status
	serverErrMsg string
	refreshMsg   struct{}
)

// Sender is the part of tea.Program used to push messages.
type Sender interface {
	Send(msg tea.Msg)
}

// Notify forwards session notifications to p until the returned function is
// called.
func Notify(p Sender, nmgr *client.NotificationManager) (stop func()) {
	regs := []client.NotificationRegistration{
		nmgr.Register(client.OnStateUpdatedNtfn(func(s *table.GameState) {
			p.Send(stateMsg(s))
		})),
		nmgr.Register(client.OnChatMessagesNtfn(func(msgs []dispatch.ChatMessage) {
			p.Send(chatMsg(msgs))
		})),
		nmgr.Register(client.OnConnStatusNtfn(func(st conn.Status) {
			p.Send(statusMsg(st))
		})),
		nmgr.Register(client.OnServerErrorNtfn(func(msg string, _ time.Time) {
			p.Send(serverErrMsg(msg))
		})),
	}
	return func() {
		for _, reg := range regs {
			reg.Unregister()
		}
	}
}

func refreshCmd() tea.Msg {
	return refreshMsg{}
}
