// Package ui is a terminal viewer for a single table.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/decred/slog"
	"github.com/vctt94/pokertablesync/pkg/client"
	"github.com/vctt94/pokertablesync/pkg/table"
)

// Table is the session the viewer renders and drives.
type Table interface {
	View() client.View
	SendAction(action string, amount *int64) string
	SendChat(message string)
}

// screenState represents what the keyboard currently edits.
type screenState int

const (
	stateTable screenState = iota
	stateBetInput
	stateChatInput
)

// PokerUI is the bubbletea model of the viewer.
type PokerUI struct {
	t   Table
	log slog.Logger

	state   screenState
	view    client.View
	input   string
	message string
	err     string
	width   int

	renderer *Renderer
	inputs   *InputHandler
}

// NewPokerUI creates a viewer for t.
func NewPokerUI(t Table, log slog.Logger) *PokerUI {
	if log == nil {
		log = slog.Disabled
	}
	ui := &PokerUI{t: t, log: log, view: t.View()}
	ui.renderer = &Renderer{ui: ui}
	ui.inputs = &InputHandler{ui: ui}
	return ui
}

func (ui *PokerUI) Init() tea.Cmd {
	return refreshCmd
}

func (ui *PokerUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
	case tea.KeyMsg:
		return ui, ui.inputs.HandleKeyMsg(msg)
	case stateMsg, chatMsg, refreshMsg:
		ui.view = ui.t.View()
	case statusMsg:
		ui.view = ui.t.View()
		ui.log.Debugf("Connection %s", ui.view.Status)
	case serverErrMsg:
		ui.err = string(msg)
	}
	return ui, nil
}

func (ui *PokerUI) View() string {
	return ui.renderer.Render()
}

func (ui *PokerUI) gameState() *table.GameState {
	if ui.view.State == nil {
		return table.NewGameState()
	}
	return ui.view.State
}
