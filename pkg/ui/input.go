package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vctt94/pokertablesync/pkg/protocol"
)

// InputHandler handles input processing for different UI states
type InputHandler struct {
	ui *PokerUI
}

// HandleKeyMsg processes keyboard input based on current state
func (ih *InputHandler) HandleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch ih.ui.state {
	case stateBetInput:
		return ih.handleBetInput(msg)
	case stateChatInput:
		return ih.handleChatInput(msg)
	}
	return ih.handleTableInput(msg)
}

func (ih *InputHandler) handleTableInput(msg tea.KeyMsg) tea.Cmd {
	ui := ih.ui
	ui.err = ""
	switch msg.String() {
	case "q":
		return tea.Quit
	case "t":
		ui.state = stateChatInput
		ui.input = ""
		return nil
	}

	st := ui.gameState()
	own, seated := st.OwnSeat()
	switch msg.String() {
	case "f", "k", "c", "r", "a":
		if !seated {
			ui.message = "You are not seated at this table"
			return nil
		}
	default:
		return nil
	}

	seat, _ := st.Seat(own)
	toCall := callAmount(st.Bets, own)
	switch msg.String() {
	case "f":
		ih.send(protocol.Fold, nil)
	case "k":
		ih.send(protocol.Check, nil)
	case "c":
		ih.send(protocol.Call, &toCall)
	case "a":
		stack := seat.Stack
		ih.send(protocol.AllIn, &stack)
	case "r":
		ui.state = stateBetInput
		ui.input = ""
	}
	return nil
}

func (ih *InputHandler) handleBetInput(msg tea.KeyMsg) tea.Cmd {
	ui := ih.ui
	switch msg.Type {
	case tea.KeyEsc:
		ui.state = stateTable
		ui.input = ""
	case tea.KeyBackspace:
		if len(ui.input) > 0 {
			ui.input = ui.input[:len(ui.input)-1]
		}
	case tea.KeyEnter:
		amount, err := strconv.ParseInt(ui.input, 10, 64)
		if err != nil || amount <= 0 {
			ui.err = fmt.Sprintf("invalid amount %q", ui.input)
			return nil
		}
		action := protocol.Raise
		if maxBet(ui.gameState().Bets) == 0 {
			action = protocol.Bet
		}
		ih.send(action, &amount)
		ui.state = stateTable
		ui.input = ""
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				ui.input += string(r)
			}
		}
	}
	return nil
}

func (ih *InputHandler) handleChatInput(msg tea.KeyMsg) tea.Cmd {
	ui := ih.ui
	switch msg.Type {
	case tea.KeyEsc:
		ui.state = stateTable
		ui.input = ""
	case tea.KeyBackspace:
		if r := []rune(ui.input); len(r) > 0 {
			ui.input = string(r[:len(r)-1])
		}
	case tea.KeyEnter:
		if text := strings.TrimSpace(ui.input); text != "" {
			ui.t.SendChat(text)
		}
		ui.state = stateTable
		ui.input = ""
	case tea.KeySpace:
		ui.input += " "
	case tea.KeyRunes:
		ui.input += string(msg.Runes)
	}
	return nil
}

func (ih *InputHandler) send(action string, amount *int64) {
	id := ih.ui.t.SendAction(action, amount)
	ih.ui.message = fmt.Sprintf("Sent %s", strings.ToLower(action))
	ih.ui.log.Debugf("Sent %s (%s)", action, id)
	ih.ui.view = ih.ui.t.View()
}

func maxBet(bets map[int]int64) int64 {
	var m int64
	for _, b := range bets {
		m = max(m, b)
	}
	return m
}

func callAmount(bets map[int]int64, seat int) int64 {
	return max(maxBet(bets)-bets[seat], 0)
}
