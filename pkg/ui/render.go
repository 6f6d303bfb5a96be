package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vctt94/pokertablesync/pkg/conn"
	"github.com/vctt94/pokertablesync/pkg/poker"
	"github.com/vctt94/pokertablesync/pkg/table"
	"github.com/vctt94/pokertablesync/pkg/utils"
)

// chatLines is how many chat messages are shown under the table.
const chatLines = 5

// Renderer handles all rendering of the table screen
type Renderer struct {
	ui *PokerUI
}

// Render renders the whole screen.
func (r *Renderer) Render() string {
	st := r.ui.gameState()

	var b strings.Builder
	b.WriteString(r.renderHeader(st) + "\n\n")
	b.WriteString(r.renderBoard(st) + "\n")
	b.WriteString(r.renderSeats(st) + "\n")
	if own := r.renderOwnHand(st); own != "" {
		b.WriteString("\n" + own + "\n")
	}
	if sd := r.renderShowdown(st); sd != "" {
		b.WriteString("\n" + sd + "\n")
	}
	if chat := r.renderChat(); chat != "" {
		b.WriteString("\n" + chat + "\n")
	}
	b.WriteString(r.renderInput())
	if r.ui.message != "" {
		b.WriteString("\n" + InfoStyle.Render(r.ui.message))
	}
	if r.ui.err != "" {
		b.WriteString("\n" + ErrorStyle.Render("Error: "+r.ui.err))
	}
	b.WriteString(HelpStyle.Render(r.help()))
	return b.String()
}

func (r *Renderer) renderHeader(st *table.GameState) string {
	name := st.Table.Name
	if name == "" {
		name = fmt.Sprintf("Table %d", r.ui.view.TableID)
	}
	title := TitleStyle.Render(name)
	blinds := ""
	if st.Table.BigBlind > 0 {
		blinds = fmt.Sprintf("  Blinds %s/%s", utils.FormatAmount(st.Table.SmallBlind),
			utils.FormatAmount(st.Table.BigBlind))
	}
	return fmt.Sprintf("%s  %s%s  %s", title, st.Phase, blinds, r.renderStatus())
}

func (r *Renderer) renderStatus() string {
	status := r.ui.view.Status
	if status == conn.StatusOpen {
		return StatusOKStyle.Render("● " + status.String())
	}
	return StatusWarnStyle.Render("● " + status.String())
}

func (r *Renderer) renderBoard(st *table.GameState) string {
	cards := make([]string, 0, 5)
	for _, c := range st.CommunityCards {
		cards = append(cards, renderCard(c))
	}
	for len(cards) < 5 {
		cards = append(cards, EmptySeatStyle.Render("  "))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Center, cards...)
	pot := PotStyle.Render("Pot " + utils.FormatAmount(st.Pot))
	return lipgloss.JoinHorizontal(lipgloss.Center, board, pot)
}

func renderCard(c poker.Card) string {
	if !c.Usable() {
		return HiddenCardStyle.Render("??")
	}
	switch c.Suit {
	case poker.Hearts, poker.Diamonds:
		return RedCardStyle.Render(c.String())
	}
	return CardStyle.Render(c.String())
}

func (r *Renderer) renderSeats(st *table.GameState) string {
	acting, _ := st.Acting()
	own, _ := st.OwnSeat()

	seats := make([]string, 0, len(st.Seats))
	for _, seat := range st.Seats {
		if !seat.Occupied() {
			seats = append(seats, EmptySeatStyle.Render(fmt.Sprintf("%d\nempty", seat.Index+1)))
			continue
		}

		lines := []string{
			fmt.Sprintf("%d %s%s", seat.Index+1, seat.User.Username, r.seatMarkers(st, seat)),
			utils.FormatAmount(seat.Stack),
		}
		if bet := st.Bets[seat.Index]; bet > 0 {
			lines = append(lines, "bet "+utils.FormatAmount(bet))
		}
		switch {
		case seat.Folded:
			lines = append(lines, "folded")
		case seat.AllIn:
			lines = append(lines, "all-in")
		case seat.LastActionText != "":
			lines = append(lines, seat.LastActionText)
		}
		if seat.Disconnected {
			lines = append(lines, "offline")
		}

		style := SeatStyle
		switch {
		case seat.Folded:
			style = FoldedSeatStyle
		case seat.Index == acting:
			style = ActingSeatStyle
		case seat.Index == own:
			style = OwnSeatStyle
		}
		seats = append(seats, style.Render(strings.Join(lines, "\n")))
	}

	// Wrap rows so narrow terminals keep every seat visible.
	perRow := len(seats)
	if r.ui.width > 0 {
		perRow = max(r.ui.width/18, 1)
	}
	var rows []string
	for len(seats) > 0 {
		n := min(perRow, len(seats))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, seats[:n]...))
		seats = seats[n:]
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) seatMarkers(st *table.GameState, seat table.Seat) string {
	var m string
	if seat.Index == st.DealerSeat {
		m += " (D)"
	}
	if seat.Index == st.SmallBlindSeat && st.SmallBlindSeat != st.DealerSeat {
		m += " (SB)"
	}
	if seat.Index == st.BigBlindSeat {
		m += " (BB)"
	}
	return m
}

func (r *Renderer) renderOwnHand(st *table.GameState) string {
	own, ok := st.OwnSeat()
	if !ok {
		return ""
	}
	seat, _ := st.Seat(own)
	if len(seat.HoleCards) == 0 {
		return ""
	}
	cards := make([]string, len(seat.HoleCards))
	for i, c := range seat.HoleCards {
		cards[i] = renderCard(c)
	}
	hand := lipgloss.JoinHorizontal(lipgloss.Center, cards...)
	if best, err := st.BestHand(own); err == nil {
		hand = lipgloss.JoinHorizontal(lipgloss.Center, hand, "  "+InfoStyle.Render(poker.Describe(best)))
	}
	return hand
}

func (r *Renderer) renderShowdown(st *table.GameState) string {
	if st.Showdown == nil || !st.Phase.Final() {
		return ""
	}
	var lines []string
	for _, seat := range st.Seats {
		if !seat.Winner || !seat.Occupied() {
			continue
		}
		line := fmt.Sprintf("%s wins %s", seat.User.Username, utils.FormatAmount(seat.Winnings))
		if len(seat.HoleCards) > 0 {
			line += " with " + utils.FormatCards(seat.HoleCards)
		}
		lines = append(lines, WinnerStyle.Render(line))
	}
	for i, pot := range st.Showdown.SidePots {
		if pot.Main {
			continue
		}
		lines = append(lines, fmt.Sprintf("Side pot %d: %s", i, utils.FormatAmount(pot.Amount)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderChat() string {
	chats := r.ui.view.Chats
	if len(chats) > chatLines {
		chats = chats[len(chats)-chatLines:]
	}
	lines := make([]string, len(chats))
	for i, c := range chats {
		lines[i] = ChatNameStyle.Render(c.Username+":") + " " + c.Message
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderInput() string {
	switch r.ui.state {
	case stateBetInput:
		return "\nAmount: " + r.ui.input + "█"
	case stateChatInput:
		return "\nSay: " + r.ui.input + "█"
	}
	return ""
}

func (r *Renderer) help() string {
	switch r.ui.state {
	case stateBetInput:
		return "enter: confirm • esc: cancel"
	case stateChatInput:
		return "enter: send • esc: cancel"
	}
	return "f: fold • k: check • c: call • r: bet/raise • a: all-in • t: chat • q: quit"
}
