package protocol

// AuthRequest is the outbound AUTH payload.
type AuthRequest struct {
	AccessToken string `json:"accessToken"`
}

// TableCommand is the outbound TABLE payload.
type TableCommand struct {
	TableID   int64  `json:"tableId"`
	Action    string `json:"action"`
	SeatIndex *int   `json:"seatIndex,omitempty"`
	Amount    *int64 `json:"amount,omitempty"`
	IsBot     *bool  `json:"isBot,omitempty"`
	BotName   string `json:"botName,omitempty"`
}

// GameCommand is the outbound GAME payload. ActionID lets the server and
// the local reducer recognize the same action twice.
type GameCommand struct {
	TableID  int64  `json:"tableId"`
	Action   string `json:"action"`
	Amount   *int64 `json:"amount,omitempty"`
	ActionID string `json:"actionId"`
}

// ChatCommand is the outbound CHAT payload.
type ChatCommand struct {
	TableID int64  `json:"tableId"`
	Message string `json:"message"`
}

func Auth(token string) Frame {
	return mustFrame(TypeAuth, AuthRequest{AccessToken: token})
}

func Subscribe(tableID int64) Frame {
	return mustFrame(TypeTable, TableCommand{TableID: tableID, Action: ActionSubscribe})
}

// TakeSeat requests a seat with the given buy-in. botName is only sent for
// bot seats.
func TakeSeat(tableID int64, seatIndex int, amount int64, isBot bool, botName string) Frame {
	cmd := TableCommand{
		TableID:   tableID,
		Action:    ActionTakeSeat,
		SeatIndex: &seatIndex,
		Amount:    &amount,
		IsBot:     &isBot,
	}
	if isBot {
		cmd.BotName = botName
	}
	return mustFrame(TypeTable, cmd)
}

func Recharge(tableID int64, amount int64) Frame {
	return mustFrame(TypeTable, TableCommand{TableID: tableID, Action: ActionRecharge, Amount: &amount})
}

func LeaveSeat(tableID int64, seatIndex int) Frame {
	return mustFrame(TypeTable, TableCommand{TableID: tableID, Action: ActionLeaveSeat, SeatIndex: &seatIndex})
}

func Reconnect(tableID int64) Frame {
	return mustFrame(TypeTable, TableCommand{TableID: tableID, Action: ActionReconnect})
}

// GameAction builds a player action. A nil amount is omitted from the
// frame.
func GameAction(tableID int64, action string, amount *int64, actionID string) Frame {
	return mustFrame(TypeGame, GameCommand{TableID: tableID, Action: action, Amount: amount, ActionID: actionID})
}

func Chat(tableID int64, message string) Frame {
	return mustFrame(TypeChat, ChatCommand{TableID: tableID, Message: message})
}
