package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vctt94/pokertablesync/pkg/poker"
)

func TestOutboundFrames(t *testing.T) {
	amount := int64(500)
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"auth", Auth("tok"), `{"type":"AUTH","data":{"accessToken":"tok"}}`},
		{"subscribe", Subscribe(7), `{"type":"TABLE","data":{"tableId":7,"action":"SUBSCRIBE"}}`},
		{"take seat", TakeSeat(7, 2, 1000, false, "ignored"),
			`{"type":"TABLE","data":{"tableId":7,"action":"TAKE_SEAT","seatIndex":2,"amount":1000,"isBot":false}}`},
		{"take bot seat", TakeSeat(7, 3, 1000, true, "rob"),
			`{"type":"TABLE","data":{"tableId":7,"action":"TAKE_SEAT","seatIndex":3,"amount":1000,"isBot":true,"botName":"rob"}}`},
		{"recharge", Recharge(7, 200), `{"type":"TABLE","data":{"tableId":7,"action":"RECHARGE","amount":200}}`},
		{"leave", LeaveSeat(7, 0), `{"type":"TABLE","data":{"tableId":7,"action":"LEAVE_SEAT","seatIndex":0}}`},
		{"reconnect", Reconnect(7), `{"type":"TABLE","data":{"tableId":7,"action":"RECONNECT"}}`},
		{"raise", GameAction(7, Raise, &amount, "a1"),
			`{"type":"GAME","data":{"tableId":7,"action":"RAISE","amount":500,"actionId":"a1"}}`},
		{"check", GameAction(7, Check, nil, "a2"),
			`{"type":"GAME","data":{"tableId":7,"action":"CHECK","actionId":"a2"}}`},
		{"chat", Chat(7, "hi"), `{"type":"CHAT","data":{"tableId":7,"message":"hi"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.frame)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"id":"x","type":"GAME","data":{"action":"TURN_UPDATE","currentPlayerSeat":3}}`))
	require.NoError(t, err)
	assert.Equal(t, TypeGame, f.Type)

	var hdr GameHeader
	require.NoError(t, json.Unmarshal(f.Data, &hdr))
	assert.Equal(t, GameTurnUpdate, hdr.Action)

	var tu TurnUpdate
	require.NoError(t, json.Unmarshal(f.Data, &tu))
	require.NotNil(t, tu.CurrentPlayerSeat)
	assert.Equal(t, 3, *tu.CurrentPlayerSeat)
	assert.Nil(t, tu.IsAuto)

	_, err = ParseFrame([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestHoleCardsSkipsNonSeatKeys(t *testing.T) {
	data := `{"action":"HOLE_CARDS","0":[{"suit":"HEARTS","rank":"ACE","secret":false},{"suit":null,"rank":null,"secret":true}],"4":[]}`
	var hc HoleCards
	require.NoError(t, json.Unmarshal([]byte(data), &hc))
	require.Len(t, hc, 2)
	assert.Equal(t, []poker.Card{poker.NewCard(poker.Hearts, poker.Ace), {Secret: true}}, hc["0"])
	assert.Empty(t, hc["4"])
}

func TestSessionDistinguishesAbsentFields(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"state":"FLOP","communityCards":[]}`), &s))
	assert.Nil(t, s.CurrentPot)
	assert.NotNil(t, s.CommunityCards)
	assert.Empty(t, s.CommunityCards)
	assert.Nil(t, s.HoleCards)
}

func TestSeatIndex(t *testing.T) {
	i, ok := SeatIndex("3")
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	_, ok = SeatIndex("-1")
	assert.False(t, ok)
	_, ok = SeatIndex("action")
	assert.False(t, ok)
}
