package table

import (
	"github.com/vctt94/pokertablesync/pkg/protocol"
	"github.com/vctt94/pokertablesync/pkg/utils"
)

// ActionLabel is the text shown next to a seat after it acts. Unknown
// action types have no label.
func ActionLabel(actionType string, amount int64) string {
	switch actionType {
	case protocol.Fold:
		return "Fold"
	case protocol.Check:
		return "Check"
	case protocol.Call:
		return "Call " + utils.FormatAmount(amount)
	case protocol.Bet:
		return "Bet " + utils.FormatAmount(amount)
	case protocol.Raise:
		return "Raise " + utils.FormatAmount(amount)
	case protocol.AllIn:
		return "All-in"
	case protocol.RevealCards:
		return "Reveal"
	}
	return ""
}
