package poker

import (
	"fmt"
	"strings"
)

var categoryTitles = map[HandCategory]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// Title returns the human-readable category name.
func (c HandCategory) Title() string {
	return categoryTitles[c]
}

// holeShort is the compact rank notation used for starting hands, where ten
// is written as T.
func holeShort(r Rank) string {
	if r == Ten {
		return "T"
	}
	return r.Short()
}

// Describe returns a human-readable description of a hand
func Describe(h HandResult) string {
	if len(h.Cards) == 0 {
		return ""
	}
	switch h.Category {
	case OnePair:
		return fmt.Sprintf("Pair of %ss", h.RankCards[0].Rank.Short())
	case TwoPair:
		text := fmt.Sprintf("Two Pair %s & %s", h.RankCards[0].Rank.Short(), h.RankCards[1].Rank.Short())
		if len(h.Cards) == 5 {
			text += ", kicker " + h.Cards[4].Rank.Short()
		}
		return text
	case ThreeOfAKind:
		return fmt.Sprintf("Three of %ss", h.RankCards[0].Rank.Short())
	case Straight, StraightFlush:
		name := h.Category.Title()
		if h.Cards[0].Rank == Five && h.Cards[4].Rank == Ace {
			return name + " A-5"
		}
		return fmt.Sprintf("%s %s-%s", name, h.Cards[4].Rank.Short(), h.Cards[0].Rank.Short())
	case Flush:
		return "Flush high " + h.Cards[0].String()
	case FullHouse:
		return fmt.Sprintf("Full House %s's and %s's", h.Cards[0].Rank.Short(), h.Cards[3].Rank.Short())
	case FourOfAKind:
		if len(h.Cards) < 5 {
			return fmt.Sprintf("Four of a Kind, %ss", h.Cards[0].Rank.Short())
		}
		return fmt.Sprintf("Four of a Kind, %s's with %s kicker", h.Cards[0].Rank.Short(), h.Cards[4].Rank.Short())
	case RoyalFlush:
		return "Royal Flush"
	case HighCard:
		if len(h.Cards) == 2 {
			return DescribeHoleCards(h.Cards)
		}
	}
	return h.Category.Title()
}

// DescribeHoleCards describes a two card starting hand, e.g. "AK Suited".
// Anything other than two visible cards yields an empty string.
func DescribeHoleCards(cards []Card) string {
	if len(cards) != 2 || !cards[0].Usable() || !cards[1].Usable() {
		return ""
	}
	a, b := cards[0], cards[1]
	if b.Rank > a.Rank {
		a, b = b, a
	}
	var sb strings.Builder
	sb.WriteString(holeShort(a.Rank))
	sb.WriteString(holeShort(b.Rank))
	if a.Suit == b.Suit {
		sb.WriteString(" Suited")
	} else {
		sb.WriteString(" Offsuit")
	}
	return sb.String()
}
