package poker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit. The zero value is an unset suit, used for
// cards hidden from this viewer.
type Suit uint8

const (
	SuitUnset Suit = iota
	Clubs
	Diamonds
	Hearts
	Spades
)

var suitNames = [...]string{"", "CLUBS", "DIAMONDS", "HEARTS", "SPADES"}
var suitChars = [...]string{"", "c", "d", "h", "s"}

// String returns the wire name of the suit.
func (s Suit) String() string {
	if int(s) >= len(suitNames) {
		return ""
	}
	return suitNames[s]
}

// Char returns the single letter form of the suit (c, d, h, s).
func (s Suit) Char() string {
	if int(s) >= len(suitChars) {
		return ""
	}
	return suitChars[s]
}

// Rank represents a card rank. Values are the ace-high face values so that
// ranks compare directly; the zero value is an unset rank.
type Rank uint8

const (
	RankUnset Rank = 0
	Two       Rank = iota + 1
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = map[Rank]string{
	Two: "TWO", Three: "THREE", Four: "FOUR", Five: "FIVE", Six: "SIX",
	Seven: "SEVEN", Eight: "EIGHT", Nine: "NINE", Ten: "TEN", Jack: "JACK",
	Queen: "QUEEN", King: "KING", Ace: "ACE",
}

var rankShort = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String returns the wire name of the rank.
func (r Rank) String() string {
	return rankNames[r]
}

// Short returns the display form of the rank (A, K, Q, J, 10 ... 2).
func (r Rank) Short() string {
	return rankShort[r]
}

// Card represents a playing card as seen by this client.
type Card struct {
	Suit Suit
	Rank Rank
	// Secret is set by the server for cards hidden from this viewer.
	Secret bool
}

// NewCard creates a visible card.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// Usable reports whether the card can take part in hand evaluation.
func (c Card) Usable() bool {
	return !c.Secret && c.Suit != SuitUnset && c.Rank != RankUnset
}

// String returns a short representation such as "As" or "10h". Hidden cards
// render as "??".
func (c Card) String() string {
	if !c.Usable() {
		return "??"
	}
	return c.Rank.Short() + c.Suit.Char()
}

// CardJSON is the wire form of a card. Suit and rank are null for hidden
// cards.
type CardJSON struct {
	Suit   *string `json:"suit"`
	Rank   *string `json:"rank"`
	Secret bool    `json:"secret"`
}

// MarshalJSON implements json.Marshaler interface for Card
func (c Card) MarshalJSON() ([]byte, error) {
	var cj CardJSON
	cj.Secret = c.Secret
	if c.Suit != SuitUnset {
		s := c.Suit.String()
		cj.Suit = &s
	}
	if c.Rank != RankUnset {
		r := c.Rank.String()
		cj.Rank = &r
	}
	return json.Marshal(cj)
}

// UnmarshalJSON implements json.Unmarshaler interface for Card
func (c *Card) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = Card{Secret: true}
		return nil
	}

	var cj CardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	*c = Card{Secret: cj.Secret}
	if cj.Suit != nil {
		s, err := parseSuit(*cj.Suit)
		if err != nil {
			return err
		}
		c.Suit = s
	}
	if cj.Rank != nil {
		r, err := parseRank(*cj.Rank)
		if err != nil {
			return err
		}
		c.Rank = r
	}
	return nil
}

func parseSuit(s string) (Suit, error) {
	switch strings.ToUpper(s) {
	case "♠", "S", "SPADES":
		return Spades, nil
	case "♥", "H", "HEARTS":
		return Hearts, nil
	case "♦", "D", "DIAMONDS":
		return Diamonds, nil
	case "♣", "C", "CLUBS":
		return Clubs, nil
	case "":
		return SuitUnset, nil
	}
	return SuitUnset, fmt.Errorf("invalid suit: %s", s)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A", "ACE":
		return Ace, nil
	case "K", "KING":
		return King, nil
	case "Q", "QUEEN":
		return Queen, nil
	case "J", "JACK":
		return Jack, nil
	case "10", "T", "TEN":
		return Ten, nil
	case "9", "NINE":
		return Nine, nil
	case "8", "EIGHT":
		return Eight, nil
	case "7", "SEVEN":
		return Seven, nil
	case "6", "SIX":
		return Six, nil
	case "5", "FIVE":
		return Five, nil
	case "4", "FOUR":
		return Four, nil
	case "3", "THREE":
		return Three, nil
	case "2", "TWO":
		return Two, nil
	case "":
		return RankUnset, nil
	}
	return RankUnset, fmt.Errorf("invalid rank: %s", s)
}

// ParseCard parses the short form of a card, e.g. "AS", "10h", "Td".
func ParseCard(s string) (Card, error) {
	r := []rune(strings.TrimSpace(s))
	if len(r) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}
	rank, err := parseRank(string(r[:len(r)-1]))
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(string(r[len(r)-1:]))
	if err != nil {
		return Card{}, err
	}
	if rank == RankUnset || suit == SuitUnset {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}
	return NewCard(suit, rank), nil
}

// MustParseCards parses a whitespace separated list of cards and panics on
// failure. Intended for fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
