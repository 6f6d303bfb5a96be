package poker

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	deck := NewDeck(rng)

	if deck.Size() != 52 {
		t.Errorf("Expected deck size 52, got %d", deck.Size())
	}

	seen := make(map[Card]bool)
	suitCount := make(map[Suit]int)
	rankCount := make(map[Rank]int)
	for _, card := range deck.cards {
		if seen[card] {
			t.Errorf("Duplicate card found: %v", card)
		}
		seen[card] = true
		suitCount[card.Suit]++
		rankCount[card.Rank]++
	}

	for suit, count := range suitCount {
		if count != 13 {
			t.Errorf("Expected 13 cards of suit %v, got %d", suit, count)
		}
	}
	for rank, count := range rankCount {
		if count != 4 {
			t.Errorf("Expected 4 cards of rank %v, got %d", rank, count)
		}
	}
}

func TestDeckShuffle(t *testing.T) {
	deck1 := NewDeck(rand.New(rand.NewSource(42)))
	deck2 := NewDeck(rand.New(rand.NewSource(42)))
	for i := 0; i < 52; i++ {
		if deck1.cards[i] != deck2.cards[i] {
			t.Errorf("Decks with same seed should have same order at position %d", i)
		}
	}

	deck3 := NewDeck(rand.New(rand.NewSource(43)))
	sameOrder := true
	for i := 0; i < 52; i++ {
		if deck1.cards[i] != deck3.cards[i] {
			sameOrder = false
			break
		}
	}
	if sameOrder {
		t.Error("Decks with different seeds should have different orders")
	}
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(42)))

	hand, ok := deck.Draw(7)
	if !ok || len(hand) != 7 {
		t.Fatalf("Expected to draw 7 cards, got %d (ok=%v)", len(hand), ok)
	}
	if deck.Size() != 45 {
		t.Errorf("Expected deck size 45 after drawing, got %d", deck.Size())
	}
	for i, c := range hand {
		if !c.Usable() {
			t.Errorf("Drawn card %d is invalid: %v", i, c)
		}
	}

	if _, ok := deck.Draw(46); ok {
		t.Error("Expected to fail drawing more cards than remain")
	}
	if deck.Size() != 45 {
		t.Errorf("Failed draw must not change the deck, size %d", deck.Size())
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		in   string
		want Card
	}{
		{"AS", NewCard(Spades, Ace)},
		{"10h", NewCard(Hearts, Ten)},
		{"Td", NewCard(Diamonds, Ten)},
		{"2c", NewCard(Clubs, Two)},
		{"K♠", NewCard(Spades, King)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCard(tt.in)
			if err != nil {
				t.Fatalf("ParseCard(%q) returned %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCard(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "A", "1S", "AX"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) should fail", bad)
		}
	}
}

func TestCardString(t *testing.T) {
	if s := NewCard(Spades, Ace).String(); s != "As" {
		t.Errorf("Expected As, got %s", s)
	}
	if s := NewCard(Hearts, Ten).String(); s != "10h" {
		t.Errorf("Expected 10h, got %s", s)
	}
	if s := (Card{Secret: true}).String(); s != "??" {
		t.Errorf("Expected ?? for a hidden card, got %s", s)
	}
}

func TestCardJSONSerialization(t *testing.T) {
	testCases := []struct {
		name string
		card Card
		wire string
	}{
		{"Ace of Spades", NewCard(Spades, Ace), `{"suit":"SPADES","rank":"ACE","secret":false}`},
		{"King of Hearts", NewCard(Hearts, King), `{"suit":"HEARTS","rank":"KING","secret":false}`},
		{"Ten of Diamonds", NewCard(Diamonds, Ten), `{"suit":"DIAMONDS","rank":"TEN","secret":false}`},
		{"Hidden card", Card{Secret: true}, `{"suit":null,"rank":null,"secret":true}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jsonData, err := json.Marshal(tc.card)
			if err != nil {
				t.Fatalf("Failed to marshal card: %v", err)
			}
			if string(jsonData) != tc.wire {
				t.Errorf("Wire mismatch: expected %s, got %s", tc.wire, jsonData)
			}

			var decoded Card
			if err := json.Unmarshal(jsonData, &decoded); err != nil {
				t.Fatalf("Failed to unmarshal card: %v", err)
			}
			if decoded != tc.card {
				t.Errorf("Card mismatch: expected %v, got %v", tc.card, decoded)
			}
		})
	}
}

func TestCardUnmarshalLenient(t *testing.T) {
	var hand []Card
	data := `[{"suit":"♥","rank":"A"},{"suit":"s","rank":"10"},null]`
	if err := json.Unmarshal([]byte(data), &hand); err != nil {
		t.Fatalf("Failed to unmarshal hand: %v", err)
	}
	if len(hand) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(hand))
	}
	if hand[0] != NewCard(Hearts, Ace) || hand[1] != NewCard(Spades, Ten) {
		t.Errorf("Unexpected cards: %v", hand)
	}
	if !hand[2].Secret || hand[2].Usable() {
		t.Errorf("null card should decode as hidden, got %+v", hand[2])
	}

	var c Card
	if err := json.Unmarshal([]byte(`{"suit":"STARS","rank":"ACE"}`), &c); err == nil {
		t.Error("Expected error for unknown suit")
	}
}
