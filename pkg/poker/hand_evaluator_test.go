package poker

import (
	"math/rand"
	"testing"

	chehsunliu "github.com/chehsunliu/poker"
	paulhankin "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		cards     string
		wantCat   HandCategory
		wantCards string
	}{
		{
			name:      "Royal Flush with extra cards",
			cards:     "AS KS QS JS 10S 2D 7C",
			wantCat:   RoyalFlush,
			wantCards: "AS KS QS JS 10S",
		},
		{
			name:      "Straight Flush",
			cards:     "9S 8S 7S 6S 5S 2H 3D",
			wantCat:   StraightFlush,
			wantCards: "9S 8S 7S 6S 5S",
		},
		{
			name:      "Wheel Straight Flush",
			cards:     "AH 2H 3H 4H 5H",
			wantCat:   StraightFlush,
			wantCards: "5H 4H 3H 2H AH",
		},
		{
			name:      "Four of a Kind",
			cards:     "AH AS AC AD KH QC JS",
			wantCat:   FourOfAKind,
			wantCards: "AS AH AD AC KH",
		},
		{
			name:      "Full House",
			cards:     "2H 2D 2C 5S 5H",
			wantCat:   FullHouse,
			wantCards: "2H 2D 2C 5S 5H",
		},
		{
			name:      "Full House from two trips",
			cards:     "9H 9D 9C KS KH KD 2C",
			wantCat:   FullHouse,
			wantCards: "KS KH KD 9H 9D",
		},
		{
			name:      "Flush uses top five of suit",
			cards:     "AH 10H 8H 6H 4H 2H JC",
			wantCat:   Flush,
			wantCards: "AH 10H 8H 6H 4H",
		},
		{
			name:      "Straight",
			cards:     "9H 8S 7C 6D 5S 2H 3C",
			wantCat:   Straight,
			wantCards: "9H 8S 7C 6D 5S",
		},
		{
			name:      "Wheel Straight",
			cards:     "AH 2S 3C 4D 5S KH KC",
			wantCat:   Straight,
			wantCards: "5S 4D 3C 2S AH",
		},
		{
			name:      "Three of a Kind",
			cards:     "QH QS QC 6D 5S 2H 3C",
			wantCat:   ThreeOfAKind,
			wantCards: "QS QH QC 6D 5S",
		},
		{
			name:      "Two Pair from three pairs",
			cards:     "AH AS KC KD 5S 5H 3C",
			wantCat:   TwoPair,
			wantCards: "AS AH KD KC 5S",
		},
		{
			name:      "One Pair",
			cards:     "JH JS AC KD 5S 2H 3C",
			wantCat:   OnePair,
			wantCards: "JS JH AC KD 5S",
		},
		{
			name:      "High Card",
			cards:     "AH JS 9C 7D 5S 3H 2C",
			wantCat:   HighCard,
			wantCards: "AH JS 9C 7D 5S",
		},
		{
			name:      "Partial hand with two cards",
			cards:     "KH KD",
			wantCat:   OnePair,
			wantCards: "KH KD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCat, res.Category)
			assert.Equal(t, MustParseCards(tt.wantCards), res.Cards)
		})
	}
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	cards := MustParseCards("AH AS KC KD 5S 5H 3C")
	want, err := Evaluate(cards)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Evaluate(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEvaluateCardCounts(t *testing.T) {
	_, err := Evaluate(MustParseCards("AS"))
	assert.ErrorIs(t, err, ErrTooFewCards)

	_, err = Evaluate([]Card{{Secret: true}, {Secret: true}, NewCard(Spades, Ace)})
	assert.ErrorIs(t, err, ErrTooFewCards, "hidden cards are not usable")

	_, err = Evaluate(MustParseCards("2S 3S 4S 5S 6S 7S 8S 9S 10S JS"))
	assert.ErrorIs(t, err, ErrTooManyCards)

	res, err := Evaluate([]Card{{Secret: true}, NewCard(Spades, Ace), NewCard(Hearts, Ace)})
	require.NoError(t, err)
	assert.Equal(t, OnePair, res.Category)
}

func TestEvaluateOmaha(t *testing.T) {
	t.Run("needs exactly two hole cards", func(t *testing.T) {
		// Four spades in hand and a spade-less trio on board would be a
		// flush in hold'em, not in a fixed-hole game.
		hole := MustParseCards("AS KS QS JS")
		board := MustParseCards("2S 7H 8D 9C 3H")
		res, err := EvaluateOmaha(hole, board)
		require.NoError(t, err)
		assert.NotEqual(t, Flush, res.Category)
		assert.Equal(t, HighCard, res.Category)
		assert.Equal(t, MustParseCards("AS KS 9C 8D 7H"), res.Cards)
	})

	t.Run("board trips cannot use a single hole card", func(t *testing.T) {
		hole := MustParseCards("AH 2C 3D 4S")
		board := MustParseCards("AS AD KC KD 7H")
		res, err := EvaluateOmaha(hole, board)
		require.NoError(t, err)
		// AH plus AS AD from the board; the kings cannot join as well.
		assert.Equal(t, ThreeOfAKind, res.Category)
		assert.Equal(t, Ace, res.RankCards[0].Rank)
	})

	t.Run("card count validation", func(t *testing.T) {
		_, err := EvaluateOmaha(MustParseCards("AS KS QS"), MustParseCards("2S 7H 8D"))
		assert.ErrorIs(t, err, ErrInvalidHoleCount)
		_, err = EvaluateOmaha(MustParseCards("AS KS QS JS"), MustParseCards("2S 7H"))
		assert.ErrorIs(t, err, ErrInvalidBoardCount)
	})
}

func TestOmahaCombinationSearch(t *testing.T) {
	hole := canonical(MustParseCards("AS KH 7C 2D"))
	board := canonical(MustParseCards("QS JS 10S 9H 3C"))

	holeSet := make(map[Card]bool)
	for _, c := range hole {
		holeSet[c] = true
	}

	count := 0
	eachOmahaCombination(hole, board, func(combo []Card) {
		count++
		fromHole := 0
		for _, c := range combo {
			if holeSet[c] {
				fromHole++
			}
		}
		assert.Equal(t, 2, fromHole, "combination %v", combo)
	})
	assert.Equal(t, 60, count)

	res, err := EvaluateOmaha(MustParseCards("AS KH 7C 2D"), MustParseCards("QS JS 10S 9H 3C"))
	require.NoError(t, err)
	assert.Equal(t, Straight, res.Category)
	assert.Equal(t, Ace, res.Cards[0].Rank)
}

func TestEvaluateVariant(t *testing.T) {
	hole := MustParseCards("AS KS QS JS")
	board := MustParseCards("2S 7H 8D 9C 3H")

	texas, err := EvaluateVariant(VariantTexas, hole, board)
	require.NoError(t, err)
	assert.Equal(t, Flush, texas.Category)

	omaha, err := EvaluateVariant(VariantOmaha, hole, board)
	require.NoError(t, err)
	assert.Equal(t, HighCard, omaha.Category)
}

func TestCompare(t *testing.T) {
	eval := func(s string) HandResult {
		res, err := Evaluate(MustParseCards(s))
		require.NoError(t, err)
		return res
	}

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"Royal Flush beats Straight Flush", "AS KS QS JS 10S", "9H 8H 7H 6H 5H", 1},
		{"Six high straight beats wheel", "6C 5D 4H 3S 2C", "AC 2D 3H 4S 5C", 1},
		{"Kicker decides pair", "JH JS AC 4D 3S", "JD JC KC QD 10S", 1},
		{"Lower two pair loses", "KH KS 2C 2D AS", "KD KC 3C 3D 4S", -1},
		{"Same hand different suits tie", "AH KH 9C 7D 5S", "AD KD 9S 7C 5H", 0},
		{"Full house trips first", "3H 3S 3C 2D 2S", "2H 2C 2D AS AH", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(eval(tt.a), eval(tt.b)))
			assert.Equal(t, -tt.want, Compare(eval(tt.b), eval(tt.a)))
		})
	}
}

// chehsunliuClass maps our categories onto the rank classes of
// github.com/chehsunliu/poker (1 is a straight flush, 9 a high card).
func chehsunliuClass(c HandCategory) int32 {
	switch c {
	case RoyalFlush, StraightFlush:
		return 1
	case FourOfAKind:
		return 2
	case FullHouse:
		return 3
	case Flush:
		return 4
	case Straight:
		return 5
	case ThreeOfAKind:
		return 6
	case TwoPair:
		return 7
	case OnePair:
		return 8
	default:
		return 9
	}
}

func toChehsunliu(cards []Card) []chehsunliu.Card {
	rankChars := map[Rank]string{
		Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8",
		Nine: "9", Ten: "T", Jack: "J", Queen: "Q", King: "K", Ace: "A",
	}
	out := make([]chehsunliu.Card, len(cards))
	for i, c := range cards {
		out[i] = chehsunliu.NewCard(rankChars[c.Rank] + c.Suit.Char())
	}
	return out
}

func toPaulhankin(t *testing.T, cards []Card) [7]paulhankin.Card {
	t.Helper()
	var out [7]paulhankin.Card
	require.Len(t, cards, 7)
	for i, c := range cards {
		rank := paulhankin.Rank(c.Rank)
		if c.Rank == Ace {
			rank = 1
		}
		pc, err := paulhankin.MakeCard(paulhankin.Suit(c.Suit-Clubs), rank)
		require.NoError(t, err)
		out[i] = pc
	}
	return out
}

func TestEvaluateMatchesReferenceCategories(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		deck := NewDeck(rng)
		cards, ok := deck.Draw(7)
		require.True(t, ok)

		res, err := Evaluate(cards)
		require.NoError(t, err)
		require.Len(t, res.Cards, 5)

		ref := chehsunliu.RankClass(chehsunliu.Evaluate(toChehsunliu(cards)))
		require.Equal(t, ref, chehsunliuClass(res.Category), "cards %v", cards)

		// The chosen five cards must score the same as the whole set.
		best := chehsunliu.Evaluate(toChehsunliu(res.Cards))
		require.Equal(t, chehsunliu.Evaluate(toChehsunliu(cards)), best, "cards %v", cards)
	}
}

func TestCompareMatchesReferenceOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	sign := func(v int) int {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}

	for i := 0; i < 1000; i++ {
		deck := NewDeck(rng)
		board, _ := deck.Draw(5)
		holeA, _ := deck.Draw(2)
		holeB, _ := deck.Draw(2)
		a := append(append([]Card(nil), holeA...), board...)
		b := append(append([]Card(nil), holeB...), board...)

		resA, err := Evaluate(a)
		require.NoError(t, err)
		resB, err := Evaluate(b)
		require.NoError(t, err)

		pa, pb := toPaulhankin(t, a), toPaulhankin(t, b)
		want := sign(int(paulhankin.Eval7(&pa)) - int(paulhankin.Eval7(&pb)))
		require.Equal(t, want, Compare(resA, resB), "a=%v b=%v", a, b)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		cards string
		want  string
	}{
		{"AS KS QS JS 10S", "Royal Flush"},
		{"9H 8H 7H 6H 5H", "Straight Flush 5-9"},
		{"AH 2H 3H 4H 5H", "Straight Flush A-5"},
		{"8H 8S 8D 8C AH", "Four of a Kind, 8's with A kicker"},
		{"2H 2D 2C 5S 5H", "Full House 2's and 5's"},
		{"AH 10H 8H 6H 4H", "Flush high Ah"},
		{"10H 9S 8C 7D 6S", "Straight 6-10"},
		{"AH 2S 3C 4D 5S", "Straight A-5"},
		{"7H 7S 7C KD 2S", "Three of 7s"},
		{"AH AS 9C 9D 5S", "Two Pair A & 9, kicker 5"},
		{"KH KS 9C 4D 2S", "Pair of Ks"},
		{"AH JS 9C 7D 5S", "High Card"},
		{"AH KH", "AK Suited"},
		{"10H 9S", "T9 Offsuit"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res, err := Evaluate(MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Describe(res))
		})
	}

	assert.Equal(t, "", Describe(HandResult{}))
	assert.Equal(t, "", DescribeHoleCards(MustParseCards("AH KH QH")))
}
