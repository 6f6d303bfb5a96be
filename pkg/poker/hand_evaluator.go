package poker

import (
	"errors"
	"fmt"
	"sort"
)

// HandCategory represents the category of a poker hand. Higher is stronger.
type HandCategory int

const (
	HighCard HandCategory = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[HandCategory]string{
	HighCard:      "HIGH_CARD",
	OnePair:       "ONE_PAIR",
	TwoPair:       "TWO_PAIR",
	ThreeOfAKind:  "THREE_OF_A_KIND",
	Straight:      "STRAIGHT",
	Flush:         "FLUSH",
	FullHouse:     "FULL_HOUSE",
	FourOfAKind:   "FOUR_OF_A_KIND",
	StraightFlush: "STRAIGHT_FLUSH",
	RoyalFlush:    "ROYAL_FLUSH",
}

func (c HandCategory) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("HandCategory(%d)", int(c))
}

// Variant selects how hole and board cards may be combined.
type Variant string

const (
	// VariantTexas combines all hole and board cards freely.
	VariantTexas Variant = "TEXAS"
	// VariantOmaha uses exactly two of four hole cards and exactly three
	// board cards.
	VariantOmaha Variant = "OMAHA"
)

const (
	minUsableCards = 2
	maxCards       = 9
	omahaHoleCards = 4
)

var (
	ErrTooFewCards       = errors.New("poker: fewer than 2 usable cards")
	ErrTooManyCards      = errors.New("poker: more than 9 cards")
	ErrInvalidHoleCount  = errors.New("poker: fixed-hole evaluation needs exactly 4 hole cards")
	ErrInvalidBoardCount = errors.New("poker: fixed-hole evaluation needs 3 to 5 board cards")
)

// HandResult represents the evaluation of the best hand found.
type HandResult struct {
	Category HandCategory
	// Cards are the cards forming the hand, ordered by importance: grouped
	// cards first, then kickers. Five cards unless fewer were available.
	Cards []Card
	// RankCards are the cards that define the category, used to describe
	// the hand (the pair, the trips, both pair cards, ...).
	RankCards []Card

	// tiebreak holds the ranks compared, in order, between two hands of
	// the same category.
	tiebreak []Rank
}

// Compare compares two hand results and returns:
// -1 if a is weaker than b
// 0 if they are of equal strength
// 1 if a is stronger than b
func Compare(a, b HandResult) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.tiebreak) && i < len(b.tiebreak); i++ {
		if a.tiebreak[i] != b.tiebreak[i] {
			if a.tiebreak[i] > b.tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(a.tiebreak) > len(b.tiebreak):
		return 1
	case len(a.tiebreak) < len(b.tiebreak):
		return -1
	}
	return 0
}

// Evaluate returns the best hand from an unordered multiset of cards that
// already combines hole and board cards. Cards that are hidden from this
// viewer are ignored.
func Evaluate(cards []Card) (HandResult, error) {
	if len(cards) > maxCards {
		return HandResult{}, ErrTooManyCards
	}
	usable := canonical(cards)
	if len(usable) < minUsableCards {
		return HandResult{}, ErrTooFewCards
	}
	return evaluateSorted(usable), nil
}

// EvaluateOmaha returns the best hand using exactly two of the four hole
// cards and exactly three of the board cards.
func EvaluateOmaha(hole, board []Card) (HandResult, error) {
	if len(hole)+len(board) > maxCards {
		return HandResult{}, ErrTooManyCards
	}
	h := canonical(hole)
	b := canonical(board)
	if len(h) != omahaHoleCards {
		return HandResult{}, ErrInvalidHoleCount
	}
	if len(b) < 3 || len(b) > 5 {
		return HandResult{}, ErrInvalidBoardCount
	}

	var best HandResult
	found := false
	eachOmahaCombination(h, b, func(combo []Card) {
		res := evaluateSorted(combo)
		if !found || Compare(res, best) > 0 {
			best = res
			found = true
		}
	})
	return best, nil
}

// EvaluateVariant evaluates hole and board cards with the combination rule
// of the given variant. Unknown variants combine all cards.
func EvaluateVariant(v Variant, hole, board []Card) (HandResult, error) {
	if v == VariantOmaha {
		return EvaluateOmaha(hole, board)
	}
	all := make([]Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)
	return Evaluate(all)
}

// eachOmahaCombination visits every 2-of-hole x 3-of-board combination in a
// fixed order. The slice passed to visit is sorted and reused between calls.
func eachOmahaCombination(hole, board []Card, visit func([]Card)) {
	combo := make([]Card, 5)
	for i := 0; i < len(hole); i++ {
		for j := i + 1; j < len(hole); j++ {
			for a := 0; a < len(board); a++ {
				for b := a + 1; b < len(board); b++ {
					for c := b + 1; c < len(board); c++ {
						combo[0], combo[1] = hole[i], hole[j]
						combo[2], combo[3], combo[4] = board[a], board[b], board[c]
						sortCards(combo)
						visit(combo)
					}
				}
			}
		}
	}
}

// canonical returns the usable cards sorted by rank then suit, both
// descending, so selection never depends on input order.
func canonical(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Usable() {
			out = append(out, Card{Suit: c.Suit, Rank: c.Rank})
		}
	}
	sortCards(out)
	return out
}

func sortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit > cards[j].Suit
	})
}

// findStraight returns the ranks of the highest straight among the given
// distinct ranks (sorted descending). The wheel is returned as 5-4-3-2-A.
func findStraight(ranks []Rank) []Rank {
	for i := 0; i+4 < len(ranks); i++ {
		if ranks[i]-ranks[i+4] == 4 {
			return ranks[i : i+5]
		}
	}
	has := make(map[Rank]bool, len(ranks))
	for _, r := range ranks {
		has[r] = true
	}
	if has[Ace] && has[Five] && has[Four] && has[Three] && has[Two] {
		return []Rank{Five, Four, Three, Two, Ace}
	}
	return nil
}

func distinctRanks(cards []Card) []Rank {
	var ranks []Rank
	for _, c := range cards {
		if len(ranks) == 0 || ranks[len(ranks)-1] != c.Rank {
			ranks = append(ranks, c.Rank)
		}
	}
	return ranks
}

// pickByRanks takes, for each rank, the first matching card.
func pickByRanks(cards []Card, ranks []Rank) []Card {
	out := make([]Card, 0, len(ranks))
	for _, r := range ranks {
		for _, c := range cards {
			if c.Rank == r {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// kickers returns up to n of the highest cards whose rank is not excluded.
func kickers(cards []Card, n int, exclude ...Rank) []Card {
	out := make([]Card, 0, n)
	for _, c := range cards {
		if len(out) == n {
			break
		}
		skip := false
		for _, r := range exclude {
			if c.Rank == r {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

func ranksOf(cards []Card) []Rank {
	out := make([]Rank, len(cards))
	for i, c := range cards {
		out[i] = c.Rank
	}
	return out
}

func concat(parts ...[]Card) []Card {
	var out []Card
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// evaluateSorted evaluates cards already in canonical order.
func evaluateSorted(cards []Card) HandResult {
	bySuit := make(map[Suit][]Card, 4)
	for _, c := range cards {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	var flushCards []Card
	for s := Spades; s >= Clubs; s-- {
		if len(bySuit[s]) >= 5 {
			// With at most 9 cards only one suit can hold five.
			flushCards = bySuit[s]
			break
		}
	}

	if flushCards != nil {
		if sf := findStraight(distinctRanks(flushCards)); sf != nil {
			hand := pickByRanks(flushCards, sf)
			cat := StraightFlush
			if sf[0] == Ace {
				cat = RoyalFlush
			}
			return HandResult{Category: cat, Cards: hand, RankCards: hand, tiebreak: []Rank{sf[0]}}
		}
	}

	groups := rankGroups(cards)

	if len(groups[0]) == 4 {
		quad := groups[0]
		kick := kickers(cards, 1, quad[0].Rank)
		return HandResult{
			Category:  FourOfAKind,
			Cards:     concat(quad, kick),
			RankCards: quad,
			tiebreak:  append([]Rank{quad[0].Rank}, ranksOf(kick)...),
		}
	}

	if len(groups[0]) == 3 && len(groups) > 1 && len(groups[1]) >= 2 {
		trips, pair := groups[0], groups[1][:2]
		return HandResult{
			Category:  FullHouse,
			Cards:     concat(trips, pair),
			RankCards: trips,
			tiebreak:  []Rank{trips[0].Rank, pair[0].Rank},
		}
	}

	if flushCards != nil {
		flush := flushCards[:5]
		return HandResult{Category: Flush, Cards: flush, RankCards: flush, tiebreak: ranksOf(flush)}
	}

	if st := findStraight(distinctRanks(cards)); st != nil {
		hand := pickByRanks(cards, st)
		return HandResult{Category: Straight, Cards: hand, RankCards: hand, tiebreak: []Rank{st[0]}}
	}

	if len(groups[0]) == 3 {
		trips := groups[0]
		kick := kickers(cards, 2, trips[0].Rank)
		return HandResult{
			Category:  ThreeOfAKind,
			Cards:     concat(trips, kick),
			RankCards: trips,
			tiebreak:  append([]Rank{trips[0].Rank}, ranksOf(kick)...),
		}
	}

	if len(groups[0]) == 2 && len(groups) > 1 && len(groups[1]) == 2 {
		high, low := groups[0], groups[1]
		kick := kickers(cards, 1, high[0].Rank, low[0].Rank)
		return HandResult{
			Category:  TwoPair,
			Cards:     concat(high, low, kick),
			RankCards: []Card{high[0], low[0]},
			tiebreak:  append([]Rank{high[0].Rank, low[0].Rank}, ranksOf(kick)...),
		}
	}

	if len(groups[0]) == 2 {
		pair := groups[0]
		kick := kickers(cards, 3, pair[0].Rank)
		return HandResult{
			Category:  OnePair,
			Cards:     concat(pair, kick),
			RankCards: pair,
			tiebreak:  append([]Rank{pair[0].Rank}, ranksOf(kick)...),
		}
	}

	top := kickers(cards, 5)
	return HandResult{
		Category:  HighCard,
		Cards:     top,
		RankCards: top[:1],
		tiebreak:  ranksOf(top),
	}
}

// rankGroups groups cards by rank, ordered by group size then rank, both
// descending.
func rankGroups(cards []Card) [][]Card {
	var groups [][]Card
	for _, c := range cards {
		n := len(groups)
		if n > 0 && groups[n-1][0].Rank == c.Rank {
			groups[n-1] = append(groups[n-1], c)
			continue
		}
		groups = append(groups, []Card{c})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0].Rank > groups[j][0].Rank
	})
	return groups
}
