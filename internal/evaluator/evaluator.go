// Package evaluator ranks Texas Hold'em hands of two to seven cards.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/pokerarena/internal/deck"
)

// HandType is the category of a poker hand, ordered weakest to strongest
type HandType int

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand type
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the best five-card hand found in a set of cards.
//
// Rank is the category tie-break score: the quad rank, trips*100+pair for a
// full house, high*100+low for two pair, the top card for straights and
// flushes, the set or pair rank, or the top card for high card. Kickers hold
// the remaining ranks that complete the five-card hand, most significant first.
type HandResult struct {
	Type        HandType    `json:"handType"`
	Rank        int         `json:"handRank"`
	Kickers     []deck.Rank `json:"kickers,omitempty"`
	Description string      `json:"description"`
}

// String returns the description of the hand
func (h HandResult) String() string {
	return h.Description
}

// Evaluate returns the best hand made from hole cards and the board
func Evaluate(hole, board []deck.Card) HandResult {
	cards := make([]deck.Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	return EvaluateCards(cards)
}

// EvaluateCards returns the best hand made from up to seven cards
func EvaluateCards(cards []deck.Card) HandResult {
	if len(cards) == 0 {
		return HandResult{Type: HighCard, Description: "No cards"}
	}

	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	var counts [deck.Ace + 1]int
	var suited [4][]deck.Rank
	for _, c := range sorted {
		counts[c.Rank]++
		suited[c.Suit] = append(suited[c.Suit], c.Rank)
	}

	// Straight flush, royal when the run tops out at the ace
	var sfHigh deck.Rank
	for _, ranks := range suited {
		if len(ranks) < 5 {
			continue
		}
		if hi, ok := straightHigh(ranks); ok && hi > sfHigh {
			sfHigh = hi
		}
	}
	if sfHigh == deck.Ace {
		return HandResult{Type: RoyalFlush, Rank: int(deck.Ace), Description: "Royal Flush"}
	}
	if sfHigh > 0 {
		return HandResult{
			Type:        StraightFlush,
			Rank:        int(sfHigh),
			Description: fmt.Sprintf("Straight Flush, %s high", rankName(sfHigh)),
		}
	}

	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] == 4 {
			return HandResult{
				Type:        FourOfAKind,
				Rank:        int(r),
				Kickers:     topRanks(sorted, 1, r),
				Description: fmt.Sprintf("Four of a Kind, %s", pluralName(r)),
			}
		}
	}

	trips := highestWithCount(counts, 3, 0)
	if trips > 0 {
		if pair := highestWithCount(counts, 2, trips); pair > 0 {
			return HandResult{
				Type:        FullHouse,
				Rank:        int(trips)*100 + int(pair),
				Description: fmt.Sprintf("Full House, %s over %s", pluralName(trips), pluralName(pair)),
			}
		}
	}

	for _, ranks := range suited {
		if len(ranks) >= 5 {
			return HandResult{
				Type:        Flush,
				Rank:        int(ranks[0]),
				Kickers:     append([]deck.Rank(nil), ranks[1:5]...),
				Description: fmt.Sprintf("Flush, %s high", rankName(ranks[0])),
			}
		}
	}

	ranks := make([]deck.Rank, len(sorted))
	for i, c := range sorted {
		ranks[i] = c.Rank
	}
	if hi, ok := straightHigh(ranks); ok {
		return HandResult{
			Type:        Straight,
			Rank:        int(hi),
			Description: fmt.Sprintf("Straight, %s high", rankName(hi)),
		}
	}

	if trips > 0 {
		return HandResult{
			Type:        ThreeOfAKind,
			Rank:        int(trips),
			Kickers:     topRanks(sorted, 2, trips),
			Description: fmt.Sprintf("Three of a Kind, %s", pluralName(trips)),
		}
	}

	if high := highestWithCount(counts, 2, 0); high > 0 {
		if low := highestWithCount(counts, 2, high); low > 0 {
			return HandResult{
				Type:        TwoPair,
				Rank:        int(high)*100 + int(low),
				Kickers:     topRanks(sorted, 1, high, low),
				Description: fmt.Sprintf("Two Pair, %s and %s", pluralName(high), pluralName(low)),
			}
		}
		return HandResult{
			Type:        Pair,
			Rank:        int(high),
			Kickers:     topRanks(sorted, 3, high),
			Description: fmt.Sprintf("Pair of %s", pluralName(high)),
		}
	}

	top := sorted[0].Rank
	return HandResult{
		Type:        HighCard,
		Rank:        int(top),
		Kickers:     topRanks(sorted, 4, top),
		Description: fmt.Sprintf("High Card %s", rankName(top)),
	}
}

// Compare returns a positive number if a beats b, negative if b beats a and
// zero for a split.
func Compare(a, b HandResult) int {
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	if a.Rank != b.Rank {
		return a.Rank - b.Rank
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			return int(a.Kickers[i]) - int(b.Kickers[i])
		}
	}
	return 0
}

// Best returns the indexes of the strongest hands; more than one index means a split
func Best(results []HandResult) []int {
	var winners []int
	for i, r := range results {
		if len(winners) == 0 {
			winners = append(winners, i)
			continue
		}
		switch cmp := Compare(r, results[winners[0]]); {
		case cmp > 0:
			winners = append(winners[:0], i)
		case cmp == 0:
			winners = append(winners, i)
		}
	}
	return winners
}

// straightHigh finds the highest five-rank run in ranks (any order, duplicates
// allowed). The wheel A-2-3-4-5 is checked last and reports five high.
func straightHigh(ranks []deck.Rank) (deck.Rank, bool) {
	var present [deck.Ace + 1]bool
	for _, r := range ranks {
		present[r] = true
	}
	for hi := deck.Ace; hi >= deck.Six; hi-- {
		if present[hi] && present[hi-1] && present[hi-2] && present[hi-3] && present[hi-4] {
			return hi, true
		}
	}
	if present[deck.Ace] && present[deck.Two] && present[deck.Three] && present[deck.Four] && present[deck.Five] {
		return deck.Five, true
	}
	return 0, false
}

func highestWithCount(counts [deck.Ace + 1]int, atLeast int, exclude deck.Rank) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if r != exclude && counts[r] >= atLeast {
			return r
		}
	}
	return 0
}

// topRanks returns up to n ranks from sorted cards, skipping excluded ranks
func topRanks(sorted []deck.Card, n int, exclude ...deck.Rank) []deck.Rank {
	out := make([]deck.Rank, 0, n)
	for _, c := range sorted {
		if len(out) == n {
			break
		}
		skip := false
		for _, e := range exclude {
			if c.Rank == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c.Rank)
		}
	}
	return out
}

func rankName(r deck.Rank) string {
	switch r {
	case deck.Jack:
		return "Jack"
	case deck.Queen:
		return "Queen"
	case deck.King:
		return "King"
	case deck.Ace:
		return "Ace"
	default:
		return r.String()
	}
}

func pluralName(r deck.Rank) string {
	return rankName(r) + "s"
}
