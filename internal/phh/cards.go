package phh

import (
	"strings"

	"github.com/lox/pokerarena/internal/deck"
)

// Card converts a card to PHH notation, e.g. "Th" or "As"
func Card(c deck.Card) string {
	if !c.IsValid() {
		return "??"
	}
	return c.Rank.Short() + c.Suit.Name()[:1]
}

// Cards joins cards in PHH notation without separators. Anything other than
// a full hand of known cards is written as unknown.
func Cards(cards []deck.Card, want int) string {
	if len(cards) != want {
		return strings.Repeat("??", want)
	}
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(Card(c))
	}
	return b.String()
}
