package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 52

// Deck is an ordered stack of cards; cards are dealt from the top (end of slice)
type Deck struct {
	cards []Card
}

// NewOrdered creates a fresh 52-card deck in construction order, unshuffled
func NewOrdered() *Deck {
	return &Deck{cards: Full()}
}

// New creates a fresh 52-card deck shuffled with rng
func New(rng *rand.Rand) *Deck {
	d := NewOrdered()
	d.Shuffle(rng)
	return d
}

// FromCards builds a deck from an explicit stack; the last card is dealt first
func FromCards(cards []Card) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c}
}

// Full returns all 52 cards face down, suit by suit
func Full() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle randomizes the deck in place (Fisher-Yates)
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Pop removes and returns the top card
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	n := len(d.cards) - 1
	card := d.cards[n]
	d.cards = d.cards[:n]
	return card, true
}

// Burn discards the top card, returning false if the deck is empty
func (d *Deck) Burn() bool {
	_, ok := d.Pop()
	return ok
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Clone returns an independent copy of the deck
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return FromCards(d.cards)
}

// Remaining returns the full deck minus every card in used
func Remaining(used []Card) []Card {
	var seen [Size]bool
	for _, c := range used {
		if c.IsValid() {
			seen[c.Index()] = true
		}
	}
	out := make([]Card, 0, Size-len(used))
	for _, c := range Full() {
		if !seen[c.Index()] {
			out = append(out, c)
		}
	}
	return out
}
