package deck

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck construction order
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the lower-case suit name used in JSON and prompts
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	default:
		return "unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// MarshalText implements encoding.TextMarshaler
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.Name()), nil
}

// Rank represents a card rank, valued 2 through 14 (ace high)
type Rank int

const (
	Two Rank = iota + 2
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

// String returns the rank label ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Short returns the single character rank used in hand keys ("T" for ten)
func (r Rank) Short() string {
	if r == Ten {
		return "T"
	}
	return r.String()
}

// MarshalText implements encoding.TextMarshaler
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Card is an immutable playing card. FaceUp is presentation metadata only.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"faceUp"`
}

// NewCard creates a new face-down card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Same reports whether two cards share suit and rank, ignoring FaceUp
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Index returns a dense 0-51 index for the card
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Up returns a face-up copy of the card
func (c Card) Up() Card {
	c.FaceUp = true
	return c
}

// Down returns a face-down copy of the card
func (c Card) Down() Card {
	c.FaceUp = false
	return c
}

// IsValid reports whether suit and rank are in range
func (c Card) IsValid() bool {
	return c.Suit >= Hearts && c.Suit <= Spades && c.Rank >= Two && c.Rank <= Ace
}

// FormatCards joins cards with spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// ParseCard parses a single card such as "As", "10h", "Td" or "A♠"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}
	rankPart, suitPart := splitCard(s)
	rank, err := parseRank(rankPart)
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(suitPart)
	if err != nil {
		return Card{}, err
	}
	return NewCard(suit, rank), nil
}

// ParseCards parses a run of cards, either concatenated ("AsKd") or separated
// by spaces or commas ("A♠ K♦", "10h,9h")
func ParseCards(s string) ([]Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var tokens []string
	if strings.ContainsAny(s, " ,") {
		tokens = strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	} else {
		for len(s) > 0 {
			n := 1
			if strings.HasPrefix(s, "10") {
				n = 2
			}
			if n >= len(s) {
				return nil, fmt.Errorf("truncated card %q", s)
			}
			_, size := utf8.DecodeRuneInString(s[n:])
			tokens = append(tokens, s[:n+size])
			s = s[n+size:]
		}
	}

	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error, for tests and fixtures
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func splitCard(s string) (string, string) {
	r, size := utf8.DecodeLastRuneInString(s)
	if r == utf8.RuneError {
		return s, ""
	}
	return s[:len(s)-size], s[len(s)-size:]
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

func parseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "h", "♥", "♡":
		return Hearts, nil
	case "d", "♦", "♢":
		return Diamonds, nil
	case "c", "♣", "♧":
		return Clubs, nil
	case "s", "♠", "♤":
		return Spades, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}
