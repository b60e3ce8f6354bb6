package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "ten as two digits",
			input: "10h9h",
			expected: []Card{
				{Suit: Hearts, Rank: Ten},
				{Suit: Hearts, Rank: Nine},
			},
		},
		{
			name:  "symbols with spaces",
			input: "A♠ K♦ 2♣",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Diamonds, Rank: King},
				{Suit: Clubs, Rank: Two},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AxKs",
			wantErr: true,
		},
		{
			name:    "truncated",
			input:   "AsK",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "10♥", NewCard(Hearts, Ten).String())
	assert.Equal(t, "A♠", NewCard(Spades, Ace).String())
	assert.Equal(t, "J♦ 10♣", FormatCards(MustParseCards("JdTc")))
}

func TestCardSameIgnoresFaceUp(t *testing.T) {
	c := NewCard(Clubs, Queen)
	assert.True(t, c.Same(c.Up()))
	assert.NotEqual(t, c, c.Up())
	assert.False(t, c.Same(NewCard(Spades, Queen)))
}

func TestStartingHandKey(t *testing.T) {
	assert.Equal(t, "AKs", StartingHandKey(MustParseCards("KsAs")))
	assert.Equal(t, "T9o", StartingHandKey(MustParseCards("9hTd")))
	assert.Equal(t, "77", StartingHandKey(MustParseCards("7c7d")))
	assert.Equal(t, 1.0, StartingHandPercentile(MustParseCards("AhAd")))
	assert.Equal(t, 0.0, StartingHandPercentile(MustParseCards("7h2d")))
}
