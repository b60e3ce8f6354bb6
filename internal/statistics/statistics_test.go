package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := New([]string{"Ada", "Bo"})

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.WinRate(0))
	assert.Zero(t, stats.AveragePlace(1))
	assert.Zero(t, stats.ShowdownRate())
	assert.Error(t, stats.Validate(), "no tournaments recorded")
}

func TestStatistics_SingleTournament(t *testing.T) {
	stats := New([]string{"Ada", "Bo"})
	stats.AddHand(HandResult{Round: 1, Pot: 40, BigBlind: 20, WentToShowdown: true, Winners: []int{0}})
	stats.AddHand(HandResult{Round: 2, Pot: 30, BigBlind: 20, Winners: []int{1}})
	stats.AddHand(HandResult{Round: 3, Pot: 200, BigBlind: 20, WentToShowdown: true, Winners: []int{0}})
	stats.AddTournament(TournamentResult{Seed: 7, Hands: 3, Winner: 0, Places: map[int]int{0: 1, 1: 2}})

	require.NoError(t, stats.Validate())
	assert.Equal(t, 1, stats.Tournaments)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3.0, stats.Mean())
	assert.Zero(t, stats.Variance(), "single value has no variance")
	assert.Equal(t, 3.0, stats.Median())

	assert.Equal(t, 1.0, stats.WinRate(0))
	assert.Zero(t, stats.WinRate(1))
	assert.Equal(t, 1.0, stats.AveragePlace(0))
	assert.Equal(t, 2.0, stats.AveragePlace(1))

	ada := stats.Seats[0]
	assert.Equal(t, 2, ada.HandsWon)
	assert.Equal(t, 2, ada.ShowdownWins)
	assert.Zero(t, ada.NonShowdownWins)
	assert.Equal(t, 1, stats.Seats[1].NonShowdownWins)

	assert.Equal(t, 2, stats.Showdowns)
	assert.InDelta(t, 2.0/3.0, stats.ShowdownRate(), 1e-9)
	assert.Equal(t, 200, stats.MaxPotChips)
	assert.Equal(t, 10.0, stats.MaxPotBB)
	assert.Zero(t, stats.BigPots)
}

func TestStatistics_MultipleTournaments(t *testing.T) {
	stats := New([]string{"Ada", "Bo", "Cy"})

	lengths := []int{4, 10, 6, 2, 8}
	for i, n := range lengths {
		for h := 1; h <= n; h++ {
			stats.AddHand(HandResult{Round: h, Pot: 40, BigBlind: 20, Winners: []int{i % 3}})
		}
		stats.AddTournament(TournamentResult{Seed: int64(i), Hands: n, Winner: i % 3})
	}
	require.NoError(t, stats.Validate())

	assert.InDelta(t, 6.0, stats.Mean(), 1e-9)
	// sorted: 2, 4, 6, 8, 10
	assert.Equal(t, 6.0, stats.Median())
	assert.InDelta(t, 10.0, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(10), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(10)/math.Sqrt(5), stats.StdError(), 1e-9)

	low, high := stats.ConfidenceInterval95()
	margin := 1.96 * stats.StdError()
	assert.InDelta(t, 6.0-margin, low, 1e-9)
	assert.InDelta(t, 6.0+margin, high, 1e-9)

	assert.Equal(t, 2, stats.Seats[0].Wins)
	assert.Equal(t, 2, stats.Seats[1].Wins)
	assert.Equal(t, 1, stats.Seats[2].Wins)
	assert.InDelta(t, 0.4, stats.WinRate(0), 1e-9)
}

func TestStatistics_Percentile(t *testing.T) {
	stats := New(nil)
	for _, n := range []int{1, 2, 3, 4, 5} {
		stats.AddTournament(TournamentResult{Hands: n, Winner: -1})
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
		{0.1, 1.4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, stats.Percentile(tt.p), 1e-9, "p=%v", tt.p)
	}
	assert.Zero(t, stats.Completed, "tournaments without a winner are not completed")
}

func TestStatistics_BigPots(t *testing.T) {
	stats := New([]string{"Ada"})
	stats.AddHand(HandResult{Pot: 999, BigBlind: 20})
	stats.AddHand(HandResult{Pot: 1000, BigBlind: 20})
	stats.AddHand(HandResult{Pot: 5000, BigBlind: 0})

	assert.Equal(t, 1, stats.BigPots)
	assert.Equal(t, 5000, stats.MaxPotChips)
	assert.Zero(t, stats.MaxPotBB, "unknown blind size gives no bb figure")
}

func TestStatistics_IgnoresUnknownSeats(t *testing.T) {
	stats := New([]string{"Ada"})
	stats.AddHand(HandResult{Winners: []int{-1, 3}})
	stats.AddTournament(TournamentResult{Hands: 1, Winner: 5, Places: map[int]int{4: 1}})

	require.NoError(t, stats.Validate())
	assert.Zero(t, stats.Completed)
	assert.Zero(t, stats.Seats[0].HandsWon)
}

func TestStatistics_ValidateDetectsMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Statistics)
	}{
		{"values length", func(s *Statistics) { s.Values = append(s.Values, 1) }},
		{"hand ledger", func(s *Statistics) { s.Hands++ }},
		{"win split", func(s *Statistics) { s.Seats[0].ShowdownWins++ }},
		{"wins vs completed", func(s *Statistics) { s.Seats[1].Wins++ }},
		{"showdowns", func(s *Statistics) { s.Showdowns = s.Hands + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := New([]string{"Ada", "Bo"})
			stats.AddHand(HandResult{WentToShowdown: true, Winners: []int{0}})
			stats.AddTournament(TournamentResult{Hands: 1, Winner: 0})
			require.NoError(t, stats.Validate())

			tt.mutate(stats)
			assert.Error(t, stats.Validate())
		})
	}
}
