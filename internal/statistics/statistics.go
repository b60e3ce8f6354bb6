package statistics

import (
	"fmt"
	"math"
	"sort"
)

// BigPotBB is the size, in big blinds, from which a pot counts as a big pot
const BigPotBB = 50

// HandResult represents the outcome of a single hand within a tournament
type HandResult struct {
	Round          int   // Hand number within the tournament
	Pot            int   // Chips in the middle when the hand was decided
	BigBlind       int   // Big blind in chips, used for bb conversions
	WentToShowdown bool  // Two or more hands were still live at the end
	Winners        []int // Seats paid from a contested pot
}

// TournamentResult represents the outcome of a whole tournament
type TournamentResult struct {
	Seed   int64       // RNG seed the tournament was played with (for replay)
	Hands  int         // Hands played
	Winner int         // Winning seat, or -1 when the tournament was cut short
	Places map[int]int // Finishing place per seat; seats still alive when cut short are absent
}

// SeatStats tracks results for one seat across tournaments
type SeatStats struct {
	Name            string
	Wins            int // Tournaments won
	HandsWon        int // Hands in which the seat took a contested pot
	ShowdownWins    int // Hands won at showdown
	NonShowdownWins int // Hands won when everyone else folded
	Finishes        int // Tournaments with a recorded finishing place
	SumPlaces       int // Sum of finishing places, for the average
}

// Statistics tracks results over a batch of simulated tournaments
type Statistics struct {
	Tournaments int
	Completed   int       // Tournaments that ended with a single winner
	SumHands    float64   // Hands summed over tournaments
	SumHands2   float64   // Sum of squares for variance calculation
	Values      []float64 // Hands per tournament, for median/percentile calculation

	// Hand analytics
	Hands       int     // Hands recorded
	Showdowns   int     // Hands that reached a showdown
	MaxPotChips int     // Largest pot observed (in chips)
	MaxPotBB    float64 // Largest pot observed (in bb)
	BigPots     int     // Pots >= BigPotBB

	Seats []SeatStats
}

// New creates statistics for a table with the given seat names
func New(names []string) *Statistics {
	s := &Statistics{Seats: make([]SeatStats, len(names))}
	for i, name := range names {
		s.Seats[i].Name = name
	}
	return s
}

// Mean returns the mean tournament length in hands
func (s *Statistics) Mean() float64 {
	if s.Tournaments == 0 {
		return 0
	}
	return s.SumHands / float64(s.Tournaments)
}

// Variance returns the sample variance of tournament length
func (s *Statistics) Variance() float64 {
	if s.Tournaments < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumHands2 - float64(s.Tournaments)*mean*mean) / float64(s.Tournaments-1)
}

// StdDev returns the sample standard deviation of tournament length
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Tournaments == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Tournaments))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// AddHand incorporates one hand. Winners outside the seat list are ignored.
func (s *Statistics) AddHand(result HandResult) {
	s.Hands++
	if result.WentToShowdown {
		s.Showdowns++
	}

	for _, w := range result.Winners {
		if w < 0 || w >= len(s.Seats) {
			continue
		}
		seat := &s.Seats[w]
		seat.HandsWon++
		if result.WentToShowdown {
			seat.ShowdownWins++
		} else {
			seat.NonShowdownWins++
		}
	}

	potBB := 0.0
	if result.BigBlind > 0 {
		potBB = float64(result.Pot) / float64(result.BigBlind)
	}
	if result.Pot > s.MaxPotChips {
		s.MaxPotChips = result.Pot
		s.MaxPotBB = potBB
	}
	if potBB >= BigPotBB {
		s.BigPots++
	}
}

// AddTournament incorporates one finished tournament
func (s *Statistics) AddTournament(result TournamentResult) {
	hands := float64(result.Hands)
	s.Tournaments++
	s.SumHands += hands
	s.SumHands2 += hands * hands
	s.Values = append(s.Values, hands)

	if result.Winner >= 0 && result.Winner < len(s.Seats) {
		s.Completed++
		s.Seats[result.Winner].Wins++
	}
	for seat, place := range result.Places {
		if seat < 0 || seat >= len(s.Seats) || place <= 0 {
			continue
		}
		s.Seats[seat].Finishes++
		s.Seats[seat].SumPlaces += place
	}
}

// Median returns the median tournament length
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the tournament length at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// WinRate returns the share of completed tournaments won by seat
func (s *Statistics) WinRate(seat int) float64 {
	if seat < 0 || seat >= len(s.Seats) || s.Completed == 0 {
		return 0
	}
	return float64(s.Seats[seat].Wins) / float64(s.Completed)
}

// AveragePlace returns the seat's mean finishing place, or 0 without finishes
func (s *Statistics) AveragePlace(seat int) float64 {
	if seat < 0 || seat >= len(s.Seats) {
		return 0
	}
	st := s.Seats[seat]
	if st.Finishes == 0 {
		return 0
	}
	return float64(st.SumPlaces) / float64(st.Finishes)
}

// ShowdownRate returns the share of hands that reached showdown
func (s *Statistics) ShowdownRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Showdowns) / float64(s.Hands)
}

// Validate checks that the accumulated counts are consistent
func (s *Statistics) Validate() error {
	if s.Tournaments <= 0 {
		return fmt.Errorf("invalid tournament count: %d", s.Tournaments)
	}

	if len(s.Values) != s.Tournaments {
		return fmt.Errorf("values array length (%d) does not match tournament count (%d)",
			len(s.Values), s.Tournaments)
	}

	if math.Abs(s.SumHands-float64(s.Hands)) > 1e-6 {
		return fmt.Errorf("hand ledger mismatch: tournaments played %.0f hands, %d recorded",
			s.SumHands, s.Hands)
	}

	wins := 0
	for _, seat := range s.Seats {
		wins += seat.Wins
		if seat.ShowdownWins+seat.NonShowdownWins != seat.HandsWon {
			return fmt.Errorf("seat %s: showdown (%d) and non-showdown (%d) wins do not add up to %d",
				seat.Name, seat.ShowdownWins, seat.NonShowdownWins, seat.HandsWon)
		}
		if seat.HandsWon > s.Hands {
			return fmt.Errorf("seat %s won %d of %d hands", seat.Name, seat.HandsWon, s.Hands)
		}
	}
	if wins != s.Completed {
		return fmt.Errorf("tournament wins (%d) do not match completed tournaments (%d)", wins, s.Completed)
	}

	if s.Showdowns > s.Hands {
		return fmt.Errorf("showdowns (%d) exceed hands (%d)", s.Showdowns, s.Hands)
	}

	return nil
}
