// Package equity estimates each player's probability of winning a hand.
//
// Before the flop a closed-form heuristic over the hole cards is used; once
// community cards are out the remaining board is completed by Monte Carlo
// sampling and every hand evaluated.
package equity

import (
	"math"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/evaluator"
	"github.com/lox/pokerarena/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// DefaultTrials is the Monte Carlo sample size per equity calculation
const DefaultTrials = 500

// DefaultWorkers is the number of goroutines sharing the trials. Results for
// a seed depend on the worker count, so it does not follow the host's CPUs.
const DefaultWorkers = 4

const (
	minPreflopEquity = 5
	maxPreflopEquity = 95
)

// Calculator runs equity simulations. It is safe for concurrent use.
type Calculator struct {
	trials  int
	workers int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Calculator
type Option func(*Calculator)

// WithTrials sets the number of Monte Carlo trials per calculation
func WithTrials(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.trials = n
		}
	}
}

// WithWorkers sets how many goroutines share the trials
func WithWorkers(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New creates a calculator drawing randomness from rng
func New(rng *rand.Rand, opts ...Option) *Calculator {
	c := &Calculator{
		trials:  DefaultTrials,
		workers: DefaultWorkers,
		rng:     rng,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trials returns the configured sample size
func (c *Calculator) Trials() int {
	return c.trials
}

// PreflopStrength scores two hole cards before any community cards are seen.
// Pairs run from 55 (deuces) to 85 (aces); suited and offsuit hands gain from
// high ranks and lose for each rank of gap between the cards.
func PreflopStrength(hole []deck.Card) float64 {
	if len(hole) != 2 {
		return 0
	}
	r1, r2 := float64(hole[0].Rank), float64(hole[1].Rank)
	diff := math.Abs(r1 - r2)

	switch {
	case hole[0].Rank == hole[1].Rank:
		return 55 + (r1-2)*2.5
	case hole[0].Suit == hole[1].Suit:
		return 45 + (r1+r2)/5 - diff*2
	default:
		return 40 + (r1+r2)/6 - diff*2.5
	}
}

// Preflop scales the hole-card score by the number of players contesting the
// pot and clamps it to [5, 95].
func Preflop(hole []deck.Card, activePlayers int) float64 {
	if activePlayers < 1 {
		activePlayers = 1
	}
	equity := PreflopStrength(hole) * (100 / float64(activePlayers)) / 100
	return math.Min(math.Max(equity, minPreflopEquity), maxPreflopEquity)
}

// MonteCarlo returns each hand's share of simulated wins as a percentage.
// Entries without exactly two cards are not dealt in and get 0. Split trials
// credit each tied hand 1/winners.
func (c *Calculator) MonteCarlo(hands [][]deck.Card, board []deck.Card) []float64 {
	equities := make([]float64, len(hands))

	var live []int
	used := append([]deck.Card(nil), board...)
	for i, h := range hands {
		if len(h) == 2 {
			live = append(live, i)
			used = append(used, h...)
		}
	}

	switch len(live) {
	case 0:
		return equities
	case 1:
		equities[live[0]] = 100
		return equities
	}

	if len(board) > 5 {
		board = board[:5]
	}
	need := 5 - len(board)
	remaining := deck.Remaining(used)

	wins, valid := c.run(len(hands), func(rng *rand.Rand, scratch []deck.Card, acc []float64) bool {
		if len(scratch) < need {
			return false
		}
		full := make([]deck.Card, 0, 5)
		full = append(full, board...)
		full = append(full, drawFrom(rng, scratch, need)...)

		results := make([]evaluator.HandResult, len(live))
		for i, seat := range live {
			results[i] = evaluator.Evaluate(hands[seat], full)
		}
		winners := evaluator.Best(results)
		if len(winners) == 0 {
			return false
		}
		share := 1 / float64(len(winners))
		for _, w := range winners {
			acc[live[w]] += share
		}
		return true
	}, remaining)

	if valid == 0 {
		return equities
	}
	for _, seat := range live {
		equities[seat] = wins[seat] / float64(valid) * 100
	}
	return equities
}

// Odds summarizes a hand's chances against random opponent holdings
type Odds struct {
	Equity    float64 `json:"equity"`
	Win       float64 `json:"win"`
	Tie       float64 `json:"tie"`
	Trials    int     `json:"trials"`
	Opponents int     `json:"opponents"`
}

// Odds estimates hole's equity against opponents random hands on the given board
func (c *Calculator) Odds(hole, board []deck.Card, opponents int) Odds {
	result := Odds{Opponents: opponents}
	if len(hole) != 2 || opponents < 1 || len(board) > 5 {
		return result
	}

	used := append(append([]deck.Card(nil), hole...), board...)
	remaining := deck.Remaining(used)
	need := 5 - len(board) + 2*opponents

	// acc[0] equity share, acc[1] outright wins, acc[2] ties
	totals, valid := c.run(3, func(rng *rand.Rand, scratch []deck.Card, acc []float64) bool {
		if len(scratch) < need {
			return false
		}
		drawn := drawFrom(rng, scratch, need)
		full := make([]deck.Card, 0, 5)
		full = append(full, board...)
		full = append(full, drawn[:5-len(board)]...)
		opp := drawn[5-len(board):]

		results := make([]evaluator.HandResult, 0, opponents+1)
		results = append(results, evaluator.Evaluate(hole, full))
		for i := 0; i < opponents; i++ {
			results = append(results, evaluator.Evaluate(opp[2*i:2*i+2], full))
		}

		winners := evaluator.Best(results)
		if len(winners) == 0 || winners[0] != 0 {
			return true
		}
		acc[0] += 1 / float64(len(winners))
		if len(winners) == 1 {
			acc[1]++
		} else {
			acc[2]++
		}
		return true
	}, remaining)

	result.Trials = valid
	if valid == 0 {
		return result
	}
	n := float64(valid)
	result.Equity = totals[0] / n * 100
	result.Win = totals[1] / n * 100
	result.Tie = totals[2] / n * 100
	return result
}

type trialFunc func(rng *rand.Rand, scratch []deck.Card, acc []float64) bool

// run splits the configured trials across workers. Each worker owns an RNG
// seeded from the calculator RNG and a private copy of the card pool, and
// accumulators are summed in worker order so results are reproducible.
func (c *Calculator) run(width int, trial trialFunc, pool []deck.Card) ([]float64, int) {
	workers := c.workers
	if workers > c.trials {
		workers = c.trials
	}
	if workers < 1 {
		workers = 1
	}

	seeds := make([]int64, workers)
	c.mu.Lock()
	for i := range seeds {
		seeds[i] = c.rng.Int64()
	}
	c.mu.Unlock()

	accs := make([][]float64, workers)
	valids := make([]int, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		n := c.trials / workers
		if w < c.trials%workers {
			n++
		}
		g.Go(func() error {
			rng := randutil.New(seeds[w])
			scratch := make([]deck.Card, len(pool))
			acc := make([]float64, width)
			for i := 0; i < n; i++ {
				copy(scratch, pool)
				if trial(rng, scratch, acc) {
					valids[w]++
				}
			}
			accs[w] = acc
			return nil
		})
	}
	_ = g.Wait()

	totals := make([]float64, width)
	valid := 0
	for w := 0; w < workers; w++ {
		for i, v := range accs[w] {
			totals[i] += v
		}
		valid += valids[w]
	}
	return totals, valid
}

// drawFrom picks n cards uniformly without replacement by swapping them to the
// end of scratch, returning that tail.
func drawFrom(rng *rand.Rand, scratch []deck.Card, n int) []deck.Card {
	last := len(scratch)
	for i := 0; i < n; i++ {
		j := rng.IntN(last - i)
		scratch[j], scratch[last-1-i] = scratch[last-1-i], scratch[j]
	}
	return scratch[last-n:]
}
