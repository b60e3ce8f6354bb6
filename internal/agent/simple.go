package agent

import (
	"context"
	rand "math/rand/v2"
	"sync"

	"github.com/lox/pokerarena/internal/game"
)

func toCall(seat game.Player, state game.GameState) int {
	return max(state.HighestBet()-seat.CurrentBet, 0)
}

// CallingStation checks when it can and calls everything else
type CallingStation struct{}

// Decide checks or calls
func (CallingStation) Decide(_ context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	if toCall(seat, state) == 0 {
		return game.Decision{Action: game.Check, ReasoningSummary: "calling station checking"}, nil
	}
	return game.Decision{Action: game.Call, ReasoningSummary: "calling station calling"}, nil
}

// Folder checks when it can and folds to any bet
type Folder struct{}

// Decide checks or folds
func (Folder) Decide(_ context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	if toCall(seat, state) == 0 {
		return game.Decision{Action: game.Check, ReasoningSummary: "folder checking"}, nil
	}
	return game.Decision{Action: game.Fold, Emotion: game.Worried, ReasoningSummary: "folder folding"}, nil
}

// Random picks uniformly among the legal actions. Bet sizes are uniform
// between the minimum raise and the seat's stack.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random agent
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// Decide picks a random legal action
func (r *Random) Decide(_ context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	owed := toCall(seat, state)

	actions := []game.Action{game.Fold, game.AllIn}
	if owed == 0 {
		actions = append(actions, game.Check)
	} else if owed < seat.Chips {
		actions = append(actions, game.Call)
	}
	minRaise := 2 * state.MinBet
	if seat.Chips > owed+minRaise {
		if state.HighestBet() > 0 {
			actions = append(actions, game.Raise)
		} else {
			actions = append(actions, game.Bet)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	action := actions[r.rng.IntN(len(actions))]
	d := game.Decision{Action: action, ReasoningSummary: "random action"}
	switch action {
	case game.Bet, game.Raise:
		d.BetAmount = minRaise + r.rng.IntN(seat.Chips-owed-minRaise+1)
	case game.AllIn:
		d.BetAmount = seat.Chips
	}
	d.Emotion = game.Emotions[r.rng.IntN(len(game.Emotions))]
	return d, nil
}
