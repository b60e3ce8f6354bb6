package agent

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/evaluator"
	"github.com/lox/pokerarena/internal/game"
)

// Heuristic plays by hand strength, pot odds and the seat's personality
// traits. It never returns an error.
type Heuristic struct {
	mu     sync.Mutex
	rng    *rand.Rand
	table  *PersonalityTable
	logger *log.Logger
}

// NewHeuristic creates a heuristic agent. All seats it drives share the
// personality table.
func NewHeuristic(table *PersonalityTable, rng *rand.Rand, logger *log.Logger) *Heuristic {
	return &Heuristic{
		rng:    rng,
		table:  table,
		logger: logger.WithPrefix("heuristic"),
	}
}

// thinking accumulates the reasoning behind a decision
type thinking struct {
	thoughts []string
}

func (t *thinking) add(format string, args ...any) {
	t.thoughts = append(t.thoughts, fmt.Sprintf(format, args...))
}

func (t *thinking) String() string {
	if len(t.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(t.thoughts, ". ") + "."
}

// Decide picks an action for seat
func (h *Heuristic) Decide(_ context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	if !seat.IsActive || !seat.HasHand() {
		return game.Decision{Action: game.Fold}, nil
	}

	traits := h.table.Traits(seat.ID)
	think := &thinking{}

	strength := handStrength(seat, state.CommunityCards, think)
	adjusted := strength * (1 - traits.Tightness*0.3)
	think.add("%s player adjusts strength to %.2f", traits.Style(), adjusted)

	highest := state.HighestBet()
	toCall := max(highest-seat.CurrentBet, 0)
	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(state.Pot+toCall)
		think.add("Calling $%d into $%d needs %.0f%% equity", toCall, state.Pot, potOdds*100)
	}
	canCheck := toCall == 0

	h.mu.Lock()
	bluff := h.rng.Float64() < traits.BluffFrequency
	peel := h.rng.Float64() < traits.Adaptability*0.2
	h.mu.Unlock()

	d := h.choose(seat, state, traits, adjusted, potOdds, toCall, canCheck, bluff, peel, think)
	d.ChainOfThought = think.String()
	d.Description = describe(traits, d, highest)

	h.logger.Debug("Decision",
		"player", seat.Name,
		"phase", state.Phase,
		"strength", strength,
		"adjusted", adjusted,
		"potOdds", potOdds,
		"bluff", bluff,
		"action", d.Action,
		"amount", d.BetAmount)
	return d, nil
}

func (h *Heuristic) choose(seat game.Player, state game.GameState, traits Traits, adjusted, potOdds float64, toCall int, canCheck, bluff, peel bool, think *thinking) game.Decision {
	if adjusted > 0.8 || (adjusted > 0.6 && traits.Aggressiveness > 0.7) {
		size := BetSize(state.Pot, state.MinBet, traits.Aggressiveness, seat.Chips)
		if toCall+size >= seat.Chips {
			think.add("Strong enough to put everything in")
			return game.Decision{
				Action:           game.AllIn,
				BetAmount:        seat.Chips,
				Emotion:          game.Intimidating,
				ReasoningSummary: "Strong hand, all-in",
			}
		}
		action := game.Bet
		if state.HighestBet() > 0 {
			action = game.Raise
		}
		think.add("Strong hand, %s for value", action)
		emotion := game.Confident
		if traits.Aggressiveness > 0.7 {
			emotion = game.Intimidating
		}
		return game.Decision{
			Action:           action,
			BetAmount:        size,
			Emotion:          emotion,
			ReasoningSummary: fmt.Sprintf("Strong hand, %s $%d", action, size),
		}
	}

	if adjusted > 0.5 || (bluff && adjusted > 0.3) {
		emotion := game.Thoughtful
		if adjusted <= 0.5 {
			think.add("Marginal hand but willing to represent more")
			emotion = game.Bluffing
		}
		if canCheck {
			think.add("Checking to see another card")
			return game.Decision{Action: game.Check, Emotion: game.PokerFace, ReasoningSummary: "Medium hand, free card"}
		}
		if adjusted > potOdds || traits.Aggressiveness > 0.6 {
			think.add("The price is right to continue")
			return game.Decision{Action: game.Call, Emotion: emotion, ReasoningSummary: "Medium hand, good price"}
		}
	}

	if canCheck {
		think.add("Weak hand, checking")
		return game.Decision{Action: game.Check, Emotion: game.PokerFace, ReasoningSummary: "Weak hand, free check"}
	}
	if peel {
		think.add("Weak, but staying in to see what happens")
		return game.Decision{Action: game.Call, Emotion: game.Nervous, ReasoningSummary: "Speculative call"}
	}
	think.add("Not worth the risk")
	return game.Decision{Action: game.Fold, Emotion: game.Disappointed, ReasoningSummary: "Weak hand, fold"}
}

// BetSize returns max(pot×(0.5+aggressiveness×0.5), 2×minBet) capped at
// chips.
func BetSize(pot, minBet int, aggressiveness float64, chips int) int {
	size := int(float64(pot) * (0.5 + aggressiveness*0.5))
	size = max(size, 2*minBet)
	return min(size, chips)
}

// HandStrength scores a seat's hand in [0, 1]. Pre-flop it uses a starting
// hand chart; afterwards it blends the made-hand category with the seat's
// equity estimate when one is available.
func HandStrength(seat game.Player, board []deck.Card) float64 {
	return handStrength(seat, board, &thinking{})
}

func handStrength(seat game.Player, board []deck.Card, think *thinking) float64 {
	if !seat.HasHand() {
		return 0
	}

	if len(board) < 3 {
		think.add("I have %s (top %.0f%% hand)", deck.StartingHandKey(seat.Hand), (1-deck.StartingHandPercentile(seat.Hand))*100)
		return preflopStrength(seat.Hand)
	}

	hand := evaluator.Evaluate(seat.Hand, board)
	strength := categoryStrength(hand)
	think.add("I have %s", hand.Description)

	if seat.Equity != nil {
		eq := *seat.Equity / 100
		think.add("Equity is %.0f%%", *seat.Equity)
		strength = 0.5*strength + 0.5*eq
	}
	return min(max(strength, 0), 1)
}

func preflopStrength(hole []deck.Card) float64 {
	a, b := hole[0], hole[1]
	high, low := max(a.Rank, b.Rank), min(a.Rank, b.Rank)
	pair := a.Rank == b.Rank
	suited := a.Suit == b.Suit
	gap := int(high) - int(low) - 1

	switch {
	case pair && high >= deck.Ten:
		return 0.85 + float64(high-deck.Ten)/40
	case pair && high >= deck.Seven:
		return 0.7
	case pair:
		return 0.6
	case suited && high >= deck.Queen:
		return 0.75
	case suited && high >= deck.Ten && gap <= 2:
		return 0.65
	case high >= deck.King && low >= deck.Ten:
		return 0.7
	case high >= deck.Queen && low >= deck.Ten:
		return 0.6
	case gap <= 1 && low >= deck.Nine:
		return 0.6
	case (suited && gap <= 2) || (gap <= 1 && low >= deck.Seven):
		return 0.5
	}
	return 0.3 + float64(high)/40
}

func categoryStrength(hand evaluator.HandResult) float64 {
	switch hand.Type {
	case evaluator.RoyalFlush, evaluator.StraightFlush:
		return 1
	case evaluator.FourOfAKind:
		return 0.96
	case evaluator.FullHouse:
		return 0.92
	case evaluator.Flush:
		return 0.85
	case evaluator.Straight:
		return 0.8
	case evaluator.ThreeOfAKind:
		return 0.72
	case evaluator.TwoPair:
		return 0.62
	case evaluator.Pair:
		if hand.Rank >= int(deck.Jack) {
			return 0.55
		}
		return 0.45
	}
	if hand.Rank == int(deck.Ace) {
		return 0.3
	}
	return 0.2
}

// describe renders the table-talk line for a decision
func describe(traits Traits, d game.Decision, highest int) string {
	style := traits.Style()
	switch d.Action {
	case game.Fold:
		return fmt.Sprintf("%s player folds, not worth the risk.", style)
	case game.Check:
		return fmt.Sprintf("%s player checks, waiting to see more cards.", style)
	case game.Call:
		return fmt.Sprintf("%s player calls, thinks the hand has potential.", style)
	case game.Bet:
		return fmt.Sprintf("%s player bets $%d, showing confidence.", style, d.BetAmount)
	case game.Raise:
		read := "seems to have a strong hand."
		if traits.BluffFrequency > 0.4 {
			read = "could be bluffing."
		}
		return fmt.Sprintf("%s player raises to $%d, %s", style, highest+d.BetAmount, read)
	case game.AllIn:
		read := "Must have a monster hand!"
		if traits.BluffFrequency > 0.45 {
			read = "Is this a massive bluff?"
		}
		return fmt.Sprintf("%s player goes ALL IN! %s", style, read)
	}
	return ""
}
