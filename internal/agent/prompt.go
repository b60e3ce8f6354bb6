package agent

import (
	"fmt"
	"strings"

	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/evaluator"
	"github.com/lox/pokerarena/internal/game"
)

const systemPrompt = `You are a professional No-Limit Texas Hold'em player seated at a table of AI opponents.
Think through your hand, position, pot odds and opponents before acting.
Respond with a single JSON object and nothing else.`

var promptFormatter = game.NewLogFormatter(game.FormattingOptions{})

// BuildPrompt describes the table from seat's point of view. Only the seat's
// own hole cards are shown. recent limits how many log entries are included.
func BuildPrompt(seat game.Player, state game.GameState, recent int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s", seat.Name)
	if seat.Personality != "" {
		fmt.Fprintf(&b, ", a %s player", seat.Personality)
	}
	b.WriteString(".\n\n")

	highest := state.HighestBet()
	owed := max(highest-seat.CurrentBet, 0)

	fmt.Fprintf(&b, "Phase: %s (hand %d)\n", state.Phase, state.Round)
	fmt.Fprintf(&b, "Your cards: %s", deck.FormatCards(seat.Hand))
	if seat.HasHand() {
		fmt.Fprintf(&b, " (%s)", deck.StartingHandKey(seat.Hand))
	}
	b.WriteString("\n")
	board := "none"
	if len(state.CommunityCards) > 0 {
		board = deck.FormatCards(state.CommunityCards)
	}
	fmt.Fprintf(&b, "Board: %s\n", board)
	if len(state.CommunityCards) >= 3 && seat.HasHand() {
		fmt.Fprintf(&b, "Your best hand: %s\n", evaluator.Evaluate(seat.Hand, state.CommunityCards).Description)
	}
	if seat.Equity != nil {
		fmt.Fprintf(&b, "Estimated equity: %.1f%%\n", *seat.Equity)
	}
	fmt.Fprintf(&b, "Pot: $%d\n", state.Pot)
	fmt.Fprintf(&b, "Your chips: $%d, your bet this street: $%d\n", seat.Chips, seat.CurrentBet)
	fmt.Fprintf(&b, "To call: $%d\n", owed)
	fmt.Fprintf(&b, "Minimum bet or raise: $%d\n", 2*state.MinBet)

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		if p.ID == seat.ID {
			continue
		}
		status := "in hand"
		switch {
		case !p.IsActive && p.Chips == 0 && p.TotalBet == 0:
			status = "eliminated"
		case !p.IsActive:
			status = "folded"
		case p.IsAllIn:
			status = "all-in"
		}
		dealer := ""
		if p.IsDealer {
			dealer = ", dealer"
		}
		fmt.Fprintf(&b, "- %s: $%d chips, bet $%d, %s%s\n", p.Name, p.Chips, p.CurrentBet, status, dealer)
	}

	if recent > 0 && state.ActivityLog.Len() > 0 {
		b.WriteString("\nRecent action:\n")
		for _, e := range state.ActivityLog.Last(recent) {
			fmt.Fprintf(&b, "- %s\n", promptFormatter.Format(e))
		}
	}

	legal := []string{"fold", "allIn"}
	if owed == 0 {
		legal = append(legal, "check", "bet")
	} else {
		legal = append(legal, "call", "raise")
	}
	emotions := make([]string, len(game.Emotions))
	for i, e := range game.Emotions {
		emotions[i] = string(e)
	}

	fmt.Fprintf(&b, "\nLegal actions: %s\n", strings.Join(legal, ", "))
	b.WriteString(`
Respond in JSON as follows:
{
  "action": "one of the legal actions",
  "betAmount": 0,
  "chainOfThought": "your step by step reasoning",
  "reasoningSummary": "one sentence summary",
  "emotion": "the emotion you show the table"
}
betAmount is the amount added on top of any call, used for bet and raise.
`)
	fmt.Fprintf(&b, "Choose emotion from: %s.\n", strings.Join(emotions, ", "))
	return b.String()
}
