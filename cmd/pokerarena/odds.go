package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/equity"
	"github.com/lox/pokerarena/internal/evaluator"
	"github.com/lox/pokerarena/internal/randutil"
	"github.com/lox/pokerarena/internal/tui"
)

// OddsCmd estimates equity for one hand against random opponents, or for
// several known hands against each other
type OddsCmd struct {
	Hands     []string `arg:"" help:"Hole cards, e.g. 'AcKd' or 'AcKd QhJs' to race known hands" required:""`
	Board     string   `short:"b" help:"Community cards, e.g. 'Td7s8h'"`
	Opponents int      `short:"o" default:"1" help:"Random opponents when a single hand is given"`
	Trials    int      `short:"i" default:"100000" help:"Number of Monte Carlo trials"`
	Workers   int      `short:"w" help:"Worker goroutines (0 for the default of 4); results for a seed depend on this"`
	Seed      int64    `help:"Random seed for reproducible results (0 picks one from the clock)"`
}

var (
	oddsHeaderStyle = lipgloss.NewStyle().Bold(true)
	oddsWinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	oddsTieStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func (c *OddsCmd) Run(g *Globals) error {
	hands, err := parseHands(c.Hands)
	if err != nil {
		return err
	}

	var board []deck.Card
	if c.Board != "" {
		board, err = deck.ParseCards(c.Board)
		if err != nil {
			return fmt.Errorf("error parsing board: %w", err)
		}
		if len(board) > 5 {
			return fmt.Errorf("board cannot have more than 5 cards, got %d", len(board))
		}
	}
	if err := validateNoDuplicates(hands, board); err != nil {
		return err
	}
	if len(hands) == 1 && (c.Opponents < 1 || c.Opponents > 9) {
		return fmt.Errorf("opponents must be between 1 and 9, got %d", c.Opponents)
	}

	opts := []equity.Option{equity.WithTrials(c.Trials)}
	if c.Workers > 0 {
		opts = append(opts, equity.WithWorkers(c.Workers))
	}
	calc := equity.New(randutil.New(randutil.Seed(c.Seed)), opts...)

	start := time.Now()
	if len(hands) == 1 {
		writeOdds(os.Stdout, hands[0], board, calc.Odds(hands[0], board, c.Opponents), time.Since(start))
		return nil
	}
	writeRace(os.Stdout, hands, board, calc.MonteCarlo(hands, board), calc.Trials(), time.Since(start))
	return nil
}

func parseHands(handStrings []string) ([][]deck.Card, error) {
	var hands [][]deck.Card
	for _, arg := range handStrings {
		for _, handStr := range strings.Fields(arg) {
			hand, err := deck.ParseCards(handStr)
			if err != nil {
				return nil, fmt.Errorf("hand %d: %w", len(hands)+1, err)
			}
			if len(hand) != 2 {
				return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", len(hands)+1, len(hand))
			}
			hands = append(hands, hand)
		}
	}
	if len(hands) == 0 {
		return nil, fmt.Errorf("at least one hand is required")
	}
	if len(hands) > 10 {
		return nil, fmt.Errorf("at most 10 hands can be compared, got %d", len(hands))
	}
	return hands, nil
}

func validateNoDuplicates(hands [][]deck.Card, board []deck.Card) error {
	var seen [deck.Size]bool

	for _, card := range board {
		if seen[card.Index()] {
			return fmt.Errorf("duplicate card found on board: %s", card)
		}
		seen[card.Index()] = true
	}
	for i, hand := range hands {
		for _, card := range hand {
			if seen[card.Index()] {
				return fmt.Errorf("duplicate card found in hand %d: %s", i+1, card)
			}
			seen[card.Index()] = true
		}
	}
	return nil
}

func writeOdds(w io.Writer, hole, board []deck.Card, odds equity.Odds, elapsed time.Duration) {
	fmt.Fprintln(w, oddsHeaderStyle.Render(fmt.Sprintf("%s vs %d random %s", tui.FormatCards(hole), odds.Opponents, plural(odds.Opponents, "hand", "hands"))))
	switch {
	case len(board) >= 3:
		fmt.Fprintf(w, "Board: %s (%s)\n", tui.FormatCards(board), evaluator.Evaluate(hole, board).Description)
	case len(board) > 0:
		fmt.Fprintf(w, "Board: %s\n", tui.FormatCards(board))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Equity\t%.2f%%\n", odds.Equity)
	fmt.Fprintf(tw, "Win\t%s\n", oddsWinStyle.Render(fmt.Sprintf("%.2f%%", odds.Win)))
	fmt.Fprintf(tw, "Tie\t%s\n", oddsTieStyle.Render(fmt.Sprintf("%.2f%%", odds.Tie)))
	_ = tw.Flush()

	fmt.Fprintf(w, "%d trials in %s\n", odds.Trials, elapsed.Round(time.Millisecond))
}

func writeRace(w io.Writer, hands [][]deck.Card, board []deck.Card, equities []float64, trials int, elapsed time.Duration) {
	fmt.Fprintln(w, oddsHeaderStyle.Render(fmt.Sprintf("%d hands", len(hands))))
	if len(board) > 0 {
		fmt.Fprintf(w, "Board: %s\n", tui.FormatCards(board))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, hand := range hands {
		fmt.Fprintf(tw, "%s\t%.2f%%\n", deck.FormatCards(hand), equities[i])
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "%d trials in %s\n", trials, elapsed.Round(time.Millisecond))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
