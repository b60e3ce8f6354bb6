package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/lox/pokerarena/internal/game"
)

// Console prints the play-by-play to a writer as entries are logged. It is
// the non-interactive alternative to the Viewer.
type Console struct {
	mu        sync.Mutex
	w         io.Writer
	formatter *game.LogFormatter
	printed   int
	round     int
}

// NewConsole creates a console sink writing to w
func NewConsole(w io.Writer, opts game.FormattingOptions) *Console {
	return &Console{w: w, formatter: game.NewLogFormatter(opts)}
}

// Publish implements game.StateSink
func (c *Console) Publish(s game.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.ActivityLog.Len() < c.printed {
		c.printed = 0
	}

	if s.Round != c.round && s.Round > 0 {
		c.round = s.Round
		fmt.Fprintln(c.w)
		fmt.Fprintln(c.w, HeaderStyle.Render(fmt.Sprintf("Hand %d", s.Round)))
	}

	for _, entry := range s.ActivityLog.Since(c.printed) {
		fmt.Fprintln(c.w, EntryStyle(entry.Action).Render(c.formatter.Format(entry)))
	}
	c.printed = s.ActivityLog.Len()
}

// Summary prints final standings after a tournament
func (c *Console) Summary(res game.TournamentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w)
	if res.Winner != nil {
		fmt.Fprintln(c.w, SuccessStyle.Render(fmt.Sprintf("%s wins the tournament after %d hands", res.Winner.Name, res.Hands)))
	} else {
		fmt.Fprintln(c.w, WarningStyle.Render(fmt.Sprintf("Tournament stopped after %d hands", res.Hands)))
	}
	fmt.Fprintln(c.w, game.SummarizeTable(res.FinalState))
}
