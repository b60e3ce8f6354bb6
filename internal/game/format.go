package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how log entries are rendered for different viewers
type FormattingOptions struct {
	ShowReasoning bool // Include the decision source's reasoning summary
	ShowThoughts  bool // Include the full chain of thought
	ShowEquity    bool // Include the seat's equity when the entry was written
	ShowEmotion   bool // Include the seat's emotion
	ShowTimestamp bool // Prefix with the entry time
}

// LogFormatter renders activity log entries as play-by-play lines
type LogFormatter struct {
	opts FormattingOptions
}

// NewLogFormatter creates a formatter with the given options
func NewLogFormatter(opts FormattingOptions) *LogFormatter {
	return &LogFormatter{opts: opts}
}

// Format renders one entry
func (f *LogFormatter) Format(entry LogEntry) string {
	var b strings.Builder

	if f.opts.ShowTimestamp && !entry.Timestamp.IsZero() {
		b.WriteString(entry.Timestamp.Format("15:04:05"))
		b.WriteString(" ")
	}

	switch entry.Action {
	case PhaseEvent:
		fmt.Fprintf(&b, "*** %s ***", entry.Description)
		return b.String()
	case Win:
		fmt.Fprintf(&b, "%s: %s", entry.PlayerName, entry.Description)
		return b.String()
	}

	fmt.Fprintf(&b, "%s: %s", entry.PlayerName, entry.Description)

	var extras []string
	if f.opts.ShowEquity && entry.Equity != nil {
		extras = append(extras, fmt.Sprintf("equity %.1f%%", *entry.Equity))
	}
	if f.opts.ShowEmotion && entry.Emotion != "" && entry.Emotion != Neutral {
		extras = append(extras, string(entry.Emotion))
	}
	if len(extras) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(extras, ", "))
	}

	if f.opts.ShowReasoning && entry.ReasoningSummary != "" {
		fmt.Fprintf(&b, "\n    %s", entry.ReasoningSummary)
	}
	if f.opts.ShowThoughts && entry.ChainOfThought != "" {
		for _, line := range strings.Split(strings.TrimSpace(entry.ChainOfThought), "\n") {
			fmt.Fprintf(&b, "\n    > %s", line)
		}
	}
	return b.String()
}

// FormatAll renders entries one per line
func (f *LogFormatter) FormatAll(entries []LogEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = f.Format(e)
	}
	return strings.Join(lines, "\n")
}

// SummarizeTable renders a compact chip-count summary for every seat
func SummarizeTable(s GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d, %s, pot $%d", s.Round, s.Phase, s.Pot)
	for _, p := range s.Players {
		status := ""
		switch {
		case p.Chips == 0 && !p.IsActive && p.TotalBet == 0:
			status = " (out)"
		case !p.IsActive:
			status = " (folded)"
		case p.IsAllIn:
			status = " (all-in)"
		}
		dealer := ""
		if p.IsDealer {
			dealer = " [D]"
		}
		fmt.Fprintf(&b, "\n  %s%s: $%d%s", p.Name, dealer, p.Chips, status)
	}
	return b.String()
}
