package game

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// LogEntry is one line of the play-by-play. Entries are never modified once
// appended.
type LogEntry struct {
	PlayerID         int       `json:"playerId"`
	PlayerName       string    `json:"playerName"`
	Action           Action    `json:"action"`
	Description      string    `json:"description"`
	Timestamp        time.Time `json:"timestamp"`
	Phase            Phase     `json:"phase"`
	Amount           *int      `json:"amount,omitempty"`
	Equity           *float64  `json:"equity,omitempty"`
	ChainOfThought   string    `json:"chainOfThought,omitempty"`
	ReasoningSummary string    `json:"reasoningSummary,omitempty"`
	Emotion          Emotion   `json:"emotion,omitempty"`
}

// ActivityLog is an append-only sequence of log entries.
//
// Appending returns a new log and leaves the receiver untouched. Successive
// snapshots of one game share a backing array: an append writes in place only
// when the receiver is the longest log on that array, otherwise it copies.
type ActivityLog struct {
	entries []LogEntry
	head    *atomic.Int64
}

// NewActivityLog builds a log holding entries
func NewActivityLog(entries ...LogEntry) ActivityLog {
	var l ActivityLog
	for _, e := range entries {
		l = l.Append(e)
	}
	return l
}

// Append returns a log with e added at the end
func (l ActivityLog) Append(e LogEntry) ActivityLog {
	n := int64(len(l.entries))
	if l.head != nil && l.head.CompareAndSwap(n, n+1) {
		return ActivityLog{entries: append(l.entries, e), head: l.head}
	}

	fresh := make([]LogEntry, len(l.entries), 2*len(l.entries)+8)
	copy(fresh, l.entries)
	head := new(atomic.Int64)
	head.Store(n + 1)
	return ActivityLog{entries: append(fresh, e), head: head}
}

// Len returns the number of entries
func (l ActivityLog) Len() int {
	return len(l.entries)
}

// Entries returns the entries in order. The slice must not be modified.
func (l ActivityLog) Entries() []LogEntry {
	return l.entries[:len(l.entries):len(l.entries)]
}

// Last returns up to n of the most recent entries
func (l ActivityLog) Last(n int) []LogEntry {
	if n >= len(l.entries) {
		return l.Entries()
	}
	return l.entries[len(l.entries)-n : len(l.entries) : len(l.entries)]
}

// Since returns entries appended after the first n
func (l ActivityLog) Since(n int) []LogEntry {
	if n >= len(l.entries) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	return l.entries[n:len(l.entries):len(l.entries)]
}

// MarshalJSON encodes the log as a JSON array
func (l ActivityLog) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Entries())
}

// UnmarshalJSON decodes a JSON array of entries
func (l *ActivityLog) UnmarshalJSON(data []byte) error {
	var entries []LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = NewActivityLog(entries...)
	return nil
}
