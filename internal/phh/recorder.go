package phh

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/fileutil"
	"github.com/lox/pokerarena/internal/game"
)

// Variant is No-Limit Texas Hold'em
const Variant = "NT"

// Recorder is a state sink that turns each completed hand into a
// HandHistory. It reads the table at the first snapshot of a hand (after
// blinds) and the activity log at the payout snapshot.
type Recorder struct {
	table string
	clock quartz.Clock

	mu      sync.Mutex
	hands   []*HandHistory
	current *handState
}

type handState struct {
	round    int
	logStart int
	order    []int       // Seat IDs from the small blind
	position map[int]int // Seat ID to PHH player index
	history  *HandHistory
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithClock sets the clock used to timestamp hands
func WithClock(clock quartz.Clock) RecorderOption {
	return func(r *Recorder) { r.clock = clock }
}

// NewRecorder creates a recorder whose hands carry the given table name
func NewRecorder(table string, opts ...RecorderOption) *Recorder {
	r := &Recorder{table: table, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish implements game.StateSink
func (r *Recorder) Publish(s game.GameState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case s.Phase == game.PhaseIdle && s.Round > 0 && (r.current == nil || r.current.round != s.Round):
		r.start(s)
	case r.current != nil && s.Round == r.current.round && s.Phase == game.PhaseShowdown && s.Pot == 0:
		r.finish(s)
		r.current = nil
	}
}

// Hands returns the completed hands in play order
func (r *Recorder) Hands() []*HandHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*HandHistory(nil), r.hands...)
}

// Save writes every completed hand to filename as a PHHS file
func (r *Recorder) Save(filename string) error {
	var buf bytes.Buffer
	if err := EncodeAll(&buf, r.Hands(), 1); err != nil {
		return fmt.Errorf("phh: encode hands: %w", err)
	}
	return fileutil.WriteFileAtomic(filename, buf.Bytes(), 0o644)
}

// start captures seats, stacks and blinds. Blinds are already posted, so a
// starting stack is chips plus what the seat has put in.
func (r *Recorder) start(s game.GameState) {
	logStart := 0
	entries := s.ActivityLog.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Action == game.PhaseEvent && entries[i].Phase == game.PhaseIdle {
			logStart = i
			break
		}
	}

	order := positionOrder(s)
	h := &HandHistory{
		Variant:           Variant,
		Table:             r.table,
		SeatCount:         len(s.Players),
		Seats:             make([]int, len(order)),
		Antes:             make([]int, len(order)),
		BlindsOrStraddles: make([]int, len(order)),
		MinBet:            2 * s.MinBet,
		StartingStacks:    make([]int, len(order)),
		Players:           make([]string, len(order)),
		HandID:            fmt.Sprintf("%s-%d", r.table, s.Round),
		Timestamp:         r.clock.Now(),
	}

	position := make(map[int]int, len(order))
	for pos, seat := range order {
		p := s.Players[seat]
		position[seat] = pos
		h.Seats[pos] = seat + 1
		h.StartingStacks[pos] = p.Chips + p.TotalBet
		h.BlindsOrStraddles[pos] = p.TotalBet
		h.Players[pos] = p.Name
	}

	r.current = &handState{round: s.Round, logStart: logStart, order: order, position: position, history: h}
}

// finish replays the hand's log entries into PHH actions
func (r *Recorder) finish(s game.GameState) {
	state := r.current
	h := state.history
	h.FinishingStacks = make([]int, len(state.order))
	h.Winnings = make([]int, len(state.order))

	highest := 0
	for _, blind := range h.BlindsOrStraddles {
		highest = max(highest, blind)
	}

	dealt := false
	for _, e := range s.ActivityLog.Since(state.logStart) {
		pos, seated := state.position[e.PlayerID]

		switch e.Action {
		case game.PhaseEvent:
			switch e.Phase {
			case game.PhaseDealing:
				dealt = true
				for p, seat := range state.order {
					h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", p+1, Cards(s.Players[seat].Hand, 2)))
				}
			case game.PhaseFlop:
				h.Actions = append(h.Actions, "d db "+Cards(boardSlice(s, 0, 3), 3))
				highest = 0
			case game.PhaseTurn:
				h.Actions = append(h.Actions, "d db "+Cards(boardSlice(s, 3, 4), 1))
				highest = 0
			case game.PhaseRiver:
				h.Actions = append(h.Actions, "d db "+Cards(boardSlice(s, 4, 5), 1))
				highest = 0
			}
			continue

		case game.Win:
			if seated && e.Amount != nil {
				h.Winnings[pos] += *e.Amount
			}
			continue
		}

		// All-in blinds are logged before the deal and live in the blinds array
		if !dealt || !seated {
			continue
		}

		action := e.Action
		total := 0
		if e.Amount != nil {
			total = *e.Amount
		}
		// A bet that does not top the street is a call in PHH
		switch action {
		case game.Bet, game.Raise, game.AllIn:
			if total <= highest {
				action = game.Call
			} else {
				highest = total
			}
		}
		if formatted, ok := FormatAction(pos, action, total); ok {
			h.Actions = append(h.Actions, formatted)
		}
	}

	live := 0
	for _, seat := range state.order {
		if p := s.Players[seat]; p.IsActive && p.HasHand() {
			live++
		}
	}
	for pos, seat := range state.order {
		p := s.Players[seat]
		h.FinishingStacks[pos] = p.Chips
		if live > 1 && p.IsActive && p.HasHand() {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", pos+1, Cards(p.Hand, 2)))
		}
	}

	h.Board = make([]string, len(s.CommunityCards))
	for i, c := range s.CommunityCards {
		h.Board[i] = Card(c)
	}
	h.setTime()
	r.hands = append(r.hands, h)
}

// positionOrder lists the seats dealt into the hand starting from the small
// blind, the first live seat after the button
func positionOrder(s game.GameState) []int {
	n := len(s.Players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		seat := (s.DealerIndex + i) % n
		if s.Players[seat].IsActive {
			order = append(order, seat)
		}
	}
	return order
}

func boardSlice(s game.GameState, from, to int) []deck.Card {
	if len(s.CommunityCards) < to {
		return nil
	}
	return s.CommunityCards[from:to]
}
