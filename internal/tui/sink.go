package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/pokerarena/internal/game"
)

// StateMsg carries a published snapshot into the viewer
type StateMsg struct {
	State game.GameState
}

// DoneMsg tells the viewer the tournament loop has returned
type DoneMsg struct {
	Result game.TournamentResult
	Err    error
}

// Sink bridges the engine and the Bubble Tea program. Publish keeps only the
// newest snapshot, so a busy terminal never holds up the engine; each
// snapshot carries the whole log, so nothing is lost by coalescing.
type Sink struct {
	mu      sync.Mutex
	pending *game.GameState
	notify  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewSink creates an empty sink
func NewSink() *Sink {
	return &Sink{notify: make(chan struct{}, 1), done: make(chan struct{})}
}

// Close releases any pending wait. It is safe to call more than once.
func (s *Sink) Close() {
	s.once.Do(func() { close(s.done) })
}

// Publish implements game.StateSink
func (s *Sink) Publish(state game.GameState) {
	s.mu.Lock()
	s.pending = &state
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// take returns the newest snapshot not yet delivered
func (s *Sink) take() (game.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return game.GameState{}, false
	}
	state := *s.pending
	s.pending = nil
	return state, true
}

// wait is a command that delivers the next snapshot
func (s *Sink) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-s.notify:
				if state, ok := s.take(); ok {
					return StateMsg{State: state}
				}
			case <-s.done:
				return nil
			}
		}
	}
}
