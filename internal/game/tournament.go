package game

import (
	"context"
	"fmt"
)

// TournamentResult is the outcome of RunTournament
type TournamentResult struct {
	Winner     *Player   // Nil when stopped before one seat held every chip
	Hands      int       // Hands played
	FinalState GameState // Table state when the loop ended
}

// StopFunc is polled between hands; returning true ends the tournament
type StopFunc func() bool

// RunTournament plays hands until one seat holds every chip, stop returns
// true, MaxHands is reached or ctx is cancelled. Seats with no chips are
// eliminated before each hand.
func (e *Engine) RunTournament(ctx context.Context, s GameState, src DecisionSource, stop StopFunc) (TournamentResult, error) {
	result := TournamentResult{FinalState: s}

	for {
		if stop != nil && stop() {
			e.logger.Info("Tournament stopped", "hands", result.Hands)
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if e.cfg.MaxHands > 0 && result.Hands >= e.cfg.MaxHands {
			e.logger.Info("Hand limit reached", "hands", result.Hands)
			break
		}

		s = eliminateBroke(s)
		result.FinalState = s

		alive := s.PlayersWithChips()
		if len(alive) <= 1 {
			if len(alive) == 1 {
				s = e.declareWinner(s, alive[0])
				winner := s.Players[alive[0]]
				result.Winner = &winner
				result.FinalState = s
			}
			break
		}

		next, err := e.PlayHand(ctx, s, src)
		result.FinalState = next
		if err != nil {
			return result, err
		}
		s = next
		result.Hands++
	}

	return result, nil
}

// eliminateBroke marks seats without chips out of play and clamps any
// negative stack to zero.
func eliminateBroke(s GameState) GameState {
	s = s.Clone()
	for i := range s.Players {
		p := &s.Players[i]
		if p.Chips <= 0 {
			p.Chips = 0
			p.IsActive = false
		}
	}
	return s
}

func (e *Engine) declareWinner(s GameState, seat int) GameState {
	s = s.Clone()
	p := s.Players[seat]
	message := fmt.Sprintf("Game over! %s wins the tournament with %d chips!", p.Name, p.Chips)

	s.WinningPlayers = []int{seat}
	s.HandResults = map[int]string{seat: message}
	e.appendLog(&s, seat, Win, message, intPtr(p.Chips), nil)
	e.publish(&s)

	e.logger.Info("Tournament complete", "winner", p.Name, "chips", p.Chips, "rounds", s.Round)
	return s
}
