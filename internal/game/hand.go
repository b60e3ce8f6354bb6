package game

import (
	"context"

	"github.com/lox/pokerarena/internal/deck"
)

// PlayHand runs one hand from the button move to the payout:
// idle → dealing → preFlop → flop → turn → river → showdown.
//
// Streets are skipped once fewer than two seats can bet, but cards are still
// dealt out while two or more hands are live. When a street ends with a single
// live seat the hand goes straight to showdown without further deals.
func (e *Engine) PlayHand(ctx context.Context, s GameState, src DecisionSource) (GameState, error) {
	s = e.SetupNextHand(s)
	s = e.PostBlinds(s)
	e.publish(&s)

	s = e.DealHoleCards(s)
	e.publish(&s)
	if err := e.pacer.Wait(ctx, e.cfg.PhaseDelay); err != nil {
		return s, err
	}

	deals := []func(GameState) GameState{nil, e.DealFlop, e.DealTurn, e.DealRiver}
	for i, deal := range deals {
		if s.ActiveCount() <= 1 {
			break
		}
		if deal != nil {
			s = deal(s)
			e.publish(&s)
			if err := e.pacer.Wait(ctx, e.cfg.PhaseDelay); err != nil {
				return s, err
			}
		} else {
			s.Phase = PhasePreFlop
		}

		if !needsBetting(s) {
			continue
		}
		var err error
		if s, err = e.RunBettingRound(ctx, s, src); err != nil {
			return s, err
		}
		e.logger.Debug("Street complete", "street", i, "phase", s.Phase, "pot", s.Pot, "active", s.ActiveCount())
	}

	return e.showdown(ctx, s)
}

// needsBetting reports whether anyone can still put chips in on this street
func needsBetting(s GameState) bool {
	if s.ActiveCount() <= 1 {
		return false
	}
	switch s.CanActCount() {
	case 0:
		return false
	case 1:
		highest := s.HighestBet()
		for _, p := range s.Players {
			if p.CanAct() {
				return p.CurrentBet < highest
			}
		}
		return false
	}
	return true
}

// showdown recalculates equity on the final board, names the winners and pays
// the pot.
func (e *Engine) showdown(ctx context.Context, s GameState) (GameState, error) {
	s = s.Clone()
	s.Phase = PhaseShowdown
	s.WinningPlayers = nil
	s.HandResults = nil
	s.setTurn(-1)
	e.annotateEquity(&s)
	e.publish(&s)
	if err := e.pacer.Wait(ctx, e.cfg.ActionDelay); err != nil {
		return s, err
	}

	winners, descriptions := e.DetermineWinners(s)
	if e.cfg.SidePots {
		var paid []int
		s, paid = e.AwardSidePots(s)
		if len(paid) > 0 {
			winners = paid
		}
	} else {
		s = e.AwardPot(s, winners)
	}

	s.Phase = PhaseShowdown
	s.WinningPlayers = winners
	s.HandResults = descriptions
	e.publish(&s)

	names := make([]string, 0, len(winners))
	for _, w := range winners {
		names = append(names, s.Players[w].Name)
	}
	e.logger.Info("Hand complete", "round", s.Round, "winners", names, "board", deck.FormatCards(s.CommunityCards))

	if err := e.pacer.Wait(ctx, e.cfg.ShowdownDelay); err != nil {
		return s, err
	}
	return s, nil
}
