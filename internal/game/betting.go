package game

import (
	"context"
	"fmt"
)

// RunBettingRound plays one street to completion, asking src for each seat's
// decision in table order starting at ActivePlayerIndex.
//
// The street ends when the seat to act has already acted since the last raise
// and has matched the highest bet, or when at most one seat can still act and
// owes nothing. Illegal or missing decisions are normalized rather than
// rejected. The only error returned is the context's.
func (e *Engine) RunBettingRound(ctx context.Context, s GameState, src DecisionSource) (GameState, error) {
	s = s.Clone()
	if !s.Phase.IsStreet() {
		if s.Phase == PhaseDealing || s.Phase == PhaseIdle {
			s.Phase = PhasePreFlop
		}
	}

	e.annotateEquity(&s)
	e.publish(&s)

	if s.CanActCount() == 0 || len(s.Players) == 0 {
		return s, nil
	}

	highest := s.HighestBet()
	acted := make(map[int]bool)
	lastRaiser := -1

	seat := s.ActivePlayerIndex
	if seat < 0 || seat >= len(s.Players) {
		seat = 0
	}
	if !s.Players[seat].CanAct() {
		if seat = s.nextSeat(seat, Player.CanAct); seat < 0 {
			return s, nil
		}
	}

	for {
		p := s.Players[seat]
		if acted[seat] && p.CurrentBet == highest {
			break
		}

		s.setTurn(seat)
		decision, err := src.Decide(ctx, p.clone(), s.Clone())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s, ctxErr
			}
			e.logger.Warn("Decision failed, using safe default", "player", p.Name, "error", err)
		}

		action, raised := e.applyDecision(&s, seat, &highest, decision, err)
		if raised {
			lastRaiser = seat
			clear(acted)
		}
		acted[seat] = true

		e.logger.Debug("Player action",
			"player", p.Name,
			"action", action,
			"chips", s.Players[seat].Chips,
			"bet", s.Players[seat].CurrentBet,
			"pot", s.Pot,
			"lastRaiser", lastRaiser)

		e.publish(&s)
		if err := e.pacer.Wait(ctx, e.cfg.ActionDelay); err != nil {
			return s, err
		}

		if !e.streetOpen(s, highest) {
			break
		}

		next := s.nextSeat(seat, Player.CanAct)
		if next < 0 || next == seat {
			break
		}
		seat = next
	}

	s.setTurn(-1)
	return s, nil
}

// streetOpen reports whether any seat could still act. With one seat left it
// only has to act if it has not matched the highest bet.
func (e *Engine) streetOpen(s GameState, highest int) bool {
	switch s.CanActCount() {
	case 0:
		return false
	case 1:
		for _, p := range s.Players {
			if p.CanAct() {
				return p.CurrentBet < highest
			}
		}
		return false
	}
	return s.ActiveCount() > 1
}

// applyDecision resolves one decision against the table and logs it. It
// returns the action actually taken and whether it raised the highest bet.
func (e *Engine) applyDecision(s *GameState, seat int, highest *int, d Decision, decideErr error) (Action, bool) {
	p := &s.Players[seat]
	owed := *highest - p.CurrentBet
	action := e.normalizeAction(p.Name, d.Action, owed, *highest, decideErr)

	if d.Emotion != "" {
		p.Emotion = ParseEmotion(string(d.Emotion))
	} else {
		p.Emotion = Neutral
	}

	var amount *int
	raised := false

	switch action {
	case Fold:
		p.IsActive = false

	case Check:
		// Nothing owed

	case Call:
		paid := e.commit(s, seat, owed)
		amount = intPtr(paid)

	case Bet, Raise:
		size := max(d.BetAmount, 2*s.MinBet)
		size = min(size, p.Chips)
		paid := e.commit(s, seat, owed+size)
		switch {
		case p.CurrentBet > *highest:
			*highest = p.CurrentBet
			raised = true
			amount = intPtr(p.CurrentBet)
		case p.Chips == 0:
			// Short stack: all-in without reaching the bet
			action = AllIn
			amount = intPtr(p.CurrentBet)
		default:
			action = Call
			amount = intPtr(paid)
		}

	case AllIn:
		e.commit(s, seat, p.Chips)
		if p.CurrentBet > *highest {
			*highest = p.CurrentBet
			raised = true
		}
		amount = intPtr(p.CurrentBet)
	}

	if p.Chips <= 0 && p.IsActive {
		p.IsAllIn = true
	}

	description := d.Description
	if description == "" || action != d.Action {
		description = describeAction(action, amount, p.IsAllIn)
	}
	e.appendLog(s, seat, action, description, amount, &d)
	return action, raised
}

// commit moves up to want chips from seat into the pot and returns what was
// moved. A seat never goes below zero; any shortfall stays out of the pot.
func (e *Engine) commit(s *GameState, seat, want int) int {
	p := &s.Players[seat]
	if want < 0 {
		want = 0
	}
	p.Chips -= want
	p.CurrentBet += want
	p.TotalBet += want
	s.Pot += want

	if p.Chips < 0 {
		short := -p.Chips
		s.Pot -= short
		p.CurrentBet -= short
		p.TotalBet -= short
		p.Chips = 0
		want -= short
	}
	if p.Chips == 0 {
		p.IsAllIn = true
	}
	return want
}

// normalizeAction turns a requested action into a legal one. Unknown or
// missing actions check when free and fold otherwise; a check facing a bet is
// a call; bet and raise are relabelled to match whether a bet is open.
func (e *Engine) normalizeAction(name string, requested Action, owed, highest int, decideErr error) Action {
	if decideErr != nil || !requested.IsPlayerAction() {
		fallback := Fold
		if owed <= 0 {
			fallback = Check
		}
		if decideErr == nil {
			e.logger.Warn("Unknown action, using safe default", "player", name, "action", requested, "using", fallback)
		}
		return fallback
	}

	switch requested {
	case Check:
		if owed > 0 {
			return Call
		}
	case Call:
		if owed <= 0 {
			return Check
		}
	case Bet:
		if highest > 0 {
			return Raise
		}
	case Raise:
		if highest == 0 {
			return Bet
		}
	}
	return requested
}

func describeAction(action Action, amount *int, allIn bool) string {
	v := 0
	if amount != nil {
		v = *amount
	}
	switch action {
	case Fold:
		return "Folds"
	case Check:
		return "Checks"
	case Call:
		if allIn {
			return fmt.Sprintf("Calls $%d and is all-in", v)
		}
		return fmt.Sprintf("Calls $%d", v)
	case Bet:
		return fmt.Sprintf("Bets $%d", v)
	case Raise:
		return fmt.Sprintf("Raises to $%d", v)
	case AllIn:
		return fmt.Sprintf("Goes all-in for $%d", v)
	}
	return string(action)
}

// setTurn marks seat as the one to act; -1 clears the marker
func (s *GameState) setTurn(seat int) {
	for i := range s.Players {
		s.Players[i].IsTurn = i == seat
	}
	if seat >= 0 {
		s.ActivePlayerIndex = seat
	}
}
