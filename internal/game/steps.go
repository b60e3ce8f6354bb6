package game

import (
	"fmt"
	"slices"

	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/evaluator"
)

// SetupNextHand moves the button to the next seat with chips, clears every
// hand-scoped field and installs a fresh shuffled deck.
func (e *Engine) SetupNextHand(s GameState) GameState {
	s = s.Clone()

	if next := s.nextSeat(s.DealerIndex, func(p Player) bool { return p.Chips > 0 }); next >= 0 {
		s.DealerIndex = next
	}

	for i := range s.Players {
		p := &s.Players[i]
		p.Hand = nil
		p.CurrentBet = 0
		p.TotalBet = 0
		p.IsActive = p.Chips > 0
		p.IsAllIn = false
		p.IsDealer = i == s.DealerIndex
		p.IsTurn = false
		p.Equity = nil
	}

	s.Deck = deck.New(e.rng)
	s.CommunityCards = nil
	s.Pot = 0
	s.Phase = PhaseIdle
	s.WinningPlayers = nil
	s.HandResults = nil
	s.Round++

	e.logPhase(&s, fmt.Sprintf("New hand begins. Round %d", s.Round))
	e.logger.Debug("New hand", "round", s.Round, "dealer", s.Players[s.DealerIndex].Name)
	return s
}

// PostBlinds takes the small blind (MinBet) and big blind (2×MinBet) from the
// first two live seats left of the button. A seat that cannot cover its blind
// is all-in for what it has. Action starts left of the big blind.
func (e *Engine) PostBlinds(s GameState) GameState {
	s = s.Clone()

	sb := s.nextSeat(s.DealerIndex, func(p Player) bool { return p.IsActive })
	if sb < 0 {
		return s
	}
	bb := s.nextSeat(sb, func(p Player) bool { return p.IsActive })
	if bb < 0 || bb == sb {
		return s
	}

	e.postBlind(&s, sb, s.MinBet, "small blind")
	e.postBlind(&s, bb, 2*s.MinBet, "big blind")

	s.Pot = s.Players[sb].CurrentBet + s.Players[bb].CurrentBet

	first := s.nextSeat(bb, func(p Player) bool { return p.IsActive })
	if first < 0 {
		first = sb
	}
	s.ActivePlayerIndex = first
	return s
}

func (e *Engine) postBlind(s *GameState, seat, amount int, name string) {
	p := &s.Players[seat]
	posted := min(amount, p.Chips)
	p.Chips -= posted
	p.CurrentBet = posted
	p.TotalBet = posted

	if p.Chips == 0 {
		p.IsAllIn = true
		e.appendLog(s, seat, AllIn, fmt.Sprintf("%s is all-in from %s", p.Name, name), intPtr(posted), nil)
	}
	e.appendLog(s, seat, Blind, fmt.Sprintf("Posts %s of $%d", name, posted), intPtr(posted), nil)
}

// DealHoleCards deals two face-down cards to every live seat, one at a time
// around the table.
func (e *Engine) DealHoleCards(s GameState) GameState {
	s = s.Clone()
	s.WinningPlayers = nil
	s.HandResults = nil

	for round := 0; round < 2; round++ {
		for i := range s.Players {
			p := &s.Players[i]
			if !p.IsActive {
				continue
			}
			card, ok := s.Deck.Pop()
			if !ok {
				continue
			}
			p.Hand = append(p.Hand, card.Down())
		}
	}

	s.Phase = PhaseDealing
	e.logPhase(&s, "Cards are being dealt to players")
	e.annotateEquity(&s)
	return s
}

// DealFlop burns one card and turns three
func (e *Engine) DealFlop(s GameState) GameState {
	return e.dealStreet(s, PhaseFlop, 3, "Flop cards are dealt")
}

// DealTurn burns one card and turns one
func (e *Engine) DealTurn(s GameState) GameState {
	return e.dealStreet(s, PhaseTurn, 1, "Turn card is dealt")
}

// DealRiver burns one card and turns one
func (e *Engine) DealRiver(s GameState) GameState {
	return e.dealStreet(s, PhaseRiver, 1, "River card is dealt")
}

func (e *Engine) dealStreet(s GameState, phase Phase, n int, description string) GameState {
	s = s.Clone()
	s.WinningPlayers = nil
	s.HandResults = nil

	s.Deck.Burn()
	for i := 0; i < n; i++ {
		if card, ok := s.Deck.Pop(); ok {
			s.CommunityCards = append(s.CommunityCards, card.Up())
		}
	}

	// Bets are per street; first to act is the first live seat after the button
	for i := range s.Players {
		s.Players[i].CurrentBet = 0
		s.Players[i].IsTurn = false
	}
	if first := s.nextSeat(s.DealerIndex, Player.CanAct); first >= 0 {
		s.ActivePlayerIndex = first
	}

	s.Phase = phase
	e.logPhase(&s, description)
	e.annotateEquity(&s)
	e.logger.Debug("Dealt street", "phase", phase, "board", deck.FormatCards(s.CommunityCards))
	return s
}

// DetermineWinners evaluates every live hand against the board. A lone live
// seat wins without a showdown. Ties return several winners in seat order.
func (e *Engine) DetermineWinners(s GameState) ([]int, map[int]string) {
	winners, results, _ := determineWinners(s)
	return winners, results
}

func determineWinners(s GameState) ([]int, map[int]string, map[int]evaluator.HandResult) {
	live := activeSeats(s.Players)
	if len(live) == 1 {
		return live, map[int]string{}, nil
	}

	descriptions := make(map[int]string)
	hands := make(map[int]evaluator.HandResult)
	var seats []int
	var results []evaluator.HandResult
	for _, seat := range live {
		p := s.Players[seat]
		if !p.HasHand() {
			continue
		}
		r := evaluator.Evaluate(p.Hand, s.CommunityCards)
		hands[seat] = r
		descriptions[seat] = r.Description
		seats = append(seats, seat)
		results = append(results, r)
	}

	var winners []int
	for _, i := range evaluator.Best(results) {
		winners = append(winners, seats[i])
	}
	return winners, descriptions, hands
}

// AwardPot splits the whole pot evenly between winners; indivisible chips go
// one each to the earliest winners. Each gain is logged as a win.
func (e *Engine) AwardPot(s GameState, winners []int) GameState {
	s = s.Clone()
	if len(winners) == 0 {
		return e.refundContributions(s)
	}

	shares := splitPot(s.Pot, winners)
	for _, w := range winners {
		s.Players[w].Chips += shares[w]
		e.appendLog(&s, w, Win, fmt.Sprintf("Wins $%d from the pot", shares[w]), intPtr(shares[w]), nil)
		e.logger.Info("Pot awarded", "player", s.Players[w].Name, "amount", shares[w], "round", s.Round)
	}
	s.Pot = 0
	return s
}

// AwardSidePots pays the main pot and each side pot to the best hands among the
// seats eligible for it. Returns the new state and every seat that won a
// contested pot; uncalled chips handed back do not count as a win.
func (e *Engine) AwardSidePots(s GameState) (GameState, []int) {
	s = s.Clone()
	pots := BuildPots(s.Players)
	if len(pots) == 0 {
		s.Pot = 0
		return s, nil
	}

	// Pot accounting drift (should not happen) stays with the main pot
	sum := 0
	for _, p := range pots {
		sum += p.Amount
	}
	if drift := s.Pot - sum; drift != 0 && pots[0].Amount+drift >= 0 {
		pots[0].Amount += drift
	}

	overall, _, hands := determineWinners(s)

	var paid []int
	for i, pot := range pots {
		winners := bestAmong(pot.Eligible, hands)
		if len(winners) == 0 {
			winners = overall
		}
		if len(winners) == 0 {
			winners = pot.Eligible
		}

		shares := splitPot(pot.Amount, winners)
		for _, w := range winners {
			amount := shares[w]
			if amount == 0 {
				continue
			}
			s.Players[w].Chips += amount

			uncalled := len(pot.Eligible) == 1 && len(pots) > 1

			var description string
			switch {
			case uncalled:
				description = fmt.Sprintf("Takes back $%d uncalled", amount)
			case len(pots) == 1:
				description = fmt.Sprintf("Wins $%d from the pot", amount)
			case i == 0:
				description = fmt.Sprintf("Wins $%d from the main pot", amount)
			default:
				description = fmt.Sprintf("Wins $%d from side pot %d", amount, i)
			}
			e.appendLog(&s, w, Win, description, intPtr(amount), nil)
			e.logger.Info("Pot awarded", "player", s.Players[w].Name, "amount", amount, "pot", i, "round", s.Round)

			if !uncalled && !slices.Contains(paid, w) {
				paid = append(paid, w)
			}
		}
	}
	s.Pot = 0
	slices.Sort(paid)
	return s, paid
}

// bestAmong returns the strongest evaluated hands among seats. With a single
// eligible seat that seat wins even without an evaluation.
func bestAmong(seats []int, hands map[int]evaluator.HandResult) []int {
	if len(seats) == 1 {
		return seats
	}
	var candidates []int
	var results []evaluator.HandResult
	for _, seat := range seats {
		if r, ok := hands[seat]; ok {
			candidates = append(candidates, seat)
			results = append(results, r)
		}
	}
	var winners []int
	for _, i := range evaluator.Best(results) {
		winners = append(winners, candidates[i])
	}
	return winners
}

// refundContributions returns each seat's chips for the hand when nobody is
// left to win the pot.
func (e *Engine) refundContributions(s GameState) GameState {
	for i := range s.Players {
		s.Players[i].Chips += s.Players[i].TotalBet
		s.Pot -= s.Players[i].TotalBet
	}
	if s.Pot != 0 {
		e.logger.Warn("Pot left after refund", "pot", s.Pot)
	}
	s.Pot = 0
	return s
}
