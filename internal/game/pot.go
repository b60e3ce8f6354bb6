package game

import (
	"slices"
)

// Pot is the main pot or a side pot
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // Seats that can win this pot
}

// BuildPots layers each seat's contribution for the hand into a main pot and
// side pots. Every level is capped at a live seat's total contribution, so an
// all-in seat can only win what each opponent matched. Chips from folded seats
// above the highest live contribution join the last pot.
func BuildPots(players []Player) []Pot {
	var levels []int
	for _, p := range players {
		if p.IsActive && p.TotalBet > 0 && !slices.Contains(levels, p.TotalBet) {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)

	total := 0
	for _, p := range players {
		total += p.TotalBet
	}
	if len(levels) == 0 {
		if total == 0 {
			return nil
		}
		return []Pot{{Amount: total, Eligible: activeSeats(players)}}
	}

	var pots []Pot
	previous := 0
	for _, level := range levels {
		pot := Pot{}
		for _, p := range players {
			pot.Amount += min(p.TotalBet, level) - min(p.TotalBet, previous)
			if p.IsActive && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		previous = level

		if pot.Amount == 0 {
			continue
		}
		// Merge levels that the same seats are contesting
		if n := len(pots); n > 0 && slices.Equal(pots[n-1].Eligible, pot.Eligible) {
			pots[n-1].Amount += pot.Amount
			continue
		}
		pots = append(pots, pot)
	}

	overflow := 0
	for _, p := range players {
		if p.TotalBet > previous {
			overflow += p.TotalBet - previous
		}
	}
	if overflow > 0 {
		pots[len(pots)-1].Amount += overflow
	}
	return pots
}

func activeSeats(players []Player) []int {
	var seats []int
	for _, p := range players {
		if p.IsActive {
			seats = append(seats, p.ID)
		}
	}
	return seats
}

// splitPot divides amount evenly between winners. Chips that do not divide go
// one at a time to the earliest listed winners.
func splitPot(amount int, winners []int) map[int]int {
	shares := make(map[int]int, len(winners))
	if len(winners) == 0 || amount <= 0 {
		return shares
	}
	each := amount / len(winners)
	remainder := amount % len(winners)
	for i, w := range winners {
		share := each
		if i < remainder {
			share++
		}
		shares[w] += share
	}
	return shares
}
