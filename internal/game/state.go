package game

import (
	"maps"

	"github.com/lox/pokerarena/internal/deck"
)

// Player is one seat at the table. ID equals the seat index and never changes.
type Player struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Hand        []deck.Card `json:"hand,omitempty"`
	Chips       int         `json:"chips"`
	CurrentBet  int         `json:"currentBet"`
	TotalBet    int         `json:"totalBet"`
	IsActive    bool        `json:"isActive"`
	IsAllIn     bool        `json:"isAllIn"`
	IsDealer    bool        `json:"isDealer"`
	IsTurn      bool        `json:"isTurn"`
	Equity      *float64    `json:"equity,omitempty"`
	Emotion     Emotion     `json:"emotion,omitempty"`
	Personality string      `json:"personality,omitempty"`
	Agent       string      `json:"agent,omitempty"`
}

// CanAct reports whether the seat can still put chips in this hand
func (p Player) CanAct() bool {
	return p.IsActive && !p.IsAllIn && p.Chips > 0
}

// HasHand reports whether the seat holds two hole cards
func (p Player) HasHand() bool {
	return len(p.Hand) == 2
}

// EquityValue returns the equity estimate or 0 when none is set
func (p Player) EquityValue() float64 {
	if p.Equity == nil {
		return 0
	}
	return *p.Equity
}

func (p Player) clone() Player {
	if p.Hand != nil {
		p.Hand = append([]deck.Card(nil), p.Hand...)
	}
	if p.Equity != nil {
		e := *p.Equity
		p.Equity = &e
	}
	return p
}

// Seat describes a player joining a tournament
type Seat struct {
	Name        string
	Personality string
	Agent       string
}

// GameState is the full table state. It is a value: every engine step takes a
// state and returns a new one, and snapshots handed to sinks are clones.
type GameState struct {
	Version           int64          `json:"version"`
	Players           []Player       `json:"players"`
	Deck              *deck.Deck     `json:"-"`
	CommunityCards    []deck.Card    `json:"communityCards"`
	Pot               int            `json:"pot"`
	Phase             Phase          `json:"currentPhase"`
	ActivePlayerIndex int            `json:"activePlayerIndex"`
	DealerIndex       int            `json:"dealerIndex"`
	MinBet            int            `json:"minBet"`
	Round             int            `json:"round"`
	WinningPlayers    []int          `json:"winningPlayers,omitempty"`
	HandResults       map[int]string `json:"handResults,omitempty"`
	ActivityLog       ActivityLog    `json:"activityLog"`
}

// NewGameState seats players with equal stacks. Seat 0 holds the button; it
// moves before the first hand is dealt.
func NewGameState(seats []Seat, startingChips, minBet int) GameState {
	players := make([]Player, len(seats))
	for i, s := range seats {
		players[i] = Player{
			ID:          i,
			Name:        s.Name,
			Chips:       startingChips,
			IsActive:    true,
			IsDealer:    i == 0,
			Emotion:     Neutral,
			Personality: s.Personality,
			Agent:       s.Agent,
		}
	}
	return GameState{
		Players:     players,
		Deck:        deck.NewOrdered(),
		Phase:       PhaseIdle,
		MinBet:      minBet,
		DealerIndex: 0,
	}
}

// Clone returns a deep copy. The activity log is shared, which is safe
// because it is append-only.
func (s GameState) Clone() GameState {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.Deck = s.Deck.Clone()
	if s.CommunityCards != nil {
		out.CommunityCards = append([]deck.Card(nil), s.CommunityCards...)
	}
	if s.WinningPlayers != nil {
		out.WinningPlayers = append([]int(nil), s.WinningPlayers...)
	}
	if s.HandResults != nil {
		out.HandResults = maps.Clone(s.HandResults)
	}
	return out
}

// HighestBet returns the largest CurrentBet on this street
func (s GameState) HighestBet() int {
	highest := 0
	for _, p := range s.Players {
		if p.CurrentBet > highest {
			highest = p.CurrentBet
		}
	}
	return highest
}

// ToCall returns the chips seat must add to match the highest bet
func (s GameState) ToCall(seat int) int {
	owed := s.HighestBet() - s.Players[seat].CurrentBet
	if owed < 0 {
		return 0
	}
	return owed
}

// ActiveCount returns how many seats are still in the hand
func (s GameState) ActiveCount() int {
	n := 0
	for _, p := range s.Players {
		if p.IsActive {
			n++
		}
	}
	return n
}

// CanActCount returns how many seats can still bet
func (s GameState) CanActCount() int {
	n := 0
	for _, p := range s.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// PlayersWithChips returns the seat indexes that still have chips
func (s GameState) PlayersWithChips() []int {
	var seats []int
	for i, p := range s.Players {
		if p.Chips > 0 {
			seats = append(seats, i)
		}
	}
	return seats
}

// TotalChips returns chips held by seats plus the pot
func (s GameState) TotalChips() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}

// Winners returns the players listed in WinningPlayers
func (s GameState) Winners() []Player {
	out := make([]Player, 0, len(s.WinningPlayers))
	for _, id := range s.WinningPlayers {
		if id >= 0 && id < len(s.Players) {
			out = append(out, s.Players[id])
		}
	}
	return out
}

// nextSeat walks clockwise from seat and returns the first index for which ok
// is true, or -1 after a full circle.
func (s GameState) nextSeat(seat int, ok func(Player) bool) int {
	n := len(s.Players)
	for step := 1; step <= n; step++ {
		i := (seat + step) % n
		if ok(s.Players[i]) {
			return i
		}
	}
	return -1
}
