package agent

import (
	rand "math/rand/v2"
	"sync"
)

// Traits shape how a heuristic seat plays. Every value is in [0, 1].
type Traits struct {
	Aggressiveness float64 `json:"aggressiveness"` // How readily it bets and raises
	BluffFrequency float64 `json:"bluffFrequency"` // How often weak hands continue anyway
	Tightness      float64 `json:"tightness"`      // How much it discounts marginal hands
	Adaptability   float64 `json:"adaptability"`   // How often it peels with nothing
}

// RandomTraits draws a personality from the usual ranges: aggressiveness
// 0.2–0.8, bluffing 0.1–0.5, tightness 0.3–0.8, adaptability 0.4–0.8.
func RandomTraits(rng *rand.Rand) Traits {
	return Traits{
		Aggressiveness: 0.2 + rng.Float64()*0.6,
		BluffFrequency: 0.1 + rng.Float64()*0.4,
		Tightness:      0.3 + rng.Float64()*0.5,
		Adaptability:   0.4 + rng.Float64()*0.4,
	}
}

// Style names the dominant trait for descriptions
func (t Traits) Style() string {
	switch {
	case t.Aggressiveness > 0.7 && t.BluffFrequency > 0.4:
		return "Aggressive"
	case t.Tightness > 0.7:
		return "Tight"
	case t.Aggressiveness < 0.4 && t.Tightness < 0.4:
		return "Loose passive"
	case t.BluffFrequency > 0.4:
		return "Bluffer"
	case t.Adaptability > 0.7:
		return "Adaptive"
	default:
		return "Balanced"
	}
}

// PersonalityTable holds the traits of every seat for one tournament. Seats
// without traits get a fresh draw the first time they are looked up.
type PersonalityTable struct {
	mu     sync.Mutex
	rng    *rand.Rand
	traits map[int]Traits
}

// NewPersonalityTable creates an empty table drawing from rng
func NewPersonalityTable(rng *rand.Rand) *PersonalityTable {
	return &PersonalityTable{rng: rng, traits: make(map[int]Traits)}
}

// Assign replaces all traits with fresh draws for seats 0..n-1
func (p *PersonalityTable) Assign(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.traits)
	for seat := 0; seat < n; seat++ {
		p.traits[seat] = RandomTraits(p.rng)
	}
}

// Set fixes the traits for a seat
func (p *PersonalityTable) Set(seat int, t Traits) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.traits[seat] = t
}

// Traits returns the seat's traits, drawing them if needed
func (p *PersonalityTable) Traits(seat int) Traits {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.traits[seat]
	if !ok {
		t = RandomTraits(p.rng)
		p.traits[seat] = t
	}
	return t
}

var personalityNames = []string{
	"aggressive", "tight", "analytical", "loose", "conservative",
	"bluffer", "aggressive", "passive", "analytical", "loose",
	"tight", "unpredictable", "balanced", "aggressive", "cautious",
	"aggressive", "passive", "loose", "tight", "risk-taker",
}

// PersonalityName returns the flavour label for a seat, cycling through a
// fixed list.
func PersonalityName(seat int) string {
	if seat < 0 {
		seat = -seat
	}
	return personalityNames[seat%len(personalityNames)]
}
