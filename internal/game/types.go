package game

import (
	"strings"
)

// Phase is the stage of the current hand
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDealing  Phase = "dealing"
	PhasePreFlop  Phase = "preFlop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
)

// String returns the string representation of a phase
func (p Phase) String() string {
	return string(p)
}

// IsStreet reports whether betting happens in this phase
func (p Phase) IsStreet() bool {
	switch p {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

// Action is what a seat did, or a non-player event recorded in the activity log
type Action string

const (
	Fold  Action = "fold"
	Check Action = "check"
	Call  Action = "call"
	Bet   Action = "bet"
	Raise Action = "raise"
	AllIn Action = "allIn"

	// Log-only actions
	Blind      Action = "blind"
	PhaseEvent Action = "phase"
	Win        Action = "win"
)

// String returns the string representation of an action
func (a Action) String() string {
	return string(a)
}

// IsPlayerAction reports whether a decision source may return this action
func (a Action) IsPlayerAction() bool {
	switch a {
	case Fold, Check, Call, Bet, Raise, AllIn:
		return true
	}
	return false
}

// ParseAction normalizes free-form action text ("All-In", "all in", "RAISE")
func ParseAction(s string) (Action, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "fold", "folds":
		return Fold, true
	case "check", "checks":
		return Check, true
	case "call", "calls":
		return Call, true
	case "bet", "bets":
		return Bet, true
	case "raise", "raises":
		return Raise, true
	case "allin", "shove", "jam":
		return AllIn, true
	}
	return "", false
}

// Emotion is the presentation mood attached to a seat and its log entries
type Emotion string

const (
	Neutral      Emotion = "neutral"
	Happy        Emotion = "happy"
	Excited      Emotion = "excited"
	Nervous      Emotion = "nervous"
	Thoughtful   Emotion = "thoughtful"
	Suspicious   Emotion = "suspicious"
	Confident    Emotion = "confident"
	Disappointed Emotion = "disappointed"
	Frustrated   Emotion = "frustrated"
	Surprised    Emotion = "surprised"
	PokerFace    Emotion = "poker-face"
	Bluffing     Emotion = "bluffing"
	Calculating  Emotion = "calculating"
	Intimidating Emotion = "intimidating"
	Worried      Emotion = "worried"
)

// Emotions lists every known emotion
var Emotions = []Emotion{
	Neutral, Happy, Excited, Nervous, Thoughtful, Suspicious, Confident,
	Disappointed, Frustrated, Surprised, PokerFace, Bluffing, Calculating,
	Intimidating, Worried,
}

// ParseEmotion maps text to a known emotion, falling back to neutral
func ParseEmotion(s string) Emotion {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	if key == "pokerface" {
		key = string(PokerFace)
	}
	for _, e := range Emotions {
		if string(e) == key {
			return e
		}
	}
	return Neutral
}
