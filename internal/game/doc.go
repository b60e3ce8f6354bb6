// Package game implements the No-Limit Texas Hold'em engine: table state,
// the betting round, the hand state machine, pot accounting and the
// tournament loop.
//
// The engine is a single goroutine that owns a GameState value. Every step
// returns a new state, and a clone is published to the configured sinks after
// each atomic change. Seats are driven by a DecisionSource, which is the only
// place the engine waits on something other than its own pacing delays.
package game
