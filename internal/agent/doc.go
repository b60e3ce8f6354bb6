// Package agent provides the decision sources that drive seats: a heuristic
// player with per-seat personalities, a remote language model caller and a
// few fixed-strategy bots used for testing and simulation.
package agent
