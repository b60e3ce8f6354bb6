package phh

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/lox/pokerarena/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeAll writes hands as a PHHS file: one numbered section per hand
// starting at first.
func EncodeAll(w io.Writer, hands []*HandHistory, first int) error {
	for i, hand := range hands {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", first+i); err != nil {
			return err
		}
		if err := Encode(w, hand); err != nil {
			return err
		}
	}
	return nil
}

// FormatAction converts an engine action to a PHH action string. total is
// the seat's bet on the street after the action. It returns false for
// actions PHH records elsewhere, such as blind posts.
func FormatAction(seat int, action game.Action, total int) (string, bool) {
	player := fmt.Sprintf("p%d", seat+1)
	switch action {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Bet, game.Raise, game.AllIn:
		if total <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, total), true
	case game.Blind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", player, action, total), true
	}
}
