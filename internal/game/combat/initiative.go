package combat

import (
	"math"
	"strconv"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Initiative holds the speed draws that decide who strikes first in a round.
type Initiative struct {
	// A and B are uniform draws in [0, speed) for fighter A and fighter B.
	A float64
	B float64
}

// AFirst reports whether fighter A opens the round. Ties go to A.
func (i Initiative) AFirst() bool {
	return i.A >= i.B
}

// RollInitiative draws initiative for fighter a, then for fighter b.
//
// Precondition: a, b and src must be non-nil.
// Postcondition: Exactly two draws are taken from src, in that order.
func RollInitiative(a, b *Fighter, src dice.Source) Initiative {
	ia := dice.Uniform(src, a.Modifiers.Speed)
	ib := dice.Uniform(src, b.Modifiers.Speed)
	return Initiative{A: ia, B: ib}
}

// formatSpeed renders a speed draw with one decimal place. Exact binary
// halves (x.x5) round away from zero; all other values use correctly
// rounded formatting. Zero always renders unsigned.
func formatSpeed(v float64) string {
	if v == 0 {
		v = 0
	}
	if v >= 0 && math.Mod(v*4, 1) == 0 && math.Mod(v*10, 1) == 0.5 {
		n := int64(math.Floor(v*10 + 0.5))
		return strconv.FormatInt(n/10, 10) + "." + strconv.FormatInt(n%10, 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
