package combat

import (
	"math"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// StrikeResult holds the outcome of a single strike.
type StrikeResult struct {
	AttackerID string
	DefenderID string
	// RawDamage is floor(uniform(0, attack)) before mitigation.
	RawDamage int
	// Damage is the mitigated amount actually applied; always >= 1.
	Damage int
	// Remaining is the defender's vitality after the strike.
	Remaining int
}

// MitigatedDamage applies the defense discount to raw damage.
//
// Postcondition: Returns max(1, raw - floor(defense/3)).
func MitigatedDamage(raw int, defense float64) int {
	d := raw - int(math.Floor(defense/3))
	if d < 1 {
		return 1
	}
	return d
}

// ResolveStrike rolls damage for attacker against defender and applies it.
//
// Precondition: attacker, defender and src must be non-nil.
// Postcondition: Exactly one draw is taken from src; defender.CurrentVitality
// decreases by the mitigated damage and stays >= 0.
func ResolveStrike(attacker, defender *Fighter, src dice.Source) StrikeResult {
	raw := dice.UniformInt(src, attacker.Modifiers.Attack)
	dmg := MitigatedDamage(raw, defender.Modifiers.Defense)
	defender.ApplyDamage(dmg)
	return StrikeResult{
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		RawDamage:  raw,
		Damage:     dmg,
		Remaining:  defender.CurrentVitality,
	}
}
