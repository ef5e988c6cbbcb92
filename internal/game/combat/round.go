package combat

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// narrator appends battle log lines and forwards each one to an optional
// observer as soon as it is written.
type narrator struct {
	lines    []string
	observer func(string)
}

func (n *narrator) add(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	n.lines = append(n.lines, line)
	if n.observer != nil {
		n.observer(line)
	}
}

func (n *narrator) begins(a, b *Fighter) {
	n.add("Battle between %s (%s) - %d HP and %s (%s) - %d HP begins!",
		a.Name, a.Job, a.CurrentVitality, b.Name, b.Job, b.CurrentVitality)
}

func (n *narrator) round(num int) {
	n.add("Round %d:", num)
}

func (n *narrator) initiative(first *Fighter, firstSpeed float64, second *Fighter, secondSpeed float64) {
	n.add("%s %s speed was faster than %s %s speed and will begin this round.",
		first.Name, formatSpeed(firstSpeed), second.Name, formatSpeed(secondSpeed))
}

func (n *narrator) strike(attacker, defender *Fighter, r StrikeResult) {
	n.add("%s attacks %s for %d, %s has %d HP remaining.",
		attacker.Name, defender.Name, r.Damage, defender.Name, r.Remaining)
}

func (n *narrator) defeated(f *Fighter) {
	n.add("%s has been defeated!", f.Name)
}

func (n *narrator) roundLimit() {
	n.add("Battle reached %d rounds - ending in a draw!", MaxRounds)
}

func (n *narrator) technicalDraw(winner *Fighter) {
	n.add("Battle ended in a technical draw! %s had more HP remaining and is declared the winner.", winner.Name)
}

func (n *narrator) wins(winner *Fighter) {
	n.add("%s wins the battle! %s still has %d HP remaining!", winner.Name, winner.Name, winner.CurrentVitality)
}

// resolveRound plays one round between a and b: initiative, the first
// strike, and the second strike unless the first one was fatal.
//
// Precondition: a and b are alive; src must be non-nil.
// Postcondition: Returns true iff a fighter was defeated during the round.
func resolveRound(num int, a, b *Fighter, src dice.Source, n *narrator) bool {
	n.round(num)

	ini := RollInitiative(a, b, src)
	first, second := a, b
	firstSpeed, secondSpeed := ini.A, ini.B
	if !ini.AFirst() {
		first, second = b, a
		firstSpeed, secondSpeed = ini.B, ini.A
	}
	n.initiative(first, firstSpeed, second, secondSpeed)

	n.strike(first, second, ResolveStrike(first, second, src))
	if second.IsDefeated() {
		n.defeated(second)
		return true
	}

	n.strike(second, first, ResolveStrike(second, first, src))
	if first.IsDefeated() {
		n.defeated(first)
		return true
	}
	return false
}

// simulate runs rounds until a defeat or MaxRounds and resolves the winner.
//
// Precondition: a and b are fresh copies with CurrentVitality > 0.
// Postcondition: Result.Log starts with the begins line and ends with the
// single wins line; Result.Rounds <= MaxRounds.
func simulate(a, b Fighter, src dice.Source, observer func(string)) Result {
	n := &narrator{observer: observer}
	n.begins(&a, &b)

	rounds := 0
	outcome := OutcomeRoundLimit
	for !a.IsDefeated() && !b.IsDefeated() {
		rounds++
		if resolveRound(rounds, &a, &b, src, n) {
			outcome = OutcomeDefeat
			break
		}
		if rounds >= MaxRounds {
			n.roundLimit()
			break
		}
	}

	var winner, loser Fighter
	switch {
	case outcome == OutcomeRoundLimit:
		winner, loser = a, b
		if a.CurrentVitality < b.CurrentVitality {
			winner, loser = b, a
		}
		n.technicalDraw(&winner)
	case a.IsDefeated():
		winner, loser = b, a
	default:
		winner, loser = a, b
	}
	n.wins(&winner)

	return Result{
		Winner:  winner,
		Loser:   loser,
		Log:     n.lines,
		Rounds:  rounds,
		Outcome: outcome,
	}
}
