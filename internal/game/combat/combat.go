// Package combat implements the two-fighter arena battle engine.
package combat

// MaxRounds is the hard upper bound on rounds in a single battle.
const MaxRounds = 100

// Outcome describes how a battle ended.
type Outcome int

const (
	// OutcomeDefeat means one fighter's vitality reached zero.
	OutcomeDefeat Outcome = iota
	// OutcomeRoundLimit means MaxRounds elapsed with both fighters standing.
	OutcomeRoundLimit
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeDefeat:
		return "defeat"
	case OutcomeRoundLimit:
		return "round_limit"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by its label.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Modifiers is the resolved combat triple a fighter enters battle with.
type Modifiers struct {
	Attack  float64 `json:"attack" yaml:"attack"`
	Defense float64 `json:"defense" yaml:"defense"`
	Speed   float64 `json:"speed" yaml:"speed"`
}

// Fighter is the per-battle snapshot of a participant.
//
// Fighters are values: the engine copies them at the start of every
// Execute call and never writes back to the record they came from.
type Fighter struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Job             string    `json:"job" yaml:"job"`
	Level           int       `json:"level" yaml:"level"`
	Vitality        int       `json:"vitality" yaml:"vitality"`
	CurrentVitality int       `json:"currentVitality" yaml:"current_vitality"`
	Modifiers       Modifiers `json:"modifiers" yaml:"modifiers"`
}

// IsDefeated reports whether the fighter has no vitality left.
//
// Postcondition: Returns true iff CurrentVitality <= 0.
func (f *Fighter) IsDefeated() bool {
	return f.CurrentVitality <= 0
}

// ApplyDamage reduces CurrentVitality by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: CurrentVitality >= 0.
func (f *Fighter) ApplyDamage(amount int) {
	f.CurrentVitality -= amount
	if f.CurrentVitality < 0 {
		f.CurrentVitality = 0
	}
}

// Result is the immutable outcome of one Execute call.
type Result struct {
	Winner  Fighter  `json:"winner" yaml:"winner"`
	Loser   Fighter  `json:"loser" yaml:"loser"`
	Log     []string `json:"battleLog" yaml:"battle_log"`
	Rounds  int      `json:"rounds" yaml:"rounds"`
	Outcome Outcome  `json:"outcome" yaml:"outcome"`
}
