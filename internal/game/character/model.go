// Package character defines the arena character model: identity, base
// attributes, derived combat modifiers and the progression rules that keep
// them consistent.
package character

import "time"

// Attributes holds the four base attributes of a character.
//
// Invariant: all values are >= 0.
type Attributes struct {
	Vitality     int `json:"vitality" yaml:"vitality"`
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
}

// Modifiers holds the derived combat modifiers. They are never set directly;
// ComputeModifiers is the only source of truth.
type Modifiers struct {
	AttackPower float64 `json:"attackModifier" yaml:"attack_power"`
	Speed       float64 `json:"speedModifier" yaml:"speed"`
}

// Character represents an arena character.
//
// ID is assigned at creation and never changes. StoreID is set by the
// persistence layer; a zero value indicates an unsaved character.
type Character struct {
	ID      string `json:"_id" yaml:"id"`
	StoreID int64  `json:"id,omitempty" yaml:"store_id,omitempty"`

	Name  string `json:"name" yaml:"name"`
	Job   Job    `json:"job" yaml:"job"`
	Level int    `json:"level" yaml:"level"`

	Attributes `yaml:",inline"`
	Modifiers  `yaml:",inline"`

	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// Clone returns a copy of c that shares no mutable state with it.
//
// Postcondition: mutating the returned Character never affects c.
func (c *Character) Clone() *Character {
	out := *c
	return &out
}

// Defense returns the job-derived defense value for c's current attributes.
func (c *Character) Defense() int {
	return Defense(c.Job, c.Attributes)
}
