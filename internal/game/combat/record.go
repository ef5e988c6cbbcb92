package combat

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cory-johannsen/duel/internal/game/character"
)

// Validation errors reported by NewBattle. Each is wrapped with the
// participant label, so callers compare with errors.Is.
var (
	ErrMissingParticipant = errors.New("two participants are required for a battle")
	ErrInvalidParticipant = errors.New("participant must be a structured record")
	ErrMissingIdentity    = errors.New("participant must have an id or _id")
	ErrInvalidName        = errors.New("participant must have a valid name")
	ErrInvalidJob         = errors.New("participant must have a valid job")
	ErrInvalidVitality    = errors.New("participant must have a positive, finite vitality/hp/health value")
	ErrSameParticipant    = errors.New("a participant cannot battle itself")
)

// defaultModifier is used for any attack, defense, or speed value that is
// missing and has no legacy fallback.
const defaultModifier = 5

// MaxVitality is the largest vitality a participant may enter battle with.
const MaxVitality = math.MaxInt32

// ModifierSet is the optional modifier triple carried by a record. A nil
// entry is absent and gets repaired during normalization.
type ModifierSet struct {
	Attack  *float64 `json:"attack,omitempty"`
	Defense *float64 `json:"defense,omitempty"`
	Speed   *float64 `json:"speed,omitempty"`
}

// Record is the external participant shape accepted at the battle boundary.
//
// Two identity aliases are accepted: CreationID ("_id", assigned when the
// character is built) and StoreID ("id", assigned by a repository). The
// first non-empty one becomes the fighter ID.
//
// Vitality is read from Vitality, then the "hp" alias, then the "health"
// alias; the first non-zero value wins.
type Record struct {
	CreationID string
	StoreID    string
	Name       string
	Job        string
	Level      int

	Vitality *float64
	HP       *float64
	Health   *float64

	// Legacy per-stat fields used to repair a missing triple.
	AttackModifier float64
	SpeedModifier  float64

	Modifiers *ModifierSet
}

// RecordFromCharacter builds the record a stored character enters battle
// with. Its modifier triple is complete, with defense derived from the
// job-specific defense formula.
//
// Precondition: c must be non-nil.
func RecordFromCharacter(c *character.Character) Record {
	vit := float64(c.Vitality)
	attack := c.AttackPower
	speed := c.Speed
	defense := float64(c.Defense())
	r := Record{
		CreationID:     c.ID,
		Name:           c.Name,
		Job:            string(c.Job),
		Level:          c.Level,
		Vitality:       &vit,
		AttackModifier: c.AttackPower,
		SpeedModifier:  c.Speed,
		Modifiers:      &ModifierSet{Attack: &attack, Defense: &defense, Speed: &speed},
	}
	if c.StoreID != 0 {
		r.StoreID = strconv.FormatInt(c.StoreID, 10)
	}
	return r
}

// RecordFromMap decodes a loosely typed record, for example a JSON object
// decoded into map[string]any. Keys follow the wire names: "_id", "id",
// "name", "job", "level", "vitality", "hp", "health", "attackModifier",
// "speedModifier" and "modifiers" {"attack", "defense", "speed"}.
//
// Postcondition: name and job are ErrInvalidName / ErrInvalidJob when
// present with a non-string type; non-numeric modifier entries are treated
// as absent.
func RecordFromMap(m map[string]any) (Record, error) {
	var r Record
	r.CreationID = identityString(m["_id"])
	r.StoreID = identityString(m["id"])

	if v, ok := m["name"]; ok {
		s, isStr := v.(string)
		if !isStr {
			return Record{}, ErrInvalidName
		}
		r.Name = s
	}
	if v, ok := m["job"]; ok {
		s, isStr := v.(string)
		if !isStr {
			return Record{}, ErrInvalidJob
		}
		r.Job = s
	}
	if lvl, ok := number(m["level"]); ok {
		r.Level = int(lvl)
	}

	var err error
	if r.Vitality, err = vitalityField(m, "vitality"); err != nil {
		return Record{}, err
	}
	if r.HP, err = vitalityField(m, "hp"); err != nil {
		return Record{}, err
	}
	if r.Health, err = vitalityField(m, "health"); err != nil {
		return Record{}, err
	}

	r.AttackModifier, _ = number(m["attackModifier"])
	r.SpeedModifier, _ = number(m["speedModifier"])

	if mods, ok := m["modifiers"].(map[string]any); ok {
		r.Modifiers = &ModifierSet{
			Attack:  numberPtr(mods["attack"]),
			Defense: numberPtr(mods["defense"]),
			Speed:   numberPtr(mods["speed"]),
		}
	}
	return r, nil
}

// toFighter validates r and resolves it into a battle-ready Fighter.
//
// Postcondition: Returns a Fighter with 0 < CurrentVitality == Vitality <=
// MaxVitality and a complete modifier triple, or one of the validation errors.
func (r Record) toFighter() (Fighter, error) {
	id := r.CreationID
	if id == "" {
		id = r.StoreID
	}
	if id == "" {
		return Fighter{}, ErrMissingIdentity
	}
	if r.Name == "" {
		return Fighter{}, ErrInvalidName
	}
	if r.Job == "" {
		return Fighter{}, ErrInvalidJob
	}

	vit, ok := firstNonZero(r.Vitality, r.HP, r.Health)
	if !ok || math.IsNaN(vit) || vit <= 0 || vit > MaxVitality {
		return Fighter{}, ErrInvalidVitality
	}
	// Fractional vitality rounds up so that any positive value stays alive.
	hp := int(math.Ceil(vit))

	level := r.Level
	if level < 1 {
		level = 1
	}

	return Fighter{
		ID:              id,
		Name:            r.Name,
		Job:             r.Job,
		Level:           level,
		Vitality:        hp,
		CurrentVitality: hp,
		Modifiers:       r.resolveModifiers(),
	}, nil
}

// resolveModifiers fills every missing entry of the triple independently.
// Attack and speed fall back to the legacy fields, then to defaultModifier;
// defense falls back to defaultModifier.
func (r Record) resolveModifiers() Modifiers {
	attackFallback := orDefault(r.AttackModifier)
	speedFallback := orDefault(r.SpeedModifier)

	if r.Modifiers == nil {
		return Modifiers{Attack: attackFallback, Defense: defaultModifier, Speed: speedFallback}
	}
	m := Modifiers{Attack: attackFallback, Defense: defaultModifier, Speed: speedFallback}
	if r.Modifiers.Attack != nil {
		m.Attack = *r.Modifiers.Attack
	}
	if r.Modifiers.Defense != nil {
		m.Defense = *r.Modifiers.Defense
	}
	if r.Modifiers.Speed != nil {
		m.Speed = *r.Modifiers.Speed
	}
	return m
}

// normalize maps any accepted participant shape onto a Fighter.
func normalize(p any) (Fighter, error) {
	switch v := p.(type) {
	case nil:
		return Fighter{}, ErrMissingParticipant
	case Record:
		return v.toFighter()
	case *Record:
		if v == nil {
			return Fighter{}, ErrMissingParticipant
		}
		return v.toFighter()
	case *character.Character:
		if v == nil {
			return Fighter{}, ErrMissingParticipant
		}
		return RecordFromCharacter(v).toFighter()
	case character.Character:
		return RecordFromCharacter(&v).toFighter()
	case map[string]any:
		if v == nil {
			return Fighter{}, ErrMissingParticipant
		}
		r, err := RecordFromMap(v)
		if err != nil {
			return Fighter{}, err
		}
		return r.toFighter()
	default:
		return Fighter{}, fmt.Errorf("%w, got %T", ErrInvalidParticipant, p)
	}
}

func orDefault(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return defaultModifier
	}
	return v
}

func firstNonZero(vals ...*float64) (float64, bool) {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return *v, true
		}
	}
	return 0, false
}

// vitalityField reads a vitality alias. A present, non-zero, non-numeric
// value is rejected rather than skipped.
func vitalityField(m map[string]any, key string) (*float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	if n, isNum := number(raw); isNum {
		return &n, nil
	}
	if s, isStr := raw.(string); isStr && s == "" {
		return nil, nil
	}
	if b, isBool := raw.(bool); isBool && !b {
		return nil, nil
	}
	return nil, ErrInvalidVitality
}

func identityString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == 0 || math.IsNaN(id) {
			return ""
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		if id == 0 {
			return ""
		}
		return strconv.Itoa(id)
	case int64:
		if id == 0 {
			return ""
		}
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func numberPtr(v any) *float64 {
	n, ok := number(v)
	if !ok {
		return nil
	}
	return &n
}
