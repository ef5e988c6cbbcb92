package character

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var (
	// ErrInvalidName is returned when a name is not 4-15 letters or underscores.
	ErrInvalidName = errors.New("invalid name: must be 4-15 characters long and contain only letters or underscores")
	// ErrInvalidJob is returned when a job is not Warrior, Thief, or Mage.
	ErrInvalidJob = errors.New("invalid job: must be Warrior, Thief, or Mage")
	// ErrNotFound is returned by character stores when no character matches an id.
	ErrNotFound = errors.New("character not found")
)

var namePattern = regexp.MustCompile(`^[A-Za-z_]{4,15}$`)

// ValidName reports whether name is an acceptable character name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// New constructs a level 1 Character with the job's base attributes.
//
// Precondition: none; invalid input is reported as an error.
// Postcondition: Returns a Character with a fresh ID and computed modifiers,
// or ErrInvalidName / ErrInvalidJob.
func New(name string, job Job) (*Character, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	if !job.Valid() {
		return nil, ErrInvalidJob
	}

	c := &Character{
		ID:         uuid.NewString(),
		Name:       name,
		Job:        job,
		Level:      1,
		Attributes: BaseAttributes(job),
	}
	c.recompute()
	return c, nil
}

// ChangeJob switches c to job and recomputes its modifiers. Attributes are preserved.
//
// Postcondition: on success c.Job == job and c.Modifiers == ComputeModifiers(job, c.Attributes);
// on ErrInvalidJob c is unchanged.
func (c *Character) ChangeJob(job Job) error {
	if !job.Valid() {
		return ErrInvalidJob
	}
	c.Job = job
	c.recompute()
	return nil
}

// LevelUp raises c by one level, applies the job's attribute gains and
// recomputes modifiers. Characters holding an unknown job gain a level only.
//
// Postcondition: c.Level is incremented by 1.
func (c *Character) LevelUp() {
	c.Level++
	d := levelDelta(c.Job)
	c.Vitality += d.Vitality
	c.Strength += d.Strength
	c.Dexterity += d.Dexterity
	c.Intelligence += d.Intelligence
	c.recompute()
}

// Recompute refreshes the derived modifiers from the current job and
// attributes. Stores call it after loading a row so stale columns never leak.
func (c *Character) Recompute() {
	c.recompute()
}

func (c *Character) recompute() {
	c.Modifiers = ComputeModifiers(c.Job, c.Attributes)
}
