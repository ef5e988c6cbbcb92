// Package gameserver implements the arena service: character management and
// battles between stored characters.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

var (
	// ErrMissingCharacterID is returned when a battle request omits a participant id.
	ErrMissingCharacterID = errors.New("both character IDs are required")
	// ErrSelfBattle is returned when both battle participants are the same character.
	ErrSelfBattle = errors.New("a character cannot battle itself")
)

// MissingCharacterError names the battle participant that could not be found.
type MissingCharacterError struct {
	ID string
}

func (e *MissingCharacterError) Error() string {
	return fmt.Sprintf("character with ID %s not found", e.ID)
}

// Unwrap lets callers match the error with character.ErrNotFound.
func (e *MissingCharacterError) Unwrap() error {
	return character.ErrNotFound
}

// CharacterStore persists characters.
//
// FindByID must accept either the creation id or the repository id and
// return character.ErrNotFound when neither matches.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	FindByID(ctx context.Context, id string) (*character.Character, error)
	List(ctx context.Context) ([]*character.Character, error)
	Save(ctx context.Context, c *character.Character) error
	Delete(ctx context.Context, id string) error
}

// BattleStore persists finished battles.
//
// FindBattle must return combat.ErrBattleNotFound for an unknown id.
type BattleStore interface {
	CreateBattle(ctx context.Context, h *combat.History) (*combat.History, error)
	ListBattles(ctx context.Context) ([]*combat.History, error)
	FindBattle(ctx context.Context, id int64) (*combat.History, error)
}

// Report is the outcome of a battle between stored characters.
type Report struct {
	History *combat.History
	Result  combat.Result
	// Winner is the stored winner after its vitality was written back.
	Winner *character.Character
	Loser  *character.Character
}

// Arena coordinates characters, the battle engine, and their stores.
type Arena struct {
	chars   CharacterStore
	battles BattleStore
	src     dice.Source
	logger  *zap.Logger
}

// NewArena creates an Arena.
//
// Precondition: chars, battles, src, and logger must be non-nil; src must be
// safe for concurrent use.
// Postcondition: Returns a ready Arena.
func NewArena(chars CharacterStore, battles BattleStore, src dice.Source, logger *zap.Logger) *Arena {
	if chars == nil || battles == nil {
		panic("gameserver.NewArena: stores must not be nil")
	}
	if src == nil {
		panic("gameserver.NewArena: src must not be nil")
	}
	if logger == nil {
		panic("gameserver.NewArena: logger must not be nil")
	}
	return &Arena{chars: chars, battles: battles, src: src, logger: logger}
}

// CreateCharacter builds a level 1 character and stores it.
//
// Postcondition: Returns the stored character with both identities set, or
// character.ErrInvalidName / character.ErrInvalidJob.
func (a *Arena) CreateCharacter(ctx context.Context, name string, job character.Job) (*character.Character, error) {
	c, err := character.New(name, job)
	if err != nil {
		return nil, err
	}
	created, err := a.chars.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storing character: %w", err)
	}
	a.logger.Info("character created",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.String("job", string(created.Job)),
	)
	return created, nil
}

// ListCharacters returns every stored character.
func (a *Arena) ListCharacters(ctx context.Context) ([]*character.Character, error) {
	return a.chars.List(ctx)
}

// Character looks up a character by either identity.
func (a *Arena) Character(ctx context.Context, id string) (*character.Character, error) {
	return a.chars.FindByID(ctx, id)
}

// ChangeJob switches a stored character to job and saves it.
//
// Postcondition: On character.ErrInvalidJob the stored character is unchanged.
func (a *Arena) ChangeJob(ctx context.Context, id string, job character.Job) (*character.Character, error) {
	c, err := a.chars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.ChangeJob(job); err != nil {
		return nil, err
	}
	if err := a.chars.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}
	return c, nil
}

// LevelUp raises a stored character by one level and saves it.
func (a *Arena) LevelUp(ctx context.Context, id string) (*character.Character, error) {
	c, err := a.chars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.LevelUp()
	if err := a.chars.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}
	a.logger.Info("character levelled up", zap.String("id", c.ID), zap.Int("level", c.Level))
	return c, nil
}

// DeleteCharacter removes a stored character. Battle history is kept.
func (a *Arena) DeleteCharacter(ctx context.Context, id string) error {
	return a.chars.Delete(ctx, id)
}

// AvailableJobs lists the jobs a character may take.
func (a *Arena) AvailableJobs() []character.Job {
	return character.AvailableJobs()
}

// JobDetails describes every job, or only job when it is non-empty.
func (a *Arena) JobDetails(job character.Job) []character.JobDetail {
	return character.JobDetails(job)
}

// StartBattle runs a battle between two stored characters, writes the
// winner's remaining vitality back, and stores the battle history.
//
// observer, when non-nil, receives every log line as it is produced.
//
// Precondition: id1 and id2 must be non-empty and refer to different characters.
// Postcondition: Returns ErrMissingCharacterID, ErrSelfBattle, or a
// *MissingCharacterError before any battle runs. The write-back is
// not synchronized with concurrent battles involving the same character.
func (a *Arena) StartBattle(ctx context.Context, id1, id2 string, observer func(string)) (*Report, error) {
	if id1 == "" || id2 == "" {
		return nil, ErrMissingCharacterID
	}
	if id1 == id2 {
		return nil, ErrSelfBattle
	}

	c1, err := a.participant(ctx, id1)
	if err != nil {
		return nil, err
	}
	c2, err := a.participant(ctx, id2)
	if err != nil {
		return nil, err
	}

	bt, err := combat.NewBattle(c1, c2,
		combat.WithSource(a.src),
		combat.WithLogger(a.logger),
		combat.WithObserver(observer),
	)
	if err != nil {
		if errors.Is(err, combat.ErrSameParticipant) {
			return nil, ErrSelfBattle
		}
		return nil, err
	}
	res, err := bt.Execute()
	if err != nil {
		return nil, err
	}

	fa, _ := bt.Fighters()
	winner, loser := c1, c2
	if res.Winner.ID != fa.ID {
		winner, loser = c2, c1
	}
	winner.Vitality = res.Winner.CurrentVitality
	if err := a.chars.Save(ctx, winner); err != nil {
		return nil, fmt.Errorf("saving winner: %w", err)
	}

	h, err := a.battles.CreateBattle(ctx, combat.NewHistory(c1.ID, c2.ID, res))
	if err != nil {
		return nil, fmt.Errorf("storing battle: %w", err)
	}

	a.logger.Info("battle finished",
		zap.Int64("battle_id", h.ID),
		zap.String("winner", winner.Name),
		zap.String("loser", loser.Name),
		zap.Int("rounds", res.Rounds),
		zap.Stringer("outcome", res.Outcome),
		zap.Int("winner_vitality", winner.Vitality),
	)
	return &Report{History: h, Result: res, Winner: winner, Loser: loser}, nil
}

func (a *Arena) participant(ctx context.Context, id string) (*character.Character, error) {
	c, err := a.chars.FindByID(ctx, id)
	if errors.Is(err, character.ErrNotFound) {
		return nil, &MissingCharacterError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("loading character %s: %w", id, err)
	}
	return c, nil
}

// Simulate runs an ad-hoc battle between two raw participant records.
// Nothing is read from or written to the stores.
func (a *Arena) Simulate(ctx context.Context, p1, p2 any, observer func(string)) (combat.Result, error) {
	if err := ctx.Err(); err != nil {
		return combat.Result{}, err
	}
	bt, err := combat.NewBattle(p1, p2,
		combat.WithSource(a.src),
		combat.WithLogger(a.logger),
		combat.WithObserver(observer),
	)
	if err != nil {
		return combat.Result{}, err
	}
	return bt.Execute()
}

// Battles returns the stored battle history.
func (a *Arena) Battles(ctx context.Context) ([]*combat.History, error) {
	return a.battles.ListBattles(ctx)
}

// Battle returns one stored battle.
func (a *Arena) Battle(ctx context.Context, id int64) (*combat.History, error) {
	return a.battles.FindBattle(ctx, id)
}
