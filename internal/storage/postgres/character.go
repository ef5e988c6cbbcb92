package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/game/character"
)

const characterColumns = `id, uid, name, job, level, vitality, strength, dexterity, intelligence,
		       attack_power, speed, created_at, updated_at`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with its repository id and timestamps set.
//
// Precondition: c.ID must be a non-empty creation id.
// Postcondition: Returns the created character, or a non-nil error.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(uid, name, job, level, vitality, strength, dexterity, intelligence, attack_power, speed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+characterColumns,
		c.ID, c.Name, string(c.Job), c.Level,
		c.Vitality, c.Strength, c.Dexterity, c.Intelligence,
		c.AttackPower, c.Speed,
	)
	out, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// FindByID retrieves a character by its creation id or its repository id.
//
// Postcondition: Returns the Character or character.ErrNotFound.
func (r *CharacterRepository) FindByID(ctx context.Context, id string) (*character.Character, error) {
	storeID := parseStoreID(id)
	row := r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE uid = $1 OR id = $2`, id, storeID)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// List returns all characters ordered by repository id.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// Save persists the mutable state of an existing character: job, level,
// attributes, and modifiers.
//
// Precondition: c.ID must identify a stored character.
// Postcondition: Returns nil on success, character.ErrNotFound if no row updated.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			job = $2, level = $3, vitality = $4, strength = $5, dexterity = $6,
			intelligence = $7, attack_power = $8, speed = $9, updated_at = NOW()
		WHERE uid = $1`,
		c.ID, string(c.Job), c.Level, c.Vitality, c.Strength, c.Dexterity,
		c.Intelligence, c.AttackPower, c.Speed,
	)
	if err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return character.ErrNotFound
	}
	return nil
}

// Delete removes a character by either identity.
//
// Postcondition: Returns nil on success, character.ErrNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE uid = $1 OR id = $2`, id, parseStoreID(id))
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return character.ErrNotFound
	}
	return nil
}

// parseStoreID returns the repository id encoded in id, or 0 when id is not
// numeric. Repository ids start at 1, so 0 never matches.
func parseStoreID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var job string
	if err := row.Scan(
		&c.StoreID, &c.ID, &c.Name, &job, &c.Level,
		&c.Vitality, &c.Strength, &c.Dexterity, &c.Intelligence,
		&c.AttackPower, &c.Speed, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Job = character.Job(job)
	return &c, nil
}
