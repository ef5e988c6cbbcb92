// Package sqlite provides an embedded SQLite repository for characters and battles.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

//go:embed schema.sql
var schema string

const characterColumns = `id, uid, name, job, level, vitality, strength, dexterity, intelligence,
	attack_power, speed, created_at, updated_at`

const battleColumns = `id, character1_id, character2_id, winner_id, loser_id, rounds, outcome, log, created_at`

// Store provides SQLite-backed character and battle persistence.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at path and creates the schema. The special path
// ":memory:" opens a private in-memory database.
//
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a new character and assigns its repository id and timestamps.
func (s *Store) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	now := s.now().UTC()
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO characters (
	uid, name, job, level, vitality, strength, dexterity, intelligence,
	attack_power, speed, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		c.ID, c.Name, string(c.Job), c.Level,
		c.Vitality, c.Strength, c.Dexterity, c.Intelligence,
		c.AttackPower, c.Speed, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert character id: %w", err)
	}
	out := c.Clone()
	out.StoreID = id
	out.CreatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	out.UpdatedAt = out.CreatedAt
	return out, nil
}

// FindByID retrieves a character by creation id or repository id.
//
// Postcondition: Returns the Character or character.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*character.Character, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE uid = ? OR id = ? LIMIT 1`,
		id, parseStoreID(id))
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, character.ErrNotFound
		}
		return nil, fmt.Errorf("query character: %w", err)
	}
	return c, nil
}

// List returns all characters ordered by repository id.
func (s *Store) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	out := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Save persists the mutable state of an existing character.
//
// Postcondition: Returns character.ErrNotFound if no row was updated.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE characters SET
	job = ?, level = ?, vitality = ?, strength = ?, dexterity = ?,
	intelligence = ?, attack_power = ?, speed = ?, updated_at = ?
WHERE uid = ?
`,
		string(c.Job), c.Level, c.Vitality, c.Strength, c.Dexterity,
		c.Intelligence, c.AttackPower, c.Speed, s.now().UTC().UnixMilli(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("save character: %w", err)
	}
	return requireAffected(res, character.ErrNotFound)
}

// Delete removes a character by either identity.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE uid = ? OR id = ?`, id, parseStoreID(id))
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return requireAffected(res, character.ErrNotFound)
}

// CreateBattle inserts a finished battle. The log is stored as a JSON array.
func (s *Store) CreateBattle(ctx context.Context, h *combat.History) (*combat.History, error) {
	logJSON, err := json.Marshal(h.Log)
	if err != nil {
		return nil, fmt.Errorf("encode battle log: %w", err)
	}
	now := s.now().UTC().UnixMilli()
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO battles (
	character1_id, character2_id, winner_id, loser_id, rounds, outcome, log, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		h.Character1ID, h.Character2ID, h.WinnerID, h.LoserID, h.Rounds, h.Outcome, string(logJSON), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert battle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert battle id: %w", err)
	}
	out := *h
	out.ID = id
	out.Log = append([]string(nil), h.Log...)
	out.CreatedAt = time.UnixMilli(now).UTC()
	return &out, nil
}

// ListBattles returns all battles, oldest first.
func (s *Store) ListBattles(ctx context.Context) ([]*combat.History, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+battleColumns+` FROM battles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	out := make([]*combat.History, 0)
	for rows.Next() {
		h, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// FindBattle retrieves one battle or combat.ErrBattleNotFound.
func (s *Store) FindBattle(ctx context.Context, id int64) (*combat.History, error) {
	h, err := scanBattle(s.sqlDB.QueryRowContext(ctx, `SELECT `+battleColumns+` FROM battles WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, combat.ErrBattleNotFound
		}
		return nil, fmt.Errorf("query battle: %w", err)
	}
	return h, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*character.Character, error) {
	var c character.Character
	var job string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&c.StoreID, &c.ID, &c.Name, &job, &c.Level,
		&c.Vitality, &c.Strength, &c.Dexterity, &c.Intelligence,
		&c.AttackPower, &c.Speed, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	c.Job = character.Job(job)
	c.CreatedAt = time.UnixMilli(createdAt).UTC()
	c.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &c, nil
}

func scanBattle(row scanner) (*combat.History, error) {
	var h combat.History
	var logJSON string
	var createdAt int64
	if err := row.Scan(
		&h.ID, &h.Character1ID, &h.Character2ID, &h.WinnerID, &h.LoserID,
		&h.Rounds, &h.Outcome, &logJSON, &createdAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(logJSON), &h.Log); err != nil {
		return nil, fmt.Errorf("decode battle log: %w", err)
	}
	h.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &h, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func parseStoreID(id string) int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
