package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

const battleColumns = `id, character1_id, character2_id, winner_id, loser_id, rounds, outcome, log, created_at`

// BattleRepository provides battle history persistence.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// CreateBattle inserts a finished battle.
//
// Postcondition: Returns the stored battle with ID and CreatedAt set.
func (r *BattleRepository) CreateBattle(ctx context.Context, h *combat.History) (*combat.History, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO battles (character1_id, character2_id, winner_id, loser_id, rounds, outcome, log)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+battleColumns,
		h.Character1ID, h.Character2ID, h.WinnerID, h.LoserID, h.Rounds, h.Outcome, h.Log,
	)
	out, err := scanBattle(row)
	if err != nil {
		return nil, fmt.Errorf("inserting battle: %w", err)
	}
	return out, nil
}

// ListBattles returns all battles, oldest first.
func (r *BattleRepository) ListBattles(ctx context.Context) ([]*combat.History, error) {
	rows, err := r.db.Query(ctx, `SELECT `+battleColumns+` FROM battles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	defer rows.Close()

	out := make([]*combat.History, 0)
	for rows.Next() {
		h, err := scanBattle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning battle row: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// FindBattle retrieves a battle by id.
//
// Postcondition: Returns the battle or combat.ErrBattleNotFound.
func (r *BattleRepository) FindBattle(ctx context.Context, id int64) (*combat.History, error) {
	h, err := scanBattle(r.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM battles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, combat.ErrBattleNotFound
		}
		return nil, fmt.Errorf("querying battle: %w", err)
	}
	return h, nil
}

func scanBattle(row pgx.Row) (*combat.History, error) {
	var h combat.History
	if err := row.Scan(
		&h.ID, &h.Character1ID, &h.Character2ID, &h.WinnerID, &h.LoserID,
		&h.Rounds, &h.Outcome, &h.Log, &h.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}
