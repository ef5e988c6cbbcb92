// Package postgres stores characters and battle history in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/config"
)

// Pool owns the pgx connection pool shared by the character and battle
// repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the arena database described by cfg and verifies the
// connection with a ping.
//
// Precondition: cfg has passed config.Validate with the postgres driver.
// Postcondition: Returns a Pool that has answered a ping, or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Health pings the database, giving up after timeout. The server runs it
// periodically while the postgres driver is active.
//
// Precondition: Close has not been called.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close drains and closes every connection. It is called once when the
// server shuts down.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the pool to NewCharacterRepository and NewBattleRepository.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
