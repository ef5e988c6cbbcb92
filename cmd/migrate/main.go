// Package main applies the character and battle schema migrations to the
// configured PostgreSQL database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cory-johannsen/duel/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	direction := flag.String("direction", "up", "up applies pending schema changes, down reverts them")
	steps := flag.Int("steps", 0, "number of migrations to apply or revert (0 = all)")
	migrationsDir := flag.String("migrations", "migrations", "path to the migrations directory")
	flag.Parse()

	// Load applies DUEL_DATABASE_* overrides and defaults, same as the server.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		fmt.Fprintf(os.Stderr, "warning: storage.driver is %q; migrating the postgres database anyway\n", cfg.Storage.Driver)
	}

	m, err := migrate.New("file://"+*migrationsDir, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("opening migrations in %s: %v", *migrationsDir, err)
	}
	defer m.Close()

	err = apply(m, *direction, *steps)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrating %s: %v", *direction, err)
	}

	version, dirty, _ := m.Version()
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintf(os.Stdout, "schema already current (version=%d dirty=%v) [%s]\n", version, dirty, time.Since(start))
		return
	}
	fmt.Fprintf(os.Stdout, "schema migrated %s to version=%d dirty=%v [%s]\n", *direction, version, dirty, time.Since(start))
}

// apply runs steps migrations in direction, or all of them when steps is 0.
func apply(m *migrate.Migrate, direction string, steps int) error {
	switch direction {
	case "up":
		if steps > 0 {
			return m.Steps(steps)
		}
		return m.Up()
	case "down":
		if steps > 0 {
			return m.Steps(-steps)
		}
		return m.Down()
	default:
		return fmt.Errorf("invalid direction %q: must be up or down", direction)
	}
}
