package db

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one schema step loaded from a NNNN_name.up.sql and
// NNNN_name.down.sql pair. The applied step is tracked in SQLite's
// user_version header field.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// loadMigrations reads the embedded steps in version order. Versions must
// run 1..n without gaps.
func loadMigrations() ([]migration, error) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	if err != nil {
		return nil, err
	}
	if len(ups) != len(downs) {
		return nil, fmt.Errorf("found %d up and %d down migrations", len(ups), len(downs))
	}

	steps := make([]migration, 0, len(ups))
	for _, file := range ups {
		stem := strings.TrimSuffix(path.Base(file), ".up.sql")
		version, name, err := parseStem(stem)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", path.Base(file), err)
		}

		up, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(migrationsFS, "migrations/"+stem+".down.sql")
		if err != nil {
			return nil, fmt.Errorf("migration %04d has no down file: %w", version, err)
		}

		steps = append(steps, migration{version: version, name: name, up: string(up), down: string(down)})
	}

	slices.SortFunc(steps, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	for i, m := range steps {
		if m.version != i+1 {
			return nil, fmt.Errorf("migration %04d is out of sequence, expected %04d", m.version, i+1)
		}
	}

	return steps, nil
}

// parseStem splits "0003_notification_subjects" into 3 and
// "notification_subjects".
func parseStem(stem string) (int, string, error) {
	num, name, ok := strings.Cut(stem, "_")
	if !ok || name == "" {
		return 0, "", errors.New("expected NNNN_name")
	}

	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("version %q is not a positive integer", num)
	}
	return version, name, nil
}

func schemaVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// migrateUp applies every step above the current schema version.
func migrateUp(ctx context.Context, conn *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}
	if current > len(steps) {
		return fmt.Errorf("history database is at schema %d, this build knows %d", current, len(steps))
	}

	for _, m := range steps[current:] {
		log.Info().Int("version", m.version).Str("name", m.name).Msg("applying migration")
		if err := step(ctx, conn, m.up, m.version); err != nil {
			return fmt.Errorf("migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// MigrateDown reverts the last n applied steps, newest first.
func MigrateDown(ctx context.Context, conn *sql.DB, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	steps, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	current, err := schemaVersion(ctx, conn)
	if err != nil {
		return err
	}
	if n > current {
		return fmt.Errorf("requested %d down migrations but only %d are applied", n, current)
	}

	for _, m := range slices.Backward(steps[current-n : current]) {
		log.Info().Int("version", m.version).Str("name", m.name).Msg("reverting migration")
		if err := step(ctx, conn, m.down, m.version-1); err != nil {
			return fmt.Errorf("revert migration %04d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// step runs stmts and records version in the same transaction.
func step(ctx context.Context, conn *sql.DB, stmts string, version int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmts); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return tx.Commit()
}
