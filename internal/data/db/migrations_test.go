package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func requireTable(t *testing.T, conn *sql.DB, query string, exists bool) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(), query)
	if exists {
		require.NoError(t, err, query)
	} else {
		require.Error(t, err, query)
	}
}

func TestOpen_applies_every_migration(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	steps, err := loadMigrations()
	require.NoError(t, err)

	version, err := schemaVersion(ctx, database.Conn())
	require.NoError(t, err)
	assert.Equal(t, len(steps), version)

	for _, q := range []string{
		"SELECT id, closed_at FROM review_sessions LIMIT 0",
		"SELECT suggestion_id, error FROM resolutions LIMIT 0",
		"SELECT event, category FROM analytics_events LIMIT 0",
		"SELECT session_id, suggestion_id FROM notifications LIMIT 0",
	} {
		requireTable(t, database.Conn(), q, true)
	}

	// reopening is a no-op
	require.NoError(t, migrateUp(ctx, database.Conn()))
}

func TestMigrateDown_keeps_review_history(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	conn := database.Conn()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO review_sessions (id, initial_suggestion_id, reviewable, queue_size, opened_at)
		VALUES ('rs-1', 's1', 1, 2, 1)`)
	require.NoError(t, err)

	// 0003 removes the alert subject columns only
	require.NoError(t, MigrateDown(ctx, conn, 1))
	requireTable(t, conn, "SELECT session_id FROM notifications LIMIT 0", false)
	requireTable(t, conn, "SELECT level, message FROM notifications LIMIT 0", true)

	// 0002 drops the alert and analytics tables
	require.NoError(t, MigrateDown(ctx, conn, 1))
	requireTable(t, conn, "SELECT 1 FROM notifications LIMIT 0", false)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM review_sessions").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, migrateUp(ctx, conn))
	requireTable(t, conn, "SELECT session_id, suggestion_id FROM notifications LIMIT 0", true)
}

func TestMigrateDown_invalid_counts(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	steps, err := loadMigrations()
	require.NoError(t, err)

	assert.Error(t, MigrateDown(ctx, database.Conn(), 0))
	assert.Error(t, MigrateDown(ctx, database.Conn(), -1))
	assert.Error(t, MigrateDown(ctx, database.Conn(), len(steps)+1))
}

func TestMigrateUp_rejects_newer_schema(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.Conn().ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	assert.ErrorContains(t, migrateUp(ctx, database.Conn()), "schema 99")
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO notifications (level, message, created_at) VALUES ('info', 'x', 1)`)
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestLoadMigrations(t *testing.T) {
	steps, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	for i, m := range steps {
		assert.Equal(t, i+1, m.version)
		assert.NotEmpty(t, m.name)
		assert.NotEmpty(t, m.up)
		assert.NotEmpty(t, m.down)
	}
}

func TestParseStem(t *testing.T) {
	tests := []struct {
		stem        string
		wantVersion int
		wantName    string
		wantErr     bool
	}{
		{"0001_review_history", 1, "review_history", false},
		{"0003_notification_subjects", 3, "notification_subjects", false},
		{"0100_big_version", 100, "big_version", false},
		{"review_history", 0, "", true},
		{"0000_zero", 0, "", true},
		{"-1_negative", 0, "", true},
		{"abc_notnumber", 0, "", true},
		{"0001_", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			version, name, err := parseStem(tt.stem)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantName, name)
		})
	}
}
