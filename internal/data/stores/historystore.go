package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/tsreview/internal/core/history"
	"github.com/hay-kot/tsreview/internal/core/suggestion"
	"github.com/hay-kot/tsreview/internal/data/db"
)

// HistoryStore implements history.Store using SQLite.
type HistoryStore struct {
	db *db.DB
}

var _ history.Store = (*HistoryStore)(nil)

// NewHistoryStore creates a new SQLite-backed review history store.
func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// OpenSession records the start of a review session.
func (s *HistoryStore) OpenSession(ctx context.Context, sess history.Session) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO review_sessions (id, initial_suggestion_id, reviewable, subheading, queue_size, opened_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.InitialSuggestionID, boolToInt(sess.Reviewable), sess.Subheading,
		sess.QueueSize, sess.OpenedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to open review session: %w", err)
	}
	return nil
}

// CloseSession stamps a session as closed. Closing an already closed session
// keeps the first timestamp.
func (s *HistoryStore) CloseSession(ctx context.Context, id string, closedAt time.Time) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE review_sessions SET closed_at = COALESCE(closed_at, ?) WHERE id = ?`,
		closedAt.UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to close review session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close review session: %w", err)
	}
	if n == 0 {
		return history.ErrNotFound
	}
	return nil
}

// GetSession returns a session by ID. Returns history.ErrNotFound if not found.
func (s *HistoryStore) GetSession(ctx context.Context, id string) (history.Session, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, initial_suggestion_id, reviewable, subheading, queue_size, opened_at, closed_at
		FROM review_sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if err = notFound(err); errors.Is(err, history.ErrNotFound) {
			return history.Session{}, err
		}
		return history.Session{}, fmt.Errorf("failed to get review session: %w", err)
	}
	return sess, nil
}

// ListSessions returns the most recent sessions, newest first. A limit of
// zero or less returns every session.
func (s *HistoryStore) ListSessions(ctx context.Context, limit int) ([]history.Session, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, initial_suggestion_id, reviewable, subheading, queue_size, opened_at, closed_at
		FROM review_sessions ORDER BY opened_at DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list review sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]history.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// RecordResolution persists an accept or reject attempt.
func (s *HistoryStore) RecordResolution(ctx context.Context, r history.Resolution) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO resolutions (session_id, suggestion_id, target_id, action, review_message, commit_message, error, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.SuggestionID, r.TargetID, string(r.Action), r.ReviewMessage,
		r.CommitMessage, r.Error, r.ResolvedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record resolution: %w", err)
	}
	return res.LastInsertId()
}

// ListResolutions returns the most recent resolutions, newest first.
func (s *HistoryStore) ListResolutions(ctx context.Context, limit int) ([]history.Resolution, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, suggestion_id, target_id, action, review_message, commit_message, error, resolved_at
		FROM resolutions ORDER BY resolved_at DESC, id DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]history.Resolution, 0)
	for rows.Next() {
		var (
			r          history.Resolution
			action     string
			resolvedAt int64
		)
		err := rows.Scan(&r.ID, &r.SessionID, &r.SuggestionID, &r.TargetID, &action,
			&r.ReviewMessage, &r.CommitMessage, &r.Error, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		r.Action = suggestion.Action(action)
		r.ResolvedAt = time.Unix(0, resolvedAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

// RecordEvent persists an analytics event.
func (s *HistoryStore) RecordEvent(ctx context.Context, e history.Event) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO analytics_events (session_id, event, category, suggestion_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.Event, e.Category, e.SuggestionID, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record event: %w", err)
	}
	return res.LastInsertId()
}

// ListEvents returns the events of a session in the order they were recorded.
func (s *HistoryStore) ListEvents(ctx context.Context, sessionID string) ([]history.Event, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, event, category, suggestion_id, created_at
		FROM analytics_events WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]history.Event, 0)
	for rows.Next() {
		var (
			e         history.Event
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Event, &e.Category, &e.SuggestionID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (history.Session, error) {
	var (
		sess       history.Session
		reviewable int
		openedAt   int64
		closedAt   sql.NullInt64
	)
	err := row.Scan(&sess.ID, &sess.InitialSuggestionID, &reviewable, &sess.Subheading,
		&sess.QueueSize, &openedAt, &closedAt)
	if err != nil {
		return history.Session{}, err
	}

	sess.Reviewable = reviewable != 0
	sess.OpenedAt = time.Unix(0, openedAt)
	if closedAt.Valid {
		t := time.Unix(0, closedAt.Int64)
		sess.ClosedAt = &t
	}
	return sess, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
