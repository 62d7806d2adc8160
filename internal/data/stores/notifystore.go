package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hay-kot/tsreview/internal/core/notify"
	"github.com/hay-kot/tsreview/internal/data/db"
)

// NotifyStore keeps the review alerts shown during sessions in SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

const notificationColumns = `id, level, message, session_id, suggestion_id, created_at`

// Save persists an alert and returns its id.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	res, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO notifications (level, message, session_id, suggestion_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(n.Level), n.Message, n.SessionID, n.SuggestionID, n.CreatedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}
	return res.LastInsertId()
}

// List returns every alert, newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	return s.query(ctx, `SELECT `+notificationColumns+` FROM notifications
		ORDER BY created_at DESC, id DESC`)
}

// ListSession returns the alerts raised during one review session, newest
// first.
func (s *NotifyStore) ListSession(ctx context.Context, sessionID string) ([]notify.Notification, error) {
	return s.query(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE session_id = ? ORDER BY created_at DESC, id DESC`, sessionID)
}

func (s *NotifyStore) query(ctx context.Context, q string, args ...any) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]notify.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNotification(rows *sql.Rows) (notify.Notification, error) {
	var (
		n         notify.Notification
		level     string
		createdAt int64
	)
	if err := rows.Scan(&n.ID, &level, &n.Message, &n.SessionID, &n.SuggestionID, &createdAt); err != nil {
		return notify.Notification{}, fmt.Errorf("failed to scan notification: %w", err)
	}
	n.Level = notify.Level(level)
	n.CreatedAt = time.Unix(0, createdAt)
	return n, nil
}

// Clear deletes every alert.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
