package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/voicetask/internal/model"
)

// CreateNotification inserts a new notification history entry.
// Generates a UUID if ID is empty. Only the reminder delivery worker
// should call this.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.NotificationHistory) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_history (id, task_id, title, body, due_at, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.TaskID, n.Title, n.Body, n.DueAt.UTC(), n.Read, n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification history: %w", err)
	}
	return nil
}

// GetNotifications retrieves all history entries, newest first.
func (s *SQLiteStore) GetNotifications(ctx context.Context) ([]model.NotificationHistory, error) {
	var entries []model.NotificationHistory
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM notification_history ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying notification history: %w", err)
	}
	return entries, nil
}

// CountUnreadNotifications returns the number of unread history entries.
func (s *SQLiteStore) CountUnreadNotifications(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notification_history WHERE read = 0",
	)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead marks a single history entry as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notification_history SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkTaskNotificationsRead marks every history entry for a task as read,
// not just the most recent one.
func (s *SQLiteStore) MarkTaskNotificationsRead(ctx context.Context, taskID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notification_history SET read = 1 WHERE task_id = ?", taskID,
	)
	if err != nil {
		return fmt.Errorf("marking notifications for task %d read: %w", taskID, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every history entry as read.
func (s *SQLiteStore) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "UPDATE notification_history SET read = 1")
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// DeleteNotification removes a single history entry by ID.
func (s *SQLiteStore) DeleteNotification(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM notification_history WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}

// DeleteAllNotifications removes every history entry.
func (s *SQLiteStore) DeleteAllNotifications(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notification_history")
	if err != nil {
		return fmt.Errorf("deleting all notifications: %w", err)
	}
	return nil
}
