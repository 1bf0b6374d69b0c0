package store

import (
	"context"
	"fmt"

	"campus-market/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateNotification inserts a notification outside any order transaction
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, s.db, n)
}

func (s *Store) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := s.db.GetContext(ctx, &n,
		"SELECT id, user_id, message, is_read, created_at FROM notifications WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "notification", id)
	}
	return &n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error) {
	query := "SELECT id, user_id, message, is_read, created_at FROM notifications WHERE user_id = $1"
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC, id DESC"

	list := []models.Notification{}
	if err := s.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return rowsAffected(res, "notification", id)
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteNotification(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return rowsAffected(res, "notification", id)
}

func insertNotification(ctx context.Context, q sqlx.QueryerContext, n *models.Notification) error {
	err := q.QueryRowxContext(ctx, `
		INSERT INTO notifications (user_id, message)
		VALUES ($1, $2)
		RETURNING id, is_read, created_at`,
		n.UserID, n.Message).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
