package service

import (
	"context"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
)

// NotificationService exposes a user's own notifications
type NotificationService struct {
	notifications store.NotificationStore
}

func NewNotificationService(notifications store.NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error) {
	return s.notifications.ListNotifications(ctx, userID, unreadOnly)
}

func (s *NotificationService) owned(ctx context.Context, userID, id int64, verb string) error {
	n, err := s.notifications.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperr.Newf(apperr.CodeForbidden, "you can only %s your own notifications", verb)
	}
	return nil
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	if err := s.owned(ctx, userID, id, "mark"); err != nil {
		return err
	}
	return s.notifications.MarkNotificationRead(ctx, id)
}

// MarkAllRead flags every unread notification of the user and returns how
// many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.MarkAllNotificationsRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.owned(ctx, userID, id, "delete"); err != nil {
		return err
	}
	return s.notifications.DeleteNotification(ctx, id)
}
