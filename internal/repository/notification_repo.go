package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
)

const notificationTypeLike = "like"

// NotificationRepository stores best-effort notification rows.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new repository bound to the given DB connection.
func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// CreateLikeNotification records a "someone liked you" alert for userID.
// The unique (user, type, actor) index deduplicates repeat alerts for the
// same pair; a duplicate insert is a no-op, not an error.
func (r *NotificationRepository) CreateLikeNotification(ctx context.Context, userID, actorID uint64) error {
	notif := db.Notification{
		UserID:  userID,
		Type:    notificationTypeLike,
		ActorID: actorID,
	}
	err := r.db.WithContext(ctx).Create(&notif).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
