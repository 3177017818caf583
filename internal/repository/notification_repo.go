package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/penzi-exercise/internal/db"
)

// NotificationRepository provides data access for interest signals
// queued for the delivery channel.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new repository bound to the given DB connection.
func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// Create queues one notification. Rows are immutable after insertion;
// the delivery channel consumes them externally.
func (r *NotificationRepository) Create(ctx context.Context, notification *db.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// LatestForRecipient returns the most recent notification addressed to
// a user, used to resolve a YES reply to the interest it answers.
// Returns gorm.ErrRecordNotFound when nothing is pending.
func (r *NotificationRepository) LatestForRecipient(ctx context.Context, recipientID uint64) (*db.Notification, error) {
	var notification db.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}
