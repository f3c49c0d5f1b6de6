package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// NotificationRecord represents the notifications table
type NotificationRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"not null"`
	PlanID    string `gorm:"index"`
	Message   string
	CreatedAt time.Time `gorm:"index"`
}

// TableName implements gorm's tabler
func (NotificationRecord) TableName() string { return "notifications" }

// NotificationStore persists admin notifications
type NotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore constructs a NotificationStore with the given DB handle
func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create stores a notification and fills in its ID and timestamp
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	rec := NotificationRecord{Kind: n.Kind, PlanID: n.PlanID, Message: n.Message, CreatedAt: n.CreatedAt}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	n.ID = rec.ID
	n.CreatedAt = rec.CreatedAt
	return nil
}

// ListRecent returns up to limit notifications, newest first
func (s *NotificationStore) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []NotificationRecord
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]models.Notification, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.Notification{
			ID:        r.ID,
			Kind:      r.Kind,
			PlanID:    r.PlanID,
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
