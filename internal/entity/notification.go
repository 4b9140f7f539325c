package entity

import (
	"context"
	"time"
)


type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LeadID    string    `json:"lead_id"`
	Type      string    `json:"type"` // assignment, warning
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}


type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *Notification) error
	ListUnreadByUser(ctx context.Context, userID string) ([]*Notification, error)
}
