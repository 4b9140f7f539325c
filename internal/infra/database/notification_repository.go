package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/leadflow/internal/entity"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}


func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, lead_id, type, message, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(ctx, query, n.ID, n.UserID, n.LeadID, n.Type, n.Message).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("FALHA AO GRAVAR NOTIFICAÇÃO: %w", err)
	}

	return nil
}


func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, lead_id, type, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		n := &entity.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.LeadID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
