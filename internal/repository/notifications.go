package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// PostgresNotificationRepository implements notification persistence
// using a PostgreSQL database.
type PostgresNotificationRepository struct {
	DB *sql.DB
}

// NewPostgresNotificationRepository creates a new
// PostgresNotificationRepository with the given database connection.
func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

// CreateNotification inserts a new notification.
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO notifications (id, user_id, category, title, body, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Category, n.Title, n.Body, n.Read, n.CreatedAt,
	)
	return err
}

// NotificationsByUser fetches the user's notifications, newest first.
func (r *PostgresNotificationRepository) NotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, user_id, category, title, body, read, created_at
          FROM notifications
         WHERE user_id = $1
         ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks the user's notification as read.
func (r *PostgresNotificationRepository) MarkNotificationRead(ctx context.Context, userID, id string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return err
}
