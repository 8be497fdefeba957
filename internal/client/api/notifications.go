package api

import (
	"context"
	"errors"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// NotificationsAPI exposes the notification feed endpoints.
type NotificationsAPI struct {
	client *Client
}

// NewNotificationsAPI constructs a NotificationsAPI over the given client.
func NewNotificationsAPI(client *Client) *NotificationsAPI {
	return &NotificationsAPI{client: client}
}

// List fetches the authenticated user's notifications, newest first.
func (n *NotificationsAPI) List(ctx context.Context) ([]models.Notification, error) {
	const fallback = "Failed to load notifications"
	resp, err := n.client.Get(ctx, "/notifications", nil)
	if err != nil {
		return nil, opError(err, fallback)
	}
	env, err := decodeEnvelope(resp, fallback)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := decodeData(env, &notifications, fallback); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks a single notification as read.
func (n *NotificationsAPI) MarkRead(ctx context.Context, id string) error {
	const fallback = "Failed to update notification"
	if id == "" {
		return errors.New(fallback)
	}
	if _, err := n.client.Post(ctx, "/notifications/"+id+"/read", nil, nil); err != nil {
		return opError(err, fallback)
	}
	return nil
}
