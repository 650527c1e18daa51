package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// Sentinel errors returned by WebhookStore implementations.
var (
	// ErrWebhookNotFound indicates the requested webhook does not exist.
	ErrWebhookNotFound = errors.New("webhook not found")

	// ErrWebhookAlreadyExists indicates a webhook with the same name already exists.
	ErrWebhookAlreadyExists = errors.New("webhook already exists")
)

// WebhookStore defines the driven port for webhook persistence.
// Add returns ErrWebhookAlreadyExists if the name is taken.
// Remove returns ErrWebhookNotFound if the webhook does not exist.
// GetByName returns nil, nil for unknown names.
type WebhookStore interface {
	Add(ctx context.Context, webhook model.Webhook) error
	Remove(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*model.Webhook, error)
	ListAll(ctx context.Context) ([]model.Webhook, error)
}
