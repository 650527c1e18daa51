package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// ErrInvalidWebhook indicates a webhook failed validation before being stored.
var ErrInvalidWebhook = errors.New("invalid webhook")

// WebhookService validates and registers webhooks.
type WebhookService struct {
	store  driven.WebhookStore
	logger *slog.Logger
}

// NewWebhookService creates a WebhookService backed by store.
func NewWebhookService(store driven.WebhookStore, logger *slog.Logger) *WebhookService {
	return &WebhookService{store: store, logger: logger}
}

// Register validates webhook and stores it. The name must consist of
// alphanumerics, hyphens, dots or underscores, and the URL must parse with
// model.ParseRepoURL. Returns driven.ErrWebhookAlreadyExists for taken names.
func (s *WebhookService) Register(ctx context.Context, webhook model.Webhook) (model.Webhook, error) {
	webhook.Name = strings.TrimSpace(webhook.Name)
	webhook.URL = strings.TrimSpace(webhook.URL)
	webhook.Namespace = strings.TrimSpace(webhook.Namespace)
	webhook.Pipeline = strings.TrimSpace(webhook.Pipeline)

	if !isValidName(webhook.Name) {
		return model.Webhook{}, fmt.Errorf("%w: name %q must be alphanumeric, '-', '.' or '_'", ErrInvalidWebhook, webhook.Name)
	}
	if _, err := model.ParseRepoURL(webhook.URL); err != nil {
		return model.Webhook{}, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	if webhook.AddedAt.IsZero() {
		webhook.AddedAt = time.Now().UTC()
	}

	if err := s.store.Add(ctx, webhook); err != nil {
		return model.Webhook{}, err
	}

	s.logger.Info("webhook registered", "name", webhook.Name, "url", webhook.URL)
	return webhook, nil
}

// Seed registers each webhook whose name is not yet known. Existing entries
// are left untouched and invalid entries are logged and skipped. It returns
// the number of webhooks added; only store failures abort the seed.
func (s *WebhookService) Seed(ctx context.Context, webhooks []model.Webhook) (int, error) {
	var added int
	for _, wh := range webhooks {
		existing, err := s.store.GetByName(ctx, strings.TrimSpace(wh.Name))
		if err != nil {
			return added, fmt.Errorf("seed webhook %s: %w", wh.Name, err)
		}
		if existing != nil {
			continue
		}

		if _, err := s.Register(ctx, wh); err != nil {
			if errors.Is(err, ErrInvalidWebhook) || errors.Is(err, driven.ErrWebhookAlreadyExists) {
				s.logger.Warn("skipping seed webhook", "name", wh.Name, "error", err)
				continue
			}
			return added, fmt.Errorf("seed webhook %s: %w", wh.Name, err)
		}
		added++
	}

	return added, nil
}

// Get returns the named webhook or driven.ErrWebhookNotFound.
func (s *WebhookService) Get(ctx context.Context, name string) (model.Webhook, error) {
	wh, err := s.store.GetByName(ctx, name)
	if err != nil {
		return model.Webhook{}, err
	}
	if wh == nil {
		return model.Webhook{}, fmt.Errorf("get webhook %s: %w", name, driven.ErrWebhookNotFound)
	}
	return *wh, nil
}

// List returns all registered webhooks, never nil.
func (s *WebhookService) List(ctx context.Context) ([]model.Webhook, error) {
	webhooks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if webhooks == nil {
		webhooks = []model.Webhook{}
	}
	return webhooks, nil
}

// Remove deletes the named webhook.
func (s *WebhookService) Remove(ctx context.Context, name string) error {
	if err := s.store.Remove(ctx, name); err != nil {
		return err
	}
	s.logger.Info("webhook removed", "name", name)
	return nil
}

// isValidName reports whether name is a non-empty run of alphanumerics,
// hyphens, dots or underscores.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, ch := range name {
		if !isValidNameChar(ch) {
			return false
		}
	}
	return true
}

func isValidNameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
