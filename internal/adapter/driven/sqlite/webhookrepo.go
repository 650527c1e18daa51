package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
	"github.com/ericfisherdev/branchpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WebhookStore = (*WebhookRepo)(nil)

// WebhookRepo is the SQLite implementation of the WebhookStore port interface.
type WebhookRepo struct {
	db *DB
}

// NewWebhookRepo creates a new WebhookRepo backed by the given DB.
func NewWebhookRepo(db *DB) *WebhookRepo {
	return &WebhookRepo{db: db}
}

// Add inserts a new webhook. Returns driven.ErrWebhookAlreadyExists if the
// name is taken.
func (r *WebhookRepo) Add(ctx context.Context, webhook model.Webhook) error {
	const query = `INSERT INTO webhooks (name, url, namespace, pipeline, added_at) VALUES (?, ?, ?, ?, ?)`

	addedAt := webhook.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		webhook.Name, webhook.URL, webhook.Namespace, webhook.Pipeline, addedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add webhook %s: %w", webhook.Name, driven.ErrWebhookAlreadyExists)
		}
		return fmt.Errorf("add webhook %s: %w", webhook.Name, err)
	}

	return nil
}

// Remove deletes a webhook by name. Returns driven.ErrWebhookNotFound if no
// row was deleted.
func (r *WebhookRepo) Remove(ctx context.Context, name string) error {
	const query = `DELETE FROM webhooks WHERE name = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("remove webhook %s: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove webhook %s: %w", name, driven.ErrWebhookNotFound)
	}

	return nil
}

// GetByName retrieves a webhook by name. Returns nil, nil if it does not exist.
func (r *WebhookRepo) GetByName(ctx context.Context, name string) (*model.Webhook, error) {
	const query = `SELECT id, name, url, namespace, pipeline, added_at FROM webhooks WHERE name = ?`

	webhook, err := scanWebhook(r.db.Reader.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get webhook %s: %w", name, err)
	}

	return webhook, nil
}

// ListAll returns all webhooks ordered by name.
func (r *WebhookRepo) ListAll(ctx context.Context) ([]model.Webhook, error) {
	const query = `SELECT id, name, url, namespace, pipeline, added_at FROM webhooks ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []model.Webhook
	for rows.Next() {
		webhook, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		webhooks = append(webhooks, *webhook)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhooks: %w", err)
	}

	return webhooks, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWebhook(s scanner) (*model.Webhook, error) {
	var webhook model.Webhook
	var addedAt string

	err := s.Scan(&webhook.ID, &webhook.Name, &webhook.URL, &webhook.Namespace, &webhook.Pipeline, &addedAt)
	if err != nil {
		return nil, err
	}

	webhook.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, fmt.Errorf("parse added_at: %w", err)
	}

	return &webhook, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
