package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// WatchWebhooks calls onChange with the parsed seed file every time path is
// written, created or renamed into place. The parent directory is watched so
// editors that replace the file atomically are noticed. A file that fails to
// parse is logged and skipped. WatchWebhooks blocks until ctx is done.
func WatchWebhooks(ctx context.Context, path string, logger *slog.Logger, onChange func([]model.Webhook)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create webhooks file watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !isContentChange(event) {
				continue
			}

			webhooks, err := LoadWebhooks(target)
			if err != nil {
				logger.Warn("webhooks file reload failed", "path", target, "error", err)
				continue
			}
			logger.Info("webhooks file changed", "path", target, "entries", len(webhooks))
			onChange(webhooks)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("webhooks file watcher error", "error", err)
		}
	}
}

func isContentChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
