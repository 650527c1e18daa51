package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a named shared in-memory database so the writer and
// reader pools see the same data. The name comes from t.Name() to keep
// parallel tests apart.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// In-memory databases have no WAL; journal_mode is left out on purpose.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(t.Name()),
	)

	open := func(maxConns int) *sql.DB {
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			t.Fatalf("open test db: %v", err)
		}
		conn.SetMaxOpenConns(maxConns)
		if err := conn.PingContext(context.Background()); err != nil {
			_ = conn.Close()
			t.Fatalf("ping test db: %v", err)
		}
		return conn
	}

	db := &DB{Writer: open(1), Reader: open(4), path: dsn}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}
