package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/streakd/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	doc := model.NewDocument()
	doc.Habits = append(doc.Habits, model.Habit{ID: 1, Name: "Roundtrip", Kind: model.CompletionBoolean, XP: 5})
	if err := store.Save(context.Background(), doc); err != nil {
		t.Fatalf("save after roundtrip failed: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load after roundtrip failed: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].Name != "Roundtrip" {
		t.Fatalf("unexpected habits after roundtrip: %#v", got.Habits)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	err := WithTx(ctx, store.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO documents (name, body, updated_at) VALUES ('scratch', '{}', 'now')`); err != nil {
			return err
		}
		return sql.ErrTxDone
	})
	if err != sql.ErrTxDone {
		t.Fatalf("expected fn error to surface, got %v", err)
	}

	var n int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE name = 'scratch'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}
