package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/streakd/internal/model"
)

const (
	sqliteTimeLayout   = time.RFC3339Nano
	defaultDocument    = "tracker"
	defaultHistorySize = 20
)

// Revision is one saved copy of the document kept in document_history.
type Revision struct {
	Number  int64
	SavedAt time.Time
	Body    []byte
}

// SQLiteStore keeps the document as a single row and retains a bounded
// history of previous saves.
type SQLiteStore struct {
	db          *sql.DB
	name        string
	historySize int
	now         func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := MigrateUp(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{
		db:          db,
		name:        defaultDocument,
		historySize: defaultHistorySize,
		now:         time.Now,
	}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (model.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, s.name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, err
	}
	return model.DecodeDocument([]byte(body))
}

func (s *SQLiteStore) Save(ctx context.Context, doc model.Document) error {
	payload, err := model.EncodeDocument(doc)
	if err != nil {
		return err
	}
	now := s.now().UTC().Format(sqliteTimeLayout)
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (name, body, revision, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(name) DO UPDATE SET
				body = excluded.body,
				revision = documents.revision + 1,
				updated_at = excluded.updated_at`,
			s.name, string(payload), now,
		); err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
		var rev int64
		if err := tx.QueryRowContext(ctx, `SELECT revision FROM documents WHERE name = ?`, s.name).Scan(&rev); err != nil {
			return fmt.Errorf("read revision: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_history (name, revision, body, saved_at)
			VALUES (?, ?, ?, ?)`,
			s.name, rev, string(payload), now,
		); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM document_history
			WHERE name = ? AND revision <= ?`,
			s.name, rev-int64(s.historySize),
		); err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		return nil
	})
}

// Revision returns the current revision number, 0 when nothing is saved.
func (s *SQLiteStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM documents WHERE name = ?`, s.name).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}

// History lists retained revisions, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Revision, error) {
	query := `SELECT revision, saved_at, body FROM document_history WHERE name = ? ORDER BY revision DESC`
	args := []any{s.name}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Revision, 0)
	for rows.Next() {
		rev, scanErr := scanRevision(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Restore makes a retained revision current again, recorded as a new save.
func (s *SQLiteStore) Restore(ctx context.Context, number int64) (model.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM document_history WHERE name = ? AND revision = ?`, s.name, number,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, err
	}
	doc, err := model.DecodeDocument([]byte(body))
	if err != nil {
		return model.Document{}, err
	}
	if err := s.Save(ctx, doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (Revision, error) {
	var (
		rev     Revision
		savedAt string
		body    string
	)
	if err := row.Scan(&rev.Number, &savedAt, &body); err != nil {
		return Revision{}, err
	}
	t, err := time.Parse(sqliteTimeLayout, savedAt)
	if err != nil {
		return Revision{}, fmt.Errorf("parse saved_at: %w", err)
	}
	rev.SavedAt = t
	rev.Body = []byte(body)
	return rev, nil
}
