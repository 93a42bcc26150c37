package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/streakd/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// DocumentStore persists the whole tracker document. Load returns
// ErrNotFound when nothing has been saved yet.
type DocumentStore interface {
	Load(ctx context.Context) (model.Document, error)
	Save(ctx context.Context, doc model.Document) error
}
