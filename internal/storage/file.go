package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/streakd/internal/model"
)

// FileStore keeps the document as a JSON file, replaced atomically on every
// save.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return model.Document{}, ErrNotFound
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return model.Document{}, ErrNotFound
	}
	doc, err := model.DecodeDocument(raw)
	if err != nil {
		return model.Document{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := model.EncodeDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
