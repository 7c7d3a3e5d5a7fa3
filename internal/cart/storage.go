package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Storage persists the whole cart aggregate. Implementations must treat the
// document as opaque; merging and clamping live in the Store.
type Storage interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// ErrNotFound means no cart document exists yet; the Store turns it into an
// empty cart.
var ErrNotFound = errors.New("cart not found")

// FileStorage keeps the cart as one JSON document at a fixed path, the
// durable-local-storage analog for a single shopper process.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load(_ context.Context) ([]Line, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file failed: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return lines, nil
}

func (f *FileStorage) Save(_ context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write cart file failed: %w", err)
	}
	return nil
}
