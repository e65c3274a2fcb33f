package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileInstructions is an InstructionsRepository backed by a single file.
type FileInstructions struct {
	path string
	mu   sync.RWMutex
}

// NewFileInstructions returns an instructions repository persisted at path.
// The file is created lazily on the first Set.
func NewFileInstructions(path string) (*FileInstructions, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve instructions path: %w", err)
	}
	return &FileInstructions{path: abs}, nil
}

// Get returns the current instructions, or an empty string when none have
// been set.
func (s *FileInstructions) Get(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read instructions: %w", err)
	}
	return string(data), nil
}

// Set replaces the instructions document.
func (s *FileInstructions) Set(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create instructions dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write instructions: %w", err)
	}
	return nil
}
