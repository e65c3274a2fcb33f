// Package store provides the repositories the tool handlers collaborate
// with: a workspace of named files rooted at a directory, and a single global
// instructions document. The core depends only on the interfaces; the
// file-backed implementations keep their own internal consistency.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a named entry does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrInvalidName is returned for names that are empty or escape the
// workspace root.
var ErrInvalidName = errors.New("store: invalid name")

// ErrExists is returned by WriteNew when the named entry already exists.
var ErrExists = errors.New("store: already exists")

// Entry describes one workspace file.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// WorkspaceRepository exposes CRUD over named workspace files. WriteNew is
// the atomic create-only variant: it fails with ErrExists instead of
// replacing, with no window for a concurrent writer to slip through.
type WorkspaceRepository interface {
	List(ctx context.Context) ([]Entry, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	WriteNew(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// InstructionsRepository exposes the global instructions document. Get
// returns an empty string when no instructions have been set.
type InstructionsRepository interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, text string) error
}
