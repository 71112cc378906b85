package store

import (
	"context"
	"errors"
	"strings"
)

// Doc is the value shape held at each path.
type Doc = map[string]any

var (
	// ErrNotFound is returned by Read for a path with no document.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyPath rejects writes and reads with no path segments.
	ErrEmptyPath = errors.New("document path is empty")
)

// Store is a key-path document store: documents live under slash-joined
// paths, Write replaces, Update merges top-level fields, List returns
// the subtree beneath a prefix.
type Store interface {
	Write(ctx context.Context, path []string, doc Doc) error
	Read(ctx context.Context, path []string) (Doc, error)
	Update(ctx context.Context, path []string, partial Doc) error
	List(ctx context.Context, prefix []string) (map[string]Doc, error)
}

// Join builds the flat key for a path.
func Join(path []string) string {
	return strings.Join(path, "/")
}
