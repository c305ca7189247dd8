// Package repository keeps grading sessions in memory.
package repository

import (
	"context"
	"io"

	"github.com/okian/gradebook/internal/domain/session"
)

// Store provides serialized access to sessions by id.
type Store interface {
	io.Closer

	// Create registers s and returns its id. The id of an evicted session, if
	// any, is returned as well.
	Create(ctx context.Context, s *session.Session) (id string, evicted string, err error)

	// Update runs fn with exclusive access to the session.
	// Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, id string, fn func(*session.Session) error) error

	// View runs fn with shared access to the session. fn must not mutate it.
	View(ctx context.Context, id string, fn func(*session.Session) error) error

	// Delete discards a session. Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
