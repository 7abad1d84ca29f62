package course

import "context"

// Store is the course persistence port (the content-store analog).
//
// BulkOperations scopes a multi-step read/modify/write sequence for one
// course; implementations provide whatever mutual exclusion or batching
// they can (a database transaction, typically). It is not re-entrant.
type Store interface {
	GetCourse(ctx context.Context, key Key) (*Course, error)
	CreateCourse(ctx context.Context, c *Course) error
	UpdateCourse(ctx context.Context, c *Course) error
	BulkOperations(ctx context.Context, key Key, fn func(ctx context.Context, store Store) error) error
}
