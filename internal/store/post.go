package store

import (
	"context"

	"github.com/phrazzld/postdesk/internal/domain"
)

// PostStore defines the interface for post persistence.
// Every method is a single atomic operation against the backing store.
type PostStore interface {
	// GetByID retrieves a post by its ID.
	// Returns ErrPostNotFound if no post has that ID.
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns every post. The result is never nil; an empty store yields an
	// empty slice. No ordering is guaranteed.
	List(ctx context.Context) ([]*domain.Post, error)

	// Create assigns an ID to a new post built from fields, persists it and
	// returns the stored record.
	Create(ctx context.Context, fields domain.PostFields) (*domain.Post, error)

	// Update merges fields into the existing post and returns the stored record.
	// Fields not present in the payload keep their values.
	// Returns ErrPostNotFound if no post has that ID.
	Update(ctx context.Context, id string, fields domain.PostFields) (*domain.Post, error)

	// Delete removes the post.
	// Returns ErrPostNotFound if no post has that ID.
	Delete(ctx context.Context, id string) error
}
