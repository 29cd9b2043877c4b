// Package memory provides an in-process implementation of store.PostStore for
// tests and local runs without a database.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
	"github.com/phrazzld/postdesk/internal/store"
)

// PostStore keeps posts in a map guarded by a read/write mutex.
// Records are cloned on the way in and out so callers never share maps with the store.
type PostStore struct {
	mutex  sync.RWMutex
	posts  map[string]*domain.Post
	order  []string
	logger *slog.Logger
}

// NewPostStore creates an empty store. If logger is nil, a default logger will be used.
func NewPostStore(logger *slog.Logger) *PostStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostStore{
		posts:  make(map[string]*domain.Post),
		logger: logger,
	}
}

// component names the store in log lines.
const component = "memory_post_store"

var _ store.PostStore = (*PostStore)(nil)

// GetByID returns store.ErrPostNotFound if the post does not exist.
func (s *PostStore) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return post.Clone(), nil
}

// List returns the posts in creation order.
func (s *PostStore) List(ctx context.Context) ([]*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	posts := make([]*domain.Post, 0, len(s.order))
	for _, id := range s.order {
		posts = append(posts, s.posts[id].Clone())
	}
	return posts, nil
}

// Create stores a new post built from fields.
func (s *PostStore) Create(ctx context.Context, fields domain.PostFields) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	post, err := domain.NewPost(fields)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.posts[post.ID]; exists {
		return nil, store.NewStoreError("post", "create", "id collision", store.ErrDuplicate)
	}
	s.posts[post.ID] = post
	s.order = append(s.order, post.ID)

	logger.ForComponent(ctx, s.logger, component).
		Debug("post created", slog.String("post_id", post.ID))
	return post.Clone(), nil
}

// Update merges fields into the stored post.
func (s *PostStore) Update(
	ctx context.Context,
	id string,
	fields domain.PostFields,
) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch, err := domain.ParsePostFields(fields)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}

	updated := post.Clone()
	updated.Apply(patch)
	updated.UpdatedAt = time.Now().UTC()
	s.posts[id] = updated

	logger.ForComponent(ctx, s.logger, component).
		Debug("post updated", slog.String("post_id", id))
	return updated.Clone(), nil
}

// Delete removes the post, returning store.ErrPostNotFound if it does not exist.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(s.posts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	logger.ForComponent(ctx, s.logger, component).
		Debug("post deleted", slog.String("post_id", id))
	return nil
}
