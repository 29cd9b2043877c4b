package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
	"github.com/phrazzld/postdesk/internal/store"
)

const postColumns = `id, title, content, is_published, extra, created_at, updated_at`

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPostStore{
		db:     db,
		logger: logger,
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
// component names the store in log lines.
const component = "post_store"

var _ store.PostStore = (*PostgresPostStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		post  domain.Post
		extra []byte
	)

	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.IsPublished,
		&extra,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	post.Extra = map[string]any{}
	if len(extra) > 0 {
		dec := json.NewDecoder(bytes.NewReader(extra))
		dec.UseNumber()
		if err := dec.Decode(&post.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extra fields of post %s: %w", post.ID, err)
		}
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()

	return &post, nil
}

func encodeExtra(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("failed to encode extra fields: %w", err)
	}
	return string(data), nil
}

// GetByID implements store.PostStore.GetByID
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	log.Debug("retrieving post by ID", slog.String("post_id", id))

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("post not found", slog.String("post_id", id))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post by ID",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return nil, fmt.Errorf("failed to get post: %w", MapError(err))
	}

	return post, nil
}

// List implements store.PostStore.List
// Posts are returned in creation order. An empty table yields an empty slice.
func (s *PostgresPostStore) List(ctx context.Context) ([]*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list posts: %w", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			log.Error("failed to scan post row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating post rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list posts: %w", MapError(err))
	}

	log.Debug("listed posts", slog.Int("count", len(posts)))
	return posts, nil
}

// Create implements store.PostStore.Create
// The ID and timestamps are generated here; reserved payload keys are ignored.
func (s *PostgresPostStore) Create(
	ctx context.Context,
	fields domain.PostFields,
) (*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	post, err := domain.NewPost(fields)
	if err != nil {
		log.Warn("post validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}

	extra, err := encodeExtra(post.Extra)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO posts (id, title, content, is_published, extra, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
		RETURNING ` + postColumns

	created, err := scanPost(s.db.QueryRowContext(
		ctx,
		query,
		post.ID,
		post.Title,
		post.Content,
		post.IsPublished,
		extra,
		post.CreatedAt,
		post.UpdatedAt,
	))
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("post ID already exists", slog.String("post_id", post.ID))
			return nil, fmt.Errorf("%w: post %s", store.ErrDuplicate, post.ID)
		}
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID))
		return nil, fmt.Errorf("failed to create post: %w", MapError(err))
	}

	log.Info("post created successfully",
		slog.String("post_id", created.ID),
		slog.Bool("is_published", created.IsPublished))
	return created, nil
}

// Update implements store.PostStore.Update
// Known columns are only overwritten when present in fields, and extra fields are
// merged into the stored jsonb object. The whole merge is a single statement.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) Update(
	ctx context.Context,
	id string,
	fields domain.PostFields,
) (*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	patch, err := domain.ParsePostFields(fields)
	if err != nil {
		log.Warn("post validation failed during update",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return nil, err
	}

	extra, err := encodeExtra(patch.Extra)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE posts SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			is_published = COALESCE($4, is_published),
			extra = extra || $5::jsonb,
			updated_at = $6
		WHERE id = $1
		RETURNING ` + postColumns

	updated, err := scanPost(s.db.QueryRowContext(
		ctx,
		query,
		id,
		patch.Title,
		patch.Content,
		patch.IsPublished,
		extra,
		time.Now().UTC(),
	))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("post not found for update", slog.String("post_id", id))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return nil, fmt.Errorf("failed to update post: %w", MapError(err))
	}

	log.Info("post updated successfully", slog.String("post_id", id))
	return updated, nil
}

// Delete implements store.PostStore.Delete
// Returns store.ErrPostNotFound if the post does not exist.
func (s *PostgresPostStore) Delete(ctx context.Context, id string) error {
	log := logger.ForComponent(ctx, s.logger, component)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return fmt.Errorf("failed to delete post: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		if errors.Is(err, store.ErrPostNotFound) {
			log.Debug("post not found for deletion", slog.String("post_id", id))
			return err
		}
		log.Error("failed to check deleted rows",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return err
	}

	log.Info("post deleted successfully", slog.String("post_id", id))
	return nil
}
