package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
	"github.com/phrazzld/postdesk/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostsCollection is the collection holding post documents.
const PostsCollection = "posts"

// postDocument is the stored shape of a post. Extra fields are kept in a
// subdocument so they can never collide with the known fields.
type postDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Content     string    `bson:"content"`
	IsPublished bool      `bson:"isPublished"`
	Extra       bson.M    `bson:"extra"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (d *postDocument) toDomain() *domain.Post {
	extra := make(map[string]any, len(d.Extra))
	for k, v := range d.Extra {
		extra[k] = normalize(v)
	}
	return &domain.Post{
		ID:          d.ID,
		Title:       d.Title,
		Content:     d.Content,
		IsPublished: d.IsPublished,
		Extra:       extra,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// normalize turns driver container types back into plain maps and slices.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalize(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = normalize(x)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		return normalize([]any(val))
	case []any:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = normalize(x)
		}
		return out
	default:
		return v
	}
}

// bsonValue converts decoded JSON numbers into BSON numeric types. Integers
// that overflow int64 fall back to a double.
func bsonValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(bson.M, len(val))
		for k, x := range val {
			out[k] = bsonValue(x)
		}
		return out
	case []any:
		out := make(bson.A, len(val))
		for i, x := range val {
			out[i] = bsonValue(x)
		}
		return out
	default:
		return v
	}
}

// checkExtraKeys rejects keys that MongoDB would read as a path or an operator.
func checkExtraKeys(extra map[string]any) error {
	for key := range extra {
		if key == "" || strings.Contains(key, ".") || strings.HasPrefix(key, "$") {
			return domain.NewFieldError(key, "must not be empty, contain '.' or start with '$'")
		}
	}
	return nil
}

// MongoPostStore implements the store.PostStore interface on a MongoDB collection.
type MongoPostStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoPostStore creates a store on the posts collection of db.
// If logger is nil, a default logger will be used.
func NewMongoPostStore(db *mongo.Database, logger *slog.Logger) *MongoPostStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoPostStore{
		coll:   db.Collection(PostsCollection),
		logger: logger,
	}
}

// component names the store in log lines.
const component = "post_store"

var _ store.PostStore = (*MongoPostStore)(nil)

// EnsureIndexes creates the index used by List.
func (s *MongoPostStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("posts_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	return nil
}

// GetByID implements store.PostStore.GetByID
// Returns store.ErrPostNotFound if the post does not exist.
func (s *MongoPostStore) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	var doc postDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("post not found", slog.String("post_id", id))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post by ID",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return doc.toDomain(), nil
}

// List implements store.PostStore.List
// Posts are returned in creation order.
func (s *MongoPostStore) List(ctx context.Context) ([]*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("failed to query posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		log.Error("failed to decode posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, nil
}

// Create implements store.PostStore.Create
func (s *MongoPostStore) Create(
	ctx context.Context,
	fields domain.PostFields,
) (*domain.Post, error) {
	log := logger.ForComponent(ctx, s.logger, component)

	post, err := domain.NewPost(fields)
	if err != nil {
		log.Warn("post validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}
	if err := checkExtraKeys(post.Extra); err != nil {
		return nil, err
	}

	// BSON dates carry millisecond precision.
	post.CreatedAt = post.CreatedAt.Truncate(time.Millisecond)
	post.UpdatedAt = post.CreatedAt

	doc := postDocument{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		IsPublished: post.IsPublished,
		Extra:       bsonValue(post.Extra).(bson.M),
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: post %s", store.ErrDuplicate, post.ID)
		}
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Info("post created successfully",
		slog.String("post_id", post.ID),
		slog.Bool("is_published", post.IsPublished))
	return post, nil
}

// Update implements store.PostStore.Update
// Supplied fields are merged with a single $set; extra fields are set one
// path at a time so existing extras survive.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *MongoPostStore) Update(
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
	if err := checkExtraKeys(patch.Extra); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.IsPublished != nil {
		set["isPublished"] = *patch.IsPublished
	}
	for k, v := range patch.Extra {
		set["extra."+k] = bsonValue(v)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("post not found for update", slog.String("post_id", id))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	log.Info("post updated successfully", slog.String("post_id", id))
	return doc.toDomain(), nil
}

// Delete implements store.PostStore.Delete
// Returns store.ErrPostNotFound if the post does not exist.
func (s *MongoPostStore) Delete(ctx context.Context, id string) error {
	log := logger.ForComponent(ctx, s.logger, component)

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id))
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		log.Debug("post not found for deletion", slog.String("post_id", id))
		return store.ErrPostNotFound
	}

	log.Info("post deleted successfully", slog.String("post_id", id))
	return nil
}
