package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{
	"id", "title", "content", "is_published", "extra", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresPostStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresPostStore(db, nil), mock
}

func TestNewPostgresPostStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresPostStore(nil, nil) })
}

func TestPostgresPostStore_GetByID(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = \\$1").
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("p1", "A", "B", true, []byte(`{"subtitle":"C"}`), created, created))

		post, err := s.GetByID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		assert.Equal(t, "A", post.Title)
		assert.Equal(t, "B", post.Content)
		assert.True(t, post.IsPublished)
		assert.Equal(t, map[string]any{"subtitle": "C"}, post.Extra)
		assert.True(t, created.Equal(post.CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		post, err := s.GetByID(context.Background(), "missing")
		assert.Nil(t, post)
		assert.ErrorIs(t, err, store.ErrPostNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts").
			WithArgs("p1").
			WillReturnError(errors.New("connection refused"))

		_, err := s.GetByID(context.Background(), "p1")
		require.Error(t, err)
		assert.False(t, errors.Is(err, store.ErrNotFound))
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestPostgresPostStore_List(t *testing.T) {
	t.Parallel()

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts ORDER BY created_at").
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		posts, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rows in order", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM posts ORDER BY created_at").
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("p1", "first", "", true, []byte(`{}`), now, now).
				AddRow("p2", "second", "", false, []byte(`{"tags":["go"]}`), now, now))

		posts, err := s.List(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "p1", posts[0].ID)
		assert.Equal(t, "p2", posts[1].ID)
		assert.Equal(t, []any{"go"}, posts[1].Extra["tags"])
	})

	t.Run("query failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT (.+) FROM posts").WillReturnError(sql.ErrConnDone)

		_, err := s.List(context.Background())
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestPostgresPostStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts generated id and extras", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery("INSERT INTO posts").
			WithArgs(
				sqlmock.AnyArg(), // generated id
				"A",
				"B",
				true,
				`{"subtitle":"C"}`,
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("generated", "A", "B", true, []byte(`{"subtitle":"C"}`), now, now))

		post, err := s.Create(context.Background(), domain.PostFields{
			"id":          "client-chosen",
			"title":       "A",
			"content":     "B",
			"isPublished": true,
			"subtitle":    "C",
		})
		require.NoError(t, err)
		assert.Equal(t, "generated", post.ID)
		assert.Equal(t, "C", post.Extra["subtitle"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("id collision is a duplicate", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("INSERT INTO posts").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "posts_pkey"})

		_, err := s.Create(context.Background(), domain.PostFields{"title": "A"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("large integers survive the round trip", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery("INSERT INTO posts").
			WithArgs(
				sqlmock.AnyArg(),
				"A",
				"",
				false,
				`{"views":12345678901234567890}`,
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("generated", "A", "", false, []byte(`{"views": 12345678901234567890}`), now, now))

		post, err := s.Create(context.Background(), domain.PostFields{
			"title": "A",
			"views": json.Number("12345678901234567890"),
		})
		require.NoError(t, err)
		assert.Equal(t, json.Number("12345678901234567890"), post.Extra["views"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid field never reaches the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		_, err := s.Create(context.Background(), domain.PostFields{"title": 5.0})
		assert.ErrorIs(t, err, domain.ErrInvalidField)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPostStore_Update(t *testing.T) {
	t.Parallel()

	t.Run("merges supplied fields", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("p1", nil, nil, false, "{}", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("p1", "A", "B", false, []byte(`{}`), now, now))

		post, err := s.Update(context.Background(), "p1", domain.PostFields{"isPublished": false})
		require.NoError(t, err)
		assert.Equal(t, "A", post.Title)
		assert.Equal(t, "B", post.Content)
		assert.False(t, post.IsPublished)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reserved keys are not written", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		now := time.Now().UTC()

		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("p1", "T", nil, nil, `{"x":1}`, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow("p1", "T", "", false, []byte(`{"x":1}`), now, now))

		post, err := s.Update(context.Background(), "p1", domain.PostFields{
			"id":    "p2",
			"title": "T",
			"x":     1,
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)

		mock.ExpectQuery("UPDATE posts SET").
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		_, err := s.Update(context.Background(), "missing", domain.PostFields{"title": "T"})
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})
}

func TestPostgresPostStore_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), wantErr: store.ErrPostNotFound},
		{name: "exec failure", execErr: sql.ErrConnDone, wantErr: sql.ErrConnDone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, mock := newMockStore(t)

			exp := mock.ExpectExec("DELETE FROM posts WHERE id = \\$1").WithArgs("p1")
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(tc.result)
			}

			err := s.Delete(context.Background(), "p1")
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
