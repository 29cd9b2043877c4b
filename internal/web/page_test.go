package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listerFunc func(ctx context.Context) ([]*domain.Post, error)

func (f listerFunc) List(ctx context.Context) ([]*domain.Post, error) { return f(ctx) }

func render(t *testing.T, lister PostLister) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewPageHandler(lister).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestPageShowsOnlyPublishedPosts(t *testing.T) {
	t.Parallel()

	s := memory.NewPostStore(nil)
	ctx := context.Background()
	_, err := s.Create(ctx, domain.PostFields{"title": "Visible", "content": "hello", "isPublished": true})
	require.NoError(t, err)
	_, err = s.Create(ctx, domain.PostFields{"title": "Draft", "content": "secret"})
	require.NoError(t, err)

	rec := render(t, s)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Visible")
	assert.Contains(t, body, "hello")
	assert.NotContains(t, body, "Draft")
	assert.NotContains(t, body, "No Posts found.")
}

func TestPageEmpty(t *testing.T) {
	t.Parallel()

	rec := render(t, memory.NewPostStore(nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No Posts found.")
}

func TestPageOnlyDrafts(t *testing.T) {
	t.Parallel()

	rec := render(t, listerFunc(func(context.Context) ([]*domain.Post, error) {
		return []*domain.Post{{ID: "p1", Title: "Draft"}}, nil
	}))

	assert.Contains(t, rec.Body.String(), "No Posts found.")
}

func TestPageEscapesContent(t *testing.T) {
	t.Parallel()

	rec := render(t, listerFunc(func(context.Context) ([]*domain.Post, error) {
		return []*domain.Post{{ID: "p1", Title: "<script>alert(1)</script>", IsPublished: true}}, nil
	}))

	assert.NotContains(t, rec.Body.String(), "<script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestPageListFailure(t *testing.T) {
	t.Parallel()

	rec := render(t, listerFunc(func(context.Context) ([]*domain.Post, error) {
		return nil, errors.New("posts API unreachable")
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "posts API unreachable", rec.Body.String())
}

func TestPublished(t *testing.T) {
	t.Parallel()

	posts := []*domain.Post{
		{ID: "a", IsPublished: true},
		nil,
		{ID: "b"},
		{ID: "c", IsPublished: true},
	}

	got := Published(posts)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.NotNil(t, Published(nil))
}
