package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/phrazzld/postdesk/internal/api/shared"
	"github.com/phrazzld/postdesk/internal/domain"
	"github.com/phrazzld/postdesk/internal/platform/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var postsTemplate = template.Must(template.ParseFS(templateFS, "templates/posts.html"))

type pageData struct {
	Posts []*domain.Post
}

// PageHandler serves the listing of published posts.
type PageHandler struct {
	lister PostLister
}

// NewPageHandler creates a new PageHandler reading posts from lister.
func NewPageHandler(lister PostLister) *PageHandler {
	if lister == nil {
		panic("lister cannot be nil")
	}
	return &PageHandler{lister: lister}
}

// Published returns the published posts of posts, keeping their order.
func Published(posts []*domain.Post) []*domain.Post {
	out := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if p != nil && p.IsPublished {
			out = append(out, p)
		}
	}
	return out
}

// ServeHTTP renders the page. The template is executed into a buffer so a
// rendering failure can still produce a clean error response.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	posts, err := h.lister.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	published := Published(posts)

	var buf bytes.Buffer
	if err := postsTemplate.Execute(&buf, pageData{Posts: published}); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "failed to render page", err)
		return
	}

	logger.FromContext(r.Context()).Debug("rendered posts page",
		slog.Int("total", len(posts)),
		slog.Int("published", len(published)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
