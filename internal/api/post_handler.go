package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/postdesk/internal/api/shared"
	"github.com/phrazzld/postdesk/internal/platform/logger"
	"github.com/phrazzld/postdesk/internal/store"
)

// PostHandler serves the posts resource.
type PostHandler struct {
	store store.PostStore
}

// NewPostHandler creates a new PostHandler backed by postStore.
func NewPostHandler(postStore store.PostStore) *PostHandler {
	if postStore == nil {
		panic("postStore cannot be nil")
	}
	return &PostHandler{store: postStore}
}

// handleError writes the response for a failed store call.
func (h *PostHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, ErrorMessage(err, status), err)
}

// ListPosts godoc
// @Summary List posts
// @Description Returns every post, published or not. An empty store yields an empty array.
// @Tags posts
// @Produce json
// @Success 200 {array} PostResponse
// @Failure 500 {string} string "Internal error"
// @Router /posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {string} string "No post with the ID found"
// @Failure 500 {string} string "Internal error"
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Description Stores the payload as a new post. Fields other than the known ones are kept as is.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body PostRequest true "Post fields"
// @Success 201 {object} PostResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal error"
// @Router /posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	fields, err := shared.DecodePostFields(w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	post, err := h.store.Create(r.Context(), fields)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Info("post created", slog.String("post_id", post.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Description Merges the payload into the stored post. Absent fields keep their values.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param post body PostRequest true "Fields to change"
// @Success 200 {object} PostResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "No post with the ID found"
// @Failure 500 {string} string "Internal error"
// @Router /posts/{id} [patch]
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	fields, err := shared.DecodePostFields(w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	post, err := h.store.Update(r.Context(), id, fields)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Info("post updated", slog.String("post_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "No post with the ID found"
// @Failure 500 {string} string "Internal error"
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Info("post deleted", slog.String("post_id", id))
	shared.RespondWithNoContent(w)
}
