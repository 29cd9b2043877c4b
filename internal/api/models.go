package api

import "time"

// The types below describe the posts payloads for the API document. Handlers
// work on domain.PostFields and domain.Post directly, since a post carries
// arbitrary additional fields that a fixed struct cannot express.

// PostRequest is the body of POST /posts and PATCH /posts/{id}.
// Any other top-level field is stored alongside the known ones.
type PostRequest struct {
	Title       string `json:"title"       example:"Hello"`
	Content     string `json:"content"     example:"First post"`
	IsPublished bool   `json:"isPublished" example:"true"`
}

// PostResponse is a stored post. Additional fields supplied on create or
// update appear next to the known ones.
type PostResponse struct {
	ID          string    `json:"id"          example:"7d3f1c9e-3a0b-4f6e-9a52-8f8f0f6c2b11"`
	Title       string    `json:"title"       example:"Hello"`
	Content     string    `json:"content"     example:"First post"`
	IsPublished bool      `json:"isPublished" example:"true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
