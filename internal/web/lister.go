package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phrazzld/postdesk/internal/domain"
)

// DefaultClientTimeout bounds a single call to the posts API.
const DefaultClientTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 512

// PostLister supplies the posts shown on the listing page.
// store.PostStore satisfies it directly.
type PostLister interface {
	List(ctx context.Context) ([]*domain.Post, error)
}

// APIClient lists posts by calling a posts endpoint over HTTP.
type APIClient struct {
	url    string
	client *http.Client
}

// NewAPIClient creates a client for the posts listing at url.
// If client is nil, one with DefaultClientTimeout is used.
func NewAPIClient(url string, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultClientTimeout}
	}
	return &APIClient{url: url, client: client}
}

var _ PostLister = (*APIClient)(nil)

// List fetches and decodes the posts array.
func (c *APIClient) List(ctx context.Context) ([]*domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build posts request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("posts API returned %d: %s", resp.StatusCode, body)
	}

	var posts []*domain.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return posts, nil
}
