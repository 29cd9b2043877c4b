package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// JSON keys of the fields every post carries.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldContent     = "content"
	FieldIsPublished = "isPublished"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
)

// reservedFields are managed by the store and never taken from a payload.
var reservedFields = map[string]struct{}{
	FieldID:        {},
	FieldCreatedAt: {},
	FieldUpdatedAt: {},
}

// Post is a published or draft article. Besides the known fields a post keeps any
// additional fields supplied by the client in Extra; they are flattened into the
// JSON representation next to the known fields.
type Post struct {
	ID          string
	Title       string
	Content     string
	IsPublished bool
	Extra       map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostFields is a free-form payload used to create or update a post.
type PostFields map[string]any

// PostPatch is the typed form of a PostFields payload. Nil pointers and absent
// Extra keys leave the corresponding stored values untouched.
type PostPatch struct {
	Title       *string
	Content     *string
	IsPublished *bool
	Extra       map[string]any
}

// ParsePostFields splits a payload into known and additional fields.
// Reserved keys (id, createdAt, updatedAt) are dropped so that a payload can never
// rewrite them. A known field holding a value of the wrong type yields a
// *FieldError.
func ParsePostFields(fields PostFields) (PostPatch, error) {
	patch := PostPatch{Extra: map[string]any{}}

	for key, value := range fields {
		if _, reserved := reservedFields[key]; reserved {
			continue
		}

		switch key {
		case FieldTitle:
			s, ok := value.(string)
			if !ok {
				return PostPatch{}, NewFieldError(key, "must be a string")
			}
			patch.Title = &s
		case FieldContent:
			s, ok := value.(string)
			if !ok {
				return PostPatch{}, NewFieldError(key, "must be a string")
			}
			patch.Content = &s
		case FieldIsPublished:
			b, ok := value.(bool)
			if !ok {
				return PostPatch{}, NewFieldError(key, "must be a boolean")
			}
			patch.IsPublished = &b
		default:
			patch.Extra[key] = value
		}
	}

	return patch, nil
}

// NewPost creates a post from a payload, generating its ID and timestamps.
func NewPost(fields PostFields) (*Post, error) {
	patch, err := ParsePostFields(fields)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		Extra:     map[string]any{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.Apply(patch)

	return post, nil
}

// Apply merges the patch into the post. It does not touch ID or timestamps.
func (p *Post) Apply(patch PostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.IsPublished != nil {
		p.IsPublished = *patch.IsPublished
	}
	if len(patch.Extra) > 0 {
		if p.Extra == nil {
			p.Extra = make(map[string]any, len(patch.Extra))
		}
		maps.Copy(p.Extra, patch.Extra)
	}
}

// Clone returns a copy of the post that shares no maps with the original.
// Nested values inside Extra are shared.
func (p *Post) Clone() *Post {
	c := *p
	c.Extra = maps.Clone(p.Extra)
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
	return &c
}

// MarshalJSON flattens Extra into the object. Known fields win over extra keys
// with the same name.
func (p Post) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+6)
	maps.Copy(out, p.Extra)

	out[FieldID] = p.ID
	out[FieldTitle] = p.Title
	out[FieldContent] = p.Content
	out[FieldIsPublished] = p.IsPublished
	out[FieldCreatedAt] = p.CreatedAt
	out[FieldUpdatedAt] = p.UpdatedAt

	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON. Unknown keys land in Extra.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded Post
	if id, ok := raw[FieldID].(string); ok {
		decoded.ID = id
	}
	for _, key := range []string{FieldCreatedAt, FieldUpdatedAt} {
		s, ok := raw[key].(string)
		if !ok {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", key, err)
		}
		if key == FieldCreatedAt {
			decoded.CreatedAt = ts
		} else {
			decoded.UpdatedAt = ts
		}
	}

	patch, err := ParsePostFields(PostFields(raw))
	if err != nil {
		return err
	}
	decoded.Extra = map[string]any{}
	decoded.Apply(patch)

	*p = decoded
	return nil
}
