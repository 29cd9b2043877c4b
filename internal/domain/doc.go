// Package domain contains the post entity, the payload types used to create and
// update it, and the closed sets of roles and capabilities used by the access
// policy. It has no knowledge of HTTP or of any storage backend.
package domain
