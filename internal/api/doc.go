// Package api exposes posts over HTTP. It maps requests onto a store.PostStore,
// gates mutating routes behind the post management capability, and turns
// store errors into status codes.
package api
