// Package postgres provides the PostgreSQL implementation of store.PostStore.
// It handles query execution over database/sql with the pgx driver, the mapping
// between post records and rows (extra fields live in a jsonb column), PostgreSQL
// error translation, and the goose migrations embedded in the binary.
package postgres
