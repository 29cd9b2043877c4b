// Package testdb provides helpers for tests that run against real databases.
// Tests call Open or MongoDatabase, which skip the test when the matching
// environment variable is unset, so integration suites stay runnable on
// machines without a database.
package testdb
