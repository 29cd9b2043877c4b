package testdb

import "os"

// Environment variables naming the test databases.
const (
	PostgresURLEnv = "POSTDESK_TEST_DATABASE_URL"
	MongoURIEnv    = "POSTDESK_TEST_MONGO_URI"
)

// PostgresURL returns the test Postgres URL, or "" when none is configured.
func PostgresURL() string {
	return os.Getenv(PostgresURLEnv)
}

// MongoURI returns the test MongoDB URI, or "" when none is configured.
func MongoURI() string {
	return os.Getenv(MongoURIEnv)
}
