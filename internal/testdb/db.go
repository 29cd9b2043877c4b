package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/postdesk/internal/platform/mongo"
	"github.com/phrazzld/postdesk/internal/platform/postgres"
	"github.com/stretchr/testify/require"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// MongoDatabaseName is the database used by Mongo integration tests.
const MongoDatabaseName = "postdesk_test"

// Open connects to the test Postgres database, applies the embedded
// migrations and empties the posts table. The pool is closed on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := PostgresURL()
	if dbURL == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx), "Failed to ping test database")
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, nil), "Failed to run migrations")

	_, err = db.ExecContext(ctx, "TRUNCATE posts")
	require.NoError(t, err, "Failed to truncate posts")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, so the
// test leaves no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("Failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// MongoDatabase connects to the test MongoDB deployment and returns a fresh
// MongoDatabaseName database. The client is disconnected on cleanup.
func MongoDatabase(t *testing.T) *mongodriver.Database {
	t.Helper()

	uri := MongoURI()
	if uri == "" {
		t.Skipf("%s not set", MongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, uri)
	require.NoError(t, err, "Failed to connect to test MongoDB")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database(MongoDatabaseName)
	require.NoError(t, db.Collection(mongo.PostsCollection).Drop(ctx), "Failed to drop posts collection")

	return db
}
