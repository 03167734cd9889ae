// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a user for the test and removes it on cleanup.
func testUser(t *testing.T, db *sql.DB, email string, role models.Role) *models.User {
	t.Helper()

	users := NewUserStore(db)
	cleanUsers(t, db, email)

	user, err := users.Create(email, "test-password-123", nil, role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return user
}

// testPost creates a draft post for the test and removes it on cleanup.
func testPost(t *testing.T, db *sql.DB, authorID uuid.UUID, title, slug string) *models.Post {
	t.Helper()

	posts := NewPostStore(db)
	cleanPosts(t, db, slug)

	created, err := posts.Create(&models.Post{
		Title:    title,
		Slug:     slug,
		Content:  "test content",
		Tags:     []string{},
		Status:   models.PostStatusDraft,
		AuthorID: authorID,
		ReadTime: 1,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, slug) })
	return created
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanPosts removes test posts by slug. Likes cascade. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}
