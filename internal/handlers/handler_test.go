// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "feed:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	UserStore *store.UserStore
	PostStore *store.PostStore
	LikeStore *store.LikeStore
	Blog      *blog.Service
	Auth      *Auth
	Public    *Public
	Admin     *Admin
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired against real backing services.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	likeStore := store.NewLikeStore(db)
	feedCache := cache.NewFeedCache(vk, 1*time.Minute)
	svc := blog.NewService(postStore, likeStore, userStore, feedCache)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Sessions:  sessions,
		UserStore: userStore,
		PostStore: postStore,
		LikeStore: likeStore,
		Blog:      svc,
		Auth:      NewAuth(sessions, userStore),
		Public:    NewPublic(svc),
		Admin:     NewAdmin(svc, nil),
	}
}

// testAdmin creates an admin account for the test.
func (env *testEnv) testAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	return env.testUser(t, email, models.RoleAdmin)
}

// testUser creates an account for the test and removes it on cleanup.
func (env *testEnv) testUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := env.UserStore.Create(email, "handler-test-password", nil, role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func (env *testEnv) cleanPosts(t *testing.T, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		env.DB.Exec("DELETE FROM posts WHERE slug = $1", s)
	}
}

// testSession builds session data for a user with 2FA completed.
func testSession(user *models.User) *session.Data {
	return &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		TwoFADone: true,
	}
}

// withSession attaches session data to a request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// adminActor builds the service actor for an admin user.
func adminActor(user *models.User) blog.Actor {
	return blog.Actor{UserID: user.ID, Role: user.Role}
}
