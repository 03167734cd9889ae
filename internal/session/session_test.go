// session_test.go runs against a real Valkey on DB 15 and is skipped
// when it is unreachable.
package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// requestWithCookies builds a request carrying the cookies a previous
// response set.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore(testClient(t), false)
	ctx := context.Background()

	data := &Data{
		UserID:    uuid.New(),
		Email:     "session-test@test.local",
		Role:      "admin",
		TwoFADone: false,
	}

	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session ID")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie not HttpOnly")
	}

	// Get round trips the payload.
	got, err := store.Get(ctx, requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a live session")
	}
	if got.UserID != data.UserID || got.Email != data.Email || !got.IsAdmin() {
		t.Errorf("got = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	// Update mutates in place, same ID.
	got.TwoFADone = true
	if err := store.Update(ctx, requestWithCookies(rec), got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := store.Get(ctx, requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if !again.TwoFADone {
		t.Error("update not persisted")
	}

	// Destroy removes the session and expires the cookie.
	destroyRec := httptest.NewRecorder()
	store.Destroy(ctx, destroyRec, requestWithCookies(rec))

	gone, err := store.Get(ctx, requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if gone != nil {
		t.Error("session survived Destroy")
	}

	expired := destroyRec.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge != -1 {
		t.Errorf("destroy cookies = %v", expired)
	}
}

func TestGetWithoutCookie(t *testing.T) {
	store := NewStore(testClient(t), false)

	got, err := store.Get(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil without a cookie", got)
	}
}

func TestGetWithUnknownSession(t *testing.T) {
	store := NewStore(testClient(t), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "does-not-exist"})

	got, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil for unknown ID", got)
	}
}
