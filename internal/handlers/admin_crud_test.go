package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/internal/blog"
	"inkwell/internal/models"
)

func TestAdminCreatePost(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-create@test.local")
	env.cleanPosts(t, "my-first-post")
	t.Cleanup(func() { env.cleanPosts(t, "my-first-post") })

	body := `{"title":"My First Post","content":"Hello from the dashboard.","tags":["intro"],"publish":false}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(body)), testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var post models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if post.Slug != "my-first-post" {
		t.Errorf("slug = %q", post.Slug)
	}
	if post.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", post.Status)
	}
	if post.AuthorID != admin.ID {
		t.Errorf("author = %v, want %v", post.AuthorID, admin.ID)
	}
}

func TestAdminCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-create-invalid@test.local")

	body := `{"title":"","content":"No title."}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(body)), testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdminCreatePostForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t)
	reader := env.testUser(t, "admin-create-reader@test.local", models.RoleUser)

	body := `{"title":"Sneaky","content":"Should not work."}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(body)), testSession(reader))
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAdminUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-update@test.local")
	post := publishTestPost(t, env, admin, "Original Title", "original-title")
	env.cleanPosts(t, "revised-title")
	t.Cleanup(func() { env.cleanPosts(t, "revised-title") })

	body := `{"title":"Revised Title","content":"Updated body.","tags":[]}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/posts/"+post.ID.String(), strings.NewReader(body))
	req = withChiURLParam(req, "id", post.ID.String())
	req = withSession(req, testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.UpdatePost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var updated models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Slug != "revised-title" {
		t.Errorf("slug = %q, want re-derived", updated.Slug)
	}
	// An edit never changes publication state.
	if updated.Status != models.PostStatusPublished {
		t.Errorf("status = %q, edit must not unpublish", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Error("published_at lost on edit")
	}
}

func TestAdminPublishUnpublish(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-pub@test.local")
	env.cleanPosts(t, "lifecycle-post")

	createBody := `{"title":"Lifecycle Post","content":"Draft first."}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(createBody)), testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	t.Cleanup(func() { env.cleanPosts(t, "lifecycle-post") })

	var post models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Publish.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/posts/"+post.ID.String()+"/publish", nil)
	req = withChiURLParam(req, "id", post.ID.String())
	req = withSession(req, testSession(admin))
	rec = httptest.NewRecorder()
	env.Admin.PublishPost(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d", rec.Code)
	}

	var published models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &published); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if published.Status != models.PostStatusPublished || published.PublishedAt == nil {
		t.Fatalf("after publish: %q %v", published.Status, published.PublishedAt)
	}

	// Unpublish keeps published_at.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/posts/"+post.ID.String()+"/unpublish", nil)
	req = withChiURLParam(req, "id", post.ID.String())
	req = withSession(req, testSession(admin))
	rec = httptest.NewRecorder()
	env.Admin.UnpublishPost(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish status = %d", rec.Code)
	}

	var draft models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if draft.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", draft.Status)
	}
	if draft.PublishedAt == nil {
		t.Error("published_at cleared on unpublish")
	}
}

func TestAdminDeletePost(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-delete@test.local")
	post := publishTestPost(t, env, admin, "Deletable Post", "deletable-post")

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/posts/"+post.ID.String(), nil)
	req = withChiURLParam(req, "id", post.ID.String())
	req = withSession(req, testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.DeletePost(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	// A second delete is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/posts/"+post.ID.String(), nil)
	req = withChiURLParam(req, "id", post.ID.String())
	req = withSession(req, testSession(admin))
	rec = httptest.NewRecorder()
	env.Admin.DeletePost(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestAdminListIncludesDrafts(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-list@test.local")
	env.cleanPosts(t, "listed-draft")

	body := `{"title":"Listed Draft","content":"Drafts show up here."}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader(body)), testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.CreatePost(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	t.Cleanup(func() { env.cleanPosts(t, "listed-draft") })

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil), testSession(admin))
	rec = httptest.NewRecorder()
	env.Admin.ListPosts(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var posts []models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode: %v", err)
	}

	found := false
	for _, p := range posts {
		if p.Slug == "listed-draft" {
			found = true
		}
	}
	if !found {
		t.Error("draft missing from the admin list")
	}
}

func TestCoverReplaced(t *testing.T) {
	old := "https://cdn.example.com/cover-images/1-aa.png"
	same := old
	newer := "https://cdn.example.com/cover-images/2-bb.png"

	tests := []struct {
		name   string
		before *string
		after  *string
		want   bool
	}{
		{"no cover before", nil, &newer, false},
		{"cover kept", &old, &same, false},
		{"cover swapped", &old, &newer, true},
		{"cover cleared", &old, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coverReplaced(tt.before, tt.after); got != tt.want {
				t.Errorf("coverReplaced = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.testAdmin(t, "admin-stats@test.local")
	publishTestPost(t, env, admin, "Stats Post", "stats-post")

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil), testSession(admin))
	rec := httptest.NewRecorder()
	env.Admin.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats blog.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalPosts < 1 || stats.PublishedPosts < 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalPosts != stats.PublishedPosts+stats.DraftPosts {
		t.Errorf("counters do not add up: %+v", stats)
	}
	if stats.TotalUsers < 1 {
		t.Errorf("user count = %d", stats.TotalUsers)
	}
}
