// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/blog"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
)

// Admin serves the dashboard endpoints. The router guards this group
// with session, 2FA, and role checks; handlers still pass the actor to
// the service, which enforces capability again.
type Admin struct {
	blog    *blog.Service
	storage *storage.Client // nil when object storage is not configured
}

// NewAdmin creates the admin handler group. storage may be nil.
func NewAdmin(svc *blog.Service, storage *storage.Client) *Admin {
	return &Admin{blog: svc, storage: storage}
}

// ListPosts handles GET /api/admin/posts: all posts, drafts included,
// newest created first.
func (h *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListAllPosts(actor(r))
	if err != nil {
		respondServiceError(w, "admin list posts", err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /api/admin/posts/{id}, serving the edit view.
func (h *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	post, err := h.blog.GetPost(actor(r), id)
	if err != nil {
		respondServiceError(w, "admin get post", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /api/admin/posts.
func (h *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req blog.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	post, err := h.blog.CreatePost(r.Context(), actor(r), req)
	if err != nil {
		respondServiceError(w, "admin create post", err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/admin/posts/{id}. The post keeps its
// publication status; use the publish/unpublish endpoints for that.
func (h *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	var req blog.EditPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	// Remember the previous cover so a replaced one can be cleaned up
	// from object storage after the edit lands.
	before, err := h.blog.GetPost(actor(r), id)
	if err != nil {
		respondServiceError(w, "admin update post", err)
		return
	}
	if before == nil {
		respondNotFound(w)
		return
	}

	post, err := h.blog.UpdatePost(r.Context(), actor(r), id, req)
	if err != nil {
		respondServiceError(w, "admin update post", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}

	if coverReplaced(before.CoverImageURL, post.CoverImageURL) {
		h.removeStoredCover(r.Context(), before.CoverImageURL)
	}

	respondJSON(w, http.StatusOK, post)
}

// PublishPost handles POST /api/admin/posts/{id}/publish.
func (h *Admin) PublishPost(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.blog.PublishPost)
}

// UnpublishPost handles POST /api/admin/posts/{id}/unpublish.
func (h *Admin) UnpublishPost(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.blog.UnpublishPost)
}

func (h *Admin) changeStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, blog.Actor, uuid.UUID) (*models.Post, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	post, err := op(r.Context(), actor(r), id)
	if err != nil {
		respondServiceError(w, "admin change post status", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/admin/posts/{id}.
func (h *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	post, err := h.blog.GetPost(actor(r), id)
	if err != nil {
		respondServiceError(w, "admin delete post", err)
		return
	}
	if post == nil {
		respondNotFound(w)
		return
	}

	deleted, err := h.blog.DeletePost(r.Context(), actor(r), id)
	if err != nil {
		respondServiceError(w, "admin delete post", err)
		return
	}
	if !deleted {
		respondNotFound(w)
		return
	}

	h.removeStoredCover(r.Context(), post.CoverImageURL)
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/admin/stats.
func (h *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.blog.DashboardStats(actor(r))
	if err != nil {
		respondServiceError(w, "admin stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// removeStoredCover deletes a cover object from storage when the URL
// points at our bucket. External cover URLs and unconfigured storage
// are left alone, and failures only warn: the post mutation already
// succeeded and an orphaned object is harmless.
func (h *Admin) removeStoredCover(ctx context.Context, coverURL *string) {
	if h.storage == nil || coverURL == nil {
		return
	}
	key, ok := h.storage.ExtractKey(*coverURL)
	if !ok {
		return
	}
	if err := h.storage.Delete(ctx, key); err != nil {
		slog.Warn("stored cover not removed", "key", key, "error", err)
	}
}

// coverReplaced reports whether an edit changed or cleared the cover.
func coverReplaced(before, after *string) bool {
	if before == nil {
		return false
	}
	return after == nil || *after != *before
}

// actor builds the acting identity from the request session. The admin
// middleware guarantees a session exists on these routes.
func actor(r *http.Request) blog.Actor {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return blog.Actor{}
	}
	return blog.Actor{
		UserID: sess.UserID,
		Role:   models.Role(sess.Role),
	}
}
