// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/blog"
	"inkwell/internal/middleware"
)

// Public serves the reader-facing post endpoints. All of them work for
// anonymous visitors; a session only personalizes the like flags.
type Public struct {
	blog *blog.Service
}

// NewPublic creates the public handler group.
func NewPublic(svc *blog.Service) *Public {
	return &Public{blog: svc}
}

// Feed handles GET /api/posts: every published post, newest first.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	views, err := h.blog.PublicFeed(r.Context(), viewerID(r))
	if err != nil {
		respondServiceError(w, "public feed", err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// Post handles GET /api/posts/{slug}. Drafts and unknown slugs are
// indistinguishable to the reader: both are 404.
func (h *Public) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	view, err := h.blog.PublicPost(slug, viewerID(r))
	if err != nil {
		respondServiceError(w, "public post", err)
		return
	}
	if view == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ToggleLike handles POST /api/posts/{id}/like. Requires a session; the
// response carries the post's refreshed engagement.
func (h *Public) ToggleLike(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "Sign in to like posts.")
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return
	}

	engagement, err := h.blog.ToggleLike(r.Context(), sess.UserID, postID)
	if err != nil {
		respondServiceError(w, "toggle like", err)
		return
	}
	if engagement == nil {
		respondNotFound(w)
		return
	}
	respondJSON(w, http.StatusOK, engagement)
}

// viewerID returns the signed-in user's ID, or nil for anonymous
// requests.
func viewerID(r *http.Request) *uuid.UUID {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	id := sess.UserID
	return &id
}
