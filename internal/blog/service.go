// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// feedExcerptLen caps the plain-text excerpt fallback used in list views.
const feedExcerptLen = 160

// ErrForbidden is returned when an operation requires the admin role and
// the acting user does not hold it.
var ErrForbidden = errors.New("admin capability required")

// ValidationError reports a user-correctable input problem. No store
// call is issued when validation fails.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Actor identifies the signed-in user performing an operation. It is
// passed explicitly into every operation that attributes authorship or
// checks capability — there is no ambient session state.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin returns true if the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Stats summarizes the dashboard counters.
type Stats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	TotalUsers     int `json:"total_users"`
}

// PostView is a post decorated with author identity and per-viewer
// engagement, the shape public reads return.
type PostView struct {
	models.Post
	models.Engagement
	Author string `json:"author"`
}

// Service coordinates the post lifecycle against the store layer. All
// reads after a mutation go back to the store — engagement counts are
// never updated speculatively.
type Service struct {
	posts *store.PostStore
	likes *store.LikeStore
	users *store.UserStore
	feed  *cache.FeedCache // nil when Valkey caching is disabled
	now   func() time.Time
}

// NewService creates a Service. feed may be nil.
func NewService(posts *store.PostStore, likes *store.LikeStore, users *store.UserStore, feed *cache.FeedCache) *Service {
	return &Service{
		posts: posts,
		likes: likes,
		users: users,
		feed:  feed,
		now:   time.Now,
	}
}

// --- Admin operations ---

// CreatePost validates and stores a new post authored by the actor.
// Slug and read time are derived from the request; creating with
// Publish set stamps published_at immediately.
func (s *Service) CreatePost(ctx context.Context, actor Actor, req CreatePostRequest) (*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if msg := validatePost(req.Title, req.Content); msg != "" {
		return nil, &ValidationError{Message: msg}
	}
	if msg := validateExcerpt(req.Excerpt); msg != "" {
		return nil, &ValidationError{Message: msg}
	}

	created, err := s.posts.Create(buildPost(req, actor.UserID, s.now()))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.invalidateFeed(ctx)
	return created, nil
}

// UpdatePost applies an edit to a post's mutable fields. The post keeps
// its status and published_at; slug and read time are re-derived.
// Returns (nil, nil) if the post does not exist.
func (s *Service) UpdatePost(ctx context.Context, actor Actor, id uuid.UUID, req EditPostRequest) (*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if msg := validatePost(req.Title, req.Content); msg != "" {
		return nil, &ValidationError{Message: msg}
	}
	if msg := validateExcerpt(req.Excerpt); msg != "" {
		return nil, &ValidationError{Message: msg}
	}

	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if post == nil {
		return nil, nil
	}

	applyEdit(post, req)
	if err := s.posts.UpdateFields(post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.invalidateFeed(ctx)
	// Re-read so updated_at reflects the store's clock.
	return s.posts.FindByID(id)
}

// PublishPost transitions a draft to published, stamping published_at.
// Publishing an already-published post leaves it unchanged. Returns
// (nil, nil) if the post does not exist.
func (s *Service) PublishPost(ctx context.Context, actor Actor, id uuid.UUID) (*models.Post, error) {
	return s.changeStatus(ctx, actor, id, func(p *models.Post) bool {
		return applyPublish(p, s.now())
	})
}

// UnpublishPost transitions a published post back to draft. The
// published_at timestamp is kept. Returns (nil, nil) if the post does
// not exist.
func (s *Service) UnpublishPost(ctx context.Context, actor Actor, id uuid.UUID) (*models.Post, error) {
	return s.changeStatus(ctx, actor, id, applyUnpublish)
}

func (s *Service) changeStatus(ctx context.Context, actor Actor, id uuid.UUID, transition func(*models.Post) bool) (*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("change post status: %w", err)
	}
	if post == nil {
		return nil, nil
	}

	if !transition(post) {
		return post, nil
	}

	if err := s.posts.UpdateStatus(post.ID, post.Status, post.PublishedAt); err != nil {
		return nil, fmt.Errorf("change post status: %w", err)
	}

	s.invalidateFeed(ctx)
	return post, nil
}

// DeletePost removes a post. Its likes are removed by the store's
// cascading foreign key. Returns (false, nil) if the post did not exist.
func (s *Service) DeletePost(ctx context.Context, actor Actor, id uuid.UUID) (bool, error) {
	if !actor.IsAdmin() {
		return false, ErrForbidden
	}

	post, err := s.posts.FindByID(id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	if post == nil {
		return false, nil
	}

	if err := s.posts.Delete(id); err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}

	s.invalidateFeed(ctx)
	return true, nil
}

// GetPost fetches any post by ID for the admin edit view, drafts
// included. Returns (nil, nil) if not found.
func (s *Service) GetPost(actor Actor, id uuid.UUID) (*models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.posts.FindByID(id)
}

// ListAllPosts returns every post, drafts included, newest created first.
func (s *Service) ListAllPosts(actor Actor) ([]models.Post, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.posts.ListAll()
}

// DashboardStats returns the post and user counters for the dashboard.
func (s *Service) DashboardStats(actor Actor) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	total, err := s.posts.Count()
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	published, err := s.posts.CountByStatus(models.PostStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	users, err := s.users.Count()
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &Stats{
		TotalPosts:     total,
		PublishedPosts: published,
		DraftPosts:     total - published,
		TotalUsers:     users,
	}, nil
}

// --- Public operations ---

// PublicFeed returns all published posts, newest published first, with
// per-viewer engagement and the excerpt fallback applied. Results for
// anonymous viewers are served from the Valkey feed cache when present;
// authenticated viewers always read through to the store because their
// viewer_has_liked flags are personal.
func (s *Service) PublicFeed(ctx context.Context, viewerID *uuid.UUID) ([]PostView, error) {
	if viewerID == nil && s.feed != nil {
		if data, ok := s.feed.Get(ctx); ok {
			var views []PostView
			if err := json.Unmarshal(data, &views); err != nil {
				slog.Warn("feed cache payload corrupt, falling through", "error", err)
			} else {
				return views, nil
			}
		}
	}

	posts, err := s.posts.ListPublished()
	if err != nil {
		return nil, fmt.Errorf("public feed: %w", err)
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		view, err := s.decorate(p, viewerID)
		if err != nil {
			return nil, fmt.Errorf("public feed: %w", err)
		}
		if view.Post.Excerpt == nil {
			fallback := markdown.Excerpt(view.Post.Content, feedExcerptLen)
			view.Post.Excerpt = &fallback
		}
		views = append(views, *view)
	}

	if viewerID == nil && s.feed != nil {
		if data, err := json.Marshal(views); err == nil {
			s.feed.Set(ctx, data)
		}
	}
	return views, nil
}

// PublicPost returns one published post by slug with engagement for the
// given viewer. Returns (nil, nil) when the slug does not exist or the
// post is a draft — callers present that as not-found.
func (s *Service) PublicPost(slug string, viewerID *uuid.UUID) (*PostView, error) {
	post, err := s.posts.FindPublishedBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("public post: %w", err)
	}
	if post == nil {
		return nil, nil
	}
	return s.decorate(*post, viewerID)
}

// ToggleLike flips the viewer's like on a post: a delete when a like row
// exists, an insert otherwise. The insert is a no-op on conflict, so a
// concurrent double toggle cannot double-count. The returned engagement
// is re-read from the store after the mutation.
func (s *Service) ToggleLike(ctx context.Context, viewerID, postID uuid.UUID) (*models.Engagement, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	if post == nil || !post.IsPublished() {
		return nil, nil
	}

	liked, err := s.likes.Exists(postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	switch ToggleAction(liked) {
	case LikeActionDelete:
		err = s.likes.Delete(postID, viewerID)
	case LikeActionInsert:
		err = s.likes.Insert(postID, viewerID)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	s.invalidateFeed(ctx)

	likes, err := s.likes.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	engagement := ComputeEngagement(likes, &viewerID)
	return &engagement, nil
}

// decorate attaches author identity and engagement to a post.
func (s *Service) decorate(post models.Post, viewerID *uuid.UUID) (*PostView, error) {
	likes, err := s.likes.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}

	view := &PostView{
		Post:       post,
		Engagement: ComputeEngagement(likes, viewerID),
	}

	author, err := s.users.FindByID(post.AuthorID)
	if err != nil {
		return nil, err
	}
	if author != nil {
		view.Author = author.DisplayName()
	}

	return view, nil
}

// invalidateFeed drops the cached anonymous feed after any mutation so
// the next read is store-derived.
func (s *Service) invalidateFeed(ctx context.Context) {
	if s.feed != nil {
		s.feed.Invalidate(ctx)
	}
}
