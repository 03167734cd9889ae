// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the post lifecycle and engagement rules: how a
// post moves between draft and published, how its derived fields (slug,
// reading time, excerpt fallback) are computed, and how like state is
// aggregated per viewer. Persistence is delegated to the store layer.
package blog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/readtime"
	"inkwell/internal/slug"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxContentLen = 100_000
	maxExcerptLen = 1_000
	maxTagLen     = 50
	maxTags       = 20
)

// CreatePostRequest carries every field needed to create a post. Slug,
// read time, and published_at are derived — callers never supply them.
type CreatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       *string  `json:"excerpt,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	Tags          []string `json:"tags"`
	Publish       bool     `json:"publish"`
}

// EditPostRequest updates a post's mutable fields. Status and
// published_at are never touched by an edit — publishing and
// unpublishing are separate operations.
type EditPostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       *string  `json:"excerpt,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
	Tags          []string `json:"tags"`
}

// validatePost checks the shared title/content rules and returns the
// first problem found, or "" when the fields are valid.
func validatePost(title, content string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateExcerpt checks the optional excerpt length.
func validateExcerpt(excerpt *string) string {
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	return ""
}

// NormalizeTags trims tags, drops empties, and rejects duplicates while
// preserving insertion order. A nil input yields an empty (non-nil)
// slice so the stored value is always a JSON array.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLen {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

// buildPost assembles a new post from a create request, deriving slug,
// read time, and (when created as published) published_at.
func buildPost(req CreatePostRequest, authorID uuid.UUID, now time.Time) *models.Post {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	p := &models.Post{
		Title:         title,
		Slug:          slug.Generate(title),
		Content:       content,
		Excerpt:       normalizeOptional(req.Excerpt),
		CoverImageURL: normalizeOptional(req.CoverImageURL),
		Tags:          NormalizeTags(req.Tags),
		Status:        models.PostStatusDraft,
		AuthorID:      authorID,
		ReadTime:      readtime.Estimate(content),
	}

	if req.Publish {
		p.Status = models.PostStatusPublished
		p.PublishedAt = &now
	}

	return p
}

// applyEdit updates the mutable fields of a post in place, re-deriving
// slug and read time. Status and published_at are left untouched.
func applyEdit(p *models.Post, req EditPostRequest) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)

	p.Title = title
	p.Slug = slug.Generate(title)
	p.Content = content
	p.Excerpt = normalizeOptional(req.Excerpt)
	p.CoverImageURL = normalizeOptional(req.CoverImageURL)
	p.Tags = NormalizeTags(req.Tags)
	p.ReadTime = readtime.Estimate(content)
}

// applyPublish transitions a draft to published, stamping published_at
// with the transition time. Publishing an already-published post is a
// no-op and returns false; in particular published_at never moves when
// the post is already live.
func applyPublish(p *models.Post, now time.Time) bool {
	if p.Status == models.PostStatusPublished {
		return false
	}
	p.Status = models.PostStatusPublished
	p.PublishedAt = &now
	return true
}

// applyUnpublish transitions a published post back to draft. The
// published_at timestamp is deliberately kept: its presence records that
// the post was published at least once, and its value the most recent
// publish time.
func applyUnpublish(p *models.Post) bool {
	if p.Status != models.PostStatusPublished {
		return false
	}
	p.Status = models.PostStatusDraft
	return true
}

// normalizeOptional trims an optional string field and collapses empty
// values to nil so the store writes NULL instead of "".
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
