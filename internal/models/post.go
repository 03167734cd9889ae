// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post represents a blog post. Slug and ReadTime are derived from Title
// and Content on every save; PublishedAt is set on the draft→published
// transition and never cleared afterwards, so a non-nil value means the
// post has been published at least once.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	AuthorID      uuid.UUID  `json:"author_id"`
	ReadTime      int        `json:"read_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// WasEverPublished returns true if the post has been published at least
// once, regardless of its current status.
func (p *Post) WasEverPublished() bool {
	return p.PublishedAt != nil
}
