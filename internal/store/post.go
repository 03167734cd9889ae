// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// postColumns is the select list shared by every post query, matching
// the scanPost field order.
const postColumns = `id, title, slug, content, excerpt, cover_image_url,
	       tags, status, author_id, read_time, created_at, updated_at, published_at`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// scanPost reads one post row. Tags are stored as a JSONB array.
func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var tags []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImageURL,
		&tags, &p.Status, &p.AuthorID, &p.ReadTime,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return p, nil
}

// encodeTags serializes tags for the JSONB column, never as JSON null.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// ListAll returns every post, drafts included, newest created first.
// Used by the admin dashboard.
func (s *PostStore) ListAll() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListPublished returns all published posts, most recently published
// first. Used for the public feed.
func (s *PostStore) ListPublished() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE status = $1
		ORDER BY published_at DESC NULLS LAST
	`, models.PostStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its UUID, drafts included. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by its slug. Drafts are
// invisible through this query. Returns nil if not found.
func (s *PostStore) FindPublishedBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts WHERE slug = $1 AND status = $2
	`, slug, models.PostStatusPublished))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID and
// store-side timestamps.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, cover_image_url,
		                   tags, status, author_id, read_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImageURL,
		tags, p.Status, p.AuthorID, p.ReadTime, p.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// UpdateFields writes a post's mutable fields. Status and published_at
// are not touched — status changes go through UpdateStatus.
func (s *PostStore) UpdateFields(p *models.Post) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			cover_image_url = $5, tags = $6, read_time = $7,
			updated_at = NOW()
		WHERE id = $8
	`, p.Title, p.Slug, p.Content, p.Excerpt,
		p.CoverImageURL, tags, p.ReadTime, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// UpdateStatus writes a post's status and published_at only. Used for
// publish and unpublish transitions.
func (s *PostStore) UpdateStatus(id uuid.UUID, status models.PostStatus, publishedAt *time.Time) error {
	_, err := s.db.Exec(`
		UPDATE posts SET status = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3
	`, status, publishedAt, id)
	if err != nil {
		return fmt.Errorf("update post status: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Like rows cascade via the foreign key.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of posts in the given status.
func (s *PostStore) CountByStatus(status models.PostStatus) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by status: %w", err)
	}
	return count, nil
}
