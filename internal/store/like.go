package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// LikeStore handles all like-related database operations. The
// (post_id, user_id) pair carries a unique index, so a like can exist at
// most once per user per post.
type LikeStore struct {
	db *sql.DB
}

// NewLikeStore creates a new LikeStore with the given database connection.
func NewLikeStore(db *sql.DB) *LikeStore {
	return &LikeStore{db: db}
}

// ListByPost returns every like row for a post.
func (s *LikeStore) ListByPost(postID uuid.UUID) ([]models.Like, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, post_id, created_at
		FROM likes WHERE post_id = $1
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var likes []models.Like
	for rows.Next() {
		var l models.Like
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}

// Exists reports whether the user currently has a like on the post.
func (s *LikeStore) Exists(postID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}
	return exists, nil
}

// Insert adds a like. A second insert for the same (post, user) pair is
// a harmless no-op — the unique index plus ON CONFLICT DO NOTHING keep
// concurrent double toggles from double-counting.
func (s *LikeStore) Insert(postID, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// Delete removes the user's like on the post, if any.
func (s *LikeStore) Delete(postID, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM likes WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// CountByPost returns the number of likes on a post.
func (s *LikeStore) CountByPost(postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}
