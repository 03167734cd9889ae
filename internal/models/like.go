package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records a single user's endorsement of a single post.
// The (PostID, UserID) pair is unique — at most one like per user per post.
type Like struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PostID    uuid.UUID `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Engagement is the derived like state of a post for a given viewer.
// It is computed from like rows on every fetch, never stored.
type Engagement struct {
	LikeCount      int  `json:"like_count"`
	ViewerHasLiked bool `json:"viewer_has_liked"`
}
