package blog

import (
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// LikeAction is the store mutation a like toggle resolves to.
type LikeAction string

const (
	LikeActionInsert LikeAction = "insert"
	LikeActionDelete LikeAction = "delete"
)

// ToggleAction returns the mutation for a like toggle: a delete when the
// viewer currently has a like row, an insert otherwise. Applying the
// toggle twice from the same starting state is always a round trip.
func ToggleAction(currentlyLiked bool) LikeAction {
	if currentlyLiked {
		return LikeActionDelete
	}
	return LikeActionInsert
}

// ComputeEngagement derives the like count and the viewer's own like
// state from a post's like rows. The result is independent of row order.
// With no viewer, ViewerHasLiked is always false.
func ComputeEngagement(likes []models.Like, viewerID *uuid.UUID) models.Engagement {
	e := models.Engagement{LikeCount: len(likes)}
	if viewerID == nil {
		return e
	}
	for _, like := range likes {
		if like.UserID == *viewerID {
			e.ViewerHasLiked = true
			break
		}
	}
	return e
}
