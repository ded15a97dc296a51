package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/promptart/backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// ActivityService records per-user like/download/view events and keeps the
// denormalized counters on art pieces in step. Callers apply optimistic UI
// state before these methods resolve and revert it when they fail.
type ActivityService struct {
	fs          *firestore.Client
	artService  *ArtService
	userService *UserService
}

func NewActivityService(fs *firestore.Client, artService *ArtService, userService *UserService) *ActivityService {
	return &ActivityService{
		fs:          fs,
		artService:  artService,
		userService: userService,
	}
}

func (s *ActivityService) userRef(uid string) *firestore.DocumentRef {
	return s.fs.Collection(userCollection).Doc(uid)
}

// ToggleLike flips the liked state for (uid, artID). currentlyLiked is the
// state as the caller observed it: liked removes the art from the user's
// liked set and decrements the art's like counter, unliked does the
// inverse.
func (s *ActivityService) ToggleLike(ctx context.Context, uid, artID string, currentlyLiked bool) error {
	if currentlyLiked {
		_, err := s.userRef(uid).Update(ctx, []firestore.Update{
			{Path: "likedArts", Value: firestore.ArrayRemove(artID)},
		})
		if err != nil {
			return fmt.Errorf("while removing like for user %s: %w", uid, err)
		}
		return s.artService.DecrementLikes(ctx, artID)
	}

	_, err := s.userRef(uid).Update(ctx, []firestore.Update{
		{Path: "likedArts", Value: firestore.ArrayUnion(artID)},
	})
	if err != nil {
		return fmt.Errorf("while adding like for user %s: %w", uid, err)
	}
	return s.artService.IncrementLikes(ctx, artID)
}

// RecordDownload appends a download record unconditionally. Repeat
// downloads produce repeat records; no counter is touched.
func (s *ActivityService) RecordDownload(ctx context.Context, uid, artID string) error {
	record := models.DownloadRecord{
		ArtID:        artID,
		DownloadedAt: time.Now().UTC(),
	}
	_, err := s.userRef(uid).Update(ctx, []firestore.Update{
		{Path: "downloadedArts", Value: firestore.ArrayUnion(record)},
	})
	if err != nil {
		return fmt.Errorf("while recording download for user %s: %w", uid, err)
	}
	return nil
}

// RecordView appends a view record and increments the art's view counter,
// but only on the first view of artID by this user. The read and the
// conditional write are not isolated against each other: two concurrent
// first views of the same art can both pass the check and double-count.
// That race is an accepted property of first-view counting here.
func (s *ActivityService) RecordView(ctx context.Context, uid, artID string) error {
	user, err := s.userService.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.HasViewed(artID) {
		return nil
	}

	record := models.ViewRecord{
		ArtID:    artID,
		ViewedAt: time.Now().UTC(),
	}
	_, err = s.userRef(uid).Update(ctx, []firestore.Update{
		{Path: "viewedArts", Value: firestore.ArrayUnion(record)},
	})
	if err != nil {
		return fmt.Errorf("while recording view for user %s: %w", uid, err)
	}
	return s.artService.IncrementViews(ctx, artID)
}

// UserActivity is the activity slice of a user document.
type UserActivity struct {
	LikedArts      []string                `json:"liked_arts"`
	DownloadedArts []models.DownloadRecord `json:"downloaded_arts"`
	ViewedArts     []models.ViewRecord     `json:"viewed_arts"`
}

// GetUserActivity returns the user's liked set and download/view logs.
// Documents created before activity tracking existed come back with empty
// slices, never nil.
func (s *ActivityService) GetUserActivity(ctx context.Context, uid string) (*UserActivity, error) {
	user, err := s.userService.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &UserActivity{
		LikedArts:      user.LikedArts,
		DownloadedArts: user.DownloadedArts,
		ViewedArts:     user.ViewedArts,
	}, nil
}

// ResolveArtPiecesByIds looks up each id in order and silently drops ids
// that no longer resolve. Activity logs hold weak references: deleting an
// art piece leaves dangling ids behind, and re-hydration must tolerate
// them.
func (s *ActivityService) ResolveArtPiecesByIds(ctx context.Context, ids []string) ([]*models.ArtPiece, error) {
	resolved := make([]*models.ArtPiece, 0, len(ids))
	for _, id := range ids {
		art, err := s.artService.GetArtPiece(ctx, id)
		if err != nil {
			return nil, err
		}
		if art == nil {
			continue
		}
		resolved = append(resolved, art)
	}
	return resolved, nil
}
