package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/pkg/validation"
)

const artCollection = "artPieces"

// dateLabel is the localized creation-date label format carried on every
// art piece ("2025. 01. 15.").
const dateLabel = "2006. 01. 02."

var (
	ErrInvalidCursor = errors.New("invalid page cursor")
	ErrInvalidRole   = errors.New("invalid role")
)

// ArtService is the typed access layer over the artPieces collection.
// Every write that changes a count-bearing field couples a stats increment;
// the pair is issued in order but is not atomic.
type ArtService struct {
	fs    *firestore.Client
	stats *StatsService
}

func NewArtService(fs *firestore.Client, stats *StatsService) *ArtService {
	return &ArtService{fs: fs, stats: stats}
}

// pageCursor is the decoded form of the opaque continuation cursor. It
// pins the last fetched document by the listing sort key.
type pageCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

func encodeCursor(c pageCursor) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (pageCursor, error) {
	var c pageCursor
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, ErrInvalidCursor
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, ErrInvalidCursor
	}
	if c.ID == "" {
		return c, ErrInvalidCursor
	}
	return c, nil
}

func decodeArtSnapshot(snap *firestore.DocumentSnapshot) (*models.ArtPiece, error) {
	art := &models.ArtPiece{}
	if err := snap.DataTo(art); err != nil {
		return nil, fmt.Errorf("while unmarshaling art piece %s: %w", snap.Ref.ID, err)
	}
	art.ID = snap.Ref.ID
	return art, nil
}

// filterPublished drops unpublished pieces from a fetched page. The filter
// runs in memory rather than as a server-side predicate, so no composite
// index is required; the cost is that a page may carry fewer visible items
// than were fetched.
func filterPublished(pieces []*models.ArtPiece) []*models.ArtPiece {
	visible := make([]*models.ArtPiece, 0, len(pieces))
	for _, p := range pieces {
		if p.Published() {
			visible = append(visible, p)
		}
	}
	return visible
}

// ListArtPieces returns one page of art pieces ordered by creation time
// descending, plus an opaque continuation cursor. An empty cursor means
// the listing is exhausted. With publishedOnly set, filtering happens
// after retrieval, so a short page does not imply end-of-data; callers
// must key "has more" off the returned cursor, not the visible count.
func (s *ArtService) ListArtPieces(ctx context.Context, pageSize int, cursor string, publishedOnly bool) ([]*models.ArtPiece, string, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	q := s.fs.Collection(artCollection).
		OrderBy("createdAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc).
		Limit(pageSize)

	if cursor != "" {
		c, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		q = q.StartAfter(c.CreatedAt, c.ID)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var (
		fetched []*models.ArtPiece
		last    *models.ArtPiece
	)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("while listing art pieces: %w", err)
		}

		art, err := decodeArtSnapshot(snap)
		if err != nil {
			return nil, "", err
		}
		fetched = append(fetched, art)
		last = art
	}

	next := ""
	if len(fetched) == pageSize && last != nil {
		next = encodeCursor(pageCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	if publishedOnly {
		return filterPublished(fetched), next, nil
	}
	return fetched, next, nil
}

// ListAllArtPieces returns the full collection ordered by creation time
// descending. Used by admin views; no pagination.
func (s *ArtService) ListAllArtPieces(ctx context.Context) ([]*models.ArtPiece, error) {
	iter := s.fs.Collection(artCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var pieces []*models.ArtPiece
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while listing art pieces: %w", err)
		}

		art, err := decodeArtSnapshot(snap)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, art)
	}
	return pieces, nil
}

// GetArtPiece retrieves a single art piece. A missing document is not an
// error; it returns (nil, nil).
func (s *ArtService) GetArtPiece(ctx context.Context, id string) (*models.ArtPiece, error) {
	snap, err := s.fs.Collection(artCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving art piece %s: %w", id, err)
	}
	return decodeArtSnapshot(snap)
}

// CreateArtPiece creates a new art piece with zeroed counters, a localized
// date label and server timestamps, then increments the global art count.
func (s *ArtService) CreateArtPiece(ctx context.Context, form models.ArtFormData, imageURLs, originalURLs []string, uploadedBy string) (string, error) {
	published := true
	if form.IsPublished != nil {
		published = *form.IsPublished
	}

	data := map[string]interface{}{
		"title":       validation.SanitizeString(form.Title),
		"imageUrls":   imageURLs,
		"prompt":      form.Prompt,
		"author":      validation.SanitizeString(form.Author),
		"uploadedBy":  uploadedBy,
		"date":        time.Now().Format(dateLabel),
		"model":       validation.SanitizeString(form.Model),
		"ratio":       validation.SanitizeString(form.Ratio),
		"tags":        validation.SanitizeTags(form.Tags),
		"likes":       0,
		"views":       0,
		"isPublished": published,
		"createdAt":   firestore.ServerTimestamp,
		"updatedAt":   firestore.ServerTimestamp,
	}
	if form.NegativePrompt != "" {
		data["negativePrompt"] = form.NegativePrompt
	}
	if len(originalURLs) > 0 {
		data["originalUrls"] = originalURLs
	}

	ref, _, err := s.fs.Collection(artCollection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("while creating art piece: %w", err)
	}

	if err := s.stats.Bump(ctx, "totalArtPieces", 1); err != nil {
		// The document write already landed; the counter drifts until
		// re-aggregation.
		log.Printf("Failed to bump art piece count: %v", err)
	}

	return ref.ID, nil
}

// artUpdateFields is the set of administrator-editable fields accepted by
// UpdateArtPiece. Counters and timestamps are never written through here.
var artUpdateFields = map[string]bool{
	"title":          true,
	"prompt":         true,
	"negativePrompt": true,
	"author":         true,
	"model":          true,
	"ratio":          true,
	"tags":           true,
	"imageUrls":      true,
	"originalUrls":   true,
	"isPublished":    true,
}

// UpdateArtPiece merges the allowed fields into the document and refreshes
// the update timestamp.
func (s *ArtService) UpdateArtPiece(ctx context.Context, id string, updates map[string]interface{}) error {
	filtered := make(map[string]interface{}, len(updates)+1)
	for key, value := range updates {
		if artUpdateFields[key] {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return errors.New("no valid fields to update")
	}
	filtered["updatedAt"] = firestore.ServerTimestamp

	_, err := s.fs.Collection(artCollection).Doc(id).Set(ctx, filtered, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("while updating art piece %s: %w", id, err)
	}
	return nil
}

// DeleteArtPiece removes the document and decrements the global art count.
// The caller is responsible for deleting the associated blobs first;
// orphaned blobs from a partial failure are tolerated.
func (s *ArtService) DeleteArtPiece(ctx context.Context, id string) error {
	if _, err := s.fs.Collection(artCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("while deleting art piece %s: %w", id, err)
	}

	if err := s.stats.Bump(ctx, "totalArtPieces", -1); err != nil {
		log.Printf("Failed to bump art piece count: %v", err)
	}
	return nil
}

// bumpCounter applies an atomic increment to one art counter plus the
// coupled stats counter.
func (s *ArtService) bumpCounter(ctx context.Context, artID, field, statsField string, delta int64) error {
	_, err := s.fs.Collection(artCollection).Doc(artID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.Increment(delta)},
	})
	if err != nil {
		return fmt.Errorf("while updating %s on art piece %s: %w", field, artID, err)
	}

	if err := s.stats.Bump(ctx, statsField, delta); err != nil {
		log.Printf("Failed to bump %s: %v", statsField, err)
	}
	return nil
}

// IncrementViews bumps the view counter on an art piece and the global
// view total.
func (s *ArtService) IncrementViews(ctx context.Context, artID string) error {
	return s.bumpCounter(ctx, artID, "views", "totalViews", 1)
}

// IncrementLikes bumps the like counter on an art piece and the global
// like total.
func (s *ArtService) IncrementLikes(ctx context.Context, artID string) error {
	return s.bumpCounter(ctx, artID, "likes", "totalLikes", 1)
}

// DecrementLikes lowers the like counter. The raw value may go negative
// under racing decrements; readers clamp at zero for display.
func (s *ArtService) DecrementLikes(ctx context.Context, artID string) error {
	return s.bumpCounter(ctx, artID, "likes", "totalLikes", -1)
}
