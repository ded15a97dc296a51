package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/promptart/backend/internal/models"
)

const (
	statsCollection = "stats"
	statsSummaryDoc = "summary"
)

// StatsService maintains the stats/summary singleton. Counter fields are
// mutated with atomic increments coupled to the document writes they
// mirror; the pair is not transactional, so a crash between the two leaves
// a gap that re-aggregation can repair.
type StatsService struct {
	fs *firestore.Client
}

func NewStatsService(fs *firestore.Client) *StatsService {
	return &StatsService{fs: fs}
}

func (s *StatsService) summaryRef() *firestore.DocumentRef {
	return s.fs.Collection(statsCollection).Doc(statsSummaryDoc)
}

// GetStats retrieves the summary document. A missing document is not an
// error; it returns (nil, nil).
func (s *StatsService) GetStats(ctx context.Context) (*models.SummaryStats, error) {
	snap, err := s.summaryRef().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("while retrieving stats summary: %w", err)
	}

	stats := &models.SummaryStats{}
	if err := snap.DataTo(stats); err != nil {
		return nil, fmt.Errorf("while unmarshaling stats summary: %w", err)
	}
	return stats, nil
}

// InitializeStats creates the summary document with zeroed counters. It is
// idempotent: an existing document is left untouched.
func (s *StatsService) InitializeStats(ctx context.Context) error {
	_, err := s.summaryRef().Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("while checking stats summary: %w", err)
	}

	_, err = s.summaryRef().Create(ctx, map[string]interface{}{
		"totalArtPieces": 0,
		"totalUsers":     0,
		"totalViews":     0,
		"totalLikes":     0,
		"lastUpdated":    firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("while creating stats summary: %w", err)
	}
	return nil
}

// Bump applies an atomic increment to one counter field and refreshes
// lastUpdated. Set with merge keeps the write valid even when the summary
// document does not exist yet.
func (s *StatsService) Bump(ctx context.Context, field string, delta int64) error {
	_, err := s.summaryRef().Set(ctx, map[string]interface{}{
		field:         firestore.Increment(delta),
		"lastUpdated": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("while updating stats field %s: %w", field, err)
	}
	return nil
}
