package models

import "time"

// SummaryStats is the stats/summary singleton. Counters are maintained by
// atomic increments coupled to the writes they mirror; the document is
// never authoritative and can be rebuilt by re-aggregation.
type SummaryStats struct {
	TotalArtPieces int64     `firestore:"totalArtPieces" json:"total_art_pieces"`
	TotalUsers     int64     `firestore:"totalUsers" json:"total_users"`
	TotalViews     int64     `firestore:"totalViews" json:"total_views"`
	TotalLikes     int64     `firestore:"totalLikes" json:"total_likes"`
	LastUpdated    time.Time `firestore:"lastUpdated" json:"last_updated"`
}
