package model

import "context"

// Fetcher loads review records. Errors are returned before any aggregation happens.
type Fetcher interface {
	// FetchReviewsForProject returns the records of one project in submission order.
	FetchReviewsForProject(ctx context.Context, projectID int64) ([]ReviewRecord, error)

	// FetchAllVerifiedReviews returns a flat multi-project feed of every submitted record.
	FetchAllVerifiedReviews(ctx context.Context) ([]ReviewRecord, error)
}
