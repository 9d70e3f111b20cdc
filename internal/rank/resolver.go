package rank

import (
	"context"
	"fmt"

	"gatescore-service/internal/models"
)

// BucketStore is the slice of the cohort repository the resolver needs.
// FindByBucket must return members ordered by descending normalized marks
// with a stable order for ties.
type BucketStore interface {
	FindByBucket(ctx context.Context, bucket string) ([]models.CandidateScore, error)
	BulkUpdateRanks(ctx context.Context, updates []models.RankUpdate) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Resolver turns a coarse rank bucket into strict integer ranks for every
// cohort member sharing it.
type Resolver struct {
	store BucketStore
}

func NewResolver(store BucketStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve renumbers the whole bucket: members ordered by descending
// normalized marks get consecutive ranks starting at the bucket's lower
// bound. The read-recompute-rewrite runs inside one store transaction so
// concurrent submissions into the same bucket cannot interleave a partial
// renumbering.
func (r *Resolver) Resolve(ctx context.Context, bucket string) error {
	start, err := BucketLowerBound(bucket)
	if err != nil {
		return err
	}

	return r.store.WithTransaction(ctx, func(ctx context.Context) error {
		members, err := r.store.FindByBucket(ctx, bucket)
		if err != nil {
			return fmt.Errorf("read bucket %q: %w", bucket, err)
		}
		if len(members) == 0 {
			return nil
		}

		updates := make([]models.RankUpdate, len(members))
		for i, m := range members {
			updates[i] = models.RankUpdate{ID: m.ID, Rank: start + i}
		}
		if err := r.store.BulkUpdateRanks(ctx, updates); err != nil {
			return fmt.Errorf("update bucket %q: %w", bucket, err)
		}
		return nil
	})
}
