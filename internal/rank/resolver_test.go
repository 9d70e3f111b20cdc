package rank

import (
	"context"
	"errors"
	"sort"
	"testing"

	"gatescore-service/internal/models"
)

type fakeBucketStore struct {
	scores       []models.CandidateScore
	updates      []models.RankUpdate
	findErr      error
	inTxn        bool
	updatedInTxn bool
}

func (f *fakeBucketStore) FindByBucket(ctx context.Context, bucket string) ([]models.CandidateScore, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var members []models.CandidateScore
	for _, s := range f.scores {
		if s.RankBucket == bucket {
			members = append(members, s)
		}
	}
	// descending by normalized marks, stable
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].NormalizedMarks > members[j].NormalizedMarks
	})
	return members, nil
}

func (f *fakeBucketStore) BulkUpdateRanks(ctx context.Context, updates []models.RankUpdate) error {
	f.updates = updates
	f.updatedInTxn = f.inTxn
	return nil
}

func (f *fakeBucketStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.inTxn = true
	defer func() { f.inTxn = false }()
	return fn(ctx)
}

func TestResolveRenumbersBucket(t *testing.T) {
	store := &fakeBucketStore{scores: []models.CandidateScore{
		{ID: "a", RankBucket: "100-150", NormalizedMarks: 90},
		{ID: "b", RankBucket: "100-150", NormalizedMarks: 95},
		{ID: "c", RankBucket: "100-150", NormalizedMarks: 92},
		{ID: "other", RankBucket: "200-500", NormalizedMarks: 99},
	}}

	if err := NewResolver(store).Resolve(context.Background(), "100-150"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := []models.RankUpdate{{ID: "b", Rank: 100}, {ID: "c", Rank: 101}, {ID: "a", Rank: 102}}
	if len(store.updates) != len(want) {
		t.Fatalf("Expected %d updates, got %d", len(want), len(store.updates))
	}
	for i, u := range store.updates {
		if u != want[i] {
			t.Errorf("Update %d: expected %+v, got %+v", i, want[i], u)
		}
	}
	if !store.updatedInTxn {
		t.Error("Expected the bulk update to run inside the transaction")
	}
}

func TestResolveStableTies(t *testing.T) {
	store := &fakeBucketStore{scores: []models.CandidateScore{
		{ID: "first", RankBucket: "10-50", NormalizedMarks: 80},
		{ID: "second", RankBucket: "10-50", NormalizedMarks: 80},
	}}

	if err := NewResolver(store).Resolve(context.Background(), "10-50"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if store.updates[0].ID != "first" || store.updates[0].Rank != 10 {
		t.Errorf("Expected insertion order preserved for ties, got %+v", store.updates)
	}
	if store.updates[1].ID != "second" || store.updates[1].Rank != 11 {
		t.Errorf("Expected insertion order preserved for ties, got %+v", store.updates)
	}
}

func TestResolveOpenBucket(t *testing.T) {
	store := &fakeBucketStore{scores: []models.CandidateScore{
		{ID: "x", RankBucket: "1500+", NormalizedMarks: 30},
	}}
	if err := NewResolver(store).Resolve(context.Background(), "1500+"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if store.updates[0].Rank != 1500 {
		t.Errorf("Expected rank 1500, got %d", store.updates[0].Rank)
	}
}

func TestResolveEmptyBucketNoWrites(t *testing.T) {
	store := &fakeBucketStore{}
	if err := NewResolver(store).Resolve(context.Background(), "100-150"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if store.updates != nil {
		t.Errorf("Expected no updates for an empty bucket, got %+v", store.updates)
	}
}

func TestResolveInvalidBucket(t *testing.T) {
	store := &fakeBucketStore{}
	if err := NewResolver(store).Resolve(context.Background(), BranchNotFound); err == nil {
		t.Error("Expected an error for an unparsable bucket")
	}
}

func TestResolveReadFailure(t *testing.T) {
	store := &fakeBucketStore{findErr: errors.New("db down")}
	if err := NewResolver(store).Resolve(context.Background(), "100-150"); err == nil {
		t.Error("Expected the read failure to surface")
	}
}
