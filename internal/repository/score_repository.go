package repository

import (
	"context"
	"time"

	"gatescore-service/internal/models"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScoreRepository is the cohort store: one candidate score per user and
// slot, plus the aggregate reads the normalization and gate score steps
// depend on.
type ScoreRepository struct {
	Col    *mongo.Collection
	client *mongo.Client
}

func NewScoreRepository(db *mongo.Database) *ScoreRepository {
	return &ScoreRepository{Col: db.Collection("candidate_scores"), client: db.Client()}
}

func (r *ScoreRepository) FindByUserAndSlot(ctx context.Context, userID, slotID string) (*models.CandidateScore, error) {
	var score models.CandidateScore
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "slot_id": slotID}).Decode(&score)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &score, nil
}

// Upsert writes the raw scoring outcome, keeping the one-record-per-
// candidate-per-slot invariant, and returns the stored document.
func (r *ScoreRepository) Upsert(ctx context.Context, score *models.CandidateScore) (*models.CandidateScore, error) {
	now := time.Now()
	filter := bson.M{"user_id": score.UserID, "slot_id": score.SlotID}
	update := bson.M{
		"$set": bson.M{
			"department": score.Department,
			"raw_marks":  score.RawMarks,
			"sheet_url":  score.SheetURL,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored models.CandidateScore
	if err := r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateNormalized persists the normalized marks ahead of the derived
// gate-score fields, so the topper read that follows sees the
// candidate's own document.
func (r *ScoreRepository) UpdateNormalized(ctx context.Context, id string, normalized float64) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"normalized_marks": normalized,
		"updated_at":       time.Now(),
	}})
	return err
}

// UpdateDerived persists the recomputed pipeline outputs for a score.
func (r *ScoreRepository) UpdateDerived(ctx context.Context, id string, normalized, gateScore float64, bucket string) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"normalized_marks": normalized,
		"gate_score":       gateScore,
		"rank_bucket":      bucket,
		"updated_at":       time.Now(),
	}})
	return err
}

// SessionStats aggregates raw marks over one slot's cohort. An empty
// cohort yields zero mean and zero stddev; the normalization engine
// substitutes its own divisor.
func (r *ScoreRepository) SessionStats(ctx context.Context, slotID string) (float64, float64, error) {
	return r.marksStats(ctx, bson.M{"slot_id": slotID})
}

// DepartmentStats aggregates raw marks across all of a department's
// slots and sessions.
func (r *ScoreRepository) DepartmentStats(ctx context.Context, department string) (float64, float64, error) {
	return r.marksStats(ctx, bson.M{"department": department})
}

func (r *ScoreRepository) marksStats(ctx context.Context, filter bson.M) (float64, float64, error) {
	marks, err := r.marksVector(ctx, filter)
	if err != nil {
		return 0, 0, err
	}
	if len(marks) == 0 {
		return 0, 0, nil
	}

	mean, err := stats.Mean(marks)
	if err != nil {
		return 0, 0, err
	}
	stddev, err := stats.StandardDeviation(marks)
	if err != nil {
		return 0, 0, err
	}
	return mean, stddev, nil
}

func (r *ScoreRepository) marksVector(ctx context.Context, filter bson.M) ([]float64, error) {
	opts := options.Find().SetProjection(bson.M{"raw_marks": 1})
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var marks []float64
	for cur.Next(ctx) {
		var doc struct {
			RawMarks float64 `bson:"raw_marks"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		marks = append(marks, doc.RawMarks)
	}
	return marks, cur.Err()
}

func (r *ScoreRepository) CountByDepartment(ctx context.Context, department string) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{"department": department})
}

// TopNormalized returns the n best normalized marks in the department,
// descending.
func (r *ScoreRepository) TopNormalized(ctx context.Context, department string, n int) ([]float64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "normalized_marks", Value: -1}}).
		SetLimit(int64(n)).
		SetProjection(bson.M{"normalized_marks": 1})
	cur, err := r.Col.Find(ctx, bson.M{"department": department}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var marks []float64
	for cur.Next(ctx) {
		var doc struct {
			NormalizedMarks float64 `bson:"normalized_marks"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		marks = append(marks, doc.NormalizedMarks)
	}
	return marks, cur.Err()
}

// FindByBucket returns every score sharing the bucket, ordered by
// descending normalized marks with insertion order breaking ties.
func (r *ScoreRepository) FindByBucket(ctx context.Context, bucket string) ([]models.CandidateScore, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "normalized_marks", Value: -1},
		{Key: "created_at", Value: 1},
	})
	cur, err := r.Col.Find(ctx, bson.M{"rank_bucket": bucket}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var scores []models.CandidateScore
	for cur.Next(ctx) {
		var s models.CandidateScore
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, cur.Err()
}

// BulkUpdateRanks rewrites resolved ranks in a single batched write.
func (r *ScoreRepository) BulkUpdateRanks(ctx context.Context, updates []models.RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, len(updates))
	for i, u := range updates {
		writes[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": u.ID}).
			SetUpdate(bson.M{"$set": bson.M{"resolved_rank": u.Rank, "updated_at": time.Now()}})
	}
	_, err := r.Col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	return err
}

// WithTransaction runs fn inside a mongo session transaction so bucket
// renumbering reads and writes a consistent snapshot.
func (r *ScoreRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
