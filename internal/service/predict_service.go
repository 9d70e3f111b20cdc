package service

import (
	"context"
	"log"

	"gatescore-service/internal/event"
	"gatescore-service/internal/fetcher"
	"gatescore-service/internal/gatescore"
	"gatescore-service/internal/models"
	"gatescore-service/internal/normalize"
	"gatescore-service/internal/rank"
	"gatescore-service/internal/scoring"
)

// SlotFinder resolves the exam slot a prediction request targets.
type SlotFinder interface {
	FindByDepartment(ctx context.Context, department, shift string) (*models.Slot, error)
}

// KeyReader loads a slot's stored answer key.
type KeyReader interface {
	FindBySlot(ctx context.Context, slotID string) ([]models.AnswerKeyEntry, error)
}

// CohortRepository is the slice of the score store the pipeline writes
// and reads.
type CohortRepository interface {
	Upsert(ctx context.Context, score *models.CandidateScore) (*models.CandidateScore, error)
	UpdateNormalized(ctx context.Context, id string, normalized float64) error
	UpdateDerived(ctx context.Context, id string, normalized, gateScore float64, bucket string) error
	FindByUserAndSlot(ctx context.Context, userID, slotID string) (*models.CandidateScore, error)
	gatescore.TopCohort
}

// RankResolver renumbers one rank bucket; see rank.Resolver.
type RankResolver interface {
	Resolve(ctx context.Context, bucket string) error
}

// StatsInvalidator drops cached cohort aggregates after a score write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, slotID, department string) error
}

// EventSink receives domain events; wired to the AMQP publisher when one
// is configured.
type EventSink interface {
	Publish(eventType string, payload any) error
}

// PredictService runs the full scoring pipeline for one candidate
// submission: fetch responses, score against the key, persist, normalize,
// compute the gate score, and resolve the rank bucket.
type PredictService struct {
	Slots    SlotFinder
	Keys     KeyReader
	Cohort   CohortRepository
	Stats    normalize.CohortStats
	Cache    StatsInvalidator // nil when no redis is configured
	Adapter  fetcher.ResponseAdapter
	Norm     *normalize.Engine
	Table    rank.Table
	Resolver RankResolver
	Events   EventSink // nil when no broker is configured
}

func (s *PredictService) publish(eventType string, payload any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(eventType, payload); err != nil {
		log.Printf("Failed to publish %s: %v", eventType, err)
	}
}

// Predict scores the candidate's response sheet end to end. Rank
// resolution failures never fail the call: the persisted score and gate
// score are returned with the rank reported unavailable.
func (s *PredictService) Predict(ctx context.Context, userID, department, shift, sheetURL string) (*models.PredictionResult, error) {
	slot, err := s.Slots.FindByDepartment(ctx, department, shift)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	responses, err := s.Adapter.Fetch(ctx, sheetURL)
	if err != nil {
		return nil, err
	}

	entries, err := s.Keys.FindBySlot(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoAnswerKey
	}

	engine := scoring.NewEngine(entries)
	perQuestion, rawMarks := engine.Score(responses)

	stored, err := s.Cohort.Upsert(ctx, &models.CandidateScore{
		UserID:     userID,
		SlotID:     slot.ID,
		Department: slot.Department,
		RawMarks:   rawMarks,
		SheetURL:   sheetURL,
	})
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, slot.ID, slot.Department); err != nil {
			log.Printf("Failed to invalidate cohort stats cache: %v", err)
		}
	}

	normalized, err := s.Norm.Normalize(ctx, s.Stats, rawMarks, slot.ID, slot.Department)
	if err != nil {
		return nil, err
	}

	// The normalized marks go to the store before the topper read so the
	// candidate counts toward their own department's topper reference.
	if err := s.Cohort.UpdateNormalized(ctx, stored.ID, normalized); err != nil {
		return nil, err
	}

	topper, err := gatescore.TopperReference(ctx, s.Cohort, slot.Department)
	if err != nil {
		return nil, err
	}
	gateScore := gatescore.Calculate(normalized, slot.PassingMarksGeneral, topper)

	bucket := s.Table.Lookup(rawMarks, slot.Department)

	if err := s.Cohort.UpdateDerived(ctx, stored.ID, normalized, gateScore, bucket); err != nil {
		return nil, err
	}
	s.publish(event.ScoreComputed, map[string]any{
		"user_id":    userID,
		"slot_id":    slot.ID,
		"department": slot.Department,
		"raw_marks":  rawMarks,
		"gate_score": gateScore,
	})

	result := &models.PredictionResult{
		RawMarks:        rawMarks,
		NormalizedMarks: normalized,
		GateScore:       gateScore,
		RankBucket:      bucket,
		ResolvedRank:    models.RankUnavailable,
		PerQuestion:     perQuestion,
	}

	// Rank resolution is a deliberate partial-failure boundary: the score
	// above is already persisted, a ranking fault only degrades the rank.
	if !rank.IsSentinel(bucket) {
		if err := s.Resolver.Resolve(ctx, bucket); err != nil {
			log.Printf("Rank resolution failed for bucket %q: %v", bucket, err)
		} else if updated, err := s.Cohort.FindByUserAndSlot(ctx, userID, slot.ID); err != nil {
			log.Printf("Failed to reload resolved rank: %v", err)
		} else if updated != nil {
			result.ResolvedRank = updated.ResolvedRank
		}
	}
	if result.ResolvedRank == models.RankUnavailable {
		s.publish(event.RankUnavailable, map[string]any{"user_id": userID, "rank_bucket": bucket})
	} else {
		s.publish(event.RankResolved, map[string]any{"user_id": userID, "rank_bucket": bucket, "resolved_rank": result.ResolvedRank})
	}

	return result, nil
}
