package models

import "time"

// CandidateScore is the persistent score record, one per candidate and slot.
// NormalizedMarks, GateScore and ResolvedRank are derived fields recomputed
// on every scoring event. Department is denormalized from the slot so
// department-wide aggregates stay a single-collection query.
type CandidateScore struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	SlotID          string    `bson:"slot_id" json:"slot_id"`
	Department      string    `bson:"department" json:"department"`
	RawMarks        float64   `bson:"raw_marks" json:"raw_marks"`
	NormalizedMarks float64   `bson:"normalized_marks" json:"normalized_marks"`
	GateScore       float64   `bson:"gate_score" json:"gate_score"`
	RankBucket      string    `bson:"rank_bucket,omitempty" json:"rank_bucket,omitempty"`
	ResolvedRank    int       `bson:"resolved_rank,omitempty" json:"resolved_rank,omitempty"`
	SheetURL        string    `bson:"sheet_url,omitempty" json:"sheet_url,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// RankUpdate is one element of a bulk rank write-back.
type RankUpdate struct {
	ID   string
	Rank int
}

// RankUnavailable is reported when rank resolution failed but the score
// itself was computed and persisted.
const RankUnavailable = "unavailable"

// PredictionResult is the full outcome returned to the caller.
// ResolvedRank is either an int or RankUnavailable.
type PredictionResult struct {
	RawMarks        float64          `json:"raw_marks"`
	NormalizedMarks float64          `json:"normalized_marks"`
	GateScore       float64          `json:"gate_score"`
	RankBucket      string           `json:"rank_bucket"`
	ResolvedRank    any              `json:"resolved_rank"`
	PerQuestion     []ScoredResponse `json:"per_question"`
}
