package models

import "time"

// Slot is one exam administration instance: a department plus an optional
// shift and date. Each slot owns its answer key and its candidate cohort.
type Slot struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	Department          string    `bson:"department" json:"department"`
	Shift               string    `bson:"shift,omitempty" json:"shift,omitempty"`
	Date                time.Time `bson:"date,omitempty" json:"date,omitempty"`
	PassingMarksGeneral float64   `bson:"passing_marks_general" json:"passing_marks_general"`
	Status              bool      `bson:"status" json:"status"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}
