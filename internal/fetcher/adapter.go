package fetcher

import (
	"context"
	"errors"
	"fmt"

	"gatescore-service/internal/models"
)

// ResponseAdapter supplies a candidate's raw per-question responses from a
// source reference (the published response-sheet URL). Adapter failures
// are *FetchError, malformed adapter output is ErrInvalidResponseFormat;
// neither is ever mixed up with a scoring error.
type ResponseAdapter interface {
	Fetch(ctx context.Context, sourceRef string) ([]models.ResponseRecord, error)
}

// FetchError is a failure of the external response source itself.
type FetchError struct {
	SourceRef string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch response sheet %s: %v", e.SourceRef, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrInvalidResponseFormat means the adapter returned records that do not
// conform to the ResponseRecord shape.
var ErrInvalidResponseFormat = errors.New("response sheet data has invalid format")

// ValidateRecords checks the adapter output shape: every record needs a
// question id and a known question type.
func ValidateRecords(records []models.ResponseRecord) error {
	for _, rec := range records {
		if rec.QuestionID == 0 || !models.ValidQuestionType(rec.QuestionType) {
			return ErrInvalidResponseFormat
		}
	}
	return nil
}
