package answerkey

import (
	"fmt"
	"strings"
)

// FormatError means the input itself is malformed (e.g. a required header
// column is missing) and no rows were examined.
type FormatError struct {
	Missing []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("answer key format is incorrect, missing columns: %s", strings.Join(e.Missing, ", "))
}

// RowError is a validation failure of a single answer key row.
type RowError struct {
	Row        int    `json:"row"`
	QuestionNo string `json:"question_no"`
	Reason     string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (question %s): %s", e.Row, e.QuestionNo, e.Reason)
}

// RowErrors aggregates every failed row of a batch. A batch with any row
// error is rejected as a whole.
type RowErrors []RowError

func (e RowErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("%d invalid rows: %s", len(e), strings.Join(msgs, "; "))
}
