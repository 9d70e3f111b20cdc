package scoring

import (
	"strings"

	"gatescore-service/internal/models"
)

// Engine matches candidate responses against a slot's compiled answer key.
type Engine struct {
	keys       map[int64]Key
	questionNo map[int64]int
}

// NewEngine compiles the slot's answer key entries and indexes them by
// question id. Entries that cannot be compiled are left out, which makes
// responses against them unscoreable rather than fatal.
func NewEngine(entries []models.AnswerKeyEntry) *Engine {
	e := &Engine{
		keys:       make(map[int64]Key, len(entries)),
		questionNo: make(map[int64]int, len(entries)),
	}
	for _, entry := range entries {
		key, err := CompileKey(entry)
		if err != nil {
			continue
		}
		e.keys[entry.QuestionID] = key
		e.questionNo[entry.QuestionID] = entry.QuestionNo
	}
	return e
}

// Score marks every response whose question id exists in the key and sums
// the awarded marks. Responses to unknown question ids are skipped
// silently. The total is not clamped at zero; MCQ penalties can drag it
// negative.
func (e *Engine) Score(responses []models.ResponseRecord) ([]models.ScoredResponse, float64) {
	scored := make([]models.ScoredResponse, 0, len(responses))
	var total float64

	for _, resp := range responses {
		key, ok := e.keys[resp.QuestionID]
		if !ok {
			continue
		}

		candidate := cleanAnswer(resp.CandidateAnswer)
		correct, awarded := key.Score(candidate)
		total += awarded

		scored = append(scored, models.ScoredResponse{
			QuestionNo:      e.questionNo[resp.QuestionID],
			QuestionID:      resp.QuestionID,
			CandidateAnswer: candidate,
			CorrectAnswer:   key.CorrectAnswer(),
			IsCorrect:       correct,
			MarksAwarded:    awarded,
		})
	}
	return scored, total
}

// cleanAnswer trims the candidate answer and removes internal whitespace,
// so "a, b" and "a,b" compare equal.
func cleanAnswer(answer string) string {
	return strings.ReplaceAll(strings.TrimSpace(answer), " ", "")
}
