package models

// ResponseRecord is one question of a candidate's submitted response sheet,
// as delivered by the response adapter. It lives for a single scoring
// request and is never persisted.
type ResponseRecord struct {
	QuestionNo      int    `json:"question_no"`
	QuestionID      int64  `json:"question_id"`
	QuestionType    string `json:"q_type"`
	CandidateAnswer string `json:"candidate_answer"`
}

// ScoredResponse is the per-question outcome of matching a ResponseRecord
// against the answer key.
type ScoredResponse struct {
	QuestionNo      int     `json:"question_no"`
	QuestionID      int64   `json:"question_id"`
	CandidateAnswer string  `json:"candidate_answer"`
	CorrectAnswer   string  `json:"correct_answer"`
	IsCorrect       bool    `json:"is_correct"`
	MarksAwarded    float64 `json:"marks_awarded"`
}
