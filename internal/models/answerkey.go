package models

// Question types recognised by the marking rules.
const (
	TypeMCQ = "MCQ" // single choice, negative marking
	TypeMSQ = "MSQ" // multi choice, exact set match
	TypeNAT = "NAT" // numeric answer, ranges allowed
	TypeMTA = "MTA" // marks to all who attempted
)

// MTASentinel in a stored answer grants full marks to every attempt,
// regardless of the entry's question type.
const MTASentinel = "MTA"

// ValidQuestionType reports whether t is one of the four known types.
func ValidQuestionType(t string) bool {
	switch t {
	case TypeMCQ, TypeMSQ, TypeNAT, TypeMTA:
		return true
	}
	return false
}

// AnswerKeyEntry is one row of a slot's answer key. Answer holds the
// canonical form produced at ingestion time: a single character for MCQ,
// comma-joined characters for MSQ, "x OR a to b" alternatives for NAT,
// and the verbatim (optional) value for MTA.
type AnswerKeyEntry struct {
	ID           string  `bson:"_id,omitempty" json:"id"`
	SlotID       string  `bson:"slot_id" json:"slot_id"`
	QuestionNo   int     `bson:"question_no" json:"question_no"`
	QuestionID   int64   `bson:"question_id" json:"question_id"`
	QuestionType string  `bson:"q_type" json:"q_type"`
	Answer       string  `bson:"answer" json:"answer"`
	Mark         float64 `bson:"mark" json:"mark"`
}
