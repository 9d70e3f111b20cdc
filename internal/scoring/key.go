package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"gatescore-service/internal/models"
)

// Key is a compiled answer key entry. Score matches a cleaned candidate
// answer and returns correctness plus the marks awarded, applying the
// marking rule of the underlying question type.
type Key interface {
	Score(candidate string) (correct bool, awarded float64)
	CorrectAnswer() string
}

// CompileKey builds the type-specific Key for an entry. An entry whose
// canonical answer is the MTA sentinel compiles to an attempt-only key no
// matter what type the row declares.
func CompileKey(entry models.AnswerKeyEntry) (Key, error) {
	if entry.Answer == models.MTASentinel || entry.QuestionType == models.TypeMTA {
		return mtaKey{answer: entry.Answer, mark: entry.Mark}, nil
	}
	switch entry.QuestionType {
	case models.TypeMCQ:
		return mcqKey{answer: entry.Answer, mark: entry.Mark}, nil
	case models.TypeMSQ:
		return msqKey{answer: entry.Answer, mark: entry.Mark}, nil
	case models.TypeNAT:
		return natKey{answer: entry.Answer, mark: entry.Mark}, nil
	}
	return nil, fmt.Errorf("unknown question type %q", entry.QuestionType)
}

// mtaKey awards full marks to any attempt.
type mtaKey struct {
	answer string
	mark   float64
}

func (k mtaKey) Score(string) (bool, float64) { return true, k.mark }
func (k mtaKey) CorrectAnswer() string        { return k.answer }

// mcqKey matches a single option case-insensitively. A wrong answer costs
// one third of the question's marks.
type mcqKey struct {
	answer string
	mark   float64
}

func (k mcqKey) Score(candidate string) (bool, float64) {
	if strings.EqualFold(candidate, k.answer) {
		return true, k.mark
	}
	return false, -(k.mark / 3)
}

func (k mcqKey) CorrectAnswer() string { return k.answer }

// msqKey requires the exact option set, no partial credit and no penalty.
type msqKey struct {
	answer string
	mark   float64
}

func (k msqKey) Score(candidate string) (bool, float64) {
	chosen := optionSet(candidate)
	if chosen == nil {
		return false, 0
	}
	correct := optionSet(k.answer)
	if len(correct) != len(chosen) {
		return false, 0
	}
	for opt := range correct {
		if _, ok := chosen[opt]; !ok {
			return false, 0
		}
	}
	return true, k.mark
}

func (k msqKey) CorrectAnswer() string { return k.answer }

func optionSet(answer string) map[string]struct{} {
	cleaned := strings.ToLower(strings.ReplaceAll(answer, " ", ""))
	if cleaned == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, opt := range strings.Split(cleaned, ",") {
		set[opt] = struct{}{}
	}
	return set
}

// natKey accepts a value inside any of its alternatives. Alternatives are
// the canonical "x OR a to b" string: a part containing "to" is a closed
// interval, anything else a single point. No penalty for a wrong or
// unparsable answer.
type natKey struct {
	answer string
	mark   float64
}

func (k natKey) Score(candidate string) (bool, float64) {
	value, err := strconv.ParseFloat(candidate, 64)
	if err != nil {
		return false, 0
	}
	compact := strings.ReplaceAll(k.answer, " ", "")
	for _, alt := range strings.Split(compact, "OR") {
		if lower, upper, ok := strings.Cut(alt, "to"); ok {
			lo, errLo := strconv.ParseFloat(lower, 64)
			hi, errHi := strconv.ParseFloat(upper, 64)
			if errLo == nil && errHi == nil && lo <= value && value <= hi {
				return true, k.mark
			}
			continue
		}
		if point, err := strconv.ParseFloat(alt, 64); err == nil && point == value {
			return true, k.mark
		}
	}
	return false, 0
}

func (k natKey) CorrectAnswer() string { return k.answer }
