package scoring

import (
	"math"
	"reflect"
	"testing"

	"gatescore-service/internal/models"
)

func entry(no int, id int64, qType, answer string, mark float64) models.AnswerKeyEntry {
	return models.AnswerKeyEntry{QuestionNo: no, QuestionID: id, QuestionType: qType, Answer: answer, Mark: mark}
}

func response(id int64, qType, answer string) models.ResponseRecord {
	return models.ResponseRecord{QuestionID: id, QuestionType: qType, CandidateAnswer: answer}
}

func TestMCQScoring(t *testing.T) {
	testCases := []struct {
		name        string
		candidate   string
		wantCorrect bool
		wantMarks   float64
	}{
		{"exact match", "a", true, 3},
		{"case insensitive", "A", true, 3},
		{"wrong option penalised", "b", false, -1.0},
		{"empty answer penalised", "", false, -1.0},
	}

	engine := NewEngine([]models.AnswerKeyEntry{entry(1, 101, models.TypeMCQ, "a", 3)})
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scored, total := engine.Score([]models.ResponseRecord{response(101, models.TypeMCQ, tc.candidate)})
			if len(scored) != 1 {
				t.Fatalf("Expected 1 scored response, got %d", len(scored))
			}
			if scored[0].IsCorrect != tc.wantCorrect {
				t.Errorf("Expected correct=%v, got %v", tc.wantCorrect, scored[0].IsCorrect)
			}
			if math.Abs(scored[0].MarksAwarded-tc.wantMarks) > 1e-9 {
				t.Errorf("Expected marks %v, got %v", tc.wantMarks, scored[0].MarksAwarded)
			}
			if math.Abs(total-tc.wantMarks) > 1e-9 {
				t.Errorf("Expected total %v, got %v", tc.wantMarks, total)
			}
		})
	}
}

func TestMSQExactSetMatch(t *testing.T) {
	testCases := []struct {
		name        string
		candidate   string
		wantCorrect bool
		wantMarks   float64
	}{
		{"same order", "a,b", true, 2},
		{"order insensitive", "b,a", true, 2},
		{"case insensitive", "B,A", true, 2},
		{"spaced input", " b, a ", true, 2},
		{"subset gets zero", "a", false, 0},
		{"superset gets zero", "a,b,c", false, 0},
		{"no negative marking", "c,d", false, 0},
	}

	engine := NewEngine([]models.AnswerKeyEntry{entry(1, 201, models.TypeMSQ, "a,b", 2)})
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scored, _ := engine.Score([]models.ResponseRecord{response(201, models.TypeMSQ, tc.candidate)})
			if scored[0].IsCorrect != tc.wantCorrect || scored[0].MarksAwarded != tc.wantMarks {
				t.Errorf("Expected (%v, %v), got (%v, %v)",
					tc.wantCorrect, tc.wantMarks, scored[0].IsCorrect, scored[0].MarksAwarded)
			}
		})
	}
}

func TestNATRangesAndPoints(t *testing.T) {
	testCases := []struct {
		name        string
		answer      string
		candidate   string
		wantCorrect bool
	}{
		{"inside range", "2 to 4", "3.5", true},
		{"lower bound inclusive", "2 to 4", "2", true},
		{"upper bound inclusive", "2 to 4", "4", true},
		{"just above range", "2 to 4", "4.01", false},
		{"exact point", "3.99", "3.99", true},
		{"wrong point", "3.99", "3.98", false},
		{"second alternative", "3.99 OR 2 to 4", "2.5", true},
		{"third alternative", "3.99 OR 2 to 4 OR 5 to 6", "5.5", true},
		{"between alternatives", "3.99 OR 2 to 4 OR 5 to 6", "4.5", false},
		{"unparsable candidate", "2 to 4", "three", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := NewEngine([]models.AnswerKeyEntry{entry(1, 301, models.TypeNAT, tc.answer, 2)})
			scored, _ := engine.Score([]models.ResponseRecord{response(301, models.TypeNAT, tc.candidate)})
			if scored[0].IsCorrect != tc.wantCorrect {
				t.Errorf("Expected correct=%v, got %v", tc.wantCorrect, scored[0].IsCorrect)
			}
			wantMarks := 0.0
			if tc.wantCorrect {
				wantMarks = 2
			}
			if scored[0].MarksAwarded != wantMarks {
				t.Errorf("Expected marks %v, got %v", wantMarks, scored[0].MarksAwarded)
			}
		})
	}
}

func TestMTAAwardsAllAttempts(t *testing.T) {
	entries := []models.AnswerKeyEntry{
		entry(1, 401, models.TypeMTA, "2.5", 2),
		// MCQ row whose stored answer is the MTA sentinel
		entry(2, 402, models.TypeMCQ, models.MTASentinel, 3),
	}
	engine := NewEngine(entries)

	scored, total := engine.Score([]models.ResponseRecord{
		response(401, models.TypeMTA, "anything"),
		response(402, models.TypeMCQ, "z"),
	})

	for _, s := range scored {
		if !s.IsCorrect {
			t.Errorf("Expected question %d to be correct", s.QuestionID)
		}
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %v", total)
	}
}

func TestUnknownQuestionsSkipped(t *testing.T) {
	engine := NewEngine([]models.AnswerKeyEntry{entry(1, 101, models.TypeMCQ, "a", 3)})
	scored, total := engine.Score([]models.ResponseRecord{
		response(101, models.TypeMCQ, "a"),
		response(999, models.TypeMCQ, "a"),
	})
	if len(scored) != 1 {
		t.Fatalf("Expected 1 scored response, got %d", len(scored))
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %v", total)
	}
}

func TestTotalCanGoNegative(t *testing.T) {
	engine := NewEngine([]models.AnswerKeyEntry{
		entry(1, 101, models.TypeMCQ, "a", 3),
		entry(2, 102, models.TypeMCQ, "b", 3),
	})
	_, total := engine.Score([]models.ResponseRecord{
		response(101, models.TypeMCQ, "b"),
		response(102, models.TypeMCQ, "a"),
	})
	if math.Abs(total-(-2.0)) > 1e-9 {
		t.Errorf("Expected total -2, got %v", total)
	}
}

func TestScoringIdempotence(t *testing.T) {
	entries := []models.AnswerKeyEntry{
		entry(1, 101, models.TypeMCQ, "a", 3),
		entry(2, 201, models.TypeMSQ, "a,b", 2),
		entry(3, 301, models.TypeNAT, "2 to 4", 2),
	}
	responses := []models.ResponseRecord{
		response(101, models.TypeMCQ, "b"),
		response(201, models.TypeMSQ, "b,a"),
		response(301, models.TypeNAT, "3"),
	}

	engine := NewEngine(entries)
	first, firstTotal := engine.Score(responses)
	second, secondTotal := engine.Score(responses)

	if firstTotal != secondTotal {
		t.Errorf("Totals differ: %v vs %v", firstTotal, secondTotal)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Scored responses differ between runs")
	}
}

func TestScoredResponseCarriesKeyMetadata(t *testing.T) {
	engine := NewEngine([]models.AnswerKeyEntry{entry(7, 101, models.TypeMCQ, "a", 3)})
	scored, _ := engine.Score([]models.ResponseRecord{response(101, models.TypeMCQ, " a ")})
	s := scored[0]
	if s.QuestionNo != 7 {
		t.Errorf("Expected question_no from the key, got %d", s.QuestionNo)
	}
	if s.CandidateAnswer != "a" {
		t.Errorf("Expected cleaned candidate answer, got %q", s.CandidateAnswer)
	}
	if s.CorrectAnswer != "a" {
		t.Errorf("Expected correct answer from the key, got %q", s.CorrectAnswer)
	}
}
