package answerkey

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gatescore-service/internal/models"
)

var requiredColumns = []string{"question_no", "question_id", "q_type", "answer", "mark"}

var natGroupRe = regexp.MustCompile(`\((.*?)\)`)

// Load parses a delimited answer key into canonical entries. Every row is
// validated before any entry is returned: a missing header column yields a
// *FormatError, failed rows are collected into RowErrors and the whole
// batch is rejected. Extra columns are ignored.
func Load(r io.Reader) ([]models.AnswerKeyEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &FormatError{Missing: requiredColumns}
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{Missing: missing}
	}

	var entries []models.AnswerKeyEntry
	var rowErrs RowErrors

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, QuestionNo: "Unknown", Reason: err.Error()})
			continue
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		entry, err := validateRow(
			field("question_no"),
			field("question_id"),
			field("q_type"),
			field("answer"),
			field("mark"),
		)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: row, QuestionNo: orUnknown(field("question_no")), Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return entries, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func validateRow(questionNo, questionID, qType, answer, mark string) (models.AnswerKeyEntry, error) {
	var entry models.AnswerKeyEntry

	if questionNo == "" || questionID == "" || qType == "" || mark == "" {
		return entry, fmt.Errorf("missing required fields")
	}
	if !models.ValidQuestionType(qType) {
		return entry, fmt.Errorf("invalid question type %q", qType)
	}
	if answer == "" && qType != models.TypeMTA {
		return entry, fmt.Errorf("missing answer")
	}

	no, err := strconv.Atoi(questionNo)
	if err != nil {
		return entry, fmt.Errorf("invalid question_no %q", questionNo)
	}
	id, err := strconv.ParseInt(questionID, 10, 64)
	if err != nil {
		return entry, fmt.Errorf("invalid question_id %q", questionID)
	}
	markValue, err := strconv.ParseFloat(mark, 64)
	if err != nil || markValue < 0 {
		return entry, fmt.Errorf("invalid mark value, must be a non-negative number")
	}

	canonical, err := canonicalAnswer(qType, answer)
	if err != nil {
		return entry, err
	}

	entry = models.AnswerKeyEntry{
		QuestionNo:   no,
		QuestionID:   id,
		QuestionType: qType,
		Answer:       canonical,
		Mark:         markValue,
	}
	return entry, nil
}

// canonicalAnswer rewrites the source answer into the form the scoring
// engine matches against. The rewrite depends on the question type, see
// the AnswerKeyEntry documentation for the stored shapes.
func canonicalAnswer(qType, answer string) (string, error) {
	switch qType {
	case models.TypeMCQ:
		options := splitOptions(answer)
		if len(options) != 1 || !isSingleAlpha(options[0]) {
			return "", fmt.Errorf("invalid answer for MCQ, must be a single alphabetic character")
		}
		return options[0], nil

	case models.TypeMSQ:
		options := splitOptions(answer)
		for _, opt := range options {
			if !isSingleAlpha(opt) {
				return "", fmt.Errorf("invalid options for MSQ, options must be single alphabetic characters")
			}
		}
		return strings.Join(options, ","), nil

	case models.TypeNAT:
		groups := natGroupRe.FindAllStringSubmatch(answer, -1)
		if len(groups) == 0 {
			return "", fmt.Errorf("invalid NAT answer format, expected parenthesized groups")
		}
		parts := make([]string, 0, len(groups))
		for _, g := range groups {
			part := g[1]
			if strings.Contains(part, "-") {
				part = strings.ReplaceAll(part, "-", " to ")
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, " OR "), nil

	case models.TypeMTA:
		if answer != "" && answer != models.MTASentinel {
			if _, err := strconv.ParseFloat(answer, 64); err != nil {
				return "", fmt.Errorf("invalid answer for MTA, must be a number if provided")
			}
		}
		return answer, nil
	}
	return "", fmt.Errorf("invalid question type %q", qType)
}

func splitOptions(answer string) []string {
	trimmed := strings.Trim(answer, "()")
	parts := strings.Split(trimmed, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		options = append(options, strings.TrimSpace(p))
	}
	return options
}

func isSingleAlpha(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
