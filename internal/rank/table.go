package rank

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Lookup sentinels, returned instead of a bucket when no rank can be read
// off the table. They are messages for the caller, never resolvable ranks.
const (
	BranchNotFound = "Branch not found"
	OutOfRange     = "Marks out of range"
	LowMarks       = "Can't predict rank with low marks"
)

// Band maps a raw-marks range onto a rank bucket. An open band has no
// upper limit. An empty bucket marks a range too low to predict from.
type Band struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Open   bool    `json:"open,omitempty"`
	Bucket string  `json:"rank_bucket"`
}

// Table is the department-keyed score-to-rank reference data. Bands are
// checked in order, so each department's list runs from high marks down.
type Table map[string][]Band

// Lookup returns the rank bucket for the marks, or one of the sentinel
// messages when the department is unknown, the marks fall outside every
// band, or the matched band is marked unpredictable.
func (t Table) Lookup(marks float64, department string) string {
	bands, ok := t[department]
	if !ok {
		return BranchNotFound
	}
	for _, band := range bands {
		if band.Open {
			if marks >= band.Lower {
				return band.Bucket
			}
			continue
		}
		if band.Lower <= marks && marks <= band.Upper {
			if band.Bucket == "" {
				return LowMarks
			}
			return band.Bucket
		}
	}
	return OutOfRange
}

// IsSentinel reports whether s is a lookup message rather than a bucket.
func IsSentinel(s string) bool {
	switch s {
	case BranchNotFound, OutOfRange, LowMarks:
		return true
	}
	return false
}

// BucketLowerBound parses the numeric anchor of a bucket string, either
// "<lower>-<upper>" or the open-ended "<lower>+".
func BucketLowerBound(bucket string) (int, error) {
	compact := strings.ReplaceAll(bucket, " ", "")
	compact = strings.TrimSuffix(compact, "+")
	lower, _, _ := strings.Cut(compact, "-")
	n, err := strconv.Atoi(lower)
	if err != nil {
		return 0, fmt.Errorf("invalid rank bucket %q: %w", bucket, err)
	}
	return n, nil
}

// LoadTable reads a department-keyed band table from a JSON file, for
// deployments that ship their own reference data.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rank table: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse rank table: %w", err)
	}
	return t, nil
}

// DefaultTable is the built-in reference data, per department from the
// strongest band down. The bottom band of each list is kept unpredictable.
var DefaultTable = Table{
	"CE": {
		{Lower: 85, Open: true, Bucket: "1-10"},
		{Lower: 75, Upper: 85, Bucket: "10-50"},
		{Lower: 65, Upper: 75, Bucket: "50-200"},
		{Lower: 55, Upper: 65, Bucket: "200-500"},
		{Lower: 45, Upper: 55, Bucket: "500-1500"},
		{Lower: 35, Upper: 45, Bucket: "1500-5000"},
		{Lower: 25, Upper: 35, Bucket: "5000-15000"},
		{Lower: 15, Upper: 25, Bucket: ""},
	},
	"CSIT": {
		{Lower: 88, Open: true, Bucket: "1-10"},
		{Lower: 80, Upper: 88, Bucket: "10-50"},
		{Lower: 70, Upper: 80, Bucket: "50-200"},
		{Lower: 60, Upper: 70, Bucket: "200-500"},
		{Lower: 50, Upper: 60, Bucket: "500-1500"},
		{Lower: 40, Upper: 50, Bucket: "1500-5000"},
		{Lower: 28, Upper: 40, Bucket: "5000-15000"},
		{Lower: 18, Upper: 28, Bucket: ""},
	},
	"EE": {
		{Lower: 85, Open: true, Bucket: "1-10"},
		{Lower: 76, Upper: 85, Bucket: "10-50"},
		{Lower: 66, Upper: 76, Bucket: "50-200"},
		{Lower: 56, Upper: 66, Bucket: "200-500"},
		{Lower: 46, Upper: 56, Bucket: "500-1500"},
		{Lower: 36, Upper: 46, Bucket: "1500-5000"},
		{Lower: 26, Upper: 36, Bucket: "5000-15000"},
		{Lower: 16, Upper: 26, Bucket: ""},
	},
	"ME": {
		{Lower: 84, Open: true, Bucket: "1-10"},
		{Lower: 74, Upper: 84, Bucket: "10-50"},
		{Lower: 64, Upper: 74, Bucket: "50-200"},
		{Lower: 54, Upper: 64, Bucket: "200-500"},
		{Lower: 44, Upper: 54, Bucket: "500-1500"},
		{Lower: 34, Upper: 44, Bucket: "1500-5000"},
		{Lower: 24, Upper: 34, Bucket: "5000-15000"},
		{Lower: 14, Upper: 24, Bucket: ""},
	},
	"ECE": {
		{Lower: 86, Open: true, Bucket: "1-10"},
		{Lower: 77, Upper: 86, Bucket: "10-50"},
		{Lower: 67, Upper: 77, Bucket: "50-200"},
		{Lower: 57, Upper: 67, Bucket: "200-500"},
		{Lower: 47, Upper: 57, Bucket: "500-1500"},
		{Lower: 37, Upper: 47, Bucket: "1500-5000"},
		{Lower: 27, Upper: 37, Bucket: "5000-15000"},
		{Lower: 17, Upper: 27, Bucket: ""},
	},
}
