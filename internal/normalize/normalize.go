package normalize

import (
	"context"
	"fmt"
	"strings"
)

// CohortStats supplies mean/stddev aggregates of raw marks over the
// candidate cohort. Implemented by the score repository, optionally
// fronted by the redis read-through cache.
type CohortStats interface {
	SessionStats(ctx context.Context, slotID string) (mean, stddev float64, err error)
	DepartmentStats(ctx context.Context, department string) (mean, stddev float64, err error)
}

// DefaultDepartments are the departments known to run multiple sessions,
// the only ones whose raw marks need cross-session rescaling.
var DefaultDepartments = []string{"CE", "CSIT"}

// Engine rescales raw marks across exam sessions. For departments outside
// its configured set normalization is the identity function.
type Engine struct {
	departments map[string]struct{}
}

func NewEngine(departments []string) *Engine {
	e := &Engine{departments: make(map[string]struct{}, len(departments))}
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d != "" {
			e.departments[d] = struct{}{}
		}
	}
	return e
}

// Applies reports whether the department's scores get z-score rescaling.
func (e *Engine) Applies(department string) bool {
	_, ok := e.departments[department]
	return ok
}

// Normalize maps the candidate's standing within their session onto the
// department-wide distribution:
//
//	normalized = (raw - sessionMean) / sessionStd * departmentStd + departmentMean
//
// A zero standard deviation on either side is substituted with 1 so a
// degenerate cohort never divides by zero.
func (e *Engine) Normalize(ctx context.Context, stats CohortStats, raw float64, slotID, department string) (float64, error) {
	if !e.Applies(department) {
		return raw, nil
	}

	sessionMean, sessionStd, err := stats.SessionStats(ctx, slotID)
	if err != nil {
		return 0, fmt.Errorf("session stats: %w", err)
	}
	departmentMean, departmentStd, err := stats.DepartmentStats(ctx, department)
	if err != nil {
		return 0, fmt.Errorf("department stats: %w", err)
	}

	if sessionStd == 0 {
		sessionStd = 1
	}
	if departmentStd == 0 {
		departmentStd = 1
	}

	return (raw-sessionMean)/sessionStd*departmentStd + departmentMean, nil
}
