package gatescore

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// TopCohort supplies the department-wide normalized marks needed for the
// topper reference. Implemented by the score repository.
type TopCohort interface {
	CountByDepartment(ctx context.Context, department string) (int64, error)
	TopNormalized(ctx context.Context, department string, n int) ([]float64, error)
}

// TopperReference computes the mean normalized marks of the department's
// top per-mille candidates (at least one). An empty cohort yields 0.
func TopperReference(ctx context.Context, cohort TopCohort, department string) (float64, error) {
	total, err := cohort.CountByDepartment(ctx, department)
	if err != nil {
		return 0, fmt.Errorf("cohort count: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	n := int((total + 999) / 1000)
	if n < 1 {
		n = 1
	}
	top, err := cohort.TopNormalized(ctx, department, n)
	if err != nil {
		return 0, fmt.Errorf("top cohort: %w", err)
	}
	if len(top) == 0 {
		return 0, nil
	}

	mean, err := stats.Mean(top)
	if err != nil {
		return 0, fmt.Errorf("topper mean: %w", err)
	}
	return mean, nil
}

// Calculate maps a normalized score onto the 350-1000 gate scale: the
// cutoff maps to 350 and the topper reference to 1000, anything at or
// below the cutoff scores 0. There is intentionally no upper clamp, so a
// candidate above the topper reference scores above 1000.
func Calculate(normalized, cutoff, topper float64) float64 {
	if topper == 0 || normalized <= cutoff || topper == cutoff {
		return 0
	}
	return 350 + 650*(normalized-cutoff)/(topper-cutoff)
}
