package normalize

import (
	"context"
	"errors"
	"math"
	"testing"
)

type fakeStats struct {
	sessionMean, sessionStd       float64
	departmentMean, departmentStd float64
	err                           error
	calls                         int
}

func (f *fakeStats) SessionStats(ctx context.Context, slotID string) (float64, float64, error) {
	f.calls++
	return f.sessionMean, f.sessionStd, f.err
}

func (f *fakeStats) DepartmentStats(ctx context.Context, department string) (float64, float64, error) {
	f.calls++
	return f.departmentMean, f.departmentStd, f.err
}

func TestNormalizeIdentityOutsideDepartments(t *testing.T) {
	engine := NewEngine(DefaultDepartments)
	stats := &fakeStats{sessionMean: 40, sessionStd: 10, departmentMean: 50, departmentStd: 12}

	for _, raw := range []float64{-5, 0, 33.5, 100} {
		got, err := engine.Normalize(context.Background(), stats, raw, "slot-1", "ME")
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if got != raw {
			t.Errorf("Expected identity for ME, got %v for raw %v", got, raw)
		}
	}
	if stats.calls != 0 {
		t.Errorf("Expected no cohort reads for identity departments, got %d", stats.calls)
	}
}

func TestNormalizeFormula(t *testing.T) {
	engine := NewEngine([]string{"CE", "CSIT"})
	stats := &fakeStats{sessionMean: 40, sessionStd: 10, departmentMean: 50, departmentStd: 20}

	// (60-40)/10*20+50 = 90
	got, err := engine.Normalize(context.Background(), stats, 60, "slot-1", "CE")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if math.Abs(got-90) > 1e-9 {
		t.Errorf("Expected 90, got %v", got)
	}
}

func TestNormalizeZeroVarianceGuard(t *testing.T) {
	engine := NewEngine([]string{"CE"})
	stats := &fakeStats{sessionMean: 40, sessionStd: 0, departmentMean: 50, departmentStd: 0}

	// Both stddevs substituted with 1: (60-40)/1*1+50 = 70
	got, err := engine.Normalize(context.Background(), stats, 60, "slot-1", "CE")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if math.Abs(got-70) > 1e-9 {
		t.Errorf("Expected 70, got %v", got)
	}
}

func TestNormalizePropagatesStatsErrors(t *testing.T) {
	engine := NewEngine([]string{"CE"})
	stats := &fakeStats{err: errors.New("cohort unavailable")}

	if _, err := engine.Normalize(context.Background(), stats, 60, "slot-1", "CE"); err == nil {
		t.Error("Expected an error when cohort stats fail")
	}
}
