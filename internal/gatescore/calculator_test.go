package gatescore

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	testCases := []struct {
		name       string
		normalized float64
		cutoff     float64
		topper     float64
		want       float64
	}{
		{"zero topper", 60, 25, 0, 0},
		{"at cutoff", 25, 25, 80, 0},
		{"below cutoff", 10, 25, 80, 0},
		{"topper equals cutoff", 60, 25, 25, 0},
		{"cutoff maps just above 350", 25.0001, 25, 80, 350 + 650*0.0001/55},
		{"topper maps to 1000", 80, 25, 80, 1000},
		{"midpoint", 52.5, 25, 80, 675},
		{"above topper exceeds 1000", 90, 25, 80, 350 + 650*65.0/55},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.normalized, tc.cutoff, tc.topper)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

type fakeCohort struct {
	count  int64
	top    []float64
	gotN   int
	topErr error
}

func (f *fakeCohort) CountByDepartment(ctx context.Context, department string) (int64, error) {
	return f.count, nil
}

func (f *fakeCohort) TopNormalized(ctx context.Context, department string, n int) ([]float64, error) {
	f.gotN = n
	if f.topErr != nil {
		return nil, f.topErr
	}
	if n > len(f.top) {
		n = len(f.top)
	}
	return f.top[:n], nil
}

func TestTopperReference(t *testing.T) {
	cohort := &fakeCohort{count: 3, top: []float64{88, 84, 80}}
	got, err := TopperReference(context.Background(), cohort, "CE")
	if err != nil {
		t.Fatalf("TopperReference returned error: %v", err)
	}
	if cohort.gotN != 1 {
		t.Errorf("Expected top 1 of a cohort of 3, asked for %d", cohort.gotN)
	}
	if got != 88 {
		t.Errorf("Expected 88, got %v", got)
	}
}

func TestTopperReferencePerMille(t *testing.T) {
	cohort := &fakeCohort{count: 1500, top: []float64{90, 86}}
	got, err := TopperReference(context.Background(), cohort, "CE")
	if err != nil {
		t.Fatalf("TopperReference returned error: %v", err)
	}
	if cohort.gotN != 2 {
		t.Errorf("Expected ceil(1500/1000)=2, asked for %d", cohort.gotN)
	}
	if got != 88 {
		t.Errorf("Expected mean 88, got %v", got)
	}
}

func TestTopperReferenceReadError(t *testing.T) {
	cohort := &fakeCohort{count: 3, topErr: errors.New("cursor closed")}
	if _, err := TopperReference(context.Background(), cohort, "CE"); err == nil {
		t.Fatal("Expected a cohort read error to propagate")
	}
}

func TestTopperReferenceEmptyCohort(t *testing.T) {
	got, err := TopperReference(context.Background(), &fakeCohort{count: 0}, "CE")
	if err != nil {
		t.Fatalf("TopperReference returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0 for an empty cohort, got %v", got)
	}
}
