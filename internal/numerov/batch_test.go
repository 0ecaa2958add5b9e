package numerov

import (
	"errors"
	"math/cmplx"
	"testing"
)

func lanesOf(lanes [][]complex128) [][]complex128 {
	n := len(lanes[0])
	q := make([][]complex128, n)
	for i := range q {
		q[i] = make([]complex128, len(lanes))
		for j := range lanes {
			q[i][j] = lanes[j][i]
		}
	}
	return q
}

func TestBatchMatchesScalar(t *testing.T) {
	const n = 120
	energies := []float64{0.1, 0.7, 2.5, -0.4}
	lanes := make([][]complex128, len(energies))
	y0 := make([]complex128, len(energies))
	y1 := make([]complex128, len(energies))
	for j, e := range energies {
		lanes[j] = make([]complex128, n)
		for i := range lanes[j] {
			lanes[j][i] = complex(e-0.01*float64(i%13), -0.05)
		}
		y0[j] = complex(1, float64(j))
		y1[j] = complex(0.5, -0.1)
	}
	q := lanesOf(lanes)
	dx := 0.03

	full, err := FullBatch(q, y0, y1, dx)
	if err != nil {
		t.Fatalf("FullBatch failed: %v", err)
	}
	t0, t1, err := PartialBatch(q, y0, y1, dx)
	if err != nil {
		t.Fatalf("PartialBatch failed: %v", err)
	}

	for j := range energies {
		want, err := Full(lanes[j], y0[j], y1[j], dx)
		if err != nil {
			t.Fatalf("lane %d: Full failed: %v", j, err)
		}
		for i := range want {
			if full[i][j] != want[i] {
				t.Fatalf("lane %d index %d: batch %v != scalar %v", j, i, full[i][j], want[i])
			}
		}
		if t0[j] != want[n-2] || t1[j] != want[n-1] {
			t.Errorf("lane %d: partial tail (%v, %v) != (%v, %v)", j, t0[j], t1[j], want[n-2], want[n-1])
		}
	}
}

func TestBatchLaneFailureIsolated(t *testing.T) {
	lanes := [][]complex128{
		{1, 1, 1, 1, 1},
		{1, 1, -12, 1, 1},
		{2, 2, 2, 2, 2},
	}
	q := lanesOf(lanes)
	y0 := []complex128{1, 1, 1}
	y1 := []complex128{1, 1, 1}

	t0, t1, err := PartialBatch(q, y0, y1, 1)
	var le LaneErrors
	if !errors.As(err, &le) {
		t.Fatalf("expected LaneErrors, got %v", err)
	}
	if le.Lane(0) != nil || le.Lane(2) != nil {
		t.Errorf("healthy lanes reported errors: %v", le)
	}
	if !errors.Is(le.Lane(1), ErrBreakdown) {
		t.Errorf("lane 1: expected ErrBreakdown, got %v", le.Lane(1))
	}
	if !errors.Is(err, ErrBreakdown) {
		t.Error("LaneErrors should unwrap to ErrBreakdown")
	}
	if !cmplx.IsNaN(t1[1]) {
		t.Errorf("failed lane should be NaN, got %v", t1[1])
	}

	for _, j := range []int{0, 2} {
		w0, w1, err := Partial(lanes[j], 1, 1, 1)
		if err != nil {
			t.Fatalf("lane %d: %v", j, err)
		}
		if t0[j] != w0 || t1[j] != w1 {
			t.Errorf("lane %d disturbed by failing lane", j)
		}
	}

	full, err := FullBatch(q, y0, y1, 1)
	if !errors.Is(err, ErrBreakdown) {
		t.Fatalf("FullBatch: expected ErrBreakdown, got %v", err)
	}
	if !cmplx.IsNaN(full[4][1]) || cmplx.IsNaN(full[4][0]) {
		t.Errorf("unexpected full batch values: %v", full[4])
	}
}

func TestBatchShapeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		q      [][]complex128
		y0, y1 []complex128
	}{
		{"ragged rows", [][]complex128{{1, 1}, {1}, {1, 1}}, []complex128{1, 1}, []complex128{1, 1}},
		{"seed count", [][]complex128{{1, 1}, {1, 1}, {1, 1}}, []complex128{1}, []complex128{1, 1}},
		{"seed lengths differ", [][]complex128{{1}, {1}, {1}}, []complex128{1}, []complex128{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FullBatch(tt.q, tt.y0, tt.y1, 0.1); !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("FullBatch: expected ErrShapeMismatch, got %v", err)
			}
			if _, _, err := PartialBatch(tt.q, tt.y0, tt.y1, 0.1); !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("PartialBatch: expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}
