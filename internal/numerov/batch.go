package numerov

import "math/cmplx"

// FullBatch propagates several lanes that share one grid. q[i][j] is the
// coefficient at position i for lane j and y0[j], y1[j] seed lane j.
// The result is indexed the same way as q.
//
// A lane whose recursion breaks down is filled with NaN from the failing
// index on and reported in the returned LaneErrors; the other lanes are
// unaffected.
func FullBatch(q [][]complex128, y0, y1 []complex128, dx float64) ([][]complex128, error) {
	lanes, err := checkBatch(q, y0, y1, dx)
	if err != nil {
		return nil, err
	}
	y := make([][]complex128, len(q))
	for i := range y {
		y[i] = make([]complex128, lanes)
	}
	_, _, err = propagateBatch(q, y0, y1, dx, y)
	return y, err
}

// PartialBatch is the batch counterpart of Partial and returns the last two
// values of every lane.
func PartialBatch(q [][]complex128, y0, y1 []complex128, dx float64) ([]complex128, []complex128, error) {
	if _, err := checkBatch(q, y0, y1, dx); err != nil {
		return nil, nil, err
	}
	return propagateBatch(q, y0, y1, dx, nil)
}

func checkBatch(q [][]complex128, y0, y1 []complex128, dx float64) (int, error) {
	if len(q) < 2 {
		return 0, ErrShortSequence
	}
	if err := checkStep(dx); err != nil {
		return 0, err
	}
	lanes := len(y0)
	if len(y1) != lanes {
		return 0, ErrShapeMismatch
	}
	for _, row := range q {
		if len(row) != lanes {
			return 0, ErrShapeMismatch
		}
	}
	return lanes, nil
}

func propagateBatch(q [][]complex128, y0, y1 []complex128, dx float64, keep [][]complex128) ([]complex128, []complex128, error) {
	h2 := dx * dx
	lanes := len(y0)

	p0 := make([]complex128, lanes)
	p1 := make([]complex128, lanes)
	copy(p0, y0)
	copy(p1, y1)
	if keep != nil {
		copy(keep[0], y0)
		copy(keep[1], y1)
	}

	a2 := make([]complex128, lanes)
	a1 := make([]complex128, lanes)
	b1 := make([]complex128, lanes)
	for j := 0; j < lanes; j++ {
		a2[j] = coeffA(h2, q[0][j])
		a1[j] = coeffA(h2, q[1][j])
		b1[j] = coeffB(h2, q[1][j])
	}

	var errs LaneErrors
	for i := 2; i < len(q); i++ {
		row := q[i]
		for j := 0; j < lanes; j++ {
			if errs != nil && errs[j] != nil {
				if keep != nil {
					keep[i][j] = cmplx.NaN()
				}
				continue
			}
			a := coeffA(h2, row[j])
			if a == 0 {
				if errs == nil {
					errs = make(LaneErrors, lanes)
				}
				errs[j] = &BreakdownError{Lane: j, Index: i}
				p0[j], p1[j] = cmplx.NaN(), cmplx.NaN()
				if keep != nil {
					keep[i][j] = cmplx.NaN()
				}
				continue
			}
			p0[j], p1[j] = p1[j], (b1[j]*p1[j]-a2[j]*p0[j])/a
			if keep != nil {
				keep[i][j] = p1[j]
			}
			a2[j], a1[j] = a1[j], a
			b1[j] = coeffB(h2, row[j])
		}
	}

	if errs != nil {
		return p0, p1, errs
	}
	return p0, p1, nil
}
