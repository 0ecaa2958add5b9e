package numerov

import "math"

// coeffA and coeffB are the Numerov weights for a single grid point.
func coeffA(h2 float64, q complex128) complex128 {
	return 12 + complex(h2, 0)*q
}

func coeffB(h2 float64, q complex128) complex128 {
	return 24 - complex(10*h2, 0)*q
}

func checkStep(dx float64) error {
	if !(dx > 0) || math.IsInf(dx, 0) {
		return ErrStepSize
	}
	return nil
}

// Full propagates the seeds y0 = y(x_0) and y1 = y(x_0+dx) across q and
// returns all len(q) values.
func Full(q []complex128, y0, y1 complex128, dx float64) ([]complex128, error) {
	if len(q) < 2 {
		return nil, ErrShortSequence
	}
	if err := checkStep(dx); err != nil {
		return nil, err
	}
	y := make([]complex128, len(q))
	if _, _, err := propagate(q, y0, y1, dx, y); err != nil {
		return nil, err
	}
	return y, nil
}

// Partial propagates like Full but only returns the last two values.
func Partial(q []complex128, y0, y1 complex128, dx float64) (complex128, complex128, error) {
	if len(q) < 2 {
		return 0, 0, ErrShortSequence
	}
	if err := checkStep(dx); err != nil {
		return 0, 0, err
	}
	return propagate(q, y0, y1, dx, nil)
}

// propagate runs the recursion and stores every value into keep when it is
// non-nil. Both modes go through here so their tails agree exactly.
func propagate(q []complex128, y0, y1 complex128, dx float64, keep []complex128) (complex128, complex128, error) {
	h2 := dx * dx
	if keep != nil {
		keep[0], keep[1] = y0, y1
	}

	a2 := coeffA(h2, q[0]) // a_{i-2}
	a1 := coeffA(h2, q[1]) // a_{i-1}
	b1 := coeffB(h2, q[1]) // b_{i-1}

	for i := 2; i < len(q); i++ {
		a := coeffA(h2, q[i])
		if a == 0 {
			return 0, 0, &BreakdownError{Index: i}
		}
		y0, y1 = y1, (b1*y1-a2*y0)/a
		if keep != nil {
			keep[i] = y1
		}
		a2, a1 = a1, a
		b1 = coeffB(h2, q[i])
	}

	return y0, y1, nil
}
