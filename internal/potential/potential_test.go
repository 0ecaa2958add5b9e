package potential

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	x, dx, err := Grid(0, 1, 11)
	require.NoError(t, err)
	require.Len(t, x, 11)
	assert.InDelta(t, 0.1, dx, 1e-15)
	assert.Equal(t, 0.0, x[0])
	assert.Equal(t, 1.0, x[10])
	for i := 1; i < len(x); i++ {
		assert.InDelta(t, dx, x[i]-x[i-1], 1e-12)
	}
}

func TestGridInvalid(t *testing.T) {
	_, _, err := Grid(0, 1, 1)
	require.ErrorIs(t, err, ErrGridPoints)

	_, _, err = Grid(1, 1, 10)
	require.ErrorIs(t, err, ErrGridRange)

	_, _, err = Grid(0, math.Inf(1), 10)
	require.ErrorIs(t, err, ErrGridRange)
}

func TestReal(t *testing.T) {
	assert.Equal(t, []complex128{1, -2, 0}, Real([]float64{1, -2, 0}))
}

func TestRectangular(t *testing.T) {
	r := Rectangular{Height: 1 - 0.5i, Start: 0.2, End: 0.6}
	v := r.Sample([]float64{0, 0.2, 0.4, 0.6, 0.8})
	assert.Equal(t, []complex128{0, 1 - 0.5i, 1 - 0.5i, 1 - 0.5i, 0}, v)
	assert.Equal(t, "rectangular", r.Name())
}

func TestGaussian(t *testing.T) {
	g := Gaussian{Height: 2, Width: 1}
	v := g.Sample([]float64{0, 1, -1})
	assert.Equal(t, complex128(2), v[0])
	assert.InDelta(t, 2*math.Exp(-2), real(v[1]), 1e-15)
	assert.Equal(t, v[1], v[2])
	assert.Zero(t, imag(v[1]))
}

func TestLattice(t *testing.T) {
	l := Lattice{Height: 10, Period: 1, Cells: 3}
	x, _, err := Grid(-1, 4, 101)
	require.NoError(t, err)
	v := l.Sample(x)

	for i, xi := range x {
		switch {
		case xi <= 0 || xi >= 3:
			assert.Zero(t, v[i], "x=%g", xi)
		default:
			s := math.Sin(math.Pi * xi)
			assert.InDelta(t, 10*s*s, real(v[i]), 1e-12, "x=%g", xi)
		}
	}
	assert.InDelta(t, 10, MaxAbs(v), 1e-9)
}

func TestShapesImplementShape(t *testing.T) {
	shapes := []Shape{Rectangular{}, Gaussian{Width: 1}, Lattice{Period: 1}}
	names := map[string]bool{}
	for _, s := range shapes {
		names[s.Name()] = true
		assert.Len(t, s.Sample([]float64{0, 1}), 2)
	}
	assert.Len(t, names, 3)
}
