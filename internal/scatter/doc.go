// Package scatter solves the one-dimensional, time-independent scattering
// problem in dimensionless form
//
//	y''(x) + (e − v(x))·y(x) = 0
//
// for a potential v sampled at x_m = m·dx inside the scattering region
// [0, (n−1)·dx] and zero in the leads on either side. In the leads the
// solution is a superposition of plane waves with k = sqrt(e):
//
//	y(x) = a·exp(ikx) + b·exp(−ikx)   x < 0
//	y(x) = c·exp(ikx) + d·exp(−ikx)   x > (n−1)·dx
//
// A particle incident from the right has a = 0 and is normalized to d = 1;
// a particle incident from the left has d = 0 and is normalized to a = 1.
//
//   - [Amplitudes]: reflection and transmission amplitudes r, t
//   - [Wavefunction]: y(x_m) inside the scattering region
//   - [AmplitudesBatch], [WavefunctionBatch]: many energies, one potential
//
// Complex potentials are allowed; an absorptive potential (negative imaginary
// part) gives |r|² + |t|² < 1, the deficit being the loss probability.
//
// # Concurrency
//
// All functions are pure. Batches split the energies into chunks that are
// propagated on separate goroutines; the recursion along the grid itself is
// sequential for every energy.
package scatter
