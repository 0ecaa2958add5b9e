// Package analysis inspects computed wave functions.
//
// The package currently offers a momentum decomposition:
//
//   - [Momentum]: power spectrum of ψ over the wave numbers the grid resolves
//   - [MomentumSpectrum.Dominant]: the strongest wave number
//   - [MomentumSpectrum.ForwardFraction]: share of the power travelling towards +x
//
// # Reading a scattering state
//
// Left of a barrier a right-incident state is a mix of exp(−ikx) and the
// reflected exp(+ikx); the forward fraction of that region approximates |r|²
// relative to the total:
//
//	sp, err := analysis.Momentum(psi[:cut], dx)
//	if err == nil {
//	    fmt.Println(sp.ForwardFraction())
//	}
package analysis
