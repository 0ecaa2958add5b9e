// Package viz provides terminal views of scattering spectra.
//
// The explorer is a Bubble Tea program showing the transmission spectrum of
// a potential, the potential itself on a Braille [Canvas] and the wave
// function at a selected energy.
//
// # Key Bindings
//
//	←/→ h/l - Select energy
//	PgUp/Dn - Jump ten energies
//	Tab     - Toggle incidence side
//	M       - Toggle |ψ|² / Re ψ
//	?       - Show help overlay
//	Q       - Quit
package viz
