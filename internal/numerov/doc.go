// Package numerov integrates linear second-order ODEs of the form
//
//	y''(x) + q(x)·y(x) = 0
//
// on a uniform grid with the three-point Numerov recursion
//
//	a_i·y_i = b_{i-1}·y_{i-1} − a_{i-2}·y_{i-2}
//	a_i = 12 + dx²·q_i,  b_i = 24 − 10·dx²·q_i
//
// which has fourth-order local accuracy and suits oscillatory as well as
// exponentially growing solutions.
//
//   - [Full]: every propagated value
//   - [Partial]: only the last two values, nothing else is retained
//   - [FullBatch], [PartialBatch]: many lanes sharing one grid
//
// Coefficients may be complex. Full and partial mode run the same loop, so
// the tail of a full propagation equals the partial result exactly.
package numerov
