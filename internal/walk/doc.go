// Package walk provides the discrete-time random walk engine.
//
// An [Engine] owns a batch of independent paths that all start at the
// origin and advance in lock-step, one move per path per tick. After every
// tick the engine appends one [StatSample] holding the observed mean squared
// displacement across the batch and the closed-form expectation for that
// step count.
//
// The move distribution and the squared-displacement function come from a
// [Process]:
//
//   - [Line]: ±1 on the integer line, p=1/2 each
//   - [Lattice]: one of the four unit axis moves on Z², p=1/4 each
//
// # Example
//
//	eng := walk.NewLine(walk.NewSource(42))
//	_ = eng.Initialize(walk.Params{MaxSteps: 100, SampleSize: 50})
//	for eng.Step() {
//	}
//	fmt.Println(eng.Last().Observed)
//
// # Thread Safety
//
// Engines are NOT safe for concurrent use. A single owner calls Step and the
// renderers read between ticks on the same goroutine.
package walk
