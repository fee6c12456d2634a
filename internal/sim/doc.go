// Package sim provides the primitives shared by the aquasim integrators.
//
// Both numerical models in this module are fixed-step loops that terminate on a
// physical threshold crossing:
//
//   - propulsion: water expulsion then gas blow-down until tank pressure
//     reaches atmospheric
//   - flight: vertical ascent until the first descending step (apogee)
//
// Neither threshold is provably reached for every configuration, so every loop
// runs under a [Limits] step budget and reports [ErrNonTerminating] wrapped in
// a [SimError] when the budget is exhausted.
//
// # Thread Safety
//
// Individual runs are single-threaded. [Parallel] fans independent runs out
// over a bounded worker set; runs never share mutable state.
package sim
