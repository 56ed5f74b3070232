// Package solver implements the state-aggregation core that lets
// independently authored components share one flat state vector.
//
// Components declare named variables with initial values. At setup the
// [System] packs every variable into a single contiguous buffer and hands
// each component zero-copy views of its sub-ranges:
//
//   - [Slicer]: maps variable names to fixed index ranges
//   - [View]: read-only or writable window over the flat buffer
//   - [System]: registry, stage pipeline and per-step orchestration
//
// Every step the System copies the integrator-supplied vector into the
// live buffer, runs the ordered stage calls, then collects each
// component's partial derivatives into one output vector. The step path
// performs no allocation and no name lookups; all wiring is resolved at
// registration time.
//
// # Thread Safety
//
// A System is single-threaded by design. The state and return buffers are
// owned exclusively by the System; components only ever see views.
package solver
