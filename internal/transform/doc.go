// Package transform re-expresses capture-system poses in the target
// rendering engine's coordinate convention.
//
// The capture system reports right-handed, Y-up poses. The engine expects
// its own axis labelling, so every pose goes through a fixed sequence:
//   - a 180° local correction about capture X
//   - an intrinsic Z-X-Y Euler decomposition of the corrected orientation
//   - recomposition about engine X, -Y, -Z from those angles
//   - the position permutation (x, y, z) -> (-z, x, y)
//
// All functions are pure and safe for concurrent use.
package transform
