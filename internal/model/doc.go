// Package model defines shared data types used across the mocap bridge.
//
// Conventions:
//   - Positions: r3.Vec, capture-system metres until adapted
//   - Orientations: quat.Number (Real=w, Imag=x, Jmag=y, Kmag=z), unit norm
//   - Timestamps: float64 capture-clock seconds
//   - IDs: int, as assigned by the capture system
package model
