package model

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// UnitTolerance is the accepted drift of |q| from 1 for captured orientations.
const UnitTolerance = 1e-3

// -----------------------------------------------------------------------------
// Pose Types
// -----------------------------------------------------------------------------

// Pose is a rigid-body position and orientation. Values are never mutated
// after construction.
type Pose struct {
	Position    r3.Vec      // x, y, z
	Orientation quat.Number // w, x, y, z
}

// NewPose builds a pose from scalar components in capture order.
func NewPose(x, y, z, qw, qx, qy, qz float64) Pose {
	return Pose{
		Position:    r3.Vec{X: x, Y: y, Z: z},
		Orientation: quat.Number{Real: qw, Imag: qx, Jmag: qy, Kmag: qz},
	}
}

// IsUnit reports whether the orientation is a unit quaternion within UnitTolerance.
func (p Pose) IsUnit() bool {
	return math.Abs(quat.Abs(p.Orientation)-1) <= UnitTolerance
}

// RigidBodySample is one tracked body in one frame.
type RigidBodySample struct {
	ID        int     // Capture-system body ID
	Pose      Pose    // Pose in capture coordinates
	Valid     bool    // Tracked successfully this frame
	MeanError float64 // Mean marker error (informational)
}

// -----------------------------------------------------------------------------
// Frame Types
// -----------------------------------------------------------------------------

// Frame is one capture-time snapshot delivered by the capture collaborator.
type Frame struct {
	Index         int               // Frame number
	Timestamp     float64           // Capture clock, seconds
	Latency       float64           // Capture-to-delivery latency, seconds (informational)
	Recording     bool              // Capture system is recording
	ModelsChanged bool              // Tracked model set changed since last frame
	Bodies        []RigidBodySample // Ordered as delivered
}

// ValidCount returns the number of bodies with a valid tracking flag.
func (f Frame) ValidCount() int {
	n := 0
	for _, b := range f.Bodies {
		if b.Valid {
			n++
		}
	}
	return n
}

// FrameSummary is a compact description of a dispatched frame, kept for
// status display after the frame itself is discarded.
type FrameSummary struct {
	Index     int
	Timestamp float64
	Bodies    int
	Valid     int
	Sent      bool
}
