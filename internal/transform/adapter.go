package transform

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rickgao/mocap-bridge/internal/model"
)

// Adapter converts a pose between coordinate conventions.
type Adapter interface {
	Adapt(p model.Pose) model.Pose
}

// Func is a function adapter for Adapter.
type Func func(model.Pose) model.Pose

func (f Func) Adapt(p model.Pose) model.Pose {
	return f(p)
}

var (
	// Engine converts capture poses into engine poses.
	Engine Adapter = Func(CaptureToEngine)

	// Identity forwards poses untouched.
	Identity Adapter = Func(func(p model.Pose) model.Pose { return p })
)

var (
	unitX = r3.Vec{X: 1}
	unitY = r3.Vec{Y: 1}
	unitZ = r3.Vec{Z: 1}

	// halfTurnX is the fixed correction applied in the capture frame.
	halfTurnX = AxisAngle(math.Pi, unitX)
)

// AxisAngle returns the quaternion rotating by angle radians about a unit axis.
func AxisAngle(angle float64, axis r3.Vec) quat.Number {
	s, c := math.Sincos(0.5 * angle)
	return quat.Number{Real: c, Imag: s * axis.X, Jmag: s * axis.Y, Kmag: s * axis.Z}
}

// CaptureToEngine adapts one capture pose. The orientation is not
// renormalized; a unit input stays unit to within rounding.
func CaptureToEngine(p model.Pose) model.Pose {
	q := quat.Mul(p.Orientation, halfTurnX)

	e0, e1, e2 := EulerZXY(q)
	o := quat.Mul(quat.Mul(AxisAngle(e0, unitX), AxisAngle(-e1, unitY)), AxisAngle(-e2, unitZ))

	return model.Pose{
		Position:    RemapPosition(p.Position),
		Orientation: o,
	}
}

// RemapPosition applies the fixed capture-to-engine axis permutation.
func RemapPosition(v r3.Vec) r3.Vec {
	return r3.Vec{X: -v.Z, Y: v.X, Z: v.Y}
}
