package transform

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rickgao/mocap-bridge/internal/model"
)

const tol = 1e-9

func randomUnitQuat(rng *rand.Rand) quat.Number {
	q := quat.Number{
		Real: rng.NormFloat64(),
		Imag: rng.NormFloat64(),
		Jmag: rng.NormFloat64(),
		Kmag: rng.NormFloat64(),
	}
	return quat.Scale(1/quat.Abs(q), q)
}

func assertQuatNear(t *testing.T, want, got quat.Number) {
	t.Helper()
	assert.InDelta(t, want.Real, got.Real, tol, "w")
	assert.InDelta(t, want.Imag, got.Imag, tol, "x")
	assert.InDelta(t, want.Jmag, got.Jmag, tol, "y")
	assert.InDelta(t, want.Kmag, got.Kmag, tol, "z")
}

func assertVecNear(t *testing.T, want, got r3.Vec) {
	t.Helper()
	d := r3.Norm(r3.Sub(want, got))
	assert.LessOrEqual(t, d, tol, "want %v, got %v", want, got)
}

// engineBasis maps a capture-frame direction to the engine axis it is
// relabelled as: Z -> X, X -> -Y, Y -> -Z.
func engineBasis(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.Z, Y: -v.X, Z: -v.Y}
}

func TestCaptureToEngine_IdentityPose(t *testing.T) {
	in := model.NewPose(1, 2, 3, 1, 0, 0, 0)

	out := CaptureToEngine(in)

	assertVecNear(t, r3.Vec{X: -3, Y: 1, Z: 2}, out.Position)
	// The 180° correction about capture X, expressed about engine -Y.
	assertQuatNear(t, quat.Number{Real: 0, Imag: 0, Jmag: -1, Kmag: 0}, out.Orientation)
}

func TestCaptureToEngine_PositionIndependentOfOrientation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 50; i++ {
		pos := r3.Vec{X: rng.Float64()*10 - 5, Y: rng.Float64()*10 - 5, Z: rng.Float64()*10 - 5}
		p := model.Pose{Position: pos, Orientation: randomUnitQuat(rng)}

		out := CaptureToEngine(p)

		assert.Equal(t, r3.Vec{X: -pos.Z, Y: pos.X, Z: pos.Y}, out.Position)
	}
}

func TestCaptureToEngine_ConjugatesCorrectedRotation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	probes := []r3.Vec{unitX, unitY, unitZ, {X: 0.3, Y: -0.4, Z: 0.5}}

	for i := 0; i < 500; i++ {
		q := randomUnitQuat(rng)
		out := CaptureToEngine(model.Pose{Orientation: q})

		corrected := r3.Rotation(quat.Mul(q, halfTurnX))
		adapted := r3.Rotation(out.Orientation)
		for _, v := range probes {
			want := engineBasis(corrected.Rotate(v))
			got := adapted.Rotate(engineBasis(v))
			assertVecNear(t, want, got)
		}
	}
}

func TestCaptureToEngine_PreservesUnitNorm(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		out := CaptureToEngine(model.Pose{Orientation: randomUnitQuat(rng)})
		assert.True(t, scalar.EqualWithinAbs(quat.Abs(out.Orientation), 1, tol),
			"norm = %v", quat.Abs(out.Orientation))
	}
}

func TestCaptureToEngine_GimbalLock(t *testing.T) {
	// Inputs whose corrected orientation sits at e1 = ±90°.
	for _, angle := range []float64{math.Pi / 2, -math.Pi / 2} {
		q := quat.Mul(AxisAngle(angle, unitX), quat.Conj(halfTurnX))
		out := CaptureToEngine(model.Pose{Orientation: q})

		corrected := r3.Rotation(quat.Mul(q, halfTurnX))
		adapted := r3.Rotation(out.Orientation)
		for _, v := range []r3.Vec{unitX, unitY, unitZ} {
			assertVecNear(t, engineBasis(corrected.Rotate(v)), adapted.Rotate(engineBasis(v)))
		}
	}
}

func TestCaptureToEngine_ConcurrentUse(t *testing.T) {
	p := model.NewPose(0.5, 1.5, -2, math.Cos(0.4), math.Sin(0.4), 0, 0)
	want := CaptureToEngine(p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := CaptureToEngine(p); got != want {
					t.Errorf("concurrent result %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEulerZXY_Reconstructs(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 500; i++ {
		q := randomUnitQuat(rng)

		e0, e1, e2 := EulerZXY(q)
		require.GreaterOrEqual(t, e0, 0.0)
		require.Less(t, e0, math.Pi)

		r := quat.Mul(quat.Mul(AxisAngle(e0, unitZ), AxisAngle(e1, unitX)), AxisAngle(e2, unitY))
		for _, v := range []r3.Vec{unitX, unitY, unitZ} {
			assertVecNear(t, r3.Rotation(q).Rotate(v), r3.Rotation(r).Rotate(v))
		}
	}
}

func TestEulerZXY_SingleAxis(t *testing.T) {
	tests := []struct {
		name       string
		q          quat.Number
		e0, e1, e2 float64
	}{
		{name: "z", q: AxisAngle(0.3, unitZ), e0: 0.3},
		{name: "x", q: AxisAngle(0.2, unitX), e1: 0.2},
		{name: "y", q: AxisAngle(-0.7, unitY), e2: -0.7},
		{name: "identity", q: quat.Number{Real: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e0, e1, e2 := EulerZXY(tt.q)
			assert.InDelta(t, tt.e0, e0, tol)
			assert.InDelta(t, tt.e1, e1, tol)
			assert.InDelta(t, tt.e2, e2, tol)
		})
	}
}

func TestAdapters(t *testing.T) {
	p := model.NewPose(1, 2, 3, 1, 0, 0, 0)

	assert.Equal(t, p, Identity.Adapt(p))
	assert.Equal(t, CaptureToEngine(p), Engine.Adapt(p))
}
