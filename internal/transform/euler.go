package transform

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// matrix is a row-major 3x3 rotation matrix.
type matrix [3][3]float64

// rotationMatrix expands a unit quaternion into its rotation matrix.
func rotationMatrix(q quat.Number) matrix {
	tx := 2 * q.Imag
	ty := 2 * q.Jmag
	tz := 2 * q.Kmag
	twx := tx * q.Real
	twy := ty * q.Real
	twz := tz * q.Real
	txx := tx * q.Imag
	txy := ty * q.Imag
	txz := tz * q.Imag
	tyy := ty * q.Jmag
	tyz := tz * q.Jmag
	tzz := tz * q.Kmag

	return matrix{
		{1 - (tyy + tzz), txy - twz, txz + twy},
		{txy + twz, 1 - (txx + tzz), tyz - twx},
		{txz - twy, tyz + twx, 1 - (txx + tyy)},
	}
}

// EulerZXY decomposes q into intrinsic angles (e0, e1, e2) such that
// q = rot(e0, Z) * rot(e1, X) * rot(e2, Y).
//
// e0 is in [0, pi); e1 and e2 are in [-pi, pi]. Near gimbal lock the
// solution closest to zero is chosen.
func EulerZXY(q quat.Number) (e0, e1, e2 float64) {
	m := rotationMatrix(q)

	// Z-X-Y is an even sequence: i=Z(2), j=X(0), k=Y(1). The angles are
	// solved for the transposed sequence and negated on return.
	e0 = math.Atan2(m[0][1], m[1][1])
	c2 := math.Hypot(m[2][2], m[2][0])
	if e0 > 0 {
		e0 -= math.Pi
		e1 = math.Atan2(-m[2][1], -c2)
	} else {
		e1 = math.Atan2(-m[2][1], c2)
	}

	s1, c1 := math.Sincos(e0)
	e2 = math.Atan2(s1*m[1][2]-c1*m[0][2], c1*m[0][0]-s1*m[1][0])

	return -e0, -e1, -e2
}
