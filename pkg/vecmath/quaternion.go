package vecmath

import "math"

// Quaternion is a unit quaternion {W, X, Y, Z} representing a rotation in
// the laboratory frame, W + X*i + Y*j + Z*k.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion returns the rotation-by-zero quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// FromAngleAxis builds the unit quaternion representing a right-hand-rule
// rotation of angle radians around axis (normalized internally).
func FromAngleAxis(angle float64, axis Vector3) Quaternion {
	a := axis.Normalized()
	half := angle / 2
	s := math.Sin(half)
	return Quaternion{W: math.Cos(half), X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// Mul returns q * other (Hamilton product; applying q.Mul(other) to a
// vector first rotates by other, then by q).
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
	}
}

// Conjugate returns the conjugate of q, which for a unit quaternion is also
// its inverse.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Rotate returns v rotated by q: q * v * q^-1, treating v as a pure
// quaternion.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	p := Quaternion{W: 0, X: v.X, Y: v.Y, Z: v.Z}
	r := q.Mul(p).Mul(q.Conjugate())
	return Vector3{X: r.X, Y: r.Y, Z: r.Z}
}

// ToMatrix returns the rotation matrix equivalent to q.
func (q Quaternion) ToMatrix() Matrix3 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Matrix3{M: [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}}
}
