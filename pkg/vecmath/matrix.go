package vecmath

import (
	"errors"
	"fmt"
)

// ErrSingular is returned when a matrix inversion is attempted on a matrix
// whose determinant is within Epsilon of zero.
var ErrSingular = errors.New("vecmath: matrix is singular")

// Matrix3 is a row-major 3x3 matrix, used for the B and UB matrices and for
// coordinate transforms between the lab and reciprocal bases.
type Matrix3 struct {
	M [3][3]float64
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return Matrix3{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// MulVector returns m * v.
func (m Matrix3) MulVector(v Vector3) Vector3 {
	return Vector3{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Mul returns m * other.
func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += m.M[i][k] * other.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// Transpose returns the transpose of m.
func (m Matrix3) Transpose() Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.M[j][i] = m.M[i][j]
		}
	}
	return out
}

// Det returns the determinant of m.
func (m Matrix3) Det() float64 {
	return m.M[0][0]*(m.M[1][1]*m.M[2][2]-m.M[1][2]*m.M[2][1]) -
		m.M[0][1]*(m.M[1][0]*m.M[2][2]-m.M[1][2]*m.M[2][0]) +
		m.M[0][2]*(m.M[1][0]*m.M[2][1]-m.M[1][1]*m.M[2][0])
}

// Inverse returns the inverse of m via the adjugate/determinant formula.
//
// Blueprint:
//
//	Stage 1 (Validate): reject |det| below Epsilon as singular.
//	Stage 2 (Cofactors): build the cofactor matrix.
//	Stage 3 (Finalize): transpose the cofactors (adjugate) and scale by 1/det.
func (m Matrix3) Inverse() (Matrix3, error) {
	det := m.Det()
	if det > -Epsilon && det < Epsilon {
		return Matrix3{}, fmt.Errorf("vecmath: inverse of near-singular matrix (det=%g): %w", det, ErrSingular)
	}

	cof := Matrix3{}
	cof.M[0][0] = m.M[1][1]*m.M[2][2] - m.M[1][2]*m.M[2][1]
	cof.M[0][1] = -(m.M[1][0]*m.M[2][2] - m.M[1][2]*m.M[2][0])
	cof.M[0][2] = m.M[1][0]*m.M[2][1] - m.M[1][1]*m.M[2][0]
	cof.M[1][0] = -(m.M[0][1]*m.M[2][2] - m.M[0][2]*m.M[2][1])
	cof.M[1][1] = m.M[0][0]*m.M[2][2] - m.M[0][2]*m.M[2][0]
	cof.M[1][2] = -(m.M[0][0]*m.M[2][1] - m.M[0][1]*m.M[2][0])
	cof.M[2][0] = m.M[0][1]*m.M[1][2] - m.M[0][2]*m.M[1][1]
	cof.M[2][1] = -(m.M[0][0]*m.M[1][2] - m.M[0][2]*m.M[1][0])
	cof.M[2][2] = m.M[0][0]*m.M[1][1] - m.M[0][1]*m.M[1][0]

	adj := cof.Transpose()
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.M[i][j] = adj.M[i][j] / det
		}
	}
	return out, nil
}

// InverseUpperTriangular inverts a 3x3 upper-triangular matrix (the shape
// the lattice B matrix always has) using forward substitution rather than
// the general cofactor formula, which would divide by zero on its
// structural zero entries' cofactors in degenerate-looking but valid cases.
func (m Matrix3) InverseUpperTriangular() (Matrix3, error) {
	a, b, c := m.M[0][0], m.M[0][1], m.M[0][2]
	d, e := m.M[1][1], m.M[1][2]
	f := m.M[2][2]

	if (a > -Epsilon && a < Epsilon) || (d > -Epsilon && d < Epsilon) || (f > -Epsilon && f < Epsilon) {
		return Matrix3{}, fmt.Errorf("vecmath: upper-triangular inverse: %w", ErrSingular)
	}

	var out Matrix3
	out.M[0][0] = 1 / a
	out.M[0][1] = -b / (a * d)
	out.M[0][2] = (b*e - d*c) / (a * d * f)
	out.M[1][1] = 1 / d
	out.M[1][2] = -e / (d * f)
	out.M[2][2] = 1 / f
	return out, nil
}
