package domain

import (
	"math"

	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// Reflection binds a measured (h,k,l) to the geometry snapshot at which it
// was measured: the axis values (and hence ki, kf) needed to recover the
// momentum transfer Q in the sample-fixed frame.
type Reflection struct {
	H, K, L  float64
	Geometry *Geometry
	Relevant bool
}

// Sample owns a Lattice and an orientation U expressed as three Euler-like
// angles (ux, uy, uz), plus the reflections used by the two-reflection UB
// closed form.
type Sample struct {
	Name        string
	Lattice     *Lattice
	UX, UY, UZ  *Parameter
	Reflections []Reflection

	directU *vecmath.Matrix3
}

// NewSample constructs a Sample with identity orientation (ux=uy=uz=0).
func NewSample(name string, lattice *Lattice) *Sample {
	return &Sample{
		Name:    name,
		Lattice: lattice,
		UX:      NewRotation("ux", "orientation rotation about x", vecmath.Vector3{X: 1}, unit.Degree),
		UY:      NewRotation("uy", "orientation rotation about y", vecmath.Vector3{Y: 1}, unit.Degree),
		UZ:      NewRotation("uz", "orientation rotation about z", vecmath.Vector3{Z: 1}, unit.Degree),
	}
}

// UMatrix returns the orientation matrix U built from (ux, uy, uz) as three
// sequential right-hand rotations applied x-then-y-then-z: U = Rz*Ry*Rx.
// This composition order is a convention, not a derivation (mirrors the
// hkl/q sign convention noted in spec.md §9 — documented here, not implied
// by any invariant).
func (s *Sample) UMatrix() vecmath.Matrix3 {
	qx := vecmath.FromAngleAxis(s.UX.Value(), vecmath.Vector3{X: 1})
	qy := vecmath.FromAngleAxis(s.UY.Value(), vecmath.Vector3{Y: 1})
	qz := vecmath.FromAngleAxis(s.UZ.Value(), vecmath.Vector3{Z: 1})
	return qz.Mul(qy).Mul(qx).ToMatrix()
}

// SetUMatrix overwrites U directly; it does not attempt to decompose m back
// into (ux, uy, uz) since those three angles are not used by UB() once a
// direct matrix is set.
func (s *Sample) SetUMatrix(m vecmath.Matrix3) {
	s.directU = &m
}

// UB returns U*B, the matrix mapping (h,k,l) into the sample-fixed
// Cartesian frame.
func (s *Sample) UB() (vecmath.Matrix3, error) {
	b, err := s.Lattice.BMatrix()
	if err != nil {
		return vecmath.Matrix3{}, err
	}
	u := s.UMatrix()
	if s.directU != nil {
		u = *s.directU
	}
	return u.Mul(b), nil
}

// measuredQSample returns kf-ki for r's geometry snapshot, expressed in the
// sample-fixed frame (rotated back by the inverse of the sample holder's
// quaternion at that snapshot).
func measuredQSample(r Reflection, detectorLocalKf vecmath.Vector3) vecmath.Vector3 {
	r.Geometry.Update()
	ki := r.Geometry.Ki()
	kf := r.Geometry.Kf(detectorLocalKf)
	qLab := kf.Sub(ki)
	sampleQ := r.Geometry.SampleHolder().Quaternion().Conjugate().Rotate(qLab)
	return sampleQ
}

// ComputeUBFromTwoReflections solves for U such that U*B*hi is parallel to
// the measured Qi for each reflection, using the Busing & Levy (1967)
// construction: build an orthonormal triad from the reciprocal-lattice
// vectors B*hi and a matching triad from the measured Qi, then U maps one
// onto the other. Fails on collinear reflections or a degenerate lattice.
func (s *Sample) ComputeUBFromTwoReflections(r1, r2 Reflection, detectorLocalKf vecmath.Vector3) error {
	b, err := s.Lattice.BMatrix()
	if err != nil {
		return err
	}
	h1c := b.MulVector(vecmath.Vector3{X: r1.H, Y: r1.K, Z: r1.L})
	h2c := b.MulVector(vecmath.Vector3{X: r2.H, Y: r2.K, Z: r2.L})

	q1 := measuredQSample(r1, detectorLocalKf)
	q2 := measuredQSample(r2, detectorLocalKf)

	tc, err := orthonormalTriad(h1c, h2c)
	if err != nil {
		return err
	}
	tphi, err := orthonormalTriad(q1, q2)
	if err != nil {
		return NewError(Degenerate, s.Name, "measured reflections are collinear")
	}

	u := tphi.Mul(tc.Transpose())
	s.directU = &u
	return nil
}

// orthonormalTriad builds the Busing-Levy triad [t1 t2 t3] as columns from
// two non-collinear vectors: t1 = v1 normalized, t3 = (v1 x v2) normalized,
// t2 = t3 x t1.
func orthonormalTriad(v1, v2 vecmath.Vector3) (vecmath.Matrix3, error) {
	if v1.Norm() < vecmath.Epsilon || v2.Norm() < vecmath.Epsilon {
		return vecmath.Matrix3{}, NewError(Degenerate, "", "zero-length reflection vector")
	}
	t1 := v1.Normalized()
	cross := v1.Cross(v2)
	if cross.Norm() < vecmath.Epsilon {
		return vecmath.Matrix3{}, NewError(Degenerate, "", "collinear reflection vectors")
	}
	t3 := cross.Normalized()
	t2 := t3.Cross(t1)

	var m vecmath.Matrix3
	m.M[0][0], m.M[1][0], m.M[2][0] = t1.X, t1.Y, t1.Z
	m.M[0][1], m.M[1][1], m.M[2][1] = t2.X, t2.Y, t2.Z
	m.M[0][2], m.M[1][2], m.M[2][2] = t3.X, t3.Y, t3.Z
	return m, nil
}

// FitQuality evaluates the current UB against every relevant reflection and
// returns the root-mean-square angular misfit, in radians, between U*B*hi
// and the measured Qi — the scalar a least-squares refinement minimizes.
func (s *Sample) FitQuality(detectorLocalKf vecmath.Vector3) (float64, error) {
	ub, err := s.UB()
	if err != nil {
		return 0, err
	}
	var sumSq float64
	var n int
	for _, r := range s.Reflections {
		if !r.Relevant {
			continue
		}
		predicted := ub.MulVector(vecmath.Vector3{X: r.H, Y: r.K, Z: r.L})
		measured := measuredQSample(r, detectorLocalKf)
		a := vecmath.Angle(predicted, measured)
		sumSq += a * a
		n++
	}
	if n == 0 {
		return 0, NewError(BadInput, s.Name, "no relevant reflections to evaluate")
	}
	return math.Sqrt(sumSq / float64(n)), nil
}
