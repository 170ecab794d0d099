package domain

import (
	"math"

	"hklgeo/pkg/unit"
	"hklgeo/pkg/vecmath"
)

// Lattice holds the six conventional cell parameters and the volume
// derived from them, plus the B matrix they imply.
type Lattice struct {
	A, B, C          *Parameter
	Alpha, Beta, Gam *Parameter
	Volume           *Parameter
}

// NewLattice constructs a Lattice, rejecting angle combinations that do not
// describe a cell of positive volume:
//
//	D = 1 - cos(alpha)^2 - cos(beta)^2 - cos(gamma)^2 + 2*cos(alpha)*cos(beta)*cos(gamma)
//
// must be strictly positive (spec.md §3's Sample invariant).
func NewLattice(a, b, c, alphaRad, betaRad, gammaRad float64) (*Lattice, error) {
	volume, err := cellVolume(a, b, c, alphaRad, betaRad, gammaRad)
	if err != nil {
		return nil, err
	}
	l := &Lattice{
		A:     NewTranslation("a", "first lattice vector length", vecmath.Vector3{X: 1}, unit.Nanometer),
		B:     NewTranslation("b", "second lattice vector length", vecmath.Vector3{X: 1}, unit.Nanometer),
		C:     NewTranslation("c", "third lattice vector length", vecmath.Vector3{X: 1}, unit.Nanometer),
		Alpha: NewRotation("alpha", "angle between b and c", vecmath.Vector3{X: 1}, unit.Degree),
		Beta:  NewRotation("beta", "angle between a and c", vecmath.Vector3{X: 1}, unit.Degree),
		Gam:   NewRotation("gamma", "angle between a and b", vecmath.Vector3{X: 1}, unit.Degree),
		Volume: NewScalar("volume", "unit cell volume", volume, unit.Nanometer),
	}
	_ = l.A.SetValue(a)
	_ = l.B.SetValue(b)
	_ = l.C.SetValue(c)
	_ = l.Alpha.SetValue(alphaRad)
	_ = l.Beta.SetValue(betaRad)
	_ = l.Gam.SetValue(gammaRad)
	return l, nil
}

func cellVolume(a, b, c, alpha, beta, gamma float64) (float64, error) {
	ca, cb, cg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	d := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if d <= 0 {
		return 0, NewError(Degenerate, "lattice", "non-positive cell volume factor D=%g", d)
	}
	return a * b * c * math.Sqrt(d), nil
}

// Refresh recomputes Volume from the current a,b,c,alpha,beta,gamma,
// rejecting the update (and leaving Volume unchanged) if the new angles no
// longer describe a valid cell.
func (l *Lattice) Refresh() error {
	v, err := cellVolume(l.A.Value(), l.B.Value(), l.C.Value(), l.Alpha.Value(), l.Beta.Value(), l.Gam.Value())
	if err != nil {
		return err
	}
	_ = l.Volume.SetValue(v)
	return nil
}

// BMatrix returns the B matrix mapping (h,k,l) into the sample's Cartesian
// reciprocal basis, using the 2*pi reciprocal-lattice convention:
//
//	B = | 2*pi*sin(alpha)/(a*sqrt(D))   ...                ... |
//	    | 0                       2*pi/(b*sin(alpha))       ... |
//	    | 0                       0                         2*pi/c |
//
// grounded on the upstream hkl_lattice_get_B formula (see
// _examples/original_source/hkl/hkl-lattice.c).
func (l *Lattice) BMatrix() (vecmath.Matrix3, error) {
	a, b, c := l.A.Value(), l.B.Value(), l.C.Value()
	alpha, beta, gamma := l.Alpha.Value(), l.Beta.Value(), l.Gam.Value()
	ca, cb, cg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sa, sb, sg := math.Sin(alpha), math.Sin(beta), math.Sin(gamma)

	d := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if d <= 0 {
		return vecmath.Matrix3{}, NewError(Degenerate, "lattice", "non-positive cell volume factor D=%g", d)
	}
	sqrtD := math.Sqrt(d)

	tau := 2 * math.Pi
	b11 := tau / (b * sa)
	b22 := tau / c
	tmp := b22 / sa

	var m vecmath.Matrix3
	m.M[0][0] = tau * sa / (a * sqrtD)
	m.M[0][1] = b11 / sqrtD * (ca*cb - cg)
	m.M[0][2] = tmp / sqrtD * (cg*ca - cb)
	m.M[1][1] = b11
	m.M[1][2] = tmp / (sb * sg) * (cb*cg - ca)
	m.M[2][2] = b22
	return m, nil
}

// InverseBMatrix returns B^-1, used by UB-fitting helpers.
func (l *Lattice) InverseBMatrix() (vecmath.Matrix3, error) {
	b, err := l.BMatrix()
	if err != nil {
		return vecmath.Matrix3{}, err
	}
	return b.InverseUpperTriangular()
}
