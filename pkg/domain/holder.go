package domain

import "hklgeo/pkg/vecmath"

// Holder is one kinematic chain: an ordered list of axis indices into the
// owning Geometry, plus the cached cumulative quaternion of those axes'
// rotations.
//
// Accumulation stops at the first non-rotation axis encountered in
// insertion order (documented behavior, not merely incidental: see
// spec.md §9's instruction to preserve the documented
// stop-at-first-non-rotation semantics rather than the source's skip).
type Holder struct {
	geometry *Geometry
	indices  []int
	q        vecmath.Quaternion
}

func newHolder(g *Geometry) *Holder {
	return &Holder{geometry: g, q: vecmath.IdentityQuaternion()}
}

// AddIndex appends an axis index to the holder if not already present and
// returns whether it was newly added.
func (h *Holder) AddIndex(idx int) bool {
	for _, i := range h.indices {
		if i == idx {
			return false
		}
	}
	h.indices = append(h.indices, idx)
	return true
}

// Indices returns the axis indices carried by this holder, in insertion
// order.
func (h *Holder) Indices() []int {
	out := make([]int, len(h.indices))
	copy(out, h.indices)
	return out
}

// Quaternion returns the holder's cached cumulative rotation.
func (h *Holder) Quaternion() vecmath.Quaternion { return h.q }

// update recomputes q by multiplying, in insertion order, the quaternions
// of the parameters that carry one (rotations), stopping at the first axis
// that does not (translation or scalar).
func (h *Holder) update(axes []*Parameter) {
	h.q = vecmath.IdentityQuaternion()
	for _, idx := range h.indices {
		q := axes[idx].Quaternion()
		if q == nil {
			break
		}
		h.q = h.q.Mul(*q)
	}
}

// ApplyTransformations applies every axis this holder carries, in order, to
// v — used by holders whose axes include translations past the rotation
// prefix (the seam spec.md §9 asks implementations to expose for a future
// generalized apply_transformation).
func (h *Holder) ApplyTransformations(axes []*Parameter, v vecmath.Vector3) vecmath.Vector3 {
	for _, idx := range h.indices {
		v = axes[idx].ApplyTransformation(v)
	}
	return v
}
