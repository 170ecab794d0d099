package domain

import "hklgeo/pkg/vecmath"

// DetectorKind selects a detector's pixel-geometry shape.
type DetectorKind int

const (
	// Detector0D is a point detector; kf direction is fixed.
	Detector0D DetectorKind = iota
	// Detector1D carries a linear pixel array.
	Detector1D
	// Detector2D carries a 2D pixel array.
	Detector2D
)

// Detector exposes the kf direction in detector-local coordinates, before
// any Holder rotation is applied. 1D/2D detectors additionally carry pixel
// geometry (size and count) so a selected pixel can be converted into a
// local kf direction; the core only ever consumes the resulting direction.
type Detector struct {
	Kind DetectorKind

	// CalibrationKey, when non-empty, names a blob in a BlobStore (see
	// SPEC_FULL.md §4.9) holding the opaque pixel-geometry map for this
	// detector. The core never parses the blob itself.
	CalibrationKey string

	PixelSizeX, PixelSizeY float64
	PixelCountX, PixelCountY int
	DistanceM                float64

	// localKf is the detector-local kf direction for a 0D detector, or the
	// panel-center direction (+x) for 1D/2D detectors.
	localKf vecmath.Vector3
}

// NewDetector0D builds a point detector whose local kf direction is along
// +x (the conventional "straight through" direction before any holder
// rotation).
func NewDetector0D() *Detector {
	return &Detector{Kind: Detector0D, localKf: vecmath.Vector3{X: 1}}
}

// NewDetector1D builds a linear detector with pixelCount pixels of the
// given size, at distanceM from the sample, centered on +x.
func NewDetector1D(pixelCount int, pixelSize, distanceM float64) *Detector {
	return &Detector{
		Kind: Detector1D, localKf: vecmath.Vector3{X: 1},
		PixelSizeX: pixelSize, PixelCountX: pixelCount, DistanceM: distanceM,
	}
}

// NewDetector2D builds a 2D pixel array detector, centered on +x.
func NewDetector2D(pixelCountX, pixelCountY int, pixelSizeX, pixelSizeY, distanceM float64) *Detector {
	return &Detector{
		Kind: Detector2D, localKf: vecmath.Vector3{X: 1},
		PixelSizeX: pixelSizeX, PixelSizeY: pixelSizeY,
		PixelCountX: pixelCountX, PixelCountY: pixelCountY, DistanceM: distanceM,
	}
}

// LocalKf returns the detector-local kf direction (unit vector, before
// Holder rotation).
func (d *Detector) LocalKf() vecmath.Vector3 { return d.localKf.Normalized() }

// PixelKf returns the detector-local kf direction corresponding to pixel
// (px, py) on a 1D/2D detector: the direction from the sample to that
// pixel's center, given the detector's flat-panel geometry centered on
// +x at DistanceM.
func (d *Detector) PixelKf(px, py int) vecmath.Vector3 {
	if d.Kind == Detector0D {
		return d.LocalKf()
	}
	y := (float64(px) - float64(d.PixelCountX)/2) * d.PixelSizeX
	z := 0.0
	if d.Kind == Detector2D {
		z = (float64(py) - float64(d.PixelCountY)/2) * d.PixelSizeY
	}
	return vecmath.Vector3{X: d.DistanceM, Y: y, Z: z}.Normalized()
}
