// Package solver implements the numerical core spec.md §4.6 calls for:
// driving a Mode's residual vector to zero by varying its write axes, with
// random-restart escape from stalls and local minima, followed by
// multiplicity expansion and range cleanup. It depends only on pkg/domain
// and pkg/vecmath, never on a concrete engine.
package solver

import (
	"math"

	"hklgeo/pkg/domain"
	"hklgeo/pkg/vecmath"
)

// Options bounds a Solve call. Zero values are replaced with the package
// defaults (MaxIterations=1000, RestartEvery=100, Tolerance=1e-10).
type Options struct {
	MaxIterations int
	RestartEvery  int
	Tolerance     float64
	Rand          *domain.Rand

	// Recorder, if non-nil, receives restart/root-found counters and an
	// iteration-count histogram. Solve never requires one (see
	// internal/observability.Noop).
	Recorder domain.MetricsRecorder
}

const (
	defaultMaxIterations = 1000
	defaultRestartEvery  = 100
	defaultTolerance     = 1e-10
)

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.RestartEvery <= 0 {
		o.RestartEvery = defaultRestartEvery
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.Rand == nil {
		o.Rand = domain.GlobalRand()
	}
	return o
}

// residualFn evaluates the mode's residual for a candidate assignment of the
// write axes (already applied to ctx.Geometry by the caller).
type residualFn func() []float64

// writeAxis wraps one write-axis parameter.
type writeAxis struct {
	param *domain.Parameter
}

// Solve finds every root of mode.Evaluate(ctx) (within ctx.Geometry's axis
// ranges) reachable by a Powell hybrid-style local search restarted from
// fresh uniform-random points, per spec.md §4.6. It mutates ctx.Geometry's
// write axes in place as its working point, but never the caller's original
// Geometry: callers pass a Clone(). On return, the geometry's write axes
// hold leftover working values; callers read the returned roots instead.
//
// Solve always returns every root found so far, even on partial failure —
// NoSolution (spec.md §7) is represented by a nil/empty returned slice with
// a nil error, not by a returned error.
func Solve(ctx *domain.ResidualContext, opts Options) ([][]float64, error) {
	opts = opts.withDefaults()
	mode := ctx.Mode
	if mode == nil {
		return nil, domain.NewError(domain.BadInput, "", "solve requires a current mode")
	}

	axes := make([]*domain.Parameter, len(mode.WriteAxes))
	for i, name := range mode.WriteAxes {
		p, ok := ctx.Geometry.AxisByName(name)
		if !ok {
			return nil, domain.NewError(domain.BadInput, name, "mode write axis %q not present in geometry", name)
		}
		axes[i] = p
	}

	residual := func() []float64 {
		ctx.Geometry.Update()
		return mode.Evaluate(ctx)
	}

	var roots [][]float64
	start := readValues(axes)

	root, ok := hybridDescend(axes, residual, start, opts)
	if ok {
		roots = appendRoot(roots, root, opts.Tolerance)
		recordCounter(opts.Recorder, "solver_root_found")
	}

	stall := 0
	iter := 0
	for ; iter < opts.MaxIterations; iter++ {
		if iter > 0 && iter%opts.RestartEvery == 0 {
			recordCounter(opts.Recorder, "solver_restart")
			randomizeAll(axes, opts.Rand)
			guess := readValues(axes)
			root, ok := hybridDescend(axes, residual, guess, opts)
			if ok {
				before := len(roots)
				roots = appendRoot(roots, root, opts.Tolerance)
				if len(roots) == before {
					stall++
				} else {
					stall = 0
					recordCounter(opts.Recorder, "solver_root_found")
				}
			} else {
				stall++
			}
			if stall >= 10 {
				break
			}
		}
	}
	recordHistogram(opts.Recorder, "solver_iterations", float64(iter))

	lifted := make([][]float64, 0, len(roots))
	for _, r := range roots {
		if l, ok := liftIntoRange(axes, r); ok {
			lifted = append(lifted, l)
		}
	}
	return expandMultiplicity(axes, lifted), nil
}

func recordCounter(rec domain.MetricsRecorder, name string) {
	if rec != nil {
		rec.IncCounter(name)
	}
}

func recordHistogram(rec domain.MetricsRecorder, name string, value float64) {
	if rec != nil {
		rec.ObserveHistogram(name, value)
	}
}

func readValues(axes []*domain.Parameter) []float64 {
	out := make([]float64, len(axes))
	for i, a := range axes {
		out[i] = a.Value()
	}
	return out
}

func applyValues(axes []*domain.Parameter, values []float64) bool {
	for i, a := range axes {
		if err := a.SetValue(values[i]); err != nil {
			return false
		}
	}
	return true
}

func randomizeAll(axes []*domain.Parameter, rng *domain.Rand) {
	for _, a := range axes {
		a.Randomize(rng)
	}
}

// hybridDescend runs a damped Gauss-Newton / gradient-descent hybrid
// (Powell's "dogleg" hybrid in spirit: Gauss-Newton step when it reduces the
// residual, steepest-descent fallback with shrinking step otherwise) from
// start until the residual norm drops under the tolerance or the step size
// collapses.
func hybridDescend(axes []*domain.Parameter, residual residualFn, start []float64, opts Options) ([]float64, bool) {
	n := len(axes)
	if !applyValues(axes, start) {
		return nil, false
	}
	x := append([]float64(nil), start...)
	lambda := 1e-3

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if !applyValues(axes, x) {
			return nil, false
		}
		r := residual()
		if hasNaN(r) {
			return nil, false
		}
		normR := norm(r)
		if normR < opts.Tolerance {
			return x, true
		}

		j := jacobian(axes, residual, x, r)
		step, ok := levenbergMarquardtStep(j, r, lambda, n)
		if !ok {
			return nil, false
		}

		candidate := addVec(x, step)
		if !applyValues(axes, candidate) {
			lambda *= 10
			continue
		}
		rc := residual()
		if hasNaN(rc) {
			lambda *= 10
			continue
		}
		if norm(rc) < normR {
			x = candidate
			lambda = math.Max(lambda/10, 1e-12)
		} else {
			lambda *= 10
			if lambda > 1e12 {
				return nil, false
			}
		}
	}
	if !applyValues(axes, x) {
		return nil, false
	}
	if norm(residual()) < opts.Tolerance*1e3 {
		return x, true
	}
	return nil, false
}

// jacobian computes a forward-difference Jacobian of residual at x (|r| x n).
func jacobian(axes []*domain.Parameter, residual residualFn, x, r0 []float64) [][]float64 {
	const h = 1e-6
	m := len(r0)
	n := len(x)
	j := make([][]float64, m)
	for i := range j {
		j[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		xh := append([]float64(nil), x...)
		xh[col] += h
		if !applyValues(axes, xh) {
			continue
		}
		rh := residual()
		for row := 0; row < m && row < len(rh); row++ {
			j[row][col] = (rh[row] - r0[row]) / h
		}
	}
	applyValues(axes, x)
	return j
}

// levenbergMarquardtStep solves (J^T J + lambda*I) step = -J^T r for step,
// via Gaussian elimination on the (n x n) normal-equations system.
func levenbergMarquardtStep(j [][]float64, r []float64, lambda float64, n int) ([]float64, bool) {
	m := len(r)
	jt := make([][]float64, n)
	for i := range jt {
		jt[i] = make([]float64, n)
	}
	rhs := make([]float64, n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			var sum float64
			for k := 0; k < m; k++ {
				sum += j[k][a] * j[k][b]
			}
			jt[a][b] = sum
		}
		jt[a][a] += lambda
		var sum float64
		for k := 0; k < m; k++ {
			sum += j[k][a] * r[k]
		}
		rhs[a] = -sum
	}
	return solveLinear(jt, rhs, n)
}

// solveLinear solves A*x = b (n x n) via Gaussian elimination with partial
// pivoting.
func solveLinear(a [][]float64, b []float64, n int) ([]float64, bool) {
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64(nil), a[i]...)
	}
	x := append([]float64(nil), b...)

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-15 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		x[col], x[pivot] = x[pivot], x[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k < n; k++ {
				m[row][k] -= factor * m[col][k]
			}
			x[row] -= factor * x[col]
		}
	}
	for row := n - 1; row >= 0; row-- {
		sum := x[row]
		for k := row + 1; k < n; k++ {
			sum -= m[row][k] * x[k]
		}
		x[row] = sum / m[row][row]
	}
	return x, true
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func hasNaN(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// appendRoot adds root to roots unless an orthodromic-equivalent root
// (within tol*1e4 per component, directly or modulo 2*pi) is already
// present.
func appendRoot(roots [][]float64, root []float64, tol float64) [][]float64 {
	for _, existing := range roots {
		if sameRoot(existing, root, tol) {
			return roots
		}
	}
	return append(roots, root)
}

func sameRoot(a, b []float64, tol float64) bool {
	for i := range a {
		d := vecmath.OrthodromicDistance(a[i], b[i])
		direct := math.Abs(a[i] - b[i])
		if math.Min(d, direct) > tol*1e4 {
			return false
		}
	}
	return true
}

// liftIntoRange maps each root component into its axis's canonical range
// via the axis's own closest-representative rule, discarding the root
// entirely if any component has no representative in range.
func liftIntoRange(axes []*domain.Parameter, root []float64) ([]float64, bool) {
	out := make([]float64, len(root))
	for i, a := range axes {
		if a.Kind != domain.RotationKind {
			if root[i] < a.Min() || root[i] > a.Max() {
				return nil, false
			}
			out[i] = root[i]
			continue
		}
		if err := a.SetValue(root[i]); err != nil {
			return nil, false
		}
		v, ok := a.ClosestValueTo(vecmath.AngleRestrictPos(root[i]))
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// expandMultiplicity appends, for every rotation write axis whose range
// spans more than 2*pi, the 2*pi-shifted copies of each root that remain
// inside that axis's range — the "multiplicity expansion" of spec.md §4.6
// (a single algebraic root can correspond to several physically reachable
// axis settings when a range is wider than one period).
func expandMultiplicity(axes []*domain.Parameter, roots [][]float64) [][]float64 {
	out := append([][]float64(nil), roots...)
	for i, a := range axes {
		if a.Kind != domain.RotationKind {
			continue
		}
		if a.Max()-a.Min() <= 2*math.Pi+vecmath.Epsilon {
			continue
		}
		var extra [][]float64
		for _, r := range out {
			for _, shifted := range []float64{r[i] + 2*math.Pi, r[i] - 2*math.Pi} {
				if shifted < a.Min() || shifted > a.Max() {
					continue
				}
				cp := append([]float64(nil), r...)
				cp[i] = shifted
				extra = append(extra, cp)
			}
		}
		out = append(out, extra...)
	}
	deduped := make([][]float64, 0, len(out))
	for _, r := range out {
		deduped = appendRoot(deduped, r, defaultTolerance)
	}
	return deduped
}
