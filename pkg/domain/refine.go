package domain

import (
	"math"

	"hklgeo/pkg/vecmath"
)

// RefineOrientation improves (ux, uy, uz) by minimizing FitQuality over the
// sample's relevant reflections, using a bounded Nelder-Mead simplex search
// (spec.md §4.3: "least-squares refinement ... using a bounded simplex
// method with the reflection residuals as the cost"). It returns the final
// fit quality (radians RMS misfit). maxIter bounds the search; the
// refinement never escapes each axis's [min, max] range.
func (s *Sample) RefineOrientation(detectorLocalKf vecmath.Vector3, maxIter int) (float64, error) {
	cost := func(x [3]float64) float64 {
		_ = s.UX.SetValue(clamp(x[0], s.UX.Min(), s.UX.Max()))
		_ = s.UY.SetValue(clamp(x[1], s.UY.Min(), s.UY.Max()))
		_ = s.UZ.SetValue(clamp(x[2], s.UZ.Min(), s.UZ.Max()))
		s.directU = nil
		q, err := s.FitQuality(detectorLocalKf)
		if err != nil {
			return math.Inf(1)
		}
		return q
	}

	start := [3]float64{s.UX.Value(), s.UY.Value(), s.UZ.Value()}
	best, bestCost := nelderMead3(cost, start, maxIter)

	_ = s.UX.SetValue(clamp(best[0], s.UX.Min(), s.UX.Max()))
	_ = s.UY.SetValue(clamp(best[1], s.UY.Min(), s.UY.Max()))
	_ = s.UZ.SetValue(clamp(best[2], s.UZ.Min(), s.UZ.Max()))
	s.directU = nil

	if math.IsInf(bestCost, 1) {
		return 0, NewError(BadInput, s.Name, "no relevant reflections to refine against")
	}
	return bestCost, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nelderMead3 runs a standard 3-parameter Nelder-Mead simplex search
// (reflect/expand/contract/shrink, coefficients 1/2/0.5/0.5) for maxIter
// iterations and returns the best point found.
func nelderMead3(f func([3]float64) float64, start [3]float64, maxIter int) ([3]float64, float64) {
	const (
		alpha = 1.0
		gamma = 2.0
		rho   = 0.5
		sigma = 0.5
		step  = 0.05
	)

	simplex := [4][3]float64{start, start, start, start}
	for i := 0; i < 3; i++ {
		simplex[i+1][i] += step
	}
	costs := [4]float64{}
	for i := range simplex {
		costs[i] = f(simplex[i])
	}

	order := func() [4]int {
		idx := [4]int{0, 1, 2, 3}
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if costs[idx[j]] < costs[idx[i]] {
					idx[i], idx[j] = idx[j], idx[i]
				}
			}
		}
		return idx
	}

	for iter := 0; iter < maxIter; iter++ {
		idx := order()
		best, worst, second := idx[0], idx[3], idx[2]

		var centroid [3]float64
		for _, i := range []int{idx[0], idx[1], idx[2]} {
			for d := 0; d < 3; d++ {
				centroid[d] += simplex[i][d] / 3
			}
		}

		reflect := [3]float64{}
		for d := 0; d < 3; d++ {
			reflect[d] = centroid[d] + alpha*(centroid[d]-simplex[worst][d])
		}
		reflectCost := f(reflect)

		switch {
		case reflectCost < costs[second] && reflectCost >= costs[best]:
			simplex[worst], costs[worst] = reflect, reflectCost
		case reflectCost < costs[best]:
			expand := [3]float64{}
			for d := 0; d < 3; d++ {
				expand[d] = centroid[d] + gamma*(reflect[d]-centroid[d])
			}
			expandCost := f(expand)
			if expandCost < reflectCost {
				simplex[worst], costs[worst] = expand, expandCost
			} else {
				simplex[worst], costs[worst] = reflect, reflectCost
			}
		default:
			contract := [3]float64{}
			for d := 0; d < 3; d++ {
				contract[d] = centroid[d] + rho*(simplex[worst][d]-centroid[d])
			}
			contractCost := f(contract)
			if contractCost < costs[worst] {
				simplex[worst], costs[worst] = contract, contractCost
			} else {
				for _, i := range idx[1:] {
					for d := 0; d < 3; d++ {
						simplex[i][d] = simplex[best][d] + sigma*(simplex[i][d]-simplex[best][d])
					}
					costs[i] = f(simplex[i])
				}
			}
		}
	}

	idx := order()
	return simplex[idx[0]], costs[idx[0]]
}
