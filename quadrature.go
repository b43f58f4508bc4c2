package expressions

import "math"

// legendreCache memoizes Gauss-Legendre nodes and weights by point count, so
// repeated integral() calls with the same point count (the common case,
// since most callers don't override the default) avoid recomputing the
// Newton iteration.
var legendreCache = map[int]struct {
	nodes, weights []float64
}{}

// legendreNodesWeights returns the n Gauss-Legendre quadrature nodes (roots
// of the degree-n Legendre polynomial) and their weights on [-1, 1], found by
// Newton's method from a Chebyshev initial guess, matching
// Integration.gaussQuadCoeff.
func legendreNodesWeights(n int) (nodes, weights []float64) {
	if cached, ok := legendreCache[n]; ok {
		return cached.nodes, cached.weights
	}
	const eps = 3e-11
	nodes = make([]float64, n)
	weights = make([]float64, n)
	m := (n + 1) / 2
	for i := 1; i <= m; i++ {
		z := math.Cos(math.Pi * (float64(i) - 0.25) / (float64(n) + 0.5))
		var z1, pp float64
		for {
			p1, p2 := 1.0, 0.0
			for j := 1; j <= n; j++ {
				p3 := p2
				p2 = p1
				p1 = ((2*float64(j)-1)*z*p2 - (float64(j)-1)*p3) / float64(j)
			}
			pp = float64(n) * (z*p1 - p2) / (z*z - 1)
			z1 = z
			z = z1 - p1/pp
			if math.Abs(z-z1) <= eps {
				break
			}
		}
		nodes[i-1] = -z
		nodes[n-i] = z
		w := 2 / ((1 - z*z) * pp * pp)
		weights[i-1] = w
		weights[n-i] = w
	}
	legendreCache[n] = struct{ nodes, weights []float64 }{nodes, weights}
	return nodes, weights
}

// gaussLegendreIntegrate estimates the integral of f over [a, b] using an
// n-point Gauss-Legendre rule.
func gaussLegendreIntegrate(f func(float64) (float64, error), a, b float64, n int) (float64, error) {
	if n < 1 {
		n = 1
	}
	nodes, weights := legendreNodesWeights(n)
	mid := (b + a) / 2
	half := (b - a) / 2
	sum := 0.0
	for i, x := range nodes {
		v, err := f(mid + half*x)
		if err != nil {
			return 0, err
		}
		sum += weights[i] * v
	}
	return half * sum, nil
}
