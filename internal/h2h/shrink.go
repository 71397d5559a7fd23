// Package h2h computes head-to-head features with Beta-Binomial
// shrinkage. Raw win counts over tiny samples are pulled toward a
// neutral prior; the pull weakens as meetings accumulate.
package h2h

// Shrink returns the shrunk win ratio (wins + alpha*prior) / (total + alpha).
// With zero meetings the ratio is exactly the prior.
func Shrink(wins, total int, alpha, prior float64) float64 {
	return (float64(wins) + alpha*prior) / (float64(total) + alpha)
}

// Credibility returns total / (total + alpha), the weight the observed
// sample carries against the prior.
func Credibility(total int, alpha float64) float64 {
	return float64(total) / (float64(total) + alpha)
}
