package aggregate

import (
	"fmt"
	"math"
	"sort"
)

// TailIndex is the result of the Hill estimator. Gamma is the mean log
// excess over the tail threshold; Alpha is its reciprocal, the estimated
// tail exponent. Smaller Alpha means a heavier tail.
type TailIndex struct {
	Gamma float64
	Alpha float64
	// K is the number of upper order statistics used.
	K int
	// Threshold is the (K+1)-th largest observation.
	Threshold float64
}

// minTailObservations is the smallest sample the estimator accepts.
const minTailObservations = 5

// HillTailIndex estimates the heavy-tail index of a spend distribution
// from its top tailFraction share. Non-positive observations carry no
// tail information for a log-based estimator and are dropped first.
// Used descriptively; nothing downstream branches on the result.
func HillTailIndex(values []float64, tailFraction float64) (TailIndex, error) {
	if tailFraction <= 0 || tailFraction >= 1 {
		return TailIndex{}, fmt.Errorf("tail fraction %v out of (0,1)", tailFraction)
	}

	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	n := len(positive)
	if n < minTailObservations {
		return TailIndex{}, fmt.Errorf("need at least %d positive observations, have %d", minTailObservations, n)
	}
	sort.Float64s(positive)

	k := int(tailFraction * float64(n))
	if k < 2 {
		k = 2
	}
	if k > n-1 {
		k = n - 1
	}

	threshold := positive[n-k-1]
	sum := 0.0
	for i := 1; i <= k; i++ {
		sum += math.Log(positive[n-i] / threshold)
	}
	gamma := sum / float64(k)
	if gamma <= 0 {
		return TailIndex{}, fmt.Errorf("degenerate tail: all top observations equal the threshold")
	}

	return TailIndex{
		Gamma:     gamma,
		Alpha:     1 / gamma,
		K:         k,
		Threshold: threshold,
	}, nil
}
