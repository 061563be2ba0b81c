// Package pricing implements the per-product price model used as the
// resolver's disambiguation signal and outlier filter.
package pricing

import (
	"math"

	"github.com/sortable/listingmatch/internal/domain"
)

// ComputeBand computes a confidence interval over prices with width factor
// k. It returns nil for an empty price list, matching spec's "price_band =
// None" for n == 0.
//
// The floor enforces a minimum spread of 30% of the mean so the heavy right
// tail of retail prices (bundles, kits) doesn't produce a band so tight it
// excludes legitimate sub-mean observations; the asymmetric lower bound
// keeps min_price from going negative as k*sigma grows.
func ComputeBand(prices []float64, k float64) *domain.PriceBand {
	n := len(prices)
	if n == 0 {
		return nil
	}

	var sum, sumSq float64
	for _, p := range prices {
		sum += p
		sumSq += p * p
	}
	mean := sum / float64(n)

	var sigma float64
	if n == 1 {
		sigma = mean / 3
	} else {
		variance := sumSq/float64(n) - mean*mean
		sigma = math.Sqrt(math.Max(variance, 0))
	}
	sigma = math.Max(sigma, 0.3*mean)

	maxPrice := mean + k*sigma
	minPrice := mean - k*sigma*mean/(mean+k*sigma)

	return &domain.PriceBand{Min: minPrice, Max: maxPrice, K: k}
}

// MatchesPrice reports whether price is price-coherent with the given set of
// currently assigned prices under width factor k. It excludes every entry
// equal to price before recomputing the band ("leave-one-price-out"), so a
// listing can never defend its own inclusion. With fewer than two remaining
// prices, it returns true unconditionally.
//
// This is a pure function over the caller's price slice: it never mutates
// product state, matching the source's save/filter/restore dance collapsed
// into a single recomputation over a filtered copy.
func MatchesPrice(prices []float64, k float64, price float64) bool {
	reduced := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p != price {
			reduced = append(reduced, p)
		}
	}
	if len(reduced) < 2 {
		return true
	}
	band := ComputeBand(reduced, k)
	return band.Contains(price)
}
