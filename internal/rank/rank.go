// Package rank computes fractional ordering keys for cards so that a reorder
// touches only the moved row. Column ordering uses dense integers instead and
// is shifted in SQL by the repository.
package rank

// Gap is the spacing between consecutive ranks when appending. Large enough
// that many midpoint insertions fit before float64 resolution runs out.
const Gap = 1000.0

// Between returns the rank for a card dropped between two neighbors, either of
// which may be absent. Repeated insertion between the same two neighbors
// halves the gap each time; there is no rebalancing pass, which is fine for
// realistic board sizes.
func Between(prev, next *float64) float64 {
	switch {
	case prev == nil && next == nil:
		return Gap
	case prev == nil:
		return *next / 2
	case next == nil:
		return *prev + Gap
	default:
		return (*prev + *next) / 2
	}
}
