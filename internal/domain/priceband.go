package domain

// PriceBand is a confidence interval [Min, Max] computed for a product from
// its currently assigned listings, parameterized by a width factor K.
type PriceBand struct {
	Min, Max float64
	K        float64
}

// Contains reports whether price falls within the band (inclusive).
func (b *PriceBand) Contains(price float64) bool {
	if b == nil {
		return true
	}
	return price >= b.Min && price <= b.Max
}
