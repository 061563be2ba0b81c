package domain

import (
	"strconv"
	"sync"
)

// Product is a canonical catalog entry: normalized fields used for matching,
// original fields carried through for emission.
type Product struct {
	ID int64

	ManufacturerKey string // normalized manufacturer, bucket key
	Model           string
	Family          string
	Name            string // manufacturer substring/words stripped, separator-trimmed
	AnnouncedDate   string
	Tokens          TokenSet

	OrigName         string
	OrigModel        string
	OrigFamily       string
	OrigManufacturer string
	OrigDate         string

	PriceBand *PriceBand

	mu               sync.Mutex
	assignedListings map[int64]*Listing
}

// NewProduct constructs a Product with an empty assignment set.
func NewProduct(id int64) *Product {
	return &Product{ID: id, assignedListings: make(map[int64]*Listing)}
}

// Assign binds a listing to this product. Safe for concurrent use, including
// concurrent calls for the same product: the internal lock serializes them.
func (p *Product) Assign(l *Listing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assignedListings[l.ID] = l
}

// Unassign removes a listing from this product's assignment set.
func (p *Product) Unassign(l *Listing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.assignedListings, l.ID)
}

// AssignedListings returns a snapshot of the currently assigned listings,
// in no particular order.
func (p *Product) AssignedListings() []*Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Listing, 0, len(p.assignedListings))
	for _, l := range p.assignedListings {
		out = append(out, l)
	}
	return out
}

// AssignedPrices returns the prices of currently assigned listings.
func (p *Product) AssignedPrices() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, 0, len(p.assignedListings))
	for _, l := range p.assignedListings {
		out = append(out, l.Price)
	}
	return out
}

// String renders a debug summary matching the original Python __str__.
func (p *Product) String() string {
	s := p.Name + ", " + p.Model + ", " + p.Family + ", " + p.ManufacturerKey
	if p.PriceBand != nil {
		s += ", " + strconv.FormatInt(int64(p.PriceBand.Min), 10) + ".." + strconv.FormatInt(int64(p.PriceBand.Max), 10)
	}
	return s
}
