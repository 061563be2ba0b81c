package domain

import "context"

// ProductCatalog indexes canonical products by manufacturer key.
// Implemented by catalog.Table.
type ProductCatalog interface {
	Buckets() map[string][]*Product
	ManufacturerKeys() []string
}

// ListingSource supplies the listings ingested for one run.
// Implemented by listingtable.Table.
type ListingSource interface {
	All() []*Listing
}

// Resolver runs the three-pass assignment pipeline that binds listings to
// products. Implemented by resolver.Resolver.
type Resolver interface {
	Run(ctx context.Context, manufacturerIndex map[string][]*Product, listings []*Listing) error
}
