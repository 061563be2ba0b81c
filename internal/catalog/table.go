// Package catalog implements the Product Table: ingestion, normalization,
// and structural-duplicate rejection of canonical product records.
package catalog

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/sortable/listingmatch/internal/domain"
	"github.com/sortable/listingmatch/internal/match"
	"github.com/sortable/listingmatch/internal/normalize"
)

// Record is a raw product record as read from the input stream, before
// normalization.
type Record struct {
	Model         string
	AnnouncedDate string
	ProductName   string
	Manufacturer  string
	Family        string // optional, defaults to ""
}

// Table indexes Products by manufacturer key and rejects near-duplicates.
type Table struct {
	logger *slog.Logger

	mu      sync.Mutex
	nextID  int64
	buckets map[string][]*domain.Product
}

// New creates an empty Table. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{logger: logger, buckets: make(map[string][]*domain.Product)}
}

// Build constructs a Product from rec, applying the same manufacturer
// stripping the Listing Table applies to titles: the raw manufacturer
// substring is removed first, then the separator-cleared, concatenated
// manufacturer key is removed as a whole (order matters).
func Build(rec Record, id int64) *domain.Product {
	name := normalize.Normalize(rec.ProductName)
	model := normalize.Normalize(rec.Model)
	date := normalize.Normalize(rec.AnnouncedDate)
	manufacturer := normalize.Normalize(rec.Manufacturer)
	family := normalize.Normalize(rec.Family)

	name = strings.ReplaceAll(name, manufacturer, "")

	manufacturerKey := normalize.StripSeparators(manufacturer)
	for _, w := range strings.Fields(manufacturerKey) {
		name = strings.ReplaceAll(name, w, "")
	}
	name = strings.Trim(name, ",._-:/\\|")

	p := domain.NewProduct(id)
	p.ManufacturerKey = manufacturerKey
	p.Model = model
	p.Family = family
	p.Name = name
	p.AnnouncedDate = date
	p.Tokens = normalize.Tokenize([]string{name, model, family})

	p.OrigName = rec.ProductName
	p.OrigModel = rec.Model
	p.OrigFamily = rec.Family
	p.OrigManufacturer = rec.Manufacturer
	p.OrigDate = rec.AnnouncedDate

	return p
}

// Ingest normalizes rec into a Product and inserts it into its manufacturer
// bucket, unless an existing Product in that bucket is a structural
// duplicate (same name, or same announced date plus mutual token
// containment under the compound-word relaxation), in which case the new
// record is dropped and logged.
func (t *Table) Ingest(rec Record) *domain.Product {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.mu.Unlock()

	p := Build(rec, id)

	t.mu.Lock()
	defer t.mu.Unlock()

	bucket := t.buckets[p.ManufacturerKey]
	for _, q := range bucket {
		if q.Name == p.Name {
			err := domain.ErrSkipped("duplicate product %q: same name already catalogued for manufacturer %q", p.Name, p.ManufacturerKey)
			t.logger.Warn(err.Error(), "product", p.String())
			return nil
		}
		if q.AnnouncedDate == p.AnnouncedDate &&
			match.Matched(p.Tokens, q.Tokens) && match.Matched(q.Tokens, p.Tokens) {
			err := domain.ErrSkipped("duplicate product %q: same announced date and equivalent tokens as %q", p.Name, q.Name)
			t.logger.Warn(err.Error(), "product", p.String())
			return nil
		}
	}

	t.buckets[p.ManufacturerKey] = append(bucket, p)
	return p
}

// Buckets returns the manufacturer-keyed buckets. The slice per key is not
// ordered; callers that need emission order must sort explicitly.
func (t *Table) Buckets() map[string][]*domain.Product {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string][]*domain.Product, len(t.buckets))
	for k, v := range t.buckets {
		out[k] = v
	}
	return out
}

// ManufacturerKeys returns all known manufacturer keys.
func (t *Table) ManufacturerKeys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]string, 0, len(t.buckets))
	for k := range t.buckets {
		keys = append(keys, k)
	}
	return keys
}

// ProductsForManufacturer returns the products in a manufacturer's bucket.
func (t *Table) ProductsForManufacturer(key string) []*domain.Product {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets[key]
}
