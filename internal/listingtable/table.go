// Package listingtable implements the Listing Table: currency conversion,
// title normalization, and manufacturer-gated ingestion of retailer
// listing records.
package listingtable

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sortable/listingmatch/internal/domain"
	"github.com/sortable/listingmatch/internal/normalize"
)

// Record is a raw listing record as read from the input stream, before
// normalization.
type Record struct {
	Title        string
	Manufacturer string
	Currency     string
	Price        string // numeric literal, quotes (if any) already stripped
	OrigPrice    string // exact original JSON literal for price, quotes included
}

// Table converts, normalizes, and gates listings against a set of known
// manufacturer keys.
type Table struct {
	logger           *slog.Logger
	currency         map[string]float64
	manufacturerKeys []string

	mu     sync.Mutex
	nextID int64
	all    []*domain.Listing
}

// New creates an empty Table. currency maps lowercase three-letter codes to
// their conversion factor into the canonical unit; manufacturerKeys is the
// set of normalized manufacturer keys known to the Product Table. A nil
// logger falls back to slog.Default().
func New(logger *slog.Logger, currency map[string]float64, manufacturerKeys []string) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{logger: logger, currency: currency, manufacturerKeys: manufacturerKeys}
}

// Ingest converts rec's price to the canonical unit, normalizes its title,
// and retains it only if some known manufacturer key is a substring of its
// (normalized, separator-collapsed) manufacturer field. Unknown currencies
// and manufacturer mismatches are logged and return nil, never an error:
// ingestion failures here are drop-and-continue, not aborts.
func (t *Table) Ingest(rec Record) *domain.Listing {
	currency := normalize.Normalize(rec.Currency)
	rate, ok := t.currency[currency]
	if !ok {
		err := domain.ErrSkipped("unknown currency %q for listing %q", rec.Currency, rec.Title)
		t.logger.Warn(err.Error(), "currency", rec.Currency, "title", rec.Title)
		return nil
	}

	// decimal.Decimal parses the price literal exactly as the source stream
	// wrote it (arbitrary precision, no float rounding on the way in); the
	// Price Model itself still operates on float64, per its mean/variance
	// definition, so the value is lowered after parsing.
	rawPrice, parseErr := decimal.NewFromString(strings.TrimSpace(rec.Price))
	if parseErr != nil {
		err := domain.ErrValidation("unparsable price %q for listing %q: %v", rec.Price, rec.Title, parseErr)
		t.logger.Warn(err.Error())
		return nil
	}
	price := rate * rawPrice.InexactFloat64()

	title := normalize.Normalize(rec.Title)
	manufacturer := normalize.Normalize(rec.Manufacturer)

	title = strings.ReplaceAll(title, manufacturer, "")

	manufacturerKey := normalize.StripSeparators(manufacturer)
	for _, w := range strings.Fields(manufacturerKey) {
		title = strings.ReplaceAll(title, w, "")
	}
	title = strings.Trim(title, ",._-:/\\| ")
	title = normalize.SynonymRewrite(title)

	found := false
	for _, key := range t.manufacturerKeys {
		if key != "" && strings.Contains(manufacturerKey, key) {
			found = true
			break
		}
	}
	if !found {
		err := domain.ErrSkipped("no catalog manufacturer found in %q for listing %q", rec.Manufacturer, rec.Title)
		t.logger.Warn(err.Error(), "manufacturer", rec.Manufacturer, "title", rec.Title)
		return nil
	}

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.mu.Unlock()

	l := &domain.Listing{
		ID:               id,
		Title:            title,
		ManufacturerRaw:  manufacturerKey,
		Currency:         currency,
		Price:            price,
		Tokens: domain.Union(
			normalize.Tokenize([]string{title}),
			normalize.Tokenize([]string{strings.ReplaceAll(title, "-", "")}),
		),
		OrigTitle:        rec.Title,
		OrigManufacturer: rec.Manufacturer,
		OrigCurrency:     rec.Currency,
		OrigPrice:        rec.OrigPrice,
	}

	t.mu.Lock()
	t.all = append(t.all, l)
	t.mu.Unlock()

	return l
}

// All returns every retained listing, in ingestion order.
func (t *Table) All() []*domain.Listing {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*domain.Listing, len(t.all))
	copy(out, t.all)
	return out
}
