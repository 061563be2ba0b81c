// Package ingest reads line-delimited JSON product and listing records and
// writes the emitted output stream. This is the "external collaborator"
// layer spec.md scopes out of the matching engine: it owns no matching
// logic, only framing.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/sortable/listingmatch/internal/catalog"
	"github.com/sortable/listingmatch/internal/domain"
	"github.com/sortable/listingmatch/internal/listingtable"
)

// maxLineSize bounds a single JSON-Lines record; generous for free-text
// titles while still catching a runaway/corrupt stream.
const maxLineSize = 1 << 20

type rawProduct struct {
	Model         string `json:"model"`
	AnnouncedDate string `json:"announced-date"`
	ProductName   string `json:"product_name"`
	Manufacturer  string `json:"manufacturer"`
	Family        string `json:"family"`
}

type rawListing struct {
	Title        string            `json:"title"`
	Manufacturer string            `json:"manufacturer"`
	Currency     string            `json:"currency"`
	Price        gojson.RawMessage `json:"price"`
}

// ReadProducts decodes one product record per line into t, logging and
// skipping malformed lines. A read error on the underlying stream aborts
// with a non-zero-exit-worthy error; partial output must not follow.
func ReadProducts(r io.Reader, t *catalog.Table, logger *slog.Logger) error {
	sc := newLineScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var rp rawProduct
		if parseErr := gojson.Unmarshal(raw, &rp); parseErr != nil {
			skipErr := domain.ErrValidation("malformed product record at line %d: %v", line, parseErr)
			logger.Warn(skipErr.Error())
			continue
		}
		t.Ingest(catalog.Record{
			Model:         rp.Model,
			AnnouncedDate: rp.AnnouncedDate,
			ProductName:   rp.ProductName,
			Manufacturer:  rp.Manufacturer,
			Family:        rp.Family,
		})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read products: %w", err)
	}
	return nil
}

// ReadListings decodes one listing record per line into t, logging and
// skipping malformed lines.
func ReadListings(r io.Reader, t *listingtable.Table, logger *slog.Logger) error {
	sc := newLineScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var rl rawListing
		if parseErr := gojson.Unmarshal(raw, &rl); parseErr != nil {
			skipErr := domain.ErrValidation("malformed listing record at line %d: %v", line, parseErr)
			logger.Warn(skipErr.Error())
			continue
		}
		t.Ingest(listingtable.Record{
			Title:        rl.Title,
			Manufacturer: rl.Manufacturer,
			Currency:     rl.Currency,
			Price:        priceLiteral(rl.Price),
			OrigPrice:    strings.TrimSpace(string(rl.Price)),
		})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read listings: %w", err)
	}
	return nil
}

// priceLiteral returns the textual form of a JSON price field, whether it
// was encoded as a bare number (123.45) or a quoted numeric string
// ("123.45"), preserving the original literal for emission.
func priceLiteral(raw gojson.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// OutputListing is one listing within an emitted product record, carrying
// every field in its original, pre-normalization form and unit.
type OutputListing struct {
	Title        string            `json:"title"`
	Manufacturer string            `json:"manufacturer"`
	Currency     string            `json:"currency"`
	Price        gojson.RawMessage `json:"price"`
}

// OutputRecord is one emitted line: a product and the listings resolved to
// it.
type OutputRecord struct {
	ProductName string          `json:"product_name"`
	Listings    []OutputListing `json:"listings"`
}

// WriteEmitted writes one JSON object per line, for every product (ordered
// ascending by manufacturer key then name) that retained at least one
// listing (listings ordered ascending by original title).
func WriteEmitted(w io.Writer, manufacturerIndex map[string][]*domain.Product) error {
	keys := make([]string, 0, len(manufacturerIndex))
	for k := range manufacturerIndex {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	enc := gojson.NewEncoder(w)
	for _, key := range keys {
		products := append([]*domain.Product(nil), manufacturerIndex[key]...)
		sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

		for _, p := range products {
			listings := p.AssignedListings()
			if len(listings) == 0 {
				continue
			}
			sort.Slice(listings, func(i, j int) bool { return listings[i].OrigTitle < listings[j].OrigTitle })

			out := OutputRecord{ProductName: p.OrigName, Listings: make([]OutputListing, len(listings))}
			for i, l := range listings {
				out.Listings[i] = OutputListing{
					Title:        l.OrigTitle,
					Manufacturer: l.OrigManufacturer,
					Currency:     l.OrigCurrency,
					Price:        gojson.RawMessage(l.OrigPrice),
				}
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	return nil
}
