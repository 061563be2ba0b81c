// Package pipeline wires the ingestion, resolver, and emission stages into
// the single batch run the CLI drives.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sortable/listingmatch/internal/catalog"
	"github.com/sortable/listingmatch/internal/config"
	"github.com/sortable/listingmatch/internal/domain"
	"github.com/sortable/listingmatch/internal/ingest"
	"github.com/sortable/listingmatch/internal/listingtable"
	"github.com/sortable/listingmatch/internal/resolver"
)

// Options configures one pipeline run.
type Options struct {
	Products io.Reader
	Listings io.Reader
	Output   io.Writer // ignored when Debug is set: no emission, decisions only logged

	Config config.PipelineConfig
	Debug  bool
	Logger *slog.Logger
}

// Run ingests products and listings, resolves listing-to-product
// assignments, and emits the result. It returns a non-nil error only for
// I/O or unrecoverable parse failures on the input streams; malformed
// individual records, unknown currencies, no-manufacturer-match listings,
// and duplicate products are logged and skipped, never surfaced as errors.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	products := catalog.New(logger)
	if err := ingest.ReadProducts(opts.Products, products, logger); err != nil {
		return fmt.Errorf("ingest products: %w", err)
	}

	var productCatalog domain.ProductCatalog = products
	manufacturerIndex := productCatalog.Buckets()
	logger.Info("products ingested", "manufacturers", len(manufacturerIndex))

	listings := listingtable.New(logger, opts.Config.CurrencyTable(), productCatalog.ManufacturerKeys())
	if err := ingest.ReadListings(opts.Listings, listings, logger); err != nil {
		return fmt.Errorf("ingest listings: %w", err)
	}

	var listingSource domain.ListingSource = listings
	allListings := listingSource.All()
	logger.Info("listings ingested", "count", len(allListings))

	var resolve domain.Resolver = resolver.New(logger, opts.Config.KDisambiguateOrDefault(), opts.Config.KPruneOrDefault())
	if err := resolve.Run(ctx, manufacturerIndex, allListings); err != nil {
		return fmt.Errorf("resolve listings: %w", err)
	}

	if opts.Debug {
		logger.Info("debug mode: suppressing emission")
		return nil
	}

	if err := ingest.WriteEmitted(opts.Output, manufacturerIndex); err != nil {
		return fmt.Errorf("emit output: %w", err)
	}
	return nil
}
