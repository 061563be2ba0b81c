package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortable/listingmatch/internal/config"
	"github.com/sortable/listingmatch/internal/ingest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runPipeline(t *testing.T, products, listings string) []ingest.OutputRecord {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Products: strings.NewReader(products),
		Listings: strings.NewReader(listings),
		Output:   &out,
		Config:   config.PipelineConfig{},
		Logger:   discardLogger(),
	})
	require.NoError(t, err)

	var records []ingest.OutputRecord
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var rec ingest.OutputRecord
		require.NoError(t, gojson.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

// Scenario 1 from spec.md §8: a straight lexical match, with the listing's
// currency and original price literal preserved verbatim in the output.
func TestRun_StraightMatch(t *testing.T) {
	products := `{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`
	listings := `{"title":"Canon EOS Rebel T3i 18 MP","manufacturer":"Canon Canada","currency":"cad","price":"599.00"}`

	records := runPipeline(t, products, listings)
	require.Len(t, records, 1)
	assert.Equal(t, "Canon_EOS_Rebel_T3i", records[0].ProductName)
	require.Len(t, records[0].Listings, 1)
	assert.Equal(t, "cad", records[0].Listings[0].Currency)
	assert.Equal(t, gojson.RawMessage(`"599.00"`), records[0].Listings[0].Price)
}

// Scenario 2: two listings in different currencies, both within the
// post-assignment price band, both retained.
func TestRun_CurrencyConversionBothRetained(t *testing.T) {
	products := `{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`
	listings := strings.Join([]string{
		`{"title":"Canon EOS Rebel T3i","manufacturer":"Canon","currency":"usd","price":"600"}`,
		`{"title":"Canon EOS Rebel T3i","manufacturer":"Canon","currency":"jpy","price":"75000"}`,
	}, "\n")

	records := runPipeline(t, products, listings)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Listings, 2)
}

// Scenario 6: synonym folding collapses differently-spelled megapixel
// counts into the same token set, so all three listings match the same
// product despite differing surface text.
func TestRun_SynonymFoldingUnitesListings(t *testing.T) {
	products := `{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`
	listings := strings.Join([]string{
		`{"title":"Canon EOS Rebel T3i 14.1 Megapixel","manufacturer":"Canon","currency":"usd","price":"600"}`,
		`{"title":"Canon EOS Rebel T3i 14.1MP","manufacturer":"Canon","currency":"usd","price":"610"}`,
		`{"title":"Canon EOS Rebel T3i 14.1 mpix","manufacturer":"Canon","currency":"usd","price":"590"}`,
	}, "\n")

	records := runPipeline(t, products, listings)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Listings, 3)
}

// A listing whose manufacturer doesn't contain any catalog manufacturer key
// is dropped during ingestion and produces no output record at all.
func TestRun_NoManufacturerMatchDropsListingEntirely(t *testing.T) {
	products := `{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`
	listings := `{"title":"Coolpix S9","manufacturer":"Nikon","currency":"usd","price":"100"}`

	records := runPipeline(t, products, listings)
	assert.Empty(t, records)
}

// Determinism: identical inputs across two separate runs produce
// byte-identical output.
func TestRun_Deterministic(t *testing.T) {
	products := strings.Join([]string{
		`{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`,
		`{"model":"S9","announced-date":"2010-02-01","product_name":"Nikon_Coolpix_S9","manufacturer":"Nikon","family":"Coolpix"}`,
	}, "\n")
	listings := strings.Join([]string{
		`{"title":"Canon EOS Rebel T3i 18 MP","manufacturer":"Canon Canada","currency":"cad","price":"599.00"}`,
		`{"title":"Nikon Coolpix S9","manufacturer":"Nikon","currency":"usd","price":"150.00"}`,
	}, "\n")

	var first, second bytes.Buffer
	require.NoError(t, Run(context.Background(), Options{
		Products: strings.NewReader(products), Listings: strings.NewReader(listings),
		Output: &first, Logger: discardLogger(),
	}))
	require.NoError(t, Run(context.Background(), Options{
		Products: strings.NewReader(products), Listings: strings.NewReader(listings),
		Output: &second, Logger: discardLogger(),
	}))

	assert.Equal(t, first.String(), second.String())
}

// Debug mode suppresses emission entirely: Output is never written to.
func TestRun_DebugSuppressesEmission(t *testing.T) {
	products := `{"model":"T3i","announced-date":"2011-04-01","product_name":"Canon_EOS_Rebel_T3i","manufacturer":"Canon","family":"EOS"}`
	listings := `{"title":"Canon EOS Rebel T3i","manufacturer":"Canon","currency":"usd","price":"599.00"}`

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Products: strings.NewReader(products),
		Listings: strings.NewReader(listings),
		Output:   &out,
		Debug:    true,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}
