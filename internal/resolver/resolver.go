// Package resolver runs the three-pass assignment pipeline that binds
// listings to products: unique-candidate assignment, price-coherent
// disambiguation, and outlier pruning.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sortable/listingmatch/internal/domain"
	"github.com/sortable/listingmatch/internal/match"
	"github.com/sortable/listingmatch/internal/pricing"
)

// maxParallel bounds the number of goroutines used for Pass A and Pass C's
// embarrassingly-parallel fan-out.
const maxParallel = 8

// Resolver runs the three passes over a populated Product/Listing universe.
type Resolver struct {
	logger        *slog.Logger
	kDisambiguate float64
	kPrune        float64
}

// New creates a Resolver. kDisambiguate and kPrune are the width factors for
// Pass B and Pass C respectively (1.5 and 7.0 in the reference
// configuration). A nil logger falls back to slog.Default().
func New(logger *slog.Logger, kDisambiguate, kPrune float64) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger, kDisambiguate: kDisambiguate, kPrune: kPrune}
}

// Run executes Pass A, B, and C in order over manufacturerIndex (products
// bucketed by manufacturer key) and listings.
func (r *Resolver) Run(ctx context.Context, manufacturerIndex map[string][]*domain.Product, listings []*domain.Listing) error {
	if err := r.passA(ctx, manufacturerIndex, listings); err != nil {
		return err
	}
	r.passB(manufacturerIndex, listings)
	return r.passC(ctx, manufacturerIndex)
}

// passA computes each listing's candidate set and attaches listings with
// exactly one candidate. Listings are independent of one another, so this
// fans out with a bounded worker pool; concurrent assignment to the same
// product is serialized by Product.Assign's internal lock.
func (r *Resolver) passA(ctx context.Context, manufacturerIndex map[string][]*domain.Product, listings []*domain.Listing) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for _, l := range listings {
		l := l
		g.Go(func() error {
			candidates := candidatesFor(manufacturerIndex, l)
			ids := make([]int64, len(candidates))
			for i, p := range candidates {
				ids[i] = p.ID
			}
			l.CandidateProductIDs = ids

			if len(candidates) == 1 {
				candidates[0].Assign(l)
				r.logger.Debug("pass A: unique assignment", "listing", l.String(), "product", candidates[0].OrigName)
			}
			return nil
		})
	}

	return g.Wait()
}

// candidatesFor enumerates the products sharing a manufacturer key with l
// whose token set is lexically contained in l's, under the compound-word
// relaxation.
func candidatesFor(manufacturerIndex map[string][]*domain.Product, l *domain.Listing) []*domain.Product {
	var out []*domain.Product
	for key, products := range manufacturerIndex {
		if key == "" || !strings.Contains(l.ManufacturerRaw, key) {
			continue
		}
		for _, p := range products {
			if match.Matched(p.Tokens, l.Tokens) {
				out = append(out, p)
			}
		}
	}
	return out
}

// passB recomputes every product's price band at kDisambiguate, then walks
// multi-candidate listings in a stable order, assigning each to the unique
// price-coherent candidate (or the unique winner of the token-count /
// token-length tie-break) and leaving the rest unattached. Listings are
// processed sequentially and in order: an earlier listing's assignment
// changes the price population a later listing's candidates are judged
// against, exactly as in the reference implementation, so this pass is not
// parallelized.
func (r *Resolver) passB(manufacturerIndex map[string][]*domain.Product, listings []*domain.Listing) {
	recomputeBands(manufacturerIndex, r.kDisambiguate)

	ordered := make([]*domain.Listing, len(listings))
	copy(ordered, listings)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	byID := productIndex(manufacturerIndex)

	for _, l := range ordered {
		if len(l.CandidateProductIDs) <= 1 {
			continue
		}
		candidates := make([]*domain.Product, 0, len(l.CandidateProductIDs))
		for _, id := range l.CandidateProductIDs {
			candidates = append(candidates, byID[id])
		}

		var coherent []*domain.Product
		for _, p := range candidates {
			if pricing.MatchesPrice(p.AssignedPrices(), r.kDisambiguate, l.Price) {
				coherent = append(coherent, p)
			}
		}

		switch len(coherent) {
		case 0:
			r.logger.Debug("pass B: no price-coherent candidate", "listing", l.String())
		case 1:
			coherent[0].Assign(l)
			r.logger.Debug("pass B: price-coherent assignment", "listing", l.String(), "product", coherent[0].OrigName)
		default:
			if winner := tieBreak(coherent); winner != nil {
				winner.Assign(l)
				r.logger.Debug("pass B: tie-break assignment", "listing", l.String(), "product", winner.OrigName)
			} else {
				r.logger.Debug("pass B: unresolved tie", "listing", l.String())
			}
		}
	}
}

// tieBreak selects the candidate matching both the maximum token count AND
// the maximum total token character length, each computed independently
// over the full candidate set — not a sequential narrowing. A candidate
// that tops one criterion but not the other is excluded even if it would
// have survived a narrow-then-narrow filter; this mirrors the source, whose
// two maxima are each taken over the whole list before the combined filter
// is applied. It returns the winner only when exactly one candidate
// satisfies both; otherwise the listing is left unassigned.
func tieBreak(candidates []*domain.Product) *domain.Product {
	maxTokens := 0
	maxLen := 0
	for _, p := range candidates {
		if len(p.Tokens) > maxTokens {
			maxTokens = len(p.Tokens)
		}
		if p.Tokens.CharLen() > maxLen {
			maxLen = p.Tokens.CharLen()
		}
	}

	var winner *domain.Product
	count := 0
	for _, p := range candidates {
		if len(p.Tokens) == maxTokens && p.Tokens.CharLen() == maxLen {
			winner = p
			count++
		}
	}

	if count == 1 {
		return winner
	}
	return nil
}

// passC recomputes every product's band at kPrune, then removes outliers
// unless they remain lexically similar to a retained listing. Products are
// independent of one another, so this fans out with a bounded worker pool.
func (r *Resolver) passC(ctx context.Context, manufacturerIndex map[string][]*domain.Product) error {
	recomputeBands(manufacturerIndex, r.kPrune)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for _, products := range manufacturerIndex {
		for _, p := range products {
			p := p
			g.Go(func() error {
				r.pruneOutliers(p)
				return nil
			})
		}
	}

	return g.Wait()
}

func (r *Resolver) pruneOutliers(p *domain.Product) {
	assigned := p.AssignedListings()
	if len(assigned) == 0 {
		return
	}
	prices := p.AssignedPrices()

	var outliers, kept []*domain.Listing
	for _, l := range assigned {
		if pricing.MatchesPrice(prices, r.kPrune, l.Price) {
			kept = append(kept, l)
		} else {
			outliers = append(outliers, l)
		}
	}
	if len(outliers) == 0 {
		return
	}

	for _, l := range outliers {
		similar := false
		for _, m := range kept {
			if match.Matched(l.Tokens, m.Tokens) {
				similar = true
				break
			}
		}
		if !similar {
			p.Unassign(l)
			r.logger.Debug("pass C: pruned outlier", "listing", l.String(), "product", p.OrigName)
		}
	}
}

func recomputeBands(manufacturerIndex map[string][]*domain.Product, k float64) {
	var wg sync.WaitGroup
	for _, products := range manufacturerIndex {
		for _, p := range products {
			p := p
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.PriceBand = pricing.ComputeBand(p.AssignedPrices(), k)
			}()
		}
	}
	wg.Wait()
}

func productIndex(manufacturerIndex map[string][]*domain.Product) map[int64]*domain.Product {
	out := make(map[int64]*domain.Product)
	for _, products := range manufacturerIndex {
		for _, p := range products {
			out[p.ID] = p
		}
	}
	return out
}
