// Package resolve maps cleaned model-name fragments to catalog products via
// tiered fuzzy matching: a network's own stock first with a softer threshold,
// the full catalog second with a stricter one.
package resolve

import (
	"context"
	"fmt"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/nurbek2810/stockchat-api/internal/config"
	"github.com/nurbek2810/stockchat-api/internal/domain"
	"github.com/nurbek2810/stockchat-api/internal/parse"
)

type CandidateSource interface {
	GetStockCandidates(ctx context.Context, network string) ([]domain.Candidate, error)
	GetCatalogCandidates(ctx context.Context) ([]domain.Candidate, error)
}

type Thresholds interface {
	Matcher() config.MatcherConfig
}

type Resolver struct {
	src  CandidateSource
	conf Thresholds
}

func NewResolver(src CandidateSource, conf Thresholds) *Resolver {
	return &Resolver{
		src:  src,
		conf: conf,
	}
}

// Resolve finds the catalog product for a fragment, or reports no match.
// A network's own stock list is a strong prior, so it is scored first with the
// lower threshold; the full catalog is larger and heterogeneous, so it only
// accepts near-exact scores. Ties go to the first candidate in store order.
func (r *Resolver) Resolve(ctx context.Context, network, fragment string) (domain.Candidate, bool, error) {
	q := parse.Normalize(fragment)
	if q == "" {
		return domain.Candidate{}, false, nil
	}

	m := r.conf.Matcher()

	stock, err := r.src.GetStockCandidates(ctx, network)
	if err != nil {
		return domain.Candidate{}, false, fmt.Errorf("r.src.GetStockCandidates -> %w", err)
	}
	if best, ok := bestMatch(q, stock, m.StockThreshold); ok {
		return best, true, nil
	}

	catalog, err := r.src.GetCatalogCandidates(ctx)
	if err != nil {
		return domain.Candidate{}, false, fmt.Errorf("r.src.GetCatalogCandidates -> %w", err)
	}
	if best, ok := bestMatch(q, catalog, m.CatalogThreshold); ok {
		return best, true, nil
	}

	return domain.Candidate{}, false, nil
}

// bestMatch scores every candidate with WRatio and keeps the first
// top-scoring one; a strict ">" comparison makes the tie-break deterministic.
func bestMatch(query string, candidates []domain.Candidate, threshold int) (domain.Candidate, bool) {
	if len(candidates) == 0 {
		return domain.Candidate{}, false
	}

	var (
		best      domain.Candidate
		bestScore = -1
	)
	for _, c := range candidates {
		score := fuzzy.WRatio(query, parse.Normalize(c.DisplayName))
		if score > bestScore {
			best = c
			bestScore = score
		}
	}

	if bestScore < threshold {
		return domain.Candidate{}, false
	}

	return best, true
}
