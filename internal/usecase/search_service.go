package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/simbatda/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	// DetailConcurrency bounds the per-item detail fan-out. One search can
	// trigger one detail fetch per surviving listing, so this is a resource
	// limit, not a tuning knob.
	DetailConcurrency int
}

// SearchService fans a query out to the marketplace connectors and merges
// their normalized results. It is stateless; construct once and share.
type SearchService struct {
	connectors        map[domain.Platform]domain.Connector
	tags              *TagService
	detailConcurrency int
}

// NewSearchService creates a search service with the injected connectors.
func NewSearchService(connectors []domain.Connector, tags *TagService, config SearchServiceConfig) *SearchService {
	byPlatform := make(map[domain.Platform]domain.Connector, len(connectors))
	for _, conn := range connectors {
		byPlatform[conn.Platform()] = conn
	}

	concurrency := config.DetailConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return &SearchService{
		connectors:        byPlatform,
		tags:              tags,
		detailConcurrency: concurrency,
	}
}

// GetAutocomplete merges keyword suggestions from every platform. Keywords
// are concatenated in the fixed suggestion order, deduplicated first-seen
// wins, and truncated to limit.
func (s *SearchService) GetAutocomplete(ctx context.Context, query string, limit int) (*domain.AutocompleteResponse, error) {
	if query == "" || limit <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	perPlatform := make([][]string, len(domain.SuggestOrder))
	failures := make([]error, len(domain.SuggestOrder))

	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range domain.SuggestOrder {
		i, platform := i, platform
		conn, ok := s.connectors[platform]
		if !ok {
			return nil, fmt.Errorf("no connector registered for platform %q", platform)
		}
		g.Go(func() error {
			keywords, err := conn.Autocomplete(gctx, query)
			if err != nil {
				log.Printf("[SEARCH] %s autocomplete failed: %v", platform, err)
				failures[i] = err
				return nil
			}
			perPlatform[i] = keywords
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := collectFailures(failures); err != nil {
		return nil, err
	}

	keywords := dedupeKeywords(perPlatform, limit)
	return &domain.AutocompleteResponse{
		Keywords:     keywords,
		KeywordCount: len(keywords),
	}, nil
}

// SearchItems runs the per-platform pipelines selected by the query filter
// and concatenates their items in the fixed search order. A failed platform
// drops out of the aggregate; the request fails only when every selected
// platform failed.
func (s *SearchService) SearchItems(ctx context.Context, query domain.SearchQuery) (*domain.SearchResponse, error) {
	if query.Query == "" {
		return nil, domain.ErrInvalidRequest
	}
	if query.MinPrice != nil && *query.MinPrice < 0 {
		return nil, fmt.Errorf("%w: min_price must be non-negative", domain.ErrInvalidRequest)
	}
	if query.MaxPrice != nil && *query.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: max_price must be non-negative", domain.ErrInvalidRequest)
	}

	platforms, err := domain.ParsePlatformFilter(query.Filter)
	if err != nil {
		return nil, err
	}

	perPlatform := make([][]domain.Item, len(platforms))
	failures := make([]error, len(platforms))

	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range platforms {
		i, platform := i, platform
		conn, ok := s.connectors[platform]
		if !ok {
			return nil, fmt.Errorf("no connector registered for platform %q", platform)
		}
		g.Go(func() error {
			items, err := s.searchPlatform(gctx, conn, query)
			if err != nil {
				log.Printf("[SEARCH] %s pipeline failed: %v", platform, err)
				failures[i] = err
				return nil
			}
			perPlatform[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := collectFailures(failures); err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0)
	for _, platformItems := range perPlatform {
		items = append(items, platformItems...)
	}

	filter := query.Filter
	if filter == "" {
		filter = domain.FilterAll
	}

	return &domain.SearchResponse{
		Items:     items,
		ItemCount: len(items),
		Query:     query.Query,
		Platform:  filter,
	}, nil
}

// searchPlatform runs one platform's pipeline: listing fetch, price filter,
// then one bounded detail fetch + tag derivation per surviving item. Result
// order follows listing order, never completion order. Any failure aborts
// this platform's whole contribution.
func (s *SearchService) searchPlatform(ctx context.Context, conn domain.Connector, query domain.SearchQuery) ([]domain.Item, error) {
	listings, err := conn.SearchListings(ctx, query.Query)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Listing, 0, len(listings))
	for _, listing := range listings {
		if priceInRange(listing.Price, query.MinPrice, query.MaxPrice) {
			matched = append(matched, listing)
		}
	}

	items := make([]domain.Item, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailConcurrency)
	for i, listing := range matched {
		i, listing := i, listing
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			facts, err := conn.ItemFacts(gctx, listing.ItemID)
			if err != nil {
				return err
			}
			tags, err := s.tags.DeriveTags(gctx, facts)
			if err != nil {
				return err
			}
			items[i] = domain.Item{
				ItemID:    listing.ItemID,
				Platform:  conn.Platform(),
				Name:      listing.Name,
				Price:     listing.Price,
				Thumbnail: listing.Thumbnail,
				Tags:      tags,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// priceInRange applies the inclusive price bounds. Absence is a nil pointer;
// a zero bound still filters.
func priceInRange(price int, min, max *int) bool {
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}

// dedupeKeywords concatenates per-platform suggestion lists in their given
// order and collapses duplicates first-seen-wins, so output ordering is
// deterministic across runs.
func dedupeKeywords(lists [][]string, limit int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for _, list := range lists {
		for _, keyword := range list {
			if _, dup := seen[keyword]; dup {
				continue
			}
			seen[keyword] = struct{}{}
			out = append(out, keyword)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// collectFailures turns per-platform failure slots into a request error only
// when no platform succeeded.
func collectFailures(failures []error) error {
	failed := 0
	for _, err := range failures {
		if err != nil {
			failed++
		}
	}
	if failed == 0 || failed < len(failures) {
		return nil
	}
	if len(failures) == 1 {
		return failures[0]
	}
	return fmt.Errorf("%w: %v", domain.ErrAllPlatformsFailed, errors.Join(failures...))
}
