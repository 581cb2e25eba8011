package domain

import "context"

// Connector is the per-platform gateway the aggregation engine fans out to.
// Implementations pair raw transport with the platform's normalizer; the
// engine never sees platform-native JSON.
type Connector interface {
	Platform() Platform
	Autocomplete(ctx context.Context, query string) ([]string, error)
	SearchListings(ctx context.Context, query string) ([]Listing, error)
	ItemFacts(ctx context.Context, itemID string) (*ItemFacts, error)
}

// TagGenerator is the black-box text-generation collaborator behind the
// generative tag strategy.
type TagGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TokenSource supplies stored platform credentials for authenticated
// scraping. An empty token means the platform is queried anonymously.
type TokenSource interface {
	Token(ctx context.Context, platform Platform) (string, error)
}
