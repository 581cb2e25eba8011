package joongna

import (
	"context"

	"github.com/simbatda/backend/internal/domain"
)

// Connector implements domain.Connector for Joongna by pairing the raw
// client with the package normalizers.
type Connector struct {
	client *Client
}

// NewConnector creates a Joongna connector around a raw client.
func NewConnector(client *Client) *Connector {
	return &Connector{client: client}
}

func (c *Connector) Platform() domain.Platform { return domain.PlatformJoongna }

func (c *Connector) Autocomplete(ctx context.Context, query string) ([]string, error) {
	raw, err := c.client.FetchAutocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	return NormalizeAutocomplete(raw)
}

func (c *Connector) SearchListings(ctx context.Context, query string) ([]domain.Listing, error) {
	raw, err := c.client.SearchListings(ctx, query)
	if err != nil {
		return nil, err
	}
	return NormalizeListing(raw)
}

func (c *Connector) ItemFacts(ctx context.Context, itemID string) (*domain.ItemFacts, error) {
	raw, err := c.client.FetchItemDetail(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return NormalizeItemDetail(raw)
}
