package domain

// Item is the platform-agnostic record returned to the caller.
type Item struct {
	ItemID    string   `json:"item_id"`
	Platform  Platform `json:"platform"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Thumbnail string   `json:"thumbnail"`
	Tags      []string `json:"tags"`
}

// Listing is one normalized row of a platform search page, before the
// per-item detail fetch enriches it with tags.
type Listing struct {
	ItemID    string
	Name      string
	Price     int
	Thumbnail string
}

// ItemFacts holds the detail-page facts tag derivation works from.
type ItemFacts struct {
	Platform    Platform
	Title       string
	Description string
	Category    string

	// Bunjang trade and condition facts.
	Condition       string
	FreeShipping    bool
	InPerson        bool
	ShippingMethods []string

	// Joongna upstream label list, passed through as tags.
	Labels []string
}

// SearchQuery is a validated search request. Nil price bounds mean the bound
// is absent; a zero bound still filters.
type SearchQuery struct {
	Query    string
	Filter   string
	MinPrice *int
	MaxPrice *int
}

// SearchResponse is the merged result of one search request.
type SearchResponse struct {
	Items     []Item `json:"items"`
	ItemCount int    `json:"item_count"`
	Query     string `json:"query"`
	Platform  string `json:"platform"`
}

// AutocompleteResponse carries deduplicated keyword suggestions.
type AutocompleteResponse struct {
	Keywords     []string `json:"keywords"`
	KeywordCount int      `json:"keyword_count"`
}
