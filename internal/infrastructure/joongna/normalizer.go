package joongna

import (
	"encoding/json"
	"fmt"

	"github.com/simbatda/backend/internal/domain"
)

// Pure extraction of canonical fields from Joongna's raw payloads. Listing
// and detail data live inside a generic Next.js page-data envelope addressed
// by a positional index into the dehydrated query cache; that fragile
// addressing is confined to envelopeData so an upstream change touches one
// function only.

// Positional indexes into pageProps.dehydratedState.queries.
const (
	listingQueryIndex = 2
	detailQueryIndex  = 1
)

type autocompleteResponse struct {
	Data *struct {
		AutoCompleteItemList []struct {
			Keyword *string `json:"keyword"`
		} `json:"autoCompleteItemList"`
	} `json:"data"`
}

// NormalizeAutocomplete extracts the suggestion keywords from a raw
// autocomplete response.
func NormalizeAutocomplete(raw []byte) ([]string, error) {
	var resp autocompleteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, normError("data", raw)
	}
	if resp.Data == nil {
		return nil, normError("data", raw)
	}
	if resp.Data.AutoCompleteItemList == nil {
		return nil, normError("data.autoCompleteItemList", raw)
	}

	keywords := make([]string, 0, len(resp.Data.AutoCompleteItemList))
	for i, entry := range resp.Data.AutoCompleteItemList {
		if entry.Keyword == nil {
			return nil, normError(fmt.Sprintf("data.autoCompleteItemList[%d].keyword", i), raw)
		}
		keywords = append(keywords, *entry.Keyword)
	}
	return keywords, nil
}

type pageDataEnvelope struct {
	PageProps *struct {
		DehydratedState *struct {
			Queries []struct {
				State *struct {
					Data *struct {
						Data json.RawMessage `json:"data"`
					} `json:"data"`
				} `json:"state"`
			} `json:"queries"`
		} `json:"dehydratedState"`
	} `json:"pageProps"`
}

// envelopeData digs the inner payload out of the page-data envelope at the
// given query index.
func envelopeData(raw []byte, index int) (json.RawMessage, error) {
	var env pageDataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, normError("pageProps", raw)
	}
	if env.PageProps == nil {
		return nil, normError("pageProps", raw)
	}
	if env.PageProps.DehydratedState == nil {
		return nil, normError("pageProps.dehydratedState", raw)
	}
	queries := env.PageProps.DehydratedState.Queries
	if len(queries) <= index {
		return nil, normError(fmt.Sprintf("pageProps.dehydratedState.queries[%d]", index), raw)
	}
	state := queries[index].State
	if state == nil || state.Data == nil || state.Data.Data == nil {
		return nil, normError(fmt.Sprintf("pageProps.dehydratedState.queries[%d].state.data.data", index), raw)
	}
	return state.Data.Data, nil
}

type listingData struct {
	Items []struct {
		Seq   *json.Number `json:"seq"`
		Title *string      `json:"title"`
		Price *json.Number `json:"price"`
		URL   *string      `json:"url"`
	} `json:"items"`
}

// NormalizeListing extracts listings from a raw search page envelope.
func NormalizeListing(raw []byte) ([]domain.Listing, error) {
	inner, err := envelopeData(raw, listingQueryIndex)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("pageProps.dehydratedState.queries[%d].state.data.data", listingQueryIndex)

	var data listingData
	if err := json.Unmarshal(inner, &data); err != nil {
		return nil, normError(base+".items", raw)
	}
	if data.Items == nil {
		return nil, normError(base+".items", raw)
	}

	listings := make([]domain.Listing, 0, len(data.Items))
	for i, item := range data.Items {
		if item.Seq == nil {
			return nil, normError(fmt.Sprintf("%s.items[%d].seq", base, i), raw)
		}
		if item.Title == nil {
			return nil, normError(fmt.Sprintf("%s.items[%d].title", base, i), raw)
		}
		if item.URL == nil {
			return nil, normError(fmt.Sprintf("%s.items[%d].url", base, i), raw)
		}
		if item.Price == nil {
			return nil, normError(fmt.Sprintf("%s.items[%d].price", base, i), raw)
		}
		price, err := item.Price.Int64()
		if err != nil || price < 0 {
			return nil, normError(fmt.Sprintf("%s.items[%d].price", base, i), raw)
		}

		listings = append(listings, domain.Listing{
			ItemID:    item.Seq.String(),
			Name:      *item.Title,
			Price:     int(price),
			Thumbnail: *item.URL,
		})
	}
	return listings, nil
}

type detailData struct {
	ProductTitle       *string  `json:"productTitle"`
	ProductDescription *string  `json:"productDescription"`
	CategoryName       *string  `json:"categoryName"`
	Labels             []string `json:"labels"`
}

// NormalizeItemDetail extracts the tag-relevant facts from a raw product
// page envelope. Joongna's upstream labels become the item's tags unchanged.
func NormalizeItemDetail(raw []byte) (*domain.ItemFacts, error) {
	inner, err := envelopeData(raw, detailQueryIndex)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("pageProps.dehydratedState.queries[%d].state.data.data", detailQueryIndex)

	var data detailData
	if err := json.Unmarshal(inner, &data); err != nil {
		return nil, normError(base, raw)
	}
	if data.ProductTitle == nil {
		return nil, normError(base+".productTitle", raw)
	}
	if data.ProductDescription == nil {
		return nil, normError(base+".productDescription", raw)
	}
	if data.CategoryName == nil {
		return nil, normError(base+".categoryName", raw)
	}
	if data.Labels == nil {
		return nil, normError(base+".labels", raw)
	}

	return &domain.ItemFacts{
		Platform:    domain.PlatformJoongna,
		Title:       *data.ProductTitle,
		Description: *data.ProductDescription,
		Category:    *data.CategoryName,
		Labels:      data.Labels,
	}, nil
}

func normError(path string, raw []byte) error {
	return &domain.NormalizationError{
		Platform: domain.PlatformJoongna,
		Path:     path,
		Snippet:  snippet(raw),
	}
}

const maxSnippetLen = 200

func snippet(raw []byte) string {
	if len(raw) > maxSnippetLen {
		return string(raw[:maxSnippetLen]) + "..."
	}
	return string(raw)
}
