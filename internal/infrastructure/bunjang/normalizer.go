package bunjang

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/simbatda/backend/internal/domain"
)

// Pure extraction of canonical fields from Bunjang's raw payloads. Every
// missing or malformed field is a NormalizationError carrying the failed
// path; no access ever falls back to a default value.

// flexString accepts either a JSON string or number. Bunjang uses both for
// ids and prices depending on API revision.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type suggestResponse struct {
	Keywords []struct {
		Name *string `json:"name"`
	} `json:"keywords"`
}

// NormalizeAutocomplete extracts the suggestion keywords from a raw suggest
// response.
func NormalizeAutocomplete(raw []byte) ([]string, error) {
	var resp suggestResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, normError("keywords", raw)
	}
	if resp.Keywords == nil {
		return nil, normError("keywords", raw)
	}

	keywords := make([]string, 0, len(resp.Keywords))
	for i, kw := range resp.Keywords {
		if kw.Name == nil {
			return nil, normError(fmt.Sprintf("keywords[%d].name", i), raw)
		}
		keywords = append(keywords, *kw.Name)
	}
	return keywords, nil
}

type listResponse struct {
	List []listRow `json:"list"`
}

type listRow struct {
	PID          *flexString `json:"pid"`
	Name         *string     `json:"name"`
	Price        *flexString `json:"price"`
	ProductImage *string     `json:"product_image"`
	Ad           *bool       `json:"ad"`
}

// NormalizeListing extracts listings from a raw find_v2 page. Only rows
// carrying an explicit ad marker set true are included; organic rows are
// dropped before they reach the aggregation stage.
func NormalizeListing(raw []byte) ([]domain.Listing, error) {
	var resp listResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, normError("list", raw)
	}
	if resp.List == nil {
		return nil, normError("list", raw)
	}

	listings := make([]domain.Listing, 0, len(resp.List))
	for i, row := range resp.List {
		if row.Ad == nil || !*row.Ad {
			continue
		}
		if row.PID == nil {
			return nil, normError(fmt.Sprintf("list[%d].pid", i), raw)
		}
		if row.Name == nil {
			return nil, normError(fmt.Sprintf("list[%d].name", i), raw)
		}
		if row.ProductImage == nil {
			return nil, normError(fmt.Sprintf("list[%d].product_image", i), raw)
		}
		if row.Price == nil {
			return nil, normError(fmt.Sprintf("list[%d].price", i), raw)
		}
		price, err := strconv.Atoi(string(*row.Price))
		if err != nil || price < 0 {
			return nil, normError(fmt.Sprintf("list[%d].price", i), raw)
		}

		listings = append(listings, domain.Listing{
			ItemID:    string(*row.PID),
			Name:      *row.Name,
			Price:     price,
			Thumbnail: *row.ProductImage,
		})
	}
	return listings, nil
}

type detailResponse struct {
	Data *struct {
		Product *struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Condition   *string `json:"condition"`
			Category    *struct {
				Name *string `json:"name"`
			} `json:"category"`
			Trade *struct {
				FreeShipping  *bool                      `json:"freeShipping"`
				InPerson      *bool                      `json:"inPerson"`
				ShippingSpecs map[string]json.RawMessage `json:"shippingSpecs"`
			} `json:"trade"`
		} `json:"product"`
	} `json:"data"`
}

// NormalizeItemDetail extracts the tag-relevant facts from a raw product
// detail payload.
func NormalizeItemDetail(raw []byte) (*domain.ItemFacts, error) {
	var resp detailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, normError("data", raw)
	}
	if resp.Data == nil {
		return nil, normError("data", raw)
	}
	product := resp.Data.Product
	if product == nil {
		return nil, normError("data.product", raw)
	}
	if product.Name == nil {
		return nil, normError("data.product.name", raw)
	}
	if product.Description == nil {
		return nil, normError("data.product.description", raw)
	}
	if product.Condition == nil {
		return nil, normError("data.product.condition", raw)
	}
	if product.Category == nil || product.Category.Name == nil {
		return nil, normError("data.product.category.name", raw)
	}
	trade := product.Trade
	if trade == nil {
		return nil, normError("data.product.trade", raw)
	}
	if trade.FreeShipping == nil {
		return nil, normError("data.product.trade.freeShipping", raw)
	}
	if trade.InPerson == nil {
		return nil, normError("data.product.trade.inPerson", raw)
	}

	// Sorted so identical raw input always yields identical facts.
	methods := make([]string, 0, len(trade.ShippingSpecs))
	for method := range trade.ShippingSpecs {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	return &domain.ItemFacts{
		Platform:        domain.PlatformBunjang,
		Title:           *product.Name,
		Description:     *product.Description,
		Category:        *product.Category.Name,
		Condition:       *product.Condition,
		FreeShipping:    *trade.FreeShipping,
		InPerson:        *trade.InPerson,
		ShippingMethods: methods,
	}, nil
}

func normError(path string, raw []byte) error {
	return &domain.NormalizationError{
		Platform: domain.PlatformBunjang,
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
