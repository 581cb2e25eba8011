package bunjang

import (
	"testing"

	"github.com/simbatda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAutocomplete(t *testing.T) {
	raw := []byte(`{"keywords":[{"name":"나이키"},{"name":"나이키 드라이핏"}]}`)

	keywords, err := NormalizeAutocomplete(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"나이키", "나이키 드라이핏"}, keywords)
}

func TestNormalizeAutocomplete_MissingName(t *testing.T) {
	raw := []byte(`{"keywords":[{"name":"나이키"},{"keyword":"renamed-field"}]}`)

	_, err := NormalizeAutocomplete(raw)

	var normErr *domain.NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, domain.PlatformBunjang, normErr.Platform)
	assert.Equal(t, "keywords[1].name", normErr.Path)
	assert.NotEmpty(t, normErr.Snippet)
}

func TestNormalizeAutocomplete_MissingEnvelope(t *testing.T) {
	_, err := NormalizeAutocomplete([]byte(`{"suggestions":[]}`))

	var normErr *domain.NormalizationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, "keywords", normErr.Path)
}

const listingFixture = `{
	"list": [
		{"pid": "111", "name": "나이키 드라이핏 반팔", "price": "15000", "product_image": "https://img.example/111.jpg", "ad": true},
		{"pid": "222", "name": "organic listing", "price": "20000", "product_image": "https://img.example/222.jpg", "ad": false},
		{"pid": "333", "name": "no ad marker", "price": "25000", "product_image": "https://img.example/333.jpg"},
		{"pid": 444, "name": "numeric fields", "price": 30000, "product_image": "https://img.example/444.jpg", "ad": true}
	]
}`

func TestNormalizeListing_KeepsOnlyAdMarkedRows(t *testing.T) {
	listings, err := NormalizeListing([]byte(listingFixture))

	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, domain.Listing{
		ItemID:    "111",
		Name:      "나이키 드라이핏 반팔",
		Price:     15000,
		Thumbnail: "https://img.example/111.jpg",
	}, listings[0])

	// String and numeric encodings of pid/price normalize identically.
	assert.Equal(t, "444", listings[1].ItemID)
	assert.Equal(t, 30000, listings[1].Price)
}

func TestNormalizeListing_IsPure(t *testing.T) {
	first, err := NormalizeListing([]byte(listingFixture))
	require.NoError(t, err)
	second, err := NormalizeListing([]byte(listingFixture))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeListing_ShapeDrift(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"missing list", `{"items":[]}`, "list"},
		{"missing pid", `{"list":[{"name":"x","price":"1","product_image":"u","ad":true}]}`, "list[0].pid"},
		{"missing price", `{"list":[{"pid":"1","name":"x","product_image":"u","ad":true}]}`, "list[0].price"},
		{"negative price", `{"list":[{"pid":"1","name":"x","price":"-5","product_image":"u","ad":true}]}`, "list[0].price"},
		{"non-numeric price", `{"list":[{"pid":"1","name":"x","price":"무료","product_image":"u","ad":true}]}`, "list[0].price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeListing([]byte(tt.raw))

			var normErr *domain.NormalizationError
			require.ErrorAs(t, err, &normErr)
			assert.Equal(t, tt.path, normErr.Path)
		})
	}
}

func TestNormalizeListing_DriftIgnoredOnOrganicRows(t *testing.T) {
	// Rows dropped by the ad filter never have their other fields inspected.
	raw := `{"list":[{"ad":false},{"pid":"1","name":"x","price":"1000","product_image":"u","ad":true}]}`

	listings, err := NormalizeListing([]byte(raw))

	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

const detailFixture = `{
	"data": {
		"product": {
			"name": "나이키 드라이핏 반팔",
			"description": "몇 번 안 입은 드라이핏 티셔츠입니다",
			"condition": "LIGHTLY_USED",
			"category": {"name": "남성의류"},
			"trade": {
				"freeShipping": false,
				"inPerson": true,
				"shippingSpecs": {"GS_HALF_PRICE": {}, "CU_THRIFTY": {}}
			}
		}
	}
}`

func TestNormalizeItemDetail(t *testing.T) {
	facts, err := NormalizeItemDetail([]byte(detailFixture))

	require.NoError(t, err)
	assert.Equal(t, domain.PlatformBunjang, facts.Platform)
	assert.Equal(t, "나이키 드라이핏 반팔", facts.Title)
	assert.Equal(t, "몇 번 안 입은 드라이핏 티셔츠입니다", facts.Description)
	assert.Equal(t, "남성의류", facts.Category)
	assert.Equal(t, "LIGHTLY_USED", facts.Condition)
	assert.False(t, facts.FreeShipping)
	assert.True(t, facts.InPerson)
	// Sorted for determinism regardless of upstream map order.
	assert.Equal(t, []string{"CU_THRIFTY", "GS_HALF_PRICE"}, facts.ShippingMethods)
}

func TestNormalizeItemDetail_IsPure(t *testing.T) {
	first, err := NormalizeItemDetail([]byte(detailFixture))
	require.NoError(t, err)
	second, err := NormalizeItemDetail([]byte(detailFixture))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeItemDetail_ShapeDrift(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"missing data", `{}`, "data"},
		{"missing product", `{"data":{}}`, "data.product"},
		{"missing condition", `{"data":{"product":{"name":"n","description":"d","category":{"name":"c"},"trade":{"freeShipping":true,"inPerson":false}}}}`, "data.product.condition"},
		{"missing trade", `{"data":{"product":{"name":"n","description":"d","condition":"NEW","category":{"name":"c"}}}}`, "data.product.trade"},
		{"missing freeShipping", `{"data":{"product":{"name":"n","description":"d","condition":"NEW","category":{"name":"c"},"trade":{"inPerson":false}}}}`, "data.product.trade.freeShipping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeItemDetail([]byte(tt.raw))

			var normErr *domain.NormalizationError
			require.ErrorAs(t, err, &normErr)
			assert.Equal(t, tt.path, normErr.Path)
		})
	}
}
