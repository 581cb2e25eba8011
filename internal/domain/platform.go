package domain

import "fmt"

// Platform identifies one upstream marketplace.
type Platform string

const (
	PlatformBunjang Platform = "bunjang"
	PlatformJoongna Platform = "joongna"
)

// FilterAll is the query-time fan-out selector. It is never a Platform value
// and never appears on a returned item.
const FilterAll = "all"

// SearchOrder is the fixed order platform results are concatenated in when a
// search fans out to every marketplace.
var SearchOrder = []Platform{PlatformBunjang, PlatformJoongna}

// SuggestOrder is the fixed order autocomplete keywords are concatenated in.
var SuggestOrder = []Platform{PlatformJoongna, PlatformBunjang}

// ParsePlatformFilter expands a request-level platform filter into the
// concrete platforms to query, in result order.
func ParsePlatformFilter(filter string) ([]Platform, error) {
	switch filter {
	case FilterAll, "":
		return SearchOrder, nil
	case string(PlatformBunjang):
		return []Platform{PlatformBunjang}, nil
	case string(PlatformJoongna):
		return []Platform{PlatformJoongna}, nil
	default:
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidRequest, filter)
	}
}
