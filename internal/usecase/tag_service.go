package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/simbatda/backend/internal/domain"
)

// Tag strategy names accepted by configuration.
const (
	StrategyRules      = "rules"
	StrategyGenerative = "generative"
)

// Fixed trade-method labels.
const (
	tagParcel       = "택배 거래"
	tagFreeShipping = "무료배송"
	tagInPerson     = "직거래"
)

// shippingMethodLabels maps Bunjang carrier codes to their display labels.
// Codes not listed here fall back to the generic parcel label.
var shippingMethodLabels = map[string]string{
	"CU_THRIFTY":    "CU 알뜰택배 거래",
	"GS_HALF_PRICE": "GS 반값 거래",
}

// conditionLabels is a total mapping over Bunjang's five condition codes.
// An unlisted code is a hard error, never a default label.
var conditionLabels = map[string]string{
	"NEW":          "새상품",
	"LIKE_NEW":     "사용감 없음",
	"LIGHTLY_USED": "사용감 적음",
	"HEAVILY_USED": "사용감 많음",
	"DAMAGED":      "고장/파손 상품",
}

// TagService derives the tag list for one item, either from the fixed rule
// tables (default) or by prompting the text-generation collaborator.
type TagService struct {
	strategy  string
	generator domain.TagGenerator
}

// NewTagService creates a tag service. generator is only consulted under the
// generative strategy.
func NewTagService(strategy string, generator domain.TagGenerator) *TagService {
	if strategy == "" {
		strategy = StrategyRules
	}

	return &TagService{
		strategy:  strategy,
		generator: generator,
	}
}

// DeriveTags produces the ordered tag list for one item's facts.
func (s *TagService) DeriveTags(ctx context.Context, facts *domain.ItemFacts) ([]string, error) {
	if facts == nil {
		return nil, domain.ErrInvalidRequest
	}

	tags, err := ruleTags(facts)
	if err != nil {
		return nil, err
	}

	if s.strategy == StrategyGenerative {
		return s.generateTags(ctx, facts, tags)
	}
	return tags, nil
}

// ruleTags applies the deterministic per-platform rule table. Joongna items
// carry their upstream labels through unchanged; Bunjang tags are derived
// from trade and condition facts.
func ruleTags(facts *domain.ItemFacts) ([]string, error) {
	switch facts.Platform {
	case domain.PlatformJoongna:
		return facts.Labels, nil
	case domain.PlatformBunjang:
		tags := tradeTags(facts)
		label, err := conditionLabel(facts.Condition)
		if err != nil {
			return nil, err
		}
		return append(tags, label), nil
	default:
		return nil, fmt.Errorf("no tag rules for platform %q", facts.Platform)
	}
}

// tradeTags derives the shipping and trade-method tags for a Bunjang item.
// Free shipping short-circuits all other shipping methods; the in-person tag
// always comes last.
func tradeTags(facts *domain.ItemFacts) []string {
	var tags []string
	if facts.FreeShipping {
		tags = append(tags, tagParcel, tagFreeShipping)
	} else {
		for _, method := range facts.ShippingMethods {
			if label, ok := shippingMethodLabels[method]; ok {
				tags = append(tags, label)
			} else {
				tags = append(tags, tagParcel)
			}
		}
	}
	if facts.InPerson {
		tags = append(tags, tagInPerson)
	}
	return tags
}

// conditionLabel maps a condition code to its label; unknown codes are fatal
// for the item.
func conditionLabel(code string) (string, error) {
	label, ok := conditionLabels[code]
	if !ok {
		return "", &domain.UnknownConditionError{Code: code}
	}
	return label, nil
}

func (s *TagService) generateTags(ctx context.Context, facts *domain.ItemFacts, ruleDerived []string) ([]string, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("generative tag strategy selected but no generator configured")
	}

	reply, err := s.generator.Generate(ctx, buildTagPrompt(facts, ruleDerived))
	if err != nil {
		return nil, fmt.Errorf("tag generation: %w", err)
	}
	return parseTagReply(reply), nil
}

// buildTagPrompt composes the Korean prompt the model was tuned against. The
// rule-derived tags ride along as the trade/condition line.
func buildTagPrompt(facts *domain.ItemFacts, tags []string) string {
	return fmt.Sprintf(`매물명: %s
매물 설명: %s
매물 카테고리: %s
상품 거래 방법 및 상태: %s

이걸 보고 상품에 대한 태그들 3~7개를 쉼표로 구분해서 작성해줘
ex) 직거래, 택배, 편의점 택배 가능, 사용감 적음, 트레이닝 복`,
		facts.Title, facts.Description, facts.Category, strings.Join(tags, " / "))
}

// parseTagReply splits a model reply into tags: comma-separated, trimmed,
// empty segments dropped. The 3-7 tag count is advisory, not enforced.
func parseTagReply(reply string) []string {
	parts := strings.Split(reply, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
