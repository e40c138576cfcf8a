package recommend

import (
	"math"
	"strings"
	"time"

	"menugenius/domain"

	"github.com/shopspring/decimal"
)

const NoMatchesText = "Sorry, we couldn't find any dishes matching your preferences. Try adjusting your filters."

// Recommend filters catalog by req and caps the result at req.TopK, keeping
// catalog order. req must already be normalized. Items matching any of the
// requested dietary tags qualify.
func Recommend(catalog []domain.MenuItem, req domain.RecommendationRequest, now time.Time) domain.RecommendationResponse {
	maxPrice, capped := priceCap(req)

	matched := make([]domain.MenuItem, 0, len(catalog))
	for _, item := range catalog {
		if len(req.DietaryRestrictions) > 0 && !item.HasAnyDietaryTag(req.DietaryRestrictions) {
			continue
		}
		if capped && item.Price.GreaterThan(maxPrice) {
			continue
		}
		matched = append(matched, item.Clone())
	}

	resp := domain.RecommendationResponse{
		Query:        req.Query,
		TotalMatches: len(matched),
		Timestamp:    now,
	}
	if len(matched) == 0 {
		resp.Recommendation = NoMatchesText
		resp.MatchedItems = []domain.MenuItem{}
		return resp
	}

	topK := req.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if len(matched) > topK {
		matched = matched[:topK]
	}
	resp.MatchedItems = matched
	resp.Recommendation = Explain(req)
	return resp
}

// priceCap converts the optional price ceiling. Non-finite values never reach
// decimal, which panics on them.
func priceCap(req domain.RecommendationRequest) (decimal.Decimal, bool) {
	if req.MaxPrice == nil || math.IsNaN(*req.MaxPrice) || math.IsInf(*req.MaxPrice, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(*req.MaxPrice), true
}

var openers = []struct {
	keywords []string
	text     string
}{
	{[]string{"healthy", "light"}, "Looking for something light and nourishing? These dishes keep it fresh without skimping on flavour."},
	{[]string{"spicy", "hot"}, "Craving some heat? These dishes bring the spice."},
	{[]string{"vegetarian", "vegan"}, "Here are our best plant-forward dishes for you."},
	{[]string{"seafood", "fish"}, "Fresh from the sea, these are our top seafood picks."},
	{[]string{"comfort", "hearty"}, "In the mood for comfort food? These hearty dishes will hit the spot."},
}

const genericOpener = "Based on what you're craving, here are our top picks."

// Explain builds the human readable text for a non-empty result.
func Explain(req domain.RecommendationRequest) string {
	query := strings.ToLower(req.Query)
	opener := genericOpener
scan:
	for _, o := range openers {
		for _, kw := range o.keywords {
			if strings.Contains(query, kw) {
				opener = o.text
				break scan
			}
		}
	}

	var b strings.Builder
	b.WriteString(opener)
	if len(req.DietaryRestrictions) > 0 {
		b.WriteString(" All suggestions suit your dietary needs: ")
		b.WriteString(strings.Join(req.DietaryRestrictions, ", "))
		b.WriteString(".")
	}
	if maxPrice, capped := priceCap(req); capped {
		b.WriteString(" Everything is priced at or under ")
		b.WriteString(maxPrice.StringFixed(2))
		b.WriteString(".")
	}
	return b.String()
}

// EnhanceQuery folds the optional dining context into the free text query.
func EnhanceQuery(query, mealTime, weather, occasion string, preferences []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(query))
	if mealTime != "" {
		b.WriteString(" for " + mealTime)
	}
	if weather != "" {
		b.WriteString(" on a " + weather + " day")
	}
	if occasion != "" {
		b.WriteString(" for a " + occasion)
	}
	if len(preferences) > 0 {
		b.WriteString(". I prefer " + strings.Join(preferences, ", ") + " food")
	}
	return b.String()
}
