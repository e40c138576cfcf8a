package recommend_test

import (
	"math"
	"testing"
	"time"

	"menugenius/domain"
	"menugenius/recommend"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestRecommend(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	catalog := recommend.SampleCatalog()

	tests := []struct {
		name      string
		req       domain.RecommendationRequest
		wantIDs   []int
		wantTotal int
		noMatches bool
	}{
		{
			name:      "vegan only",
			req:       domain.RecommendationRequest{Query: "dinner", DietaryRestrictions: []string{"vegan"}, TopK: 5},
			wantIDs:   []int{2, 3, 7},
			wantTotal: 3,
		},
		{
			name:      "union of tags",
			req:       domain.RecommendationRequest{Query: "dinner", DietaryRestrictions: []string{"VEGAN", "pescatarian"}, TopK: 10},
			wantIDs:   []int{2, 3, 4, 6, 7},
			wantTotal: 5,
		},
		{
			name:      "max price",
			req:       domain.RecommendationRequest{Query: "cheap", MaxPrice: price(12.5), TopK: 5},
			wantIDs:   []int{4, 8, 10},
			wantTotal: 3,
		},
		{
			name:      "top k truncates in catalog order",
			req:       domain.RecommendationRequest{Query: "anything", TopK: 3},
			wantIDs:   []int{1, 2, 3},
			wantTotal: 10,
		},
		{
			name:      "no matches",
			req:       domain.RecommendationRequest{Query: "vegan", DietaryRestrictions: []string{"vegan"}, MaxPrice: price(5), TopK: 5},
			wantIDs:   []int{},
			wantTotal: 0,
			noMatches: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			resp := recommend.Recommend(catalog, testCase.req, now)

			ids := make([]int, 0, len(resp.MatchedItems))
			for _, item := range resp.MatchedItems {
				ids = append(ids, item.ID)
				if len(testCase.req.DietaryRestrictions) > 0 {
					assert.True(t, item.HasAnyDietaryTag(testCase.req.DietaryRestrictions))
				}
				if testCase.req.MaxPrice != nil {
					assert.True(t, item.Price.LessThanOrEqual(decimal.NewFromFloat(*testCase.req.MaxPrice)))
				}
			}
			assert.Equal(t, testCase.wantIDs, ids)
			assert.Equal(t, testCase.wantTotal, resp.TotalMatches)
			assert.Equal(t, testCase.req.Query, resp.Query)
			assert.Equal(t, now, resp.Timestamp)
			if testCase.noMatches {
				assert.Equal(t, recommend.NoMatchesText, resp.Recommendation)
				assert.NotNil(t, resp.MatchedItems)
			}
		})
	}
}

func TestRecommend_DoesNotAliasCatalog(t *testing.T) {
	catalog := recommend.SampleCatalog()
	resp := recommend.Recommend(catalog, domain.RecommendationRequest{Query: "x", TopK: 1}, time.Now())
	require.Len(t, resp.MatchedItems, 1)

	resp.MatchedItems[0].Ingredients[0] = "changed"
	assert.Equal(t, "lamb", catalog[0].Ingredients[0])
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.RecommendationRequest
		contains []string
	}{
		{name: "healthy", req: domain.RecommendationRequest{Query: "Something LIGHT"}, contains: []string{"light and nourishing"}},
		{name: "spicy", req: domain.RecommendationRequest{Query: "hot noodles"}, contains: []string{"heat"}},
		{name: "first category wins", req: domain.RecommendationRequest{Query: "healthy spicy fish"}, contains: []string{"light and nourishing"}},
		{name: "seafood", req: domain.RecommendationRequest{Query: "fish tonight"}, contains: []string{"from the sea"}},
		{name: "comfort", req: domain.RecommendationRequest{Query: "hearty stew"}, contains: []string{"comfort food"}},
		{name: "generic", req: domain.RecommendationRequest{Query: "surprise me"}, contains: []string{"top picks"}},
		{
			name:     "dietary and budget clauses",
			req:      domain.RecommendationRequest{Query: "surprise me", DietaryRestrictions: []string{"vegan", "gluten-free"}, MaxPrice: price(20)},
			contains: []string{"vegan, gluten-free", "20.00"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			text := recommend.Explain(testCase.req)
			for _, want := range testCase.contains {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestEnhanceQuery(t *testing.T) {
	assert.Equal(t, "curry", recommend.EnhanceQuery(" curry ", "", "", "", nil))
	assert.Equal(t,
		"curry for dinner on a rainy day for a date night. I prefer thai, spicy food",
		recommend.EnhanceQuery("curry", "dinner", "rainy", "date night", []string{"thai", "spicy"}),
	)
}

func TestRecommend_NonFinitePriceCapIgnored(t *testing.T) {
	catalog := recommend.SampleCatalog()
	for _, ceiling := range []float64{math.Inf(1), math.NaN()} {
		req := domain.RecommendationRequest{Query: "curry", MaxPrice: price(ceiling), TopK: 3}
		require.NotPanics(t, func() {
			resp := recommend.Recommend(catalog, req, time.Now())
			assert.Equal(t, 10, resp.TotalMatches)
			assert.NotContains(t, resp.Recommendation, "priced at or under")
		})
	}
}
