package service

import (
	"context"
	"time"

	"menugenius/domain"
	"menugenius/recommend"

	"go.uber.org/zap"
)

// MockGateway answers recommendation and menu requests from a static catalog.
type MockGateway struct {
	catalog []domain.MenuItem
	now     func() time.Time
}

func NewMockGateway(catalog []domain.MenuItem) *MockGateway {
	return &MockGateway{catalog: catalog, now: time.Now}
}

func (g *MockGateway) GetRecommendations(_ context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	return recommend.Recommend(g.catalog, req, g.now()), nil
}

func (g *MockGateway) MenuItems(_ context.Context) ([]domain.MenuItem, error) {
	return cloneItems(g.catalog), nil
}

// DiningContext is the optional context folded into the free text query.
type DiningContext struct {
	MealTime    string
	Weather     string
	Occasion    string
	Preferences []string
}

type Recommender struct {
	gateway RecommendationGateway
	logger  *zap.Logger
}

func NewRecommender(gateway RecommendationGateway, logger *zap.Logger) *Recommender {
	return &Recommender{gateway: gateway, logger: logger}
}

// Recommend validates req locally, folds dc into the query and asks the
// gateway once. An empty query never reaches the gateway.
func (r *Recommender) Recommend(ctx context.Context, req domain.RecommendationRequest, dc DiningContext) (domain.RecommendationResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	req.Query = recommend.EnhanceQuery(req.Query, dc.MealTime, dc.Weather, dc.Occasion, dc.Preferences)

	resp, err := r.gateway.GetRecommendations(ctx, req)
	if err != nil {
		r.logger.Warn("recommendation request failed", zap.String("query", req.Query), zap.Error(err))
		return domain.RecommendationResponse{}, err
	}
	return resp, nil
}
