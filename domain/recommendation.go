package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const DefaultTopK = 5

type RecommendationRequest struct {
	Query               string   `json:"query"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	MaxPrice            *float64 `json:"maxPrice,omitempty"`
	TopK                int      `json:"topK,omitempty"`
}

// Normalize validates the request and fills defaults. The query is trimmed,
// blank restrictions are dropped and a zero TopK becomes DefaultTopK.
func (r RecommendationRequest) Normalize() (RecommendationRequest, error) {
	out := r
	out.Query = strings.TrimSpace(r.Query)
	if out.Query == "" {
		return RecommendationRequest{}, fmt.Errorf("%w: please enter what you're craving", ErrValidation)
	}
	if r.MaxPrice != nil {
		if math.IsNaN(*r.MaxPrice) || math.IsInf(*r.MaxPrice, 0) {
			return RecommendationRequest{}, fmt.Errorf("%w: max price must be a finite number", ErrValidation)
		}
		if *r.MaxPrice <= 0 {
			return RecommendationRequest{}, fmt.Errorf("%w: max price must be positive", ErrValidation)
		}
	}
	switch {
	case r.TopK < 0:
		return RecommendationRequest{}, fmt.Errorf("%w: topK must be positive", ErrValidation)
	case r.TopK == 0:
		out.TopK = DefaultTopK
	}
	out.DietaryRestrictions = nil
	for _, tag := range r.DietaryRestrictions {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.DietaryRestrictions = append(out.DietaryRestrictions, tag)
		}
	}
	return out, nil
}

type RecommendationResponse struct {
	Query          string     `json:"query"`
	Recommendation string     `json:"recommendation"`
	MatchedItems   []MenuItem `json:"matchedItems"`
	TotalMatches   int        `json:"totalMatches"`
	Timestamp      time.Time  `json:"timestamp"`
}
