package ports

import (
	"context"

	"quotelens/domain/quote"
)

// Estimate is an external model's assessment of one proposed discount.
type Estimate struct {
	Prediction          string   `json:"prediction"` // "likely", "unlikely", "uncertain"
	Probability         float64  `json:"probability"`
	Confidence          float64  `json:"confidence"`
	Reasoning           string   `json:"reasoning"`
	RecommendedDiscount float64  `json:"recommended_discount"`
	KeyFactors          []string `json:"key_factors,omitempty"`
	RiskAssessment      string   `json:"risk_assessment"` // "low", "medium", "high"
}

// AcceptanceEstimator is the single capability interface the engine depends
// on for external predictions. The statistics engine and the historical
// optimizer must function correctly with no estimator configured at all.
type AcceptanceEstimator interface {
	EstimateAcceptance(ctx context.Context, q quote.Query, proposedDiscount float64) (*Estimate, error)
}
