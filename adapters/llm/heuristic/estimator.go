// Package heuristic estimates acceptance from historical rates alone. It is
// the offline stand-in when no external model is configured.
package heuristic

import (
	"context"
	"fmt"

	"quotelens/domain/quote"
	"quotelens/internal/optimizer"
	"quotelens/ports"
)

// Estimator implements ports.AcceptanceEstimator with a weighted blend of
// dimension-level acceptance rates. No network calls.
type Estimator struct {
	ds *quote.Dataset
}

// NewEstimator creates a heuristic estimator over the loaded dataset.
func NewEstimator(ds *quote.Dataset) *Estimator {
	return &Estimator{ds: ds}
}

// EstimateAcceptance blends the acceptance rates of the query's matching
// dimensions, nudged by how the proposed discount compares to the average
// accepted discount of the similar subset.
func (e *Estimator) EstimateAcceptance(ctx context.Context, q quote.Query, proposedDiscount float64) (*ports.Estimate, error) {
	q = optimizer.NormalizeQuery(q)

	type dim struct {
		name  string
		match func(quote.FeaturedRecord) bool
	}
	dims := []dim{
		{"customer history", func(r quote.FeaturedRecord) bool { return r.CustomerID == q.CustomerID }},
		{"lane history", func(r quote.FeaturedRecord) bool { return r.LanePair == q.LanePair }},
		{"shipment type history", func(r quote.FeaturedRecord) bool { return r.ShipmentType == q.ShipmentType }},
		{"commodity history", func(r quote.FeaturedRecord) bool { return r.CommodityType == q.CommodityType }},
	}

	// Sample-size weighted blend of per-dimension acceptance rates.
	weightedRate := 0.0
	totalWeight := 0.0
	sampleTotal := 0
	var factors []string
	for _, d := range dims {
		total, accepted := 0, 0
		for _, r := range e.ds.Records {
			if d.match(r) {
				total++
				if r.Status == quote.StatusAccepted {
					accepted++
				}
			}
		}
		if total == 0 {
			continue
		}
		rate := float64(accepted) / float64(total)
		weightedRate += rate * float64(total)
		totalWeight += float64(total)
		sampleTotal += total
		factors = append(factors, fmt.Sprintf("%s: %.0f%% acceptance over %d quotes", d.name, rate*100, total))
	}

	if totalWeight == 0 {
		return nil, &optimizer.NoAcceptedQuotesError{
			Suggestion: "No matching history; collect more quotes for this scenario",
		}
	}

	probability := weightedRate / totalWeight

	// Discounts above the similar-subset average accepted discount raise the
	// odds slightly, below lowers them.
	rec, err := optimizer.Recommend(e.ds, q, quote.DefaultThresholds())
	recommended := proposedDiscount
	if err == nil {
		recommended = rec.OptimalDiscount
		if proposedDiscount > rec.HistoricalStats.AverageAcceptedDiscount {
			probability = clamp01(probability + 0.1)
		} else if proposedDiscount < rec.HistoricalStats.MedianAcceptedDiscount {
			probability = clamp01(probability - 0.1)
		}
	}

	prediction := "unlikely"
	if probability > 0.5 {
		prediction = "likely"
	}

	confidence := 0.5
	if sampleTotal > 20 {
		confidence = 0.7
	}

	risk := "medium"
	switch {
	case probability > 0.7:
		risk = "low"
	case probability < 0.3:
		risk = "high"
	}

	return &ports.Estimate{
		Prediction:          prediction,
		Probability:         probability,
		Confidence:          confidence,
		Reasoning:           fmt.Sprintf("Heuristic estimate from %d matching historical quotes", sampleTotal),
		RecommendedDiscount: recommended,
		KeyFactors:          factors,
		RiskAssessment:      risk,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
