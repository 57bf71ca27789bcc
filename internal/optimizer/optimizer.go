// Package optimizer recommends discounts from historical data only. It
// performs no network calls and works with every prediction adapter absent.
package optimizer

import (
	"fmt"
	"log"
	"strings"

	"github.com/montanaflynn/stats"

	"quotelens/domain/core"
	"quotelens/domain/quote"
)

// Breakdown summarizes the historical evidence behind a recommendation.
type Breakdown struct {
	TotalSimilarQuotes      int     `json:"total_similar_quotes"`
	AcceptedQuotes          int     `json:"accepted_quotes"`
	AverageAcceptedDiscount float64 `json:"average_accepted_discount"`
	MedianAcceptedDiscount  float64 `json:"median_accepted_discount"`
	MinAcceptedDiscount     float64 `json:"min_accepted_discount"`
	MaxAcceptedDiscount     float64 `json:"max_accepted_discount"`
}

// Recommendation is the historical-analysis result. Confidence is a coarse
// two-level tier signal, not a probability.
type Recommendation struct {
	Method             string    `json:"method"`
	OptimalDiscount    float64   `json:"optimal_discount"`
	SuccessProbability float64   `json:"success_probability"`
	Confidence         float64   `json:"confidence"`
	HistoricalStats    Breakdown `json:"historical_stats"`
	Recommendation     string    `json:"recommendation"`
}

// NoAcceptedQuotesError is returned when neither the similar subset nor the
// full dataset contains a single accepted quote. It carries a suggested
// alternative action instead of guessing a discount.
type NoAcceptedQuotesError struct {
	Suggestion string
}

func (e *NoAcceptedQuotesError) Error() string {
	return "no accepted quotes found for similar scenarios"
}

func (e *NoAcceptedQuotesError) Unwrap() error {
	return core.ErrNoAcceptedQuotes
}

// NormalizeQuery applies the cleaned-dataset case conventions to a query:
// customer IDs upper-case, everything else lower-case, and the human
// readable "A-B to C-D" lane notation converted to the canonical a_b-c_d
// form.
func NormalizeQuery(q quote.Query) quote.Query {
	q.CustomerID = strings.ToUpper(strings.TrimSpace(q.CustomerID))
	q.ShipmentType = strings.ToLower(strings.TrimSpace(q.ShipmentType))
	q.CommodityType = strings.ToLower(strings.TrimSpace(q.CommodityType))
	q.LanePair = NormalizeLanePair(q.LanePair)
	return q
}

// NormalizeLanePair converts "USA-LAX to Germany-HAM" into
// "usa_lax-germany_ham". Input already in canonical form is just folded.
func NormalizeLanePair(lane string) string {
	lane = strings.TrimSpace(lane)
	if origin, dest, ok := strings.Cut(lane, " to "); ok {
		origin = strings.ToLower(strings.ReplaceAll(origin, "-", "_"))
		dest = strings.ToLower(strings.ReplaceAll(dest, "-", "_"))
		return origin + "-" + dest
	}
	return strings.ToLower(lane)
}

// Recommend filters the dataset to scenarios sharing at least one of the
// query's four dimensions (an OR-filter, deliberately broad), falling back
// to the whole dataset when nothing matches, and recommends the mean
// accepted discount clamped into the query's range.
func Recommend(ds *quote.Dataset, q quote.Query, thresholds quote.Thresholds) (*Recommendation, error) {
	if ds.Len() == 0 {
		return nil, core.ErrNoDataset
	}
	if q.MinDiscount > q.MaxDiscount {
		return nil, fmt.Errorf("%w: min %.1f > max %.1f", core.ErrInvalidRange, q.MinDiscount, q.MaxDiscount)
	}

	q = NormalizeQuery(q)

	similar := filterSimilar(ds.Records, q)
	if len(similar) == 0 {
		log.Printf("[Optimizer] No similar scenarios for query, falling back to full dataset")
		similar = ds.Records
	}

	var accepted []float64
	acceptedCount := 0
	for _, r := range similar {
		if r.Status == quote.StatusAccepted {
			accepted = append(accepted, r.Discount)
			acceptedCount++
		}
	}
	if acceptedCount == 0 {
		return nil, &NoAcceptedQuotesError{
			Suggestion: "Consider using AI predictions for this scenario",
		}
	}

	avg, _ := stats.Mean(accepted)
	median, _ := stats.Median(accepted)
	min, _ := stats.Min(accepted)
	max, _ := stats.Max(accepted)

	optimal := clamp(avg, q.MinDiscount, q.MaxDiscount)
	successRate := float64(acceptedCount) / float64(len(similar))

	confidence := thresholds.LowConfidence
	if acceptedCount > thresholds.ConfidenceSampleCut {
		confidence = thresholds.HighConfidence
	}

	return &Recommendation{
		Method:             "historical_analysis",
		OptimalDiscount:    optimal,
		SuccessProbability: successRate,
		Confidence:         confidence,
		HistoricalStats: Breakdown{
			TotalSimilarQuotes:      len(similar),
			AcceptedQuotes:          acceptedCount,
			AverageAcceptedDiscount: avg,
			MedianAcceptedDiscount:  median,
			MinAcceptedDiscount:     min,
			MaxAcceptedDiscount:     max,
		},
		Recommendation: fmt.Sprintf("Based on %d similar accepted quotes", acceptedCount),
	}, nil
}

// filterSimilar keeps rows matching any of the four normalized dimensions.
func filterSimilar(records []quote.FeaturedRecord, q quote.Query) []quote.FeaturedRecord {
	var out []quote.FeaturedRecord
	for _, r := range records {
		if r.CustomerID == q.CustomerID ||
			r.LanePair == q.LanePair ||
			r.ShipmentType == q.ShipmentType ||
			r.CommodityType == q.CommodityType {
			out = append(out, r)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
