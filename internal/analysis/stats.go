package analysis

import (
	"github.com/montanaflynn/stats"

	"quotelens/domain/quote"
)

// DiscountStats summarizes a discount distribution, rounded to 2 decimals.
type DiscountStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Quartiles are the 25th and 75th percentiles of a discount distribution.
type Quartiles struct {
	Q25 float64 `json:"q25"`
	Q75 float64 `json:"q75"`
}

// RateSummary summarizes a distribution of acceptance rates, rounded to 3
// decimals.
type RateSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// discountStats computes the summary of a discount distribution. Sample
// standard deviation, matching the source reports; zero when fewer than two
// values so results stay JSON-encodable.
func discountStats(values []float64) DiscountStats {
	if len(values) == 0 {
		return DiscountStats{}
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	std := 0.0
	if len(values) > 1 {
		std, _ = stats.StandardDeviationSample(values)
	}

	return DiscountStats{
		Mean:   quote.Round(mean, 2),
		Median: quote.Round(median, 2),
		Std:    quote.Round(std, 2),
		Min:    quote.Round(min, 2),
		Max:    quote.Round(max, 2),
	}
}

func quartiles(values []float64) Quartiles {
	if len(values) == 0 {
		return Quartiles{}
	}
	q25, _ := stats.Percentile(values, 25)
	q75, _ := stats.Percentile(values, 75)
	return Quartiles{Q25: quote.Round(q25, 2), Q75: quote.Round(q75, 2)}
}

func rateSummary(values []float64) RateSummary {
	if len(values) == 0 {
		return RateSummary{}
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	std := 0.0
	if len(values) > 1 {
		std, _ = stats.StandardDeviationSample(values)
	}

	return RateSummary{
		Mean:   quote.Round(mean, 3),
		Median: quote.Round(median, 3),
		Std:    quote.Round(std, 3),
		Min:    quote.Round(min, 3),
		Max:    quote.Round(max, 3),
	}
}

// group is a keyed subset of records in first-occurrence order, so that
// max/min picks tie-break deterministically on the underlying ordering.
type group struct {
	key     string
	records []quote.FeaturedRecord
}

func groupBy(records []quote.FeaturedRecord, key func(quote.FeaturedRecord) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

func (g group) total() int {
	return len(g.records)
}

func (g group) accepted() int {
	n := 0
	for _, r := range g.records {
		if r.Status == quote.StatusAccepted {
			n++
		}
	}
	return n
}

func (g group) acceptanceRate() float64 {
	return quote.AcceptanceRate(g.accepted(), g.total())
}

func (g group) discounts() []float64 {
	out := make([]float64, len(g.records))
	for i, r := range g.records {
		out[i] = r.Discount
	}
	return out
}

func discountsOf(records []quote.FeaturedRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Discount
	}
	return out
}
