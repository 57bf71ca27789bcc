package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"quotelens/domain/quote"
)

// discountBand is a fixed sub-range of the discount axis: [Lo, Hi), except
// the last band which includes its upper bound.
type discountBand struct {
	Label string
	Lo    float64
	Hi    float64
}

// The seven fixed bands of the sensitivity report.
var discountBands = []discountBand{
	{"0-5%", 0, 5},
	{"5-10%", 5, 10},
	{"10-15%", 10, 15},
	{"15-20%", 15, 20},
	{"20-25%", 20, 25},
	{"25-30%", 25, 30},
	{"30%+", 30, 100},
}

// BandStats is the acceptance profile of one discount band.
type BandStats struct {
	Band           string  `json:"discount_bucket"`
	TotalQuotes    int     `json:"total_quotes"`
	AcceptedQuotes int     `json:"accepted_quotes"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// OptimalRange is the result of the 20-bin search over the full discount
// span.
type OptimalRange struct {
	Range          string  `json:"optimal_range"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	SampleSize     int     `json:"sample_size"`
}

// SensitivityAnalysis relates discount levels to acceptance.
type SensitivityAnalysis struct {
	Buckets           []BandStats   `json:"discount_bucket_analysis"`
	Correlation       float64       `json:"discount_acceptance_correlation"`
	CorrelationPValue float64       `json:"correlation_p_value"`
	OptimalRange      *OptimalRange `json:"optimal_discount_range,omitempty"`
	Insights          []string      `json:"discount_sensitivity_insights"`
}

// Sensitivity computes the fixed-band acceptance profile, the Pearson
// correlation between discount and the 0/1 acceptance indicator, and the
// optimal-range search.
func (a *Analyzer) Sensitivity() SensitivityAnalysis {
	if a.ds.Len() == 0 {
		return SensitivityAnalysis{}
	}

	records := a.ds.Records
	buckets := bandStats(records)
	corr, pValue := acceptanceCorrelation(records)

	return SensitivityAnalysis{
		Buckets:           buckets,
		Correlation:       quote.Round(corr, 3),
		CorrelationPValue: quote.Round(pValue, 4),
		OptimalRange:      optimalDiscountRange(records),
		Insights:          discountInsights(buckets),
	}
}

func bandStats(records []quote.FeaturedRecord) []BandStats {
	out := make([]BandStats, len(discountBands))
	for i, b := range discountBands {
		out[i].Band = b.Label
	}

	for _, r := range records {
		for i, b := range discountBands {
			last := i == len(discountBands)-1
			if r.Discount >= b.Lo && (r.Discount < b.Hi || (last && r.Discount <= b.Hi)) {
				out[i].TotalQuotes++
				if r.Status == quote.StatusAccepted {
					out[i].AcceptedQuotes++
				}
				break
			}
		}
	}

	for i := range out {
		out[i].AcceptanceRate = quote.AcceptanceRate(out[i].AcceptedQuotes, out[i].TotalQuotes)
	}
	return out
}

// acceptanceCorrelation is the Pearson correlation between the raw discount
// and a 0/1 acceptance indicator, with a two-sided t-test p-value. Returns
// zero correlation when either series has no variance.
func acceptanceCorrelation(records []quote.FeaturedRecord) (float64, float64) {
	n := len(records)
	if n < 3 {
		return 0, 1
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, r := range records {
		x[i] = r.Discount
		if r.Status == quote.StatusAccepted {
			y[i] = 1
		}
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 1
	}

	if math.Abs(r) >= 1 {
		return r, 0
	}

	// Two-sided significance via the t distribution with n-2 degrees of
	// freedom.
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue := 2 * dist.Survival(math.Abs(t))
	return r, pValue
}

// optimalDiscountRange re-buckets the full discount span into 20 equal-width
// bins and reports the bin with the highest acceptance rate (first
// occurrence on ties) together with its sample size.
func optimalDiscountRange(records []quote.FeaturedRecord) *OptimalRange {
	if len(records) == 0 {
		return nil
	}

	min := records[0].Discount
	max := records[0].Discount
	for _, r := range records[1:] {
		min = math.Min(min, r.Discount)
		max = math.Max(max, r.Discount)
	}

	const bins = 20
	width := (max - min) / bins
	if width == 0 {
		// Single discount level; one degenerate bin.
		accepted := 0
		for _, r := range records {
			if r.Status == quote.StatusAccepted {
				accepted++
			}
		}
		return &OptimalRange{
			Range:          fmt.Sprintf("%.1f-%.1f%%", min, max),
			AcceptanceRate: quote.AcceptanceRate(accepted, len(records)),
			SampleSize:     len(records),
		}
	}

	totals := make([]int, bins)
	accepted := make([]int, bins)
	for _, r := range records {
		i := int((r.Discount - min) / width)
		if i >= bins {
			i = bins - 1
		}
		totals[i]++
		if r.Status == quote.StatusAccepted {
			accepted[i]++
		}
	}

	best := -1
	bestRate := -1.0
	for i := 0; i < bins; i++ {
		if totals[i] == 0 {
			continue
		}
		rate := quote.AcceptanceRate(accepted[i], totals[i])
		if rate > bestRate {
			best = i
			bestRate = rate
		}
	}
	if best < 0 {
		return nil
	}

	lo := min + float64(best)*width
	return &OptimalRange{
		Range:          fmt.Sprintf("%.1f-%.1f%%", lo, lo+width),
		AcceptanceRate: bestRate,
		SampleSize:     totals[best],
	}
}

// discountInsights derives the natural-language notes from the fixed-band
// profile.
func discountInsights(buckets []BandStats) []string {
	populated := make([]BandStats, 0, len(buckets))
	for _, b := range buckets {
		if b.TotalQuotes > 0 {
			populated = append(populated, b)
		}
	}
	if len(populated) == 0 {
		return nil
	}

	best := populated[0]
	highVolume := populated[0]
	highAcceptance := 0
	for _, b := range populated {
		if b.AcceptanceRate > best.AcceptanceRate {
			best = b
		}
		if b.TotalQuotes > highVolume.TotalQuotes {
			highVolume = b
		}
		if b.AcceptanceRate > 0.6 {
			highAcceptance++
		}
	}

	insights := []string{
		fmt.Sprintf("Highest acceptance rate (%.1f%%) in %s range", best.AcceptanceRate*100, best.Band),
	}
	if highAcceptance > 0 {
		insights = append(insights, fmt.Sprintf("%d discount ranges show high acceptance rates (>60%%)", highAcceptance))
	}
	if highVolume.Band != best.Band {
		insights = append(insights, fmt.Sprintf("Most popular discount range (%s) has %.1f%% acceptance rate",
			highVolume.Band, highVolume.AcceptanceRate*100))
	}
	return insights
}
