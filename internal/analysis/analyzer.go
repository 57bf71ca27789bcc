package analysis

import (
	"sort"
	"strconv"
	"time"

	"quotelens/domain/quote"
)

// Analyzer computes the report sections over one processed dataset. Every
// section tolerates a nil or empty dataset and returns its zero value
// instead of failing.
type Analyzer struct {
	ds         *quote.Dataset
	thresholds quote.Thresholds
}

// NewAnalyzer creates an analyzer with the default thresholds.
func NewAnalyzer(ds *quote.Dataset) *Analyzer {
	return NewAnalyzerWithThresholds(ds, quote.DefaultThresholds())
}

// NewAnalyzerWithThresholds creates an analyzer with custom tier cutoffs.
func NewAnalyzerWithThresholds(ds *quote.Dataset, t quote.Thresholds) *Analyzer {
	return &Analyzer{ds: ds, thresholds: t}
}

// DateRange describes the calendar span of a dataset.
type DateRange struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	SpanDays int    `json:"span_days"`
}

// OverallStats is the dataset-wide report section.
type OverallStats struct {
	TotalQuotes           int            `json:"total_quotes"`
	TotalCustomers        int            `json:"total_customers"`
	TotalLanePairs        int            `json:"total_lane_pairs"`
	OverallAcceptanceRate float64        `json:"overall_acceptance_rate"`
	TotalAcceptedQuotes   int            `json:"total_accepted_quotes"`
	DateRange             DateRange      `json:"date_range"`
	DiscountStats         DiscountStats  `json:"discount_statistics"`
	DiscountQuartiles     Quartiles      `json:"discount_quartiles"`
	AcceptedDiscountStats *DiscountStats `json:"accepted_discount_statistics,omitempty"`
}

// Overall computes counts, the overall acceptance rate, the date span, and
// the discount distribution over all rows and over accepted rows only.
func (a *Analyzer) Overall() OverallStats {
	if a.ds.Len() == 0 {
		return OverallStats{}
	}

	records := a.ds.Records
	accepted := a.ds.Accepted()

	out := OverallStats{
		TotalQuotes:           len(records),
		TotalCustomers:        len(groupBy(records, byCustomer)),
		TotalLanePairs:        len(groupBy(records, byLane)),
		OverallAcceptanceRate: quote.AcceptanceRate(len(accepted), len(records)),
		TotalAcceptedQuotes:   len(accepted),
		DateRange:             dateRange(records),
		DiscountStats:         discountStats(discountsOf(records)),
		DiscountQuartiles:     quartiles(discountsOf(records)),
	}

	if len(accepted) > 0 {
		s := discountStats(discountsOf(accepted))
		out.AcceptedDiscountStats = &s
	}
	return out
}

// CustomerStats is one customer's historical profile.
type CustomerStats struct {
	CustomerID              string         `json:"customer_id"`
	TotalQuotes             int            `json:"total_quotes"`
	AcceptedQuotes          int            `json:"accepted_quotes"`
	AcceptanceRate          float64        `json:"acceptance_rate"`
	AverageAcceptedDiscount float64        `json:"average_accepted_discount"`
	PreferredShipmentTypes  map[string]int `json:"preferred_shipment_types"`
	PreferredCommodityTypes map[string]int `json:"preferred_commodity_types"`
}

// CustomerAnalysis is the per-customer report section.
type CustomerAnalysis struct {
	TotalCustomers      int             `json:"total_customers"`
	AcceptanceRates     RateSummary     `json:"customer_acceptance_rates"`
	HighValueCustomers  []string        `json:"high_value_customers"`
	LowValueCustomers   []string        `json:"low_value_customers"`
	MostActiveCustomers []CustomerStats `json:"most_active_customers"`
}

// Customers analyzes behavior per customer and classifies high-value
// (acceptance rate above the high cutoff) and low-value (below the low
// cutoff) customers.
func (a *Analyzer) Customers() CustomerAnalysis {
	if a.ds.Len() == 0 {
		return CustomerAnalysis{}
	}

	groups := groupBy(a.ds.Records, byCustomer)

	all := make([]CustomerStats, 0, len(groups))
	rates := make([]float64, 0, len(groups))
	var high, low []string
	for _, g := range groups {
		cs := customerStats(g)
		all = append(all, cs)
		rates = append(rates, cs.AcceptanceRate)
		if cs.AcceptanceRate > a.thresholds.HighAcceptance {
			high = append(high, cs.CustomerID)
		}
		if cs.AcceptanceRate < a.thresholds.LowAcceptance {
			low = append(low, cs.CustomerID)
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].TotalQuotes > all[j].TotalQuotes })

	return CustomerAnalysis{
		TotalCustomers:      len(groups),
		AcceptanceRates:     rateSummary(rates),
		HighValueCustomers:  high,
		LowValueCustomers:   low,
		MostActiveCustomers: topN(all, 10),
	}
}

// CustomerHistory returns one customer's profile, or ok=false when the
// customer has no history. The estimator adapters use this for context.
func (a *Analyzer) CustomerHistory(customerID string) (CustomerStats, bool) {
	for _, g := range groupBy(a.ds.Records, byCustomer) {
		if g.key == customerID {
			return customerStats(g), true
		}
	}
	return CustomerStats{}, false
}

func customerStats(g group) CustomerStats {
	shipments := make(map[string]int)
	commodities := make(map[string]int)
	var acceptedDiscounts []float64
	for _, r := range g.records {
		shipments[r.ShipmentType]++
		commodities[r.CommodityType]++
		if r.Status == quote.StatusAccepted {
			acceptedDiscounts = append(acceptedDiscounts, r.Discount)
		}
	}

	avgAccepted := 0.0
	if len(acceptedDiscounts) > 0 {
		sum := 0.0
		for _, d := range acceptedDiscounts {
			sum += d
		}
		avgAccepted = quote.Round(sum/float64(len(acceptedDiscounts)), 3)
	}

	return CustomerStats{
		CustomerID:              g.key,
		TotalQuotes:             g.total(),
		AcceptedQuotes:          g.accepted(),
		AcceptanceRate:          g.acceptanceRate(),
		AverageAcceptedDiscount: avgAccepted,
		PreferredShipmentTypes:  shipments,
		PreferredCommodityTypes: commodities,
	}
}

// LaneStats is one lane's performance profile.
type LaneStats struct {
	LanePair       string  `json:"lane_pair"`
	TotalQuotes    int     `json:"total_quotes"`
	AcceptedQuotes int     `json:"accepted_quotes"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	AvgDiscount    float64 `json:"avg_discount"`
	MedianDiscount float64 `json:"median_discount"`
	StdDiscount    float64 `json:"std_discount"`
	MinDiscount    float64 `json:"min_discount"`
	MaxDiscount    float64 `json:"max_discount"`
}

// LaneTierCounts buckets lanes into acceptance tiers.
type LaneTierCounts struct {
	HighAcceptanceLanes   int `json:"high_acceptance_lanes"`
	MediumAcceptanceLanes int `json:"medium_acceptance_lanes"`
	LowAcceptanceLanes    int `json:"low_acceptance_lanes"`
}

// LaneAnalysis is the per-lane report section.
type LaneAnalysis struct {
	TotalLanes           int            `json:"total_lanes"`
	BestPerformingLanes  []LaneStats    `json:"best_performing_lanes"`
	WorstPerformingLanes []LaneStats    `json:"worst_performing_lanes"`
	HighVolumeLanes      []LaneStats    `json:"high_volume_lanes"`
	AcceptanceTiers      LaneTierCounts `json:"lane_acceptance_distribution"`
}

// Lanes analyzes performance per lane pair: top and bottom ten by acceptance
// rate, top ten by volume, and a three-way tier count.
func (a *Analyzer) Lanes() LaneAnalysis {
	if a.ds.Len() == 0 {
		return LaneAnalysis{}
	}

	groups := groupBy(a.ds.Records, byLane)

	all := make([]LaneStats, 0, len(groups))
	var tiers LaneTierCounts
	for _, g := range groups {
		ds := discountStats(g.discounts())
		ls := LaneStats{
			LanePair:       g.key,
			TotalQuotes:    g.total(),
			AcceptedQuotes: g.accepted(),
			AcceptanceRate: g.acceptanceRate(),
			AvgDiscount:    ds.Mean,
			MedianDiscount: ds.Median,
			StdDiscount:    ds.Std,
			MinDiscount:    ds.Min,
			MaxDiscount:    ds.Max,
		}
		all = append(all, ls)

		switch {
		case ls.AcceptanceRate > a.thresholds.HighAcceptance:
			tiers.HighAcceptanceLanes++
		case ls.AcceptanceRate < a.thresholds.LowAcceptance:
			tiers.LowAcceptanceLanes++
		default:
			tiers.MediumAcceptanceLanes++
		}
	}

	byRate := make([]LaneStats, len(all))
	copy(byRate, all)
	sort.SliceStable(byRate, func(i, j int) bool { return byRate[i].AcceptanceRate > byRate[j].AcceptanceRate })

	byRateAsc := make([]LaneStats, len(all))
	copy(byRateAsc, all)
	sort.SliceStable(byRateAsc, func(i, j int) bool { return byRateAsc[i].AcceptanceRate < byRateAsc[j].AcceptanceRate })

	byVolume := make([]LaneStats, len(all))
	copy(byVolume, all)
	sort.SliceStable(byVolume, func(i, j int) bool { return byVolume[i].TotalQuotes > byVolume[j].TotalQuotes })

	return LaneAnalysis{
		TotalLanes:           len(groups),
		BestPerformingLanes:  topN(byRate, 10),
		WorstPerformingLanes: topN(byRateAsc, 10),
		HighVolumeLanes:      topN(byVolume, 10),
		AcceptanceTiers:      tiers,
	}
}

// TypePerformance is the profile of one shipment or commodity category.
type TypePerformance struct {
	Type           string  `json:"type"`
	TotalQuotes    int     `json:"total_quotes"`
	AcceptedQuotes int     `json:"accepted_quotes"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	AvgDiscount    float64 `json:"avg_discount"`
	MedianDiscount float64 `json:"median_discount"`
	StdDiscount    float64 `json:"std_discount"`
}

// CategoryAnalysis is the report section for one categorical dimension.
// Best and MostPopular tie-break on first occurrence in the dataset order.
type CategoryAnalysis struct {
	Performance []TypePerformance `json:"performance"`
	Best        *TypePerformance  `json:"best,omitempty"`
	MostPopular *TypePerformance  `json:"most_popular,omitempty"`
}

// ShipmentTypes analyzes acceptance and discounts per shipment type.
func (a *Analyzer) ShipmentTypes() CategoryAnalysis {
	return a.categoryAnalysis(func(r quote.FeaturedRecord) string { return r.ShipmentType })
}

// Commodities analyzes acceptance and discounts per commodity type.
func (a *Analyzer) Commodities() CategoryAnalysis {
	return a.categoryAnalysis(func(r quote.FeaturedRecord) string { return r.CommodityType })
}

func (a *Analyzer) categoryAnalysis(key func(quote.FeaturedRecord) string) CategoryAnalysis {
	if a.ds.Len() == 0 {
		return CategoryAnalysis{}
	}

	groups := groupBy(a.ds.Records, key)

	perf := make([]TypePerformance, 0, len(groups))
	for _, g := range groups {
		ds := discountStats(g.discounts())
		perf = append(perf, TypePerformance{
			Type:           g.key,
			TotalQuotes:    g.total(),
			AcceptedQuotes: g.accepted(),
			AcceptanceRate: g.acceptanceRate(),
			AvgDiscount:    ds.Mean,
			MedianDiscount: ds.Median,
			StdDiscount:    ds.Std,
		})
	}

	best := perf[0]
	popular := perf[0]
	for _, p := range perf[1:] {
		if p.AcceptanceRate > best.AcceptanceRate {
			best = p
		}
		if p.TotalQuotes > popular.TotalQuotes {
			popular = p
		}
	}

	return CategoryAnalysis{Performance: perf, Best: &best, MostPopular: &popular}
}

// PeriodStats is acceptance and volume within one calendar period.
type PeriodStats struct {
	Period         string  `json:"period"`
	TotalQuotes    int     `json:"total_quotes"`
	AcceptedQuotes int     `json:"accepted_quotes"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// SeasonalPatterns picks the extreme periods by acceptance rate.
type SeasonalPatterns struct {
	BestMonth     string `json:"best_month"`
	WorstMonth    string `json:"worst_month"`
	BestQuarter   string `json:"best_quarter"`
	BestDayOfWeek string `json:"best_day_of_week"`
}

// TemporalAnalysis is the time-based report section.
type TemporalAnalysis struct {
	MonthlyTrends     []PeriodStats    `json:"monthly_trends"`
	QuarterlyTrends   []PeriodStats    `json:"quarterly_trends"`
	DayOfWeekAnalysis []PeriodStats    `json:"day_of_week_analysis"`
	SeasonalPatterns  SeasonalPatterns `json:"seasonal_patterns"`
}

// Temporal aggregates acceptance by month, quarter, and day of week.
func (a *Analyzer) Temporal() TemporalAnalysis {
	if a.ds.Len() == 0 {
		return TemporalAnalysis{}
	}

	monthly := periodStats(a.ds.Records, func(r quote.FeaturedRecord) string {
		return r.Date.Format("2006-01")
	})
	quarterly := periodStats(a.ds.Records, func(r quote.FeaturedRecord) string {
		return r.Date.Format("2006") + "Q" + strconv.Itoa(r.Features.Quarter)
	})
	dow := periodStats(a.ds.Records, func(r quote.FeaturedRecord) string {
		return r.Features.DayOfWeek.String()
	})

	sort.SliceStable(monthly, func(i, j int) bool { return monthly[i].Period < monthly[j].Period })
	sort.SliceStable(quarterly, func(i, j int) bool { return quarterly[i].Period < quarterly[j].Period })

	return TemporalAnalysis{
		MonthlyTrends:     monthly,
		QuarterlyTrends:   quarterly,
		DayOfWeekAnalysis: dow,
		SeasonalPatterns: SeasonalPatterns{
			BestMonth:     pickPeriod(monthly, true),
			WorstMonth:    pickPeriod(monthly, false),
			BestQuarter:   pickPeriod(quarterly, true),
			BestDayOfWeek: pickPeriod(dow, true),
		},
	}
}

func periodStats(records []quote.FeaturedRecord, key func(quote.FeaturedRecord) string) []PeriodStats {
	groups := groupBy(records, key)
	out := make([]PeriodStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, PeriodStats{
			Period:         g.key,
			TotalQuotes:    g.total(),
			AcceptedQuotes: g.accepted(),
			AcceptanceRate: g.acceptanceRate(),
		})
	}
	return out
}

// pickPeriod returns the period with the maximum (or minimum) acceptance
// rate, first occurrence on ties.
func pickPeriod(periods []PeriodStats, max bool) string {
	if len(periods) == 0 {
		return ""
	}
	best := periods[0]
	for _, p := range periods[1:] {
		if max && p.AcceptanceRate > best.AcceptanceRate {
			best = p
		}
		if !max && p.AcceptanceRate < best.AcceptanceRate {
			best = p
		}
	}
	return best.Period
}

func dateRange(records []quote.FeaturedRecord) DateRange {
	min := records[0].Date
	max := records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return DateRange{
		Start:    min.Format("2006-01-02"),
		End:      max.Format("2006-01-02"),
		SpanDays: int(max.Sub(min) / (24 * time.Hour)),
	}
}

func byCustomer(r quote.FeaturedRecord) string { return r.CustomerID }
func byLane(r quote.FeaturedRecord) string     { return r.LanePair }

func topN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
