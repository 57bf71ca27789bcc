package analysis

import (
	"quotelens/domain/quote"
)

// Summary is the compact dataset overview shown after processing.
type Summary struct {
	TotalRecords   int            `json:"total_records"`
	TotalCustomers int            `json:"total_customers"`
	TotalLanePairs int            `json:"total_lane_pairs"`
	DateRange      DateRange      `json:"date_range"`
	AcceptanceRate float64        `json:"acceptance_rate"`
	ShipmentTypes  map[string]int `json:"shipment_types"`
	CommodityTypes map[string]int `json:"commodity_types"`
	DiscountStats  DiscountStats  `json:"discount_stats"`
}

// Summarize computes the overview of a processed dataset. Returns the zero
// Summary for a nil or empty dataset.
func Summarize(ds *quote.Dataset) Summary {
	if ds.Len() == 0 {
		return Summary{}
	}

	shipments := make(map[string]int)
	commodities := make(map[string]int)
	accepted := 0
	for _, r := range ds.Records {
		shipments[r.ShipmentType]++
		commodities[r.CommodityType]++
		if r.Status == quote.StatusAccepted {
			accepted++
		}
	}

	return Summary{
		TotalRecords:   ds.Len(),
		TotalCustomers: len(groupBy(ds.Records, byCustomer)),
		TotalLanePairs: len(groupBy(ds.Records, byLane)),
		DateRange:      dateRange(ds.Records),
		AcceptanceRate: quote.AcceptanceRate(accepted, ds.Len()),
		ShipmentTypes:  shipments,
		CommodityTypes: commodities,
		DiscountStats:  discountStats(discountsOf(ds.Records)),
	}
}
