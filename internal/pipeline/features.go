package pipeline

import (
	"log"

	"quotelens/domain/quote"
)

// groupAggregate is a group-level acceptance rate plus mean offered
// discount, both rounded to 3 decimals.
type groupAggregate struct {
	rate        float64
	avgDiscount float64
}

// Augment attaches derived columns to every record: calendar fields from the
// date, and customer/lane/shipment group aggregates. Aggregates are computed
// over the whole cleaned dataset (including the row they land on) - the
// engine is descriptive, and that leakage is intended behavior. Augment only
// adds fields; it never removes rows. Single-row groups yield a rate of
// exactly 0 or 1; the minimum-sample guard lives in the optimizer.
func Augment(records []quote.Record) []quote.FeaturedRecord {
	byCustomer := groupAggregates(records, func(r quote.Record) string { return r.CustomerID })
	byLane := groupAggregates(records, func(r quote.Record) string { return r.LanePair })
	byShipment := groupAggregates(records, func(r quote.Record) string { return r.ShipmentType })

	out := make([]quote.FeaturedRecord, 0, len(records))
	for _, r := range records {
		f := quote.Features{
			Year:      r.Date.Year(),
			Month:     r.Date.Month(),
			Quarter:   (int(r.Date.Month())-1)/3 + 1,
			DayOfWeek: r.Date.Weekday(),
		}

		c := byCustomer[r.CustomerID]
		f.CustomerAcceptanceRate = c.rate
		f.CustomerAvgDiscount = c.avgDiscount

		l := byLane[r.LanePair]
		f.LaneAcceptanceRate = l.rate
		f.LaneAvgDiscount = l.avgDiscount

		s := byShipment[r.ShipmentType]
		f.ShipmentAcceptanceRate = s.rate
		f.ShipmentAvgDiscount = s.avgDiscount

		out = append(out, quote.FeaturedRecord{Record: r, Features: f})
	}

	log.Printf("[Features] Feature engineering completed for %d records", len(out))
	return out
}

func groupAggregates(records []quote.Record, key func(quote.Record) string) map[string]groupAggregate {
	type acc struct {
		total    int
		accepted int
		discount float64
	}

	groups := make(map[string]*acc)
	for _, r := range records {
		k := key(r)
		a := groups[k]
		if a == nil {
			a = &acc{}
			groups[k] = a
		}
		a.total++
		if r.Status == quote.StatusAccepted {
			a.accepted++
		}
		a.discount += r.Discount
	}

	out := make(map[string]groupAggregate, len(groups))
	for k, a := range groups {
		out[k] = groupAggregate{
			rate:        quote.AcceptanceRate(a.accepted, a.total),
			avgDiscount: quote.Round(a.discount/float64(a.total), 3),
		}
	}
	return out
}
