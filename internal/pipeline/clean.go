package pipeline

import (
	"log"
	"math"
	"strconv"
	"strings"

	"quotelens/domain/quote"
	"quotelens/internal/table"
)

// Parse converts a validated raw table into typed records. Nothing is
// dropped here: unparseable dates become the zero time and unparseable
// discounts become NaN, both treated as missing by Clean.
func Parse(t *table.Table) []quote.Record {
	records := make([]quote.Record, 0, t.Len())
	for _, row := range t.Rows {
		r := quote.Record{
			CustomerID:       row[quote.ColCustomerID],
			ShipmentType:     row[quote.ColShipmentType],
			CommodityType:    row[quote.ColCommodityType],
			ShipperCountry:   row[quote.ColShipperCountry],
			ShipperStation:   row[quote.ColShipperStation],
			ConsigneeCountry: row[quote.ColConsigneeCountry],
			ConsigneeStation: row[quote.ColConsigneeStation],
			Status:           quote.Status(row[quote.ColStatus]),
		}

		if d, ok := parseDate(row[quote.ColDate]); ok {
			r.Date = d
		}

		raw := strings.TrimSpace(row[quote.ColDiscount])
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			r.Discount = v
		} else {
			r.Discount = math.NaN()
		}

		records = append(records, r)
	}
	return records
}

// dedupeKey is the exact canonical tuple; two rows are duplicates only when
// every field matches. Dates compare by calendar day.
type dedupeKey struct {
	customer, date, shipment, commodity        string
	shipperCountry, shipperStation             string
	consigneeCountry, consigneeStation, status string
	discount                                   float64
}

// Clean standardizes and filters records so that every survivor satisfies
// the dataset invariants: discount in [0,100], status accepted/rejected,
// non-missing identity fields, and a lane pair derived from the folded
// location fields. Clean is idempotent.
func Clean(records []quote.Record) []quote.Record {
	folded := make([]quote.Record, 0, len(records))
	for _, r := range records {
		r.CustomerID = strings.ToUpper(strings.TrimSpace(r.CustomerID))
		r.ShipmentType = fold(r.ShipmentType)
		r.CommodityType = fold(r.CommodityType)
		r.ShipperCountry = fold(r.ShipperCountry)
		r.ShipperStation = fold(r.ShipperStation)
		r.ConsigneeCountry = fold(r.ConsigneeCountry)
		r.ConsigneeStation = fold(r.ConsigneeStation)
		r.Status = quote.Status(fold(string(r.Status)))
		r.LanePair = quote.LanePair(r.ShipperCountry, r.ShipperStation, r.ConsigneeCountry, r.ConsigneeStation)
		folded = append(folded, r)
	}

	seen := make(map[dedupeKey]struct{}, len(folded))
	deduped := folded[:0]
	for _, r := range folded {
		key := dedupeKey{
			customer:          r.CustomerID,
			date:              r.Date.Format("2006-01-02"),
			shipment:          r.ShipmentType,
			commodity:         r.CommodityType,
			shipperCountry:    r.ShipperCountry,
			shipperStation:    r.ShipperStation,
			consigneeCountry:  r.ConsigneeCountry,
			consigneeStation:  r.ConsigneeStation,
			status:            string(r.Status),
			discount:          r.Discount,
		}
		// NaN discounts never collide on the key; those rows drop below anyway.
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}
	if removed := len(folded) - len(deduped); removed > 0 {
		log.Printf("[Cleaner] Removed %d duplicate records", removed)
	}

	out := make([]quote.Record, 0, len(deduped))
	for _, r := range deduped {
		if r.CustomerID == "" || r.Date.IsZero() || math.IsNaN(r.Discount) || r.Status == "" {
			continue
		}
		if r.Discount < 0 || r.Discount > 100 {
			continue
		}
		if !r.Status.IsValid() {
			continue
		}
		out = append(out, r)
	}

	log.Printf("[Cleaner] Data cleaned. Final dataset: %d records", len(out))
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
