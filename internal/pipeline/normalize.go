package pipeline

import (
	"log"
	"strings"

	"quotelens/domain/quote"
	"quotelens/internal/table"
)

// alternateColumns is the upload schema produced by the quoting front end
// (camelCase business names). Detection requires every column to be present.
var alternateColumns = []string{
	"date", "customerName", "shipmentType", "commodityType",
	"shipperCountry", "shipperStation", "consigneeCountry",
	"consigneeStation", "discount", "accepted",
}

// columnMapping renames alternate-schema columns to canonical names.
var columnMapping = map[string]string{
	"customerName":     quote.ColCustomerID,
	"shipmentType":     quote.ColShipmentType,
	"commodityType":    quote.ColCommodityType,
	"shipperCountry":   quote.ColShipperCountry,
	"shipperStation":   quote.ColShipperStation,
	"consigneeCountry": quote.ColConsigneeCountry,
	"consigneeStation": quote.ColConsigneeStation,
	"discount":         quote.ColDiscount,
}

// acceptedTruthy are the only boolean spellings recognized for the alternate
// schema's accepted column. Anything else maps to rejected.
var acceptedTruthy = map[string]bool{
	"TRUE": true, "T": true, "1": true, "YES": true,
}

// Normalize converts an alternate-schema table into the canonical schema.
// If any alternate column is absent the input is assumed canonical (or
// destined to fail validation) and is returned untouched. The caller's
// table is never mutated.
func Normalize(t *table.Table) *table.Table {
	if t.MissingColumns(alternateColumns) != nil {
		log.Printf("[Normalizer] Data already in internal format or different format detected")
		return t
	}

	log.Printf("[Normalizer] Converting alternate upload format to internal format")
	out := t.Clone()

	for i, h := range out.Headers {
		if canonical, ok := columnMapping[h]; ok {
			out.Headers[i] = canonical
		}
	}

	for _, row := range out.Rows {
		for alt, canonical := range columnMapping {
			if v, ok := row[alt]; ok {
				row[canonical] = v
				delete(row, alt)
			}
		}

		raw := strings.ToUpper(strings.TrimSpace(row["accepted"]))
		if acceptedTruthy[raw] {
			row[quote.ColStatus] = string(quote.StatusAccepted)
		} else {
			row[quote.ColStatus] = string(quote.StatusRejected)
		}
		delete(row, "accepted")
	}
	for i, h := range out.Headers {
		if h == "accepted" {
			out.Headers[i] = quote.ColStatus
		}
	}

	normalizeDates(out)

	log.Printf("[Normalizer] Successfully normalized %d rows from alternate format", out.Len())
	return out
}

// normalizeDates rewrites the date column to ISO form. If any value fails to
// parse the column is left as-is; validation and cleaning deal with it later.
func normalizeDates(t *table.Table) {
	converted := make([]string, t.Len())
	for i, row := range t.Rows {
		d, ok := parseDate(row[quote.ColDate])
		if !ok {
			log.Printf("[Normalizer] Could not convert date format: %q", row[quote.ColDate])
			return
		}
		converted[i] = d.Format("2006-01-02")
	}
	for i, row := range t.Rows {
		row[quote.ColDate] = converted[i]
	}
}
