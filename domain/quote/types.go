package quote

import (
	"fmt"
	"time"

	"quotelens/domain/core"
)

// Status represents the outcome of a quotation
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// IsValid reports whether the status is one of the recognized outcomes.
func (s Status) IsValid() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Canonical column names for the internal quote schema
const (
	ColCustomerID       = "customer_id"
	ColDate             = "date"
	ColShipmentType     = "shipment_type"
	ColCommodityType    = "commodity_type"
	ColShipperCountry   = "shipper_country"
	ColShipperStation   = "shipper_station"
	ColConsigneeCountry = "consignee_country"
	ColConsigneeStation = "consignee_station"
	ColDiscount         = "discount_offered"
	ColStatus           = "status"
	ColLanePair         = "lane_pair"
)

// CanonicalColumns lists the required columns of the internal format, in
// export order.
var CanonicalColumns = []string{
	ColCustomerID, ColDate, ColShipmentType, ColCommodityType,
	ColShipperCountry, ColShipperStation, ColConsigneeCountry,
	ColConsigneeStation, ColDiscount, ColStatus,
}

// Record is one historical or proposed quotation in the canonical schema.
// Text fields are lower-cased by cleaning; customer IDs stay upper-case.
type Record struct {
	CustomerID       string    `json:"customer_id"`
	Date             time.Time `json:"date"`
	ShipmentType     string    `json:"shipment_type"`
	CommodityType    string    `json:"commodity_type"`
	ShipperCountry   string    `json:"shipper_country"`
	ShipperStation   string    `json:"shipper_station"`
	ConsigneeCountry string    `json:"consignee_country"`
	ConsigneeStation string    `json:"consignee_station"`
	Discount         float64   `json:"discount_offered"`
	Status           Status    `json:"status"`
	LanePair         string    `json:"lane_pair"`
}

// LanePair builds the canonical origin->destination route key from the four
// location fields. Callers are expected to pass already case-folded values.
func LanePair(shipperCountry, shipperStation, consigneeCountry, consigneeStation string) string {
	return fmt.Sprintf("%s_%s-%s_%s", shipperCountry, shipperStation, consigneeCountry, consigneeStation)
}

// Features holds derived per-record fields attached by the feature augmenter.
// The group aggregates are computed over the entire loaded dataset, not a
// held-out subset; the engine is descriptive, and that leakage is intended.
type Features struct {
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	Quarter   int          `json:"quarter"`
	DayOfWeek time.Weekday `json:"day_of_week"`

	CustomerAcceptanceRate float64 `json:"customer_acceptance_rate"`
	CustomerAvgDiscount    float64 `json:"customer_avg_discount"`
	LaneAcceptanceRate     float64 `json:"lane_acceptance_rate"`
	LaneAvgDiscount        float64 `json:"lane_avg_discount"`
	ShipmentAcceptanceRate float64 `json:"shipment_acceptance_rate"`
	ShipmentAvgDiscount    float64 `json:"shipment_avg_discount"`
}

// FeaturedRecord is a cleaned record with its derived features.
type FeaturedRecord struct {
	Record
	Features Features `json:"features"`
}

// Dataset is the full collection of processed quote records for one session.
// It is replaced wholesale on every upload and never mutated in place.
type Dataset struct {
	ID         core.DatasetID   `json:"id"`
	SourceName string           `json:"source_name,omitempty"`
	Records    []FeaturedRecord `json:"records"`
	LoadedAt   time.Time        `json:"loaded_at"`
}

// NewDataset wraps processed records with a fresh identifier.
func NewDataset(sourceName string, records []FeaturedRecord) *Dataset {
	return &Dataset{
		ID:         core.DatasetID(core.NewID()),
		SourceName: sourceName,
		Records:    records,
		LoadedAt:   time.Now(),
	}
}

// Len returns the number of records; safe on a nil dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Accepted returns the subset of records with an accepted outcome.
func (d *Dataset) Accepted() []FeaturedRecord {
	if d == nil {
		return nil
	}
	var out []FeaturedRecord
	for _, r := range d.Records {
		if r.Status == StatusAccepted {
			out = append(out, r)
		}
	}
	return out
}

// Query identifies a proposed quote scenario for recommendation and
// prediction. Discount bounds clamp the final recommendation.
type Query struct {
	CustomerID    string  `json:"customer_id"`
	LanePair      string  `json:"lane_pair"`
	ShipmentType  string  `json:"shipment_type"`
	CommodityType string  `json:"commodity_type"`
	MinDiscount   float64 `json:"min_discount"`
	MaxDiscount   float64 `json:"max_discount"`
}
