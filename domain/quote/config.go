package quote

// ShipmentTypes is the closed set of supported shipment modes (lower-cased
// post-clean).
var ShipmentTypes = []string{"AIR", "OFR FCL", "OFR LCL"}

// CommodityTypes is the recommended commodity vocabulary. The field is an
// open string; this list seeds templates and UI pickers only.
var CommodityTypes = []string{
	"general",
	"temperature-sensitive",
	"dangerous goods",
	"perishables",
	"electronics",
	"automotive",
	"textiles",
	"machinery",
}

// Thresholds collects the tunable cutoffs used by the analyzer and the
// optimizer. The defaults come from the product configuration; change them
// only with product guidance.
type Thresholds struct {
	// Customer/lane tier boundaries on acceptance rate.
	HighAcceptance float64 `json:"high_acceptance"`
	LowAcceptance  float64 `json:"low_acceptance"`

	// Recommendations backed by more than ConfidenceSampleCut accepted
	// quotes report HighConfidence, otherwise LowConfidence. The value is a
	// coarse tier signal, not a probability.
	ConfidenceSampleCut int     `json:"confidence_sample_cut"`
	HighConfidence      float64 `json:"high_confidence"`
	LowConfidence       float64 `json:"low_confidence"`
}

// DefaultThresholds returns the product defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighAcceptance:      0.7,
		LowAcceptance:       0.3,
		ConfidenceSampleCut: 5,
		HighConfidence:      0.8,
		LowConfidence:       0.6,
	}
}
