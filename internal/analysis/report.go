package analysis

import "time"

// Report bundles every analysis section for one dataset.
type Report struct {
	Overall     OverallStats        `json:"overall_statistics"`
	Customers   CustomerAnalysis    `json:"customer_analysis"`
	Lanes       LaneAnalysis        `json:"lane_analysis"`
	Shipments   CategoryAnalysis    `json:"shipment_type_analysis"`
	Commodities CategoryAnalysis    `json:"commodity_analysis"`
	Temporal    TemporalAnalysis    `json:"temporal_analysis"`
	Sensitivity SensitivityAnalysis `json:"discount_sensitivity_analysis"`
	GeneratedAt string              `json:"generated_at"`
}

// Report generates the comprehensive analysis report. Sections over an empty
// dataset come back as zero values.
func (a *Analyzer) Report() Report {
	return Report{
		Overall:     a.Overall(),
		Customers:   a.Customers(),
		Lanes:       a.Lanes(),
		Shipments:   a.ShipmentTypes(),
		Commodities: a.Commodities(),
		Temporal:    a.Temporal(),
		Sensitivity: a.Sensitivity(),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
}
