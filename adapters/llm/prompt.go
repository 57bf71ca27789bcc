package llm

import (
	"fmt"
	"strings"

	"quotelens/domain/quote"
)

// dimStats is the historical profile of one filter dimension, used only to
// ground the prompt.
type dimStats struct {
	total       int
	rate        float64
	avgDiscount float64
}

func statsWhere(ds *quote.Dataset, match func(quote.FeaturedRecord) bool) dimStats {
	var s dimStats
	accepted := 0
	sum := 0.0
	for _, r := range ds.Records {
		if !match(r) {
			continue
		}
		s.total++
		sum += r.Discount
		if r.Status == quote.StatusAccepted {
			accepted++
		}
	}
	if s.total > 0 {
		s.rate = float64(accepted) / float64(s.total)
		s.avgDiscount = sum / float64(s.total)
	}
	return s
}

// buildPrompt assembles the analysis prompt: historical context for each
// query dimension, the quote under consideration, and the required JSON
// response shape.
func buildPrompt(ds *quote.Dataset, original, q quote.Query, proposedDiscount float64) string {
	customer := statsWhere(ds, func(r quote.FeaturedRecord) bool { return r.CustomerID == q.CustomerID })
	lane := statsWhere(ds, func(r quote.FeaturedRecord) bool { return r.LanePair == q.LanePair })
	shipment := statsWhere(ds, func(r quote.FeaturedRecord) bool { return r.ShipmentType == q.ShipmentType })
	commodity := statsWhere(ds, func(r quote.FeaturedRecord) bool { return r.CommodityType == q.CommodityType })

	var b strings.Builder
	b.WriteString("Based on the historical data provided, predict the likelihood that a customer will accept a discount offer.\n\n")
	b.WriteString("LOGISTICS QUOTE ANALYSIS CONTEXT:\n\n")

	fmt.Fprintf(&b, "Customer Analysis (ID: %s):\n", q.CustomerID)
	fmt.Fprintf(&b, "- Total historical quotes: %d\n", customer.total)
	fmt.Fprintf(&b, "- Acceptance rate: %.1f%%\n", customer.rate*100)
	fmt.Fprintf(&b, "- Average discount: %.1f%%\n\n", customer.avgDiscount)

	fmt.Fprintf(&b, "Lane Analysis (%s):\n", q.LanePair)
	fmt.Fprintf(&b, "- Total quotes for this lane: %d\n", lane.total)
	fmt.Fprintf(&b, "- Lane acceptance rate: %.1f%%\n", lane.rate*100)
	fmt.Fprintf(&b, "- Average discount for this lane: %.1f%%\n\n", lane.avgDiscount)

	fmt.Fprintf(&b, "Shipment Type Analysis (%s):\n", q.ShipmentType)
	fmt.Fprintf(&b, "- Total quotes for this shipment type: %d\n", shipment.total)
	fmt.Fprintf(&b, "- Shipment type acceptance rate: %.1f%%\n", shipment.rate*100)
	fmt.Fprintf(&b, "- Average discount for this shipment type: %.1f%%\n\n", shipment.avgDiscount)

	fmt.Fprintf(&b, "Commodity Analysis (%s):\n", q.CommodityType)
	fmt.Fprintf(&b, "- Total quotes for this commodity: %d\n", commodity.total)
	fmt.Fprintf(&b, "- Commodity acceptance rate: %.1f%%\n", commodity.rate*100)
	fmt.Fprintf(&b, "- Average discount for this commodity: %.1f%%\n\n", commodity.avgDiscount)

	b.WriteString("CURRENT QUOTE DETAILS:\n")
	fmt.Fprintf(&b, "- Customer ID: %s\n", q.CustomerID)
	fmt.Fprintf(&b, "- Lane: %s (Original: %s)\n", q.LanePair, original.LanePair)
	fmt.Fprintf(&b, "- Shipment Type: %s (Original: %s)\n", q.ShipmentType, original.ShipmentType)
	fmt.Fprintf(&b, "- Commodity Type: %s (Original: %s)\n", q.CommodityType, original.CommodityType)
	fmt.Fprintf(&b, "- Proposed Discount: %.1f%%\n\n", proposedDiscount)

	b.WriteString(`Provide your analysis in the following JSON format:
{
    "acceptance_probability": <float between 0 and 1>,
    "confidence_level": <float between 0 and 1>,
    "key_factors": [<list of key factors influencing the decision>],
    "recommended_discount": <suggested optimal discount percentage>,
    "reasoning": "<detailed explanation of your analysis>",
    "risk_assessment": "<low/medium/high>"
}

Consider factors such as:
- Customer's historical acceptance patterns
- Lane-specific pricing trends
- Shipment type preferences
- Commodity type considerations
- Seasonal factors
- Market conditions
`)

	return b.String()
}
