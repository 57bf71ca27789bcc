package tabular

import (
	"bytes"
	"encoding/csv"

	"quotelens/domain/quote"
)

// TemplateCSV returns a downloadable CSV template in the canonical schema
// with a few example rows.
func TemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(quote.CanonicalColumns)
	_ = w.Write([]string{"CUST001", "2024-01-15", "AIR", "electronics", "USA", "LAX", "Germany", "HAM", "15.5", "accepted"})
	_ = w.Write([]string{"CUST002", "2024-01-18", "OFR FCL", "general", "China", "SHA", "USA", "LGB", "12.0", "rejected"})
	_ = w.Write([]string{"CUST001", "2024-02-02", "OFR LCL", "textiles", "India", "BOM", "UK", "FXT", "18.0", "accepted"})

	w.Flush()
	return buf.Bytes()
}
