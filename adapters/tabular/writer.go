package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"quotelens/domain/core"
	"quotelens/domain/quote"
)

// WriteCSV exports a processed dataset back to the canonical CSV schema.
// Derived feature columns are not exported; the canonical columns round-trip
// identically through load -> process -> export.
func WriteCSV(w io.Writer, ds *quote.Dataset) error {
	if ds.Len() == 0 {
		return core.ErrNoDataset
	}

	cw := csv.NewWriter(w)
	header := append([]string{}, quote.CanonicalColumns...)
	header = append(header, quote.ColLanePair)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range ds.Records {
		row := []string{
			r.CustomerID,
			r.Date.Format("2006-01-02"),
			r.ShipmentType,
			r.CommodityType,
			r.ShipperCountry,
			r.ShipperStation,
			r.ConsigneeCountry,
			r.ConsigneeStation,
			strconv.FormatFloat(r.Discount, 'f', -1, 64),
			string(r.Status),
			r.LanePair,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
