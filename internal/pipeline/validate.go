package pipeline

import (
	"log"
	"strconv"
	"strings"

	"quotelens/domain/core"
	"quotelens/domain/quote"
	"quotelens/internal/table"
)

// Validate checks the structure of a normalized table. Structural problems
// (missing columns, no rows, null identity fields) are unrecoverable and
// return errors; value-range defects only warn because cleaning filters
// them out. Validate never modifies the table.
func Validate(t *table.Table) error {
	if missing := t.MissingColumns(quote.CanonicalColumns); missing != nil {
		log.Printf("[Validator] Missing required columns after normalization: %v", missing)
		return core.NewMissingColumnsError(missing)
	}

	if t.Len() == 0 {
		log.Printf("[Validator] Table is empty")
		return core.ErrEmptyDataset
	}

	log.Printf("[Validator] Validating data with %d records", t.Len())

	for _, col := range []string{quote.ColCustomerID, quote.ColStatus} {
		if nulls := countEmpty(t, col); nulls > 0 {
			log.Printf("[Validator] Null values found in critical column %s: %d", col, nulls)
			return core.NewNullIdentityError(col, nulls)
		}
	}

	warnDiscountRange(t)
	warnUnknownStatus(t)

	log.Printf("[Validator] Data validation completed successfully")
	return nil
}

func countEmpty(t *table.Table, col string) int {
	count := 0
	for _, row := range t.Rows {
		if strings.TrimSpace(row[col]) == "" {
			count++
		}
	}
	return count
}

// warnDiscountRange flags out-of-range discounts. Unparseable values are
// ignored here; they drop as missing during cleaning.
func warnDiscountRange(t *table.Table) {
	invalid := 0
	for _, row := range t.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[quote.ColDiscount]), 64)
		if err != nil {
			continue
		}
		if v < 0 || v > 100 {
			invalid++
		}
	}
	if invalid > 0 {
		log.Printf("[Validator] Found %d records with invalid discount ranges (will be cleaned)", invalid)
	}
}

func warnUnknownStatus(t *table.Table) {
	invalid := 0
	seen := map[string]bool{}
	for _, row := range t.Rows {
		s := strings.ToLower(strings.TrimSpace(row[quote.ColStatus]))
		if !quote.Status(s).IsValid() {
			invalid++
			seen[row[quote.ColStatus]] = true
		}
	}
	if invalid > 0 {
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		log.Printf("[Validator] Found %d records with invalid status values (will be cleaned): %v", invalid, values)
	}
}
