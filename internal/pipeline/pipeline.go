package pipeline

import (
	"io"
	"log"
	"path/filepath"

	"quotelens/adapters/tabular"
	"quotelens/domain/quote"
	"quotelens/internal/table"
)

// Process runs the full pipeline over a raw table: normalize -> validate ->
// parse -> clean -> augment. Structural validation failures abort; value
// defects are filtered silently by cleaning.
func Process(t *table.Table, sourceName string) (*quote.Dataset, error) {
	normalized := Normalize(t)

	if err := Validate(normalized); err != nil {
		return nil, err
	}

	cleaned := Clean(Parse(normalized))
	featured := Augment(cleaned)

	ds := quote.NewDataset(sourceName, featured)
	log.Printf("[Pipeline] Processed dataset %s: %d records", ds.ID, ds.Len())
	return ds, nil
}

// ProcessFile loads a CSV or XLSX file and runs the pipeline on it.
func ProcessFile(path string) (*quote.Dataset, error) {
	t, err := tabular.NewDataReader(path).Read()
	if err != nil {
		return nil, err
	}
	return Process(t, filepath.Base(path))
}

// ProcessCSV reads CSV content from a stream (an upload buffer) and runs the
// pipeline on it.
func ProcessCSV(r io.Reader, sourceName string) (*quote.Dataset, error) {
	t, err := tabular.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return Process(t, sourceName)
}
