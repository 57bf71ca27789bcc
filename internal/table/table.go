package table

import "strings"

// Row represents a row of raw tabular data as string key-value pairs
type Row map[string]string

// Table represents a raw tabular dataset before canonical parsing. Cell
// values stay strings until the cleaning stage types them.
type Table struct {
	Headers []string
	Rows    []Row
}

// FromRows builds a Table from raw string rows, treating the first row as
// the header. Cells are trimmed; rows shorter than the header are padded by
// omission (missing keys read as empty).
func FromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var dataRows []Row
	for i := 1; i < len(rows); i++ {
		rowData := make(Row)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{Headers: headers, Rows: dataRows}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required columns absent from the
// header, in the required order.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Clone returns a deep copy. Stages that rewrite columns work on a clone so
// the caller's table is never mutated.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		dup := make(Row, len(row))
		for k, v := range row {
			dup[k] = v
		}
		rows[i] = dup
	}
	return &Table{Headers: headers, Rows: rows}
}
