package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"quotelens/domain/core"
	"quotelens/internal/table"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading quote uploads from Excel and CSV files.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given path, picking the format from
// the file extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a raw table.
func (r *DataReader) Read() (*table.Table, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, r.fileType)
	}
}

func (r *DataReader) readCSV() (*table.Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

func (r *DataReader) readExcel() (*table.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use Sheet1
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	t := table.FromRows(rows)
	log.Printf("[DataReader] XLSX file processed (%d columns, %d rows)", len(t.Headers), t.Len())
	return t, nil
}

// ReadXLSX reads Excel content from a stream, for uploads that never touch
// the filesystem.
func ReadXLSX(rd io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel data: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel data must have at least a header row and one data row")
	}

	t := table.FromRows(rows)
	log.Printf("[DataReader] XLSX data processed (%d columns, %d rows)", len(t.Headers), t.Len())
	return t, nil
}

// ReadCSV reads CSV content from a stream, for uploads that never touch the
// filesystem.
func ReadCSV(rd io.Reader) (*table.Table, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV data must have at least a header row and one data row")
	}

	t := table.FromRows(rows)
	log.Printf("[DataReader] CSV data processed (%d columns, %d rows)", len(t.Headers), t.Len())
	return t, nil
}
