package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows picks a reader by file extension. Only the first table (CSV) or
// first sheet (XLSX) is read.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xls":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(filename))
	}
}

func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	// rows in the wild have ragged widths; the importer handles short rows
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()

	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return rows, nil
}

func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)

	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])

	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return rows, nil
}
