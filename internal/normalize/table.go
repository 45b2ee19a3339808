package normalize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is raw tabular input of unknown shape: a header row and data rows.
// Rows may be ragged; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Format selects the reader used for raw bytes.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a configured format name. Empty means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv, xlsx or auto)", s)
	}
}

// SniffFormat guesses the format of raw: XLSX workbooks are zip archives.
func SniffFormat(raw []byte) Format {
	if bytes.HasPrefix(raw, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadTable decodes raw with the given format.
func ReadTable(raw []byte, format Format, sheet string) (Table, error) {
	if format == "" || format == FormatAuto {
		format = SniffFormat(raw)
	}
	switch format {
	case FormatXLSX:
		return ReadXLSX(raw, sheet)
	default:
		return ReadCSV(raw)
	}
}

// ReadCSV decodes CSV bytes. A UTF-8 BOM is ignored and blank leading lines
// are skipped; the first non-empty record is the header.
func ReadCSV(raw []byte) (Table, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return tableFromRows(records), nil
}

// ReadXLSX decodes an XLSX workbook. When sheet is empty the first sheet
// holding any data is used.
func ReadXLSX(raw []byte, sheet string) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if sheet != "" {
		names = []string{sheet}
	}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return Table{}, fmt.Errorf("read sheet %q: %w", name, err)
		}
		t := tableFromRows(rows)
		if len(t.Header) > 0 {
			return t, nil
		}
	}
	return Table{}, nil
}

func tableFromRows(rows [][]string) Table {
	var t Table
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
