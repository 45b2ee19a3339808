package series

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"taxmeter/internal/model"
)

// CSVHeader is the canonical column layout. A file in this shape is read back
// by the normalizer as long form.
var CSVHeader = []string{"year", "month", "net_receipts_eur"}

// WriteCSV writes s in canonical column layout.
func WriteCSV(w io.Writer, s model.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range s {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			fmtFloat(r.NetReceiptsEUR),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes s to path, creating parent directories.
func WriteCSVFile(path string, s model.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteCSV(f, s); err != nil {
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
