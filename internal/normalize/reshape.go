package normalize

import (
	"strings"

	"taxmeter/internal/model"
)

// rawRecord is one reshaped cell before canonicalisation.
type rawRecord struct {
	model.MonthlyReceipt
	total bool
}

// reshapeLong restricts a long table to its year, month and amount columns.
// Without a year column the month column must carry combined periods
// ("2023M01"); without a month column records are year-only.
func reshapeLong(t Table, d Detection) []rawRecord {
	out := make([]rawRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		amount, ok := parseAmount(cell(row, d.AmountCol))
		if !ok {
			continue
		}
		var year, month int
		switch {
		case d.YearCol >= 0:
			if year, ok = parseYear(cell(row, d.YearCol)); !ok {
				continue
			}
			month = model.YearOnly
			if d.MonthCol >= 0 {
				if month, ok = parseMonth(cell(row, d.MonthCol)); !ok {
					if _, m, pok := parsePeriod(cell(row, d.MonthCol)); pok {
						month = m
					} else {
						continue
					}
				}
			}
		default:
			if year, month, ok = parsePeriod(cell(row, d.MonthCol)); !ok {
				continue
			}
		}
		out = append(out, rawRecord{
			MonthlyReceipt: model.MonthlyReceipt{Year: year, Month: month, NetReceiptsEUR: amount},
			total:          isTotalRow(row, d.DimCols),
		})
	}
	return out
}

// reshapeWide melts year columns into rows: one record per (row, year column)
// whose cell is numeric.
func reshapeWide(t Table, d Detection) []rawRecord {
	out := make([]rawRecord, 0, len(t.Rows)*len(d.YearCols))
	for _, row := range t.Rows {
		month := model.YearOnly
		if d.MonthCol >= 0 {
			m, ok := parseMonth(cell(row, d.MonthCol))
			if !ok {
				continue
			}
			month = m
		}
		total := isTotalRow(row, d.DimCols)
		for _, yc := range d.YearCols {
			amount, ok := parseAmount(cell(row, yc.idx))
			if !ok {
				continue
			}
			out = append(out, rawRecord{
				MonthlyReceipt: model.MonthlyReceipt{Year: yc.year, Month: month, NetReceiptsEUR: amount},
				total:          total,
			})
		}
	}
	return out
}

// isTotalRow reports whether any descriptive cell labels the row as a total.
func isTotalRow(row []string, dims []int) bool {
	for _, idx := range dims {
		v := strings.ToLower(cell(row, idx))
		if v == "total" || strings.HasPrefix(v, "total ") {
			return true
		}
	}
	return false
}
