package normalize

import "strings"

// Shape classifies the layout of a raw table.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeLong carries one row per period with year, month and amount columns.
	ShapeLong
	// ShapeWide carries one column per year.
	ShapeWide
)

func (s Shape) String() string {
	switch s {
	case ShapeLong:
		return "long"
	case ShapeWide:
		return "wide"
	default:
		return "unknown"
	}
}

var (
	yearAliases   = []string{"year", "yr"}
	monthAliases  = []string{"month", "mth", "period"}
	amountAliases = []string{"net receipts", "value", "amount", "receipts", "net receipts eur"}
)

type yearColumn struct {
	idx  int
	year int
}

// Detection is the result of classifying a table. Column indexes are -1 when
// absent. The fields relevant to a shape are only meaningful for that shape.
type Detection struct {
	Shape Shape

	YearCol   int
	MonthCol  int
	AmountCol int

	YearCols []yearColumn
	DimCols  []int
}

// headerKey lower-cases h and folds underscores and runs of whitespace into
// single spaces, so "Net_Receipts" and " net  receipts" compare equal.
func headerKey(h string) string {
	h = strings.ReplaceAll(strings.ToLower(h), "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

func matchesAlias(key string, aliases []string) bool {
	for _, a := range aliases {
		if key == a {
			return true
		}
	}
	return false
}

func isAmountHeader(key string) bool {
	return matchesAlias(key, amountAliases) || strings.HasPrefix(key, "net receipts")
}

// isMonthLike reports whether a header names a month dimension.
func isMonthLike(key string) bool {
	if matchesAlias(key, monthAliases) {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if tok == "month" || tok == "months" {
			return true
		}
	}
	return false
}

// Detect classifies t. Long form wins when both signals are present.
func Detect(t Table) Detection {
	d := Detection{Shape: ShapeUnknown, YearCol: -1, MonthCol: -1, AmountCol: -1}
	for i, h := range t.Header {
		key := headerKey(h)
		switch {
		case d.YearCol < 0 && matchesAlias(key, yearAliases):
			d.YearCol = i
		case d.MonthCol < 0 && isMonthLike(key):
			d.MonthCol = i
		case d.AmountCol < 0 && isAmountHeader(key):
			d.AmountCol = i
		default:
			if y, ok := isYearHeader(key); ok {
				d.YearCols = append(d.YearCols, yearColumn{idx: i, year: y})
			}
		}
	}

	switch {
	case d.AmountCol >= 0 && (d.YearCol >= 0 || d.MonthCol >= 0):
		d.Shape = ShapeLong
		d.DimCols = otherColumns(len(t.Header), d.YearCol, d.MonthCol, d.AmountCol)
	case len(d.YearCols) > 0:
		d.Shape = ShapeWide
		skip := []int{d.MonthCol}
		for _, yc := range d.YearCols {
			skip = append(skip, yc.idx)
		}
		d.DimCols = otherColumns(len(t.Header), skip...)
	}
	return d
}

func otherColumns(n int, skip ...int) []int {
	var out []int
	for i := 0; i < n; i++ {
		used := false
		for _, s := range skip {
			if s == i {
				used = true
				break
			}
		}
		if !used {
			out = append(out, i)
		}
	}
	return out
}
