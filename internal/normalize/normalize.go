// Package normalize turns raw receipts tables of unstable shape into a
// canonical monthly series.
//
// Normalisation is best-effort: anything ambiguous is dropped rather than
// guessed, so a malformed publication yields less data, never wrong data.
package normalize

import (
	"taxmeter/internal/model"
)

// Normalize classifies t and reshapes it into a canonical series.
//
// A *model.SchemaError is returned when no year/amount signal is found or
// when coercion drops every record. In the latter case the returned series
// is empty but non-nil, and callers may still publish it.
func Normalize(t Table) (model.Series, error) {
	d := Detect(t)

	var recs []rawRecord
	switch d.Shape {
	case ShapeLong:
		recs = reshapeLong(t, d)
	case ShapeWide:
		recs = reshapeWide(t, d)
	default:
		return nil, &model.SchemaError{Reason: "no year/amount columns detected", Headers: t.Header}
	}

	series := canonicalize(recs)
	if len(series) == 0 {
		return series, &model.SchemaError{Reason: "coercion removed every record (" + d.Shape.String() + " form)", Headers: t.Header}
	}
	return series, nil
}

// NormalizeBytes reads raw with format and normalises the result.
func NormalizeBytes(raw []byte, format Format, sheet string) (model.Series, error) {
	t, err := ReadTable(raw, format, sheet)
	if err != nil {
		return nil, err
	}
	return Normalize(t)
}

// canonicalize keeps only total rows when the table has any, sums what is
// left per period and sorts the result.
func canonicalize(recs []rawRecord) model.Series {
	hasTotal := false
	for _, r := range recs {
		if r.total {
			hasTotal = true
			break
		}
	}

	type key struct{ year, month int }
	idx := make(map[key]int, len(recs))
	out := make(model.Series, 0, len(recs))
	for _, r := range recs {
		if hasTotal && !r.total {
			continue
		}
		k := key{r.Year, r.Month}
		if i, ok := idx[k]; ok {
			out[i].NetReceiptsEUR += r.NetReceiptsEUR
			continue
		}
		idx[k] = len(out)
		out = append(out, r.MonthlyReceipt)
	}
	model.SortSeries(out)
	return out
}
