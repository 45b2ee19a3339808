package analysis

import (
	"math"
	"sort"

	"taxmeter/internal/model"
)

// YearSummary describes one year of the canonical series.
type YearSummary struct {
	Year        int     `json:"year"`
	Months      int     `json:"months"`
	LatestMonth int     `json:"latest_month"`
	Total       float64 `json:"total_eur"`
	Min         float64 `json:"min_month_eur"`
	Max         float64 `json:"max_month_eur"`
	Mean        float64 `json:"mean_month_eur"`
}

// SummarizeYear computes the summary of one year's records.
func SummarizeYear(year int, records model.Series) YearSummary {
	s := YearSummary{Year: year}
	if len(records) == 0 {
		return s
	}
	s.Months = len(records)
	s.LatestMonth = records[len(records)-1].Month

	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, r := range records {
		v := r.NetReceiptsEUR
		s.Total += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	s.Min = minv
	s.Max = maxv
	s.Mean = s.Total / float64(s.Months)
	return s
}

// SummarizeYears summarises every year in series, newest first.
func SummarizeYears(series model.Series) []YearSummary {
	years := series.Years()
	out := make([]YearSummary, 0, len(years))
	for _, y := range years {
		out = append(out, SummarizeYear(y, series.ForYear(y)))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out
}
