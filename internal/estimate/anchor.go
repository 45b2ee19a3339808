package estimate

import (
	"time"

	"taxmeter/internal/model"
)

// ResolveAnchor returns the year-to-date total of year and the instant it is
// asserted to be true at.
//
// server_start anchors at now; month_end anchors at 23:59:59 UTC on the last
// day of the latest month reported for year. A year with no records under
// month_end anchors at now, where a zero total with a zero rate stays flat.
func ResolveAnchor(series model.Series, year int, anchor model.Anchor, now time.Time) (float64, time.Time, error) {
	anchor, err := model.ParseAnchor(string(anchor))
	if err != nil {
		return 0, time.Time{}, err
	}
	subset := series.ForYear(year)
	total := subset.Total()

	if anchor == model.AnchorMonthEnd {
		if latest, ok := subset.Latest(); ok {
			return total, model.PeriodEnd(latest.Year, latest.Month), nil
		}
	}
	return total, now.UTC(), nil
}
