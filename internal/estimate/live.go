package estimate

import (
	"time"

	"taxmeter/internal/model"
)

// LiveTick is the "live_tick" estimation mode, separate
// from the annualized method: ytd is the latest record's amount scaled by
// unit, and avg_rate spreads it over the seconds elapsed since 1 January
// 00:00 UTC of now's year.
func LiveTick(series model.Series, unit model.Unit, now time.Time) model.LiveTick {
	now = now.UTC()
	tick := model.LiveTick{Timestamp: now.Format(time.RFC3339Nano)}

	latest, ok := series.Latest()
	if !ok {
		return tick
	}
	tick.YTD = latest.NetReceiptsEUR * unit.Multiplier()

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if elapsed := now.Sub(yearStart).Seconds(); elapsed > 0 {
		tick.AvgRate = tick.YTD / elapsed
	}
	return tick
}
