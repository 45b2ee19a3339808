package estimate

import (
	"strconv"
	"strings"
	"time"

	"taxmeter/internal/model"
)

// ResolveYear parses a per-request year argument. An empty value selects
// the latest year in series, or now's year when series is empty.
func ResolveYear(raw string, series model.Series, now time.Time) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if latest, ok := series.Latest(); ok {
			return latest.Year, nil
		}
		return now.UTC().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.InputError{Param: "year", Value: raw, Message: "must be an integer"}
	}
	if year < 1000 || year > 9999 {
		return 0, &model.InputError{Param: "year", Value: raw, Message: "must be a four-digit year"}
	}
	return year, nil
}
