// Package estimate converts a canonical monthly series into a continuous
// accrual rate and an anchor a client can extrapolate from.
package estimate

import (
	"taxmeter/internal/model"
)

const rollingWindow = 3

// RatePerSecond estimates the per-second accrual rate of year.
// A year without records yields 0 and no error.
func RatePerSecond(series model.Series, year int, method model.Method) (float64, error) {
	method, err := model.ParseMethod(string(method))
	if err != nil {
		return 0, err
	}
	subset := series.ForYear(year)
	if len(subset) == 0 {
		return 0, nil
	}

	switch method {
	case model.MethodMonthly:
		latest := subset[len(subset)-1]
		return latest.NetReceiptsEUR / latest.Seconds(), nil

	case model.MethodRolling3M:
		window := subset
		if len(window) > rollingWindow {
			window = window[len(window)-rollingWindow:]
		}
		amount, secs := 0.0, 0.0
		for _, r := range window {
			amount += r.NetReceiptsEUR
			secs += r.Seconds()
		}
		if secs <= 0 {
			return 0, nil
		}
		return amount / secs, nil

	case model.MethodAnnualized:
		// Mean amount over mean period length. This is not total/total once
		// the reported months are non-contiguous.
		n := float64(len(subset))
		amount, secs := 0.0, 0.0
		for _, r := range subset {
			amount += r.NetReceiptsEUR
			secs += r.Seconds()
		}
		meanSecs := secs / n
		if meanSecs <= 0 {
			return 0, nil
		}
		return (amount / n) / meanSecs, nil

	default:
		return 0, &model.ConfigError{Field: "method", Value: string(method)}
	}
}
