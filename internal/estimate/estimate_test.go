package estimate

import (
	"errors"
	"math"
	"testing"
	"time"

	"taxmeter/internal/model"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestRatePerSecond(t *testing.T) {
	const day = 86400.0
	tests := []struct {
		name   string
		series model.Series
		year   int
		method model.Method
		want   float64
	}{
		{
			name:   "monthly single february",
			series: model.Series{{Year: 2023, Month: 2, NetReceiptsEUR: 2_419_200}},
			year:   2023,
			method: model.MethodMonthly,
			want:   1.0,
		},
		{
			name: "monthly uses latest record only",
			series: model.Series{
				{Year: 2023, Month: 1, NetReceiptsEUR: 999},
				{Year: 2023, Month: 4, NetReceiptsEUR: 30 * day * 2},
			},
			year:   2023,
			method: model.MethodMonthly,
			want:   2.0,
		},
		{
			name: "rolling window of three 30-day months",
			series: model.Series{
				{Year: 2023, Month: 4, NetReceiptsEUR: 2_592_000},
				{Year: 2023, Month: 6, NetReceiptsEUR: 2_592_000},
				{Year: 2023, Month: 9, NetReceiptsEUR: 2_592_000},
			},
			year:   2023,
			method: model.MethodRolling3M,
			want:   1.0,
		},
		{
			name: "rolling divides by the window's seconds",
			series: model.Series{
				{Year: 2023, Month: 4, NetReceiptsEUR: 864_000},
				{Year: 2023, Month: 6, NetReceiptsEUR: 864_000},
				{Year: 2023, Month: 9, NetReceiptsEUR: 864_000},
			},
			year:   2023,
			method: model.MethodRolling3M,
			want:   2_592_000.0 / (3 * 30 * day),
		},
		{
			name: "rolling takes only the three most recent",
			series: model.Series{
				{Year: 2023, Month: 1, NetReceiptsEUR: 1e12},
				{Year: 2023, Month: 4, NetReceiptsEUR: 30 * day},
				{Year: 2023, Month: 6, NetReceiptsEUR: 30 * day},
				{Year: 2023, Month: 9, NetReceiptsEUR: 30 * day},
			},
			year:   2023,
			method: model.MethodRolling3M,
			want:   1.0,
		},
		{
			name: "rolling with fewer than three records",
			series: model.Series{
				{Year: 2023, Month: 1, NetReceiptsEUR: 31 * day},
				{Year: 2023, Month: 2, NetReceiptsEUR: 28 * day * 3},
			},
			year:   2023,
			method: model.MethodRolling3M,
			want:   (31*day + 28*day*3) / (59 * day),
		},
		{
			name: "annualized mean amount over mean seconds",
			series: model.Series{
				{Year: 2023, Month: 4, NetReceiptsEUR: 1000},
				{Year: 2023, Month: 6, NetReceiptsEUR: 3000},
			},
			year:   2023,
			method: model.MethodAnnualized,
			want:   2000.0 / 2_592_000,
		},
		{
			name: "annualized ignores other years",
			series: model.Series{
				{Year: 2022, Month: 12, NetReceiptsEUR: 5e9},
				{Year: 2023, Month: 4, NetReceiptsEUR: 1000},
				{Year: 2023, Month: 6, NetReceiptsEUR: 3000},
			},
			year:   2023,
			method: model.MethodAnnualized,
			want:   2000.0 / 2_592_000,
		},
		{
			name: "negative month yields negative rate",
			series: model.Series{
				{Year: 2023, Month: 2, NetReceiptsEUR: -2_419_200},
			},
			year:   2023,
			method: model.MethodMonthly,
			want:   -1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RatePerSecond(tt.series, tt.year, tt.method)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestRatePerSecond_EmptyYearIsZero(t *testing.T) {
	series := model.Series{{Year: 2022, Month: 1, NetReceiptsEUR: 10}}
	for _, m := range model.Methods {
		got, err := RatePerSecond(series, 2030, m)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if got != 0 {
			t.Fatalf("%s: got %v want 0", m, got)
		}
	}
}

func TestRatePerSecond_UnknownMethod(t *testing.T) {
	var cfgErr *model.ConfigError
	_, err := RatePerSecond(nil, 2023, "weekly")
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestRatePerSecond_PaddedMethodKeepsPolicy(t *testing.T) {
	series := model.Series{
		{Year: 2023, Month: 1, NetReceiptsEUR: 31 * 86400},
		{Year: 2023, Month: 2, NetReceiptsEUR: 3 * 2_419_200},
	}
	tests := []struct {
		method model.Method
		want   float64
	}{
		{" monthly", 3.0},
		{"monthly\t", 3.0},
		{" annualized ", (31.0 + 3*28) / 59},
	}
	for _, tt := range tests {
		got, err := RatePerSecond(series, 2023, tt.method)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.method, err)
		}
		if !approxEqual(got, tt.want) {
			t.Fatalf("%q: got %v want %v", tt.method, got, tt.want)
		}
	}
}

func TestResolveAnchor_PaddedAnchorKeepsPolicy(t *testing.T) {
	now := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	series := model.Series{
		{Year: 2023, Month: 1, NetReceiptsEUR: 10},
		{Year: 2023, Month: 2, NetReceiptsEUR: 20},
	}
	_, at, err := ResolveAnchor(series, 2023, "month_end ", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, time.February, 28, 23, 59, 59, 0, time.UTC)
	if !at.Equal(want) {
		t.Fatalf("got %v want %v", at, want)
	}
}

func TestAssembler_ComputeStateReportsCanonicalPolicy(t *testing.T) {
	now := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	a := NewAssembler(fixedClock{t: now})
	series := model.Series{
		{Year: 2023, Month: 1, NetReceiptsEUR: 31 * 86400},
		{Year: 2023, Month: 2, NetReceiptsEUR: 3 * 2_419_200},
	}

	state, err := a.ComputeState(series, 2023, model.EstimationConfig{Method: " monthly", Anchor: " month_end"})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if state.Method != model.MethodMonthly || state.Anchor != model.AnchorMonthEnd {
		t.Fatalf("policy: got %q/%q", state.Method, state.Anchor)
	}
	if !approxEqual(state.RatePerSecondEUR, 3.0) {
		t.Fatalf("rate: got %v want 3", state.RatePerSecondEUR)
	}
	if state.AnchorTimeISO != "2023-02-28T23:59:59Z" {
		t.Fatalf("anchor time: got %s", state.AnchorTimeISO)
	}
}

func TestResolveAnchor(t *testing.T) {
	now := time.Date(2023, time.October, 5, 12, 0, 0, 0, time.FixedZone("IST", 3600))
	series := model.Series{
		{Year: 2022, Month: 12, NetReceiptsEUR: 100},
		{Year: 2023, Month: 1, NetReceiptsEUR: 10},
		{Year: 2023, Month: 2, NetReceiptsEUR: 20},
		{Year: 2024, Month: 1, NetReceiptsEUR: 1000},
	}

	amount, at, err := ResolveAnchor(series, 2023, model.AnchorMonthEnd, now)
	if err != nil {
		t.Fatalf("month_end: %v", err)
	}
	if amount != 30 {
		t.Fatalf("month_end amount: got %v want 30", amount)
	}
	want := time.Date(2023, time.February, 28, 23, 59, 59, 0, time.UTC)
	if !at.Equal(want) || at.Location() != time.UTC {
		t.Fatalf("month_end instant: got %v want %v", at, want)
	}

	amount, at, err = ResolveAnchor(series, 2023, model.AnchorServerStart, now)
	if err != nil {
		t.Fatalf("server_start: %v", err)
	}
	if amount != 30 || !at.Equal(now) || at.Location() != time.UTC {
		t.Fatalf("server_start: got %v at %v", amount, at)
	}

	amount, at, err = ResolveAnchor(series, 2030, model.AnchorMonthEnd, now)
	if err != nil {
		t.Fatalf("empty year: %v", err)
	}
	if amount != 0 || !at.Equal(now) {
		t.Fatalf("empty year: got %v at %v", amount, at)
	}

	var cfgErr *model.ConfigError
	if _, _, err := ResolveAnchor(series, 2023, "midnight", now); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestAssembler_ComputeState(t *testing.T) {
	now := time.Date(2023, time.March, 10, 8, 30, 0, 0, time.UTC)
	a := NewAssembler(fixedClock{t: now})
	series := model.Series{
		{Year: 2023, Month: 1, NetReceiptsEUR: 31 * 86400},
		{Year: 2023, Month: 2, NetReceiptsEUR: 2_419_200},
	}

	state, err := a.ComputeState(series, 2023, model.EstimationConfig{Method: model.MethodMonthly, Anchor: model.AnchorMonthEnd})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if state.RatePerSecondEUR != 1.0 {
		t.Fatalf("rate: got %v", state.RatePerSecondEUR)
	}
	if state.YTDAnchorEUR != 31*86400+2_419_200 {
		t.Fatalf("ytd: got %v", state.YTDAnchorEUR)
	}
	if state.AnchorTimeISO != "2023-02-28T23:59:59Z" {
		t.Fatalf("anchor time: got %s", state.AnchorTimeISO)
	}

	state, err = a.ComputeState(series, 2023, model.EstimationConfig{Method: model.MethodRolling3M, Anchor: model.AnchorServerStart})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if state.AnchorTimeISO != "2023-03-10T08:30:00Z" {
		t.Fatalf("anchor time: got %s", state.AnchorTimeISO)
	}

	for _, cfg := range []model.EstimationConfig{
		{Method: "weekly", Anchor: model.AnchorMonthEnd},
		{Method: model.MethodMonthly, Anchor: ""},
	} {
		var cfgErr *model.ConfigError
		if _, err := a.ComputeState(series, 2023, cfg); !errors.As(err, &cfgErr) {
			t.Fatalf("%+v: expected ConfigError, got %v", cfg, err)
		}
	}
}

func TestLiveTick(t *testing.T) {
	now := time.Date(2023, time.January, 11, 0, 0, 0, 0, time.UTC)
	series := model.Series{
		{Year: 2022, Month: 12, NetReceiptsEUR: 5},
		{Year: 2023, Month: 1, NetReceiptsEUR: 0.5},
	}

	tick := LiveTick(series, model.UnitMillionEUR, now)
	if tick.YTD != 500_000 {
		t.Fatalf("ytd: got %v", tick.YTD)
	}
	if want := 500_000.0 / (10 * 86400); !approxEqual(tick.AvgRate, want) {
		t.Fatalf("avg rate: got %v want %v", tick.AvgRate, want)
	}
	if tick.Timestamp != "2023-01-11T00:00:00Z" {
		t.Fatalf("timestamp: got %s", tick.Timestamp)
	}

	raw := LiveTick(series, model.UnitEUR, now)
	if raw.YTD != 0.5 {
		t.Fatalf("unscaled ytd: got %v", raw.YTD)
	}

	atNewYear := LiveTick(series, model.UnitEUR, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	if atNewYear.AvgRate != 0 {
		t.Fatalf("zero elapsed must yield zero rate, got %v", atNewYear.AvgRate)
	}

	empty := LiveTick(nil, model.UnitEUR, now)
	if empty.YTD != 0 || empty.AvgRate != 0 || empty.Timestamp == "" {
		t.Fatalf("empty series: %+v", empty)
	}
}

func TestResolveYear(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	series := model.Series{{Year: 2024, Month: 11, NetReceiptsEUR: 1}}

	if y, err := ResolveYear("", series, now); err != nil || y != 2024 {
		t.Fatalf("default: got %v %v", y, err)
	}
	if y, err := ResolveYear("", nil, now); err != nil || y != 2025 {
		t.Fatalf("empty series default: got %v %v", y, err)
	}
	if y, err := ResolveYear(" 2019 ", series, now); err != nil || y != 2019 {
		t.Fatalf("explicit: got %v %v", y, err)
	}
	for _, bad := range []string{"twenty", "20.5", "99"} {
		var inErr *model.InputError
		if _, err := ResolveYear(bad, series, now); !errors.As(err, &inErr) {
			t.Fatalf("%q: expected InputError, got %v", bad, err)
		}
	}
}
