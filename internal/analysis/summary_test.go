package analysis

import (
	"testing"

	"taxmeter/internal/model"
)

func TestSummarizeYears(t *testing.T) {
	series := model.Series{
		{Year: 2022, Month: 11, NetReceiptsEUR: 10},
		{Year: 2022, Month: 12, NetReceiptsEUR: 30},
		{Year: 2023, Month: 1, NetReceiptsEUR: -4},
		{Year: 2023, Month: 2, NetReceiptsEUR: 8},
		{Year: 2023, Month: 3, NetReceiptsEUR: 2},
	}
	got := SummarizeYears(series)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	want := YearSummary{Year: 2023, Months: 3, LatestMonth: 3, Total: 6, Min: -4, Max: 8, Mean: 2}
	if got[0] != want {
		t.Fatalf("2023: got %+v want %+v", got[0], want)
	}
	if got[1].Year != 2022 || got[1].Total != 40 || got[1].Mean != 20 {
		t.Fatalf("2022: got %+v", got[1])
	}
	if len(SummarizeYears(nil)) != 0 {
		t.Fatalf("expected no summaries for an empty series")
	}
}
