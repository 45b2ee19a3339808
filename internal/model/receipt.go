package model

import (
	"sort"
	"time"
)

// YearOnly is the Month value of a record whose source only carried a year grain
// (a wide table with no month column).
const YearOnly = 0

// MonthlyReceipt is one fiscal period's net receipts.
type MonthlyReceipt struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	NetReceiptsEUR float64 `json:"net_receipts_eur"`
}

// Before orders receipts by (Year, Month).
func (r MonthlyReceipt) Before(o MonthlyReceipt) bool {
	if r.Year != o.Year {
		return r.Year < o.Year
	}
	return r.Month < o.Month
}

// Seconds returns the length of the record's period in seconds.
func (r MonthlyReceipt) Seconds() float64 {
	return SecondsInPeriod(r.Year, r.Month)
}

// Series is a canonical sequence of receipts: strictly ascending by (Year, Month),
// one record per period. A Series is never mutated after it has been built.
type Series []MonthlyReceipt

// SortSeries sorts s in place by (Year, Month).
func SortSeries(s Series) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Before(s[j]) })
}

// IsCanonical reports whether s is strictly ascending with no duplicate periods.
func (s Series) IsCanonical() bool {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Before(s[i]) {
			return false
		}
	}
	return true
}

// ForYear returns the records of year, in series order. The result shares
// the backing array with s and must not be modified.
func (s Series) ForYear(year int) Series {
	lo := sort.Search(len(s), func(i int) bool { return s[i].Year >= year })
	hi := lo
	for hi < len(s) && s[hi].Year == year {
		hi++
	}
	return s[lo:hi:hi]
}

// Latest returns the last record of s.
func (s Series) Latest() (MonthlyReceipt, bool) {
	if len(s) == 0 {
		return MonthlyReceipt{}, false
	}
	return s[len(s)-1], true
}

// Years lists the distinct years of s in ascending order.
func (s Series) Years() []int {
	var out []int
	for _, r := range s {
		if len(out) == 0 || out[len(out)-1] != r.Year {
			out = append(out, r.Year)
		}
	}
	return out
}

// Total sums the net receipts of s.
func (s Series) Total() float64 {
	total := 0.0
	for _, r := range s {
		total += r.NetReceiptsEUR
	}
	return total
}

// Clone returns a copy of s that does not share memory with it.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// SecondsInPeriod returns days_in_month × 86400 for a calendar month, or the
// seconds of the whole year for YearOnly.
func SecondsInPeriod(year, month int) float64 {
	start, end := periodBounds(year, month)
	return end.Sub(start).Seconds()
}

// PeriodEnd returns 23:59:59 UTC on the last day of the period.
func PeriodEnd(year, month int) time.Time {
	_, end := periodBounds(year, month)
	return end.Add(-time.Second)
}

func periodBounds(year, month int) (time.Time, time.Time) {
	if month == YearOnly {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
