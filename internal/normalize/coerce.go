package normalize

import (
	"math"
	"strconv"
	"strings"
)

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	"january": 1, "february": 2, "march": 3, "april": 4, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// parseAmount coerces a published amount. Currency symbols, thousands
// separators and spaces are ignored; "(12.5)" reads as -12.5.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("€", "", ",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// parseYear accepts integral values in [1000, 9999]; spreadsheets often
// render them as "2023.0".
func parseYear(s string) (int, bool) {
	v, ok := parseAmount(s)
	if !ok || v != math.Trunc(v) || v < 1000 || v > 9999 {
		return 0, false
	}
	return int(v), true
}

// parseMonth accepts 1–12 or an English month name or abbreviation.
func parseMonth(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m, ok := monthNames[strings.TrimSuffix(s, ".")]; ok {
		return m, true
	}
	v, ok := parseAmount(s)
	if !ok || v != math.Trunc(v) || v < 1 || v > 12 {
		return 0, false
	}
	return int(v), true
}

// parsePeriod splits a combined period label such as "2023M01", "2023-01",
// "2023/1" or "2023 January".
func parsePeriod(s string) (int, int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 5 {
		return 0, 0, false
	}
	year, ok := parseYear(s[:4])
	if !ok {
		return 0, 0, false
	}
	rest := s[4:]
	switch {
	case len(rest) > 1 && (rest[0] == 'M' || rest[0] == 'm') && rest[1] >= '0' && rest[1] <= '9':
		rest = rest[1:]
	case rest[0] == '-' || rest[0] == '/' || rest[0] == ' ':
		rest = strings.TrimSpace(rest[1:])
	default:
		return 0, 0, false
	}
	month, ok := parseMonth(rest)
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}

func isYearHeader(h string) (int, bool) {
	if len(h) != 4 {
		return 0, false
	}
	for _, r := range h {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	y, err := strconv.Atoi(h)
	return y, err == nil
}
