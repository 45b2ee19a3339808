package main

import (
	"fmt"
	"math"
	"strings"
)

// formatEUR renders x with thousands separators and two decimals.
func formatEUR(x float64) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	s := fmt.Sprintf("%.2f", math.Round(x*100)/100)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s€%s.%s", sign, b.String(), frac)
}
