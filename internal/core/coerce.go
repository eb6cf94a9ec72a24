package core

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber normalizes user-entered numeric text at the boundary.
// Anything that does not parse to a finite number becomes 0, mirroring how
// form inputs default blank or garbage entries. The calculator itself never
// validates; it trusts that this ran first.
func CoerceNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Finite(v)
}

// Finite maps NaN and ±Inf to 0 and returns every other value unchanged.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
