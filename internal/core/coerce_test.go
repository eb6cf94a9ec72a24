package core

import (
	"math"
	"testing"
)

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2000", 2000},
		{"12.5", 12.5},
		{" 7 ", 7},
		{"-3.25", -3.25},
		{"", 0},
		{"abc", 0},
		{"12,5", 0}, // comma separators are the UI's problem, not ours
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tc := range cases {
		if got := CoerceNumber(tc.in); got != tc.want {
			t.Fatalf("CoerceNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) != 0 || Finite(math.Inf(1)) != 0 || Finite(math.Inf(-1)) != 0 {
		t.Fatal("non-finite values must normalize to 0")
	}
	if Finite(-12.5) != -12.5 {
		t.Fatal("finite values must pass through")
	}
}
