package core

import "testing"

func invWithNumber(n string) Invoice {
	return Invoice{ID: n, InvoiceNumber: n}
}

func TestNextInvoiceNumber(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		year     int
		want     string
	}{
		{"first of year", nil, 2025, "ADV-2025-001"},
		{"sequential", []string{"ADV-2024-001", "ADV-2024-002"}, 2024, "ADV-2024-003"},
		{"other years ignored", []string{"ADV-2024-001", "ADV-2024-002"}, 2025, "ADV-2025-001"},
		{"gaps use max not count", []string{"ADV-2024-001", "ADV-2024-007"}, 2024, "ADV-2024-008"},
		{"unparseable suffix counts as zero", []string{"ADV-2024-xyz"}, 2024, "ADV-2024-001"},
		{"mixed parseable and garbage", []string{"ADV-2024-xyz", "ADV-2024-004"}, 2024, "ADV-2024-005"},
		{"foreign schemes ignored", []string{"INV-2024-900", "AD-2024-005"}, 2024, "ADV-2024-001"},
		{"grows past three digits", []string{"ADV-2024-999"}, 2024, "ADV-2024-1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var invoices []Invoice
			for _, n := range tc.existing {
				invoices = append(invoices, invWithNumber(n))
			}
			if got := NextInvoiceNumber(invoices, tc.year); got != tc.want {
				t.Fatalf("NextInvoiceNumber(%v, %d) = %q, want %q", tc.existing, tc.year, got, tc.want)
			}
		})
	}
}
