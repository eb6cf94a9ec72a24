package core

import (
	"fmt"
	"strconv"
	"strings"
)

// invoiceNumberPrefix is the scheme shared by every invoice: ADV-<year>-<seq>.
const invoiceNumberPrefix = "ADV"

// NextInvoiceNumber derives the next sequential invoice number for the
// given year from the numbers already in use. The sequence is never stored
// as counter state; it is recomputed from the max numeric suffix among the
// year's invoices at creation time. Suffixes that do not parse count as 0.
//
// Two concurrent creations against the same snapshot could collide, which
// is acceptable for a single-user, single-process deployment.
func NextInvoiceNumber(invoices []Invoice, year int) string {
	prefix := fmt.Sprintf("%s-%d-", invoiceNumberPrefix, year)
	next := 1
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		parts := strings.Split(inv.InvoiceNumber, "-")
		seq, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			seq = 0
		}
		if seq+1 > next {
			next = seq + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}
