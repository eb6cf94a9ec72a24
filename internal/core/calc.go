package core

// AdMargin is the agency markup charged on top of ad-spend pass-through
// costs. Fixed at 15% across all clients and platforms.
const AdMargin = 0.15

// BreakdownOptions controls which derived amounts are included. Excluding
// the margin zeroes MarginEarned but the ad-spend base itself always stays
// in the subtotal: margin is additive revenue, not a reclassification.
type BreakdownOptions struct {
	IncludeMargin bool
	IncludeTax    bool
}

// FullOptions includes both margin and tax, the default for billing.
var FullOptions = BreakdownOptions{IncludeMargin: true, IncludeTax: true}

// Breakdown is the deterministic monetary decomposition of an invoice.
// All amounts are USD. No rounding is applied during accumulation; rounding
// happens only at presentation time so it cannot compound across lines.
type Breakdown struct {
	AdSpendBase  float64 `json:"adSpendBase"`
	ServiceFees  float64 `json:"serviceFees"`
	MarginEarned float64 `json:"marginEarned"`
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
}

// ComputeBreakdown partitions the line items into ad-spend pass-through and
// service fees, applies the ad margin and tax, and returns the breakdown.
//
// The function is pure and total over numeric input: an empty item list
// yields a zero breakdown, and negative quantities or prices pass through
// untouched (credit and adjustment lines are the caller's policy call).
// Malformed input must be coerced to 0 before it gets here; see CoerceNumber.
func ComputeBreakdown(items []LineItem, taxRatePercent float64, opts BreakdownOptions) Breakdown {
	var b Breakdown
	for _, li := range items {
		if li.IsAdSpend {
			b.AdSpendBase += li.Total()
		} else {
			b.ServiceFees += li.Total()
		}
	}
	if opts.IncludeMargin {
		b.MarginEarned = b.AdSpendBase * AdMargin
	}
	b.Subtotal = b.AdSpendBase + b.ServiceFees + b.MarginEarned
	if opts.IncludeTax {
		b.Tax = b.Subtotal * (taxRatePercent / 100)
	}
	b.Total = b.Subtotal + b.Tax
	return b
}
