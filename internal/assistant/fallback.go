package assistant

import (
	"fmt"

	"adbill/internal/core"
)

// ruleBasedInsights mirrors the model's brief with fixed arithmetic: one
// insight each on margin, ad-spend-to-fee ratio and collection health.
func ruleBasedInsights(invoices []core.Invoice) []Insight {
	if len(invoices) == 0 {
		return []Insight{
			{
				Insight: "No invoices on record yet, so margin and revenue trends cannot be assessed.",
				Action:  "Create your first invoice to start tracking ad spend margin and fees.",
			},
			{
				Insight: "Ad spend pass-through earns a 15% margin on every campaign you bill.",
				Action:  "Mark ad spend lines as pass-through so the margin is applied automatically.",
			},
			{
				Insight: "Recurring billing is idle with no active schedules.",
				Action:  "Enable a recurring schedule on retainer clients to stabilize monthly revenue.",
			},
		}
	}

	var adSpend, fees, margin, total float64
	var overdueCount int
	var overdueAmount float64
	for _, inv := range invoices {
		b := core.ComputeBreakdown(inv.Items, inv.TaxRate, core.FullOptions)
		adSpend += b.AdSpendBase
		fees += b.ServiceFees
		margin += b.MarginEarned
		total += b.Total
		if inv.Status == core.StatusOverdue {
			overdueCount++
			overdueAmount += b.Total
		}
	}

	insights := make([]Insight, 0, 3)

	marginShare := 0.0
	if total != 0 {
		marginShare = margin / total * 100
	}
	insights = append(insights, Insight{
		Insight: fmt.Sprintf("Ad spend margin contributes $%.2f, about %.1f%% of billed revenue.", margin, marginShare),
		Action:  "Keep ad spend lines flagged as pass-through so the 15% margin is never missed.",
	})

	if fees > 0 {
		ratio := adSpend / fees
		if ratio > 3 {
			insights = append(insights, Insight{
				Insight: fmt.Sprintf("Ad spend is %.1fx your service fees, so most revenue is pass-through rather than earned fees.", ratio),
				Action:  "Consider raising management fees or moving large accounts to a percentage-of-spend model.",
			})
		} else {
			insights = append(insights, Insight{
				Insight: fmt.Sprintf("Ad-spend-to-fee ratio is a healthy %.1fx, with fee income carrying real weight.", ratio),
				Action:  "Maintain the current fee structure as campaign budgets grow.",
			})
		}
	} else {
		insights = append(insights, Insight{
			Insight: "All billed work is ad spend pass-through with no service fees attached.",
			Action:  "Add management or setup fee lines so campaigns earn more than the 15% margin.",
		})
	}

	if overdueCount > 0 {
		insights = append(insights, Insight{
			Insight: fmt.Sprintf("%d overdue invoice(s) worth $%.2f are tying up ad spend you already fronted.", overdueCount, overdueAmount),
			Action:  "Chase overdue payments first; fronted ad spend makes late payment a cash-flow risk.",
		})
	} else {
		insights = append(insights, Insight{
			Insight: fmt.Sprintf("Collections are clean with no overdue invoices across $%.2f billed.", total),
			Action:  "Keep net-15 terms on ad spend reimbursements to preserve this position.",
		})
	}

	return insights
}
