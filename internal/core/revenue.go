package core

import "sort"

// ClientRevenue is a client's lifetime line-item revenue, for the
// revenue-by-client dashboard chart.
type ClientRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats is the aggregate view across all invoices. Amounts are
// plain line-item totals in USD (no margin or tax), matching what the
// status cards report.
type DashboardStats struct {
	TotalPaid     float64               `json:"totalPaid"`
	PendingAmount float64               `json:"pendingAmount"`
	OverdueCount  int                   `json:"overdueCount"`
	MRR           float64               `json:"mrr"`
	StatusCounts  map[InvoiceStatus]int `json:"statusCounts"`
	ByClient      []ClientRevenue       `json:"byClient"`
}

// EstimatedMonthlyRecurringRevenue normalizes every active recurring
// invoice to a monthly figure and sums them: weekly billing counts four
// times, quarterly a third, yearly a twelfth. Inactive schedules and
// one-off invoices contribute nothing.
func EstimatedMonthlyRecurringRevenue(invoices []Invoice) float64 {
	var mrr float64
	for _, inv := range invoices {
		rc := inv.Recurring
		if rc == nil || !rc.IsActive || rc.Frequency == FreqNone {
			continue
		}
		total := inv.ItemsTotal()
		switch rc.Frequency {
		case FreqWeekly:
			mrr += total * 4
		case FreqMonthly:
			mrr += total
		case FreqQuarterly:
			mrr += total / 3
		case FreqYearly:
			mrr += total / 12
		}
	}
	return mrr
}

// ComputeDashboard derives the dashboard aggregates from the invoice list.
func ComputeDashboard(invoices []Invoice) DashboardStats {
	stats := DashboardStats{
		StatusCounts: map[InvoiceStatus]int{
			StatusDraft:   0,
			StatusPending: 0,
			StatusPaid:    0,
			StatusOverdue: 0,
		},
	}
	byClient := make(map[string]float64)
	for _, inv := range invoices {
		total := inv.ItemsTotal()
		stats.StatusCounts[inv.Status]++
		switch inv.Status {
		case StatusPaid:
			stats.TotalPaid += total
		case StatusPending:
			stats.PendingAmount += total
		case StatusOverdue:
			stats.OverdueCount++
		}
		byClient[inv.Client.Name] += total
	}
	stats.MRR = EstimatedMonthlyRecurringRevenue(invoices)
	for name, rev := range byClient {
		stats.ByClient = append(stats.ByClient, ClientRevenue{Name: name, Revenue: rev})
	}
	sort.Slice(stats.ByClient, func(i, j int) bool {
		if stats.ByClient[i].Revenue != stats.ByClient[j].Revenue {
			return stats.ByClient[i].Revenue > stats.ByClient[j].Revenue
		}
		return stats.ByClient[i].Name < stats.ByClient[j].Name
	})
	return stats
}
