package services

import (
	"context"
	"fmt"
	"time"

	"adbill/internal/core"
	"adbill/internal/log"
	"adbill/internal/store"
)

// RecurringProcessor materializes invoices from active recurring templates.
// A template is any invoice with an active recurring config; each run spawns
// a fresh invoice with its own number and records the run on the template.
type RecurringProcessor struct {
	store   store.Store
	service *InvoiceService
	logger  *log.Logger
}

func NewRecurringProcessor(st store.Store, service *InvoiceService, logger *log.Logger) *RecurringProcessor {
	return &RecurringProcessor{
		store:   st,
		service: service,
		logger:  logger.WithComponent(log.ComponentRecurring),
	}
}

// ProcessDueInvoices runs one billing pass at the given time and returns how
// many invoices were created. Per-template failures are logged and skipped
// so one broken template cannot stall the rest of the book.
func (p *RecurringProcessor) ProcessDueInvoices(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.service == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	snap, err := p.store.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	var templates []core.Invoice
	for _, inv := range snap.Invoices {
		if inv.Recurs(now) {
			templates = append(templates, inv)
		}
	}

	p.logger.InfoContext(ctx, "processing recurring invoices",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processed := 0
	for _, tmpl := range templates {
		checker, err := GetDuenessChecker(tmpl.Recurring.Frequency)
		if err != nil {
			p.logger.ErrorContext(ctx, "skipping template with unknown frequency",
				log.FieldInvoiceID, tmpl.ID,
				log.FieldFrequency, string(tmpl.Recurring.Frequency))
			continue
		}
		if !checker.IsDue(tmpl.Recurring.LastRun, now, tmpl.Date) {
			continue
		}

		created, _, err := p.service.CreateInvoice(ctx, spawnFromTemplate(tmpl, now))
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to create invoice from template",
				log.FieldInvoiceID, tmpl.ID,
				"error", err)
			continue
		}

		// Record the run on the template. The spawned invoice already
		// exists, so a failure here risks double billing and must be loud.
		tmpl.Recurring.LastRun = now
		if _, err := p.store.SaveInvoice(ctx, tmpl); err != nil {
			p.logger.ErrorContext(ctx, "failed to record billing run on template",
				log.FieldInvoiceID, tmpl.ID,
				"error", err)
		}

		processed++
		p.logger.InfoContext(ctx, "created invoice from recurring template",
			log.FieldInvoiceID, created.ID,
			log.FieldInvoiceNumber, created.InvoiceNumber,
			log.FieldClientName, created.Client.Name,
			log.FieldFrequency, string(tmpl.Recurring.Frequency))
	}

	p.logger.InfoContext(ctx, "recurring invoice processing complete",
		"processed", processed,
		"total_checked", len(templates))

	return processed, nil
}

// spawnFromTemplate derives the billable invoice for one run. It starts
// pending with fresh dates and no recurring config of its own; only the
// template keeps the schedule.
func spawnFromTemplate(tmpl core.Invoice, now time.Time) core.Invoice {
	inv := tmpl
	inv.ID = ""
	inv.InvoiceNumber = ""
	inv.Date = now
	inv.DueDate = now.AddDate(0, 0, defaultPaymentTermDays)
	inv.Status = core.StatusPending
	inv.Recurring = nil
	inv.Items = append([]core.LineItem(nil), tmpl.Items...)
	return inv
}
