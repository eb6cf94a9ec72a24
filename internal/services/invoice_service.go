package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"adbill/internal/amqp"
	"adbill/internal/core"
	"adbill/internal/log"
	"adbill/internal/store"
)

// Payment terms on new invoices: due two weeks after the invoice date.
const defaultPaymentTermDays = 14

// EventPublisher pushes invoice change notifications to downstream workers.
// Satisfied by *amqp.Client.
type EventPublisher interface {
	PublishInvoiceEvent(ctx context.Context, id, action string) error
}

// InvoiceService orchestrates invoice operations across the store and the
// event broker. Store writes are authoritative; publishing is best effort
// and never fails a request.
type InvoiceService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time
}

func NewInvoiceService(st store.Store, publisher EventPublisher, logger *log.Logger) *InvoiceService {
	return &InvoiceService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentInvoice),
		now:       time.Now,
	}
}

// CreateInvoice fills in the derived fields of a new invoice, saves it and
// publishes a saved event. A blank ID gets a timestamp-based one; a blank
// invoice number gets the next free number for the invoice year.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, core.Snapshot, error) {
	now := s.now()
	if inv.ID == "" {
		inv.ID = strconv.FormatInt(now.UnixNano(), 10)
	}
	if inv.Date.IsZero() {
		inv.Date = now
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.Date.AddDate(0, 0, defaultPaymentTermDays)
	}
	if inv.Status == "" {
		inv.Status = core.StatusDraft
	}

	if inv.InvoiceNumber == "" {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return core.Invoice{}, core.Snapshot{}, fmt.Errorf("load snapshot for numbering: %w", err)
		}
		inv.InvoiceNumber = core.NextInvoiceNumber(snap.Invoices, inv.Date.Year())
	}

	snap, err := s.store.SaveInvoice(ctx, inv)
	if err != nil {
		return core.Invoice{}, core.Snapshot{}, fmt.Errorf("save invoice: %w", err)
	}

	s.publishEvent(ctx, inv.ID, amqp.ActionSaved)
	s.logger.InfoContext(ctx, "invoice created",
		log.FieldInvoiceID, inv.ID,
		log.FieldInvoiceNumber, inv.InvoiceNumber,
		log.FieldClientName, inv.Client.Name)
	return inv, snap, nil
}

// UpdateInvoice replaces an existing invoice. Unknown IDs return
// store.ErrNotFound; updating never renumbers.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, inv core.Invoice) (core.Snapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if _, ok := snap.FindInvoice(inv.ID); !ok {
		return core.Snapshot{}, store.ErrNotFound
	}

	snap, err = s.store.SaveInvoice(ctx, inv)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("save invoice: %w", err)
	}

	s.publishEvent(ctx, inv.ID, amqp.ActionSaved)
	return snap, nil
}

// DeleteInvoice removes an invoice and publishes a deleted event.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) (core.Snapshot, error) {
	snap, err := s.store.DeleteInvoice(ctx, id)
	if err != nil {
		return core.Snapshot{}, err
	}

	s.publishEvent(ctx, id, amqp.ActionDeleted)
	s.logger.InfoContext(ctx, "invoice deleted", log.FieldInvoiceID, id)
	return snap, nil
}

func (s *InvoiceService) publishEvent(ctx context.Context, id, action string) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "no event publisher configured, skipping event",
			log.FieldInvoiceID, id, "action", action)
		return
	}
	if err := s.publisher.PublishInvoiceEvent(ctx, id, action); err != nil {
		// The store write already succeeded; a lost event only delays the
		// PDF archive.
		s.logger.ErrorContext(ctx, "failed to publish invoice event",
			log.FieldInvoiceID, id, "action", action, "error", err)
	}
}
