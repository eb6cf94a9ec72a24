package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"adbill/internal/core"
	"adbill/internal/log"
	"adbill/internal/store"
	"adbill/internal/store/memory"
)

type recordedEvent struct {
	ID     string
	Action string
}

type fakePublisher struct {
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishInvoiceEvent(_ context.Context, id, action string) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{ID: id, Action: action})
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func newService(pub EventPublisher) (*InvoiceService, *memory.Store) {
	st := memory.NewSeeded()
	return NewInvoiceService(st, pub, testLogger()), st
}

func draftInvoice() core.Invoice {
	return core.Invoice{
		Client: core.Client{
			ID: "c2", Name: "TechGear Solutions",
			PreferredCurrency: core.USD, ExchangeRate: 1,
		},
		Items: []core.LineItem{
			{ID: "li1", Description: "Campaign setup", Quantity: 1, Price: 1200},
		},
	}
}

func TestCreateInvoiceAssignsDerivedFields(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newService(pub)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	created, snap, err := svc.CreateInvoice(context.Background(), draftInvoice())
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}

	if created.ID == "" {
		t.Error("ID should be assigned")
	}
	// Seed data already holds ADV-2024-001 and ADV-2024-002.
	if created.InvoiceNumber != "ADV-2024-003" {
		t.Errorf("InvoiceNumber = %q, want ADV-2024-003", created.InvoiceNumber)
	}
	if created.Status != core.StatusDraft {
		t.Errorf("Status = %q, want Draft", created.Status)
	}
	if !created.DueDate.Equal(created.Date.AddDate(0, 0, 14)) {
		t.Errorf("DueDate = %v, want 14 days after %v", created.DueDate, created.Date)
	}
	if _, ok := snap.FindInvoice(created.ID); !ok {
		t.Error("created invoice missing from snapshot")
	}
	if len(pub.events) != 1 || pub.events[0] != (recordedEvent{created.ID, "saved"}) {
		t.Errorf("events = %+v, want one saved event", pub.events)
	}
}

func TestCreateInvoiceKeepsExplicitFields(t *testing.T) {
	svc, _ := newService(nil)

	inv := draftInvoice()
	inv.ID = "custom-id"
	inv.InvoiceNumber = "ADV-2024-099"
	inv.Status = core.StatusPending

	created, _, err := svc.CreateInvoice(context.Background(), inv)
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if created.ID != "custom-id" || created.InvoiceNumber != "ADV-2024-099" || created.Status != core.StatusPending {
		t.Errorf("explicit fields were overwritten: %+v", created)
	}
}

func TestCreateInvoiceSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, st := newService(pub)

	created, _, err := svc.CreateInvoice(context.Background(), draftInvoice())
	if err != nil {
		t.Fatalf("CreateInvoice() should not fail on publish error, got %v", err)
	}

	snap, _ := st.Snapshot(context.Background())
	if _, ok := snap.FindInvoice(created.ID); !ok {
		t.Error("invoice should be saved even when publishing fails")
	}
}

func TestUpdateInvoiceUnknownID(t *testing.T) {
	svc, _ := newService(nil)

	inv := draftInvoice()
	inv.ID = "ghost"
	if _, err := svc.UpdateInvoice(context.Background(), inv); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateInvoiceKeepsNumber(t *testing.T) {
	pub := &fakePublisher{}
	svc, st := newService(pub)

	snap, _ := st.Snapshot(context.Background())
	inv, _ := snap.FindInvoice("1")
	inv.Status = core.StatusOverdue

	updated, err := svc.UpdateInvoice(context.Background(), inv)
	if err != nil {
		t.Fatalf("UpdateInvoice() error = %v", err)
	}
	got, _ := updated.FindInvoice("1")
	if got.InvoiceNumber != "ADV-2024-001" {
		t.Errorf("update renumbered the invoice: %q", got.InvoiceNumber)
	}
	if got.Status != core.StatusOverdue {
		t.Errorf("Status = %q, want Overdue", got.Status)
	}
}

func TestDeleteInvoicePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newService(pub)

	snap, err := svc.DeleteInvoice(context.Background(), "1")
	if err != nil {
		t.Fatalf("DeleteInvoice() error = %v", err)
	}
	if _, ok := snap.FindInvoice("1"); ok {
		t.Error("invoice still present after delete")
	}
	if len(pub.events) != 1 || pub.events[0] != (recordedEvent{"1", "deleted"}) {
		t.Errorf("events = %+v, want one deleted event", pub.events)
	}

	if _, err := svc.DeleteInvoice(context.Background(), "1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
