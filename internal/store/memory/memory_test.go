package memory

import (
	"context"
	"errors"
	"testing"

	"adbill/internal/core"
	"adbill/internal/store"
)

func testInvoice(id, number string) core.Invoice {
	return core.Invoice{
		ID:            id,
		InvoiceNumber: number,
		Client:        core.Client{ID: "c2", Name: "TechGear Solutions", PreferredCurrency: core.USD, ExchangeRate: 1},
		Status:        core.StatusDraft,
		Items:         []core.LineItem{{ID: "li1", Quantity: 1, Price: 100}},
	}
}

func TestSaveInvoiceUpsertsById(t *testing.T) {
	ctx := context.Background()
	s := New()

	snap, err := s.SaveInvoice(ctx, testInvoice("inv1", "ADV-2025-001"))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Invoices) != 1 {
		t.Fatalf("got %d invoices, want 1", len(snap.Invoices))
	}

	updated := testInvoice("inv1", "ADV-2025-001")
	updated.Status = core.StatusPaid
	snap, err = s.SaveInvoice(ctx, updated)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Invoices) != 1 {
		t.Fatalf("update duplicated the record: %d invoices", len(snap.Invoices))
	}
	if snap.Invoices[0].Status != core.StatusPaid {
		t.Fatalf("status = %s, want Paid", snap.Invoices[0].Status)
	}
}

func TestSaveInvoiceRejectsInvalid(t *testing.T) {
	s := New()
	bad := testInvoice("", "ADV-2025-001")
	if _, err := s.SaveInvoice(context.Background(), bad); err == nil {
		t.Fatal("invoice without id must be rejected")
	}
}

func TestDeleteInvoice(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.SaveInvoice(ctx, testInvoice("inv1", "ADV-2025-001")); err != nil {
		t.Fatal(err)
	}

	snap, err := s.DeleteInvoice(ctx, "inv1")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Invoices) != 0 {
		t.Fatalf("got %d invoices after delete, want 0", len(snap.Invoices))
	}

	if _, err := s.DeleteInvoice(ctx, "inv1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteClientsBulk(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	snap, err := s.DeleteClients(ctx, []string{"c1", "c3", "no-such-id"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 1 || snap.Clients[0].ID != "c2" {
		t.Fatalf("remaining clients = %+v, want only c2", snap.Clients)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Scribble over the snapshot; the store must not notice.
	snap.Invoices[0].Items[0].Price = 999999
	snap.Invoices[0].Status = core.StatusOverdue
	snap.Clients[0].Name = "mangled"

	fresh, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Invoices[0].Items[0].Price == 999999 {
		t.Fatal("mutating a snapshot's items leaked into the store")
	}
	if fresh.Clients[0].Name == "mangled" {
		t.Fatal("mutating a snapshot's clients leaked into the store")
	}
}

func TestVersionAdvancesOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	before, _ := s.Snapshot(ctx)
	afterSave, err := s.SaveClient(ctx, core.Client{
		ID: "c9", Name: "New Venture Co", PreferredCurrency: core.MMK, ExchangeRate: 3200,
	})
	if err != nil {
		t.Fatal(err)
	}
	if afterSave.Version <= before.Version {
		t.Fatalf("version did not advance: %d -> %d", before.Version, afterSave.Version)
	}

	afterDelete, err := s.DeleteInvoice(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if afterDelete.Version <= afterSave.Version {
		t.Fatalf("version did not advance on delete: %d -> %d", afterSave.Version, afterDelete.Version)
	}
}

func TestSeededStateMatchesDemoBook(t *testing.T) {
	snap, err := NewSeeded().Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Clients) != 3 || len(snap.Invoices) != 2 {
		t.Fatalf("seed shape: %d clients / %d invoices, want 3 / 2", len(snap.Clients), len(snap.Invoices))
	}
	inv, ok := snap.FindInvoice("1")
	if !ok {
		t.Fatal("seed invoice 1 missing")
	}
	b := core.ComputeBreakdown(inv.Items, inv.TaxRate, core.FullOptions)
	if b.Total != 3317 {
		t.Fatalf("seed invoice 1 total = %v, want 3317", b.Total)
	}
}
