package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"adbill/internal/core"
	"adbill/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "adbill_test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInvoiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	client := core.Client{
		ID:                "c1",
		Name:              "Luxury Spa Resort",
		Email:             "marketing@luxespa.th",
		Address:           "88 Sukhumvit Rd, Bangkok, Thailand",
		PreferredCurrency: core.THB,
		ExchangeRate:      35.13,
	}
	if _, err := repo.SaveClient(ctx, client); err != nil {
		t.Fatal(err)
	}

	inv := core.Invoice{
		ID:            "inv1",
		InvoiceNumber: "ADV-2025-001",
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Client:        client,
		Status:        core.StatusPending,
		TaxRate:       7,
		Notes:         "Songkran campaign flight.",
		Items: []core.LineItem{
			{ID: "li1", Description: "Meta Ad Spend", Quantity: 1, Price: 2000, IsAdSpend: true},
			{ID: "li2", Description: "Management fee", Quantity: 1, Price: 800},
		},
		Recurring: &core.RecurringConfig{
			Frequency: core.FreqMonthly,
			IsActive:  true,
			EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	snap, err := repo.SaveInvoice(ctx, inv)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := snap.FindInvoice("inv1")
	if !ok {
		t.Fatal("saved invoice missing from snapshot")
	}
	if got.InvoiceNumber != inv.InvoiceNumber || got.Status != inv.Status || got.TaxRate != inv.TaxRate {
		t.Fatalf("invoice fields mangled: %+v", got)
	}
	if got.Client != client {
		t.Fatalf("embedded client mangled: %+v", got.Client)
	}
	if len(got.Items) != 2 || !got.Items[0].IsAdSpend || got.Items[1].Price != 800 {
		t.Fatalf("items mangled: %+v", got.Items)
	}
	if got.Recurring == nil || got.Recurring.Frequency != core.FreqMonthly || !got.Recurring.IsActive {
		t.Fatalf("recurring config mangled: %+v", got.Recurring)
	}
	if !got.Recurring.EndDate.Equal(inv.Recurring.EndDate) {
		t.Fatalf("end date mangled: %v", got.Recurring.EndDate)
	}
	if !got.Date.Equal(inv.Date) || !got.DueDate.Equal(inv.DueDate) {
		t.Fatalf("dates mangled: %v / %v", got.Date, got.DueDate)
	}
}

func TestSaveInvoiceReplacesItems(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	inv := core.Invoice{
		ID:            "inv1",
		InvoiceNumber: "ADV-2025-001",
		Client:        core.Client{ID: "c2", Name: "TechGear", PreferredCurrency: core.USD, ExchangeRate: 1},
		Status:        core.StatusDraft,
		Items: []core.LineItem{
			{ID: "li1", Description: "Setup", Quantity: 1, Price: 500},
			{ID: "li2", Description: "Ads", Quantity: 1, Price: 3000, IsAdSpend: true},
		},
	}
	if _, err := repo.SaveInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	inv.Items = []core.LineItem{{ID: "li3", Description: "Retainer", Quantity: 1, Price: 900}}
	snap, err := repo.SaveInvoice(ctx, inv)
	if err != nil {
		t.Fatal(err)
	}

	got, _ := snap.FindInvoice("inv1")
	if len(got.Items) != 1 || got.Items[0].Description != "Retainer" {
		t.Fatalf("items not replaced: %+v", got.Items)
	}
	if len(snap.Invoices) != 1 {
		t.Fatalf("upsert duplicated invoice: %d rows", len(snap.Invoices))
	}
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.DeleteInvoice(context.Background(), "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestVersionBumpsAcrossMutations(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s0, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s1, err := repo.SaveClient(ctx, core.Client{ID: "c1", Name: "Organic Bites", PreferredCurrency: core.THB, ExchangeRate: 35.5})
	if err != nil {
		t.Fatal(err)
	}
	if s1.Version != s0.Version+1 {
		t.Fatalf("version = %d, want %d", s1.Version, s0.Version+1)
	}
	s2, err := repo.DeleteClients(ctx, []string{"c1"})
	if err != nil {
		t.Fatal(err)
	}
	if s2.Version != s1.Version+1 {
		t.Fatalf("version = %d, want %d", s2.Version, s1.Version+1)
	}
	if len(s2.Clients) != 0 {
		t.Fatalf("client not deleted: %+v", s2.Clients)
	}
}
