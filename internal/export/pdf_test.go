package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"adbill/internal/amqp"
	"adbill/internal/core"
	"adbill/internal/log"
	"adbill/internal/store/memory"
)

func sampleInvoice() core.Invoice {
	return core.Invoice{
		ID:            "1",
		InvoiceNumber: "ADV-2024-001",
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Client: core.Client{
			ID:                "c1",
			Name:              "Luxury Spa Resort",
			Email:             "marketing@luxespa.th",
			Address:           "88 Sukhumvit Rd, Bangkok, Thailand",
			PreferredCurrency: core.THB,
			ExchangeRate:      35.13,
		},
		Status:  core.StatusPaid,
		TaxRate: 7,
		Notes:   "Meta Ads campaign focused on Songkran festival bookings.",
		Items: []core.LineItem{
			{ID: "li1", Description: "Meta Ad Spend", Quantity: 1, Price: 2000, IsAdSpend: true},
			{ID: "li2", Description: "Social Media Management", Quantity: 1, Price: 800},
		},
	}
}

func TestRender(t *testing.T) {
	data, err := Renderer{}.Render(sampleInvoice())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, starts with %q", data[:min(8, len(data))])
	}
	if len(data) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(data))
	}
}

func TestRenderRejectsUnknownCurrency(t *testing.T) {
	inv := sampleInvoice()
	inv.Client.PreferredCurrency = core.Currency("EUR")

	if _, err := (Renderer{}).Render(inv); err == nil {
		t.Error("Render() should fail for an unknown preferred currency")
	}
}

func TestWorkerHandleEvent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := memory.New()
	logger := log.New(log.DefaultConfig())

	inv := sampleInvoice()
	if _, err := st.SaveInvoice(ctx, inv); err != nil {
		t.Fatal(err)
	}

	w := NewWorker(st, dir, logger)

	if err := w.HandleEvent(ctx, amqp.NewInvoiceEventMessage(inv.ID, amqp.ActionSaved)); err != nil {
		t.Fatalf("HandleEvent(saved) error = %v", err)
	}
	path := filepath.Join(dir, "invoice-1.pdf")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected exported pdf at %s: %v", path, err)
	}

	if err := w.HandleEvent(ctx, amqp.NewInvoiceEventMessage(inv.ID, amqp.ActionDeleted)); err != nil {
		t.Fatalf("HandleEvent(deleted) error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("pdf should be removed after delete event, stat err = %v", err)
	}
}

func TestWorkerIgnoresMissingInvoice(t *testing.T) {
	w := NewWorker(memory.New(), t.TempDir(), log.New(log.DefaultConfig()))
	if err := w.HandleEvent(context.Background(), amqp.NewInvoiceEventMessage("ghost", amqp.ActionSaved)); err != nil {
		t.Errorf("saved event for a vanished invoice should not error, got %v", err)
	}
}

func TestWorkerIgnoresUnknownAction(t *testing.T) {
	w := NewWorker(memory.New(), t.TempDir(), log.New(log.DefaultConfig()))
	if err := w.HandleEvent(context.Background(), amqp.NewInvoiceEventMessage("1", "archived")); err != nil {
		t.Errorf("unknown action should be dropped without error, got %v", err)
	}
}
