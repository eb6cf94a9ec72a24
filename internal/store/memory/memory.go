package memory

import (
	"context"
	"sync"
	"time"

	"adbill/internal/core"
	"adbill/internal/store"
)

// Store is the default in-process backend. State lives only for the
// lifetime of the process; a restart starts over from the seed data.
type Store struct {
	mu       sync.Mutex
	invoices []core.Invoice
	clients  []core.Client
	version  int64
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with the demo book of business: a
// couple of agency clients and their campaign invoices.
func NewSeeded() *Store {
	clients := []core.Client{
		{
			ID:                "c1",
			Name:              "Luxury Spa Resort",
			Email:             "marketing@luxespa.th",
			Address:           "88 Sukhumvit Rd, Bangkok, Thailand",
			PreferredCurrency: core.THB,
			ExchangeRate:      35.13,
		},
		{
			ID:                "c2",
			Name:              "TechGear Solutions",
			Email:             "ads@techgear.io",
			Address:           "Silicon Valley South, Austin, TX",
			PreferredCurrency: core.USD,
			ExchangeRate:      1,
		},
		{
			ID:                "c3",
			Name:              "Organic Bites",
			Email:             "hello@organicbites.co",
			Address:           "789 Green St, Chiang Mai",
			PreferredCurrency: core.THB,
			ExchangeRate:      35.50,
		},
	}

	invoices := []core.Invoice{
		{
			ID:            "1",
			InvoiceNumber: "ADV-2024-001",
			Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Client:        clients[0],
			Status:        core.StatusPaid,
			TaxRate:       7,
			Notes:         "Meta Ads campaign focused on Songkran festival bookings.",
			Items: []core.LineItem{
				{ID: "li1", Description: "Meta Ad Spend (Facebook/IG)", Quantity: 1, Price: 2000, IsAdSpend: true},
				{ID: "li2", Description: "Social Media Management - March", Quantity: 1, Price: 800},
			},
		},
		{
			ID:            "2",
			InvoiceNumber: "ADV-2024-002",
			Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2024, 3, 24, 0, 0, 0, 0, time.UTC),
			Client:        clients[1],
			Status:        core.StatusPending,
			TaxRate:       0,
			Notes:         "Google Search Ads for Q1 Product Launch.",
			Items: []core.LineItem{
				{ID: "li3", Description: "Google Ads Search Network", Quantity: 1, Price: 5000, IsAdSpend: true},
				{ID: "li4", Description: "Campaign Setup & Optimization", Quantity: 1, Price: 1200},
			},
		},
	}

	return &Store{invoices: invoices, clients: clients}
}

func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *Store) SaveInvoice(_ context.Context, inv core.Invoice) (core.Snapshot, error) {
	if err := inv.Validate(); err != nil {
		return core.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inv = copyInvoice(inv)
	replaced := false
	for i := range s.invoices {
		if s.invoices[i].ID == inv.ID {
			s.invoices[i] = inv
			replaced = true
			break
		}
	}
	if !replaced {
		s.invoices = append(s.invoices, inv)
	}
	s.version++
	return s.snapshotLocked(), nil
}

func (s *Store) DeleteInvoice(_ context.Context, id string) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.invoices[:0]
	found := false
	for _, inv := range s.invoices {
		if inv.ID == id {
			found = true
			continue
		}
		kept = append(kept, inv)
	}
	if !found {
		return core.Snapshot{}, store.ErrNotFound
	}
	s.invoices = kept
	s.version++
	return s.snapshotLocked(), nil
}

func (s *Store) SaveClient(_ context.Context, c core.Client) (core.Snapshot, error) {
	if err := c.Validate(); err != nil {
		return core.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			s.clients[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		s.clients = append(s.clients, c)
	}
	s.version++
	return s.snapshotLocked(), nil
}

func (s *Store) DeleteClients(_ context.Context, ids []string) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.clients[:0]
	for _, c := range s.clients {
		if _, ok := drop[c.ID]; ok {
			continue
		}
		kept = append(kept, c)
	}
	s.clients = kept
	s.version++
	return s.snapshotLocked(), nil
}

func (s *Store) Close() error { return nil }

// snapshotLocked deep-copies the state so callers can never mutate the
// store through a snapshot. Caller must hold s.mu.
func (s *Store) snapshotLocked() core.Snapshot {
	snap := core.Snapshot{
		Invoices: make([]core.Invoice, len(s.invoices)),
		Clients:  append([]core.Client(nil), s.clients...),
		Version:  s.version,
	}
	for i, inv := range s.invoices {
		snap.Invoices[i] = copyInvoice(inv)
	}
	return snap
}

func copyInvoice(inv core.Invoice) core.Invoice {
	inv.Items = append([]core.LineItem(nil), inv.Items...)
	if inv.Recurring != nil {
		rc := *inv.Recurring
		inv.Recurring = &rc
	}
	return inv
}

var _ store.Store = (*Store)(nil)
