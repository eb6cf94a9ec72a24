package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"adbill/internal/core"
	"adbill/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the durable store backend, used by the worker binaries and
// selectable for the server via DATA_BACKEND=sqlite.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	var err error

	if snap.Version, err = r.version(ctx); err != nil {
		return core.Snapshot{}, err
	}
	if snap.Clients, err = r.listClients(ctx); err != nil {
		return core.Snapshot{}, err
	}
	if snap.Invoices, err = r.listInvoices(ctx); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}

func (r *Repository) SaveInvoice(ctx context.Context, inv core.Invoice) (core.Snapshot, error) {
	if err := inv.Validate(); err != nil {
		return core.Snapshot{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rc := inv.Recurring
	if rc == nil {
		rc = &core.RecurringConfig{Frequency: core.FreqNone}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (
			id, invoice_number, issue_date, due_date, status, tax_rate, notes,
			client_id, client_name, client_email, client_address, client_currency, client_rate,
			recurring_frequency, recurring_active, recurring_end_date, recurring_last_run
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			invoice_number = excluded.invoice_number,
			issue_date = excluded.issue_date,
			due_date = excluded.due_date,
			status = excluded.status,
			tax_rate = excluded.tax_rate,
			notes = excluded.notes,
			client_id = excluded.client_id,
			client_name = excluded.client_name,
			client_email = excluded.client_email,
			client_address = excluded.client_address,
			client_currency = excluded.client_currency,
			client_rate = excluded.client_rate,
			recurring_frequency = excluded.recurring_frequency,
			recurring_active = excluded.recurring_active,
			recurring_end_date = excluded.recurring_end_date,
			recurring_last_run = excluded.recurring_last_run`,
		inv.ID, inv.InvoiceNumber, encodeTime(inv.Date), encodeTime(inv.DueDate),
		string(inv.Status), inv.TaxRate, inv.Notes,
		inv.Client.ID, inv.Client.Name, inv.Client.Email, inv.Client.Address,
		string(inv.Client.PreferredCurrency), inv.Client.ExchangeRate,
		string(rc.Frequency), boolToInt(rc.IsActive), encodeTime(rc.EndDate), encodeTime(rc.LastRun),
	)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("upsert invoice: %w", err)
	}

	// Replace the line items wholesale; the invoice is the unit of update.
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return core.Snapshot{}, fmt.Errorf("clear invoice items: %w", err)
	}
	for i, li := range inv.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, position, item_id, description, quantity, price, is_ad_spend)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, i, li.ID, li.Description, li.Quantity, li.Price, boolToInt(li.IsAdSpend))
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}

	if err := r.commitWithBump(ctx, tx); err != nil {
		return core.Snapshot{}, err
	}

	slog.InfoContext(ctx, "Invoice saved",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"client_name", inv.Client.Name,
		"items", len(inv.Items))

	return r.Snapshot(ctx)
}

func (r *Repository) DeleteInvoice(ctx context.Context, id string) (core.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("delete invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Snapshot{}, store.ErrNotFound
	}

	if err := r.commitWithBump(ctx, tx); err != nil {
		return core.Snapshot{}, err
	}
	return r.Snapshot(ctx)
}

func (r *Repository) SaveClient(ctx context.Context, c core.Client) (core.Snapshot, error) {
	if err := c.Validate(); err != nil {
		return core.Snapshot{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, address, preferred_currency, exchange_rate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			address = excluded.address,
			preferred_currency = excluded.preferred_currency,
			exchange_rate = excluded.exchange_rate`,
		c.ID, c.Name, c.Email, c.Address, string(c.PreferredCurrency), c.ExchangeRate)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("upsert client: %w", err)
	}

	if err := r.commitWithBump(ctx, tx); err != nil {
		return core.Snapshot{}, err
	}
	return r.Snapshot(ctx)
}

func (r *Repository) DeleteClients(ctx context.Context, ids []string) (core.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id); err != nil {
			return core.Snapshot{}, fmt.Errorf("delete client %s: %w", id, err)
		}
	}

	if err := r.commitWithBump(ctx, tx); err != nil {
		return core.Snapshot{}, err
	}
	return r.Snapshot(ctx)
}

func (r *Repository) version(ctx context.Context) (int64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `SELECT version FROM state_version WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read state version: %w", err)
	}
	return v, nil
}

func (r *Repository) commitWithBump(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE state_version SET version = version + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump state version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) listClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, address, preferred_currency, exchange_rate
		FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []core.Client
	for rows.Next() {
		var c core.Client
		var currency string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Address, &currency, &c.ExchangeRate); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.PreferredCurrency = core.Currency(currency)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *Repository) listInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_number, issue_date, due_date, status, tax_rate, notes,
			client_id, client_name, client_email, client_address, client_currency, client_rate,
			recurring_frequency, recurring_active, recurring_end_date, recurring_last_run
		FROM invoices ORDER BY invoice_number`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var inv core.Invoice
		var issueDate, dueDate, status, currency string
		var freq, endDate, lastRun string
		var active int
		err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &issueDate, &dueDate, &status, &inv.TaxRate, &inv.Notes,
			&inv.Client.ID, &inv.Client.Name, &inv.Client.Email, &inv.Client.Address, &currency, &inv.Client.ExchangeRate,
			&freq, &active, &endDate, &lastRun)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Date = decodeTime(issueDate)
		inv.DueDate = decodeTime(dueDate)
		inv.Status = core.InvoiceStatus(status)
		inv.Client.PreferredCurrency = core.Currency(currency)
		if core.RecurringFrequency(freq) != core.FreqNone || active != 0 {
			inv.Recurring = &core.RecurringConfig{
				Frequency: core.RecurringFrequency(freq),
				IsActive:  active != 0,
				EndDate:   decodeTime(endDate),
				LastRun:   decodeTime(lastRun),
			}
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		items, err := r.listItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}
	return invoices, nil
}

func (r *Repository) listItems(ctx context.Context, invoiceID string) ([]core.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_id, description, quantity, price, is_ad_spend
		FROM invoice_items WHERE invoice_id = ? ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []core.LineItem
	for rows.Next() {
		var li core.LineItem
		var adSpend int
		if err := rows.Scan(&li.ID, &li.Description, &li.Quantity, &li.Price, &adSpend); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		li.IsAdSpend = adSpend != 0
		items = append(items, li)
	}
	return items, rows.Err()
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ store.Store = (*Repository)(nil)
