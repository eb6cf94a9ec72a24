package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	USD Currency = "USD"
	THB Currency = "THB"
	MMK Currency = "MMK"
)

const (
	StatusDraft   InvoiceStatus = "Draft"
	StatusPending InvoiceStatus = "Pending"
	StatusPaid    InvoiceStatus = "Paid"
	StatusOverdue InvoiceStatus = "Overdue"
)

const (
	FreqNone      RecurringFrequency = "None"
	FreqWeekly    RecurringFrequency = "Weekly"
	FreqMonthly   RecurringFrequency = "Monthly"
	FreqQuarterly RecurringFrequency = "Quarterly"
	FreqYearly    RecurringFrequency = "Yearly"
)

type (
	// Currency is the closed set of display currencies. All stored unit
	// prices are USD; conversion happens only at display/export time.
	Currency string

	InvoiceStatus string

	RecurringFrequency string

	// LineItem is a single invoice row. Price is the unit price in USD.
	// Ad-spend lines are pass-through platform costs and attract the
	// agency margin; other lines are service fees.
	LineItem struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Price       float64 `json:"price"`
		IsAdSpend   bool    `json:"isAdSpend"`
	}

	// Client carries its own negotiated USD exchange rate, expressed as
	// units of PreferredCurrency per 1 USD.
	Client struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		Email             string   `json:"email"`
		Address           string   `json:"address"`
		PreferredCurrency Currency `json:"preferredCurrency"`
		ExchangeRate      float64  `json:"exchangeRate"`
	}

	RecurringConfig struct {
		Frequency RecurringFrequency `json:"frequency"`
		IsActive  bool               `json:"isActive"`
		EndDate   time.Time          `json:"endDate"`
		// LastRun is when the schedule last materialized an invoice.
		// Zero means it never ran.
		LastRun time.Time `json:"lastRun"`
	}

	// Invoice embeds a copy of the client at billing time, not a
	// reference: later client edits must not rewrite issued invoices.
	Invoice struct {
		ID            string           `json:"id"`
		InvoiceNumber string           `json:"invoiceNumber"`
		Date          time.Time        `json:"date"`
		DueDate       time.Time        `json:"dueDate"`
		Client        Client           `json:"client"`
		Items         []LineItem       `json:"items"`
		Status        InvoiceStatus    `json:"status"`
		TaxRate       float64          `json:"taxRate"`
		Notes         string           `json:"notes"`
		Recurring     *RecurringConfig `json:"recurring,omitempty"`
	}

	// Snapshot is an immutable view of the whole application state.
	// Stores hand out fresh copies; mutations replace records by id and
	// produce a new snapshot.
	Snapshot struct {
		Invoices []Invoice
		Clients  []Client
		Version  int64
	}
)

var (
	ErrUnknownCurrency  = errors.New("unknown currency code")
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyName        = errors.New("empty client name")
	ErrNoClient         = errors.New("invoice has no client")
	ErrInvalidRate      = errors.New("invalid exchange rate")
	ErrInvalidFrequency = errors.New("invalid recurring frequency")
	ErrInvalidStatus    = errors.New("invalid invoice status")
)

// Currencies lists every supported currency, in display order.
func Currencies() []Currency {
	return []Currency{USD, THB, MMK}
}

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	for _, cur := range Currencies() {
		if c == cur {
			return true
		}
	}
	return false
}

// ParseCurrency maps a currency code string to its Currency value.
// Unknown codes are an explicit error: silently misconverting money is
// worse than a visible failure.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", ErrUnknownCurrency
	}
	return c, nil
}

// Total returns quantity × unit price for the line, in USD.
func (li LineItem) Total() float64 {
	return li.Quantity * li.Price
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if _, err := ParseCurrency(string(c.PreferredCurrency)); err != nil {
		return err
	}
	if c.ExchangeRate <= 0 {
		return ErrInvalidRate
	}
	if c.PreferredCurrency == USD && c.ExchangeRate != 1 {
		return fmt.Errorf("%w: USD clients must have exchange rate 1", ErrInvalidRate)
	}
	return nil
}

func (rc RecurringConfig) Validate() error {
	switch rc.Frequency {
	case FreqNone, FreqWeekly, FreqMonthly, FreqQuarterly, FreqYearly:
	default:
		return ErrInvalidFrequency
	}
	if rc.IsActive && rc.Frequency == FreqNone {
		return fmt.Errorf("%w: active schedule needs a frequency", ErrInvalidFrequency)
	}
	return nil
}

// Recurs reports whether the invoice is an active recurring template that
// has not passed its end date.
func (inv Invoice) Recurs(now time.Time) bool {
	rc := inv.Recurring
	if rc == nil || !rc.IsActive || rc.Frequency == FreqNone {
		return false
	}
	if !rc.EndDate.IsZero() && now.After(rc.EndDate) {
		return false
	}
	return true
}

// ItemsTotal sums quantity × price over all lines, with no margin or tax.
func (inv Invoice) ItemsTotal() float64 {
	var sum float64
	for _, li := range inv.Items {
		sum += li.Total()
	}
	return sum
}

func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(inv.Client.ID) == "" {
		return ErrNoClient
	}
	if err := inv.Client.Validate(); err != nil {
		return err
	}
	switch inv.Status {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue:
	default:
		return ErrInvalidStatus
	}
	if inv.Recurring != nil {
		if err := inv.Recurring.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindInvoice returns the invoice with the given id from the snapshot.
func (s Snapshot) FindInvoice(id string) (Invoice, bool) {
	for _, inv := range s.Invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

// FindClient returns the client with the given id from the snapshot.
func (s Snapshot) FindClient(id string) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}
