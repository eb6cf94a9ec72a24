// Package http provides HTTP server and handler implementations.
//
// This file implements parsing and validation of request payloads. Numeric
// fields are lenient on purpose: clients may send quantities and rates as
// strings, and anything unparseable coerces to 0 instead of failing the
// request.

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adbill/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// flexNumber decodes from a JSON number or a JSON string. Malformed values
// become 0, as do NaN and infinities.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = flexNumber(core.CoerceNumber(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(core.Finite(f))
	return nil
}

type lineItemPayload struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Quantity    flexNumber `json:"quantity"`
	Price       flexNumber `json:"price"`
	IsAdSpend   bool       `json:"isAdSpend"`
}

type clientPayload struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Address           string     `json:"address"`
	PreferredCurrency string     `json:"preferredCurrency"`
	ExchangeRate      flexNumber `json:"exchangeRate"`
}

type recurringPayload struct {
	Frequency string `json:"frequency"`
	IsActive  bool   `json:"isActive"`
	EndDate   string `json:"endDate"`
}

type invoicePayload struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoiceNumber"`
	Date          string            `json:"date"`
	DueDate       string            `json:"dueDate"`
	ClientID      string            `json:"clientId"`
	Client        *clientPayload    `json:"client"`
	Status        string            `json:"status"`
	TaxRate       flexNumber        `json:"taxRate"`
	Notes         string            `json:"notes"`
	Items         []lineItemPayload `json:"items"`
	Recurring     *recurringPayload `json:"recurring"`
}

type notesRequest struct {
	Context string `json:"context"`
}

type deleteClientsRequest struct {
	IDs []string `json:"ids"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps or bare dates; empty means unset.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func (p clientPayload) toDomain() (core.Client, error) {
	currency := core.USD
	if strings.TrimSpace(p.PreferredCurrency) != "" {
		var err error
		currency, err = core.ParseCurrency(p.PreferredCurrency)
		if err != nil {
			return core.Client{}, err
		}
	}
	return core.Client{
		ID:                strings.TrimSpace(p.ID),
		Name:              sanitizeInput(p.Name),
		Email:             sanitizeInput(p.Email),
		Address:           sanitizeInput(p.Address),
		PreferredCurrency: currency,
		ExchangeRate:      float64(p.ExchangeRate),
	}, nil
}

func (p invoicePayload) toDomain(client core.Client) (core.Invoice, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Invoice{}, err
	}
	dueDate, err := parseDate(p.DueDate)
	if err != nil {
		return core.Invoice{}, err
	}

	inv := core.Invoice{
		ID:            strings.TrimSpace(p.ID),
		InvoiceNumber: strings.TrimSpace(p.InvoiceNumber),
		Date:          date,
		DueDate:       dueDate,
		Client:        client,
		Status:        core.InvoiceStatus(p.Status),
		TaxRate:       float64(p.TaxRate),
		Notes:         sanitizeInput(p.Notes),
	}

	for _, item := range p.Items {
		inv.Items = append(inv.Items, core.LineItem{
			ID:          strings.TrimSpace(item.ID),
			Description: sanitizeInput(item.Description),
			Quantity:    float64(item.Quantity),
			Price:       float64(item.Price),
			IsAdSpend:   item.IsAdSpend,
		})
	}

	if p.Recurring != nil {
		endDate, err := parseDate(p.Recurring.EndDate)
		if err != nil {
			return core.Invoice{}, err
		}
		inv.Recurring = &core.RecurringConfig{
			Frequency: core.RecurringFrequency(p.Recurring.Frequency),
			IsActive:  p.Recurring.IsActive,
			EndDate:   endDate,
		}
	}

	return inv, nil
}

// parseBreakdownParams reads the optional currency, margin and tax query
// parameters. Currency defaults to USD; margin and tax default to included.
func parseBreakdownParams(query url.Values) (core.Currency, core.BreakdownOptions, error) {
	currency := core.USD
	if v := strings.TrimSpace(query.Get("currency")); v != "" {
		var err error
		currency, err = core.ParseCurrency(v)
		if err != nil {
			return "", core.BreakdownOptions{}, err
		}
	}

	opts := core.FullOptions
	if v := strings.TrimSpace(query.Get("margin")); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return "", core.BreakdownOptions{}, fmt.Errorf("invalid margin parameter %q", v)
		}
		opts.IncludeMargin = include
	}
	if v := strings.TrimSpace(query.Get("tax")); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			return "", core.BreakdownOptions{}, fmt.Errorf("invalid tax parameter %q", v)
		}
		opts.IncludeTax = include
	}

	return currency, opts, nil
}

// sanitizeInput removes control characters (except tab, newline, carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
