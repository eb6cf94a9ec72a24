package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"adbill/internal/core"
	"adbill/internal/store"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}
	writeJSON(w, http.StatusOK, snap.Invoices)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.findInvoice(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}

	created, _, err := s.invoices.CreateInvoice(r.Context(), inv)
	if err != nil {
		s.writeInvoiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}
	inv.ID = r.PathValue("id")

	snap, err := s.invoices.UpdateInvoice(r.Context(), inv)
	if err != nil {
		s.writeInvoiceError(w, r, err)
		return
	}

	updated, _ := snap.FindInvoice(inv.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.invoices.DeleteInvoice(r.Context(), id); err != nil {
		s.writeInvoiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInvoiceBreakdown returns the monetary decomposition of an invoice,
// optionally converted into a target currency. USD amounts are always
// included; conversion only changes the payable figure.
func (s *Server) handleInvoiceBreakdown(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.findInvoice(w, r)
	if !ok {
		return
	}

	currency, opts, err := parseBreakdownParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown := core.ComputeBreakdown(inv.Items, inv.TaxRate, opts)
	converted, err := core.Convert(breakdown.Total, currency, inv.Client)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Breakdown      core.Breakdown `json:"breakdown"`
		Currency       core.Currency  `json:"currency"`
		ConvertedTotal float64        `json:"convertedTotal"`
		FormattedTotal string         `json:"formattedTotal"`
	}{
		Breakdown:      breakdown,
		Currency:       currency,
		ConvertedTotal: converted,
		FormattedTotal: core.Format(converted, currency),
	})
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := s.findInvoice(w, r)
	if !ok {
		return
	}

	data, err := s.renderer.Render(inv)
	if err != nil {
		slog.ErrorContext(r.Context(), "PDF render error", "error", err, "invoice_id", inv.ID)
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// findInvoice loads the invoice named in the path, writing the error
// response itself when the lookup fails.
func (s *Server) findInvoice(w http.ResponseWriter, r *http.Request) (core.Invoice, bool) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return core.Invoice{}, false
	}

	inv, ok := snap.FindInvoice(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return core.Invoice{}, false
	}
	return inv, true
}

// decodeInvoice parses the payload and resolves its client, either inline
// or by reference to a stored client.
func (s *Server) decodeInvoice(w http.ResponseWriter, r *http.Request) (core.Invoice, bool) {
	var payload invoicePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return core.Invoice{}, false
	}

	var client core.Client
	switch {
	case payload.ClientID != "":
		snap, err := s.store.Snapshot(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load clients")
			return core.Invoice{}, false
		}
		client, _ = snap.FindClient(payload.ClientID)
		if client.ID == "" {
			writeError(w, http.StatusUnprocessableEntity, "unknown client id "+payload.ClientID)
			return core.Invoice{}, false
		}
	case payload.Client != nil:
		var err error
		client, err = payload.Client.toDomain()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return core.Invoice{}, false
		}
	default:
		writeError(w, http.StatusUnprocessableEntity, "invoice needs a client or clientId")
		return core.Invoice{}, false
	}

	inv, err := payload.toDomain(client)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Invoice{}, false
	}
	return inv, true
}

func (s *Server) writeInvoiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, core.ErrUnknownCurrency),
		errors.Is(err, core.ErrEmptyID),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNoClient),
		errors.Is(err, core.ErrInvalidRate),
		errors.Is(err, core.ErrInvalidFrequency):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Invoice operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "invoice operation failed")
	}
}
