package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"adbill/internal/amqp"
	"adbill/internal/log"
	"adbill/internal/store"
)

// Worker keeps a directory of rendered invoice PDFs in sync with invoice
// events. Saved invoices are (re)rendered, deleted ones removed. The archive
// is keyed by invoice ID so a delete event, which carries no invoice number,
// can still find its file.
type Worker struct {
	store    store.Store
	renderer Renderer
	dir      string
	logger   *log.Logger
}

func NewWorker(st store.Store, dir string, logger *log.Logger) *Worker {
	return &Worker{
		store:  st,
		dir:    dir,
		logger: logger.WithComponent(log.ComponentExport),
	}
}

// HandleEvent processes one invoice event. Errors are returned so the
// consumer can requeue the delivery.
func (w *Worker) HandleEvent(ctx context.Context, msg *amqp.InvoiceEventMessage) error {
	switch msg.Action {
	case amqp.ActionSaved:
		return w.render(ctx, msg.ID)
	case amqp.ActionDeleted:
		return w.remove(msg.ID)
	default:
		// Unknown actions are dropped, not requeued; a newer producer may
		// emit events this worker does not understand.
		w.logger.Warn("ignoring unknown invoice event action", "action", msg.Action, log.FieldInvoiceID, msg.ID)
		return nil
	}
}

func (w *Worker) render(ctx context.Context, id string) error {
	snap, err := w.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	inv, ok := snap.FindInvoice(id)
	if !ok {
		// Saved then deleted before we got here. Nothing to render.
		w.logger.Warn("invoice vanished before export", log.FieldInvoiceID, id)
		return nil
	}

	data, err := w.renderer.Render(inv)
	if err != nil {
		return fmt.Errorf("render invoice %s: %w", id, err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := w.path(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	w.logger.Info("exported invoice pdf",
		log.FieldInvoiceID, id,
		log.FieldInvoiceNumber, inv.InvoiceNumber,
		"path", path)
	return nil
}

func (w *Worker) remove(id string) error {
	path := w.path(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove pdf: %w", err)
	}
	w.logger.Info("removed invoice pdf", log.FieldInvoiceID, id, "path", path)
	return nil
}

func (w *Worker) path(id string) string {
	return filepath.Join(w.dir, "invoice-"+id+".pdf")
}
