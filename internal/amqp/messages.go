package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by invoice event messages.
const (
	ActionSaved   = "saved"
	ActionDeleted = "deleted"
)

// InvoiceEventMessage is a lightweight notification that an invoice changed.
// It carries only the ID and the action; consumers fetch the current state
// from the store themselves, so a stale or duplicated delivery is harmless.
type InvoiceEventMessage struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewInvoiceEventMessage(id, action string) *InvoiceEventMessage {
	return &InvoiceEventMessage{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *InvoiceEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InvoiceEventMessageFromJSON(data []byte) (*InvoiceEventMessage, error) {
	var msg InvoiceEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
