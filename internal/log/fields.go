package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldInvoiceID     = "invoice_id"
	FieldInvoiceNumber = "invoice_number"
	FieldClientID      = "client_id"
	FieldClientName    = "client_name"
	FieldCurrency      = "currency"
	FieldTotalUSD      = "total_usd"
	FieldFrequency     = "frequency"
	FieldBackend       = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentInvoice   = "invoice"
	ComponentStore     = "store"
	ComponentAMQP      = "amqp"
	ComponentRecurring = "recurring"
	ComponentExport    = "export"
	ComponentAssistant = "assistant"
)
