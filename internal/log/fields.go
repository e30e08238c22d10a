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

	FieldRecordID    = "record_id"
	FieldRecordDate  = "record_date"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldCount       = "count"
	FieldRevision    = "revision"
	FieldStorageKey  = "storage_key"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentExpense = "expense"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpLoad    = "load"
	OpPersist = "persist"
	OpExport  = "export"
	OpImport  = "import"
)
