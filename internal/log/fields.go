package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTranscript  = "transcript"
	FieldEntryID     = "entry_id"
	FieldEntryKind   = "kind"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldSessionID   = "session_id"
	FieldQueue       = "queue"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names.
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentInterpreter = "interpreter"
	ComponentResolver    = "resolver"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentExport      = "export"
	ComponentCache       = "cache"
)

// Operations defines standard operation names.
const (
	OpAppend   = "append"
	OpList     = "list"
	OpSum      = "sum"
	OpMatch    = "match"
	OpCommit   = "commit"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
