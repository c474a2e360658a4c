package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldUserID     = "user_id"
	FieldExpenseID  = "expense_id"
	FieldCategoryID = "category_id"
	FieldCategory   = "category"
	FieldMonth      = "month"
	FieldAmount     = "amount"
	FieldRowCount   = "row_count"
	FieldDuration   = "duration_ms"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentImporter = "importer"
	ComponentReport   = "report"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
)

// Standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpImport   = "import"
	OpRollup   = "rollup"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
