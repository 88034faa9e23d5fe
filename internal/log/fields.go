package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldUserID     = "user_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldPhase      = "phase"
	FieldDay        = "day"
	FieldDate       = "date"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldTemplateID = "template_id"
	FieldAmount     = "amount_cents"
	FieldCategory   = "category"
	FieldInserted   = "inserted"
	FieldSkipped    = "skipped"
	FieldTable      = "table"
	FieldRowID      = "row_id"
)

// Components defines standard component names
const (
	ComponentAPI       = "api"
	ComponentGenerator = "generator"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
)

// Generator phases, used as the value of FieldPhase
const (
	PhaseIncome    = "income"
	PhaseFixedCost = "fixed_cost"
)
