package logger

// Standard field names for structured logging.
// Use these constants instead of raw strings to keep keys consistent.
const (
	// Identity
	FieldRunID   = "run_id"
	FieldJobID   = "job_id"
	FieldCabinet = "cabinet"

	// Components
	FieldComponent = "component"
	FieldStage     = "stage"
	FieldTool      = "tool"

	// Counts and sizes
	FieldCount      = "count"
	FieldSheets     = "sheets"
	FieldParts      = "parts"
	FieldOperations = "operations"
	FieldWorkers    = "workers"

	// Results
	FieldWaste      = "waste_percent"
	FieldDurationMS = "duration_ms"
	FieldWarning    = "warning"
	FieldError      = "error"
	FieldFile       = "file"
)
