package logging

// Standard field names for structured log output.
const (
	FieldFile          = "file_path"
	FieldSource        = "source"
	FieldKind          = "kind"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldRule          = "rule"
	FieldPartner       = "partner"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldCount         = "count"
	FieldNewCount      = "new_count"
	FieldLine          = "line"
	FieldPeriod        = "period"
	FieldRunID         = "run_id"
	FieldDelimiter     = "delimiter"
)
