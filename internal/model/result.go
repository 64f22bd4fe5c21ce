package model

// Rejection reasons surfaced in IngestionResult.Reason. Every failure mode
// is reported with one of these or an error string; a message is never
// silently dropped.
const (
	ReasonSourceDisabled        = "source disabled"
	ReasonAutoDetectionDisabled = "auto-detection disabled"
	ReasonNoTransactionDetected = "no transaction detected"
	ReasonIncompleteExtraction  = "incomplete extraction"
	ReasonLowConfidence         = "low-confidence"
	ReasonDuplicate             = "duplicate"
)

// IngestionResult is the terminal value returned to every caller of the
// pipeline, success or failure.
type IngestionResult struct {
	Metadata  map[string]string
	RecordID  string
	Error     string
	Reason    string
	MessageID string
	Success   bool
}
