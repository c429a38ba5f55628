package pipeline

import "fmt"

// Failure tags written into the Record-shaped error marker. Operators use
// them to tell "model produced garbage" from "budget too small" from
// "provider unreachable" when re-running failed documents.
const (
	TagTransportFailed     = "transport_failed"
	TagEmptyOutput         = "empty_output"
	TagDecodeFailed        = "decode_failed"
	TagTruncatedAfterRetry = "truncated_after_retry"
)

// Stage names recorded in StageError and in log fields.
const (
	StageExtract      = "extract"
	StageCompactRetry = "compact_retry"
	StageEnrich       = "enrich"
)

// StageError is a terminal failure of one pipeline stage. It is returned as
// a value up to the orchestrator, which converts it into an error marker
// rather than aborting the batch.
type StageError struct {
	Stage   string // "extract", "compact_retry", "enrich"
	Tag     string
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline: %s: %s: %v", e.Stage, e.Tag, e.Err)
	}
	return fmt.Sprintf("pipeline: %s: %s: %s", e.Stage, e.Tag, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage, tag, message string, err error) *StageError {
	return &StageError{Stage: stage, Tag: tag, Message: message, Err: err}
}
