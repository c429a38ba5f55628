package model

import "time"

// RunStatus tracks a document run through the ledger.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusEnriching  RunStatus = "enriching"
	RunStatusRendering  RunStatus = "rendering"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
	RunStatusSkipped    RunStatus = "skipped"
)

// TokenUsage accumulates provider token counts across a run's calls.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates usage from another call.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Document identifies one source PDF in a batch.
type Document struct {
	Path string `json:"path"`
	// Name is the file stem used for artifact and report naming.
	Name string `json:"name"`
}

// DocumentResult is the orchestrator's output for one document.
type DocumentResult struct {
	Document Document `json:"document"`
	Record   Record   `json:"record"`
	// Warnings carries non-fatal annotations, e.g. an enrichment failure
	// the pipeline fell through.
	Warnings []string `json:"warnings,omitempty"`
	// Skipped is set when a prior successful artifact was found and no
	// processing happened.
	Skipped bool `json:"skipped,omitempty"`
	// TransportCalls counts provider calls issued for this document.
	TransportCalls int        `json:"transport_calls"`
	TokenUsage     TokenUsage `json:"token_usage"`
	Duration       int64      `json:"duration_ms"`
}

// Run is one ledger row.
type Run struct {
	ID        string     `json:"id"`
	Document  string     `json:"document"`
	Status    RunStatus  `json:"status"`
	ErrorTag  string     `json:"error_tag,omitempty"`
	Usage     TokenUsage `json:"usage"`
	Duration  int64      `json:"duration_ms"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
