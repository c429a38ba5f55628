package model

// Slot identifiers the gap detector can emit. Each names an independently
// detectable unit of missing information within a Record.
const (
	SlotFinancialYears = "FINANCIAL_YEARS"
	SlotMarketSize     = "MARKET_SIZE"
	SlotTechDetails    = "TECH_DETAILS"
	SlotSalesSeries    = "SALES_SERIES"
	SlotExportNews     = "EXPORT_NEWS"
)

// Source is a single retrieval citation.
type Source struct {
	Title string `json:"Title"`
	URL   string `json:"URL"`
}

// Finding is the retrieval stage's structured output for one missing slot:
// a free-text summary, discrete facts, and citations.
type Finding struct {
	Slot     string   `json:"Slot"`
	Summary  string   `json:"Summary"`
	KeyFacts []string `json:"Key_Facts"`
	Sources  []Source `json:"Sources"`
}

// Evidence is the full enrichment result for one entity. Patch is a partial
// Record scoped to the missing slots; the merge engine consumes it. The
// whole structure is what the per-entity cache persists, including
// structurally-empty results so failing queries are not re-issued on later
// runs.
type Evidence struct {
	Findings []Finding `json:"Findings"`
	Gaps     []string  `json:"Gaps,omitempty"`
	Patch    Record    `json:"Patch,omitempty"`
	Note     string    `json:"Note,omitempty"`
}

// Empty reports whether retrieval produced nothing usable.
func (e *Evidence) Empty() bool {
	return e == nil || (len(e.Findings) == 0 && len(e.Patch) == 0)
}

// Gaps describes the gap detector's verdict for a draft Record.
type Gaps struct {
	// Missing lists the slot identifiers to request from retrieval, sorted
	// and de-duplicated.
	Missing []string
	// NeedsEnrichment is false when nothing is missing or when the record
	// lacks the entity name targeted retrieval requires.
	NeedsEnrichment bool
}
