package gemini

import (
	"strings"

	"github.com/lucen-labs/irreview/internal/model"
)

// FinishStatus summarizes how a generation ended.
type FinishStatus int

const (
	// FinishNormal: the model completed its output.
	FinishNormal FinishStatus = iota
	// FinishTruncated: the output hit the maxOutputTokens ceiling; the text
	// is syntactically incomplete.
	FinishTruncated
	// FinishEmpty: no candidates or no textual parts.
	FinishEmpty
)

// ExtractText flattens a response into its text payload plus a finish
// status. Malformed or empty shapes degrade to ("", FinishEmpty); this
// never fails, whatever the provider sends back.
func ExtractText(resp *GenerateResponse) (string, FinishStatus) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", FinishEmpty
	}

	cand := resp.Candidates[0]
	var texts []string
	for _, p := range cand.Content.Parts {
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	text := strings.Join(texts, "\n")

	if cand.FinishReason == "MAX_TOKENS" {
		return text, FinishTruncated
	}
	if text == "" {
		return "", FinishEmpty
	}
	return text, FinishNormal
}

// Usage converts the response's usage metadata into pipeline token counts.
// A response without metadata counts as zero.
func Usage(resp *GenerateResponse) model.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return model.TokenUsage{}
	}
	return model.TokenUsage{
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	}
}
