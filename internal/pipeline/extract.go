package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lucen-labs/irreview/internal/jsonx"
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/pkg/gemini"
)

const (
	defaultMaxSourceChars   = 25000
	defaultExtractTokens    = 8192
	defaultCompactionTokens = 16384

	extractTemperature = 0.1
)

// Source is one IR document ready for extraction. Exactly one of Text or
// PDF is set: Text when the deck was pre-extracted, PDF for inline upload.
type Source struct {
	Text string
	PDF  []byte
}

type extractOutcome struct {
	record    model.Record
	truncated bool
	usage     model.TokenUsage
}

// extract runs the primary extraction call with the standard token budget.
func (p *Pipeline) extract(ctx context.Context, src Source) (extractOutcome, error) {
	return p.extractWith(ctx, StageExtract, extractionRules, src, p.extractTokens)
}

// compactRetry reruns extraction once with compaction rules and a doubled
// budget after a truncated first attempt.
func (p *Pipeline) compactRetry(ctx context.Context, src Source) (extractOutcome, error) {
	return p.extractWith(ctx, StageCompactRetry, compactionRules, src, p.compactionTokens)
}

func (p *Pipeline) extractWith(ctx context.Context, stage, rules string, src Source, maxTokens int) (extractOutcome, error) {
	src.Text = clipSource(src.Text, p.maxSourceChars)
	req, err := buildExtractionRequest(rules, src, maxTokens)
	if err != nil {
		return extractOutcome{}, stageErr(stage, TagTransportFailed, "build request", err)
	}

	resp, err := p.client.Generate(ctx, gemini.CallStandard, req)
	if err != nil {
		return extractOutcome{}, stageErr(stage, TagTransportFailed, "model call failed", err)
	}

	out := extractOutcome{usage: gemini.Usage(resp)}

	text, status := gemini.ExtractText(resp)
	switch status {
	case gemini.FinishEmpty:
		return out, stageErr(stage, TagEmptyOutput, "model returned no text", nil)
	case gemini.FinishTruncated:
		// Truncated output is almost never parseable JSON; the caller
		// decides whether a compaction retry is still available.
		p.log.Warn("extraction output truncated",
			zap.String("stage", stage),
			zap.Int("max_tokens", maxTokens))
		out.truncated = true
		return out, nil
	}

	rec, err := jsonx.Parse(text)
	if err != nil {
		return out, stageErr(stage, TagDecodeFailed, "model output is not decodable JSON", err)
	}
	out.record = rec
	return out, nil
}

func buildExtractionRequest(rules string, src Source, maxTokens int) (gemini.GenerateRequest, error) {
	if src.Text == "" && len(src.PDF) == 0 {
		return gemini.GenerateRequest{}, eris.New("source has neither text nor pdf")
	}

	parts := []gemini.Part{{Text: extractionPrompt(rules, src.Text)}}
	if len(src.PDF) > 0 {
		parts = append(parts, gemini.Part{
			InlineData: &gemini.InlineData{
				MIMEType: "application/pdf",
				Data:     base64.StdEncoding.EncodeToString(src.PDF),
			},
		})
	}

	temp := extractTemperature
	return gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      &temp,
			MaxOutputTokens:  maxTokens,
			ResponseMIMEType: "application/json",
		},
	}, nil
}

// clipSource bounds the prompt text by runes so multi-byte Hangul never
// splits mid-character.
func clipSource(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + fmt.Sprintf("\n\n[이하 %d자 생략]", len(runes)-maxChars)
}
