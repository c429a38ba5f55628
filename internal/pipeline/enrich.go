package pipeline

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/lucen-labs/irreview/internal/jsonx"
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/pkg/gemini"
)

const (
	enrichTemperature = 0.3
	enrichTokens      = 8192
)

// enrich retrieves public-web evidence for the record's missing slots. The
// per-entity cache is consulted first so a batch rerun never repeats a
// grounded call, which is the most rate-limited resource in the pipeline.
//
// A transport failure is returned as an error for the caller to downgrade
// to a warning. A completed call whose output cannot be decoded still
// yields an Evidence value, annotated and cached, so the failure mode is
// visible in the artifact rather than silently retried forever.
//
// The bool reports whether a provider call was issued; a cache hit costs
// nothing.
func (p *Pipeline) enrich(ctx context.Context, rec model.Record, gaps model.Gaps) (*model.Evidence, bool, error) {
	company := rec.CompanyName()

	if cached := p.cache.Load(company); cached != nil {
		p.log.Info("evidence cache hit", zap.String("company", company))
		return cached, false, nil
	}

	queries := buildQueries(company, rec.IndustryHint(), gaps.Missing)
	req := buildEnrichmentRequest(company, gaps.Missing, queries)

	resp, err := p.client.Generate(ctx, gemini.CallGrounded, req)
	if err != nil {
		return nil, true, stageErr(StageEnrich, TagTransportFailed, "grounded call failed", err)
	}

	ev := decodeEvidence(resp, p.log.With(zap.String("company", company)))
	ev.Gaps = gaps.Missing

	if err := p.cache.Save(company, ev); err != nil {
		p.log.Warn("evidence cache write failed",
			zap.String("company", company), zap.Error(err))
	}
	return ev, true, nil
}

func buildEnrichmentRequest(company string, missing, queries []string) gemini.GenerateRequest {
	temp := enrichTemperature
	return gemini.GenerateRequest{
		Contents: []gemini.Content{{
			Role:  "user",
			Parts: []gemini.Part{{Text: enrichmentPrompt(company, missing, queries)}},
		}},
		// Grounded calls cannot also force a JSON response MIME type, so
		// the prompt carries the output contract and the parser absorbs
		// whatever framing the model adds.
		Tools: []gemini.Tool{{GoogleSearch: &gemini.GoogleSearch{}}},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:     &temp,
			MaxOutputTokens: enrichTokens,
		},
	}
}

// decodeEvidence never fails: undecodable or empty output degrades to an
// empty Evidence carrying a note.
func decodeEvidence(resp *gemini.GenerateResponse, log *zap.Logger) *model.Evidence {
	text, status := gemini.ExtractText(resp)
	if status == gemini.FinishEmpty {
		log.Warn("enrichment returned no text")
		return &model.Evidence{Note: "모델이 빈 응답을 반환했습니다."}
	}

	rec, err := jsonx.Parse(text)
	if err != nil {
		log.Warn("enrichment output not decodable", zap.Error(err))
		return &model.Evidence{Note: "검색 결과 JSON 파싱에 실패했습니다."}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return &model.Evidence{Note: "검색 결과 직렬화에 실패했습니다."}
	}
	var ev model.Evidence
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Warn("enrichment output has unexpected shape", zap.Error(err))
		return &model.Evidence{Note: "검색 결과가 예상한 구조가 아닙니다."}
	}
	if status == gemini.FinishTruncated {
		ev.Note = "검색 결과가 길이 제한으로 잘렸습니다."
	}
	return &ev
}
