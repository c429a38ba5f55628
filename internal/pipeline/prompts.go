package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/internal/schema"
)

// Prompts stay Korean: the pipeline targets Korean IR decks and the report
// contract's placeholder text is Korean.

const extractionRules = `[작성 규칙]
- 자료에 없는 내용을 지어내지 마십시오. 확인 불가한 값은 "확인 불가"로 기재하십시오.
- 재무 테이블은 자료에 있는 모든 연도 컬럼을 빠짐없이 포함하십시오.
- Markdown 코드 블록 없이 순수 JSON만 출력하십시오.`

const compactionRules = `[작성 규칙]
- 직전 출력이 길이 제한으로 잘렸습니다. 동일한 스키마를 더 압축해 작성하십시오.
- 리스트는 항목당 최대 3개, 서술형 문장은 2문장 이내로 줄이십시오.
- 자료에 없는 내용을 지어내지 마십시오. 확인 불가한 값은 "확인 불가"로 기재하십시오.
- 재무 테이블의 연도 컬럼은 줄이지 말고 유지하십시오.
- Markdown 코드 블록 없이 순수 JSON만 출력하십시오.`

// extractionPrompt builds the primary prompt: role framing, rules, the
// schema template as the output contract, then the source text. sourceText
// is empty in inline-document mode, where the deck travels as bytes.
func extractionPrompt(rules, sourceText string) string {
	var b strings.Builder
	b.WriteString("당신은 VC 심사역입니다. IR 자료를 분석하여 투자 검토 보고서 JSON을 작성하십시오.\n\n")
	b.WriteString(rules)
	b.WriteString("\n\n[Output JSON Schema]\n")
	b.WriteString(schema.ReportTemplate)
	if sourceText != "" {
		b.WriteString("\n\n[IR 텍스트]\n")
		b.WriteString(sourceText)
	}
	return b.String()
}

// enrichmentPrompt requests evidence for the missing slots only, never the
// whole schema, keeping grounded calls small and targeted.
func enrichmentPrompt(company string, missing, queries []string) string {
	missingJSON, _ := json.Marshal(missing)
	queriesJSON, _ := json.Marshal(queries)

	return fmt.Sprintf(`당신은 리서처입니다. 아래 쿼리로 웹 검색을 수행하고 Evidence JSON을 작성하십시오.

[회사명]
%s

[결측 슬롯]
%s

[검색 쿼리(최대 2개)]
%s

[작성 규칙]
- 신뢰 가능한 출처 중심으로 요약하십시오.
- 숫자/연도/계약/수출 등 팩트는 Key_Facts에 구체적으로 기재하십시오.
- Sources에는 실제 URL을 포함하십시오.
- Patch에는 결측 슬롯에 해당하는 보고서 섹션만, 보고서 스키마와 동일한 키로 작성하십시오.
- Markdown 코드 블록 없이 순수 JSON만 출력하십시오.

[Evidence JSON Schema]
%s`, company, missingJSON, queriesJSON, schema.EvidenceTemplate)
}

// buildQueries compresses the missing slots into at most two search
// queries. Retrieval cost must not grow with schema complexity, so related
// slots share one compound query.
func buildQueries(company, industryHint string, missing []string) []string {
	c := strings.TrimSpace(company)
	ind := strings.TrimSpace(industryHint)

	q1 := c + " 매출 영업이익 재무제표 감사보고서"
	q2 := c + " 수출 해외 계약 MOU 수주 시장 규모 TAM SAM SOM"
	if ind != "" {
		q2 = fmt.Sprintf("%s 수출 해외 계약 MOU 수주 %s 시장 규모 TAM SAM SOM", c, ind)
	}

	slots := make(map[string]bool, len(missing))
	for _, m := range missing {
		slots[m] = true
	}

	// Financial-only gaps need just the disclosure query; gaps without a
	// financial slot need just the compound market/export query.
	if len(slots) == 1 && slots[model.SlotFinancialYears] {
		return []string{q1}
	}
	if len(slots) > 0 && !slots[model.SlotFinancialYears] {
		return []string{q2}
	}
	return []string{q1, q2}
}
