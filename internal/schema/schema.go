// Package schema holds the versioned report schema template embedded in
// extraction prompts. Field names and nesting are the wire contract between
// the pipeline and the report renderer: any change here must be mirrored in
// the gap detector's slot rules and the merge engine's key registry.
package schema

import "encoding/json"

// Version identifies the report template revision.
const Version = "2025-08"

// ReportTemplate is the required output shape for extraction calls.
// Placeholder values describe each field to the model; they are not
// type-enforced downstream.
const ReportTemplate = `{
  "Report_Header": {
    "Company_Name": "기업명",
    "CEO_Name": "대표이사 성명",
    "Industry_Classification": "산업분야",
    "Analyst": "LUCEN Investment Intelligence",
    "Investment_Rating": "강력 매수 / 긍정적 / 관망 / 부정적"
  },
  "Investment_Thesis_Summary": "핵심 투자 하이라이트 (3줄 요약)",
  "Financial_Status": {
    "Detailed_Balance_Sheet": {
      "Years": ["2022", "2023", "2024"],
      "Current_Assets": [0, 0, 0],
      "Non_Current_Assets": [0, 0, 0],
      "Total_Assets": [0, 0, 0],
      "Current_Liabilities": [0, 0, 0],
      "Non_Current_Liabilities": [0, 0, 0],
      "Total_Liabilities": [0, 0, 0],
      "Capital_Stock": [0, 0, 0],
      "Retained_Earnings_Etc": [0, 0, 0],
      "Total_Equity": [0, 0, 0]
    },
    "Income_Statement_Summary": {
      "Years": ["2022", "2023", "2024"],
      "Total_Revenue": [0, 0, 0],
      "Operating_Profit": [0, 0, 0],
      "Net_Profit": [0, 0, 0]
    },
    "Key_Financial_Commentary": "재무 분석 코멘트",
    "Investment_History": [
      { "Date": "시기", "Round": "라운드", "Amount": "금액", "Investor": "투자자" }
    ],
    "Future_Revenue_Structure": {
      "Business_Model": "비즈니스 모델 및 수익 구조",
      "Future_Cash_Cow": "향후 Cash Cow 및 이익 기여도"
    }
  },
  "Growth_Potential": {
    "Target_Market_Analysis": {
      "Target_Area": "타겟 영역 정의",
      "Market_Characteristics": "시장 특성",
      "Competitive_Positioning": "경쟁 포지셔닝"
    },
    "Target_Market_Trends": [
      { "Type": "Trend", "Content": "내용", "Source": "출처" }
    ],
    "LO_Exit_Strategy": {
      "Verified_Signals": ["검증된 시그널"],
      "Expected_LO_Scenarios": [
        { "Category": "구분", "Probability": "가능성", "Comment": "코멘트" }
      ],
      "Valuation_Range": "적정 가치 범위 (보수적 판단)"
    },
    "Export_and_Contract_Stats": {
      "Export_Graph_Data": [["연도", "수출액"], ["2023", 0], ["2024", 0]],
      "Contract_Count_Graph_Data": [["연도", "계약건수"], ["2023", 0], ["2024", 0]],
      "Sales_Graph_Data": [["연도", "매출액"], ["2023", 0], ["2024", 0]]
    }
  },
  "Technology_and_Pipeline": {
    "Market_Pain_Points": ["문제점1", "문제점2"],
    "Solution_and_Core_Tech": {
      "Technology_Name": "핵심기술명",
      "Key_Features": ["원리", "특허/인증 등"]
    },
    "Pipeline_Development_Status": {
      "Core_Platform_Details": "핵심 플랫폼 기술 상세",
      "Technical_Risk_Analysis": "기술적 위험도 분석",
      "Technical_Conclusion": "기술성 결론"
    }
  },
  "Key_Personnel": {
    "CEO_Reference": {
      "Name": "성명",
      "Background_and_Education": "학력 및 경력",
      "Core_Competency": "핵심 역량",
      "Management_Philosophy": "경영 철학",
      "VC_Perspective_Evaluation": "VC 관점 평가"
    },
    "Team_Capability": {
      "Key_Executives": ["핵심 임원진"],
      "Organization_Strengths": "조직 강점",
      "Advisory_Board": "자문단"
    }
  },
  "Key_Risks_and_Mitigation": [
    { "Risk_Factor": "리스크", "Mitigation_Strategy": "대응책" }
  ],
  "Valuation_and_Judgment": {
    "Valuation_Table": [
      { "Round": "라운드", "Pre_Money": "금액", "Post_Money": "금액", "Comment": "코멘트" }
    ],
    "Valuation_Logic_Detail": {
      "Peer_Group": ["비교 기업"],
      "Applied_Multiple": "적용 지표",
      "Target_Net_Income": "적용 이익",
      "Calculation_Rationale": "산출 근거"
    },
    "Three_Axis_Assessment": {
      "Technology_Rating": "기술성 평가",
      "Growth_Rating": "성장성 평가",
      "Exit_Rating": "회수 가능성 평가"
    },
    "Suitable_Investor_Type": "적합한 투자자 유형"
  },
  "Final_Conclusion": "종합 투자의견"
}`

// EvidenceTemplate is the required output shape for retrieval calls: the
// findings per slot plus a Patch scoped to the missing sections only.
const EvidenceTemplate = `{
  "Findings": [
    {
      "Slot": "MARKET_SIZE | FINANCIAL_YEARS | EXPORT_NEWS | TECH_DETAILS | SALES_SERIES",
      "Summary": "검색 결과 요약",
      "Key_Facts": ["팩트1", "팩트2"],
      "Sources": [{"Title": "제목", "URL": "url"}]
    }
  ],
  "Gaps": ["확인 불가 항목"],
  "Patch": { "결측 슬롯에 해당하는 보고서 섹션만, 보고서 스키마와 동일한 키로": {} }
}`

// registry is the parsed report template, used by the merge engine to
// ignore keys the schema does not recognize.
var registry map[string]any

func init() {
	if err := json.Unmarshal([]byte(ReportTemplate), &registry); err != nil {
		panic("schema: report template is not valid JSON: " + err.Error())
	}
}

// Registry returns the parsed report template. Callers must not mutate it.
func Registry() map[string]any {
	return registry
}

// KnownKey reports whether key is part of the schema section given by the
// parsed template node. A nil node means the path is below schema depth,
// where all keys are accepted.
func KnownKey(node map[string]any, key string) bool {
	if node == nil {
		return true
	}
	_, ok := node[key]
	return ok
}
