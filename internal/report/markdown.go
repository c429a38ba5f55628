// Package report renders refined records into reviewer-facing artifacts: a
// Korean Markdown report, an HTML version of it, and an Excel workbook with
// the financial charts.
package report

import (
	"fmt"
	"strings"

	"github.com/lucen-labs/irreview/internal/model"
)

const na = "확인 불가"

// Markdown renders the full investment-review report. Missing fields render
// as placeholder text rather than dropping their section, so every report
// has the same shape regardless of extraction quality.
func Markdown(rec model.Record) string {
	var b strings.Builder

	company := orNA(rec.CompanyName())
	b.WriteString("# 투자 검토 보고서: " + company + "\n\n")

	writeHeader(&b, rec)
	writeThesis(&b, rec)
	writeFinancials(&b, rec)
	writeGrowth(&b, rec)
	writeTechnology(&b, rec)
	writePersonnel(&b, rec)
	writeRisks(&b, rec)
	writeValuation(&b, rec)

	b.WriteString("## 8. 종합 투자의견\n\n")
	b.WriteString(orNA(rec.String("Final_Conclusion")) + "\n")

	return b.String()
}

func writeHeader(b *strings.Builder, rec model.Record) {
	b.WriteString("## 1. 기업 개요\n\n")
	b.WriteString("| 항목 | 내용 |\n|---|---|\n")
	rows := [][2]string{
		{"기업명", rec.SectionString("Report_Header", "Company_Name")},
		{"대표이사", rec.SectionString("Report_Header", "CEO_Name")},
		{"산업분야", rec.SectionString("Report_Header", "Industry_Classification")},
		{"작성", rec.SectionString("Report_Header", "Analyst")},
		{"투자의견", rec.SectionString("Report_Header", "Investment_Rating")},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", row[0], orNA(row[1]))
	}
	b.WriteString("\n")
}

func writeThesis(b *strings.Builder, rec model.Record) {
	b.WriteString("## 2. 투자 하이라이트\n\n")
	b.WriteString(orNA(rec.String("Investment_Thesis_Summary")) + "\n\n")
}

func writeFinancials(b *strings.Builder, rec model.Record) {
	b.WriteString("## 3. 재무 현황\n\n")

	writeYearMatrix(b, rec, "3.1 요약 손익계산서",
		[]string{"Financial_Status", "Income_Statement_Summary"},
		[][2]string{
			{"Total_Revenue", "매출액"},
			{"Operating_Profit", "영업이익"},
			{"Net_Profit", "당기순이익"},
		})

	writeYearMatrix(b, rec, "3.2 요약 재무상태표",
		[]string{"Financial_Status", "Detailed_Balance_Sheet"},
		[][2]string{
			{"Current_Assets", "유동자산"},
			{"Non_Current_Assets", "비유동자산"},
			{"Total_Assets", "자산총계"},
			{"Current_Liabilities", "유동부채"},
			{"Non_Current_Liabilities", "비유동부채"},
			{"Total_Liabilities", "부채총계"},
			{"Capital_Stock", "자본금"},
			{"Retained_Earnings_Etc", "이익잉여금 등"},
			{"Total_Equity", "자본총계"},
		})

	b.WriteString("### 3.3 재무 분석\n\n")
	b.WriteString(orNA(rec.SectionString("Financial_Status", "Key_Financial_Commentary")) + "\n\n")

	b.WriteString("### 3.4 투자 유치 이력\n\n")
	history := rec.SectionList("Financial_Status", "Investment_History")
	if len(history) == 0 {
		b.WriteString(na + "\n\n")
	} else {
		b.WriteString("| 시기 | 라운드 | 금액 | 투자자 |\n|---|---|---|---|\n")
		for _, item := range history {
			m, _ := item.(map[string]any)
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				orNA(str(m, "Date")), orNA(str(m, "Round")),
				orNA(str(m, "Amount")), orNA(str(m, "Investor")))
		}
		b.WriteString("\n")
	}

	b.WriteString("### 3.5 수익 구조\n\n")
	fmt.Fprintf(b, "- 비즈니스 모델: %s\n",
		orNA(rec.StringAt("Financial_Status", "Future_Revenue_Structure", "Business_Model")))
	fmt.Fprintf(b, "- 향후 Cash Cow: %s\n\n",
		orNA(rec.StringAt("Financial_Status", "Future_Revenue_Structure", "Future_Cash_Cow")))
}

// writeYearMatrix renders an object of parallel year-indexed lists, the
// shape the schema uses for the balance sheet and income statement.
func writeYearMatrix(b *strings.Builder, rec model.Record, title string, path []string, rows [][2]string) {
	b.WriteString("### " + title + "\n\n")

	years := rec.ListAt(append(path, "Years")...)
	if len(years) == 0 {
		b.WriteString(na + "\n\n")
		return
	}

	b.WriteString("| 계정과목 |")
	for _, y := range years {
		fmt.Fprintf(b, " %v |", y)
	}
	b.WriteString("\n|---|")
	b.WriteString(strings.Repeat("---|", len(years)))
	b.WriteString("\n")

	for _, row := range rows {
		values := rec.ListAt(append(path, row[0])...)
		fmt.Fprintf(b, "| %s |", row[1])
		for i := range years {
			if i < len(values) {
				fmt.Fprintf(b, " %s |", formatNumber(values[i]))
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeGrowth(b *strings.Builder, rec model.Record) {
	b.WriteString("## 4. 성장 잠재력\n\n")

	b.WriteString("### 4.1 타겟 시장 분석\n\n")
	fmt.Fprintf(b, "- 타겟 영역: %s\n", orNA(rec.StringAt("Growth_Potential", "Target_Market_Analysis", "Target_Area")))
	fmt.Fprintf(b, "- 시장 특성: %s\n", orNA(rec.StringAt("Growth_Potential", "Target_Market_Analysis", "Market_Characteristics")))
	fmt.Fprintf(b, "- 경쟁 포지셔닝: %s\n\n", orNA(rec.StringAt("Growth_Potential", "Target_Market_Analysis", "Competitive_Positioning")))

	b.WriteString("### 4.2 시장 트렌드\n\n")
	trends := rec.SectionList("Growth_Potential", "Target_Market_Trends")
	if len(trends) == 0 {
		b.WriteString(na + "\n\n")
	} else {
		for _, item := range trends {
			m, _ := item.(map[string]any)
			line := orNA(str(m, "Content"))
			if src := str(m, "Source"); src != "" {
				line += " (출처: " + src + ")"
			}
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("### 4.3 L/O 및 회수 전략\n\n")
	for _, sig := range rec.ListAt("Growth_Potential", "LO_Exit_Strategy", "Verified_Signals") {
		if s, ok := sig.(string); ok && s != "" {
			b.WriteString("- " + s + "\n")
		}
	}
	scenarios := rec.ListAt("Growth_Potential", "LO_Exit_Strategy", "Expected_LO_Scenarios")
	if len(scenarios) > 0 {
		b.WriteString("\n| 구분 | 가능성 | 코멘트 |\n|---|---|---|\n")
		for _, item := range scenarios {
			m, _ := item.(map[string]any)
			fmt.Fprintf(b, "| %s | %s | %s |\n",
				orNA(str(m, "Category")), orNA(str(m, "Probability")), orNA(str(m, "Comment")))
		}
	}
	fmt.Fprintf(b, "\n적정 가치 범위: %s\n\n",
		orNA(rec.StringAt("Growth_Potential", "LO_Exit_Strategy", "Valuation_Range")))

	b.WriteString("### 4.4 수출 및 계약 현황\n\n")
	writeSeries(b, rec, "수출액 추이", "Export_Graph_Data")
	writeSeries(b, rec, "계약 건수 추이", "Contract_Count_Graph_Data")
	writeSeries(b, rec, "매출액 추이", "Sales_Graph_Data")
}

func writeSeries(b *strings.Builder, rec model.Record, title, key string) {
	table := rec.TableAt("Growth_Potential", "Export_and_Contract_Stats", key)
	labels, values := model.SeriesRows(table)
	if len(labels) == 0 {
		fmt.Fprintf(b, "**%s**: %s\n\n", title, na)
		return
	}
	unit := model.DetectUnit(table, "(단위: 억원)")
	fmt.Fprintf(b, "**%s** %s\n\n| 연도 | 값 |\n|---|---|\n", title, unit)
	for i, label := range labels {
		fmt.Fprintf(b, "| %s | %s |\n", label, formatFloat(values[i]))
	}
	b.WriteString("\n")
}

func writeTechnology(b *strings.Builder, rec model.Record) {
	b.WriteString("## 5. 기술력 및 파이프라인\n\n")

	b.WriteString("### 5.1 시장 Pain Point\n\n")
	pains := rec.SectionList("Technology_and_Pipeline", "Market_Pain_Points")
	if len(pains) == 0 {
		b.WriteString(na + "\n")
	}
	for _, p := range pains {
		if s, ok := p.(string); ok && s != "" {
			b.WriteString("- " + s + "\n")
		}
	}

	b.WriteString("\n### 5.2 핵심 기술\n\n")
	fmt.Fprintf(b, "**%s**\n\n",
		orNA(rec.StringAt("Technology_and_Pipeline", "Solution_and_Core_Tech", "Technology_Name")))
	for _, f := range rec.ListAt("Technology_and_Pipeline", "Solution_and_Core_Tech", "Key_Features") {
		if s, ok := f.(string); ok && s != "" {
			b.WriteString("- " + s + "\n")
		}
	}

	b.WriteString("\n### 5.3 파이프라인 개발 현황\n\n")
	fmt.Fprintf(b, "- 핵심 플랫폼: %s\n",
		orNA(rec.StringAt("Technology_and_Pipeline", "Pipeline_Development_Status", "Core_Platform_Details")))
	fmt.Fprintf(b, "- 기술 리스크: %s\n",
		orNA(rec.StringAt("Technology_and_Pipeline", "Pipeline_Development_Status", "Technical_Risk_Analysis")))
	fmt.Fprintf(b, "- 기술성 결론: %s\n\n",
		orNA(rec.StringAt("Technology_and_Pipeline", "Pipeline_Development_Status", "Technical_Conclusion")))
}

func writePersonnel(b *strings.Builder, rec model.Record) {
	b.WriteString("## 6. 핵심 인력\n\n")

	b.WriteString("### 6.1 대표이사\n\n")
	ceo := []string{"Key_Personnel", "CEO_Reference"}
	fmt.Fprintf(b, "- 성명: %s\n", orNA(rec.StringAt(append(ceo, "Name")...)))
	fmt.Fprintf(b, "- 학력 및 경력: %s\n", orNA(rec.StringAt(append(ceo, "Background_and_Education")...)))
	fmt.Fprintf(b, "- 핵심 역량: %s\n", orNA(rec.StringAt(append(ceo, "Core_Competency")...)))
	fmt.Fprintf(b, "- 경영 철학: %s\n", orNA(rec.StringAt(append(ceo, "Management_Philosophy")...)))
	fmt.Fprintf(b, "- VC 관점 평가: %s\n\n", orNA(rec.StringAt(append(ceo, "VC_Perspective_Evaluation")...)))

	b.WriteString("### 6.2 팀 역량\n\n")
	for _, e := range rec.ListAt("Key_Personnel", "Team_Capability", "Key_Executives") {
		if s, ok := e.(string); ok && s != "" {
			b.WriteString("- " + s + "\n")
		}
	}
	fmt.Fprintf(b, "- 조직 강점: %s\n", orNA(rec.StringAt("Key_Personnel", "Team_Capability", "Organization_Strengths")))
	fmt.Fprintf(b, "- 자문단: %s\n\n", orNA(rec.StringAt("Key_Personnel", "Team_Capability", "Advisory_Board")))
}

func writeRisks(b *strings.Builder, rec model.Record) {
	b.WriteString("## 7. 핵심 리스크 및 대응\n\n")
	risks := rec.List("Key_Risks_and_Mitigation")
	if len(risks) == 0 {
		b.WriteString(na + "\n\n")
		return
	}
	b.WriteString("| 리스크 | 대응책 |\n|---|---|\n")
	for _, item := range risks {
		m, _ := item.(map[string]any)
		fmt.Fprintf(b, "| %s | %s |\n",
			orNA(str(m, "Risk_Factor")), orNA(str(m, "Mitigation_Strategy")))
	}
	b.WriteString("\n")
}

func writeValuation(b *strings.Builder, rec model.Record) {
	b.WriteString("### 7.1 밸류에이션 및 판단\n\n")

	table := rec.SectionList("Valuation_and_Judgment", "Valuation_Table")
	if len(table) > 0 {
		b.WriteString("| 라운드 | Pre-Money | Post-Money | 코멘트 |\n|---|---|---|---|\n")
		for _, item := range table {
			m, _ := item.(map[string]any)
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				orNA(str(m, "Round")), orNA(str(m, "Pre_Money")),
				orNA(str(m, "Post_Money")), orNA(str(m, "Comment")))
		}
		b.WriteString("\n")
	}

	logic := []string{"Valuation_and_Judgment", "Valuation_Logic_Detail"}
	peers := make([]string, 0)
	for _, p := range rec.ListAt(append(logic, "Peer_Group")...) {
		if s, ok := p.(string); ok && s != "" {
			peers = append(peers, s)
		}
	}
	fmt.Fprintf(b, "- Peer Group: %s\n", orNA(strings.Join(peers, ", ")))
	fmt.Fprintf(b, "- 적용 지표: %s\n", orNA(rec.StringAt(append(logic, "Applied_Multiple")...)))
	fmt.Fprintf(b, "- 적용 이익: %s\n", orNA(rec.StringAt(append(logic, "Target_Net_Income")...)))
	fmt.Fprintf(b, "- 산출 근거: %s\n\n", orNA(rec.StringAt(append(logic, "Calculation_Rationale")...)))

	axes := []string{"Valuation_and_Judgment", "Three_Axis_Assessment"}
	fmt.Fprintf(b, "- 기술성: %s\n", orNA(rec.StringAt(append(axes, "Technology_Rating")...)))
	fmt.Fprintf(b, "- 성장성: %s\n", orNA(rec.StringAt(append(axes, "Growth_Rating")...)))
	fmt.Fprintf(b, "- 회수 가능성: %s\n", orNA(rec.StringAt(append(axes, "Exit_Rating")...)))
	fmt.Fprintf(b, "- 적합한 투자자 유형: %s\n\n",
		orNA(rec.SectionString("Valuation_and_Judgment", "Suitable_Investor_Type")))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return na
	}
	return s
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func formatNumber(v any) string {
	switch t := v.(type) {
	case float64:
		return formatFloat(t)
	case string:
		if t == "" {
			return "-"
		}
		return t
	default:
		return "-"
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}
