package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucen-labs/irreview/internal/model"
)

// fullRecord covers every slot so DetectGaps reports only the always-on
// export check.
func fullRecord() model.Record {
	return model.Record{
		"Report_Header": map[string]any{
			"Company_Name":            "루센바이오",
			"Industry_Classification": "바이오",
		},
		"Financial_Status": map[string]any{
			"Income_Statement_Summary": map[string]any{
				"Years":         []any{"2022", "2023", "2024"},
				"Total_Revenue": []any{float64(10), float64(25), float64(40)},
			},
		},
		"Growth_Potential": map[string]any{
			"Target_Market_Analysis": map[string]any{
				"Target_Area":            "중소형 바이오텍 대상 CRO 시장",
				"Market_Characteristics": "연 12% 성장",
			},
			"Export_and_Contract_Stats": map[string]any{
				"Sales_Graph_Data": []any{
					[]any{"연도", "매출액"},
					[]any{"2023", float64(25)},
					[]any{"2024", float64(40)},
				},
			},
		},
		"Technology_and_Pipeline": map[string]any{
			"Solution_and_Core_Tech": map[string]any{
				"Key_Features": []any{"오가노이드 기반 독성 평가", "특허 3건"},
			},
		},
	}
}

func TestDetectGapsCompleteRecord(t *testing.T) {
	gaps := DetectGaps(fullRecord())

	assert.Equal(t, []string{model.SlotExportNews}, gaps.Missing)
	assert.True(t, gaps.NeedsEnrichment)
}

func TestDetectGapsFewFinancialYears(t *testing.T) {
	rec := fullRecord()
	rec["Financial_Status"].(map[string]any)["Income_Statement_Summary"].(map[string]any)["Years"] = []any{"2024"}

	gaps := DetectGaps(rec)
	assert.Contains(t, gaps.Missing, model.SlotFinancialYears)
}

func TestDetectGapsEmptyMarketAnalysis(t *testing.T) {
	rec := fullRecord()
	rec["Growth_Potential"].(map[string]any)["Target_Market_Analysis"] = map[string]any{
		"Target_Area": "확인 불가",
	}

	gaps := DetectGaps(rec)
	assert.Contains(t, gaps.Missing, model.SlotMarketSize)
}

func TestDetectGapsNoKeyFeatures(t *testing.T) {
	rec := fullRecord()
	delete(rec["Technology_and_Pipeline"].(map[string]any), "Solution_and_Core_Tech")

	gaps := DetectGaps(rec)
	assert.Contains(t, gaps.Missing, model.SlotTechDetails)
}

func TestDetectGapsZeroSales(t *testing.T) {
	rec := fullRecord()
	rec["Growth_Potential"].(map[string]any)["Export_and_Contract_Stats"].(map[string]any)["Sales_Graph_Data"] = []any{
		[]any{"연도", "매출액"},
		[]any{"2023", "0"},
		[]any{"2024", float64(0)},
	}

	gaps := DetectGaps(rec)
	assert.Contains(t, gaps.Missing, model.SlotSalesSeries)
}

func TestDetectGapsMissingSalesTable(t *testing.T) {
	rec := fullRecord()
	delete(rec["Growth_Potential"].(map[string]any), "Export_and_Contract_Stats")

	gaps := DetectGaps(rec)
	assert.Contains(t, gaps.Missing, model.SlotSalesSeries)
}

func TestDetectGapsNoCompanyName(t *testing.T) {
	rec := fullRecord()
	delete(rec["Report_Header"].(map[string]any), "Company_Name")

	gaps := DetectGaps(rec)
	assert.False(t, gaps.NeedsEnrichment)
	// Slots are still reported for the artifact even though retrieval is off.
	assert.Contains(t, gaps.Missing, model.SlotExportNews)
}

func TestDetectGapsEmptyRecord(t *testing.T) {
	gaps := DetectGaps(model.Record{})

	assert.ElementsMatch(t, []string{
		model.SlotFinancialYears,
		model.SlotMarketSize,
		model.SlotTechDetails,
		model.SlotSalesSeries,
		model.SlotExportNews,
	}, gaps.Missing)
	assert.False(t, gaps.NeedsEnrichment)
}

func TestDetectGapsPure(t *testing.T) {
	rec := fullRecord()
	first := DetectGaps(rec)
	second := DetectGaps(rec)
	assert.Equal(t, first, second)
}
