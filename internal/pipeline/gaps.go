package pipeline

import (
	"github.com/lucen-labs/irreview/internal/model"
)

// minFinancialYears is the smallest income-statement span that supports a
// trend judgment. Fewer reported years flags FINANCIAL_YEARS.
const minFinancialYears = 2

// DetectGaps inspects an extracted record and decides which evidence slots
// need public-web enrichment. It is pure: same record, same gaps.
//
// EXPORT_NEWS is always requested since IR decks rarely carry third-party
// confirmation of export and contract claims. Enrichment as a whole is
// disabled when the record has no usable company name, because every search
// query is anchored on it.
func DetectGaps(rec model.Record) model.Gaps {
	missing := []string{}

	if financialYears(rec) < minFinancialYears {
		missing = append(missing, model.SlotFinancialYears)
	}
	if marketAnalysisMissing(rec) {
		missing = append(missing, model.SlotMarketSize)
	}
	if techFeaturesMissing(rec) {
		missing = append(missing, model.SlotTechDetails)
	}
	if salesSeriesStale(rec) {
		missing = append(missing, model.SlotSalesSeries)
	}
	missing = append(missing, model.SlotExportNews)

	return model.Gaps{
		Missing:         missing,
		NeedsEnrichment: rec.CompanyName() != "",
	}
}

// financialYears counts the income-statement year columns.
func financialYears(rec model.Record) int {
	years := rec.ListAt("Financial_Status", "Income_Statement_Summary", "Years")
	n := 0
	for _, y := range years {
		if s, ok := y.(string); ok && s != "" {
			n++
		}
	}
	return n
}

// marketAnalysisMissing is true when the target-market section carries no
// substantive text in any of its fields.
func marketAnalysisMissing(rec model.Record) bool {
	for _, key := range []string{"Target_Area", "Market_Characteristics", "Competitive_Positioning"} {
		v := rec.StringAt("Growth_Potential", "Target_Market_Analysis", key)
		if v != "" && v != "확인 불가" {
			return false
		}
	}
	return true
}

func techFeaturesMissing(rec model.Record) bool {
	features := rec.ListAt("Technology_and_Pipeline", "Solution_and_Core_Tech", "Key_Features")
	return len(features) == 0
}

// salesSeriesStale is true when the sales chart has no data rows at all or
// only zero-valued placeholder rows.
func salesSeriesStale(rec model.Record) bool {
	table := rec.TableAt("Growth_Potential", "Export_and_Contract_Stats", "Sales_Graph_Data")
	_, values := model.SeriesRows(table)
	if len(values) == 0 {
		return true
	}
	return model.SeriesAllZero(table)
}
