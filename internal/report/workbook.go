package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/lucen-labs/irreview/internal/model"
)

// chartSpec maps one schema series onto a workbook sheet and bar chart.
type chartSpec struct {
	key   string
	sheet string
	title string
}

var chartSpecs = []chartSpec{
	{key: "Sales_Graph_Data", sheet: "매출", title: "매출액 추이"},
	{key: "Export_Graph_Data", sheet: "수출", title: "수출액 추이"},
	{key: "Contract_Count_Graph_Data", sheet: "계약", title: "계약 건수 추이"},
}

// Workbook builds the Excel appendix for a refined record: an income
// statement sheet plus one bar chart per non-empty series. Returns nil with
// no error when the record carries no chartable data at all.
func Workbook(rec model.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	wrote, err := writeIncomeSheet(f, rec)
	if err != nil {
		return nil, err
	}

	for _, spec := range chartSpecs {
		table := rec.TableAt("Growth_Potential", "Export_and_Contract_Stats", spec.key)
		labels, values := model.SeriesRows(table)
		if len(labels) == 0 || model.SeriesAllZero(table) {
			continue
		}
		if err := writeChartSheet(f, spec, table, labels, values); err != nil {
			return nil, err
		}
		wrote = true
	}

	if !wrote {
		f.Close()
		return nil, nil
	}

	// Drop the default sheet once real sheets exist.
	f.DeleteSheet("Sheet1")
	return f, nil
}

func writeIncomeSheet(f *excelize.File, rec model.Record) (bool, error) {
	years := rec.ListAt("Financial_Status", "Income_Statement_Summary", "Years")
	if len(years) == 0 {
		return false, nil
	}

	const sheet = "손익계산서"
	if _, err := f.NewSheet(sheet); err != nil {
		return false, eris.Wrap(err, "report: new income sheet")
	}

	header := []any{"계정과목"}
	header = append(header, years...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return false, eris.Wrap(err, "report: income header")
	}

	rows := [][2]string{
		{"Total_Revenue", "매출액"},
		{"Operating_Profit", "영업이익"},
		{"Net_Profit", "당기순이익"},
	}
	for i, row := range rows {
		line := []any{row[1]}
		line = append(line, rec.ListAt("Financial_Status", "Income_Statement_Summary", row[0])...)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return false, eris.Wrapf(err, "report: income row %s", row[1])
		}
	}
	return true, nil
}

func writeChartSheet(f *excelize.File, spec chartSpec, table [][]any, labels []string, values []float64) error {
	if _, err := f.NewSheet(spec.sheet); err != nil {
		return eris.Wrapf(err, "report: new sheet %s", spec.sheet)
	}

	unit := model.DetectUnit(table, "(단위: 억원)")
	header := []any{"연도", "값 " + unit}
	if err := f.SetSheetRow(spec.sheet, "A1", &header); err != nil {
		return eris.Wrapf(err, "report: header %s", spec.sheet)
	}
	for i := range labels {
		row := []any{labels[i], values[i]}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(spec.sheet, cell, &row); err != nil {
			return eris.Wrapf(err, "report: row %d of %s", i, spec.sheet)
		}
	}

	last := len(labels) + 1
	chart := excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", spec.sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", spec.sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", spec.sheet, last),
		}},
		Title: []excelize.RichTextRun{{Text: spec.title + " " + unit}},
	}
	if err := f.AddChart(spec.sheet, "D2", &chart); err != nil {
		return eris.Wrapf(err, "report: chart %s", spec.sheet)
	}
	return nil
}
