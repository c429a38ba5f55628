package report

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/lucen-labs/irreview/internal/model"
)

// Write renders every artifact for one refined record into dir, named after
// the document stem. Returns the paths written. Records carrying an error
// marker are skipped with no output.
func Write(dir, name string, rec model.Record) ([]string, error) {
	if rec.HasError() {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "report: create dir")
	}

	var written []string

	md := Markdown(rec)
	mdPath := filepath.Join(dir, name+"_report.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, eris.Wrap(err, "report: write markdown")
	}
	written = append(written, mdPath)

	page, err := HTML(md)
	if err != nil {
		return written, err
	}
	htmlPath := filepath.Join(dir, name+"_report.html")
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return written, eris.Wrap(err, "report: write html")
	}
	written = append(written, htmlPath)

	wb, err := Workbook(rec)
	if err != nil {
		return written, err
	}
	if wb != nil {
		defer wb.Close()
		xlsxPath := filepath.Join(dir, name+"_charts.xlsx")
		if err := wb.SaveAs(xlsxPath); err != nil {
			return written, eris.Wrap(err, "report: write workbook")
		}
		written = append(written, xlsxPath)
	}

	return written, nil
}
