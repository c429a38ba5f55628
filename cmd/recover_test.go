package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucen-labs/irreview/internal/model"
)

func writeArtifact(t *testing.T, dir, name string, rec model.Record) {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+"_refined.json"), raw, 0o644))
}

func TestRecoverReports(t *testing.T) {
	outDir := t.TempDir()
	reportDir := t.TempDir()

	writeArtifact(t, outDir, "acme", model.Record{
		"Report_Header":    map[string]any{"Company_Name": "루센바이오"},
		"Final_Conclusion": "복구 대상 결론",
	})
	writeArtifact(t, outDir, "broken", model.ErrorRecord("decode_failed", "이전 실행 실패"))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "garbage_refined.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "notes.txt"), []byte("ignore"), 0o644))

	rendered, skipped, failed, err := recoverReports(outDir, reportDir, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, rendered)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	assert.FileExists(t, filepath.Join(reportDir, "acme_report.md"))
	assert.FileExists(t, filepath.Join(reportDir, "acme_report.html"))
	assert.NoFileExists(t, filepath.Join(reportDir, "broken_report.md"))
}

func TestRecoverReportsMissingDir(t *testing.T) {
	_, _, _, err := recoverReports(filepath.Join(t.TempDir(), "absent"), t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}

func TestRecoverCommandEndToEnd(t *testing.T) {
	c := testConfig(t)

	writeArtifact(t, c.Paths.OutputDir, "deck", model.Record{
		"Report_Header":    map[string]any{"Company_Name": "루센바이오"},
		"Final_Conclusion": "복구된 결론",
	})

	require.NoError(t, recoverCmd.RunE(recoverCmd, nil))
	assert.FileExists(t, filepath.Join(c.Paths.ReportDir, "deck_report.md"))
}
