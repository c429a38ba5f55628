package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucen-labs/irreview/internal/config"
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/internal/pipeline"
)

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_deck.pdf", "a_deck.PDF", "notes.txt", "c_deck.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	docs, err := listDocuments(dir)
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "a_deck", docs[0].Name)
	assert.Equal(t, "b_deck", docs[1].Name)
	assert.Equal(t, "c_deck", docs[2].Name)
	assert.Equal(t, filepath.Join(dir, "b_deck.pdf"), docs[1].Path)
}

func TestListDocumentsMissingDir(t *testing.T) {
	_, err := listDocuments(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// testConfig wires the global config to throwaway directories so command
// RunE functions can execute end to end.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = &config.Config{
		Gemini: config.GeminiConfig{
			Key:                  "test-key",
			BaseURL:              "http://127.0.0.1:0",
			Model:                "models/test",
			StandardIntervalSecs: 1,
			GroundedIntervalSecs: 1,
			MaxRetries:           1,
		},
		Pipeline: config.PipelineConfig{
			ExtractTokens:    1024,
			CompactionTokens: 2048,
			MaxSourceChars:   1000,
		},
		Paths: config.PathsConfig{
			InputDir:    t.TempDir(),
			OutputDir:   t.TempDir(),
			ReportDir:   t.TempDir(),
			EvidenceDir: t.TempDir(),
		},
		Store: config.StoreConfig{Path: filepath.Join(t.TempDir(), "runs.db")},
	}
	return cfg
}

func TestBatchRendersSkippedDocuments(t *testing.T) {
	c := testConfig(t)

	// A prior successful artifact but no report files: the state a batch
	// leaves behind when interrupted between artifact write and rendering.
	require.NoError(t, os.WriteFile(filepath.Join(c.Paths.InputDir, "deck.pdf"), []byte("%PDF-1.4"), 0o644))
	rec := model.Record{
		"Report_Header":    map[string]any{"Company_Name": "루센바이오"},
		"Final_Conclusion": "이전 실행에서 완성된 결론",
	}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(c.Paths.OutputDir, "deck_refined.json"), raw, 0o644))

	batchCmd.SetContext(context.Background())
	require.NoError(t, batchCmd.RunE(batchCmd, nil))

	// The skip path issues no model calls yet still produces the reports.
	assert.FileExists(t, filepath.Join(c.Paths.ReportDir, "deck_report.md"))
	assert.FileExists(t, filepath.Join(c.Paths.ReportDir, "deck_report.html"))
}

func TestFailureTag(t *testing.T) {
	se := &pipeline.StageError{Stage: "extract", Tag: pipeline.TagDecodeFailed}
	assert.Equal(t, pipeline.TagDecodeFailed, failureTag(eris.Wrap(se, "processing")))
	assert.Equal(t, "failed", failureTag(eris.New("unrelated")))
}
