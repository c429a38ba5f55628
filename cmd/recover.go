package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/internal/report"
)

const artifactSuffix = "_refined.json"

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Rebuild reports from existing refined artifacts",
	Long:  "Scans the output directory for refined JSON artifacts and re-renders their reports without any model calls. Use it after a crash between artifact write and rendering, or when report files were deleted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyPathFlags(cmd)
		if err := cfg.Validate("recover"); err != nil {
			return err
		}

		rendered, skipped, failed, err := recoverReports(cfg.Paths.OutputDir, cfg.Paths.ReportDir, zap.L())
		if err != nil {
			return err
		}
		fmt.Printf("Recovery finished: %d rendered, %d skipped, %d failed\n",
			rendered, skipped, failed)
		return nil
	},
}

// recoverReports re-renders every non-error artifact under outDir into
// reportDir. Unreadable or corrupt artifacts count as failures without
// stopping the scan; error markers are skipped because a marker means the
// document never produced a report-worthy record.
func recoverReports(outDir, reportDir string, log *zap.Logger) (rendered, skipped, failed int, err error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return 0, 0, 0, eris.Wrapf(err, "recover: read output dir %s", outDir)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactSuffix) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), artifactSuffix)

		raw, rerr := os.ReadFile(filepath.Join(outDir, e.Name()))
		if rerr != nil {
			failed++
			log.Error("artifact unreadable", zap.String("document", name), zap.Error(rerr))
			continue
		}
		var rec model.Record
		if uerr := json.Unmarshal(raw, &rec); uerr != nil {
			failed++
			log.Error("artifact not valid JSON", zap.String("document", name), zap.Error(uerr))
			continue
		}
		if rec.HasError() {
			skipped++
			log.Warn("artifact is an error marker, skipping", zap.String("document", name))
			continue
		}

		written, werr := report.Write(reportDir, name, rec)
		if werr != nil {
			failed++
			log.Error("report rendering failed", zap.String("document", name), zap.Error(werr))
			continue
		}
		rendered++
		log.Info("reports rebuilt", zap.String("document", name), zap.Strings("reports", written))
	}
	return rendered, skipped, failed, nil
}

func init() {
	recoverCmd.Flags().String("output", "", "directory of refined JSON artifacts")
	recoverCmd.Flags().String("reports", "", "directory for rendered reports")

	rootCmd.AddCommand(recoverCmd)
}
