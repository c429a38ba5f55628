package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lucen-labs/irreview/internal/evidence"
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/internal/pipeline"
	"github.com/lucen-labs/irreview/internal/report"
	"github.com/lucen-labs/irreview/pkg/gemini"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process every IR PDF in the input directory",
	Long:  "Runs extraction, gap detection, enrichment, and merge for each PDF, writes refined JSON artifacts, and renders reports. Documents with a prior successful artifact skip the model calls and go straight to rendering, so an interrupted batch resumes where it stopped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L()

		applyPathFlags(cmd)
		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		docs, err := listDocuments(cfg.Paths.InputDir)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "No PDF files found in "+cfg.Paths.InputDir)
			return nil
		}

		base := gemini.NewClient(cfg.Gemini.Key,
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
			gemini.WithModel(cfg.Gemini.Model),
		)
		client := gemini.NewRetryClient(base,
			gemini.WithLimiters(
				rate.NewLimiter(rate.Every(cfg.Gemini.StandardInterval()), 1),
				rate.NewLimiter(rate.Every(cfg.Gemini.GroundedInterval()), 1),
			),
			gemini.WithMaxRetries(cfg.Gemini.MaxRetries),
		)

		cache, err := evidence.NewCache(cfg.Paths.EvidenceDir)
		if err != nil {
			return err
		}

		pipe, err := pipeline.New(client, cache, cfg.Paths.OutputDir, log,
			pipeline.WithTokenBudgets(cfg.Pipeline.ExtractTokens, cfg.Pipeline.CompactionTokens),
			pipeline.WithSourceLimit(cfg.Pipeline.MaxSourceChars))
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		var complete, skipped, failed int
		for _, doc := range docs {
			run, err := st.CreateRun(ctx, doc.Name)
			if err != nil {
				return eris.Wrap(err, "batch: create run")
			}
			_ = st.UpdateRunStatus(ctx, run.ID, model.RunStatusExtracting)

			res, perr := pipe.Process(ctx, doc)
			for _, w := range res.Warnings {
				log.Warn("document warning", zap.String("document", doc.Name), zap.String("warning", w))
			}

			switch {
			case perr != nil:
				// One bad deck must not sink the batch.
				failed++
				log.Error("document failed", zap.String("document", doc.Name), zap.Error(perr))
				_ = st.FinishRun(ctx, run.ID, model.RunStatusFailed, failureTag(perr), res.TokenUsage, res.Duration)
				if ctx.Err() != nil {
					return ctx.Err()
				}
			default:
				// Skipped documents still render: a batch interrupted between
				// artifact write and rendering would otherwise never produce
				// its reports. Re-writing from the same record is idempotent.
				_ = st.UpdateRunStatus(ctx, run.ID, model.RunStatusRendering)
				written, rerr := report.Write(cfg.Paths.ReportDir, doc.Name, res.Record)
				if rerr != nil {
					failed++
					log.Error("report rendering failed", zap.String("document", doc.Name), zap.Error(rerr))
					_ = st.FinishRun(ctx, run.ID, model.RunStatusFailed, "render_failed", res.TokenUsage, res.Duration)
					continue
				}
				status := model.RunStatusComplete
				if res.Skipped {
					status = model.RunStatusSkipped
					skipped++
				} else {
					complete++
				}
				log.Info("document complete",
					zap.String("document", doc.Name),
					zap.Bool("skipped", res.Skipped),
					zap.Int("transport_calls", res.TransportCalls),
					zap.Strings("reports", written))
				_ = st.FinishRun(ctx, run.ID, status, "", res.TokenUsage, res.Duration)
			}
		}

		fmt.Printf("Batch finished: %d complete, %d skipped, %d failed (of %d)\n",
			complete, skipped, failed, len(docs))
		return nil
	},
}

func applyPathFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("input"); v != "" {
		cfg.Paths.InputDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Paths.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("reports"); v != "" {
		cfg.Paths.ReportDir = v
	}
	if v, _ := cmd.Flags().GetString("evidence"); v != "" {
		cfg.Paths.EvidenceDir = v
	}
}

// listDocuments returns the batch inputs in name order so runs are
// reproducible.
func listDocuments(dir string) ([]model.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read input dir %s", dir)
	}

	var docs []model.Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		docs = append(docs, model.Document{
			Path: filepath.Join(dir, e.Name()),
			Name: name,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func failureTag(err error) string {
	var se *pipeline.StageError
	if errors.As(err, &se) {
		return se.Tag
	}
	return "failed"
}

func init() {
	batchCmd.Flags().String("input", "", "directory of IR PDFs (default from config)")
	batchCmd.Flags().String("output", "", "directory for refined JSON artifacts")
	batchCmd.Flags().String("reports", "", "directory for rendered reports")
	batchCmd.Flags().String("evidence", "", "directory for the evidence cache")

	rootCmd.AddCommand(batchCmd)
}
