// Package pipeline turns one IR document into a refined report record:
// extraction, gap detection, targeted enrichment, and a deterministic
// merge, with a JSON artifact written after every terminal outcome.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lucen-labs/irreview/internal/evidence"
	"github.com/lucen-labs/irreview/internal/extract"
	"github.com/lucen-labs/irreview/internal/model"
	"github.com/lucen-labs/irreview/pkg/gemini"
)

// Generator is the slice of the retrying client the pipeline uses. Tests
// substitute a scripted fake.
type Generator interface {
	Generate(ctx context.Context, call gemini.Call, req gemini.GenerateRequest) (*gemini.GenerateResponse, error)
}

// SourceLoader turns a document path into extraction input. The default
// loader reads the PDF's text layer; tests inject canned text.
type SourceLoader func(path string) (Source, error)

// Pipeline processes documents one at a time. Safe for reuse across a
// batch; not safe for concurrent use because provider rate limits make
// parallel documents pointless anyway.
type Pipeline struct {
	client Generator
	cache  *evidence.Cache
	log    *zap.Logger
	loader SourceLoader
	outDir string

	extractTokens    int
	compactionTokens int
	maxSourceChars   int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSourceLoader replaces the PDF text loader.
func WithSourceLoader(fn SourceLoader) Option {
	return func(p *Pipeline) { p.loader = fn }
}

// WithTokenBudgets overrides the extraction and compaction-retry output
// budgets.
func WithTokenBudgets(extract, compaction int) Option {
	return func(p *Pipeline) {
		if extract > 0 {
			p.extractTokens = extract
		}
		if compaction > 0 {
			p.compactionTokens = compaction
		}
	}
}

// WithSourceLimit bounds the extracted text passed into prompts, in runes.
func WithSourceLimit(chars int) Option {
	return func(p *Pipeline) {
		if chars > 0 {
			p.maxSourceChars = chars
		}
	}
}

// New builds a Pipeline writing artifacts under outDir.
func New(client Generator, cache *evidence.Cache, outDir string, log *zap.Logger, opts ...Option) (*Pipeline, error) {
	if client == nil {
		return nil, eris.New("pipeline: nil client")
	}
	if cache == nil {
		return nil, eris.New("pipeline: nil evidence cache")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "pipeline: create output dir")
	}

	p := &Pipeline{
		client:           client,
		cache:            cache,
		log:              log,
		loader:           pdfLoader,
		outDir:           outDir,
		extractTokens:    defaultExtractTokens,
		compactionTokens: defaultCompactionTokens,
		maxSourceChars:   defaultMaxSourceChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func pdfLoader(path string) (Source, error) {
	text, err := extract.Text(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Text: text}, nil
}

// ArtifactPath returns where the refined record for a document lands.
func (p *Pipeline) ArtifactPath(doc model.Document) string {
	return filepath.Join(p.outDir, doc.Name+"_refined.json")
}

// Process runs the full pipeline for one document.
//
// A prior successful artifact short-circuits the run so interrupted batches
// resume where they stopped; an artifact carrying an error marker is
// reprocessed. Terminal failures still produce an artifact, a Record whose
// "error" key names the failure tag, so the batch directory always accounts
// for every input.
func (p *Pipeline) Process(ctx context.Context, doc model.Document) (model.DocumentResult, error) {
	start := time.Now()
	res := model.DocumentResult{Document: doc}
	log := p.log.With(zap.String("document", doc.Name))

	if rec, ok := p.priorArtifact(doc); ok {
		log.Info("artifact exists, skipping")
		res.Record = rec
		res.Skipped = true
		res.Duration = time.Since(start).Milliseconds()
		return res, nil
	}

	src, err := p.loader(doc.Path)
	if err != nil {
		return p.fail(doc, res, start, stageErr(StageExtract, TagTransportFailed, "load source", err))
	}

	rec, err := p.runExtraction(ctx, src, &res)
	if err != nil {
		return p.fail(doc, res, start, err)
	}

	gaps := DetectGaps(rec)
	log.Info("gaps detected",
		zap.Strings("missing", gaps.Missing),
		zap.Bool("needs_enrichment", gaps.NeedsEnrichment))

	if gaps.NeedsEnrichment {
		ev, called, err := p.enrich(ctx, rec, gaps)
		if called {
			res.TransportCalls++
		}
		switch {
		case err != nil:
			// Enrichment is best-effort: the extracted record stands on
			// its own, so failures downgrade to warnings.
			log.Warn("enrichment failed", zap.Error(err))
			res.Warnings = append(res.Warnings, fmt.Sprintf("enrichment failed: %v", err))
		case ev.Empty():
			if ev.Note != "" {
				res.Warnings = append(res.Warnings, "enrichment empty: "+ev.Note)
			}
		default:
			rec = Merge(rec, ev.Patch)
		}
	} else {
		res.Warnings = append(res.Warnings, "enrichment disabled: no company name extracted")
	}

	if err := p.writeArtifact(doc, rec); err != nil {
		return p.fail(doc, res, start, err)
	}

	res.Record = rec
	res.Duration = time.Since(start).Milliseconds()
	return res, nil
}

// runExtraction performs the primary call and at most one compaction retry
// with a doubled output budget.
func (p *Pipeline) runExtraction(ctx context.Context, src Source, res *model.DocumentResult) (model.Record, error) {
	out, err := p.extract(ctx, src)
	res.TransportCalls++
	res.TokenUsage.Add(out.usage)
	if err != nil {
		return nil, err
	}
	if !out.truncated {
		return out.record, nil
	}

	out, err = p.compactRetry(ctx, src)
	res.TransportCalls++
	res.TokenUsage.Add(out.usage)
	if err != nil {
		return nil, err
	}
	if out.truncated {
		return nil, stageErr(StageCompactRetry, TagTruncatedAfterRetry,
			"output truncated even with compaction rules and doubled budget", nil)
	}
	return out.record, nil
}

// priorArtifact loads an existing refined record. Corrupt files and error
// markers both read as "no artifact" so the document is reprocessed.
func (p *Pipeline) priorArtifact(doc model.Document) (model.Record, bool) {
	raw, err := os.ReadFile(p.ArtifactPath(doc))
	if err != nil {
		return nil, false
	}
	var rec model.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	if rec.HasError() {
		return nil, false
	}
	return rec, true
}

func (p *Pipeline) writeArtifact(doc model.Document, rec model.Record) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode artifact")
	}
	if err := os.WriteFile(p.ArtifactPath(doc), raw, 0o644); err != nil {
		return eris.Wrap(err, "write artifact")
	}
	return nil
}

// fail writes an error-marker artifact and returns the terminal error. The
// marker keeps failed documents out of reports while letting a later run
// pick them up again.
func (p *Pipeline) fail(doc model.Document, res model.DocumentResult, start time.Time, err error) (model.DocumentResult, error) {
	tag := "failed"
	var se *StageError
	if errors.As(err, &se) {
		tag = se.Tag
	}
	marker := model.ErrorRecord(tag, err.Error())
	if werr := p.writeArtifact(doc, marker); werr != nil {
		p.log.Error("failed to write error marker",
			zap.String("document", doc.Name), zap.Error(werr))
	}
	res.Record = marker
	res.Duration = time.Since(start).Milliseconds()
	return res, err
}
