package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucen-labs/irreview/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "acme_ir.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme_ir.pdf", got.Document)
	assert.Equal(t, model.RunStatusQueued, got.Status)
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestUpdateRunStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "acme_ir.pdf")
	require.NoError(t, err)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusExtracting))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusExtracting, got.Status)
}

func TestUpdateRunStatusNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateRunStatus(context.Background(), "nonexistent", model.RunStatusComplete)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFinishRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "acme_ir.pdf")
	require.NoError(t, err)

	usage := model.TokenUsage{InputTokens: 12000, OutputTokens: 4000}
	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusComplete, "", usage, 73000))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Empty(t, got.ErrorTag)
	assert.Equal(t, usage, got.Usage)
	assert.Equal(t, int64(73000), got.Duration)
}

func TestFinishRunWithErrorTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "bad_ir.pdf")
	require.NoError(t, err)

	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusFailed, "decode_failed", model.TokenUsage{}, 5000))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "decode_failed", got.ErrorTag)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1, err := s.CreateRun(ctx, "a.pdf")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "b.pdf")
	require.NoError(t, err)

	require.NoError(t, s.UpdateRunStatus(ctx, r1.ID, model.RunStatusFailed))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "a.pdf", failed[0].Document)

	byDoc, err := s.ListRuns(ctx, RunFilter{Document: "b.pdf"})
	require.NoError(t, err)
	require.Len(t, byDoc, 1)
	assert.Equal(t, "b.pdf", byDoc[0].Document)
}

func TestListRunsLimitOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, doc := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		_, err := s.CreateRun(ctx, doc)
		require.NoError(t, err)
	}

	page, err := s.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := s.ListRuns(ctx, RunFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
