package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "verdicts.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RunLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.StartRun(ctx, "results.yaml")
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	verdicts := []Verdict{
		{RunID: runID, Question: "q1", Kind: "literal", Valid: true, Correct: true, Duration: 150 * time.Microsecond},
		{RunID: runID, Question: "q2", Kind: "goal", Valid: true, Correct: false, Disagreement: true},
		{RunID: runID, Question: "q3", Kind: "goal", Error: "goal: no fixpoint in simplify: ?a"},
	}
	for _, v := range verdicts {
		require.NoError(t, s.RecordVerdict(ctx, v))
	}

	require.NoError(t, s.FinishRun(ctx, runID, Totals{Total: 3, Valid: 2, Correct: 1, Errors: 1, Disagreements: 1}))

	run, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "results.yaml", run.Source)
	assert.True(t, run.FinishedAt.Valid)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 1, run.Correct)
	assert.Equal(t, 1, run.Disagreements)

	got, err := s.Verdicts(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "q1", got[0].Question)
	assert.True(t, got[0].Correct)
	assert.Equal(t, 150*time.Microsecond, got[0].Duration)
	assert.True(t, got[1].Disagreement)
	assert.Empty(t, got[1].Error)
	assert.Equal(t, "goal: no fixpoint in simplify: ?a", got[2].Error)
}

func TestStore_FinishUnknownRun(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	err := s.FinishRun(context.Background(), "missing", Totals{})
	assert.Error(t, err)
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "verdicts.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	runID, err := s.StartRun(ctx, "a.yaml")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	run, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "a.yaml", run.Source)
	assert.False(t, run.FinishedAt.Valid)
}
