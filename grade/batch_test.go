package grade

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnoswap-labs/grader/internal/cache"
	"github.com/gnoswap-labs/grader/internal/goal"
	"github.com/gnoswap-labs/grader/internal/literal"
	"github.com/gnoswap-labs/grader/internal/metrics"
	"github.com/gnoswap-labs/grader/internal/store"
)

func ptr(s string) *string { return &s }

func sampleQuestions() []Question {
	return []Question{
		{Name: "number", Solution: "3.14", Answer: ptr("3.141")},
		{Name: "list", Solution: "[1, 2]", Answer: ptr("[2, 1]")},
		{Name: "malformed", Solution: "<a, b>", Answer: ptr("<a, b")},
		{Name: "unanswered", Solution: "{a: 1}"},
		{Name: "goal", Kind: KindGoal, Solution: "(and ?a ?b)", Answer: ptr("(and ?b ?a)")},
		{Name: "broken solution", Kind: KindGoal, Solution: "(and ?a", Answer: ptr("?a")},
	}
}

func TestGrader_GradeAll(t *testing.T) {
	t.Parallel()

	g := NewGrader(WithWorkers(2), WithLogger(zap.NewNop()))
	results, summary, err := g.GradeAll(context.Background(), sampleQuestions())
	require.NoError(t, err)
	require.Len(t, results, 6)

	want := []struct {
		name         string
		verdict      Verdict
		solutionType string
		err          bool
	}{
		{"number", Verdict{Valid: true, Correct: true}, "number", false},
		{"list", Verdict{Valid: true, Correct: false}, "list", false},
		{"malformed", Verdict{}, "set", false},
		{"unanswered", Verdict{}, "dict", false},
		{"goal", Verdict{Valid: true, Correct: true}, "", false},
		{"broken solution", Verdict{}, "", true},
	}
	for i, w := range want {
		r := results[i]
		assert.Equal(t, w.name, r.Question)
		assert.Equal(t, w.verdict, r.Verdict, w.name)
		assert.Equal(t, w.solutionType, r.SolutionType, w.name)
		if w.err {
			assert.ErrorIs(t, r.Err, ErrInvalidSolution, w.name)
		} else {
			assert.NoError(t, r.Err, w.name)
		}
	}

	assert.NoError(t, results[0].AnswerErr)
	assert.ErrorIs(t, results[2].AnswerErr, literal.ErrParse)
	assert.Equal(t, "<a, b", results[2].Answer)

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 3, summary.Valid)
	assert.Equal(t, 2, summary.Correct)
	assert.Equal(t, 1, summary.Errors)
	assert.Zero(t, summary.CacheHits)
	assert.Empty(t, summary.RunID)
}

func TestGrader_DefaultKind(t *testing.T) {
	t.Parallel()

	g := NewGrader(WithDefaultKind(KindGoal))
	r := g.Evaluate(context.Background(), Question{Name: "q", Solution: "(not (not ?a))", Answer: ptr("?a")})
	require.NoError(t, r.Err)
	assert.Equal(t, KindGoal, r.Kind)
	assert.True(t, r.Correct)

	r = g.Evaluate(context.Background(), Question{Name: "q", Kind: "sql", Solution: "1", Answer: ptr("1")})
	assert.ErrorIs(t, r.Err, ErrUnknownKind)
}

func TestGrader_IsolatesShapeErrors(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	g := NewGrader(
		WithNormalizerOptions(goal.Options{MaxIterations: 1}),
		WithMetrics(m),
	)
	questions := []Question{
		{Name: "needs rewriting", Kind: KindGoal, Solution: "?a", Answer: ptr("(and ?a (and ?b))")},
		{Name: "trivial", Kind: KindGoal, Solution: "?a", Answer: ptr("?a")},
	}

	results, summary, err := g.GradeAll(context.Background(), questions)
	require.NoError(t, err)

	assert.ErrorIs(t, results[0].Err, goal.ErrUnhandledShape)
	require.NoError(t, results[1].Err)
	assert.True(t, results[1].Correct)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Correct)

	count, err := testutil.GatherAndCount(m.Gatherer(), "grader_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGrader_Cache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := cache.NewCache(dir)
	require.NoError(t, err)

	questions := sampleQuestions()
	g := NewGrader(WithCache(c))
	first, summary, err := g.GradeAll(context.Background(), questions)
	require.NoError(t, err)
	assert.Zero(t, summary.CacheHits)

	// reopen so the verdicts come from disk
	c, err = cache.NewCache(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	g = NewGrader(WithCache(c))
	second, summary, err := g.GradeAll(context.Background(), questions)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CacheHits)

	for i := range first {
		assert.Equal(t, first[i].Verdict, second[i].Verdict, first[i].Question)
		assert.Equal(t, first[i].SolutionType, second[i].SolutionType, first[i].Question)
	}

	// other options are other keys
	g = NewGrader(WithCache(c), WithNormalizerOptions(goal.Options{MaxIterations: 32}))
	_, summary, err = g.GradeAll(context.Background(), questions)
	require.NoError(t, err)
	assert.Zero(t, summary.CacheHits)
}

func TestGrader_CrossCheck(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	m := metrics.New()
	g := NewGrader(WithCrossCheck(true), WithLogger(zap.New(core)), WithMetrics(m))

	results, summary, err := g.GradeAll(context.Background(), []Question{
		{Name: "idempotence", Kind: KindGoal, Solution: "?a", Answer: ptr("(or ?a ?a)")},
		{Name: "agree", Kind: KindGoal, Solution: "(or ?a ?b)", Answer: ptr("(or ?b ?a)")},
	})
	require.NoError(t, err)

	assert.False(t, results[0].Correct)
	assert.True(t, results[0].Disagreement)
	assert.True(t, results[1].Correct)
	assert.False(t, results[1].Disagreement)
	assert.Equal(t, 1, summary.Disagreements)

	entries := logs.FilterMessage("cross-check disagreement").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "idempotence", entries[0].ContextMap()["question"])

	count, err := testutil.GatherAndCount(m.Gatherer(), "grader_cross_check_disagreements_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGrader_Store(t *testing.T) {
	t.Parallel()

	s, err := store.Open(filepath.Join(t.TempDir(), "verdicts.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	g := NewGrader(WithStore(s))
	_, summary, err := g.GradeAll(ctx, sampleQuestions())
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	run, err := s.GetRun(ctx, summary.RunID)
	require.NoError(t, err)
	assert.True(t, run.FinishedAt.Valid)
	assert.Equal(t, 6, run.Total)
	assert.Equal(t, 2, run.Correct)
	assert.Equal(t, 1, run.Errors)

	verdicts, err := s.Verdicts(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Len(t, verdicts, 6)
}

func TestGrader_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGrader(WithWorkers(1))
	results, summary, err := g.GradeAll(ctx, sampleQuestions())
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 6)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled, r.Question)
	}
	assert.Equal(t, 6, summary.Errors)
}

func TestGrader_Progress(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	g := NewGrader(WithProgress(&buf))
	_, _, err := g.GradeAll(context.Background(), sampleQuestions())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "6/6")
}

func TestGrader_GradeFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "results.yaml", sampleResults)
	g := NewGrader()

	_, summary, err := g.GradeFile(context.Background(), path, true)
	require.NoError(t, err)
	assert.Equal(t, path, summary.Source)
	assert.Equal(t, 3, summary.Total)

	untouched, err := LoadResults(path)
	require.NoError(t, err)
	assert.Nil(t, untouched.Questions[0].Valid)

	_, summary, err = g.GradeFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Correct)

	graded, err := LoadResults(path)
	require.NoError(t, err)
	for _, q := range graded.Questions {
		require.NotNil(t, q.Valid, q.Name)
		require.NotNil(t, q.Correct, q.Name)
	}
	assert.True(t, *graded.Questions[0].Correct)
	assert.False(t, *graded.Questions[1].Valid)
	assert.True(t, *graded.Questions[2].Correct)
	assert.Equal(t, "point", graded.Questions[2].SolutionType)
	assert.Equal(t, "small", graded.Questions[0].Extra["model"])
}

func TestNewGraderFromConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.DefaultKind = KindGoal
	config.Workers = 3
	config.MaxSimplifyIterations = 5
	config.CrossCheck = true

	g := NewGraderFromConfig(config)
	assert.Equal(t, KindGoal, g.defaultKind)
	assert.Equal(t, 3, g.workers)
	assert.True(t, g.crossCheck)
	assert.Equal(t, 5, g.normalizer.Options().MaxIterations)
}
