package grade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/grader/internal/cache"
	"github.com/gnoswap-labs/grader/internal/goal"
	"github.com/gnoswap-labs/grader/internal/literal"
	"github.com/gnoswap-labs/grader/internal/metrics"
	"github.com/gnoswap-labs/grader/internal/store"
)

// Result is the outcome of grading one question.
type Result struct {
	Question string
	Kind     Kind
	Answer   string
	Solution string
	Verdict
	SolutionType string
	// AnswerErr says why an invalid answer does not parse.
	AnswerErr error
	// Disagreement is set when the SAT cross-check disputes a goal verdict.
	Disagreement bool
	Cached       bool
	Duration     time.Duration
	Err          error
}

// Summary aggregates the results of a batch.
type Summary struct {
	Source        string        `json:"source,omitempty"`
	RunID         string        `json:"run_id,omitempty"`
	Total         int           `json:"total"`
	Valid         int           `json:"valid"`
	Correct       int           `json:"correct"`
	Errors        int           `json:"errors"`
	Disagreements int           `json:"disagreements"`
	CacheHits     int           `json:"cache_hits"`
	Duration      time.Duration `json:"duration_ns"`
}

func (s *Summary) add(r Result) {
	s.Total++
	if r.Err != nil {
		s.Errors++
		return
	}
	if r.Valid {
		s.Valid++
	}
	if r.Correct {
		s.Correct++
	}
	if r.Disagreement {
		s.Disagreements++
	}
	if r.Cached {
		s.CacheHits++
	}
}

// Grader grades questions. A zero set of options grades with default
// normalizer options on runtime.NumCPU() workers and nothing else attached.
type Grader struct {
	normalizer  *goal.Normalizer
	defaultKind Kind
	workers     int
	crossCheck  bool

	cache    *cache.Cache
	store    *store.Store
	metrics  *metrics.Metrics
	logger   *zap.Logger
	progress io.Writer
}

// Option configures a Grader.
type Option func(*Grader)

// WithNormalizerOptions sets the goal rewrite options.
func WithNormalizerOptions(opts goal.Options) Option {
	return func(g *Grader) { g.normalizer = goal.NewNormalizer(opts) }
}

// WithDefaultKind sets the kind of questions that do not name one.
func WithDefaultKind(k Kind) Option {
	return func(g *Grader) { g.defaultKind = k }
}

// WithWorkers bounds the number of questions graded at once. Values below
// one mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(g *Grader) { g.workers = n }
}

// WithCrossCheck enables the SAT cross-check of goal verdicts.
func WithCrossCheck(enabled bool) Option {
	return func(g *Grader) { g.crossCheck = enabled }
}

// WithCache attaches a verdict cache.
func WithCache(c *cache.Cache) Option {
	return func(g *Grader) { g.cache = c }
}

// WithStore records every batch as a run in s.
func WithStore(s *store.Store) Option {
	return func(g *Grader) { g.store = s }
}

// WithMetrics counts verdicts, errors and cache lookups in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Grader) { g.metrics = m }
}

// WithLogger sets the logger. nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(g *Grader) { g.logger = l }
}

// WithProgress draws a progress bar on w during batches.
func WithProgress(w io.Writer) Option {
	return func(g *Grader) { g.progress = w }
}

// NewGrader creates a Grader.
func NewGrader(opts ...Option) *Grader {
	g := &Grader{
		defaultKind: KindLiteral,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.normalizer == nil {
		g.normalizer = goal.NewNormalizer(goal.DefaultOptions())
	}
	if g.workers < 1 {
		g.workers = runtime.NumCPU()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// NewGraderFromConfig creates a Grader from config. Cache, store and
// metrics are attached through opts since their lifetime belongs to the
// caller.
func NewGraderFromConfig(config Config, opts ...Option) *Grader {
	base := []Option{
		WithDefaultKind(config.DefaultKind),
		WithWorkers(config.Workers),
		WithCrossCheck(config.CrossCheck),
		WithNormalizerOptions(goal.Options{MaxIterations: config.MaxSimplifyIterations}),
	}
	return NewGrader(append(base, opts...)...)
}

// Evaluate grades a single question. Internal errors end up in Result.Err.
func (g *Grader) Evaluate(ctx context.Context, q Question) Result {
	start := time.Now()
	r := g.evaluate(ctx, q)
	r.Duration = time.Since(start)

	kind := string(r.Kind)
	if r.Err != nil {
		g.logger.Error("grading failed",
			zap.String("question", q.Name),
			zap.String("kind", kind),
			zap.Error(r.Err))
		if g.metrics != nil {
			g.metrics.RecordError(kind, errorType(r.Err))
		}
		return r
	}

	if !r.Valid {
		g.logger.Debug("invalid answer", zap.String("question", q.Name))
	}
	if g.metrics != nil {
		g.metrics.RecordVerdict(kind, r.Valid, r.Correct, r.Duration)
	}
	return r
}

func (g *Grader) evaluate(ctx context.Context, q Question) Result {
	r := Result{Question: q.Name, Kind: q.Kind, Solution: q.Solution}
	if r.Kind == "" {
		r.Kind = g.defaultKind
	}
	if _, err := ParseKind(string(r.Kind)); err != nil {
		r.Err = err
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	if r.Kind == KindLiteral {
		if tag, err := literal.TypeOf(q.Solution); err == nil {
			r.SolutionType = string(tag)
		}
	}

	// no answer given
	if q.Answer == nil {
		return r
	}
	answer := *q.Answer
	r.Answer = answer

	key := g.cacheKey(r.Kind, answer, q.Solution)
	if entry, ok := g.lookup(key); ok {
		r.Verdict = Verdict{Valid: entry.Valid, Correct: entry.Correct}
		r.Cached = true
	} else {
		v, err := evaluate(g.normalizer, r.Kind, answer, q.Solution)
		r.Verdict = v
		if err != nil {
			r.Err = err
			return r
		}
		if g.cache != nil {
			g.cache.Set(key, cache.Entry{
				Valid:        v.Valid,
				Correct:      v.Correct,
				SolutionType: r.SolutionType,
			})
		}
	}

	if !r.Valid {
		r.AnswerErr = AnswerError(r.Kind, answer)
	}
	if g.crossCheck && r.Kind == KindGoal && r.Valid {
		g.crossCheckGoal(&r, q.Name, answer, q.Solution)
	}
	return r
}

func (g *Grader) cacheKey(kind Kind, answer, solution string) string {
	if g.cache == nil {
		return ""
	}
	iterations := strconv.Itoa(g.normalizer.Options().MaxIterations)
	return cache.Key(string(kind), answer, solution, iterations)
}

func (g *Grader) lookup(key string) (cache.Entry, bool) {
	if g.cache == nil {
		return cache.Entry{}, false
	}
	entry, ok := g.cache.Get(key)
	if g.metrics != nil {
		g.metrics.RecordCacheLookup(ok)
	}
	return entry, ok
}

// crossCheckGoal compares the normal-form verdict with the SAT verdict.
// A disagreement is logged and flagged; the normal-form verdict stands.
func (g *Grader) crossCheckGoal(r *Result, name, answer, solution string) {
	a, err := goal.Parse(answer)
	if err != nil {
		return
	}
	s, err := goal.Parse(solution)
	if err != nil {
		return
	}

	semantic, err := goal.SemanticEqual(a, s)
	if err != nil {
		g.logger.Error("cross-check failed", zap.String("question", name), zap.Error(err))
		return
	}
	if semantic == r.Correct {
		return
	}

	r.Disagreement = true
	g.logger.Warn("cross-check disagreement",
		zap.String("question", name),
		zap.Bool("normal_form", r.Correct),
		zap.Bool("sat", semantic))
	if g.metrics != nil {
		g.metrics.RecordDisagreement(string(KindGoal))
	}
}

// GradeAll grades questions on the worker pool. Results are in question
// order. Per-question failures are reported in Result.Err and never stop
// the batch; the returned error is only set when ctx is done before every
// question was graded.
func (g *Grader) GradeAll(ctx context.Context, questions []Question) ([]Result, Summary, error) {
	return g.grade(ctx, "", questions)
}

// GradeFile grades the results file at path and writes the verdicts back
// unless dryRun is set.
func (g *Grader) GradeFile(ctx context.Context, path string, dryRun bool) ([]Result, Summary, error) {
	rf, err := LoadResults(path)
	if err != nil {
		return nil, Summary{Source: path}, err
	}

	results, summary, err := g.grade(ctx, path, rf.Questions)
	if err != nil {
		return results, summary, err
	}

	for i := range rf.Questions {
		rf.Questions[i].Apply(results[i])
	}
	if dryRun {
		return results, summary, nil
	}
	if err := SaveResults(path, rf); err != nil {
		return results, summary, fmt.Errorf("save %s: %w", path, err)
	}
	return results, summary, nil
}

func (g *Grader) grade(ctx context.Context, source string, questions []Question) ([]Result, Summary, error) {
	start := time.Now()
	summary := Summary{Source: source}

	if g.store != nil {
		runID, err := g.store.StartRun(ctx, source)
		if err != nil {
			g.logger.Error("failed to start run", zap.String("source", source), zap.Error(err))
		} else {
			summary.RunID = runID
		}
	}

	bar := g.newBar(len(questions), source)
	results := make([]Result, len(questions))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup

	var cancelled error
	next := 0
dispatch:
	for ; next < len(questions); next++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = g.Evaluate(ctx, questions[i])
			g.record(ctx, summary.RunID, results[i])
			if bar != nil {
				_ = bar.Add(1)
			}
		}(next)
	}
	wg.Wait()

	for i := next; i < len(questions); i++ {
		results[i] = Result{Question: questions[i].Name, Kind: questions[i].Kind, Err: cancelled}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	for _, r := range results {
		summary.add(r)
	}
	summary.Duration = time.Since(start)

	g.finish(summary)
	return results, summary, cancelled
}

func (g *Grader) newBar(total int, description string) *progressbar.ProgressBar {
	if g.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(g.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (g *Grader) record(ctx context.Context, runID string, r Result) {
	if g.store == nil || runID == "" {
		return
	}

	v := store.Verdict{
		RunID:        runID,
		Question:     r.Question,
		Kind:         string(r.Kind),
		Valid:        r.Valid,
		Correct:      r.Correct,
		Disagreement: r.Disagreement,
		Duration:     r.Duration,
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	if err := g.store.RecordVerdict(ctx, v); err != nil {
		g.logger.Error("failed to record verdict", zap.String("question", r.Question), zap.Error(err))
	}
}

func (g *Grader) finish(summary Summary) {
	if g.store != nil && summary.RunID != "" {
		// the batch context may already be cancelled
		err := g.store.FinishRun(context.Background(), summary.RunID, store.Totals{
			Total:         summary.Total,
			Valid:         summary.Valid,
			Correct:       summary.Correct,
			Errors:        summary.Errors,
			Disagreements: summary.Disagreements,
		})
		if err != nil {
			g.logger.Error("failed to finish run", zap.String("run", summary.RunID), zap.Error(err))
		}
	}

	if g.cache != nil {
		if err := g.cache.Save(); err != nil {
			g.logger.Error("failed to save cache", zap.String("dir", g.cache.CacheDir), zap.Error(err))
		}
	}
}

// errorType is the metrics label for an internal grading error.
func errorType(err error) string {
	var shape *goal.ShapeError
	switch {
	case errors.As(err, &shape):
		return shape.Kind.String()
	case errors.Is(err, ErrInvalidSolution):
		return "invalid solution"
	case errors.Is(err, ErrUnknownKind):
		return "unknown kind"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
