package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/grader/formatter"
	"github.com/gnoswap-labs/grader/grade"
	"github.com/gnoswap-labs/grader/internal/cache"
	"github.com/gnoswap-labs/grader/internal/metrics"
	"github.com/gnoswap-labs/grader/internal/store"
	"github.com/gnoswap-labs/grader/internal/watch"
)

var (
	dryRun          bool
	checkJsonOutput bool
	watchMode       bool
	metricsFile     string
	dbPath          string
)

var checkCmd = &cobra.Command{
	Use:   "check <results.yaml>...",
	Short: "Grade results files and record the verdicts in place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if metricsFile != "" {
			config.MetricsFile = metricsFile
		}
		if dbPath != "" {
			config.Database = dbPath
		}

		env, err := newCheckEnv(config, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer env.close()

		if watchMode {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return env.watch(ctx, cmd.OutOrStdout(), args)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if !env.checkFiles(ctx, cmd.OutOrStdout(), args) {
			return errFailed
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the verdicts without writing them back")
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output the summaries in JSON format")
	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regrade files whenever they change")
	checkCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write prometheus metrics to this file")
	checkCmd.Flags().StringVar(&dbPath, "db", "", "Record runs in this SQLite database")
}

// checkEnv owns the resources of one check invocation.
type checkEnv struct {
	config  grade.Config
	grader  *grade.Grader
	store   *store.Store
	metrics *metrics.Metrics

	// fingerprints of the files as last written, so watch mode does not
	// regrade its own writes
	mu      sync.Mutex
	written map[string]string
}

func newCheckEnv(config grade.Config, progress io.Writer) (*checkEnv, error) {
	env := &checkEnv{
		config:  config,
		metrics: metrics.New(),
		written: make(map[string]string),
	}

	opts := []grade.Option{
		grade.WithLogger(logger),
		grade.WithMetrics(env.metrics),
	}
	if !checkJsonOutput {
		opts = append(opts, grade.WithProgress(progress))
	}

	if config.CacheDir != "" {
		c, err := cache.NewCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grade.WithCache(c))
	}

	if config.Database != "" {
		s, err := store.Open(config.Database, logger)
		if err != nil {
			return nil, err
		}
		env.store = s
		opts = append(opts, grade.WithStore(s))
	}

	env.grader = grade.NewGraderFromConfig(config, opts...)
	return env, nil
}

func (e *checkEnv) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}
}

// checkFiles grades every file and reports whether all of them were graded
// without internal errors.
func (e *checkEnv) checkFiles(ctx context.Context, out io.Writer, paths []string) bool {
	ok := true
	summaries := make([]grade.Summary, 0, len(paths))

	for _, path := range paths {
		results, summary, err := e.grader.GradeFile(ctx, path, dryRun)
		if err != nil {
			logger.Error("Error grading file", zap.String("file", path), zap.Error(err))
			ok = false
			if results == nil {
				continue
			}
		}
		if summary.Errors > 0 {
			ok = false
		}
		e.remember(path)

		summaries = append(summaries, summary)
		if !checkJsonOutput {
			fmt.Fprint(out, formatter.GenerateFormattedResults(path, results))
			fmt.Fprint(out, formatter.FormatSummary(summary))
		}
	}

	if checkJsonOutput {
		d, err := json.Marshal(summaries)
		if err != nil {
			logger.Error("Error marshalling summaries to JSON", zap.Error(err))
			return false
		}
		fmt.Fprintln(out, string(d))
	}

	e.writeMetrics()
	return ok
}

func (e *checkEnv) watch(ctx context.Context, out io.Writer, paths []string) error {
	w, err := watch.New(paths, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}

	e.checkFiles(ctx, out, paths)

	err = w.Run(ctx, func(path string) {
		if e.unchanged(path) {
			return
		}
		logger.Info("File changed, regrading", zap.String("file", path))
		e.checkFiles(ctx, out, []string{path})
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *checkEnv) remember(path string) {
	key, err := fingerprint(path)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.written[absPath(path)] = key
}

func (e *checkEnv) unchanged(path string) bool {
	key, err := fingerprint(path)
	if err != nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written[absPath(path)] == key
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func fingerprint(path string) (string, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return cache.Key(string(d)), nil
}

func (e *checkEnv) writeMetrics() {
	if e.config.MetricsFile == "" {
		return
	}
	if err := e.metrics.WriteToTextfile(e.config.MetricsFile); err != nil {
		logger.Error("Error writing metrics", zap.String("file", e.config.MetricsFile), zap.Error(err))
	}
}
