package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/grader/grade"
	"github.com/gnoswap-labs/grader/internal/goal"
	"github.com/gnoswap-labs/grader/internal/literal"
)

// execute runs the root command with args. Commands share package-level
// flag variables, so these tests do not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = filepath.Join(t.TempDir(), grade.DefaultConfigPath)
	timeout = defaultTimeout
	verbose = false
	dryRun, checkJsonOutput, watchMode = false, false, false
	metricsFile, dbPath, runDBPath, compareKind = "", "", "", ""
	normalForm = "dnf"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

const results = `questions:
  - name: capital
    solution: paris
    answer: Paris
  - name: order
    solution: "[1, 2]"
    answer: "[2, 1]"
  - name: plan
    kind: goal
    solution: (and (on a b) (clear a))
    answer: (and (clear a) (on a b))
`

func writeResults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTypeCommand(t *testing.T) {
	out, err := execute(t, "type", "<1, 2>")
	require.NoError(t, err)
	assert.Equal(t, "set\n", out)

	_, err = execute(t, "type", "<1, 2")
	assert.ErrorIs(t, err, literal.ErrParse)
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "(not (or ?a ?b))")
	require.NoError(t, err)
	assert.Equal(t, "(and (not ?a) (not ?b))\n", out)

	out, err = execute(t, "normalize", "--form", "simplify", "(and (and ?a) (not (not ?b)))")
	require.NoError(t, err)
	assert.Equal(t, "(and ?a ?b)\n", out)

	_, err = execute(t, "normalize", "--form", "cnf", "(or ?a (and ?b ?c))")
	assert.ErrorIs(t, err, goal.ErrUnhandledShape)

	_, err = execute(t, "normalize", "--form", "nnf", "?a")
	assert.Error(t, err)

	_, err = execute(t, "normalize", "(and ?a")
	assert.ErrorIs(t, err, goal.ErrParse)
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--kind", "goal", "(and ?b ?a)", "(and ?a ?b)")
	require.NoError(t, err)
	assert.Equal(t, "valid: true\ncorrect: true\n", out)

	out, err = execute(t, "compare", "[2, 1]", "<1, 2>")
	assert.ErrorIs(t, err, errFailed)
	assert.True(t, strings.HasPrefix(out, "valid: true\ncorrect: false\n"))
	assert.Contains(t, out, "incorrect-answer")
	assert.Contains(t, out, "expected a set, got a list")

	_, err = execute(t, "compare", "--kind", "sql", "1", "1")
	assert.ErrorIs(t, err, grade.ErrUnknownKind)

	_, err = execute(t, "compare", "1", "[1,")
	assert.ErrorIs(t, err, grade.ErrInvalidSolution)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	out, err := execute(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	config, err := grade.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, grade.DefaultConfig(), config)
}

func TestCheckCommand(t *testing.T) {
	path := writeResults(t, results)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "incorrect-answer")
	assert.Contains(t, out, "3 questions, 3 valid, 2 correct")

	rf, err := grade.LoadResults(path)
	require.NoError(t, err)
	require.NotNil(t, rf.Questions[0].Correct)
	assert.True(t, *rf.Questions[0].Correct)
	assert.False(t, *rf.Questions[1].Correct)
	assert.Equal(t, "list", rf.Questions[1].SolutionType)
	assert.True(t, *rf.Questions[2].Correct)
}

func TestCheckCommand_DryRunJSON(t *testing.T) {
	path := writeResults(t, results)

	out, err := execute(t, "check", "--dry-run", "--json", path)
	require.NoError(t, err)

	var summaries []grade.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, path, summaries[0].Source)
	assert.Equal(t, 2, summaries[0].Correct)

	d, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, results, string(d))
}

func TestCheckCommand_InternalError(t *testing.T) {
	path := writeResults(t, `questions:
  - name: broken
    kind: goal
    solution: (and ?a
    answer: ?a
`)

	out, err := execute(t, "check", path)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "grading-error")

	rf, err := grade.LoadResults(path)
	require.NoError(t, err)
	assert.Contains(t, rf.Questions[0].Error, "invalid solution")
}

func TestCheckCommand_DatabaseAndMetrics(t *testing.T) {
	dir := t.TempDir()
	path := writeResults(t, results)
	db := filepath.Join(dir, "verdicts.db")
	prom := filepath.Join(dir, "grader.prom")

	out, err := execute(t, "check", "--json", "--db", db, "--metrics-file", prom, path)
	require.NoError(t, err)

	var summaries []grade.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.NotEmpty(t, summaries[0].RunID)

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "grader_questions_total")

	out, err = execute(t, "run", "--db", db, summaries[0].RunID)
	require.NoError(t, err)
	assert.Contains(t, out, "total: 3, valid: 3, correct: 2, errors: 0, disagreements: 0")
	assert.Contains(t, out, "capital")

	_, err = execute(t, "run", "--db", db, "missing")
	assert.Error(t, err)
}

func TestCheckCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errFailed)
}
