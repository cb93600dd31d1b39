package formatter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnoswap-labs/grader/grade"
)

func TestGenerateFormattedResults(t *testing.T) {
	t.Parallel()

	results := []grade.Result{
		{
			Question: "number",
			Kind:     grade.KindLiteral,
			Answer:   "3.141",
			Solution: "3.14",
			Verdict:  grade.Verdict{Valid: true, Correct: true},
		},
		{
			Question:  "malformed",
			Kind:      grade.KindLiteral,
			Answer:    "<a, b",
			Solution:  "<a, b>",
			AnswerErr: grade.AnswerError(grade.KindLiteral, "<a, b"),
		},
		{
			Question: "list",
			Kind:     grade.KindLiteral,
			Answer:   "[2, 1]",
			Solution: "<1, 2>",
			Verdict:  grade.Verdict{Valid: true},
		},
		{
			Question: "broken",
			Kind:     grade.KindGoal,
			Answer:   "?a",
			Solution: "(and ?a",
			Err:      fmt.Errorf("%w: boom", grade.ErrInvalidSolution),
		},
	}

	expected := `warning: invalid-answer
 --> results.yaml: malformed [literal]
  |
1 | <a, b
  |      ~
  = missing closing >

warning: incorrect-answer
 --> results.yaml: list [literal]
  | answer:   [2, 1]
  | solution: <1, 2>
  = note: expected a set, got a list

error: grading-error
 --> results.yaml: broken [goal]
  = grade: invalid solution: boom

`

	assert.Equal(t, expected, GenerateFormattedResults("results.yaml", results))
}

func TestGenerateFormattedResults_MultilineAnswer(t *testing.T) {
	t.Parallel()

	answer := "(and ?a\n\tclear)"
	results := []grade.Result{{
		Question:  "plan",
		Kind:      grade.KindGoal,
		Answer:    answer,
		Solution:  "(and ?a (clear))",
		AnswerErr: grade.AnswerError(grade.KindGoal, answer),
	}}

	expected := "warning: invalid-answer\n" +
		" --> plan [goal]\n" +
		"  |\n" +
		"2 | \tclear)\n" +
		"  |         ~~~~~\n" +
		"  = bare identifier is not a goal; wrap facts in parentheses\n" +
		"\n"

	assert.Equal(t, expected, GenerateFormattedResults("", results))
}

func TestGenerateFormattedResults_Disagreement(t *testing.T) {
	t.Parallel()

	results := []grade.Result{{
		Question:     "idempotence",
		Kind:         grade.KindGoal,
		Answer:       "(or ?a ?a)",
		Solution:     "?a",
		Verdict:      grade.Verdict{Valid: true},
		Disagreement: true,
	}}

	expected := `info: cross-check-disagreement
 --> idempotence [goal]
  | answer:   (or ?a ?a)
  | solution: ?a
  = note: the formulas are logically equivalent but their normal forms differ

`

	assert.Equal(t, expected, GenerateFormattedResults("", results))
}

func TestGenerateFormattedResults_Unanswered(t *testing.T) {
	t.Parallel()

	results := []grade.Result{{Question: "q", Kind: grade.KindLiteral, Solution: "1"}}

	expected := `warning: invalid-answer
 --> q [literal]
  = no answer

`

	assert.Equal(t, expected, GenerateFormattedResults("", results))
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result grade.Result
		want   string
	}{
		{"correct", grade.Result{Verdict: grade.Verdict{Valid: true, Correct: true}}, ""},
		{"incorrect", grade.Result{Verdict: grade.Verdict{Valid: true}}, IncorrectAnswer},
		{"invalid", grade.Result{}, InvalidAnswer},
		{"error wins", grade.Result{Err: errors.New("x"), Disagreement: true}, GradingError},
		{"disagreement on correct", grade.Result{Verdict: grade.Verdict{Valid: true, Correct: true}, Disagreement: true}, Disagreement},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Outcome(tt.result))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary grade.Summary
		want    string
	}{
		{
			name:    "all correct",
			summary: grade.Summary{Total: 1, Valid: 1, Correct: 1},
			want:    "1 question, 1 valid, 1 correct\n",
		},
		{
			name:    "with problems",
			summary: grade.Summary{Source: "r.yaml", Total: 6, Valid: 3, Correct: 2, Errors: 1, Disagreements: 2, CacheHits: 4},
			want:    "r.yaml: 6 questions, 3 valid, 2 correct, 1 error, 2 disagreements (4 cached)\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatSummary(tt.summary))
		})
	}
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	text := "ab\ncd\n"
	tests := []struct {
		offset, line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{99, 3, 1},
	}
	for _, tt := range tests {
		line, column := lineColumn(text, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, column, "offset %d", tt.offset)
	}
}
