// Package grade checks answers against reference solutions written in the
// literal language or the goal language.
//
// The boundary functions (ParseLiteral, LiteralEqualsText, ParseGoal,
// GoalEqualsText, ...) wrap the language packages. Evaluate turns one
// answer/solution pair into a Verdict, and a Grader grades whole results
// files with caching, persistence and metrics.
package grade

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/grader/internal/goal"
	"github.com/gnoswap-labs/grader/internal/literal"
)

// Kind names the language a question is written in.
type Kind string

const (
	KindLiteral Kind = "literal"
	KindGoal    Kind = "goal"
)

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLiteral, KindGoal:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

var (
	// ErrInvalidSolution means the reference solution does not parse. This
	// is a broken question, not a wrong answer.
	ErrInvalidSolution = errors.New("grade: invalid solution")

	// ErrUnknownKind is returned for a language other than literal or goal.
	ErrUnknownKind = errors.New("grade: unknown kind")
)

// Verdict is the outcome of grading one answer. An answer that does not
// parse is not Valid and never Correct.
type Verdict struct {
	Valid   bool `json:"valid" yaml:"valid"`
	Correct bool `json:"correct" yaml:"correct"`
}

// ParseLiteral parses literal-language text.
func ParseLiteral(text string) (literal.Literal, error) {
	return literal.Parse(text)
}

// LiteralTypeTag returns the type tag of literal-language text.
func LiteralTypeTag(text string) (literal.Tag, error) {
	return literal.TypeOf(text)
}

// LiteralEqualsText compares two literal-language texts. Unparsable input
// compares unequal.
func LiteralEqualsText(a, b string) bool {
	return literal.EqualText(a, b)
}

// ParseGoal parses goal-language text.
func ParseGoal(text string) (goal.Node, error) {
	return goal.Parse(text)
}

// GoalEqualsText compares two goal-language texts. Unparsable input
// compares unequal; rewrite engine failures are returned.
func GoalEqualsText(a, b string) (bool, error) {
	return goal.EqualText(a, b)
}

// AnswerError returns the parse error of answer, or nil if it parses.
func AnswerError(kind Kind, answer string) error {
	var err error
	switch kind {
	case KindLiteral:
		_, err = literal.Parse(answer)
	case KindGoal:
		_, err = goal.Parse(answer)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return err
}

// Evaluate grades answer against solution with default options.
func Evaluate(kind Kind, answer, solution string) (Verdict, error) {
	return evaluate(goal.NewNormalizer(goal.DefaultOptions()), kind, answer, solution)
}

func evaluate(nz *goal.Normalizer, kind Kind, answer, solution string) (Verdict, error) {
	switch kind {
	case KindLiteral:
		a, err := literal.Parse(answer)
		if err != nil {
			return Verdict{}, nil
		}
		s, err := literal.Parse(solution)
		if err != nil {
			return Verdict{}, fmt.Errorf("%w: %w", ErrInvalidSolution, err)
		}
		return Verdict{Valid: true, Correct: literal.Equal(a, s)}, nil

	case KindGoal:
		a, err := goal.Parse(answer)
		if err != nil {
			return Verdict{}, nil
		}
		s, err := goal.Parse(solution)
		if err != nil {
			return Verdict{}, fmt.Errorf("%w: %w", ErrInvalidSolution, err)
		}
		eq, err := nz.Equal(a, s)
		if err != nil {
			return Verdict{Valid: true}, err
		}
		return Verdict{Valid: true, Correct: eq}, nil

	default:
		return Verdict{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
