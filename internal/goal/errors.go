package goal

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError via errors.Is.
	ErrParse = errors.New("goal: parse error")

	// ErrUnhandledShape is matched by every *ShapeError via errors.Is.
	ErrUnhandledShape = errors.New("goal: unhandled formula shape")
)

// ParseError reports malformed goal-language input.
type ParseError struct {
	Pos   int    // byte offset of the offending token
	Token string // offending token text, empty at end of input
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("goal parse error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("goal parse error at offset %d near %q: %s", e.Pos, e.Token, e.Msg)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func newParseError(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:   tok.Pos,
		Token: tok.Value,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// ShapeKind classifies a ShapeError.
type ShapeKind int

const (
	// ShapeUnknownNode means a traversal met a node type it has no case for.
	ShapeUnknownNode ShapeKind = iota + 1
	// ShapeUnsupportedRule means a rewrite rule with no implementation was needed.
	ShapeUnsupportedRule
	// ShapeNoFixpoint means rewriting did not stabilize within the iteration cap.
	ShapeNoFixpoint
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeUnknownNode:
		return "unknown node"
	case ShapeUnsupportedRule:
		return "unsupported rule"
	case ShapeNoFixpoint:
		return "no fixpoint"
	default:
		return "unknown"
	}
}

// ShapeError reports a formula shape the rewrite engine cannot handle.
// It signals a gap in the engine, not a bad answer.
type ShapeError struct {
	Kind ShapeKind
	Rule string // rewrite step or driver that failed
	Node string // rendering of the offending node
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("goal: %s in %s: %s", e.Kind, e.Rule, e.Node)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrUnhandledShape
}

func newShapeError(kind ShapeKind, rule string, n Node) *ShapeError {
	node := "<nil>"
	if n != nil {
		node = n.String()
	}
	return &ShapeError{Kind: kind, Rule: rule, Node: node}
}
