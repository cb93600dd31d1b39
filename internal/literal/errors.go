package literal

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError via errors.Is.
var ErrParse = errors.New("literal: parse error")

// ParseError reports malformed literal-language input.
type ParseError struct {
	Pos   int    // byte offset of the offending token
	Token string // offending token text, empty at end of input
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("literal parse error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("literal parse error at offset %d near %q: %s", e.Pos, e.Token, e.Msg)
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
