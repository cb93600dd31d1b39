package literal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType defines the type of a literal-language token.
type TokenType int

const (
	TokenEOF      TokenType = iota
	TokenWord               // number or bareword
	TokenPoint              // "POINT("
	TokenLBracket           // '['
	TokenRBracket           // ']'
	TokenLAngle             // '<'
	TokenRAngle             // '>'
	TokenLBrace             // '{'
	TokenRBrace             // '}'
	TokenLParen             // '(' outside of POINT(
	TokenRParen             // ')'
	TokenColon              // ':'
	TokenComma              // ','
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenWord:
		return "Word"
	case TokenPoint:
		return "Point"
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLAngle:
		return "<"
	case TokenRAngle:
		return ">"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	default:
		return "Unknown"
	}
}

// Token is a single lexical token with its starting byte offset.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

const pointKeyword = "POINT("

var punctuation = map[byte]TokenType{
	'[': TokenLBracket,
	']': TokenRBracket,
	'<': TokenLAngle,
	'>': TokenRAngle,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'(': TokenLParen,
	')': TokenRParen,
	':': TokenColon,
	',': TokenComma,
}

// Lexer scans literal-language text into tokens.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

// Tokenize scans the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		r, width := utf8.DecodeRuneInString(l.input[l.position:])
		switch {
		case unicode.IsSpace(r):
			l.position += width

		case strings.HasPrefix(l.input[l.position:], pointKeyword):
			l.addToken(TokenPoint, pointKeyword, l.position)
			l.position += len(pointKeyword)

		default:
			if typ, ok := punctuationOf(r); ok {
				l.addToken(typ, string(r), l.position)
				l.position++
				continue
			}
			l.lexWord()
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

// lexWord consumes a run of runes up to the next whitespace or punctuation.
func (l *Lexer) lexWord() {
	start := l.position
	for l.position < len(l.input) {
		r, width := utf8.DecodeRuneInString(l.input[l.position:])
		if unicode.IsSpace(r) {
			break
		}
		if _, ok := punctuationOf(r); ok {
			break
		}
		l.position += width
	}
	l.addToken(TokenWord, l.input[start:l.position], start)
}

func (l *Lexer) addToken(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Pos: pos})
}

func punctuationOf(r rune) (TokenType, bool) {
	if r >= utf8.RuneSelf {
		return 0, false
	}
	typ, ok := punctuation[byte(r)]
	return typ, ok
}
