package goal

import (
	"unicode"
	"unicode/utf8"
)

// TokenType defines the type of a goal-language token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenLParen           // '('
	TokenRParen           // ')'
	TokenIdent            // keyword, symbol, predicate or parameter
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenIdent:
		return "Ident"
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

// Lexer scans goal-language text into tokens.
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
		case r == '(':
			l.addToken(TokenLParen, "(", l.position)
			l.position++
		case r == ')':
			l.addToken(TokenRParen, ")", l.position)
			l.position++
		default:
			l.lexIdent()
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) {
		r, width := utf8.DecodeRuneInString(l.input[l.position:])
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			break
		}
		l.position += width
	}
	l.addToken(TokenIdent, l.input[start:l.position], start)
}

func (l *Lexer) addToken(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Pos: pos})
}
