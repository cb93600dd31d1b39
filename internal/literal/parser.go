package literal

import (
	"strconv"
)

// Parser builds a Literal from the tokens produced by the Lexer.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a Parser over tokens. The slice must end with TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses exactly one literal and rejects anything left over.
func (p *Parser) Parse() (Literal, error) {
	if p.peek().Type == TokenEOF {
		return nil, newParseError(p.peek(), "empty input")
	}

	lit, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, newParseError(tok, "unexpected trailing input")
	}
	return lit, nil
}

func (p *Parser) parseLiteral() (Literal, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenWord:
		p.advance()
		if f, ok := parseNumber(tok.Value); ok {
			return Number{Value: f}, nil
		}
		return Str{Value: tok.Value}, nil

	case TokenPoint:
		return p.parsePoint()

	case TokenLBracket:
		elems, err := p.parseSequence(TokenLBracket, TokenRBracket)
		if err != nil {
			return nil, err
		}
		return List{Elems: elems}, nil

	case TokenLAngle:
		elems, err := p.parseSequence(TokenLAngle, TokenRAngle)
		if err != nil {
			return nil, err
		}
		return Set{Elems: elems}, nil

	case TokenLBrace:
		return p.parseDict()

	case TokenEOF:
		return nil, newParseError(tok, "unexpected end of input")

	default:
		return nil, newParseError(tok, "expected a literal, found %s", tok.Type)
	}
}

// parseSequence parses `open [literal ("," literal)*] close`.
func (p *Parser) parseSequence(open, close TokenType) ([]Literal, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}

	elems := make([]Literal, 0)
	if p.peek().Type == close {
		p.advance()
		return elems, nil
	}

	for {
		elem, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		tok := p.advance()
		switch tok.Type {
		case close:
			return elems, nil
		case TokenComma:
			continue
		case TokenEOF:
			return nil, newParseError(tok, "missing closing %s", close)
		default:
			return nil, newParseError(tok, "expected , or %s", close)
		}
	}
}

// parseDict parses `{ [key ":" value ("," key ":" value)*] }`.
func (p *Parser) parseDict() (Literal, error) {
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0)
	if p.peek().Type == TokenRBrace {
		p.advance()
		return Dict{Pairs: pairs}, nil
	}

	for {
		key, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenColon); err != nil {
			return nil, err
		}
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: key, Value: value})

		tok := p.advance()
		switch tok.Type {
		case TokenRBrace:
			return Dict{Pairs: pairs}, nil
		case TokenComma:
			continue
		case TokenEOF:
			return nil, newParseError(tok, "missing closing }")
		default:
			return nil, newParseError(tok, "expected , or } between dict entries")
		}
	}
}

// parsePoint parses `POINT( n n n )`.
func (p *Parser) parsePoint() (Literal, error) {
	if _, err := p.expect(TokenPoint); err != nil {
		return nil, err
	}

	var coords [3]float64
	for i := range coords {
		tok := p.advance()
		if tok.Type != TokenWord {
			return nil, newParseError(tok, "POINT needs three numeric coordinates")
		}
		f, ok := parseNumber(tok.Value)
		if !ok {
			return nil, newParseError(tok, "non-numeric POINT coordinate")
		}
		coords[i] = f
	}

	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return Point{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != typ {
		if tok.Type == TokenEOF {
			return tok, newParseError(tok, "expected %s, found end of input", typ)
		}
		return tok, newParseError(tok, "expected %s", typ)
	}
	return tok, nil
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: p.endPos()}
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) endPos() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].Pos
}

// parseNumber accepts `[-+]? digits ('.' digits)?` and nothing else.
func parseNumber(s string) (float64, bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == intStart {
		return 0, false
	}
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == fracStart {
			return 0, false
		}
	}
	if i != len(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
