package goal

import "strings"

const (
	keywordAnd   = "and"
	keywordOr    = "or"
	keywordNot   = "not"
	keywordTrue  = "True"
	keywordFalse = "False"
)

// Parser builds a goal formula from the tokens produced by the Lexer.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a Parser over tokens. The slice must end with TokenEOF.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses exactly one goal and rejects anything left over.
func (p *Parser) Parse() (Node, error) {
	if p.peek().Type == TokenEOF {
		return nil, newParseError(p.peek(), "empty input")
	}

	n, err := p.parseGoal()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, newParseError(tok, "unexpected trailing input")
	}
	return n, nil
}

func (p *Parser) parseGoal() (Node, error) {
	tok := p.advance()
	switch tok.Type {
	case TokenIdent:
		return p.parseAtom(tok)
	case TokenLParen:
		return p.parseForm(tok)
	case TokenRParen:
		return nil, newParseError(tok, "unbalanced )")
	default:
		return nil, newParseError(tok, "unexpected end of input")
	}
}

func (p *Parser) parseAtom(tok Token) (Node, error) {
	switch {
	case tok.Value == keywordTrue:
		return True, nil
	case tok.Value == keywordFalse:
		return False, nil
	case strings.HasPrefix(tok.Value, "?"):
		name := tok.Value[1:]
		if name == "" {
			return nil, newParseError(tok, "symbol needs a name after ?")
		}
		return Symbol{Name: name}, nil
	default:
		return nil, newParseError(tok, "bare identifier is not a goal; wrap facts in parentheses")
	}
}

// parseForm parses the remainder of a parenthesized form after its '('.
func (p *Parser) parseForm(open Token) (Node, error) {
	head := p.advance()
	if head.Type != TokenIdent {
		if head.Type == TokenEOF {
			return nil, newParseError(open, "unclosed (")
		}
		return nil, newParseError(head, "expected operator or predicate name after (")
	}

	switch head.Value {
	case keywordNot:
		return p.parseNot(head)
	case keywordAnd, keywordOr:
		return p.parseCompound(head)
	case keywordTrue, keywordFalse:
		return nil, newParseError(head, "%s cannot be used as a predicate", head.Value)
	}

	if strings.HasPrefix(head.Value, "?") {
		return nil, newParseError(head, "symbol cannot be used as a predicate")
	}
	return p.parseFact(head)
}

func (p *Parser) parseNot(head Token) (Node, error) {
	operand, err := p.parseGoal()
	if err != nil {
		return nil, err
	}
	if err := p.closeForm(head, "not takes exactly one operand"); err != nil {
		return nil, err
	}

	switch o := operand.(type) {
	case Bool:
		return Bool{Value: !o.Value}, nil
	case Atomic:
		return NegatedAtomic{Atomic: o}, nil
	default:
		return NegatedClause{Clause: operand}, nil
	}
}

func (p *Parser) parseCompound(head Token) (Node, error) {
	operands := make([]Node, 0)
	for p.peek().Type != TokenRParen {
		if p.peek().Type == TokenEOF {
			return nil, newParseError(p.peek(), "unclosed (%s", head.Value)
		}
		operand, err := p.parseGoal()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	p.advance()

	if len(operands) == 0 {
		return nil, newParseError(head, "%s needs at least one operand", head.Value)
	}
	if head.Value == keywordAnd {
		return Conjunction{Clauses: operands}, nil
	}
	return Disjunction{Clauses: operands}, nil
}

func (p *Parser) parseFact(head Token) (Node, error) {
	params := make([]string, 0)
	for {
		tok := p.advance()
		switch tok.Type {
		case TokenRParen:
			return Fact{Head: head.Value, Params: params}, nil
		case TokenEOF:
			return nil, newParseError(tok, "unclosed (%s", head.Value)
		case TokenLParen:
			return nil, newParseError(tok, "fact parameters cannot be nested")
		}

		if strings.HasPrefix(tok.Value, "?") {
			return nil, newParseError(tok, "fact parameters must be plain identifiers")
		}
		params = append(params, tok.Value)
	}
}

func (p *Parser) closeForm(head Token, msg string) error {
	tok := p.advance()
	switch tok.Type {
	case TokenRParen:
		return nil
	case TokenEOF:
		return newParseError(tok, "unclosed (%s", head.Value)
	default:
		return newParseError(tok, "%s", msg)
	}
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
