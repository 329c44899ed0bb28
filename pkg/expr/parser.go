package expr

import (
	"fmt"
	"strconv"
)

// Parser builds an expression AST from tokens.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a Parser for the input string.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.cur.Type == t
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return fmt.Errorf("unexpected token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
	p.nextToken()
	return nil
}

// Parse parses the whole input as a single expression.
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(TOKEN_EOF) {
		return nil, fmt.Errorf("unexpected trailing token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
	return node, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseOrExpr()
}

func (p *Parser) parseOrExpr() (Node, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}

	for p.curTokenIs(TOKEN_OR) || p.curTokenIs(TOKEN_OROR) {
		p.nextToken()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: TOKEN_OR, Right: right}
	}

	return left, nil
}

func (p *Parser) parseAndExpr() (Node, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}

	for p.curTokenIs(TOKEN_AND) || p.curTokenIs(TOKEN_ANDAND) {
		p.nextToken()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: TOKEN_AND, Right: right}
	}

	return left, nil
}

func (p *Parser) parseNotExpr() (Node, error) {
	if p.curTokenIs(TOKEN_NOT) || p.curTokenIs(TOKEN_BANG) {
		p.nextToken()
		node, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: TOKEN_NOT, Expr: node}, nil
	}
	return p.parseComparisonExpr()
}

func (p *Parser) parseComparisonExpr() (Node, error) {
	left, err := p.parseAddExpr()
	if err != nil {
		return nil, err
	}

	switch p.cur.Type {
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_LE, TOKEN_GT, TOKEN_GE, TOKEN_IN:
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseAddExpr()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Op: op, Right: right}, nil
	}

	return left, nil
}

func (p *Parser) parseAddExpr() (Node, error) {
	left, err := p.parseMulExpr()
	if err != nil {
		return nil, err
	}

	for p.curTokenIs(TOKEN_PLUS) || p.curTokenIs(TOKEN_MINUS) {
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseMulExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}

	return left, nil
}

func (p *Parser) parseMulExpr() (Node, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	for p.curTokenIs(TOKEN_STAR) || p.curTokenIs(TOKEN_SLASH) || p.curTokenIs(TOKEN_PERCENT) {
		op := p.cur.Type
		p.nextToken()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}

	return left, nil
}

func (p *Parser) parseUnaryExpr() (Node, error) {
	if p.curTokenIs(TOKEN_MINUS) {
		p.nextToken()
		node, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: TOKEN_MINUS, Expr: node}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() (Node, error) {
	switch p.cur.Type {
	case TOKEN_INT:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", p.cur.Literal)
		}
		p.nextToken()
		return &LiteralExpr{Value: NewInt(n)}, nil

	case TOKEN_FLOAT:
		f, err := strconv.ParseFloat(p.cur.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q", p.cur.Literal)
		}
		p.nextToken()
		return &LiteralExpr{Value: NewFloat(f)}, nil

	case TOKEN_STRING:
		s := p.cur.Literal
		p.nextToken()
		return &LiteralExpr{Value: NewStr(s)}, nil

	case TOKEN_BADSTRING:
		return nil, fmt.Errorf("unterminated string literal at position %d", p.cur.Pos)

	case TOKEN_TRUE:
		p.nextToken()
		return &LiteralExpr{Value: NewBool(true)}, nil

	case TOKEN_FALSE:
		p.nextToken()
		return &LiteralExpr{Value: NewBool(false)}, nil

	case TOKEN_NONE:
		p.nextToken()
		return &LiteralExpr{Value: None()}, nil

	case TOKEN_IDENT:
		name := p.cur.Literal
		p.nextToken()
		return &IdentExpr{Name: name}, nil

	case TOKEN_LPAREN:
		return p.parseParenExpr()

	case TOKEN_LBRACKET:
		elems, err := p.parseElemList(TOKEN_RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ListExpr{Elems: elems}, nil

	case TOKEN_LBRACE:
		elems, err := p.parseElemList(TOKEN_RBRACE)
		if err != nil {
			return nil, err
		}
		return &SetExpr{Elems: elems}, nil

	case TOKEN_EOF:
		return nil, fmt.Errorf("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected token %q at position %d", p.cur.Literal, p.cur.Pos)
	}
}

// parseParenExpr parses a parenthesized expression or a tuple. A tuple is
// one or more comma-separated expressions; a trailing comma makes a
// one-element tuple, as in (1,).
func (p *Parser) parseParenExpr() (Node, error) {
	p.nextToken() // consume (

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curTokenIs(TOKEN_RPAREN) {
		p.nextToken()
		return first, nil
	}

	elems := []Node{first}
	for p.curTokenIs(TOKEN_COMMA) {
		p.nextToken()
		if p.curTokenIs(TOKEN_RPAREN) {
			break
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if err := p.expect(TOKEN_RPAREN); err != nil {
		return nil, err
	}
	return &ListExpr{Elems: elems}, nil
}

func (p *Parser) parseElemList(end TokenType) ([]Node, error) {
	p.nextToken() // consume opening delimiter

	var elems []Node
	if p.curTokenIs(end) {
		p.nextToken()
		return elems, nil
	}

	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)

		if p.curTokenIs(TOKEN_COMMA) {
			p.nextToken()
			if p.curTokenIs(end) {
				break
			}
			continue
		}
		break
	}

	if err := p.expect(end); err != nil {
		return nil, err
	}
	return elems, nil
}
