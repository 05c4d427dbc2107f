package filterexpr

import (
	"strconv"

	"github.com/strataprep/strata/pkg/errors"
)

// Expr is a node of the restricted filter AST
type Expr interface {
	exprNode()
}

// LogicalExpr combines two boolean subexpressions with AND or OR
type LogicalExpr struct {
	Op    string // "and" or "or"
	Left  Expr
	Right Expr
}

// NotExpr negates a boolean subexpression
type NotExpr struct {
	X Expr
}

// CompareExpr compares two operands with a relational operator
type CompareExpr struct {
	Op    string // > >= < <= == !=
	Left  Expr
	Right Expr
}

// Ident references a column by name
type Ident struct {
	Name string
}

// NumberLit is a numeric literal
type NumberLit struct {
	Value float64
}

// StringLit is a string literal
type StringLit struct {
	Value string
}

// BoolLit is a boolean literal
type BoolLit struct {
	Value bool
}

func (*LogicalExpr) exprNode() {}
func (*NotExpr) exprNode()     {}
func (*CompareExpr) exprNode() {}
func (*Ident) exprNode()       {}
func (*NumberLit) exprNode()   {}
func (*StringLit) exprNode()   {}
func (*BoolLit) exprNode()     {}

// Parse parses an expression into its AST.
//
// Grammar, loosest binding first:
//
//	expr    = and { ("|" | "or") and }
//	and     = unary { ("&" | "and") unary }
//	unary   = ("!" | "not") unary | primary
//	primary = "(" expr ")" | operand [ compareOp operand ]
//	operand = identifier | number | string | "true" | "false"
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		tok := p.peek()
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter,
			"unexpected %q at position %d", tok.text, tok.pos)
	}
	return expr, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokenNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.peek().kind == tokenLParen {
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			return nil, errors.Newf(errors.ErrorTypeInvalidParameter,
				"missing ')' at position %d", p.peek().pos)
		}
		p.next()
		return expr, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenCompare {
		op := p.next().text
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseOperand() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokenIdent:
		return &Ident{Name: tok.text}, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "invalid number %q", tok.text)
		}
		return &NumberLit{Value: f}, nil
	case tokenString:
		return &StringLit{Value: tok.text}, nil
	case tokenBool:
		return &BoolLit{Value: tok.text == "true"}, nil
	case tokenLParen:
		// A parenthesized boolean subexpression used as an operand of NOT
		// or a logical combinator.
		p.pos--
		return p.parsePrimary()
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter,
			"expected a column name or literal at position %d, got %q", tok.pos, tok.text)
	}
}
