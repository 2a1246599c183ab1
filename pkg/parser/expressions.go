package parser

import (
	"slices"
	"strconv"

	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/lexer"
)

// Precedence climbing, lowest binding first: assignment, equality,
// comparison, additive, multiplicative, unary, call, primary. Word-form
// operator aliases were already normalized to their symbol spellings by the
// lexer, so only symbols appear here.

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

// Assignment is right-associative: the right side re-enters at this level.
// The target must be a bare identifier.
func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenOperator, "=") {
		return left, nil
	}
	eq := p.advance()
	target, ok := left.(*ast.Identifier)
	if !ok {
		return nil, p.errorf(eq, "invalid assignment target")
	}
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignmentExpression(left.Pos(), target.Name, value), nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinary(p.parseComparison, "==", "!=")
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	return p.parseBinary(p.parseAdditive, ">", "<", ">=", "<=")
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinary(p.parseMultiplicative, "+", "-", "_")
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinary(p.parseUnary, "*", "/", "%")
}

// parseBinary builds a left-associative chain of binary expressions whose
// operands come from the next-higher precedence level.
func (p *Parser) parseBinary(next func() (ast.Expression, error), operators ...string) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		if tok.Type != lexer.TokenOperator || !slices.Contains(operators, tok.Literal) {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(left.Pos(), tok.Literal, left, right)
	}
}

// Prefix minus desugars to a subtraction from zero.
func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(lexer.TokenOperator, "-") {
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		pos := tokenPos(tok)
		return ast.NewBinaryExpression(pos, "-", ast.NewNumberLiteral(pos, 0), operand), nil
	}
	return p.parseCall()
}

// Postfix call suffixes apply left-to-right, so f()() calls the value f()
// returned.
func (p *Parser) parseCall() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPunct, "(") {
		open := p.advance()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		expr = ast.NewCallExpression(tokenPos(open), expr, args)
	}
	return expr, nil
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	args := []ast.Expression{}
	for !p.check(lexer.TokenPunct, ")") {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(lexer.TokenPunct, ",") {
			break
		}
	}
	if _, err := p.expect(lexer.TokenPunct, ")", "')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok, "malformed number %q", tok.Literal)
		}
		return ast.NewNumberLiteral(tokenPos(tok), value), nil
	case lexer.TokenString:
		p.advance()
		return ast.NewStringLiteral(tokenPos(tok), tok.Literal), nil
	case lexer.TokenKeyword:
		switch tok.Literal {
		case "rishtia":
			p.advance()
			return ast.NewBooleanLiteral(tokenPos(tok), true), nil
		case "ghalat":
			p.advance()
			return ast.NewBooleanLiteral(tokenPos(tok), false), nil
		}
	case lexer.TokenIdentifier:
		p.advance()
		return ast.NewIdentifier(tokenPos(tok), tok.Literal), nil
	case lexer.TokenPunct:
		switch tok.Literal {
		case "(":
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenPunct, ")", "')'"); err != nil {
				return nil, err
			}
			return expr, nil
		case "[":
			return p.parseArrayLiteral()
		}
	}
	return nil, p.errorf(tok, "unexpected token %s", describeToken(tok))
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	open := p.advance()
	elements := []ast.Expression{}
	for !p.check(lexer.TokenPunct, "]") {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if !p.match(lexer.TokenPunct, ",") {
			break
		}
	}
	if _, err := p.expect(lexer.TokenPunct, "]", "']' after array elements"); err != nil {
		return nil, err
	}
	return ast.NewArrayLiteral(tokenPos(open), elements), nil
}
