package parser

import (
	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.current()
	if tok.Type == lexer.TokenKeyword {
		switch tok.Literal {
		case "opejana":
			return p.parseFunctionDeclaration()
		case "ko":
			return p.parseIfStatement()
		case "kala":
			return p.parseWhileStatement()
		case "che":
			return p.parseForInStatement()
		case "raka":
			return p.parseReturnStatement()
		}
	}
	if p.check(lexer.TokenPunct, "{") {
		return p.parseBlock()
	}
	return p.parseExpressionStatement()
}

// opejana name(param, ...) { ... }
func (p *Parser) parseFunctionDeclaration() (ast.Statement, error) {
	kw := p.advance()
	nameTok := p.current()
	if nameTok.Type != lexer.TokenIdentifier {
		return nil, p.errorf(nameTok, "expected function name after 'opejana', found %s", describeToken(nameTok))
	}
	p.advance()
	if _, err := p.expect(lexer.TokenPunct, "(", "'(' after function name"); err != nil {
		return nil, err
	}
	params := []string{}
	for !p.check(lexer.TokenPunct, ")") {
		paramTok := p.current()
		if paramTok.Type != lexer.TokenIdentifier {
			return nil, p.errorf(paramTok, "expected parameter name, found %s", describeToken(paramTok))
		}
		p.advance()
		params = append(params, paramTok.Literal)
		if !p.match(lexer.TokenPunct, ",") {
			break
		}
	}
	if _, err := p.expect(lexer.TokenPunct, ")", "')' after parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDeclaration(tokenPos(kw), nameTok.Literal, params, body), nil
}

// ko (test) { ... } [geni { ... }]
func (p *Parser) parseIfStatement() (ast.Statement, error) {
	kw := p.advance()
	test, err := p.parseParenExpression("'ko'")
	if err != nil {
		return nil, err
	}
	consequent, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var alternate *ast.BlockStatement
	if p.match(lexer.TokenKeyword, "geni") {
		alternate, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(tokenPos(kw), test, consequent, alternate), nil
}

// kala (test) { ... }
func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	kw := p.advance()
	test, err := p.parseParenExpression("'kala'")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(tokenPos(kw), test, body), nil
}

// che (name we iterable) { ... }
func (p *Parser) parseForInStatement() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.expect(lexer.TokenPunct, "(", "'(' after 'che'"); err != nil {
		return nil, err
	}
	nameTok := p.current()
	if nameTok.Type != lexer.TokenIdentifier {
		return nil, p.errorf(nameTok, "expected loop variable name, found %s", describeToken(nameTok))
	}
	p.advance()
	if _, err := p.expect(lexer.TokenKeyword, "we", "'we' after loop variable"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenPunct, ")", "')' after loop iterable"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewForInStatement(tokenPos(kw), nameTok.Literal, iterable, body), nil
}

// raka [expr] [;]  — the argument is omitted when '}' or ';' follows.
func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	kw := p.advance()
	var argument ast.Expression
	if !p.check(lexer.TokenPunct, ";") && !p.check(lexer.TokenPunct, "}") && !p.atEOF() {
		var err error
		argument, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.match(lexer.TokenPunct, ";")
	return ast.NewReturnStatement(tokenPos(kw), argument), nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	open, err := p.expect(lexer.TokenPunct, "{", "'{'")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for !p.check(lexer.TokenPunct, "}") {
		if p.atEOF() {
			return nil, p.errorf(p.current(), "expected '}' to close block, found end of input")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance()
	return ast.NewBlockStatement(tokenPos(open), body), nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	tok := p.current()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(lexer.TokenPunct, ";")
	return ast.NewExpressionStatement(tokenPos(tok), expr), nil
}

func (p *Parser) parseParenExpression(after string) (ast.Expression, error) {
	if _, err := p.expect(lexer.TokenPunct, "(", "'(' after "+after); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenPunct, ")", "')' after condition"); err != nil {
		return nil, err
	}
	return expr, nil
}
