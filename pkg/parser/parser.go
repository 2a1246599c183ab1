// Package parser builds a syntax tree from a token sequence by recursive
// descent with precedence climbing. Parsing is fail-fast: the first
// structural violation aborts with a SyntaxError and no recovery is
// attempted.
package parser

import (
	"fmt"

	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/lexer"
)

// SyntaxError reports the first structural violation with the position of
// the offending token.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser consumes a token sequence produced by the lexer. It is single-use.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New prepares a parser over the given tokens. The sequence must be
// terminated by an EOF token, as the lexer guarantees.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses source text in one step.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

// ParseProgram parses the whole token sequence into a program node.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var body []ast.Statement
	for !p.atEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.NewProgram(body), nil
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) atEOF() bool {
	return p.current().Type == lexer.TokenEOF
}

func (p *Parser) check(typ lexer.TokenType, literal string) bool {
	tok := p.current()
	return tok.Type == typ && tok.Literal == literal
}

// match consumes the current token when it has the given type and literal.
func (p *Parser) match(typ lexer.TokenType, literal string) bool {
	if p.check(typ, literal) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token or fails with a SyntaxError built from
// the token's position.
func (p *Parser) expect(typ lexer.TokenType, literal, what string) (lexer.Token, error) {
	tok := p.current()
	if tok.Type != typ || tok.Literal != literal {
		return tok, p.errorf(tok, "expected %s, found %s", what, describeToken(tok))
	}
	return p.advance(), nil
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func describeToken(tok lexer.Token) string {
	if tok.Type == lexer.TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func tokenPos(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}
