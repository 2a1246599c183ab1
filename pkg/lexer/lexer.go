package lexer

import (
	"fmt"
	"strings"
)

// LexicalError reports an unlexable piece of source with its position.
type LexicalError struct {
	Line    int
	Column  int
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Lexer converts Pakhto source text into a token sequence. It is single-use:
// Tokenize consumes the input and is not restartable.
type Lexer struct {
	input   string
	pos     int // index of current char
	readPos int // index after current char
	ch      byte
	line    int
	column  int
}

// New prepares a lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input, returning the token sequence terminated by
// exactly one EOF token, or the first lexical error encountered.
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

// Tokenize scans until end of input or the first error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespaceAndComments()

	line := l.line
	column := l.column

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Line: line, Column: column}, nil
	case l.ch == '"' || l.ch == '\'':
		return l.readString(line, column)
	case isDigit(l.ch):
		return l.readNumber(line, column), nil
	case isIdentStart(l.ch):
		return l.readWord(line, column), nil
	}

	ch := l.ch
	switch ch {
	case '=', '!', '<', '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenOperator, Literal: string(ch) + "=", Line: line, Column: column}, nil
		}
		l.readChar()
		if ch == '!' {
			return Token{}, &LexicalError{Line: line, Column: column, Message: "unrecognized character '!'"}
		}
		return Token{Type: TokenOperator, Literal: string(ch), Line: line, Column: column}, nil
	case '+', '-', '*', '/', '%':
		l.readChar()
		return Token{Type: TokenOperator, Literal: string(ch), Line: line, Column: column}, nil
	case '(', ')', '{', '}', '[', ']', ',', '.', ';':
		l.readChar()
		return Token{Type: TokenPunct, Literal: string(ch), Line: line, Column: column}, nil
	}

	return Token{}, &LexicalError{Line: line, Column: column, Message: fmt.Sprintf("unrecognized character %q", string(ch))}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

// readString consumes a quoted literal. The opening quote character decides
// which character closes it; there is no escape processing.
func (l *Lexer) readString(line, column int) (Token, error) {
	quote := l.ch
	l.readChar()
	start := l.pos
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return Token{}, &LexicalError{Line: line, Column: column, Message: "unterminated string literal"}
		}
		l.readChar()
	}
	literal := l.input[start:l.pos]
	l.readChar()
	return Token{Type: TokenString, Literal: literal, Line: line, Column: column}, nil
}

// readNumber consumes a digit run with an optional single fractional part.
// There is no exponent notation; unary minus belongs to the parser.
func (l *Lexer) readNumber(line, column int) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: TokenNumber, Literal: l.input[start:l.pos], Line: line, Column: column}
}

// readWord consumes an identifier and reclassifies it when its lowercase
// form matches the keyword set or a word-form operator alias.
func (l *Lexer) readWord(line, column int) Token {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.pos]
	lower := strings.ToLower(word)
	if IsKeyword(lower) {
		return Token{Type: TokenKeyword, Literal: lower, Line: line, Column: column}
	}
	if op, ok := wordOperators[lower]; ok {
		return Token{Type: TokenOperator, Literal: op, Line: line, Column: column}
	}
	return Token{Type: TokenIdentifier, Literal: word, Line: line, Column: column}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}
