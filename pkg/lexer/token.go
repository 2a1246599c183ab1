package lexer

import "fmt"

// TokenType classifies a lexical token.
type TokenType int

const (
	TokenNumber TokenType = iota
	TokenString
	TokenIdentifier
	TokenKeyword
	TokenOperator
	TokenPunct
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdentifier:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	case TokenPunct:
		return "punctuation"
	case TokenEOF:
		return "end of input"
	default:
		return fmt.Sprintf("unknown_token_%d", int(t))
	}
}

// Token is the minimal lexical unit: a kind, its literal text, and the
// 1-based source position of its first character.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}

// keywords are matched case-insensitively and normalized to lowercase.
var keywords = map[string]struct{}{
	"opejana": {}, // function declaration
	"ko":      {}, // if
	"geni":    {}, // else
	"kala":    {}, // while
	"che":     {}, // for-in
	"we":      {}, // for-in separator
	"raka":    {}, // return
	"rishtia": {}, // true
	"ghalat":  {}, // false
}

// wordOperators maps word-form operator aliases (also case-insensitive) to
// their canonical symbol spelling. A bare underscore scans as an identifier
// and lands here, which is how the concatenation operator is recognized.
var wordOperators = map[string]string{
	"jama":        "+",
	"manfi":       "-",
	"zarab":       "*",
	"takseem":     "/",
	"takseembaki": "%",
	"_":           "_",
}

// IsKeyword reports whether the lowercased word is a reserved keyword.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
