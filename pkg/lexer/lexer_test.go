package lexer

import "testing"

type wantToken struct {
	typ     TokenType
	literal string
	line    int
	column  int
}

func mustTokenize(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func checkTokens(t *testing.T, got []Token, want []wantToken) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count: got %d want %d (%v)", len(got), len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Type != w.typ || g.Literal != w.literal {
			t.Errorf("token %d: got %s %q want %s %q", i, g.Type, g.Literal, w.typ, w.literal)
		}
		if w.line != 0 && (g.Line != w.line || g.Column != w.column) {
			t.Errorf("token %d (%q): got position %d:%d want %d:%d", i, g.Literal, g.Line, g.Column, w.line, w.column)
		}
	}
}

func TestTokenizeArithmetic(t *testing.T) {
	toks := mustTokenize(t, "5 + 3")
	checkTokens(t, toks, []wantToken{
		{TokenNumber, "5", 1, 1},
		{TokenOperator, "+", 1, 3},
		{TokenNumber, "3", 1, 5},
		{TokenEOF, "", 1, 6},
	})
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"ko", "KO", "Ko"} {
		toks := mustTokenize(t, src)
		checkTokens(t, toks, []wantToken{
			{TokenKeyword, "ko", 0, 0},
			{TokenEOF, "", 0, 0},
		})
	}
}

func TestTokenizeWordOperators(t *testing.T) {
	toks := mustTokenize(t, "a JAMA b manfi c zarab d takseem e takseembaki f")
	want := []wantToken{
		{TokenIdentifier, "a", 0, 0},
		{TokenOperator, "+", 0, 0},
		{TokenIdentifier, "b", 0, 0},
		{TokenOperator, "-", 0, 0},
		{TokenIdentifier, "c", 0, 0},
		{TokenOperator, "*", 0, 0},
		{TokenIdentifier, "d", 0, 0},
		{TokenOperator, "/", 0, 0},
		{TokenIdentifier, "e", 0, 0},
		{TokenOperator, "%", 0, 0},
		{TokenIdentifier, "f", 0, 0},
		{TokenEOF, "", 0, 0},
	}
	checkTokens(t, toks, want)
}

func TestTokenizeUnderscoreConcat(t *testing.T) {
	toks := mustTokenize(t, `"a" _ "b"`)
	checkTokens(t, toks, []wantToken{
		{TokenString, "a", 0, 0},
		{TokenOperator, "_", 0, 0},
		{TokenString, "b", 0, 0},
		{TokenEOF, "", 0, 0},
	})
}

func TestTokenizeUnderscorePrefixedIdentifier(t *testing.T) {
	toks := mustTokenize(t, "_count = 1")
	checkTokens(t, toks, []wantToken{
		{TokenIdentifier, "_count", 0, 0},
		{TokenOperator, "=", 0, 0},
		{TokenNumber, "1", 0, 0},
		{TokenEOF, "", 0, 0},
	})
}

func TestTokenizeIdentifierPreservesCase(t *testing.T) {
	toks := mustTokenize(t, "myVar")
	if toks[0].Type != TokenIdentifier || toks[0].Literal != "myVar" {
		t.Fatalf("got %s %q", toks[0].Type, toks[0].Literal)
	}
}

func TestTokenizeComparisonOperators(t *testing.T) {
	toks := mustTokenize(t, "a == b != c <= d >= e < f > g")
	want := []wantToken{
		{TokenIdentifier, "a", 0, 0},
		{TokenOperator, "==", 0, 0},
		{TokenIdentifier, "b", 0, 0},
		{TokenOperator, "!=", 0, 0},
		{TokenIdentifier, "c", 0, 0},
		{TokenOperator, "<=", 0, 0},
		{TokenIdentifier, "d", 0, 0},
		{TokenOperator, ">=", 0, 0},
		{TokenIdentifier, "e", 0, 0},
		{TokenOperator, "<", 0, 0},
		{TokenIdentifier, "f", 0, 0},
		{TokenOperator, ">", 0, 0},
		{TokenIdentifier, "g", 0, 0},
		{TokenEOF, "", 0, 0},
	}
	checkTokens(t, toks, want)
}

func TestTokenizeStringsBothQuotes(t *testing.T) {
	toks := mustTokenize(t, `"salam" 'duniya'`)
	checkTokens(t, toks, []wantToken{
		{TokenString, "salam", 1, 1},
		{TokenString, "duniya", 1, 9},
		{TokenEOF, "", 1, 17},
	})
}

func TestTokenizeNumbers(t *testing.T) {
	toks := mustTokenize(t, "12 3.5 0.25")
	checkTokens(t, toks, []wantToken{
		{TokenNumber, "12", 0, 0},
		{TokenNumber, "3.5", 0, 0},
		{TokenNumber, "0.25", 0, 0},
		{TokenEOF, "", 0, 0},
	})
}

func TestTokenizeComments(t *testing.T) {
	src := "1 // salam\n// whole line\n2"
	toks := mustTokenize(t, src)
	checkTokens(t, toks, []wantToken{
		{TokenNumber, "1", 1, 1},
		{TokenNumber, "2", 3, 1},
		{TokenEOF, "", 3, 2},
	})
}

func TestTokenizeLineTracking(t *testing.T) {
	toks := mustTokenize(t, "a\n  b")
	checkTokens(t, toks, []wantToken{
		{TokenIdentifier, "a", 1, 1},
		{TokenIdentifier, "b", 2, 3},
		{TokenEOF, "", 2, 4},
	})
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"salam`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	lexErr, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("expected *LexicalError, got %T", err)
	}
	if lexErr.Line != 1 {
		t.Errorf("line: got %d want 1", lexErr.Line)
	}
}

func TestTokenizeStringStopsAtNewline(t *testing.T) {
	_, err := Tokenize("\"sa\nlam\"")
	if err == nil {
		t.Fatal("expected error for string interrupted by newline")
	}
}

func TestTokenizeUnrecognizedCharacter(t *testing.T) {
	_, err := Tokenize("a @ b")
	if err == nil {
		t.Fatal("expected error for unrecognized character")
	}
	lexErr, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("expected *LexicalError, got %T", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 3 {
		t.Errorf("position: got %d:%d want 1:3", lexErr.Line, lexErr.Column)
	}
}

func TestTokenizeBareBang(t *testing.T) {
	if _, err := Tokenize("!x"); err == nil {
		t.Fatal("expected error for bare !")
	}
}

func TestTokenizePunctuation(t *testing.T) {
	toks := mustTokenize(t, "(){}[],;")
	want := []wantToken{
		{TokenPunct, "(", 0, 0},
		{TokenPunct, ")", 0, 0},
		{TokenPunct, "{", 0, 0},
		{TokenPunct, "}", 0, 0},
		{TokenPunct, "[", 0, 0},
		{TokenPunct, "]", 0, 0},
		{TokenPunct, ",", 0, 0},
		{TokenPunct, ";", 0, 0},
		{TokenEOF, "", 0, 0},
	}
	checkTokens(t, toks, want)
}
