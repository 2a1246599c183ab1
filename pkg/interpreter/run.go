package interpreter

import (
	"context"
	"io"
	"strings"

	"pakhto/interpreter-go/pkg/parser"
)

// Run tokenizes, parses, and executes source text in a fresh global scope.
// It returns whatever output accumulated before the first error, so a
// program that prints and then fails still reports its partial output. The
// returned error is a *lexer.LexicalError, *parser.SyntaxError,
// *RuntimeError, or the context's error when the host cancelled the run.
func Run(ctx context.Context, source string, input InputProvider) (string, error) {
	var out strings.Builder
	program, err := parser.Parse(source)
	if err != nil {
		return "", err
	}
	err = New(&out, input).Execute(ctx, program)
	return out.String(), err
}

// Session executes multiple sources in one shared global scope, in order.
// Declarations made by earlier sources are visible to later ones, which is
// how dependency setup scripts provide functions to an entry script.
type Session struct {
	interp *Interpreter
}

// NewSession creates a session writing output to out as it is produced.
func NewSession(out io.Writer, input InputProvider) *Session {
	return &Session{interp: New(out, input)}
}

// Execute parses and runs one source in the session's global scope.
func (s *Session) Execute(ctx context.Context, source string) error {
	program, err := parser.Parse(source)
	if err != nil {
		return err
	}
	return s.interp.Execute(ctx, program)
}

// Interpreter exposes the session's interpreter, mainly so hosts can reach
// the global environment.
func (s *Session) Interpreter() *Interpreter {
	return s.interp
}
