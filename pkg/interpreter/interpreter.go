// Package interpreter executes Pakhto syntax trees: a tree-walking
// evaluator over a chain of lexical environments, with builtins resolved by
// the evaluator itself and a single suspension point for external input.
package interpreter

import (
	"context"
	"fmt"
	"io"

	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/runtime"
)

// RuntimeError reports an evaluation failure with the position of the node
// that caused it.
type RuntimeError struct {
	Line    int
	Column  int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// InputProvider supplies one line of externally collected text. The
// evaluator invokes it at most once at a time, only from the input builtin.
type InputProvider func(ctx context.Context) (string, error)

// Interpreter drives evaluation of Pakhto AST nodes. Output is written to
// out as it is produced; each interpreter owns its own global environment,
// so separate instances never share state.
type Interpreter struct {
	global   *runtime.Environment
	out      io.Writer
	input    InputProvider
	builtins map[string]builtin
}

// New returns an interpreter with an empty global environment writing to
// out. input may be nil when the program is known not to request input.
func New(out io.Writer, input InputProvider) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		out:    out,
		input:  input,
	}
	i.builtins = newBuiltins(i)
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Execute runs a program's top-level statements in order in the global
// environment. The context is checked at loop and call boundaries so a host
// can abort a runaway script.
func (i *Interpreter) Execute(ctx context.Context, program *ast.Program) error {
	for _, stmt := range program.Body {
		if err := i.evaluateStatement(ctx, stmt, i.global); err != nil {
			if ret, ok := err.(returnSignal); ok {
				return &RuntimeError{Line: ret.pos.Line, Column: ret.pos.Column, Message: "return outside function"}
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateStatement(ctx context.Context, node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case ast.Expression:
		_, err := i.evaluateExpression(ctx, n, env)
		return err
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(ctx, n.Expression, env)
		return err
	case *ast.FunctionDeclaration:
		return i.evaluateFunctionDeclaration(n, env)
	case *ast.IfStatement:
		return i.evaluateIfStatement(ctx, n, env)
	case *ast.WhileStatement:
		return i.evaluateWhileStatement(ctx, n, env)
	case *ast.ForInStatement:
		return i.evaluateForInStatement(ctx, n, env)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(ctx, n, env)
	case *ast.BlockStatement:
		// A bare block introduces no scope of its own; only control
		// statements and function bodies do.
		return i.evaluateBlock(ctx, n, env)
	default:
		return fmt.Errorf("unsupported statement %T", node)
	}
}

// evaluateBlock runs statements in the given environment. Scope creation is
// the caller's responsibility: control statements pass a fresh child scope,
// signal unwinds pass through untouched.
func (i *Interpreter) evaluateBlock(ctx context.Context, block *ast.BlockStatement, env *runtime.Environment) error {
	for _, stmt := range block.Body {
		if err := i.evaluateStatement(ctx, stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// The closure environment is captured here, at the point of declaration.
func (i *Interpreter) evaluateFunctionDeclaration(n *ast.FunctionDeclaration, env *runtime.Environment) error {
	fn := &runtime.FunctionValue{
		Name:    n.Name,
		Params:  n.Params,
		Body:    n.Body,
		Closure: env,
	}
	env.Define(n.Name, fn)
	return nil
}

func (i *Interpreter) evaluateIfStatement(ctx context.Context, n *ast.IfStatement, env *runtime.Environment) error {
	test, err := i.evaluateExpression(ctx, n.Test, env)
	if err != nil {
		return err
	}
	cond, ok := test.(runtime.BoolValue)
	if !ok {
		return i.errorAt(n.Test.Pos(), "condition of 'ko' must be a boolean, got %s", test.Kind())
	}
	if cond.Val {
		return i.evaluateBlock(ctx, n.Consequent, env.Extend())
	}
	if n.Alternate != nil {
		return i.evaluateBlock(ctx, n.Alternate, env.Extend())
	}
	return nil
}

func (i *Interpreter) evaluateWhileStatement(ctx context.Context, n *ast.WhileStatement, env *runtime.Environment) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		test, err := i.evaluateExpression(ctx, n.Test, env)
		if err != nil {
			return err
		}
		cond, ok := test.(runtime.BoolValue)
		if !ok {
			return i.errorAt(n.Test.Pos(), "condition of 'kala' must be a boolean, got %s", test.Kind())
		}
		if !cond.Val {
			return nil
		}
		if err := i.evaluateBlock(ctx, n.Body, env.Extend()); err != nil {
			return err
		}
	}
}

// The iterable is evaluated once; each iteration binds the loop variable in
// a fresh scope so closures made inside the body capture distinct bindings.
func (i *Interpreter) evaluateForInStatement(ctx context.Context, n *ast.ForInStatement, env *runtime.Environment) error {
	iterable, err := i.evaluateExpression(ctx, n.Iterable, env)
	if err != nil {
		return err
	}
	arr, ok := iterable.(*runtime.ArrayValue)
	if !ok {
		return i.errorAt(n.Iterable.Pos(), "'che' expects an array to iterate, got %s", iterable.Kind())
	}
	for _, element := range arr.Elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		iterEnv := env.Extend()
		iterEnv.Define(n.Variable, element)
		if err := i.evaluateBlock(ctx, n.Body, iterEnv); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateReturnStatement(ctx context.Context, n *ast.ReturnStatement, env *runtime.Environment) error {
	var value runtime.Value = runtime.NilValue{}
	if n.Argument != nil {
		result, err := i.evaluateExpression(ctx, n.Argument, env)
		if err != nil {
			return err
		}
		value = result
	}
	return returnSignal{value: value, pos: n.Pos()}
}

func (i *Interpreter) evaluateExpression(ctx context.Context, node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Identifier:
		value, err := env.Get(n.Name)
		if err != nil {
			return nil, i.errorAt(n.Pos(), "undefined variable '%s'", n.Name)
		}
		return value, nil
	case *ast.ArrayLiteral:
		return i.evaluateArrayLiteral(ctx, n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(ctx, n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(ctx, n, env)
	case *ast.CallExpression:
		return i.evaluateCall(ctx, n, env)
	default:
		return nil, fmt.Errorf("unsupported expression %T", node)
	}
}

func (i *Interpreter) evaluateArrayLiteral(ctx context.Context, n *ast.ArrayLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(n.Elements))
	for _, elemExpr := range n.Elements {
		value, err := i.evaluateExpression(ctx, elemExpr, env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, value)
	}
	return &runtime.ArrayValue{Elements: elements}, nil
}

// Assignment mutates the nearest enclosing binding of the name, or creates
// the binding in the current scope when the name is unbound anywhere.
func (i *Interpreter) evaluateAssignment(ctx context.Context, n *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	if _, ok := i.builtins[n.Target]; ok {
		return nil, i.errorAt(n.Pos(), "cannot assign to builtin '%s'", n.Target)
	}
	value, err := i.evaluateExpression(ctx, n.Value, env)
	if err != nil {
		return nil, err
	}
	env.Set(n.Target, value)
	return value, nil
}

func (i *Interpreter) evaluateCall(ctx context.Context, n *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	// Builtins win over environment bindings for bare-identifier callees,
	// which is what makes them non-reassignable.
	if id, ok := n.Callee.(*ast.Identifier); ok {
		if fn, ok := i.builtins[id.Name]; ok {
			args, err := i.evaluateArguments(ctx, n.Arguments, env)
			if err != nil {
				return nil, err
			}
			return fn(ctx, n.Pos(), args)
		}
	}

	callee, err := i.evaluateExpression(ctx, n.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(ctx, n.Arguments, env)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(ctx, fn, args)
	case *runtime.NativeFunctionValue:
		result, err := fn.Fn(args)
		if err != nil {
			return nil, i.errorAt(n.Pos(), "%s: %v", fn.Name, err)
		}
		return result, nil
	default:
		return nil, i.errorAt(n.Pos(), "value of kind %s is not callable", callee.Kind())
	}
}

func (i *Interpreter) evaluateArguments(ctx context.Context, exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, argExpr := range exprs {
		value, err := i.evaluateExpression(ctx, argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return args, nil
}

// invokeFunction binds arguments positionally with loose arity: missing
// trailing arguments bind to nil, extra arguments were already evaluated
// for effect and are dropped.
func (i *Interpreter) invokeFunction(ctx context.Context, fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	localEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		if idx < len(args) {
			localEnv.Define(param, args[idx])
		} else {
			localEnv.Define(param, runtime.NilValue{})
		}
	}
	if err := i.evaluateBlock(ctx, fn.Body, localEnv); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) errorAt(pos ast.Position, format string, args ...any) error {
	return &RuntimeError{Line: pos.Line, Column: pos.Column, Message: fmt.Sprintf(format, args...)}
}

// returnSignal unwinds a function body back to its call site. It travels the
// error path so intervening blocks and loops do not observe it as an
// outcome of their own.
type returnSignal struct {
	value runtime.Value
	pos   ast.Position
}

func (r returnSignal) Error() string {
	return "return outside function"
}
