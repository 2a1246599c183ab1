package interpreter

import (
	"context"
	"io"
	"math"
	"strings"

	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/runtime"
)

// builtin is a callable implemented by the evaluator itself. Builtins are
// dispatched by name before environment lookup, so they cannot be shadowed
// or reassigned from the language.
type builtin func(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error)

func newBuiltins(i *Interpreter) map[string]builtin {
	return map[string]builtin{
		"olika":        i.builtinOlika,
		"oghwara":      i.builtinOghwara,
		"jorkanumbers": i.builtinJorkanumbers,
		"oshmara":      i.builtinOshmara,
		"max":          i.builtinMax,
		"min":          i.builtinMin,
		"abs":          i.builtinAbs,
	}
}

// olika prints the textual form of every argument, nothing in between, and
// one trailing newline. olika() prints a bare newline.
func (i *Interpreter) builtinOlika(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(FormatValue(arg))
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(i.out, sb.String()); err != nil {
		return nil, err
	}
	return runtime.NilValue{}, nil
}

// oghwara writes the prompt without a newline and suspends until the input
// provider resolves with one line of text.
func (i *Interpreter) builtinOghwara(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, i.errorAt(pos, "oghwara expects one prompt argument, got %d", len(args))
	}
	prompt, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, i.errorAt(pos, "oghwara expects a string prompt, got %s", args[0].Kind())
	}
	if i.input == nil {
		return nil, i.errorAt(pos, "input is not available in this run")
	}
	if _, err := io.WriteString(i.out, prompt.Val); err != nil {
		return nil, err
	}
	line, err := i.input(ctx)
	if err != nil {
		return nil, err
	}
	return runtime.StringValue{Val: line}, nil
}

// jorkanumbers builds the array of consecutive integers in [start, end).
func (i *Interpreter) builtinJorkanumbers(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	nums, err := i.numberArgs("jorkanumbers", pos, args)
	if err != nil {
		return nil, err
	}
	if len(nums) != 2 {
		return nil, i.errorAt(pos, "jorkanumbers expects two arguments, got %d", len(args))
	}
	start, end := nums[0], nums[1]
	var elements []runtime.Value
	for v := start; v < end; v++ {
		elements = append(elements, runtime.NumberValue{Val: v})
	}
	return &runtime.ArrayValue{Elements: elements}, nil
}

func (i *Interpreter) builtinOshmara(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, i.errorAt(pos, "oshmara expects one argument, got %d", len(args))
	}
	arr, ok := args[0].(*runtime.ArrayValue)
	if !ok {
		return nil, i.errorAt(pos, "oshmara expects an array, got %s", args[0].Kind())
	}
	return runtime.NumberValue{Val: float64(len(arr.Elements))}, nil
}

func (i *Interpreter) builtinMax(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	nums, err := i.numberArgs("max", pos, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, i.errorAt(pos, "max expects at least one argument")
	}
	best := nums[0]
	for _, v := range nums[1:] {
		best = math.Max(best, v)
	}
	return runtime.NumberValue{Val: best}, nil
}

func (i *Interpreter) builtinMin(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	nums, err := i.numberArgs("min", pos, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return nil, i.errorAt(pos, "min expects at least one argument")
	}
	best := nums[0]
	for _, v := range nums[1:] {
		best = math.Min(best, v)
	}
	return runtime.NumberValue{Val: best}, nil
}

func (i *Interpreter) builtinAbs(ctx context.Context, pos ast.Position, args []runtime.Value) (runtime.Value, error) {
	nums, err := i.numberArgs("abs", pos, args)
	if err != nil {
		return nil, err
	}
	if len(nums) != 1 {
		return nil, i.errorAt(pos, "abs expects one argument, got %d", len(args))
	}
	return runtime.NumberValue{Val: math.Abs(nums[0])}, nil
}

func (i *Interpreter) numberArgs(name string, pos ast.Position, args []runtime.Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for idx, arg := range args {
		n, ok := arg.(runtime.NumberValue)
		if !ok {
			return nil, i.errorAt(pos, "%s expects number arguments, got %s", name, arg.Kind())
		}
		nums[idx] = n.Val
	}
	return nums, nil
}
