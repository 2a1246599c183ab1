package interpreter

import (
	"context"
	"math"

	"pakhto/interpreter-go/pkg/ast"
	"pakhto/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateBinaryExpression(ctx context.Context, n *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case "_":
		// Concatenation is the one operator that never requires matching
		// kinds; both sides go through textual formatting.
		return runtime.StringValue{Val: FormatValue(left) + FormatValue(right)}, nil
	case "==":
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	}

	lnum, lok := left.(runtime.NumberValue)
	rnum, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, i.errorAt(n.Pos(), "operator '%s' requires number operands, got %s and %s",
			n.Operator, left.Kind(), right.Kind())
	}

	switch n.Operator {
	case "+":
		return runtime.NumberValue{Val: lnum.Val + rnum.Val}, nil
	case "-":
		return runtime.NumberValue{Val: lnum.Val - rnum.Val}, nil
	case "*":
		return runtime.NumberValue{Val: lnum.Val * rnum.Val}, nil
	case "/":
		if rnum.Val == 0 {
			return nil, i.errorAt(n.Pos(), "division by zero")
		}
		return runtime.NumberValue{Val: lnum.Val / rnum.Val}, nil
	case "%":
		if rnum.Val == 0 {
			return nil, i.errorAt(n.Pos(), "modulo by zero")
		}
		return runtime.NumberValue{Val: math.Mod(lnum.Val, rnum.Val)}, nil
	case ">":
		return runtime.BoolValue{Val: lnum.Val > rnum.Val}, nil
	case "<":
		return runtime.BoolValue{Val: lnum.Val < rnum.Val}, nil
	case ">=":
		return runtime.BoolValue{Val: lnum.Val >= rnum.Val}, nil
	case "<=":
		return runtime.BoolValue{Val: lnum.Val <= rnum.Val}, nil
	default:
		return nil, i.errorAt(n.Pos(), "unsupported operator '%s'", n.Operator)
	}
}
