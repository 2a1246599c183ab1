package runtime

import (
	"fmt"

	"pakhto/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindArray
	KindFunction
	KindNativeFunction
	KindNil
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindNil:
		return "nil"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is the single numeric kind; all Pakhto numbers are 64-bit
// floats, including loop counters and array lengths.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

//-----------------------------------------------------------------------------
// Containers and callables
//-----------------------------------------------------------------------------

// ArrayValue is mutable and shared by reference: every alias of the same
// array observes in-place element mutation.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// FunctionValue pairs a function body with the environment active where the
// declaration appeared, so free variables resolve lexically.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    *ast.BlockStatement
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeFunctionValue wraps an evaluator-provided builtin. The evaluator
// supplies the call position so kind-mismatch failures can point at the call
// site.
type NativeFunctionValue struct {
	Name  string
	Arity int // -1 for variadic
	Fn    func(args []Value) (Value, error)
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Equality
//-----------------------------------------------------------------------------

// Equals implements the language's value equality: numbers numerically,
// strings by text, booleans by truth, arrays by length and pairwise element
// equality, functions by identity. Comparing values of differing kinds is
// not an error; it is simply false.
func Equals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case NilValue:
		return true
	case *ArrayValue:
		bv := b.(*ArrayValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
