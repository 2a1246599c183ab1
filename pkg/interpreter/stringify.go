package interpreter

import (
	"strconv"
	"strings"

	"pakhto/interpreter-go/pkg/runtime"
)

// FormatValue renders a value the way the language shows it to users: in
// olika output and on either side of the '_' concatenation operator.
// Numbers print without unnecessary trailing zeros, booleans as their
// keyword spellings.
func FormatValue(value runtime.Value) string {
	switch v := value.(type) {
	case runtime.NumberValue:
		return strconv.FormatFloat(v.Val, 'f', -1, 64)
	case runtime.StringValue:
		return v.Val
	case runtime.BoolValue:
		if v.Val {
			return "rishtia"
		}
		return "ghalat"
	case runtime.NilValue:
		return "nil"
	case *runtime.ArrayValue:
		parts := make([]string, len(v.Elements))
		for i, elem := range v.Elements {
			parts[i] = FormatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.FunctionValue:
		return "<opejana " + v.Name + ">"
	case *runtime.NativeFunctionValue:
		return "<builtin " + v.Name + ">"
	default:
		return "<unknown>"
	}
}
