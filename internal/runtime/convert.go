package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToString converts a guest value to its string form.
func ToString(val Value) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case Scriptable:
		return fmt.Sprintf("[object %s]", v.ClassName())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToNumber converts a guest value to a float64
func ToNumber(val Value) float64 {
	switch v := val.(type) {
	case nil:
		return 0
	case undefined:
		return math.NaN()
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return float64(v)
	case float64:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToInt32 converts a guest value to a 32-bit integer, wrapping modulo 2^32.
// NaN and the infinities convert to zero.
func ToInt32(val Value) int {
	if i, ok := val.(int); ok {
		return int(int32(i))
	}
	f := ToNumber(val)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(int32(uint32(int64(math.Trunc(f)))))
}

// ToBoolean converts a guest value to a boolean.
func ToBoolean(val Value) bool {
	if b, ok := val.(bool); ok {
		return b
	}
	return IsTruthy(val)
}

// ToObjectOrNull converts a guest value to a Scriptable in the given scope.
// Null and undefined convert to nil; primitives are boxed via the realm's
// wrap policy.
func ToObjectOrNull(cx *Context, val Value, scope Scriptable) Scriptable {
	switch v := val.(type) {
	case nil:
		return nil
	case undefined:
		return nil
	case Scriptable:
		return v
	default:
		wrapped := cx.WrapFactory().Wrap(cx, scope, val)
		if s, ok := wrapped.(Scriptable); ok {
			return s
		}
		return NewHostWrapper(scope, val)
	}
}
