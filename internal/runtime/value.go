package runtime

import (
	"fmt"
	"strings"
)

type Value interface{}

// Undefined is the guest "undefined" sentinel. It is distinct from nil,
// which plays the role of the guest null.
var Undefined Value = undefined{}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// IsUndefined reports whether a value is the undefined sentinel.
func IsUndefined(val Value) bool {
	_, ok := val.(undefined)
	return ok
}

// ValueType returns the type of a value as a string
func ValueType(val Value) string {
	switch val.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case string:
		return "string"
	case Scriptable:
		return "object"
	default:
		return "host"
	}
}

// IsTruthy returns whether a value is considered true
func IsTruthy(val Value) bool {
	switch v := val.(type) {
	case nil:
		return false
	case undefined:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0.0
	case string:
		return v != ""
	default:
		return true
	}
}

// DebugString renders a value for logs and the demo binary.
func DebugString(val Value) string {
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
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case string:
		return v
	case []Value:
		elems := make([]string, len(v))
		for i, elem := range v {
			elems[i] = DebugString(elem)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case Scriptable:
		return fmt.Sprintf("<%s>", v.ClassName())
	default:
		return fmt.Sprintf("%v", v)
	}
}
