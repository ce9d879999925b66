package hostfunc

import (
	"fmt"
	"reflect"

	"rove/internal/runtime"
)

// TypeTag classifies a host parameter or return type for coercion.
type TypeTag int

const (
	TagUnsupported TypeTag = iota
	TagString
	TagInt
	TagBoolean
	TagDouble
	TagScriptable
	TagObject
)

func (t TypeTag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagInt:
		return "int"
	case TagBoolean:
		return "boolean"
	case TagDouble:
		return "double"
	case TagScriptable:
		return "scriptable"
	case TagObject:
		return "object"
	default:
		return "unsupported"
	}
}

var (
	contextType    = reflect.TypeOf((*runtime.Context)(nil))
	scriptableType = reflect.TypeOf((*runtime.Scriptable)(nil)).Elem()
	valueSliceType = reflect.TypeOf([]runtime.Value(nil))
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	boolType       = reflect.TypeOf(true)
)

// TypeTagOf maps a host type to its coercion tag. int64 is deliberately
// unsupported: the guest stores numbers as float64, which cannot hold every
// 64-bit integer.
func TypeTagOf(t reflect.Type) TypeTag {
	switch t.Kind() {
	case reflect.String:
		return TagString
	case reflect.Int, reflect.Int32:
		return TagInt
	case reflect.Bool:
		return TagBoolean
	case reflect.Float64:
		return TagDouble
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return TagObject
		}
		if t.Implements(scriptableType) || t == scriptableType {
			return TagScriptable
		}
		return TagUnsupported
	default:
		if t.Implements(scriptableType) {
			return TagScriptable
		}
		return TagUnsupported
	}
}

// ConvertArg coerces one guest argument to the host representation named by
// the tag. Values already in the exact representation pass through untouched.
func ConvertArg(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value, tag TypeTag) runtime.Value {
	switch tag {
	case TagString:
		if _, ok := arg.(string); ok {
			return arg
		}
		return runtime.ToString(arg)
	case TagInt:
		if _, ok := arg.(int); ok {
			return arg
		}
		return runtime.ToInt32(arg)
	case TagBoolean:
		if _, ok := arg.(bool); ok {
			return arg
		}
		return runtime.ToBoolean(arg)
	case TagDouble:
		if _, ok := arg.(float64); ok {
			return arg
		}
		return runtime.ToNumber(arg)
	case TagScriptable:
		obj := runtime.ToObjectOrNull(cx, arg, scope)
		if obj == nil {
			return nil
		}
		return obj
	case TagObject:
		return arg
	default:
		panic(fmt.Sprintf("hostfunc: convert with tag %v", tag))
	}
}
