package hostfunc

import (
	"reflect"
	"testing"

	"rove/internal/runtime"
)

func TestTypeTagOf(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		tag  TypeTag
	}{
		{"string", reflect.TypeOf(""), TagString},
		{"int", reflect.TypeOf(int(0)), TagInt},
		{"int32", reflect.TypeOf(int32(0)), TagInt},
		{"bool", reflect.TypeOf(true), TagBoolean},
		{"float64", reflect.TypeOf(float64(0)), TagDouble},
		{"scriptable iface", scriptableType, TagScriptable},
		{"scriptable impl", reflect.TypeOf(&runtime.ScriptableObject{}), TagScriptable},
		{"any", reflect.TypeOf((*interface{})(nil)).Elem(), TagObject},
		{"guest value", reflect.TypeOf((*runtime.Value)(nil)).Elem(), TagObject},
		{"int64", reflect.TypeOf(int64(0)), TagUnsupported},
		{"float32", reflect.TypeOf(float32(0)), TagUnsupported},
		{"slice", reflect.TypeOf([]string{}), TagUnsupported},
	}
	for _, tt := range tests {
		if got := TypeTagOf(tt.typ); got != tt.tag {
			t.Errorf("%s: TypeTagOf(%v) = %v, want %v", tt.name, tt.typ, got, tt.tag)
		}
	}
}

func TestConvertArg(t *testing.T) {
	cx := runtime.NewContext()
	scope := runtime.NewGlobalScope(cx)

	tests := []struct {
		name string
		arg  runtime.Value
		tag  TypeTag
		want runtime.Value
	}{
		{"string passthrough", "x", TagString, "x"},
		{"number to string", 3.5, TagString, "3.5"},
		{"undefined to string", runtime.Undefined, TagString, "undefined"},
		{"int passthrough", 7, TagInt, 7},
		{"double to int", 3.9, TagInt, 3},
		{"undefined to int", runtime.Undefined, TagInt, 0},
		{"bool passthrough", true, TagBoolean, true},
		{"string to bool", "yes", TagBoolean, true},
		{"double passthrough", 1.25, TagDouble, 1.25},
		{"int to double", 4, TagDouble, 4.0},
		{"object passthrough", "anything", TagObject, "anything"},
		{"undefined object", runtime.Undefined, TagObject, runtime.Undefined},
		{"null scriptable", nil, TagScriptable, nil},
		{"undefined scriptable", runtime.Undefined, TagScriptable, nil},
	}
	for _, tt := range tests {
		if got := ConvertArg(cx, scope, tt.arg, tt.tag); got != tt.want {
			t.Errorf("%s: ConvertArg(%v, %v) = %v, want %v", tt.name, tt.arg, tt.tag, got, tt.want)
		}
	}
}

func TestConvertArgBoxesPrimitiveToScriptable(t *testing.T) {
	cx := runtime.NewContext()
	scope := runtime.NewGlobalScope(cx)

	got := ConvertArg(cx, scope, 42.0, TagScriptable)
	wrapper, ok := got.(*runtime.HostWrapper)
	if !ok {
		t.Fatalf("ConvertArg(42.0, TagScriptable) = %T, want *runtime.HostWrapper", got)
	}
	if wrapper.Wrapped != 42.0 {
		t.Errorf("wrapped value = %v, want 42.0", wrapper.Wrapped)
	}
}
