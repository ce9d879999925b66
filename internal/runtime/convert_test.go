package runtime

import (
	"math"
	"testing"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"null", nil, "null"},
		{"undefined", Undefined, "undefined"},
		{"true", true, "true"},
		{"int", 42, "42"},
		{"integral double", 3.0, "3"},
		{"fractional double", 3.5, "3.5"},
		{"negative zero keeps sign", math.Copysign(0, -1), "-0"},
		{"nan", math.NaN(), "NaN"},
		{"infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
		{"string", "hi", "hi"},
	}
	for _, tt := range tests {
		if got := ToString(tt.val); got != tt.want {
			t.Errorf("%s: ToString(%v) = %q, want %q", tt.name, tt.val, got, tt.want)
		}
	}

	obj := NewScriptableObject("Widget")
	if got := ToString(obj); got != "[object Widget]" {
		t.Errorf("ToString(object) = %q", got)
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want float64
	}{
		{"null", nil, 0},
		{"false", false, 0},
		{"true", true, 1},
		{"int", 7, 7},
		{"double", 2.5, 2.5},
		{"numeric string", " 12.5 ", 12.5},
		{"empty string", "", 0},
	}
	for _, tt := range tests {
		if got := ToNumber(tt.val); got != tt.want {
			t.Errorf("%s: ToNumber(%v) = %v, want %v", tt.name, tt.val, got, tt.want)
		}
	}
	if !math.IsNaN(ToNumber(Undefined)) {
		t.Error("ToNumber(undefined) is not NaN")
	}
	if !math.IsNaN(ToNumber("not a number")) {
		t.Error("ToNumber(garbage string) is not NaN")
	}
}

func TestToInt32(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want int
	}{
		{"int passthrough", 5, 5},
		{"truncates", 3.9, 3},
		{"truncates toward zero", -3.9, -3},
		{"nan", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"undefined", Undefined, 0},
		{"wraps modulo 2^32", 4294967296.0, 0},
		{"wraps into negative", 2147483648.0, -2147483648},
		{"string", "41", 41},
	}
	for _, tt := range tests {
		if got := ToInt32(tt.val); got != tt.want {
			t.Errorf("%s: ToInt32(%v) = %d, want %d", tt.name, tt.val, got, tt.want)
		}
	}
}

func TestToBoolean(t *testing.T) {
	truthy := []Value{true, 1.0, "x", NewScriptableObject("T")}
	falsy := []Value{false, nil, Undefined, 0.0, math.NaN(), ""}
	for _, v := range truthy {
		if !ToBoolean(v) {
			t.Errorf("ToBoolean(%v) = false, want true", v)
		}
	}
	for _, v := range falsy {
		if ToBoolean(v) {
			t.Errorf("ToBoolean(%v) = true, want false", v)
		}
	}
}

func TestToObjectOrNull(t *testing.T) {
	cx := NewContext()
	scope := NewGlobalScope(cx)

	if ToObjectOrNull(cx, nil, scope) != nil {
		t.Error("null did not convert to nil")
	}
	if ToObjectOrNull(cx, Undefined, scope) != nil {
		t.Error("undefined did not convert to nil")
	}
	obj := NewScriptableObject("T")
	if ToObjectOrNull(cx, obj, scope) != Scriptable(obj) {
		t.Error("scriptable did not pass through")
	}
	boxed := ToObjectOrNull(cx, "primitive", scope)
	wrapper, ok := boxed.(*HostWrapper)
	if !ok {
		t.Fatalf("primitive boxed to %T, want *HostWrapper", boxed)
	}
	if wrapper.Wrapped != "primitive" {
		t.Errorf("wrapped = %v", wrapper.Wrapped)
	}
}
