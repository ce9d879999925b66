package runtime

// WrapFactory is the realm's policy for exposing foreign host values to
// guest code. Results of host routines with unsupported return types are
// routed through it.
type WrapFactory interface {
	Wrap(cx *Context, scope Scriptable, value interface{}) Value
}

// Context is the active realm: it carries the wrap policy and anchors the
// shared prototypes through the scope it is asked about. One Context serves
// one embedding; it is not tied to a goroutine.
type Context struct {
	wrap WrapFactory
}

// NewContext creates a realm with the default wrap policy.
func NewContext() *Context {
	return &Context{wrap: defaultWrapFactory{}}
}

// WrapFactory returns the realm's wrap policy.
func (cx *Context) WrapFactory() WrapFactory { return cx.wrap }

// SetWrapFactory replaces the realm's wrap policy.
func (cx *Context) SetWrapFactory(wf WrapFactory) {
	if wf != nil {
		cx.wrap = wf
	}
}

// HostWrapper is a guest object holding an opaque host value.
type HostWrapper struct {
	ScriptableObject
	Wrapped interface{}
}

// NewHostWrapper wraps a host value for guest consumption.
func NewHostWrapper(scope Scriptable, value interface{}) *HostWrapper {
	w := &HostWrapper{Wrapped: value}
	w.class = "HostObject"
	if scope != nil {
		w.SetParentScope(scope)
		w.SetPrototype(ObjectPrototype(scope))
	}
	return w
}

type defaultWrapFactory struct{}

// Wrap passes guest-representable values through untouched and boxes
// everything else in a HostWrapper.
func (defaultWrapFactory) Wrap(cx *Context, scope Scriptable, value interface{}) Value {
	switch v := value.(type) {
	case nil:
		return nil
	case undefined:
		return v
	case bool, int, float64, string:
		return v
	case Scriptable:
		return v
	default:
		return NewHostWrapper(scope, value)
	}
}

// NewGlobalScope builds a minimal top-level scope carrying the realm's
// generic Object constructor and prototype.
func NewGlobalScope(cx *Context) *ScriptableObject {
	global := NewScriptableObject("global")
	objectProto := NewScriptableObject("Object")
	objectCtor := NewScriptableObject("Function")
	objectCtor.DefineProperty("prototype", objectProto, AttrDontEnum|AttrReadOnly|AttrPermanent)
	objectProto.DefineProperty("constructor", objectCtor, AttrDontEnum)
	global.DefineProperty("Object", objectCtor, AttrDontEnum)
	return global
}
