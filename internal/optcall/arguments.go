package optcall

import "rove/internal/runtime"

// ArgumentsView is the guest-visible "arguments" pseudo-array over one
// invocation frame. Its length is snapshotted at construction and never
// changes; in-range indexed access delegates live through the frame's
// accessor pair, so reads observe in-progress parameter mutation by the
// routine. Everything outside [0, length) is ordinary expando storage.
type ArgumentsView struct {
	runtime.ScriptableObject

	frame       Frame
	callee      runtime.Value
	length      int
	constructor runtime.Value
}

// NewArgumentsView wraps the frame for one invocation.
func NewArgumentsView(frame Frame, callee runtime.Value, parentScope runtime.Scriptable, args []runtime.Value) *ArgumentsView {
	v := &ArgumentsView{
		frame:  frame,
		callee: callee,
		length: len(args),
	}
	v.SetParentScope(parentScope)
	if parentScope != nil {
		v.constructor = runtime.GetTopScopeValue(parentScope, "Object")
		v.SetPrototype(runtime.ObjectPrototype(parentScope))
	}
	return v
}

func (v *ArgumentsView) ClassName() string { return "Arguments" }

// Length reports the argument count captured at construction.
func (v *ArgumentsView) Length() int { return v.length }

func (v *ArgumentsView) Get(name string) (runtime.Value, bool) {
	switch name {
	case "length":
		return v.length, true
	case "constructor":
		return v.constructor, true
	case "callee":
		return v.callee, true
	}
	return v.ScriptableObject.Get(name)
}

func (v *ArgumentsView) GetIndex(index int) (runtime.Value, bool) {
	if index < 0 || index >= v.length {
		return v.ScriptableObject.GetIndex(index)
	}
	return v.frame.GetArgument(index), true
}

func (v *ArgumentsView) PutIndex(index int, value runtime.Value) {
	if index < 0 || index >= v.length {
		v.ScriptableObject.PutIndex(index, value)
		return
	}
	v.frame.PutArgument(index, value)
}

func (v *ArgumentsView) HasIndex(index int) bool {
	if index >= 0 && index < v.length {
		return true
	}
	return v.ScriptableObject.HasIndex(index)
}

// Ids returns the dense integer set [0, length), regardless of prior reads,
// writes or expando overwrites.
func (v *ArgumentsView) Ids() []runtime.Value {
	ids := make([]runtime.Value, v.length)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
