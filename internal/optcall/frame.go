// Package optcall holds the activation-record side of optimized calls: the
// invocation frame owning live parameter storage, and the arguments
// pseudo-array guest code sees.
package optcall

import "rove/internal/runtime"

// Frame is the accessor pair an invocation frame exposes to its arguments
// view. Optimized-code generators implement it over whatever storage their
// activations actually read.
type Frame interface {
	GetArgument(index int) runtime.Value
	PutArgument(index int, value runtime.Value)
}

// Activation is the reference invocation frame: one per call of an optimized
// routine, owning the live parameter slots. It is created at call entry,
// discarded at call end, and touched only by the thread owning the
// activation.
type Activation struct {
	runtime.ScriptableObject

	callee    runtime.Value
	slots     []runtime.Value
	Arguments *ArgumentsView
}

// NewActivation builds the frame for one invocation, given the invoked
// callable, the enclosing lexical scope, and the raw positional arguments
// captured at call time.
func NewActivation(callee runtime.Value, parentScope runtime.Scriptable, args []runtime.Value) *Activation {
	a := &Activation{
		callee: callee,
		slots:  append([]runtime.Value(nil), args...),
	}
	a.SetParentScope(parentScope)
	a.Arguments = NewArgumentsView(a, callee, parentScope, args)
	return a
}

func (a *Activation) ClassName() string { return "Call" }

// GetArgument reads the live parameter slot.
func (a *Activation) GetArgument(index int) runtime.Value {
	return a.slots[index]
}

// PutArgument writes the live parameter slot; a later in-routine read of the
// parameter observes the write.
func (a *Activation) PutArgument(index int, value runtime.Value) {
	a.slots[index] = value
}
