package hostfunc

import (
	"reflect"

	"rove/internal/errors"
	"rove/internal/runtime"
)

// Kind is the calling convention a binding was classified into.
type Kind int

const (
	KindFixedArity Kind = iota
	KindVarargsMethod
	KindVarargsCtor
)

// Callable is the bound-callable surface the engine consumes. Specialized
// thunks satisfy it too; they differ from HostFunction only in call overhead.
type Callable interface {
	runtime.Scriptable
	Call(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (runtime.Value, error)
	Arity() int
	FunctionName() string
	CreateObject(cx *runtime.Context, scope runtime.Scriptable) (runtime.Scriptable, error)
	AddAsConstructor(scope, prototype runtime.Scriptable)
}

// The varargs calling conventions. Both shapes have exactly four parameters
// and give the routine raw access to the call instead of per-parameter typed
// binding. Either may return a bare value or a (value, error) pair.
//
// Method shape, declared static; the engine passes the receiver at call time:
//
//	func(cx *runtime.Context, thisObj runtime.Scriptable, args []runtime.Value, funObj Callable) runtime.Value
//
// Constructor shape, declared static; inNewExpr is true iff no receiver:
//
//	func(cx *runtime.Context, args []runtime.Value, ctorObj Callable, inNewExpr bool) runtime.Value
var callableType = reflect.TypeOf((*Callable)(nil)).Elem()

// HostFunction is a guest-visible callable forwarding to one host routine.
// It is built once at bind time, immutable afterwards, and reused across
// calls.
type HostFunction struct {
	runtime.ScriptableObject

	name          string
	member        *Member
	kind          Kind
	paramCount    int
	typeTags      []TypeTag
	returnTag     TypeTag
	hasVoidReturn bool

	// self is the outermost callable: the specialized thunk when one was
	// generated, otherwise this object. It is what varargs routines and the
	// constructor property see.
	self Callable
}

var emptyArgs = []runtime.Value{}

// New validates the routine's signature and binds it under the exposed name.
// The enclosing scope becomes the function's parent scope.
func New(name string, member *Member, scope runtime.Scriptable) (*HostFunction, error) {
	f := &HostFunction{name: name, member: member}
	f.self = f

	if member.resultCount() > 1 {
		return nil, errors.New(errors.SignatureError,
			"routine %s returns %d values; at most one result plus an error is supported",
			member.Name, member.resultCount()).WithFunction(name)
	}

	types := member.ArgTypes
	arity := len(types)
	if arity == 4 && (types[1] == valueSliceType || types[2] == valueSliceType) {
		// Either variable args or an error.
		if types[1] == valueSliceType {
			if err := checkVarargsCtorShape(member); err != nil {
				return nil, err.WithFunction(name)
			}
			f.kind = KindVarargsCtor
		} else {
			if err := checkVarargsMethodShape(member); err != nil {
				return nil, err.WithFunction(name)
			}
			f.kind = KindVarargsMethod
		}
	} else {
		f.kind = KindFixedArity
		f.paramCount = arity
		if arity > 0 {
			f.typeTags = make([]TypeTag, arity)
			for i, t := range types {
				tag := TypeTagOf(t)
				if tag == TagUnsupported {
					return nil, errors.New(errors.SignatureError,
						"parameter %d of routine %s has unsupported type %s",
						i, member.Name, t).WithFunction(name)
				}
				f.typeTags[i] = tag
			}
		}
	}

	if member.IsCtor {
		if member.DeclaringType == nil || !member.DeclaringType.Implements(scriptableType) {
			return nil, errors.New(errors.ConstructorReturnError,
				"constructor %s declares type %v, which is not guest-representable",
				member.Name, member.DeclaringType).WithFunction(name)
		}
	} else if f.kind == KindFixedArity {
		if member.Return == nil {
			f.hasVoidReturn = true
		} else {
			f.returnTag = TypeTagOf(member.Return)
		}
	} else {
		f.returnTag = TagObject
	}

	setFunctionProtoAndParent(f, scope)
	return f, nil
}

func checkVarargsMethodShape(m *Member) *errors.BridgeError {
	why := ""
	switch {
	case !m.IsStatic:
		why = "routine must be static; the engine passes the receiver at call time"
	case m.ArgTypes[0] != contextType:
		why = "parameter 0 must be *runtime.Context"
	case m.ArgTypes[1] != scriptableType:
		why = "parameter 1 must be runtime.Scriptable (the receiver)"
	case m.ArgTypes[2] != valueSliceType:
		why = "parameter 2 must be []runtime.Value (the raw arguments)"
	case m.ArgTypes[3] != callableType:
		why = "parameter 3 must be hostfunc.Callable (the function itself)"
	case m.Return == nil || TypeTagOf(m.Return) != TagObject:
		why = "routine must return a guest value"
	}
	if why == "" {
		return nil
	}
	return errors.New(errors.VarargsShapeError,
		"routine %s looks like the varargs method shape (context, receiver, args, self) but %s",
		m.Name, why)
}

func checkVarargsCtorShape(m *Member) *errors.BridgeError {
	why := ""
	switch {
	case !m.IsStatic:
		why = "routine must be static or a constructor"
	case m.ArgTypes[0] != contextType:
		why = "parameter 0 must be *runtime.Context"
	case m.ArgTypes[1] != valueSliceType:
		why = "parameter 1 must be []runtime.Value (the raw arguments)"
	case m.ArgTypes[2] != callableType:
		why = "parameter 2 must be hostfunc.Callable (the constructor itself)"
	case m.ArgTypes[3] != boolType:
		why = "parameter 3 must be bool (the in-new-expression flag)"
	case m.Return == nil:
		why = "routine must return a guest value"
	case TypeTagOf(m.Return) != TagObject && !(m.IsCtor && TypeTagOf(m.Return) == TagScriptable):
		why = "routine must return a guest value"
	}
	if why == "" {
		return nil
	}
	return errors.New(errors.VarargsShapeError,
		"routine %s looks like the varargs constructor shape (context, args, self, inNewExpr) but %s",
		m.Name, why)
}

func setFunctionProtoAndParent(f *HostFunction, scope runtime.Scriptable) {
	f.SetParentScope(scope)
	if scope != nil {
		f.SetPrototype(runtime.ObjectPrototype(scope))
	}
}

func (f *HostFunction) ClassName() string    { return "Function" }
func (f *HostFunction) FunctionName() string { return f.name }
func (f *HostFunction) Kind() Kind           { return f.kind }
func (f *HostFunction) Member() *Member      { return f.member }

// Arity reports the declared parameter count, or 1 for the varargs forms.
func (f *HostFunction) Arity() int {
	if f.kind != KindFixedArity {
		return 1
	}
	return f.paramCount
}

// TypeTags returns the fixed-arity parameter tags. The slice is shared; the
// binding is immutable, callers must not write to it.
func (f *HostFunction) TypeTags() []TypeTag { return f.typeTags }

// ReturnTag reports the return classification and whether the routine is
// void.
func (f *HostFunction) ReturnTag() (TypeTag, bool) { return f.returnTag, f.hasVoidReturn }

// Self returns the outermost callable for this binding.
func (f *HostFunction) Self() Callable { return f.self }

// BindSelf points the binding at its specialized thunk. Called once by the
// thunk generator, before the binding is published.
func (f *HostFunction) BindSelf(c Callable) { f.self = c }

// Call coerces the arguments, dispatches to the host routine and wraps the
// result as a guest value.
func (f *HostFunction) Call(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (runtime.Value, error) {
	var result interface{}
	var err error
	checkMethodResult := false

	if f.kind != KindFixedArity {
		if f.kind == KindVarargsMethod {
			result, err = f.member.Invoke(nil, []runtime.Value{cx, thisObj, args, f.self})
			checkMethodResult = true
		} else {
			inNewExpr := thisObj == nil
			result, err = f.member.Invoke(nil, []runtime.Value{cx, args, f.self, inNewExpr})
		}
		if err != nil {
			return nil, errors.WrapHost(f.name, err)
		}
	} else {
		var rerr error
		thisObj, rerr = f.ResolveReceiver(scope, thisObj)
		if rerr != nil {
			return nil, rerr
		}

		var invokeArgs []runtime.Value
		if f.paramCount == len(args) {
			// Reuse the engine's argument array unless a coercion actually
			// changes a value's representation.
			invokeArgs = args
			for i := 0; i != f.paramCount; i++ {
				if f.typeTags[i] == TagObject {
					continue // passthrough, never changes representation
				}
				arg := args[i]
				converted := ConvertArg(cx, scope, arg, f.typeTags[i])
				if arg != converted {
					if sameSlice(invokeArgs, args) {
						invokeArgs = append([]runtime.Value(nil), args...)
					}
					invokeArgs[i] = converted
				}
			}
		} else if f.paramCount == 0 {
			invokeArgs = emptyArgs
		} else {
			invokeArgs = make([]runtime.Value, f.paramCount)
			for i := 0; i != f.paramCount; i++ {
				var arg runtime.Value = runtime.Undefined
				if i < len(args) {
					arg = args[i]
				}
				invokeArgs[i] = ConvertArg(cx, scope, arg, f.typeTags[i])
			}
		}

		if f.member.IsCtor {
			result, err = f.member.Invoke(nil, invokeArgs)
		} else {
			var recv runtime.Value
			if !f.member.IsStatic {
				recv = thisObj
			}
			result, err = f.member.Invoke(recv, invokeArgs)
			checkMethodResult = true
		}
		if err != nil {
			return nil, errors.WrapHost(f.name, err)
		}
	}

	if checkMethodResult {
		if f.hasVoidReturn {
			return runtime.Undefined, nil
		}
		if f.returnTag == TagUnsupported {
			return cx.WrapFactory().Wrap(cx, scope, result), nil
		}
		// Other tags pass through: the host routine is trusted to already
		// return a guest-representable value.
	}
	return result, nil
}

// ResolveReceiver applies the fixed-arity receiver rules: instance
// compatibility, plus the implicit-this substitution for scope-bound
// functions whose receiver is the call's lexical scope. The thunk generator
// shares it so both call paths agree.
func (f *HostFunction) ResolveReceiver(scope, thisObj runtime.Scriptable) (runtime.Scriptable, error) {
	if f.member.IsStatic || f.member.IsCtor {
		return thisObj, nil
	}
	if instanceCompatible(thisObj, f.member.DeclaringType) {
		return thisObj, nil
	}
	if thisObj == scope {
		parent := f.ParentScope()
		if scope != parent && instanceCompatible(parent, f.member.DeclaringType) {
			// Call with dynamic scope for a standalone function: use the
			// parent scope as the receiver.
			return parent, nil
		}
	}
	return nil, errors.New(errors.IncompatibleReceiverError,
		"no compatible receiver for call").WithFunction(f.name)
}

// CreateObject constructs a fresh instance of the declaring type through its
// zero-argument form. It returns nil when the call path must be used instead.
func (f *HostFunction) CreateObject(cx *runtime.Context, scope runtime.Scriptable) (obj runtime.Scriptable, err error) {
	if f.member.IsCtor || f.kind == KindVarargsCtor {
		return nil, nil
	}
	dt := f.member.DeclaringType
	if dt == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			obj = nil
			err = errors.New(errors.WrappedHostError,
				"default construction of %v failed: %v", dt, r).WithFunction(f.name)
		}
	}()

	var inst reflect.Value
	if dt.Kind() == reflect.Ptr {
		inst = reflect.New(dt.Elem())
	} else {
		inst = reflect.New(dt).Elem()
	}
	result, ok := inst.Interface().(runtime.Scriptable)
	if !ok {
		return nil, errors.New(errors.WrappedHostError,
			"default construction of %v produced a non-guest value", dt).WithFunction(f.name)
	}
	result.SetPrototype(f.ClassPrototype())
	result.SetParentScope(f.ParentScope())
	return result, nil
}

// ClassPrototype returns the prototype instances of this constructor share.
func (f *HostFunction) ClassPrototype() runtime.Scriptable {
	v, ok := f.Get("prototype")
	if !ok {
		return nil
	}
	p, _ := v.(runtime.Scriptable)
	return p
}

// AddAsConstructor defines this function as a guest constructor: it wires the
// prototype pair and registers the callable in the scope under the
// prototype's class name.
func (f *HostFunction) AddAsConstructor(scope, prototype runtime.Scriptable) {
	f.initAsConstructor(scope, prototype)
	runtime.DefineProperty(scope, prototype.ClassName(), f.self, runtime.AttrDontEnum)
}

func (f *HostFunction) initAsConstructor(scope, prototype runtime.Scriptable) {
	setFunctionProtoAndParent(f, scope)
	// The prototype slot is immune: read-only and permanent, so it can never
	// be confused with an instance's prototype.
	f.DefineProperty("prototype", prototype, runtime.AttrDontEnum|runtime.AttrReadOnly|runtime.AttrPermanent)

	prototype.SetParentScope(f.self)
	runtime.DefineProperty(prototype, "constructor", f.self,
		runtime.AttrDontEnum|runtime.AttrPermanent|runtime.AttrReadOnly)
	f.SetParentScope(scope)
}

func instanceCompatible(obj runtime.Scriptable, declaring reflect.Type) bool {
	if obj == nil || declaring == nil {
		return false
	}
	return reflect.TypeOf(obj).AssignableTo(declaring)
}

func sameSlice(a, b []runtime.Value) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
