// Package thunk synthesizes specialized call adapters for host-function
// bindings. A generated thunk inlines coercion and dispatch for its one
// signature; the reflective HostFunction stays the fallback, and the two are
// behaviorally interchangeable. Generation is strictly a throughput
// optimization.
package thunk

import (
	"math"

	"github.com/charmbracelet/log"

	"rove/internal/errors"
	"rove/internal/hostfunc"
	"rove/internal/runtime"
)

type invoker func(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (runtime.Value, error)

// CompiledFunction is the specialized form of a binding: the same bound
// callable with a direct call path.
type CompiledFunction struct {
	*hostfunc.HostFunction
	unit   *Unit
	invoke invoker
}

// Call runs the specialized path.
func (c *CompiledFunction) Call(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (runtime.Value, error) {
	return c.invoke(cx, scope, thisObj, args)
}

// Unit returns the loadable unit holding this thunk.
func (c *CompiledFunction) Unit() *Unit { return c.unit }

// Bind classifies one routine, then attempts thunk specialization, falling
// back to the reflective binding whenever generation is ineligible, disabled
// or fails. Bind-time errors propagate; generation failure never does.
func Bind(name string, member *hostfunc.Member, scope runtime.Scriptable) (hostfunc.Callable, error) {
	fn, err := hostfunc.New(name, member, scope)
	if err != nil {
		return nil, err
	}
	return Compile(fn), nil
}

// Compile returns the specialized form of the binding, or the binding itself
// when it is ineligible or generation is unavailable. Eligibility is
// re-evaluated per binding, never assumed from a prior one.
func Compile(fn *hostfunc.HostFunction) hostfunc.Callable {
	if Disabled() {
		return fn
	}
	if !eligible(fn) {
		return fn
	}
	inv, err := compile(fn)
	if err != nil {
		// CodeGenerationFailure is the one error kind that never surfaces:
		// the reflective path is always a conformant stand-in.
		log.Debug("thunk generation failed, using reflective dispatch",
			"function", fn.FunctionName(), "err",
			errors.New(errors.CodeGenerationFailure, "%v", err))
		return fn
	}
	c := &CompiledFunction{HostFunction: fn, invoke: inv}
	c.unit = newUnit(c)
	fn.BindSelf(c)
	log.Debug("thunk generated", "function", fn.FunctionName(), "unit", c.unit.Name())
	return c
}

// eligible mirrors the generator's admission rules: the routine must not be
// natively variable-arity, and must be an instance fixed-arity method or a
// varargs-method static. Constructors and static fixed-arity routines keep
// the reflective path. Ambiguity is already ruled out upstream: a binding
// holds exactly one candidate.
func eligible(fn *hostfunc.HostFunction) bool {
	m := fn.Member()
	if m.GoVariadic || m.IsCtor {
		return false
	}
	switch fn.Kind() {
	case hostfunc.KindVarargsMethod:
		return true
	case hostfunc.KindFixedArity:
		return !m.IsStatic
	default:
		return false
	}
}

func compile(fn *hostfunc.HostFunction) (invoker, error) {
	if fn.Kind() == hostfunc.KindVarargsMethod {
		return compileVarargsMethod(fn)
	}
	return compileFixedArity(fn)
}

// Direct func forms a varargs-method routine may take.
type varargsMethodFunc = func(*runtime.Context, runtime.Scriptable, []runtime.Value, hostfunc.Callable) runtime.Value
type varargsMethodErrFunc = func(*runtime.Context, runtime.Scriptable, []runtime.Value, hostfunc.Callable) (runtime.Value, error)

// compileVarargsMethod forwards (context, receiver, raw-args, self) straight
// to the target routine, with no reflection on the call path.
func compileVarargsMethod(fn *hostfunc.HostFunction) (invoker, error) {
	name := fn.FunctionName()
	raw := fn.Member().Func.Interface()
	switch direct := raw.(type) {
	case varargsMethodFunc:
		return func(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (result runtime.Value, err error) {
			defer guardHostPanic(name, &err)
			return direct(cx, thisObj, args, fn.Self()), nil
		}, nil
	case varargsMethodErrFunc:
		return func(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (result runtime.Value, err error) {
			defer guardHostPanic(name, &err)
			result, herr := direct(cx, thisObj, args, fn.Self())
			if herr != nil {
				return nil, errors.WrapHost(name, herr)
			}
			return result, nil
		}, nil
	default:
		return nil, errors.New(errors.CodeGenerationFailure,
			"varargs routine %s has no direct call form", name)
	}
}

type coercer func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value

// compileFixedArity builds a per-position coercer table and a missing-value
// table, both resolved at generation time. Each coercer probes for the exact
// host representation first and only then routes through general coercion.
// Missing positions are filled with precomputed constants, identical to what
// coercing the undefined sentinel yields, without running coercion per call.
func compileFixedArity(fn *hostfunc.HostFunction) (invoker, error) {
	name := fn.FunctionName()
	member := fn.Member()
	tags := fn.TypeTags()
	returnTag, voidReturn := fn.ReturnTag()
	n := fn.Arity()

	coercers := make([]coercer, n)
	fill := make([]runtime.Value, n)
	for i, tag := range tags {
		tag := tag
		switch tag {
		case hostfunc.TagString:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				if _, ok := arg.(string); ok {
					return arg
				}
				return hostfunc.ConvertArg(cx, scope, arg, tag)
			}
			fill[i] = "undefined"
		case hostfunc.TagInt:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				if _, ok := arg.(int); ok {
					return arg
				}
				return hostfunc.ConvertArg(cx, scope, arg, tag)
			}
			fill[i] = 0
		case hostfunc.TagBoolean:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				if _, ok := arg.(bool); ok {
					return arg
				}
				return hostfunc.ConvertArg(cx, scope, arg, tag)
			}
			fill[i] = false
		case hostfunc.TagDouble:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				if _, ok := arg.(float64); ok {
					return arg
				}
				return hostfunc.ConvertArg(cx, scope, arg, tag)
			}
			fill[i] = math.NaN()
		case hostfunc.TagScriptable:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				return hostfunc.ConvertArg(cx, scope, arg, tag)
			}
			fill[i] = nil
		case hostfunc.TagObject:
			coercers[i] = func(cx *runtime.Context, scope runtime.Scriptable, arg runtime.Value) runtime.Value {
				return arg
			}
			fill[i] = runtime.Undefined
		default:
			return nil, errors.New(errors.CodeGenerationFailure,
				"routine %s parameter %d has no specialized coercer", name, i)
		}
	}

	return func(cx *runtime.Context, scope, thisObj runtime.Scriptable, args []runtime.Value) (runtime.Value, error) {
		recv, err := fn.ResolveReceiver(scope, thisObj)
		if err != nil {
			return nil, err
		}
		coerced := make([]runtime.Value, n)
		for i := 0; i != n; i++ {
			if i < len(args) {
				coerced[i] = coercers[i](cx, scope, args[i])
			} else {
				coerced[i] = fill[i]
			}
		}
		result, herr := member.Invoke(recv, coerced)
		if herr != nil {
			return nil, errors.WrapHost(name, herr)
		}
		if voidReturn {
			return runtime.Undefined, nil
		}
		if returnTag == hostfunc.TagUnsupported {
			return cx.WrapFactory().Wrap(cx, scope, result), nil
		}
		return result, nil
	}, nil
}

func guardHostPanic(name string, err *error) {
	if r := recover(); r != nil {
		*err = errors.New(errors.WrappedHostError,
			"host routine panicked: %v", r).WithFunction(name)
	}
}
