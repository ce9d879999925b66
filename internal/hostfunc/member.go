package hostfunc

import (
	"fmt"
	"reflect"

	"rove/internal/runtime"
)

// Member describes one host routine handed to the binder: a method bound to
// a receiver type, a plain function, or a constructor (a factory returning
// the declaring guest type).
type Member struct {
	Name          string
	Func          reflect.Value
	ArgTypes      []reflect.Type // excludes receiver
	DeclaringType reflect.Type   // receiver type; factory return type for constructors
	Return        reflect.Type   // nil for void
	ReturnsError  bool           // trailing error result, split off at dispatch
	IsCtor        bool
	IsStatic      bool
	GoVariadic    bool
}

// MethodOf builds the Member for the named exported method of the receiver's
// type.
func MethodOf(recv interface{}, name string) (*Member, error) {
	rt := reflect.TypeOf(recv)
	m, ok := rt.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("type %s has no method %s", rt, name)
	}
	ft := m.Func.Type()
	args := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		args = append(args, ft.In(i))
	}
	member := &Member{
		Name:          name,
		Func:          m.Func,
		ArgTypes:      args,
		DeclaringType: ft.In(0),
		GoVariadic:    ft.IsVariadic(),
	}
	member.splitReturns(ft)
	return member, nil
}

// FuncOf builds a static Member from a plain function.
func FuncOf(name string, fn interface{}) (*Member, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", name)
	}
	ft := fv.Type()
	args := make([]reflect.Type, ft.NumIn())
	for i := range args {
		args[i] = ft.In(i)
	}
	member := &Member{
		Name:       name,
		Func:       fv,
		ArgTypes:   args,
		IsStatic:   true,
		GoVariadic: ft.IsVariadic(),
	}
	member.splitReturns(ft)
	return member, nil
}

// CtorOf builds a constructor Member from a factory function. The factory's
// result type is the declaring type of the binding. Constructors take no
// receiver.
func CtorOf(name string, factory interface{}) (*Member, error) {
	member, err := FuncOf(name, factory)
	if err != nil {
		return nil, err
	}
	member.IsCtor = true
	member.DeclaringType = member.Return
	return member, nil
}

func (m *Member) splitReturns(ft reflect.Type) {
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorType {
		m.ReturnsError = true
		n--
	}
	if n > 0 {
		m.Return = ft.Out(0)
	}
}

// resultCount is the number of non-error results; anything above one is not
// a bindable signature.
func (m *Member) resultCount() int {
	n := m.Func.Type().NumOut()
	if m.ReturnsError {
		n--
	}
	return n
}

// Invoke dispatches to the routine with already-coerced arguments. A trailing
// error result or a panic in the routine surfaces as the error return.
func (m *Member) Invoke(receiver runtime.Value, args []runtime.Value) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", m.Name, r)
		}
	}()

	ft := m.Func.Type()
	in := make([]reflect.Value, 0, len(args)+1)
	if !m.IsStatic {
		in = append(in, toReflect(receiver, m.DeclaringType))
	}
	for _, a := range args {
		in = append(in, toReflect(a, ft.In(len(in))))
	}

	out := m.Func.Call(in)
	if m.ReturnsError {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func toReflect(v runtime.Value, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return rv // let Call report the mismatch; recovered into the error return
}
