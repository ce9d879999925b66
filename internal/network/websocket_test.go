package network

import (
	"testing"

	roverr "rove/internal/errors"
	"rove/internal/hostfunc"
	"rove/internal/runtime"
)

func newRealm(t *testing.T) (*runtime.Context, runtime.Scriptable, *Module) {
	t.Helper()
	cx := runtime.NewContext()
	global := runtime.NewGlobalScope(cx)
	m := New()
	if err := m.Register(cx, global); err != nil {
		t.Fatal(err)
	}
	return cx, global, m
}

func bound(t *testing.T, m *Module, name string) hostfunc.Callable {
	t.Helper()
	fv, ok := m.Get(name)
	if !ok {
		t.Fatalf("module has no %s", name)
	}
	fn, ok := fv.(hostfunc.Callable)
	if !ok {
		t.Fatalf("%s is %T, not a callable", name, fv)
	}
	return fn
}

func TestRegisterInstallsRoutines(t *testing.T) {
	_, global, m := newRealm(t)

	if nv, ok := global.Get("net"); !ok || nv != runtime.Value(m) {
		t.Fatal("module not installed in scope as net")
	}
	for _, name := range []string{"ws_connect", "ws_send", "ws_receive", "ws_close", "ws_status"} {
		bound(t, m, name)
	}
	// The bound routines are hidden from enumeration.
	for _, id := range m.Ids() {
		if id == "ws_connect" {
			t.Error("bound routine is enumerable")
		}
	}
}

func TestSendOnUnknownConnectionIsWrapped(t *testing.T) {
	cx, _, m := newRealm(t)

	_, err := bound(t, m, "ws_send").Call(cx, m, m, []runtime.Value{"no-such-id", "hello"})
	if err == nil {
		t.Fatal("send on an unknown connection succeeded")
	}
	if !roverr.IsType(err, roverr.WrappedHostError) {
		t.Errorf("error = %v, want a wrapped host error", err)
	}
}

// ws_status takes the raw varargs shape, so it sees the uncoerced argument
// array and its own callable.
func TestStatusReportsConnections(t *testing.T) {
	cx, _, m := newRealm(t)
	status := bound(t, m, "ws_status")

	if status.Arity() != 1 {
		t.Errorf("varargs arity = %d, want 1", status.Arity())
	}

	// No arguments: the open-connection listing, empty here.
	report, err := status.Call(cx, m, m, nil)
	if err != nil {
		t.Fatal(err)
	}
	obj := report.(runtime.Scriptable)
	if callee, _ := obj.Get("callee"); callee != "ws_status" {
		t.Errorf("callee = %v, want ws_status", callee)
	}
	conns, _ := obj.Get("connections")
	if list, ok := conns.([]runtime.Value); !ok || len(list) != 0 {
		t.Errorf("connections = %v, want empty listing", conns)
	}

	// One argument: a per-connection report; the raw number is stringified
	// by the routine itself, not by the binder.
	report, err = status.Call(cx, m, m, []runtime.Value{12.0})
	if err != nil {
		t.Fatal(err)
	}
	obj = report.(runtime.Scriptable)
	if id, _ := obj.Get("id"); id != "12" {
		t.Errorf("id = %v, want \"12\"", id)
	}
	if open, _ := obj.Get("open"); open != false {
		t.Errorf("open = %v, want false", open)
	}
}
