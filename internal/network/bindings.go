package network

import (
	"github.com/charmbracelet/log"

	"rove/internal/hostfunc"
	"rove/internal/runtime"
	"rove/internal/thunk"
)

// Register binds the module's routines through the bridge and installs the
// module in the scope as "net".
func (m *Module) Register(cx *runtime.Context, scope runtime.Scriptable) error {
	m.SetParentScope(scope)
	m.SetPrototype(runtime.ObjectPrototype(scope))

	fixed := []struct {
		Exposed string
		Method  string
	}{
		{"ws_connect", "Connect"},
		{"ws_send", "Send"},
		{"ws_receive", "Receive"},
		{"ws_close", "CloseConn"},
	}
	for _, b := range fixed {
		member, err := hostfunc.MethodOf(m, b.Method)
		if err != nil {
			return err
		}
		fn, err := thunk.Bind(b.Exposed, member, m)
		if err != nil {
			return err
		}
		m.DefineProperty(b.Exposed, fn, runtime.AttrDontEnum)
		log.Debug("bound network routine", "name", b.Exposed, "arity", fn.Arity())
	}

	// ws_status takes the varargs method shape: raw access to the call, no
	// per-parameter typed binding. With any argument it reports one
	// connection, otherwise the open-connection listing.
	status := func(cx *runtime.Context, thisObj runtime.Scriptable, args []runtime.Value, funObj hostfunc.Callable) runtime.Value {
		report := runtime.NewScriptableObject("Status")
		report.SetParentScope(m.ParentScope())
		report.SetPrototype(m.Prototype())
		report.Put("callee", funObj.FunctionName())
		if len(args) > 0 {
			id := runtime.ToString(args[0])
			_, err := m.get(id)
			report.Put("id", id)
			report.Put("open", err == nil)
			return report
		}
		report.Put("connections", m.openIDs())
		return report
	}
	member, err := hostfunc.FuncOf("ws_status", status)
	if err != nil {
		return err
	}
	fn, err := thunk.Bind("ws_status", member, m)
	if err != nil {
		return err
	}
	m.DefineProperty("ws_status", fn, runtime.AttrDontEnum)
	log.Debug("bound network routine", "name", "ws_status", "arity", fn.Arity())

	runtime.DefineProperty(scope, "net", m, 0)
	return nil
}
