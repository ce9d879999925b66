package database

import (
	"github.com/charmbracelet/log"

	"rove/internal/hostfunc"
	"rove/internal/runtime"
	"rove/internal/thunk"
)

// exposed name -> host method
var bindings = []struct {
	Exposed string
	Method  string
}{
	{"sql_open", "Open"},
	{"sql_exec", "Exec"},
	{"sql_query", "Query"},
	{"sql_close", "CloseConn"},
}

// Register binds the module's routines through the bridge and installs the
// module in the scope as "db".
func (m *Module) Register(cx *runtime.Context, scope runtime.Scriptable) error {
	m.SetParentScope(scope)
	m.SetPrototype(runtime.ObjectPrototype(scope))

	for _, b := range bindings {
		member, err := hostfunc.MethodOf(m, b.Method)
		if err != nil {
			return err
		}
		fn, err := thunk.Bind(b.Exposed, member, m)
		if err != nil {
			return err
		}
		m.DefineProperty(b.Exposed, fn, runtime.AttrDontEnum)
		log.Debug("bound database routine", "name", b.Exposed, "arity", fn.Arity())
	}

	runtime.DefineProperty(scope, "db", m, 0)
	return nil
}
