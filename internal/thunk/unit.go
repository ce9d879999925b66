package thunk

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// counter names generated units. Process-wide and monotonic; bindings may
// race, so it is atomic. It is never reset.
var counter atomic.Uint64

var disabled atomic.Bool

func init() {
	if os.Getenv("ROVE_NO_THUNKS") != "" {
		disabled.Store(true)
	}
}

// Disable turns thunk generation off process-wide; every subsequent binding
// gets the reflective path. Models hosting environments that forbid dynamic
// code loading.
func Disable() { disabled.Store(true) }

// Enable turns thunk generation back on.
func Enable() { disabled.Store(false) }

// Disabled reports whether generation is off.
func Disabled() bool { return disabled.Load() }

// Unit is the loadable unit holding one generated thunk. Each unit carries a
// process-unique name, so concurrent bindings never collide, and can be
// released independently once its declaring scope dies.
type Unit struct {
	name string
	fn   *CompiledFunction
}

var units sync.Map // unit name -> *Unit

func newUnit(fn *CompiledFunction) *Unit {
	u := &Unit{
		name: fmt.Sprintf("RoveThunk%d", counter.Add(1)),
		fn:   fn,
	}
	units.Store(u.name, u)
	return u
}

// Name returns the unit's process-unique name.
func (u *Unit) Name() string { return u.name }

// Release drops the unit from the loaded set. The thunk stays callable while
// referenced; releasing only makes the unit reclaimable.
func (u *Unit) Release() { units.Delete(u.name) }

// LoadedUnits counts the units currently loaded.
func LoadedUnits() int {
	n := 0
	units.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
