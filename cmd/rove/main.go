package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"rove/internal/database"
	"rove/internal/hostfunc"
	"rove/internal/logger"
	"rove/internal/network"
	"rove/internal/runtime"
	"rove/internal/thunk"
)

// Greeter is a small host type exposed to the demo scope.
type Greeter struct {
	runtime.ScriptableObject
}

func (g *Greeter) ClassName() string { return "Greeter" }

// Hello is a fixed-arity (string, int) instance routine.
func (g *Greeter) Hello(name string, times int) string {
	out := ""
	for i := 0; i < times; i++ {
		out += fmt.Sprintf("hello, %s! ", name)
	}
	return out
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	noColor := flag.Bool("no-color", false, "disable colored output")
	noThunks := flag.Bool("no-thunks", false, "force reflective dispatch")
	flag.Parse()

	logger.Init(*debug, *noColor)
	if *noThunks {
		thunk.Disable()
	}

	cx := runtime.NewContext()
	global := runtime.NewGlobalScope(cx)

	if err := database.New().Register(cx, global); err != nil {
		log.Fatal("database module registration failed", "err", err)
	}
	if err := network.New().Register(cx, global); err != nil {
		log.Fatal("network module registration failed", "err", err)
	}

	greeter := &Greeter{}
	greeter.SetParentScope(global)
	member, err := hostfunc.MethodOf(greeter, "Hello")
	if err != nil {
		log.Fatal("greeter binding failed", "err", err)
	}
	greet, err := thunk.Bind("greet", member, global)
	if err != nil {
		log.Fatal("greeter binding failed", "err", err)
	}

	// A short-argument call: the missing count pads to undefined and coerces
	// to zero before dispatch.
	result, err := greet.Call(cx, global, greeter, []runtime.Value{"rove"})
	if err != nil {
		log.Fatal("call failed", "err", err)
	}
	fmt.Printf("greet(\"rove\")      = %q\n", runtime.DebugString(result))

	result, err = greet.Call(cx, global, greeter, []runtime.Value{"rove", 2.0, "extra"})
	if err != nil {
		log.Fatal("call failed", "err", err)
	}
	fmt.Printf("greet(\"rove\", 2)   = %q\n", runtime.DebugString(result))

	if err := sqliteDemo(cx, global); err != nil {
		log.Fatal("sqlite demo failed", "err", err)
	}
	fmt.Printf("thunk units loaded = %d\n", thunk.LoadedUnits())
	os.Exit(0)
}

// sqliteDemo drives the database module through its bound callables, the way
// the engine would.
func sqliteDemo(cx *runtime.Context, global runtime.Scriptable) error {
	dbv, _ := global.Get("db")
	db := dbv.(runtime.Scriptable)

	call := func(name string, args ...runtime.Value) (runtime.Value, error) {
		fv, _ := db.Get(name)
		return fv.(hostfunc.Callable).Call(cx, global, db, args)
	}

	id, err := call("sql_open", "sqlite", ":memory:")
	if err != nil {
		return err
	}
	if _, err := call("sql_exec", id, "CREATE TABLE notes (body TEXT)"); err != nil {
		return err
	}
	if _, err := call("sql_exec", id, "INSERT INTO notes VALUES ('bound through the bridge')"); err != nil {
		return err
	}
	rows, err := call("sql_query", id, "SELECT body FROM notes")
	if err != nil {
		return err
	}
	fmt.Printf("sql_query          = %s\n", runtime.DebugString(rows))
	_, err = call("sql_close", id)
	return err
}
