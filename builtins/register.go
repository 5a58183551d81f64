// Package builtins provides the small host library scripts run against:
// console output, Object, Function, Array, String, Math, JSON, the error
// constructors and a handful of global functions.
package builtins

import (
	"io"

	"github.com/pkg/errors"

	"github.com/example/esgo/runtime"
)

// Host is the part of an interpreter the library installs itself into.
type Host interface {
	Realm() *runtime.Realm
	Define(name string, v *runtime.Value) error
}

// RegisterAll installs every built-in as a global of host. console.log,
// info and debug write to out; warn and error write to errOut.
func RegisterAll(host Host, out, errOut io.Writer) error {
	l := &library{realm: host.Realm()}

	globals := []struct {
		name  string
		value *runtime.Object
	}{
		{"Object", l.createObjectConstructor()},
		{"Function", l.createFunctionConstructor()},
		{"Array", l.createArrayConstructor()},
		{"String", l.createStringConstructor()},
		{"Number", l.createNumberConstructor()},
		{"Boolean", l.createBooleanConstructor()},
		{"Math", l.createMathObject()},
		{"JSON", l.createJSONObject()},
		{"console", l.createConsoleObject(out, errOut)},
	}
	for _, g := range globals {
		if err := host.Define(g.name, runtime.NewObject(g.value)); err != nil {
			return errors.Wrapf(err, "define %s", g.name)
		}
	}

	for name, ctor := range l.createErrorConstructors() {
		if err := host.Define(name, runtime.NewObject(ctor)); err != nil {
			return errors.Wrapf(err, "define %s", name)
		}
	}

	for name, fn := range l.globalFunctions() {
		if err := host.Define(name, runtime.NewObject(fn)); err != nil {
			return errors.Wrapf(err, "define %s", name)
		}
	}
	return nil
}
