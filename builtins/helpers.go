package builtins

import (
	"math"

	"github.com/example/esgo/runtime"
)

// library installs built-ins into one realm. Every native function closes over
// it, so two interpreters never share built-in objects.
type library struct {
	realm *runtime.Realm
}

// newFunc creates a native function that cannot be used with `new`.
func (l *library) newFunc(name string, length int, fn runtime.CallableFunc) *runtime.Object {
	obj := l.realm.NewFunction(name, length, fn)
	obj.NotConstructor = true
	return obj
}

func (l *library) setMethod(obj *runtime.Object, name string, length int, fn runtime.CallableFunc) {
	obj.DefineMethod(name, runtime.NewObject(l.newFunc(name, length, fn)))
}

// newConstructor creates a constructor whose `prototype` is proto, linking
// proto.constructor back to it.
func (l *library) newConstructor(name string, length int, proto *runtime.Object, call, construct runtime.CallableFunc) *runtime.Object {
	ctor := l.realm.NewFunction(name, length, call)
	ctor.Constructor = construct
	if construct == nil {
		ctor.NotConstructor = true
	}
	setConstant(ctor, "prototype", runtime.NewObject(proto))
	proto.DefineMethod("constructor", runtime.NewObject(ctor))
	return ctor
}

func setConstant(obj *runtime.Object, name string, val *runtime.Value) {
	obj.DefineProperty(name, &runtime.Property{Value: val})
}

func argAt(args []*runtime.Value, i int) *runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}

func toObject(v *runtime.Value) *runtime.Object {
	if v != nil && v.Type == runtime.TypeObject && v.Object != nil {
		return v.Object
	}
	return nil
}

// callback validates a function argument the way Array.prototype methods do.
func callback(v *runtime.Value) (*runtime.Value, error) {
	if !v.IsCallable() {
		return nil, runtime.TypeErrorf("%s is not a function", runtime.Inspect(v))
	}
	return v, nil
}

// toInteger truncates toward zero; NaN becomes 0.
func toInteger(v *runtime.Value) float64 {
	n := v.ToNumber()
	if math.IsNaN(n) {
		return 0
	}
	if math.IsInf(n, 0) {
		return n
	}
	return math.Trunc(n)
}

// relativeIndex resolves a possibly negative start/end argument against
// length, clamped to [0, length]. Undefined yields def.
func relativeIndex(v *runtime.Value, length, def int) int {
	if v.Type == runtime.TypeUndefined {
		return def
	}
	n := toInteger(v)
	if n < 0 {
		n += float64(length)
	}
	switch {
	case n < 0:
		return 0
	case n > float64(length):
		return length
	}
	return int(n)
}
