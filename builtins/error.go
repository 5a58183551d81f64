package builtins

import (
	"github.com/example/esgo/runtime"
)

// createErrorConstructors builds Error and one subclass per runtime error
// type. Each works with or without `new` and can be extended by classes.
func (l *library) createErrorConstructors() map[string]*runtime.Object {
	l.setMethod(l.realm.ErrorPrototype, "toString", 0, errorProtoToString)

	ctors := make(map[string]*runtime.Object, len(runtime.ErrorTypes)+1)
	base := l.newErrorConstructor("Error")
	ctors["Error"] = base
	for _, name := range runtime.ErrorTypes {
		ctor := l.newErrorConstructor(name)
		ctor.Prototype = base
		ctors[name] = ctor
	}
	return ctors
}

func (l *library) newErrorConstructor(name string) *runtime.Object {
	proto := l.realm.ErrorPrototypeFor(name)
	call := func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return l.realm.NewError(name, messageArg(args)), nil
	}
	construct := func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj := toObject(this)
		if obj == nil {
			return call(this, args)
		}
		obj.Class = runtime.ClassError
		if msg := argAt(args, 0); msg.Type != runtime.TypeUndefined {
			obj.DefineMethod("message", runtime.NewString(msg.ToString()))
		}
		return this, nil
	}
	return l.newConstructor(name, 1, proto, call, construct)
}

func messageArg(args []*runtime.Value) string {
	if msg := argAt(args, 0); msg.Type != runtime.TypeUndefined {
		return msg.ToString()
	}
	return ""
}

func errorProtoToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(this)
	if obj == nil {
		return nil, runtime.TypeErrorf("Error.prototype.toString called on %s", runtime.Inspect(this))
	}
	name, err := obj.Get("name")
	if err != nil {
		return nil, err
	}
	msg, err := obj.Get("message")
	if err != nil {
		return nil, err
	}
	n := "Error"
	if name.Type != runtime.TypeUndefined {
		n = name.ToString()
	}
	m := ""
	if msg.Type != runtime.TypeUndefined {
		m = msg.ToString()
	}
	switch {
	case m == "":
		return runtime.NewString(n), nil
	case n == "":
		return runtime.NewString(m), nil
	}
	return runtime.NewString(n + ": " + m), nil
}
