package builtins

import (
	"github.com/example/esgo/runtime"
)

func (l *library) createObjectConstructor() *runtime.Object {
	proto := l.realm.ObjectPrototype

	l.setMethod(proto, "hasOwnProperty", 1, objectProtoHasOwnProperty)
	l.setMethod(proto, "toString", 0, objectProtoToString)
	l.setMethod(proto, "valueOf", 0, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return this, nil
	})

	ctor := l.newConstructor("Object", 1, proto, l.objectConstructorCall, l.objectConstructorCall)

	l.setMethod(ctor, "keys", 1, l.objectKeys)
	l.setMethod(ctor, "values", 1, l.objectValues)
	l.setMethod(ctor, "entries", 1, l.objectEntries)
	l.setMethod(ctor, "assign", 2, objectAssign)
	l.setMethod(ctor, "create", 1, l.objectCreate)
	l.setMethod(ctor, "getPrototypeOf", 1, objectGetPrototypeOf)
	l.setMethod(ctor, "freeze", 1, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return argAt(args, 0), nil
	})

	return ctor
}

// objectConstructorCall returns an object argument unchanged and a fresh
// plain object for anything else.
func (l *library) objectConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if arg := argAt(args, 0); arg.Type == runtime.TypeObject {
		return arg, nil
	}
	return runtime.NewObject(l.realm.NewPlainObject()), nil
}

func objectProtoHasOwnProperty(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(this)
	if obj == nil {
		return runtime.False, nil
	}
	return runtime.NewBool(obj.HasOwnProperty(runtime.ToPropertyKey(argAt(args, 0)))), nil
}

func objectProtoToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	tag := "Object"
	switch this.Type {
	case runtime.TypeUndefined:
		tag = "Undefined"
	case runtime.TypeNull:
		tag = "Null"
	case runtime.TypeString:
		tag = "String"
	case runtime.TypeNumber:
		tag = "Number"
	case runtime.TypeBoolean:
		tag = "Boolean"
	case runtime.TypeObject:
		switch this.Object.Class {
		case runtime.ClassArray:
			tag = "Array"
		case runtime.ClassFunction:
			tag = "Function"
		case runtime.ClassError:
			tag = "Error"
		}
	}
	return runtime.NewString("[object " + tag + "]"), nil
}

func requireObject(v *runtime.Value) (*runtime.Object, error) {
	if v.IsNullish() {
		return nil, runtime.TypeErrorf("Cannot convert undefined or null to object")
	}
	return toObject(v), nil
}

// ownEnumerable lists the own enumerable string keys of v with their values.
// Primitive strings enumerate their characters; other primitives have none.
func (l *library) ownEnumerable(v *runtime.Value) ([]string, []*runtime.Value, error) {
	obj, err := requireObject(v)
	if err != nil {
		return nil, nil, err
	}
	if obj == nil {
		if v.Type != runtime.TypeString {
			return nil, nil, nil
		}
		keys := runtime.EnumerableKeys(v)
		vals := make([]*runtime.Value, len(keys))
		for i, k := range keys {
			if vals[i], err = l.realm.GetV(v, k); err != nil {
				return nil, nil, err
			}
		}
		return keys, vals, nil
	}
	keys := obj.OwnKeys(true)
	vals := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		if vals[i], err = obj.Get(k); err != nil {
			return nil, nil, err
		}
	}
	return keys, vals, nil
}

func (l *library) objectKeys(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	keys, _, err := l.ownEnumerable(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	out := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = runtime.NewString(k)
	}
	return l.realm.NewArray(out), nil
}

func (l *library) objectValues(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	_, vals, err := l.ownEnumerable(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	return l.realm.NewArray(vals), nil
}

func (l *library) objectEntries(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	keys, vals, err := l.ownEnumerable(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	out := make([]*runtime.Value, len(keys))
	for i, k := range keys {
		out[i] = l.realm.NewArray([]*runtime.Value{runtime.NewString(k), vals[i]})
	}
	return l.realm.NewArray(out), nil
}

// objectAssign copies own enumerable properties of each source onto the
// target, later sources winning.
func objectAssign(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	target := argAt(args, 0)
	obj, err := requireObject(target)
	if err != nil {
		return nil, err
	}
	if obj == nil || len(args) < 2 {
		return target, nil
	}
	for _, src := range args[1:] {
		from := toObject(src)
		if from == nil {
			continue
		}
		for _, k := range from.OwnKeys(true) {
			v, err := from.Get(k)
			if err != nil {
				return nil, err
			}
			if err := obj.Set(k, v); err != nil {
				return nil, err
			}
		}
	}
	return target, nil
}

func (l *library) objectCreate(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arg := argAt(args, 0)
	switch {
	case arg.Type == runtime.TypeNull:
		return runtime.NewObject(runtime.NewOrdinaryObject(nil)), nil
	case arg.Type == runtime.TypeObject:
		return runtime.NewObject(runtime.NewOrdinaryObject(arg.Object)), nil
	}
	return nil, runtime.TypeErrorf("Object prototype may only be an Object or null: %s", runtime.Inspect(arg))
}

func objectGetPrototypeOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj, err := requireObject(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.Prototype == nil {
		return runtime.Null, nil
	}
	return runtime.NewObject(obj.Prototype), nil
}
