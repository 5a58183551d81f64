package runtime

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// Realm holds the intrinsic prototypes shared by one interpreter. Each
// interpreter owns its realm, so independent interpreters share no state.
type Realm struct {
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	StringPrototype   *Object
	ErrorPrototype    *Object

	errorPrototypes map[string]*Object
}

// ErrorTypes lists the error constructors every realm provides.
var ErrorTypes = []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError"}

func NewRealm() *Realm {
	r := &Realm{errorPrototypes: make(map[string]*Object)}
	r.ObjectPrototype = NewOrdinaryObject(nil)
	r.FunctionPrototype = NewFunctionObject(r.ObjectPrototype, func(this *Value, args []*Value) (*Value, error) {
		return Undefined, nil
	})
	r.ArrayPrototype = NewOrdinaryObject(r.ObjectPrototype)
	r.StringPrototype = NewOrdinaryObject(r.ObjectPrototype)

	r.ErrorPrototype = NewOrdinaryObject(r.ObjectPrototype)
	r.ErrorPrototype.DefineMethod("name", NewString("Error"))
	r.ErrorPrototype.DefineMethod("message", NewString(""))
	r.errorPrototypes["Error"] = r.ErrorPrototype
	for _, name := range ErrorTypes {
		proto := NewOrdinaryObject(r.ErrorPrototype)
		proto.DefineMethod("name", NewString(name))
		r.errorPrototypes[name] = proto
	}
	return r
}

// ErrorPrototypeFor returns the prototype for a named error type, falling back
// to Error.prototype.
func (r *Realm) ErrorPrototypeFor(name string) *Object {
	if p, ok := r.errorPrototypes[name]; ok {
		return p
	}
	return r.ErrorPrototype
}

// NewPlainObject creates an ordinary object inheriting Object.prototype.
func (r *Realm) NewPlainObject() *Object {
	return NewOrdinaryObject(r.ObjectPrototype)
}

// NewArray creates an array inheriting Array.prototype.
func (r *Realm) NewArray(elements []*Value) *Value {
	return NewObject(NewArrayObject(r.ArrayPrototype, elements))
}

// NewFunction creates a function object with name and length set the way
// built-in functions carry them.
func (r *Realm) NewFunction(name string, length int, fn CallableFunc) *Object {
	obj := NewFunctionObject(r.FunctionPrototype, fn)
	obj.DefineMethod("name", NewString(name))
	obj.DefineMethod("length", NewNumber(float64(length)))
	return obj
}

// NewError creates an error object of the named type.
func (r *Realm) NewError(name, message string) *Value {
	obj := NewOrdinaryObject(r.ErrorPrototypeFor(name))
	obj.Class = ClassError
	obj.DefineMethod("message", NewString(message))
	return NewObject(obj)
}

// ErrorValue converts a host failure into the error object a script sees.
// Exceptions yield their thrown value; anything else yields nil.
func (r *Realm) ErrorValue(err error) *Value {
	var host *HostError
	if errors.As(err, &host) {
		return r.NewError(host.Name, host.Msg)
	}
	if ex, ok := AsException(err); ok {
		return ex.Value
	}
	return nil
}

// FromGo converts plain Go data (as decoded from YAML or JSON) to a value.
// Maps become objects with keys in sorted order.
func (r *Realm) FromGo(v any) (*Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case *Value:
		return x, nil
	case bool:
		return NewBool(x), nil
	case string:
		return NewString(x), nil
	case int:
		return NewNumber(float64(x)), nil
	case int64:
		return NewNumber(float64(x)), nil
	case uint64:
		return NewNumber(float64(x)), nil
	case float64:
		return NewNumber(x), nil
	case float32:
		return NewNumber(float64(x)), nil
	case []any:
		elems := make([]*Value, len(x))
		for i, el := range x {
			ev, err := r.FromGo(el)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			elems[i] = ev
		}
		return r.NewArray(elems), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := r.NewPlainObject()
		for _, k := range keys {
			ev, err := r.FromGo(x[k])
			if err != nil {
				return nil, errors.Wrapf(err, ".%s", k)
			}
			if err := obj.Set(k, ev); err != nil {
				return nil, err
			}
		}
		return NewObject(obj), nil
	}
	return nil, errors.Errorf("cannot convert %s to a script value", reflect.TypeOf(v))
}
