package runtime

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// ObjectClass describes the kind of object.
type ObjectClass int

const (
	ClassObject ObjectClass = iota
	ClassArray
	ClassFunction
	ClassError
)

// CallableFunc is the Go function signature for JS callable objects.
type CallableFunc func(this *Value, args []*Value) (*Value, error)

// Object represents a JavaScript object. Own properties keep insertion order;
// array elements live in Elements and are addressed by canonical index keys.
type Object struct {
	Class     ObjectClass
	Prototype *Object
	Elements  []*Value

	// Callable is set for every function object. Constructor, when set, runs
	// instead of Callable for `new` and super calls.
	Callable       CallableFunc
	Constructor    CallableFunc
	NotConstructor bool
	IsClass        bool

	// Internal holds evaluator-private data (closures, class descriptors).
	Internal any

	props *linkedhashmap.Map
}

// Property represents a property descriptor.
type Property struct {
	Value      *Value
	Getter     *Value // for accessor properties
	Setter     *Value // for accessor properties
	Writable   bool
	Enumerable bool
	IsAccessor bool
}

// NewOrdinaryObject creates a plain object.
func NewOrdinaryObject(proto *Object) *Object {
	return &Object{
		Class:     ClassObject,
		Prototype: proto,
		props:     linkedhashmap.New(),
	}
}

// NewArrayObject creates an array object from values.
func NewArrayObject(proto *Object, elements []*Value) *Object {
	if elements == nil {
		elements = []*Value{}
	}
	obj := NewOrdinaryObject(proto)
	obj.Class = ClassArray
	obj.Elements = elements
	return obj
}

// NewFunctionObject creates a function object.
func NewFunctionObject(proto *Object, callable CallableFunc) *Object {
	obj := NewOrdinaryObject(proto)
	obj.Class = ClassFunction
	obj.Callable = callable
	return obj
}

// OwnProperty returns the own property stored under name. Array elements and
// the array length are not stored as properties and are not returned.
func (o *Object) OwnProperty(name string) (*Property, bool) {
	v, ok := o.props.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Property), true
}

// Get retrieves a property, walking the prototype chain. Getters run with the
// object itself as receiver.
func (o *Object) Get(name string) (*Value, error) {
	return o.GetWithReceiver(name, NewObject(o))
}

// GetWithReceiver looks name up starting at o but runs any getter against
// receiver. super.x lookups use this.
func (o *Object) GetWithReceiver(name string, receiver *Value) (*Value, error) {
	for cur := o; cur != nil; cur = cur.Prototype {
		if cur.Class == ClassArray {
			if name == "length" {
				return NewNumber(float64(len(cur.Elements))), nil
			}
			if idx, ok := arrayIndex(name); ok {
				if idx < len(cur.Elements) {
					return cur.Elements[idx], nil
				}
				continue
			}
		}
		prop, ok := cur.OwnProperty(name)
		if !ok {
			continue
		}
		if prop.IsAccessor {
			if !prop.Getter.IsCallable() {
				return Undefined, nil
			}
			v, err := prop.Getter.Object.Callable(receiver, nil)
			if err != nil {
				return nil, err
			}
			if v == nil {
				v = Undefined
			}
			return v, nil
		}
		return prop.Value, nil
	}
	return Undefined, nil
}

// Set assigns a property. Own data properties are updated in place, setters
// found on the object or its prototypes are invoked, and otherwise a new
// enumerable own property is created.
func (o *Object) Set(name string, val *Value) error {
	if o.Class == ClassArray {
		if name == "length" {
			o.setLength(int(val.ToUint32()))
			return nil
		}
		if idx, ok := arrayIndex(name); ok {
			for len(o.Elements) <= idx {
				o.Elements = append(o.Elements, Undefined)
			}
			o.Elements[idx] = val
			return nil
		}
	}
	if prop, ok := o.OwnProperty(name); ok {
		if prop.IsAccessor {
			return callSetter(prop, o, val)
		}
		if prop.Writable {
			prop.Value = val
		}
		return nil
	}
	for cur := o.Prototype; cur != nil; cur = cur.Prototype {
		if prop, ok := cur.OwnProperty(name); ok {
			if prop.IsAccessor {
				return callSetter(prop, o, val)
			}
			if !prop.Writable {
				return nil
			}
			break
		}
	}
	o.props.Put(name, &Property{
		Value:      val,
		Writable:   true,
		Enumerable: true,
	})
	return nil
}

func callSetter(prop *Property, receiver *Object, val *Value) error {
	if !prop.Setter.IsCallable() {
		return nil
	}
	_, err := prop.Setter.Object.Callable(NewObject(receiver), []*Value{val})
	return err
}

func (o *Object) setLength(n int) {
	if n < len(o.Elements) {
		o.Elements = o.Elements[:n]
		return
	}
	for len(o.Elements) < n {
		o.Elements = append(o.Elements, Undefined)
	}
}

// DefineProperty defines a property with full descriptor control.
func (o *Object) DefineProperty(name string, prop *Property) {
	o.props.Put(name, prop)
}

// DefineMethod stores a non-enumerable writable data property, the shape of
// class members and built-in methods.
func (o *Object) DefineMethod(name string, fn *Value) {
	o.props.Put(name, &Property{Value: fn, Writable: true})
}

// DefineAccessor merges a getter or setter into the accessor stored under
// name, replacing any data property there.
func (o *Object) DefineAccessor(name string, getter, setter *Value, enumerable bool) {
	prop, ok := o.OwnProperty(name)
	if !ok || !prop.IsAccessor {
		prop = &Property{IsAccessor: true, Enumerable: enumerable}
		o.props.Put(name, prop)
	}
	if getter != nil {
		prop.Getter = getter
	}
	if setter != nil {
		prop.Setter = setter
	}
}

// Delete removes an own property. Deleting an array element leaves undefined
// in its slot.
func (o *Object) Delete(name string) bool {
	if o.Class == ClassArray {
		if name == "length" {
			return false
		}
		if idx, ok := arrayIndex(name); ok {
			if idx < len(o.Elements) {
				o.Elements[idx] = Undefined
			}
			return true
		}
	}
	o.props.Remove(name)
	return true
}

// HasProperty checks own and prototype chain.
func (o *Object) HasProperty(name string) bool {
	for cur := o; cur != nil; cur = cur.Prototype {
		if cur.HasOwnProperty(name) {
			return true
		}
	}
	return false
}

// HasOwnProperty checks only own properties.
func (o *Object) HasOwnProperty(name string) bool {
	if o.Class == ClassArray {
		if name == "length" {
			return true
		}
		if idx, ok := arrayIndex(name); ok {
			return idx < len(o.Elements)
		}
	}
	_, ok := o.props.Get(name)
	return ok
}

// OwnKeys lists own property keys: array indices first, then named
// properties in insertion order.
func (o *Object) OwnKeys(enumerableOnly bool) []string {
	keys := make([]string, 0, len(o.Elements)+o.props.Size())
	for i := range o.Elements {
		keys = append(keys, strconv.Itoa(i))
	}
	it := o.props.Iterator()
	for it.Next() {
		if enumerableOnly && !it.Value().(*Property).Enumerable {
			continue
		}
		keys = append(keys, it.Key().(string))
	}
	return keys
}

// dataString reads an own string data property without running accessors.
func (o *Object) dataString(name, fallback string) string {
	for cur := o; cur != nil; cur = cur.Prototype {
		if prop, ok := cur.OwnProperty(name); ok {
			if !prop.IsAccessor && prop.Value != nil && prop.Value.Type == TypeString {
				return prop.Value.Str
			}
			return fallback
		}
	}
	return fallback
}

// Name returns the function name stored on a function object.
func (o *Object) Name() string {
	if prop, ok := o.OwnProperty("name"); ok && !prop.IsAccessor && prop.Value != nil && prop.Value.Type == TypeString {
		return prop.Value.Str
	}
	return ""
}
