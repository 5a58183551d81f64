package runtime

import (
	"strconv"
	"unicode/utf16"
)

// GetV reads a property from any value. Strings expose length, indexed
// characters and String.prototype; other primitives fall back to
// Object.prototype. Reading from null or undefined is a TypeError.
func (r *Realm) GetV(base *Value, key string) (*Value, error) {
	switch base.Type {
	case TypeObject:
		return base.Object.Get(key)
	case TypeUndefined, TypeNull:
		return nil, TypeErrorf("Cannot read properties of %s (reading '%s')", base.ToString(), key)
	case TypeString:
		units := utf16.Encode([]rune(base.Str))
		if key == "length" {
			return NewNumber(float64(len(units))), nil
		}
		if idx, ok := arrayIndex(key); ok {
			if idx < len(units) {
				return NewString(string(utf16.Decode(units[idx : idx+1]))), nil
			}
			return Undefined, nil
		}
		return r.StringPrototype.GetWithReceiver(key, base)
	}
	return r.ObjectPrototype.GetWithReceiver(key, base)
}

// PutV writes a property. Writes to primitives other than null and undefined
// are silently dropped.
func (r *Realm) PutV(base *Value, key string, val *Value) error {
	switch base.Type {
	case TypeObject:
		return base.Object.Set(key, val)
	case TypeUndefined, TypeNull:
		return TypeErrorf("Cannot set properties of %s (setting '%s')", base.ToString(), key)
	}
	return nil
}

// DeleteV removes an own property.
func (r *Realm) DeleteV(base *Value, key string) (bool, error) {
	switch base.Type {
	case TypeObject:
		return base.Object.Delete(key), nil
	case TypeUndefined, TypeNull:
		return false, TypeErrorf("Cannot convert undefined or null to object")
	}
	return true, nil
}

// Call invokes fn with the given receiver.
func Call(fn, this *Value, args []*Value) (*Value, error) {
	if !fn.IsCallable() {
		return nil, TypeErrorf("%s is not a function", describe(fn))
	}
	if this == nil {
		this = Undefined
	}
	v, err := fn.Object.Callable(this, args)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return Undefined, nil
	}
	return v, nil
}

// Construct implements `new fn(...args)`: the receiver inherits
// fn.prototype, and an object returned by the constructor replaces it.
func (r *Realm) Construct(fn *Value, args []*Value) (*Value, error) {
	if !fn.IsCallable() || fn.Object.NotConstructor {
		return nil, TypeErrorf("%s is not a constructor", describe(fn))
	}
	proto := r.ObjectPrototype
	pv, err := fn.Object.Get("prototype")
	if err != nil {
		return nil, err
	}
	if pv.Type == TypeObject && pv.Object != nil {
		proto = pv.Object
	}
	this := NewObject(NewOrdinaryObject(proto))
	body := fn.Object.Callable
	if fn.Object.Constructor != nil {
		body = fn.Object.Constructor
	}
	res, err := body(this, args)
	if err != nil {
		return nil, err
	}
	if res != nil && res.Type == TypeObject {
		return res, nil
	}
	return this, nil
}

// Iterate returns the ordered elements of an iterable value: array elements
// or the characters of a string. ok is false for anything else.
func Iterate(v *Value) ([]*Value, bool) {
	switch v.Type {
	case TypeObject:
		if v.Object != nil && v.Object.Class == ClassArray {
			out := make([]*Value, len(v.Object.Elements))
			copy(out, v.Object.Elements)
			return out, true
		}
	case TypeString:
		runes := []rune(v.Str)
		out := make([]*Value, len(runes))
		for i, c := range runes {
			out[i] = NewString(string(c))
		}
		return out, true
	}
	return nil, false
}

// EnumerableKeys lists the keys a for-in loop visits: own enumerable keys
// first, then inherited ones not shadowed by a nearer property.
func EnumerableKeys(v *Value) []string {
	switch v.Type {
	case TypeString:
		keys := make([]string, len(utf16.Encode([]rune(v.Str))))
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	case TypeObject:
	default:
		return nil
	}
	seen := make(map[string]bool)
	var keys []string
	for cur := v.Object; cur != nil; cur = cur.Prototype {
		enumerable := make(map[string]bool)
		for _, k := range cur.OwnKeys(true) {
			enumerable[k] = true
		}
		for _, k := range cur.OwnKeys(false) {
			if seen[k] {
				continue
			}
			seen[k] = true
			if enumerable[k] {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func describe(v *Value) string {
	switch v.Type {
	case TypeString:
		return strconv.Quote(v.Str)
	case TypeObject:
		if v.Object != nil && v.Object.Callable != nil {
			if name := v.Object.Name(); name != "" {
				return name
			}
		}
		if v.Object != nil && v.Object.Class == ClassArray {
			return "array"
		}
		return "object"
	}
	return v.ToString()
}
