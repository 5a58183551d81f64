package builtins

import (
	"strings"

	"github.com/example/esgo/runtime"
)

func (l *library) createArrayConstructor() *runtime.Object {
	proto := l.realm.ArrayPrototype

	l.setMethod(proto, "push", 1, arrayPush)
	l.setMethod(proto, "pop", 0, arrayPop)
	l.setMethod(proto, "shift", 0, arrayShift)
	l.setMethod(proto, "unshift", 1, arrayUnshift)
	l.setMethod(proto, "slice", 2, l.arraySlice)
	l.setMethod(proto, "concat", 1, l.arrayConcat)
	l.setMethod(proto, "join", 1, arrayJoin)
	l.setMethod(proto, "reverse", 0, arrayReverse)
	l.setMethod(proto, "indexOf", 1, arrayIndexOf)
	l.setMethod(proto, "includes", 1, arrayIncludes)
	l.setMethod(proto, "forEach", 1, arrayForEach)
	l.setMethod(proto, "map", 1, l.arrayMap)
	l.setMethod(proto, "filter", 1, l.arrayFilter)
	l.setMethod(proto, "some", 1, arraySome)
	l.setMethod(proto, "every", 1, arrayEvery)
	l.setMethod(proto, "find", 1, arrayFind)
	l.setMethod(proto, "reduce", 1, arrayReduce)
	l.setMethod(proto, "toString", 0, arrayToString)

	ctor := l.newConstructor("Array", 1, proto, l.arrayConstructorCall, l.arrayConstructorCall)
	l.setMethod(ctor, "isArray", 1, arrayIsArray)
	l.setMethod(ctor, "of", 0, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return l.realm.NewArray(append([]*runtime.Value(nil), args...)), nil
	})
	return ctor
}

// arrayConstructorCall treats a single numeric argument as a length and
// anything else as the element list.
func (l *library) arrayConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if len(args) == 1 && args[0].Type == runtime.TypeNumber {
		n := args[0].Number
		if n < 0 || n != float64(uint32(n)) {
			return nil, runtime.RangeErrorf("Invalid array length")
		}
		elems := make([]*runtime.Value, int(n))
		for i := range elems {
			elems[i] = runtime.Undefined
		}
		return l.realm.NewArray(elems), nil
	}
	return l.realm.NewArray(append([]*runtime.Value(nil), args...)), nil
}

func arrayIsArray(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	obj := toObject(argAt(args, 0))
	return runtime.NewBool(obj != nil && obj.Class == runtime.ClassArray), nil
}

// thisArray resolves the receiver of an Array.prototype method.
func thisArray(method string, this *runtime.Value) (*runtime.Object, error) {
	obj := toObject(this)
	if obj == nil || obj.Class != runtime.ClassArray {
		return nil, runtime.TypeErrorf("Array.prototype.%s called on %s", method, runtime.Inspect(this))
	}
	return obj, nil
}

func arrayPush(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("push", this)
	if err != nil {
		return nil, err
	}
	arr.Elements = append(arr.Elements, args...)
	return runtime.NewNumber(float64(len(arr.Elements))), nil
}

func arrayPop(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("pop", this)
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	if n == 0 {
		return runtime.Undefined, nil
	}
	last := arr.Elements[n-1]
	arr.Elements = arr.Elements[:n-1]
	return last, nil
}

func arrayShift(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("shift", this)
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return runtime.Undefined, nil
	}
	first := arr.Elements[0]
	arr.Elements = append([]*runtime.Value(nil), arr.Elements[1:]...)
	return first, nil
}

func arrayUnshift(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("unshift", this)
	if err != nil {
		return nil, err
	}
	arr.Elements = append(append([]*runtime.Value(nil), args...), arr.Elements...)
	return runtime.NewNumber(float64(len(arr.Elements))), nil
}

func (l *library) arraySlice(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("slice", this)
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	start := relativeIndex(argAt(args, 0), n, 0)
	end := relativeIndex(argAt(args, 1), n, n)
	if start >= end {
		return l.realm.NewArray(nil), nil
	}
	return l.realm.NewArray(append([]*runtime.Value(nil), arr.Elements[start:end]...)), nil
}

// arrayConcat spreads array arguments one level and appends anything else.
func (l *library) arrayConcat(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("concat", this)
	if err != nil {
		return nil, err
	}
	out := append([]*runtime.Value(nil), arr.Elements...)
	for _, a := range args {
		if obj := toObject(a); obj != nil && obj.Class == runtime.ClassArray {
			out = append(out, obj.Elements...)
			continue
		}
		out = append(out, a)
	}
	return l.realm.NewArray(out), nil
}

// joinElements renders elements with sep; null and undefined become empty.
func joinElements(elems []*runtime.Value, sep string) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		if el == nil || el.IsNullish() {
			continue
		}
		parts[i] = el.ToString()
	}
	return strings.Join(parts, sep)
}

func arrayJoin(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("join", this)
	if err != nil {
		return nil, err
	}
	sep := ","
	if s := argAt(args, 0); s.Type != runtime.TypeUndefined {
		sep = s.ToString()
	}
	return runtime.NewString(joinElements(arr.Elements, sep)), nil
}

func arrayToString(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewString(this.ToString()), nil
}

func arrayReverse(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("reverse", this)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
		arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
	}
	return this, nil
}

func arrayIndexOf(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("indexOf", this)
	if err != nil {
		return nil, err
	}
	target := argAt(args, 0)
	from := relativeIndex(argAt(args, 1), len(arr.Elements), 0)
	for i := from; i < len(arr.Elements); i++ {
		if runtime.StrictEquals(arr.Elements[i], target) {
			return runtime.NewNumber(float64(i)), nil
		}
	}
	return runtime.NewNumber(-1), nil
}

// arrayIncludes uses SameValueZero, so NaN finds NaN.
func arrayIncludes(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("includes", this)
	if err != nil {
		return nil, err
	}
	target := argAt(args, 0)
	for _, el := range arr.Elements {
		if runtime.StrictEquals(el, target) || (isNaN(el) && isNaN(target)) {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

func isNaN(v *runtime.Value) bool {
	return v.Type == runtime.TypeNumber && v.Number != v.Number
}

// iterateArray calls fn(element, index, array) for each element present when
// the iteration started. fn returning false stops the walk.
func iterateArray(method string, this *runtime.Value, args []*runtime.Value, visit func(i int, el, res *runtime.Value) bool) error {
	arr, err := thisArray(method, this)
	if err != nil {
		return err
	}
	fn, err := callback(argAt(args, 0))
	if err != nil {
		return err
	}
	thisArg := argAt(args, 1)
	n := len(arr.Elements)
	for i := 0; i < n && i < len(arr.Elements); i++ {
		el := arr.Elements[i]
		res, err := runtime.Call(fn, thisArg, []*runtime.Value{el, runtime.NewNumber(float64(i)), this})
		if err != nil {
			return err
		}
		if !visit(i, el, res) {
			break
		}
	}
	return nil
}

func arrayForEach(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	err := iterateArray("forEach", this, args, func(int, *runtime.Value, *runtime.Value) bool { return true })
	if err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

func (l *library) arrayMap(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var out []*runtime.Value
	err := iterateArray("map", this, args, func(_ int, _, res *runtime.Value) bool {
		out = append(out, res)
		return true
	})
	if err != nil {
		return nil, err
	}
	return l.realm.NewArray(out), nil
}

func (l *library) arrayFilter(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var out []*runtime.Value
	err := iterateArray("filter", this, args, func(_ int, el, res *runtime.Value) bool {
		if res.ToBoolean() {
			out = append(out, el)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return l.realm.NewArray(out), nil
}

func arraySome(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	found := false
	err := iterateArray("some", this, args, func(_ int, _, res *runtime.Value) bool {
		found = res.ToBoolean()
		return !found
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(found), nil
}

func arrayEvery(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	all := true
	err := iterateArray("every", this, args, func(_ int, _, res *runtime.Value) bool {
		all = res.ToBoolean()
		return all
	})
	if err != nil {
		return nil, err
	}
	return runtime.NewBool(all), nil
}

func arrayFind(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	found := runtime.Undefined
	err := iterateArray("find", this, args, func(_ int, el, res *runtime.Value) bool {
		if res.ToBoolean() {
			found = el
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func arrayReduce(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	arr, err := thisArray("reduce", this)
	if err != nil {
		return nil, err
	}
	fn, err := callback(argAt(args, 0))
	if err != nil {
		return nil, err
	}
	i := 0
	var acc *runtime.Value
	if len(args) > 1 {
		acc = args[1]
	} else {
		if len(arr.Elements) == 0 {
			return nil, runtime.TypeErrorf("Reduce of empty array with no initial value")
		}
		acc = arr.Elements[0]
		i = 1
	}
	for ; i < len(arr.Elements); i++ {
		acc, err = runtime.Call(fn, runtime.Undefined, []*runtime.Value{acc, arr.Elements[i], runtime.NewNumber(float64(i)), this})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
