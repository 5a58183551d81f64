package builtins

import (
	"github.com/example/esgo/runtime"
)

func (l *library) createFunctionConstructor() *runtime.Object {
	proto := l.realm.FunctionPrototype

	l.setMethod(proto, "call", 1, functionCall)
	l.setMethod(proto, "apply", 2, functionApply)
	l.setMethod(proto, "bind", 1, l.functionBind)
	l.setMethod(proto, "toString", 0, func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewString(this.ToString()), nil
	})

	// Compiling source at run time is not supported.
	ctor := l.newConstructor("Function", 1, proto, functionConstructorCall, functionConstructorCall)
	return ctor
}

func functionConstructorCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	return nil, runtime.TypeErrorf("Function constructor is not supported")
}

func functionCall(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	var rest []*runtime.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return runtime.Call(this, argAt(args, 0), rest)
}

func functionApply(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	list := argAt(args, 1)
	var callArgs []*runtime.Value
	if !list.IsNullish() {
		elems, ok := runtime.Iterate(list)
		if !ok || list.Type != runtime.TypeObject {
			return nil, runtime.TypeErrorf("CreateListFromArrayLike called on non-object")
		}
		callArgs = elems
	}
	return runtime.Call(this, argAt(args, 0), callArgs)
}

// functionBind returns a function that calls the target with a fixed receiver
// and leading arguments. Bound functions are not constructors.
func (l *library) functionBind(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !this.IsCallable() {
		return nil, runtime.TypeErrorf("Bind must be called on a function")
	}
	target := this
	boundThis := argAt(args, 0)
	var boundArgs []*runtime.Value
	if len(args) > 1 {
		boundArgs = append(boundArgs, args[1:]...)
	}

	length := 0
	if lv, err := target.Object.Get("length"); err == nil && lv.Type == runtime.TypeNumber {
		length = int(lv.Number) - len(boundArgs)
		if length < 0 {
			length = 0
		}
	}
	bound := l.newFunc("bound "+target.Object.Name(), length, func(_ *runtime.Value, callArgs []*runtime.Value) (*runtime.Value, error) {
		all := make([]*runtime.Value, 0, len(boundArgs)+len(callArgs))
		all = append(all, boundArgs...)
		all = append(all, callArgs...)
		return runtime.Call(target, boundThis, all)
	})
	bound.Internal = boundTarget(append([]*runtime.Value{target, boundThis}, boundArgs...))
	return runtime.NewObject(bound), nil
}

// boundTarget lists the values a bound function holds, so captured scopes
// reachable only through it are kept.
type boundTarget []*runtime.Value

func (b boundTarget) References() ([]runtime.FrameID, []*runtime.Object) {
	return nil, runtime.ObjectsOf(b...)
}
