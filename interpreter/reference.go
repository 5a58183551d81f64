package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// reference is a resolved assignment target. The object and key of a member
// target are evaluated once, so compound and update operators read and write
// the same slot.
type reference struct {
	name  string
	frame runtime.FrameID

	base *runtime.Value
	key  string
	// lookup, when set, is where reads start (super.x); writes go to base.
	lookup *runtime.Object
}

func (interp *Interpreter) reference(target ast.Node, frame runtime.FrameID) (*reference, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		return &reference{name: t.Name, frame: frame}, nil
	case *ast.MemberExpression:
		return interp.memberReference(t, frame)
	}
	return nil, runtime.NewFault(runtime.UnknownNode, "invalid assignment target %s", target.Kind())
}

func (interp *Interpreter) memberReference(e *ast.MemberExpression, frame runtime.FrameID) (*reference, error) {
	if _, ok := e.Object.(*ast.Super); ok {
		lookup, err := interp.superLookup(frame)
		if err != nil {
			return nil, err
		}
		key, err := interp.memberKey(e, frame)
		if err != nil {
			return nil, err
		}
		return &reference{base: interp.evalThis(frame), key: key, lookup: lookup}, nil
	}
	base, err := interp.eval(e.Object, frame)
	if err != nil {
		return nil, err
	}
	key, err := interp.memberKey(e, frame)
	if err != nil {
		return nil, err
	}
	return &reference{base: base, key: key}, nil
}

func (r *reference) get(interp *Interpreter) (*runtime.Value, error) {
	switch {
	case r.base == nil:
		return interp.scope.Lookup(r.frame, r.name)
	case r.lookup != nil:
		return r.lookup.GetWithReceiver(r.key, r.base)
	}
	return interp.realm.GetV(r.base, r.key)
}

func (r *reference) put(interp *Interpreter, v *runtime.Value) error {
	if r.base == nil {
		return interp.scope.Assign(r.frame, r.name, v)
	}
	return interp.realm.PutV(r.base, r.key, v)
}
