package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

func (interp *Interpreter) evalIdentifier(e *ast.Identifier, frame runtime.FrameID) (*runtime.Value, error) {
	return interp.scope.Lookup(frame, e.Name)
}

func (interp *Interpreter) evalLiteral(e *ast.Literal) (*runtime.Value, error) {
	if e.Regex != nil {
		return nil, runtime.NewFault(runtime.UnsupportedFeature, "regular expression literals are not supported")
	}
	if e.Bigint != "" {
		return nil, runtime.NewFault(runtime.UnsupportedFeature, "BigInt literals are not supported")
	}
	switch v := e.Value.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.NewBool(v), nil
	case float64:
		return runtime.NewNumber(v), nil
	case int:
		return runtime.NewNumber(float64(v)), nil
	case int64:
		return runtime.NewNumber(float64(v)), nil
	case string:
		return runtime.NewString(v), nil
	}
	return nil, runtime.NewFault(runtime.UnknownNode, "unsupported literal value %T", e.Value)
}

// evalThis resolves the nearest receiver binding; top-level this is undefined.
func (interp *Interpreter) evalThis(frame runtime.FrameID) *runtime.Value {
	if b, _, ok := interp.scope.Find(frame, "this"); ok {
		return b.Value
	}
	return runtime.Undefined
}

func (interp *Interpreter) evalArrayLiteral(e *ast.ArrayExpression, frame runtime.FrameID) (*runtime.Value, error) {
	elements := make([]*runtime.Value, len(e.Elements))
	for i, el := range e.Elements {
		if el == nil {
			elements[i] = runtime.Undefined
			continue
		}
		v, err := interp.eval(el, frame)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return interp.realm.NewArray(elements), nil
}

func (interp *Interpreter) evalObjectLiteral(e *ast.ObjectExpression, frame runtime.FrameID) (*runtime.Value, error) {
	obj := interp.realm.NewPlainObject()
	for _, node := range e.Properties {
		if node == nil {
			return nil, runtime.NewFault(runtime.UnknownNode, "missing object literal property")
		}
		prop, ok := node.(*ast.Property)
		if !ok {
			return nil, unsupported(node.Kind())
		}
		key, err := interp.propertyKey(prop.Key, prop.Computed, frame)
		if err != nil {
			return nil, err
		}
		valueExpr, ok := prop.Value.(ast.Expression)
		if !ok {
			return nil, runtime.NewFault(runtime.UnknownNode, "invalid property value %s", prop.Value.Kind())
		}
		v, err := interp.evalNamed(valueExpr, frame, key)
		if err != nil {
			return nil, err
		}
		switch prop.PropKind {
		case ast.PropGet:
			obj.DefineAccessor(key, v, nil, true)
		case ast.PropSet:
			obj.DefineAccessor(key, nil, v, true)
		default:
			obj.DefineProperty(key, &runtime.Property{Value: v, Writable: true, Enumerable: true})
		}
	}
	return runtime.NewObject(obj), nil
}

// propertyKey resolves a property or member key: computed keys are evaluated,
// identifiers give their name and literals their string form.
func (interp *Interpreter) propertyKey(key ast.Expression, computed bool, frame runtime.FrameID) (string, error) {
	if computed {
		v, err := interp.eval(key, frame)
		if err != nil {
			return "", err
		}
		return runtime.ToPropertyKey(v), nil
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name, nil
	case *ast.Literal:
		v, err := interp.evalLiteral(k)
		if err != nil {
			return "", err
		}
		return runtime.ToPropertyKey(v), nil
	}
	return "", runtime.NewFault(runtime.UnknownNode, "invalid property key %s", key.Kind())
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpression, frame runtime.FrameID) (*runtime.Value, error) {
	switch e.Operator {
	case "delete":
		return interp.evalDelete(e.Argument, frame)
	case "typeof":
		if id, ok := e.Argument.(*ast.Identifier); ok {
			b, _, found := interp.scope.Find(frame, id.Name)
			if !found {
				return runtime.NewString("undefined"), nil
			}
			return runtime.NewString(runtime.TypeOf(b.Value)), nil
		}
	}
	v, err := interp.eval(e.Argument, frame)
	if err != nil {
		return nil, err
	}
	return runtime.UnaryOp(e.Operator, v)
}

func (interp *Interpreter) evalDelete(arg ast.Expression, frame runtime.FrameID) (*runtime.Value, error) {
	switch a := arg.(type) {
	case *ast.MemberExpression:
		if _, ok := a.Object.(*ast.Super); ok {
			return nil, runtime.NewFault(runtime.SuperConstraint, "cannot delete a super property")
		}
		base, err := interp.eval(a.Object, frame)
		if err != nil {
			return nil, err
		}
		key, err := interp.memberKey(a, frame)
		if err != nil {
			return nil, err
		}
		ok, err := interp.realm.DeleteV(base, key)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(ok), nil
	case *ast.Identifier:
		return runtime.False, nil
	}
	if _, err := interp.eval(arg, frame); err != nil {
		return nil, err
	}
	return runtime.True, nil
}

func (interp *Interpreter) evalUpdate(e *ast.UpdateExpression, frame runtime.FrameID) (*runtime.Value, error) {
	ref, err := interp.reference(e.Argument, frame)
	if err != nil {
		return nil, err
	}
	cur, err := ref.get(interp)
	if err != nil {
		return nil, err
	}
	old := cur.ToNumber()
	updated := old + 1
	if e.Operator == "--" {
		updated = old - 1
	}
	if err := ref.put(interp, runtime.NewNumber(updated)); err != nil {
		return nil, err
	}
	if e.Prefix {
		return runtime.NewNumber(updated), nil
	}
	return runtime.NewNumber(old), nil
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpression, frame runtime.FrameID) (*runtime.Value, error) {
	left, err := interp.eval(e.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := interp.eval(e.Right, frame)
	if err != nil {
		return nil, err
	}
	return runtime.BinaryOp(e.Operator, left, right)
}

func (interp *Interpreter) evalLogical(e *ast.LogicalExpression, frame runtime.FrameID) (*runtime.Value, error) {
	left, err := interp.eval(e.Left, frame)
	if err != nil {
		return nil, err
	}
	if shortCircuits(e.Operator, left) {
		return left, nil
	}
	return interp.eval(e.Right, frame)
}

// shortCircuits reports whether a logical operator keeps its left operand.
func shortCircuits(op string, left *runtime.Value) bool {
	switch op {
	case "&&", "&&=":
		return !left.ToBoolean()
	case "||", "||=":
		return left.ToBoolean()
	case "??", "??=":
		return !left.IsNullish()
	}
	return false
}

func (interp *Interpreter) evalAssignment(e *ast.AssignmentExpression, frame runtime.FrameID) (*runtime.Value, error) {
	switch e.Left.(type) {
	case *ast.ArrayPattern, *ast.ObjectPattern:
		if e.Operator != "=" {
			return nil, runtime.NewFault(runtime.UnknownNode, "invalid destructuring assignment operator %s", e.Operator)
		}
		v, err := interp.eval(e.Right, frame)
		if err != nil {
			return nil, err
		}
		return v, interp.bindPattern(e.Left, v, frame, bindAssign)
	}

	ref, err := interp.reference(e.Left, frame)
	if err != nil {
		return nil, err
	}
	if e.Operator == "=" {
		v, err := interp.evalNamed(e.Right, frame, ref.name)
		if err != nil {
			return nil, err
		}
		return v, ref.put(interp, v)
	}

	cur, err := ref.get(interp)
	if err != nil {
		return nil, err
	}
	base, compound := runtime.CompoundBase(e.Operator)
	if !compound {
		if shortCircuits(e.Operator, cur) {
			return cur, nil
		}
		v, err := interp.evalNamed(e.Right, frame, ref.name)
		if err != nil {
			return nil, err
		}
		return v, ref.put(interp, v)
	}
	right, err := interp.eval(e.Right, frame)
	if err != nil {
		return nil, err
	}
	v, err := runtime.BinaryOp(base, cur, right)
	if err != nil {
		return nil, err
	}
	return v, ref.put(interp, v)
}

func (interp *Interpreter) evalConditional(e *ast.ConditionalExpression, frame runtime.FrameID) (*runtime.Value, error) {
	test, err := interp.eval(e.Test, frame)
	if err != nil {
		return nil, err
	}
	if test.ToBoolean() {
		return interp.eval(e.Consequent, frame)
	}
	return interp.eval(e.Alternate, frame)
}

func (interp *Interpreter) evalSequence(e *ast.SequenceExpression, frame runtime.FrameID) (*runtime.Value, error) {
	result := runtime.Undefined
	for _, expr := range e.Expressions {
		v, err := interp.eval(expr, frame)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (interp *Interpreter) evalMember(e *ast.MemberExpression, frame runtime.FrameID) (*runtime.Value, error) {
	ref, err := interp.memberReference(e, frame)
	if err != nil {
		return nil, err
	}
	return ref.get(interp)
}

func (interp *Interpreter) memberKey(e *ast.MemberExpression, frame runtime.FrameID) (string, error) {
	return interp.propertyKey(e.Property, e.Computed, frame)
}

func (interp *Interpreter) evalArguments(args []ast.Expression, frame runtime.FrameID) ([]*runtime.Value, error) {
	values := make([]*runtime.Value, len(args))
	for i, arg := range args {
		if _, ok := arg.(*ast.SpreadElement); ok {
			return nil, unsupported(ast.KindSpreadElement)
		}
		v, err := interp.eval(arg, frame)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// evalCall passes the member base as receiver for method calls and
// undefined for plain calls.
func (interp *Interpreter) evalCall(e *ast.CallExpression, frame runtime.FrameID) (*runtime.Value, error) {
	this := runtime.Undefined
	var fn *runtime.Value
	if member, ok := e.Callee.(*ast.MemberExpression); ok {
		ref, err := interp.memberReference(member, frame)
		if err != nil {
			return nil, err
		}
		if fn, err = ref.get(interp); err != nil {
			return nil, err
		}
		this = ref.base
	} else {
		var err error
		if fn, err = interp.eval(e.Callee, frame); err != nil {
			return nil, err
		}
	}
	args, err := interp.evalArguments(e.Arguments, frame)
	if err != nil {
		return nil, err
	}
	if !fn.IsCallable() {
		return nil, runtime.TypeErrorf("%s is not a function", calleeName(e.Callee))
	}
	return runtime.Call(fn, this, args)
}

func (interp *Interpreter) evalNew(e *ast.NewExpression, frame runtime.FrameID) (*runtime.Value, error) {
	fn, err := interp.eval(e.Callee, frame)
	if err != nil {
		return nil, err
	}
	args, err := interp.evalArguments(e.Arguments, frame)
	if err != nil {
		return nil, err
	}
	if !fn.IsCallable() || fn.Object.NotConstructor {
		return nil, runtime.TypeErrorf("%s is not a constructor", calleeName(e.Callee))
	}
	return interp.realm.Construct(fn, args)
}

// calleeName renders a callee for error messages ("obj.method").
func calleeName(e ast.Expression) string {
	switch c := e.(type) {
	case *ast.Identifier:
		return c.Name
	case *ast.ThisExpression:
		return "this"
	case *ast.Super:
		return "super"
	case *ast.MemberExpression:
		if !c.Computed {
			if id, ok := c.Property.(*ast.Identifier); ok {
				return calleeName(c.Object) + "." + id.Name
			}
		}
		return calleeName(c.Object) + "[...]"
	}
	return "expression"
}
