package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// bindMode decides what binding a pattern's identifiers produce.
type bindMode int

const (
	// bindConst declares immutable bindings in the target frame.
	bindConst bindMode = iota
	// bindLet declares mutable bindings (parameters).
	bindLet
	// bindVar writes bindings pre-declared in the nearest function frame.
	bindVar
	// bindAssign assigns to existing bindings and members.
	bindAssign
)

// bindPattern destructures v against p, writing into frame according to mode.
func (interp *Interpreter) bindPattern(p ast.Pattern, v *runtime.Value, frame runtime.FrameID, mode bindMode) error {
	switch p := p.(type) {
	case *ast.Identifier:
		return interp.bindName(p.Name, v, frame, mode)

	case *ast.MemberExpression:
		if mode != bindAssign {
			return runtime.NewFault(runtime.UnknownNode, "member expression is not a valid binding target")
		}
		ref, err := interp.memberReference(p, frame)
		if err != nil {
			return err
		}
		return ref.put(interp, v)

	case *ast.ArrayPattern:
		elements, ok := runtime.Iterate(v)
		if !ok {
			return runtime.NewFault(runtime.NotIterable, "%s is not iterable", runtime.Inspect(v))
		}
		for i, el := range p.Elements {
			if el == nil {
				continue
			}
			if rest, ok := el.(*ast.RestElement); ok {
				var tail []*runtime.Value
				if i < len(elements) {
					tail = append(tail, elements[i:]...)
				}
				return interp.bindPattern(rest.Argument, interp.realm.NewArray(tail), frame, mode)
			}
			item := runtime.Undefined
			if i < len(elements) {
				item = elements[i]
			}
			if err := interp.bindPattern(el, item, frame, mode); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		if v.IsNullish() {
			return runtime.NewFault(runtime.NullDestructure, "Cannot destructure '%s' as it is %s", runtime.Inspect(v), v.ToString())
		}
		for _, node := range p.Properties {
			if node == nil {
				return runtime.NewFault(runtime.UnknownNode, "missing object pattern property")
			}
			prop, ok := node.(*ast.Property)
			if !ok {
				return unsupported(node.Kind())
			}
			key, err := interp.propertyKey(prop.Key, prop.Computed, frame)
			if err != nil {
				return err
			}
			target, ok := prop.Value.(ast.Pattern)
			if !ok {
				return runtime.NewFault(runtime.UnknownNode, "invalid object pattern value %s", prop.Value.Kind())
			}
			item, err := interp.realm.GetV(v, key)
			if err != nil {
				return err
			}
			if err := interp.bindPattern(target, item, frame, mode); err != nil {
				return err
			}
		}
		return nil

	case *ast.AssignmentPattern:
		if v.Type == runtime.TypeUndefined {
			hint := ""
			if id, ok := p.Left.(*ast.Identifier); ok {
				hint = id.Name
			}
			var err error
			if v, err = interp.evalNamed(p.Right, frame, hint); err != nil {
				return err
			}
		}
		return interp.bindPattern(p.Left, v, frame, mode)

	case *ast.RestElement:
		return runtime.NewFault(runtime.UnknownNode, "rest element outside an array pattern or parameter list")

	case *ast.Unknown:
		return runtime.NewFault(runtime.UnknownNode, "unknown node type %q", p.Type)
	}
	return runtime.NewFault(runtime.UnknownNode, "invalid binding target %T", p)
}

func (interp *Interpreter) bindName(name string, v *runtime.Value, frame runtime.FrameID, mode bindMode) error {
	switch mode {
	case bindConst:
		return interp.scope.DeclareConst(frame, name, v)
	case bindLet:
		return interp.scope.Declare(frame, name, v, true)
	case bindVar:
		target := interp.scope.NearestFunction(frame)
		if b, owner, ok := interp.scope.Find(target, name); ok && owner == target {
			b.Value = v
			return nil
		}
		return interp.scope.Declare(target, name, v, true)
	}
	return interp.scope.Assign(frame, name, v)
}
