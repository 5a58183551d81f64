package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// classInfo is the class descriptor: the constructor object, the prototype
// and the superclass recorded when the class was built.
type classInfo struct {
	name  string
	ctor  *runtime.Object
	proto *runtime.Object
	body  *closure // explicit constructor, nil when synthesized

	superCtor   *runtime.Value  // nil for base classes
	superClass  *classInfo      // set when the superclass is itself a class
	superProto  *runtime.Object // where instance super.x lookups start
	superStatic *runtime.Object // where static super.x lookups start
}

func (info *classInfo) References() ([]runtime.FrameID, []*runtime.Object) {
	var frames []runtime.FrameID
	if info.body != nil {
		frames = append(frames, info.body.frame)
	}
	objects := append(runtime.ObjectsOf(info.superCtor), info.ctor, info.proto, info.superProto, info.superStatic)
	return frames, objects
}

// superHome is the home of a class member's frames: which class `super`
// refers to and whether the member is static.
type superHome struct {
	info   *classInfo
	static bool
}

func (h *superHome) References() ([]runtime.FrameID, []*runtime.Object) {
	return h.info.References()
}

func (interp *Interpreter) evalClassExpression(e *ast.ClassExpression, frame runtime.FrameID, hint string) (*runtime.Value, error) {
	if e.ID != nil {
		return interp.buildClass(e.ID.Name, e.SuperClass, e.Body, frame, true)
	}
	return interp.buildClass(hint, e.SuperClass, e.Body, frame, false)
}

// buildClass compiles a class body into a constructor object and its
// prototype. Members are checked before any object is created: duplicate
// keys within the static or the instance namespace are rejected, and a
// derived class's explicit constructor must open with a super call.
func (interp *Interpreter) buildClass(name string, superExpr ast.Expression, body *ast.ClassBody, frame runtime.FrameID, bindOwnName bool) (*runtime.Value, error) {
	info := &classInfo{
		name:        name,
		superProto:  interp.realm.ObjectPrototype,
		superStatic: interp.realm.FunctionPrototype,
	}
	if superExpr != nil {
		if err := interp.resolveSuperclass(info, superExpr, frame); err != nil {
			return nil, err
		}
	}

	classFrame := interp.scope.Push(frame, runtime.FrameClass, false)
	defer interp.scope.Release(classFrame)
	interp.scope.SetHome(classFrame, &superHome{info: info})

	var ctorDef *ast.MethodDefinition
	var members []*ast.MethodDefinition
	var keys []string
	seen := map[bool]map[string]memberSlot{false: {}, true: {}}
	for _, node := range body.Body {
		if node == nil {
			return nil, runtime.NewFault(runtime.UnknownNode, "missing class member")
		}
		def, ok := node.(*ast.MethodDefinition)
		if !ok {
			return nil, unsupported(node.Kind())
		}
		if def.Value == nil {
			return nil, runtime.NewFault(runtime.UnknownNode, "class member without a function")
		}
		if def.MethodKind == ast.MethodConstructor {
			if ctorDef == nil {
				ctorDef = def
			}
			continue
		}
		key, err := interp.propertyKey(def.Key, def.Computed, classFrame)
		if err != nil {
			return nil, err
		}
		slot := slotFor(def.MethodKind)
		if prev := seen[def.Static][key]; !prev.accepts(slot) {
			return nil, runtime.NewFault(runtime.DuplicateMember, "duplicate %s '%s' in class %s", memberKind(def.Static), key, displayName(name))
		}
		seen[def.Static][key] |= slot
		members = append(members, def)
		keys = append(keys, key)
	}

	if ctorDef != nil {
		if ctorDef.Value.Generator || ctorDef.Value.Async {
			return nil, unsupportedFunction(ctorDef.Value.Generator)
		}
		if info.superCtor != nil && !startsWithSuperCall(ctorDef.Value.Body) {
			return nil, runtime.NewFault(runtime.SuperConstraint,
				"derived constructor of class %s must call super() before anything else", displayName(name))
		}
		info.body = &closure{
			name:   name,
			params: ctorDef.Value.Params,
			body:   ctorDef.Value.Body,
			frame:  classFrame,
			home:   &superHome{info: info},
		}
		interp.capture(info.body)
	}

	info.ctor = interp.realm.NewFunction(name, classLength(ctorDef), func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return nil, runtime.TypeErrorf("Class constructor %s cannot be invoked without 'new'", displayName(name))
	})
	info.ctor.IsClass = true
	info.ctor.Internal = info
	info.ctor.Constructor = func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return interp.construct(info, this, args)
	}
	if info.superCtor != nil {
		info.ctor.Prototype = info.superCtor.Object
	}
	ctorVal := runtime.NewObject(info.ctor)

	info.proto = runtime.NewOrdinaryObject(info.superProto)
	info.proto.DefineMethod("constructor", ctorVal)
	info.ctor.DefineProperty("prototype", &runtime.Property{Value: runtime.NewObject(info.proto)})

	for i, def := range members {
		target := info.proto
		if def.Static {
			target = info.ctor
		}
		if def.Value.Generator || def.Value.Async {
			return nil, unsupportedFunction(def.Value.Generator)
		}
		fn := interp.makeFunction(&closure{
			name:   keys[i],
			params: def.Value.Params,
			body:   def.Value.Body,
			frame:  classFrame,
			home:   &superHome{info: info, static: def.Static},
		}, false)
		switch def.MethodKind {
		case ast.MethodGet:
			target.DefineAccessor(keys[i], fn, nil, false)
		case ast.MethodSet:
			target.DefineAccessor(keys[i], nil, fn, false)
		default:
			target.DefineMethod(keys[i], fn)
		}
	}

	if bindOwnName && name != "" {
		if err := interp.scope.DeclareConst(classFrame, name, ctorVal); err != nil {
			return nil, err
		}
	}
	return ctorVal, nil
}

func (interp *Interpreter) resolveSuperclass(info *classInfo, superExpr ast.Expression, frame runtime.FrameID) error {
	sv, err := interp.eval(superExpr, frame)
	if err != nil {
		return err
	}
	if !sv.IsCallable() || sv.Object.NotConstructor {
		return runtime.TypeErrorf("Class extends value %s is not a constructor", runtime.Inspect(sv))
	}
	pv, err := sv.Object.Get("prototype")
	if err != nil {
		return err
	}
	if pv.Type != runtime.TypeObject {
		return runtime.TypeErrorf("Class extends value does not have valid prototype property %s", runtime.Inspect(pv))
	}
	info.superCtor = sv
	info.superProto = pv.Object
	info.superStatic = sv.Object
	if parent, ok := sv.Object.Internal.(*classInfo); ok {
		info.superClass = parent
	}
	return nil
}

// construct runs a class constructor against an already allocated receiver.
// Without an explicit constructor a derived class forwards the receiver to
// its superclass with no arguments.
func (interp *Interpreter) construct(info *classInfo, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if info.body != nil {
		return interp.callClosure(info.body, this, args)
	}
	if info.superCtor != nil {
		return interp.superConstruct(info, this, nil)
	}
	return runtime.Undefined, nil
}

// superConstruct runs the recorded superclass constructor on this, extending
// the existing receiver rather than allocating a new one.
func (interp *Interpreter) superConstruct(info *classInfo, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if info.superCtor == nil {
		return nil, runtime.NewFault(runtime.SuperConstraint, "class %s has no superclass to call", displayName(info.name))
	}
	if info.superClass != nil {
		if _, err := interp.construct(info.superClass, this, args); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil
	}
	body := info.superCtor.Object.Callable
	if info.superCtor.Object.Constructor != nil {
		body = info.superCtor.Object.Constructor
	}
	if _, err := body(this, args); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

// evalSuper resolves `super` to the superclass constructor bound to the
// current receiver.
func (interp *Interpreter) evalSuper(frame runtime.FrameID) (*runtime.Value, error) {
	home, ok := interp.scope.Home(frame).(*superHome)
	if !ok {
		return nil, runtime.NewFault(runtime.SuperConstraint, "'super' keyword unexpected here")
	}
	info := home.info
	if info.superCtor == nil {
		return nil, runtime.NewFault(runtime.SuperConstraint, "'super' call in class %s, which has no superclass", displayName(info.name))
	}
	this := interp.evalThis(frame)
	bound := interp.realm.NewFunction("super", 0, func(_ *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return interp.superConstruct(info, this, args)
	})
	bound.NotConstructor = true
	return runtime.NewObject(bound), nil
}

// superLookup returns the object super.x reads start from.
func (interp *Interpreter) superLookup(frame runtime.FrameID) (*runtime.Object, error) {
	home, ok := interp.scope.Home(frame).(*superHome)
	if !ok {
		return nil, runtime.NewFault(runtime.SuperConstraint, "'super' keyword unexpected here")
	}
	if home.static {
		return home.info.superStatic, nil
	}
	return home.info.superProto, nil
}

// startsWithSuperCall reports whether the first statement is `super(...)`.
func startsWithSuperCall(body *ast.BlockStatement) bool {
	if body == nil || len(body.Body) == 0 {
		return false
	}
	stmt, ok := body.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*ast.Super)
	return ok
}

// memberSlot records which parts of a key a class body has defined. A getter
// and a setter may share a key; anything else may not.
type memberSlot uint8

const (
	slotMethod memberSlot = 1 << iota
	slotGetter
	slotSetter
)

func slotFor(kind ast.MethodKind) memberSlot {
	switch kind {
	case ast.MethodGet:
		return slotGetter
	case ast.MethodSet:
		return slotSetter
	}
	return slotMethod
}

func (s memberSlot) accepts(next memberSlot) bool {
	if s == 0 {
		return true
	}
	return next != slotMethod && s&(next|slotMethod) == 0
}

func memberKind(static bool) string {
	if static {
		return "static member"
	}
	return "member"
}

func classLength(ctor *ast.MethodDefinition) int {
	if ctor == nil {
		return 0
	}
	return paramCount(ctor.Value.Params)
}

func displayName(name string) string {
	if name == "" {
		return "(anonymous)"
	}
	return name
}
