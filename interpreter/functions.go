package interpreter

import (
	"slices"

	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// closure is the evaluator-side half of a function value: its code and the
// frame it was defined in.
type closure struct {
	name   string
	params []ast.Pattern
	body   *ast.BlockStatement
	expr   ast.Expression // arrow functions with an expression body
	frame  runtime.FrameID
	gen    int
	arrow  bool
	home   *superHome // class members

	// ownArguments is set when a parameter or a body declaration binds
	// `arguments`, replacing the implicit arguments object.
	ownArguments bool
}

func (c *closure) References() ([]runtime.FrameID, []*runtime.Object) {
	if c.home == nil {
		return []runtime.FrameID{c.frame}, nil
	}
	frames, objects := c.home.References()
	return append(frames, c.frame), objects
}

// capture pins the frame c closes over so its bindings outlive the construct
// that created them, until the scope collector finds c unreachable.
func (interp *Interpreter) capture(c *closure) {
	interp.scope.Pin(c.frame)
	c.gen = interp.scope.Generation(c.frame)
	if !c.arrow {
		c.ownArguments = interp.declaresArguments(c)
	}
}

func (interp *Interpreter) declaresArguments(c *closure) bool {
	for _, p := range c.params {
		if slices.Contains(ast.BindingNames(p), "arguments") {
			return true
		}
	}
	if c.body == nil {
		return false
	}
	for _, stmt := range c.body.Body {
		var names []string
		switch s := stmt.(type) {
		case *ast.VariableDeclaration:
			// function-scoped vars reuse an existing binding
			if s.DeclKind == ast.DeclVar && interp.varScoping == VarScopingFunction {
				continue
			}
			for _, d := range s.Declarations {
				names = append(names, ast.BindingNames(d.ID)...)
			}
		case *ast.FunctionDeclaration:
			if s.ID != nil {
				names = append(names, s.ID.Name)
			}
		case *ast.ClassDeclaration:
			if s.ID != nil {
				names = append(names, s.ID.Name)
			}
		}
		if slices.Contains(names, "arguments") {
			return true
		}
	}
	return false
}

// makeFunction wraps c in a function object.
func (interp *Interpreter) makeFunction(c *closure, constructor bool) *runtime.Value {
	interp.capture(c)
	fnObj := interp.realm.NewFunction(c.name, paramCount(c.params), nil)
	fnObj.Callable = func(this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return interp.callClosure(c, this, args)
	}
	fnObj.Internal = c
	if !constructor {
		fnObj.NotConstructor = true
		return runtime.NewObject(fnObj)
	}
	proto := interp.realm.NewPlainObject()
	proto.DefineMethod("constructor", runtime.NewObject(fnObj))
	fnObj.DefineMethod("prototype", runtime.NewObject(proto))
	return runtime.NewObject(fnObj)
}

// paramCount is the function length: parameters before the first default
// or rest parameter.
func paramCount(params []ast.Pattern) int {
	for i, p := range params {
		switch p.(type) {
		case *ast.AssignmentPattern, *ast.RestElement:
			return i
		}
	}
	return len(params)
}

// callClosure invokes c. The call frame's parent is the captured frame, never
// the caller's, and the body block shares that frame.
func (interp *Interpreter) callClosure(c *closure, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if interp.depth >= maxCallDepth {
		return nil, runtime.RangeErrorf("Maximum call stack size exceeded")
	}
	if interp.scope.Generation(c.frame) != c.gen {
		return nil, runtime.NewFault(runtime.UndefinedReference, "%s: captured scope was released after its run ended", displayName(c.name))
	}
	interp.depth++
	defer func() { interp.depth-- }()

	fnFrame := interp.scope.Push(c.frame, runtime.FrameFunction, true)
	defer interp.scope.Release(fnFrame)
	// only arrows see the home of an enclosing method
	switch {
	case c.home != nil:
		interp.scope.SetHome(fnFrame, c.home)
	case !c.arrow:
		interp.scope.IsolateHome(fnFrame)
	}
	if !c.arrow {
		if this == nil {
			this = runtime.Undefined
		}
		if err := interp.scope.DeclareConst(fnFrame, "this", this); err != nil {
			return nil, err
		}
	}
	if !c.arrow && !c.ownArguments {
		argsCopy := make([]*runtime.Value, len(args))
		copy(argsCopy, args)
		if err := interp.scope.DeclareConst(fnFrame, "arguments", interp.realm.NewArray(argsCopy)); err != nil {
			return nil, err
		}
	}
	if err := interp.bindParams(c.params, args, fnFrame); err != nil {
		return nil, err
	}

	if c.expr != nil {
		return interp.eval(c.expr, fnFrame)
	}
	if interp.varScoping == VarScopingFunction {
		if err := interp.hoistVars(c.body.Body, fnFrame); err != nil {
			return nil, err
		}
	}
	sig, err := interp.Evaluate(c.body, fnFrame)
	if err != nil {
		return nil, err
	}
	if sig.Kind == Return && sig.Value != nil {
		return sig.Value, nil
	}
	return runtime.Undefined, nil
}

// bindParams binds arguments positionally. A rest parameter collects the
// remaining arguments into a new array.
func (interp *Interpreter) bindParams(params []ast.Pattern, args []*runtime.Value, frame runtime.FrameID) error {
	for i, p := range params {
		if rest, ok := p.(*ast.RestElement); ok {
			var tail []*runtime.Value
			if i < len(args) {
				tail = append(tail, args[i:]...)
			}
			return interp.bindPattern(rest.Argument, interp.realm.NewArray(tail), frame, bindLet)
		}
		v := runtime.Undefined
		if i < len(args) {
			v = args[i]
		}
		if err := interp.bindPattern(p, v, frame, bindLet); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) makeFunctionDeclaration(fd *ast.FunctionDeclaration, frame runtime.FrameID) (*runtime.Value, error) {
	if fd.Generator || fd.Async {
		return nil, unsupportedFunction(fd.Generator)
	}
	return interp.makeFunction(&closure{
		name:   fd.ID.Name,
		params: fd.Params,
		body:   fd.Body,
		frame:  frame,
	}, true), nil
}

func unsupportedFunction(generator bool) error {
	if generator {
		return runtime.NewFault(runtime.UnsupportedFeature, "generator functions are not supported")
	}
	return runtime.NewFault(runtime.UnsupportedFeature, "async functions are not supported")
}

// evalFunctionExpression creates a function value. A named expression gets
// an extra frame binding its own name, visible only inside the function.
func (interp *Interpreter) evalFunctionExpression(e *ast.FunctionExpression, frame runtime.FrameID, hint string) (*runtime.Value, error) {
	if e.Generator || e.Async {
		return nil, unsupportedFunction(e.Generator)
	}
	if e.ID == nil {
		return interp.makeFunction(&closure{name: hint, params: e.Params, body: e.Body, frame: frame}, true), nil
	}
	own := interp.scope.Push(frame, runtime.FrameBlock, false)
	defer interp.scope.Release(own)
	fn := interp.makeFunction(&closure{name: e.ID.Name, params: e.Params, body: e.Body, frame: own}, true)
	if err := interp.scope.DeclareConst(own, e.ID.Name, fn); err != nil {
		return nil, err
	}
	return fn, nil
}

// evalArrowFunction creates an arrow function. Arrows have no this or
// arguments of their own and cannot be constructed.
func (interp *Interpreter) evalArrowFunction(e *ast.ArrowFunctionExpression, frame runtime.FrameID, hint string) (*runtime.Value, error) {
	if e.Async {
		return nil, unsupportedFunction(false)
	}
	c := &closure{name: hint, params: e.Params, frame: frame, arrow: true}
	switch body := e.Body.(type) {
	case *ast.BlockStatement:
		c.body = body
	case ast.Expression:
		c.expr = body
	default:
		return nil, runtime.NewFault(runtime.UnknownNode, "invalid arrow function body")
	}
	return interp.makeFunction(c, false), nil
}

// evalNamed evaluates expr, giving an anonymous function or class the name
// of the binding it is assigned to.
func (interp *Interpreter) evalNamed(expr ast.Expression, frame runtime.FrameID, name string) (*runtime.Value, error) {
	if name == "" {
		return interp.eval(expr, frame)
	}
	var (
		v   *runtime.Value
		err error
	)
	switch e := expr.(type) {
	case *ast.FunctionExpression:
		if e.ID != nil {
			return interp.eval(expr, frame)
		}
		if err := interp.tick(e); err != nil {
			return nil, err
		}
		v, err = interp.evalFunctionExpression(e, frame, name)
	case *ast.ArrowFunctionExpression:
		if err := interp.tick(e); err != nil {
			return nil, err
		}
		v, err = interp.evalArrowFunction(e, frame, name)
	case *ast.ClassExpression:
		if e.ID != nil {
			return interp.eval(expr, frame)
		}
		if err := interp.tick(e); err != nil {
			return nil, err
		}
		v, err = interp.evalClassExpression(e, frame, name)
	default:
		return interp.eval(expr, frame)
	}
	if err != nil {
		return nil, interp.annotate(err, expr)
	}
	return v, nil
}
