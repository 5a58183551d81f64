package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

func (interp *Interpreter) execProgram(p *ast.Program, frame runtime.FrameID) (Signal, error) {
	if interp.varScoping == VarScopingFunction {
		if err := interp.hoistVars(p.Body, frame); err != nil {
			return Signal{}, err
		}
	}
	sig, err := interp.execStatements(p.Body, frame)
	if err != nil {
		return Signal{}, err
	}
	// A stray top-level return or break ends the program with its value.
	return normal(sig.Value), nil
}

// execStatements runs a statement list in frame, stopping at the first
// non-Normal signal. Function declarations are bound before anything runs.
func (interp *Interpreter) execStatements(stmts []ast.Statement, frame runtime.FrameID) (Signal, error) {
	if err := interp.hoistFunctions(stmts, frame); err != nil {
		return Signal{}, err
	}
	var last *runtime.Value
	for _, stmt := range stmts {
		sig, err := interp.Evaluate(stmt, frame)
		if err != nil {
			return Signal{}, err
		}
		if sig.Kind != Normal {
			return sig, nil
		}
		if sig.Value != nil {
			last = sig.Value
		}
	}
	return normal(last), nil
}

// execBlock reuses a transparent frame prepared by the enclosing function,
// loop or catch clause; otherwise it gets a frame of its own.
func (interp *Interpreter) execBlock(s *ast.BlockStatement, frame runtime.FrameID) (Signal, error) {
	if interp.scope.ConsumeTransparent(frame) {
		return interp.execStatements(s.Body, frame)
	}
	inner := interp.scope.Push(frame, runtime.FrameBlock, false)
	defer interp.scope.Release(inner)
	return interp.execStatements(s.Body, inner)
}

func (interp *Interpreter) execReturn(s *ast.ReturnStatement, frame runtime.FrameID) (Signal, error) {
	if s.Argument == nil {
		return Signal{Kind: Return, Value: runtime.Undefined}, nil
	}
	v, err := interp.eval(s.Argument, frame)
	if err != nil {
		return Signal{}, err
	}
	return Signal{Kind: Return, Value: v}, nil
}

func (interp *Interpreter) execIf(s *ast.IfStatement, frame runtime.FrameID) (Signal, error) {
	test, err := interp.eval(s.Test, frame)
	if err != nil {
		return Signal{}, err
	}
	if test.ToBoolean() {
		return interp.Evaluate(s.Consequent, frame)
	}
	if s.Alternate != nil {
		return interp.Evaluate(s.Alternate, frame)
	}
	return normal(runtime.Undefined), nil
}

func (interp *Interpreter) execThrow(s *ast.ThrowStatement, frame runtime.FrameID) (Signal, error) {
	v, err := interp.eval(s.Argument, frame)
	if err != nil {
		return Signal{}, err
	}
	return Signal{}, runtime.Throw(v)
}

// execTry catches only thrown values; interpreter faults pass through the
// handler. The finalizer always runs. Its own abrupt completion replaces a
// normal completion or a thrown value, never a fault.
func (interp *Interpreter) execTry(s *ast.TryStatement, frame runtime.FrameID) (Signal, error) {
	sig, err := interp.Evaluate(s.Block, frame)
	if err != nil && s.Handler != nil {
		if ex, ok := runtime.AsException(err); ok {
			sig, err = interp.execCatch(s.Handler, ex.Value, frame)
		}
	}
	if s.Finalizer != nil {
		fsig, ferr := interp.Evaluate(s.Finalizer, frame)
		if err != nil && runtime.IsFault(err) {
			return Signal{}, err
		}
		if ferr != nil {
			return Signal{}, ferr
		}
		if fsig.Kind != Normal {
			return fsig, nil
		}
	}
	return sig, err
}

func (interp *Interpreter) execCatch(c *ast.CatchClause, thrown *runtime.Value, frame runtime.FrameID) (Signal, error) {
	cf := interp.scope.Push(frame, runtime.FrameCatch, true)
	defer interp.scope.Release(cf)
	if c.Param != nil {
		if err := interp.bindPattern(c.Param, thrown, cf, bindConst); err != nil {
			return Signal{}, err
		}
	}
	return interp.Evaluate(c.Body, cf)
}

// execLoopBody runs one iteration in a fresh transparent frame, so closures
// created in the body capture state private to that iteration.
func (interp *Interpreter) execLoopBody(body ast.Statement, frame runtime.FrameID) (Signal, error) {
	iter := interp.scope.Push(frame, runtime.FrameLoop, true)
	defer interp.scope.Release(iter)
	return interp.Evaluate(body, iter)
}

// loopControl interprets an iteration's signal: done reports whether the loop
// ends, and out is what the loop completes with when it does.
func loopControl(sig Signal, last *runtime.Value) (done bool, out Signal, next *runtime.Value) {
	if sig.Value != nil && sig.Kind == Normal {
		last = sig.Value
	}
	switch sig.Kind {
	case Break:
		return true, normal(last), last
	case Return:
		return true, sig, last
	}
	return false, Signal{}, last
}

func (interp *Interpreter) execWhile(s *ast.WhileStatement, frame runtime.FrameID) (Signal, error) {
	var last *runtime.Value
	for {
		test, err := interp.eval(s.Test, frame)
		if err != nil {
			return Signal{}, err
		}
		if !test.ToBoolean() {
			break
		}
		sig, err := interp.execLoopBody(s.Body, frame)
		if err != nil {
			return Signal{}, err
		}
		done, out, l := loopControl(sig, last)
		if done {
			return out, nil
		}
		last = l
	}
	return normal(last), nil
}

func (interp *Interpreter) execDoWhile(s *ast.DoWhileStatement, frame runtime.FrameID) (Signal, error) {
	var last *runtime.Value
	for {
		sig, err := interp.execLoopBody(s.Body, frame)
		if err != nil {
			return Signal{}, err
		}
		done, out, l := loopControl(sig, last)
		if done {
			return out, nil
		}
		last = l
		test, err := interp.eval(s.Test, frame)
		if err != nil {
			return Signal{}, err
		}
		if !test.ToBoolean() {
			break
		}
	}
	return normal(last), nil
}

// execFor gives a declared loop head its own frame. With let or const the
// head is copied for every iteration, so each iteration's closures see their
// own bindings while the update expression advances the next copy.
func (interp *Interpreter) execFor(s *ast.ForStatement, frame runtime.FrameID) (Signal, error) {
	iterFrame := frame
	perIteration := false
	switch init := s.Init.(type) {
	case nil:
	case *ast.VariableDeclaration:
		head := interp.scope.Push(frame, runtime.FrameLoop, false)
		defer interp.scope.Release(head)
		if _, err := interp.Evaluate(init, head); err != nil {
			return Signal{}, err
		}
		iterFrame = head
		if init.DeclKind != ast.DeclVar {
			perIteration = true
			iterFrame = interp.scope.CopyFrame(head)
		}
	case ast.Expression:
		if _, err := interp.eval(init, frame); err != nil {
			return Signal{}, err
		}
	default:
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "invalid for-loop initializer %s", init.Kind())
	}
	if perIteration {
		defer func() { interp.scope.Release(iterFrame) }()
	}

	var last *runtime.Value
	for {
		if s.Test != nil {
			test, err := interp.eval(s.Test, iterFrame)
			if err != nil {
				return Signal{}, err
			}
			if !test.ToBoolean() {
				break
			}
		}
		sig, err := interp.execLoopBody(s.Body, iterFrame)
		if err != nil {
			return Signal{}, err
		}
		done, out, l := loopControl(sig, last)
		if done {
			return out, nil
		}
		last = l
		if perIteration {
			next := interp.scope.CopyFrame(iterFrame)
			interp.scope.Release(iterFrame)
			iterFrame = next
		}
		if s.Update != nil {
			if _, err := interp.eval(s.Update, iterFrame); err != nil {
				return Signal{}, err
			}
		}
	}
	return normal(last), nil
}

// execForIn visits enumerable keys, own before inherited. A declared loop
// variable is bound afresh in each iteration's frame.
func (interp *Interpreter) execForIn(s *ast.ForInStatement, frame runtime.FrameID) (Signal, error) {
	obj, err := interp.eval(s.Right, frame)
	if err != nil {
		return Signal{}, err
	}
	var last *runtime.Value
	for _, key := range runtime.EnumerableKeys(obj) {
		sig, err := interp.forInIteration(s, runtime.NewString(key), frame)
		if err != nil {
			return Signal{}, err
		}
		done, out, l := loopControl(sig, last)
		if done {
			return out, nil
		}
		last = l
	}
	return normal(last), nil
}

func (interp *Interpreter) forInIteration(s *ast.ForInStatement, key *runtime.Value, frame runtime.FrameID) (Signal, error) {
	iter := interp.scope.Push(frame, runtime.FrameLoop, true)
	defer interp.scope.Release(iter)
	switch left := s.Left.(type) {
	case *ast.VariableDeclaration:
		if len(left.Declarations) != 1 {
			return Signal{}, runtime.NewFault(runtime.UnknownNode, "for-in declaration must declare exactly one binding")
		}
		if err := interp.declareTarget(left.DeclKind, left.Declarations[0].ID, key, iter); err != nil {
			return Signal{}, err
		}
	case ast.Pattern:
		if err := interp.bindPattern(left, key, frame, bindAssign); err != nil {
			return Signal{}, err
		}
	default:
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "invalid for-in target %s", s.Left.Kind())
	}
	return interp.Evaluate(s.Body, iter)
}

// execSwitch matches cases with strict equality in source order, falls back
// to default, and falls through until a break.
func (interp *Interpreter) execSwitch(s *ast.SwitchStatement, frame runtime.FrameID) (Signal, error) {
	disc, err := interp.eval(s.Discriminant, frame)
	if err != nil {
		return Signal{}, err
	}
	sw := interp.scope.Push(frame, runtime.FrameSwitch, false)
	defer interp.scope.Release(sw)

	var all []ast.Statement
	for _, c := range s.Cases {
		all = append(all, c.Consequent...)
	}
	if err := interp.hoistFunctions(all, sw); err != nil {
		return Signal{}, err
	}

	matched, fallback := -1, -1
	for i, c := range s.Cases {
		if c.Test == nil {
			fallback = i
			continue
		}
		v, err := interp.eval(c.Test, sw)
		if err != nil {
			return Signal{}, err
		}
		if runtime.StrictEquals(disc, v) {
			matched = i
			break
		}
	}
	if matched < 0 {
		matched = fallback
	}
	if matched < 0 {
		return normal(nil), nil
	}

	var last *runtime.Value
	for _, c := range s.Cases[matched:] {
		for _, stmt := range c.Consequent {
			sig, err := interp.Evaluate(stmt, sw)
			if err != nil {
				return Signal{}, err
			}
			switch sig.Kind {
			case Break:
				return normal(last), nil
			case Continue, Return:
				return sig, nil
			}
			if sig.Value != nil {
				last = sig.Value
			}
		}
	}
	return normal(last), nil
}

func (interp *Interpreter) execVarDecl(s *ast.VariableDeclaration, frame runtime.FrameID) (Signal, error) {
	for _, d := range s.Declarations {
		if d.Init == nil {
			if s.DeclKind == ast.DeclVar && interp.varScoping == VarScopingFunction {
				continue
			}
			if err := interp.declareTarget(s.DeclKind, d.ID, runtime.Undefined, frame); err != nil {
				return Signal{}, err
			}
			continue
		}
		hint := ""
		if id, ok := d.ID.(*ast.Identifier); ok {
			hint = id.Name
		}
		v, err := interp.evalNamed(d.Init, frame, hint)
		if err != nil {
			return Signal{}, err
		}
		if err := interp.declareTarget(s.DeclKind, d.ID, v, frame); err != nil {
			return Signal{}, err
		}
	}
	return normal(nil), nil
}

// declareTarget binds a declared name or pattern. Plain identifiers follow
// the keyword (const is immutable); destructured names are always const.
func (interp *Interpreter) declareTarget(kind ast.DeclKind, target ast.Pattern, v *runtime.Value, frame runtime.FrameID) error {
	if kind == ast.DeclVar && interp.varScoping == VarScopingFunction {
		return interp.bindPattern(target, v, frame, bindVar)
	}
	if id, ok := target.(*ast.Identifier); ok {
		return interp.scope.Declare(frame, id.Name, v, kind != ast.DeclConst)
	}
	return interp.bindPattern(target, v, frame, bindConst)
}

func (interp *Interpreter) execFunctionDeclaration(s *ast.FunctionDeclaration, frame runtime.FrameID) (Signal, error) {
	if s.ID == nil {
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "function declaration without a name")
	}
	// Already bound when the enclosing statement list was hoisted.
	if _, owner, ok := interp.scope.Find(frame, s.ID.Name); ok && owner == frame {
		return normal(nil), nil
	}
	fn, err := interp.makeFunctionDeclaration(s, frame)
	if err != nil {
		return Signal{}, err
	}
	return normal(nil), interp.scope.DeclareConst(frame, s.ID.Name, fn)
}

func (interp *Interpreter) execClassDecl(s *ast.ClassDeclaration, frame runtime.FrameID) (Signal, error) {
	if s.ID == nil {
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "class declaration without a name")
	}
	cls, err := interp.buildClass(s.ID.Name, s.SuperClass, s.Body, frame, false)
	if err != nil {
		return Signal{}, err
	}
	return normal(nil), interp.scope.Declare(frame, s.ID.Name, cls, true)
}
