package interpreter

import (
	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// hoistFunctions binds every function declaration of a statement list as a
// const in frame before the list runs, so declarations can call each other
// regardless of order.
func (interp *Interpreter) hoistFunctions(stmts []ast.Statement, frame runtime.FrameID) error {
	for _, stmt := range stmts {
		fd, ok := stmt.(*ast.FunctionDeclaration)
		if !ok || fd.ID == nil {
			continue
		}
		fn, err := interp.makeFunctionDeclaration(fd, frame)
		if err != nil {
			return err
		}
		if err := interp.scope.DeclareConst(frame, fd.ID.Name, fn); err != nil {
			return err
		}
	}
	return nil
}

// hoistVars pre-declares, as undefined, every var found in stmts (outside
// nested functions and classes) in the nearest function frame. Only used in
// function var-scoping mode.
func (interp *Interpreter) hoistVars(stmts []ast.Statement, frame runtime.FrameID) error {
	target := interp.scope.NearestFunction(frame)
	var names []string
	for _, stmt := range stmts {
		names = collectVarNames(stmt, names)
	}
	for _, name := range names {
		if _, owner, ok := interp.scope.Find(target, name); ok && owner == target {
			continue
		}
		if err := interp.scope.Declare(target, name, runtime.Undefined, true); err != nil {
			return err
		}
	}
	return nil
}

func collectVarNames(stmt ast.Statement, names []string) []string {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.DeclKind == ast.DeclVar {
			for _, d := range s.Declarations {
				names = append(names, ast.BindingNames(d.ID)...)
			}
		}
	case *ast.BlockStatement:
		for _, inner := range s.Body {
			names = collectVarNames(inner, names)
		}
	case *ast.IfStatement:
		names = collectVarNames(s.Consequent, names)
		if s.Alternate != nil {
			names = collectVarNames(s.Alternate, names)
		}
	case *ast.ForStatement:
		if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
			names = collectVarNames(decl, names)
		}
		names = collectVarNames(s.Body, names)
	case *ast.ForInStatement:
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			names = collectVarNames(decl, names)
		}
		names = collectVarNames(s.Body, names)
	case *ast.WhileStatement:
		names = collectVarNames(s.Body, names)
	case *ast.DoWhileStatement:
		names = collectVarNames(s.Body, names)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, inner := range c.Consequent {
				names = collectVarNames(inner, names)
			}
		}
	case *ast.TryStatement:
		names = collectVarNames(s.Block, names)
		if s.Handler != nil {
			names = collectVarNames(s.Handler.Body, names)
		}
		if s.Finalizer != nil {
			names = collectVarNames(s.Finalizer, names)
		}
	}
	return names
}
