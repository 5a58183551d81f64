package interpreter

import "github.com/example/esgo/ast"

// Builders for the ES2015 constructs the ES5 source parser cannot produce.

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func num(n float64) *ast.Literal { return &ast.Literal{Value: n} }

func str(s string) *ast.Literal { return &ast.Literal{Value: s} }

func program(body ...ast.Statement) *ast.Program { return &ast.Program{Body: body} }

func exprStmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: e}
}

func block(body ...ast.Statement) *ast.BlockStatement { return &ast.BlockStatement{Body: body} }

func ret(e ast.Expression) *ast.ReturnStatement { return &ast.ReturnStatement{Argument: e} }

func declare(kind ast.DeclKind, id ast.Pattern, init ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		DeclKind:     kind,
		Declarations: []*ast.VariableDeclarator{{ID: id, Init: init}},
	}
}

func letDecl(name string, init ast.Expression) *ast.VariableDeclaration {
	return declare(ast.DeclLet, ident(name), init)
}

func constDecl(name string, init ast.Expression) *ast.VariableDeclaration {
	return declare(ast.DeclConst, ident(name), init)
}

func params(names ...string) []ast.Pattern {
	out := make([]ast.Pattern, len(names))
	for i, n := range names {
		out[i] = ident(n)
	}
	return out
}

func call(callee ast.Expression, args ...ast.Expression) *ast.CallExpression {
	return &ast.CallExpression{Callee: callee, Arguments: args}
}

func newExpr(callee ast.Expression, args ...ast.Expression) *ast.NewExpression {
	return &ast.NewExpression{Callee: callee, Arguments: args}
}

func member(object ast.Expression, prop string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: object, Property: ident(prop)}
}

func index(object, key ast.Expression) *ast.MemberExpression {
	return &ast.MemberExpression{Object: object, Property: key, Computed: true}
}

func bin(op string, left, right ast.Expression) *ast.BinaryExpression {
	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
}

func assign(op string, left ast.Pattern, right ast.Expression) *ast.AssignmentExpression {
	return &ast.AssignmentExpression{Operator: op, Left: left, Right: right}
}

func this() *ast.ThisExpression { return &ast.ThisExpression{} }

func arr(elements ...ast.Expression) *ast.ArrayExpression {
	return &ast.ArrayExpression{Elements: elements}
}

func obj(props ...*ast.Property) *ast.ObjectExpression {
	out := &ast.ObjectExpression{}
	for _, p := range props {
		out.Properties = append(out.Properties, p)
	}
	return out
}

func prop(key string, value ast.Node) *ast.Property {
	return &ast.Property{Key: ident(key), Value: value, PropKind: ast.PropInit}
}

func arrayPattern(elements ...ast.Pattern) *ast.ArrayPattern {
	return &ast.ArrayPattern{Elements: elements}
}

func objectPattern(props ...*ast.Property) *ast.ObjectPattern {
	out := &ast.ObjectPattern{}
	for _, p := range props {
		out.Properties = append(out.Properties, p)
	}
	return out
}

func withDefault(target ast.Pattern, value ast.Expression) *ast.AssignmentPattern {
	return &ast.AssignmentPattern{Left: target, Right: value}
}

func rest(target ast.Pattern) *ast.RestElement { return &ast.RestElement{Argument: target} }

func arrow(ps []ast.Pattern, body ast.Node) *ast.ArrowFunctionExpression {
	_, isExpr := body.(ast.Expression)
	return &ast.ArrowFunctionExpression{Params: ps, Body: body, Expression: isExpr}
}

func function(name string, ps []ast.Pattern, body ...ast.Statement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{ID: ident(name), Params: ps, Body: block(body...)}
}

func functionExpr(ps []ast.Pattern, body ...ast.Statement) *ast.FunctionExpression {
	return &ast.FunctionExpression{Params: ps, Body: block(body...)}
}

func class(name string, superClass ast.Expression, members ...*ast.MethodDefinition) *ast.ClassDeclaration {
	body := &ast.ClassBody{}
	for _, m := range members {
		body.Body = append(body.Body, m)
	}
	return &ast.ClassDeclaration{ID: ident(name), SuperClass: superClass, Body: body}
}

func method(kind ast.MethodKind, name string, ps []ast.Pattern, body ...ast.Statement) *ast.MethodDefinition {
	return &ast.MethodDefinition{
		Key:        ident(name),
		Value:      functionExpr(ps, body...),
		MethodKind: kind,
	}
}

func ctor(ps []ast.Pattern, body ...ast.Statement) *ast.MethodDefinition {
	return method(ast.MethodConstructor, "constructor", ps, body...)
}

func static(m *ast.MethodDefinition) *ast.MethodDefinition {
	m.Static = true
	return m
}

func superCall(args ...ast.Expression) *ast.ExpressionStatement {
	return exprStmt(call(&ast.Super{}, args...))
}

func superMember(prop string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: &ast.Super{}, Property: ident(prop)}
}

func forLet(name string, from, to float64, body ...ast.Statement) *ast.ForStatement {
	return &ast.ForStatement{
		Init:   letDecl(name, num(from)),
		Test:   bin("<", ident(name), num(to)),
		Update: &ast.UpdateExpression{Operator: "++", Argument: ident(name)},
		Body:   block(body...),
	}
}
