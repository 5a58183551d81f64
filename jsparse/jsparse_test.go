package jsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esgo/ast"
)

func TestParseStatements(t *testing.T) {
	prog, err := Parse("test.js", "var a = 1, b;\nfunction f(x, y) { return x + y; }\nf(a, 2);")
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, ast.DeclVar, decl.DeclKind)
	require.Len(t, decl.Declarations, 2)
	assert.Equal(t, "a", decl.Declarations[0].ID.(*ast.Identifier).Name)
	assert.Equal(t, 1.0, decl.Declarations[0].Init.(*ast.Literal).Value)
	assert.Nil(t, decl.Declarations[1].Init)

	fn, ok := prog.Body[1].(*ast.FunctionDeclaration)
	require.True(t, ok)
	assert.Equal(t, "f", fn.ID.Name)
	assert.Len(t, fn.Params, 2)
	require.Len(t, fn.Body.Body, 1)
	ret := fn.Body.Body[0].(*ast.ReturnStatement)
	bin := ret.Argument.(*ast.BinaryExpression)
	assert.Equal(t, "+", bin.Operator)

	call := prog.Body[2].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	assert.Equal(t, "f", call.Callee.(*ast.Identifier).Name)
	assert.Len(t, call.Arguments, 2)
}

func TestParseLocations(t *testing.T) {
	prog, err := Parse("test.js", "x;\n  y = 2;")
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)
	assert.Equal(t, ast.Position{Line: 1, Column: 0}, prog.Body[0].Loc().Start)
	assert.Equal(t, ast.Position{Line: 2, Column: 2}, prog.Body[1].Loc().Start)
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.Kind
		op   string
	}{
		{"a && b", ast.KindLogicalExpression, "&&"},
		{"a || b", ast.KindLogicalExpression, "||"},
		{"a === b", ast.KindBinaryExpression, "==="},
		{"a instanceof b", ast.KindBinaryExpression, "instanceof"},
		{"a += 1", ast.KindAssignmentExpression, "+="},
		{"a >>>= 1", ast.KindAssignmentExpression, ">>>="},
		{"a = 1", ast.KindAssignmentExpression, "="},
		{"typeof a", ast.KindUnaryExpression, "typeof"},
		{"!a", ast.KindUnaryExpression, "!"},
		{"a++", ast.KindUpdateExpression, "++"},
		{"--a", ast.KindUpdateExpression, "--"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := Parse("op.js", tt.src)
			require.NoError(t, err)
			expr := prog.Body[0].(*ast.ExpressionStatement).Expression
			assert.Equal(t, tt.kind, expr.Kind())
			switch e := expr.(type) {
			case *ast.LogicalExpression:
				assert.Equal(t, tt.op, e.Operator)
			case *ast.BinaryExpression:
				assert.Equal(t, tt.op, e.Operator)
			case *ast.AssignmentExpression:
				assert.Equal(t, tt.op, e.Operator)
			case *ast.UnaryExpression:
				assert.Equal(t, tt.op, e.Operator)
			case *ast.UpdateExpression:
				assert.Equal(t, tt.op, e.Operator)
			}
		})
	}

	prog, err := Parse("op.js", "a++; ++a;")
	require.NoError(t, err)
	assert.False(t, prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression).Prefix)
	assert.True(t, prog.Body[1].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression).Prefix)
}

func TestParseLoops(t *testing.T) {
	prog, err := Parse("loop.js", "for (var i = 0; i < 3; i++) {}\nfor (;;) { break; }\nfor (i = 0; i < 1; i++) {}\nfor (var k in o) {}\nfor (o.k in o) {}")
	require.NoError(t, err)
	require.Len(t, prog.Body, 5)

	first := prog.Body[0].(*ast.ForStatement)
	assert.IsType(t, &ast.VariableDeclaration{}, first.Init)
	assert.NotNil(t, first.Test)
	assert.NotNil(t, first.Update)

	second := prog.Body[1].(*ast.ForStatement)
	assert.Nil(t, second.Init)
	assert.Nil(t, second.Test)
	assert.Nil(t, second.Update)

	third := prog.Body[2].(*ast.ForStatement)
	assert.IsType(t, &ast.AssignmentExpression{}, third.Init)

	forIn := prog.Body[3].(*ast.ForInStatement)
	decl := forIn.Left.(*ast.VariableDeclaration)
	assert.Equal(t, "k", decl.Declarations[0].ID.(*ast.Identifier).Name)

	member := prog.Body[4].(*ast.ForInStatement)
	assert.IsType(t, &ast.MemberExpression{}, member.Left)
}

func TestParseLiterals(t *testing.T) {
	prog, err := Parse("lit.js", "[1, , 'a', null, true]; ({a: 1, 'b c': 2, 3: 4, get g() { return 1; }}); /x+/g;")
	require.NoError(t, err)

	arr := prog.Body[0].(*ast.ExpressionStatement).Expression.(*ast.ArrayExpression)
	require.Len(t, arr.Elements, 5)
	assert.Nil(t, arr.Elements[1])
	assert.Equal(t, "a", arr.Elements[2].(*ast.Literal).Value)
	assert.Nil(t, arr.Elements[3].(*ast.Literal).Value)
	assert.Equal(t, true, arr.Elements[4].(*ast.Literal).Value)

	obj := prog.Body[1].(*ast.ExpressionStatement).Expression.(*ast.ObjectExpression)
	require.Len(t, obj.Properties, 4)
	assert.Equal(t, "a", obj.Properties[0].(*ast.Property).Key.(*ast.Identifier).Name)
	assert.Equal(t, "b c", obj.Properties[1].(*ast.Property).Key.(*ast.Literal).Value)
	assert.Equal(t, 3.0, obj.Properties[2].(*ast.Property).Key.(*ast.Literal).Value)
	assert.Equal(t, ast.PropGet, obj.Properties[3].(*ast.Property).PropKind)

	re := prog.Body[2].(*ast.ExpressionStatement).Expression.(*ast.Literal)
	require.NotNil(t, re.Regex)
	assert.Equal(t, "x+", re.Regex.Pattern)
	assert.Equal(t, "g", re.Regex.Flags)
}

func TestParseTryAndSwitch(t *testing.T) {
	prog, err := Parse("ctl.js", "try { f(); } catch (e) { g(e); } finally { h(); }\nswitch (x) { case 1: a(); break; default: b(); }\nouter: while (true) { continue outer; }")
	require.NoError(t, err)

	try := prog.Body[0].(*ast.TryStatement)
	require.NotNil(t, try.Handler)
	assert.Equal(t, "e", try.Handler.Param.(*ast.Identifier).Name)
	assert.NotNil(t, try.Finalizer)

	sw := prog.Body[1].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Test)
	assert.Nil(t, sw.Cases[1].Test)
	assert.Len(t, sw.Cases[0].Consequent, 2)

	labeled := prog.Body[2].(*ast.LabeledStatement)
	assert.Equal(t, "outer", labeled.Label.Name)
	cont := labeled.Body.(*ast.WhileStatement).Body.(*ast.BlockStatement).Body[0].(*ast.ContinueStatement)
	assert.Equal(t, "outer", cont.Label.Name)
}

func TestParseError(t *testing.T) {
	_, err := Parse("bad.js", "var = ;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse bad.js")
}
