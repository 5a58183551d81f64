// Package estree reads ESTree programs from JSON or YAML into the ast package
// and writes ast trees back out as ESTree JSON.
package estree

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/example/esgo/ast"
)

// Decode reads an ESTree Program from JSON.
func Decode(data []byte) (*ast.Program, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("estree: invalid JSON")
	}
	return DecodeValue(gjson.ParseBytes(data).Value())
}

// DecodeYAML reads an ESTree Program written as YAML.
func DecodeYAML(data []byte) (*ast.Program, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "estree: yaml")
	}
	return DecodeValue(v)
}

// DecodeValue converts an already-unmarshalled generic tree (maps, slices
// and scalars) into a Program. Nodes with unrecognised types decode to
// ast.Unknown; structural problems are reported with the path of the
// offending value, e.g. "$.body[2].expression".
func DecodeValue(v any) (*ast.Program, error) {
	d := &decoder{}
	n := d.node(v, "$")
	if d.err != nil {
		return nil, d.err
	}
	if n == nil {
		return nil, errors.New("$: missing program")
	}
	prog, ok := n.(*ast.Program)
	if !ok {
		return nil, errors.Errorf("$: expected Program, got %s", n.Kind())
	}
	return prog, nil
}

// decoder keeps the first error it meets; every helper is a no-op after that.
type decoder struct {
	err error
}

func (d *decoder) fail(path, format string, args ...any) {
	if d.err == nil {
		d.err = errors.Wrap(errors.Errorf(format, args...), path)
	}
}

// object accepts both map shapes yaml.v3 produces.
func object(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	}
	if _, ok := number(v); ok {
		return "number"
	}
	if _, ok := object(v); ok {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func (d *decoder) node(v any, path string) ast.Node {
	if v == nil || d.err != nil {
		return nil
	}
	m, ok := object(v)
	if !ok {
		d.fail(path, "expected a node, got %s", describe(v))
		return nil
	}
	typ, ok := m["type"].(string)
	if !ok {
		d.fail(path, "missing node type")
		return nil
	}
	n := d.build(ast.KindOf(typ), typ, m, path, d.span(m, path))
	if d.err != nil {
		return nil
	}
	return n
}

func (d *decoder) span(m map[string]any, path string) ast.Span {
	loc, ok := object(m["loc"])
	if !ok {
		return ast.Span{}
	}
	return ast.Span{
		Start: d.position(loc["start"], path+".loc.start"),
		End:   d.position(loc["end"], path+".loc.end"),
	}
}

func (d *decoder) position(v any, path string) ast.Position {
	m, ok := object(v)
	if !ok {
		return ast.Position{}
	}
	line, lok := number(m["line"])
	col, cok := number(m["column"])
	if !lok || !cok {
		d.fail(path, "line and column must be numbers")
		return ast.Position{}
	}
	return ast.Position{Line: int(line), Column: int(col)}
}

func (d *decoder) str(m map[string]any, key, path string) string {
	switch s := m[key].(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		d.fail(path+"."+key, "expected string, got %s", describe(s))
		return ""
	}
}

func (d *decoder) flag(m map[string]any, key, path string) bool {
	switch b := m[key].(type) {
	case nil:
		return false
	case bool:
		return b
	default:
		d.fail(path+"."+key, "expected boolean, got %s", describe(b))
		return false
	}
}

func (d *decoder) child(m map[string]any, key, path string) ast.Node {
	return d.node(m[key], path+"."+key)
}

// required is child for members ESTree never leaves null.
func (d *decoder) required(m map[string]any, key, path string) ast.Node {
	n := d.child(m, key, path)
	if n == nil && d.err == nil {
		d.fail(path+"."+key, "missing %s", key)
	}
	return n
}

// as asserts the dynamic type of a decoded child. A nil node stays nil.
func as[T any](d *decoder, n ast.Node, path, want string) T {
	var zero T
	if n == nil || d.err != nil {
		return zero
	}
	t, ok := n.(T)
	if !ok {
		d.fail(path, "expected %s, got %s", want, n.Kind())
		return zero
	}
	return t
}

func (d *decoder) expr(m map[string]any, key, path string) ast.Expression {
	return as[ast.Expression](d, d.child(m, key, path), path+"."+key, "an expression")
}

func (d *decoder) mustExpr(m map[string]any, key, path string) ast.Expression {
	return as[ast.Expression](d, d.required(m, key, path), path+"."+key, "an expression")
}

func (d *decoder) stmt(m map[string]any, key, path string) ast.Statement {
	return as[ast.Statement](d, d.child(m, key, path), path+"."+key, "a statement")
}

func (d *decoder) mustStmt(m map[string]any, key, path string) ast.Statement {
	return as[ast.Statement](d, d.required(m, key, path), path+"."+key, "a statement")
}

func (d *decoder) pattern(m map[string]any, key, path string) ast.Pattern {
	return as[ast.Pattern](d, d.child(m, key, path), path+"."+key, "a pattern")
}

func (d *decoder) mustPattern(m map[string]any, key, path string) ast.Pattern {
	return as[ast.Pattern](d, d.required(m, key, path), path+"."+key, "a pattern")
}

func (d *decoder) ident(m map[string]any, key, path string) *ast.Identifier {
	return as[*ast.Identifier](d, d.child(m, key, path), path+"."+key, "Identifier")
}

func (d *decoder) block(m map[string]any, key, path string) *ast.BlockStatement {
	return as[*ast.BlockStatement](d, d.child(m, key, path), path+"."+key, "BlockStatement")
}

func (d *decoder) mustBlock(m map[string]any, key, path string) *ast.BlockStatement {
	return as[*ast.BlockStatement](d, d.required(m, key, path), path+"."+key, "BlockStatement")
}

// list decodes an array member. Null elements are kept as nil so array holes
// survive.
// list decodes an array member whose elements must all be present.
func list[T any](d *decoder, m map[string]any, key, path, want string) []T {
	return decodeList[T](d, m, key, path, want, false)
}

// holey is list for array literals and array patterns, where null marks a
// hole and stays a nil element.
func holey[T any](d *decoder, m map[string]any, key, path, want string) []T {
	return decodeList[T](d, m, key, path, want, true)
}

func decodeList[T any](d *decoder, m map[string]any, key, path, want string, holes bool) []T {
	raw, ok := m[key]
	if !ok || raw == nil || d.err != nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		d.fail(path+"."+key, "expected array, got %s", describe(raw))
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		p := path + "." + key + "[" + strconv.Itoa(i) + "]"
		if item == nil && !holes {
			d.fail(p, "expected %s, got null", want)
			return nil
		}
		out[i] = as[T](d, d.node(item, p), p, want)
	}
	return out
}

func (d *decoder) params(m map[string]any, path string) []ast.Pattern {
	return list[ast.Pattern](d, m, "params", path, "a pattern")
}

func (d *decoder) build(kind ast.Kind, typ string, m map[string]any, path string, span ast.Span) ast.Node {
	switch kind {
	case ast.KindProgram:
		return &ast.Program{Span: span, Body: list[ast.Statement](d, m, "body", path, "a statement")}

	case ast.KindExpressionStatement:
		return &ast.ExpressionStatement{Span: span, Expression: d.mustExpr(m, "expression", path)}
	case ast.KindBlockStatement:
		return &ast.BlockStatement{Span: span, Body: list[ast.Statement](d, m, "body", path, "a statement")}
	case ast.KindEmptyStatement:
		return &ast.EmptyStatement{Span: span}
	case ast.KindDebuggerStatement:
		return &ast.DebuggerStatement{Span: span}
	case ast.KindReturnStatement:
		return &ast.ReturnStatement{Span: span, Argument: d.expr(m, "argument", path)}
	case ast.KindBreakStatement:
		return &ast.BreakStatement{Span: span, Label: d.ident(m, "label", path)}
	case ast.KindContinueStatement:
		return &ast.ContinueStatement{Span: span, Label: d.ident(m, "label", path)}
	case ast.KindIfStatement:
		return &ast.IfStatement{
			Span:       span,
			Test:       d.mustExpr(m, "test", path),
			Consequent: d.mustStmt(m, "consequent", path),
			Alternate:  d.stmt(m, "alternate", path),
		}
	case ast.KindSwitchStatement:
		return &ast.SwitchStatement{
			Span:         span,
			Discriminant: d.mustExpr(m, "discriminant", path),
			Cases:        list[*ast.SwitchCase](d, m, "cases", path, "SwitchCase"),
		}
	case ast.KindSwitchCase:
		return &ast.SwitchCase{
			Span:       span,
			Test:       d.expr(m, "test", path),
			Consequent: list[ast.Statement](d, m, "consequent", path, "a statement"),
		}
	case ast.KindThrowStatement:
		return &ast.ThrowStatement{Span: span, Argument: d.mustExpr(m, "argument", path)}
	case ast.KindTryStatement:
		return &ast.TryStatement{
			Span:      span,
			Block:     d.mustBlock(m, "block", path),
			Handler:   as[*ast.CatchClause](d, d.child(m, "handler", path), path+".handler", "CatchClause"),
			Finalizer: d.block(m, "finalizer", path),
		}
	case ast.KindCatchClause:
		return &ast.CatchClause{Span: span, Param: d.pattern(m, "param", path), Body: d.mustBlock(m, "body", path)}
	case ast.KindWhileStatement:
		return &ast.WhileStatement{Span: span, Test: d.mustExpr(m, "test", path), Body: d.mustStmt(m, "body", path)}
	case ast.KindDoWhileStatement:
		return &ast.DoWhileStatement{Span: span, Body: d.mustStmt(m, "body", path), Test: d.mustExpr(m, "test", path)}
	case ast.KindForStatement:
		return &ast.ForStatement{
			Span:   span,
			Init:   d.child(m, "init", path),
			Test:   d.expr(m, "test", path),
			Update: d.expr(m, "update", path),
			Body:   d.mustStmt(m, "body", path),
		}
	case ast.KindForInStatement:
		return &ast.ForInStatement{
			Span:  span,
			Left:  d.required(m, "left", path),
			Right: d.mustExpr(m, "right", path),
			Body:  d.mustStmt(m, "body", path),
		}
	case ast.KindFunctionDeclaration:
		return &ast.FunctionDeclaration{
			Span:      span,
			ID:        d.ident(m, "id", path),
			Params:    d.params(m, path),
			Body:      d.mustBlock(m, "body", path),
			Generator: d.flag(m, "generator", path),
			Async:     d.flag(m, "async", path),
		}
	case ast.KindVariableDeclaration:
		declKind := ast.DeclKind(d.str(m, "kind", path))
		switch declKind {
		case ast.DeclVar, ast.DeclLet, ast.DeclConst:
		default:
			d.fail(path+".kind", "unknown declaration kind %q", declKind)
		}
		return &ast.VariableDeclaration{
			Span:         span,
			DeclKind:     declKind,
			Declarations: list[*ast.VariableDeclarator](d, m, "declarations", path, "VariableDeclarator"),
		}
	case ast.KindVariableDeclarator:
		return &ast.VariableDeclarator{Span: span, ID: d.mustPattern(m, "id", path), Init: d.expr(m, "init", path)}
	case ast.KindClassDeclaration:
		return &ast.ClassDeclaration{
			Span:       span,
			ID:         d.ident(m, "id", path),
			SuperClass: d.expr(m, "superClass", path),
			Body:       as[*ast.ClassBody](d, d.required(m, "body", path), path+".body", "ClassBody"),
		}

	case ast.KindIdentifier:
		return &ast.Identifier{Span: span, Name: d.str(m, "name", path)}
	case ast.KindLiteral:
		return d.literal(m, path, span)
	case ast.KindThisExpression:
		return &ast.ThisExpression{Span: span}
	case ast.KindSuper:
		return &ast.Super{Span: span}
	case ast.KindArrayExpression:
		return &ast.ArrayExpression{Span: span, Elements: holey[ast.Expression](d, m, "elements", path, "an expression")}
	case ast.KindObjectExpression:
		return &ast.ObjectExpression{Span: span, Properties: list[ast.Node](d, m, "properties", path, "a property")}
	case ast.KindProperty:
		kind := ast.PropKind(d.str(m, "kind", path))
		if kind == "" {
			kind = ast.PropInit
		}
		return &ast.Property{
			Span:      span,
			Key:       d.mustExpr(m, "key", path),
			Value:     d.required(m, "value", path),
			PropKind:  kind,
			Method:    d.flag(m, "method", path),
			Shorthand: d.flag(m, "shorthand", path),
			Computed:  d.flag(m, "computed", path),
		}
	case ast.KindFunctionExpression:
		return &ast.FunctionExpression{
			Span:      span,
			ID:        d.ident(m, "id", path),
			Params:    d.params(m, path),
			Body:      d.mustBlock(m, "body", path),
			Generator: d.flag(m, "generator", path),
			Async:     d.flag(m, "async", path),
		}
	case ast.KindArrowFunctionExpression:
		return &ast.ArrowFunctionExpression{
			Span:       span,
			Params:     d.params(m, path),
			Body:       d.required(m, "body", path),
			Expression: d.flag(m, "expression", path),
			Async:      d.flag(m, "async", path),
		}
	case ast.KindClassExpression:
		return &ast.ClassExpression{
			Span:       span,
			ID:         d.ident(m, "id", path),
			SuperClass: d.expr(m, "superClass", path),
			Body:       as[*ast.ClassBody](d, d.required(m, "body", path), path+".body", "ClassBody"),
		}
	case ast.KindClassBody:
		return &ast.ClassBody{Span: span, Body: list[ast.Node](d, m, "body", path, "a class member")}
	case ast.KindMethodDefinition:
		return &ast.MethodDefinition{
			Span:       span,
			Key:        d.mustExpr(m, "key", path),
			Value:      as[*ast.FunctionExpression](d, d.required(m, "value", path), path+".value", "FunctionExpression"),
			MethodKind: ast.MethodKind(d.str(m, "kind", path)),
			Computed:   d.flag(m, "computed", path),
			Static:     d.flag(m, "static", path),
		}
	case ast.KindUnaryExpression:
		return &ast.UnaryExpression{
			Span:     span,
			Operator: d.str(m, "operator", path),
			Prefix:   d.flag(m, "prefix", path),
			Argument: d.mustExpr(m, "argument", path),
		}
	case ast.KindUpdateExpression:
		return &ast.UpdateExpression{
			Span:     span,
			Operator: d.str(m, "operator", path),
			Prefix:   d.flag(m, "prefix", path),
			Argument: d.mustExpr(m, "argument", path),
		}
	case ast.KindBinaryExpression:
		return &ast.BinaryExpression{
			Span:     span,
			Operator: d.str(m, "operator", path),
			Left:     d.mustExpr(m, "left", path),
			Right:    d.mustExpr(m, "right", path),
		}
	case ast.KindLogicalExpression:
		return &ast.LogicalExpression{
			Span:     span,
			Operator: d.str(m, "operator", path),
			Left:     d.mustExpr(m, "left", path),
			Right:    d.mustExpr(m, "right", path),
		}
	case ast.KindAssignmentExpression:
		return &ast.AssignmentExpression{
			Span:     span,
			Operator: d.str(m, "operator", path),
			Left:     d.mustPattern(m, "left", path),
			Right:    d.mustExpr(m, "right", path),
		}
	case ast.KindConditionalExpression:
		return &ast.ConditionalExpression{
			Span:       span,
			Test:       d.mustExpr(m, "test", path),
			Consequent: d.mustExpr(m, "consequent", path),
			Alternate:  d.mustExpr(m, "alternate", path),
		}
	case ast.KindCallExpression:
		return &ast.CallExpression{
			Span:      span,
			Callee:    d.mustExpr(m, "callee", path),
			Arguments: list[ast.Expression](d, m, "arguments", path, "an expression"),
			Optional:  d.flag(m, "optional", path),
		}
	case ast.KindNewExpression:
		return &ast.NewExpression{
			Span:      span,
			Callee:    d.mustExpr(m, "callee", path),
			Arguments: list[ast.Expression](d, m, "arguments", path, "an expression"),
		}
	case ast.KindMemberExpression:
		return &ast.MemberExpression{
			Span:     span,
			Object:   d.mustExpr(m, "object", path),
			Property: d.mustExpr(m, "property", path),
			Computed: d.flag(m, "computed", path),
			Optional: d.flag(m, "optional", path),
		}
	case ast.KindSequenceExpression:
		return &ast.SequenceExpression{Span: span, Expressions: list[ast.Expression](d, m, "expressions", path, "an expression")}

	case ast.KindArrayPattern:
		return &ast.ArrayPattern{Span: span, Elements: holey[ast.Pattern](d, m, "elements", path, "a pattern")}
	case ast.KindObjectPattern:
		return &ast.ObjectPattern{Span: span, Properties: list[ast.Node](d, m, "properties", path, "a property")}
	case ast.KindAssignmentPattern:
		return &ast.AssignmentPattern{Span: span, Left: d.mustPattern(m, "left", path), Right: d.mustExpr(m, "right", path)}
	case ast.KindRestElement:
		return &ast.RestElement{Span: span, Argument: d.mustPattern(m, "argument", path)}

	case ast.KindForOfStatement:
		return &ast.ForOfStatement{
			Span:  span,
			Left:  d.required(m, "left", path),
			Right: d.mustExpr(m, "right", path),
			Body:  d.mustStmt(m, "body", path),
			Await: d.flag(m, "await", path),
		}
	case ast.KindLabeledStatement:
		return &ast.LabeledStatement{Span: span, Label: d.ident(m, "label", path), Body: d.mustStmt(m, "body", path)}
	case ast.KindWithStatement:
		return &ast.WithStatement{Span: span, Object: d.mustExpr(m, "object", path), Body: d.mustStmt(m, "body", path)}
	case ast.KindTemplateLiteral:
		return &ast.TemplateLiteral{
			Span:        span,
			Quasis:      list[*ast.TemplateElement](d, m, "quasis", path, "TemplateElement"),
			Expressions: list[ast.Expression](d, m, "expressions", path, "an expression"),
		}
	case ast.KindTemplateElement:
		value, _ := object(m["value"])
		el := &ast.TemplateElement{Span: span, Tail: d.flag(m, "tail", path)}
		if value != nil {
			el.Raw = d.str(value, "raw", path+".value")
			el.Cooked = d.str(value, "cooked", path+".value")
		}
		return el
	case ast.KindTaggedTemplateExpression:
		return &ast.TaggedTemplateExpression{
			Span:  span,
			Tag:   d.mustExpr(m, "tag", path),
			Quasi: as[*ast.TemplateLiteral](d, d.required(m, "quasi", path), path+".quasi", "TemplateLiteral"),
		}
	case ast.KindYieldExpression:
		return &ast.YieldExpression{Span: span, Argument: d.expr(m, "argument", path), Delegate: d.flag(m, "delegate", path)}
	case ast.KindAwaitExpression:
		return &ast.AwaitExpression{Span: span, Argument: d.mustExpr(m, "argument", path)}
	case ast.KindSpreadElement:
		return &ast.SpreadElement{Span: span, Argument: d.mustExpr(m, "argument", path)}
	case ast.KindMetaProperty:
		return &ast.MetaProperty{Span: span, Meta: d.ident(m, "meta", path), Property: d.ident(m, "property", path)}
	case ast.KindChainExpression:
		return &ast.ChainExpression{Span: span, Expression: d.mustExpr(m, "expression", path)}
	case ast.KindImportExpression:
		return &ast.ImportExpression{Span: span, Source: d.mustExpr(m, "source", path)}
	case ast.KindPropertyDefinition:
		return &ast.PropertyDefinition{
			Span:     span,
			Key:      d.mustExpr(m, "key", path),
			Value:    d.expr(m, "value", path),
			Computed: d.flag(m, "computed", path),
			Static:   d.flag(m, "static", path),
		}
	case ast.KindStaticBlock:
		return &ast.StaticBlock{Span: span, Body: list[ast.Statement](d, m, "body", path, "a statement")}
	case ast.KindImportDeclaration, ast.KindExportNamedDeclaration,
		ast.KindExportDefaultDeclaration, ast.KindExportAllDeclaration:
		return &ast.ModuleDeclaration{Span: span, Which: kind}
	}
	return &ast.Unknown{Span: span, Type: typ}
}

// literal decodes the value of a Literal. Regex and BigInt literals carry
// their own members; their value is left nil.
func (d *decoder) literal(m map[string]any, path string, span ast.Span) *ast.Literal {
	lit := &ast.Literal{Span: span, Raw: d.str(m, "raw", path), Bigint: d.str(m, "bigint", path)}
	if re, ok := object(m["regex"]); ok {
		lit.Regex = &ast.RegExp{Pattern: d.str(re, "pattern", path+".regex"), Flags: d.str(re, "flags", path+".regex")}
		return lit
	}
	if lit.Bigint != "" {
		return lit
	}
	switch v := m["value"].(type) {
	case nil, bool, string:
		lit.Value = v
	default:
		n, ok := number(v)
		if !ok {
			d.fail(path+".value", "unsupported literal value %s", describe(v))
			return nil
		}
		lit.Value = n
	}
	return lit
}
