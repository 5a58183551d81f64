package estree

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"

	"github.com/example/esgo/ast"
)

// Encode writes node as compact ESTree JSON. Every object starts with its
// "type"; null members are written out so the shape matches other ESTree
// producers.
func Encode(node ast.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, encodeNode(node)); err != nil {
		return nil, errors.Wrap(err, "estree: encode")
	}
	return buf.Bytes(), nil
}

// EncodeIndent is Encode with two-space indentation.
func EncodeIndent(node ast.Node) ([]byte, error) {
	data, err := Encode(node)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "}), nil
}

func isNil(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func encodeList[T ast.Node](nodes []T) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = encodeNode(n)
	}
	return out
}

type fields []any

// encodeNode builds an ordered object for n, or nil for an absent node.
func encodeNode(n ast.Node) any {
	if isNil(n) {
		return nil
	}
	m := linkedhashmap.New()
	typ := n.Kind().String()
	if u, ok := n.(*ast.Unknown); ok {
		typ = u.Type
	}
	m.Put("type", typ)

	put := func(kv fields) {
		for i := 0; i+1 < len(kv); i += 2 {
			m.Put(kv[i].(string), kv[i+1])
		}
	}

	switch x := n.(type) {
	case *ast.Program:
		put(fields{"body", encodeList(x.Body), "sourceType", "script"})
	case *ast.ExpressionStatement:
		put(fields{"expression", encodeNode(x.Expression)})
	case *ast.BlockStatement:
		put(fields{"body", encodeList(x.Body)})
	case *ast.ReturnStatement:
		put(fields{"argument", encodeNode(x.Argument)})
	case *ast.BreakStatement:
		put(fields{"label", encodeNode(x.Label)})
	case *ast.ContinueStatement:
		put(fields{"label", encodeNode(x.Label)})
	case *ast.IfStatement:
		put(fields{"test", encodeNode(x.Test), "consequent", encodeNode(x.Consequent), "alternate", encodeNode(x.Alternate)})
	case *ast.SwitchStatement:
		put(fields{"discriminant", encodeNode(x.Discriminant), "cases", encodeList(x.Cases)})
	case *ast.SwitchCase:
		put(fields{"test", encodeNode(x.Test), "consequent", encodeList(x.Consequent)})
	case *ast.ThrowStatement:
		put(fields{"argument", encodeNode(x.Argument)})
	case *ast.TryStatement:
		put(fields{"block", encodeNode(x.Block), "handler", encodeNode(x.Handler), "finalizer", encodeNode(x.Finalizer)})
	case *ast.CatchClause:
		put(fields{"param", encodeNode(x.Param), "body", encodeNode(x.Body)})
	case *ast.WhileStatement:
		put(fields{"test", encodeNode(x.Test), "body", encodeNode(x.Body)})
	case *ast.DoWhileStatement:
		put(fields{"body", encodeNode(x.Body), "test", encodeNode(x.Test)})
	case *ast.ForStatement:
		put(fields{"init", encodeNode(x.Init), "test", encodeNode(x.Test), "update", encodeNode(x.Update), "body", encodeNode(x.Body)})
	case *ast.ForInStatement:
		put(fields{"left", encodeNode(x.Left), "right", encodeNode(x.Right), "body", encodeNode(x.Body)})
	case *ast.FunctionDeclaration:
		put(fields{"id", encodeNode(x.ID), "params", encodeList(x.Params), "body", encodeNode(x.Body),
			"generator", x.Generator, "async", x.Async})
	case *ast.VariableDeclaration:
		put(fields{"declarations", encodeList(x.Declarations), "kind", string(x.DeclKind)})
	case *ast.VariableDeclarator:
		put(fields{"id", encodeNode(x.ID), "init", encodeNode(x.Init)})
	case *ast.ClassDeclaration:
		put(fields{"id", encodeNode(x.ID), "superClass", encodeNode(x.SuperClass), "body", encodeNode(x.Body)})

	case *ast.Identifier:
		put(fields{"name", x.Name})
	case *ast.Literal:
		put(fields{"value", x.Value})
		if x.Raw != "" {
			m.Put("raw", x.Raw)
		}
		if x.Regex != nil {
			re := linkedhashmap.New()
			re.Put("pattern", x.Regex.Pattern)
			re.Put("flags", x.Regex.Flags)
			m.Put("regex", re)
		}
		if x.Bigint != "" {
			m.Put("bigint", x.Bigint)
		}
	case *ast.ArrayExpression:
		put(fields{"elements", encodeList(x.Elements)})
	case *ast.ObjectExpression:
		put(fields{"properties", encodeList(x.Properties)})
	case *ast.Property:
		put(fields{"key", encodeNode(x.Key), "value", encodeNode(x.Value), "kind", string(x.PropKind),
			"method", x.Method, "shorthand", x.Shorthand, "computed", x.Computed})
	case *ast.FunctionExpression:
		put(fields{"id", encodeNode(x.ID), "params", encodeList(x.Params), "body", encodeNode(x.Body),
			"generator", x.Generator, "async", x.Async})
	case *ast.ArrowFunctionExpression:
		put(fields{"params", encodeList(x.Params), "body", encodeNode(x.Body), "expression", x.Expression, "async", x.Async})
	case *ast.ClassExpression:
		put(fields{"id", encodeNode(x.ID), "superClass", encodeNode(x.SuperClass), "body", encodeNode(x.Body)})
	case *ast.ClassBody:
		put(fields{"body", encodeList(x.Body)})
	case *ast.MethodDefinition:
		put(fields{"key", encodeNode(x.Key), "value", encodeNode(x.Value), "kind", string(x.MethodKind),
			"computed", x.Computed, "static", x.Static})
	case *ast.UnaryExpression:
		put(fields{"operator", x.Operator, "prefix", x.Prefix, "argument", encodeNode(x.Argument)})
	case *ast.UpdateExpression:
		put(fields{"operator", x.Operator, "prefix", x.Prefix, "argument", encodeNode(x.Argument)})
	case *ast.BinaryExpression:
		put(fields{"operator", x.Operator, "left", encodeNode(x.Left), "right", encodeNode(x.Right)})
	case *ast.LogicalExpression:
		put(fields{"operator", x.Operator, "left", encodeNode(x.Left), "right", encodeNode(x.Right)})
	case *ast.AssignmentExpression:
		put(fields{"operator", x.Operator, "left", encodeNode(x.Left), "right", encodeNode(x.Right)})
	case *ast.ConditionalExpression:
		put(fields{"test", encodeNode(x.Test), "consequent", encodeNode(x.Consequent), "alternate", encodeNode(x.Alternate)})
	case *ast.CallExpression:
		put(fields{"callee", encodeNode(x.Callee), "arguments", encodeList(x.Arguments), "optional", x.Optional})
	case *ast.NewExpression:
		put(fields{"callee", encodeNode(x.Callee), "arguments", encodeList(x.Arguments)})
	case *ast.MemberExpression:
		put(fields{"object", encodeNode(x.Object), "property", encodeNode(x.Property),
			"computed", x.Computed, "optional", x.Optional})
	case *ast.SequenceExpression:
		put(fields{"expressions", encodeList(x.Expressions)})

	case *ast.ArrayPattern:
		put(fields{"elements", encodeList(x.Elements)})
	case *ast.ObjectPattern:
		put(fields{"properties", encodeList(x.Properties)})
	case *ast.AssignmentPattern:
		put(fields{"left", encodeNode(x.Left), "right", encodeNode(x.Right)})
	case *ast.RestElement:
		put(fields{"argument", encodeNode(x.Argument)})

	case *ast.ForOfStatement:
		put(fields{"left", encodeNode(x.Left), "right", encodeNode(x.Right), "body", encodeNode(x.Body), "await", x.Await})
	case *ast.LabeledStatement:
		put(fields{"label", encodeNode(x.Label), "body", encodeNode(x.Body)})
	case *ast.WithStatement:
		put(fields{"object", encodeNode(x.Object), "body", encodeNode(x.Body)})
	case *ast.TemplateLiteral:
		put(fields{"quasis", encodeList(x.Quasis), "expressions", encodeList(x.Expressions)})
	case *ast.TemplateElement:
		value := linkedhashmap.New()
		value.Put("raw", x.Raw)
		value.Put("cooked", x.Cooked)
		put(fields{"value", value, "tail", x.Tail})
	case *ast.TaggedTemplateExpression:
		put(fields{"tag", encodeNode(x.Tag), "quasi", encodeNode(x.Quasi)})
	case *ast.YieldExpression:
		put(fields{"argument", encodeNode(x.Argument), "delegate", x.Delegate})
	case *ast.AwaitExpression:
		put(fields{"argument", encodeNode(x.Argument)})
	case *ast.SpreadElement:
		put(fields{"argument", encodeNode(x.Argument)})
	case *ast.MetaProperty:
		put(fields{"meta", encodeNode(x.Meta), "property", encodeNode(x.Property)})
	case *ast.ChainExpression:
		put(fields{"expression", encodeNode(x.Expression)})
	case *ast.ImportExpression:
		put(fields{"source", encodeNode(x.Source)})
	case *ast.PropertyDefinition:
		put(fields{"key", encodeNode(x.Key), "value", encodeNode(x.Value), "computed", x.Computed, "static", x.Static})
	case *ast.StaticBlock:
		put(fields{"body", encodeList(x.Body)})
	}

	if span := n.Loc(); span.Valid() {
		loc := linkedhashmap.New()
		loc.Put("start", encodePosition(span.Start))
		if span.End.Line > 0 {
			loc.Put("end", encodePosition(span.End))
		}
		m.Put("loc", loc)
	}
	return m
}

func encodePosition(p ast.Position) *linkedhashmap.Map {
	m := linkedhashmap.New()
	m.Put("line", p.Line)
	m.Put("column", p.Column)
	return m
}

// writeJSON serializes the ordered tree built by encodeNode.
func writeJSON(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case *linkedhashmap.Map:
		buf.WriteByte('{')
		it := x.Iterator()
		first := true
		for it.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(it.Key())
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, it.Value()); err != nil {
				return errors.Wrapf(err, "%v", it.Key())
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, el := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, el); err != nil {
				return errors.Wrapf(err, "[%d]", i)
			}
		}
		buf.WriteByte(']')
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return nil
}
