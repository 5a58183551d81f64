// Package jsparse turns ES5 source text into an esgo AST. Parsing is done by
// otto's parser; this package lowers otto's node set into ESTree-shaped nodes
// with line and column locations.
package jsparse

import (
	"strconv"

	"github.com/pkg/errors"
	oast "github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/file"
	"github.com/robertkrimen/otto/parser"
	"github.com/robertkrimen/otto/token"

	"github.com/example/esgo/ast"
)

// Parse parses src as a script. Regular expression literals are accepted by
// the parser and left for the evaluator to reject.
func Parse(filename, src string) (*ast.Program, error) {
	prog, err := parser.ParseFile(nil, filename, src, parser.IgnoreRegExpErrors)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	l := &lowerer{file: prog.File}
	body, err := l.statements(prog.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "lower %s", filename)
	}
	out := &ast.Program{Body: body}
	out.Start = ast.Position{Line: 1}
	if len(body) > 0 {
		out.Start = body[0].Loc().Start
	}
	return out, nil
}

type lowerer struct {
	file *file.File
}

// span returns the start location of n. otto reports 1-based columns.
func (l *lowerer) span(n oast.Node) ast.Span {
	if l.file == nil || n == nil {
		return ast.Span{}
	}
	pos := l.file.Position(n.Idx0())
	if pos == nil {
		return ast.Span{}
	}
	return ast.Span{Start: ast.Position{Line: pos.Line, Column: pos.Column - 1}}
}

func (l *lowerer) statements(list []oast.Statement) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(list))
	for _, s := range list {
		st, err := l.statement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (l *lowerer) block(s oast.Statement) (*ast.BlockStatement, error) {
	b, ok := s.(*oast.BlockStatement)
	if !ok {
		return nil, errors.Errorf("expected a block, got %T", s)
	}
	body, err := l.statements(b.List)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Span: l.span(b), Body: body}, nil
}

// optional lowers a statement slot that may be absent.
func (l *lowerer) optional(s oast.Statement) (ast.Statement, error) {
	if s == nil {
		return nil, nil
	}
	return l.statement(s)
}

func (l *lowerer) statement(s oast.Statement) (ast.Statement, error) {
	switch s := s.(type) {
	case *oast.BlockStatement:
		return l.block(s)

	case *oast.EmptyStatement:
		return &ast.EmptyStatement{Span: l.span(s)}, nil

	case *oast.DebuggerStatement:
		return &ast.DebuggerStatement{Span: l.span(s)}, nil

	case *oast.ExpressionStatement:
		e, err := l.expression(s.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Span: l.span(s), Expression: e}, nil

	case *oast.VariableStatement:
		return l.varDeclaration(s, s.List)

	case *oast.FunctionStatement:
		fn, err := l.function(s.Function)
		if err != nil {
			return nil, err
		}
		if fn.ID == nil {
			return nil, errors.New("function declaration without a name")
		}
		return &ast.FunctionDeclaration{Span: l.span(s), ID: fn.ID, Params: fn.Params, Body: fn.Body}, nil

	case *oast.IfStatement:
		test, err := l.expression(s.Test)
		if err != nil {
			return nil, err
		}
		cons, err := l.statement(s.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := l.optional(s.Alternate)
		if err != nil {
			return nil, err
		}
		return &ast.IfStatement{Span: l.span(s), Test: test, Consequent: cons, Alternate: alt}, nil

	case *oast.WhileStatement:
		test, err := l.expression(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := l.statement(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStatement{Span: l.span(s), Test: test, Body: body}, nil

	case *oast.DoWhileStatement:
		test, err := l.expression(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := l.statement(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStatement{Span: l.span(s), Test: test, Body: body}, nil

	case *oast.ForStatement:
		return l.forStatement(s)

	case *oast.ForInStatement:
		return l.forInStatement(s)

	case *oast.SwitchStatement:
		disc, err := l.expression(s.Discriminant)
		if err != nil {
			return nil, err
		}
		out := &ast.SwitchStatement{Span: l.span(s), Discriminant: disc}
		for _, c := range s.Body {
			sc := &ast.SwitchCase{Span: l.span(c)}
			if c.Test != nil {
				if sc.Test, err = l.expression(c.Test); err != nil {
					return nil, err
				}
			}
			if sc.Consequent, err = l.statements(c.Consequent); err != nil {
				return nil, err
			}
			out.Cases = append(out.Cases, sc)
		}
		return out, nil

	case *oast.ReturnStatement:
		arg, err := l.optionalExpression(s.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Span: l.span(s), Argument: arg}, nil

	case *oast.ThrowStatement:
		arg, err := l.expression(s.Argument)
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStatement{Span: l.span(s), Argument: arg}, nil

	case *oast.TryStatement:
		return l.tryStatement(s)

	case *oast.BranchStatement:
		var label *ast.Identifier
		if s.Label != nil {
			label = l.identifier(s.Label)
		}
		if s.Token == token.CONTINUE {
			return &ast.ContinueStatement{Span: l.span(s), Label: label}, nil
		}
		return &ast.BreakStatement{Span: l.span(s), Label: label}, nil

	case *oast.LabelledStatement:
		body, err := l.statement(s.Statement)
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStatement{Span: l.span(s), Label: l.identifier(s.Label), Body: body}, nil

	case *oast.WithStatement:
		obj, err := l.expression(s.Object)
		if err != nil {
			return nil, err
		}
		body, err := l.statement(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WithStatement{Span: l.span(s), Object: obj, Body: body}, nil

	case *oast.BadStatement:
		return nil, errors.Errorf("bad statement at %d", s.From)
	}
	return nil, errors.Errorf("unexpected statement %T", s)
}

func (l *lowerer) varDeclaration(at oast.Node, list []oast.Expression) (*ast.VariableDeclaration, error) {
	decl := &ast.VariableDeclaration{Span: l.span(at), DeclKind: ast.DeclVar}
	for _, e := range list {
		ve, ok := e.(*oast.VariableExpression)
		if !ok {
			return nil, errors.Errorf("unexpected declarator %T", e)
		}
		d := &ast.VariableDeclarator{Span: l.span(ve), ID: &ast.Identifier{Span: l.span(ve), Name: ve.Name}}
		if ve.Initializer != nil {
			init, err := l.expression(ve.Initializer)
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Declarations = append(decl.Declarations, d)
	}
	return decl, nil
}

// forStatement unpacks otto's initializer, which is always wrapped in a
// sequence: var declarators, a single expression, or nothing.
func (l *lowerer) forStatement(s *oast.ForStatement) (ast.Statement, error) {
	out := &ast.ForStatement{Span: l.span(s)}
	if seq, ok := s.Initializer.(*oast.SequenceExpression); ok && len(seq.Sequence) > 0 {
		if _, isVar := seq.Sequence[0].(*oast.VariableExpression); isVar {
			decl, err := l.varDeclaration(seq.Sequence[0], seq.Sequence)
			if err != nil {
				return nil, err
			}
			out.Init = decl
		} else {
			init, err := l.expression(seq)
			if err != nil {
				return nil, err
			}
			out.Init = init
		}
	} else if s.Initializer != nil && !ok {
		init, err := l.expression(s.Initializer)
		if err != nil {
			return nil, err
		}
		out.Init = init
	}
	var err error
	if out.Test, err = l.optionalExpression(s.Test); err != nil {
		return nil, err
	}
	if out.Update, err = l.optionalExpression(s.Update); err != nil {
		return nil, err
	}
	if out.Body, err = l.statement(s.Body); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *lowerer) forInStatement(s *oast.ForInStatement) (ast.Statement, error) {
	out := &ast.ForInStatement{Span: l.span(s)}
	switch into := s.Into.(type) {
	case *oast.VariableExpression:
		decl, err := l.varDeclaration(into, []oast.Expression{into})
		if err != nil {
			return nil, err
		}
		out.Left = decl
	default:
		target, err := l.target(s.Into)
		if err != nil {
			return nil, err
		}
		out.Left = target
	}
	var err error
	if out.Right, err = l.expression(s.Source); err != nil {
		return nil, err
	}
	if out.Body, err = l.statement(s.Body); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *lowerer) tryStatement(s *oast.TryStatement) (ast.Statement, error) {
	block, err := l.block(s.Body)
	if err != nil {
		return nil, err
	}
	out := &ast.TryStatement{Span: l.span(s), Block: block}
	if s.Catch != nil {
		body, err := l.block(s.Catch.Body)
		if err != nil {
			return nil, err
		}
		out.Handler = &ast.CatchClause{Span: l.span(s.Catch), Body: body}
		if s.Catch.Parameter != nil {
			out.Handler.Param = l.identifier(s.Catch.Parameter)
		}
	}
	if s.Finally != nil {
		if out.Finalizer, err = l.block(s.Finally); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *lowerer) identifier(id *oast.Identifier) *ast.Identifier {
	return &ast.Identifier{Span: l.span(id), Name: id.Name}
}

// target lowers the left side of an assignment or for-in head.
func (l *lowerer) target(e oast.Expression) (ast.Pattern, error) {
	switch e := e.(type) {
	case *oast.Identifier:
		return l.identifier(e), nil
	case *oast.DotExpression, *oast.BracketExpression:
		m, err := l.expression(e)
		if err != nil {
			return nil, err
		}
		return m.(*ast.MemberExpression), nil
	}
	return nil, errors.Errorf("invalid assignment target %T", e)
}

func (l *lowerer) optionalExpression(e oast.Expression) (ast.Expression, error) {
	if e == nil {
		return nil, nil
	}
	return l.expression(e)
}

func (l *lowerer) expressions(list []oast.Expression) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(list))
	for _, e := range list {
		x, err := l.expression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (l *lowerer) expression(e oast.Expression) (ast.Expression, error) {
	switch e := e.(type) {
	case *oast.Identifier:
		return l.identifier(e), nil

	case *oast.ThisExpression:
		return &ast.ThisExpression{Span: l.span(e)}, nil

	case *oast.NullLiteral:
		return &ast.Literal{Span: l.span(e), Value: nil, Raw: "null"}, nil

	case *oast.BooleanLiteral:
		return &ast.Literal{Span: l.span(e), Value: e.Value, Raw: e.Literal}, nil

	case *oast.StringLiteral:
		return &ast.Literal{Span: l.span(e), Value: e.Value, Raw: e.Literal}, nil

	case *oast.NumberLiteral:
		lit := &ast.Literal{Span: l.span(e), Raw: e.Literal}
		switch v := e.Value.(type) {
		case int64:
			lit.Value = float64(v)
		case float64:
			lit.Value = v
		default:
			return nil, errors.Errorf("unexpected number literal %T", e.Value)
		}
		return lit, nil

	case *oast.RegExpLiteral:
		return &ast.Literal{Span: l.span(e), Raw: e.Literal, Regex: &ast.RegExp{Pattern: e.Pattern, Flags: e.Flags}}, nil

	case *oast.ArrayLiteral:
		out := &ast.ArrayExpression{Span: l.span(e)}
		for _, el := range e.Value {
			if _, hole := el.(*oast.EmptyExpression); hole || el == nil {
				out.Elements = append(out.Elements, nil)
				continue
			}
			x, err := l.expression(el)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, x)
		}
		return out, nil

	case *oast.ObjectLiteral:
		return l.objectLiteral(e)

	case *oast.FunctionLiteral:
		return l.function(e)

	case *oast.DotExpression:
		obj, err := l.expression(e.Left)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Span: l.span(e), Object: obj, Property: l.identifier(e.Identifier)}, nil

	case *oast.BracketExpression:
		obj, err := l.expression(e.Left)
		if err != nil {
			return nil, err
		}
		prop, err := l.expression(e.Member)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Span: l.span(e), Object: obj, Property: prop, Computed: true}, nil

	case *oast.CallExpression:
		callee, err := l.expression(e.Callee)
		if err != nil {
			return nil, err
		}
		args, err := l.expressions(e.ArgumentList)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Span: l.span(e), Callee: callee, Arguments: args}, nil

	case *oast.NewExpression:
		callee, err := l.expression(e.Callee)
		if err != nil {
			return nil, err
		}
		args, err := l.expressions(e.ArgumentList)
		if err != nil {
			return nil, err
		}
		return &ast.NewExpression{Span: l.span(e), Callee: callee, Arguments: args}, nil

	case *oast.UnaryExpression:
		arg, err := l.expression(e.Operand)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case token.INCREMENT, token.DECREMENT:
			return &ast.UpdateExpression{Span: l.span(e), Operator: e.Operator.String(), Prefix: !e.Postfix, Argument: arg}, nil
		}
		return &ast.UnaryExpression{Span: l.span(e), Operator: e.Operator.String(), Prefix: true, Argument: arg}, nil

	case *oast.BinaryExpression:
		left, err := l.expression(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.expression(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case token.LOGICAL_AND, token.LOGICAL_OR:
			return &ast.LogicalExpression{Span: l.span(e), Operator: e.Operator.String(), Left: left, Right: right}, nil
		}
		return &ast.BinaryExpression{Span: l.span(e), Operator: e.Operator.String(), Left: left, Right: right}, nil

	case *oast.AssignExpression:
		left, err := l.target(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := l.expression(e.Right)
		if err != nil {
			return nil, err
		}
		op := "="
		if e.Operator != token.ASSIGN {
			op = e.Operator.String() + "="
		}
		return &ast.AssignmentExpression{Span: l.span(e), Operator: op, Left: left, Right: right}, nil

	case *oast.ConditionalExpression:
		test, err := l.expression(e.Test)
		if err != nil {
			return nil, err
		}
		cons, err := l.expression(e.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := l.expression(e.Alternate)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpression{Span: l.span(e), Test: test, Consequent: cons, Alternate: alt}, nil

	case *oast.SequenceExpression:
		if len(e.Sequence) == 1 {
			return l.expression(e.Sequence[0])
		}
		list, err := l.expressions(e.Sequence)
		if err != nil {
			return nil, err
		}
		return &ast.SequenceExpression{Span: l.span(e), Expressions: list}, nil

	case *oast.BadExpression:
		return nil, errors.Errorf("bad expression at %d", e.From)
	}
	return nil, errors.Errorf("unexpected expression %T", e)
}

func (l *lowerer) objectLiteral(e *oast.ObjectLiteral) (ast.Expression, error) {
	out := &ast.ObjectExpression{Span: l.span(e)}
	for _, p := range e.Value {
		value, err := l.expression(p.Value)
		if err != nil {
			return nil, err
		}
		prop := &ast.Property{Span: value.Loc(), Key: propertyKey(p.Key, value.Loc()), Value: value, PropKind: ast.PropInit}
		switch string(p.Kind) {
		case "get":
			prop.PropKind = ast.PropGet
		case "set":
			prop.PropKind = ast.PropSet
		}
		out.Properties = append(out.Properties, prop)
	}
	return out, nil
}

// propertyKey gives identifier-like keys an Identifier node and numeric keys
// a number literal, so they normalize the way the evaluator expects.
func propertyKey(key string, at ast.Span) ast.Expression {
	if isIdentifierName(key) {
		return &ast.Identifier{Span: at, Name: key}
	}
	if f, err := strconv.ParseFloat(key, 64); err == nil {
		return &ast.Literal{Span: at, Value: f, Raw: key}
	}
	return &ast.Literal{Span: at, Value: key, Raw: strconv.Quote(key)}
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f:
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func (l *lowerer) function(fn *oast.FunctionLiteral) (*ast.FunctionExpression, error) {
	body, err := l.block(fn.Body)
	if err != nil {
		return nil, err
	}
	out := &ast.FunctionExpression{Span: l.span(fn), Body: body, Params: []ast.Pattern{}}
	if fn.Name != nil {
		out.ID = l.identifier(fn.Name)
	}
	if fn.ParameterList != nil {
		for _, p := range fn.ParameterList.List {
			out.Params = append(out.Params, l.identifier(p))
		}
	}
	return out, nil
}
