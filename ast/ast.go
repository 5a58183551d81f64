package ast

// Position is a 1-based line and 0-based column, as ESTree `loc` reports them.
type Position struct {
	Line   int
	Column int
}

// Span is the source range of a node. The zero Span means "no location".
type Span struct {
	Start Position
	End   Position
}

func (s Span) Loc() Span { return s }

// Valid reports whether the span carries a location.
func (s Span) Valid() bool { return s.Start.Line > 0 }

// Node is the interface all AST nodes implement.
type Node interface {
	Kind() Kind
	Loc() Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Pattern is a binding or assignment target.
type Pattern interface {
	Node
	patternNode()
}

// Program is the root node of every AST.
type Program struct {
	Span
	Body []Statement
}

// ---------- Statements ----------

type ExpressionStatement struct {
	Span
	Expression Expression
}

type BlockStatement struct {
	Span
	Body []Statement
}

type EmptyStatement struct {
	Span
}

type DebuggerStatement struct {
	Span
}

type ReturnStatement struct {
	Span
	Argument Expression // may be nil
}

type BreakStatement struct {
	Span
	Label *Identifier // may be nil
}

type ContinueStatement struct {
	Span
	Label *Identifier // may be nil
}

type IfStatement struct {
	Span
	Test       Expression
	Consequent Statement
	Alternate  Statement // may be nil
}

type SwitchStatement struct {
	Span
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchCase struct {
	Span
	Test       Expression // nil for default
	Consequent []Statement
}

type ThrowStatement struct {
	Span
	Argument Expression
}

type TryStatement struct {
	Span
	Block     *BlockStatement
	Handler   *CatchClause    // may be nil
	Finalizer *BlockStatement // may be nil
}

type CatchClause struct {
	Span
	Param Pattern // may be nil
	Body  *BlockStatement
}

type WhileStatement struct {
	Span
	Test Expression
	Body Statement
}

type DoWhileStatement struct {
	Span
	Body Statement
	Test Expression
}

type ForStatement struct {
	Span
	Init   Node // *VariableDeclaration, Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
}

type ForInStatement struct {
	Span
	Left  Node // *VariableDeclaration or Pattern
	Right Expression
	Body  Statement
}

type FunctionDeclaration struct {
	Span
	ID        *Identifier
	Params    []Pattern
	Body      *BlockStatement
	Generator bool
	Async     bool
}

// DeclKind is the keyword of a variable declaration.
type DeclKind string

const (
	DeclVar   DeclKind = "var"
	DeclLet   DeclKind = "let"
	DeclConst DeclKind = "const"
)

type VariableDeclaration struct {
	Span
	DeclKind     DeclKind
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	Span
	ID   Pattern
	Init Expression // may be nil
}

type ClassDeclaration struct {
	Span
	ID         *Identifier
	SuperClass Expression // may be nil
	Body       *ClassBody
}

// ---------- Expressions ----------

type Identifier struct {
	Span
	Name string
}

// RegExp is the `regex` member of a regular-expression literal.
type RegExp struct {
	Pattern string
	Flags   string
}

// Literal holds nil (null), bool, float64 or string in Value. Regex and Bigint
// literals carry their own fields and are rejected by the evaluator.
type Literal struct {
	Span
	Value  any
	Raw    string
	Regex  *RegExp
	Bigint string
}

type ThisExpression struct {
	Span
}

type Super struct {
	Span
}

type ArrayExpression struct {
	Span
	Elements []Expression // nil entries are holes
}

type ObjectExpression struct {
	Span
	Properties []Node // *Property or *SpreadElement
}

// PropKind distinguishes data properties from accessors.
type PropKind string

const (
	PropInit PropKind = "init"
	PropGet  PropKind = "get"
	PropSet  PropKind = "set"
)

// Property appears in object literals (Value is an Expression) and in object
// patterns (Value is a Pattern).
type Property struct {
	Span
	Key       Expression
	Value     Node
	PropKind  PropKind
	Method    bool
	Shorthand bool
	Computed  bool
}

type FunctionExpression struct {
	Span
	ID        *Identifier // may be nil
	Params    []Pattern
	Body      *BlockStatement
	Generator bool
	Async     bool
}

type ArrowFunctionExpression struct {
	Span
	Params     []Pattern
	Body       Node // *BlockStatement or Expression
	Expression bool
	Async      bool
}

type ClassExpression struct {
	Span
	ID         *Identifier // may be nil
	SuperClass Expression
	Body       *ClassBody
}

type ClassBody struct {
	Span
	Body []Node // *MethodDefinition, *PropertyDefinition or *StaticBlock
}

// MethodKind tags a class member.
type MethodKind string

const (
	MethodConstructor MethodKind = "constructor"
	MethodMethod      MethodKind = "method"
	MethodGet         MethodKind = "get"
	MethodSet         MethodKind = "set"
)

type MethodDefinition struct {
	Span
	Key        Expression
	Value      *FunctionExpression
	MethodKind MethodKind
	Computed   bool
	Static     bool
}

type UnaryExpression struct {
	Span
	Operator string // "-", "+", "!", "~", "typeof", "void", "delete"
	Prefix   bool
	Argument Expression
}

type UpdateExpression struct {
	Span
	Operator string // "++" or "--"
	Prefix   bool
	Argument Expression
}

type BinaryExpression struct {
	Span
	Operator string
	Left     Expression
	Right    Expression
}

type LogicalExpression struct {
	Span
	Operator string // "&&", "||", "??"
	Left     Expression
	Right    Expression
}

type AssignmentExpression struct {
	Span
	Operator string // "=", "+=", "&&=", ...
	Left     Pattern
	Right    Expression
}

type ConditionalExpression struct {
	Span
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type CallExpression struct {
	Span
	Callee    Expression
	Arguments []Expression
	Optional  bool
}

type NewExpression struct {
	Span
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Span
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

type SequenceExpression struct {
	Span
	Expressions []Expression
}

// ---------- Patterns ----------

type ArrayPattern struct {
	Span
	Elements []Pattern // nil entries are holes
}

type ObjectPattern struct {
	Span
	Properties []Node // *Property or *RestElement
}

type AssignmentPattern struct {
	Span
	Left  Pattern
	Right Expression
}

type RestElement struct {
	Span
	Argument Pattern
}

// ---------- Recognised but unsupported ----------

type ForOfStatement struct {
	Span
	Left  Node
	Right Expression
	Body  Statement
	Await bool
}

type LabeledStatement struct {
	Span
	Label *Identifier
	Body  Statement
}

type WithStatement struct {
	Span
	Object Expression
	Body   Statement
}

type TemplateElement struct {
	Span
	Raw    string
	Cooked string
	Tail   bool
}

type TemplateLiteral struct {
	Span
	Quasis      []*TemplateElement
	Expressions []Expression
}

type TaggedTemplateExpression struct {
	Span
	Tag   Expression
	Quasi *TemplateLiteral
}

type YieldExpression struct {
	Span
	Argument Expression
	Delegate bool
}

type AwaitExpression struct {
	Span
	Argument Expression
}

type SpreadElement struct {
	Span
	Argument Expression
}

type MetaProperty struct {
	Span
	Meta     *Identifier
	Property *Identifier
}

type ChainExpression struct {
	Span
	Expression Expression
}

type ImportExpression struct {
	Span
	Source Expression
}

type PropertyDefinition struct {
	Span
	Key      Expression
	Value    Expression
	Computed bool
	Static   bool
}

type StaticBlock struct {
	Span
	Body []Statement
}

// ModuleDeclaration stands in for every import/export declaration; Which
// records the concrete ESTree type.
type ModuleDeclaration struct {
	Span
	Which Kind
}

// Unknown carries a node whose type the decoder did not recognise.
type Unknown struct {
	Span
	Type string
}
