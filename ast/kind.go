package ast

// Kind identifies the syntactic kind of a node. The set is closed: every ESTree
// type the evaluator knows about has a constant here, whether it is executed or
// rejected as unsupported.
type Kind int

const (
	KindUnknown Kind = iota

	KindProgram

	// statements
	KindExpressionStatement
	KindBlockStatement
	KindEmptyStatement
	KindDebuggerStatement
	KindReturnStatement
	KindBreakStatement
	KindContinueStatement
	KindIfStatement
	KindSwitchStatement
	KindSwitchCase
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindWhileStatement
	KindDoWhileStatement
	KindForStatement
	KindForInStatement
	KindFunctionDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindClassDeclaration

	// expressions
	KindIdentifier
	KindLiteral
	KindThisExpression
	KindSuper
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassExpression
	KindClassBody
	KindMethodDefinition
	KindUnaryExpression
	KindUpdateExpression
	KindBinaryExpression
	KindLogicalExpression
	KindAssignmentExpression
	KindConditionalExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindSequenceExpression

	// patterns
	KindArrayPattern
	KindObjectPattern
	KindAssignmentPattern
	KindRestElement

	// recognised, never executed
	KindForOfStatement
	KindLabeledStatement
	KindWithStatement
	KindTemplateLiteral
	KindTemplateElement
	KindTaggedTemplateExpression
	KindYieldExpression
	KindAwaitExpression
	KindSpreadElement
	KindMetaProperty
	KindChainExpression
	KindImportExpression
	KindPropertyDefinition
	KindStaticBlock
	KindImportDeclaration
	KindExportNamedDeclaration
	KindExportDefaultDeclaration
	KindExportAllDeclaration

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:                  "Unknown",
	KindProgram:                  "Program",
	KindExpressionStatement:      "ExpressionStatement",
	KindBlockStatement:           "BlockStatement",
	KindEmptyStatement:           "EmptyStatement",
	KindDebuggerStatement:        "DebuggerStatement",
	KindReturnStatement:          "ReturnStatement",
	KindBreakStatement:           "BreakStatement",
	KindContinueStatement:        "ContinueStatement",
	KindIfStatement:              "IfStatement",
	KindSwitchStatement:          "SwitchStatement",
	KindSwitchCase:               "SwitchCase",
	KindThrowStatement:           "ThrowStatement",
	KindTryStatement:             "TryStatement",
	KindCatchClause:              "CatchClause",
	KindWhileStatement:           "WhileStatement",
	KindDoWhileStatement:         "DoWhileStatement",
	KindForStatement:             "ForStatement",
	KindForInStatement:           "ForInStatement",
	KindFunctionDeclaration:      "FunctionDeclaration",
	KindVariableDeclaration:      "VariableDeclaration",
	KindVariableDeclarator:       "VariableDeclarator",
	KindClassDeclaration:         "ClassDeclaration",
	KindIdentifier:               "Identifier",
	KindLiteral:                  "Literal",
	KindThisExpression:           "ThisExpression",
	KindSuper:                    "Super",
	KindArrayExpression:          "ArrayExpression",
	KindObjectExpression:         "ObjectExpression",
	KindProperty:                 "Property",
	KindFunctionExpression:       "FunctionExpression",
	KindArrowFunctionExpression:  "ArrowFunctionExpression",
	KindClassExpression:          "ClassExpression",
	KindClassBody:                "ClassBody",
	KindMethodDefinition:         "MethodDefinition",
	KindUnaryExpression:          "UnaryExpression",
	KindUpdateExpression:         "UpdateExpression",
	KindBinaryExpression:         "BinaryExpression",
	KindLogicalExpression:        "LogicalExpression",
	KindAssignmentExpression:     "AssignmentExpression",
	KindConditionalExpression:    "ConditionalExpression",
	KindCallExpression:           "CallExpression",
	KindNewExpression:            "NewExpression",
	KindMemberExpression:         "MemberExpression",
	KindSequenceExpression:       "SequenceExpression",
	KindArrayPattern:             "ArrayPattern",
	KindObjectPattern:            "ObjectPattern",
	KindAssignmentPattern:        "AssignmentPattern",
	KindRestElement:              "RestElement",
	KindForOfStatement:           "ForOfStatement",
	KindLabeledStatement:         "LabeledStatement",
	KindWithStatement:            "WithStatement",
	KindTemplateLiteral:          "TemplateLiteral",
	KindTemplateElement:          "TemplateElement",
	KindTaggedTemplateExpression: "TaggedTemplateExpression",
	KindYieldExpression:          "YieldExpression",
	KindAwaitExpression:          "AwaitExpression",
	KindSpreadElement:            "SpreadElement",
	KindMetaProperty:             "MetaProperty",
	KindChainExpression:          "ChainExpression",
	KindImportExpression:         "ImportExpression",
	KindPropertyDefinition:       "PropertyDefinition",
	KindStaticBlock:              "StaticBlock",
	KindImportDeclaration:        "ImportDeclaration",
	KindExportNamedDeclaration:   "ExportNamedDeclaration",
	KindExportDefaultDeclaration: "ExportDefaultDeclaration",
	KindExportAllDeclaration:     "ExportAllDeclaration",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the ESTree type name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// KindOf maps an ESTree type string to its Kind. Unrecognised names map to
// KindUnknown.
func KindOf(typ string) Kind {
	if k, ok := kindByName[typ]; ok {
		return k
	}
	return KindUnknown
}

// Kinds returns every known kind except KindUnknown, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Supported reports whether the evaluator executes nodes of this kind, as
// opposed to rejecting them as an unsupported feature.
func (k Kind) Supported() bool {
	return k > KindUnknown && k < KindForOfStatement
}
