package ast

// Kind implementations
func (*Program) Kind() Kind                  { return KindProgram }
func (*ExpressionStatement) Kind() Kind      { return KindExpressionStatement }
func (*BlockStatement) Kind() Kind           { return KindBlockStatement }
func (*EmptyStatement) Kind() Kind           { return KindEmptyStatement }
func (*DebuggerStatement) Kind() Kind        { return KindDebuggerStatement }
func (*ReturnStatement) Kind() Kind          { return KindReturnStatement }
func (*BreakStatement) Kind() Kind           { return KindBreakStatement }
func (*ContinueStatement) Kind() Kind        { return KindContinueStatement }
func (*IfStatement) Kind() Kind              { return KindIfStatement }
func (*SwitchStatement) Kind() Kind          { return KindSwitchStatement }
func (*SwitchCase) Kind() Kind               { return KindSwitchCase }
func (*ThrowStatement) Kind() Kind           { return KindThrowStatement }
func (*TryStatement) Kind() Kind             { return KindTryStatement }
func (*CatchClause) Kind() Kind              { return KindCatchClause }
func (*WhileStatement) Kind() Kind           { return KindWhileStatement }
func (*DoWhileStatement) Kind() Kind         { return KindDoWhileStatement }
func (*ForStatement) Kind() Kind             { return KindForStatement }
func (*ForInStatement) Kind() Kind           { return KindForInStatement }
func (*FunctionDeclaration) Kind() Kind      { return KindFunctionDeclaration }
func (*VariableDeclaration) Kind() Kind      { return KindVariableDeclaration }
func (*VariableDeclarator) Kind() Kind       { return KindVariableDeclarator }
func (*ClassDeclaration) Kind() Kind         { return KindClassDeclaration }
func (*Identifier) Kind() Kind               { return KindIdentifier }
func (*Literal) Kind() Kind                  { return KindLiteral }
func (*ThisExpression) Kind() Kind           { return KindThisExpression }
func (*Super) Kind() Kind                    { return KindSuper }
func (*ArrayExpression) Kind() Kind          { return KindArrayExpression }
func (*ObjectExpression) Kind() Kind         { return KindObjectExpression }
func (*Property) Kind() Kind                 { return KindProperty }
func (*FunctionExpression) Kind() Kind       { return KindFunctionExpression }
func (*ArrowFunctionExpression) Kind() Kind  { return KindArrowFunctionExpression }
func (*ClassExpression) Kind() Kind          { return KindClassExpression }
func (*ClassBody) Kind() Kind                { return KindClassBody }
func (*MethodDefinition) Kind() Kind         { return KindMethodDefinition }
func (*UnaryExpression) Kind() Kind          { return KindUnaryExpression }
func (*UpdateExpression) Kind() Kind         { return KindUpdateExpression }
func (*BinaryExpression) Kind() Kind         { return KindBinaryExpression }
func (*LogicalExpression) Kind() Kind        { return KindLogicalExpression }
func (*AssignmentExpression) Kind() Kind     { return KindAssignmentExpression }
func (*ConditionalExpression) Kind() Kind    { return KindConditionalExpression }
func (*CallExpression) Kind() Kind           { return KindCallExpression }
func (*NewExpression) Kind() Kind            { return KindNewExpression }
func (*MemberExpression) Kind() Kind         { return KindMemberExpression }
func (*SequenceExpression) Kind() Kind       { return KindSequenceExpression }
func (*ArrayPattern) Kind() Kind             { return KindArrayPattern }
func (*ObjectPattern) Kind() Kind            { return KindObjectPattern }
func (*AssignmentPattern) Kind() Kind        { return KindAssignmentPattern }
func (*RestElement) Kind() Kind              { return KindRestElement }
func (*ForOfStatement) Kind() Kind           { return KindForOfStatement }
func (*LabeledStatement) Kind() Kind         { return KindLabeledStatement }
func (*WithStatement) Kind() Kind            { return KindWithStatement }
func (*TemplateElement) Kind() Kind          { return KindTemplateElement }
func (*TemplateLiteral) Kind() Kind          { return KindTemplateLiteral }
func (*TaggedTemplateExpression) Kind() Kind { return KindTaggedTemplateExpression }
func (*YieldExpression) Kind() Kind          { return KindYieldExpression }
func (*AwaitExpression) Kind() Kind          { return KindAwaitExpression }
func (*SpreadElement) Kind() Kind            { return KindSpreadElement }
func (*MetaProperty) Kind() Kind             { return KindMetaProperty }
func (*ChainExpression) Kind() Kind          { return KindChainExpression }
func (*ImportExpression) Kind() Kind         { return KindImportExpression }
func (*PropertyDefinition) Kind() Kind       { return KindPropertyDefinition }
func (*StaticBlock) Kind() Kind              { return KindStaticBlock }
func (d *ModuleDeclaration) Kind() Kind      { return d.Which }
func (*Unknown) Kind() Kind                  { return KindUnknown }

// Statement markers
func (*ExpressionStatement) statementNode() {}
func (*BlockStatement) statementNode()      {}
func (*EmptyStatement) statementNode()      {}
func (*DebuggerStatement) statementNode()   {}
func (*ReturnStatement) statementNode()     {}
func (*BreakStatement) statementNode()      {}
func (*ContinueStatement) statementNode()   {}
func (*IfStatement) statementNode()         {}
func (*SwitchStatement) statementNode()     {}
func (*ThrowStatement) statementNode()      {}
func (*TryStatement) statementNode()        {}
func (*WhileStatement) statementNode()      {}
func (*DoWhileStatement) statementNode()    {}
func (*ForStatement) statementNode()        {}
func (*ForInStatement) statementNode()      {}
func (*FunctionDeclaration) statementNode() {}
func (*VariableDeclaration) statementNode() {}
func (*ClassDeclaration) statementNode()    {}
func (*ForOfStatement) statementNode()      {}
func (*LabeledStatement) statementNode()    {}
func (*WithStatement) statementNode()       {}
func (*ModuleDeclaration) statementNode()   {}
func (*Unknown) statementNode()             {}

// Expression markers
func (*Identifier) expressionNode()               {}
func (*Literal) expressionNode()                  {}
func (*ThisExpression) expressionNode()           {}
func (*Super) expressionNode()                    {}
func (*ArrayExpression) expressionNode()          {}
func (*ObjectExpression) expressionNode()         {}
func (*FunctionExpression) expressionNode()       {}
func (*ArrowFunctionExpression) expressionNode()  {}
func (*ClassExpression) expressionNode()          {}
func (*UnaryExpression) expressionNode()          {}
func (*UpdateExpression) expressionNode()         {}
func (*BinaryExpression) expressionNode()         {}
func (*LogicalExpression) expressionNode()        {}
func (*AssignmentExpression) expressionNode()     {}
func (*ConditionalExpression) expressionNode()    {}
func (*CallExpression) expressionNode()           {}
func (*NewExpression) expressionNode()            {}
func (*MemberExpression) expressionNode()         {}
func (*SequenceExpression) expressionNode()       {}
func (*TemplateLiteral) expressionNode()          {}
func (*TaggedTemplateExpression) expressionNode() {}
func (*YieldExpression) expressionNode()          {}
func (*AwaitExpression) expressionNode()          {}
func (*SpreadElement) expressionNode()            {}
func (*MetaProperty) expressionNode()             {}
func (*ChainExpression) expressionNode()          {}
func (*ImportExpression) expressionNode()         {}
func (*Unknown) expressionNode()                  {}

// Pattern markers
func (*Identifier) patternNode()        {}
func (*MemberExpression) patternNode()  {}
func (*ArrayPattern) patternNode()      {}
func (*ObjectPattern) patternNode()     {}
func (*AssignmentPattern) patternNode() {}
func (*RestElement) patternNode()       {}
func (*Unknown) patternNode()           {}

// BindingNames returns every identifier a declaration pattern introduces, in
// source order.
func BindingNames(p Pattern) []string {
	switch n := p.(type) {
	case *Identifier:
		return []string{n.Name}
	case *ArrayPattern:
		var names []string
		for _, el := range n.Elements {
			if el != nil {
				names = append(names, BindingNames(el)...)
			}
		}
		return names
	case *ObjectPattern:
		var names []string
		for _, prop := range n.Properties {
			switch pr := prop.(type) {
			case *Property:
				if v, ok := pr.Value.(Pattern); ok {
					names = append(names, BindingNames(v)...)
				}
			case *RestElement:
				names = append(names, BindingNames(pr.Argument)...)
			}
		}
		return names
	case *AssignmentPattern:
		return BindingNames(n.Left)
	case *RestElement:
		return BindingNames(n.Argument)
	}
	return nil
}
