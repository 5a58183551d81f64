package interpreter

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/esgo/ast"
	"github.com/example/esgo/runtime"
)

// SignalKind tags a statement completion.
type SignalKind int

const (
	Normal SignalKind = iota
	Break
	Continue
	Return
)

func (k SignalKind) String() string {
	switch k {
	case Break:
		return "break"
	case Continue:
		return "continue"
	case Return:
		return "return"
	}
	return "normal"
}

// Signal is the completion of a statement. Value is the completion value for
// Normal and the returned value for Return; a nil Value on Normal means the
// statement produced no value (declarations, empty statements).
type Signal struct {
	Kind  SignalKind
	Value *runtime.Value
}

func normal(v *runtime.Value) Signal { return Signal{Kind: Normal, Value: v} }

// VarScoping selects where `var` declarations bind.
type VarScoping string

const (
	// VarScopingBlock binds a var in the innermost active frame.
	VarScopingBlock VarScoping = "block"
	// VarScopingFunction hoists every var to the nearest function or program frame.
	VarScopingFunction VarScoping = "function"
)

const (
	maxCallDepth  = 4096
	cancelEvery   = 1024
	loggerNodeKey = "node"
)

// Interpreter evaluates ESTree programs by walking the tree.
type Interpreter struct {
	realm  *runtime.Realm
	scope  *runtime.Scope
	global runtime.FrameID

	logger     logrus.FieldLogger
	trace      bool
	maxSteps   int
	varScoping VarScoping

	ctx     context.Context
	steps   int
	depth   int
	running int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for run diagnostics. Node dispatch is
// logged at trace level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(interp *Interpreter) {
		interp.logger = logger
	}
}

// WithMaxSteps limits the number of nodes a single run may evaluate. Zero
// means unlimited.
func WithMaxSteps(n int) Option {
	return func(interp *Interpreter) {
		interp.maxSteps = n
	}
}

// WithVarScoping selects block or function scoping for `var`.
func WithVarScoping(mode VarScoping) Option {
	return func(interp *Interpreter) {
		interp.varScoping = mode
	}
}

func New(opts ...Option) *Interpreter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	interp := &Interpreter{
		realm:      runtime.NewRealm(),
		scope:      runtime.NewScope(),
		logger:     discard,
		varScoping: VarScopingBlock,
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(interp)
	}
	interp.trace = traceEnabled(interp.logger)

	interp.global = interp.scope.Push(runtime.NoFrame, runtime.FrameProgram, false)
	interp.scope.Pin(interp.global)
	for name, v := range map[string]*runtime.Value{
		"undefined": runtime.Undefined,
		"NaN":       runtime.NaN,
		"Infinity":  runtime.PosInf,
		"this":      runtime.Undefined,
	} {
		_ = interp.scope.DeclareConst(interp.global, name, v)
	}
	return interp
}

func traceEnabled(logger logrus.FieldLogger) bool {
	switch l := logger.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.TraceLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.TraceLevel)
	}
	return false
}

// Realm returns the interpreter's intrinsic prototypes.
func (interp *Interpreter) Realm() *runtime.Realm { return interp.realm }

// Scope returns the frame arena.
func (interp *Interpreter) Scope() *runtime.Scope { return interp.scope }

// Global returns the frame holding globals.
func (interp *Interpreter) Global() runtime.FrameID { return interp.global }

// Define declares a mutable global.
func (interp *Interpreter) Define(name string, v *runtime.Value) error {
	return interp.scope.Declare(interp.global, name, v, true)
}

// RegisterNative registers a native Go function as a global JS function.
func (interp *Interpreter) RegisterNative(name string, fn runtime.CallableFunc) error {
	return interp.Define(name, runtime.NewObject(interp.realm.NewFunction(name, 0, fn)))
}

// Run evaluates a program and returns the value of its last statement.
func (interp *Interpreter) Run(program *ast.Program) (*runtime.Value, error) {
	return interp.RunContext(context.Background(), program)
}

// RunContext is Run with cancellation. The context is consulted periodically
// during dispatch; a cancelled run fails with a CanceledError fault.
//
// When the run ends, frames captured by closures that are no longer reachable
// from globals or from the result are freed. Functions obtained from an
// earlier run stay callable only while they remain reachable that way.
func (interp *Interpreter) RunContext(ctx context.Context, program *ast.Program) (*runtime.Value, error) {
	if program == nil {
		return nil, runtime.NewFault(runtime.UnknownNode, "missing program")
	}
	interp.ctx = ctx
	interp.steps = 0
	interp.depth = 0
	log := interp.logger.WithField("statements", len(program.Body))
	log.Debug("run started")

	interp.running++
	frame := interp.scope.Push(interp.global, runtime.FrameProgram, false)
	sig, err := interp.Evaluate(program, frame)
	interp.scope.Release(frame)
	interp.running--

	result := sig.Value
	if result == nil {
		result = runtime.Undefined
	}
	if err != nil {
		result = nil
		if ex, ok := runtime.AsException(err); ok {
			result = ex.Value
		}
	}
	if interp.running == 0 {
		freed := interp.scope.Collect(result)
		log = log.WithField("frames_freed", freed)
	}

	if err != nil {
		log.WithField("steps", interp.steps).WithError(err).Debug("run failed")
		return nil, err
	}
	log.WithField("steps", interp.steps).Debug("run finished")
	return result, nil
}

// Evaluate is the single recursive operation: it dispatches node to its
// handler in frame. Expressions complete Normal with their value.
func (interp *Interpreter) Evaluate(node ast.Node, frame runtime.FrameID) (Signal, error) {
	if err := interp.tick(node); err != nil {
		return Signal{}, err
	}
	sig, err := interp.dispatch(node, frame)
	if err != nil {
		return Signal{}, interp.annotate(err, node)
	}
	return sig, nil
}

func (interp *Interpreter) dispatch(node ast.Node, frame runtime.FrameID) (Signal, error) {
	switch n := node.(type) {
	case *ast.Program:
		return interp.execProgram(n, frame)

	// statements
	case *ast.ExpressionStatement:
		v, err := interp.eval(n.Expression, frame)
		return normal(v), err
	case *ast.BlockStatement:
		return interp.execBlock(n, frame)
	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return normal(nil), nil
	case *ast.ReturnStatement:
		return interp.execReturn(n, frame)
	case *ast.BreakStatement:
		if n.Label != nil {
			return Signal{}, runtime.NewFault(runtime.UnsupportedFeature, "labeled break is not supported")
		}
		return Signal{Kind: Break}, nil
	case *ast.ContinueStatement:
		if n.Label != nil {
			return Signal{}, runtime.NewFault(runtime.UnsupportedFeature, "labeled continue is not supported")
		}
		return Signal{Kind: Continue}, nil
	case *ast.IfStatement:
		return interp.execIf(n, frame)
	case *ast.SwitchStatement:
		return interp.execSwitch(n, frame)
	case *ast.ThrowStatement:
		return interp.execThrow(n, frame)
	case *ast.TryStatement:
		return interp.execTry(n, frame)
	case *ast.WhileStatement:
		return interp.execWhile(n, frame)
	case *ast.DoWhileStatement:
		return interp.execDoWhile(n, frame)
	case *ast.ForStatement:
		return interp.execFor(n, frame)
	case *ast.ForInStatement:
		return interp.execForIn(n, frame)
	case *ast.FunctionDeclaration:
		return interp.execFunctionDeclaration(n, frame)
	case *ast.VariableDeclaration:
		return interp.execVarDecl(n, frame)
	case *ast.ClassDeclaration:
		return interp.execClassDecl(n, frame)

	// expressions
	case *ast.Identifier:
		return wrap(interp.evalIdentifier(n, frame))
	case *ast.Literal:
		return wrap(interp.evalLiteral(n))
	case *ast.ThisExpression:
		return wrap(interp.evalThis(frame), nil)
	case *ast.Super:
		return wrap(interp.evalSuper(frame))
	case *ast.ArrayExpression:
		return wrap(interp.evalArrayLiteral(n, frame))
	case *ast.ObjectExpression:
		return wrap(interp.evalObjectLiteral(n, frame))
	case *ast.FunctionExpression:
		return wrap(interp.evalFunctionExpression(n, frame, ""))
	case *ast.ArrowFunctionExpression:
		return wrap(interp.evalArrowFunction(n, frame, ""))
	case *ast.ClassExpression:
		return wrap(interp.evalClassExpression(n, frame, ""))
	case *ast.UnaryExpression:
		return wrap(interp.evalUnary(n, frame))
	case *ast.UpdateExpression:
		return wrap(interp.evalUpdate(n, frame))
	case *ast.BinaryExpression:
		return wrap(interp.evalBinary(n, frame))
	case *ast.LogicalExpression:
		return wrap(interp.evalLogical(n, frame))
	case *ast.AssignmentExpression:
		return wrap(interp.evalAssignment(n, frame))
	case *ast.ConditionalExpression:
		return wrap(interp.evalConditional(n, frame))
	case *ast.CallExpression:
		return wrap(interp.evalCall(n, frame))
	case *ast.NewExpression:
		return wrap(interp.evalNew(n, frame))
	case *ast.MemberExpression:
		return wrap(interp.evalMember(n, frame))
	case *ast.SequenceExpression:
		return wrap(interp.evalSequence(n, frame))

	// recognised, intentionally unimplemented
	case *ast.ForOfStatement, *ast.LabeledStatement, *ast.WithStatement,
		*ast.TemplateLiteral, *ast.TemplateElement, *ast.TaggedTemplateExpression,
		*ast.YieldExpression, *ast.AwaitExpression, *ast.SpreadElement,
		*ast.MetaProperty, *ast.ChainExpression, *ast.ImportExpression,
		*ast.PropertyDefinition, *ast.StaticBlock, *ast.ModuleDeclaration:
		return Signal{}, unsupported(node.Kind())

	// nodes only valid as children of another construct
	case *ast.SwitchCase, *ast.CatchClause, *ast.VariableDeclarator, *ast.Property,
		*ast.ClassBody, *ast.MethodDefinition, *ast.ArrayPattern, *ast.ObjectPattern,
		*ast.AssignmentPattern, *ast.RestElement:
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "%s cannot be evaluated on its own", node.Kind())

	case *ast.Unknown:
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "unknown node type %q", n.Type)
	case nil:
		return Signal{}, runtime.NewFault(runtime.UnknownNode, "missing node")
	}
	return Signal{}, runtime.NewFault(runtime.UnknownNode, "no handler for %T", node)
}

func wrap(v *runtime.Value, err error) (Signal, error) {
	return normal(v), err
}

func unsupported(kind ast.Kind) error {
	return runtime.NewFault(runtime.UnsupportedFeature, "%s is not supported", kind)
}

// eval evaluates an expression to a value.
func (interp *Interpreter) eval(expr ast.Expression, frame runtime.FrameID) (*runtime.Value, error) {
	sig, err := interp.Evaluate(expr, frame)
	if err != nil {
		return nil, err
	}
	if sig.Value == nil {
		return runtime.Undefined, nil
	}
	return sig.Value, nil
}

// tick counts one dispatch against the step budget and polls the context.
func (interp *Interpreter) tick(node ast.Node) error {
	interp.steps++
	if interp.maxSteps > 0 && interp.steps > interp.maxSteps {
		return runtime.NewFault(runtime.StepLimit, "step limit of %d exceeded", interp.maxSteps)
	}
	if interp.steps%cancelEvery == 0 {
		if err := interp.ctx.Err(); err != nil {
			return runtime.WrapFault(runtime.Canceled, err, "evaluation canceled after %d steps", interp.steps)
		}
	}
	if interp.trace && node != nil {
		interp.logger.WithField(loggerNodeKey, node.Kind().String()).Trace("evaluate")
	}
	return nil
}

// annotate turns host failures into catchable exceptions and stamps faults
// with the position of the innermost node that produced them.
func (interp *Interpreter) annotate(err error, node ast.Node) error {
	var host *runtime.HostError
	if errors.As(err, &host) {
		return runtime.Throw(interp.realm.ErrorValue(host))
	}
	var fault *runtime.Fault
	if node != nil && errors.As(err, &fault) {
		if loc := node.Loc(); loc.Valid() {
			fault.At(loc.Start.Line, loc.Start.Column)
		}
	}
	return err
}
