package evaluator

import (
	"caml/internal/ast"
	"caml/internal/object"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"
)

const (
	DefaultMaxCallDepth = 512
	DefaultBoldMarker   = "**"
)

type Options struct {
	MaxCallDepth int
	BoldMarker   string
	// Seed fixes the random builtin; zero seeds from the clock.
	Seed int64
}

var errNoFileSystem = errors.New("file access is not available")

type Evaluator struct {
	envStack []*object.Environment

	Registry *object.Registry
	Console  Console
	Files    FileSystem
	Bindings Bindings

	opts    Options
	aliases map[string]string // abbreviated builtin names
	owners  []*object.Instance // enclosing object declarations
	rand    *rand.Rand
}

// New builds an evaluator with one global scope. A nil files or bindings argument
// disables that surface.
func New(console Console, files FileSystem, bindings Bindings, opts Options) *Evaluator {
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.BoldMarker == "" {
		opts.BoldMarker = DefaultBoldMarker
	}
	if bindings == nil {
		bindings = nopBindings{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Evaluator{
		Registry: object.NewRegistry(),
		Console:  console,
		Files:    files,
		Bindings: bindings,
		opts:     opts,
		aliases:  make(map[string]string),
		rand:     rand.New(rand.NewSource(seed)),
	}
	e.PushEnv(object.NewEnvironment())
	return e
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("Environment stack is empty")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) <= 1 {
		panic("Attempted to pop the global environment")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Execute runs the statements in order and stops at the first runtime error.
// State persists between calls, so a REPL can feed one program per entry.
func (e *Evaluator) Execute(program *ast.Program) error {
	for _, stmt := range program.Statements {
		if _, err := e.Eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Eval executes one statement and returns its result value.
func (e *Evaluator) Eval(stmt ast.Statement) (object.Object, error) {
	result, err := e.eval(stmt)
	if err != nil {
		return nil, annotate(err, stmt)
	}
	if result == nil {
		result = object.NULL
	}
	return result, nil
}

// annotate fills in the location of a runtime error raised by the innermost statement.
func annotate(err error, stmt ast.Statement) error {
	var rt *object.RuntimeError
	if errors.As(err, &rt) && rt.Line == 0 {
		rt.Line = stmt.SourceLine()
		rt.Statement = statementName(stmt)
	}
	return err
}

func statementName(stmt ast.Statement) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", stmt), "*ast.")
}

func (e *Evaluator) eval(node ast.Statement) (object.Object, error) {
	switch node := node.(type) {

	case *ast.Display:
		val, err := e.evalExpression(node.Value)
		if err != nil {
			return nil, err
		}
		e.Console.Print(e.format(val, node.Bold))
		return val, nil

	case *ast.Interact:
		return e.evalInteract(node)

	case *ast.Assign:
		return e.bind(node.Target, node.Value)

	case *ast.Set:
		return e.bind(node.Target, node.Value)

	case *ast.Change:
		return e.bind(node.Target, node.Value)

	case *ast.Update:
		return e.evalUpdate(node)

	case *ast.BlockVar:
		e.CurrentEnv().Delete(node.Target)
		return object.NULL, nil

	case *ast.FunctionDef:
		e.Registry.DefineFunction(node.Name, node)
		slog.Debug("function defined", slog.String("name", node.Name), slog.Int("params", len(node.Params)))
		return object.NULL, nil

	case *ast.FunctionCall:
		return e.evalCall(node.Name, node.Args)

	case *ast.FunctionAbbrev:
		return e.evalAbbrev(node)

	case *ast.If:
		return e.evalConditional(node.Condition, node.Body)

	case *ast.OrIf:
		return e.evalConditional(node.Condition, node.Body)

	case *ast.Otherwise:
		_, err := e.evalBlock(node.Body)
		return object.NULL, err

	case *ast.Repeat:
		return e.evalRepeat(node)

	case *ast.DoUntil:
		return e.evalDoUntil(node)

	case *ast.ForEach:
		return e.evalForEach(node)

	case *ast.ListDecl:
		elements, err := e.evalExpressions(node.Elements)
		if err != nil {
			return nil, err
		}
		e.CurrentEnv().Set(node.Name, &object.List{Elements: elements})
		return object.NULL, nil

	case *ast.ListAdd:
		return e.evalListAdd(node)

	case *ast.ListRemove:
		return e.evalListRemove(node)

	case *ast.DictDecl:
		dict := object.NewDict()
		for _, entry := range node.Entries {
			val, err := e.evalExpression(entry.Value)
			if err != nil {
				return nil, err
			}
			dict.Set(entry.Key, val)
		}
		e.CurrentEnv().Set(node.Name, dict)
		return object.NULL, nil

	case *ast.DictAdd:
		return e.evalDictAdd(node)

	case *ast.DictRemove:
		return e.evalDictRemove(node)

	case *ast.ObjectDecl:
		return e.evalObjectDecl(node)

	case *ast.ObjectSetProp:
		return e.setProperty(node.Object, node.Property, node.Value, false)

	case *ast.ObjectChangeProp:
		return e.setProperty(node.Object, node.Property, node.Value, true)

	case *ast.ObjectDeleteProp:
		if inst, ok := e.Registry.Object(node.Object); ok {
			inst.Properties.Delete(node.Property)
		}
		return object.NULL, nil

	case *ast.ObjectBlockProp:
		if inst, ok := e.Registry.Object(node.Object); ok {
			if _, exists := inst.Properties.Get(node.Property); exists {
				inst.Properties.Set(node.Property, object.NULL)
			}
		}
		return object.NULL, nil

	case *ast.ObjectAddFunction:
		def, ok := e.Registry.Function(node.Function)
		if !ok {
			return nil, object.NewRuntimeError(object.UndefinedFunction, "function %q is not defined", node.Function)
		}
		e.Registry.EnsureObject(node.Object).Methods[node.Function] = def
		return object.NULL, nil

	case *ast.MathCall:
		args, err := e.evalExpressions(node.Args)
		if err != nil {
			return nil, err
		}
		fn, ok := builtins[node.Func]
		if !ok {
			return nil, object.NewRuntimeError(object.UndefinedFunction, "unknown math function %q", node.Func)
		}
		return fn.Fn(e, args...)

	case *ast.FileOp:
		return e.evalFileOp(node)

	case *ast.GetLength:
		return e.applyBuiltin("get_length", node.Target)

	case *ast.GetType:
		return e.applyBuiltin("get_type", node.Target)

	case *ast.GetCase:
		target, err := e.evalExpression(node.Target)
		if err != nil {
			return nil, err
		}
		return convertCase(target.Inspect(), node.Mode), nil

	case *ast.Import:
		e.Registry.Import(node.File, node.Names)
		slog.Debug("module imported", slog.String("file", node.File), slog.Any("names", node.Names))
		return object.NULL, nil

	case *ast.Export:
		e.Registry.Export(node.Names...)
		return object.NULL, nil
	}

	return nil, fmt.Errorf("unsupported statement %T", node)
}

// evalBlock runs a body in the current scope and returns the last non-null result.
// Only value statements (display, interact, calls, math and getters) yield one.
func (e *Evaluator) evalBlock(body []ast.Statement) (object.Object, error) {
	var result object.Object = object.NULL
	for _, stmt := range body {
		val, err := e.Eval(stmt)
		if err != nil {
			return nil, err
		}
		if val.Type() != object.NULL_OBJ {
			result = val
		}
	}
	return result, nil
}

func (e *Evaluator) evalExpressions(exprs []ast.Expression) ([]object.Object, error) {
	out := make([]object.Object, 0, len(exprs))
	for _, expr := range exprs {
		val, err := e.evalExpression(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (e *Evaluator) evalExpression(expr ast.Expression) (object.Object, error) {
	switch expr := expr.(type) {
	case nil:
		return object.NULL, nil

	case *ast.Literal:
		switch expr.Kind {
		case ast.IntegerLit:
			return &object.Integer{Value: expr.Int}, nil
		case ast.FloatLit:
			return &object.Float{Value: expr.Float}, nil
		case ast.BooleanLit:
			return object.NativeBool(expr.Bool), nil
		case ast.NullLit:
			return object.NULL, nil
		}
		return e.resolve(expr.Text), nil

	case *ast.Comparison:
		return e.evalComparison(expr)

	case ast.Statement:
		// calls, math and getters nest as values
		return e.Eval(expr)
	}

	return nil, fmt.Errorf("unsupported expression %T", expr)
}

// resolve maps a word to the binding it names, then to a user function, then to an
// object property for the dotted form, and otherwise returns the word itself.
func (e *Evaluator) resolve(name string) object.Object {
	if val, ok := e.CurrentEnv().Get(name); ok {
		return val
	}
	if _, ok := e.Registry.Function(name); ok {
		return &object.FunctionRef{Name: name}
	}
	if obj, prop, ok := strings.Cut(name, "."); ok {
		if inst, found := e.Registry.Object(obj); found {
			if val, exists := inst.Properties.Get(prop); exists {
				return val
			}
		}
	}
	return &object.Text{Value: name}
}

func (e *Evaluator) evalComparison(cmp *ast.Comparison) (object.Object, error) {
	left, err := e.evalExpression(cmp.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpression(cmp.Right)
	if err != nil {
		return nil, err
	}

	switch cmp.Op {
	case ast.Equal:
		return object.NativeBool(object.Equal(left, right)), nil
	case ast.NotEqual:
		return object.NativeBool(!object.Equal(left, right)), nil
	}

	order, ok := object.Compare(left, right)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "cannot compare %s with %s", left.Type(), right.Type())
	}
	if cmp.Op == ast.Greater {
		return object.NativeBool(order > 0), nil
	}
	return object.NativeBool(order < 0), nil
}

func (e *Evaluator) format(val object.Object, bold bool) string {
	text := val.Inspect()
	if bold {
		return e.opts.BoldMarker + text + e.opts.BoldMarker
	}
	return text
}

func (e *Evaluator) evalInteract(node *ast.Interact) (object.Object, error) {
	prompt := ""
	if node.Prompt != nil {
		val, err := e.evalExpression(node.Prompt)
		if err != nil {
			return nil, err
		}
		prompt = e.format(val, node.Bold)
	}
	answer := &object.Text{Value: e.Console.Prompt(prompt)}
	if node.Target != "" {
		e.CurrentEnv().Set(node.Target, answer)
	}
	return answer, nil
}

func (e *Evaluator) bind(name string, value ast.Expression) (object.Object, error) {
	val, err := e.evalExpression(value)
	if err != nil {
		return nil, err
	}
	e.CurrentEnv().Set(name, val)
	return object.NULL, nil
}

func (e *Evaluator) evalUpdate(node *ast.Update) (object.Object, error) {
	current, ok := e.CurrentEnv().Get(node.Target)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "cannot update %s: it has no value", node.Target)
	}
	operand, err := e.evalExpression(node.Operand)
	if err != nil {
		return nil, err
	}
	result, err := arithmetic(node.Op, current, operand)
	if err != nil {
		return nil, err
	}
	e.CurrentEnv().Set(node.Target, result)
	return object.NULL, nil
}

func (e *Evaluator) evalConditional(cond ast.Expression, body []ast.Statement) (object.Object, error) {
	val, err := e.evalExpression(cond)
	if err != nil {
		return nil, err
	}
	if object.Truthy(val) {
		if _, err := e.evalBlock(body); err != nil {
			return nil, err
		}
	}
	return object.NULL, nil
}

func (e *Evaluator) evalRepeat(node *ast.Repeat) (object.Object, error) {
	countVal, err := e.evalExpression(node.Count)
	if err != nil {
		return nil, err
	}
	if !object.IsNumber(countVal) {
		return nil, object.NewRuntimeError(object.TypeMismatch, "repeat count must be a number, got %s", countVal.Type())
	}
	count, _ := object.ToFloat(countVal)

	for i := 0; i < int(math.Max(0, math.Floor(count))); i++ {
		if _, err = e.evalBlock(node.Body); err != nil {
			return nil, err
		}
	}
	return object.NULL, nil
}

func (e *Evaluator) evalDoUntil(node *ast.DoUntil) (object.Object, error) {
	for {
		done, err := e.evalExpression(node.Condition)
		if err != nil {
			return nil, err
		}
		if object.Truthy(done) {
			return object.NULL, nil
		}
		if _, err = e.evalBlock(node.Body); err != nil {
			return nil, err
		}
	}
}

func (e *Evaluator) evalForEach(node *ast.ForEach) (object.Object, error) {
	val, ok := e.CurrentEnv().Get(node.Iterable)
	if !ok {
		slog.Debug("loop over unbound name runs zero times", slog.String("name", node.Iterable))
		return object.NULL, nil
	}
	list, ok := val.(*object.List)
	if !ok {
		return nil, object.NewRuntimeError(object.IterationType, "%s is a %s, not a list", node.Iterable, val.Type())
	}

	items := append([]object.Object(nil), list.Elements...)
	for _, item := range items {
		e.CurrentEnv().Set(node.Variable, item)
		if _, err := e.evalBlock(node.Body); err != nil {
			return nil, err
		}
	}
	return object.NULL, nil
}

func (e *Evaluator) evalCall(name string, argExprs []ast.Expression) (object.Object, error) {
	args, err := e.evalExpressions(argExprs)
	if err != nil {
		return nil, err
	}

	if def, ok := e.lookupFunction(name); ok {
		return e.applyFunction(def, args)
	}
	if fn, ok := e.lookupBuiltin(name); ok {
		return fn.Fn(e, args...)
	}

	slog.Debug("unknown function, returning its name", slog.String("name", name))
	return &object.Text{Value: name}, nil
}

func (e *Evaluator) applyBuiltin(name string, target ast.Expression) (object.Object, error) {
	val, err := e.evalExpression(target)
	if err != nil {
		return nil, err
	}
	return builtins[name].Fn(e, val)
}

// lookupFunction finds a user function by name, or a method in the Object.method form.
func (e *Evaluator) lookupFunction(name string) (*ast.FunctionDef, bool) {
	if def, ok := e.Registry.Function(name); ok {
		return def, true
	}
	if obj, method, ok := strings.Cut(name, "."); ok {
		if inst, found := e.Registry.Object(obj); found {
			def, exists := inst.Methods[method]
			return def, exists
		}
	}
	return nil, false
}

func (e *Evaluator) lookupBuiltin(name string) (*Builtin, bool) {
	key := strings.ToLower(name)
	if original, ok := e.aliases[key]; ok {
		key = original
	}
	fn, ok := builtins[key]
	return fn, ok
}

// applyFunction binds positional arguments in a fresh scope over the caller's and runs
// the body. Missing arguments are null; extra ones are dropped.
func (e *Evaluator) applyFunction(def *ast.FunctionDef, args []object.Object) (object.Object, error) {
	// every active call adds one enclosed scope
	if e.CurrentEnv().Depth() >= e.opts.MaxCallDepth {
		return nil, object.NewRuntimeError(object.StackOverflow, "call depth exceeded %d in %s", e.opts.MaxCallDepth, def.Name)
	}

	env := object.NewEnclosedEnvironment(e.CurrentEnv())
	for i, param := range def.Params {
		if i < len(args) {
			env.Set(param, args[i])
		} else {
			env.Set(param, object.NULL)
		}
	}

	e.PushEnv(env)
	defer e.PopEnv()

	return e.evalBlock(def.Body)
}

func (e *Evaluator) evalAbbrev(node *ast.FunctionAbbrev) (object.Object, error) {
	if def, ok := e.Registry.Function(node.Original); ok {
		e.Registry.DefineFunction(node.Alias, def)
		return object.NULL, nil
	}
	key := strings.ToLower(node.Original)
	if original, ok := e.aliases[key]; ok {
		key = original
	}
	if _, ok := builtins[key]; ok {
		e.aliases[strings.ToLower(node.Alias)] = key
		return object.NULL, nil
	}
	return nil, object.NewRuntimeError(object.UndefinedFunction, "function %q is not defined", node.Original)
}

func (e *Evaluator) evalListAdd(node *ast.ListAdd) (object.Object, error) {
	val, err := e.evalExpression(node.Value)
	if err != nil {
		return nil, err
	}
	current, ok := e.CurrentEnv().Get(node.List)
	if !ok {
		e.CurrentEnv().Set(node.List, &object.List{Elements: []object.Object{val}})
		return object.NULL, nil
	}
	list, ok := current.(*object.List)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "%s is a %s, not a list", node.List, current.Type())
	}
	list.Elements = append(list.Elements, val)
	return object.NULL, nil
}

func (e *Evaluator) evalListRemove(node *ast.ListRemove) (object.Object, error) {
	val, err := e.evalExpression(node.Value)
	if err != nil {
		return nil, err
	}
	current, ok := e.CurrentEnv().Get(node.List)
	if !ok {
		return object.NULL, nil
	}
	list, ok := current.(*object.List)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "%s is a %s, not a list", node.List, current.Type())
	}
	list.Remove(val)
	return object.NULL, nil
}

func (e *Evaluator) evalDictAdd(node *ast.DictAdd) (object.Object, error) {
	val, err := e.evalExpression(node.Value)
	if err != nil {
		return nil, err
	}
	current, ok := e.CurrentEnv().Get(node.Dict)
	if !ok {
		dict := object.NewDict()
		dict.Set(node.Key, val)
		e.CurrentEnv().Set(node.Dict, dict)
		return object.NULL, nil
	}
	dict, ok := current.(*object.Dict)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "%s is a %s, not a dict", node.Dict, current.Type())
	}
	dict.Set(node.Key, val)
	return object.NULL, nil
}

func (e *Evaluator) evalDictRemove(node *ast.DictRemove) (object.Object, error) {
	current, ok := e.CurrentEnv().Get(node.Dict)
	if !ok {
		return object.NULL, nil
	}
	dict, ok := current.(*object.Dict)
	if !ok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "%s is a %s, not a dict", node.Dict, current.Type())
	}
	dict.Delete(node.Key)
	return object.NULL, nil
}
