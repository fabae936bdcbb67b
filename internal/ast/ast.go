package ast

import (
	"bytes"
	"caml/internal/token"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
	SourceLine() int
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}

	return out.String()
}

// Base carries the leading token of a node and the source line it came from.
type Base struct {
	Token token.Token
	Line  int
}

func (b Base) TokenLiteral() string { return b.Token.Literal }
func (b Base) SourceLine() int      { return b.Line }

type LiteralKind int

const (
	IntegerLit LiteralKind = iota
	FloatLit
	TextLit
	BooleanLit
	NullLit
)

// Literal is a constant operand. Identifiers are text literals resolved by name at
// evaluation time.
type Literal struct {
	Base
	Kind  LiteralKind
	Int   int64
	Float float64
	Text  string
	Bool  bool
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case IntegerLit:
		return strconv.FormatInt(l.Int, 10)
	case FloatLit:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case BooleanLit:
		return strconv.FormatBool(l.Bool)
	case NullLit:
		return "null"
	}
	if l.Token.Type == token.STRING {
		return strconv.Quote(l.Text)
	}
	return l.Text
}

type CompareOp string

const (
	Equal    CompareOp = "=="
	NotEqual CompareOp = "!="
	Greater  CompareOp = ">"
	Less     CompareOp = "<"
)

type Comparison struct {
	Base
	Left  Expression
	Op    CompareOp
	Right Expression
}

func (c *Comparison) expressionNode() {}
func (c *Comparison) String() string {
	return c.Left.String() + " " + string(c.Op) + " " + c.Right.String()
}

type Display struct {
	Base
	Value Expression
	Bold  bool
}

func (d *Display) statementNode() {}
func (d *Display) String() string {
	out := "display " + str(d.Value)
	if d.Bold {
		out += " plus bold"
	}
	return out
}

// Interact prompts for one line of input. Target, when set, receives the answer.
type Interact struct {
	Base
	Prompt Expression
	Bold   bool
	Target string
}

func (i *Interact) statementNode()  {}
func (i *Interact) expressionNode() {}
func (i *Interact) String() string {
	out := "interact " + str(i.Prompt)
	if i.Bold {
		out += " plus bold"
	}
	if i.Target != "" {
		out += " to " + i.Target
	}
	return out
}

type Assign struct {
	Base
	Target string
	Value  Expression
}

func (a *Assign) statementNode() {}
func (a *Assign) String() string { return "assign " + str(a.Value) + " to " + a.Target }

type Set struct {
	Base
	Target string
	Value  Expression
}

func (s *Set) statementNode() {}
func (s *Set) String() string { return "set " + s.Target + " to " + str(s.Value) }

type Change struct {
	Base
	Target string
	Value  Expression
}

func (c *Change) statementNode() {}
func (c *Change) String() string { return "change " + c.Target + " to " + str(c.Value) }

type UpdateOp string

const (
	Increase     UpdateOp = "increase"
	Decrease     UpdateOp = "decrease"
	Multiply     UpdateOp = "multiply"
	Divide       UpdateOp = "divide"
	Exponentiate UpdateOp = "exponentiate"
)

// Update applies an arithmetic operator to a bound number in place.
type Update struct {
	Base
	Op      UpdateOp
	Target  string
	Operand Expression
}

func (u *Update) statementNode() {}
func (u *Update) String() string {
	return string(u.Op) + " " + u.Target + " by " + str(u.Operand)
}

type BlockVar struct {
	Base
	Target string
}

func (b *BlockVar) statementNode() {}
func (b *BlockVar) String() string { return "block " + b.Target }

type FunctionDef struct {
	Base
	Name   string
	Params []string
	Body   []Statement
}

func (f *FunctionDef) statementNode() {}
func (f *FunctionDef) String() string {
	return "define function " + f.Name + " which takes (" + strings.Join(f.Params, ", ") + ") which does:" + block(f.Body)
}

type FunctionCall struct {
	Base
	Name string
	Args []Expression
}

func (f *FunctionCall) statementNode()  {}
func (f *FunctionCall) expressionNode() {}
func (f *FunctionCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = str(a)
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

type FunctionAbbrev struct {
	Base
	Original string
	Alias    string
}

func (f *FunctionAbbrev) statementNode() {}
func (f *FunctionAbbrev) String() string { return "abbreviate " + f.Original + " to " + f.Alias }

type If struct {
	Base
	Condition Expression
	Body      []Statement
}

func (i *If) statementNode() {}
func (i *If) String() string { return "if " + str(i.Condition) + ":" + block(i.Body) }

type OrIf struct {
	Base
	Condition Expression
	Body      []Statement
}

func (o *OrIf) statementNode() {}
func (o *OrIf) String() string { return "or if " + str(o.Condition) + ":" + block(o.Body) }

type Otherwise struct {
	Base
	Body []Statement
}

func (o *Otherwise) statementNode() {}
func (o *Otherwise) String() string { return "otherwise:" + block(o.Body) }

type Repeat struct {
	Base
	Count Expression
	Body  []Statement
}

func (r *Repeat) statementNode() {}
func (r *Repeat) String() string { return "repeat " + str(r.Count) + " times:" + block(r.Body) }

type DoUntil struct {
	Base
	Condition Expression
	Body      []Statement
}

func (d *DoUntil) statementNode() {}
func (d *DoUntil) String() string { return "do this until " + str(d.Condition) + ":" + block(d.Body) }

type ForEach struct {
	Base
	Variable string
	Iterable string
	Body     []Statement
}

func (f *ForEach) statementNode() {}
func (f *ForEach) String() string {
	return "for each " + f.Variable + " in " + f.Iterable + ":" + block(f.Body)
}

type ListDecl struct {
	Base
	Name     string
	Elements []Expression
}

func (l *ListDecl) statementNode() {}
func (l *ListDecl) String() string { return "create list " + l.Name + " " + list(l.Elements) }

type ListAdd struct {
	Base
	List  string
	Value Expression
}

func (l *ListAdd) statementNode() {}
func (l *ListAdd) String() string { return "add " + str(l.Value) + " to list " + l.List }

type ListRemove struct {
	Base
	List  string
	Value Expression
}

func (l *ListRemove) statementNode() {}
func (l *ListRemove) String() string { return "remove " + str(l.Value) + " from list " + l.List }

type DictEntry struct {
	Key   string
	Value Expression
}

type DictDecl struct {
	Base
	Name    string
	Entries []DictEntry
}

func (d *DictDecl) statementNode() {}
func (d *DictDecl) String() string {
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = e.Key + ": " + str(e.Value)
	}
	return "create dictionary " + d.Name + " {" + strings.Join(parts, ", ") + "}"
}

type DictAdd struct {
	Base
	Dict  string
	Key   string
	Value Expression
}

func (d *DictAdd) statementNode() {}
func (d *DictAdd) String() string {
	return "add " + d.Key + ": " + str(d.Value) + " to dictionary " + d.Dict
}

type DictRemove struct {
	Base
	Dict string
	Key  string
}

func (d *DictRemove) statementNode() {}
func (d *DictRemove) String() string { return "remove " + d.Key + " from dictionary " + d.Dict }

type ObjectKind string

const (
	PlainObject ObjectKind = "object"
	Window      ObjectKind = "window"
	Button      ObjectKind = "button"
)

type ObjectDecl struct {
	Base
	Kind   ObjectKind
	Name   string
	Parent string // buttons only
	Body   []Statement
}

func (o *ObjectDecl) statementNode() {}
func (o *ObjectDecl) String() string {
	out := "create " + string(o.Kind) + " " + o.Name
	if o.Parent != "" {
		out += " in " + o.Parent
	}
	return out + ":" + block(o.Body)
}

type ObjectSetProp struct {
	Base
	Object   string
	Property string
	Value    Expression
}

func (o *ObjectSetProp) statementNode() {}
func (o *ObjectSetProp) String() string {
	return "set " + o.Object + "." + o.Property + " to " + str(o.Value)
}

type ObjectChangeProp struct {
	Base
	Object   string
	Property string
	Value    Expression
}

func (o *ObjectChangeProp) statementNode() {}
func (o *ObjectChangeProp) String() string {
	return "change " + o.Object + "." + o.Property + " to " + str(o.Value)
}

type ObjectDeleteProp struct {
	Base
	Object   string
	Property string
}

func (o *ObjectDeleteProp) statementNode() {}
func (o *ObjectDeleteProp) String() string { return "delete " + o.Object + "." + o.Property }

type ObjectBlockProp struct {
	Base
	Object   string
	Property string
}

func (o *ObjectBlockProp) statementNode() {}
func (o *ObjectBlockProp) String() string { return "block " + o.Object + "." + o.Property }

type ObjectAddFunction struct {
	Base
	Object   string
	Function string
}

func (o *ObjectAddFunction) statementNode() {}
func (o *ObjectAddFunction) String() string {
	return "add function " + o.Function + " to " + o.Object
}

// MathCall names a math builtin: square, squareroot, gcd, lcm or random_int.
type MathCall struct {
	Base
	Func string
	Args []Expression
}

func (m *MathCall) statementNode()  {}
func (m *MathCall) expressionNode() {}
func (m *MathCall) String() string  { return m.Func + list(m.Args) }

type FileOpKind string

const (
	FileCreate      FileOpKind = "create"
	FileDelete      FileOpKind = "delete"
	FileAppend      FileOpKind = "append"
	FilePrepend     FileOpKind = "prepend"
	FileFindReplace FileOpKind = "find_replace"
	FileRename      FileOpKind = "rename"
)

// FileOp holds the operands its kind needs; the others stay nil.
type FileOp struct {
	Base
	Op      FileOpKind
	Path    Expression
	Text    Expression
	Find    Expression
	Replace Expression
	NewPath Expression
}

func (f *FileOp) statementNode() {}
func (f *FileOp) String() string {
	out := "file " + string(f.Op) + " " + str(f.Path)
	for _, e := range []Expression{f.Text, f.Find, f.Replace, f.NewPath} {
		if e != nil {
			out += " " + e.String()
		}
	}
	return out
}

type GetLength struct {
	Base
	Target Expression
}

func (g *GetLength) statementNode()  {}
func (g *GetLength) expressionNode() {}
func (g *GetLength) String() string  { return "get length of " + str(g.Target) }

type GetCase struct {
	Base
	Target Expression
	Mode   string
}

func (g *GetCase) statementNode()  {}
func (g *GetCase) expressionNode() {}
func (g *GetCase) String() string  { return "get case of " + str(g.Target) + " " + g.Mode }

type GetType struct {
	Base
	Target Expression
}

func (g *GetType) statementNode()  {}
func (g *GetType) expressionNode() {}
func (g *GetType) String() string  { return "get type of " + str(g.Target) }

type Import struct {
	Base
	Names []string
	File  string
}

func (i *Import) statementNode() {}
func (i *Import) String() string {
	return "import " + strings.Join(i.Names, ", ") + " from " + strconv.Quote(i.File)
}

type Export struct {
	Base
	Names []string
}

func (e *Export) statementNode() {}
func (e *Export) String() string { return "exports are " + strings.Join(e.Names, ", ") }

func str(e Expression) string {
	if e == nil {
		return "null"
	}
	return e.String()
}

func list(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = str(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func block(body []Statement) string {
	var out strings.Builder
	for _, s := range body {
		for _, line := range strings.Split(s.String(), "\n") {
			out.WriteString("\n    ")
			out.WriteString(line)
		}
	}
	return out.String()
}
