package parser

import (
	"caml/internal/ast"
	"caml/internal/lexer"
	"caml/internal/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) (*ast.Program, *Parser) {
	t.Helper()
	p := New(lexer.Tokenize(input), Options{})
	program, err := p.ParseProgram()
	require.NoError(t, err)
	return program, p
}

func parseOne(t *testing.T, input string) ast.Statement {
	t.Helper()
	program, p := parse(t, input)
	require.Empty(t, p.Diagnostics())
	require.Len(t, program.Statements, 1, program.String())
	return program.Statements[0]
}

func TestStatementShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`Display "Hello"`, `display "Hello"`},
		{`Display x plus bold`, `display x plus bold`},
		{`Display square of 7`, `display square(7)`},
		{`Display call adder with (5, 7)`, `display adder(5, 7)`},
		{`Display adder(5, 7)`, `display adder(5, 7)`},
		{`Display get length of names`, `display get length of names`},
		{`Interact "Your name?" to name`, `interact "Your name?" to name`},
		{`Assign 5 to x`, `assign 5 to x`},
		{`Assign square of 4 to y`, `assign square(4) to y`},
		{`Assign call adder with (1, 2) to total`, `assign adder(1, 2) to total`},
		{`Assign x`, `assign null to x`},
		{`Set variable x to "hi"`, `set x to "hi"`},
		{`Change x to 3.5`, `change x to 3.5`},
		{`Increase x by 10`, `increase x by 10`},
		{`Decrease the counter by 1`, `decrease counter by 1`},
		{`Multiply x by 2`, `multiply x by 2`},
		{`Divide x by 4`, `divide x by 4`},
		{`Exponentiate x by 3`, `exponentiate x by 3`},
		{`Block x`, `block x`},
		{`Set property title of Main to "Hi"`, `set Main.title to "Hi"`},
		{`Set Main.color to "red"`, `set Main.color to "red"`},
		{`Change property title of Main to "Bye"`, `change Main.title to "Bye"`},
		{`Block property title of Main`, `block Main.title`},
		{`Delete property title of Main`, `delete Main.title`},
		{`Call function "adder" with arguments (5, 7)`, `adder(5, 7)`},
		{`Call function add with arguments (5, 7)`, `add(5, 7)`},
		{`Call function multiply with (2, 3)`, `multiply(2, 3)`},
		{`adder(1 2)`, `adder(1, 2)`},
		{`adder 1 2`, `adder(1, 2)`},
		{`greet()`, `greet()`},
		{`Abbreviate function adder to plus`, `abbreviate adder to plus`},
		{`Create list called nums containing contents 1, 2, "three"`, `create list nums (1, 2, "three")`},
		{`Add 4 to list nums`, `add 4 to list nums`},
		{`Remove 4 from list nums`, `remove 4 from list nums`},
		{`Create dictionary person containing name : "Bob", age : 30`, `create dictionary person {name: "Bob", age: 30}`},
		{`Add city : "Paris" to dictionary person`, `add city: "Paris" to dictionary person`},
		{`Remove age from dictionary person`, `remove age from dictionary person`},
		{`Add function greet to object Person`, `add function greet to Person`},
		{`Generate random int between 1 and 6`, `random_int(1, 6)`},
		{`Gcd of 12 18`, `gcd(12, 18)`},
		{`Get case of name upper`, `get case of name upper`},
		{`Get data type of x`, `get type of x`},
		{`Import helpers from "utils.caml"`, `import helpers from "utils.caml"`},
		{`Exports are adder, greet`, `exports are adder, greet`},
		{`Create new file "a.txt"`, `file create "a.txt"`},
		{`Delete file "a.txt"`, `file delete "a.txt"`},
		{`Access file "a.txt" and write "hi"`, `file append "a.txt" "hi"`},
		{`Access file "a.txt" and write "hi" at first line`, `file prepend "a.txt" "hi"`},
		{`Access file "a.txt" and find "x" and replace "y"`, `file find_replace "a.txt" "x" "y"`},
		{`Rename file "a.txt" to "b.txt"`, `file rename "a.txt" "b.txt"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOne(t, tt.input).String())
		})
	}
}

func TestDisplayWinsOverEverythingElse(t *testing.T) {
	stmt := parseOne(t, `Display "x" and assign 5 to y`)
	_, ok := stmt.(*ast.Display)
	assert.True(t, ok)
}

func TestConditions(t *testing.T) {
	stmt := parseOne(t, "If x is greater than 3 do:\n    Display x")
	ifStmt, ok := stmt.(*ast.If)
	require.True(t, ok)

	cmp, ok := ifStmt.Condition.(*ast.Comparison)
	require.True(t, ok)
	assert.Equal(t, ast.Greater, cmp.Op)
	assert.Equal(t, "x", cmp.Left.String())
	assert.Equal(t, "3", cmp.Right.String())

	stmt = parseOne(t, "Do this until counter is equal to 5:\n    Increase counter by 1")
	loop, ok := stmt.(*ast.DoUntil)
	require.True(t, ok)
	assert.Equal(t, "counter == 5", loop.Condition.String())
	require.Len(t, loop.Body, 1)
}

func TestIfOrIfOtherwiseAreSiblings(t *testing.T) {
	program, _ := parse(t, `If true do:
    Display "a"
Or if true do:
    Display "b"
Otherwise:
    Display "c"`)

	require.Len(t, program.Statements, 3)
	assert.IsType(t, &ast.If{}, program.Statements[0])
	assert.IsType(t, &ast.OrIf{}, program.Statements[1])
	assert.IsType(t, &ast.Otherwise{}, program.Statements[2])
}

// depth counts nested block statements.
func depth(stmts []ast.Statement) int {
	max := 0
	for _, s := range stmts {
		body := children(s)
		if body == nil {
			continue
		}
		if d := 1 + depth(body); d > max {
			max = d
		}
	}
	return max
}

func TestBlockNesting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		depth int
		top   int
	}{
		{
			"two levels",
			"If x do:\n  Display x\n  Repeat 2 times:\n    Display y\nDisplay z",
			2, 2,
		},
		{
			"three levels",
			"For each i in items do:\n    If i do:\n        Repeat 3 times:\n            Display i\n    Display \"after\"",
			3, 1,
		},
		{
			"four levels with uneven indent",
			"If ready do:\n   For each i in items do:\n       Repeat 2 times:\n         If i do:\n                Display i\n         Display j\n   Display k\nDisplay done",
			4, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, p := parse(t, tt.input)
			require.Empty(t, p.Diagnostics())
			assert.Len(t, program.Statements, tt.top)
			assert.Equal(t, tt.depth, depth(program.Statements))
		})
	}
}

func TestBlockBaselineKeepsDeeperLines(t *testing.T) {
	program, _ := parse(t, "Repeat 2 times:\n    Display a\n        Display b\n    Display c\nDisplay d")

	require.Len(t, program.Statements, 2)
	repeat := program.Statements[0].(*ast.Repeat)
	assert.Len(t, repeat.Body, 3)
}

func TestEmptyBlock(t *testing.T) {
	program, _ := parse(t, "Repeat 2 times:\nDisplay a")
	require.Len(t, program.Statements, 2)
	assert.Empty(t, program.Statements[0].(*ast.Repeat).Body)
}

func TestFunctionDefinition(t *testing.T) {
	stmt := parseOne(t, "Define function \"adder\" which takes (a, b) which does:\n    Call function add with arguments (a, b)")
	def, ok := stmt.(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "adder", def.Name)
	assert.Equal(t, []string{"a", "b"}, def.Params)
	require.Len(t, def.Body, 1)
	assert.Equal(t, "add(a, b)", def.Body[0].String())

	stmt = parseOne(t, "Define function greet which does:\n    Display \"hi\"")
	assert.Empty(t, stmt.(*ast.FunctionDef).Params)
}

func TestObjectDeclarations(t *testing.T) {
	program, p := parse(t, `Create window Main:
    Set title to "My App"
    Change background to "blue"
    Create a new button called Ok in Main:
        Set text to "Press"
Create object Person`)
	require.Empty(t, p.Diagnostics())
	require.Len(t, program.Statements, 2)

	win := program.Statements[0].(*ast.ObjectDecl)
	assert.Equal(t, ast.Window, win.Kind)
	assert.Equal(t, "Main", win.Name)
	require.Len(t, win.Body, 3)
	assert.Equal(t, `set Main.title to "My App"`, win.Body[0].String())
	assert.Equal(t, `change Main.background to "blue"`, win.Body[1].String())

	btn := win.Body[2].(*ast.ObjectDecl)
	assert.Equal(t, ast.Button, btn.Kind)
	assert.Equal(t, "Ok", btn.Name)
	assert.Equal(t, "Main", btn.Parent)
	assert.Equal(t, `set Ok.text to "Press"`, btn.Body[0].String())

	obj := program.Statements[1].(*ast.ObjectDecl)
	assert.Equal(t, ast.PlainObject, obj.Kind)
	assert.Equal(t, "Person", obj.Name)
}

func TestUnknownLinesAreSkipped(t *testing.T) {
	program, p := parse(t, "Display 1\nfrobnicate\nthe .\nDisplay 2")

	require.Len(t, program.Statements, 2)
	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, token.ParseSkip, diags[0].Kind)
	assert.Equal(t, 2, diags[0].Line)
}

func TestIncompleteStatementIsSkipped(t *testing.T) {
	program, p := parse(t, "Increase x\nRename file \"a.txt\"")
	assert.Empty(t, program.Statements)
	require.Len(t, p.Diagnostics(), 2)
	assert.Contains(t, p.Diagnostics()[0].Message, "variable")
	assert.Contains(t, p.Diagnostics()[1].Message, "file")
}

func TestStrictMode(t *testing.T) {
	program, err := Parse(lexer.Tokenize("Display 1\nfrobnicate\nDisplay 2"), Options{Strict: true})
	require.Error(t, err)

	var diag Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, 2, diag.Line)
	assert.Len(t, program.Statements, 2)
}

func TestSourceLinesSurviveComments(t *testing.T) {
	program, _ := parse(t, "$$$\nnotes\n$$$\nAssign 1 to x $ one\nDisplay x")
	require.Len(t, program.Statements, 2)
	assert.Equal(t, 4, program.Statements[0].SourceLine())
	assert.Equal(t, 5, program.Statements[1].SourceLine())
}

func TestRenderers(t *testing.T) {
	program, _ := parse(t, "Assign 5 to x\nIf x is equal to 5 do:\n    Display \"five\"")

	js, err := RenderASTAsJSON(program)
	require.NoError(t, err)
	assert.Contains(t, js, `"type": "Assign"`)
	assert.Contains(t, js, `"op": "=="`)

	yml, err := RenderASTAsYAML(program)
	require.NoError(t, err)
	assert.Contains(t, yml, "type: Program")
	assert.Contains(t, yml, "type: Comparison")

	text := RenderASTAsText(program, 0)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[  1] assign 5 to x", lines[0])
	assert.Equal(t, "[  2] if x == 5:", lines[1])
	assert.Equal(t, `  [  3] display "five"`, lines[2])
}

func TestLeadingWordDoesNotMakeACall(t *testing.T) {
	program, p := parse(t, "Then for each n in nums do:\n    Display n\nNow if ready do:\n    Display \"yes\"\nGreet \"bob\"")
	require.Empty(t, p.Diagnostics())
	require.Len(t, program.Statements, 3)

	loop, ok := program.Statements[0].(*ast.ForEach)
	require.True(t, ok, "got %T", program.Statements[0])
	assert.Equal(t, "nums", loop.Iterable)
	assert.Len(t, loop.Body, 1)

	cond, ok := program.Statements[1].(*ast.If)
	require.True(t, ok, "got %T", program.Statements[1])
	assert.Len(t, cond.Body, 1)

	call, ok := program.Statements[2].(*ast.FunctionCall)
	require.True(t, ok, "got %T", program.Statements[2])
	assert.Len(t, call.Args, 1)
}
