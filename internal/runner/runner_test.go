package runner

import (
	"bytes"
	"caml/internal/evaluator"
	"caml/internal/host"
	"caml/internal/object"
	"caml/internal/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(opts Options) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	console := host.NewStdConsole(strings.NewReader(""), &out)
	eval := evaluator.New(console, nil, nil, evaluator.Options{Seed: 1})
	return New(eval, opts), &out
}

func TestRunSourceKeepsState(t *testing.T) {
	r, out := newRunner(Options{})

	require.NoError(t, r.RunSource("first", "Assign 5 to x"))
	require.NoError(t, r.RunSource("second", "Increase x by 2\nDisplay x"))

	assert.Equal(t, "7\n", out.String())
}

func TestPermissiveRunSkipsBadLines(t *testing.T) {
	r, out := newRunner(Options{})

	require.NoError(t, r.RunSource("", "Display 1\nfrobnicate\nDisplay 2"))
	assert.Equal(t, "1\n2\n", out.String())
}

func TestStrictRunReportsEveryDiagnostic(t *testing.T) {
	r, out := newRunner(Options{Strict: true})

	err := r.RunSource("", "Display 1\nfrobnicate\nDisplay \"open\nwibble")
	require.Error(t, err)
	assert.Empty(t, out.String(), "nothing runs when strict compilation fails")

	var diags *DiagnosticsError
	require.ErrorAs(t, err, &diags)
	require.Len(t, diags.Diagnostics, 3)
	assert.Equal(t, token.LexAnomaly, diags.Diagnostics[0].Kind)
	assert.Equal(t, 3, diags.Diagnostics[0].Line)

	var first token.Diagnostic
	require.ErrorAs(t, err, &first)
	assert.Equal(t, token.LexAnomaly, first.Kind)

	rendered := Render(err)
	assert.True(t, strings.HasPrefix(rendered, "Errors:\n"))
	assert.Contains(t, rendered, "  >    2 | frobnicate\n")
	assert.Contains(t, rendered, "  >    4 | wibble\n")
}

func TestRuntimeErrorRender(t *testing.T) {
	r, _ := newRunner(Options{})

	err := r.RunSource("", "Assign 5 to x\nDivide x by 0\nDisplay x")
	require.Error(t, err)
	assert.True(t, object.IsKind(err, object.DivisionByZero))

	rendered := Render(err)
	assert.True(t, strings.HasPrefix(rendered, "Runtime error: DivisionByZero at line 2 (Update)"))
	assert.Contains(t, rendered,
		"       1 | Assign 5 to x\n"+
			"  >    2 | Divide x by 0\n"+
			"           ^ DivisionByZero")
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.caml")
	require.NoError(t, os.WriteFile(path, []byte("Display \"hello\"\n"), 0o644))

	r, out := newRunner(Options{DebugAST: "json"})
	require.NoError(t, r.RunFile(path))
	assert.Equal(t, "hello\n", out.String())

	ast, err := os.ReadFile(path + ".ast.json")
	require.NoError(t, err)
	assert.Contains(t, string(ast), "Display")

	err = r.RunFile(filepath.Join(dir, "missing.caml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errorsCause(err)))
	assert.True(t, strings.HasPrefix(Render(err), "Error: failed to read"))
}

func errorsCause(err error) error {
	type causer interface{ Cause() error }
	for {
		c, ok := err.(causer)
		if !ok {
			return err
		}
		err = c.Cause()
	}
}
