package runner

import (
	"bytes"
	"caml/internal/ast"
	"caml/internal/evaluator"
	"caml/internal/lexer"
	"caml/internal/object"
	"caml/internal/parser"
	"caml/internal/token"
	"caml/internal/util"
	"errors"
	"fmt"
	"log/slog"
	"os"

	pkgerrors "github.com/pkg/errors"
)

const MaxErrorsToShow = 10

type Options struct {
	Strict         bool
	MaxPhraseWords int
	DebugAST       string // "", "json", "yaml" or "text"
}

// Runner drives source text through lexing, parsing and evaluation against one
// long-lived evaluator.
type Runner struct {
	Eval *evaluator.Evaluator
	opts Options
}

func New(eval *evaluator.Evaluator, opts Options) *Runner {
	return &Runner{Eval: eval, opts: opts}
}

func (r *Runner) RunFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read '%s'", path)
	}
	return r.RunSource(path, string(data))
}

// Compile lexes and parses src. Diagnostics are logged; in strict mode they are
// returned together as a *DiagnosticsError.
func (r *Runner) Compile(name, src string) (*ast.Program, error) {
	lx := lexer.New(src).WithMaxPhraseWords(r.opts.MaxPhraseWords)
	lines := lx.Tokenize()

	p := parser.New(lines, parser.Options{})
	program, _ := p.ParseProgram()

	diags := append(append([]token.Diagnostic(nil), lx.Diagnostics()...), p.Diagnostics()...)
	for _, d := range diags {
		slog.Warn("recovered from malformed input",
			slog.String("source", name),
			slog.Int("line", d.Line),
			slog.String("kind", string(d.Kind)),
			slog.String("message", d.Message))
	}

	if r.opts.DebugAST != "" && name != "" {
		if err := writeDebugAST(program, name, r.opts.DebugAST); err != nil {
			slog.Error("failed to write debug AST", slog.Any("error", err))
		}
	}

	if r.opts.Strict && len(diags) > 0 {
		return program, &DiagnosticsError{Source: src, Diagnostics: diags}
	}
	return program, nil
}

// RunSource compiles and executes src. Runtime errors come back as *Error so the
// caller can show the failing line.
func (r *Runner) RunSource(name, src string) error {
	program, err := r.Compile(name, src)
	if err != nil {
		return err
	}
	slog.Debug("executing", slog.String("source", name), slog.Int("statements", len(program.Statements)))

	if err := r.Eval.Execute(program); err != nil {
		return &Error{Source: src, Err: err}
	}
	return nil
}

func writeDebugAST(program *ast.Program, name, format string) error {
	var out string
	var err error
	ext := format
	switch format {
	case "json":
		out, err = parser.RenderASTAsJSON(program)
	case "yaml":
		out, err = parser.RenderASTAsYAML(program)
	case "text":
		out = parser.RenderASTAsText(program, 0)
		ext = "txt"
	default:
		return fmt.Errorf("unknown AST format %q", format)
	}
	if err != nil {
		return err
	}
	path := name + ".ast." + ext
	slog.Debug("writing debug AST", slog.String("path", path))
	return os.WriteFile(path, []byte(out), 0o644)
}

// Error is a failed run. It unwraps to the evaluator's error.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Render formats the error with the surrounding source lines when it carries a
// line number.
func (e *Error) Render() string {
	var rt *object.RuntimeError
	if !errors.As(e.Err, &rt) || rt.Line == 0 {
		return "Error: " + e.Err.Error()
	}
	return fmt.Sprintf("Runtime error: %s\n%s\n", e.Err.Error(),
		util.GetContextLines(e.Source, rt.Line, -1, string(rt.Kind)))
}

// DiagnosticsError collects the recoverable problems of a strict run.
type DiagnosticsError struct {
	Source      string
	Diagnostics []token.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	return fmt.Sprintf("%d problem(s) in source, first: %s", len(e.Diagnostics), e.Diagnostics[0].Error())
}

// Unwrap exposes the first diagnostic to errors.As.
func (e *DiagnosticsError) Unwrap() error { return e.Diagnostics[0] }

func (e *DiagnosticsError) Render() string {
	var out bytes.Buffer
	out.WriteString("Errors:\n")
	displayCount := min(len(e.Diagnostics), MaxErrorsToShow)
	for _, d := range e.Diagnostics[:displayCount] {
		out.WriteString(fmt.Sprintf("\t%s\n", d.Error()))
		out.WriteString(util.GetContextLines(e.Source, d.Line, d.Column, d.Message))
		out.WriteString("\n")
	}
	if displayCount < len(e.Diagnostics) {
		out.WriteString(fmt.Sprintf("\n...and %d more!\n", len(e.Diagnostics)-displayCount))
	}
	return out.String()
}

// Render returns a user-facing description of any error returned by the runner.
func Render(err error) string {
	var rendered interface{ Render() string }
	if errors.As(err, &rendered) {
		return rendered.Render()
	}
	return "Error: " + err.Error()
}
