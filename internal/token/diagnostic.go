package token

import "fmt"

type DiagnosticKind string

const (
	LexAnomaly DiagnosticKind = "LexAnomaly"
	ParseSkip  DiagnosticKind = "ParseSkip"
)

// Diagnostic records a recovered lexing or parsing problem. Permissive runs only
// report them; strict runs fail with the first one.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%3d:%2d] %s: %s", d.Line, d.Column, d.Kind, d.Message)
}
