package parser

import (
	"caml/internal/ast"
	"fmt"
	"reflect"
	"strings"
)

// RenderASTAsText produces a human-centric, indented, sentence-like representation of the AST,
// one statement per line with its source line number.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case ast.Statement:
		body := children(n)
		head := n.String()
		if body != nil {
			// String() nests the body; only the header belongs on this line
			head = strings.SplitN(head, "\n", 2)[0]
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s[%3d] %s", sp, n.SourceLine(), head))
		for _, s := range body {
			sb.WriteString("\n")
			sb.WriteString(RenderASTAsText(s, indent+1))
		}
		return sb.String()

	default:
		return sp + node.String()
	}
}

func children(s ast.Statement) []ast.Statement {
	switch n := s.(type) {
	case *ast.FunctionDef:
		return n.Body
	case *ast.If:
		return n.Body
	case *ast.OrIf:
		return n.Body
	case *ast.Otherwise:
		return n.Body
	case *ast.Repeat:
		return n.Body
	case *ast.DoUntil:
		return n.Body
	case *ast.ForEach:
		return n.Body
	case *ast.ObjectDecl:
		return n.Body
	}
	return nil
}
