package parser

import (
	"bytes"
	"caml/internal/ast"
	"encoding/json"
	"fmt"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a machine-centric map structure.
// This output is designed for stability, canonical representation, and tool-chain consumption.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"kind":  literalKind(n.Kind),
			"token": n.TokenLiteral(),
		}

	case *ast.Comparison:
		return map[string]interface{}{
			"type":  "Comparison",
			"left":  WalkAST(n.Left),
			"op":    string(n.Op),
			"right": WalkAST(n.Right),
		}

	case *ast.Display:
		return stmt(n, "Display", "value", WalkAST(n.Value), "bold", n.Bold)
	case *ast.Interact:
		return stmt(n, "Interact", "prompt", WalkAST(n.Prompt), "bold", n.Bold, "target", n.Target)
	case *ast.Assign:
		return stmt(n, "Assign", "target", n.Target, "value", WalkAST(n.Value))
	case *ast.Set:
		return stmt(n, "Set", "target", n.Target, "value", WalkAST(n.Value))
	case *ast.Change:
		return stmt(n, "Change", "target", n.Target, "value", WalkAST(n.Value))
	case *ast.Update:
		return stmt(n, "Update", "op", string(n.Op), "target", n.Target, "operand", WalkAST(n.Operand))
	case *ast.BlockVar:
		return stmt(n, "BlockVar", "target", n.Target)
	case *ast.FunctionDef:
		return stmt(n, "FunctionDef", "name", n.Name, "params", n.Params, "body", walkStatements(n.Body))
	case *ast.FunctionCall:
		return stmt(n, "FunctionCall", "name", n.Name, "args", walkExpressions(n.Args))
	case *ast.FunctionAbbrev:
		return stmt(n, "FunctionAbbrev", "original", n.Original, "alias", n.Alias)
	case *ast.If:
		return stmt(n, "If", "condition", WalkAST(n.Condition), "body", walkStatements(n.Body))
	case *ast.OrIf:
		return stmt(n, "OrIf", "condition", WalkAST(n.Condition), "body", walkStatements(n.Body))
	case *ast.Otherwise:
		return stmt(n, "Otherwise", "body", walkStatements(n.Body))
	case *ast.Repeat:
		return stmt(n, "Repeat", "count", WalkAST(n.Count), "body", walkStatements(n.Body))
	case *ast.DoUntil:
		return stmt(n, "DoUntil", "condition", WalkAST(n.Condition), "body", walkStatements(n.Body))
	case *ast.ForEach:
		return stmt(n, "ForEach", "variable", n.Variable, "iterable", n.Iterable, "body", walkStatements(n.Body))
	case *ast.ListDecl:
		return stmt(n, "ListDecl", "name", n.Name, "elements", walkExpressions(n.Elements))
	case *ast.ListAdd:
		return stmt(n, "ListAdd", "list", n.List, "value", WalkAST(n.Value))
	case *ast.ListRemove:
		return stmt(n, "ListRemove", "list", n.List, "value", WalkAST(n.Value))
	case *ast.DictDecl:
		entries := make([]interface{}, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]interface{}{"key": e.Key, "value": WalkAST(e.Value)}
		}
		return stmt(n, "DictDecl", "name", n.Name, "entries", entries)
	case *ast.DictAdd:
		return stmt(n, "DictAdd", "dict", n.Dict, "key", n.Key, "value", WalkAST(n.Value))
	case *ast.DictRemove:
		return stmt(n, "DictRemove", "dict", n.Dict, "key", n.Key)
	case *ast.ObjectDecl:
		return stmt(n, "ObjectDecl", "kind", string(n.Kind), "name", n.Name, "parent", n.Parent, "body", walkStatements(n.Body))
	case *ast.ObjectSetProp:
		return stmt(n, "ObjectSetProp", "object", n.Object, "property", n.Property, "value", WalkAST(n.Value))
	case *ast.ObjectChangeProp:
		return stmt(n, "ObjectChangeProp", "object", n.Object, "property", n.Property, "value", WalkAST(n.Value))
	case *ast.ObjectDeleteProp:
		return stmt(n, "ObjectDeleteProp", "object", n.Object, "property", n.Property)
	case *ast.ObjectBlockProp:
		return stmt(n, "ObjectBlockProp", "object", n.Object, "property", n.Property)
	case *ast.ObjectAddFunction:
		return stmt(n, "ObjectAddFunction", "object", n.Object, "function", n.Function)
	case *ast.MathCall:
		return stmt(n, "MathCall", "func", n.Func, "args", walkExpressions(n.Args))
	case *ast.FileOp:
		return stmt(n, "FileOp", "op", string(n.Op), "path", WalkAST(n.Path), "text", WalkAST(n.Text),
			"find", WalkAST(n.Find), "replace", WalkAST(n.Replace), "newPath", WalkAST(n.NewPath))
	case *ast.GetLength:
		return stmt(n, "GetLength", "target", WalkAST(n.Target))
	case *ast.GetCase:
		return stmt(n, "GetCase", "target", WalkAST(n.Target), "mode", n.Mode)
	case *ast.GetType:
		return stmt(n, "GetType", "target", WalkAST(n.Target))
	case *ast.Import:
		return stmt(n, "Import", "names", n.Names, "file", n.File)
	case *ast.Export:
		return stmt(n, "Export", "names", n.Names)

	default:
		return map[string]interface{}{
			"type":  fmt.Sprintf("%T", n),
			"token": safeTokenLiteral(n),
		}
	}
}

// stmt builds the map for a statement node from alternating key/value pairs.
func stmt(n ast.Statement, kind string, kv ...interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"type":  kind,
		"line":  n.SourceLine(),
		"token": n.TokenLiteral(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func walkStatements(stmts []ast.Statement) []interface{} {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		out[i] = WalkAST(s)
	}
	return out
}

func walkExpressions(exprs []ast.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = WalkAST(e)
	}
	return out
}

func literalKind(k ast.LiteralKind) string {
	switch k {
	case ast.IntegerLit:
		return "integer"
	case ast.FloatLit:
		return "float"
	case ast.BooleanLit:
		return "boolean"
	case ast.NullLit:
		return "null"
	}
	return "text"
}

func safeTokenLiteral(node ast.Node) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return ""
	}
	return node.TokenLiteral()
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
