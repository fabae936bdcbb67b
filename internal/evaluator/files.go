package evaluator

import (
	"caml/internal/ast"
	"caml/internal/object"
	"log/slog"
)

// evalFileOp turns a file statement into exactly one FileSystem call. Operands are
// resolved like any other value and rendered as text. Errors from the file system
// are returned as they are.
func (e *Evaluator) evalFileOp(node *ast.FileOp) (object.Object, error) {
	if e.Files == nil {
		return nil, errNoFileSystem
	}

	text := func(expr ast.Expression) (string, error) {
		val, err := e.evalExpression(expr)
		if err != nil {
			return "", err
		}
		return val.Inspect(), nil
	}

	path, err := text(node.Path)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case ast.FileCreate:
		err = e.Files.Create(path)

	case ast.FileDelete:
		err = e.Files.Delete(path)

	case ast.FileAppend, ast.FilePrepend:
		var content string
		if content, err = text(node.Text); err != nil {
			return nil, err
		}
		if node.Op == ast.FileAppend {
			err = e.Files.WriteAppend(path, content)
		} else {
			err = e.Files.WritePrepend(path, content)
		}

	case ast.FileFindReplace:
		var find, replace string
		if find, err = text(node.Find); err != nil {
			return nil, err
		}
		if replace, err = text(node.Replace); err != nil {
			return nil, err
		}
		err = e.Files.FindReplace(path, find, replace)

	case ast.FileRename:
		var newPath string
		if newPath, err = text(node.NewPath); err != nil {
			return nil, err
		}
		err = e.Files.Rename(path, newPath)
	}

	if err != nil {
		return nil, err
	}
	slog.Debug("file effect", slog.String("op", string(node.Op)), slog.String("path", path))
	return object.NULL, nil
}
