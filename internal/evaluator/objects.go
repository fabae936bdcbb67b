package evaluator

import (
	"caml/internal/ast"
	"caml/internal/object"
	"log/slog"
)

// evalObjectDecl registers the object, runs its body with the object as the
// enclosing owner and then reports the finished record to the bindings.
// A button without an explicit parent belongs to the enclosing window.
func (e *Evaluator) evalObjectDecl(node *ast.ObjectDecl) (object.Object, error) {
	inst := e.Registry.EnsureObject(node.Name)
	switch node.Kind {
	case ast.Window:
		inst.IsWindow = true
	case ast.Button:
		inst.IsButton = true
		inst.Parent = node.Parent
		if inst.Parent == "" {
			if owner := e.enclosingWindow(); owner != nil {
				inst.Parent = owner.Name
			}
		}
		if inst.Parent != "" {
			e.Registry.EnsureObject(inst.Parent).AddButton(inst.Name)
		}
	}

	e.owners = append(e.owners, inst)
	_, err := e.evalBlock(node.Body)
	e.owners = e.owners[:len(e.owners)-1]
	if err != nil {
		return nil, err
	}

	rec := ObjectRecord{
		Name:       inst.Name,
		IsWindow:   inst.IsWindow,
		IsButton:   inst.IsButton,
		Parent:     inst.Parent,
		Properties: object.Copy(inst.Properties).(*object.Dict),
		Buttons:    append([]string(nil), inst.Buttons...),
	}
	if err := e.Bindings.DeclareObject(rec); err != nil {
		return nil, err
	}
	slog.Debug("object declared",
		slog.String("name", rec.Name),
		slog.String("kind", string(node.Kind)),
		slog.Int("properties", rec.Properties.Len()))

	return object.NULL, nil
}

func (e *Evaluator) enclosingWindow() *object.Instance {
	for i := len(e.owners) - 1; i >= 0; i-- {
		if e.owners[i].IsWindow {
			return e.owners[i]
		}
	}
	return nil
}

// setProperty writes a property and notifies the bindings. With existingOnly the
// write is skipped when the property has not been set before.
func (e *Evaluator) setProperty(objName, prop string, value ast.Expression, existingOnly bool) (object.Object, error) {
	val, err := e.evalExpression(value)
	if err != nil {
		return nil, err
	}

	inst := e.Registry.EnsureObject(objName)
	if existingOnly {
		if _, ok := inst.Properties.Get(prop); !ok {
			slog.Debug("change of unset property ignored", slog.String("object", objName), slog.String("property", prop))
			return object.NULL, nil
		}
	}
	inst.Properties.Set(prop, val)

	if err := e.Bindings.PropertyChanged(PropertyEvent{Object: objName, Property: prop, Value: val}); err != nil {
		return nil, err
	}
	return object.NULL, nil
}
