package object

import "caml/internal/ast"

// Instance is a declared object, window or button.
type Instance struct {
	Name       string
	IsWindow   bool
	IsButton   bool
	Parent     string
	Properties *Dict
	Methods    map[string]*ast.FunctionDef
	Buttons    []string
}

func newInstance(name string) *Instance {
	return &Instance{
		Name:       name,
		Properties: NewDict(),
		Methods:    make(map[string]*ast.FunctionDef),
	}
}

func (i *Instance) AddButton(name string) {
	for _, b := range i.Buttons {
		if b == name {
			return
		}
	}
	i.Buttons = append(i.Buttons, name)
}

// Registry holds the program-wide tables that live outside the scope stack.
type Registry struct {
	functions map[string]*ast.FunctionDef
	objects   map[string]*Instance
	modules   map[string][]string
	exports   []string
}

func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]*ast.FunctionDef),
		objects:   make(map[string]*Instance),
		modules:   make(map[string][]string),
	}
}

func (r *Registry) DefineFunction(name string, def *ast.FunctionDef) {
	r.functions[name] = def
}

func (r *Registry) Function(name string) (*ast.FunctionDef, bool) {
	def, ok := r.functions[name]
	return def, ok
}

func (r *Registry) Object(name string) (*Instance, bool) {
	obj, ok := r.objects[name]
	return obj, ok
}

// EnsureObject returns the named object, creating an empty one when missing.
func (r *Registry) EnsureObject(name string) *Instance {
	if obj, ok := r.objects[name]; ok {
		return obj
	}
	obj := newInstance(name)
	r.objects[name] = obj
	return obj
}

func (r *Registry) Import(file string, names []string) {
	r.modules[file] = append([]string(nil), names...)
}

func (r *Registry) Module(file string) ([]string, bool) {
	names, ok := r.modules[file]
	return names, ok
}

func (r *Registry) Export(names ...string) {
	r.exports = append(r.exports, names...)
}

func (r *Registry) Exports() []string {
	return append([]string(nil), r.exports...)
}
