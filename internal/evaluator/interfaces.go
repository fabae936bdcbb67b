package evaluator

import "caml/internal/object"

// Console is the text surface used by Display and Interact.
type Console interface {
	// Print writes text followed by a newline.
	Print(text string)
	// Prompt writes text + ": " and returns one line of input, empty on EOF or interrupt.
	Prompt(text string) string
}

// FileSystem receives exactly one call per executed file statement.
type FileSystem interface {
	Create(path string) error
	Delete(path string) error
	WriteAppend(path, text string) error
	WritePrepend(path, text string) error
	FindReplace(path, find, replace string) error
	Rename(path, newPath string) error
}

// ObjectRecord describes a declared object after its body ran.
type ObjectRecord struct {
	Name       string
	IsWindow   bool
	IsButton   bool
	Parent     string
	Properties *object.Dict
	Buttons    []string
}

type PropertyEvent struct {
	Object   string
	Property string
	Value    object.Object
}

// Bindings is notified of object declarations and property writes, typically to
// drive a GUI layer or a journal.
type Bindings interface {
	DeclareObject(rec ObjectRecord) error
	PropertyChanged(ev PropertyEvent) error
}

type nopBindings struct{}

func (nopBindings) DeclareObject(ObjectRecord) error    { return nil }
func (nopBindings) PropertyChanged(PropertyEvent) error { return nil }
